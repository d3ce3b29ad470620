package uimodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"navshell/internal/shell"
)

func TestRowsOrdersRunningBeforeCompleted(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []shell.Snapshot{
		{ShellID: "b", Status: shell.Completed, CreatedAt: base},
		{ShellID: "a", Status: shell.Running, CreatedAt: base.Add(time.Second)},
		{ShellID: "c", Status: shell.Running, CreatedAt: base},
	}

	adapter := NewProcessListAdapter(true, false)
	rows := adapter.Rows(snapshots)

	require.Len(t, rows, 3)
	require.Equal(t, "c", rows[0].ShellID)
	require.Equal(t, "a", rows[1].ShellID)
	require.Equal(t, "b", rows[2].ShellID)
}

func TestRowsExcludesFailedByDefault(t *testing.T) {
	snapshots := []shell.Snapshot{
		{ShellID: "x", Status: shell.Failed, CreatedAt: time.Now()},
	}
	adapter := NewProcessListAdapter(false, false)
	require.Empty(t, adapter.Rows(snapshots))
}

func TestTruncateCommandAddsEllipsis(t *testing.T) {
	out := truncateCommand([]string{"echo", "a very long command line indeed"}, 10)
	require.LessOrEqual(t, len(out), 10)
	require.Contains(t, out, "…")
}

func TestBuildRowUsesLatestTailLineAsPreview(t *testing.T) {
	s := shell.Snapshot{
		ShellID:   "s1",
		Status:    shell.Running,
		CreatedAt: time.Now(),
		Tail:      &shell.TailSnapshot{Lines: []string{"first", "second"}},
	}
	adapter := NewProcessListAdapter(true, true)
	rows := adapter.Rows([]shell.Snapshot{s})
	require.Equal(t, "second", rows[0].OutputPreview)
}
