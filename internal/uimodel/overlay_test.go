package uimodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"navshell/internal/shell"
)

func TestDispatchKillOnRunningSucceeds(t *testing.T) {
	o := NewShellPanelOverlay()
	ok := o.Dispatch(CommandKill, shell.Snapshot{ShellID: "s1", Status: shell.Running})
	require.True(t, ok)
	require.Empty(t, o.StatusMessage)
}

func TestDispatchKillOnFinishedBecomesStatusMessage(t *testing.T) {
	o := NewShellPanelOverlay()
	ok := o.Dispatch(CommandKill, shell.Snapshot{ShellID: "s1", Label: "build", Status: shell.Completed})
	require.False(t, ok)
	require.Contains(t, o.StatusMessage, "build")
	require.Contains(t, o.StatusMessage, "already finished")
}

func TestDispatchBackgroundRequiresForegroundRunning(t *testing.T) {
	o := NewShellPanelOverlay()
	ok := o.Dispatch(CommandBackgroundRequest, shell.Snapshot{Status: shell.Running, StartMode: shell.Background})
	require.False(t, ok)
}

func TestSelectionPersistsPerTab(t *testing.T) {
	o := NewShellPanelOverlay()
	o.Select("shell-1")
	o.SwitchTab(TabCompleted)
	_, ok := o.Selected()
	require.False(t, ok)

	o.Select("shell-2")
	o.SwitchTab(TabRunning)
	id, ok := o.Selected()
	require.True(t, ok)
	require.Equal(t, "shell-1", id)
}

func TestCycleBookmarkSkipsUnbookmarkedAndWraps(t *testing.T) {
	o := NewShellPanelOverlay()
	snapshots := []shell.Snapshot{
		{ShellID: "s1", Bookmark: "build"},
		{ShellID: "s2"},
		{ShellID: "s3", Bookmark: "tests"},
	}

	id, ok := o.CycleBookmark(snapshots, true)
	require.True(t, ok)
	require.Equal(t, "s1", id)

	id, ok = o.CycleBookmark(snapshots, true)
	require.True(t, ok)
	require.Equal(t, "s3", id)

	id, ok = o.CycleBookmark(snapshots, true)
	require.True(t, ok)
	require.Equal(t, "s1", id, "cycling forward past the last bookmark wraps to the first")

	id, ok = o.CycleBookmark(snapshots, false)
	require.True(t, ok)
	require.Equal(t, "s3", id, "cycling backward from the first bookmark wraps to the last")
}

func TestCycleBookmarkReturnsFalseWithNoneBookmarked(t *testing.T) {
	o := NewShellPanelOverlay()
	_, ok := o.CycleBookmark([]shell.Snapshot{{ShellID: "s1"}}, true)
	require.False(t, ok)
}
