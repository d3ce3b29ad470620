// Package uimodel is the stateless data-adapter layer a renderer (TUI or
// otherwise) depends on: it turns shell.Snapshot / shell.Event data into
// display-ready rows, never holding a reference to the supervisor itself.
package uimodel

import (
	"sort"
	"strings"
	"time"

	"navshell/internal/shell"
)

// StatusIcon is the coarse status category a renderer maps to a glyph or
// color, independent of any specific rendering library.
type StatusIcon string

const (
	IconRunning   StatusIcon = "running"
	IconCompleted StatusIcon = "completed"
	IconFailed    StatusIcon = "failed"
	IconPending   StatusIcon = "pending"
)

func statusIcon(s shell.Status) StatusIcon {
	switch s {
	case shell.Running:
		return IconRunning
	case shell.Completed:
		return IconCompleted
	case shell.Failed:
		return IconFailed
	default:
		return IconPending
	}
}

// ProcessRow is one line of a process list view.
type ProcessRow struct {
	ShellID        string
	Icon           StatusIcon
	CommandLabel   string
	Runtime        time.Duration
	FriendlyLabel  string
	Bookmark       string
	OutputPreview  string
	LastReason     string
}

// ProcessListAdapter is the ordered live view over a set of snapshots:
// running shells first (oldest first), then optionally completed/failed.
type ProcessListAdapter struct {
	IncludeCompleted bool
	IncludeFailed    bool
	CommandLabelMax  int
	now              func() time.Time
}

// NewProcessListAdapter returns an adapter with the given visibility
// toggles; now defaults to time.Now and is overridable for tests.
func NewProcessListAdapter(includeCompleted, includeFailed bool) *ProcessListAdapter {
	return &ProcessListAdapter{
		IncludeCompleted: includeCompleted,
		IncludeFailed:    includeFailed,
		CommandLabelMax:  48,
		now:              time.Now,
	}
}

// Rows builds the ordered row set from a snapshot slice, as returned by
// shell.Supervisor.Summaries.
func (a *ProcessListAdapter) Rows(snapshots []shell.Snapshot) []ProcessRow {
	now := time.Now
	if a.now != nil {
		now = a.now
	}

	var running, completed, failed []shell.Snapshot
	for _, s := range snapshots {
		switch s.Status {
		case shell.Running, shell.Pending:
			running = append(running, s)
		case shell.Completed:
			if a.IncludeCompleted {
				completed = append(completed, s)
			}
		case shell.Failed:
			if a.IncludeFailed {
				failed = append(failed, s)
			}
		}
	}

	sortByCreatedAtAsc(running)
	sortByCreatedAtAsc(completed)
	sortByCreatedAtAsc(failed)

	rows := make([]ProcessRow, 0, len(running)+len(completed)+len(failed))
	for _, s := range running {
		rows = append(rows, a.buildRow(s, now))
	}
	for _, s := range completed {
		rows = append(rows, a.buildRow(s, now))
	}
	for _, s := range failed {
		rows = append(rows, a.buildRow(s, now))
	}
	return rows
}

func sortByCreatedAtAsc(snapshots []shell.Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
}

func (a *ProcessListAdapter) buildRow(s shell.Snapshot, now func() time.Time) ProcessRow {
	end := now()
	if s.CompletedAt != nil {
		end = *s.CompletedAt
	}
	runtime := end.Sub(s.CreatedAt)
	if runtime < 0 {
		runtime = 0
	}

	label := s.Label
	if label == "" {
		label = s.ShellID
	}

	preview := ""
	if s.Tail != nil && len(s.Tail.Lines) > 0 {
		preview = s.Tail.Lines[len(s.Tail.Lines)-1]
	}

	return ProcessRow{
		ShellID:       s.ShellID,
		Icon:          statusIcon(s.Status),
		CommandLabel:  truncateCommand(s.Command, a.commandLabelMax()),
		Runtime:       runtime,
		FriendlyLabel: label,
		Bookmark:      s.Bookmark,
		OutputPreview: preview,
		LastReason:    s.Reason,
	}
}

func (a *ProcessListAdapter) commandLabelMax() int {
	if a.CommandLabelMax <= 0 {
		return 48
	}
	return a.CommandLabelMax
}

func truncateCommand(command []string, max int) string {
	joined := strings.Join(command, " ")
	if len(joined) <= max {
		return joined
	}
	const ellipsis = "…"
	if max <= len(ellipsis) {
		return joined[:max]
	}
	return joined[:max-len(ellipsis)] + ellipsis
}
