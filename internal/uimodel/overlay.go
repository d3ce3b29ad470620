package uimodel

import (
	"sort"

	"navshell/internal/shell"
)

// Tab is one of the three panels a ShellPanelOverlay cycles between.
type Tab int

const (
	TabRunning Tab = iota
	TabCompleted
	TabFailed
)

func (t Tab) String() string {
	switch t {
	case TabRunning:
		return "running"
	case TabCompleted:
		return "completed"
	case TabFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ControlCommand is a user-initiated action dispatched from the overlay.
type ControlCommand int

const (
	CommandKill ControlCommand = iota
	CommandResume
	CommandBackgroundRequest
)

// ShellPanelOverlay is the tabbed running/completed/failed view, with
// per-tab selection persistence, a keyboard map, and transient status
// messages surfaced to the user (e.g. after an inapplicable command).
type ShellPanelOverlay struct {
	ActiveTab      Tab
	selectionByTab map[Tab]string
	StatusMessage  string
}

// NewShellPanelOverlay returns an overlay opened on the Running tab.
func NewShellPanelOverlay() *ShellPanelOverlay {
	return &ShellPanelOverlay{
		ActiveTab:      TabRunning,
		selectionByTab: make(map[Tab]string),
	}
}

// SwitchTab moves to the given tab, preserving each tab's last selection.
func (o *ShellPanelOverlay) SwitchTab(t Tab) {
	o.ActiveTab = t
}

// Select records the currently highlighted shell id for the active tab.
func (o *ShellPanelOverlay) Select(shellID string) {
	o.selectionByTab[o.ActiveTab] = shellID
}

// Selected returns the persisted selection for the active tab, if any.
func (o *ShellPanelOverlay) Selected() (string, bool) {
	id, ok := o.selectionByTab[o.ActiveTab]
	return id, ok
}

// KeyBinding documents one entry of the §6 keyboard surface.
type KeyBinding struct {
	Key         string
	Description string
}

// KeyMap is the fixed keyboard surface for the shell panel overlay.
var KeyMap = []KeyBinding{
	{"Esc / q", "close overlay"},
	{"← / →", "switch tabs"},
	{"↑ / ↓", "move selection"},
	{"Enter", "open details"},
	{"k", "kill"},
	{"d", "toggle diagnostics"},
	{"r", "resume"},
	{"Ctrl+R", "background"},
	{"c", "copy logs"},
	{"/", "start filter"},
	{"n / N", "next / previous match"},
	{"b / B", "cycle bookmarks"},
}

// applicability reports whether a control command makes sense for a
// snapshot's current status, per §4.5's pre-check rule.
func applicability(cmd ControlCommand, s shell.Snapshot) bool {
	switch cmd {
	case CommandKill:
		return s.Status == shell.Running || s.Status == shell.Pending
	case CommandResume:
		return s.Status == shell.Completed || s.Status == shell.Failed
	case CommandBackgroundRequest:
		return s.Status == shell.Running && s.StartMode == shell.Foreground
	default:
		return false
	}
}

// Dispatch checks cmd's applicability against snapshot before surfacing it
// to a real control call; an inapplicable command is converted into a
// transient status message instead of being sent, and Dispatch reports
// false so the caller knows not to issue the underlying request.
func (o *ShellPanelOverlay) Dispatch(cmd ControlCommand, s shell.Snapshot) bool {
	if applicability(cmd, s) {
		o.StatusMessage = ""
		return true
	}
	o.StatusMessage = inapplicableMessage(cmd, s)
	return false
}

func inapplicableMessage(cmd ControlCommand, s shell.Snapshot) string {
	label := s.Label
	if label == "" {
		label = s.ShellID
	}
	switch cmd {
	case CommandKill:
		return "cannot kill " + label + ": already finished"
	case CommandResume:
		return "cannot resume " + label + ": still running"
	case CommandBackgroundRequest:
		return "cannot background " + label + ": not in foreground"
	default:
		return "unsupported command for " + label
	}
}

// CycleBookmark selects the next (forward) or previous bookmarked shell
// among snapshots, wrapping around, and persists it as the active tab's
// selection. Snapshots without a bookmark are skipped. Returns false if
// snapshots carries no bookmarked entries at all.
func (o *ShellPanelOverlay) CycleBookmark(snapshots []shell.Snapshot, forward bool) (string, bool) {
	bookmarked := make([]shell.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Bookmark != "" {
			bookmarked = append(bookmarked, s)
		}
	}
	if len(bookmarked) == 0 {
		return "", false
	}
	sort.Slice(bookmarked, func(i, j int) bool { return bookmarked[i].Bookmark < bookmarked[j].Bookmark })

	current, _ := o.Selected()
	idx := -1
	for i, s := range bookmarked {
		if s.ShellID == current {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx == -1:
		next = 0
	case forward:
		next = (idx + 1) % len(bookmarked)
	default:
		next = (idx - 1 + len(bookmarked)) % len(bookmarked)
	}

	o.Select(bookmarked[next].ShellID)
	return bookmarked[next].ShellID, true
}

// SetStatus installs a transient status message (e.g. "Requested kill for
// shell-3") that a renderer shows until the next dispatch or clear.
func (o *ShellPanelOverlay) SetStatus(message string) {
	o.StatusMessage = message
}

// ClearStatus drops the current transient status message.
func (o *ShellPanelOverlay) ClearStatus() {
	o.StatusMessage = ""
}
