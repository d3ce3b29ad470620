package uimodel

import (
	"strings"

	"navshell/internal/shell"
)

// DetailView is the read model for a single selected shell: full
// lifecycle metadata plus a scrollable, search-filterable log view.
type DetailView struct {
	ShellID     string
	Status      shell.Status
	StartMode   shell.StartMode
	PromotedBy  shell.PromotedBy
	EndedBy     shell.EndedBy
	ExitCode    *int
	Command     []string
	PID         *int
	Reason      string
	Lines       []string
	Truncated   bool

	scrollOffset int
	filter       string
}

// BuildDetailView adapts a snapshot into its detail representation.
func BuildDetailView(s shell.Snapshot) *DetailView {
	v := &DetailView{
		ShellID:    s.ShellID,
		Status:     s.Status,
		StartMode:  s.StartMode,
		PromotedBy: s.PromotedBy,
		EndedBy:    s.EndedBy,
		ExitCode:   s.ExitCode,
		Command:    s.Command,
		PID:        s.PID,
		Reason:     s.Reason,
	}
	if s.Tail != nil {
		v.Lines = s.Tail.Lines
		v.Truncated = s.Tail.Truncated
	}
	return v
}

// SetFilter installs a live search filter over line text; an empty string
// clears it. Setting a filter resets scroll to the top of the filtered view.
func (v *DetailView) SetFilter(filter string) {
	v.filter = filter
	v.scrollOffset = 0
}

// Filter returns the currently active filter string.
func (v *DetailView) Filter() string {
	return v.filter
}

// VisibleLines returns the lines passing the active filter (all lines if
// no filter is set), preserving original order.
func (v *DetailView) VisibleLines() []string {
	if v.filter == "" {
		return v.Lines
	}
	var out []string
	for _, line := range v.Lines {
		if containsFold(line, v.filter) {
			out = append(out, line)
		}
	}
	return out
}

// ScrollOffset returns the current scroll position into VisibleLines.
func (v *DetailView) ScrollOffset() int {
	return v.scrollOffset
}

// Scroll moves the offset by delta, clamped to [0, len(visible)-1].
func (v *DetailView) Scroll(delta int) {
	visible := v.VisibleLines()
	v.scrollOffset += delta
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	if max := len(visible) - 1; max >= 0 && v.scrollOffset > max {
		v.scrollOffset = max
	} else if len(visible) == 0 {
		v.scrollOffset = 0
	}
}

// Window returns up to height lines starting at the scroll offset.
func (v *DetailView) Window(height int) []string {
	visible := v.VisibleLines()
	if v.scrollOffset >= len(visible) {
		return nil
	}
	end := v.scrollOffset + height
	if end > len(visible) {
		end = len(visible)
	}
	return visible[v.scrollOffset:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
