package uimodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"navshell/internal/shell"
)

func TestDetailViewFilterNarrowsVisibleLines(t *testing.T) {
	s := shell.Snapshot{
		ShellID: "s1",
		Tail:    &shell.TailSnapshot{Lines: []string{"building widget", "done", "ERROR: widget broke"}},
	}
	v := BuildDetailView(s)
	v.SetFilter("widget")

	require.Equal(t, []string{"building widget", "ERROR: widget broke"}, v.VisibleLines())
}

func TestDetailViewScrollClampsToVisibleRange(t *testing.T) {
	s := shell.Snapshot{Tail: &shell.TailSnapshot{Lines: []string{"a", "b", "c"}}}
	v := BuildDetailView(s)

	v.Scroll(100)
	require.Equal(t, 2, v.ScrollOffset())

	v.Scroll(-100)
	require.Equal(t, 0, v.ScrollOffset())
}

func TestDetailViewWindowReturnsBoundedSlice(t *testing.T) {
	s := shell.Snapshot{Tail: &shell.TailSnapshot{Lines: []string{"a", "b", "c", "d"}}}
	v := BuildDetailView(s)
	v.Scroll(1)

	require.Equal(t, []string{"b", "c"}, v.Window(2))
}

func TestDetailViewSetFilterResetsScroll(t *testing.T) {
	s := shell.Snapshot{Tail: &shell.TailSnapshot{Lines: []string{"a", "b", "c"}}}
	v := BuildDetailView(s)
	v.Scroll(2)
	v.SetFilter("a")
	require.Equal(t, 0, v.ScrollOffset())
}
