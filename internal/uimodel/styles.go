package uimodel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Styles holds the lipgloss styles used by IconGlyph and RenderTable to
// render process list, detail and overlay data.
type Styles struct {
	Running   lipgloss.Style
	Completed lipgloss.Style
	Failed    lipgloss.Style
	Pending   lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Header    lipgloss.Style
}

// DefaultStyles returns the fixed status-colored palette used across the
// process list, detail view, and overlay.
func DefaultStyles() Styles {
	return Styles{
		Running:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa5b1")),
		Bold:      lipgloss.NewStyle().Bold(true),
		Header:    lipgloss.NewStyle().Bold(true).Padding(0, 1),
	}
}

// IconGlyph renders a StatusIcon through the styled lipgloss palette.
func (s Styles) IconGlyph(icon StatusIcon) string {
	switch icon {
	case IconRunning:
		return s.Running.Render("●")
	case IconCompleted:
		return s.Completed.Render("✓")
	case IconFailed:
		return s.Failed.Render("✗")
	default:
		return s.Pending.Render("○")
	}
}

// PlainIconGlyph renders a StatusIcon using fatih/color instead of
// lipgloss, for non-lipgloss contexts (log files, plain terminals without
// a TTY profile) that still want colored status output.
func PlainIconGlyph(icon StatusIcon) string {
	switch icon {
	case IconRunning:
		return color.GreenString("●")
	case IconCompleted:
		return color.BlueString("✓")
	case IconFailed:
		return color.RedString("✗")
	default:
		return color.YellowString("○")
	}
}

// RenderTable renders rows as padded, column-aligned text without borders,
// returning "" when there are no rows, matching the
// teacher's column-width-then-pad approach.
func RenderTable(styles Styles, headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styles.Header.Width(widths[i] + 2).Render(h))
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(lipgloss.NewStyle().Width(widths[i] + 2).Render(cell))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
