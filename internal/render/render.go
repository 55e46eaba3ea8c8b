package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/model"
)

// Styles decorates span values per tag.
type Styles struct {
	Equal   func(string) string
	Added   func(string) string
	Removed func(string) string
}

var (
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")). // Green
			Underline(true).
			TabWidth(lipgloss.NoTabConversion)
	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("197")). // Red
			Strikethrough(true).
			TabWidth(lipgloss.NoTabConversion)
	dividerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)
)

// DefaultStyles colors changes for a terminal.
func DefaultStyles() Styles {
	return Styles{
		Equal:   identity,
		Added:   perLine(addedStyle),
		Removed: perLine(removedStyle),
	}
}

// PlainStyles marks changes wdiff-style for output without color.
func PlainStyles() Styles {
	return Styles{
		Equal:   identity,
		Added:   func(s string) string { return "{+" + s + "+}" },
		Removed: func(s string) string { return "[-" + s + "-]" },
	}
}

func identity(s string) string { return s }

// perLine styles each line separately. Styling a multi-line value in one
// call would pad every line to the widest one. A trailing \r stays outside
// the styled text since Render drops it.
func perLine(style lipgloss.Style) func(string) string {
	return func(s string) string {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			body, cr := strings.CutSuffix(line, "\r")
			if body == "" {
				continue
			}
			lines[i] = style.Render(body)
			if cr {
				lines[i] += "\r"
			}
		}
		return strings.Join(lines, "\n")
	}
}

// Inline shows every span.
func Inline(spans []model.Span, st Styles) string {
	return write(spans, st, true, true)
}

// Original shows the old text: added spans are hidden.
func Original(spans []model.Span, st Styles) string {
	return write(spans, st, false, true)
}

// Modified shows the new text: removed spans are hidden.
func Modified(spans []model.Span, st Styles) string {
	return write(spans, st, true, false)
}

func write(spans []model.Span, st Styles, showAdded, showRemoved bool) string {
	var b strings.Builder
	for _, s := range spans {
		switch {
		case s.Unchanged():
			b.WriteString(st.Equal(s.Value))
		case s.Added:
			if showAdded {
				b.WriteString(st.Added(s.Value))
			}
		case showRemoved:
			b.WriteString(st.Removed(s.Value))
		}
	}
	return b.String()
}

// Split puts the original and modified views side by side within width
// columns, wrapping long lines.
func Split(spans []model.Span, st Styles, width int) string {
	col := max((width-3)/2, 10)
	left := lipgloss.NewStyle().Width(col).Render(Original(spans, st))
	right := dividerStyle.Width(col).Render(Modified(spans, st))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// View renders spans in the named view.
func View(view string, spans []model.Span, st Styles, width int) string {
	switch view {
	case cli.ViewOriginal:
		return Original(spans, st)
	case cli.ViewModified:
		return Modified(spans, st)
	case cli.ViewSplit:
		return Split(spans, st, width)
	default:
		return Inline(spans, st)
	}
}

// NextView cycles through the views in a fixed order.
func NextView(view string) string {
	switch view {
	case cli.ViewInline:
		return cli.ViewOriginal
	case cli.ViewOriginal:
		return cli.ViewModified
	case cli.ViewModified:
		return cli.ViewSplit
	default:
		return cli.ViewInline
	}
}

// StatsLine summarizes a result on one line.
func StatsLine(r *model.Result) string {
	if r.Stats.Added == 0 && r.Stats.Removed == 0 {
		return fmt.Sprintf("No differences (%d tokens, %s)", r.Stats.Unchanged, r.Engine)
	}
	return fmt.Sprintf("+%d -%d =%d tokens (%s)", r.Stats.Added, r.Stats.Removed, r.Stats.Unchanged, r.Engine)
}
