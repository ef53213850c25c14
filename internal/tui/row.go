package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tujuhre12/vscroll/internal/config"
	"github.com/tujuhre12/vscroll/internal/demo"
	"github.com/tujuhre12/vscroll/internal/tui/markdown"
	"github.com/tujuhre12/vscroll/internal/tui/styles"
)

const targetMarker = "🎯 Target"

// row is a list item showing one demo record.
type row struct {
	item   demo.Item
	theme  *styles.Theme
	md     *markdown.Renderer
	target bool
	// compact rows show the first line of the body only, for the
	// fixed-height layout.
	compact bool
}

func (r *row) ID() string {
	return r.item.ID
}

func (r *row) Render(width int) string {
	t := r.theme
	s := t.S()
	bg := t.RowBackground(r.item.Tone == demo.ToneOdd)
	inner := max(width-2, 1)

	header := s.Badge.Render(fmt.Sprintf("#%d", r.item.Index)) + " " +
		s.Title.Render(fmt.Sprintf("Dynamic Row #%d", r.item.Index))
	if r.target {
		header += " " + s.Target.Render(targetMarker)
	}

	var body string
	if r.compact {
		line, _, _ := strings.Cut(r.item.Content, "\n")
		body = s.Muted.Render(ansi.Truncate(stripEmphasis(line), inner, "…"))
	} else {
		body = r.md.Render(r.item.Content, inner)
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(bg).
		Padding(0, 1).
		MarginBottom(1).
		Render(header + "\n" + body)
}

// RowHeights returns the height of every item as the list draws it at
// width with the configured theme.
func RowHeights(cfg *config.Config, items []demo.Item, width int) []float64 {
	theme := styles.ByName(cfg.Theme())
	md := markdown.New(theme.Name)
	heights := make([]float64, len(items))
	for i, item := range items {
		r := &row{item: item, theme: theme, md: md, compact: cfg.List.Fixed}
		heights[i] = float64(lipgloss.Height(r.Render(width)))
	}
	return heights
}

func stripEmphasis(s string) string {
	return strings.NewReplacer("**", "", "*", "").Replace(s)
}
