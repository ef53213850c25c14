// Package logo draws the vscroll mark.
package logo

import (
	"image/color"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/tujuhre12/vscroll/internal/tui/styles"
)

var Mark = heredoc.Doc(`
	┌───────────┐▲
	│ ▬▬▬▬▬▬▬   │█
	│ ▬▬▬▬      │█
	│ ▬▬▬▬▬▬▬▬  │░
	│ ▬▬▬       │░
	└───────────┘▼
`)

// Height is the number of rows Render returns.
var Height = lipgloss.Height(strings.TrimSuffix(Mark, "\n"))

// Render draws the mark with a vertical gradient from one color to the
// other.
func Render(from, to color.Color) string {
	lines := strings.Split(strings.TrimSuffix(Mark, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		amount := 0.0
		if len(lines) > 1 {
			amount = float64(i) / float64(len(lines)-1)
		}
		out[i] = lipgloss.NewStyle().
			Foreground(styles.Blend(from, to, amount)).
			Render(line)
	}
	return strings.Join(out, "\n")
}
