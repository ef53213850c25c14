package list

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

const veilGlyph = "░"

// veil hides a rendered line behind a shade pattern of the same width.
// Whitespace is kept so the shape of the content still shows through.
func veil(line string, style lipgloss.Style) string {
	plain := ansi.Strip(line)
	var sb strings.Builder
	sb.Grow(len(plain))

	state := -1
	for len(plain) > 0 {
		var cluster string
		var width int
		cluster, plain, width, state = uniseg.FirstGraphemeClusterInString(plain, state)
		if width == 0 {
			continue
		}
		if isBlank(cluster) {
			sb.WriteString(strings.Repeat(" ", width))
			continue
		}
		sb.WriteString(strings.Repeat(veilGlyph, width))
	}
	return style.Render(sb.String())
}

func isBlank(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
