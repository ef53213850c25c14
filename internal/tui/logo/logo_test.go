package logo

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render(lipgloss.Color("#6B50FF"), lipgloss.Color("#FF388B"))

	assert.Equal(t, 6, Height)
	assert.Equal(t, Height, lipgloss.Height(out))
	assert.Equal(t, strings.TrimSuffix(Mark, "\n"), ansi.Strip(out))
}
