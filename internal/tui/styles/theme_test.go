package styles

import (
	"image/color"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hex(t *testing.T, c color.Color) string {
	t.Helper()
	cc, ok := colorful.MakeColor(c)
	require.True(t, ok)
	return cc.Hex()
}

func TestBlend(t *testing.T) {
	t.Parallel()

	black := lipgloss.Color("#000000")
	white := lipgloss.Color("#ffffff")

	assert.Equal(t, "#000000", hex(t, Blend(black, white, 0)))
	assert.Equal(t, "#ffffff", hex(t, Blend(black, white, 1)))
	assert.Equal(t, "#ffffff", hex(t, Blend(black, white, 7)), "amount is clamped")

	mid := hex(t, Blend(black, white, 0.5))
	assert.NotEqual(t, "#000000", mid)
	assert.NotEqual(t, "#ffffff", mid)
}

func TestThemes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "light", ByName("light").Name)
	assert.Equal(t, "dark", ByName("dark").Name)
	assert.Equal(t, "dark", ByName("solarized").Name)

	th := NewDark()
	assert.Same(t, th.S(), th.S(), "styles are built once")
	assert.NotEqual(t, hex(t, th.RowBackground(false)), hex(t, th.RowBackground(true)))
	assert.Equal(t, hex(t, th.FgBase), hex(t, th.Fade(th.FgBase, 0)))
	assert.Equal(t, hex(t, th.BgBase), hex(t, th.Fade(th.FgBase, 1)))
}
