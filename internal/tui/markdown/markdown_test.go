package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	r := New("dark")

	out := r.Render("Some **bold** words.", 40)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "bold")
	assert.NotContains(t, plain, "**")
	assert.False(t, strings.HasPrefix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n"))

	assert.Equal(t, out, r.Render("Some **bold** words.", 40), "cached")

	long := strings.Repeat("word ", 40)
	assert.Greater(t, strings.Count(r.Render(long, 30), "\n"), 3, "wrapped to the width")

	assert.Equal(t, "", r.Render("", 40))
	assert.Equal(t, "x", r.Render("x", 0))

	r.SetStyle("light")
	assert.Contains(t, ansi.Strip(r.Render("Some **bold** words.", 40)), "bold")
}
