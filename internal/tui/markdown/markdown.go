// Package markdown renders the short markdown bodies of list rows.
package markdown

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour/v2"
	"github.com/zeebo/xxh3"
)

// Renderer caches one glamour renderer per width and the output of every
// body it rendered, so rows sharing a body are only rendered once.
type Renderer struct {
	mu        sync.Mutex
	style     string
	renderers map[int]*glamour.TermRenderer
	cache     map[uint64]string
}

// New returns a renderer for a glamour standard style ("dark" or "light").
func New(style string) *Renderer {
	return &Renderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[uint64]string),
	}
}

// SetStyle switches the glamour style and drops everything cached.
func (r *Renderer) SetStyle(style string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style == r.style {
		return
	}
	r.style = style
	clear(r.renderers)
	clear(r.cache)
}

// Render renders md wrapped to width. On failure the input is returned as
// is.
func (r *Renderer) Render(md string, width int) string {
	if strings.TrimSpace(md) == "" || width <= 0 {
		return md
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := xxh3.HashString(fmt.Sprintf("%d:%s", width, md))
	if out, ok := r.cache[key]; ok {
		return out
	}

	tr, err := r.renderer(width)
	if err != nil {
		slog.Warn("Failed to create markdown renderer", "error", err)
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		slog.Warn("Failed to render markdown", "error", err)
		return md
	}
	// glamour pads the document with blank lines.
	out = strings.Trim(out, "\n")
	r.cache[key] = out
	return out
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}
