// Package demo generates the rows shown by the interactive list and the
// simulator.
package demo

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

type Tone int

const (
	ToneEven Tone = iota
	ToneOdd
)

type Item struct {
	ID      string
	Index   int
	Content string
	Tone    Tone
}

var sentences = []string{
	"Bubble Tea is a framework for building terminal user interfaces.",
	"**Virtual scrolling** is one of the core techniques for keeping long lists fast.",
	"Lip Gloss brings style definitions to the terminal.",
	"In a variable-height list every row has to be *measured* after it is rendered.",
	"Rendering a hundred thousand rows at once would make any terminal crawl.",
	strings.Repeat("This is a long paragraph meant to check that wrapped text is measured correctly. ", 3) +
		"It keeps going on purpose so the row grows several lines tall. If the measurement were off the list would " +
		"jitter while scrolling, so every rendered row reports its *real* height back to the position table.",
	"Short text.",
	"A medium length sentence that takes roughly two lines, depending on how wide the terminal is.",
}

// Generate returns count items. Contents are picked at random from a fixed
// set of sentences; the same seed always yields the same contents.
func Generate(count int, seed int64) []Item {
	rng := rand.New(rand.NewSource(seed))
	items := make([]Item, max(count, 0))
	for i := range items {
		items[i] = Item{
			ID:      uuid.NewString(),
			Index:   i,
			Content: sentences[rng.Intn(len(sentences))],
			Tone:    Tone(i % 2),
		}
	}
	return items
}

// Contents returns the distinct sentences items can carry.
func Contents() []string {
	out := make([]string, len(sentences))
	copy(out, sentences)
	return out
}
