// Package virtual implements the bookkeeping behind a vertically scrolling,
// single-column list whose item heights are only known once the items are
// rendered.
//
// A Layout maps item indices to offsets. Table is the variable-height
// layout: every entry starts at an estimated height and is corrected in
// place when the host reports a measurement. Fixed is the constant-height
// layout. Navigator drives programmatic jumps over either of them.
package virtual

import (
	"fmt"
	"math"
	"sort"
)

// Epsilon is the smallest change Measure accepts for an entry that has
// already been measured. Smaller deltas are sub-row jitter from the host's
// layout pass and would otherwise feed back into another render.
const Epsilon = 0.5

// Layout is the position table shared by the resolver and the navigator.
type Layout interface {
	// Len returns the number of items.
	Len() int
	// Top returns the offset of the leading edge of the item at index.
	Top(index int) float64
	// Height returns the current (estimated or measured) height of the item.
	Height(index int) float64
	// TotalHeight returns the offset of the trailing edge of the last item.
	TotalHeight() float64
	// ResolveStart returns the first item whose trailing edge is past offset.
	ResolveStart(offset float64) int
	// Measure records a rendered height and reports whether any position
	// moved as a result.
	Measure(index int, height float64) bool
}

// Entry is the position bookkeeping of one item.
type Entry struct {
	Index    int
	Height   float64
	Top      float64
	Bottom   float64
	Measured bool
}

// Table is a variable-height Layout. It exclusively owns its entries;
// callers only ever see copies.
type Table struct {
	entries   []Entry
	estimated float64
	measured  int
}

var _ Layout = (*Table)(nil)

// NewTable returns a table of count entries, each estimated at
// estimatedHeight.
func NewTable(count int, estimatedHeight float64) *Table {
	count = max(count, 0)
	estimatedHeight = sanitizeHeight(estimatedHeight)

	t := &Table{
		entries:   make([]Entry, count),
		estimated: estimatedHeight,
	}
	for i := range t.entries {
		top := float64(i) * estimatedHeight
		t.entries[i] = Entry{
			Index:  i,
			Height: estimatedHeight,
			Top:    top,
			Bottom: top + estimatedHeight,
		}
	}
	return t
}

// Len implements Layout.
func (t *Table) Len() int {
	return len(t.entries)
}

// EstimatedHeight returns the height unmeasured entries start with.
func (t *Table) EstimatedHeight() float64 {
	return t.estimated
}

// MeasuredCount returns how many entries have received a measurement.
func (t *Table) MeasuredCount() int {
	return t.measured
}

// Entry returns a copy of the entry at index. It panics when index is out
// of range.
func (t *Table) Entry(index int) Entry {
	t.mustContain(index)
	return t.entries[index]
}

// Top implements Layout.
func (t *Table) Top(index int) float64 {
	t.mustContain(index)
	return t.entries[index].Top
}

// Height implements Layout.
func (t *Table) Height(index int) float64 {
	t.mustContain(index)
	return t.entries[index].Height
}

// TotalHeight implements Layout. It is what the host sizes its scrollable
// area with, so scrollbar proportions stay right while most entries are
// still estimates.
func (t *Table) TotalHeight() float64 {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[len(t.entries)-1].Bottom
}

// Measure records the rendered height of the entry at index.
//
// Re-measuring an entry within Epsilon of its current height is a no-op.
// Otherwise the entry is updated and every later entry is shifted in a
// single pass. Measure reports whether any position moved.
//
// index must be in range: an out-of-range index is a programming error in
// the host and panics instead of touching neighbouring entries.
func (t *Table) Measure(index int, height float64) bool {
	t.mustContain(index)
	height = sanitizeHeight(height)

	e := &t.entries[index]
	if e.Measured && math.Abs(height-e.Height) < Epsilon {
		return false
	}
	if !e.Measured {
		e.Measured = true
		t.measured++
	}

	delta := height - e.Height
	if delta == 0 {
		return false
	}
	e.Height = height
	e.Bottom = e.Top + height

	for i := index + 1; i < len(t.entries); i++ {
		prev := t.entries[i-1].Bottom
		t.entries[i].Top = prev
		t.entries[i].Bottom = prev + t.entries[i].Height
	}
	return true
}

// ResolveStart implements Layout with a binary search over the trailing
// edges. An entry whose bottom sits exactly on offset has been fully
// scrolled past, so the next one is the start.
func (t *Table) ResolveStart(offset float64) int {
	n := len(t.entries)
	if n == 0 || offset <= 0 || math.IsNaN(offset) {
		return 0
	}
	if offset >= t.TotalHeight() {
		return n - 1
	}
	return sort.Search(n, func(i int) bool {
		return t.entries[i].Bottom > offset
	})
}

func (t *Table) mustContain(index int) {
	if index < 0 || index >= len(t.entries) {
		panic(fmt.Sprintf("virtual: index %d out of range [0, %d)", index, len(t.entries)))
	}
}

// sanitizeHeight maps heights the table cannot represent (negative, NaN,
// infinite) to zero.
func sanitizeHeight(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}
