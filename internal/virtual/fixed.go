package virtual

import (
	"fmt"
	"math"
)

// Default smart-hybrid thresholds. A fixed-height list can afford a longer
// animated scroll because the target offset never moves while scrolling.
const (
	DefaultVariableThreshold = 50
	DefaultFixedThreshold    = 100
)

// Fixed is a Layout where every item has the same height. Measurements are
// ignored and the start index is computed in constant time.
type Fixed struct {
	count  int
	height float64
}

var _ Layout = (*Fixed)(nil)

// NewFixed returns a constant-height layout.
func NewFixed(count int, itemHeight float64) *Fixed {
	return &Fixed{
		count:  max(count, 0),
		height: sanitizeHeight(itemHeight),
	}
}

func (f *Fixed) Len() int {
	return f.count
}

func (f *Fixed) Top(index int) float64 {
	f.mustContain(index)
	return float64(index) * f.height
}

func (f *Fixed) Height(index int) float64 {
	f.mustContain(index)
	return f.height
}

func (f *Fixed) TotalHeight() float64 {
	return float64(f.count) * f.height
}

func (f *Fixed) ResolveStart(offset float64) int {
	if f.count == 0 || f.height == 0 || offset <= 0 || math.IsNaN(offset) {
		return 0
	}
	if offset >= f.TotalHeight() {
		return f.count - 1
	}
	return min(int(math.Floor(offset/f.height)), f.count-1)
}

// Measure always reports false: rows in a fixed layout cannot change size.
func (f *Fixed) Measure(index int, _ float64) bool {
	f.mustContain(index)
	return false
}

func (f *Fixed) mustContain(index int) {
	if index < 0 || index >= f.count {
		panic(fmt.Sprintf("virtual: index %d out of range [0, %d)", index, f.count))
	}
}

// DefaultThreshold returns the smart-hybrid threshold for a layout.
func DefaultThreshold(l Layout) int {
	if _, ok := l.(*Fixed); ok {
		return DefaultFixedThreshold
	}
	return DefaultVariableThreshold
}
