package virtual

// Window is the half-open range [Start, End) of indices the host mounts.
type Window struct {
	Start int
	End   int
}

// Len returns the number of indices in the window.
func (w Window) Len() int {
	return max(w.End-w.Start, 0)
}

// Contains reports whether index falls inside the window.
func (w Window) Contains(index int) bool {
	return index >= w.Start && index < w.End
}

// VisibleWindow returns [start, min(start+overrender, total)). The window
// is deliberately larger than what fits in the viewport so that items are
// measured before they scroll into view.
func VisibleWindow(start, overrender, total int) Window {
	start = min(max(start, 0), max(total, 0))
	end := min(start+max(overrender, 0), max(total, 0))
	return Window{Start: start, End: end}
}
