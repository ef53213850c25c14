package virtual

import (
	"errors"
	"strconv"
	"strings"
)

type targetKind int

const (
	targetIndex targetKind = iota
	targetFirst
	targetLast
)

// Target identifies where a navigation should land.
type Target struct {
	kind  targetKind
	index int
}

var (
	// First is the first item of the list.
	First = Target{kind: targetFirst}
	// Last is the last item of the list.
	Last = Target{kind: targetLast}
)

// Index returns a target for a concrete item index. Out-of-range values
// are clamped when the target is resolved.
func Index(i int) Target {
	return Target{kind: targetIndex, index: i}
}

// ParseTarget reads user input. "top" and "first" select the first item,
// "bottom" and "last" the last one. Anything else must start with an
// integer (after optional whitespace and sign); trailing characters are
// ignored, so "42px" is 42. Input without a leading integer is rejected.
func ParseTarget(s string) (Target, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "top", "first":
		return First, true
	case "bottom", "last":
		return Last, true
	}

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return Target{}, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Target{}, false
	}
	return Index(clampInt64(n)), true
}

// Resolve turns the target into a concrete index for a list of count
// items. It reports false for an empty list.
func (t Target) Resolve(count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	switch t.kind {
	case targetFirst:
		return 0, true
	case targetLast:
		return count - 1, true
	}
	return min(max(t.index, 0), count-1), true
}

// Value returns the raw index of an index target, before clamping.
func (t Target) Value() (int, bool) {
	return t.index, t.kind == targetIndex
}

func (t Target) String() string {
	switch t.kind {
	case targetFirst:
		return "top"
	case targetLast:
		return "bottom"
	}
	return strconv.Itoa(t.index)
}

func clampInt64(n int64) int {
	const (
		maxInt = int64(^uint(0) >> 1)
		minInt = -maxInt - 1
	)
	return int(min(max(n, minInt), maxInt))
}
