package virtual

import "math"

// EaseInOutCubic maps linear progress in [0, 1] to eased progress.
func EaseInOutCubic(p float64) float64 {
	p = min(max(p, 0), 1)
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

// Skip window of a flash-skip animation. While linear progress is inside
// (SkipFrom, SkipTo) a long animation shows SkipRatio of the distance
// instead of the eased position.
const (
	SkipFrom         = 0.4
	SkipTo           = 0.7
	DefaultSkipRatio = 0.95
)

// FlashOffset returns the scroll offset of a flash-skip animation at the
// given linear progress.
func FlashOffset(start, distance, progress float64, skip bool, ratio float64) float64 {
	progress = min(max(progress, 0), 1)
	if skip && progress > SkipFrom && progress < SkipTo {
		return start + distance*ratio
	}
	return start + distance*EaseInOutCubic(progress)
}
