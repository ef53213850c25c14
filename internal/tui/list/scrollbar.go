package list

import "math"

// subcell is the number of vertical steps a single scrollbar cell can show.
const subcell = 8

var (
	thumbLower = [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	thumbUpper = [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"}
)

const trackGlyph = "│"

// scrollMetrics is the scrollbar geometry in subcell units.
type scrollMetrics struct {
	trackLen   int
	thumbLen   int
	thumbStart int
}

// computeScrollMetrics sizes the thumb from the content height, so the
// proportions hold while most of the content is still estimated.
func computeScrollMetrics(trackCells int, contentLen, viewportLen, offset float64) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen <= 0 {
		return scrollMetrics{}
	}

	contentLen = math.Max(contentLen, 1)
	viewportLen = math.Min(math.Max(viewportLen, 1), contentLen)
	maxOffset := math.Max(contentLen-viewportLen, 0)
	offset = math.Min(math.Max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackLen: trackLen, thumbLen: trackLen}
	}

	thumbLen := min(max(int(float64(trackLen)*viewportLen/contentLen), subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := int(math.Round(float64(thumbTravel) * offset / maxOffset))
	return scrollMetrics{trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill returns which part of the cell at cellIndex the thumb covers, as
// a cell-local start and length in subcells.
func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

// scrollbarGlyphs returns one glyph per track cell and whether each one is
// part of the thumb.
func scrollbarGlyphs(trackCells int, contentLen, viewportLen, offset float64) ([]string, []bool) {
	m := computeScrollMetrics(trackCells, contentLen, viewportLen, offset)
	glyphs := make([]string, trackCells)
	thumb := make([]bool, trackCells)
	for i := range glyphs {
		start, fillLen := cellFill(m, i)
		switch {
		case fillLen <= 0:
			glyphs[i] = trackGlyph
		case fillLen >= subcell:
			glyphs[i] = thumbLower[subcell-1]
			thumb[i] = true
		case start == 0:
			glyphs[i] = thumbUpper[fillLen-1]
			thumb[i] = true
		default:
			glyphs[i] = thumbLower[fillLen-1]
			thumb[i] = true
		}
	}
	return glyphs, thumb
}
