package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseInOutCubic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, EaseInOutCubic(0))
	assert.Equal(t, 0.0625, EaseInOutCubic(0.25))
	assert.Equal(t, 0.5, EaseInOutCubic(0.5))
	assert.Equal(t, 0.9375, EaseInOutCubic(0.75))
	assert.Equal(t, 1.0, EaseInOutCubic(1))
	assert.Equal(t, 1.0, EaseInOutCubic(3), "clamped")
	assert.Equal(t, 0.0, EaseInOutCubic(-1), "clamped")

	prev := 0.0
	for p := 0.0; p <= 1; p += 0.01 {
		v := EaseInOutCubic(p)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestFlashOffset(t *testing.T) {
	t.Parallel()

	t.Run("skip window", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 9500.0, FlashOffset(0, 10000, 0.5, true, DefaultSkipRatio), 1e-6)
		assert.InDelta(t, 9500.0, FlashOffset(0, 10000, 0.69, true, DefaultSkipRatio), 1e-6)
	})

	t.Run("window bounds are exclusive", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 2560.0, FlashOffset(0, 10000, 0.4, true, DefaultSkipRatio), 1e-6)
		assert.InDelta(t, 10000*EaseInOutCubic(0.7), FlashOffset(0, 10000, 0.7, true, DefaultSkipRatio), 1e-6)
	})

	t.Run("no skip follows the curve", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 5000.0, FlashOffset(0, 10000, 0.5, false, DefaultSkipRatio))
		assert.Equal(t, 1000.0, FlashOffset(1000, 10000, 0, false, DefaultSkipRatio))
	})

	t.Run("negative distance", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 500.0, FlashOffset(10000, -10000, 0.5, true, DefaultSkipRatio), 1e-6)
		assert.Equal(t, 0.0, FlashOffset(10000, -10000, 1, true, DefaultSkipRatio))
	})
}
