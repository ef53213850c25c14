package virtual

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireContiguous(t *testing.T, tbl *Table) {
	t.Helper()
	for i := 0; i < tbl.Len(); i++ {
		e := tbl.Entry(i)
		require.GreaterOrEqual(t, e.Height, 0.0, "height of %d", i)
		require.Equal(t, e.Top+e.Height, e.Bottom, "bottom of %d", i)
		if i == 0 {
			require.Equal(t, 0.0, e.Top)
			continue
		}
		require.Equal(t, tbl.Entry(i-1).Bottom, e.Top, "top of %d", i)
	}
	if tbl.Len() > 0 {
		require.Equal(t, tbl.Entry(tbl.Len()-1).Bottom, tbl.TotalHeight())
	}
}

func TestNewTable(t *testing.T) {
	t.Parallel()

	t.Run("estimated positions", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(1000, 80)

		assert.Equal(t, 1000, tbl.Len())
		assert.Equal(t, 80.0, tbl.EstimatedHeight())
		assert.Equal(t, 0, tbl.MeasuredCount())
		assert.Equal(t, 80000.0, tbl.TotalHeight())
		for _, i := range []int{0, 1, 50, 900, 999} {
			assert.Equal(t, float64(i)*80, tbl.Top(i))
			assert.False(t, tbl.Entry(i).Measured)
		}
		requireContiguous(t, tbl)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(0, 80)

		assert.Equal(t, 0, tbl.Len())
		assert.Equal(t, 0.0, tbl.TotalHeight())
	})

	t.Run("negative count", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, NewTable(-3, 80).Len())
	})
}

func TestTableMeasure(t *testing.T) {
	t.Parallel()

	t.Run("cascades the suffix", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)

		changed := tbl.Measure(2, 150)

		require.True(t, changed)
		tops := make([]float64, tbl.Len())
		bottoms := make([]float64, tbl.Len())
		for i := range tops {
			tops[i] = tbl.Entry(i).Top
			bottoms[i] = tbl.Entry(i).Bottom
		}
		assert.Equal(t, []float64{0, 80, 160, 310, 390}, tops)
		assert.Equal(t, []float64{80, 160, 310, 390, 470}, bottoms)
		assert.Equal(t, 470.0, tbl.TotalHeight())
		assert.True(t, tbl.Entry(2).Measured)
		assert.Equal(t, 1, tbl.MeasuredCount())
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)
		require.True(t, tbl.Measure(2, 150))
		before := tbl.Entry(4)

		assert.False(t, tbl.Measure(2, 150))
		assert.Equal(t, before, tbl.Entry(4))
		assert.Equal(t, 1, tbl.MeasuredCount())
	})

	t.Run("ignores jitter below epsilon", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)
		require.True(t, tbl.Measure(2, 150))

		assert.False(t, tbl.Measure(2, 150.3))
		assert.False(t, tbl.Measure(2, 149.6))
		assert.Equal(t, 150.0, tbl.Entry(2).Height)

		assert.True(t, tbl.Measure(2, 151))
		assert.Equal(t, 471.0, tbl.TotalHeight())
	})

	t.Run("first measurement matching the estimate", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)

		assert.False(t, tbl.Measure(0, 80))
		assert.True(t, tbl.Entry(0).Measured)
		assert.Equal(t, 1, tbl.MeasuredCount())
	})

	t.Run("unmeasured entries accept small deltas", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(3, 80)

		assert.True(t, tbl.Measure(1, 80.25))
		assert.Equal(t, 240.25, tbl.TotalHeight())
	})

	t.Run("shrinking", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(4, 80)

		require.True(t, tbl.Measure(0, 20))
		assert.Equal(t, 20.0, tbl.Top(1))
		assert.Equal(t, 260.0, tbl.TotalHeight())
		requireContiguous(t, tbl)
	})

	t.Run("invalid heights clamp to zero", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(3, 80)

		tbl.Measure(0, -10)
		assert.Equal(t, 0.0, tbl.Entry(0).Height)
		tbl.Measure(1, math.NaN())
		assert.Equal(t, 0.0, tbl.Entry(1).Height)
		tbl.Measure(2, math.Inf(1))
		assert.Equal(t, 0.0, tbl.Entry(2).Height)
		assert.Equal(t, 0.0, tbl.TotalHeight())
		requireContiguous(t, tbl)
	})

	t.Run("out of range panics", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)

		assert.PanicsWithValue(t, "virtual: index 5 out of range [0, 5)", func() {
			tbl.Measure(5, 10)
		})
		assert.Panics(t, func() { tbl.Measure(-1, 10) })
		assert.Equal(t, 400.0, tbl.TotalHeight())
	})

	t.Run("random measurements keep positions contiguous", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		tbl := NewTable(300, 4)

		for range 2000 {
			tbl.Measure(rng.Intn(tbl.Len()), float64(rng.Intn(20)))
		}
		requireContiguous(t, tbl)
	})
}

func BenchmarkTableMeasure(b *testing.B) {
	for _, size := range []int{1000, 10000, 100000} {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			tbl := NewTable(size, 80)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tbl.Measure(size/2, float64(80+i%2*40))
			}
		})
	}
}
