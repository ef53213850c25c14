package virtual

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearStart(tbl *Table, offset float64) int {
	if offset <= 0 {
		return 0
	}
	for i := 0; i < tbl.Len(); i++ {
		if tbl.Entry(i).Bottom > offset {
			return i
		}
	}
	return tbl.Len() - 1
}

func TestResolveStart(t *testing.T) {
	t.Parallel()

	t.Run("uniform table", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)

		cases := []struct {
			offset float64
			want   int
		}{
			{-10, 0},
			{0, 0},
			{79, 0},
			{80, 1},
			{100, 1},
			{399, 4},
			{400, 4},
			{10000, 4},
			{math.NaN(), 0},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, tbl.ResolveStart(tc.offset), "offset %v", tc.offset)
		}
	})

	t.Run("scenario offset", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(1000, 80)

		assert.Equal(t, 50, tbl.ResolveStart(4000))
	})

	t.Run("after cascade", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(5, 80)
		tbl.Measure(2, 150)

		assert.Equal(t, 2, tbl.ResolveStart(300))
		assert.Equal(t, 3, tbl.ResolveStart(310))
		assert.Equal(t, 4, tbl.ResolveStart(469))
	})

	t.Run("zero height entries are skipped", func(t *testing.T) {
		t.Parallel()
		tbl := NewTable(4, 10)
		tbl.Measure(1, 0)

		assert.Equal(t, 2, tbl.ResolveStart(10))
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, NewTable(0, 80).ResolveStart(50))
	})

	t.Run("matches a linear scan", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(42))
		tbl := NewTable(500, 6)
		for range 400 {
			tbl.Measure(rng.Intn(tbl.Len()), float64(1+rng.Intn(12)))
		}

		for range 1000 {
			offset := rng.Float64() * (tbl.TotalHeight() + 50)
			require.Equal(t, linearStart(tbl, offset), tbl.ResolveStart(offset), "offset %v", offset)
		}
	})
}

func TestVisibleWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start, overrender, total int
		want                     Window
	}{
		{50, 10, 1000, Window{50, 60}},
		{995, 10, 1000, Window{995, 1000}},
		{0, 10, 3, Window{0, 3}},
		{0, 10, 0, Window{0, 0}},
		{-4, 10, 100, Window{0, 10}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d+%d of %d", tc.start, tc.overrender, tc.total), func(t *testing.T) {
			t.Parallel()
			got := VisibleWindow(tc.start, tc.overrender, tc.total)
			assert.Equal(t, tc.want, got)
		})
	}

	w := Window{Start: 5, End: 8}
	assert.Equal(t, 3, w.Len())
	assert.True(t, w.Contains(5))
	assert.False(t, w.Contains(8))
}

func TestFixedLayout(t *testing.T) {
	t.Parallel()

	f := NewFixed(10000, 50)

	assert.Equal(t, 10000, f.Len())
	assert.Equal(t, 500000.0, f.TotalHeight())
	assert.Equal(t, 100.0, f.Top(2))
	assert.Equal(t, 0, f.ResolveStart(0))
	assert.Equal(t, 0, f.ResolveStart(49))
	assert.Equal(t, 2, f.ResolveStart(125))
	assert.Equal(t, 9999, f.ResolveStart(1e9))
	assert.False(t, f.Measure(3, 500))
	assert.Equal(t, 50.0, f.Height(3))
	assert.Panics(t, func() { f.Top(10000) })

	assert.Equal(t, DefaultFixedThreshold, DefaultThreshold(f))
	assert.Equal(t, DefaultVariableThreshold, DefaultThreshold(NewTable(1, 1)))
}

func BenchmarkResolveStart(b *testing.B) {
	for _, size := range []int{1000, 10000, 100000} {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			tbl := NewTable(size, 80)
			total := tbl.TotalHeight()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tbl.ResolveStart(float64(i%size) / float64(size) * total)
			}
		})
	}
}
