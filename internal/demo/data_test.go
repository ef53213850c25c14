package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	items := Generate(1000, 7)
	require.Len(t, items, 1000)

	ids := make(map[string]struct{}, len(items))
	for i, item := range items {
		assert.Equal(t, i, item.Index)
		assert.Contains(t, Contents(), item.Content)
		assert.Equal(t, Tone(i%2), item.Tone)
		ids[item.ID] = struct{}{}
	}
	assert.Len(t, ids, len(items), "ids are unique")

	again := Generate(1000, 7)
	for i := range items {
		assert.Equal(t, items[i].Content, again[i].Content)
	}

	assert.Empty(t, Generate(0, 1))
	assert.Empty(t, Generate(-1, 1))
}
