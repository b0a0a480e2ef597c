package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsUniqueAndOrdered(t *testing.T) {
	require.NoError(t, Init(1))

	seen := make(map[int64]bool, 1000)
	last := int64(0)
	for i := 0; i < 1000; i++ {
		id := Generate()
		assert.False(t, seen[id], "duplicate id %d", id)
		assert.Greater(t, id, last)
		seen[id] = true
		last = id
	}
}
