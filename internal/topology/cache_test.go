package topology

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreAndLoad(t *testing.T) {
	c := NewCache()

	first := &Topology{ContentHash: 42}
	assert.Same(t, first, c.Store(first))

	t.Run("first store wins", func(t *testing.T) {
		second := &Topology{ContentHash: 42}
		assert.Same(t, first, c.Store(second))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("load returns the canonical entry", func(t *testing.T) {
		got, ok := c.Load(42)
		require.True(t, ok)
		assert.Same(t, first, got)

		_, ok = c.Load(7)
		assert.False(t, ok)
	})
}

func TestCacheConcurrentStore(t *testing.T) {
	c := NewCache()
	const workers = 16

	results := make([]*Topology, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Store(&Topology{ContentHash: 99})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}
