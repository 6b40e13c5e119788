package enrich

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFillsOncePerKey(t *testing.T) {
	c := NewCache[int]()
	var fills atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := c.GetOrFill("90210", func() int {
				fills.Add(1)
				return 42
			})
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), fills.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCacheSeparateKeys(t *testing.T) {
	c := NewCache[string]()

	a := c.GetOrFill("10001", func() string { return "a" })
	b := c.GetOrFill("10002", func() string { return "b" })

	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
	assert.Equal(t, 2, c.Len())

	// Second read must not re-fill.
	again := c.GetOrFill("10001", func() string {
		t.Fatal("fill ran twice for the same key")
		return ""
	})
	assert.Equal(t, "a", again)
}
