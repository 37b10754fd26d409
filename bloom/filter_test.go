package bloom_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/digest/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	t.Run("first sighting records the link", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.False(t, f.Seen("https://example.com/story"))
		assert.True(t, f.Seen("https://example.com/story"))
		assert.True(t, f.Test("https://example.com/story"))
		assert.False(t, f.Test("https://example.com/other"))
	})

	t.Run("trailing slash on a path is ignored", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.False(t, f.Seen("https://example.com/story/"))
		assert.True(t, f.Seen("https://example.com/story"))
	})

	t.Run("concurrent callers see exactly one first sighting", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		var fresh atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !f.Seen("https://example.com/story") {
					fresh.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), fresh.Load())
	})
}

func TestFilter_ZeroArgumentsUseDefaults(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(0, 0)

	assert.False(t, f.Seen("https://example.com/a"))
	assert.True(t, f.Test("https://example.com/a"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Seen("https://example.com/page1")
	f.Seen("https://example.com/page2")
	f.Seen("https://example.com/page3")
	f.Seen("https://example.com/page3")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const n = 10000
	f := bloom.NewFilter(n, 0.01)
	for i := range n {
		f.Seen(fmt.Sprintf("https://example.com/added/%d", i))
	}

	falsePositives := 0
	for i := range n {
		if f.Test(fmt.Sprintf("https://example.com/notadded/%d", i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / n
	assert.Less(t, rate, 0.02, "false positive rate %f exceeds 2%%", rate)
}
