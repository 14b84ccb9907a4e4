package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/docver/bloom"
	"github.com/stretchr/testify/assert"
)

func TestPathFilter_MayContain(t *testing.T) {
	t.Parallel()

	f := bloom.NewPathFilter([]string{"index", "guides", "guides/setup"}, bloom.DefaultFalsePositiveRate)

	assert.True(t, f.MayContain("index"))
	assert.True(t, f.MayContain("guides"))
	assert.True(t, f.MayContain("guides/setup"))

	f.Add("guides/advanced")
	assert.True(t, f.MayContain("guides/advanced"))
}

func TestPathFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numPaths   = 10000
		testProbes = 10000
	)

	paths := make([]string, 0, numPaths)
	for i := range numPaths {
		paths = append(paths, fmt.Sprintf("docs/added/%d", i))
	}
	f := bloom.NewPathFilter(paths, bloom.DefaultFalsePositiveRate)

	falsePositives := 0
	for i := range testProbes {
		if f.MayContain(fmt.Sprintf("docs/missing/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func TestPathFilter_Empty(t *testing.T) {
	t.Parallel()

	f := bloom.NewPathFilter(nil, bloom.DefaultFalsePositiveRate)

	assert.False(t, f.MayContain("index"))
	assert.Equal(t, uint(0), f.EstimatedCount())
}

func TestPathFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	paths := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		paths = append(paths, fmt.Sprintf("section/page-%d", i))
	}

	f := bloom.NewPathFilter(paths, bloom.DefaultFalsePositiveRate)

	count := f.EstimatedCount()
	assert.True(t, count >= 90 && count <= 110, "expected count near 100, got %d", count)

	// No false negatives
	for _, p := range paths {
		assert.True(t, f.MayContain(p), p)
	}
}
