// Package bloom provides a document path prefilter backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is the false positive rate of filters built by
// NewPathFilter.
const DefaultFalsePositiveRate = 0.01

// PathFilter answers "might this version contain this document path?"
// without consulting the content source. A negative answer is definite.
type PathFilter struct {
	f *bloom.BloomFilter
}

// NewPathFilter creates a filter holding paths.
func NewPathFilter(paths []string, fpRate float64) *PathFilter {
	n := uint(len(paths))
	if n == 0 {
		n = 1
	}
	pf := &PathFilter{f: bloom.NewWithEstimates(n, fpRate)}
	for _, p := range paths {
		pf.Add(p)
	}
	return pf
}

// Add adds a document path to the filter.
func (f *PathFilter) Add(path string) {
	f.f.AddString(path)
}

// MayContain returns true if the path might be in the filter.
// False positives are possible; false negatives are not.
func (f *PathFilter) MayContain(path string) bool {
	return f.f.TestString(path)
}

// EstimatedCount returns the approximate number of paths in the filter.
func (f *PathFilter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
