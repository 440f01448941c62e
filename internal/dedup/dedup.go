// Package dedup guarantees each accepted candidate is emitted at most
// once, including across resumed runs. The exact set is authoritative;
// the optional Bloom filter only short-circuits map probes on definite
// misses and is never the sole acceptance authority.
package dedup

import "github.com/bits-and-blooms/bloom/v3"

// Options configures the optional probabilistic pre-check. A larger
// capacity or lower false-positive rate costs memory; a false positive
// only costs one extra map probe, never a wrong answer.
type Options struct {
	// BloomCapacity is the expected number of distinct candidates.
	// Zero disables the Bloom layer entirely.
	BloomCapacity uint
	// BloomFalsePositiveRate defaults to 0.001 when unset.
	BloomFalsePositiveRate float64
}

// DefaultFalsePositiveRate keeps the extra-map-probe overhead around
// one in a thousand at the configured capacity.
const DefaultFalsePositiveRate = 0.001

// Index tracks every candidate observed so far. It is owned by the
// single generation goroutine and is not safe for concurrent use.
type Index struct {
	seen   map[string]struct{}
	filter *bloom.BloomFilter
}

// New builds an index. With a non-zero capacity the Bloom layer is
// sized with NewWithEstimates for the requested false-positive rate.
func New(opts Options) *Index {
	ix := &Index{seen: make(map[string]struct{})}
	if opts.BloomCapacity > 0 {
		rate := opts.BloomFalsePositiveRate
		if rate <= 0 || rate >= 1 {
			rate = DefaultFalsePositiveRate
		}
		ix.filter = bloom.NewWithEstimates(opts.BloomCapacity, rate)
	}
	return ix
}

// Accept registers the candidate iff this is its first observation and
// reports whether it was. Must run before strength filtering so that a
// strength-rejected candidate stays rejected when another phase
// reproduces it.
func (ix *Index) Accept(candidate string) bool {
	if ix.filter != nil && !ix.filter.TestString(candidate) {
		// Definite miss: skip the map probe.
		ix.add(candidate)
		return true
	}
	if _, dup := ix.seen[candidate]; dup {
		return false
	}
	ix.add(candidate)
	return true
}

// MaybeContains exposes the probabilistic layer for diagnostics. False
// positives are possible; false negatives are not. Without a Bloom
// layer it falls back to the exact set.
func (ix *Index) MaybeContains(candidate string) bool {
	if ix.filter == nil {
		return ix.Contains(candidate)
	}
	return ix.filter.TestString(candidate)
}

// Contains consults the authoritative exact set.
func (ix *Index) Contains(candidate string) bool {
	_, ok := ix.seen[candidate]
	return ok
}

// Add records a candidate without reporting novelty. Used to rehydrate
// the index from pre-existing sink content before generation resumes.
func (ix *Index) Add(candidate string) {
	ix.add(candidate)
}

// Len returns the number of distinct candidates observed.
func (ix *Index) Len() int {
	return len(ix.seen)
}

func (ix *Index) add(candidate string) {
	ix.seen[candidate] = struct{}{}
	if ix.filter != nil {
		ix.filter.AddString(candidate)
	}
}
