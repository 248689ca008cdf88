package kinship

import (
	"fmt"
	"strings"
)

// Backend selects the sparse store implementation used during a traversal.
//
// Both backends satisfy the same contract and produce bitwise-identical
// results; they trade lookup speed against memory per resident entry.
// Benchmarks decide per workload.
type Backend int

const (
	// TimeOptimised stores rows as hash maps. Lookups are O(1) but each
	// entry carries hash-table overhead. Prefer this for deep pedigrees
	// with modest cut widths.
	TimeOptimised Backend = iota

	// MemoryOptimised stores rows as sorted parallel slices. Lookups are
	// O(log n) per row but entries are packed tightly. Prefer this when the
	// cut is wide and memory is the bottleneck.
	MemoryOptimised
)

// String returns the canonical backend name.
func (b Backend) String() string {
	switch b {
	case TimeOptimised:
		return "speed"
	case MemoryOptimised:
		return "memory"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name to a [Backend].
// Accepted names: "speed" (or "time") and "memory".
// Returns ErrUnknownBackend for anything else.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "speed", "time":
		return TimeOptimised, nil
	case "memory":
		return MemoryOptimised, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// store is the sparse symmetric matrix holding kinship values for the
// vertices currently resident in a traversal.
//
// Symmetry is implicit: the value for the unordered pair {i, j} is stored
// exactly once, in the row of min(i, j) under the column max(i, j). The
// self-kinship of v lives in row v under column v. Storing under the smaller
// key means evicting v only has to visit rows with keys smaller than v;
// rows with larger keys cannot contain a column for v.
type store interface {
	// putSelf records φ(v, v) and makes v resident.
	putSelf(v int, phi float64)

	// putPair records φ({i, j}) for i ≠ j under the triangular convention.
	putPair(i, j int, phi float64)

	// get returns the symmetric value for {i, j}, or an error wrapping
	// ErrNotResident if either vertex is not resident.
	get(i, j int) (float64, error)

	// evict removes v's row and every column entry keyed by v from rows
	// with smaller keys. Evicting a non-resident vertex is a no-op.
	evict(v int)

	// residents returns the resident vertex ids in ascending order.
	residents() []int

	// rows returns the number of resident vertices (the cut size).
	rows() int

	// clear drops every entry, releasing the memory to the runtime.
	clear()
}

// newStore constructs the store implementation for the given backend.
func newStore(b Backend) store {
	if b == MemoryOptimised {
		return newMemStore()
	}
	return newFlatStore()
}

// pairKey normalizes an unordered pair to its storage orientation.
func pairKey(i, j int) (lo, hi int) {
	if i > j {
		return j, i
	}
	return i, j
}
