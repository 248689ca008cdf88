package pedigree

import (
	"fmt"
	"sort"
)

// Levels partitions the vertices into generation levels: level 0 holds the
// childless vertices, and every other vertex sits one level above its
// deepest child. Each level is sorted ascending.
//
// Returns an error if the pedigree contains a cycle (levels are undefined
// then).
func (p *Pedigree) Levels() ([][]int, error) {
	// Process children before parents: a vertex's level depends on all of
	// its children, so walk a reverse topological order.
	remaining := make(map[int]int, len(p.children))
	var ready []int
	for id, cs := range p.children {
		if n := len(dedupAll(cs)); n > 0 {
			remaining[id] = n
		} else {
			ready = append(ready, id)
		}
	}

	level := make(map[int]int, len(p.parents))
	seen := 0
	for len(ready) > 0 {
		var next []int
		for _, id := range ready {
			seen++
			for _, c := range dedupAll(p.children[id]) {
				if l := level[c] + 1; l > level[id] {
					level[id] = l
				}
			}
			for _, parent := range dedup(p.parents[id]) {
				remaining[parent]--
				if remaining[parent] == 0 {
					delete(remaining, parent)
					next = append(next, parent)
				}
			}
		}
		ready = next
	}
	if seen != len(p.parents) {
		return nil, fmt.Errorf("%w: %d vertices unreachable from the childless generation",
			ErrCycle, len(p.parents)-seen)
	}

	depth := 0
	for _, l := range level {
		if l > depth {
			depth = l
		}
	}
	levels := make([][]int, depth+1)
	for id := range p.parents {
		l := level[id]
		levels[l] = append(levels[l], id)
	}
	for _, l := range levels {
		sort.Ints(l)
	}
	return levels, nil
}

// dedupAll collapses duplicates in a child list of any length.
func dedupAll(ids []int) []int {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
