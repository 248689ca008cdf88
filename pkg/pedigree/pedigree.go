package pedigree

import (
	"fmt"
	"sort"
)

// Pedigree is a genealogical graph held as two adjacency mappings: every
// vertex maps to its parents (at most two) and to its children. The two
// mappings always describe the same edge set.
//
// The zero value is not usable - use [New].
// Pedigree is not safe for concurrent mutation.
type Pedigree struct {
	parents  map[int][]int
	children map[int][]int
}

// New creates an empty pedigree.
func New() *Pedigree {
	return &Pedigree{
		parents:  make(map[int][]int),
		children: make(map[int][]int),
	}
}

// touch registers a vertex with no recorded parents if it is new.
func (p *Pedigree) touch(id int) {
	if _, ok := p.parents[id]; !ok {
		p.parents[id] = nil
		p.children[id] = nil
	}
}

// Add records an individual and its parents. Parents that have not been
// seen yet are registered as founders; their own parents may be supplied by
// a later Add. Re-adding an individual replaces its recorded parents, matching
// how duplicate records in pedigree files are resolved (last definition wins).
// replaced is true only when the earlier record had at least one parent;
// re-adding an individual recorded without parents reports replaced = false.
//
// Self-mating is expressed by supplying the same parent twice.
// Returns ErrTooManyParents when more than two parents are supplied.
func (p *Pedigree) Add(id int, parentIDs ...int) (replaced bool, err error) {
	if len(parentIDs) > 2 {
		return false, fmt.Errorf("%w: individual %d has %d", ErrTooManyParents, id, len(parentIDs))
	}
	p.touch(id)

	if len(p.parents[id]) > 0 {
		replaced = true
		p.removeParentEdges(id)
	}

	for _, parent := range parentIDs {
		p.touch(parent)
	}
	p.parents[id] = append([]int(nil), parentIDs...)
	for _, parent := range dedup(parentIDs) {
		p.children[parent] = append(p.children[parent], id)
	}
	return replaced, nil
}

// removeParentEdges detaches id from its current parents.
func (p *Pedigree) removeParentEdges(id int) {
	for _, parent := range dedup(p.parents[id]) {
		cs := p.children[parent]
		for i, c := range cs {
			if c == id {
				p.children[parent] = append(cs[:i], cs[i+1:]...)
				break
			}
		}
	}
	p.parents[id] = nil
}

// Has reports whether id is a pedigree vertex.
func (p *Pedigree) Has(id int) bool {
	_, ok := p.parents[id]
	return ok
}

// Parents returns the recorded parents of id.
// The returned slice is a read-only view.
func (p *Pedigree) Parents(id int) []int { return p.parents[id] }

// Children returns the recorded children of id.
// The returned slice is a read-only view.
func (p *Pedigree) Children(id int) []int { return p.children[id] }

// VertexCount returns the number of individuals.
func (p *Pedigree) VertexCount() int { return len(p.parents) }

// Vertices returns all vertex ids in ascending order.
func (p *Pedigree) Vertices() []int {
	ids := make([]int, 0, len(p.parents))
	for id := range p.parents {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Founders returns the vertices with no recorded parents, in ascending order.
func (p *Pedigree) Founders() []int {
	var ids []int
	for id, ps := range p.parents {
		if len(ps) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Sinks returns the vertices with no recorded children, in ascending order.
// These are the default probands.
func (p *Pedigree) Sinks() []int {
	var ids []int
	for id, cs := range p.children {
		if len(cs) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// ParentsMap exposes the parent adjacency in the shape the kinship engine
// consumes. The returned map is the pedigree's own storage: treat it as
// read-only.
func (p *Pedigree) ParentsMap() map[int][]int { return p.parents }

// ChildrenMap exposes the child adjacency in the shape the kinship engine
// consumes. The returned map is the pedigree's own storage: treat it as
// read-only.
func (p *Pedigree) ChildrenMap() map[int][]int { return p.children }

// dedup collapses duplicate ids, preserving first-occurrence order.
// Parent lists have at most two entries.
func dedup(ids []int) []int {
	if len(ids) == 2 && ids[0] == ids[1] {
		return ids[:1]
	}
	return ids
}
