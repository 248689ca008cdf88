package kinship

import (
	"fmt"
	"sort"

	"github.com/kincut/kincut/pkg/observability"
)

// Options configures a streaming traversal started by [Calculate].
type Options struct {
	// Backend selects the sparse store implementation.
	Backend Backend

	// Reporter receives progress updates. Nil disables reporting.
	Reporter Reporter

	// ReportEvery is the number of processed batches between Progress
	// calls. Values below 1 default to 1 when a Reporter is set.
	ReportEvery int
}

// Stats summarizes a completed traversal.
type Stats struct {
	// Vertices is the number of pedigree vertices.
	Vertices int

	// Processed is the number of vertices evaluated. Equal to Vertices for
	// a consistent acyclic pedigree.
	Processed int

	// Batches is the number of ready batches popped from the scheduler.
	Batches int

	// PeakCut is the maximum number of resident store rows observed.
	PeakCut int
}

// Calculate computes the kinship matrix over the sink vertices of a pedigree.
//
// The pedigree is given as two adjacency mappings: parents maps every vertex
// to its (at most two) parents and children maps every vertex to its
// children. The two maps must describe the same edge set; sinks must be
// pedigree vertices. The maps are read-only for the engine and are never
// mutated.
//
// The traversal streams through the pedigree from founders to sinks, keeping
// only a cut of the pedigree resident and evicting every non-sink vertex as
// soon as its last child has been processed. On success the returned
// [Matrix] holds exactly the closed kinship matrix over the sinks.
//
// The engine is a pure function of its input: it performs no I/O, exposes no
// cancellation point, and owns all of its state, so independent calls may
// run concurrently.
func Calculate(children, parents map[int][]int, sinks []int, opts Options) (*Matrix, error) {
	if err := validatePedigree(children, parents, sinks); err != nil {
		return nil, err
	}

	e := &engine{
		children: children,
		parents:  parents,
		sinks:    make(map[int]struct{}, len(sinks)),
		store:    newStore(opts.Backend),
		sched:    newScheduler(),

		remainingChildren: make(map[int]int, len(children)),
		remainingParents:  make(map[int]int, len(parents)),
	}
	for _, s := range sinks {
		e.sinks[s] = struct{}{}
	}

	if err := e.run(opts); err != nil {
		return nil, err
	}

	order := make([]int, 0, len(e.sinks))
	for s := range e.sinks {
		order = append(order, s)
	}
	sort.Ints(order)

	return &Matrix{
		s:       e.store,
		sinks:   e.sinks,
		order:   order,
		backend: opts.Backend,
		stats:   e.stats,
	}, nil
}

// =============================================================================
// Engine
// =============================================================================

// engine holds the owned state of one traversal: the sparse store, the
// scheduler, and the two reference-counter maps gating eviction and
// readiness.
type engine struct {
	children map[int][]int
	parents  map[int][]int
	sinks    map[int]struct{}

	store store
	sched *scheduler

	// remainingChildren counts, per vertex, the children not yet processed.
	// When it reaches zero the vertex is fully consumed and, unless it is a
	// sink, its row is evicted.
	remainingChildren map[int]int

	// remainingParents counts, per vertex, the parents not yet processed.
	// A vertex becomes ready when it reaches zero.
	remainingParents map[int]int

	stats Stats
}

func (e *engine) run(opts Options) error {
	reporter := opts.Reporter
	every := opts.ReportEvery
	if every < 1 {
		every = 1
	}

	e.stats.Vertices = len(e.parents)

	// Seed counters and founders. Counters use set semantics: a duplicated
	// edge (self-mating records the same parent twice) still counts one
	// consumer. Founders enter the scheduler as singleton batches with
	// score 1: each adds one row and can evict nothing.
	var founders []int
	for v, cs := range e.children {
		e.remainingChildren[v] = uniqueCount(cs)
		if len(e.parents[v]) == 0 {
			founders = append(founders, v)
		} else {
			e.remainingParents[v] = uniqueCount(e.parents[v])
		}
	}
	sort.Ints(founders)
	for _, f := range founders {
		e.sched.push([]int{f}, 1)
	}

	observability.Engine().OnTraversalStart(len(e.parents), len(founders), len(e.sinks))

	for !e.sched.empty() {
		vertices := e.sched.pop()
		for _, v := range vertices {
			if err := e.process(v); err != nil {
				return err
			}
		}
		e.stats.Batches++

		observability.Engine().OnBatch(len(vertices), e.store.rows(), e.sched.len())
		if reporter != nil && e.stats.Batches%every == 0 {
			reporter.Progress(e.stats.Processed, e.stats.Vertices, e.store.rows(), e.sched.len())
		}
	}

	if reporter != nil {
		reporter.Progress(e.stats.Processed, e.stats.Vertices, e.store.rows(), 0)
	}
	observability.Engine().OnTraversalComplete(e.stats.Processed, e.stats.PeakCut)

	return e.verifyResidency()
}

// process evaluates the kinship recurrence for v against every resident
// vertex, then updates both reference counters, evicting fully-consumed
// parents and enqueueing children that became ready.
func (e *engine) process(v int) error {
	if err := e.insert(v); err != nil {
		return err
	}
	e.stats.Processed++
	if cut := e.store.rows(); cut > e.stats.PeakCut {
		e.stats.PeakCut = cut
	}

	for _, p := range unique(e.parents[v]) {
		e.remainingChildren[p]--
		switch n := e.remainingChildren[p]; {
		case n < 0:
			return fmt.Errorf("%w: remaining-children counter of %d underflowed", ErrInconsistentPedigree, p)
		case n == 0:
			if _, isSink := e.sinks[p]; !isSink {
				delete(e.remainingChildren, p)
				e.store.evict(p)
				observability.Engine().OnEviction(p)
			}
		}
	}

	// A childless vertex has no consumers at all: nothing will ever
	// decrement its counter, so unless it is a sink it leaves immediately.
	if e.remainingChildren[v] == 0 {
		if _, isSink := e.sinks[v]; !isSink {
			delete(e.remainingChildren, v)
			e.store.evict(v)
			observability.Engine().OnEviction(v)
		}
	}

	var ready []int
	for _, c := range unique(e.children[v]) {
		e.remainingParents[c]--
		switch n := e.remainingParents[c]; {
		case n < 0:
			return fmt.Errorf("%w: remaining-parents counter of %d underflowed", ErrInconsistentPedigree, c)
		case n == 0:
			delete(e.remainingParents, c)
			ready = append(ready, c)
		}
	}
	if len(ready) > 0 {
		sort.Ints(ready)
		e.sched.push(ready, e.score(ready))
	}
	return nil
}

// insert writes φ(v, v) and φ(v, u) for every resident u into the store.
// Every right-hand-side term of the recurrence must already be resident;
// a miss means the traversal order is broken and is fatal.
func (e *engine) insert(v int) error {
	ps := e.parents[v]

	self := 0.5
	if len(ps) == 2 {
		phi, err := e.store.get(ps[0], ps[1])
		if err != nil {
			return fmt.Errorf("%w: parents {%d, %d} of %d", ErrUnknownVertex, ps[0], ps[1], v)
		}
		self = (1 + phi) / 2
	}

	// Snapshot before inserting v so the pair loop sees only prior residents.
	others := e.store.residents()
	e.store.putSelf(v, self)

	for _, u := range others {
		if u == v {
			continue
		}
		var phi float64
		switch len(ps) {
		case 0:
			// Founders share no ancestry with prior residents.
		case 1:
			pa, err := e.store.get(ps[0], u)
			if err != nil {
				return fmt.Errorf("%w: parent %d of %d against %d", ErrUnknownVertex, ps[0], v, u)
			}
			phi = pa / 2
		case 2:
			pa, err := e.store.get(ps[0], u)
			if err != nil {
				return fmt.Errorf("%w: parent %d of %d against %d", ErrUnknownVertex, ps[0], v, u)
			}
			pb, err := e.store.get(ps[1], u)
			if err != nil {
				return fmt.Errorf("%w: parent %d of %d against %d", ErrUnknownVertex, ps[1], v, u)
			}
			phi = (pa + pb) / 2
		}
		e.store.putPair(v, u, phi)
	}
	return nil
}

// score estimates the net change in store row count if the batch were
// processed next: each member adds a row, and each parent whose children are
// all either processed or in the batch will be evicted, removing one.
func (e *engine) score(batch []int) float64 {
	inBatch := make(map[int]struct{}, len(batch))
	for _, v := range batch {
		inBatch[v] = struct{}{}
	}

	parentSet := make(map[int]struct{})
	for _, v := range batch {
		for _, p := range e.parents[v] {
			parentSet[p] = struct{}{}
		}
	}

	score := float64(len(batch))
	for p := range parentSet {
		consumed := 0
		for _, c := range unique(e.children[p]) {
			if _, ok := inBatch[c]; ok {
				consumed++
			}
		}
		if e.remainingChildren[p]-consumed != 0 {
			continue
		}
		if _, isSink := e.sinks[p]; !isSink {
			score--
		}
	}
	return score
}

// verifyResidency checks the traversal post-condition: every sink resident,
// everything else evicted. A violation means the input disagreed with the
// engine's assumptions (typically a cycle or a dangling edge).
func (e *engine) verifyResidency() error {
	if e.store.rows() != len(e.sinks) {
		return fmt.Errorf("%w: %d resident vertices at completion, want %d sinks",
			ErrInconsistentPedigree, e.store.rows(), len(e.sinks))
	}
	for s := range e.sinks {
		if _, err := e.store.get(s, s); err != nil {
			return fmt.Errorf("%w: sink %d missing at completion", ErrInconsistentPedigree, s)
		}
	}
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// edge is a directed parent→child link used for consistency checking.
type edge struct{ parent, child int }

// validatePedigree checks that children and parents describe the same vertex
// set and the same edge set, that no vertex has more than two parents, and
// that every sink is a pedigree vertex. Edge comparison uses set semantics
// so a duplicated self-mating edge does not trip the check.
func validatePedigree(children, parents map[int][]int, sinks []int) error {
	if len(children) != len(parents) {
		return fmt.Errorf("%w: %d vertices in children map, %d in parents map",
			ErrInconsistentPedigree, len(children), len(parents))
	}
	for v := range parents {
		if _, ok := children[v]; !ok {
			return fmt.Errorf("%w: vertex %d has parents but no children entry", ErrInconsistentPedigree, v)
		}
	}

	down := make(map[edge]struct{})
	for p, cs := range children {
		for _, c := range cs {
			down[edge{p, c}] = struct{}{}
		}
	}
	up := make(map[edge]struct{})
	for c, ps := range parents {
		if len(ps) > 2 {
			return fmt.Errorf("%w: vertex %d has %d parents", ErrInconsistentPedigree, c, len(ps))
		}
		for _, p := range ps {
			if _, ok := down[edge{p, c}]; !ok {
				return fmt.Errorf("%w: %d lists parent %d but %d does not list child %d",
					ErrInconsistentPedigree, c, p, p, c)
			}
			up[edge{p, c}] = struct{}{}
		}
	}
	if len(up) != len(down) {
		return fmt.Errorf("%w: %d edges in children map, %d in parents map",
			ErrInconsistentPedigree, len(down), len(up))
	}

	for _, s := range sinks {
		if _, ok := parents[s]; !ok {
			return fmt.Errorf("%w: sink %d is not a pedigree vertex", ErrInconsistentPedigree, s)
		}
	}
	return nil
}

// unique returns ids with duplicates removed, preserving first-occurrence
// order. Pedigree adjacency lists have at most two entries, so this stays
// allocation-free for the common case of returning the input unchanged.
func unique(ids []int) []int {
	switch len(ids) {
	case 0, 1:
		return ids
	case 2:
		if ids[0] == ids[1] {
			return ids[:1]
		}
		return ids
	}
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// uniqueCount returns the number of distinct ids.
func uniqueCount(ids []int) int { return len(unique(ids)) }

