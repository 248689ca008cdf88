package kinship

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/kincut/kincut/pkg/observability"
)

// childrenOf derives the children adjacency from a parents adjacency,
// giving every vertex an entry. Children lists are deduplicated, matching
// how a self-mating edge appears once in the downward direction.
func childrenOf(parents map[int][]int) map[int][]int {
	children := make(map[int][]int, len(parents))
	for v := range parents {
		children[v] = nil
	}
	for c, ps := range parents {
		for _, p := range unique(ps) {
			children[p] = append(children[p], c)
		}
	}
	return children
}

func mustCalculate(t *testing.T, parents map[int][]int, sinks []int, b Backend) *Matrix {
	t.Helper()
	m, err := Calculate(childrenOf(parents), parents, sinks, Options{Backend: b})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return m
}

func mustGet(t *testing.T, m *Matrix, i, j int) float64 {
	t.Helper()
	phi, err := m.Get(i, j)
	if err != nil {
		t.Fatalf("Get(%d, %d): %v", i, j, err)
	}
	return phi
}

var backends = []Backend{TimeOptimised, MemoryOptimised}

// =============================================================================
// Scenarios
// =============================================================================

func TestCalculateScenarios(t *testing.T) {
	type pair struct {
		i, j int
		want float64
	}
	tests := []struct {
		name    string
		parents map[int][]int
		sinks   []int
		pairs   []pair
	}{
		{
			name:    "two unrelated founders one child",
			parents: map[int][]int{1: {}, 2: {}, 3: {1, 2}},
			sinks:   []int{3},
			pairs:   []pair{{3, 3, 0.5}},
		},
		{
			name:    "self mating",
			parents: map[int][]int{1: {}, 3: {1, 1}},
			sinks:   []int{1, 3},
			pairs:   []pair{{3, 3, 0.75}, {1, 3, 0.5}, {1, 1, 0.5}},
		},
		{
			name:    "full sibs",
			parents: map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}},
			sinks:   []int{3, 4},
			pairs:   []pair{{3, 4, 0.25}, {3, 3, 0.5}, {4, 4, 0.5}},
		},
		{
			name:    "half sibs",
			parents: map[int][]int{1: {}, 2: {}, 3: {}, 4: {1, 2}, 5: {1, 3}},
			sinks:   []int{4, 5},
			pairs:   []pair{{4, 5, 0.125}},
		},
		{
			name:    "parent child",
			parents: map[int][]int{1: {}, 2: {}, 3: {1, 2}},
			sinks:   []int{1, 3},
			pairs:   []pair{{1, 3, 0.25}},
		},
		{
			name:    "grandchild of full sibs",
			parents: map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}, 5: {3, 4}},
			sinks:   []int{5},
			pairs:   []pair{{5, 5, 0.625}},
		},
		{
			name:    "one recorded parent",
			parents: map[int][]int{1: {}, 2: {1}},
			sinks:   []int{1, 2},
			pairs:   []pair{{2, 2, 0.5}, {1, 2, 0.25}},
		},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(b.String()+"/"+tt.name, func(t *testing.T) {
				m := mustCalculate(t, tt.parents, tt.sinks, b)
				for _, p := range tt.pairs {
					if got := mustGet(t, m, p.i, p.j); got != p.want {
						t.Errorf("Get(%d, %d) = %v, want %v", p.i, p.j, got, p.want)
					}
				}
			})
		}
	}
}

func TestCalculateRetainsOnlySinks(t *testing.T) {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}, 5: {3, 4}}
	for _, b := range backends {
		m := mustCalculate(t, parents, []int{5}, b)
		if got := m.Sinks(); len(got) != 1 || got[0] != 5 {
			t.Errorf("%v: Sinks() = %v, want [5]", b, got)
		}
		if got := m.s.rows(); got != 1 {
			t.Errorf("%v: %d resident rows at completion, want 1", b, got)
		}
		for _, evicted := range []int{1, 2, 3, 4} {
			if _, err := m.s.get(evicted, evicted); !errors.Is(err, ErrNotResident) {
				t.Errorf("%v: vertex %d still resident after traversal", b, evicted)
			}
		}
	}
}

// =============================================================================
// Invariants
// =============================================================================

func TestInvariantsOnRandomPedigree(t *testing.T) {
	parents, sinks := randomPedigree(10, 20, 7)
	for _, b := range backends {
		m := mustCalculate(t, parents, sinks, b)
		for _, i := range m.Sinks() {
			self := mustGet(t, m, i, i)
			if self < 0.5 || self > 1 {
				t.Errorf("%v: self kinship of %d = %v outside [0.5, 1]", b, i, self)
			}
			for _, j := range m.Sinks() {
				ij := mustGet(t, m, i, j)
				ji := mustGet(t, m, j, i)
				if ij != ji {
					t.Errorf("%v: Get(%d, %d) = %v but Get(%d, %d) = %v", b, i, j, ij, j, i, ji)
				}
				if i == j {
					continue
				}
				other := mustGet(t, m, j, j)
				if ij < 0 || ij > math.Min(self, other) {
					t.Errorf("%v: Get(%d, %d) = %v outside [0, min(%v, %v)]", b, i, j, ij, self, other)
				}
			}
		}
	}
}

func TestFounderInvariants(t *testing.T) {
	// Two founder sinks with no shared descendants referenced by the query.
	parents := map[int][]int{1: {}, 2: {}, 3: {1}, 4: {2}}
	m := mustCalculate(t, parents, []int{1, 2, 3, 4}, TimeOptimised)
	if got := mustGet(t, m, 1, 1); got != 0.5 {
		t.Errorf("founder self kinship = %v, want 0.5", got)
	}
	if got := mustGet(t, m, 1, 2); got != 0 {
		t.Errorf("unrelated founder pair kinship = %v, want 0", got)
	}
}

func TestRecurrenceConsistency(t *testing.T) {
	// Keep 5 and both of its parents as sinks so the recurrence can be
	// checked against retained values.
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}, 5: {3, 4}}
	m := mustCalculate(t, parents, []int{3, 4, 5}, TimeOptimised)

	self := mustGet(t, m, 5, 5)
	if want := (1 + mustGet(t, m, 3, 4)) / 2; self != want {
		t.Errorf("Get(5, 5) = %v, want ½(1 + φ(3,4)) = %v", self, want)
	}
	pair := mustGet(t, m, 5, 3)
	if want := (mustGet(t, m, 3, 3) + mustGet(t, m, 4, 3)) / 2; pair != want {
		t.Errorf("Get(5, 3) = %v, want ½(φ(3,3) + φ(4,3)) = %v", pair, want)
	}
}

// =============================================================================
// Determinism and backend equivalence
// =============================================================================

func TestBackendEquivalence(t *testing.T) {
	parents, sinks := randomPedigree(25, 40, 99)
	fast := mustCalculate(t, parents, sinks, TimeOptimised)
	lean := mustCalculate(t, parents, sinks, MemoryOptimised)

	for _, i := range fast.Sinks() {
		for _, j := range fast.Sinks() {
			a := mustGet(t, fast, i, j)
			b := mustGet(t, lean, i, j)
			if a != b {
				t.Fatalf("backends disagree on {%d, %d}: speed=%v memory=%v", i, j, a, b)
			}
		}
	}
}

func TestDeterministicStats(t *testing.T) {
	parents, sinks := randomPedigree(15, 30, 3)
	first := mustCalculate(t, parents, sinks, TimeOptimised)
	second := mustCalculate(t, parents, sinks, TimeOptimised)
	if first.Stats() != second.Stats() {
		t.Errorf("stats differ across runs: %+v vs %+v", first.Stats(), second.Stats())
	}
}

// =============================================================================
// Peak residency
// =============================================================================

func TestPeakCutBoundedByGenerationWidth(t *testing.T) {
	const width = 40
	parents, sinks := randomPedigree(250, width, 11)
	m := mustCalculate(t, parents, sinks, TimeOptimised)

	stats := m.Stats()
	if stats.Processed != stats.Vertices {
		t.Fatalf("processed %d of %d vertices", stats.Processed, stats.Vertices)
	}
	// Each generation is an antichain of size width; the scheduler must keep
	// the cut within a small multiple of it.
	if limit := 4 * width; stats.PeakCut > limit {
		t.Errorf("peak cut %d exceeds %d (4× generation width)", stats.PeakCut, limit)
	}
}

// =============================================================================
// Errors
// =============================================================================

func TestCalculateInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		children map[int][]int
		parents  map[int][]int
		sinks    []int
	}{
		{
			name:     "vertex missing from children map",
			children: map[int][]int{1: {2}},
			parents:  map[int][]int{1: {}, 2: {1}},
			sinks:    []int{2},
		},
		{
			name:     "edge recorded in one direction only",
			children: map[int][]int{1: {}, 2: {}},
			parents:  map[int][]int{1: {}, 2: {1}},
			sinks:    []int{2},
		},
		{
			name:     "more than two parents",
			children: map[int][]int{1: {4}, 2: {4}, 3: {4}, 4: {}},
			parents:  map[int][]int{1: {}, 2: {}, 3: {}, 4: {1, 2, 3}},
			sinks:    []int{4},
		},
		{
			name:     "sink is not a pedigree vertex",
			children: map[int][]int{1: {}},
			parents:  map[int][]int{1: {}},
			sinks:    []int{9},
		},
		{
			name:     "cycle",
			children: map[int][]int{1: {2}, 2: {1}},
			parents:  map[int][]int{1: {2}, 2: {1}},
			sinks:    []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.children, tt.parents, tt.sinks, Options{})
			if !errors.Is(err, ErrInconsistentPedigree) {
				t.Errorf("Calculate() error = %v, want ErrInconsistentPedigree", err)
			}
		})
	}
}

func TestGetNonSink(t *testing.T) {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}}
	m := mustCalculate(t, parents, []int{3}, TimeOptimised)
	if _, err := m.Get(1, 3); !errors.Is(err, ErrNotASink) {
		t.Errorf("Get(1, 3) error = %v, want ErrNotASink", err)
	}
}

func TestToDenseConsumesStore(t *testing.T) {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}}
	m := mustCalculate(t, parents, []int{3, 4}, TimeOptimised)

	index, dense, err := m.ToDense()
	if err != nil {
		t.Fatalf("ToDense: %v", err)
	}
	i, j := index[3], index[4]
	if dense[i][j] != 0.25 || dense[j][i] != 0.25 {
		t.Errorf("dense[3][4] = %v, dense[4][3] = %v, want 0.25 both ways", dense[i][j], dense[j][i])
	}
	if dense[i][i] != 0.5 {
		t.Errorf("dense[3][3] = %v, want 0.5", dense[i][i])
	}

	if _, err := m.Get(3, 4); !errors.Is(err, ErrNotResident) {
		t.Errorf("Get after ToDense error = %v, want ErrNotResident", err)
	}
	if _, _, err := m.ToDense(); !errors.Is(err, ErrNotResident) {
		t.Errorf("second ToDense error = %v, want ErrNotResident", err)
	}
}

// =============================================================================
// Reporting and hooks
// =============================================================================

func TestReporterReceivesProgress(t *testing.T) {
	parents, sinks := randomPedigree(8, 10, 5)
	var calls int
	var lastProcessed int
	reporter := ReporterFunc(func(processed, total, cut, queued int) {
		calls++
		lastProcessed = processed
		if total != len(parents) {
			t.Errorf("total = %d, want %d", total, len(parents))
		}
	})
	m, err := Calculate(childrenOf(parents), parents, sinks, Options{
		Reporter:    reporter,
		ReportEvery: 2,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calls == 0 {
		t.Fatal("reporter was never called")
	}
	if lastProcessed != m.Stats().Processed {
		t.Errorf("final progress reported %d processed, want %d", lastProcessed, m.Stats().Processed)
	}
}

type captureHooks struct {
	observability.NoopEngineHooks
	evictions []int
	started   bool
	completed bool
}

func (h *captureHooks) OnTraversalStart(int, int, int) { h.started = true }
func (h *captureHooks) OnEviction(v int)               { h.evictions = append(h.evictions, v) }
func (h *captureHooks) OnTraversalComplete(int, int)   { h.completed = true }

func TestEngineHooks(t *testing.T) {
	hooks := &captureHooks{}
	observability.SetEngineHooks(hooks)
	t.Cleanup(observability.Reset)

	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}, 5: {3, 4}}
	mustCalculate(t, parents, []int{5}, TimeOptimised)

	if !hooks.started || !hooks.completed {
		t.Errorf("hooks: started=%v completed=%v, want both true", hooks.started, hooks.completed)
	}
	if len(hooks.evictions) != 4 {
		t.Errorf("recorded %d evictions (%v), want 4", len(hooks.evictions), hooks.evictions)
	}
}

// =============================================================================
// Random pedigrees
// =============================================================================

// randomPedigree builds a layered pedigree: gens generations of width
// individuals each, every non-founder drawing two random parents from the
// previous generation. Sinks are the final generation. Ids are assigned
// generation-major, so the structure is deterministic for a given seed.
func randomPedigree(gens, width int, seed int64) (map[int][]int, []int) {
	rng := rand.New(rand.NewSource(seed))
	parents := make(map[int][]int, gens*width)

	id := func(gen, i int) int { return gen*width + i }
	for g := 0; g < gens; g++ {
		for i := 0; i < width; i++ {
			v := id(g, i)
			if g == 0 {
				parents[v] = nil
				continue
			}
			a := id(g-1, rng.Intn(width))
			b := id(g-1, rng.Intn(width))
			parents[v] = []int{a, b}
		}
	}

	sinks := make([]int, 0, width)
	for i := 0; i < width; i++ {
		sinks = append(sinks, id(gens-1, i))
	}
	return parents, sinks
}
