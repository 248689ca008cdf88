package kinship

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateDenseScenarios(t *testing.T) {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}, 5: {3, 4}}
	index, dense, err := CalculateDense(childrenOf(parents), parents)
	if err != nil {
		t.Fatalf("CalculateDense: %v", err)
	}
	if len(dense) != 5 {
		t.Fatalf("matrix has %d rows, want 5", len(dense))
	}

	at := func(i, j int) float64 { return dense[index[i]][index[j]] }
	checks := []struct {
		i, j int
		want float64
	}{
		{1, 1, 0.5},
		{1, 2, 0},
		{3, 4, 0.25},
		{1, 3, 0.25},
		{5, 5, 0.625},
	}
	for _, c := range checks {
		if got := at(c.i, c.j); got != c.want {
			t.Errorf("φ(%d, %d) = %v, want %v", c.i, c.j, got, c.want)
		}
		if at(c.i, c.j) != at(c.j, c.i) {
			t.Errorf("φ(%d, %d) not symmetric", c.i, c.j)
		}
	}
}

// TestDenseMatchesStreaming cross-validates the two algorithms: on the sink
// block they must agree to floating precision.
func TestDenseMatchesStreaming(t *testing.T) {
	parents, sinks := randomPedigree(12, 15, 42)
	children := childrenOf(parents)

	index, dense, err := CalculateDense(children, parents)
	if err != nil {
		t.Fatalf("CalculateDense: %v", err)
	}
	m, err := Calculate(children, parents, sinks, Options{Backend: TimeOptimised})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	for _, i := range sinks {
		for _, j := range sinks {
			want := dense[index[i]][index[j]]
			got := mustGet(t, m, i, j)
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("φ(%d, %d): streaming %v, dense %v", i, j, got, want)
			}
		}
	}
}

func TestCalculateDenseCycle(t *testing.T) {
	children := map[int][]int{1: {2}, 2: {1}}
	parents := map[int][]int{1: {2}, 2: {1}}
	if _, _, err := CalculateDense(children, parents); !errors.Is(err, ErrInconsistentPedigree) {
		t.Errorf("CalculateDense() error = %v, want ErrInconsistentPedigree", err)
	}
}

func TestTopoOrderParentsFirst(t *testing.T) {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {3, 1}}
	order, err := topoOrder(childrenOf(parents), parents)
	if err != nil {
		t.Fatalf("topoOrder: %v", err)
	}
	pos := make(map[int]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	for c, ps := range parents {
		for _, p := range ps {
			if pos[p] >= pos[c] {
				t.Errorf("parent %d ordered at %d, after child %d at %d", p, pos[p], c, pos[c])
			}
		}
	}
}
