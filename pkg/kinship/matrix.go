package kinship

import "fmt"

// Matrix is the queryable kinship oracle returned by [Calculate].
//
// It owns the sparse symmetric store left over from the traversal, which at
// that point holds exactly the closed kinship matrix over the sink vertices.
// Lookups are symmetric; only sinks can be queried.
type Matrix struct {
	s       store
	sinks   map[int]struct{}
	order   []int
	backend Backend
	stats   Stats
}

// Get returns φ(i, j). The lookup is symmetric: Get(i, j) == Get(j, i).
//
// Returns an error wrapping [ErrNotASink] if either vertex is not a sink,
// or wrapping [ErrNotResident] if the store has been consumed by [ToDense].
func (m *Matrix) Get(i, j int) (float64, error) {
	if _, ok := m.sinks[i]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNotASink, i)
	}
	if _, ok := m.sinks[j]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNotASink, j)
	}
	phi, err := m.s.get(i, j)
	if err != nil {
		return 0, fmt.Errorf("kinship {%d, %d}: %w", i, j, err)
	}
	return phi, nil
}

// Sinks returns the sink vertex ids in ascending order.
// The returned slice is a copy.
func (m *Matrix) Sinks() []int {
	out := make([]int, len(m.order))
	copy(out, m.order)
	return out
}

// IsSink reports whether v is one of the matrix's sink vertices.
func (m *Matrix) IsSink(v int) bool {
	_, ok := m.sinks[v]
	return ok
}

// Len returns the number of sinks.
func (m *Matrix) Len() int { return len(m.order) }

// Backend returns the store backend the matrix was computed with.
func (m *Matrix) Backend() Backend { return m.backend }

// Stats returns the traversal statistics.
func (m *Matrix) Stats() Stats { return m.stats }

// ToDense converts the sparse store to a dense symmetric matrix with both
// orientations filled, together with a mapping from vertex id to row index.
// Rows follow ascending sink id order.
//
// The conversion consumes the sparse store to free its memory: after a
// successful call, [Get] fails with [ErrNotResident]. Calling ToDense a
// second time fails the same way.
func (m *Matrix) ToDense() (map[int]int, [][]float64, error) {
	index := make(map[int]int, len(m.order))
	for i, v := range m.order {
		index[v] = i
	}

	dense := make([][]float64, len(m.order))
	for i := range dense {
		dense[i] = make([]float64, len(m.order))
	}
	for i, v := range m.order {
		for j := i; j < len(m.order); j++ {
			phi, err := m.s.get(v, m.order[j])
			if err != nil {
				return nil, nil, fmt.Errorf("densify {%d, %d}: %w", v, m.order[j], err)
			}
			dense[i][j] = phi
			dense[j][i] = phi
		}
	}

	m.s.clear()
	return index, dense, nil
}
