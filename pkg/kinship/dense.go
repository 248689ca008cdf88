package kinship

import (
	"fmt"
	"sort"
)

// CalculateDense computes the full all-pairs kinship matrix of a pedigree
// without evicting anything. Memory is quadratic in the number of vertices,
// so this is only suitable for small pedigrees and for cross-validating the
// streaming engine.
//
// The returned index maps every vertex id to its row in the matrix; both
// orientations are filled.
func CalculateDense(children, parents map[int][]int) (map[int]int, [][]float64, error) {
	if err := validatePedigree(children, parents, nil); err != nil {
		return nil, nil, err
	}

	order, err := topoOrder(children, parents)
	if err != nil {
		return nil, nil, err
	}

	n := len(order)
	index := make(map[int]int, n)
	dense := make([][]float64, n)
	for i := range dense {
		dense[i] = make([]float64, n)
	}

	for i, v := range order {
		index[v] = i
		ps := parents[v]

		if len(ps) == 2 {
			dense[i][i] = (1 + dense[index[ps[0]]][index[ps[1]]]) / 2
		} else {
			dense[i][i] = 0.5
		}

		for j := 0; j < i; j++ {
			var phi float64
			switch len(ps) {
			case 1:
				phi = dense[index[ps[0]]][j] / 2
			case 2:
				phi = (dense[index[ps[0]]][j] + dense[index[ps[1]]][j]) / 2
			}
			dense[i][j] = phi
			dense[j][i] = phi
		}
	}
	return index, dense, nil
}

// topoOrder returns the vertices with every parent before its children.
// Ready vertices are emitted in ascending id order so the result is
// deterministic for a given pedigree.
func topoOrder(children, parents map[int][]int) ([]int, error) {
	remaining := make(map[int]int, len(parents))
	var ready []int
	for v, ps := range parents {
		if n := uniqueCount(ps); n > 0 {
			remaining[v] = n
		} else {
			ready = append(ready, v)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, len(parents))
	for len(ready) > 0 {
		var next []int
		for _, v := range ready {
			order = append(order, v)
			for _, c := range unique(children[v]) {
				remaining[c]--
				if remaining[c] == 0 {
					delete(remaining, c)
					next = append(next, c)
				}
			}
		}
		sort.Ints(next)
		ready = next
	}

	if len(order) != len(parents) {
		return nil, fmt.Errorf("%w: %d of %d vertices unreachable from founders",
			ErrInconsistentPedigree, len(parents)-len(order), len(parents))
	}
	return order, nil
}
