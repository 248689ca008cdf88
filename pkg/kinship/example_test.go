package kinship_test

import (
	"fmt"

	"github.com/kincut/kincut/pkg/kinship"
)

// Two full sibs: the classic ¼ kinship.
func ExampleCalculate() {
	parents := map[int][]int{
		1: {},
		2: {},
		3: {1, 2},
		4: {1, 2},
	}
	children := map[int][]int{
		1: {3, 4},
		2: {3, 4},
		3: {},
		4: {},
	}

	m, err := kinship.Calculate(children, parents, []int{3, 4}, kinship.Options{
		Backend: kinship.TimeOptimised,
	})
	if err != nil {
		panic(err)
	}

	phi, _ := m.Get(3, 4)
	fmt.Printf("φ(3, 4) = %.2f\n", phi)
	fmt.Println("sinks:", m.Sinks())
	// Output:
	// φ(3, 4) = 0.25
	// sinks: [3 4]
}

func ExampleMatrix_ToDense() {
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}}
	children := map[int][]int{1: {3}, 2: {3}, 3: {}}

	m, err := kinship.Calculate(children, parents, []int{1, 3}, kinship.Options{})
	if err != nil {
		panic(err)
	}

	index, dense, err := m.ToDense()
	if err != nil {
		panic(err)
	}
	fmt.Printf("φ(1, 3) = %.2f\n", dense[index[1]][index[3]])
	// Output:
	// φ(1, 3) = 0.25
}
