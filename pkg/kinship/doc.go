// Package kinship computes kinship coefficients over large pedigrees with
// bounded memory.
//
// A pedigree is a directed acyclic graph in which every vertex is an
// individual and edges point from an individual to its (at most two)
// parents. The kinship coefficient φ(i, j) is the probability that a random
// allele drawn from i is identical-by-descent to a random allele drawn from
// j; φ(v, v) is the classical Malécot self-kinship.
//
// # Architecture
//
// The package is built from three pieces, leaves first:
//
//   - A sparse symmetric store holding the kinship values of the vertices
//     currently resident in the traversal. Each unordered pair {i, j} is
//     stored exactly once, under the smaller key. Two backends implement the
//     same contract: [TimeOptimised] (nested hash maps, faster lookups) and
//     [MemoryOptimised] (sorted-slice rows, smaller footprint).
//   - A cut scheduler: a min-heap of ready batches, ordered by the estimated
//     net change in store row count that processing the batch would cause.
//     Lower scores shrink the cut, so they run first.
//   - The engine itself: it pops batches, evaluates the kinship recurrence
//     for each vertex against every resident vertex, decrements reference
//     counters, and evicts vertices whose children have all been processed.
//
// Only the sink vertices (probands) survive to the end of the traversal;
// everything else is evicted as soon as it becomes irrelevant. Peak memory
// is therefore proportional to the widest cut the scheduler encounters, not
// to the pedigree size.
//
// # Recurrence
//
// For a vertex v with parents a and b:
//
//	φ(v, v) = ½ · (1 + φ(a, b))        two recorded parents
//	φ(v, v) = ½                        otherwise (treated as a founder)
//	φ(v, u) = ½ · (φ(a, u) + φ(b, u))  two parents
//	φ(v, u) = ½ · φ(a, u)              one parent
//	φ(v, u) = 0                        founder
//
// # Usage
//
// Compute the proband kinship matrix:
//
//	m, err := kinship.Calculate(children, parents, sinks, kinship.Options{
//	    Backend: kinship.TimeOptimised,
//	})
//	if err != nil {
//	    return err
//	}
//	phi, err := m.Get(probandA, probandB)
//
// Convert to a dense matrix (this empties the sparse store):
//
//	index, dense, err := m.ToDense()
//
// For small pedigrees, or to cross-validate the streaming engine,
// [CalculateDense] computes the full all-pairs matrix directly.
//
// # Determinism
//
// Given identical input, the traversal visits vertices in the same order on
// every run: founders are seeded in ascending id order, batches are
// processed in ascending id order, and scheduler ties are broken by
// insertion sequence. The resulting matrix is identical across both
// backends, bit for bit.
package kinship
