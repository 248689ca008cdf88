package kinship

import "errors"

var (
	// ErrInconsistentPedigree is returned by [Calculate] and [CalculateDense]
	// when the children and parents maps disagree: a vertex appears in one
	// map but not the other, an edge is recorded in only one direction, a
	// vertex has more than two parents, a sink is not a pedigree vertex, or
	// a reference counter underflows during the traversal.
	ErrInconsistentPedigree = errors.New("inconsistent pedigree")

	// ErrUnknownVertex is returned when the kinship recurrence references a
	// vertex that is not resident in the store. This indicates a
	// processing-order bug or corrupted input and is fatal.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrNotResident is returned by store lookups for vertices that are not
	// currently resident, and by [Matrix.Get] after [Matrix.ToDense] has
	// consumed the sparse store.
	ErrNotResident = errors.New("vertex not resident")

	// ErrNotASink is returned by [Matrix.Get] when either argument is not a
	// sink vertex. Kinships are only retained for sinks.
	ErrNotASink = errors.New("not a sink vertex")

	// ErrUnknownBackend is returned by [ParseBackend] for unrecognized
	// backend names.
	ErrUnknownBackend = errors.New("unknown backend")
)
