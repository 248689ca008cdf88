package pedigree

import "errors"

var (
	// ErrTooManyParents is returned by [Pedigree.Add] when more than two
	// parents are supplied for an individual.
	ErrTooManyParents = errors.New("more than two parents")

	// ErrUnknownVertex is returned by [Pedigree.Reduce] when a proband is
	// not a pedigree vertex.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrBadRecord is returned by [Parse] and [ParseFile] for lines that
	// cannot be interpreted as pedigree records.
	ErrBadRecord = errors.New("malformed pedigree record")

	// ErrCycle is returned by [Pedigree.Levels] when the graph is not
	// acyclic, which makes generation levels undefined.
	ErrCycle = errors.New("pedigree contains a cycle")
)
