// Package pedigree models genealogical graphs: directed acyclic graphs in
// which each vertex is an individual and edges point from individuals to
// their (at most two) parents.
//
// The package covers everything around the kinship engine's input: building
// a pedigree programmatically, parsing one from the common whitespace- or
// character-separated text format, reducing it to the ascending genealogy of
// a set of probands, and computing generation levels.
//
// # Text format
//
// Each line records one individual followed by its parents:
//
//	# individual father mother
//	1 -1 -1
//	2 -1 -1
//	3 1 2
//
// Missing parents are written with a configurable notation (by default "-1"
// or "."). Columns beyond the parents are ignored, so files carrying extra
// metadata parse unchanged. A leading line starting with '#' is treated as a
// header.
//
// # Typical use
//
//	ped, err := pedigree.ParseFile("cohort.ped", pedigree.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	m, err := kinship.Calculate(ped.ChildrenMap(), ped.ParentsMap(), ped.Sinks(), kinship.Options{})
package pedigree
