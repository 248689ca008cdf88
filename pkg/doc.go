// Package pkg provides the core libraries for kincut kinship computation.
//
// # Overview
//
// kincut computes sparse kinship matrices over large pedigrees with bounded
// memory. The pkg directory is organized into focused areas:
//
//   - [kinship] - The streaming engine: sparse symmetric store, cut
//     scheduler, recurrence, eviction
//   - [pedigree] - Pedigree model, text parsing, ascending reduction,
//     generation levels
//   - [pipeline] - Orchestration (parse → compute → export) with caching
//   - [export] - CSV and JSON serialisation of kinship results
//   - [render] - Graphviz DOT rendering of pedigrees
//   - [cache] - Result caching (file, Redis, null backends)
//   - [observability] - Optional engine and cache instrumentation hooks
//
// # Architecture
//
// The typical data flow:
//
//	pedigree file
//	     ↓
//	[pedigree] package (parse + reduce to probands)
//	     ↓
//	[kinship] package (streaming traversal over the sinks)
//	     ↓
//	[export] package (CSV / JSON artifacts)
//
// # Quick Start
//
// Compute proband kinships from a pedigree file:
//
//	ped, err := pedigree.ParseFile("cohort.ped", pedigree.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	m, err := kinship.Calculate(ped.ChildrenMap(), ped.ParentsMap(), ped.Sinks(),
//	    kinship.Options{Backend: kinship.TimeOptimised})
//	if err != nil {
//	    return err
//	}
//	phi, err := m.Get(probandA, probandB)
package pkg
