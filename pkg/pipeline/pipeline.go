// Package pipeline provides the core computation pipeline for kincut.
//
// This package implements the complete parse → compute → export pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps behavior
// consistent across entry points and puts result caching in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the pedigree file and optionally reduce it to the
//     ascending genealogy of the probands
//  2. Compute: run the streaming kinship engine over the sinks
//  3. Export: serialise the matrix in the requested formats (CSV, JSON)
//
// Exported artifacts are cached keyed by the pedigree content hash plus the
// computation options, so re-running an expensive computation with unchanged
// inputs is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    PedigreePath: "cohort.ped",
//	    Backend:      "speed",
//	    Formats:      []string{"csv"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	csvData := result.Artifacts["csv"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/kincut/kincut/pkg/export"
	"github.com/kincut/kincut/pkg/kinship"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultBackend is the default sparse store backend.
	DefaultBackend = "speed"

	// DefaultFormat is the default export format.
	DefaultFormat = export.FormatCSV

	// DefaultCacheTTL is how long cached results live. Keys embed the
	// pedigree content hash, so entries never go stale; the TTL only
	// bounds disk growth.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the kinship pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Parse options
	PedigreePath  string   `json:"pedigree_path"`
	Separator     string   `json:"separator,omitempty"`
	MissingParent []string `json:"missing_parent,omitempty"`
	SkipFirstLine bool     `json:"skip_first_line,omitempty"`

	// Probands are the individuals to retain kinships for. Empty selects
	// every childless individual. The pedigree is reduced to the probands'
	// ascending genealogy before computation.
	Probands []int `json:"probands,omitempty"`

	// Compute options
	Backend     string `json:"backend,omitempty"`
	Verify      bool   `json:"verify,omitempty"` // cross-check against the dense algorithm
	ReportEvery int    `json:"report_every,omitempty"`

	// Reporter receives traversal progress. Not serialisable; set by the
	// hosting process.
	Reporter kinship.Reporter `json:"-"`

	// Output options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // bypass the cache read
}

// ValidateAndSetDefaults normalizes the options in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PedigreePath == "" {
		return fmt.Errorf("pedigree path is required")
	}
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if _, err := kinship.ParseBackend(o.Backend); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if !export.ValidFormats[f] {
			return fmt.Errorf("unknown format %q", f)
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Stats collects timing and size information for one pipeline run.
type Stats struct {
	ParseTime   time.Duration `json:"parse_time"`
	ComputeTime time.Duration `json:"compute_time"`
	ExportTime  time.Duration `json:"export_time"`

	Vertices int `json:"vertices"`
	Sinks    int `json:"sinks"`
	PeakCut  int `json:"peak_cut"`
	Batches  int `json:"batches"`
}

// CacheInfo reports whether the run was served from cache.
type CacheInfo struct {
	Hit bool `json:"hit"`
}

// Result is the outcome of a pipeline execution.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Matrix is the computed kinship oracle. Nil when the run was served
	// from cache (only artifacts are cached, not the sparse store).
	Matrix *kinship.Matrix

	// Artifacts maps format name to exported bytes.
	Artifacts map[string][]byte

	// PedigreeHash is the SHA-256 of the pedigree file content.
	PedigreeHash string

	Stats     Stats
	CacheInfo CacheInfo
}
