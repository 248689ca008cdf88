package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kincut/kincut/pkg/cache"
	"github.com/kincut/kincut/pkg/export"
	"github.com/kincut/kincut/pkg/kinship"
	"github.com/kincut/kincut/pkg/pedigree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → compute → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	content, err := os.ReadFile(opts.PedigreePath)
	if err != nil {
		return nil, fmt.Errorf("read pedigree: %w", err)
	}
	result.PedigreeHash = cache.Hash(content)

	key := r.Keyer.ResultKey(result.PedigreeHash, cache.ResultKeyOpts{
		Backend:  opts.Backend,
		Dense:    opts.Verify,
		Format:   fmt.Sprint(opts.Formats),
		Probands: opts.Probands,
	})

	if !opts.Refresh {
		if artifacts, ok, err := r.lookup(ctx, key); err == nil && ok {
			r.Logger.Debug("pipeline served from cache", "run", result.RunID, "key", key)
			result.Artifacts = artifacts
			result.CacheInfo.Hit = true
			return result, nil
		}
	}

	// Stage 1: Parse
	parseStart := time.Now()
	ped, err := r.parse(content, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Vertices = ped.VertexCount()

	r.Logger.Info("parsed pedigree",
		"individuals", ped.VertexCount(),
		"founders", len(ped.Founders()),
		"duration", result.Stats.ParseTime)

	// Stage 2: Compute
	computeStart := time.Now()
	m, err := r.Compute(ped, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Matrix = m
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Sinks = m.Len()
	result.Stats.PeakCut = m.Stats().PeakCut
	result.Stats.Batches = m.Stats().Batches

	r.Logger.Info("computed kinships",
		"probands", m.Len(),
		"peak_cut", m.Stats().PeakCut,
		"duration", result.Stats.ComputeTime)

	if opts.Verify {
		if err := r.verify(ped, m); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		r.Logger.Info("dense cross-check passed", "probands", m.Len())
	}

	// Stage 3: Export
	exportStart := time.Now()
	for _, format := range opts.Formats {
		data, err := exportFormat(m, format)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		result.Artifacts[format] = data
	}
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported results",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	if err := r.store(ctx, key, result.Artifacts); err != nil {
		// A failed cache write degrades the next run, not this one.
		r.Logger.Warn("cache write failed", "err", err)
	}
	return result, nil
}

// Compute runs the kinship engine over the pedigree's sinks. It bypasses
// the cache and always returns a live matrix; the server uses this to build
// its in-memory oracle.
func (r *Runner) Compute(ped *pedigree.Pedigree, opts Options) (*kinship.Matrix, error) {
	backend, err := kinship.ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}
	sinks := opts.Probands
	if len(sinks) == 0 {
		sinks = ped.Sinks()
	}
	return kinship.Calculate(ped.ChildrenMap(), ped.ParentsMap(), sinks, kinship.Options{
		Backend:     backend,
		Reporter:    opts.Reporter,
		ReportEvery: opts.ReportEvery,
	})
}

// Load parses a pedigree file with the pipeline's parse options.
func (r *Runner) Load(opts Options) (*pedigree.Pedigree, error) {
	content, err := os.ReadFile(opts.PedigreePath)
	if err != nil {
		return nil, fmt.Errorf("read pedigree: %w", err)
	}
	return r.parse(content, opts)
}

func (r *Runner) parse(content []byte, opts Options) (*pedigree.Pedigree, error) {
	return pedigree.Parse(bytes.NewReader(content), pedigree.ParseOptions{
		Separator:     opts.Separator,
		MissingParent: opts.MissingParent,
		SkipFirstLine: opts.SkipFirstLine,
		Probands:      opts.Probands,
		Logger:        r.Logger,
	})
}

// verify recomputes every proband pair with the quadratic dense algorithm
// and compares. Disagreement beyond floating tolerance means an engine bug
// and aborts the run.
func (r *Runner) verify(ped *pedigree.Pedigree, m *kinship.Matrix) error {
	index, dense, err := kinship.CalculateDense(ped.ChildrenMap(), ped.ParentsMap())
	if err != nil {
		return err
	}
	for _, i := range m.Sinks() {
		for _, j := range m.Sinks() {
			got, err := m.Get(i, j)
			if err != nil {
				return err
			}
			want := dense[index[i]][index[j]]
			if math.Abs(got-want) > 1e-9 {
				return fmt.Errorf("φ(%d, %d): streaming %v, dense %v", i, j, got, want)
			}
		}
	}
	return nil
}

func exportFormat(m *kinship.Matrix, format string) ([]byte, error) {
	switch format {
	case export.FormatCSV:
		return export.MarshalPairsCSV(m)
	case export.FormatJSON:
		return export.MarshalDenseJSON(m)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// =============================================================================
// Cache plumbing
// =============================================================================

// lookup fetches and decodes a cached artifact bundle.
func (r *Runner) lookup(ctx context.Context, key string) (map[string][]byte, bool, error) {
	blob, ok, err := r.Cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var artifacts map[string][]byte
	if err := json.Unmarshal(blob, &artifacts); err != nil {
		// Corrupt entry - recompute and overwrite.
		return nil, false, nil
	}
	return artifacts, true, nil
}

// store encodes and writes an artifact bundle.
func (r *Runner) store(ctx context.Context, key string, artifacts map[string][]byte) error {
	blob, err := json.Marshal(artifacts)
	if err != nil {
		return err
	}
	return r.Cache.Set(ctx, key, blob, DefaultCacheTTL)
}
