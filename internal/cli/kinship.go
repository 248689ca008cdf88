package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kincut/kincut/pkg/pipeline"
)

// timeUnit is the rounding applied to durations in summaries.
const timeUnit = time.Millisecond

// kinshipFlags collects the kinship command's flag values.
type kinshipFlags struct {
	backend     string
	probands    string
	separator   string
	missing     string
	skipHeader  bool
	formats     string
	outDir      string
	noCache     bool
	refresh     bool
	verify      bool
	reportEvery int
	watch       bool
}

// kinshipCommand creates the kinship command: parse a pedigree, run the
// streaming engine over its probands, and write the exported artifacts.
func (c *CLI) kinshipCommand() *cobra.Command {
	var flags kinshipFlags

	cmd := &cobra.Command{
		Use:   "kinship [pedigree-file]",
		Short: "Compute the proband kinship matrix of a pedigree",
		Long: `Compute the kinship coefficients of a pedigree's probands.

The pedigree file lists one individual per line followed by up to two
parent ids; missing parents use a configurable notation (default "-1" or
"."). Probands default to every childless individual. Results are written
as CSV (one row per unordered proband pair) and optionally as a dense JSON
matrix.

Results are cached keyed by the pedigree content and the computation
options, so re-running with unchanged inputs is instant. Use --refresh to
force a recomputation or --no-cache to disable caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runKinship(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.backend, "backend", "b", "", "sparse store backend: speed or memory")
	cmd.Flags().StringVarP(&flags.probands, "probands", "p", "", "comma-separated proband ids (default: childless individuals)")
	cmd.Flags().StringVar(&flags.separator, "sep", "", "column separator (default: any whitespace)")
	cmd.Flags().StringVar(&flags.missing, "missing", "", `comma-separated missing-parent notations (default "-1,.")`)
	cmd.Flags().BoolVar(&flags.skipHeader, "skip-header", false, "skip the first line of the pedigree file")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "comma-separated output formats: csv,json")
	cmd.Flags().StringVarP(&flags.outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "cross-check against the dense all-pairs algorithm")
	cmd.Flags().IntVar(&flags.reportEvery, "report-every", 0, "batches between progress reports")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "show live traversal progress")

	return cmd
}

func (c *CLI) runKinship(cmd *cobra.Command, path string, flags kinshipFlags) error {
	opts, err := c.kinshipOptions(cmd, path, flags)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cmd, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	var result *pipeline.Result
	if flags.watch {
		result, err = runWatched(cmd.Context(), runner, opts)
	} else {
		sp := newSpinner(cmd.Context(), "computing kinships")
		sp.Start()
		result, err = runner.Execute(cmd.Context(), opts)
		sp.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(flags.outDir, path, result.Artifacts)
	if err != nil {
		return err
	}

	c.printKinshipSummary(result, paths)
	return nil
}

// kinshipOptions merges flags and config into pipeline options.
func (c *CLI) kinshipOptions(cmd *cobra.Command, path string, flags kinshipFlags) (pipeline.Options, error) {
	probands, err := parseIDList(flags.probands)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid --probands: %w", err)
	}

	missing := parseNotations(flags.missing)
	if missing == nil {
		missing = c.cfg.Kinship.MissingParent
	}
	reportEvery := flags.reportEvery
	if reportEvery == 0 {
		reportEvery = c.cfg.Kinship.ReportEvery
	}

	return pipeline.Options{
		PedigreePath:  path,
		Separator:     pick(cmd.Flags().Changed("sep"), flags.separator, c.cfg.Kinship.Separator, ""),
		MissingParent: missing,
		SkipFirstLine: flags.skipHeader || c.cfg.Kinship.SkipFirstLine,
		Probands:      probands,
		Backend:       pick(cmd.Flags().Changed("backend"), flags.backend, c.cfg.Kinship.Backend, pipeline.DefaultBackend),
		Verify:        flags.verify,
		ReportEvery:   reportEvery,
		Formats:       parseFormats(flags.formats),
		Refresh:       flags.refresh,
	}, nil
}

// writeArtifacts writes each exported format next to the input's base name.
func writeArtifacts(outDir, input string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	formats := make([]string, 0, len(artifacts))
	for format := range artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := filepath.Join(outDir, stem+".kinship."+format)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *CLI) printKinshipSummary(result *pipeline.Result, paths []string) {
	if result.CacheInfo.Hit {
		printSuccess("%s", "Result served from cache "+styleCached.Render("(cached)"))
	} else {
		printSuccess("Computed kinships for %s probands",
			StyleNumber.Render(fmt.Sprint(result.Stats.Sinks)))
		printDetail("individuals: %d · peak cut: %d · batches: %d",
			result.Stats.Vertices, result.Stats.PeakCut, result.Stats.Batches)
		printDetail("parse %s · compute %s · export %s",
			result.Stats.ParseTime.Round(timeUnit),
			result.Stats.ComputeTime.Round(timeUnit),
			result.Stats.ExportTime.Round(timeUnit))
	}
	for _, p := range paths {
		printFile(p)
	}
}
