package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kincut/kincut/internal/server"
	"github.com/kincut/kincut/pkg/pipeline"
)

// defaultServeAddr is used when neither the flag nor the config names one.
const defaultServeAddr = ":8080"

// serveCommand creates the serve command: compute a kinship matrix once and
// expose it over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		backend    string
		probands   string
		separator  string
		missing    string
		skipHeader bool
	)

	cmd := &cobra.Command{
		Use:   "serve [pedigree-file]",
		Short: "Serve a computed kinship matrix over HTTP",
		Long: `Parse the pedigree, compute the proband kinship matrix, and serve
symmetric pair lookups over HTTP.

Endpoints:
  GET /healthz                   liveness probe
  GET /api/v1/sinks              proband ids
  GET /api/v1/kinship?i=3&j=4    one kinship coefficient
  GET /api/v1/matrix             dense matrix with index map`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDList(probands)
			if err != nil {
				return fmt.Errorf("invalid --probands: %w", err)
			}

			opts := pipeline.Options{
				PedigreePath:  args[0],
				Separator:     pick(cmd.Flags().Changed("sep"), separator, c.cfg.Kinship.Separator, ""),
				MissingParent: parseNotations(missing),
				SkipFirstLine: skipHeader || c.cfg.Kinship.SkipFirstLine,
				Probands:      ids,
				Backend:       pick(cmd.Flags().Changed("backend"), backend, c.cfg.Kinship.Backend, pipeline.DefaultBackend),
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			ped, err := runner.Load(opts)
			if err != nil {
				return err
			}

			track := newProgress(c.Logger)
			m, err := runner.Compute(ped, opts)
			if err != nil {
				return err
			}
			track.done(fmt.Sprintf("Computed %d proband kinships", m.Len()))

			listen := pick(cmd.Flags().Changed("addr"), addr, c.cfg.Serve.Addr, defaultServeAddr)
			return server.New(c.Logger, m).ListenAndServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", defaultServeAddr, "listen address")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "sparse store backend: speed or memory")
	cmd.Flags().StringVarP(&probands, "probands", "p", "", "comma-separated proband ids (default: childless individuals)")
	cmd.Flags().StringVar(&separator, "sep", "", "column separator (default: any whitespace)")
	cmd.Flags().StringVar(&missing, "missing", "", `comma-separated missing-parent notations (default "-1,.")`)
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "skip the first line of the pedigree file")

	return cmd
}
