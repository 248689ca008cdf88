package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kincut/kincut/pkg/pedigree"
	"github.com/kincut/kincut/pkg/render"
)

// renderCommand creates the render command: draw a pedigree as a node-link
// diagram with one rank per generation.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format     string
		out        string
		probands   string
		separator  string
		missing    string
		skipHeader bool
	)

	cmd := &cobra.Command{
		Use:   "render [pedigree-file]",
		Short: "Draw a pedigree as DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" && format != "png" {
				return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
			}

			ids, err := parseIDList(probands)
			if err != nil {
				return fmt.Errorf("invalid --probands: %w", err)
			}

			track := newProgress(c.Logger)
			ped, err := pedigree.ParseFile(args[0], pedigree.ParseOptions{
				Separator:     pick(cmd.Flags().Changed("sep"), separator, c.cfg.Kinship.Separator, ""),
				MissingParent: parseNotations(missing),
				SkipFirstLine: skipHeader || c.cfg.Kinship.SkipFirstLine,
				Probands:      ids,
				Logger:        c.Logger,
			})
			if err != nil {
				return err
			}
			track.done(fmt.Sprintf("Parsed %d individuals", ped.VertexCount()))

			highlight := ids
			if len(highlight) == 0 {
				highlight = ped.Sinks()
			}
			dot, err := render.ToDOT(ped, render.Options{Highlight: highlight})
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(cmd.Context(), dot)
			case "png":
				data, err = render.RenderPNG(cmd.Context(), dot)
			}
			if err != nil {
				return err
			}

			if out == "" {
				stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = stem + "." + format
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			printSuccess("Rendered pedigree")
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: derived from the input name)")
	cmd.Flags().StringVarP(&probands, "probands", "p", "", "reduce to these probands and highlight them")
	cmd.Flags().StringVar(&separator, "sep", "", "column separator (default: any whitespace)")
	cmd.Flags().StringVar(&missing, "missing", "", `comma-separated missing-parent notations (default "-1,.")`)
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "skip the first line of the pedigree file")

	return cmd
}
