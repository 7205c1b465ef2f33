package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	pkgio "github.com/matzehuels/antscheduler/pkg/io"
	"github.com/matzehuels/antscheduler/pkg/render"
)

// graphCommand creates the graph command for drawing a precedence graph
// without scheduling it.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
		opts   render.Options
	)

	cmd := &cobra.Command{
		Use:   "graph [graph.csv|graph.json]",
		Short: "Draw the precedence graph",
		Long: `Draw the precedence graph as Graphviz DOT or SVG.

Operations are ranked by precedence depth and colored by resource. With
--reduce, edges implied by other paths are left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "dot", "svg", "json", "csv":
			default:
				return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, json, csv)", format)
			}
			return c.runGraph(cmd.Context(), args[0], format, output, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, json, csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot, json and csv; <input>.svg for svg)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show duration and resource in labels")
	cmd.Flags().BoolVar(&opts.Reduce, "reduce", true, "drop transitively implied edges")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input, format, output string, opts render.Options) error {
	logger := loggerFromContext(ctx)

	g, err := pkgio.Import(input, pkgio.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "operations", g.Len(), "edges", g.EdgeCount())

	var data []byte
	switch format {
	case "json":
		return writeOrPrint(output, func(f *os.File) error { return pkgio.WriteJSON(g, f) })
	case "csv":
		return writeOrPrint(output, func(f *os.File) error { return pkgio.WriteCSV(g, f) })
	case "dot":
		dot := render.ToDOT(g, opts)
		return writeOrPrint(output, func(f *os.File) error {
			_, err := f.WriteString(dot)
			return err
		})
	case "svg":
		spinner := newSpinner(ctx, "Rendering graph...")
		spinner.Start()
		data, err = render.RenderSVG(ctx, render.ToDOT(g, opts))
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()
	}

	if output == "" {
		output = basePath("", input) + ".svg"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %d operations", g.Len())
	printFile(output)
	return nil
}

// writeOrPrint runs write against output, or stdout when output is empty.
func writeOrPrint(output string, write func(*os.File) error) error {
	if output == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(output)
	return nil
}
