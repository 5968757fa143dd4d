package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	boxio "github.com/matzehuels/boxtree/pkg/io"
	"github.com/matzehuels/boxtree/pkg/pipeline"
	"github.com/matzehuels/boxtree/pkg/render/sink"
)

// layoutCommand creates the layout command, which writes the layout of a
// tree document as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "layout <tree>",
		Short: "Compute the layout of a tree document and write it as JSON",
		Long: `Compute the layout of a tree document (JSON or YAML, "-" for stdin) and write
the box positions, text anchors and connectors as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, opts, err := c.prepare(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			res, _, err := c.computeLayout(cmd.Context(), doc, opts, flags.noCache)
			if err != nil {
				return err
			}

			var jsonOpts []sink.JSONOption
			if compact {
				jsonOpts = append(jsonOpts, sink.WithJSONCompact())
			}
			data, err := sink.RenderJSON(res, jsonOpts...)
			if err != nil {
				return err
			}
			if output == "-" {
				data = append(data, '\n')
			}
			return writeOutput(output, data)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	cmd.Flags().BoolVar(&compact, "compact", false, "write compact JSON")

	return cmd
}

// prepare reads the tree document and resolves the pipeline options:
// config file, then document settings, then flags.
func (c *CLI) prepare(cmd *cobra.Command, input string, flags *layoutFlags) (*boxio.Document, pipeline.Options, error) {
	opts := c.pipelineOptions()
	doc, err := boxio.ImportTree(input)
	if err != nil {
		return nil, opts, err
	}
	opts.Config = doc.Apply(opts.Config)
	flags.apply(cmd, &opts)
	return doc, opts, nil
}

func (c *CLI) computeLayout(ctx context.Context, doc *boxio.Document, opts pipeline.Options, noCache bool) (*boxtree.Result, bool, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, hit, err := runner.Layout(ctx, doc.Tree, opts)
	if err != nil {
		return nil, false, err
	}
	prog.done("computed layout", "nodes", res.NodeCount(), "rows", len(res.RowHeights), "cached", hit)
	return res, hit, nil
}
