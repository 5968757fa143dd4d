package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/client"
	boxio "github.com/matzehuels/boxtree/pkg/io"
	"github.com/matzehuels/boxtree/pkg/pipeline"
	"github.com/matzehuels/boxtree/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layout     layoutFlags
	output     string   // output file (single format) or base path
	formats    []string // svg, png, json, dot, graphviz
	scale      float64  // PNG pixel density
	background string   // canvas fill, transparent if empty
	server     string   // render on a boxtree server instead of locally
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Render a tree document to SVG, PNG, JSON, DOT or Graphviz SVG",
		Long: `Render a tree document (JSON or YAML, "-" for stdin).

With a single format and --output, the file is written exactly there. Otherwise
one file per format is written next to the input (or the --output base path),
named <base>.svg, <base>.png, <base>.json, <base>.dot and <base>.graphviz.svg.`,
		Example: `  boxtree render tree.json
  boxtree render tree.yaml -f svg,png --scale 3
  boxtree render tree.json -f graphviz -o out/compare.svg
  boxtree render tree.json --server http://localhost:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := sink.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.layout.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, graphviz (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel density")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color")
	cmd.Flags().StringVar(&opts.server, "server", "", "render on the boxtree server at this URL")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(sink.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	doc, popts, err := c.prepare(cmd, input, &opts.layout)
	if err != nil {
		return err
	}
	popts.Formats = opts.formats
	popts.Scale = opts.scale
	popts.Background = opts.background

	var artifacts map[string][]byte
	if opts.server != "" {
		artifacts, err = c.renderRemote(ctx, opts.server, doc, popts)
		if err != nil {
			return err
		}
	} else {
		runner, err := c.newRunner(ctx, opts.layout.noCache)
		if err != nil {
			return err
		}
		defer runner.Close()

		verbose := c.Logger.GetLevel() <= LogDebug
		res, err := spin(ctx, os.Stderr, verbose, "Rendering "+input, func() (*pipeline.Result, error) {
			return runner.Execute(ctx, doc.Tree, popts)
		})
		if err != nil {
			return err
		}
		artifacts = res.Artifacts
		printSuccess("Rendered %s", input)
		printStats(res.Stats.NodeCount, res.Stats.RowCount, res.Layout.Canvas.Width, res.Layout.Canvas.Height, res.CacheInfo.LayoutHit)
	}

	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats))
		if err := writeOutput(path, artifacts[format]); err != nil {
			return err
		}
		if path != "-" {
			printFile(path)
		}
	}
	return nil
}

// renderRemote sends the document to a server, once per format. The
// effective spacing and style travel in the document; the measurer and
// pixels-per-unit are the server's.
func (c *CLI) renderRemote(ctx context.Context, server string, doc *boxio.Document, opts pipeline.Options) (map[string][]byte, error) {
	cl, err := client.New(server, nil)
	if err != nil {
		return nil, err
	}
	sent := *doc
	sent.Padding = &opts.Config.Padding
	sent.Margin = &opts.Config.Margin
	sent.Border = &opts.Config.Border
	sent.Style = opts.Config.Style

	var body bytes.Buffer
	if err := boxio.WriteTree(&sent, &body, boxio.FormatJSON); err != nil {
		return nil, err
	}
	formats := opts.Formats

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		prog := newProgress(c.Logger)
		data, err := cl.Render(ctx, format, body.Bytes())
		if err != nil {
			return nil, err
		}
		prog.done("rendered remotely", "format", format, "server", server, "bytes", len(data))
		artifacts[format] = data
	}
	printSuccess("Rendered on %s", server)
	return artifacts, nil
}

// outputPath names the file a format is written to.
func outputPath(output, input, format string, n int) string {
	if output != "" && n == 1 {
		return output
	}
	return basePath(output, input) + sink.Ext(format)
}
