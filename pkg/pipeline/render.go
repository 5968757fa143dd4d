package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/observability"
	"github.com/matzehuels/boxtree/pkg/render/sink"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// Render generates output artifacts in the requested formats. The dot and
// graphviz formats draw the tree itself and fail when t is nil.
func Render(ctx context.Context, res *boxtree.Result, t *tree.Tree[boxtree.Box], opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to render")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := renderAll(ctx, res, t, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, res *boxtree.Result, t *tree.Tree[boxtree.Box], opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case sink.FormatSVG:
			data = sink.RenderSVG(res, svgOptions(opts)...)
		case sink.FormatPNG:
			data, err = sink.RenderPNG(res,
				sink.WithScale(opts.Scale),
				sink.WithPNGFontSize(opts.FontSize),
				sink.WithPNGBackground(opts.Background))
		case sink.FormatJSON:
			data, err = sink.RenderJSON(res)
		case sink.FormatDOT, sink.FormatGraphviz:
			if t == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "format %s needs the input tree", format)
			}
			dot := sink.ToDOT(t, sink.DOTOptions{Style: opts.Config.Style})
			if format == sink.FormatDOT {
				data = []byte(dot)
			} else {
				data, err = sink.RenderDOTSVG(ctx, dot)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFont(DefaultFontFamily, opts.FontSize)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}
