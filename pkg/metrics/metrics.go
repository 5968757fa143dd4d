// Package metrics measures box labels and converts the measurements into the
// padded [boxtree.TextMetrics] the layout consumes.
//
// A [Measurer] returns the tight bounding box of a label drawn with its
// baseline at y=0, so BBox.Y is negative (the top lies above the baseline).
// [Measure] adds padding on every side:
//
//	height   = bbox.Height + 2*pad
//	width    = bbox.Width  + 2*pad
//	baseline = -bbox.Y     + pad
//
// Two measurers are provided: [FontMeasurer] rasterizes nothing but reads
// real glyph advances from the Go Regular font, and [Estimator] uses fixed
// character ratios when no font is wanted.
package metrics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// BBox is a label's bounding box relative to its baseline origin.
type BBox struct {
	X, Y          float64
	Width, Height float64
}

// Measurer measures a single line of text.
type Measurer interface {
	Measure(text string) (BBox, error)
}

// Measure converts bb into padded layout metrics. pad is in pixels.
func Measure(bb BBox, pad float64) boxtree.TextMetrics {
	return boxtree.TextMetrics{
		Width:    bb.Width + 2*pad,
		Height:   bb.Height + 2*pad,
		Baseline: -bb.Y + pad,
	}
}

// MeasureTree measures every label of t in pre-order with the padding of cfg.
func MeasureTree(m Measurer, t *tree.Tree[boxtree.Box], cfg boxtree.Config) ([]boxtree.TextMetrics, error) {
	labels := tree.Flatten(tree.Walk(t, func(b boxtree.Box, _ int) string { return b.Label }))
	pad := cfg.PaddingPx()
	out := make([]boxtree.TextMetrics, len(labels))
	for i, label := range labels {
		bb, err := m.Measure(label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMetrics, err, "measure node %d", i)
		}
		out[i] = Measure(bb, pad)
	}
	return out, nil
}

// MeasureTreeParallel is [MeasureTree] with up to workers labels measured at
// once. m must be safe for concurrent use. Results are gathered in a
// [Collector], so the returned slice is in pre-order regardless of the order
// in which measurements finish.
func MeasureTreeParallel(ctx context.Context, m Measurer, t *tree.Tree[boxtree.Box], cfg boxtree.Config, workers int) ([]boxtree.TextMetrics, error) {
	labels := tree.Flatten(tree.Walk(t, func(b boxtree.Box, _ int) string { return b.Label }))
	pad := cfg.PaddingPx()
	col := NewCollector(len(labels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, label := range labels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bb, err := m.Measure(label)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidMetrics, err, "measure node %d", i)
			}
			return col.Set(i, Measure(bb, pad))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return col.Metrics()
}

// New returns the measurer registered under name ("font" or "estimate") at
// the given font size in pixels.
func New(name string, size float64) (Measurer, error) {
	switch name {
	case "", "font":
		return NewFontMeasurer(size)
	case "estimate":
		return NewEstimator(size), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown measurer %q (want font or estimate)", name)
	}
}
