package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/metrics"
	"github.com/matzehuels/boxtree/pkg/observability"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// Measure returns the metrics of every label of t in pre-order. Labels are
// measured concurrently, so a collaborator set in opts.Measure must be safe
// for concurrent use.
func Measure(ctx context.Context, t *tree.Tree[boxtree.Box], opts Options) ([]boxtree.TextMetrics, error) {
	m := opts.Measure
	if m == nil {
		var err error
		if m, err = metrics.New(opts.Measurer, opts.FontSize); err != nil {
			return nil, err
		}
	}

	hooks := observability.Pipeline()
	n := tree.Count(t)
	hooks.OnMeasureStart(ctx, opts.Measurer, n)
	start := time.Now()
	out, err := metrics.MeasureTreeParallel(ctx, m, t, opts.Config, runtime.GOMAXPROCS(0))
	hooks.OnMeasureComplete(ctx, opts.Measurer, n, time.Since(start), err)
	return out, err
}

// ComputeLayout measures t and lays it out without consulting a cache.
func ComputeLayout(ctx context.Context, t *tree.Tree[boxtree.Box], opts Options) (*boxtree.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	ms, err := Measure(ctx, t, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	n := len(ms)
	hooks.OnLayoutStart(ctx, n)
	start := time.Now()
	res, err := boxtree.Layout(t, ms, opts.Config)
	rows := 0
	if res != nil {
		rows = len(res.RowHeights)
	}
	hooks.OnLayoutComplete(ctx, n, rows, time.Since(start), err)
	return res, err
}
