package boxtree

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// Engine tracks one tree whose metrics arrive incrementally and recomputes
// the layout from scratch once all of them are known. Until then it keeps
// serving the previous result.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	tree    *tree.Tree[Box]
	cfg     Config
	metrics []*TextMetrics
	result  *Result
	logger  *log.Logger
}

// EngineOption configures an [Engine].
type EngineOption func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine for t with no metrics recorded.
func NewEngine(t *tree.Tree[Box], cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.SetTree(t)
	return e
}

// SetTree replaces the tree and forgets all metrics. The last result is
// kept until the new tree is fully measured.
func (e *Engine) SetTree(t *tree.Tree[Box]) {
	e.tree = t
	e.metrics = make([]*TextMetrics, tree.Count(t))
}

// SetConfig replaces the spacing configuration. Metrics already include
// padding, so callers changing Padding or PixelsPerUnit should re-measure.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg }

// Len returns the number of nodes awaiting or holding metrics.
func (e *Engine) Len() int { return len(e.metrics) }

// SetMetrics records the metrics of the i-th node in pre-order.
func (e *Engine) SetMetrics(i int, m TextMetrics) error {
	if i < 0 || i >= len(e.metrics) {
		return errors.New(errors.ErrCodeInvalidInput, "metrics index %d out of range [0,%d)", i, len(e.metrics))
	}
	e.metrics[i] = &m
	return nil
}

// Ready reports whether every node has metrics.
func (e *Engine) Ready() bool {
	for _, m := range e.metrics {
		if m == nil {
			return false
		}
	}
	return e.tree != nil
}

// Update recomputes the layout if every node has metrics. It reports whether
// a new result was produced. On error the previous result is kept.
func (e *Engine) Update() (bool, error) {
	if !e.Ready() {
		e.logger.Debug("layout deferred", "measured", e.measured(), "nodes", len(e.metrics))
		return false, nil
	}
	metrics := make([]TextMetrics, len(e.metrics))
	for i, m := range e.metrics {
		metrics[i] = *m
	}

	start := time.Now()
	res, err := Layout(e.tree, metrics, e.cfg)
	if err != nil {
		return false, err
	}
	e.result = res
	e.logger.Debug("layout updated",
		"nodes", res.NodeCount(),
		"rows", len(res.RowHeights),
		"duration", time.Since(start))
	return true, nil
}

// Result returns the most recent layout, or nil if none was computed yet.
func (e *Engine) Result() *Result { return e.result }

func (e *Engine) measured() int {
	n := 0
	for _, m := range e.metrics {
		if m != nil {
			n++
		}
	}
	return n
}
