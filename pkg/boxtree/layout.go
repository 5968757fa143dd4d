package boxtree

import (
	stderrors "errors"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/style"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// ErrNotReady is returned by [Layout] when fewer metrics than nodes are
// supplied. It is not a failure: the caller should keep whatever output it
// already has and retry once the remaining metrics arrive.
var ErrNotReady = stderrors.New("text metrics incomplete")

// RowHeights returns, for every depth of t, the height of the tallest box at
// that depth. metrics are indexed in pre-order; [ErrNotReady] is returned
// while they do not cover every node.
func RowHeights[T any](t *tree.Tree[T], metrics []TextMetrics) ([]float64, error) {
	if t == nil {
		return nil, nil
	}
	if len(metrics) < tree.Count(t) {
		return nil, ErrNotReady
	}
	rows := make([]float64, tree.Depth(t)+1)
	i := 0
	tree.Walk(t, func(_ T, depth int) struct{} {
		rows[depth] = max(rows[depth], metrics[i].Height)
		i++
		return struct{}{}
	})
	return rows, nil
}

// Layout lays out t. metrics holds one entry per node in pre-order.
//
// It returns [ErrNotReady] if metrics has fewer entries than t has nodes, an
// INVALID_* error for malformed input and an INCOMPLETE_ITERATION error if
// the traversal contract is broken. On error no partial result is returned.
func Layout(t *tree.Tree[Box], metrics []TextMetrics, cfg Config) (*Result, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "nil tree")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := tree.Count(t)
	switch {
	case len(metrics) < n:
		return nil, ErrNotReady
	case len(metrics) > n:
		return nil, errors.New(errors.ErrCodeInvalidMetrics, "got %d metrics for %d nodes", len(metrics), n)
	}
	for i, m := range metrics {
		if err := m.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMetrics, err, "node %d", i)
		}
	}

	rows, err := RowHeights(t, metrics)
	if err != nil {
		return nil, err
	}
	p := &pass{
		metrics: metrics,
		rows:    rows,
		pad:     cfg.PaddingPx(),
		margin:  cfg.MarginPx(),
		bgRects: make([]Rect, n),
		anchors: make([]Point, n),
	}
	root, err := tree.Walk2(t, p.visit, &Placement{XOffset: cfg.Border, YOffset: cfg.Border})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Canvas: Size{
			Width:  root.Data.Width + 2*cfg.Border,
			Height: floats.Sum(p.rows) + 2*float64(len(p.rows)-1)*p.margin + 2*cfg.Border,
		},
		BgRects:     p.bgRects,
		TextAnchors: p.anchors,
		Tails:       nonNil(p.tails),
		Heads:       nonNil(p.heads),
		LRBounds:    nonNil(p.lrbounds),
		RowHeights:  p.rows,
		Margin:      p.margin,
		PathStyle:   style.Merge(style.Builtin().Path, cfg.Style.Path),
	}
	tree.Walk(t, func(b Box, _ int) struct{} {
		res.Labels = append(res.Labels, b.Label)
		res.IDs = append(res.IDs, b.ID)
		res.Styles = append(res.Styles, style.Resolve(cfg.Style, b.Style))
		return struct{}{}
	})
	return res, nil
}

// pass holds the output buffers of one layout. Connector slices are append
// only; a node remembers their lengths on entry so that it can shift exactly
// the geometry its own subtree emitted.
type pass struct {
	metrics []TextMetrics
	rows    []float64
	pad     float64
	margin  float64

	next     int // pre-order index of the next node to visit
	bgRects  []Rect
	anchors  []Point
	tails    []Segment
	heads    []Segment
	lrbounds []Segment
}

func (p *pass) visit(_ Box, next tree.Next[NodeResult, *Placement], d *Placement) (NodeResult, error) {
	t0, h0, l0 := len(p.tails), len(p.heads), len(p.lrbounds)
	j := p.next
	p.next++
	m := p.metrics[j]

	childY := d.YOffset + p.rows[d.Depth] + 2*p.margin

	var (
		cw      float64
		centers []float64
	)
	for {
		child, ok, err := next(&Placement{XOffset: d.XOffset + cw, YOffset: childY, Depth: d.Depth + 1})
		if err != nil {
			return NodeResult{}, err
		}
		if !ok {
			break
		}
		centers = append(centers, child.Data.BgRect.CenterX())
		cw += p.margin + child.Data.Width
	}

	if len(centers) > 0 {
		cw -= p.margin

		treeHead := (centers[0] + centers[len(centers)-1]) / 2
		myCenter := d.XOffset + m.Width/2
		crossY := childY - p.margin
		bottom := d.YOffset + m.Height

		if len(centers) > 1 {
			p.tails = append(p.tails, Segment{{treeHead, bottom}, {treeHead, crossY}})
			for _, c := range centers[1 : len(centers)-1] {
				p.heads = append(p.heads, Segment{{c, crossY}, {c, childY}})
			}
			p.lrbounds = append(p.lrbounds, Segment{{centers[0], childY}, {centers[len(centers)-1], childY}})
		} else {
			p.tails = append(p.tails, Segment{{treeHead, bottom}, {treeHead, childY}})
		}

		switch {
		case treeHead > myCenter && cw > m.Width:
			// Children reach further right than this box: move the box.
			d.XOffset += min(treeHead-myCenter, cw-m.Width)
		case myCenter > treeHead && m.Width > cw:
			// This box is wider: move everything its subtree emitted.
			p.shift(min(myCenter-treeHead, m.Width-cw), j+1, t0, h0, l0)
		}
	}

	bg := Rect{X: d.XOffset, Y: d.YOffset, Width: m.Width, Height: m.Height}
	p.bgRects[j] = bg
	p.anchors[j] = Point{X: bg.X + p.pad, Y: bg.Y + m.Baseline}

	return NodeResult{
		Height:   m.Height + 2*p.margin,
		Width:    max(m.Width, cw),
		Baseline: m.Baseline,
		BgRect:   bg,
	}, nil
}

// shift moves right by dx the boxes of nodes first..p.next-1 and the
// connectors appended since the given slice lengths.
func (p *pass) shift(dx float64, first, t0, h0, l0 int) {
	for i := first; i < p.next; i++ {
		p.bgRects[i].X += dx
		p.anchors[i].X += dx
	}
	for _, segs := range [][]Segment{p.tails[t0:], p.heads[h0:], p.lrbounds[l0:]} {
		for i := range segs {
			segs[i] = segs[i].Shift(dx)
		}
	}
}

func nonNil(s []Segment) []Segment {
	if s == nil {
		return []Segment{}
	}
	return s
}
