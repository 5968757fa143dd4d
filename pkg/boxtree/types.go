package boxtree

import (
	"github.com/matzehuels/boxtree/pkg/style"
)

// Box is the payload of an input node.
type Box struct {
	Label string    `json:"label" yaml:"label"`
	ID    string    `json:"id,omitempty" yaml:"id,omitempty"`
	Style style.Set `json:"style,omitempty" yaml:"style,omitempty"`
}

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a top-left corner plus a size, in canvas coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of r.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// Bottom returns the y coordinate of r's lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Segment is a straight connector line.
type Segment [2]Point

// Shift returns s moved right by dx.
func (s Segment) Shift(dx float64) Segment {
	s[0].X += dx
	s[1].X += dx
	return s
}

// Size is a canvas extent in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextMetrics are the pixel dimensions of a node's box: the measured label
// inflated by the padding on every side. Baseline is the distance from the
// top of the box to the text baseline.
type TextMetrics struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Baseline float64 `json:"baseline"`
}

// Placement is the context a parent hands to each child: the top-left
// corner the child's subtree starts at and the child's row.
type Placement struct {
	XOffset float64
	YOffset float64
	Depth   int
}

// NodeResult is what a node reports to its parent once its subtree is laid
// out. Width spans the node and its children; Height and Baseline describe
// the node's own box, Height including one margin above and below.
type NodeResult struct {
	Height   float64 `json:"height"`
	Width    float64 `json:"width"`
	Baseline float64 `json:"baseline"`
	BgRect   Rect    `json:"bg_rect"`
}

// Result is the complete output of a layout pass. The per-node slices are
// indexed in pre-order, matching the metrics input.
type Result struct {
	Canvas      Size        `json:"canvas"`
	BgRects     []Rect      `json:"bg_rects"`
	TextAnchors []Point     `json:"text_anchors"`
	Labels      []string    `json:"labels"`
	IDs         []string    `json:"ids"`
	Styles      []style.Set `json:"styles"`
	PathStyle   style.Attrs `json:"path_style"`
	Tails       []Segment   `json:"tails"`
	Heads       []Segment   `json:"heads"`
	LRBounds    []Segment   `json:"lr_bounds"`
	RowHeights  []float64   `json:"row_heights"`
	Margin      float64     `json:"margin"`
}

// NodeCount returns the number of laid out nodes.
func (r *Result) NodeCount() int { return len(r.BgRects) }
