package sink

import (
	"encoding/json"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/style"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	id      string
	compact bool
}

// WithJSONID records a document id (for example a stored layout's id).
func WithJSONID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	ID         string      `json:"id,omitempty"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Margin     float64     `json:"margin"`
	RowHeights []float64   `json:"row_heights"`
	Boxes      []jsonBox   `json:"boxes"`
	Tails      []jsonSeg   `json:"tails"`
	Heads      []jsonSeg   `json:"heads"`
	LRBounds   []jsonSeg   `json:"lrbounds"`
	PathStyle  style.Attrs `json:"path_style,omitempty"`
}

type jsonBox struct {
	Label     string      `json:"label"`
	ID        string      `json:"id,omitempty"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	TextX     float64     `json:"text_x"`
	TextY     float64     `json:"text_y"`
	RectStyle style.Attrs `json:"rect_style,omitempty"`
	TextStyle style.Attrs `json:"text_style,omitempty"`
}

type jsonSeg struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// RenderJSON exports the layout geometry: canvas size, one entry per box
// in pre-order, and the three connector lists.
//
// RenderJSON returns an error only if JSON marshaling fails.
func RenderJSON(res *boxtree.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:         r.id,
		Width:      res.Canvas.Width,
		Height:     res.Canvas.Height,
		Margin:     res.Margin,
		RowHeights: res.RowHeights,
		Boxes:      make([]jsonBox, len(res.BgRects)),
		Tails:      segments(res.Tails),
		Heads:      segments(res.Heads),
		LRBounds:   segments(res.LRBounds),
		PathStyle:  res.PathStyle,
	}
	for i, bg := range res.BgRects {
		st := styleAt(res, i)
		out.Boxes[i] = jsonBox{
			Label:     res.Labels[i],
			ID:        idAt(res, i),
			X:         bg.X,
			Y:         bg.Y,
			Width:     bg.Width,
			Height:    bg.Height,
			TextX:     res.TextAnchors[i].X,
			TextY:     res.TextAnchors[i].Y,
			RectStyle: st.Rect,
			TextStyle: st.Text,
		}
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func segments(in []boxtree.Segment) []jsonSeg {
	out := make([]jsonSeg, len(in))
	for i, s := range in {
		out[i] = jsonSeg{X1: s[0].X, Y1: s[0].Y, X2: s[1].X, Y2: s[1].Y}
	}
	return out
}
