package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/style"
)

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	fontSize   float64
	background string
}

// WithScale sets the pixel density (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGFontSize sets the label size in layout pixels (default 16).
func WithPNGFontSize(size float64) PNGOption {
	return func(r *pngRenderer) { r.fontSize = size }
}

// WithPNGBackground fills the canvas before drawing. The default is
// transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// RenderPNG rasterizes res in the same order as [RenderSVG].
func RenderPNG(res *boxtree.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, fontSize: 16}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsInf(r.scale, 0) || math.IsNaN(r.scale) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid PNG scale %v", r.scale)
	}

	w := int(math.Ceil(res.Canvas.Width * r.scale))
	h := int(math.Ceil(res.Canvas.Height * r.scale))
	dc := gg.NewContext(max(w, 1), max(h, 1))

	if c, ok := parseColor(r.background); ok {
		dc.SetColor(c)
		dc.Clear()
	}

	face, err := goRegular(r.fontSize * r.scale)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	s := r.scale
	for _, segs := range [][]boxtree.Segment{res.Tails, res.Heads} {
		for _, seg := range segs {
			if !strokeStyle(dc, res.PathStyle, s) {
				break
			}
			dc.MoveTo(seg[0].X*s, seg[0].Y*s)
			dc.LineTo(seg[1].X*s, seg[1].Y*s)
			dc.Stroke()
		}
	}
	for _, seg := range res.LRBounds {
		if !strokeStyle(dc, res.PathStyle, s) {
			break
		}
		top := (seg[0].Y - res.Margin) * s
		dc.MoveTo(seg[0].X*s, seg[0].Y*s)
		dc.LineTo(seg[0].X*s, top)
		dc.LineTo(seg[1].X*s, top)
		dc.LineTo(seg[1].X*s, seg[1].Y*s)
		dc.Stroke()
	}

	for i, bg := range res.BgRects {
		attrs := styleAt(res, i).Rect
		if c, ok := parseColor(attrs["fill"]); ok {
			dc.SetColor(c)
			dc.DrawRectangle(bg.X*s, bg.Y*s, bg.Width*s, bg.Height*s)
			dc.Fill()
		}
		if strokeStyle(dc, attrs, s) {
			dc.DrawRectangle(bg.X*s, bg.Y*s, bg.Width*s, bg.Height*s)
			dc.Stroke()
		}
	}

	dc.SetFontFace(face)
	for i, label := range res.Labels {
		c, ok := parseColor(styleAt(res, i).Text["fill"])
		if !ok {
			continue
		}
		p := res.TextAnchors[i]
		dc.SetColor(c)
		dc.DrawString(label, p.X*s, p.Y*s)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// strokeStyle applies stroke and stroke-width from attrs. It reports false
// when there is nothing to stroke.
func strokeStyle(dc *gg.Context, attrs style.Attrs, scale float64) bool {
	c, ok := parseColor(attrs["stroke"])
	if !ok {
		return false
	}
	width := parseLength(attrs["stroke-width"], 1)
	if width == 0 {
		return false
	}
	dc.SetColor(c)
	dc.SetLineWidth(width * scale)
	return true
}

func goRegular(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font")
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	return face, nil
}
