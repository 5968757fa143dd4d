package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/style"
)

// geometryAttrs are written from the layout and never from style.
var geometryAttrs = map[string]bool{"x": true, "y": true, "width": true, "height": true, "d": true, "id": true}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontFamily string
	fontSize   float64
	background string
}

// WithFont sets the font-family and font-size of the document. Use the
// font the labels were measured with.
func WithFont(family string, size float64) SVGOption {
	return func(r *svgRenderer) { r.fontFamily, r.fontSize = family, size }
}

// WithBackground fills the canvas with a color before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws res as a standalone SVG document sized to the canvas.
func RenderSVG(res *boxtree.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s"`,
		num(res.Canvas.Width), num(res.Canvas.Height), num(res.Canvas.Width), num(res.Canvas.Height))
	if r.fontFamily != "" {
		fmt.Fprintf(&buf, ` font-family="%s"`, escape(r.fontFamily))
	}
	if r.fontSize > 0 {
		fmt.Fprintf(&buf, ` font-size="%s"`, num(r.fontSize))
	}
	buf.WriteString(">\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.background))
	}

	for _, s := range res.Tails {
		writeSegment(&buf, s, res.PathStyle)
	}
	for _, s := range res.Heads {
		writeSegment(&buf, s, res.PathStyle)
	}
	for _, s := range res.LRBounds {
		writeBracket(&buf, s, res.Margin, res.PathStyle)
	}

	for i, bg := range res.BgRects {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s"`, num(bg.X), num(bg.Y), num(bg.Width), num(bg.Height))
		if id := idAt(res, i); id != "" {
			fmt.Fprintf(&buf, ` id="%s"`, escape(id))
		}
		writeAttrs(&buf, styleAt(res, i).Rect)
		buf.WriteString("/>\n")
	}

	for i, label := range res.Labels {
		p := res.TextAnchors[i]
		fmt.Fprintf(&buf, `  <text x="%s" y="%s"`, num(p.X), num(p.Y))
		if id := idAt(res, i); id != "" {
			fmt.Fprintf(&buf, ` id="%s-label"`, escape(id))
		}
		writeAttrs(&buf, styleAt(res, i).Text)
		fmt.Fprintf(&buf, ">%s</text>\n", escape(label))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, s boxtree.Segment, attrs style.Attrs) {
	fmt.Fprintf(buf, `  <path d="M %s %s L %s %s"`, num(s[0].X), num(s[0].Y), num(s[1].X), num(s[1].Y))
	writeAttrs(buf, attrs)
	buf.WriteString("/>\n")
}

func writeBracket(buf *bytes.Buffer, s boxtree.Segment, margin float64, attrs style.Attrs) {
	top := s[0].Y - margin
	fmt.Fprintf(buf, `  <path d="M %s %s L %s %s L %s %s L %s %s"`,
		num(s[0].X), num(s[0].Y), num(s[0].X), num(top),
		num(s[1].X), num(top), num(s[1].X), num(s[1].Y))
	writeAttrs(buf, style.Merge(attrs, style.Attrs{"fill": "none"}))
	buf.WriteString("/>\n")
}

func writeAttrs(buf *bytes.Buffer, attrs style.Attrs) {
	for _, k := range attrs.Keys() {
		if geometryAttrs[k] {
			continue
		}
		fmt.Fprintf(buf, ` %s="%s"`, escape(k), escape(attrs[k]))
	}
}

func styleAt(res *boxtree.Result, i int) style.Set {
	if i < len(res.Styles) {
		return res.Styles[i]
	}
	return style.Builtin()
}

func idAt(res *boxtree.Result, i int) string {
	if i < len(res.IDs) {
		return res.IDs[i]
	}
	return ""
}

// num formats a coordinate with the fewest digits that round-trip.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
