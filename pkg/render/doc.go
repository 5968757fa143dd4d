// Package render groups the output formats of a computed layout.
//
// # Overview
//
// A [boxtree.Result] carries only geometry and resolved styles. Turning it
// into something viewable is the job of the [sink] subpackage:
//
//   - SVG: one rect and one text element per box, plus the tail, head and
//     cross-member connector paths
//   - PNG: the same drawing rasterized with gg at a configurable scale
//   - JSON: the raw geometry, for other tools and the HTTP server
//   - DOT and Graphviz SVG: the input tree handed to Graphviz, useful to
//     compare against its own hierarchical layout
//
// The layout itself never draws, so every format reads the same Result:
//
//	res, err := boxtree.Layout(t, metrics, cfg)
//	svg := sink.RenderSVG(res)
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//
// [boxtree.Result]: github.com/matzehuels/boxtree/pkg/boxtree.Result
// [sink]: github.com/matzehuels/boxtree/pkg/render/sink
package render
