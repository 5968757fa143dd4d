// Package sink turns a computed [boxtree.Result] into output formats.
//
// # Overview
//
// A sink draws what the layout produced and nothing more: it never moves a
// box. This package provides:
//
//   - SVG: connectors, then box backgrounds, then labels
//   - PNG: the same drawing rasterized with fogleman/gg
//   - JSON: the layout geometry for external tools
//   - DOT: the tree as a Graphviz digraph, for comparing against Graphviz's
//     own hierarchical layout
//
// # SVG Output
//
// Connectors use the layout's resolved path style. Tails and heads are
// drawn as straight segments; every cross-member is drawn as an open
// bracket that rises one margin above its segment and comes back down:
//
//	M x0 y L x0 y-m L x1 y-m L x1 y
//
// Boxes and labels carry their per-node resolved styles. Geometry
// attributes (x, y, width, height) always come from the layout and cannot
// be overridden by style attributes.
//
//	svg := sink.RenderSVG(res, sink.WithFont("Go, sans-serif", 16))
//
// # PNG Output
//
// [RenderPNG] draws with Go Regular at the configured font size, so labels
// line up with metrics produced by the font measurer. Fill and stroke
// colors accept hex notation and CSS color names.
//
// # DOT Output
//
// [ToDOT] emits one node per box (ids n0, n1, ... in pre-order) with the
// box's fill color. [RenderDOTSVG] lays the DOT out with Graphviz.
package sink
