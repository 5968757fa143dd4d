package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/style"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Style holds document-wide overrides, resolved against each node's own
	// style the same way the layout resolves them.
	Style style.Set
	// RankSep and NodeSep are passed to Graphviz in inches.
	RankSep, NodeSep float64
}

// ToDOT converts t to a top-down Graphviz digraph. Nodes are named n0, n1,
// ... in pre-order, matching the indices of a [boxtree.Result].
func ToDOT(t *tree.Tree[boxtree.Box], opts DOTOptions) string {
	if opts.RankSep == 0 {
		opts.RankSep = 0.3
	}
	if opts.NodeSep == 0 {
		opts.NodeSep = 0.2
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, penwidth=0, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", num(opts.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", num(opts.NodeSep))
	buf.WriteString("\n")

	next := 0
	var edges [][2]int
	var visit func(n *tree.Tree[boxtree.Box]) int
	visit = func(n *tree.Tree[boxtree.Box]) int {
		id := next
		next++
		st := style.Resolve(opts.Style, n.Data.Style)
		attrs := fmt.Sprintf("label=%q", n.Data.Label)
		if fill := st.Rect["fill"]; fill != "" {
			attrs += fmt.Sprintf(", fillcolor=%q", fill)
		}
		if fc := st.Text["fill"]; fc != "" {
			attrs += fmt.Sprintf(", fontcolor=%q", fc)
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, attrs)
		for _, c := range n.Children {
			edges = append(edges, [2]int{id, visit(c)})
		}
		return id
	}
	if t != nil {
		visit(t)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG lays out a DOT graph with Graphviz and returns the SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a pixel one
// whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
