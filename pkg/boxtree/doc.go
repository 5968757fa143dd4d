// Package boxtree computes the layout of a rooted tree of labeled boxes.
//
// Given a [tree.Tree] of [Box] values, one [TextMetrics] per node (in
// pre-order) and a [Config], [Layout] assigns every node a background
// rectangle and a text anchor and emits the connector segments that link
// parents to children:
//
//   - all nodes at the same depth share a row whose height is the tallest box
//     in that row
//   - children are laid out left to right, separated by one margin
//   - a parent narrower than its children is shifted right to sit centered
//     over them; children narrower than their parent are shifted right to sit
//     centered under it, never further than the slack between the two widths
//
// # Connectors
//
// Three families of segments are produced:
//
//   - Tails: one per parent, from the bottom center of the parent down to the
//     child's top (one child) or to the cross-member height (several children)
//   - Heads: one per middle child (every child but the first and last), from
//     the cross-member down to the child
//   - LRBounds: one per parent with two or more children, spanning the centers
//     of the first and last child at the children's row top; renderers draw
//     it raised by one margin with vertical ticks down to the outer children
//
// # Measuring
//
// The package measures nothing. Metrics come from a collaborator (see
// pkg/metrics) and are already inflated by twice the padding on each axis.
// Until every node has metrics the layout cannot run: [Layout] reports
// [ErrNotReady], and an [Engine] keeps its previous result.
//
// # Example
//
//	root := tree.New(boxtree.Box{Label: "root"},
//	    tree.Leaf(boxtree.Box{Label: "a"}),
//	    tree.Leaf(boxtree.Box{Label: "b"}),
//	)
//	res, err := boxtree.Layout(root, metrics, boxtree.Config{
//	    Padding: 0.5, Margin: 1, PixelsPerUnit: 16,
//	})
package boxtree
