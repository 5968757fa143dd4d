// Package io reads and writes box tree documents as JSON or YAML.
//
// # Document Format
//
// A document holds the tree under "tree" and, optionally, spacing and
// document-wide style overrides:
//
//	{
//	  "padding": 0.5,
//	  "margin": 1,
//	  "border": 4,
//	  "rect_props": {"fill": "#eeeeee"},
//	  "path_props": {"stroke": "#333"},
//	  "tree": {
//	    "label": "root",
//	    "children": [
//	      {"label": "left", "id": "l"},
//	      {"label": "right", "rect_props": {"fill": "tomato"}}
//	    ]
//	  }
//	}
//
// The same structure is accepted as YAML:
//
//	margin: 1
//	tree:
//	  label: root
//	  children:
//	    - label: left
//	    - label: right
//
// # Node Fields
//
//   - label: text drawn in the box (required key, may be empty)
//   - id: optional element id; must be unique within the document
//   - rect_props, text_props: per-node style overrides
//   - children: ordered child nodes
//
// An omitted "children" key and an empty list both produce a leaf, but the
// distinction is preserved on the decoded [tree.Tree].
//
// # Validation
//
// Labels may not contain control characters, ids must look like identifiers
// and be unique, and nesting is limited to [MaxDepth] levels. Violations are
// reported as INVALID_TREE errors naming the offending node's path, for
// example "tree.children[1].children[0]".
package io
