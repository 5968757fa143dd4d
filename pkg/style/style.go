// Package style resolves the presentation attributes of boxes, labels and
// connectors.
//
// Attributes are opaque to layout: they are SVG presentation attributes
// (fill, stroke, stroke-width, font-family, ...) passed through to whichever
// renderer draws the result. Every node resolves its attributes from three
// layers, later layers winning:
//
//  1. the built-in defaults ([Builtin])
//  2. the caller's global overrides
//  3. the node's own overrides
//
// Resolution always returns fresh maps, so a resolved value never aliases the
// inputs or another node's attributes.
package style

import (
	"maps"
	"slices"
)

// Attrs maps attribute names to values.
type Attrs map[string]string

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Set groups the attributes for the three drawable parts of a node.
type Set struct {
	Rect Attrs `json:"rect,omitempty" toml:"rect" yaml:"rect,omitempty"`
	Text Attrs `json:"text,omitempty" toml:"text" yaml:"text,omitempty"`
	Path Attrs `json:"path,omitempty" toml:"path" yaml:"path,omitempty"`
}

// Builtin returns the built-in defaults: black text, grey boxes and
// 2px black connectors.
func Builtin() Set {
	return Set{
		Rect: Attrs{"fill": "#bfbfbf"},
		Text: Attrs{"fill": "black"},
		Path: Attrs{"stroke": "black", "stroke-width": "2"},
	}
}

// Merge returns a new Attrs holding every layer's entries, later layers
// overriding earlier ones. Nil layers are skipped.
func Merge(layers ...Attrs) Attrs {
	out := Attrs{}
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// Resolve merges built-in < global < node for every part.
func Resolve(global, node Set) Set {
	b := Builtin()
	return Set{
		Rect: Merge(b.Rect, global.Rect, node.Rect),
		Text: Merge(b.Text, global.Text, node.Text),
		Path: Merge(b.Path, global.Path, node.Path),
	}
}
