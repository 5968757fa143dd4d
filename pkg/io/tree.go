package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/style"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// MaxDepth bounds how deeply a document may nest.
const MaxDepth = 256

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension. Unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (want json or yaml)", s)
	}
}

// Document is a decoded tree together with its document-level settings.
// Nil spacing fields were not set in the document.
type Document struct {
	Tree    *tree.Tree[boxtree.Box]
	Padding *float64
	Margin  *float64
	Border  *float64
	Style   style.Set
}

// Apply overlays the document's settings onto cfg.
func (d *Document) Apply(cfg boxtree.Config) boxtree.Config {
	if d.Padding != nil {
		cfg.Padding = *d.Padding
	}
	if d.Margin != nil {
		cfg.Margin = *d.Margin
	}
	if d.Border != nil {
		cfg.Border = *d.Border
	}
	cfg.Style = style.Set{
		Rect: style.Merge(cfg.Style.Rect, d.Style.Rect),
		Text: style.Merge(cfg.Style.Text, d.Style.Text),
		Path: style.Merge(cfg.Style.Path, d.Style.Path),
	}
	return cfg
}

type document struct {
	Padding   *float64    `json:"padding,omitempty" yaml:"padding,omitempty"`
	Margin    *float64    `json:"margin,omitempty" yaml:"margin,omitempty"`
	Border    *float64    `json:"border,omitempty" yaml:"border,omitempty"`
	RectProps style.Attrs `json:"rect_props,omitempty" yaml:"rect_props,omitempty"`
	TextProps style.Attrs `json:"text_props,omitempty" yaml:"text_props,omitempty"`
	PathProps style.Attrs `json:"path_props,omitempty" yaml:"path_props,omitempty"`
	Tree      *node       `json:"tree" yaml:"tree"`
}

type node struct {
	Label     string      `json:"label" yaml:"label"`
	ID        string      `json:"id,omitempty" yaml:"id,omitempty"`
	RectProps style.Attrs `json:"rect_props,omitempty" yaml:"rect_props,omitempty"`
	TextProps style.Attrs `json:"text_props,omitempty" yaml:"text_props,omitempty"`
	Children  []*node     `json:"children,omitempty" yaml:"children,omitempty"`
}

// ReadTree decodes a document from r.
//
// ReadTree returns an INVALID_INPUT error if the input cannot be decoded or
// has no tree, and an INVALID_TREE error if a node fails validation. The
// returned tree shares no memory with r. ReadTree does not close r.
func ReadTree(r io.Reader, format Format) (*Document, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if doc.Tree == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no tree")
	}

	ids := map[string]string{}
	t, err := doc.Tree.build("tree", 0, ids)
	if err != nil {
		return nil, err
	}
	return &Document{
		Tree:    t,
		Padding: doc.Padding,
		Margin:  doc.Margin,
		Border:  doc.Border,
		Style:   style.Set{Rect: doc.RectProps, Text: doc.TextProps, Path: doc.PathProps},
	}, nil
}

func (n *node) build(path string, depth int, ids map[string]string) (*tree.Tree[boxtree.Box], error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "%s: null node", path)
	}
	if depth > MaxDepth {
		return nil, errors.New(errors.ErrCodeInvalidTree, "%s: nesting exceeds %d levels", path, MaxDepth)
	}
	if err := errors.ValidateLabel(n.Label); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := errors.ValidateID(n.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n.ID != "" {
		if prev, dup := ids[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTree, "%s: id %q already used by %s", path, n.ID, prev)
		}
		ids[n.ID] = path
	}

	out := &tree.Tree[boxtree.Box]{Data: boxtree.Box{
		Label: n.Label,
		ID:    n.ID,
		Style: style.Set{Rect: n.RectProps, Text: n.TextProps},
	}}
	if n.Children != nil {
		out.Children = make([]*tree.Tree[boxtree.Box], len(n.Children))
		for i, c := range n.Children {
			child, err := c.build(fmt.Sprintf("%s.children[%d]", path, i), depth+1, ids)
			if err != nil {
				return nil, err
			}
			out.Children[i] = child
		}
	}
	return out, nil
}

// ImportTree reads the document at path, choosing the decoder by extension.
// The path "-" reads JSON from stdin.
func ImportTree(path string) (*Document, error) {
	if path == "-" {
		return ReadTree(os.Stdin, FormatJSON)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f, FormatFromPath(path))
}

// WriteTree encodes d to w. The output can be read back with [ReadTree].
func WriteTree(d *Document, w io.Writer, format Format) error {
	doc := document{
		Padding:   d.Padding,
		Margin:    d.Margin,
		Border:    d.Border,
		RectProps: d.Style.Rect,
		TextProps: d.Style.Text,
		PathProps: d.Style.Path,
		Tree:      toNode(d.Tree),
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
}

// ExportTree writes d to path, choosing the encoder by extension.
func ExportTree(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(d, f, FormatFromPath(path))
}

// Canonical returns the compact JSON encoding of t. Equal trees produce
// equal bytes, so the result is suitable as a cache key input.
func Canonical(t *tree.Tree[boxtree.Box]) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toNode(t)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func toNode(t *tree.Tree[boxtree.Box]) *node {
	if t == nil {
		return nil
	}
	n := &node{
		Label:     t.Data.Label,
		ID:        t.Data.ID,
		RectProps: t.Data.Style.Rect,
		TextProps: t.Data.Style.Text,
	}
	for _, c := range t.Children {
		n.Children = append(n.Children, toNode(c))
	}
	return n
}
