package tree

import (
	stderrors "errors"

	"github.com/matzehuels/boxtree/pkg/errors"
)

// ErrIncompleteIteration is returned by [Walk2] when a visitor returns before
// pulling every child through its [Next] function. The returned error also
// carries [errors.ErrCodeIncompleteIteration].
var ErrIncompleteIteration = stderrors.New("iteration incomplete")

// Tree is an ordered rooted tree. A nil Children slice means the node has no
// children field at all; an empty non-nil slice means it has one with zero
// entries. Both are leaves, but [Walk] and [Walk2] preserve the distinction.
type Tree[T any] struct {
	Data     T
	Children []*Tree[T]
}

// New returns a node holding data with the given children.
func New[T any](data T, children ...*Tree[T]) *Tree[T] {
	return &Tree[T]{Data: data, Children: children}
}

// Leaf returns a node without a children field.
func Leaf[T any](data T) *Tree[T] {
	return &Tree[T]{Data: data}
}

// Walk maps every payload of t through f, visiting the root at depth 0 and
// each child at its parent's depth plus one, in pre-order.
func Walk[T, S any](t *Tree[T], f func(data T, depth int) S) *Tree[S] {
	return walk(t, f, 0)
}

func walk[T, S any](t *Tree[T], f func(T, int) S, depth int) *Tree[S] {
	if t == nil {
		return nil
	}
	out := &Tree[S]{Data: f(t.Data, depth)}
	if t.Children != nil {
		out.Children = make([]*Tree[S], len(t.Children))
		for i, c := range t.Children {
			out.Children[i] = walk(c, f, depth+1)
		}
	}
	return out
}

// Next pulls the result subtree of the next not-yet-visited child, visiting
// it with ctx. It reports false once every child has been visited.
type Next[R, S any] func(ctx S) (*Tree[R], bool, error)

// Visitor computes a node's result. It must call next until next reports
// false (or fails) before returning.
type Visitor[T, R, S any] func(data T, next Next[R, S], ctx S) (R, error)

// Walk2 runs visit over t depth-first, starting with ctx at the root, and
// returns the tree of results. Children of the result are present only when
// the input node had a children field.
//
// A visitor that returns while children remain unvisited aborts the walk with
// [ErrIncompleteIteration]. Errors returned by visitors propagate unchanged.
func Walk2[T, R, S any](t *Tree[T], visit Visitor[T, R, S], ctx S) (*Tree[R], error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "nil tree")
	}
	var (
		i        int
		children []*Tree[R]
	)
	next := func(d S) (*Tree[R], bool, error) {
		if i >= len(t.Children) {
			return nil, false, nil
		}
		out, err := Walk2(t.Children[i], visit, d)
		if err != nil {
			return nil, false, err
		}
		children = append(children, out)
		i++
		return out, true, nil
	}

	data, err := visit(t.Data, next, ctx)
	if err != nil {
		return nil, err
	}
	if i < len(t.Children) {
		return nil, errors.Wrap(errors.ErrCodeIncompleteIteration, ErrIncompleteIteration,
			"visitor consumed %d of %d children", i, len(t.Children))
	}

	out := &Tree[R]{Data: data}
	if t.Children != nil {
		if children == nil {
			children = []*Tree[R]{}
		}
		out.Children = children
	}
	return out, nil
}

// Flatten returns the payloads of t in pre-order.
func Flatten[T any](t *Tree[T]) []T {
	var out []T
	Walk(t, func(data T, _ int) struct{} {
		out = append(out, data)
		return struct{}{}
	})
	return out
}

// Count returns the number of nodes in t.
func Count[T any](t *Tree[T]) int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += Count(c)
	}
	return n
}

// Depth returns the depth of the deepest node in t, or -1 for a nil tree.
func Depth[T any](t *Tree[T]) int {
	if t == nil {
		return -1
	}
	d := 0
	for _, c := range t.Children {
		d = max(d, Depth(c)+1)
	}
	return d
}
