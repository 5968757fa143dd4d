// Package tree provides a generic ordered tree and the two traversals the
// layout engine is built on.
//
// # Walkers
//
// [Walk] is a plain pre-order mapper: it turns every payload into a new value
// using only the payload and its depth, and returns a tree of the same shape.
// It is used to extract labels and styles and to aggregate per-row values.
//
// [Walk2] threads context top-down while aggregating results bottom-up. The
// visitor for a node receives a [Next] function through which it pulls its
// children's results one at a time, in order, handing each child a context
// value it constructs (possibly from the results of earlier siblings). The
// visitor must drain every child before it returns; otherwise [Walk2] fails
// with [ErrIncompleteIteration].
//
//	out, err := tree.Walk2(t, func(label string, next tree.Next[int, int], depth int) (int, error) {
//	    total := 1
//	    for {
//	        child, ok, err := next(depth + 1)
//	        if err != nil {
//	            return 0, err
//	        }
//	        if !ok {
//	            return total, nil
//	        }
//	        total += child.Data
//	    }
//	}, 0)
//
// Neither walker mutates the input tree.
package tree
