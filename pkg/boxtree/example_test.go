package boxtree_test

import (
	"fmt"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/tree"
)

func ExampleLayout() {
	root := tree.New(boxtree.Box{Label: "root"},
		tree.Leaf(boxtree.Box{Label: "a"}),
		tree.Leaf(boxtree.Box{Label: "b"}),
		tree.Leaf(boxtree.Box{Label: "c"}),
	)
	m := boxtree.TextMetrics{Width: 40, Height: 20, Baseline: 15}
	metrics := []boxtree.TextMetrics{m, m, m, m}

	res, err := boxtree.Layout(root, metrics, boxtree.Config{Margin: 1, PixelsPerUnit: 10})
	if err != nil {
		panic(err)
	}
	fmt.Printf("canvas %gx%g\n", res.Canvas.Width, res.Canvas.Height)
	for i, r := range res.BgRects {
		fmt.Printf("%s at (%g,%g)\n", res.Labels[i], r.X, r.Y)
	}
	fmt.Println("tails:", len(res.Tails), "heads:", len(res.Heads), "lrbounds:", len(res.LRBounds))
	// Output:
	// canvas 140x60
	// root at (50,0)
	// a at (0,40)
	// b at (50,40)
	// c at (100,40)
	// tails: 1 heads: 1 lrbounds: 1
}

func ExampleEngine() {
	root := tree.New(boxtree.Box{Label: "parent"}, tree.Leaf(boxtree.Box{Label: "child"}))
	e := boxtree.NewEngine(root, boxtree.Config{})

	_ = e.SetMetrics(0, boxtree.TextMetrics{Width: 60, Height: 20, Baseline: 15})
	ok, _ := e.Update()
	fmt.Println("after first label:", ok)

	_ = e.SetMetrics(1, boxtree.TextMetrics{Width: 20, Height: 20, Baseline: 15})
	ok, _ = e.Update()
	fmt.Println("after second label:", ok, e.Result().BgRects[1].X)
	// Output:
	// after first label: false
	// after second label: true 20
}
