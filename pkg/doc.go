// Package pkg provides the core libraries for boxtree box-and-connector tree layout.
//
// # Overview
//
// boxtree lays out a rooted tree of labeled boxes: rows share a common
// height, children sit left to right, parents are centered over their
// children (or children are shifted under a wider parent), and connectors
// join each parent to its children. The layout measures nothing and draws
// nothing; text metrics come from a measurer and drawing is left to the
// render sinks.
//
// # Architecture
//
// The typical data flow:
//
//	Tree document (JSON/YAML) → Measure labels → Layout → Render (SVG/PNG/JSON/DOT)
//
// A minimal example:
//
//	import (
//	    "github.com/matzehuels/boxtree/pkg/boxtree"
//	    "github.com/matzehuels/boxtree/pkg/config"
//	    boxio "github.com/matzehuels/boxtree/pkg/io"
//	    "github.com/matzehuels/boxtree/pkg/metrics"
//	    "github.com/matzehuels/boxtree/pkg/render/sink"
//	)
//
//	// 1. Read the tree
//	doc, _ := boxio.ImportTree("tree.yaml")
//	cfg := doc.Apply(config.Default().BoxConfig())
//
//	// 2. Measure every label
//	m, _ := metrics.New("font", 16)
//	tm, _ := metrics.MeasureTree(m, doc.Tree, cfg)
//
//	// 3. Compute layout
//	res, _ := boxtree.Layout(doc.Tree, tm, cfg)
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(res)
//
// # Main Packages
//
// ## Core
//
// [tree] - Generic tree model with a depth-aware mapper ([tree.Walk]) and a
// context-threading walker ([tree.Walk2]) that hands each visitor a pull-based
// iterator over its children's results.
//
// [boxtree] - The layout pass. Computes box rectangles, text anchors and the
// tail, head and cross-member connectors in a single walk, and tracks
// incrementally arriving metrics with [boxtree.Engine].
//
// [style] - Three-level style resolution (built-in, document, node) for box,
// text and connector attributes.
//
// [metrics] - Label measurement: a font measurer on the Go fonts and a fast
// width estimator, plus the padding rule that turns a bounding box into
// layout metrics.
//
// ## Input and output
//
// [io] - Tree documents in JSON or YAML, with validation and a canonical
// encoding for cache keys.
//
// [render/sink] - Output formats: SVG, PNG, JSON, DOT and Graphviz SVG.
//
// ## Infrastructure
//
// [pipeline] - Measure → layout → render, with caching, used by the CLI and
// the server alike.
//
// [cache] - Layout and artifact caching (file, Redis, none) with key
// derivation and retry helpers.
//
// [store] - Stored layout documents (memory, MongoDB) for the server.
//
// [server] - HTTP API for layouts and renders. [client] talks to it.
//
// [config] - TOML settings file. [observability] - Hooks for logging and
// metrics. [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/boxtree/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB tests are skipped unless BOXTREE_TEST_REDIS and
// BOXTREE_TEST_MONGO point at a running instance.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/tree
// [boxtree]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/boxtree
// [style]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/style
// [metrics]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/metrics
// [io]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/io
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/server
// [client]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/client
// [config]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/errors
// [tree.Walk]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/tree#Walk
// [tree.Walk2]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/tree#Walk2
// [boxtree.Engine]: https://pkg.go.dev/github.com/matzehuels/boxtree/pkg/boxtree#Engine
package pkg
