// Package pipeline runs the measure → layout → render sequence shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Measure: turn every label into [boxtree.TextMetrics] with a
//     [metrics.Measurer].
//  2. Layout: run [boxtree.Layout] once all metrics are known.
//  3. Render: produce artifacts (svg, png, json, dot, graphviz) from the
//     layout.
//
// [Runner] wraps the stages with a [cache.Cache] keyed by content hash, so
// an unchanged tree with unchanged options is laid out once.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, doc.Tree, pipeline.Options{
//	    Config:  doc.Apply(cfg.BoxConfig()),
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/metrics"
	"github.com/matzehuels/boxtree/pkg/render/sink"
)

const (
	// DefaultMeasurer names the measurer used when Options.Measurer is empty.
	DefaultMeasurer = "font"

	// DefaultFontSize is the label size in pixels.
	DefaultFontSize = metrics.DefaultFontSize

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// DefaultFontFamily is written into SVG output. It names the family the
	// font measurer uses.
	DefaultFontFamily = "Go, sans-serif"
)

// Options configures a pipeline run. It is JSON-encodable so the server
// can accept it in request bodies.
type Options struct {
	// Config carries spacing and document-wide style overrides.
	Config boxtree.Config `json:"config"`

	Measurer string  `json:"measurer,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Measure overrides the measurer named by Measurer.
	Measure metrics.Measurer `json:"-"`
	Logger  *log.Logger      `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout *boxtree.Result

	// TreeHash is the content hash of the canonical tree.
	TreeHash string

	// Artifacts maps format to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	RowCount   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Config.PixelsPerUnit == 0 {
		o.Config.PixelsPerUnit = boxtree.DefaultPixelsPerUnit
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and checks the options the layout stage
// reads.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %v", o.FontSize)
	}
	if o.Measure == nil {
		switch o.Measurer {
		case "font", "estimate":
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "unknown measurer %q (want font or estimate)", o.Measurer)
		}
	}
	return nil
}

// ValidateForRender sets defaults and checks the options the render stage
// reads.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", o.Scale)
	}
	return sink.ValidateFormats(o.Formats)
}

// Validate checks the options of a full run.
func (o *Options) Validate() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Padding:       o.Config.Padding,
		Margin:        o.Config.Margin,
		Border:        o.Config.Border,
		PixelsPerUnit: o.Config.PixelsPerUnit,
		Measurer:      o.Measurer,
		FontSize:      o.FontSize,
	}
	if o.Measure != nil {
		// A supplied collaborator must never share entries with a named measurer.
		opts.Measurer = fmt.Sprintf("custom:%s:%T", o.Measurer, o.Measure)
	}
	if data, err := json.Marshal(o.Config.Style); err == nil {
		opts.StyleHash = cache.Hash(data)
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case sink.FormatPNG:
		opts.Scale = o.Scale
		fallthrough
	case sink.FormatSVG:
		opts.FontSize = o.FontSize
		opts.Background = o.Background
	}
	return opts
}
