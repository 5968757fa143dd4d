package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/metrics"
	"github.com/matzehuels/boxtree/pkg/observability"
	"github.com/matzehuels/boxtree/pkg/tree"
)

// fixedMeasurer reports the same 40x20 box for every label and counts calls.
type fixedMeasurer struct{ calls atomic.Int32 }

func (m *fixedMeasurer) Measure(string) (metrics.BBox, error) {
	m.calls.Add(1)
	return metrics.BBox{Y: -15, Width: 40, Height: 20}, nil
}

func threeChildren() *tree.Tree[boxtree.Box] {
	return tree.New(boxtree.Box{Label: "root"},
		tree.Leaf(boxtree.Box{Label: "a"}),
		tree.Leaf(boxtree.Box{Label: "b", ID: "b"}),
		tree.Leaf(boxtree.Box{Label: "c"}),
	)
}

func testOptions(m metrics.Measurer, formats ...string) Options {
	return Options{
		Config:   boxtree.Config{Margin: 1, PixelsPerUnit: 10},
		Measurer: "fixed",
		Measure:  m,
		Formats:  formats,
	}
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, nil)
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Measurer != DefaultMeasurer {
		t.Errorf("Measurer = %q, want %q", opts.Measurer, DefaultMeasurer)
	}
	if opts.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", opts.FontSize, DefaultFontSize)
	}
	if opts.Config.PixelsPerUnit != boxtree.DefaultPixelsPerUnit {
		t.Errorf("PixelsPerUnit = %v", opts.Config.PixelsPerUnit)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"valid", Options{Measurer: "estimate"}, ""},
		{"unknown measurer", Options{Measurer: "ruler"}, errors.ErrCodeInvalidConfig},
		{"negative padding", Options{Config: boxtree.Config{Padding: -1}}, errors.ErrCodeInvalidConfig},
		{"negative font size", Options{FontSize: -2}, errors.ErrCodeInvalidConfig},
		{"unknown format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"case sensitive format", Options{Formats: []string{"SVG"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLayoutKeyOptsTrackStyle(t *testing.T) {
	a := Options{}
	a.SetDefaults()
	b := a
	b.Config.Style.Rect = map[string]string{"fill": "red"}

	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("style overrides should change the layout key")
	}
	if a.ArtifactKeyOpts("svg").Scale != 0 {
		t.Error("scale should only key png artifacts")
	}
	if a.ArtifactKeyOpts("png").Scale != DefaultScale {
		t.Error("png artifact key should carry the scale")
	}
}

func TestArtifactKeyOptsTrackAppearance(t *testing.T) {
	a := Options{}
	a.SetDefaults()

	tests := []struct {
		name   string
		change func(*Options)
		format string
		differ bool
	}{
		{"background svg", func(o *Options) { o.Background = "black" }, "svg", true},
		{"background png", func(o *Options) { o.Background = "black" }, "png", true},
		{"font size svg", func(o *Options) { o.FontSize = 24 }, "svg", true},
		{"font size png", func(o *Options) { o.FontSize = 24 }, "png", true},
		{"scale png", func(o *Options) { o.Scale = 3 }, "png", true},
		{"scale svg", func(o *Options) { o.Scale = 3 }, "svg", false},
		{"background dot", func(o *Options) { o.Background = "black" }, "dot", false},
		{"background json", func(o *Options) { o.Background = "black" }, "json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := a
			tt.change(&b)
			if got := a.ArtifactKeyOpts(tt.format) != b.ArtifactKeyOpts(tt.format); got != tt.differ {
				t.Errorf("keys differ = %v, want %v", got, tt.differ)
			}
		})
	}
}

func TestLayoutKeyOptsSeparateCustomMeasurer(t *testing.T) {
	named := Options{}
	named.SetDefaults()
	custom := Options{Measure: &fixedMeasurer{}}
	custom.SetDefaults()

	if named.LayoutKeyOpts() == custom.LayoutKeyOpts() {
		t.Error("a supplied measurer should not share the font measurer's layout key")
	}
}

func TestExecuteBackgroundChangesArtifacts(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)

	var svgs []string
	for _, bg := range []string{"white", "black"} {
		opts := testOptions(&fixedMeasurer{}, "svg", "png")
		opts.Background = bg
		res, err := r.Execute(ctx, threeChildren(), opts)
		if err != nil {
			t.Fatalf("Execute background=%s: %v", bg, err)
		}
		if res.CacheInfo.RenderHit {
			t.Errorf("background=%s served a cached render", bg)
		}
		if !strings.Contains(string(res.Artifacts["svg"]), `fill="`+bg+`"`) {
			t.Errorf("background=%s svg lacks its fill", bg)
		}
		svgs = append(svgs, string(res.Artifacts["svg"]))
	}
	if svgs[0] == svgs[1] {
		t.Error("different backgrounds rendered the same svg")
	}
}

func TestComputeLayout(t *testing.T) {
	res, err := ComputeLayout(context.Background(), threeChildren(), testOptions(&fixedMeasurer{}))
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	if res.Canvas != (boxtree.Size{Width: 140, Height: 60}) {
		t.Errorf("Canvas = %+v, want 140x60", res.Canvas)
	}
	if got := res.BgRects[0].X; got != 50 {
		t.Errorf("root x = %v, want 50", got)
	}
}

func TestRunnerLayoutCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	m := &fixedMeasurer{}
	opts := testOptions(m)

	first, hit, err := r.Layout(ctx, threeChildren(), opts)
	if err != nil || hit {
		t.Fatalf("first Layout: hit=%v err=%v", hit, err)
	}
	if n := m.calls.Load(); n != 4 {
		t.Fatalf("measured %d labels, want 4", n)
	}

	second, hit, err := r.Layout(ctx, threeChildren(), opts)
	if err != nil || !hit {
		t.Fatalf("second Layout: hit=%v err=%v", hit, err)
	}
	if n := m.calls.Load(); n != 4 {
		t.Errorf("cache hit measured again (%d calls)", n)
	}
	if second.Canvas != first.Canvas || !reflect.DeepEqual(second.BgRects, first.BgRects) {
		t.Errorf("cached layout differs: %+v vs %+v", second.BgRects, first.BgRects)
	}

	opts.Refresh = true
	if _, hit, _ := r.Layout(ctx, threeChildren(), opts); hit {
		t.Error("Refresh should bypass the cache")
	}

	changed := testOptions(m)
	changed.Config.Margin = 2
	if _, hit, _ := r.Layout(ctx, threeChildren(), changed); hit {
		t.Error("a different margin must not hit the cache")
	}

	other := threeChildren()
	other.Children[0].Data.Label = "z"
	if _, hit, _ := r.Layout(ctx, other, testOptions(m)); hit {
		t.Error("a different tree must not hit the cache")
	}
}

func TestRunnerLayoutErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, _, err := r.Layout(ctx, nil, testOptions(&fixedMeasurer{})); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("nil tree error = %v, want INVALID_TREE", err)
	}
	if _, _, err := r.Layout(ctx, threeChildren(), Options{Measurer: "ruler"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad measurer error = %v, want INVALID_CONFIG", err)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	opts := testOptions(&fixedMeasurer{}, "svg", "png", "json", "dot")

	res, err := r.Execute(ctx, threeChildren(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 4 || res.Stats.RowCount != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.TreeHash == "" {
		t.Error("TreeHash should be set")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v", res.CacheInfo)
	}

	if svg := string(res.Artifacts["svg"]); !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, `id="b"`) {
		t.Errorf("svg artifact = %.80q", svg)
	}
	if png := res.Artifacts["png"]; !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("png artifact has no PNG signature")
	}
	var doc map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Errorf("json artifact: %v", err)
	}
	if !strings.Contains(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %q", res.Artifacts["dot"])
	}

	again, err := r.Execute(ctx, threeChildren(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()
	res, err := ComputeLayout(ctx, threeChildren(), testOptions(&fixedMeasurer{}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Render(ctx, res, nil, Options{Formats: []string{"dot"}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("dot without tree error = %v, want INVALID_INPUT", err)
	}
	if _, err := Render(ctx, nil, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil layout error = %v, want INVALID_INPUT", err)
	}
	if _, err := Render(ctx, res, nil, Options{Formats: []string{"pdf"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf error = %v, want INVALID_FORMAT", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
	rows   int
}

func (h *recordingHooks) OnMeasureStart(_ context.Context, measurer string, labels int) {
	h.events = append(h.events, "measure:"+measurer)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _, rows int, _ time.Duration, err error) {
	h.events = append(h.events, "layout")
	h.rows = rows
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func TestPipelineHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), threeChildren(), testOptions(&fixedMeasurer{}, "json")); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"measure:fixed", "layout", "render:json"}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
	if h.rows != 2 {
		t.Errorf("rows = %d, want 2", h.rows)
	}
}
