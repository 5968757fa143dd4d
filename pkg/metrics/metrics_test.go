package metrics

import (
	"context"
	stderrors "errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/tree"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		bb   BBox
		pad  float64
		want boxtree.TextMetrics
	}{
		{"no padding", BBox{Y: -12, Width: 30, Height: 16}, 0, boxtree.TextMetrics{Width: 30, Height: 16, Baseline: 12}},
		{"half rem", BBox{Y: -12, Width: 30, Height: 16}, 8, boxtree.TextMetrics{Width: 46, Height: 32, Baseline: 20}},
		{"empty label", BBox{}, 4, boxtree.TextMetrics{Width: 8, Height: 8, Baseline: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Measure(tt.bb, tt.pad); got != tt.want {
				t.Errorf("Measure() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEstimator(t *testing.T) {
	e := NewEstimator(20)
	bb, err := e.Measure("héllo")
	if err != nil {
		t.Fatal(err)
	}
	want := BBox{Y: -16, Width: 55, Height: 20}
	if math.Abs(bb.Width-want.Width) > 1e-9 || bb.Y != want.Y || bb.Height != want.Height {
		t.Errorf("Measure() = %+v, want %+v", bb, want)
	}
	if NewEstimator(0).Size != DefaultFontSize {
		t.Error("zero size did not fall back to the default")
	}
}

func TestFontMeasurer(t *testing.T) {
	f, err := NewFontMeasurer(16)
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}

	short, _ := f.Measure("ab")
	long, _ := f.Measure("abcdef")
	empty, _ := f.Measure("")

	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths not increasing: %v, %v", short.Width, long.Width)
	}
	if empty.Width != 0 {
		t.Errorf("empty width = %v, want 0", empty.Width)
	}
	if short.Y >= 0 || short.Height <= -short.Y {
		t.Errorf("bbox %+v: want top above baseline and height past it", short)
	}
	if short.Height != long.Height || short.Y != long.Y {
		t.Error("line height depends on text")
	}
}

func TestFontMeasurerConcurrent(t *testing.T) {
	f, err := NewFontMeasurer(12)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := f.Measure("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := f.Measure("concurrent"); got != want {
				t.Errorf("Measure() = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestMeasureTree(t *testing.T) {
	root := tree.New(boxtree.Box{Label: "abc"}, tree.Leaf(boxtree.Box{Label: "a"}))
	got, err := MeasureTree(NewEstimator(10), root, boxtree.Config{Padding: 1, PixelsPerUnit: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []boxtree.TextMetrics{
		{Width: 20.5, Height: 14, Baseline: 10},
		{Width: 9.5, Height: 14, Baseline: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("metrics[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

type failing struct{}

func (failing) Measure(string) (BBox, error) { return BBox{}, stderrors.New("boom") }

func TestMeasureTreeError(t *testing.T) {
	_, err := MeasureTree(failing{}, tree.Leaf(boxtree.Box{}), boxtree.Config{})
	if !errors.Is(err, errors.ErrCodeInvalidMetrics) {
		t.Errorf("err = %v, want INVALID_METRICS", err)
	}
}

func TestMeasureTreeParallel(t *testing.T) {
	root := tree.New(boxtree.Box{Label: "root"})
	for _, label := range []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"} {
		root.Children = append(root.Children, tree.Leaf(boxtree.Box{Label: label}))
	}
	cfg := boxtree.Config{Padding: 0.5, PixelsPerUnit: 16}

	want, err := MeasureTree(NewEstimator(12), root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{0, 1, 3, 16} {
		got, err := MeasureTreeParallel(context.Background(), NewEstimator(12), root, cfg, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("workers=%d: got %+v, want %+v", workers, got, want)
		}
	}

	if _, err := MeasureTreeParallel(context.Background(), failing{}, root, cfg, 4); !errors.Is(err, errors.ErrCodeInvalidMetrics) {
		t.Errorf("err = %v, want INVALID_METRICS", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MeasureTreeParallel(ctx, NewEstimator(12), root, cfg, 2); !stderrors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"font", false},
		{"estimate", false},
		{"canvas", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.name, 14)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && m == nil {
				t.Error("nil measurer")
			}
		})
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector(3)
	if _, err := c.Metrics(); !stderrors.Is(err, boxtree.ErrNotReady) {
		t.Fatalf("Metrics() error = %v, want ErrNotReady", err)
	}

	var wg sync.WaitGroup
	for i := 2; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(i, boxtree.TextMetrics{Width: float64(i)})
		}(i)
	}
	wg.Wait()
	_ = c.Set(1, boxtree.TextMetrics{Width: 10})

	if c.Missing() != 0 {
		t.Fatalf("Missing() = %d, want 0", c.Missing())
	}
	got, err := c.Metrics()
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Width != 0 || got[1].Width != 10 || got[2].Width != 2 {
		t.Errorf("Metrics() = %+v", got)
	}
	if err := c.Set(3, boxtree.TextMetrics{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Set(3) error = %v, want INVALID_INPUT", err)
	}
}
