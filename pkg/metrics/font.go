package metrics

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/boxtree/pkg/errors"
)

// DefaultFontSize is the label size in pixels when none is configured.
const DefaultFontSize = 16.0

// FontMeasurer measures text set in Go Regular.
type FontMeasurer struct {
	size float64

	mu   sync.Mutex // font.Face is not safe for concurrent use
	face font.Face
}

// NewFontMeasurer loads Go Regular at size pixels (72 DPI, so points equal
// pixels).
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font")
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	return &FontMeasurer{size: size, face: face}, nil
}

// Size returns the font size in pixels.
func (f *FontMeasurer) Size() float64 { return f.size }

// Face returns the underlying face. Callers drawing with it must not use the
// measurer concurrently.
func (f *FontMeasurer) Face() font.Face { return f.face }

// Measure implements [Measurer]. The box spans the face's full line height
// so that labels with and without descenders share a baseline.
func (f *FontMeasurer) Measure(text string) (BBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m := f.face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	return BBox{
		Y:      -ascent,
		Width:  fixedToFloat(font.MeasureString(f.face, text)),
		Height: ascent + descent,
	}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
