package metrics

import "unicode/utf8"

const (
	charWidthRatio = 0.55
	ascentRatio    = 0.8
	descentRatio   = 0.2
)

// Estimator approximates label extents from the rune count alone.
type Estimator struct {
	Size float64
}

// NewEstimator returns an estimator for text of the given pixel size.
func NewEstimator(size float64) *Estimator {
	if size <= 0 {
		size = DefaultFontSize
	}
	return &Estimator{Size: size}
}

// Measure implements [Measurer].
func (e *Estimator) Measure(text string) (BBox, error) {
	n := utf8.RuneCountInString(text)
	return BBox{
		Y:      -e.Size * ascentRatio,
		Width:  float64(n) * e.Size * charWidthRatio,
		Height: e.Size * (ascentRatio + descentRatio),
	}, nil
}
