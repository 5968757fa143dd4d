package boxtree

import (
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/style"
)

// DefaultPixelsPerUnit resolves one logical unit to pixels when the host
// supplies nothing better (1rem at the usual 16px root font size).
const DefaultPixelsPerUnit = 16.0

// Config controls spacing. Padding and Margin are in logical units and are
// converted with PixelsPerUnit; Border is already in pixels.
type Config struct {
	Padding       float64   `json:"padding"`
	Margin        float64   `json:"margin"`
	Border        float64   `json:"border"`
	PixelsPerUnit float64   `json:"pixels_per_unit"`
	Style         style.Set `json:"style,omitempty"`
}

// PaddingPx returns the padding in pixels.
func (c Config) PaddingPx() float64 { return c.Padding * c.pixelsPerUnit() }

// MarginPx returns the margin in pixels.
func (c Config) MarginPx() float64 { return c.Margin * c.pixelsPerUnit() }

func (c Config) pixelsPerUnit() float64 {
	if c.PixelsPerUnit == 0 {
		return DefaultPixelsPerUnit
	}
	return c.PixelsPerUnit
}

// Validate rejects negative or non-finite spacing.
func (c Config) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"padding", c.Padding},
		{"margin", c.Margin},
		{"border", c.Border},
		{"pixels_per_unit", c.PixelsPerUnit},
	}
	for _, chk := range checks {
		if err := errors.ValidateDimension(errors.ErrCodeInvalidConfig, chk.name, chk.v); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects negative or non-finite dimensions.
func (m TextMetrics) Validate() error {
	if err := errors.ValidateDimension(errors.ErrCodeInvalidMetrics, "width", m.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension(errors.ErrCodeInvalidMetrics, "height", m.Height); err != nil {
		return err
	}
	return errors.ValidateDimension(errors.ErrCodeInvalidMetrics, "baseline", m.Baseline)
}
