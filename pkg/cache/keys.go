package cache

import "time"

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey addresses a layout computed from the tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey addresses a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	Padding       float64 `json:"padding"`
	Margin        float64 `json:"margin"`
	Border        float64 `json:"border"`
	PixelsPerUnit float64 `json:"ppu"`
	Measurer      string  `json:"measurer"`
	FontSize      float64 `json:"font_size"`
	StyleHash     string  `json:"style,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer produces "layout:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
