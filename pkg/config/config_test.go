package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/boxtree/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[layout]
margin = 2
measurer = "estimate"

[style.rect]
fill = "#dde6f0"

[style.path]
stroke-width = "1.5"

[cache]
backend = "none"
ttl = "90m"

[server]
addr = ":9000"
`)
	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Layout.Margin != 2 || cfg.Layout.Measurer != "estimate" {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Padding != 0.5 || cfg.Layout.FontSize != 16 {
		t.Errorf("defaults lost: %+v", cfg.Layout)
	}
	if cfg.Style.Rect["fill"] != "#dde6f0" || cfg.Style.Path["stroke-width"] != "1.5" {
		t.Errorf("style = %+v", cfg.Style)
	}
	if cfg.Cache.Backend != "none" || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Database != "boxtree" {
		t.Errorf("server = %+v", cfg.Server)
	}

	bc := cfg.BoxConfig()
	if bc.Margin != 2 || bc.MarginPx() != 32 || bc.Style.Rect["fill"] != "#dde6f0" {
		t.Errorf("BoxConfig() = %+v", bc)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[layout\nmargin = 1"},
		{"unknown key", "[layout]\ngutter = 3"},
		{"negative margin", "[layout]\nmargin = -1"},
		{"bad measurer", "[layout]\nmeasurer = \"canvas\""},
		{"zero font", "[layout]\nfont_size = 0"},
		{"zero ppu", "[layout]\npixels_per_unit = 0"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"bad duration", "[cache]\nttl = \"forever\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of a missing explicit path succeeded")
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, used, err := Load("")
	if err != nil || used != "" {
		t.Fatalf("Load(\"\") without file = %v, %q, %v", cfg, used, err)
	}
	if cfg.Layout.Margin != 1 {
		t.Errorf("defaults not returned: %+v", cfg.Layout)
	}

	path := filepath.Join(dir, "boxtree", "config.toml")
	if Path() != path {
		t.Fatalf("Path() = %q, want %q", Path(), path)
	}
	want := Default()
	want.Layout.Border = 12
	if err := Write(want, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cfg, used, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path || cfg.Layout.Border != 12 || cfg.Cache.TTL != want.Cache.TTL {
		t.Errorf("round trip: used %q, layout %+v, ttl %v", used, cfg.Layout, cfg.Cache.TTL)
	}
}

func TestPathHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if want := filepath.Join(home, ".config", "boxtree", "config.toml"); Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}
}
