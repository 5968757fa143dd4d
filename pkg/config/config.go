// Package config loads boxtree settings from a TOML file.
//
// A complete file looks like:
//
//	[layout]
//	padding = 0.5          # units
//	margin = 1             # units
//	border = 0             # pixels
//	pixels_per_unit = 16
//	measurer = "font"      # font | estimate
//	font_size = 16
//
//	[style.rect]
//	fill = "#dde6f0"
//
//	[style.path]
//	stroke = "#445"
//	stroke-width = "1.5"
//
//	[cache]
//	backend = "file"       # file | redis | none
//	addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "boxtree"
//
// Every key is optional; missing keys keep the values of [Default].
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxtree/pkg/boxtree"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/style"
)

const appName = "boxtree"

// Config is the full settings file.
type Config struct {
	Layout Layout    `toml:"layout"`
	Style  style.Set `toml:"style"`
	Cache  Cache     `toml:"cache"`
	Server Server    `toml:"server"`
}

// Layout holds spacing and measuring settings.
type Layout struct {
	Padding       float64 `toml:"padding"`
	Margin        float64 `toml:"margin"`
	Border        float64 `toml:"border"`
	PixelsPerUnit float64 `toml:"pixels_per_unit"`
	Measurer      string  `toml:"measurer"`
	FontSize      float64 `toml:"font_size"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	TTL      Duration `toml:"ttl"`
}

// Server configures the HTTP server and its document store.
type Server struct {
	Addr         string   `toml:"addr"`
	MongoURI     string   `toml:"mongo_uri"`
	Database     string   `toml:"database"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout: Layout{
			Padding:       0.5,
			Margin:        1,
			Border:        0,
			PixelsPerUnit: boxtree.DefaultPixelsPerUnit,
			Measurer:      "font",
			FontSize:      16,
		},
		Cache: Cache{
			Backend: "file",
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:         ":8080",
			Database:     appName,
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// BoxConfig returns the layout configuration described by c.
func (c *Config) BoxConfig() boxtree.Config {
	return boxtree.Config{
		Padding:       c.Layout.Padding,
		Margin:        c.Layout.Margin,
		Border:        c.Layout.Border,
		PixelsPerUnit: c.Layout.PixelsPerUnit,
		Style:         c.Style,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := c.BoxConfig().Validate(); err != nil {
		return err
	}
	if c.Layout.PixelsPerUnit == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.pixels_per_unit must be positive")
	}
	if c.Layout.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.font_size must be positive, got %v", c.Layout.FontSize)
	}
	switch c.Layout.Measurer {
	case "font", "estimate":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.measurer must be font or estimate, got %q", c.Layout.Measurer)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.addr is required for the redis backend")
	}
	return nil
}

// Load reads the file at path over the defaults. With an empty path it
// tries [Path]; if no file exists there the defaults are returned. It also
// returns the path actually read, or "" if none was.
func Load(path string) (*Config, string, error) {
	cfg := Default()
	if path == "" {
		path = Path()
		if _, err := os.Stat(path); err != nil {
			return cfg, "", nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, path, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, path, nil
}

// Path returns the default settings file location:
// $XDG_CONFIG_HOME/boxtree/config.toml, else ~/.config/boxtree/config.toml.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
