package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/Smoopi/D2-Assignment/internal/sketch"
	"github.com/Smoopi/D2-Assignment/internal/theme"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Canvas sizes the drawing surface.
type Canvas struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Font   string `toml:"font,omitempty"` // path to a TTF/OTF used for stickers
}

// Marker holds the thin and thick marker presets.
type Marker struct {
	Thin  float64 `toml:"thin"`
	Thick float64 `toml:"thick"`
	Color string  `toml:"color"`
}

// Sticker holds the sticker presets.
type Sticker struct {
	Glyphs []string `toml:"glyphs"`
	Size   float64  `toml:"size"`
}

// Notify holds notification settings.
type Notify struct {
	Save bool `toml:"save"`
	Copy bool `toml:"copy"`
}

// Config holds the application configuration.
type Config struct {
	Theme   string  `toml:"theme,omitempty"`
	SaveDir string  `toml:"save_dir,omitempty"`
	Canvas  Canvas  `toml:"canvas"`
	Marker  Marker  `toml:"marker"`
	Sticker Sticker `toml:"sticker"`
	Notify  Notify  `toml:"notify"`

	Themes map[string]*theme.Theme `toml:"-"`
}

// file mirrors Config with themes kept as plain strings.
type file struct {
	Config
	Themes map[string]map[string]string `toml:"themes,omitempty"`
}

// New creates a Config holding the defaults.
func New() *Config {
	p := sketch.DefaultPresets()
	return &Config{
		Canvas:  Canvas{Width: 256, Height: 256},
		Marker:  Marker{Thin: p.Thin, Thick: p.Thick, Color: theme.Hex(p.Color)},
		Sticker: Sticker{Glyphs: append([]string(nil), p.Stickers...), Size: p.StickerSize},
		Themes:  make(map[string]*theme.Theme),
	}
}

// Parse decodes TOML from r on top of the defaults and validates it.
func Parse(r io.Reader) (*Config, error) {
	f := file{Config: *New()}
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg := f.Config
	cfg.Themes = make(map[string]*theme.Theme, len(f.Themes))
	for name, values := range f.Themes {
		t, err := theme.FromValues(name, values)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", name, err)
		}
		cfg.Themes[name] = t
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a drawing session depends on.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Marker.Thin <= 0 || c.Marker.Thick <= 0 {
		return fmt.Errorf("%w: marker widths must be positive", ErrInvalid)
	}
	if _, err := theme.ParseColor(c.Marker.Color); err != nil {
		return fmt.Errorf("%w: marker color: %v", ErrInvalid, err)
	}
	if c.Sticker.Size <= 0 {
		return fmt.Errorf("%w: sticker size must be positive", ErrInvalid)
	}
	return nil
}

// Presets converts the tool sections into sketch presets.
func (c *Config) Presets() sketch.Presets {
	p := sketch.DefaultPresets()
	p.Thin = c.Marker.Thin
	p.Thick = c.Marker.Thick
	if col, err := theme.ParseColor(c.Marker.Color); err == nil {
		p.Color = col
	}
	p.Stickers = append([]string(nil), c.Sticker.Glyphs...)
	p.StickerSize = c.Sticker.Size
	return p
}

// String implements fmt.Stringer and returns the configuration as TOML.
func (c *Config) String() string {
	f := file{Config: *c}
	if len(c.Themes) > 0 {
		f.Themes = make(map[string]map[string]string, len(c.Themes))
		for name, t := range c.Themes {
			f.Themes[name] = t.Values()
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Sprintf("# encode config: %v\n", err)
	}
	return buf.String()
}
