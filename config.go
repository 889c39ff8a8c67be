package dynatlas

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tanema/gween/ease"
)

// Default configuration values.
const (
	DefaultInitialSize  = 256
	DefaultMaxSize      = 8192
	DefaultDefragBudget = time.Millisecond
	DefaultBoundMargin  = 0
	DefaultFeatherEase  = "in_out_quad"
)

// Config controls the size limits and per-frame behavior of an Atlas.
// Zero values fall back to the defaults above.
type Config struct {
	// InitialSize is the starting width and height of the atlas page.
	InitialSize int `toml:"initial_size"`
	// MaxSize is the hard ceiling for either page dimension. Growth past it
	// fails with ErrAtlasExhausted.
	MaxSize int `toml:"max_size"`
	// DefragBudget is the wall-time budget of one RunDefragmentation call.
	DefragBudget time.Duration `toml:"defrag_budget"`
	// BoundMargin is how far past a texture's edge, in pixels, Rotated may
	// sample. Zero keeps sampling inside the texture; raise it only for
	// content packed with extruded borders.
	BoundMargin int `toml:"bound_margin"`
	// SmoothRotate selects bilinear filtering for Rotated instead of nearest
	// neighbor.
	SmoothRotate bool `toml:"smooth_rotate"`
	// FeatherEase names the falloff curve used by MaskCircle when
	// antialiasing. See FeatherEases for the accepted names.
	FeatherEase string `toml:"feather_ease"`
	// Debug enables loud diagnostics. See Atlas.SetDebugMode.
	Debug bool `toml:"debug"`
}

// FeatherEases maps FeatherEase names to gween easing curves. Only curves
// that stay within [0, 1] and never decrease are listed, so a feathered mask
// never brightens toward the edge.
var FeatherEases = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		InitialSize:  DefaultInitialSize,
		MaxSize:      DefaultMaxSize,
		DefragBudget: DefaultDefragBudget,
		BoundMargin:  DefaultBoundMargin,
		FeatherEase:  DefaultFeatherEase,
	}
}

// ParseConfig decodes TOML on top of DefaultConfig, so omitted keys keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("dynatlas: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("dynatlas: read config: %w", err)
	}
	return ParseConfig(data)
}

func (c Config) validate() error {
	if c.InitialSize < 0 || c.MaxSize < 0 {
		return fmt.Errorf("dynatlas: negative atlas size in config")
	}
	if c.InitialSize > 0 && c.MaxSize > 0 && c.InitialSize > c.MaxSize {
		return fmt.Errorf("dynatlas: initial_size %d exceeds max_size %d", c.InitialSize, c.MaxSize)
	}
	if c.BoundMargin < 0 {
		return fmt.Errorf("dynatlas: negative bound_margin %d", c.BoundMargin)
	}
	if c.FeatherEase != "" {
		if _, ok := FeatherEases[c.FeatherEase]; !ok {
			return fmt.Errorf("dynatlas: unknown feather_ease %q", c.FeatherEase)
		}
	}
	return nil
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialSize <= 0 {
		c.InitialSize = d.InitialSize
	}
	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	if c.InitialSize > c.MaxSize {
		c.InitialSize = c.MaxSize
	}
	if c.DefragBudget <= 0 {
		c.DefragBudget = d.DefragBudget
	}
	if c.BoundMargin < 0 {
		c.BoundMargin = d.BoundMargin
	}
	if _, ok := FeatherEases[c.FeatherEase]; !ok {
		c.FeatherEase = d.FeatherEase
	}
	return c
}
