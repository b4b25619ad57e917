package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Size is a width and height in screen coordinates.
type Size struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// Position is a window position in screen coordinates.
type Position struct {
	X int `yaml:"x" toml:"x"`
	Y int `yaml:"y" toml:"y"`
}

// WindowConfig holds window creation options.
type WindowConfig struct {
	Size         Size     `yaml:"size" toml:"size"`
	Position     Position `yaml:"position" toml:"position"`
	Title        string   `yaml:"title" toml:"title"`
	Fullscreen   bool     `yaml:"fullscreen" toml:"fullscreen"`
	Decorated    bool     `yaml:"decorated" toml:"decorated"`
	Translucent  bool     `yaml:"translucent" toml:"translucent"`
	ClickThrough bool     `yaml:"clickthrough" toml:"clickthrough"`
	AlwaysOnTop  bool     `yaml:"always_on_top" toml:"always_on_top"`
	HideCursor   bool     `yaml:"hide_cursor" toml:"hide_cursor"`
	VSync        bool     `yaml:"vsync" toml:"vsync"`
	Framerate    int      `yaml:"framerate" toml:"framerate"` // Frames per second cap, 0 = uncapped
}

// Robustness controls driver behavior on GPU reset.
type Robustness int

const (
	RobustnessNone                Robustness = iota // No robustness requested
	RobustnessNoResetNotification                   // Robust access, reset not reported
	RobustnessLoseContextOnReset                    // Robust access, context lost on reset
)

var robustnessNames = map[Robustness]string{
	RobustnessNone:                "none",
	RobustnessNoResetNotification: "no-reset-notification",
	RobustnessLoseContextOnReset:  "lose-context-on-reset",
}

func (r Robustness) String() string {
	if s, ok := robustnessNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Robustness(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Robustness) MarshalText() ([]byte, error) {
	s, ok := robustnessNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown robustness %d", int(r))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Robustness) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range robustnessNames {
		if v == s {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown robustness %q", s)
}

// ContextConfig is the graphics context request.
type ContextConfig struct {
	VersionMajor int        `yaml:"version_major" toml:"version_major"`
	VersionMinor int        `yaml:"version_minor" toml:"version_minor"`
	Robustness   Robustness `yaml:"robustness" toml:"robustness"`
}

// Config is the full configuration of a Window.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Context ContextConfig `yaml:"context" toml:"context"`
}

// DefaultConfig returns an 800x600 decorated window with an OpenGL 4.1
// core context, uncapped framerate.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Size:      Size{Width: 800, Height: 600},
			Position:  Position{X: 100, Y: 100},
			Title:     "render",
			Decorated: true,
		},
		Context: ContextConfig{
			VersionMajor: 4,
			VersionMinor: 1,
			Robustness:   RobustnessLoseContextOnReset,
		},
	}
}

// Validate reports configuration values no platform can honor.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Size.Width <= 0 || c.Window.Size.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Size.Width, c.Window.Size.Height))
	}
	if c.Window.Framerate < 0 {
		errs = append(errs, fmt.Errorf("framerate %d must not be negative", c.Window.Framerate))
	}
	if c.Context.VersionMajor < 3 || (c.Context.VersionMajor == 3 && c.Context.VersionMinor < 3) {
		errs = append(errs, fmt.Errorf("context version %d.%d is below 3.3", c.Context.VersionMajor, c.Context.VersionMinor))
	}
	if _, ok := robustnessNames[c.Context.Robustness]; !ok {
		errs = append(errs, fmt.Errorf("unknown robustness %d", int(c.Context.Robustness)))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
