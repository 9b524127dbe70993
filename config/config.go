// Package config loads scrollkit settings from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the contents of a scrollkit.toml file.
type Config struct {
	Filter  FilterConfig  `toml:"filter"`
	Scroll  ScrollConfig  `toml:"scroll"`
	Manager ManagerConfig `toml:"manager"`
	Debug   DebugConfig   `toml:"debug"`
}

type FilterConfig struct {
	// Quiet period before coalesced events are delivered.
	Delay Duration `toml:"delay"`
	// Keyboard transitions longer than this are treated as part of a
	// screen navigation and applied immediately.
	NavigationThreshold Duration `toml:"navigation_threshold"`
}

type ScrollConfig struct {
	VisibilityMargin float64 `toml:"visibility_margin"`
}

type ManagerConfig struct {
	ResizeContentForKeyboard  bool `toml:"resize_content_for_keyboard"`
	AdjustSafeAreaForKeyboard bool `toml:"adjust_safe_area_for_keyboard"`
}

type DebugConfig struct {
	// Panic on state-machine breaches instead of only logging them.
	StrictInvariants bool   `toml:"strict_invariants"`
	LogLevel         string `toml:"log_level"`
}

// Duration is a time.Duration written as a Go duration string ("100ms").
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Filter: FilterConfig{
			Delay:               Duration(100 * time.Millisecond),
			NavigationThreshold: Duration(300 * time.Millisecond),
		},
		Manager: ManagerConfig{
			AdjustSafeAreaForKeyboard: true,
		},
		Debug: DebugConfig{
			LogLevel: "info",
		},
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path, applies environment overrides and validates. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	return cfg, nil
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// ApplyEnvOverrides applies SCROLLKIT_FILTER_DELAY and SCROLLKIT_LOG_LEVEL.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("SCROLLKIT_FILTER_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCROLLKIT_FILTER_DELAY: %w", err)
		}
		c.Filter.Delay = Duration(d)
	}
	if v := os.Getenv("SCROLLKIT_LOG_LEVEL"); v != "" {
		c.Debug.LogLevel = v
	}
	return nil
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Is(target error) bool { return target == ErrInvalid }

// Validate checks c for values the library cannot run with.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if c.Filter.Delay <= 0 {
		errs = append(errs, ValidationError{"filter.delay", "must be positive"})
	}
	if c.Filter.NavigationThreshold <= 0 {
		errs = append(errs, ValidationError{"filter.navigation_threshold", "must be positive"})
	}
	if c.Scroll.VisibilityMargin < 0 {
		errs = append(errs, ValidationError{"scroll.visibility_margin", "must not be negative"})
	}
	if _, err := ParseLevel(c.Debug.LogLevel); err != nil {
		errs = append(errs, ValidationError{"debug.log_level", err.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Level returns the configured log level, or info if it is not recognised.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.Debug.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
