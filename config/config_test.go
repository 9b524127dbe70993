package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[filter]
delay = "150ms"
navigation_threshold = "400ms"

[scroll]
visibility_margin = 12.0

[manager]
resize_content_for_keyboard = true
adjust_safe_area_for_keyboard = false

[debug]
strict_invariants = true
log_level = "debug"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 150*time.Millisecond, cfg.Filter.Delay.Std())
	assert.Equal(t, 400*time.Millisecond, cfg.Filter.NavigationThreshold.Std())
	assert.Equal(t, 12.0, cfg.Scroll.VisibilityMargin)
	assert.True(t, cfg.Manager.ResizeContentForKeyboard)
	assert.False(t, cfg.Manager.AdjustSafeAreaForKeyboard)
	assert.True(t, cfg.Debug.StrictInvariants)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("[scroll]\nvisibility_margin = 4.0\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Filter, cfg.Filter)
	assert.Equal(t, def.Manager, cfg.Manager)
	assert.Equal(t, 4.0, cfg.Scroll.VisibilityMargin)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"bad duration", "[filter]\ndelay = \"soon\"\n", false},
		{"not toml", "[filter\n", false},
		{"zero delay", "[filter]\ndelay = \"0s\"\n", true},
		{"negative margin", "[scroll]\nvisibility_margin = -1.0\n", true},
		{"unknown level", "[debug]\nlog_level = \"loud\"\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid))
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Filter.Delay = 0
	cfg.Filter.NavigationThreshold = -1
	cfg.Scroll.VisibilityMargin = -2

	err := cfg.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "filter.navigation_threshold")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "scrollkit.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrollkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	t.Setenv("SCROLLKIT_FILTER_DELAY", "40ms")
	t.Setenv("SCROLLKIT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Millisecond, cfg.Filter.Delay.Std())
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	t.Setenv("SCROLLKIT_FILTER_DELAY", "later")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "100ms")

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
