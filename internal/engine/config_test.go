package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hex.yaml")
	data := `
seed: 7
map_length: 16
turn_interval: 1s
nav:
  sight_only: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 16, cfg.MapLength)
	assert.Equal(t, time.Second, cfg.TurnInterval)
	assert.True(t, cfg.Nav.SightOnly)
	assert.False(t, cfg.Nav.UseMemory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultConfig().Port, cfg.Port, "unset keys keep defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero map length", "map_length: 0\n"},
		{"huge map length", "map_length: 300\n"},
		{"bad density", "tree_density: 1.5\n"},
		{"negative count", "bears: -1\n"},
		{"broken yaml", "map_length: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hex.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_ValidateMapLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MapLength = 0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrEmptyMap)
}

func TestConfig_ResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	seed := cfg.ResolveSeed()
	assert.NotZero(t, seed)
	assert.Equal(t, seed, cfg.ResolveSeed(), "resolved once")
}
