package config

import (
	"testing"

	"github.com/milk9111/neonfolio/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, common.BaseWidth, cfg.Width)
	assert.Equal(t, common.BaseHeight, cfg.Height)
	assert.InDelta(t, 0.3, cfg.Volume, 1e-9)
	assert.Equal(t, "prefabs", cfg.PrefabsDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Glitch)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"NEONFOLIO_DEBUG":       "true",
		"NEONFOLIO_WIDTH":       "800",
		"NEONFOLIO_HEIGHT":      "600",
		"NEONFOLIO_VOLUME":      "0.75",
		"NEONFOLIO_START_SCENE": "skills",
		"NEONFOLIO_SEED":        "99",
		"NEONFOLIO_GLITCH":      "false",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.InDelta(t, 0.75, cfg.Volume, 1e-9)
	assert.Equal(t, "skills", cfg.StartScene)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.False(t, cfg.Glitch)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	_, err := LoadFrom(map[string]string{"NEONFOLIO_WIDTH": "wide"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		err  error
	}{
		{"ok", func(*Config) {}, nil},
		{"zero_width", func(c *Config) { c.Width = 0 }, ErrInvalidSize},
		{"negative_height", func(c *Config) { c.Height = -1 }, ErrInvalidSize},
		{"loud", func(c *Config) { c.Volume = 1.5 }, ErrInvalidVolume},
		{"negative_volume", func(c *Config) { c.Volume = -0.1 }, ErrInvalidVolume},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mut(&cfg)
			err := cfg.Validate()
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestClampVolume(t *testing.T) {
	cfg := Default()
	cfg.Volume = 3
	cfg.ClampVolume()
	assert.InDelta(t, 1.0, cfg.Volume, 1e-9)
}
