// Package config resolves runtime settings from the environment and command
// line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/neonfolio/common"
)

var (
	ErrInvalidSize   = errors.New("config: window size must be positive")
	ErrInvalidVolume = errors.New("config: volume must be within [0,1]")
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NEONFOLIO_"

type Config struct {
	Debug      bool    `env:"DEBUG"`
	LogLevel   string  `env:"LOG_LEVEL" envDefault:"info"`
	Width      int     `env:"WIDTH"`
	Height     int     `env:"HEIGHT"`
	Volume     float64 `env:"VOLUME" envDefault:"0.3"`
	Mute       bool    `env:"MUTE"`
	StartScene string  `env:"START_SCENE"`
	PrefabsDir string  `env:"PREFABS_DIR" envDefault:"prefabs"`
	Seed       uint64  `env:"SEED"`
	Glitch     bool    `env:"GLITCH" envDefault:"true"`
}

func Default() Config {
	return Config{
		LogLevel:   "info",
		Width:      common.BaseWidth,
		Height:     common.BaseHeight,
		Volume:     0.3,
		PrefabsDir: "prefabs",
		Glitch:     true,
	}
}

// Load reads NEONFOLIO_* variables on top of the defaults.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is Load with an explicit environment; a nil map reads the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.Width == 0 {
		cfg.Width = common.BaseWidth
	}
	if cfg.Height == 0 {
		cfg.Height = common.BaseHeight
	}
	return cfg, nil
}

// Validate rejects unusable settings. Volume outside [0,1] is an error here;
// callers wanting the forgiving behavior use ClampVolume first.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, c.Volume)
	}
	return nil
}

// ClampVolume pins Volume into [0,1].
func (c *Config) ClampVolume() {
	c.Volume = common.Clamp(c.Volume, 0, 1)
}
