package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
}

type GameConfig struct {
	Level     string  `toml:"level"`      // level basename in levels/, .yaml optional
	StageTime float64 `toml:"stage_time"` // seconds before a forced death, overridden per level
	TickRate  int     `toml:"tick_rate"`  // updates per second
	Debug     bool    `toml:"debug"`      // hot reload and collider outlines
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return defaults()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Game.StageTime <= 0 {
		errs = append(errs, fmt.Errorf("game.stage_time must be positive, got %v", c.Game.StageTime))
	}
	if c.Game.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_rate must be positive, got %d", c.Game.TickRate))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Level:     "level_01",
			StageTime: 5,
			TickRate:  60,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "rewind",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
