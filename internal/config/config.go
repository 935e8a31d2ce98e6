package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Catalog CatalogConfig `yaml:"catalog"`
	World   WorldConfig   `yaml:"world"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CatalogConfig struct {
	// Path of the character archetype file.
	Path string `yaml:"path"`
	// Watch reloads the catalog when the file changes on disk.
	Watch bool `yaml:"watch"`
	// Character selects the initial archetype; defaults to the first one.
	Character string `yaml:"character"`
}

type WorldConfig struct {
	// Gravity magnitude in m/s^2, applied straight down.
	Gravity float64 `yaml:"gravity"`
	// TickRate is physics/render frames per second.
	TickRate int `yaml:"tick_rate"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Catalog: CatalogConfig{Path: "configs/characters.yaml"},
		World:   WorldConfig{Gravity: 18.0, TickRate: 20},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.World.TickRate <= 0 {
		return nil, fmt.Errorf("world.tick_rate must be positive, got %d", cfg.World.TickRate)
	}
	if cfg.World.Gravity <= 0 {
		return nil, fmt.Errorf("world.gravity must be positive, got %v", cfg.World.Gravity)
	}
	return cfg, nil
}
