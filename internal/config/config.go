package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Roots      []string `toml:"roots"`
	Extensions []string `toml:"extensions"`
	Exclude    Exclude  `toml:"exclude"`
	Refs       Refs     `toml:"refs"`
	Watch      Watch    `toml:"watch"`
	History    History  `toml:"history"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Refs struct {
	Enabled bool `toml:"enabled"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type History struct {
	Path string `toml:"path"` // empty disables run history
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{Refs: Refs{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build", "coverage"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}
