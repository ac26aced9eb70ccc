// Package config handles chrono.toml runtime configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultMaxIterations bounds a quine search when the file does not say.
const DefaultMaxIterations = uint64(1) << 28

// Config represents a chrono.toml file.
type Config struct {
	Execution Execution `toml:"execution"`
	Quine     Quine     `toml:"quine"`
	Log       Log       `toml:"log"`

	// Path is the file the config was read from (set at load time).
	Path string `toml:"-"`
}

// Execution selects how programs run.
type Execution struct {
	Backend  string `toml:"backend"`
	MaxSteps uint64 `toml:"max-steps"` // interpreter step limit for stepwise runs
}

// Quine configures the seed search.
type Quine struct {
	MaxIterations uint64 `toml:"max-iterations"` // 0 = unlimited
	CacheDir      string `toml:"cache-dir"`      // "" disables the cache
}

type Log struct {
	Level   string `toml:"level"`
	Modules string `toml:"modules"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	c.Quine.MaxIterations = DefaultMaxIterations
	return c
}

func (c *Config) applyDefaults() {
	if c.Execution.Backend == "" {
		c.Execution.Backend = "compiler"
	}
	if c.Execution.MaxSteps == 0 {
		c.Execution.MaxSteps = 1 << 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Load parses the TOML file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Config{Quine: Quine{MaxIterations: DefaultMaxIterations}}
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path
	c.applyDefaults()
	return &c, nil
}
