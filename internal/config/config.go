package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RenderMode selects how exact numbers are printed.
type RenderMode string

const (
	RenderExact   RenderMode = "exact"   // p/q fractions with symbolic structure
	RenderDecimal RenderMode = "decimal" // floating approximation
)

// Config holds the per-project settings read from rhm.yml. All fields are
// optional; the zero value plus DefaultConfig covers the common case of no
// config file at all.
type Config struct {
	// Render selects the output mode used by print.
	Render RenderMode `yaml:"render"`

	// Disasm dumps the compiled instruction stream before execution.
	Disasm bool `yaml:"disasm"`

	// Trace logs each executed instruction with the run id.
	Trace bool `yaml:"trace"`
}

// DefaultConfig returns the settings used when no rhm.yml is present.
func DefaultConfig() *Config {
	return &Config{Render: RenderDecimal}
}

// Load reads rhm.yml from dir. A missing file is not an error; a malformed
// one is.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Render {
	case "", RenderExact, RenderDecimal:
		if c.Render == "" {
			c.Render = RenderDecimal
		}
		return nil
	default:
		return fmt.Errorf("unknown render mode %q (want %q or %q)", c.Render, RenderExact, RenderDecimal)
	}
}
