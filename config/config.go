// Package config loads the assembler's runtime configuration: everything
// that is legitimately adjustable without touching the fixed CS382 memory
// layout (constant pool 0x00, data 0x40, text 0x80, limit 0x100 — those stay
// compile-time constants in package assembler).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	env "github.com/xyproto/env/v2"
)

// Config holds the assembler's runtime settings.
type Config struct {
	Output struct {
		Directory string `toml:"directory"`
		Prefix    string `toml:"prefix"`
	} `toml:"output"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
	} `toml:"logging"`

	// KeepPartialOnWarning controls whether a partially written image pair
	// is left on disk when assembly fails after some bytes were already
	// staged. Unused today: there is no non-fatal warning path yet, so this
	// field only documents where one would plug in.
	KeepPartialOnWarning bool `toml:"keep_partial_on_warning"`

	// PrefixSet records whether Output.Prefix was explicitly supplied by the
	// TOML file or an environment variable, as opposed to being left at its
	// unset zero value. OutputPrefix uses this to decide whether to derive
	// the prefix from the source filename instead.
	PrefixSet bool `toml:"-"`
}

// DefaultConfig returns a configuration with the assembler's default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Output.Directory = "."
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.KeepPartialOnWarning = false
	return cfg
}

// Load loads configuration from path, falling back to DefaultConfig if path
// is empty or does not exist, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			meta, err := toml.DecodeFile(path, cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			if meta.IsDefined("output", "prefix") {
				cfg.PrefixSet = true
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets a handful of settings be overridden by environment
// variables ahead of the TOML file.
func applyEnvOverrides(cfg *Config) {
	cfg.Output.Directory = env.Str("CS382ASM_OUTPUT_DIR", cfg.Output.Directory)
	if v, ok := os.LookupEnv("CS382ASM_OUTPUT_PREFIX"); ok {
		cfg.Output.Prefix = v
		cfg.PrefixSet = true
	}
	cfg.Logging.Level = env.Str("CS382ASM_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = env.Str("CS382ASM_LOG_FORMAT", cfg.Logging.Format)
	if _, ok := os.LookupEnv("CS382ASM_KEEP_PARTIAL"); ok {
		cfg.KeepPartialOnWarning = env.Bool("CS382ASM_KEEP_PARTIAL")
	}
}

// OutputPrefix joins the configured output directory and prefix, deriving
// the prefix from sourcePath's base name (without extension) when no prefix
// was ever explicitly configured.
func (c *Config) OutputPrefix(sourcePath string) string {
	prefix := c.Output.Prefix
	if !c.PrefixSet {
		base := filepath.Base(sourcePath)
		prefix = base[:len(base)-len(filepath.Ext(base))]
	}
	return filepath.Join(c.Output.Directory, prefix)
}
