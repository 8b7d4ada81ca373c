// Package config loads the ambient configuration consumed by the registers
// CLI shell. Core packages never import this package — they accept their
// relaxed-mode flag as an explicit function parameter, keeping the register
// domain logic free of I/O and environment coupling.
//
// Grounded on the teacher's pkg/config/config.go layering (defaults, then an
// optional file overlay, then environment variables, each source winning
// over the last) and pkg/config/anchor_config.go's use of gopkg.in/yaml.v3
// for the file layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the registers CLI's runtime configuration.
type Config struct {
	// RelaxedMode, when true, is passed to reglog.Collect so duplicate
	// entries are appended without an error instead of being skipped and
	// reported (spec.md §4.10).
	RelaxedMode bool `yaml:"relaxed"`

	// LogLevel controls the CLI shell's log verbosity ("debug", "info",
	// "warn", "error"). Core packages never log.
	LogLevel string `yaml:"log_level"`

	// DefaultTimestampSource supplies the current time for commands that
	// stamp new entries (e.g. `patch create`). It exists as a test seam;
	// it is never populated from the YAML file or environment.
	DefaultTimestampSource func() time.Time `yaml:"-"`
}

// defaults returns a Config populated with the registers CLI's built-in
// defaults, before any file or environment overlay is applied.
func defaults() *Config {
	return &Config{
		RelaxedMode:            false,
		LogLevel:               "info",
		DefaultTimestampSource: time.Now,
	}
}

// Load builds a Config by layering, in order: built-in defaults, an
// optional YAML file at path (skipped entirely if path is empty or the file
// does not exist), then environment variable overrides. Each later source
// wins over the former.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	overlayEnv(cfg)

	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	// RelaxedMode has no zero-value ambiguity issue here since the YAML
	// document, when present, always states it explicitly via the
	// `relaxed` key; bool zero value "false" overlaying a default "false"
	// is a no-op either way.
	cfg.RelaxedMode = fileCfg.RelaxedMode || cfg.RelaxedMode

	return nil
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("REGISTERS_RELAXED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RelaxedMode = b
		}
	}
	if v := os.Getenv("REGISTERS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
