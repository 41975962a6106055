// Package config handles optional guard configuration loading from TOML files.
//
// Configuration is opt-in: without a config file the binary runs with the
// built-in catalog, reads nothing but stdin, and touches no environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/xonecas/cmdguard/internal/guard"
)

// Config is the root configuration structure.
type Config struct {
	// LogLevel is the zerolog level for stderr diagnostics ("debug", "info",
	// "warn", ...). Empty keeps the binary default.
	LogLevel string `toml:"log_level"`

	// LogAllowed also logs allowed commands, at info level.
	LogAllowed bool `toml:"log_allowed"`

	// SafePrefixes is appended to the guard's safe-prefix reference data.
	SafePrefixes []string `toml:"safe_prefixes"`

	// Deny lists extra danger signatures, appended after the built-in catalog.
	Deny []DenyRule `toml:"deny"`
}

// DenyRule is one configured danger signature.
type DenyRule struct {
	ID      string `toml:"id"`
	Pattern string `toml:"pattern"`
	Reason  string `toml:"reason"`
}

// Load reads configuration from a TOML file and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level=%q is invalid: %w", c.LogLevel, err))
		}
	}

	for i, rule := range c.Deny {
		if rule.ID == "" {
			errs = append(errs, fmt.Errorf("deny[%d]: id is required", i))
		}
		if rule.Reason == "" {
			errs = append(errs, fmt.Errorf("deny[%d] (%s): reason is required", i, rule.ID))
		}
		if rule.Pattern == "" {
			errs = append(errs, fmt.Errorf("deny[%d] (%s): pattern is required", i, rule.ID))
		} else if _, err := guard.CompileSignature(rule.ID, rule.Pattern, rule.Reason); err != nil {
			errs = append(errs, fmt.Errorf("deny[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level returns the configured zerolog level. Call only after Validate.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel
	}
	return lvl
}

// Signatures compiles the configured deny rules into guard signatures.
// Call only after Validate; compilation errors were reported there.
func (c *Config) Signatures() []guard.Signature {
	sigs := make([]guard.Signature, 0, len(c.Deny))
	for _, rule := range c.Deny {
		s, err := guard.CompileSignature(rule.ID, rule.Pattern, rule.Reason)
		if err != nil {
			continue
		}
		sigs = append(sigs, s)
	}
	return sigs
}
