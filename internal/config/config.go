// Package config loads orchestrator settings from a ctxmux.yml file and
// translates them into a strategy and construction options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/ctxmux/internal/orchestrator"
	"github.com/dusk-indust/ctxmux/internal/strategy"
)

// Strategy kinds accepted in configuration.
const (
	StrategyConcat = "concat"
	StrategyDict   = "dict"
)

// Retry holds optional retry settings for backend calls.
type Retry struct {
	MaxAttempts     int    `yaml:"maxAttempts"`
	InitialInterval string `yaml:"initialInterval,omitempty"`
}

// Config holds orchestration settings loaded from ctxmux.yml. Durations
// are strings in time.ParseDuration syntax.
type Config struct {
	ErrorPolicy string  `yaml:"errorPolicy,omitempty"`
	Strategy    string  `yaml:"strategy,omitempty"`
	Separator   *string `yaml:"separator,omitempty"`
	MergePolicy string  `yaml:"mergePolicy,omitempty"`
	Timeout     string  `yaml:"timeout,omitempty"`
	Concurrency int     `yaml:"concurrency,omitempty"`
	Retry       *Retry  `yaml:"retry,omitempty"`
	Verbose     bool    `yaml:"verbose,omitempty"`
}

// Load attempts to read ctxmux.yml or ctxmux.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"ctxmux.yml", "ctxmux.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// BuildStrategy constructs the combination strategy the config names.
// An empty strategy kind selects concatenation with the default separator.
func (c *Config) BuildStrategy() (orchestrator.Strategy, error) {
	switch c.Strategy {
	case StrategyConcat, "":
		if c.Separator != nil {
			return strategy.NewConcatWithSeparator(*c.Separator), nil
		}
		return strategy.NewConcat(), nil
	case StrategyDict:
		policy, err := strategy.ParseMergePolicy(c.MergePolicy)
		if err != nil {
			return nil, err
		}
		return strategy.NewDictMerge(policy), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", c.Strategy)
	}
}

// Options translates the config into orchestrator construction options.
func (c *Config) Options() ([]orchestrator.Option, error) {
	var opts []orchestrator.Option

	policy, err := orchestrator.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return nil, err
	}
	opts = append(opts, orchestrator.WithErrorPolicy(policy))

	if c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		opts = append(opts, orchestrator.WithTimeout(timeout))
	}

	if c.Concurrency > 0 {
		opts = append(opts, orchestrator.WithConcurrencyLimit(c.Concurrency))
	}

	if c.Retry != nil && c.Retry.MaxAttempts > 1 {
		interval := time.Duration(0)
		if c.Retry.InitialInterval != "" {
			interval, err = time.ParseDuration(c.Retry.InitialInterval)
			if err != nil {
				return nil, fmt.Errorf("parsing retry interval: %w", err)
			}
		}
		opts = append(opts, orchestrator.WithRetry(c.Retry.MaxAttempts, interval))
	}

	return opts, nil
}
