// Package config loads docstyle tool configuration from .docstyle.yaml.
// The same file carries the style guide itself (under "guide:"); that section
// is owned by internal/guide and loaded separately.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-workspace configuration file.
const ConfigFileName = ".docstyle.yaml"

// Config holds all docstyle tool configuration.
type Config struct {
	Check   CheckConfig   `yaml:"check"`
	Logging LoggingConfig `yaml:"logging"`
}

// CheckConfig configures a lint run.
type CheckConfig struct {
	// Concurrency bounds the number of files checked in parallel.
	Concurrency int `yaml:"concurrency"`
	// FailOn is the severity threshold for a non-zero exit: error or warning.
	FailOn string `yaml:"fail_on"`
	// Format selects the default report renderer: text, json, or markdown.
	Format string `yaml:"format"`
	// UseBaseline suppresses diagnostics recorded in the baseline store.
	UseBaseline bool `yaml:"use_baseline"`
	// SkipTests leaves test files (foo_test.go, test_foo.py, Foo.spec.ts, ...)
	// out of the run.
	SkipTests bool `yaml:"skip_tests"`
	// Exclude lists directory names skipped during the scan, in addition to
	// the built-in hidden-directory handling.
	Exclude []string `yaml:"exclude"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Check: CheckConfig{
			Concurrency: 8,
			FailOn:      "error",
			Format:      "text",
			UseBaseline: true,
			Exclude:     []string{"vendor", "node_modules", "target", "build", "dist"},
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from workspace/.docstyle.yaml, layered over the
// defaults and then over environment variables. A missing file is fine.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(workspace, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from DOCSTYLE_* environment variables.
// Env wins over file; flags win over env (handled by the CLI layer).
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCSTYLE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Check.Concurrency = n
		}
	}
	if v := os.Getenv("DOCSTYLE_FAIL_ON"); v != "" {
		c.Check.FailOn = v
	}
	if v := os.Getenv("DOCSTYLE_FORMAT"); v != "" {
		c.Check.Format = v
	}
	if v := os.Getenv("DOCSTYLE_SKIP_TESTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Check.SkipTests = b
		}
	}
	if v := os.Getenv("DOCSTYLE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// Validate rejects configurations the checker cannot honor.
func (c *Config) Validate() error {
	if c.Check.Concurrency < 1 {
		return fmt.Errorf("check.concurrency must be positive, got %d", c.Check.Concurrency)
	}
	switch c.Check.FailOn {
	case "error", "warning", "warn", "info":
	default:
		return fmt.Errorf("check.fail_on must be error, warning, or info, got %q", c.Check.FailOn)
	}
	switch c.Check.Format {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("check.format must be text, json, or markdown, got %q", c.Check.Format)
	}
	return nil
}
