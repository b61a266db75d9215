package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Check.Concurrency != 8 {
		t.Errorf("default concurrency = %d, want 8", cfg.Check.Concurrency)
	}
	if cfg.Check.FailOn != "error" {
		t.Errorf("default fail_on = %q, want error", cfg.Check.FailOn)
	}
	if !cfg.Check.UseBaseline {
		t.Error("default use_baseline should be true")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
check:
  concurrency: 2
  fail_on: warning
  format: json
  exclude: ["generated"]
logging:
  debug_mode: true
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Check.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Check.Concurrency)
	}
	if cfg.Check.FailOn != "warning" {
		t.Errorf("fail_on = %q, want warning", cfg.Check.FailOn)
	}
	if cfg.Check.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Check.Format)
	}
	if len(cfg.Check.Exclude) != 1 || cfg.Check.Exclude[0] != "generated" {
		t.Errorf("exclude = %v, want [generated]", cfg.Check.Exclude)
	}
	if !cfg.Logging.DebugMode {
		t.Error("logging.debug_mode not loaded")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "check:\n  concurrency: 2\n  format: text\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("DOCSTYLE_CONCURRENCY", "16")
	t.Setenv("DOCSTYLE_FORMAT", "markdown")
	t.Setenv("DOCSTYLE_DEBUG", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Check.Concurrency != 16 {
		t.Errorf("env concurrency = %d, want 16", cfg.Check.Concurrency)
	}
	if cfg.Check.Format != "markdown" {
		t.Errorf("env format = %q, want markdown", cfg.Check.Format)
	}
	if !cfg.Logging.DebugMode {
		t.Error("DOCSTYLE_DEBUG not applied")
	}
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("DOCSTYLE_CONCURRENCY", "not-a-number")
	t.Setenv("DOCSTYLE_DEBUG", "not-a-bool")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Check.Concurrency != 8 {
		t.Errorf("garbage env changed concurrency to %d", cfg.Check.Concurrency)
	}
	if cfg.Logging.DebugMode {
		t.Error("garbage env enabled debug mode")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Check.FailOn = "catastrophic"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad fail_on")
	}

	cfg = DefaultConfig()
	cfg.Check.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad format")
	}

	cfg = DefaultConfig()
	cfg.Check.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero concurrency")
	}
}
