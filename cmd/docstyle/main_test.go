package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstyle/internal/config"
	"docstyle/internal/guide"
)

// The starter config must round-trip through both loaders.
func TestStarterConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(starterConfig), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Check.FailOn)
	assert.Equal(t, 8, cfg.Check.Concurrency)
	assert.Contains(t, cfg.Check.Exclude, "vendor")

	g, err := guide.Load(path)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, "=", g.Separators.Fill)
	assert.Equal(t, 77, g.Separators.Width)
	assert.True(t, g.Docs.RequireExported)
	assert.Equal(t, []string{"java"}, g.Tags.Languages)
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"check", "rules", "baseline", "watch", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
