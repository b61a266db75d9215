package checker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstyle/internal/baseline"
	"docstyle/internal/config"
	"docstyle/internal/diag"
	"docstyle/internal/guide"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const undocumentedGo = `package widget

func Exported() {}
`

const documentedGo = `package widget

// Exported does the thing.
func Exported() {}
`

func ruleIDs(ds []diag.Diagnostic) []string {
	var ids []string
	for _, d := range ds {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestCheckWorkspaceFindsViolations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widget.go", undocumentedGo)
	writeFile(t, dir, "ok.go", documentedGo)
	writeFile(t, dir, "README.md", "not source\n")

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false

	c := New(cfg, guide.Default(), nil)
	report, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 0, report.ParseFailures)
	assert.Contains(t, ruleIDs(report.Diagnostics), "doc/exported")

	for _, d := range report.Diagnostics {
		assert.NotEqual(t, filepath.Join(dir, "ok.go"), d.Path)
	}
}

func TestCheckWorkspaceSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("vendor", "dep.go"), undocumentedGo)
	writeFile(t, dir, "ok.go", documentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false

	c := New(cfg, guide.Default(), nil)
	report, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Empty(t, report.Diagnostics)
}

func TestCheckPathsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", undocumentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false

	c := New(cfg, guide.Default(), nil)
	report, err := c.CheckPaths(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Contains(t, ruleIDs(report.Diagnostics), "doc/exported")
}

func TestBaselineSuppressesAcceptedViolations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widget.go", undocumentedGo)

	cfg := config.DefaultConfig()
	store, err := baseline.Open(filepath.Join(dir, ".docstyle", "baseline.db"))
	require.NoError(t, err)
	defer store.Close()

	c := New(cfg, guide.Default(), store)

	first, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics)

	_, err = store.Update(first.Diagnostics)
	require.NoError(t, err)

	second, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, second.Diagnostics)
	assert.Equal(t, len(first.Diagnostics), second.Suppressed)
}

func TestResultCacheServesUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widget.go", undocumentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false
	c := New(cfg, guide.Default(), nil)

	first, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics)
	assert.Equal(t, 0, first.Cached)

	second, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Cached)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestResultCacheInvalidatedByEdit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", undocumentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false
	c := New(cfg, guide.Default(), nil)

	first, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics)

	require.NoError(t, os.WriteFile(path, []byte(documentedGo), 0644))

	second, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Cached)
	assert.Empty(t, second.Diagnostics)
}

func TestResultCacheInvalidatedByGuideChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widget.go", undocumentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false

	first, err := New(cfg, guide.Default(), nil).CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics)

	relaxed := guide.Default()
	relaxed.Docs.RequireExported = false

	second, err := New(cfg, relaxed, nil).CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Cached, "a changed guide must not reuse old results")
	assert.Empty(t, second.Diagnostics)
}

func TestSkipTestsLeavesTestFilesUnchecked(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widget.go", documentedGo)
	writeFile(t, dir, "widget_test.go", undocumentedGo)

	cfg := config.DefaultConfig()
	cfg.Check.UseBaseline = false
	cfg.Check.SkipTests = true

	c := New(cfg, guide.Default(), nil)
	report, err := c.CheckWorkspace(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Empty(t, report.Diagnostics)
}

func TestExitCode(t *testing.T) {
	r := &Report{Diagnostics: []diag.Diagnostic{
		{RuleID: "doc/exported", Severity: diag.SeverityWarning},
	}}
	assert.Equal(t, 1, r.ExitCode(diag.SeverityWarning))
	assert.Equal(t, 0, r.ExitCode(diag.SeverityError))
	assert.Equal(t, 0, (&Report{}).ExitCode(diag.SeverityInfo))
}
