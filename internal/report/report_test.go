package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstyle/internal/checker"
	"docstyle/internal/diag"
)

func sampleReport() *checker.Report {
	ds := []diag.Diagnostic{
		diag.New("doc/exported", diag.SeverityWarning, "a.go", 3, 0, "exported function Exported is undocumented", "Exported()"),
		diag.New("tags/param", diag.SeverityError, "B.java", 10, 4, `find is missing @param for "b"`, "find(a, b) @param b"),
	}
	diag.Sort(ds)
	return &checker.Report{
		Files:       2,
		Languages:   map[string]int{"go": 1, "java": 1},
		Diagnostics: ds,
		Suppressed:  1,
		Counts:      diag.Count(ds),
		Duration:    42 * time.Millisecond,
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "markdown"} {
		r, err := ForFormat(f)
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}
	_, err := ForFormat("yaml")
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "B.java")
	assert.Contains(t, out, "10:4:")
	assert.Contains(t, out, "[doc/exported]")
	assert.Contains(t, out, "1 errors")
	assert.Contains(t, out, "1 warnings")
	assert.Contains(t, out, "1 baselined")
}

func TestTextRendererClean(t *testing.T) {
	var buf bytes.Buffer
	r := &checker.Report{Files: 5, Counts: map[diag.Severity]int{}, Duration: time.Millisecond}
	require.NoError(t, (&TextRenderer{}).Render(&buf, r))
	assert.Contains(t, buf.String(), "clean")
	assert.Contains(t, buf.String(), "5 files checked")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 2, decoded["files"])
	assert.EqualValues(t, 1, decoded["suppressed"])

	diags := decoded["diagnostics"].([]interface{})
	require.Len(t, diags, 2)
	first := diags[0].(map[string]interface{})
	assert.Equal(t, "tags/param", first["rule"])
	assert.Equal(t, "error", first["severity"])
	assert.NotEmpty(t, first["fingerprint"])
}

func TestJSONRendererEmptyDiagnosticsIsArray(t *testing.T) {
	var buf bytes.Buffer
	r := &checker.Report{Counts: map[diag.Severity]int{}}
	require.NoError(t, (&JSONRenderer{}).Render(&buf, r))
	assert.Contains(t, buf.String(), `"diagnostics": []`)
}

func TestMarkdownRendererRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownRenderer{Raw: true}).Render(&buf, sampleReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# docstyle report"))
	assert.Contains(t, out, "| B.java:10 | error | tags/param |")
	assert.Contains(t, out, "2 diagnostics")
}

func TestSafeRenderMarkdownFallsBack(t *testing.T) {
	// Whatever glamour does, the content must survive.
	out := safeRenderMarkdown("plain text, no markup")
	assert.Contains(t, out, "plain text")
}
