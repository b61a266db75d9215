// Package report renders check results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"docstyle/internal/checker"
	"docstyle/internal/diag"
	"docstyle/internal/logging"
)

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, r *checker.Report) error
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "text":
		return &TextRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown":
		return &MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format: %q", format)
}

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#eab308"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
	pathStyle    = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return errorStyle.Render("error")
	case diag.SeverityWarning:
		return warningStyle.Render("warning")
	default:
		return infoStyle.Render("info")
	}
}

// TextRenderer prints a human-readable report grouped by file.
type TextRenderer struct{}

func (t *TextRenderer) Render(w io.Writer, r *checker.Report) error {
	timer := logging.StartTimer(logging.CategoryReport, "TextRender")
	defer timer.Stop()

	byPath := make(map[string][]diag.Diagnostic)
	var paths []string
	for _, d := range r.Diagnostics {
		if _, ok := byPath[d.Path]; !ok {
			paths = append(paths, d.Path)
		}
		byPath[d.Path] = append(byPath[d.Path], d)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fmt.Fprintln(w, pathStyle.Render(path))
		for _, d := range byPath[path] {
			loc := fmt.Sprintf("%d", d.Line)
			if d.Column > 0 {
				loc = fmt.Sprintf("%d:%d", d.Line, d.Column)
			}
			fmt.Fprintf(w, "  %s %s  %s %s\n",
				mutedStyle.Render(loc+":"), severityLabel(d.Severity),
				d.Message, ruleStyle.Render("["+d.RuleID+"]"))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, summaryLine(r))
	return nil
}

func summaryLine(r *checker.Report) string {
	if len(r.Diagnostics) == 0 {
		line := okStyle.Render("✓ clean") + mutedStyle.Render(
			fmt.Sprintf("  %d files checked in %s", r.Files, r.Duration.Round(1e6)))
		if r.Suppressed > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d baselined)", r.Suppressed))
		}
		if r.Cached > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d cached)", r.Cached))
		}
		return line
	}

	parts := []string{}
	if n := r.Counts[diag.SeverityError]; n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := r.Counts[diag.SeverityWarning]; n > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := r.Counts[diag.SeverityInfo]; n > 0 {
		parts = append(parts, infoStyle.Render(fmt.Sprintf("%d notes", n)))
	}

	line := strings.Join(parts, ", ") + mutedStyle.Render(
		fmt.Sprintf("  in %d files (%s)", r.Files, r.Duration.Round(1e6)))
	if r.Suppressed > 0 {
		line += mutedStyle.Render(fmt.Sprintf(", %d baselined", r.Suppressed))
	}
	if r.Cached > 0 {
		line += mutedStyle.Render(fmt.Sprintf(", %d cached", r.Cached))
	}
	if r.ParseFailures > 0 {
		line += warningStyle.Render(fmt.Sprintf(", %d files could not be parsed", r.ParseFailures))
	}
	return line
}

// JSONRenderer emits the report as a single JSON document.
type JSONRenderer struct{}

// jsonReport is the stable machine-readable shape; severities render as names.
type jsonReport struct {
	Files         int               `json:"files"`
	Skipped       int               `json:"skipped"`
	ParseFailures int               `json:"parse_failures"`
	Languages     map[string]int    `json:"languages,omitempty"`
	Diagnostics   []diag.Diagnostic `json:"diagnostics"`
	Suppressed    int               `json:"suppressed"`
	Cached        int               `json:"cached"`
	Counts        map[string]int    `json:"counts"`
	DurationMS    int64             `json:"duration_ms"`
}

func (j *JSONRenderer) Render(w io.Writer, r *checker.Report) error {
	counts := make(map[string]int, len(r.Counts))
	for sev, n := range r.Counts {
		counts[sev.String()] = n
	}
	out := jsonReport{
		Files:         r.Files,
		Skipped:       r.Skipped,
		ParseFailures: r.ParseFailures,
		Languages:     r.Languages,
		Diagnostics:   r.Diagnostics,
		Suppressed:    r.Suppressed,
		Cached:        r.Cached,
		Counts:        counts,
		DurationMS:    r.Duration.Milliseconds(),
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []diag.Diagnostic{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// MarkdownRenderer emits a markdown report, rendered for the terminal when
// possible and as raw markdown when the renderer cannot be built.
type MarkdownRenderer struct {
	// Raw skips terminal rendering, e.g. when writing to a file.
	Raw bool
}

func (m *MarkdownRenderer) Render(w io.Writer, r *checker.Report) error {
	md := buildMarkdown(r)
	if m.Raw {
		_, err := io.WriteString(w, md)
		return err
	}
	_, err := io.WriteString(w, safeRenderMarkdown(md))
	return err
}

func buildMarkdown(r *checker.Report) string {
	var sb strings.Builder
	sb.WriteString("# docstyle report\n\n")
	fmt.Fprintf(&sb, "%d files checked, %d diagnostics", r.Files, len(r.Diagnostics))
	if r.Suppressed > 0 {
		fmt.Fprintf(&sb, " (%d baselined)", r.Suppressed)
	}
	sb.WriteString("\n")

	if len(r.Diagnostics) == 0 {
		return sb.String()
	}

	sb.WriteString("\n| Location | Severity | Rule | Message |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "| %s:%d | %s | %s | %s |\n",
			d.Path, d.Line, d.Severity, d.RuleID,
			strings.ReplaceAll(d.Message, "|", "\\|"))
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can panic
// on malformed input, in which case the raw markdown is returned.
func safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
