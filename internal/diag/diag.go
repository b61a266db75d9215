// Package diag defines the diagnostic types produced by style rules.
package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity converts a config string to a Severity.
// Unknown values default to info.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "":
		return SeverityInfo, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity: %q", s)
}

// MarshalJSON renders the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the string form written by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Diagnostic is a single style-guide violation.
type Diagnostic struct {
	RuleID      string   `json:"rule"`
	Severity    Severity `json:"severity"`
	Path        string   `json:"path"`
	Line        int      `json:"line"`
	Column      int      `json:"column,omitempty"`
	Message     string   `json:"message"`
	Fingerprint string   `json:"fingerprint"`
}

// New builds a diagnostic and computes its fingerprint.
// The subject anchors the fingerprint to content rather than position,
// so unrelated edits to the file do not invalidate a baseline entry.
func New(ruleID string, sev Severity, path string, line, col int, msg, subject string) Diagnostic {
	return Diagnostic{
		RuleID:      ruleID,
		Severity:    sev,
		Path:        path,
		Line:        line,
		Column:      col,
		Message:     msg,
		Fingerprint: Fingerprint(ruleID, path, subject),
	}
}

// Fingerprint returns a stable 16-hex-char identity for a violation.
func Fingerprint(ruleID, path, subject string) string {
	h := sha256.Sum256([]byte(ruleID + "|" + path + "|" + subject))
	return hex.EncodeToString(h[:])[:16]
}

// Sort orders diagnostics by path, line, column, then rule ID.
func Sort(ds []Diagnostic) {
	sort.Slice(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.RuleID < b.RuleID
	})
}

// Count tallies diagnostics by severity.
func Count(ds []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, d := range ds {
		counts[d.Severity]++
	}
	return counts
}

// AtOrAbove reports how many diagnostics meet the threshold severity.
func AtOrAbove(ds []Diagnostic, threshold Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity >= threshold {
			n++
		}
	}
	return n
}
