package rules

import (
	"strings"

	"docstyle/internal/diag"
	"docstyle/internal/extract"
)

// suppressMarker is the inline directive that silences diagnostics. A bare
// marker silences every rule; "docstyle:ignore=rule-a,rule-b" silences only
// the named rules.
const suppressMarker = "docstyle:ignore"

// suppression maps a line number to the set of silenced rule IDs. A nil set
// means all rules are silenced on that line.
type suppression map[int]map[string]bool

// applySuppressions removes diagnostics covered by inline ignore directives.
// A directive covers the comment's own lines, the declaration it documents,
// and the line immediately after the comment. Separator checks cannot be
// suppressed: a malformed separator inside an ignore comment is still wrong.
func applySuppressions(f *extract.File, ds []diag.Diagnostic) []diag.Diagnostic {
	sup := collectSuppressions(f)
	if len(sup) == 0 {
		return ds
	}

	out := ds[:0]
	for _, d := range ds {
		if d.RuleID != "separator/format" && sup.covers(d.Line, d.RuleID) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func collectSuppressions(f *extract.File) suppression {
	var sup suppression
	for i := range f.Comments {
		c := &f.Comments[i]
		idx := strings.Index(c.Text, suppressMarker)
		if idx < 0 {
			continue
		}
		if sup == nil {
			sup = make(suppression)
		}

		rules := parseIgnoreRules(c.Text[idx+len(suppressMarker):])

		for line := c.StartLine; line <= c.EndLine; line++ {
			sup.add(line, rules)
		}
		sup.add(c.EndLine+1, rules)
		if c.DeclIndex >= 0 && c.DeclIndex < len(f.Decls) {
			sup.add(f.Decls[c.DeclIndex].Line, rules)
		}
	}
	return sup
}

// parseIgnoreRules reads the optional "=rule-a,rule-b" suffix after the
// marker. An empty result means the directive silences everything.
func parseIgnoreRules(rest string) map[string]bool {
	if !strings.HasPrefix(rest, "=") {
		return nil
	}
	fields := strings.Fields(rest[1:])
	if len(fields) == 0 {
		return nil
	}
	rules := make(map[string]bool)
	for _, id := range strings.Split(fields[0], ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			rules[id] = true
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return rules
}

func (s suppression) add(line int, rules map[string]bool) {
	existing, ok := s[line]
	if ok && existing == nil {
		return // already silencing everything
	}
	if rules == nil {
		s[line] = nil
		return
	}
	if existing == nil && !ok {
		existing = make(map[string]bool)
		s[line] = existing
	}
	for id := range rules {
		existing[id] = true
	}
}

func (s suppression) covers(line int, ruleID string) bool {
	rules, ok := s[line]
	if !ok {
		return false
	}
	return rules == nil || rules[ruleID]
}
