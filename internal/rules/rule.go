// Package rules implements the style guide checks that turn extracted
// comments into diagnostics.
package rules

import (
	"docstyle/internal/diag"
	"docstyle/internal/extract"
	"docstyle/internal/guide"
	"docstyle/internal/logging"
)

// Context carries everything a rule needs to check one file.
type Context struct {
	File     *extract.File
	Guide    *guide.Guide
	Severity diag.Severity // resolved severity for the running rule
}

// Rule checks one aspect of the style guide against a file.
type Rule interface {
	ID() string
	Description() string
	DefaultSeverity() diag.Severity
	Check(ctx *Context) []diag.Diagnostic
}

// registry holds all rules in evaluation order.
var registry = []Rule{
	&HeaderRequired{},
	&HeaderFields{},
	&DocExported{},
	&DocFirstWord{},
	&DocLeadingName{},
	&DocPunctuation{},
	&TagsParam{},
	&TagsReturn{},
	&TagsUnknown{},
	&HTMLAllowlist{},
	&SeparatorFormat{},
	&CommentLineLength{},
}

// All returns the registered rules in evaluation order.
func All() []Rule {
	return registry
}

// Run evaluates every enabled rule against a file and returns the surviving
// diagnostics, suppressions applied, sorted by position.
func Run(f *extract.File, g *guide.Guide) []diag.Diagnostic {
	timer := logging.StartTimer(logging.CategoryRules, "Run "+f.Path)
	defer timer.Stop()

	var out []diag.Diagnostic
	for _, r := range registry {
		enabled, sev := g.Resolve(r.ID(), f.Language, r.DefaultSeverity())
		if !enabled {
			continue
		}
		ctx := &Context{File: f, Guide: g, Severity: sev}
		ds := r.Check(ctx)
		if len(ds) > 0 {
			logging.RulesDebug("%s: %d findings in %s", r.ID(), len(ds), f.Path)
		}
		out = append(out, ds...)
	}

	out = applySuppressions(f, out)
	diag.Sort(out)
	return out
}
