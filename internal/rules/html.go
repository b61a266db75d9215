package rules

import (
	"fmt"
	"regexp"
	"strings"

	"docstyle/internal/diag"
)

// HTMLAllowlist flags HTML tags in doc comments that are outside the allowed
// set. Only all-lowercase tag names are considered so that generics such as
// List<String> are not mistaken for markup.
type HTMLAllowlist struct{}

func (r *HTMLAllowlist) ID() string                     { return "html/allowlist" }
func (r *HTMLAllowlist) Description() string            { return "doc comments use only allowed HTML tags" }
func (r *HTMLAllowlist) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

var htmlTagRe = regexp.MustCompile(`</?([a-z][a-z0-9]*)(?:\s[^>]*)?/?>`)

func (r *HTMLAllowlist) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range ctx.File.Comments {
		c := &ctx.File.Comments[i]
		if c.DeclIndex < 0 && !c.Header {
			continue
		}
		seen := make(map[string]bool)
		for lineOffset, line := range strings.Split(c.Text, "\n") {
			for _, m := range htmlTagRe.FindAllStringSubmatch(line, -1) {
				tag := m[1]
				if ctx.Guide.HTMLAllowed(tag) || seen[tag] {
					continue
				}
				seen[tag] = true
				out = append(out, diag.New(
					r.ID(), ctx.Severity, ctx.File.Path, c.LineAt(lineOffset), c.Column,
					fmt.Sprintf("HTML tag <%s> is not allowed in doc comments", tag),
					"html <"+tag+">",
				))
			}
		}
	}
	return out
}
