package rules

import (
	"fmt"

	"docstyle/internal/diag"
)

// CommentLineLength flags comment lines longer than the configured limit.
type CommentLineLength struct{}

func (r *CommentLineLength) ID() string                     { return "comment/line-length" }
func (r *CommentLineLength) Description() string            { return "comment lines stay within the length limit" }
func (r *CommentLineLength) DefaultSeverity() diag.Severity { return diag.SeverityInfo }

func (r *CommentLineLength) Check(ctx *Context) []diag.Diagnostic {
	limit := ctx.Guide.Limits.MaxLineLength
	if limit <= 0 {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Comments {
		c := &ctx.File.Comments[i]
		for line := c.StartLine; line <= c.EndLine && line <= len(ctx.File.Lines); line++ {
			width := len([]rune(ctx.File.Lines[line-1]))
			if width <= limit {
				continue
			}
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, line, 0,
				fmt.Sprintf("comment line is %d characters, limit is %d", width, limit),
				fmt.Sprintf("line-length %s", ctx.File.Lines[line-1]),
			))
		}
	}
	return out
}
