package rules

import (
	"fmt"
	"strings"

	"docstyle/internal/diag"
)

// HeaderRequired flags files that are missing a file header comment.
type HeaderRequired struct{}

func (r *HeaderRequired) ID() string                    { return "header/required" }
func (r *HeaderRequired) Description() string           { return "source files must start with a file header comment" }
func (r *HeaderRequired) DefaultSeverity() diag.Severity { return diag.SeverityError }

func (r *HeaderRequired) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Header.Required {
		return nil
	}
	if ctx.File.HeaderComment() != nil {
		return nil
	}
	return []diag.Diagnostic{diag.New(
		r.ID(), ctx.Severity, ctx.File.Path, 1, 0,
		"file is missing a header comment",
		"missing header",
	)}
}

// HeaderFields flags file headers that lack required fields.
type HeaderFields struct{}

func (r *HeaderFields) ID() string                    { return "header/fields" }
func (r *HeaderFields) Description() string           { return "file headers must contain the configured fields" }
func (r *HeaderFields) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (r *HeaderFields) Check(ctx *Context) []diag.Diagnostic {
	if len(ctx.Guide.Header.Fields) == 0 {
		return nil
	}
	header := ctx.File.HeaderComment()
	if header == nil {
		// header/required owns the missing-header case.
		return nil
	}

	var out []diag.Diagnostic
	for _, field := range ctx.Guide.Header.Fields {
		if strings.Contains(header.Text, field) {
			continue
		}
		out = append(out, diag.New(
			r.ID(), ctx.Severity, ctx.File.Path, header.StartLine, header.Column,
			fmt.Sprintf("file header is missing the %q field", field),
			"header field "+field,
		))
	}
	return out
}
