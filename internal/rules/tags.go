package rules

import (
	"fmt"
	"strings"

	"docstyle/internal/diag"
	"docstyle/internal/extract"
)

// docTag is one parsed documentation tag line, e.g. "@param bin the bin id".
type docTag struct {
	Name string // tag name without the @
	Arg  string // first word after the tag, if any
	Line int    // line within the file
}

// parseTags extracts line-leading documentation tags from a doc comment.
func parseTags(doc *extract.Comment) []docTag {
	var tags []docTag
	for i, line := range strings.Split(doc.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "@") {
			continue
		}
		fields := strings.Fields(trimmed)
		tag := docTag{
			Name: strings.TrimPrefix(fields[0], "@"),
			Line: doc.LineAt(i),
		}
		if len(fields) > 1 {
			tag.Arg = fields[1]
		}
		tags = append(tags, tag)
	}
	return tags
}

// TagsParam checks that @param tags match the declared parameters in name
// and order.
type TagsParam struct{}

func (r *TagsParam) ID() string                     { return "tags/param" }
func (r *TagsParam) Description() string            { return "@param tags match declared parameters in order" }
func (r *TagsParam) DefaultSeverity() diag.Severity { return diag.SeverityError }

func (r *TagsParam) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Tags.RequireParam || !ctx.Guide.TagsApply(ctx.File.Language) {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Decls {
		d := &ctx.File.Decls[i]
		if !isCallable(d.Kind) {
			continue
		}
		doc := ctx.File.Doc(d)
		if doc == nil {
			continue
		}

		var documented []string
		tagLine := make(map[string]int)
		for _, tag := range parseTags(doc) {
			if tag.Name != "param" || tag.Arg == "" {
				continue
			}
			documented = append(documented, tag.Arg)
			tagLine[tag.Arg] = tag.Line
		}

		declared := make(map[string]bool, len(d.Params))
		for _, p := range d.Params {
			declared[p] = true
		}

		for _, p := range d.Params {
			if !contains(documented, p) {
				out = append(out, diag.New(
					r.ID(), ctx.Severity, ctx.File.Path, doc.StartLine, doc.Column,
					fmt.Sprintf("%s is missing @param for %q", d.Name, p),
					d.Signature+" @param "+p,
				))
			}
		}
		for _, p := range documented {
			if !declared[p] {
				out = append(out, diag.New(
					r.ID(), ctx.Severity, ctx.File.Path, tagLine[p], doc.Column,
					fmt.Sprintf("%s documents unknown parameter %q", d.Name, p),
					d.Signature+" @param-unknown "+p,
				))
			}
		}

		// Order check only when the name sets already agree.
		if sameSet(documented, d.Params) && !sameOrder(documented, d.Params) {
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, doc.StartLine, doc.Column,
				fmt.Sprintf("@param tags for %s are out of declaration order", d.Name),
				d.Signature+" @param-order",
			))
		}
	}
	return out
}

// TagsReturn checks @return presence against the declared result type.
type TagsReturn struct{}

func (r *TagsReturn) ID() string                     { return "tags/return" }
func (r *TagsReturn) Description() string            { return "@return is present exactly when a value is returned" }
func (r *TagsReturn) DefaultSeverity() diag.Severity { return diag.SeverityError }

func (r *TagsReturn) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Tags.RequireReturn || !ctx.Guide.TagsApply(ctx.File.Language) {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Decls {
		d := &ctx.File.Decls[i]
		if !isCallable(d.Kind) || !d.ReturnKnown {
			continue
		}
		doc := ctx.File.Doc(d)
		if doc == nil {
			continue
		}

		hasTag := false
		for _, tag := range parseTags(doc) {
			if tag.Name == "return" || tag.Name == "returns" {
				hasTag = true
				break
			}
		}

		switch {
		case d.HasReturn && !hasTag:
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, doc.StartLine, doc.Column,
				fmt.Sprintf("%s returns a value but has no @return tag", d.Name),
				d.Signature+" @return-missing",
			))
		case !d.HasReturn && hasTag:
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, doc.StartLine, doc.Column,
				fmt.Sprintf("%s returns nothing but documents @return", d.Name),
				d.Signature+" @return-extra",
			))
		}
	}
	return out
}

// TagsUnknown flags documentation tags outside the allowed set.
type TagsUnknown struct{}

func (r *TagsUnknown) ID() string                     { return "tags/unknown" }
func (r *TagsUnknown) Description() string            { return "only recognized documentation tags are used" }
func (r *TagsUnknown) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (r *TagsUnknown) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.TagsApply(ctx.File.Language) {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Comments {
		c := &ctx.File.Comments[i]
		if c.DeclIndex < 0 && !c.Header {
			continue
		}
		for _, tag := range parseTags(c) {
			if ctx.Guide.TagAllowed(tag.Name) {
				continue
			}
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, tag.Line, c.Column,
				fmt.Sprintf("unknown documentation tag @%s", tag.Name),
				"@"+tag.Name+" "+tag.Arg,
			))
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !contains(b, v) {
			return false
		}
	}
	return true
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
