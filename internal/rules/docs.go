package rules

import (
	"fmt"
	"strings"

	"docstyle/internal/diag"
	"docstyle/internal/extract"
	"docstyle/internal/scan"
)

// DocExported flags public declarations without a doc comment.
type DocExported struct{}

func (r *DocExported) ID() string                     { return "doc/exported" }
func (r *DocExported) Description() string            { return "public declarations must have a doc comment" }
func (r *DocExported) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (r *DocExported) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Docs.RequireExported {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Decls {
		d := &ctx.File.Decls[i]
		if d.Visibility != "public" || d.DocIndex >= 0 {
			continue
		}
		out = append(out, diag.New(
			r.ID(), ctx.Severity, ctx.File.Path, d.Line, 0,
			fmt.Sprintf("exported %s %s is undocumented", d.Kind, d.Name),
			d.Signature,
		))
	}
	return out
}

// DocFirstWord flags doc summaries whose verb is imperative instead of
// third-person present tense ("Return the widget" instead of "Returns ...").
type DocFirstWord struct{}

func (r *DocFirstWord) ID() string                     { return "doc/first-word" }
func (r *DocFirstWord) Description() string            { return "doc summaries use third-person present tense" }
func (r *DocFirstWord) DefaultSeverity() diag.Severity { return diag.SeverityInfo }

// imperativeVerbs are the bare-infinitive forms most often found at the start
// of a doc summary that should be third-person instead.
var imperativeVerbs = map[string]bool{
	"add": true, "apply": true, "build": true, "calculate": true,
	"check": true, "close": true, "compute": true, "convert": true,
	"create": true, "delete": true, "determine": true, "execute": true,
	"fetch": true, "find": true, "generate": true, "get": true,
	"handle": true, "initialize": true, "load": true, "make": true,
	"open": true, "parse": true, "perform": true, "process": true,
	"read": true, "register": true, "remove": true, "retrieve": true,
	"return": true, "save": true, "send": true, "set": true,
	"start": true, "stop": true, "update": true, "validate": true,
	"write": true,
}

func (r *DocFirstWord) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Docs.ThirdPerson {
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

		verb, ok := summaryVerb(ctx.File.Language, d, doc)
		if !ok {
			continue
		}
		lower := strings.ToLower(verb)
		if !imperativeVerbs[lower] {
			continue
		}
		out = append(out, diag.New(
			r.ID(), ctx.Severity, ctx.File.Path, doc.LineAt(0), doc.Column,
			fmt.Sprintf("doc summary for %s starts with %q; use third-person %q", d.Name, verb, thirdPerson(verb)),
			d.Signature+" first-word",
		))
	}
	return out
}

// summaryVerb returns the word that carries the summary's verb. In Go the
// summary starts with the symbol name, so the verb is the second word.
func summaryVerb(language string, d *extract.Decl, doc *extract.Comment) (string, bool) {
	words := strings.Fields(extract.FirstSentence(doc.Text))
	if len(words) == 0 {
		return "", false
	}
	if language == scan.LangGo && words[0] == d.Name {
		if len(words) < 2 {
			return "", false
		}
		return words[1], true
	}
	return words[0], true
}

// thirdPerson converts a bare-infinitive verb to third-person singular,
// preserving the original capitalization of the first letter.
func thirdPerson(verb string) string {
	lower := strings.ToLower(verb)
	var conjugated string
	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		conjugated = lower[:len(lower)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		conjugated = lower + "es"
	default:
		conjugated = lower + "s"
	}
	if verb[0] >= 'A' && verb[0] <= 'Z' {
		return strings.ToUpper(conjugated[:1]) + conjugated[1:]
	}
	return conjugated
}

// DocLeadingName flags Go doc comments that do not begin with the symbol name.
type DocLeadingName struct{}

func (r *DocLeadingName) ID() string                     { return "doc/leading-name" }
func (r *DocLeadingName) Description() string            { return "Go doc comments begin with the symbol name" }
func (r *DocLeadingName) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (r *DocLeadingName) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Docs.LeadingName || ctx.File.Language != scan.LangGo {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Decls {
		d := &ctx.File.Decls[i]
		doc := ctx.File.Doc(d)
		if doc == nil {
			continue
		}
		words := strings.Fields(extract.FirstSentence(doc.Text))
		if len(words) == 0 {
			continue
		}
		first := words[0]
		// "A Widget ..." and "The Widget ..." are accepted openings for types.
		if (first == "A" || first == "An" || first == "The") && len(words) > 1 {
			first = words[1]
		}
		if first == d.Name {
			continue
		}
		out = append(out, diag.New(
			r.ID(), ctx.Severity, ctx.File.Path, doc.LineAt(0), doc.Column,
			fmt.Sprintf("doc comment for %s should begin with %q", d.Name, d.Name),
			d.Signature+" leading-name",
		))
	}
	return out
}

// DocPunctuation flags doc summaries that do not end with terminal punctuation.
type DocPunctuation struct{}

func (r *DocPunctuation) ID() string                     { return "doc/punctuation" }
func (r *DocPunctuation) Description() string            { return "doc summaries end with terminal punctuation" }
func (r *DocPunctuation) DefaultSeverity() diag.Severity { return diag.SeverityInfo }

func (r *DocPunctuation) Check(ctx *Context) []diag.Diagnostic {
	if !ctx.Guide.Docs.EndPunctuation {
		return nil
	}

	var out []diag.Diagnostic
	for i := range ctx.File.Decls {
		d := &ctx.File.Decls[i]
		doc := ctx.File.Doc(d)
		if doc == nil {
			continue
		}
		summary := strings.TrimSpace(extract.FirstSentence(doc.Text))
		if summary == "" {
			continue
		}
		last := summary[len(summary)-1]
		if strings.ContainsRune(".!?:", rune(last)) {
			continue
		}
		out = append(out, diag.New(
			r.ID(), ctx.Severity, ctx.File.Path, doc.LineAt(0), doc.Column,
			fmt.Sprintf("doc summary for %s does not end with punctuation", d.Name),
			d.Signature+" punctuation",
		))
	}
	return out
}

// isCallable reports whether the declaration kind takes parameters.
func isCallable(kind string) bool {
	switch kind {
	case "function", "method", "constructor":
		return true
	}
	return false
}
