package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstyle/internal/diag"
	"docstyle/internal/extract"
	"docstyle/internal/guide"
	"docstyle/internal/scan"
)

// javaMethod builds a file with one documented method, ready for tag rules.
func javaMethod(docText string, params []string, hasReturn bool) *extract.File {
	return &extract.File{
		Path:     "Widget.java",
		Language: scan.LangJava,
		Lines:    []string{"/**", " * doc", " */", "public int find(int a, int b) {"},
		Comments: []extract.Comment{{
			Kind: extract.KindBlock, Text: docText,
			StartLine: 1, EndLine: 3, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "method", Name: "find", Signature: "find(a, b)",
			Visibility: "public", Params: params,
			HasReturn: hasReturn, ReturnKnown: true,
			Line: 4, DocIndex: 0,
		}},
	}
}

func findRule(t *testing.T, ds []diag.Diagnostic, ruleID string) []diag.Diagnostic {
	t.Helper()
	var out []diag.Diagnostic
	for _, d := range ds {
		if d.RuleID == ruleID {
			out = append(out, d)
		}
	}
	return out
}

func TestHeaderRequired(t *testing.T) {
	g := guide.Default()
	g.Header.Required = true

	f := &extract.File{Path: "a.go", Language: scan.LangGo, Lines: []string{"package a"}}
	ds := Run(f, g)
	require.Len(t, findRule(t, ds, "header/required"), 1)
	assert.Equal(t, 1, ds[0].Line)

	f.Comments = []extract.Comment{{Text: "Copyright 2026", StartLine: 1, EndLine: 1, Header: true, DeclIndex: -1}}
	assert.Empty(t, findRule(t, Run(f, g), "header/required"))
}

func TestHeaderFields(t *testing.T) {
	g := guide.Default()
	g.Header.Required = true
	g.Header.Fields = []string{"@file", "Copyright"}

	f := &extract.File{
		Path: "a.java", Language: scan.LangJava,
		Lines: []string{"/* Copyright 2026 */", "class A {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindBlock, Text: "Copyright 2026",
			StartLine: 1, EndLine: 1, Header: true, DeclIndex: -1,
		}},
	}
	ds := findRule(t, Run(f, g), "header/fields")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "@file")
}

func TestDocExported(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "func Exported() {}", "func hidden() {}"},
		Decls: []extract.Decl{
			{Kind: "function", Name: "Exported", Signature: "Exported()", Visibility: "public", Line: 2, DocIndex: -1},
			{Kind: "function", Name: "hidden", Signature: "hidden()", Visibility: "private", Line: 3, DocIndex: -1},
		},
	}
	ds := findRule(t, Run(f, g), "doc/exported")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "Exported")
}

func TestDocFirstWordImperative(t *testing.T) {
	g := guide.Default()
	f := javaMethod("Return the widget.\n@param a the a\n@param b the b\n@return the widget", []string{"a", "b"}, true)
	ds := findRule(t, Run(f, g), "doc/first-word")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, `"Returns"`)

	f = javaMethod("Returns the widget.\n@param a the a\n@param b the b\n@return the widget", []string{"a", "b"}, true)
	assert.Empty(t, findRule(t, Run(f, g), "doc/first-word"))
}

func TestDocFirstWordSkipsGoLeadingName(t *testing.T) {
	// In Go the summary opens with the symbol name; the verb is word two.
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "// Find return the widget.", "func Find() {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "Find return the widget.",
			StartLine: 2, EndLine: 2, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Find", Signature: "Find()",
			Visibility: "public", Line: 3, DocIndex: 0,
		}},
	}
	ds := findRule(t, Run(f, g), "doc/first-word")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, `"returns"`)
}

func TestThirdPerson(t *testing.T) {
	cases := map[string]string{
		"Return": "Returns",
		"apply":  "applies",
		"Fetch":  "Fetches",
		"push":   "pushes",
		"fix":    "fixes",
	}
	for in, want := range cases {
		assert.Equal(t, want, thirdPerson(in), in)
	}
}

func TestDocLeadingName(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "// Does things.", "func Find() {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "Does things.",
			StartLine: 2, EndLine: 2, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Find", Signature: "Find()",
			Visibility: "public", Line: 3, DocIndex: 0,
		}},
	}
	require.Len(t, findRule(t, Run(f, g), "doc/leading-name"), 1)

	f.Comments[0].Text = "Find does things."
	assert.Empty(t, findRule(t, Run(f, g), "doc/leading-name"))

	// Article openings are accepted for types.
	f.Comments[0].Text = "A Find is a thing."
	assert.Empty(t, findRule(t, Run(f, g), "doc/leading-name"))
}

func TestDocPunctuation(t *testing.T) {
	g := guide.Default()
	f := javaMethod("Returns the widget\n@param a a\n@param b b\n@return it", []string{"a", "b"}, true)
	require.Len(t, findRule(t, Run(f, g), "doc/punctuation"), 1)

	f = javaMethod("Returns the widget.\n@param a a\n@param b b\n@return it", []string{"a", "b"}, true)
	assert.Empty(t, findRule(t, Run(f, g), "doc/punctuation"))
}

func TestTagsParam(t *testing.T) {
	g := guide.Default()

	// Missing @param b.
	f := javaMethod("Returns it.\n@param a the a\n@return it", []string{"a", "b"}, true)
	ds := findRule(t, Run(f, g), "tags/param")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, `"b"`)

	// Unknown parameter c.
	f = javaMethod("Returns it.\n@param a a\n@param b b\n@param c c\n@return it", []string{"a", "b"}, true)
	ds = findRule(t, Run(f, g), "tags/param")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, `"c"`)

	// Out of order.
	f = javaMethod("Returns it.\n@param b b\n@param a a\n@return it", []string{"a", "b"}, true)
	ds = findRule(t, Run(f, g), "tags/param")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "order")
}

func TestTagsParamSkipsNonTagLanguages(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "// Find finds.", "func Find(a int) {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "Find finds.",
			StartLine: 2, EndLine: 2, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Find", Signature: "Find(a)",
			Visibility: "public", Params: []string{"a"}, Line: 3, DocIndex: 0,
		}},
	}
	assert.Empty(t, findRule(t, Run(f, g), "tags/param"))
}

func TestTagsReturn(t *testing.T) {
	g := guide.Default()

	f := javaMethod("Returns it.\n@param a a\n@param b b", []string{"a", "b"}, true)
	ds := findRule(t, Run(f, g), "tags/return")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "no @return")

	f = javaMethod("Does it.\n@param a a\n@param b b\n@return nothing", []string{"a", "b"}, false)
	ds = findRule(t, Run(f, g), "tags/return")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "returns nothing")
}

func TestTagsUnknown(t *testing.T) {
	g := guide.Default()
	f := javaMethod("Returns it.\n@param a a\n@param b b\n@return it\n@magic word", []string{"a", "b"}, true)
	ds := findRule(t, Run(f, g), "tags/unknown")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "@magic")
}

// extractJava runs real extraction so line numbers come from the parser, not
// hand-built fixtures.
func extractJava(t *testing.T, src string) *extract.File {
	t.Helper()
	e := extract.NewExtractor()
	defer e.Close()

	f, err := e.Extract(context.Background(), "Bin.java", scan.LangJava, []byte(src))
	require.NoError(t, err)
	return f
}

func TestTagDiagnosticPointsAtTagLine(t *testing.T) {
	// The /** opener is dropped during normalization; the diagnostic must
	// still land on the file line carrying the tag.
	src := `public class Bin {
    /**
     * Returns the count.
     *
     * @param bin the bin identifier
     * @magic not a real tag
     * @return the count
     */
    public int count(String bin) { return 0; }
}
`
	f := extractJava(t, src)
	ds := findRule(t, Run(f, guide.Default()), "tags/unknown")
	require.Len(t, ds, 1)
	assert.Equal(t, 6, ds[0].Line, "@magic sits on file line 6")
}

func TestUnknownParamDiagnosticPointsAtTagLine(t *testing.T) {
	src := `public class Bin {
    /**
     * Returns the count.
     *
     * @param bin the bin identifier
     * @param ghost not declared
     * @return the count
     */
    public int count(String bin) { return 0; }
}
`
	f := extractJava(t, src)
	ds := findRule(t, Run(f, guide.Default()), "tags/param")
	require.Len(t, ds, 1)
	assert.Equal(t, 6, ds[0].Line, "@param ghost sits on file line 6")
}

func TestHTMLDiagnosticPointsAtMarkupLine(t *testing.T) {
	src := `public class Bin {
    /**
     * Returns the count.
     *
     * Wraps the result in a <blink>box</blink>.
     *
     * @param bin the bin identifier
     * @return the count
     */
    public int count(String bin) { return 0; }
}
`
	f := extractJava(t, src)
	ds := findRule(t, Run(f, guide.Default()), "html/allowlist")
	require.Len(t, ds, 1)
	assert.Equal(t, 5, ds[0].Line, "<blink> sits on file line 5")
}

func TestHTMLAllowlist(t *testing.T) {
	g := guide.Default()
	f := javaMethod("Returns a <blink>List<String></blink> of widgets.\n@param a a\n@param b b\n@return it", []string{"a", "b"}, true)
	ds := findRule(t, Run(f, g), "html/allowlist")
	require.Len(t, ds, 1, "generics must not count as markup, and repeats dedupe")
	assert.Contains(t, ds[0].Message, "<blink>")
}

func TestSeparatorFormat(t *testing.T) {
	g := guide.Default()
	g.Separators.Width = 20

	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"// ----- HELPERS -----", "package a"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "----- HELPERS -----",
			StartLine: 1, EndLine: 1, Separator: true, DeclIndex: -1,
		}},
	}
	ds := findRule(t, Run(f, g), "separator/format")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, `"="`)

	// Right fill, wrong width.
	f.Lines[0] = "// ===== HELPERS ====="
	f.Comments[0].Text = "===== HELPERS ====="
	ds = findRule(t, Run(f, g), "separator/format")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "want 20")

	// Exactly 20 wide.
	f.Lines[0] = "// ==== HELPERS ===="
	f.Comments[0].Text = "==== HELPERS ===="
	assert.Empty(t, findRule(t, Run(f, g), "separator/format"))
}

func TestCommentLineLength(t *testing.T) {
	g := guide.Default()
	g.Limits.MaxLineLength = 30

	long := "// this comment line runs well past the configured limit"
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{long, "package a"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: long[3:],
			StartLine: 1, EndLine: 1, Header: true, DeclIndex: -1,
		}},
	}
	ds := findRule(t, Run(f, g), "comment/line-length")
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "limit is 30")
}

func TestSuppressAll(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "// docstyle:ignore", "func Exported() {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "docstyle:ignore",
			StartLine: 2, EndLine: 2, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Exported", Signature: "Exported()",
			Visibility: "public", Line: 3, DocIndex: 0,
		}},
	}
	assert.Empty(t, findRule(t, Run(f, g), "doc/leading-name"))
	assert.Empty(t, findRule(t, Run(f, g), "doc/punctuation"))
}

func TestSuppressNamedRule(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "// does stuff docstyle:ignore=doc/leading-name", "func Exported() {}"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "does stuff docstyle:ignore=doc/leading-name",
			StartLine: 2, EndLine: 2, DeclIndex: 0,
		}},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Exported", Signature: "Exported()",
			Visibility: "public", Line: 3, DocIndex: 0,
		}},
	}
	ds := Run(f, g)
	assert.Empty(t, findRule(t, ds, "doc/leading-name"))
	// Other rules on the same lines are untouched.
	require.Len(t, findRule(t, ds, "doc/punctuation"), 1)
}

func TestSuppressNeverSilencesSeparators(t *testing.T) {
	g := guide.Default()
	g.Separators.Width = 0
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"// ----- X ----- docstyle:ignore", "package a"},
		Comments: []extract.Comment{{
			Kind: extract.KindLine, Text: "----- X ----- docstyle:ignore",
			StartLine: 1, EndLine: 1, Separator: true, DeclIndex: -1,
		}},
	}
	require.Len(t, findRule(t, Run(f, g), "separator/format"), 1)
}

func TestGuideDisablesRule(t *testing.T) {
	g := guide.Default()
	off := false
	g.Rules = map[string]guide.RuleSetting{
		"doc/exported": {Enabled: &off},
	}
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "func Exported() {}"},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Exported", Signature: "Exported()",
			Visibility: "public", Line: 2, DocIndex: -1,
		}},
	}
	assert.Empty(t, Run(f, g))
}

func TestLanguageOverrideSeverity(t *testing.T) {
	g := guide.Default()
	g.Languages = map[string]guide.LangOverride{
		scan.LangGo: {Rules: map[string]guide.RuleSetting{
			"doc/exported": {Severity: "error"},
		}},
	}
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "func Exported() {}"},
		Decls: []extract.Decl{{
			Kind: "function", Name: "Exported", Signature: "Exported()",
			Visibility: "public", Line: 2, DocIndex: -1,
		}},
	}
	ds := findRule(t, Run(f, g), "doc/exported")
	require.Len(t, ds, 1)
	assert.Equal(t, diag.SeverityError, ds[0].Severity)
}

func TestRunSortsByPosition(t *testing.T) {
	g := guide.Default()
	f := &extract.File{
		Path: "a.go", Language: scan.LangGo,
		Lines: []string{"package a", "func B() {}", "func A() {}"},
		Decls: []extract.Decl{
			{Kind: "function", Name: "A", Signature: "A()", Visibility: "public", Line: 3, DocIndex: -1},
			{Kind: "function", Name: "B", Signature: "B()", Visibility: "public", Line: 2, DocIndex: -1},
		},
	}
	ds := Run(f, g)
	require.Len(t, ds, 2)
	assert.Less(t, ds[0].Line, ds[1].Line)
}
