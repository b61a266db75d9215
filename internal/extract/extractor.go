package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"docstyle/internal/logging"
	"docstyle/internal/scan"
)

// langSpec describes how to read one language's syntax tree.
type langSpec struct {
	language     *sitter.Language
	commentTypes map[string]bool
	// declKinds maps tree-sitter node types to declaration kinds.
	declKinds map[string]string
}

var specs = map[string]langSpec{
	scan.LangGo: {
		language:     golang.GetLanguage(),
		commentTypes: map[string]bool{"comment": true},
		declKinds: map[string]string{
			"function_declaration": "function",
			"method_declaration":   "method",
		},
	},
	scan.LangJava: {
		language:     java.GetLanguage(),
		commentTypes: map[string]bool{"line_comment": true, "block_comment": true},
		declKinds: map[string]string{
			"class_declaration":       "class",
			"interface_declaration":   "interface",
			"enum_declaration":        "enum",
			"method_declaration":      "method",
			"constructor_declaration": "constructor",
			"field_declaration":       "field",
		},
	},
	scan.LangJavaScript: {
		language:     javascript.GetLanguage(),
		commentTypes: map[string]bool{"comment": true},
		declKinds: map[string]string{
			"function_declaration": "function",
			"class_declaration":    "class",
			"method_definition":    "method",
		},
	},
	scan.LangTypeScript: {
		language:     typescript.GetLanguage(),
		commentTypes: map[string]bool{"comment": true},
		declKinds: map[string]string{
			"function_declaration":  "function",
			"class_declaration":     "class",
			"method_definition":     "method",
			"interface_declaration": "interface",
			"enum_declaration":      "enum",
		},
	},
	scan.LangPython: {
		language:     python.GetLanguage(),
		commentTypes: map[string]bool{"comment": true},
		declKinds: map[string]string{
			"function_definition": "function",
			"class_definition":    "class",
		},
	},
	scan.LangRust: {
		language:     rust.GetLanguage(),
		commentTypes: map[string]bool{"line_comment": true, "block_comment": true},
		declKinds: map[string]string{
			"function_item": "function",
			"struct_item":   "struct",
			"enum_item":     "enum",
			"trait_item":    "trait",
			"mod_item":      "module",
		},
	},
}

// Extractor parses source files and extracts comments and declarations.
// It is not safe for concurrent use; create one per worker.
type Extractor struct {
	parsers map[string]*sitter.Parser
}

// NewExtractor creates an extractor with one parser per supported language.
func NewExtractor() *Extractor {
	parsers := make(map[string]*sitter.Parser, len(specs))
	for lang, spec := range specs {
		p := sitter.NewParser()
		p.SetLanguage(spec.language)
		parsers[lang] = p
	}
	return &Extractor{parsers: parsers}
}

// Close releases the tree-sitter parsers.
func (e *Extractor) Close() {
	for _, p := range e.parsers {
		p.Close()
	}
}

// Supported reports whether the language has an extraction spec.
func Supported(language string) bool {
	_, ok := specs[language]
	return ok
}

// Extract parses content and returns the file's comments and declarations.
func (e *Extractor) Extract(ctx context.Context, path, language string, content []byte) (*File, error) {
	start := time.Now()
	spec, ok := specs[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	parser := e.parsers[language]
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		logging.Get(logging.CategoryExtract).Error("parse failed: %s - %v", path, err)
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	f := &File{
		Path:     path,
		Language: language,
		Lines:    strings.Split(string(content), "\n"),
	}

	root := tree.RootNode()
	raw := collectComments(root, spec, content)
	f.Comments = mergeLineComments(raw)
	f.Decls = e.collectDecls(root, spec, language, content)

	attach(f)
	if language == scan.LangPython {
		attachDocstrings(f, root, content)
	}
	markHeader(f, firstCodeLine(root, spec))

	logging.ExtractDebug("extracted %s: %d comments, %d decls in %v",
		filepath.Base(path), len(f.Comments), len(f.Decls), time.Since(start))
	return f, nil
}

// collectComments walks the tree and returns every comment node in order.
func collectComments(root *sitter.Node, spec langSpec, content []byte) []Comment {
	var comments []Comment

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if spec.commentTypes[n.Type()] {
			raw := n.Content(content)
			kind := KindBlock
			if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "#") {
				kind = KindLine
			}
			text, lineMap := normalizeMapped(raw)
			comments = append(comments, Comment{
				Kind:      kind,
				Raw:       raw,
				Text:      text,
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				Column:    int(n.StartPoint().Column),
				Separator: isSeparatorText(text),
				DeclIndex: -1,
				LineMap:   lineMap,
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return comments
}

// mergeLineComments joins runs of adjacent line comments at the same column
// into one logical comment, the way a multi-line doc comment is written.
func mergeLineComments(comments []Comment) []Comment {
	var merged []Comment
	for _, c := range comments {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.Kind == KindLine && c.Kind == KindLine &&
				c.StartLine == last.EndLine+1 && c.Column == last.Column &&
				!last.Separator && !c.Separator {
				last.Raw += "\n" + c.Raw
				last.Text, last.LineMap = normalizeMapped(last.Raw)
				last.EndLine = c.EndLine
				continue
			}
		}
		merged = append(merged, c)
	}
	return merged
}

// collectDecls walks the tree and extracts documentable declarations.
func (e *Extractor) collectDecls(root *sitter.Node, spec langSpec, language string, content []byte) []Decl {
	var decls []Decl
	getText := func(n *sitter.Node) string { return n.Content(content) }

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		nodeType := n.Type()

		if language == scan.LangGo && nodeType == "type_declaration" {
			// Go type declarations wrap one or more type_specs.
			for i := 0; i < int(n.NamedChildCount()); i++ {
				ts := n.NamedChild(i)
				if ts.Type() != "type_spec" {
					continue
				}
				nameNode := ts.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := getText(nameNode)
				kind := "type"
				if typeNode := ts.ChildByFieldName("type"); typeNode != nil {
					switch typeNode.Type() {
					case "struct_type":
						kind = "struct"
					case "interface_type":
						kind = "interface"
					}
				}
				decls = append(decls, Decl{
					Kind:        kind,
					Name:        name,
					Signature:   fmt.Sprintf("type %s", name),
					Visibility:  goVisibility(name),
					Line:        int(n.StartPoint().Row) + 1,
					ReturnKnown: true,
					DocIndex:    -1,
				})
			}
		} else if kind, ok := spec.declKinds[nodeType]; ok {
			if d, ok := buildDecl(n, kind, language, content); ok {
				decls = append(decls, d)
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return decls
}

// buildDecl extracts name, signature, visibility and parameters for one node.
func buildDecl(n *sitter.Node, kind, language string, content []byte) (Decl, bool) {
	getText := func(node *sitter.Node) string { return node.Content(content) }

	nameNode := n.ChildByFieldName("name")
	if nameNode == nil && kind == "field" {
		// Java fields name their variable_declarator, not the declaration.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "variable_declarator" {
				nameNode = child.ChildByFieldName("name")
				break
			}
		}
	}
	if nameNode == nil {
		return Decl{}, false
	}
	name := getText(nameNode)

	d := Decl{
		Kind:     kind,
		Name:     name,
		Line:     int(n.StartPoint().Row) + 1,
		DocIndex: -1,
	}

	signature := fmt.Sprintf("%s %s", kind, name)
	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		signature += getText(paramsNode)
		d.Params = paramNames(paramsNode, content)
	}
	d.Signature = signature

	switch language {
	case scan.LangGo:
		d.Visibility = goVisibility(name)
		d.ReturnKnown = true
		d.HasReturn = n.ChildByFieldName("result") != nil
	case scan.LangJava:
		d.Visibility = javaVisibility(n, content)
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			d.ReturnKnown = true
			d.HasReturn = getText(typeNode) != "void"
		}
	case scan.LangPython:
		d.Visibility = pythonVisibility(name)
	case scan.LangRust:
		d.Visibility = rustVisibility(n, content)
		d.ReturnKnown = true
		d.HasReturn = n.ChildByFieldName("return_type") != nil
	case scan.LangJavaScript, scan.LangTypeScript:
		d.Visibility = exportVisibility(n)
	}

	return d, true
}

// paramNames pulls the declared parameter names out of a parameter list node.
func paramNames(paramsNode *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		p := paramsNode.NamedChild(i)
		var name string
		if nameNode := p.ChildByFieldName("name"); nameNode != nil {
			name = nameNode.Content(content)
		} else if p.Type() == "identifier" {
			name = p.Content(content)
		} else if patNode := p.ChildByFieldName("pattern"); patNode != nil {
			name = patNode.Content(content)
		}
		if name == "" || name == "self" || name == "cls" || name == "this" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func goVisibility(name string) string {
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return "public"
	}
	return "private"
}

func javaVisibility(n *sitter.Node, content []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		mods := child.Content(content)
		switch {
		case strings.Contains(mods, "public"):
			return "public"
		case strings.Contains(mods, "protected"):
			return "protected"
		case strings.Contains(mods, "private"):
			return "private"
		}
	}
	// Package-private: not part of the public surface.
	return "private"
}

func pythonVisibility(name string) string {
	if strings.HasPrefix(name, "__") {
		return "private"
	}
	if strings.HasPrefix(name, "_") {
		return "protected"
	}
	return "public"
}

func rustVisibility(n *sitter.Node, content []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "visibility_modifier" && strings.HasPrefix(child.Content(content), "pub") {
			return "public"
		}
	}
	return "private"
}

func exportVisibility(n *sitter.Node) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "export_statement" {
			return "public"
		}
		if p.Type() == "program" {
			break
		}
	}
	// Class methods are reachable through the class.
	if n.Type() == "method_definition" {
		return "public"
	}
	return "private"
}

// attach links each doc comment to the declaration directly below it.
func attach(f *File) {
	byLine := make(map[int]int, len(f.Comments))
	for i, c := range f.Comments {
		if !c.Separator {
			byLine[c.EndLine] = i
		}
	}

	for i := range f.Decls {
		d := &f.Decls[i]
		ci, ok := byLine[d.Line-1]
		if !ok {
			continue
		}
		if f.Comments[ci].DeclIndex >= 0 {
			continue // already claimed by an earlier declaration
		}
		d.DocIndex = ci
		f.Comments[ci].DeclIndex = i
	}
}

// attachDocstrings links Python declarations to the docstring opening their
// body. A docstring is the canonical doc form in Python, so a declaration
// that has one is documented even without a # comment above it.
func attachDocstrings(f *File, root *sitter.Node, content []byte) {
	declAt := make(map[int]int, len(f.Decls))
	for i, d := range f.Decls {
		if d.DocIndex < 0 {
			declAt[d.Line] = i
		}
	}

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		t := n.Type()
		if t == "function_definition" || t == "class_definition" {
			if di, ok := declAt[int(n.StartPoint().Row)+1]; ok {
				if str := docstringNode(n); str != nil {
					text, lineMap := docstringText(str.Content(content))
					f.Comments = append(f.Comments, Comment{
						Kind:      KindBlock,
						Raw:       str.Content(content),
						Text:      text,
						StartLine: int(str.StartPoint().Row) + 1,
						EndLine:   int(str.EndPoint().Row) + 1,
						Column:    int(str.StartPoint().Column),
						DeclIndex: di,
						LineMap:   lineMap,
					})
					f.Decls[di].DocIndex = len(f.Comments) - 1
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}

// docstringNode returns the string opening a definition's body, or nil.
func docstringNode(def *sitter.Node) *sitter.Node {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return nil
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return nil
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return nil
	}
	return str
}

// docstringText strips the quotes from a docstring and trims each line,
// returning the text and the raw-line offset of each kept line.
func docstringText(raw string) (string, []int) {
	s := raw
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			s = s[len(q) : len(s)-len(q)]
			break
		}
	}

	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	offsets := make([]int, 0, len(lines))
	for i, line := range lines {
		kept = append(kept, strings.TrimSpace(line))
		offsets = append(offsets, i)
	}
	start, end := 0, len(kept)
	for start < end && kept[start] == "" {
		start++
	}
	for end > start && kept[end-1] == "" {
		end--
	}
	return strings.Join(kept[start:end], "\n"), offsets[start:end]
}

// firstCodeLine returns the 1-based line of the first non-comment syntax in
// the file, or 0 when the file holds no code.
func firstCodeLine(root *sitter.Node, spec langSpec) int {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if spec.commentTypes[child.Type()] {
			continue
		}
		return int(child.StartPoint().Row) + 1
	}
	return 0
}

// markHeader flags unattached comments that sit above the first code line.
func markHeader(f *File, firstCode int) {
	for i := range f.Comments {
		c := &f.Comments[i]
		if c.DeclIndex >= 0 || c.Separator {
			continue
		}
		if firstCode == 0 || c.EndLine < firstCode {
			c.Header = true
			return // only the first qualifying comment is the header
		}
		return
	}
}
