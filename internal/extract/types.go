// Package extract pulls comments and the declarations they document out of
// source files using tree-sitter.
package extract

// Kind distinguishes line comments from block comments.
type Kind string

const (
	KindLine  Kind = "line"
	KindBlock Kind = "block"
)

// Comment is one extracted comment, with adjacent line comments merged into
// a single logical comment.
type Comment struct {
	Kind      Kind
	Raw       string // original text including markers
	Text      string // normalized text, markers and gutters stripped
	StartLine int    // 1-based
	EndLine   int    // 1-based, inclusive
	Column    int    // 0-based column of the first marker
	Header    bool   // file header: sits above the first code in the file
	Separator bool   // section separator, e.g. // ===== HELPERS =====
	DeclIndex int    // index into File.Decls when attached, else -1
	// LineMap holds, per line of Text, the raw-line offset it came from.
	// Normalization drops block openers and blank edges, so Text line i is
	// not in general at file line StartLine+i.
	LineMap []int
}

// LineAt returns the 1-based file line of the i-th line of Text.
func (c *Comment) LineAt(i int) int {
	if i >= 0 && i < len(c.LineMap) {
		return c.StartLine + c.LineMap[i]
	}
	return c.StartLine + i
}

// Decl is a declaration a doc comment can attach to.
type Decl struct {
	Kind        string // function, method, class, struct, interface, enum, field, trait, module, type
	Name        string
	Signature   string
	Visibility  string // public, protected, private
	Params      []string
	HasReturn   bool // true when the result type is known to be non-void
	ReturnKnown bool // false when the language hides the result type
	Line        int  // 1-based line of the declaration
	DocIndex    int  // index into File.Comments when documented, else -1
}

// File is the extraction result for a single source file.
type File struct {
	Path     string
	Language string
	Lines    []string
	Comments []Comment
	Decls    []Decl
}

// Doc returns the doc comment for a declaration, or nil.
func (f *File) Doc(d *Decl) *Comment {
	if d.DocIndex < 0 || d.DocIndex >= len(f.Comments) {
		return nil
	}
	return &f.Comments[d.DocIndex]
}

// HeaderComment returns the file header comment, or nil.
func (f *File) HeaderComment() *Comment {
	for i := range f.Comments {
		if f.Comments[i].Header {
			return &f.Comments[i]
		}
	}
	return nil
}
