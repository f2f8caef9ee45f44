package loader

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
)

// GoFilename is the virtual file name used for Go position information.
const GoFilename = "snippet.go"

// GoMode is the parser mode shared by the Go formatter and analyzers.
const GoMode = parser.ParseComments | parser.SkipObjectResolution

// Kind describes how a Go snippet had to be wrapped to parse.
type Kind int

const (
	// KindFile is a complete source file with a package clause.
	KindFile Kind = iota

	// KindDecls is a list of declarations without a package clause.
	KindDecls

	// KindStmts is a list of statements, wrapped in a function body.
	KindStmts
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDecls:
		return "declarations"
	case KindStmts:
		return "statements"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	declPrefix = "package p;"
	stmtPrefix = "package p; func _() {"
)

// Snippet holds a parsed Go snippet along with its file set.
type Snippet struct {
	// Fset is the file set for position information.
	Fset *token.FileSet

	// File is the parsed syntax tree, including any synthetic wrapping.
	File *ast.File

	// Kind records how the source was wrapped.
	Kind Kind

	// Src is the original, unwrapped source.
	Src []byte
}

// ParseGo parses src as a Go file, declaration list, or statement
// list, in that order. A snippet without a package clause is wrapped
// the same way gofmt accepts partial input. The returned error wraps
// the parser error of the last attempt.
func ParseGo(src string) (*Snippet, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}

	fset := token.NewFileSet()
	b := []byte(src)

	file, err := parser.ParseFile(fset, GoFilename, b, GoMode)
	if err == nil {
		return &Snippet{Fset: fset, File: file, Kind: KindFile, Src: b}, nil
	}
	if !strings.Contains(err.Error(), "expected 'package'") {
		return nil, fmt.Errorf("parsing snippet: %w", err)
	}

	// The ';' keeps line numbers aligned with the original source.
	fset = token.NewFileSet()
	file, err = parser.ParseFile(fset, GoFilename, append([]byte(declPrefix), b...), GoMode)
	if err == nil {
		return &Snippet{Fset: fset, File: file, Kind: KindDecls, Src: b}, nil
	}
	if !strings.Contains(err.Error(), "expected declaration") {
		return nil, fmt.Errorf("parsing snippet: %w", err)
	}

	// The extra newlines flush trailing comments before the '}'.
	fset = token.NewFileSet()
	wrapped := append(append([]byte(stmtPrefix), b...), '\n', '\n', '}')
	file, err = parser.ParseFile(fset, GoFilename, wrapped, GoMode)
	if err != nil {
		return nil, fmt.Errorf("parsing snippet: %w", err)
	}
	return &Snippet{Fset: fset, File: file, Kind: KindStmts, Src: b}, nil
}

// Wrapper returns the synthetic function declaration that holds a
// statement list, or nil for other kinds.
func (s *Snippet) Wrapper() *ast.FuncDecl {
	if s.Kind != KindStmts || len(s.File.Decls) == 0 {
		return nil
	}
	fn, _ := s.File.Decls[len(s.File.Decls)-1].(*ast.FuncDecl)
	return fn
}

// Synthetic reports whether n was introduced by wrapping rather than
// written by the user.
func (s *Snippet) Synthetic(n ast.Node) bool {
	if n == nil {
		return false
	}
	if s.Kind != KindFile && n == ast.Node(s.File.Name) {
		return true
	}
	if w := s.Wrapper(); w != nil {
		return n == ast.Node(w) || n == ast.Node(w.Name)
	}
	return false
}

// Format prints the syntax tree with cfg and strips the synthetic
// wrapping. For partial snippets the leading and trailing whitespace
// of the original source is preserved and the first code line's
// indentation is applied to the result.
func (s *Snippet) Format(cfg printer.Config) ([]byte, error) {
	if s.Kind == KindFile {
		var buf bytes.Buffer
		if err := cfg.Fprint(&buf, s.Fset, s.File); err != nil {
			return nil, fmt.Errorf("printing snippet: %w", err)
		}
		return buf.Bytes(), nil
	}

	src := s.Src

	// Leading space up to and including the last newline.
	i, j := 0, 0
	for j < len(src) && isSpace(src[j]) {
		if src[j] == '\n' {
			i = j + 1
		}
		j++
	}
	res := append([]byte(nil), src[:i]...)

	// Spaces count as one tab only when there are no tabs.
	indent := 0
	hasSpace := false
	for _, b := range src[i:j] {
		switch b {
		case ' ':
			hasSpace = true
		case '\t':
			indent++
		}
	}
	if indent == 0 && hasSpace {
		indent = 1
	}
	for k := 0; k < indent; k++ {
		res = append(res, '\t')
	}

	cfg.Indent = indent
	if s.Kind == KindStmts {
		cfg.Indent--
	}
	var buf bytes.Buffer
	if err := cfg.Fprint(&buf, s.Fset, s.File); err != nil {
		return nil, fmt.Errorf("printing snippet: %w", err)
	}
	out := s.unwrap(buf.Bytes(), cfg.Indent)
	if len(out) == 0 {
		return src, nil
	}
	res = append(res, out...)

	k := len(src)
	for k > 0 && isSpace(src[k-1]) {
		k--
	}
	return append(res, src[k:]...), nil
}

// unwrap removes the synthetic package clause (and function) from
// printed output.
func (s *Snippet) unwrap(out []byte, indent int) []byte {
	switch s.Kind {
	case KindDecls:
		out = out[indent+len("package p\n"):]
	case KindStmts:
		if indent < 0 {
			indent = 0
		}
		// The printer turned "; " into "\n\n" and indented both lines.
		out = out[2*indent+len("package p\n\nfunc _() {"):]
		out = out[:len(out)-len("}\n")]
	}
	return bytes.TrimSpace(out)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
