// Package loader parses source snippets into syntax trees for
// formatting and static analysis.
//
// Python snippets, the default, are parsed with the tree-sitter Python
// grammar. Go snippets use go/parser and may be complete files,
// declaration lists, or statement lists (see ParseGo).
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrEmpty is returned when the snippet contains no code at all.
var ErrEmpty = errors.New("snippet is empty")

// ErrSyntax is wrapped by Parse when the tree contains error nodes.
var ErrSyntax = errors.New("syntax errors found in source code")

// Language is a snippet language.
type Language string

// Supported languages.
const (
	Python Language = "python"
	Go     Language = "go"
)

// DefaultLanguage is used when none is configured.
const DefaultLanguage = Python

// ParseLanguage returns the language named s, ignoring case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, nil
	case "go", "golang":
		return Go, nil
	}
	return "", fmt.Errorf("unknown language %q (want python or go)", s)
}

// Module is a parsed Python snippet.
type Module struct {
	// Tree owns the syntax tree.
	Tree *sitter.Tree

	// Root is the module node.
	Root *sitter.Node

	// Src is the parsed source.
	Src []byte
}

// Parse parses src as a Python module. Whitespace-only input returns
// ErrEmpty; input with syntax errors returns an error wrapping
// ErrSyntax that names the first offending line.
func Parse(src string) (*Module, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	b := []byte(src)
	tree, err := parser.ParseCtx(context.Background(), nil, b)
	if err != nil {
		return nil, fmt.Errorf("parsing snippet: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parsing snippet: %w at line %d", ErrSyntax, firstErrorLine(root))
	}
	return &Module{Tree: tree, Root: root, Src: b}, nil
}

// Text returns the source text of n.
func (m *Module) Text(n *sitter.Node) string {
	return n.Content(m.Src)
}

// Line returns the 1-based line n starts on.
func Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// Walk calls fn for n and each descendant in source order. The
// children of a node are skipped when fn returns false.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}

// NamedChildren returns the named children of n.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func firstErrorLine(root *sitter.Node) int {
	line := Line(root)
	found := false
	Walk(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line = Line(n)
			found = true
			return false
		}
		return n.HasError()
	})
	return line
}
