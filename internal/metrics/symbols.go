package metrics

import (
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/unbound-force/kempt/internal/loader"
)

// Symbols is the result of a single declaration/usage traversal.
type Symbols struct {
	// Functions are function names outside class bodies.
	Functions []string

	// Methods are function names declared in a class body or with a
	// receiver. They are counted but never reported unused, since
	// attribute access and interfaces reach them by name.
	Methods []string

	// Classes are class names, or type names for Go.
	Classes []string

	// Variables are names bound by assignment, loops, with/as and
	// walrus targets (Python) or by var, := and range (Go).
	Variables []string

	// Constants are names declared with const. Always empty for Python.
	Constants []string

	// Reads is the set of identifiers that appear in a read position.
	// Declaration sites, plain assignment targets and attribute names
	// are not reads.
	Reads map[string]bool

	// Exempt names are never reported unused.
	Exempt map[string]bool

	// Assignments counts variable store targets, excluding the blank
	// identifier "_".
	Assignments int
}

func newSymbols() *Symbols {
	return &Symbols{
		Reads:  make(map[string]bool),
		Exempt: make(map[string]bool),
	}
}

// UnusedNames lists declared names that are never read.
type UnusedNames struct {
	Variables []string `json:"variables"`
	Functions []string `json:"functions"`
	Classes   []string `json:"classes"`
	Constants []string `json:"constants"`
}

// Empty reports whether nothing unused was found.
func (u UnusedNames) Empty() bool {
	return len(u.Functions) == 0 && len(u.Classes) == 0 &&
		len(u.Variables) == 0 && len(u.Constants) == 0
}

// DetailedReport counts declarations in a snippet.
type DetailedReport struct {
	// Classes is the number of class (or Go type) declarations.
	Classes int `json:"classes"`

	// Functions is the number of function and method declarations.
	Functions int `json:"functions"`

	// Variables is the number of variable store targets.
	Variables int `json:"variables"`
}

// Unused returns declared names that are never read. Methods and
// exempt names are never reported.
func Unused(sym *Symbols) UnusedNames {
	return UnusedNames{
		Variables: unread(sym.Variables, sym),
		Functions: unread(sym.Functions, sym),
		Classes:   unread(sym.Classes, sym),
		Constants: unread(sym.Constants, sym),
	}
}

// Report counts the declarations found by a scan.
func Report(sym *Symbols) DetailedReport {
	return DetailedReport{
		Classes:   len(sym.Classes),
		Functions: len(sym.Functions) + len(sym.Methods),
		Variables: sym.Assignments,
	}
}

func unread(names []string, sym *Symbols) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, name := range names {
		if sym.Reads[name] || sym.Exempt[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Scan walks a Python snippet once and classifies every identifier as
// a declaration, a store, or a read. Empty input yields empty Symbols.
func Scan(src string) (*Symbols, error) {
	sym := newSymbols()

	m, err := loader.Parse(src)
	if errors.Is(err, loader.ErrEmpty) {
		return sym, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning declarations: %w", err)
	}

	s := &pyScanner{m: m, sym: sym}
	s.walk(m.Root, false)
	return sym, nil
}

type pyScanner struct {
	m   *loader.Module
	sym *Symbols
}

// walk visits n. inClass is set for the statements of a class body,
// where function definitions are methods.
func (s *pyScanner) walk(n *sitter.Node, inClass bool) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "identifier":
		if name := s.m.Text(n); name != "_" {
			s.sym.Reads[name] = true
		}

	case "function_definition":
		name := s.m.Text(n.ChildByFieldName("name"))
		if inClass {
			s.sym.Methods = append(s.sym.Methods, name)
		} else {
			s.sym.Functions = append(s.sym.Functions, name)
		}
		s.params(n.ChildByFieldName("parameters"))
		s.walk(n.ChildByFieldName("return_type"), false)
		s.walk(n.ChildByFieldName("body"), false)

	case "class_definition":
		s.sym.Classes = append(s.sym.Classes, s.m.Text(n.ChildByFieldName("name")))
		s.walk(n.ChildByFieldName("superclasses"), false)
		s.walk(n.ChildByFieldName("body"), true)

	case "lambda":
		s.params(n.ChildByFieldName("parameters"))
		s.walk(n.ChildByFieldName("body"), false)

	case "block", "decorated_definition":
		for _, c := range loader.NamedChildren(n) {
			s.walk(c, inClass)
		}

	case "assignment", "for_statement", "for_in_clause":
		s.split(n, "left")

	case "augmented_assignment":
		// x += 1 both stores and reads x.
		s.split(n, "left")
		s.walk(n.ChildByFieldName("left"), false)

	case "named_expression":
		s.split(n, "name")

	case "attribute":
		s.walk(n.ChildByFieldName("object"), false)

	case "keyword_argument":
		s.walk(n.ChildByFieldName("value"), false)

	case "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		// Bindings of modules and scopes, not reads.

	case "delete_statement":
		for _, c := range loader.NamedChildren(n) {
			s.forget(c)
		}

	default:
		// Anything after an "as" keyword (with, except, case) is bound.
		afterAs := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if !c.IsNamed() {
				afterAs = c.Type() == "as"
				continue
			}
			if afterAs {
				s.store(c)
			} else {
				s.walk(c, false)
			}
			afterAs = false
		}
	}
}

// split stores the children in field and walks the others.
func (s *pyScanner) split(n *sitter.Node, field string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() {
			continue
		}
		if n.FieldNameForChild(i) == field {
			s.store(c)
		} else {
			s.walk(c, false)
		}
	}
}

// store records the names bound by an assignment target. Attribute and
// subscript targets bind nothing and read their operands.
func (s *pyScanner) store(n *sitter.Node) {
	switch n.Type() {
	case "identifier":
		name := s.m.Text(n)
		if name == "_" {
			return
		}
		s.sym.Variables = append(s.sym.Variables, name)
		s.sym.Assignments++
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list",
		"expression_list", "parenthesized_expression", "as_pattern_target",
		"list_splat_pattern", "list_splat":
		for _, c := range loader.NamedChildren(n) {
			s.store(c)
		}
	default:
		s.walk(n, false)
	}
}

// params walks parameter defaults and annotations; parameter names
// are neither variables nor reads.
func (s *pyScanner) params(n *sitter.Node) {
	for _, c := range loader.NamedChildren(n) {
		switch c.Type() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern",
			"keyword_separator", "positional_separator", "tuple_pattern":
		case "default_parameter":
			s.walk(c.ChildByFieldName("value"), false)
		case "typed_parameter":
			s.walk(c.ChildByFieldName("type"), false)
		case "typed_default_parameter":
			s.walk(c.ChildByFieldName("type"), false)
			s.walk(c.ChildByFieldName("value"), false)
		default:
			s.walk(c, false)
		}
	}
}

// forget handles del targets: plain names are neither stored nor read.
func (s *pyScanner) forget(n *sitter.Node) {
	switch n.Type() {
	case "identifier":
	case "expression_list":
		for _, c := range loader.NamedChildren(n) {
			s.forget(c)
		}
	default:
		s.walk(n, false)
	}
}
