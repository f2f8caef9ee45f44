package metrics

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strconv"

	"github.com/fzipp/gocyclo"
	"github.com/unbound-force/kempt/internal/loader"
)

// GoDependencies returns the sorted, de-duplicated import paths of a
// Go snippet. Empty input has no dependencies. Unparseable input
// returns the parse error.
func GoDependencies(src string) ([]string, error) {
	snip, err := loader.ParseGo(src)
	if errors.Is(err, loader.ErrEmpty) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analyzing dependencies: %w", err)
	}

	seen := make(map[string]bool, len(snip.File.Imports))
	deps := make([]string, 0, len(snip.File.Imports))
	for _, imp := range snip.File.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("import path %s: %w", imp.Path.Value, err)
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		deps = append(deps, path)
	}
	sort.Strings(deps)
	return deps, nil
}

// GoComplexity computes the cyclomatic complexity of every function
// in a Go snippet with gocyclo. The wrapper of a statement list is
// never measured.
func GoComplexity(src string) (ComplexityResult, error) {
	snip, err := loader.ParseGo(src)
	if errors.Is(err, loader.ErrEmpty) {
		return ComplexityResult{}, ErrNoBlocks
	}
	if err != nil {
		return ComplexityResult{}, fmt.Errorf("calculating complexity: %w", err)
	}

	var wrapperPos string
	if w := snip.Wrapper(); w != nil {
		wrapperPos = snip.Fset.Position(w.Pos()).String()
	}

	var stats gocyclo.Stats
	for _, stat := range gocyclo.AnalyzeASTFile(snip.File, snip.Fset, nil) {
		if wrapperPos != "" && stat.Pos.String() == wrapperPos {
			continue
		}
		stats = append(stats, stat)
	}
	if len(stats) == 0 {
		return ComplexityResult{}, ErrNoBlocks
	}

	sorted := stats.SortAndFilter(-1, 0)
	blocks := make([]Block, 0, len(sorted))
	for _, s := range sorted {
		blocks = append(blocks, Block{
			Name:       s.FuncName,
			Line:       s.Pos.Line,
			Complexity: s.Complexity,
		})
	}

	return ComplexityResult{
		Max:     blocks[0].Complexity,
		Average: stats.AverageComplexity(),
		Blocks:  blocks,
	}, nil
}

// GoScan walks a Go snippet once and classifies every identifier as a
// declaration, an assignment target, or a read. Exported names, main
// and init are exempt from unused reporting since other packages or
// the runtime reach them. Empty input yields empty Symbols.
func GoScan(src string) (*Symbols, error) {
	sym := newSymbols()
	sym.Exempt["main"] = true
	sym.Exempt["init"] = true

	snip, err := loader.ParseGo(src)
	if errors.Is(err, loader.ErrEmpty) {
		return sym, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning declarations: %w", err)
	}

	s := &goScanner{snip: snip, sym: sym, skip: make(map[*ast.Ident]bool)}
	ast.Inspect(snip.File, s.visit)
	return sym, nil
}

// goScanner marks identifiers that are not reads before ast.Inspect
// reaches them; parents are always visited before their children.
type goScanner struct {
	snip *loader.Snippet
	sym  *Symbols
	skip map[*ast.Ident]bool
}

func (s *goScanner) declare(id *ast.Ident) {
	s.skip[id] = true
	if ast.IsExported(id.Name) {
		s.sym.Exempt[id.Name] = true
	}
}

func (s *goScanner) visit(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.File:
		s.skip[n.Name] = true

	case *ast.ImportSpec:
		if n.Name != nil {
			s.skip[n.Name] = true
		}

	case *ast.FuncDecl:
		s.declare(n.Name)
		if s.snip.Synthetic(n) {
			break
		}
		if n.Recv != nil {
			s.sym.Methods = append(s.sym.Methods, n.Name.Name)
		} else {
			s.sym.Functions = append(s.sym.Functions, n.Name.Name)
		}

	case *ast.TypeSpec:
		s.declare(n.Name)
		s.sym.Classes = append(s.sym.Classes, n.Name.Name)

	case *ast.GenDecl:
		for _, spec := range n.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, name := range vs.Names {
				s.declare(name)
				if name.Name == "_" {
					continue
				}
				if n.Tok == token.CONST {
					s.sym.Constants = append(s.sym.Constants, name.Name)
					continue
				}
				s.sym.Variables = append(s.sym.Variables, name.Name)
				s.sym.Assignments++
			}
		}

	case *ast.AssignStmt:
		for _, lhs := range n.Lhs {
			id, ok := lhs.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue
			}
			s.sym.Assignments++
			switch n.Tok {
			case token.DEFINE:
				s.skip[id] = true
				s.sym.Variables = append(s.sym.Variables, id.Name)
			case token.ASSIGN:
				s.skip[id] = true
			}
			// Compound assignments read their target.
		}

	case *ast.RangeStmt:
		for _, x := range []ast.Expr{n.Key, n.Value} {
			id, ok := x.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue
			}
			s.sym.Assignments++
			s.skip[id] = true
			if n.Tok == token.DEFINE {
				s.sym.Variables = append(s.sym.Variables, id.Name)
			}
		}

	case *ast.SelectorExpr:
		// x.f names a field, method or qualified identifier, never a
		// local declaration.
		s.skip[n.Sel] = true

	case *ast.Field:
		for _, name := range n.Names {
			s.skip[name] = true
		}

	case *ast.LabeledStmt:
		s.skip[n.Label] = true

	case *ast.BranchStmt:
		if n.Label != nil {
			s.skip[n.Label] = true
		}

	case *ast.Ident:
		if !s.skip[n] && n.Name != "_" {
			s.sym.Reads[n.Name] = true
		}
	}
	return true
}
