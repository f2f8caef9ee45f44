package metrics

import (
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/unbound-force/kempt/internal/loader"
)

// Dependencies returns the sorted, de-duplicated module names imported
// by a Python snippet: every name of an import statement and the
// module of every from-import. Relative imports contribute their
// module name without the leading dots, and a bare "from . import x"
// contributes nothing. Empty input has no dependencies; unparseable
// input returns the parse error.
func Dependencies(src string) ([]string, error) {
	m, err := loader.Parse(src)
	if errors.Is(err, loader.ErrEmpty) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analyzing dependencies: %w", err)
	}

	seen := make(map[string]bool)
	deps := []string{}
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}

	loader.Walk(m.Root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.ChildCount()); i++ {
				if n.FieldNameForChild(i) != "name" {
					continue
				}
				c := n.Child(i)
				if c.Type() == "aliased_import" {
					c = c.ChildByFieldName("name")
				}
				if c != nil {
					add(m.Text(c))
				}
			}
			return false

		case "import_from_statement":
			mod := n.ChildByFieldName("module_name")
			switch {
			case mod == nil:
			case mod.Type() == "relative_import":
				for _, c := range loader.NamedChildren(mod) {
					if c.Type() == "dotted_name" {
						add(m.Text(c))
					}
				}
			default:
				add(m.Text(mod))
			}
			return false

		case "future_import_statement":
			add("__future__")
			return false
		}
		return true
	})

	sort.Strings(deps)
	return deps, nil
}
