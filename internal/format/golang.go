package format

import (
	"go/ast"
	"go/printer"

	"github.com/unbound-force/kempt/internal/loader"
	"golang.org/x/tools/imports"
)

// normalizeNumbers is gofmt's private printer mode that lowercases
// number prefixes and exponents.
const normalizeNumbers printer.Mode = 1 << 30

var printerConfig = printer.Config{
	Mode:     printer.UseSpaces | printer.TabIndent | normalizeNumbers,
	Tabwidth: 8,
}

func (f *Formatter) formatGo(src string) (string, error) {
	snip, err := loader.ParseGo(src)
	if err != nil {
		return "", err
	}

	level := f.level()
	if level >= LevelSimplify {
		Simplify(snip.File)
		ast.SortImports(snip.Fset, snip.File)
	}

	out, err := snip.Format(printerConfig)
	if err != nil {
		return "", err
	}

	// A statement list has nowhere to put an import declaration.
	if level >= LevelAggressive && snip.Kind != loader.KindStmts {
		fixed, err := imports.Process(loader.GoFilename, out, &imports.Options{
			Fragment:  true,
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
		if err != nil {
			// Import fixing needs the go command; keep the simplified
			// output when it is unavailable.
			if f.Logger != nil {
				f.Logger.Error("error fixing imports", "err", err)
			}
			return string(out), nil
		}
		out = fixed
	}

	return string(out), nil
}
