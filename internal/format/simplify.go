package format

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// Simplify applies gofmt -s rewrites to the tree in place:
//
//	[]T{T{}, T{}}            => []T{{}, {}}
//	[]*T{&T{}}               => []*T{{}}
//	map[K]V{K{}: V{}}        => map[K]V{{}: {}}
//	s[a:len(s)]              => s[a:]
//	for x, _ = range v {...} => for x = range v {...}
//	for _ = range v {...}    => for range v {...}
//
// It reports the number of rewrites made.
func Simplify(f *ast.File) int {
	n := 0
	astutil.Apply(f, nil, func(c *astutil.Cursor) bool {
		switch node := c.Node().(type) {
		case *ast.CompositeLit:
			n += simplifyCompositeLit(node)
		case *ast.SliceExpr:
			if simplifySlice(node) {
				n++
			}
		case *ast.RangeStmt:
			n += simplifyRange(node)
		}
		return true
	})
	return n
}

func simplifyCompositeLit(lit *ast.CompositeLit) int {
	var keyType, eltType ast.Expr
	switch typ := lit.Type.(type) {
	case *ast.ArrayType:
		eltType = typ.Elt
	case *ast.MapType:
		keyType = typ.Key
		eltType = typ.Value
	default:
		return 0
	}

	n := 0
	for i, x := range lit.Elts {
		if kv, ok := x.(*ast.KeyValueExpr); ok {
			if keyType != nil {
				kv.Key, n = elide(kv.Key, keyType, n)
			}
			kv.Value, n = elide(kv.Value, eltType, n)
			continue
		}
		lit.Elts[i], n = elide(x, eltType, n)
	}
	return n
}

// elide drops the type of x when it repeats typ, including the &T{}
// form for pointer element types.
func elide(x, typ ast.Expr, n int) (ast.Expr, int) {
	if inner, ok := x.(*ast.CompositeLit); ok {
		if inner.Type != nil && sameExpr(inner.Type, typ) {
			inner.Type = nil
			return inner, n + 1
		}
		return x, n
	}
	star, ok := typ.(*ast.StarExpr)
	if !ok {
		return x, n
	}
	addr, ok := x.(*ast.UnaryExpr)
	if !ok || addr.Op != token.AND {
		return x, n
	}
	inner, ok := addr.X.(*ast.CompositeLit)
	if !ok || inner.Type == nil || !sameExpr(inner.Type, star.X) {
		return x, n
	}
	inner.Type = nil
	return inner, n + 1
}

func simplifySlice(s *ast.SliceExpr) bool {
	// Three-index slices always need both indices.
	if s.Max != nil || s.Slice3 {
		return false
	}
	id, ok := s.X.(*ast.Ident)
	if !ok {
		return false
	}
	call, ok := s.High.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return false
	}
	fun, ok := call.Fun.(*ast.Ident)
	if !ok || fun.Name != "len" {
		return false
	}
	arg, ok := call.Args[0].(*ast.Ident)
	if !ok || arg.Name != id.Name {
		return false
	}
	s.High = nil
	return true
}

func simplifyRange(r *ast.RangeStmt) int {
	n := 0
	if isBlank(r.Value) {
		r.Value = nil
		n++
	}
	if isBlank(r.Key) && r.Value == nil {
		r.Key = nil
		n++
	}
	return n
}

func isBlank(x ast.Expr) bool {
	id, ok := x.(*ast.Ident)
	return ok && id.Name == "_"
}

func sameExpr(a, b ast.Expr) bool {
	return types.ExprString(a) == types.ExprString(b)
}
