package check

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/token"
	"github.com/tml-lang/tmlc/internal/types"
)

var primitiveNames = map[string]types.Primitive{
	"I8": types.I8, "I16": types.I16, "I32": types.I32, "I64": types.I64, "I128": types.I128,
	"U8": types.U8, "U16": types.U16, "U32": types.U32, "U64": types.U64, "U128": types.U128,
	"F32": types.F32, "F64": types.F64,
	"Bool": types.Bool, "Char": types.Char, "Str": types.Str,
	"Unit": types.Unit, "Never": types.Never,
}

// genericSet tracks the names bound by the innermost generic scope
// (function/struct/class/impl/behavior generics in play while
// resolving a TypeExpr).
type genericSet map[string]bool

// resolveTypeExpr turns parser-level syntax into the semantic Type the
// rest of the checker operates on (spec.md §3's distinction between
// TypeExpr, written, and Type, resolved). Unknown named types resolve
// to a KNamed placeholder rather than failing outright so the caller
// can decide whether the name is forward-declared or genuinely absent.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, generics genericSet) *types.Type {
	if te == nil {
		return types.PrimitiveType(types.Unit)
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if len(t.ModulePath) == 0 && len(t.Args) == 0 {
			if p, ok := primitiveNames[t.Name]; ok {
				return types.PrimitiveType(p)
			}
			if generics[t.Name] {
				return types.GenericParamType(t.Name)
			}
		}
		args := make([]*types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.resolveTypeExpr(a, generics)
		}
		if _, ok := c.env.Classes[t.Name]; ok {
			return &types.Type{Kind: types.KClass, ModulePath: t.ModulePath, Name: t.Name, Args: args}
		}
		return &types.Type{Kind: types.KNamed, ModulePath: t.ModulePath, Name: t.Name, Args: args}
	case *ast.RefTypeExpr:
		return types.RefType(c.resolveTypeExpr(t.Elem, generics), t.Mut)
	case *ast.PtrTypeExpr:
		return types.PtrType(c.resolveTypeExpr(t.Elem, generics), t.Mut)
	case *ast.ArrayTypeExpr:
		n := c.constIntExpr(t.Size)
		return types.ArrayType(c.resolveTypeExpr(t.Elem, generics), n)
	case *ast.SliceTypeExpr:
		return types.SliceType(c.resolveTypeExpr(t.Elem, generics))
	case *ast.TupleTypeExpr:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = c.resolveTypeExpr(e, generics)
		}
		return types.TupleType(elems...)
	case *ast.FuncTypeExpr:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveTypeExpr(p, generics)
		}
		return types.FuncType(params, c.resolveTypeExpr(t.Ret, generics), true)
	case *ast.DynTypeExpr:
		return types.DynType(namedRefs(t.Behaviors, c, generics)...)
	case *ast.ImplTypeExpr:
		return types.ImplType(namedRefs(t.Behaviors, c, generics)...)
	}
	return types.PrimitiveType(types.Unit)
}

func namedRefs(bs []*ast.NamedTypeExpr, c *Checker, generics genericSet) []types.NamedRef {
	out := make([]types.NamedRef, len(bs))
	for i, b := range bs {
		args := make([]*types.Type, len(b.Args))
		for j, a := range b.Args {
			args[j] = c.resolveTypeExpr(a, generics)
		}
		out[i] = types.NamedRef{ModulePath: b.ModulePath, Name: b.Name, Args: args}
	}
	return out
}

// constIntExpr evaluates the small constant-expression grammar legal
// in an array-size position: integer literals and +/-/*  over them.
// Anything else resolves to 0 and is left for a later constant-folding
// pass the way spec.md §4.9 describes for comptime-const evaluation in
// general; array sizes are the one place the checker itself needs a
// concrete value today (to build types.Type.Size).
func (c *Checker) constIntExpr(e ast.Expr) int64 {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		if v.Kind == ast.LitInt {
			if p, ok := v.Payload.(token.IntPayload); ok {
				return int64(p.Magnitude)
			}
		}
	case *ast.BinaryExpr:
		l, r := c.constIntExpr(v.Left), c.constIntExpr(v.Right)
		switch v.Op {
		case "+":
			return l + r
		case "-":
			return l - r
		case "*":
			return l * r
		}
	}
	return 0
}

func genericSetFromParams(gs []ast.GenericParam) genericSet {
	s := make(genericSet, len(gs))
	for _, g := range gs {
		s[g.Name] = true
	}
	return s
}
