// TypeExpr -> semantic Type resolution for the emitter, grounded on
// internal/check/resolve.go's resolveTypeExpr. The emitter needs its
// own copy rather than importing internal/check because ast nodes
// carry no cached Type annotation (spec.md §3 deliberately keeps
// TypeExpr and Type distinct) and internal/check intentionally stays
// a leaf package the emitter depends on only through the checked
// types.Env it produces, not through its unexported resolution logic.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/token"
	"github.com/tml-lang/tmlc/internal/types"
)

var genPrimitiveNames = map[string]types.Primitive{
	"I8": types.I8, "I16": types.I16, "I32": types.I32, "I64": types.I64, "I128": types.I128,
	"U8": types.U8, "U16": types.U16, "U32": types.U32, "U64": types.U64, "U128": types.U128,
	"F32": types.F32, "F64": types.F64,
	"Bool": types.Bool, "Char": types.Char, "Str": types.Str,
	"Unit": types.Unit, "Never": types.Never,
}

// genericBinding substitutes a concrete Type for a generic parameter
// name, populated by the monomorphizer before emitting a function or
// method body (spec.md §4.8 step 5 "install into current_associated_types_").
type genericBinding map[string]*types.Type

func (g *Generator) resolveType(te ast.TypeExpr, gb genericBinding) *types.Type {
	if te == nil {
		return types.PrimitiveType(types.Unit)
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if len(t.ModulePath) == 0 && len(t.Args) == 0 {
			if p, ok := genPrimitiveNames[t.Name]; ok {
				return types.PrimitiveType(p)
			}
			if gb != nil {
				if bound, ok := gb[t.Name]; ok {
					return bound
				}
			}
		}
		args := make([]*types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = g.resolveType(a, gb)
		}
		if _, ok := g.env.Classes[t.Name]; ok {
			return &types.Type{Kind: types.KClass, ModulePath: t.ModulePath, Name: t.Name, Args: args}
		}
		return &types.Type{Kind: types.KNamed, ModulePath: t.ModulePath, Name: t.Name, Args: args}
	case *ast.RefTypeExpr:
		return types.RefType(g.resolveType(t.Elem, gb), t.Mut)
	case *ast.PtrTypeExpr:
		return types.PtrType(g.resolveType(t.Elem, gb), t.Mut)
	case *ast.ArrayTypeExpr:
		return types.ArrayType(g.resolveType(t.Elem, gb), g.constIntExpr(t.Size))
	case *ast.SliceTypeExpr:
		return types.SliceType(g.resolveType(t.Elem, gb))
	case *ast.TupleTypeExpr:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = g.resolveType(e, gb)
		}
		return types.TupleType(elems...)
	case *ast.FuncTypeExpr:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = g.resolveType(p, gb)
		}
		return types.FuncType(params, g.resolveType(t.Ret, gb), true)
	case *ast.DynTypeExpr:
		return types.DynType(g.resolveNamedRefs(t.Behaviors, gb)...)
	case *ast.ImplTypeExpr:
		return types.ImplType(g.resolveNamedRefs(t.Behaviors, gb)...)
	}
	return types.PrimitiveType(types.Unit)
}

func (g *Generator) resolveNamedRefs(bs []*ast.NamedTypeExpr, gb genericBinding) []types.NamedRef {
	out := make([]types.NamedRef, len(bs))
	for i, b := range bs {
		args := make([]*types.Type, len(b.Args))
		for j, a := range b.Args {
			args[j] = g.resolveType(a, gb)
		}
		out[i] = types.NamedRef{ModulePath: b.ModulePath, Name: b.Name, Args: args}
	}
	return out
}

// constIntExpr evaluates the small compile-time-constant grammar legal
// in an array-size position, mirroring internal/check/resolve.go's
// helper of the same name and scope.
func (g *Generator) constIntExpr(e ast.Expr) int64 {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		if v.Kind == ast.LitInt {
			if p, ok := v.Payload.(token.IntPayload); ok {
				return int64(p.Magnitude)
			}
		}
	case *ast.BinaryExpr:
		l, r := g.constIntExpr(v.Left), g.constIntExpr(v.Right)
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

// IsValueClass implements ClassLayout by looking up the class whose
// short name is mangledName's base component (mangled type arguments
// do not change whether a class is sealed+non-virtual).
func (g *Generator) IsValueClass(mangledName string) bool {
	base := mangledName
	for i := 0; i < len(mangledName)-1; i++ {
		if mangledName[i] == '_' && mangledName[i+1] == '_' {
			base = mangledName[:i]
			break
		}
	}
	info := g.env.Classes[base]
	return info != nil && info.IsValueClass
}
