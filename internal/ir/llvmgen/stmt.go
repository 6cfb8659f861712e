// Statement emission: let/var bindings, expression statements, and
// embedded declarations, spec.md §4.7. Grounded on
// src/ir/llvm/transform.go's genStatement, which walks a block's
// statement list emitting each in turn and threading the builder's
// current insertion point; tmlc's emitBlockStmts keeps that same
// single-pass shape but additionally tracks a per-scope drop list
// (spec.md §4.7 "move/drop semantics") the teacher has no equivalent
// of, since its language has no ownership model.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// emitBlockStmts runs every statement of b in order, then evaluates
// and returns its tail expression (or a nil Value/Unit type if b has
// none), popping the scope's drop list on the way out.
func (g *Generator) emitBlockStmts(b *ast.BlockExpr) (llvm.Value, *types.Type) {
	g.dropScopes = append(g.dropScopes, dropScope{})
	defer g.popDropScope()

	for _, s := range b.Stmts {
		if g.blockTerminated {
			break // Invariant B: emission silently discarded after a terminator.
		}
		g.emitStmt(s)
	}
	if g.blockTerminated || b.Tail == nil {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	return g.genExpr(b.Tail)
}

func (g *Generator) popDropScope() {
	if len(g.dropScopes) == 0 {
		return
	}
	scope := g.dropScopes[len(g.dropScopes)-1]
	g.dropScopes = g.dropScopes[:len(g.dropScopes)-1]
	for _, name := range scope.names {
		g.consumed[name] = true
	}
}

func (g *Generator) emitStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		g.emitBinding(st.Pat, st.Type, st.Value, false)
	case *ast.VarStmt:
		g.emitBinding(st.Pat, st.Type, st.Value, true)
	case *ast.ExprStmt:
		g.genExpr(st.Value)
	case *ast.EmbeddedDeclStmt:
		g.emitEmbeddedDecl(st.Decl)
	}
}

// emitBinding implements let/var: evaluate Value, alloca a slot sized
// for its (possibly annotated) type, store the value, and register the
// name both as a local and in the innermost scope's drop list.
func (g *Generator) emitBinding(pat ast.Pattern, te ast.TypeExpr, value ast.Expr, mut bool) {
	val, valType := g.genExpr(value)
	declType := valType
	if te != nil {
		declType = g.resolveType(te, nil)
	}
	name, ok := simpleIdentName(pat)
	if !ok {
		g.bindPattern(pat, val, declType)
		return
	}
	lt := g.llvmType(declType, true)
	slot := g.builder.CreateAlloca(lt, name)
	g.builder.CreateStore(val, slot)
	g.locals[name] = localSlot{Val: slot, Type: declType, IsAlloc: true}
	if len(g.dropScopes) > 0 {
		top := &g.dropScopes[len(g.dropScopes)-1]
		top.names = append(top.names, name)
	}
}

func simpleIdentName(pat ast.Pattern) (string, bool) {
	if p, ok := pat.(*ast.IdentPattern); ok {
		return p.Name, true
	}
	return "", false
}

// bindPattern destructures a non-trivial let/var pattern (tuple or
// struct) against an already-evaluated aggregate value,
// binding each captured name as its own local.
func (g *Generator) bindPattern(pat ast.Pattern, val llvm.Value, valType *types.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return
	case *ast.TuplePattern:
		for i, sub := range p.Elems {
			var elemType *types.Type
			if valType != nil && i < len(valType.Elems) {
				elemType = valType.Elems[i]
			}
			elem := g.builder.CreateExtractValue(val, i, "")
			g.bindOrAlloc(sub, elem, elemType)
		}
	case *ast.StructPattern:
		info := g.env.Structs[typeExprBaseName(p.Type)]
		for _, f := range p.Fields {
			idx := fieldIndex(info, f.Name)
			if idx < 0 {
				continue
			}
			var ft *types.Type
			if info != nil {
				ft = info.FieldTypes[f.Name]
			}
			elem := g.builder.CreateExtractValue(val, idx, "")
			sub := f.Pat
			if sub == nil {
				sub = &ast.IdentPattern{Name: f.Name}
			}
			g.bindOrAlloc(sub, elem, ft)
		}
	default:
		// Other pattern shapes (array, enum-variant, or) bind nothing
		// further here; when-expression arm matching (match.go) handles
		// the full pattern grammar for match scrutiny instead.
	}
}

func (g *Generator) bindOrAlloc(pat ast.Pattern, val llvm.Value, t *types.Type) {
	name, ok := simpleIdentName(pat)
	if !ok {
		g.bindPattern(pat, val, t)
		return
	}
	lt := g.llvmType(t, true)
	slot := g.builder.CreateAlloca(lt, name)
	g.builder.CreateStore(val, slot)
	g.locals[name] = localSlot{Val: slot, Type: t, IsAlloc: true}
}

func fieldIndex(info *types.StructInfo, name string) int {
	if info == nil {
		return -1
	}
	for i, n := range info.FieldOrder {
		if n == name {
			return i
		}
	}
	return -1
}

// emitEmbeddedDecl lowers a Decl nested inside a block's statement
// list (spec.md §3 "EmbeddedDeclStmt"): only nested func declarations
// are meaningful at block scope, and they are hoisted to a module-
// level function the same as a top-level one (TML closures capture
// explicitly; a nested `func` does not).
func (g *Generator) emitEmbeddedDecl(d ast.Decl) {
	if fn, ok := d.(*ast.FuncDecl); ok {
		g.declareFunc(fn)
	}
}
