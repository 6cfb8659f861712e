package check

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/types"
)

// checkBlock checks every statement of b in its own nested frame and
// returns the type of its tail expression, or Unit if it has none
// (spec.md §4.7 "a block with no tail expression evaluates to Unit").
func (c *Checker) checkBlock(b *ast.BlockExpr, s *scope, gs genericSet) *types.Type {
	s.push()
	defer s.pop()
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt, s, gs)
	}
	if b.Tail != nil {
		return c.checkExpr(b.Tail, s, gs)
	}
	return types.PrimitiveType(types.Unit)
}

func (c *Checker) checkStmt(stmt ast.Stmt, s *scope, gs genericSet) {
	switch t := stmt.(type) {
	case *ast.LetStmt:
		c.checkBinding(t.Pat, t.Type, t.Value, false, s, gs)
	case *ast.VarStmt:
		c.checkBinding(t.Pat, t.Type, t.Value, true, s, gs)
	case *ast.ExprStmt:
		c.checkExpr(t.Value, s, gs)
	case *ast.EmbeddedDeclStmt:
		if fd, ok := t.Decl.(*ast.FuncDecl); ok {
			c.registerFunc(fd, nil)
			c.checkFuncBody(fd, nil, gs)
		}
	}
}

func (c *Checker) checkBinding(pat ast.Pattern, te ast.TypeExpr, value ast.Expr, mut bool, s *scope, gs genericSet) {
	valType := c.checkExpr(value, s, gs)
	declared := valType
	if te != nil {
		declared = c.resolveTypeExpr(te, gs)
		c.expectAssignable(valType, declared, value.Span())
	}
	c.bindPattern(pat, declared, mut, s)
}

// bindPattern introduces every name a pattern binds into s, inferring
// per-component types for compound patterns structurally (spec.md §4.6
// "Pattern matching").
func (c *Checker) bindPattern(pat ast.Pattern, t *types.Type, mut bool, s *scope) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		s.declare(p.Name, t, mut || p.Mut)
	case *ast.WildcardPattern, *ast.LiteralPattern:
		// Binds nothing.
	case *ast.TuplePattern:
		if t != nil && t.Kind == types.KTuple && len(t.Elems) == len(p.Elems) {
			for i, e := range p.Elems {
				c.bindPattern(e, t.Elems[i], mut, s)
			}
			return
		}
		for _, e := range p.Elems {
			c.bindPattern(e, nil, mut, s)
		}
	case *ast.ArrayPattern:
		var elemT *types.Type
		if t != nil && (t.Kind == types.KArray || t.Kind == types.KSlice) {
			elemT = t.Elem
		}
		for _, e := range p.Elems {
			c.bindPattern(e, elemT, mut, s)
		}
		if p.HasRest && p.Rest != "" && p.Rest != "_" {
			s.declare(p.Rest, types.SliceType(elemT), mut)
		}
	case *ast.StructPattern:
		name := structPatternName(p.Type)
		info := c.env.Structs[name]
		for _, f := range p.Fields {
			var ft *types.Type
			if info != nil {
				ft = info.FieldTypes[f.Name]
			}
			if f.Pat != nil {
				c.bindPattern(f.Pat, ft, mut, s)
			} else {
				s.declare(f.Name, ft, mut)
			}
		}
	case *ast.EnumVariantPattern:
		variant := c.lookupVariant(t, p)
		for i, sub := range p.Tuple {
			var ft *types.Type
			if variant != nil && i < len(variant.TupleFields) {
				ft = variant.TupleFields[i]
			}
			c.bindPattern(sub, ft, mut, s)
		}
		for _, f := range p.Struct {
			var ft *types.Type
			if variant != nil {
				ft = variant.StructTypes[f.Name]
			}
			if f.Pat != nil {
				c.bindPattern(f.Pat, ft, mut, s)
			} else {
				s.declare(f.Name, ft, mut)
			}
		}
	case *ast.OrPattern:
		for _, alt := range p.Alts {
			c.bindPattern(alt, t, mut, s)
		}
	}
}

func structPatternName(te ast.TypeExpr) string {
	if nt, ok := te.(*ast.NamedTypeExpr); ok {
		return nt.Name
	}
	return ""
}

func (c *Checker) lookupVariant(scrutinee *types.Type, p *ast.EnumVariantPattern) *types.EnumVariantInfo {
	var enumName string
	if nt, ok := p.Type.(*ast.NamedTypeExpr); ok {
		enumName = nt.Name
	} else if scrutinee != nil {
		enumName = scrutinee.Name
	}
	info, ok := c.env.Enums[enumName]
	if !ok {
		return nil
	}
	for i := range info.Variants {
		if info.Variants[i].Name == p.Variant {
			return &info.Variants[i]
		}
	}
	return nil
}

// expectAssignable records a diagnostic unless got may be assigned
// where want is expected, following the widening/Never-coercion rules
// of spec.md §4.4/§4.7. Grounded on validate.go's lutAssign, which
// allows int:=int and float:=(int|float) but rejects int:=float;
// tmlc additionally allows same-signedness integer widening (narrower
// width into wider) and always allows the Never bottom type through,
// neither of which the teacher's two-type universe needed to express.
func (c *Checker) expectAssignable(got, want *types.Type, span source.Span) bool {
	if got == nil || want == nil {
		return true // one side unresolved; don't cascade diagnostics.
	}
	if got.IsNever() {
		return true
	}
	if got.Kind == types.KGeneric || want.Kind == types.KGeneric {
		// A generic parameter's concrete binding is resolved by the
		// monomorphizer (spec.md §4.4/§4.9), not here; the checker only
		// verifies call-site arity and that concrete-to-concrete
		// assignments are sound.
		return true
	}
	if types.Equal(got, want) {
		return true
	}
	if got.Kind == types.KPrimitive && want.Kind == types.KPrimitive {
		gp, wp := got.Prim, want.Prim
		if gp.IsInteger() && wp.IsInteger() && gp.IsSigned() == wp.IsSigned() && gp.BitWidth() <= wp.BitWidth() {
			return true
		}
		if gp.IsInteger() && wp.IsFloat() {
			return true
		}
		if gp.IsFloat() && wp.IsFloat() && gp.BitWidth() <= wp.BitWidth() {
			return true
		}
	}
	c.diags.Addf(diag.TypeErr, span, "E_CHECK_TYPE_MISMATCH", "expected %s, found %s", want.String(), got.String())
	return false
}
