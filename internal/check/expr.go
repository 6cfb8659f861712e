package check

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/token"
	"github.com/tml-lang/tmlc/internal/types"
)

// checkExpr resolves e's semantic Type, recording diagnostics for
// undeclared names, arity mismatches, and operator/assignment
// incompatibilities along the way (spec.md §4.4). It never aborts on
// error: an ill-typed subexpression resolves to nil and callers treat
// nil as "already diagnosed, don't cascade" (expectAssignable and the
// lutBin lookup both no-op on a nil operand).
func (c *Checker) checkExpr(e ast.Expr, s *scope, gs genericSet) *types.Type {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return c.checkLiteral(v)
	case *ast.IdentExpr:
		return c.checkIdent(v, s)
	case *ast.PathExpr:
		return c.checkPath(v)
	case *ast.BinaryExpr:
		return c.checkBinary(v, s, gs)
	case *ast.UnaryExpr:
		return c.checkUnary(v, s, gs)
	case *ast.CallExpr:
		return c.checkCall(v, s, gs)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(v, s, gs)
	case *ast.FieldAccessExpr:
		return c.checkFieldAccess(v, s, gs)
	case *ast.IndexExpr:
		recv := c.checkExpr(v.Receiver, s, gs)
		c.checkExpr(v.Index, s, gs)
		if recv != nil && (recv.Kind == types.KArray || recv.Kind == types.KSlice) {
			return recv.Elem
		}
		return nil
	case *ast.TupleExpr:
		elems := make([]*types.Type, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = c.checkExpr(el, s, gs)
		}
		return types.TupleType(elems...)
	case *ast.ArrayExpr:
		var elem *types.Type
		for _, el := range v.Elems {
			t := c.checkExpr(el, s, gs)
			if elem == nil {
				elem = t
			}
		}
		if elem == nil {
			elem = types.PrimitiveType(types.Unit)
		}
		return types.ArrayType(elem, int64(len(v.Elems)))
	case *ast.BlockExpr:
		return c.checkBlock(v, s, gs)
	case *ast.IfExpr:
		return c.checkIf(v, s, gs)
	case *ast.IfLetExpr:
		return c.checkIfLet(v, s, gs)
	case *ast.WhenExpr:
		return c.checkWhen(v, s, gs)
	case *ast.LoopExpr:
		c.checkBlock(v.Body, s, gs)
		return types.PrimitiveType(types.Never)
	case *ast.WhileExpr:
		c.checkExpr(v.Cond, s, gs)
		c.checkBlock(v.Body, s, gs)
		return types.PrimitiveType(types.Unit)
	case *ast.ForExpr:
		iterT := c.checkExpr(v.Iterable, s, gs)
		s.push()
		var elemT *types.Type
		if iterT != nil {
			switch iterT.Kind {
			case types.KArray, types.KSlice:
				elemT = iterT.Elem
			}
		}
		c.bindPattern(v.Pat, elemT, false, s)
		for _, stmt := range v.Body.Stmts {
			c.checkStmt(stmt, s, gs)
		}
		if v.Body.Tail != nil {
			c.checkExpr(v.Body.Tail, s, gs)
		}
		s.pop()
		return types.PrimitiveType(types.Unit)
	case *ast.ReturnExpr:
		var got *types.Type
		if v.Value != nil {
			got = c.checkExpr(v.Value, s, gs)
		} else {
			got = types.PrimitiveType(types.Unit)
		}
		if c.curRet != nil {
			c.expectAssignable(got, c.curRet, v.Span())
		}
		return types.PrimitiveType(types.Never)
	case *ast.ThrowExpr:
		c.checkExpr(v.Value, s, gs)
		return types.PrimitiveType(types.Never)
	case *ast.BreakExpr:
		if v.Value != nil {
			c.checkExpr(v.Value, s, gs)
		}
		return types.PrimitiveType(types.Never)
	case *ast.ContinueExpr:
		return types.PrimitiveType(types.Never)
	case *ast.ClosureExpr:
		return c.checkClosure(v, s, gs)
	case *ast.StructLiteralExpr:
		return c.checkStructLiteral(v, s, gs)
	case *ast.LowLevelBlockExpr:
		for _, op := range v.Ops {
			for _, a := range op.Args {
				c.checkExpr(a, s, gs)
			}
		}
		return nil // raw LLVM result type is op-specific; left to internal/ir.
	case *ast.BaseAccessExpr:
		for _, a := range v.Args {
			c.checkExpr(a, s, gs)
		}
		return nil
	case *ast.InterpStringExpr:
		c.checkInterpParts(v.Parts, s, gs)
		return types.PrimitiveType(types.Str)
	case *ast.TemplateLiteralExpr:
		c.checkInterpParts(v.Parts, s, gs)
		return types.PrimitiveType(types.Str)
	case *ast.CastExpr:
		c.checkExpr(v.Value, s, gs)
		return c.resolveTypeExpr(v.Type, gs)
	case *ast.TryExpr:
		return c.checkExpr(v.Value, s, gs)
	case *ast.AwaitExpr:
		return c.checkExpr(v.Value, s, gs)
	case *ast.RangeExpr:
		if v.Start != nil {
			c.checkExpr(v.Start, s, gs)
		}
		if v.End != nil {
			c.checkExpr(v.End, s, gs)
		}
		return types.NamedType(nil, "Range")
	}
	return nil
}

func (c *Checker) checkInterpParts(parts []ast.InterpPart, s *scope, gs genericSet) {
	for _, p := range parts {
		if p.Expr != nil {
			c.checkExpr(p.Expr, s, gs)
		}
	}
}

func (c *Checker) checkLiteral(v *ast.LiteralExpr) *types.Type {
	switch v.Kind {
	case ast.LitInt:
		if p, ok := v.Payload.(token.IntPayload); ok && p.Suffix != "" {
			if prim, ok := primitiveNames[suffixToPrimitiveName(p.Suffix)]; ok {
				return types.PrimitiveType(prim)
			}
		}
		return types.PrimitiveType(types.I32)
	case ast.LitFloat:
		if p, ok := v.Payload.(token.FloatPayload); ok && p.Suffix != "" {
			if prim, ok := primitiveNames[suffixToPrimitiveName(p.Suffix)]; ok {
				return types.PrimitiveType(prim)
			}
		}
		return types.PrimitiveType(types.F64)
	case ast.LitString:
		return types.PrimitiveType(types.Str)
	case ast.LitChar:
		return types.PrimitiveType(types.Char)
	case ast.LitBool:
		return types.PrimitiveType(types.Bool)
	case ast.LitNull:
		return types.NamedType(nil, "Maybe")
	}
	return nil
}

func suffixToPrimitiveName(suffix string) string {
	switch suffix {
	case "i8":
		return "I8"
	case "i16":
		return "I16"
	case "i32":
		return "I32"
	case "i64":
		return "I64"
	case "i128":
		return "I128"
	case "u8":
		return "U8"
	case "u16":
		return "U16"
	case "u32":
		return "U32"
	case "u64":
		return "U64"
	case "u128":
		return "U128"
	case "f32":
		return "F32"
	case "f64":
		return "F64"
	}
	return ""
}

func (c *Checker) checkIdent(v *ast.IdentExpr, s *scope) *types.Type {
	if b, ok := s.lookup(v.Name); ok {
		return b.typ
	}
	if sig, ok := c.env.Funcs[v.Name]; ok {
		return types.FuncType(sig.Params, sig.Ret, false)
	}
	if con, ok := c.env.Consts[v.Name]; ok {
		return con.Type
	}
	c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_UNDECLARED", "undeclared identifier %q", v.Name)
	return nil
}

func (c *Checker) checkPath(v *ast.PathExpr) *types.Type {
	if len(v.Segments) == 0 {
		return nil
	}
	last := v.Segments[len(v.Segments)-1]
	if con, ok := c.env.Consts[last]; ok {
		return con.Type
	}
	if sig, ok := c.env.Funcs[last]; ok {
		return types.FuncType(sig.Params, sig.Ret, false)
	}
	return nil
}

func (c *Checker) checkUnary(v *ast.UnaryExpr, s *scope, gs genericSet) *types.Type {
	t := c.checkExpr(v.Operand, s, gs)
	if t == nil {
		return nil
	}
	switch v.Op {
	case "!":
		return types.PrimitiveType(types.Bool)
	case "-":
		return t
	case "&":
		return types.RefType(t, false)
	}
	return t
}

func (c *Checker) checkBinary(v *ast.BinaryExpr, s *scope, gs genericSet) *types.Type {
	lt := c.checkExpr(v.Left, s, gs)
	rt := c.checkExpr(v.Right, s, gs)
	if v.Op == "=" {
		c.expectAssignable(rt, lt, v.Span())
		return types.PrimitiveType(types.Unit)
	}
	if lt == nil || rt == nil {
		return nil
	}
	op, ok := binOpNames[v.Op]
	if !ok {
		return lt
	}
	c1, c2 := categoryOf(lt), categoryOf(rt)
	if !lutBin[c1][c2][op] {
		c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_BAD_OPERATOR",
			"operator %q not defined for %s and %s", v.Op, lt.String(), rt.String())
		return nil
	}
	if isComparisonOp(op) || op == opAndAnd || op == opOrOr {
		return types.PrimitiveType(types.Bool)
	}
	rescat := binResultCategory(c1, c2)
	if rescat == c1 {
		return lt
	}
	return rt
}

func (c *Checker) checkCall(v *ast.CallExpr, s *scope, gs genericSet) *types.Type {
	for _, a := range v.Args {
		c.checkExpr(a, s, gs)
	}
	if id, ok := v.Callee.(*ast.IdentExpr); ok {
		if sig, ok := c.env.Funcs[id.Name]; ok {
			if len(sig.Params) != len(v.Args) {
				c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_ARITY",
					"function %q expects %d argument(s), got %d", id.Name, len(sig.Params), len(v.Args))
			} else {
				subst := types.Substitution{}
				for i, a := range v.Args {
					at := c.checkExpr(a, s, gs)
					c.expectAssignable(at, sig.Params[i], a.Span())
					if at != nil {
						types.Unify(sig.Params[i], at, subst)
					}
				}
				return types.Apply(sig.Ret, subst)
			}
			return sig.Ret
		}
		// Bare call of a struct/class/enum-unit-variant name constructs a
		// value of that type (spec.md §4.7 "Struct/enum construction").
		if _, ok := c.env.Structs[id.Name]; ok {
			return types.NamedType(nil, id.Name)
		}
	}
	callee := c.checkExpr(v.Callee, s, gs)
	if callee != nil && callee.Kind == types.KFunc {
		return callee.Ret
	}
	return nil
}

func (c *Checker) checkMethodCall(v *ast.MethodCallExpr, s *scope, gs genericSet) *types.Type {
	recv := c.checkExpr(v.Receiver, s, gs)
	for _, a := range v.Args {
		c.checkExpr(a, s, gs)
	}
	if recv == nil {
		return nil
	}
	target := recv
	for target.Kind == types.KRef || target.Kind == types.KPtr {
		target = target.Elem
	}
	name := target.Name
	if target.Kind == types.KPrimitive {
		name = target.Prim.String()
	}
	if cls, ok := c.env.Classes[name]; ok {
		if sig, ok := cls.Methods[v.Method]; ok {
			return sig.Ret
		}
		cur := cls
		for cur.Extends != "" {
			cur = c.env.Classes[cur.Extends]
			if cur == nil {
				break
			}
			if sig, ok := cur.Methods[v.Method]; ok {
				return sig.Ret
			}
		}
	}
	for _, impl := range c.env.LookupImpls(name) {
		if sig, ok := impl.Methods[v.Method]; ok {
			return sig.Ret
		}
	}
	c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_UNKNOWN_METHOD", "no method %q found on %s", v.Method, recv.String())
	return nil
}

func (c *Checker) checkFieldAccess(v *ast.FieldAccessExpr, s *scope, gs genericSet) *types.Type {
	recv := c.checkExpr(v.Receiver, s, gs)
	if recv == nil {
		return nil
	}
	target := recv
	for target.Kind == types.KRef || target.Kind == types.KPtr {
		target = target.Elem
	}
	if target.Kind == types.KTuple {
		return nil // tuple.N indexing is parsed as a field name; left unresolved without a numeric field model.
	}
	if info, ok := c.env.Structs[target.Name]; ok {
		if ft, ok := info.FieldTypes[v.Field]; ok {
			return ft
		}
	}
	if info, ok := c.env.Classes[target.Name]; ok {
		cur := info
		for cur != nil {
			if ft, ok := cur.FieldTypes[v.Field]; ok {
				return ft
			}
			if ft, ok := cur.StaticFields[v.Field]; ok {
				return ft
			}
			cur = c.env.Classes[cur.Extends]
		}
	}
	c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_UNKNOWN_FIELD", "no field %q on %s", v.Field, recv.String())
	return nil
}

func (c *Checker) checkIf(v *ast.IfExpr, s *scope, gs genericSet) *types.Type {
	c.checkExpr(v.Cond, s, gs)
	thenT := c.checkBlock(v.Then, s, gs)
	if v.Else == nil {
		return types.PrimitiveType(types.Unit)
	}
	elseT := c.checkExpr(v.Else, s, gs)
	if thenT != nil && thenT.IsNever() {
		return elseT
	}
	return thenT
}

func (c *Checker) checkIfLet(v *ast.IfLetExpr, s *scope, gs genericSet) *types.Type {
	scrut := c.checkExpr(v.Scrutinee, s, gs)
	s.push()
	c.bindPattern(v.Pat, scrut, false, s)
	thenT := c.checkBlockNoPush(v.Then, s, gs)
	s.pop()
	if v.Else == nil {
		return types.PrimitiveType(types.Unit)
	}
	return firstNonNever(thenT, c.checkExpr(v.Else, s, gs))
}

// checkBlockNoPush checks b's statements in the caller's current frame
// rather than pushing a new one, used where the caller already pushed
// a frame to hold pattern bindings that must stay in scope for the
// whole `then` block (if-let's bound name, for instance).
func (c *Checker) checkBlockNoPush(b *ast.BlockExpr, s *scope, gs genericSet) *types.Type {
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt, s, gs)
	}
	if b.Tail != nil {
		return c.checkExpr(b.Tail, s, gs)
	}
	return types.PrimitiveType(types.Unit)
}

func firstNonNever(a, b *types.Type) *types.Type {
	if a != nil && a.IsNever() {
		return b
	}
	return a
}

func (c *Checker) checkWhen(v *ast.WhenExpr, s *scope, gs genericSet) *types.Type {
	scrut := c.checkExpr(v.Scrutinee, s, gs)
	var result *types.Type
	for _, arm := range v.Arms {
		s.push()
		c.bindPattern(arm.Pat, scrut, false, s)
		if arm.Guard != nil {
			c.checkExpr(arm.Guard, s, gs)
		}
		bodyT := c.checkExpr(arm.Body, s, gs)
		s.pop()
		if result == nil || (result.IsNever() && bodyT != nil) {
			result = bodyT
		}
	}
	if result == nil {
		return types.PrimitiveType(types.Unit)
	}
	return result
}

func (c *Checker) checkClosure(v *ast.ClosureExpr, s *scope, gs genericSet) *types.Type {
	s.push()
	params := make([]*types.Type, len(v.Params))
	for i, p := range v.Params {
		t := c.resolveTypeExpr(p.Type, gs)
		params[i] = t
		s.declare(p.Name, t, false)
	}
	bodyT := c.checkExpr(v.Body, s, gs)
	s.pop()
	ret := bodyT
	if v.RetType != nil {
		ret = c.resolveTypeExpr(v.RetType, gs)
	}
	return types.FuncType(params, ret, true)
}

func (c *Checker) checkStructLiteral(v *ast.StructLiteralExpr, s *scope, gs genericSet) *types.Type {
	nt, _ := v.Type.(*ast.NamedTypeExpr)
	var info *types.StructInfo
	if nt != nil {
		info = c.env.Structs[nt.Name]
	}
	for _, f := range v.Fields {
		got := c.checkExpr(f.Value, s, gs)
		if info != nil {
			if want, ok := info.FieldTypes[f.Name]; ok {
				c.expectAssignable(got, want, f.Value.Span())
			} else {
				c.diags.Addf(diag.TypeErr, v.Span(), "E_CHECK_UNKNOWN_FIELD", "struct %q has no field %q", nt.Name, f.Name)
			}
		}
	}
	if v.BaseExpr != nil {
		c.checkExpr(v.BaseExpr, s, gs)
	}
	if nt != nil {
		args := make([]*types.Type, len(nt.Args))
		for i, a := range nt.Args {
			args[i] = c.resolveTypeExpr(a, gs)
		}
		return types.NamedType(nt.ModulePath, nt.Name, args...)
	}
	return nil
}
