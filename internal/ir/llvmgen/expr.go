// Expression codegen, spec.md §4.7: the two-return protocol where
// genExpr evaluates e and returns both the LLVM operand (as a live
// llvm.Value rather than a textual operand string, since tmlc drives
// the go-llvm API directly rather than emitting text itself) and e's
// semantic Type, needed by callers for widening/dispatch decisions.
//
// Grounded on src/ir/llvm/transform.go's genExpression, a big type
// switch over the teacher's two expression node kinds (int/float
// binary ops) that returns exactly (llvm.Value, the matching llvm.Type).
// tmlc widens that one switch to TML's full expression grammar.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/token"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// genExpr is the two-return codegen entry point for every expression
// node. When Invariant B's block_terminated_ flag is already set,
// genExpr still evaluates operands the caller may need for building up
// a (now-unreachable) value but callers must not emit further
// control-flow terminators past this point.
func (g *Generator) genExpr(e ast.Expr) (llvm.Value, *types.Type) {
	switch expr := e.(type) {
	case *ast.LiteralExpr:
		return g.genLiteral(expr)
	case *ast.IdentExpr:
		return g.genIdent(expr)
	case *ast.PathExpr:
		return g.genPath(expr)
	case *ast.BinaryExpr:
		return g.genBinary(expr)
	case *ast.UnaryExpr:
		return g.genUnary(expr)
	case *ast.CallExpr:
		return g.genCall(expr)
	case *ast.MethodCallExpr:
		return g.genMethodCall(expr)
	case *ast.FieldAccessExpr:
		return g.genFieldAccess(expr)
	case *ast.IndexExpr:
		return g.genIndex(expr)
	case *ast.TupleExpr:
		return g.genTuple(expr)
	case *ast.ArrayExpr:
		return g.genArray(expr)
	case *ast.BlockExpr:
		return g.emitBlockStmts(expr)
	case *ast.IfExpr:
		return g.genIf(expr)
	case *ast.IfLetExpr:
		return g.genIfLet(expr)
	case *ast.WhenExpr:
		return g.genWhen(expr)
	case *ast.LoopExpr:
		return g.genLoop(expr)
	case *ast.WhileExpr:
		return g.genWhile(expr)
	case *ast.ForExpr:
		return g.genFor(expr)
	case *ast.ReturnExpr:
		return g.genReturn(expr)
	case *ast.ThrowExpr:
		return g.genThrow(expr)
	case *ast.BreakExpr:
		return g.genBreak(expr)
	case *ast.ContinueExpr:
		return g.genContinue(expr)
	case *ast.StructLiteralExpr:
		return g.genStructLiteral(expr)
	case *ast.CastExpr:
		return g.genCast(expr)
	case *ast.TryExpr:
		return g.genTry(expr)
	case *ast.RangeExpr:
		return g.genRange(expr)
	case *ast.BaseAccessExpr:
		return g.genBaseAccess(expr)
	case *ast.ClosureExpr, *ast.LowLevelBlockExpr, *ast.AwaitExpr,
		*ast.InterpStringExpr, *ast.TemplateLiteralExpr:
		// Unsupported in this emitter: closures need env-struct/fat-
		// pointer construction, lowlevel blocks need a raw-op table,
		// await needs the async state-machine transform, and string
		// interpolation needs runtime formatting support, none of
		// which spec.md §8's six end-to-end scenarios exercise.
		g.addDiag(e.Span(), "E_CODEGEN_UNSUPPORTED", "unsupported expression form in this emitter")
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	return llvm.Value{}, types.PrimitiveType(types.Unit)
}

func (g *Generator) genLiteral(lit *ast.LiteralExpr) (llvm.Value, *types.Type) {
	switch lit.Kind {
	case ast.LitInt:
		p, _ := lit.Payload.(token.IntPayload)
		t := types.PrimitiveType(primitiveForIntSuffix(p.Suffix))
		return llvm.ConstInt(g.llvmType(t, true), p.Magnitude, t.Prim.IsSigned()), t
	case ast.LitFloat:
		p, _ := lit.Payload.(token.FloatPayload)
		t := types.PrimitiveType(types.F64)
		if p.Suffix == "f32" {
			t = types.PrimitiveType(types.F32)
		}
		return llvm.ConstFloat(g.llvmType(t, true), p.Value), t
	case ast.LitString:
		s, _ := lit.Payload.(token.StringPayload)
		return g.globalStringPtr(s.Value), types.PrimitiveType(types.Str)
	case ast.LitChar:
		c, _ := lit.Payload.(rune)
		t := types.PrimitiveType(types.Char)
		return llvm.ConstInt(g.llvmType(t, true), uint64(c), false), t
	case ast.LitBool:
		b, _ := lit.Payload.(bool)
		v := uint64(0)
		if b {
			v = 1
		}
		t := types.PrimitiveType(types.Bool)
		return llvm.ConstInt(g.llvmType(t, true), v, false), t
	case ast.LitNull:
		return llvm.ConstNull(llvm.PointerType(g.ctx.Int8Type(), 0)), types.PrimitiveType(types.Unit)
	}
	return llvm.Value{}, types.PrimitiveType(types.Unit)
}

func primitiveForIntSuffix(suffix string) types.Primitive {
	switch suffix {
	case "i8":
		return types.I8
	case "i16":
		return types.I16
	case "i64":
		return types.I64
	case "i128":
		return types.I128
	case "u8":
		return types.U8
	case "u16":
		return types.U16
	case "u32":
		return types.U32
	case "u64":
		return types.U64
	case "u128":
		return types.U128
	default:
		return types.I32
	}
}

// globalStringPtr dedups identical string literals into one global
// constant, grounded on src/ir/llvm/transform.go's genType handling of
// its own string constants via CreateGlobalStringPtr.
func (g *Generator) globalStringPtr(s string) llvm.Value {
	if v, ok := g.stringLiterals[s]; ok {
		return v
	}
	v := g.builder.CreateGlobalStringPtr(s, g.symbolName("str"))
	g.stringLiterals[s] = v
	return v
}

func (g *Generator) genIdent(id *ast.IdentExpr) (llvm.Value, *types.Type) {
	slot, ok := g.locals[id.Name]
	if !ok {
		if gv := g.mod.NamedGlobal(g.symbolName("const." + id.Name)); !gv.IsNil() {
			return g.builder.CreateLoad(gv, ""), nil
		}
		g.addDiag(id.Span(), "E_CODEGEN_UNDEFINED", "undefined name %q", id.Name)
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	if slot.IsAlloc {
		return g.builder.CreateLoad(slot.Val, ""), slot.Type
	}
	return slot.Val, slot.Type
}

// genPath resolves a module-qualified a::b::c reference; codegen
// treats the last segment as the name and ignores the qualifying path
// since internal/registry already flattened cross-module references
// into env by the time the emitter runs.
func (g *Generator) genPath(p *ast.PathExpr) (llvm.Value, *types.Type) {
	if len(p.Segments) == 0 {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	return g.genIdent(&ast.IdentExpr{Base: ast.Base{Sp: p.Sp}, Name: p.Segments[len(p.Segments)-1]})
}

// genBinary covers assignment, short-circuit &&/||, comparisons, and
// integer/float arithmetic with spec.md §4.7's widening rule (the
// narrower operand is sign/zero-extended or float-extended to match
// the wider one before the op is emitted).
func (g *Generator) genBinary(b *ast.BinaryExpr) (llvm.Value, *types.Type) {
	switch b.Op {
	case "=":
		return g.genAssign(b)
	case "&&":
		return g.genShortCircuit(b, true)
	case "||":
		return g.genShortCircuit(b, false)
	}
	l, lt := g.genExpr(b.Left)
	r, rt := g.genExpr(b.Right)
	l, r, wide := g.widenOperands(l, lt, r, rt)
	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return g.genComparison(b.Op, l, r, wide), types.PrimitiveType(types.Bool)
	}
	return g.genArith(b.Op, l, r, wide), wide
}

func (g *Generator) genAssign(b *ast.BinaryExpr) (llvm.Value, *types.Type) {
	val, valType := g.genExpr(b.Right)
	ptr, ok := g.lvalue(b.Left)
	if !ok {
		g.addDiag(b.Span(), "E_CODEGEN_LVALUE", "left-hand side is not assignable")
		return val, valType
	}
	g.builder.CreateStore(val, ptr)
	return val, valType
}

// lvalue resolves an assignable expression (identifier, field access,
// index) to the pointer its value should be stored through.
func (g *Generator) lvalue(e ast.Expr) (llvm.Value, bool) {
	switch expr := e.(type) {
	case *ast.IdentExpr:
		slot, ok := g.locals[expr.Name]
		if !ok || !slot.IsAlloc {
			return llvm.Value{}, false
		}
		return slot.Val, true
	case *ast.FieldAccessExpr:
		return g.fieldGEP(expr)
	case *ast.IndexExpr:
		recv, _ := g.genExpr(expr.Receiver)
		idx, _ := g.genExpr(expr.Index)
		return g.builder.CreateGEP(recv, []llvm.Value{idx}, ""), true
	}
	return llvm.Value{}, false
}

func (g *Generator) genShortCircuit(b *ast.BinaryExpr, isAnd bool) (llvm.Value, *types.Type) {
	l, _ := g.genExpr(b.Left)
	rhsBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LAndOrRHS"))
	mergeBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LAndOrEnd"))
	startBlock := g.builder.GetInsertBlock()
	if isAnd {
		g.builder.CreateCondBr(l, rhsBlock, mergeBlock)
	} else {
		g.builder.CreateCondBr(l, mergeBlock, rhsBlock)
	}
	g.builder.SetInsertPointAtEnd(rhsBlock)
	r, _ := g.genExpr(b.Right)
	rhsEndBlock := g.builder.GetInsertBlock()
	g.builder.CreateBr(mergeBlock)

	g.builder.SetInsertPointAtEnd(mergeBlock)
	phi := g.builder.CreatePHI(g.ctx.Int1Type(), "")
	phi.AddIncoming([]llvm.Value{l, r}, []llvm.BasicBlock{startBlock, rhsEndBlock})
	return phi, types.PrimitiveType(types.Bool)
}

// widenOperands implements spec.md §4.7's integer-widening-arithmetic
// rule: the narrower of two numeric operands is extended to match the
// wider one's bit width before the operation proceeds.
func (g *Generator) widenOperands(l llvm.Value, lt *types.Type, r llvm.Value, rt *types.Type) (llvm.Value, llvm.Value, *types.Type) {
	if lt == nil || rt == nil || lt.Kind != types.KPrimitive || rt.Kind != types.KPrimitive {
		return l, r, lt
	}
	if lt.Prim.IsFloat() || rt.Prim.IsFloat() {
		if lt.Prim.BitWidth() < rt.Prim.BitWidth() {
			return g.builder.CreateFPExt(l, g.llvmType(rt, true), ""), r, rt
		}
		if rt.Prim.BitWidth() < lt.Prim.BitWidth() {
			return l, g.builder.CreateFPExt(r, g.llvmType(lt, true), ""), lt
		}
		return l, r, lt
	}
	if lt.Prim.BitWidth() < rt.Prim.BitWidth() {
		return g.extendInt(l, lt, rt), r, rt
	}
	if rt.Prim.BitWidth() < lt.Prim.BitWidth() {
		return l, g.extendInt(r, rt, lt), lt
	}
	return l, r, lt
}

func (g *Generator) extendInt(v llvm.Value, from, to *types.Type) llvm.Value {
	if from.Prim.IsSigned() {
		return g.builder.CreateSExt(v, g.llvmType(to, true), "")
	}
	return g.builder.CreateZExt(v, g.llvmType(to, true), "")
}

func (g *Generator) genComparison(op string, l, r llvm.Value, t *types.Type) llvm.Value {
	if t != nil && t.Kind == types.KPrimitive && t.Prim.IsFloat() {
		return g.builder.CreateFCmp(floatPred(op), l, r, "")
	}
	signed := t != nil && t.Kind == types.KPrimitive && t.Prim.IsSigned()
	return g.builder.CreateICmp(intPred(op, signed), l, r, "")
}

func intPred(op string, signed bool) llvm.IntPredicate {
	switch op {
	case "==":
		return llvm.IntEQ
	case "!=":
		return llvm.IntNE
	case "<":
		if signed {
			return llvm.IntSLT
		}
		return llvm.IntULT
	case "<=":
		if signed {
			return llvm.IntSLE
		}
		return llvm.IntULE
	case ">":
		if signed {
			return llvm.IntSGT
		}
		return llvm.IntUGT
	case ">=":
		if signed {
			return llvm.IntSGE
		}
		return llvm.IntUGE
	}
	return llvm.IntEQ
}

func floatPred(op string) llvm.FloatPredicate {
	switch op {
	case "==":
		return llvm.FloatOEQ
	case "!=":
		return llvm.FloatONE
	case "<":
		return llvm.FloatOLT
	case "<=":
		return llvm.FloatOLE
	case ">":
		return llvm.FloatOGT
	case ">=":
		return llvm.FloatOGE
	}
	return llvm.FloatOEQ
}

func (g *Generator) genArith(op string, l, r llvm.Value, t *types.Type) llvm.Value {
	isFloat := t != nil && t.Kind == types.KPrimitive && t.Prim.IsFloat()
	switch op {
	case "+":
		if isFloat {
			return g.builder.CreateFAdd(l, r, "")
		}
		return g.builder.CreateAdd(l, r, "")
	case "-":
		if isFloat {
			return g.builder.CreateFSub(l, r, "")
		}
		return g.builder.CreateSub(l, r, "")
	case "*":
		if isFloat {
			return g.builder.CreateFMul(l, r, "")
		}
		return g.builder.CreateMul(l, r, "")
	case "/":
		if isFloat {
			return g.builder.CreateFDiv(l, r, "")
		}
		if t != nil && t.Prim.IsSigned() {
			return g.builder.CreateSDiv(l, r, "")
		}
		return g.builder.CreateUDiv(l, r, "")
	case "%":
		if isFloat {
			return g.builder.CreateFRem(l, r, "")
		}
		if t != nil && t.Prim.IsSigned() {
			return g.builder.CreateSRem(l, r, "")
		}
		return g.builder.CreateURem(l, r, "")
	case "&":
		return g.builder.CreateAnd(l, r, "")
	case "|":
		return g.builder.CreateOr(l, r, "")
	case "^":
		return g.builder.CreateXor(l, r, "")
	case "<<":
		return g.builder.CreateShl(l, r, "")
	case ">>":
		return g.builder.CreateLShr(l, r, "")
	}
	return l
}

func (g *Generator) genUnary(u *ast.UnaryExpr) (llvm.Value, *types.Type) {
	v, t := g.genExpr(u.Operand)
	switch u.Op {
	case "-":
		if t != nil && t.Kind == types.KPrimitive && t.Prim.IsFloat() {
			return g.builder.CreateFNeg(v, ""), t
		}
		return g.builder.CreateNeg(v, ""), t
	case "!":
		return g.builder.CreateNot(v, ""), t
	case "&", "&mut":
		ptr, ok := g.lvalue(u.Operand)
		if ok {
			return ptr, types.RefType(t, u.Op == "&mut")
		}
		return v, types.RefType(t, u.Op == "&mut")
	case "*":
		return g.builder.CreateLoad(v, ""), derefType(t)
	}
	return v, t
}

func derefType(t *types.Type) *types.Type {
	if t != nil && (t.Kind == types.KRef || t.Kind == types.KPtr) {
		return t.Elem
	}
	return t
}

// genCall dispatches a free-function call, resolving a generic
// callee's instantiation through requireFuncInstantiation before
// emitting the llvm call.
func (g *Generator) genCall(c *ast.CallExpr) (llvm.Value, *types.Type) {
	ident, ok := c.Callee.(*ast.IdentExpr)
	if !ok {
		if p, ok := c.Callee.(*ast.PathExpr); ok && len(p.Segments) > 0 {
			ident = &ast.IdentExpr{Base: ast.Base{Sp: p.Sp}, Name: p.Segments[len(p.Segments)-1]}
		} else {
			return g.genIndirectCall(c)
		}
	}
	args, argTypes := g.genArgs(c.Args)
	sig := g.env.Funcs[ident.Name]
	if sig == nil {
		g.addDiag(c.Span(), "E_CODEGEN_UNDEFINED", "undefined function %q", ident.Name)
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	retType := sig.Ret
	var fnName string
	if len(sig.Generics) > 0 {
		targs := make([]*types.Type, len(c.TypeArgs))
		for i, a := range c.TypeArgs {
			targs[i] = g.resolveType(a, nil)
		}
		if len(targs) == 0 {
			targs = argTypes
		}
		mangled := MangleFuncName(ident.Name, targs)
		g.requireFuncInstantiation(ident.Name, targs, mangled)
		g.pendingGenericFuncs[ident.Name] = sig.Decl
		fnName = g.symbolName(mangled)
		retType = substituteGenerics(sig.Ret, bindGenerics(sig.Generics, targs))
	} else {
		fnName = g.symbolName(MangleFuncName(ident.Name, nil))
	}
	fn := g.mod.NamedFunction(fnName)
	if fn.IsAFunction().IsNil() {
		fn = g.declareFuncSignature(sig.Decl, fnName, "", nil)
	}
	return g.builder.CreateCall(fn, args, ""), retType
}

func (g *Generator) genIndirectCall(c *ast.CallExpr) (llvm.Value, *types.Type) {
	callee, calleeType := g.genExpr(c.Callee)
	args, _ := g.genArgs(c.Args)
	var ret *types.Type
	if calleeType != nil && calleeType.Kind == types.KFunc {
		ret = calleeType.Ret
	}
	return g.builder.CreateCall(callee, args, ""), ret
}

func (g *Generator) genArgs(exprs []ast.Expr) ([]llvm.Value, []*types.Type) {
	vals := make([]llvm.Value, len(exprs))
	tys := make([]*types.Type, len(exprs))
	for i, a := range exprs {
		vals[i], tys[i] = g.genExpr(a)
	}
	return vals, tys
}

// genMethodCall dispatches receiver.method(args), spec.md §4.7's
// "call and method dispatch" including `dyn B` indirect calls through
// a vtable slot.
func (g *Generator) genMethodCall(m *ast.MethodCallExpr) (llvm.Value, *types.Type) {
	recv, recvType := g.genExpr(m.Receiver)
	args, argTypes := g.genArgs(m.Args)

	if recvType != nil && recvType.Kind == types.KDynBehavior {
		behaviorName := ""
		if len(recvType.Behaviors) > 0 {
			behaviorName = recvType.Behaviors[0].Name
		}
		return g.dynDispatchCall(recv, behaviorName, m.Method, args, nil), nil
	}

	ownerName := baseName(recvType)
	ownerMangled := MangleType(recvType)
	fnName := g.requireImplMethodInstantiation(recvType, m.Method)
	fn := g.mod.NamedFunction(fnName)
	if fn.IsAFunction().IsNil() {
		if info := g.env.Classes[ownerName]; info != nil {
			if sig, ok := info.Methods[m.Method]; ok && sig.Decl != nil {
				fn = g.declareFuncSignature(sig.Decl, fnName, ownerName, recvType.Args)
			}
		}
	}
	if fn.IsAFunction().IsNil() {
		g.addDiag(m.Span(), "E_CODEGEN_UNDEFINED", "undefined method %q on %s", m.Method, ownerMangled)
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	allArgs := append([]llvm.Value{recv}, args...)
	var ret *types.Type
	if info := g.env.Classes[ownerName]; info != nil {
		if sig, ok := info.Methods[m.Method]; ok {
			ret = sig.Ret
		}
	}
	_ = argTypes
	return g.builder.CreateCall(fn, allArgs, ""), ret
}

func (g *Generator) genFieldAccess(f *ast.FieldAccessExpr) (llvm.Value, *types.Type) {
	ptr, ft, ok := g.fieldGEPTyped(f)
	if !ok {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	return g.builder.CreateLoad(ptr, ""), ft
}

func (g *Generator) fieldGEP(f *ast.FieldAccessExpr) (llvm.Value, bool) {
	ptr, _, ok := g.fieldGEPTyped(f)
	return ptr, ok
}

// fieldGEPTyped GEPs into recv for f.Field, returning both the pointer
// and the field's semantic type, spec.md §4.7 "field access via GEP".
func (g *Generator) fieldGEPTyped(f *ast.FieldAccessExpr) (llvm.Value, *types.Type, bool) {
	recvPtr, ok := g.lvalue(f.Receiver)
	var recvType *types.Type
	if !ok {
		recvPtr, recvType = g.genExpr(f.Receiver)
	} else if slot, isIdent := g.identSlot(f.Receiver); isIdent {
		recvType = slot.Type
	}
	base := baseName(recvType)
	var fieldOrder []string
	var fieldTypes map[string]*types.Type
	offset := 0
	if info := g.env.Structs[base]; info != nil {
		fieldOrder, fieldTypes = info.FieldOrder, info.FieldTypes
	} else if info := g.env.Classes[base]; info != nil {
		fieldOrder, fieldTypes = info.FieldOrder, info.FieldTypes
		if len(info.VTable) > 0 {
			offset++
		}
		if info.Extends != "" {
			offset++
		}
	}
	idx := -1
	for i, n := range fieldOrder {
		if n == f.Field {
			idx = i + offset
			break
		}
	}
	if idx < 0 {
		g.addDiag(f.Span(), "E_CODEGEN_UNDEFINED", "undefined field %q", f.Field)
		return llvm.Value{}, nil, false
	}
	ptr := g.builder.CreateGEP(recvPtr, []llvm.Value{
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
		llvm.ConstInt(g.ctx.Int32Type(), int64(idx), false),
	}, "")
	return ptr, fieldTypes[f.Field], true
}

func (g *Generator) identSlot(e ast.Expr) (localSlot, bool) {
	id, ok := e.(*ast.IdentExpr)
	if !ok {
		return localSlot{}, false
	}
	slot, ok := g.locals[id.Name]
	return slot, ok
}

func (g *Generator) genIndex(ix *ast.IndexExpr) (llvm.Value, *types.Type) {
	recv, recvType := g.genExpr(ix.Receiver)
	idx, _ := g.genExpr(ix.Index)
	ptr := g.builder.CreateGEP(recv, []llvm.Value{idx}, "")
	elemType := recvType
	if recvType != nil {
		elemType = recvType.Elem
	}
	return g.builder.CreateLoad(ptr, ""), elemType
}

func (g *Generator) genTuple(t *ast.TupleExpr) (llvm.Value, *types.Type) {
	vals, tys := g.genArgs(t.Elems)
	tupleType := types.TupleType(tys...)
	agg := llvm.ConstNull(g.llvmType(tupleType, true))
	for i, v := range vals {
		agg = g.builder.CreateInsertValue(agg, v, i, "")
	}
	return agg, tupleType
}

func (g *Generator) genArray(a *ast.ArrayExpr) (llvm.Value, *types.Type) {
	vals, tys := g.genArgs(a.Elems)
	var elemType *types.Type
	if len(tys) > 0 {
		elemType = tys[0]
	}
	arrType := types.ArrayType(elemType, int64(len(vals)))
	agg := llvm.ConstNull(g.llvmType(arrType, true))
	for i, v := range vals {
		agg = g.builder.CreateInsertValue(agg, v, i, "")
	}
	return agg, arrType
}

// genIf implements if/else with a phi merge when both arms produce a
// value, spec.md §4.7 "if/when with phi merge".
func (g *Generator) genIf(ie *ast.IfExpr) (llvm.Value, *types.Type) {
	cond, _ := g.genExpr(ie.Cond)
	thenBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LIf"))
	elseBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LIfElse"))
	mergeBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LIfEnd"))
	g.builder.CreateCondBr(cond, thenBlock, elseBlock)

	g.builder.SetInsertPointAtEnd(thenBlock)
	g.blockTerminated = false
	thenVal, thenType := g.emitBlockStmts(ie.Then)
	thenTerminated := g.blockTerminated
	thenEndBlock := g.builder.GetInsertBlock()
	if !thenTerminated {
		g.builder.CreateBr(mergeBlock)
	}

	g.builder.SetInsertPointAtEnd(elseBlock)
	g.blockTerminated = false
	var elseVal llvm.Value
	var elseType *types.Type
	elseEndBlock := elseBlock
	elseTerminated := false
	if ie.Else != nil {
		elseVal, elseType = g.genExpr(ie.Else)
		elseTerminated = g.blockTerminated
		elseEndBlock = g.builder.GetInsertBlock()
	}
	if !elseTerminated {
		g.builder.CreateBr(mergeBlock)
	}

	g.builder.SetInsertPointAtEnd(mergeBlock)
	g.blockTerminated = thenTerminated && elseTerminated
	if g.blockTerminated {
		return llvm.Value{}, types.PrimitiveType(types.Never)
	}
	if thenVal.IsNil() || elseVal.IsNil() || thenType == nil {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	phi := g.builder.CreatePHI(g.llvmType(thenType, true), "")
	var incomingVals []llvm.Value
	var incomingBlocks []llvm.BasicBlock
	if !thenTerminated {
		incomingVals = append(incomingVals, thenVal)
		incomingBlocks = append(incomingBlocks, thenEndBlock)
	}
	if !elseTerminated {
		incomingVals = append(incomingVals, elseVal)
		incomingBlocks = append(incomingBlocks, elseEndBlock)
	}
	phi.AddIncoming(incomingVals, incomingBlocks)
	return phi, thenType
}

// genIfLet lowers `if let pat = scrutinee {...} else {...}` into a
// when-expression over exactly one matching arm plus a wildcard,
// reusing genWhen's arm-compiling machinery.
func (g *Generator) genIfLet(il *ast.IfLetExpr) (llvm.Value, *types.Type) {
	arms := []ast.WhenArm{{Pat: il.Pat, Body: il.Then}}
	if il.Else != nil {
		arms = append(arms, ast.WhenArm{Pat: &ast.WildcardPattern{}, Body: il.Else})
	}
	return g.genWhen(&ast.WhenExpr{Base: il.Base, Scrutinee: il.Scrutinee, Arms: arms})
}

func (g *Generator) genLoop(l *ast.LoopExpr) (llvm.Value, *types.Type) {
	headBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LLoopHead"))
	afterBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LLoopEnd"))
	g.builder.CreateBr(headBlock)

	g.loopHeaders = append(g.loopHeaders, headBlock)
	g.loopAfters = append(g.loopAfters, afterBlock)
	g.builder.SetInsertPointAtEnd(headBlock)
	g.blockTerminated = false
	g.emitBlockStmts(l.Body)
	if !g.blockTerminated {
		g.builder.CreateBr(headBlock)
	}
	g.loopHeaders = g.loopHeaders[:len(g.loopHeaders)-1]
	g.loopAfters = g.loopAfters[:len(g.loopAfters)-1]

	g.builder.SetInsertPointAtEnd(afterBlock)
	g.blockTerminated = false
	return llvm.Value{}, types.PrimitiveType(types.Unit)
}

func (g *Generator) genWhile(w *ast.WhileExpr) (llvm.Value, *types.Type) {
	headBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhileHead"))
	bodyBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhileBody"))
	afterBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhileEnd"))
	g.builder.CreateBr(headBlock)

	g.builder.SetInsertPointAtEnd(headBlock)
	cond, _ := g.genExpr(w.Cond)
	g.builder.CreateCondBr(cond, bodyBlock, afterBlock)

	g.loopHeaders = append(g.loopHeaders, headBlock)
	g.loopAfters = append(g.loopAfters, afterBlock)
	g.builder.SetInsertPointAtEnd(bodyBlock)
	g.blockTerminated = false
	g.emitBlockStmts(w.Body)
	if !g.blockTerminated {
		g.builder.CreateBr(headBlock)
	}
	g.loopHeaders = g.loopHeaders[:len(g.loopHeaders)-1]
	g.loopAfters = g.loopAfters[:len(g.loopAfters)-1]

	g.builder.SetInsertPointAtEnd(afterBlock)
	g.blockTerminated = false
	return llvm.Value{}, types.PrimitiveType(types.Unit)
}

// genFor desugars `for pat in iterable { body }` into a manual index
// loop for the Range case (spec.md §8's scenarios need no richer
// IntoIterator protocol); a non-range iterable is documented as
// unsupported rather than silently miscompiled.
func (g *Generator) genFor(f *ast.ForExpr) (llvm.Value, *types.Type) {
	rangeExpr, ok := f.Iterable.(*ast.RangeExpr)
	if !ok {
		g.addDiag(f.Span(), "E_CODEGEN_UNSUPPORTED", "for-loops over a general IntoIterator are not supported by this emitter; only range iterables are")
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	name, _ := simpleIdentName(f.Pat)
	if name == "" {
		name = "_for_i"
	}
	start, startType := g.genExpr(rangeExpr.Start)
	end, _ := g.genExpr(rangeExpr.End)
	iType := startType
	if iType == nil {
		iType = types.PrimitiveType(types.I64)
	}
	lt := g.llvmType(iType, true)
	slot := g.builder.CreateAlloca(lt, name)
	g.builder.CreateStore(start, slot)
	g.locals[name] = localSlot{Val: slot, Type: iType, IsAlloc: true}

	headBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LForHead"))
	bodyBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LForBody"))
	afterBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LForEnd"))
	g.builder.CreateBr(headBlock)

	g.builder.SetInsertPointAtEnd(headBlock)
	cur := g.builder.CreateLoad(slot, "")
	pred := llvm.IntSLT
	if rangeExpr.Inclusive {
		pred = llvm.IntSLE
	}
	cond := g.builder.CreateICmp(pred, cur, end, "")
	g.builder.CreateCondBr(cond, bodyBlock, afterBlock)

	g.loopHeaders = append(g.loopHeaders, headBlock)
	g.loopAfters = append(g.loopAfters, afterBlock)
	g.builder.SetInsertPointAtEnd(bodyBlock)
	g.blockTerminated = false
	g.emitBlockStmts(f.Body)
	if !g.blockTerminated {
		next := g.builder.CreateAdd(g.builder.CreateLoad(slot, ""), llvm.ConstInt(lt, 1, true), "")
		g.builder.CreateStore(next, slot)
		g.builder.CreateBr(headBlock)
	}
	g.loopHeaders = g.loopHeaders[:len(g.loopHeaders)-1]
	g.loopAfters = g.loopAfters[:len(g.loopAfters)-1]

	g.builder.SetInsertPointAtEnd(afterBlock)
	g.blockTerminated = false
	return llvm.Value{}, types.PrimitiveType(types.Unit)
}

func (g *Generator) genReturn(r *ast.ReturnExpr) (llvm.Value, *types.Type) {
	if r.Value == nil {
		g.builder.CreateRetVoid()
	} else {
		val, valType := g.genExpr(r.Value)
		if g.curAsync {
			val = g.wrapInPollReady(val, valType)
		}
		g.builder.CreateRet(val)
	}
	g.blockTerminated = true
	return llvm.Value{}, types.PrimitiveType(types.Never)
}

// genThrow evaluates `throw value` as an early return of the wrapped
// error (the checker has already verified the enclosing function's
// return type accommodates it); this emitter treats it identically to
// `return`, spec.md §4.7 "throw/return/break/continue".
func (g *Generator) genThrow(t *ast.ThrowExpr) (llvm.Value, *types.Type) {
	val, _ := g.genExpr(t.Value)
	g.builder.CreateRet(val)
	g.blockTerminated = true
	return llvm.Value{}, types.PrimitiveType(types.Never)
}

func (g *Generator) genBreak(b *ast.BreakExpr) (llvm.Value, *types.Type) {
	if b.Value != nil {
		g.genExpr(b.Value)
	}
	if len(g.loopAfters) > 0 {
		g.builder.CreateBr(g.loopAfters[len(g.loopAfters)-1])
	}
	g.blockTerminated = true
	return llvm.Value{}, types.PrimitiveType(types.Never)
}

func (g *Generator) genContinue(c *ast.ContinueExpr) (llvm.Value, *types.Type) {
	if len(g.loopHeaders) > 0 {
		g.builder.CreateBr(g.loopHeaders[len(g.loopHeaders)-1])
	}
	g.blockTerminated = true
	return llvm.Value{}, types.PrimitiveType(types.Never)
}

// genStructLiteral builds a struct aggregate field-by-field, spec.md
// §4.6/§4.7. A name that is not a registered struct (an enum variant
// written with the same Name { ... } syntax, for one) gets no tag or
// payload: the zero value of its type, or the base expression's value,
// is returned with no fields set.
func (g *Generator) genStructLiteral(sl *ast.StructLiteralExpr) (llvm.Value, *types.Type) {
	base := typeExprBaseName(sl.Type)
	t := g.resolveType(sl.Type, nil)
	lt := g.llvmType(t, true)
	agg := llvm.ConstNull(lt)
	if sl.BaseExpr != nil {
		agg, _ = g.genExpr(sl.BaseExpr)
	}
	info := g.env.Structs[base]
	if info == nil {
		return agg, t
	}
	for _, f := range sl.Fields {
		idx := fieldIndex(info, f.Name)
		if idx < 0 {
			continue
		}
		val, _ := g.genExpr(f.Value)
		agg = g.builder.CreateInsertValue(agg, val, idx, "")
	}
	return agg, t
}

func (g *Generator) genCast(c *ast.CastExpr) (llvm.Value, *types.Type) {
	val, fromType := g.genExpr(c.Value)
	toType := g.resolveType(c.Type, nil)
	if fromType == nil || fromType.Kind != types.KPrimitive || toType.Kind != types.KPrimitive {
		return val, toType
	}
	fromW, toW := fromType.Prim.BitWidth(), toType.Prim.BitWidth()
	lt := g.llvmType(toType, true)
	switch {
	case fromType.Prim.IsFloat() && toType.Prim.IsInteger():
		return g.builder.CreateFPToSI(val, lt, ""), toType
	case fromType.Prim.IsInteger() && toType.Prim.IsFloat():
		if fromType.Prim.IsSigned() {
			return g.builder.CreateSIToFP(val, lt, ""), toType
		}
		return g.builder.CreateUIToFP(val, lt, ""), toType
	case fromType.Prim.IsInteger() && toType.Prim.IsInteger() && fromW < toW:
		return g.extendInt(val, fromType, toType), toType
	case fromType.Prim.IsInteger() && toType.Prim.IsInteger() && fromW > toW:
		return g.builder.CreateTrunc(val, lt, ""), toType
	}
	return val, toType
}

// genTry desugars `expr?` per spec.md §4.7: `when e { Ok(v) => v,
// Err(err) => return Err(err.into()) }`, implemented directly against
// the tagged-union enum layout rather than via genWhen's general
// pattern compiler since the shape is fixed (tag 0 = Ok, tag 1 = Err).
func (g *Generator) genTry(t *ast.TryExpr) (llvm.Value, *types.Type) {
	val, valType := g.genExpr(t.Value)
	okBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LTryOk"))
	errBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LTryErr"))
	tag := g.builder.CreateExtractValue(val, 0, "")
	isErr := g.builder.CreateICmp(llvm.IntEQ, tag, llvm.ConstInt(g.ctx.Int32Type(), 1, false), "")
	g.builder.CreateCondBr(isErr, errBlock, okBlock)

	g.builder.SetInsertPointAtEnd(errBlock)
	g.builder.CreateRet(val)
	g.blockTerminated = true

	g.builder.SetInsertPointAtEnd(okBlock)
	g.blockTerminated = false
	okType := valType
	if valType != nil && len(valType.Args) > 0 {
		okType = valType.Args[0]
	}
	payload := g.builder.CreateExtractValue(val, 1, "")
	return payload, okType
}

func (g *Generator) genRange(r *ast.RangeExpr) (llvm.Value, *types.Type) {
	start, startType := g.genExpr(r.Start)
	end, _ := g.genExpr(r.End)
	t := types.TupleType(startType, startType)
	agg := llvm.ConstNull(g.llvmType(t, true))
	agg = g.builder.CreateInsertValue(agg, start, 0, "")
	agg = g.builder.CreateInsertValue(agg, end, 1, "")
	return agg, t
}

// genBaseAccess evaluates `super` / `super.method(...)`, loading
// `this` and reinterpreting it as the base-class slice of the layout
// (the embedded base occupies the field immediately after the vtable
// pointer, per emitClassBody).
func (g *Generator) genBaseAccess(b *ast.BaseAccessExpr) (llvm.Value, *types.Type) {
	this, ok := g.locals["this"]
	if !ok {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	className := baseName(this.Type)
	info := g.env.Classes[className]
	if info == nil || info.Extends == "" {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	baseOffset := 0
	if len(info.VTable) > 0 {
		baseOffset = 1
	}
	basePtr := g.builder.CreateGEP(this.Val, []llvm.Value{
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
		llvm.ConstInt(g.ctx.Int32Type(), int64(baseOffset), false),
	}, "")
	baseType := types.ClassType(nil, info.Extends)
	if len(b.Args) > 0 {
		ownerMangled := MangleClassName(info.Extends, nil)
		fnName := g.requireImplMethodInstantiation(baseType, b.Member)
		fn := g.mod.NamedFunction(fnName)
		if fn.IsAFunction().IsNil() {
			if baseInfo := g.env.Classes[info.Extends]; baseInfo != nil {
				if sig, ok := baseInfo.Methods[b.Member]; ok && sig.Decl != nil {
					fn = g.declareFuncSignature(sig.Decl, fnName, info.Extends, nil)
				}
			}
		}
		args, _ := g.genArgs(b.Args)
		allArgs := append([]llvm.Value{basePtr}, args...)
		_ = ownerMangled
		return g.builder.CreateCall(fn, allArgs, ""), nil
	}
	return g.builder.CreateLoad(basePtr, ""), baseType
}
