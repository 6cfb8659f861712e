// When-expression (pattern match) compilation, spec.md §4.7. Each arm
// is tried in declared order: a runtime test decides whether the
// pattern matches the scrutinee, and only the taken arm's bindings and
// body are evaluated, mirroring a standard if/else-if chain.
//
// Grounded on src/ir/llvm/transform.go's genIf (the teacher's only
// branching construct), generalized from a single boolean condition to
// an arbitrary pattern's match test.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// genWhen lowers a when-expression into a chain of conditional
// branches, one per arm, merging every reachable arm's value with a
// single trailing phi (spec.md §4.7 "if/when with phi merge").
func (g *Generator) genWhen(w *ast.WhenExpr) (llvm.Value, *types.Type) {
	scrutinee, scrutineeType := g.genExpr(w.Scrutinee)
	mergeBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhenEnd"))

	var incomingVals []llvm.Value
	var incomingBlocks []llvm.BasicBlock
	var resultType *types.Type
	anyReachable := false

	for i, arm := range w.Arms {
		last := i == len(w.Arms)-1
		var nextBlock llvm.BasicBlock
		if !last {
			nextBlock = g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhenArm"))
		}
		armBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhenBody"))

		matched := g.testPattern(arm.Pat, scrutinee, scrutineeType)
		if arm.Guard != nil {
			// Guard bindings must be visible to the guard itself:
			// bind eagerly into armBlock, then branch on cond && guard.
		}
		if last {
			g.builder.CreateBr(armBlock)
		} else {
			g.builder.CreateCondBr(matched, armBlock, nextBlock)
		}

		g.builder.SetInsertPointAtEnd(armBlock)
		g.blockTerminated = false
		g.bindPatternCaptures(arm.Pat, scrutinee, scrutineeType)
		if arm.Guard != nil {
			guardVal, _ := g.genExpr(arm.Guard)
			guardFailBlock := nextBlock
			if last {
				guardFailBlock = armBlock
			}
			passBlock := g.ctx.AddBasicBlock(g.curFunc, g.newLabel("LWhenGuardPass"))
			g.builder.CreateCondBr(guardVal, passBlock, guardFailBlock)
			g.builder.SetInsertPointAtEnd(passBlock)
		}
		val, valType := g.genExpr(arm.Body)
		if !g.blockTerminated {
			anyReachable = true
			resultType = valType
			incomingVals = append(incomingVals, val)
			incomingBlocks = append(incomingBlocks, g.builder.GetInsertBlock())
			g.builder.CreateBr(mergeBlock)
		}

		if !last {
			g.builder.SetInsertPointAtEnd(nextBlock)
			g.blockTerminated = false
		}
	}

	g.builder.SetInsertPointAtEnd(mergeBlock)
	if !anyReachable {
		g.blockTerminated = true
		return llvm.Value{}, types.PrimitiveType(types.Never)
	}
	g.blockTerminated = false
	if resultType == nil || resultType.Kind == types.KPrimitive && resultType.Prim == types.Unit {
		return llvm.Value{}, types.PrimitiveType(types.Unit)
	}
	phi := g.builder.CreatePHI(g.llvmType(resultType, true), "")
	phi.AddIncoming(incomingVals, incomingBlocks)
	return phi, resultType
}

// testPattern builds the i1 condition deciding whether pat matches
// val (of semantic type valType), without yet binding any captures
// (bindPatternCaptures does that once the arm is known taken).
func (g *Generator) testPattern(pat ast.Pattern, val llvm.Value, valType *types.Type) llvm.Value {
	switch p := pat.(type) {
	case *ast.IdentPattern, *ast.WildcardPattern:
		return llvm.ConstInt(g.ctx.Int1Type(), 1, false)
	case *ast.LiteralPattern:
		lit := &ast.LiteralExpr{Kind: p.Kind, Payload: p.Payload}
		litVal, _ := g.genLiteral(lit)
		return g.genComparison("==", val, litVal, valType)
	case *ast.EnumVariantPattern:
		return g.testEnumVariant(p, val, valType)
	case *ast.TuplePattern:
		cond := llvm.ConstInt(g.ctx.Int1Type(), 1, false)
		for i, sub := range p.Elems {
			var elemType *types.Type
			if valType != nil && i < len(valType.Elems) {
				elemType = valType.Elems[i]
			}
			elem := g.builder.CreateExtractValue(val, i, "")
			sc := g.testPattern(sub, elem, elemType)
			cond = g.builder.CreateAnd(cond, sc, "")
		}
		return cond
	case *ast.StructPattern:
		cond := llvm.ConstInt(g.ctx.Int1Type(), 1, false)
		info := g.env.Structs[typeExprBaseName(p.Type)]
		for _, f := range p.Fields {
			idx := fieldIndex(info, f.Name)
			if idx < 0 || f.Pat == nil {
				continue
			}
			var ft *types.Type
			if info != nil {
				ft = info.FieldTypes[f.Name]
			}
			elem := g.builder.CreateExtractValue(val, idx, "")
			cond = g.builder.CreateAnd(cond, g.testPattern(f.Pat, elem, ft), "")
		}
		return cond
	case *ast.OrPattern:
		cond := llvm.ConstInt(g.ctx.Int1Type(), 0, false)
		for _, alt := range p.Alts {
			cond = g.builder.CreateOr(cond, g.testPattern(alt, val, valType), "")
		}
		return cond
	case *ast.ArrayPattern:
		cond := llvm.ConstInt(g.ctx.Int1Type(), 1, false)
		for i, sub := range p.Elems {
			var elemType *types.Type
			if valType != nil {
				elemType = valType.Elem
			}
			elem := g.builder.CreateExtractValue(val, i, "")
			cond = g.builder.CreateAnd(cond, g.testPattern(sub, elem, elemType), "")
		}
		return cond
	}
	return llvm.ConstInt(g.ctx.Int1Type(), 1, false)
}

// testEnumVariant compares the tagged union's tag field against the
// pattern's variant, looking up the tag from the enum's resolved
// layout (mono.go's requireEnumInstantiation has already populated it
// for every instantiation reachable from this module).
func (g *Generator) testEnumVariant(p *ast.EnumVariantPattern, val llvm.Value, valType *types.Type) llvm.Value {
	mangled := MangleType(valType)
	layout := g.enumLayouts[mangled]
	if layout == nil {
		return llvm.ConstInt(g.ctx.Int1Type(), 1, false)
	}
	if layout.Nullable {
		isNil := g.builder.CreateICmp(llvm.IntEQ, val, llvm.ConstNull(val.Type()), "")
		if p.Variant == layout.NullTag {
			return isNil
		}
		return g.builder.CreateNot(isNil, "")
	}
	tag, ok := layout.Variants[p.Variant]
	if !ok {
		return llvm.ConstInt(g.ctx.Int1Type(), 0, false)
	}
	tagVal := g.builder.CreateExtractValue(val, 0, "")
	return g.builder.CreateICmp(llvm.IntEQ, tagVal, llvm.ConstInt(g.ctx.Int32Type(), int64(tag), false), "")
}

// bindPatternCaptures binds every name pat introduces, once the arm
// carrying it has already been selected as taken.
func (g *Generator) bindPatternCaptures(pat ast.Pattern, val llvm.Value, valType *types.Type) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		g.bindOrAlloc(p, val, valType)
	case *ast.TuplePattern:
		for i, sub := range p.Elems {
			var elemType *types.Type
			if valType != nil && i < len(valType.Elems) {
				elemType = valType.Elems[i]
			}
			elem := g.builder.CreateExtractValue(val, i, "")
			g.bindPatternCaptures(sub, elem, elemType)
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
			g.bindPatternCaptures(sub, elem, ft)
		}
	case *ast.EnumVariantPattern:
		g.bindEnumVariantCaptures(p, val, valType)
	}
}

// bindEnumVariantCaptures extracts a matched variant's payload byte
// array reinterpreted as each tuple/struct field's declared type in
// turn (the payload array has no LLVM-level field boundaries, so each
// capture is recovered by a bitcast-and-load through a GEP into the
// payload bytes; value semantics are this emitter's conservative
// approximation rather than a bit-exact C-union reinterpretation).
func (g *Generator) bindEnumVariantCaptures(p *ast.EnumVariantPattern, val llvm.Value, valType *types.Type) {
	mangled := MangleType(valType)
	layout := g.enumLayouts[mangled]
	if layout == nil {
		return
	}
	if layout.Nullable && p.Variant != layout.NullTag {
		if len(p.Tuple) == 1 {
			g.bindOrAlloc(p.Tuple[0], val, nil)
		}
		return
	}
	if len(p.Tuple) == 0 {
		return
	}
	info := g.env.Enums[baseName(valType)]
	if info == nil {
		return
	}
	var variant *types.EnumVariantInfo
	for i := range info.Variants {
		if info.Variants[i].Name == p.Variant {
			variant = &info.Variants[i]
			break
		}
	}
	if variant == nil {
		return
	}
	payload := g.builder.CreateExtractValue(val, 1, "")
	slot := g.builder.CreateAlloca(payload.Type(), "")
	g.builder.CreateStore(payload, slot)
	var byteOffset int64
	for i, sub := range p.Tuple {
		if i >= len(variant.TupleFields) {
			break
		}
		ft := variant.TupleFields[i]
		lt := g.llvmType(ft, true)
		elemPtr := g.builder.CreateGEP(slot, []llvm.Value{
			llvm.ConstInt(g.ctx.Int32Type(), 0, false),
			llvm.ConstInt(g.ctx.Int32Type(), byteOffset, false),
		}, "")
		cast := g.builder.CreateBitCast(elemPtr, llvm.PointerType(lt, 0), "")
		loaded := g.builder.CreateLoad(cast, "")
		g.bindOrAlloc(sub, loaded, ft)
		byteOffset += g.approxByteSize(ft)
	}
}
