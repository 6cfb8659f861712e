// Vtables and dyn dispatch, spec.md §4.9. Grounded on
// src/ir/symtab.go's global symbol table idiom (one flat map of
// declared globals) specialized here to one %vtable.T.B layout plus
// one @vtable.T.B constant per (implementing type, behavior) pair.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// buildClassVTables emits one %vtable.T.B / @vtable.T.B pair per
// interface className implements, in the behavior's method
// declaration order (spec.md §4.9).
func (g *Generator) buildClassVTables(className string, d *ast.ClassDecl) {
	info := g.env.Classes[className]
	if info == nil {
		return
	}
	for _, behaviorName := range info.Implements {
		g.emitVTable(className, behaviorName)
	}
}

// emitVTable builds %vtable.<T>.<B> = type {ptr, ptr, ...} and its
// @vtable.<T>.<B> constant, one function-pointer slot per method of B
// in B's declared order, falling back to B's default method body
// (emitted directly by emitBehaviorDefaultForType) when T's own impl
// omits it.
func (g *Generator) emitVTable(typeName, behaviorName string) llvm.Value {
	key := typeName + "." + behaviorName
	if existing, ok := g.vtables[key]; ok {
		return existing
	}
	behavior := g.env.Behaviors[behaviorName]
	if behavior == nil {
		return llvm.Value{}
	}
	vtType := g.ctx.StructCreateNamed("vtable." + key)
	slotTypes := make([]llvm.Type, len(behavior.MethodOrder))
	for i := range behavior.MethodOrder {
		slotTypes[i] = llvm.PointerType(g.ctx.Int8Type(), 0)
	}
	vtType.StructSetBody(slotTypes, false)

	slots := make([]llvm.Value, len(behavior.MethodOrder))
	for i, methodName := range behavior.MethodOrder {
		slots[i] = g.vtableSlotValue(typeName, behaviorName, methodName)
	}
	vtConst := llvm.ConstNamedStruct(vtType, slots)
	gv := llvm.AddGlobal(g.mod, vtType, g.symbolName("vtable."+key))
	gv.SetInitializer(vtConst)
	gv.SetGlobalConstant(true)
	gv.SetLinkage(llvm.InternalLinkage)

	g.vtables[key] = gv
	return gv
}

// vtableSlotValue resolves one slot's function pointer: T's own
// method if it overrides it, else B's default method body emitted
// specifically for this (T, B) pair, spec.md §4.9 "behavior default
// methods are emitted per-(T,B) pair".
func (g *Generator) vtableSlotValue(typeName, behaviorName, methodName string) llvm.Value {
	ownerMangled := MangleClassName(typeName, nil)
	fnName := g.requireImplMethodInstantiation(types.ClassType(nil, typeName), methodName)
	if fn := g.mod.NamedFunction(fnName); !fn.IsAFunction().IsNil() {
		return fn
	}
	defaultFn := g.emitBehaviorDefaultForType(behaviorName, methodName, typeName, ownerMangled)
	if !defaultFn.IsNil() {
		return defaultFn
	}
	return llvm.ConstNull(llvm.PointerType(g.ctx.Int8Type(), 0))
}

// emitBehaviorDefaultForType emits one copy of behaviorName's default
// method body specialized for typeName's `this` type, named
// @tml_<typeMangled>_<method> just like a regular override would be
// (so dispatch and direct calls share one naming scheme).
func (g *Generator) emitBehaviorDefaultForType(behaviorName, methodName, typeName, ownerMangled string) llvm.Value {
	d := g.behaviorDefaultMethods[behaviorName][methodName]
	if d == nil {
		return llvm.Value{}
	}
	fnName := g.symbolName(MangleMethodName(ownerMangled, methodName))
	if g.generatedFunctions[fnName] {
		return g.mod.NamedFunction(fnName)
	}
	g.generatedFunctions[fnName] = true
	thisType := g.typeForName(typeName, nil)
	var fn llvm.Value
	if thisType.Kind == types.KPrimitive {
		fn = g.declareFuncSignature(d, fnName, "", nil, thisType)
	} else {
		fn = g.declareFuncSignature(d, fnName, typeName, nil)
	}
	g.emitFuncBody(d, fn, nil, thisType)
	return fn
}

// vtableGlobal returns the already-built @vtable.T.B constant for
// (typeName, behaviorName), building it on demand if a constructor
// needs to install it before buildClassVTables has run for that pair.
func (g *Generator) vtableGlobal(typeName, behaviorName string) llvm.Value {
	return g.emitVTable(typeName, behaviorName)
}

// dynBoxValue builds a `dyn B` fat value {data ptr, vtable ptr} from a
// concrete-typed operand, spec.md §4.9 "construction: box + copy +
// load vtable constant". dataPtr must already point at a heap or
// stack location the dyn value's lifetime can safely outlive to (the
// checker is responsible for the escape analysis this trusts).
func (g *Generator) dynBoxValue(dataPtr llvm.Value, concreteTypeName string, behaviors []types.NamedRef) llvm.Value {
	mangled := mangleBehaviors(behaviors)
	dt := g.dynType(mangled)
	agg := llvm.ConstNull(dt)
	agg = g.builder.CreateInsertValue(agg, dataPtr, 0, "")
	if len(behaviors) > 0 {
		vt := g.vtableGlobal(concreteTypeName, behaviors[0].Name)
		agg = g.builder.CreateInsertValue(agg, vt, 1, "")
	}
	return agg
}

// dynDispatchCall implements spec.md §4.9's dispatch sequence: load
// the vtable pointer out of the fat dyn value, GEP to the method's
// slot, load the function pointer, then call it with the dyn value's
// data pointer as the first (`this`) argument.
func (g *Generator) dynDispatchCall(dynVal llvm.Value, behaviorName, methodName string, args []llvm.Value, retType llvm.Type) llvm.Value {
	behavior := g.env.Behaviors[behaviorName]
	if behavior == nil {
		return llvm.Value{}
	}
	slotIdx := -1
	for i, m := range behavior.MethodOrder {
		if m == methodName {
			slotIdx = i
			break
		}
	}
	if slotIdx < 0 {
		return llvm.Value{}
	}
	dataPtr := g.builder.CreateExtractValue(dynVal, 0, "")
	vtablePtr := g.builder.CreateExtractValue(dynVal, 1, "")

	slotPtr := g.builder.CreateGEP(vtablePtr, []llvm.Value{
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
		llvm.ConstInt(g.ctx.Int32Type(), int64(slotIdx), false),
	}, "")
	fnPtr := g.builder.CreateLoad(slotPtr, "")
	callArgs := append([]llvm.Value{dataPtr}, args...)
	return g.builder.CreateCall(fnPtr, callArgs, "")
}

