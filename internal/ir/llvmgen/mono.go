// Monomorphization: turning a (base, type_args) request into a
// concrete, emitted struct/enum/class/function, spec.md §4.8.
//
// Grounded on src/ir/optimise.go's Optimise, which runs a bounded
// parallel fixpoint of tree-rewrite passes until no node changes;
// tmlc's fixpoint is single-threaded (spec.md §5 confines concurrency
// to cross-unit caches, not one compilation unit) but keeps the same
// "iterate until nothing new appears, capped by a safety counter"
// shape, generalized from one rewrite rule to four instantiation
// kinds running to a joint fixpoint.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// maxFixpointIterations bounds generate_pending_instantiations so a
// genuinely non-terminating instantiation graph is diagnosed instead
// of hung on, spec.md §4.8 "each iteration is bounded by a safety cap".
const maxFixpointIterations = 100

// requireStructInstantiation implements spec.md §4.8's
// require_struct_instantiation: memoized by mangled name, creating the
// named LLVM struct type at once (opaque until the body fixpoint sets
// its fields) so references to it can be built right away. Field
// indices at access sites come from the checker's env.Structs.
func (g *Generator) requireStructInstantiation(base string, args []*types.Type, mangled string) llvm.Type {
	if st, ok := g.structTypes[mangled]; ok {
		return st
	}
	inst, ok := g.structInstantiations[mangled]
	if !ok {
		inst = &instantiation{Base: base, Args: args, Mangled: mangled}
		g.structInstantiations[mangled] = inst
	}
	st := g.ctx.StructCreateNamed("struct." + mangled)
	g.structTypes[mangled] = st // opaque until emitStructBody fills it in during the fixpoint.
	return st
}

// requireClassInstantiation is requireStructInstantiation's class
// counterpart; layout differs (vtable-ptr-first, base embedding,
// spec.md §4.6 "Class") but the memoization shape is identical.
func (g *Generator) requireClassInstantiation(base string, args []*types.Type, mangled string) llvm.Type {
	if ct, ok := g.classTypes[mangled]; ok {
		return ct
	}
	inst, ok := g.classInstantiations[mangled]
	if !ok {
		inst = &instantiation{Base: base, Args: args, Mangled: mangled}
		g.classInstantiations[mangled] = inst
	}
	ct := g.ctx.StructCreateNamed("class." + mangled)
	g.classTypes[mangled] = ct
	return ct
}

// requireEnumInstantiation registers mangled's variant tags
// immediately (step 3: "for enums, immediately registers variant
// tags") since pattern matches against the enum need tag numbers
// before the fixpoint has necessarily emitted its body.
func (g *Generator) requireEnumInstantiation(base string, args []*types.Type, mangled string) {
	if _, ok := g.enumInstantiations[mangled]; ok {
		return
	}
	inst := &instantiation{Base: base, Args: args, Mangled: mangled}
	g.enumInstantiations[mangled] = inst

	info := g.env.Enums[base]
	if info == nil {
		return
	}
	layout := &enumLayout{Variants: make(map[string]int)}
	gb := bindGenerics(info.Generics, args)
	var maxPayload int64
	for _, v := range info.Variants {
		layout.Variants[v.Name] = v.Tag
		sz := g.variantPayloadSize(v, gb)
		if sz > maxPayload {
			maxPayload = sz
		}
	}
	layout.PayloadSize = maxPayload

	if base == "Maybe" && len(info.Variants) == 2 && len(args) == 1 {
		g.tryOptimizeNullableMaybe(mangled, info, args[0], layout)
	}
	g.enumLayouts[mangled] = layout
}

// tryOptimizeNullableMaybe implements spec.md §4.6's "Some two-variant
// Maybe[T] instantiations where the non-null variant is an owning
// pointer are optimized to bare ptr with null encoding Nothing".
func (g *Generator) tryOptimizeNullableMaybe(mangled string, info *types.EnumInfo, arg *types.Type, layout *enumLayout) {
	if arg.Kind != types.KPtr && arg.Kind != types.KNamed && arg.Kind != types.KClass {
		return
	}
	var justName, nothingName string
	for _, v := range info.Variants {
		switch {
		case len(v.TupleFields) == 1:
			justName = v.Name
		case len(v.TupleFields) == 0 && len(v.StructFields) == 0:
			nothingName = v.Name
		}
	}
	if justName == "" || nothingName == "" {
		return
	}
	layout.Nullable = true
	layout.NullTag = nothingName
	g.nullableMaybeTypes[mangled] = true
}

func (g *Generator) variantPayloadSize(v types.EnumVariantInfo, gb genericBinding) int64 {
	var size int64
	for _, f := range v.TupleFields {
		size += g.approxByteSize(substituteGenerics(f, gb))
	}
	for _, f := range v.StructTypes {
		size += g.approxByteSize(substituteGenerics(f, gb))
	}
	return size
}

// approxByteSize gives a conservative storage estimate used only to
// size an enum's payload byte array; it need not be exact to the bit
// for primitives narrower than a pointer, since the payload array is
// itself reinterpreted via bitcast/GEP at each access site.
func (g *Generator) approxByteSize(t *types.Type) int64 {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case types.KPrimitive:
		return int64(t.Prim.BitWidth()+7) / 8
	case types.KRef, types.KPtr, types.KClass, types.KDynBehavior, types.KImplBehavior, types.KFunc:
		return 8
	case types.KArray:
		return t.Size * g.approxByteSize(t.Elem)
	case types.KTuple:
		var s int64
		for _, e := range t.Elems {
			s += g.approxByteSize(e)
		}
		return s
	case types.KSlice:
		return 16
	}
	return 8
}

// requireFuncInstantiation is require_function_instantiation: a free
// generic function's memoized-by-mangled-name entry.
func (g *Generator) requireFuncInstantiation(base string, args []*types.Type, mangled string) *instantiation {
	inst, ok := g.funcInstantiations[mangled]
	if !ok {
		inst = &instantiation{Base: base, Args: args, Mangled: mangled}
		g.funcInstantiations[mangled] = inst
	}
	return inst
}

// bindGenerics pairs a declaration's generic parameter names with the
// concrete type arguments a particular instantiation supplies.
func bindGenerics(names []string, args []*types.Type) genericBinding {
	gb := make(genericBinding, len(names))
	for i, n := range names {
		if i < len(args) {
			gb[n] = args[i]
		}
	}
	return gb
}

// substituteGenerics replaces every KGeneric leaf of t with its bound
// concrete Type, recursively, leaving t unchanged where no binding
// applies (a parameter local to a narrower generic scope, e.g. a
// method-level [U] inside a generic impl[T]).
func substituteGenerics(t *types.Type, gb genericBinding) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KGeneric:
		if bound, ok := gb[t.Name]; ok {
			return bound
		}
		return t
	case types.KNamed, types.KClass:
		args := make([]*types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteGenerics(a, gb)
		}
		return &types.Type{Kind: t.Kind, ModulePath: t.ModulePath, Name: t.Name, Args: args}
	case types.KRef:
		return types.RefType(substituteGenerics(t.Elem, gb), t.RefMut)
	case types.KPtr:
		return types.PtrType(substituteGenerics(t.Elem, gb), t.RefMut)
	case types.KArray:
		return types.ArrayType(substituteGenerics(t.Elem, gb), t.Size)
	case types.KSlice:
		return types.SliceType(substituteGenerics(t.Elem, gb))
	case types.KTuple:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substituteGenerics(e, gb)
		}
		return types.TupleType(elems...)
	case types.KFunc:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substituteGenerics(p, gb)
		}
		return types.FuncType(params, substituteGenerics(t.Ret, gb), t.IsClosure)
	}
	return t
}

// runFixpoints drives spec.md §4.8's two nested fixpoints: a types
// fixpoint (struct/enum/class bodies, which may themselves reference
// further instantiations recursively) and a functions fixpoint
// (function/impl-method bodies, interleaved with an inner types pass).
func (g *Generator) runFixpoints() {
	for iter := 0; iter < maxFixpointIterations; iter++ {
		if !g.typesFixpointStep() {
			break
		}
		if iter == maxFixpointIterations-1 {
			g.addDiag(source.Span{}, "E_CODEGEN_INSTANTIATION_LOOP",
				"type instantiation did not converge after %d iterations", maxFixpointIterations)
		}
	}
	for iter := 0; iter < maxFixpointIterations; iter++ {
		changed := g.functionsFixpointStep()
		g.typesFixpointStep()
		if !changed {
			break
		}
		if iter == maxFixpointIterations-1 {
			g.addDiag(source.Span{}, "E_CODEGEN_INSTANTIATION_LOOP",
				"function instantiation did not converge after %d iterations", maxFixpointIterations)
		}
	}
}

func (g *Generator) typesFixpointStep() bool {
	changed := false
	for mangled, inst := range g.enumInstantiations {
		if inst.Generated {
			continue
		}
		g.emitEnumBody(mangled, inst)
		inst.Generated = true
		changed = true
	}
	for mangled, inst := range g.structInstantiations {
		if inst.Generated {
			continue
		}
		g.emitStructBody(mangled, inst)
		inst.Generated = true
		changed = true
	}
	for mangled, inst := range g.classInstantiations {
		if inst.Generated {
			continue
		}
		g.emitClassBody(mangled, inst)
		inst.Generated = true
		changed = true
	}
	return changed
}

func (g *Generator) functionsFixpointStep() bool {
	changed := false
	for mangled, inst := range g.funcInstantiations {
		if inst.Generated {
			continue
		}
		g.emitGenericFuncInstance(mangled, inst)
		inst.Generated = true
		changed = true
	}
	work := g.pendingImplMethodInsts
	g.pendingImplMethodInsts = nil
	for _, w := range work {
		g.emitImplMethodInstance(w)
		changed = true
	}
	return changed
}

// requireImplMethodInstantiation implements spec.md §4.8's
// impl-method instantiation algorithm: resolve the impl block that
// provides method for ownerType (checking the registered impls first,
// since module-registry on-demand parsing is handled one layer up by
// internal/registry before the Generator ever sees the module), then
// queue the body for emission by the functions fixpoint.
func (g *Generator) requireImplMethodInstantiation(ownerType *types.Type, methodName string) string {
	ownerMangled := MangleType(ownerType)
	fnName := MangleMethodName(ownerMangled, methodName)
	if g.generatedFunctions[fnName] {
		return fnName
	}
	impl := g.env.FindBehaviorImpl(baseName(ownerType), "")
	if impl != nil {
		if sig, ok := impl.Methods[methodName]; !ok || sig.Decl == nil {
			impl = nil
		}
	}
	if impl == nil {
		for _, im := range g.env.LookupImpls(baseName(ownerType)) {
			if sig, ok := im.Methods[methodName]; ok && sig.Decl != nil {
				impl = im
				break
			}
		}
	}
	if impl == nil {
		return fnName
	}
	sig, ok := impl.Methods[methodName]
	if !ok || sig.Decl == nil {
		return fnName
	}
	g.generatedFunctions[fnName] = true
	g.pendingImplMethodInsts = append(g.pendingImplMethodInsts, implMethodWork{
		OwnerMangled: ownerMangled,
		TargetArgs:   ownerType.Args,
		Method:       sig.Decl,
		Impl:         impl,
	})
	return fnName
}

func baseName(t *types.Type) string {
	if t == nil {
		return ""
	}
	return t.Name
}
