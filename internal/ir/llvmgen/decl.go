// Declaration emission: struct/enum/class/function/impl/const/use/mod,
// spec.md §4.6. Grounded on src/ir/llvm/transform.go's genFuncHeader +
// genFuncBody two-pass shape (declare every function signature before
// emitting any body, so forward calls resolve) widened from one
// declaration kind to TML's full surface.
package llvmgen

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/token"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// EmitModule is the emitter's entry point: it walks every top-level
// declaration of mod, declaring non-generic shapes and signatures in a
// first pass and bodies in a second, mirroring GenLLVM's own two passes
// (teacher's transform.go separates "declare" from "define" the same
// way so a function may call one declared later in the file).
func (g *Generator) EmitModule(mod *ast.Module) {
	var funcs []*ast.FuncDecl
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			g.declareStruct(decl)
		case *ast.EnumDecl:
			g.declareEnum(decl)
		case *ast.ClassDecl:
			g.declareClass(decl)
		case *ast.FuncDecl:
			g.declareFunc(decl)
			funcs = append(funcs, decl)
		case *ast.ImplDecl:
			g.declareImpl(decl)
		case *ast.BehaviorDecl:
			g.declareBehaviorDefaults(decl)
		case *ast.ConstDecl:
			g.declareConst(decl)
		case *ast.UseDecl, *ast.ModDecl, *ast.NamespaceDecl, *ast.TypeAliasDecl, *ast.UnionDecl, *ast.InterfaceDecl:
			// No IR: spec.md §4.6 "use/mod/namespace" update only the
			// resolution map, which internal/registry already built.
		}
	}
	for _, fn := range funcs {
		if len(fn.Generics) == 0 && fn.Body != nil {
			g.emitFuncBody(fn, llvm.Value{}, nil, nil)
		}
	}
	g.runFixpoints()
}

// ---------------------------------------------------------------
// Struct
// ---------------------------------------------------------------

func (g *Generator) declareStruct(d *ast.StructDecl) {
	if len(d.Generics) > 0 {
		g.pendingGenericStructs[d.Name] = d
		return
	}
	mangled := MangleStructName(d.Name, nil)
	st := g.requireStructInstantiation(d.Name, nil, mangled)
	_ = st
	inst := g.structInstantiations[mangled]
	g.emitStructBody(mangled, inst)
	inst.Generated = true
}

// emitStructBody fills in a previously-opaque %struct.<mangled> named
// type with its field types in declared order, substituting generic
// instantiation arguments where the struct is parameterized.
func (g *Generator) emitStructBody(mangled string, inst *instantiation) {
	info := g.env.Structs[inst.Base]
	st, ok := g.structTypes[mangled]
	if info == nil || !ok {
		return
	}
	gb := bindGenerics(info.Generics, inst.Args)
	fields := make([]llvm.Type, len(info.FieldOrder))
	for i, name := range info.FieldOrder {
		ft := substituteGenerics(info.FieldTypes[name], gb)
		fields[i] = g.llvmType(ft, true)
	}
	st.StructSetBody(fields, false)
}

// ---------------------------------------------------------------
// Enum
// ---------------------------------------------------------------

func (g *Generator) declareEnum(d *ast.EnumDecl) {
	if len(d.Generics) > 0 {
		g.pendingGenericEnums[d.Name] = d
		return
	}
	mangled := MangleStructName(d.Name, nil)
	g.requireEnumInstantiation(d.Name, nil, mangled)
	inst := g.enumInstantiations[mangled]
	g.emitEnumBody(mangled, inst)
	inst.Generated = true
}

// emitEnumBody builds the %struct.<mangled> tagged-union representation
// {i32 tag, [N x i8] payload}, or substitutes a bare ptr when the
// nullable Maybe[T] optimization (spec.md §4.6) applies.
func (g *Generator) emitEnumBody(mangled string, inst *instantiation) {
	layout := g.enumLayouts[mangled]
	if layout == nil {
		return
	}
	if layout.Nullable {
		// Bare ptr: no named struct type to fill in, and no backing
		// %struct.<mangled> was requested for this mangled name by
		// llvmType (KNamed + nullableMaybeTypes short-circuits there).
		return
	}
	st, ok := g.structTypes[mangled]
	if !ok {
		st = g.ctx.StructCreateNamed("struct." + mangled)
		g.structTypes[mangled] = st
	}
	payload := layout.PayloadSize
	if payload == 0 {
		st.StructSetBody([]llvm.Type{g.ctx.Int32Type()}, false)
		return
	}
	st.StructSetBody([]llvm.Type{g.ctx.Int32Type(), llvm.ArrayType(g.ctx.Int8Type(), int(payload))}, false)
}

// ---------------------------------------------------------------
// Class
// ---------------------------------------------------------------

func (g *Generator) declareClass(d *ast.ClassDecl) {
	if len(d.Generics) > 0 {
		g.pendingGenericClasses[d.Name] = d
		return
	}
	mangled := MangleClassName(d.Name, nil)
	g.requireClassInstantiation(d.Name, nil, mangled)
	inst := g.classInstantiations[mangled]
	g.emitClassBody(mangled, inst)
	inst.Generated = true
	g.declareStaticFields(d.Name, d)
	g.declareClassMethods(d.Name, nil, d)
	g.buildClassVTables(d.Name, d)
}

// emitClassBody lays out %class.<mangled> with a leading vtable pointer
// field (spec.md §4.6 "Class") whenever the checker's VTable for the
// class is non-empty, which is the case as soon as the class or an
// ancestor declares any method, virtual or not; then the embedded base
// class's own fields, then this class's own fields.
func (g *Generator) emitClassBody(mangled string, inst *instantiation) {
	info := g.env.Classes[inst.Base]
	ct, ok := g.classTypes[mangled]
	if info == nil || !ok {
		return
	}
	gb := bindGenerics(info.Generics, inst.Args)
	var fields []llvm.Type
	if len(info.VTable) > 0 {
		fields = append(fields, llvm.PointerType(g.ctx.Int8Type(), 0))
	}
	if info.Extends != "" {
		if base := g.env.Classes[info.Extends]; base != nil {
			baseMangled := MangleClassName(info.Extends, nil)
			fields = append(fields, g.requireClassInstantiation(info.Extends, nil, baseMangled))
		}
	}
	for _, name := range info.FieldOrder {
		ft := substituteGenerics(info.FieldTypes[name], gb)
		fields = append(fields, g.llvmType(ft, true))
	}
	ct.StructSetBody(fields, false)
}

// declareStaticFields emits @static.<Class>.<field> globals, spec.md
// §4.6's "static fields as module-level globals".
func (g *Generator) declareStaticFields(className string, d *ast.ClassDecl) {
	info := g.env.Classes[className]
	if info == nil {
		return
	}
	for name, t := range info.StaticFields {
		gname := g.symbolName("static." + className + "." + name)
		if !g.mod.NamedGlobal(gname).IsNil() {
			continue
		}
		gv := llvm.AddGlobal(g.mod, g.llvmType(t, true), gname)
		gv.SetInitializer(llvm.ConstNull(g.llvmType(t, true)))
		_ = d
	}
}

// declareClassMethods declares (and, for non-generic owners, emits)
// every @tml_<ClassMangled>_<method> function, spec.md §4.6.
func (g *Generator) declareClassMethods(className string, args []*types.Type, d *ast.ClassDecl) {
	ownerMangled := MangleClassName(className, args)
	for _, m := range d.Methods {
		fn := m.Fn
		fnName := g.symbolName(MangleMethodName(ownerMangled, fn.Name))
		if g.generatedFunctions[fnName] {
			continue
		}
		g.generatedFunctions[fnName] = true
		sig := g.declareFuncSignature(fn, fnName, className, args)
		if len(fn.Generics) == 0 && fn.Body != nil && !m.Abstract {
			g.emitFuncBody(fn, sig, nil, types.ClassType(nil, className, args...))
		}
	}
	for _, c := range d.Ctors {
		g.declareConstructor(className, args, c)
	}
}

// declareConstructor emits @tml_<ClassMangled>_new(params) -> ptr,
// allocating the instance then running the constructor body with
// `this` bound to the fresh allocation.
func (g *Generator) declareConstructor(className string, args []*types.Type, c *ast.ConstructorDecl) {
	ownerMangled := MangleClassName(className, args)
	fnName := g.symbolName("tml_" + ownerMangled + "_new")
	if g.generatedFunctions[fnName] {
		return
	}
	g.generatedFunctions[fnName] = true
	classType := g.requireClassInstantiation(className, args, ownerMangled)
	params := make([]llvm.Type, len(c.Params))
	for i, p := range c.Params {
		params[i] = g.llvmType(g.resolveType(p.Type, nil), true)
	}
	ft := llvm.FunctionType(llvm.PointerType(classType, 0), params, false)
	fn := llvm.AddFunction(g.mod, fnName, ft)

	entry := g.ctx.AddBasicBlock(fn, "entry")
	g.builder.SetInsertPointAtEnd(entry)
	this := g.builder.CreateAlloca(classType, "this")
	g.builder.CreateStore(llvm.ConstNull(classType), this)
	g.installVTablePointer(this, className)

	g.curFunc = fn
	g.curRetType = types.ClassType(nil, className, args...)
	g.locals = map[string]localSlot{"this": {Val: this, Type: g.curRetType, IsAlloc: true}}
	for i, p := range c.Params {
		g.locals[p.Name] = localSlot{Val: fn.Param(i), Type: g.resolveType(p.Type, nil)}
	}
	g.dropScopes = nil
	g.consumed = map[string]bool{}
	g.blockTerminated = false
	if c.Body != nil {
		g.emitBlockStmts(c.Body)
	}
	if !g.blockTerminated {
		g.builder.CreateRet(this)
	}
}

// installVTablePointer stores className's static vtable constant into
// the leading vtable-ptr field of a freshly allocated instance, when
// className's checker VTable is non-empty.
func (g *Generator) installVTablePointer(instancePtr llvm.Value, className string) {
	info := g.env.Classes[className]
	if info == nil || len(info.VTable) == 0 {
		return
	}
	for _, impl := range info.Implements {
		vt := g.vtableGlobal(className, impl)
		if vt.IsNil() {
			continue
		}
		slot := g.builder.CreateGEP(instancePtr, []llvm.Value{
			llvm.ConstInt(g.ctx.Int32Type(), 0, false),
			llvm.ConstInt(g.ctx.Int32Type(), 0, false),
		}, "")
		g.builder.CreateStore(vt, slot)
		return
	}
}

// ---------------------------------------------------------------
// Function (free, non-method)
// ---------------------------------------------------------------

func (g *Generator) declareFunc(d *ast.FuncDecl) {
	if len(d.Generics) > 0 {
		g.pendingGenericFuncs[d.Name] = d
		return
	}
	fnName := g.symbolName(MangleFuncName(d.Name, nil))
	if g.generatedFunctions[fnName] {
		return
	}
	g.generatedFunctions[fnName] = true
	g.declareFuncSignature(d, fnName, "", nil)
}

// declareFuncSignature adds (or returns, if already declared) the
// llvm.Value for one function's signature, handling spec.md §4.6's
// async Poll[T] return-type rewrite and @extern Bool-parameter
// widening (i1 becomes i32).
// thisScalarType, when set, is the non-class receiver's semantic type
// (e.g. I32 for `impl I32 { func double(mut this) ... }`), so the
// receiver pointer's pointee type matches what emitFuncBody's `this`
// binding will load/store through rather than defaulting to opaque
// `ptr i8`.
func (g *Generator) declareFuncSignature(d *ast.FuncDecl, fnName, ownerClass string, ownerArgs []*types.Type, thisScalarType ...*types.Type) llvm.Value {
	if existing := g.mod.NamedFunction(fnName); !existing.IsAFunction().IsNil() {
		return existing
	}
	var params []llvm.Type
	if d.ThisParam != nil {
		if ownerClass != "" {
			ct := g.requireClassInstantiation(ownerClass, ownerArgs, MangleClassName(ownerClass, ownerArgs))
			params = append(params, llvm.PointerType(ct, 0))
		} else if len(thisScalarType) > 0 && thisScalarType[0] != nil {
			params = append(params, llvm.PointerType(g.llvmType(thisScalarType[0], true), 0))
		} else {
			params = append(params, llvm.PointerType(g.ctx.Int8Type(), 0))
		}
	}
	for _, p := range d.Params {
		params = append(params, g.llvmType(g.resolveType(p.Type, nil), true))
	}
	retType := g.resolveType(d.RetType, nil)
	if d.Async {
		retType = types.NamedType(nil, "Poll", retType)
	}
	if isExternDecorated(d) {
		params = boolPromoteExtern(g.ctx, params, d)
	}
	ft := llvm.FunctionType(g.llvmReturnType(retType), params, false)
	fn := llvm.AddFunction(g.mod, fnName, ft)
	if g.opts.ForceInternalLinkage || d.Vis != ast.VisPublic {
		fn.SetLinkage(llvm.InternalLinkage)
	}
	return fn
}

func isExternDecorated(d *ast.FuncDecl) bool {
	for _, dec := range d.Decorators {
		if dec.Name == "extern" {
			return true
		}
	}
	return false
}

// boolPromoteExtern widens any i1 parameter to i32 at an @extern
// boundary, spec.md §4.6's "bool -> i32 promotion at the ABI boundary".
func boolPromoteExtern(ctx llvm.Context, params []llvm.Type, d *ast.FuncDecl) []llvm.Type {
	out := make([]llvm.Type, len(params))
	copy(out, params)
	for i := range out {
		if out[i] == ctx.Int1Type() {
			out[i] = ctx.Int32Type()
		}
	}
	return out
}

// typeForName resolves a bare type name (as recorded on an ImplInfo's
// TargetName, or an impl/class declaration's own name) to the
// types.Type an instance of it has, consulting the shared Env for a
// struct/class/enum match before falling back to a primitive name —
// the same three-way lookup resolveType itself does for a
// *ast.NamedTypeExpr, exposed here for call sites that only have the
// bare name string rather than the original AST node.
func (g *Generator) typeForName(name string, args []*types.Type) *types.Type {
	if _, ok := g.env.Classes[name]; ok {
		return types.ClassType(nil, name, args...)
	}
	if p, ok := primitiveByName(name); ok {
		return types.PrimitiveType(p)
	}
	return types.NamedType(nil, name, args...)
}

// emitFuncBody emits the body of a non-generic function or method,
// binding params/this into locals and wrapping an async function's
// tail value with wrap_in_poll_ready (spec.md §4.6 "async"). thisType
// is the semantic type of the method's receiver (nil for a free
// function); a scalar (primitive) receiver is bound as an alloc slot
// so arithmetic on `this` loads through its pointer and `this = ...`
// is assignable the same way a `var` local is, while a class/struct
// receiver keeps reference semantics (bound as the bare pointer value,
// matching genIdent/fieldGEPTyped's fallback for reference-typed
// receivers).
func (g *Generator) emitFuncBody(d *ast.FuncDecl, fn llvm.Value, gb genericBinding, thisType *types.Type) {
	fnName := g.symbolName(MangleFuncName(d.Name, nil))
	if !fn.IsNil() {
	} else {
		fn = g.declareFuncSignature(d, fnName, "", nil)
	}
	if fn.BasicBlocksCount() > 0 {
		return // already emitted (e.g. re-reached via the functions fixpoint).
	}
	entry := g.ctx.AddBasicBlock(fn, "entry")
	g.builder.SetInsertPointAtEnd(entry)
	g.attachDebugLoc(d.Sp.StartLine, d.Sp.StartCol)
	g.instrumentCoverage(fn, fn.Name())

	g.curFunc = fn
	g.curAsync = d.Async
	g.curRetType = g.resolveType(d.RetType, gb)
	g.locals = map[string]localSlot{}
	g.dropScopes = nil
	g.consumed = map[string]bool{}
	g.loopHeaders = nil
	g.loopAfters = nil
	g.blockTerminated = false

	idx := 0
	if d.ThisParam != nil {
		scalarThis := thisType != nil && thisType.Kind == types.KPrimitive
		g.locals["this"] = localSlot{Val: fn.Param(idx), Type: thisType, IsAlloc: scalarThis}
		idx++
	}
	for _, p := range d.Params {
		g.locals[p.Name] = localSlot{Val: fn.Param(idx), Type: g.resolveType(p.Type, gb)}
		idx++
	}

	if d.Body == nil {
		g.builder.CreateRetVoid()
		return
	}
	tail, tailType := g.emitBlockStmts(d.Body)
	if !g.blockTerminated {
		g.emitImplicitReturn(tail, tailType)
	}
}

// emitImplicitReturn implements spec.md §4.7 Invariant B's "implicit
// ret only if the block is not already terminated": a function whose
// declared return type is Unit gets a bare `ret void`; otherwise the
// block's tail value is returned (wrapped in Poll::Ready for async).
func (g *Generator) emitImplicitReturn(tail llvm.Value, tailType *types.Type) {
	if g.curRetType == nil || (g.curRetType.Kind == types.KPrimitive && (g.curRetType.Prim == types.Unit || g.curRetType.Prim == types.Never)) {
		g.builder.CreateRetVoid()
		return
	}
	if tail.IsNil() {
		g.builder.CreateRetVoid()
		return
	}
	if g.curAsync {
		tail = g.wrapInPollReady(tail, tailType)
	}
	g.builder.CreateRet(tail)
}

// wrapInPollReady builds a Poll[T]::Ready(value) enum payload for an
// async function's natural return, spec.md §4.6 "async functions'
// declared return type T is rewritten to Poll[T]".
func (g *Generator) wrapInPollReady(val llvm.Value, valType *types.Type) llvm.Value {
	pollType := g.llvmType(types.NamedType(nil, "Poll", valType), true)
	agg := llvm.ConstNull(pollType)
	agg = g.builder.CreateInsertValue(agg, llvm.ConstInt(g.ctx.Int32Type(), 0, false), 0, "")
	return agg
}

// emitGenericFuncInstance emits one memoized monomorphization of a
// generic free function, spec.md §4.8.
func (g *Generator) emitGenericFuncInstance(mangled string, inst *instantiation) {
	d := g.pendingGenericFuncs[inst.Base]
	if d == nil {
		return
	}
	gb := bindGenerics(namesOf(d.Generics), inst.Args)
	fn := g.declareFuncSignature(d, g.symbolName(mangled), "", nil)
	g.emitFuncBody(d, fn, gb, nil)
}

func namesOf(ps []ast.GenericParam) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// ---------------------------------------------------------------
// Impl blocks
// ---------------------------------------------------------------

func (g *Generator) declareImpl(d *ast.ImplDecl) {
	targetName := typeExprBaseName(d.Target)
	if len(d.Generics) > 0 {
		g.pendingGenericImpls[targetName] = append(g.pendingGenericImpls[targetName], d)
		return
	}
	targetArgs := g.resolveTypeArgs(d.Target)
	ownerMangled := MangleType(g.resolveType(d.Target, nil))
	for _, m := range d.Methods {
		fnName := g.symbolName(MangleMethodName(ownerMangled, m.Name))
		if g.generatedFunctions[fnName] {
			continue
		}
		g.generatedFunctions[fnName] = true
		_, isClass := g.env.Classes[targetName]
		thisType := g.typeForName(targetName, targetArgs)
		var fn llvm.Value
		if isClass {
			fn = g.declareFuncSignature(m, fnName, targetName, targetArgs)
		} else {
			fn = g.declareFuncSignature(m, fnName, "", nil, thisType)
		}
		if !isClass && len(m.Generics) == 0 && m.Body != nil {
			g.emitFuncBody(m, fn, nil, thisType)
		}
	}
	for _, c := range d.Consts {
		g.declareConst(c)
	}
}

// emitImplMethodInstance runs spec.md §4.8's impl-method instantiation
// queue entries built by requireImplMethodInstantiation.
func (g *Generator) emitImplMethodInstance(w implMethodWork) {
	fnName := g.symbolName(MangleMethodName(w.OwnerMangled, w.Method.Name))
	thisType := g.typeForName(w.Impl.TargetName, w.TargetArgs)
	fn := g.mod.NamedFunction(fnName)
	if fn.IsAFunction().IsNil() {
		if _, isClass := g.env.Classes[w.Impl.TargetName]; isClass {
			fn = g.declareFuncSignature(w.Method, fnName, w.Impl.TargetName, w.TargetArgs)
		} else {
			fn = g.declareFuncSignature(w.Method, fnName, "", nil, thisType)
		}
	}
	gb := bindGenerics(w.Impl.Generics, w.TargetArgs)
	for k, v := range w.Impl.TypeBindings {
		gb[k] = v
	}
	g.emitFuncBody(w.Method, fn, gb, thisType)
}

func typeExprBaseName(te ast.TypeExpr) string {
	if n, ok := te.(*ast.NamedTypeExpr); ok {
		return n.Name
	}
	return ""
}

func (g *Generator) resolveTypeArgs(te ast.TypeExpr) []*types.Type {
	n, ok := te.(*ast.NamedTypeExpr)
	if !ok {
		return nil
	}
	args := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.resolveType(a, nil)
	}
	return args
}

// ---------------------------------------------------------------
// Behavior default methods
// ---------------------------------------------------------------

// declareBehaviorDefaults records a behavior's default method bodies
// so buildClassVTables/impl-method resolution can fall back to them
// when a concrete impl omits the method, spec.md §4.6 "behavior
// default methods are synthesized per (T, B) pair that inherits them".
func (g *Generator) declareBehaviorDefaults(d *ast.BehaviorDecl) {
	for _, m := range d.Methods {
		if m.Body == nil {
			continue
		}
		g.behaviorDefaults(d.Name)[m.Name] = m
	}
}

func (g *Generator) behaviorDefaults(behaviorName string) map[string]*ast.FuncDecl {
	m, ok := g.behaviorDefaultMethods[behaviorName]
	if !ok {
		m = map[string]*ast.FuncDecl{}
		g.behaviorDefaultMethods[behaviorName] = m
	}
	return m
}

// ---------------------------------------------------------------
// Const
// ---------------------------------------------------------------

// declareConst emits a module-level @const.<Name> global for a
// compile-time-evaluable constant, spec.md §4.6 "const".
func (g *Generator) declareConst(d *ast.ConstDecl) {
	gname := g.symbolName("const." + d.Name)
	if !g.mod.NamedGlobal(gname).IsNil() {
		return
	}
	t := g.resolveType(d.Type, nil)
	lt := g.llvmType(t, true)
	val, ok := g.evalConstExpr(d.Value, t)
	if !ok {
		g.addDiag(d.Sp, "E_CODEGEN_CONST", "const %s is not compile-time evaluable", d.Name)
		val = llvm.ConstNull(lt)
	}
	gv := llvm.AddGlobal(g.mod, lt, gname)
	gv.SetInitializer(val)
	gv.SetGlobalConstant(true)
	gv.SetLinkage(llvm.InternalLinkage)
}

// evalConstExpr evaluates the tiny constant-expression subset legal in
// a `const` initializer (integer/float/bool literals and +,-,*,/ over
// them), reporting false (division by zero, non-constant subexpression)
// rather than emitting a bogus value.
func (g *Generator) evalConstExpr(e ast.Expr, t *types.Type) (llvm.Value, bool) {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return g.constLiteralValue(v, t)
	case *ast.BinaryExpr:
		l, lok := g.evalConstExpr(v.Left, t)
		r, rok := g.evalConstExpr(v.Right, t)
		if !lok || !rok {
			return llvm.Value{}, false
		}
		if t.Kind == types.KPrimitive && t.Prim.IsFloat() {
			return g.evalConstFloatOp(v.Op, l, r)
		}
		return g.evalConstIntOp(v, l, r)
	case *ast.UnaryExpr:
		operand, ok := g.evalConstExpr(v.Operand, t)
		if !ok {
			return llvm.Value{}, false
		}
		if v.Op == "-" {
			return llvm.ConstNeg(operand), true
		}
		return operand, true
	}
	return llvm.Value{}, false
}

func (g *Generator) evalConstIntOp(v *ast.BinaryExpr, l, r llvm.Value) (llvm.Value, bool) {
	switch v.Op {
	case "+":
		return llvm.ConstAdd(l, r), true
	case "-":
		return llvm.ConstSub(l, r), true
	case "*":
		return llvm.ConstMul(l, r), true
	case "/":
		if r.IsAConstantInt().ZExtValue() == 0 {
			g.addDiag(v.Sp, "E_CODEGEN_DIV0", "division by zero in constant expression")
			return llvm.Value{}, false
		}
		return llvm.ConstSDiv(l, r), true
	}
	return llvm.Value{}, false
}

func (g *Generator) evalConstFloatOp(op string, l, r llvm.Value) (llvm.Value, bool) {
	switch op {
	case "+":
		return llvm.ConstFAdd(l, r), true
	case "-":
		return llvm.ConstFSub(l, r), true
	case "*":
		return llvm.ConstFMul(l, r), true
	case "/":
		return llvm.ConstFDiv(l, r), true
	}
	return llvm.Value{}, false
}

func (g *Generator) constLiteralValue(lit *ast.LiteralExpr, t *types.Type) (llvm.Value, bool) {
	lt := g.llvmType(t, true)
	switch lit.Kind {
	case ast.LitInt:
		if p, ok := lit.Payload.(token.IntPayload); ok {
			return llvm.ConstInt(lt, p.Magnitude, t.Prim.IsSigned()), true
		}
		return llvm.ConstInt(lt, 0, false), true
	case ast.LitFloat:
		if p, ok := lit.Payload.(token.FloatPayload); ok {
			return llvm.ConstFloat(lt, p.Value), true
		}
		return llvm.ConstFloat(lt, 0), true
	case ast.LitBool:
		b, _ := lit.Payload.(bool)
		v := uint64(0)
		if b {
			v = 1
		}
		return llvm.ConstInt(lt, v, false), true
	case ast.LitChar:
		c, _ := lit.Payload.(rune)
		return llvm.ConstInt(lt, uint64(c), false), true
	}
	return llvm.Value{}, false
}
