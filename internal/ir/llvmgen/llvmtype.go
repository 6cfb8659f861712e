// llvmType constructs the real llvm.Type value a semantic Type
// lowers to, mirroring TypeOf's textual table (types.go) one-for-one
// but returning an API object instead of a string, for use wherever
// the emitter needs to actually build a value of that type (allocas,
// function signatures, GEPs) rather than only describe it.
//
// Grounded on src/ir/llvm/transform.go's genType, which returns an
// llvm.Type (i or f) from its own two-entry switch; this is that
// switch widened to every types.Kind.
package llvmgen

import (
	"fmt"

	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

func (g *Generator) llvmType(t *types.Type, forData bool) llvm.Type {
	if t == nil {
		return g.ctx.VoidType()
	}
	switch t.Kind {
	case types.KPrimitive:
		return g.llvmPrimitive(t.Prim, forData)
	case types.KNamed:
		mangled := MangleStructName(t.Name, t.Args)
		return g.requireStructInstantiation(t.Name, t.Args, mangled)
	case types.KClass:
		mangled := MangleClassName(t.Name, t.Args)
		if g.IsValueClass(mangled) {
			return g.requireClassInstantiation(t.Name, t.Args, mangled)
		}
		return llvm.PointerType(g.ctx.Int8Type(), 0)
	case types.KRef, types.KPtr:
		return llvm.PointerType(g.ctx.Int8Type(), 0)
	case types.KArray:
		return llvm.ArrayType(g.llvmType(t.Elem, true), int(t.Size))
	case types.KSlice:
		return g.ctx.StructType([]llvm.Type{llvm.PointerType(g.ctx.Int8Type(), 0), g.ctx.Int64Type()}, false)
	case types.KTuple:
		elems := make([]llvm.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = g.llvmType(e, true)
		}
		return g.ctx.StructType(elems, false)
	case types.KFunc:
		ptr := llvm.PointerType(g.ctx.Int8Type(), 0)
		if t.IsClosure {
			return g.ctx.StructType([]llvm.Type{ptr, ptr}, false)
		}
		return ptr
	case types.KDynBehavior, types.KImplBehavior:
		return g.dynType(mangleBehaviors(t.Behaviors))
	case types.KGeneric:
		return llvm.PointerType(g.ctx.Int8Type(), 0)
	}
	return llvm.PointerType(g.ctx.Int8Type(), 0)
}

// llvmReturnType is llvmType's return-position counterpart to
// ReturnTypeOf: Unit and Never both become LLVM void.
func (g *Generator) llvmReturnType(t *types.Type) llvm.Type {
	if t == nil || (t.Kind == types.KPrimitive && (t.Prim == types.Unit || t.Prim == types.Never)) {
		return g.ctx.VoidType()
	}
	return g.llvmType(t, false)
}

func (g *Generator) llvmPrimitive(p types.Primitive, forData bool) llvm.Type {
	switch p {
	case types.I8, types.U8:
		return g.ctx.Int8Type()
	case types.I16, types.U16:
		return g.ctx.Int16Type()
	case types.I32, types.U32:
		return g.ctx.Int32Type()
	case types.I64, types.U64:
		return g.ctx.Int64Type()
	case types.I128, types.U128:
		return g.ctx.IntType(128)
	case types.F32:
		return g.ctx.FloatType()
	case types.F64:
		return g.ctx.DoubleType()
	case types.Bool:
		return g.ctx.Int1Type()
	case types.Char:
		return g.ctx.Int32Type()
	case types.Str:
		return llvm.PointerType(g.ctx.Int8Type(), 0)
	case types.Unit:
		if forData {
			return g.ctx.StructType(nil, false)
		}
		return g.ctx.VoidType()
	case types.Never:
		return g.ctx.VoidType()
	}
	return g.ctx.VoidType()
}

// dynType returns (creating on first use) the %dyn.<mangled-behaviors>
// boxed-representation struct type, spec.md §4.9: {data ptr, vtable ptr}.
func (g *Generator) dynType(mangledBehaviors string) llvm.Type {
	name := "dyn." + mangledBehaviors
	if t, ok := g.structTypes[name]; ok {
		return t
	}
	st := g.ctx.StructCreateNamed(name)
	ptr := llvm.PointerType(g.ctx.Int8Type(), 0)
	st.StructSetBody([]llvm.Type{ptr, ptr}, false)
	g.structTypes[name] = st
	return st
}

// symbolName applies spec.md §4.10's suite-mode prefix to a global
// symbol name when this generator is compiling one file of a test
// suite, so distinct suite files never collide in one linked object.
func (g *Generator) symbolName(base string) string {
	if g.opts.SuiteTestIndex > 0 {
		return fmt.Sprintf("s%d_%s", g.opts.SuiteTestIndex, base)
	}
	return base
}
