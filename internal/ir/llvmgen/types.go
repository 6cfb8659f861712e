// Type lowering from the semantic Type model to LLVM IR type syntax,
// spec.md §4.5's llvm_type_from_semantic table.
//
// Grounded on src/ir/llvm/transform.go's genType, which switches on
// the teacher's two-entry DataInteger/DataFloat universe to pick
// between i32 and double; tmlc generalizes the same switch-on-kind
// shape to TML's full type grammar.
package llvmgen

import (
	"fmt"
	"strings"

	"github.com/tml-lang/tmlc/internal/types"
)

// ClassLayout describes how a Gen decides whether a named class lowers
// to a value type or to an opaque pointer, mirroring the information
// the type checker already recorded in types.ClassInfo so this
// package does not need its own copy of class metadata.
type ClassLayout interface {
	// IsValueClass reports whether the class named name (already
	// mangled with its type arguments applied) is a sealed,
	// non-virtual value class (spec.md §4.4), which lowers to
	// %class.<mangled> by value instead of to ptr.
	IsValueClass(mangledName string) bool
}

// TypeOf lowers t to its LLVM IR spelling. forData selects the
// data-position spelling for Unit (`{}`) over the return-position
// spelling (`void`); every other kind lowers identically in both
// positions. classes may be nil, in which case every named class
// lowers conservatively to ptr (the safe default pending layout
// information becoming available).
func TypeOf(t *types.Type, forData bool, classes ClassLayout) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case types.KPrimitive:
		return primitiveIR(t.Prim, forData)
	case types.KNamed:
		return "%struct." + MangleStructName(t.Name, t.Args)
	case types.KClass:
		mangled := MangleClassName(t.Name, t.Args)
		if classes != nil && classes.IsValueClass(mangled) {
			return "%class." + mangled
		}
		return "ptr"
	case types.KRef, types.KPtr:
		return "ptr"
	case types.KArray:
		return fmt.Sprintf("[%d x %s]", t.Size, TypeOf(t.Elem, true, classes))
	case types.KSlice:
		return "{ptr, i64}"
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = TypeOf(e, true, classes)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case types.KFunc:
		if t.IsClosure {
			return "{ptr, ptr}"
		}
		return "ptr"
	case types.KDynBehavior:
		return "%dyn." + mangleBehaviors(t.Behaviors)
	case types.KImplBehavior:
		// impl Behavior is resolved to its concrete implementer by the
		// monomorphizer before codegen ever lowers a value of this
		// type; reaching here with one still unresolved is a checker
		// bug, not a shape this emitter needs to handle specially, so
		// it falls back to the dyn-behavior boxed representation.
		return "%dyn." + mangleBehaviors(t.Behaviors)
	case types.KGeneric:
		// Opaque until the monomorphizer substitutes a concrete Type
		// for this parameter (spec.md §4.5 "named generic param T ->
		// opaque ptr, flagged for later re-lower").
		return "ptr"
	}
	return "ptr"
}

// ReturnTypeOf lowers t for use as a function's return type: Unit and
// Never both lower to void in return position, unlike field/element
// position where Unit needs the zero-sized {} struct representation.
func ReturnTypeOf(t *types.Type, classes ClassLayout) string {
	if t == nil || (t.Kind == types.KPrimitive && (t.Prim == types.Unit || t.Prim == types.Never)) {
		return "void"
	}
	return TypeOf(t, false, classes)
}

func primitiveIR(p types.Primitive, forData bool) string {
	switch p {
	case types.I8, types.U8:
		return "i8"
	case types.I16, types.U16:
		return "i16"
	case types.I32, types.U32:
		return "i32"
	case types.I64, types.U64:
		return "i64"
	case types.I128, types.U128:
		return "i128"
	case types.F32:
		return "float"
	case types.F64:
		return "double"
	case types.Bool:
		return "i1"
	case types.Char:
		return "i32"
	case types.Str:
		return "ptr"
	case types.Unit:
		if forData {
			return "{}"
		}
		return "void"
	case types.Never:
		return "void"
	}
	return "void"
}

// ExternBoolType is the widened spelling Bool takes at an @extern C
// ABI boundary (spec.md §4.6 "bool is promoted to i32 at an extern
// boundary"), as text. decl.go does not read this constant; it builds
// the widened parameter type with ctx.Int32Type() directly.
const ExternBoolType = "i32"

// IsZeroSized reports whether t lowers to a type with no storage:
// Unit, or a tuple whose elements are all zero-sized. Structs are not
// inspected and report false. Nothing in this package calls it at
// present.
func IsZeroSized(t *types.Type) bool {
	if t == nil {
		return true
	}
	if t.Kind == types.KPrimitive && t.Prim == types.Unit {
		return true
	}
	if t.Kind == types.KTuple {
		for _, e := range t.Elems {
			if !IsZeroSized(e) {
				return false
			}
		}
		return true
	}
	return false
}
