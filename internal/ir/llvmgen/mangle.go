// Name mangling and its inverse, spec.md §4.5.
//
// Grounded on src/ir/symtab.go's small canonical-name-table idiom
// (there, a two-entry DTyp slice mapping a tag to a fixed string);
// here the table is generalized to a recursive scheme over TML's
// full type grammar, but the underlying idea — a type's identity
// collapses to one flat string used to key a global lookup — is the
// same one the teacher leans on for its own two-type universe.
package llvmgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tml-lang/tmlc/internal/types"
)

// MangleType renders t into the flat name scheme spec.md §4.5
// describes: primitives use their canonical names, parametric types
// become Base__arg1__arg2…, and reference/pointer/array/tuple shapes
// get a fixed prefix. The result never contains a primitive type name
// that itself holds "__" or a bare "_", so splitting on "__" to
// recover argument lists is unambiguous (spec.md's stated invariant).
func MangleType(t *types.Type) string {
	if t == nil {
		return "unit"
	}
	switch t.Kind {
	case types.KPrimitive:
		return t.Prim.String()
	case types.KNamed, types.KClass:
		return MangleStructName(t.Name, t.Args)
	case types.KRef:
		if t.RefMut {
			return "mutref_" + MangleType(t.Elem)
		}
		return "ref_" + MangleType(t.Elem)
	case types.KPtr:
		if t.RefMut {
			return "mutptr_" + MangleType(t.Elem)
		}
		return "ptr_" + MangleType(t.Elem)
	case types.KArray:
		return fmt.Sprintf("arr_%s_%d", MangleType(t.Elem), t.Size)
	case types.KSlice:
		return "slice_" + MangleType(t.Elem)
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = MangleType(e)
		}
		return "tuple_" + strings.Join(parts, "__")
	case types.KFunc:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = MangleType(p)
		}
		kind := "fn"
		if t.IsClosure {
			kind = "closure"
		}
		return fmt.Sprintf("%s_%s__%s", kind, strings.Join(parts, "__"), MangleType(t.Ret))
	case types.KDynBehavior:
		return "dyn_" + mangleBehaviors(t.Behaviors)
	case types.KImplBehavior:
		return "impl_" + mangleBehaviors(t.Behaviors)
	case types.KGeneric:
		return "gen_" + t.Name
	}
	return "unknown"
}

func mangleBehaviors(bs []types.NamedRef) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = MangleStructName(b.Name, b.Args)
	}
	return strings.Join(parts, "__")
}

// MangleStructName applies the base/args scheme shared by struct,
// class, enum and free-function names: base alone if there are no
// type arguments, else base__arg1__arg2….
func MangleStructName(base string, args []*types.Type) string {
	if len(args) == 0 {
		return base
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = MangleType(a)
	}
	return base + "__" + strings.Join(parts, "__")
}

// MangleClassName is MangleStructName under a distinct name so callers
// that care about the distinction between the two declaration kinds
// read naturally; classes and structs share one mangling scheme.
func MangleClassName(base string, args []*types.Type) string { return MangleStructName(base, args) }

// MangleFuncName applies the same base/args scheme to a free function
// or impl-method name once its generic parameters have been resolved
// to concrete arguments by the monomorphizer.
func MangleFuncName(base string, args []*types.Type) string { return MangleStructName(base, args) }

// MangleMethodName is the "@tml_<Mangled-owner>_<method>" scheme
// spec.md §4.6 assigns every class/impl method, combining the owner's
// mangled name with its plain method name.
func MangleMethodName(ownerMangled, method string) string {
	return "tml_" + ownerMangled + "_" + method
}

// ParseMangledTypeString is the inverse of MangleType: it reconstructs
// enough of a semantic Type from a mangled string for the
// monomorphizer to recover a method's owner type arguments from its
// mangled name (spec.md §4.5). Only the shapes MangleType actually
// produces need to round-trip. A string with none of the recognized
// prefixes is read as a named type: the text before the first `__` is
// its base name and each further `__`-separated part is parsed as a
// type argument. Only a malformed `arr_` string comes back as a named
// type carrying the input verbatim. No error is ever returned, since
// callers sit where no diagnostic can be reported.
func ParseMangledTypeString(s string) *types.Type {
	if p, ok := primitiveByName(s); ok {
		return types.PrimitiveType(p)
	}
	switch {
	case strings.HasPrefix(s, "mutref_"):
		return types.RefType(ParseMangledTypeString(s[len("mutref_"):]), true)
	case strings.HasPrefix(s, "ref_"):
		return types.RefType(ParseMangledTypeString(s[len("ref_"):]), false)
	case strings.HasPrefix(s, "mutptr_"):
		return types.PtrType(ParseMangledTypeString(s[len("mutptr_"):]), true)
	case strings.HasPrefix(s, "ptr_"):
		return types.PtrType(ParseMangledTypeString(s[len("ptr_"):]), false)
	case strings.HasPrefix(s, "slice_"):
		return types.SliceType(ParseMangledTypeString(s[len("slice_"):]))
	case strings.HasPrefix(s, "arr_"):
		rest := s[len("arr_"):]
		idx := strings.LastIndex(rest, "_")
		if idx < 0 {
			return types.NamedType(nil, s)
		}
		n, err := strconv.ParseInt(rest[idx+1:], 10, 64)
		if err != nil {
			return types.NamedType(nil, s)
		}
		return types.ArrayType(ParseMangledTypeString(rest[:idx]), n)
	case strings.HasPrefix(s, "tuple_"):
		parts := strings.Split(s[len("tuple_"):], "__")
		elems := make([]*types.Type, len(parts))
		for i, p := range parts {
			elems[i] = ParseMangledTypeString(p)
		}
		return types.TupleType(elems...)
	case strings.HasPrefix(s, "gen_"):
		return types.GenericParamType(s[len("gen_"):])
	}
	// Base__arg1__arg2… for a named struct/class/enum.
	parts := strings.Split(s, "__")
	base := parts[0]
	args := make([]*types.Type, 0, len(parts)-1)
	for _, p := range parts[1:] {
		args = append(args, ParseMangledTypeString(p))
	}
	return types.NamedType(nil, base, args...)
}

var primitiveNameTable = map[string]types.Primitive{
	"I8": types.I8, "I16": types.I16, "I32": types.I32, "I64": types.I64, "I128": types.I128,
	"U8": types.U8, "U16": types.U16, "U32": types.U32, "U64": types.U64, "U128": types.U128,
	"F32": types.F32, "F64": types.F64, "Bool": types.Bool, "Char": types.Char,
	"Str": types.Str, "Unit": types.Unit, "Never": types.Never,
}

func primitiveByName(s string) (types.Primitive, bool) {
	p, ok := primitiveNameTable[s]
	return p, ok
}
