package llvmgen

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/types"
)

func TestMangleTypePrimitive(t *testing.T) {
	if got := MangleType(types.PrimitiveType(types.I32)); got != "I32" {
		t.Fatalf("expected I32, got %s", got)
	}
}

func TestMangleTypeParametric(t *testing.T) {
	maybe := types.NamedType(nil, "Maybe", types.PrimitiveType(types.I32))
	if got := MangleType(maybe); got != "Maybe__I32" {
		t.Fatalf("expected Maybe__I32, got %s", got)
	}
}

func TestMangleTypeRefAndPtr(t *testing.T) {
	r := types.RefType(types.PrimitiveType(types.I32), true)
	if got := MangleType(r); got != "mutref_I32" {
		t.Fatalf("expected mutref_I32, got %s", got)
	}
	p := types.PtrType(types.PrimitiveType(types.U8), false)
	if got := MangleType(p); got != "ptr_U8" {
		t.Fatalf("expected ptr_U8, got %s", got)
	}
}

func TestMangleTypeArrayAndTuple(t *testing.T) {
	arr := types.ArrayType(types.PrimitiveType(types.I8), 4)
	if got := MangleType(arr); got != "arr_I8_4" {
		t.Fatalf("expected arr_I8_4, got %s", got)
	}
	tup := types.TupleType(types.PrimitiveType(types.I32), types.PrimitiveType(types.Bool))
	if got := MangleType(tup); got != "tuple_I32__Bool" {
		t.Fatalf("expected tuple_I32__Bool, got %s", got)
	}
}

func TestMangleMethodName(t *testing.T) {
	if got := MangleMethodName("Box", "area"); got != "tml_Box_area" {
		t.Fatalf("expected tml_Box_area, got %s", got)
	}
}

func TestParseMangledTypeStringRoundTrip(t *testing.T) {
	cases := []*types.Type{
		types.PrimitiveType(types.I64),
		types.NamedType(nil, "Maybe", types.PrimitiveType(types.I32)),
		types.RefType(types.PrimitiveType(types.Bool), false),
		types.SliceType(types.PrimitiveType(types.U8)),
	}
	for _, c := range cases {
		m := MangleType(c)
		back := ParseMangledTypeString(m)
		if MangleType(back) != m {
			t.Fatalf("round trip mismatch for %s: got %s", m, MangleType(back))
		}
	}
}
