package llvmgen

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/types"
)

type fixedLayout map[string]bool

func (f fixedLayout) IsValueClass(name string) bool { return f[name] }

func TestTypeOfPrimitives(t *testing.T) {
	cases := map[types.Primitive]string{
		types.I8: "i8", types.I32: "i32", types.I64: "i64",
		types.F32: "float", types.F64: "double",
		types.Bool: "i1", types.Char: "i32", types.Str: "ptr",
	}
	for p, want := range cases {
		if got := TypeOf(types.PrimitiveType(p), true, nil); got != want {
			t.Fatalf("%v: expected %s, got %s", p, want, got)
		}
	}
}

func TestTypeOfUnitDataVsReturn(t *testing.T) {
	unit := types.PrimitiveType(types.Unit)
	if got := TypeOf(unit, true, nil); got != "{}" {
		t.Fatalf("expected {} for data position, got %s", got)
	}
	if got := ReturnTypeOf(unit, nil); got != "void" {
		t.Fatalf("expected void for return position, got %s", got)
	}
}

func TestTypeOfSliceAndArray(t *testing.T) {
	s := types.SliceType(types.PrimitiveType(types.I32))
	if got := TypeOf(s, true, nil); got != "{ptr, i64}" {
		t.Fatalf("expected {ptr, i64}, got %s", got)
	}
	a := types.ArrayType(types.PrimitiveType(types.I8), 4)
	if got := TypeOf(a, true, nil); got != "[4 x i8]" {
		t.Fatalf("expected [4 x i8], got %s", got)
	}
}

func TestTypeOfClassValueVsBoxed(t *testing.T) {
	c := types.ClassType(nil, "Id")
	if got := TypeOf(c, true, nil); got != "ptr" {
		t.Fatalf("expected ptr with no layout info, got %s", got)
	}
	layout := fixedLayout{"Id": true}
	if got := TypeOf(c, true, layout); got != "%class.Id" {
		t.Fatalf("expected %%class.Id for a value class, got %s", got)
	}
}

func TestTypeOfNamedStruct(t *testing.T) {
	named := types.NamedType(nil, "Point")
	if got := TypeOf(named, true, nil); got != "%struct.Point" {
		t.Fatalf("expected %%struct.Point, got %s", got)
	}
}

func TestTypeOfFuncClosureVsBare(t *testing.T) {
	bare := types.FuncType(nil, types.PrimitiveType(types.Unit), false)
	if got := TypeOf(bare, true, nil); got != "ptr" {
		t.Fatalf("expected ptr for a bare fn, got %s", got)
	}
	closure := types.FuncType(nil, types.PrimitiveType(types.Unit), true)
	if got := TypeOf(closure, true, nil); got != "{ptr, ptr}" {
		t.Fatalf("expected {ptr, ptr} for a closure, got %s", got)
	}
}
