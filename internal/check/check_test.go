package check

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/parser"
	"github.com/tml-lang/tmlc/internal/source"
)

func checkSrc(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	s := source.New("<test>", src)
	mod, perrs := parser.ParseModule("test", s)
	for _, e := range perrs {
		t.Fatalf("unexpected parse diagnostic: %s: %s", e.Span, e.Message)
	}
	_, errs := Check(mod)
	return errs
}

func codes(errs []diag.Diagnostic) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func hasCode(errs []diag.Diagnostic, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestCheckSimpleFuncOK(t *testing.T) {
	errs := checkSrc(t, "func add(a: I32, b: I32) -> I32 {\n\treturn a + b\n}\n")
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(errs))
	}
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	errs := checkSrc(t, "func f() -> I32 {\n\treturn \"hi\"\n}\n")
	if !hasCode(errs, "E_CHECK_TYPE_MISMATCH") {
		t.Fatalf("expected E_CHECK_TYPE_MISMATCH, got %v", codes(errs))
	}
}

func TestCheckUndeclaredIdent(t *testing.T) {
	errs := checkSrc(t, "func f() -> I32 {\n\treturn missing\n}\n")
	if !hasCode(errs, "E_CHECK_UNDECLARED") {
		t.Fatalf("expected E_CHECK_UNDECLARED, got %v", codes(errs))
	}
}

func TestCheckBadOperator(t *testing.T) {
	errs := checkSrc(t, "func f() -> Bool {\n\treturn true + 1\n}\n")
	if !hasCode(errs, "E_CHECK_BAD_OPERATOR") {
		t.Fatalf("expected E_CHECK_BAD_OPERATOR, got %v", codes(errs))
	}
}

func TestCheckCallArity(t *testing.T) {
	errs := checkSrc(t, "func add(a: I32, b: I32) -> I32 {\n\treturn a + b\n}\nfunc g() -> I32 {\n\treturn add(1)\n}\n")
	if !hasCode(errs, "E_CHECK_ARITY") {
		t.Fatalf("expected E_CHECK_ARITY, got %v", codes(errs))
	}
}

func TestCheckStructFieldTypes(t *testing.T) {
	src := "type Point {\n\tx: I32,\n\ty: I32,\n}\nfunc origin() -> Point {\n\treturn Point { x: 0, y: 0 }\n}\n"
	errs := checkSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(errs))
	}
}

func TestCheckUnknownStructField(t *testing.T) {
	src := "type Point {\n\tx: I32,\n\ty: I32,\n}\nfunc origin() -> Point {\n\treturn Point { z: 0 }\n}\n"
	errs := checkSrc(t, src)
	if !hasCode(errs, "E_CHECK_UNKNOWN_FIELD") {
		t.Fatalf("expected E_CHECK_UNKNOWN_FIELD, got %v", codes(errs))
	}
}

func TestCheckBehaviorImplMissingMethod(t *testing.T) {
	src := "behavior Greet {\n\tfunc hello(this) -> Str\n}\ntype Person {\n\tname: Str,\n}\nimpl Greet for Person {\n}\n"
	errs := checkSrc(t, src)
	if !hasCode(errs, "E_CHECK_MISSING_METHOD") {
		t.Fatalf("expected E_CHECK_MISSING_METHOD, got %v", codes(errs))
	}
}

func TestCheckBehaviorImplSatisfied(t *testing.T) {
	src := "behavior Greet {\n\tfunc hello(this) -> Str\n}\ntype Person {\n\tname: Str,\n}\nimpl Greet for Person {\n\tfunc hello(this) -> Str {\n\t\treturn this.name\n\t}\n}\n"
	errs := checkSrc(t, src)
	if hasCode(errs, "E_CHECK_MISSING_METHOD") {
		t.Fatalf("did not expect E_CHECK_MISSING_METHOD, got %v", codes(errs))
	}
}

func TestCheckClassOverrideWithoutBase(t *testing.T) {
	src := "class Shape {\n\tfunc area(this) -> F64 {\n\t\treturn 0.0\n\t}\n}\nclass Box {\n\toverride func area(this) -> F64 {\n\t\treturn 1.0\n\t}\n}\n"
	errs := checkSrc(t, src)
	if !hasCode(errs, "E_CHECK_BAD_OVERRIDE") {
		t.Fatalf("expected E_CHECK_BAD_OVERRIDE, got %v", codes(errs))
	}
}

func TestCheckClassVTableInheritance(t *testing.T) {
	src := "class Shape {\n\tvirtual func area(this) -> F64 {\n\t\treturn 0.0\n\t}\n}\nclass Box extends Shape {\n\toverride func area(this) -> F64 {\n\t\treturn 1.0\n\t}\n}\n"
	s := source.New("<test>", src)
	mod, perrs := parser.ParseModule("test", s)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", perrs)
	}
	env, errs := Check(mod)
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(errs))
	}
	box := env.Classes["Box"]
	if box == nil {
		t.Fatal("expected Box class registered")
	}
	if len(box.VTable) != 1 || box.VTable[0].Name != "area" || box.VTable[0].OwnerClass != "Box" {
		t.Fatalf("expected Box's vtable to carry one slot owned by Box, got %+v", box.VTable)
	}
}

func TestCheckValueClass(t *testing.T) {
	src := "sealed class Id {\n\tfunc value(this) -> I32 {\n\t\treturn 0\n\t}\n}\n"
	s := source.New("<test>", src)
	mod, perrs := parser.ParseModule("test", s)
	if len(perrs) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", perrs)
	}
	env, _ := Check(mod)
	id := env.Classes["Id"]
	if id == nil || !id.IsValueClass {
		t.Fatalf("expected Id to be a value class, got %+v", id)
	}
}

func TestCheckGenericFunctionUnifies(t *testing.T) {
	src := "func identity[T](x: T) -> T {\n\treturn x\n}\nfunc f() -> I32 {\n\treturn identity(1)\n}\n"
	errs := checkSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(errs))
	}
}

func TestCheckEnumVariantPatternBinding(t *testing.T) {
	src := "type Shape = Circle(F64) | Square(F64)\nfunc area(s: Shape) -> F64 {\n\twhen s {\n\t\tCircle(r) => r * r,\n\t\tSquare(side) => side * side,\n\t}\n}\n"
	errs := checkSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", codes(errs))
	}
}
