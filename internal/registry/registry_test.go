package registry

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/source"
)

func TestRegistryResolveSingleModule(t *testing.T) {
	r := New()
	src := source.New("<a>", "func add(a: I32, b: I32) -> I32 {\n\treturn a + b\n}\n")
	r.RegisterSource("a", src)

	rec, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rec.Diags)
	}
	if _, ok := r.Env().Funcs["add"]; !ok {
		t.Fatalf("expected add to be registered in the shared Env")
	}
}

func TestRegistryExportsPublicOnly(t *testing.T) {
	r := New()
	src := source.New("<b>", "pub func greet() -> Str {\n\treturn \"hi\"\n}\nfunc helper() -> I32 {\n\treturn 0\n}\n")
	r.RegisterSource("b", src)

	exports, err := r.Exports("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exports["greet"] {
		t.Fatalf("expected greet to be exported, got %v", exports)
	}
	if exports["helper"] {
		t.Fatalf("did not expect private helper to be exported, got %v", exports)
	}
}

func TestRegistryResolveWithImport(t *testing.T) {
	r := New()
	lib := source.New("<lib>", "pub func double(x: I32) -> I32 {\n\treturn x + x\n}\n")
	main := source.New("<main>", "use lib\nfunc f() -> I32 {\n\treturn double(2)\n}\n")
	r.RegisterSource("lib", lib)
	r.RegisterSource("main", main)

	rec, err := r.Resolve("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Diags) != 0 {
		t.Fatalf("expected no diagnostics once lib is resolved first, got %v", rec.Diags)
	}
}

func TestRegistryUnknownModule(t *testing.T) {
	r := New()
	if _, err := r.Resolve("missing"); err == nil {
		t.Fatalf("expected an error resolving an unregistered module")
	}
}
