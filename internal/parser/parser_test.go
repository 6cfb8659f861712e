package parser

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/source"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	s := source.New("<test>", src)
	mod, errs := ParseModule("test", s)
	for _, e := range errs {
		t.Errorf("unexpected diagnostic: %s: %s (%s)", e.Span, e.Message, e.Code)
	}
	return mod
}

func TestParseMinimalFunc(t *testing.T) {
	mod := parseOK(t, "func main() {\n}\n")
	if len(mod.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(mod.Decls))
	}
	fn, ok := mod.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", mod.Decls[0])
	}
	if fn.Name != "main" {
		t.Errorf("expected name main, got %q", fn.Name)
	}
}

func TestParseGenericFuncWithWhereClause(t *testing.T) {
	src := "func max[T](a: T, b: T) -> T where T: Ord {\n\treturn a\n}\n"
	mod := parseOK(t, src)
	fn := mod.Decls[0].(*ast.FuncDecl)
	if len(fn.Generics) != 1 || fn.Generics[0].Name != "T" {
		t.Fatalf("expected one generic param T, got %+v", fn.Generics)
	}
	if fn.Where == nil || len(fn.Where.Constraints) != 1 {
		t.Fatalf("expected one where-constraint, got %+v", fn.Where)
	}
	if fn.Where.Constraints[0].Bound.Name != "Ord" {
		t.Errorf("expected bound Ord, got %q", fn.Where.Constraints[0].Bound.Name)
	}
}

func TestParseStructVsEnumDisambiguation(t *testing.T) {
	mod := parseOK(t, "type Point {\n\tx: i32,\n\ty: i32,\n}\n")
	if _, ok := mod.Decls[0].(*ast.StructDecl); !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", mod.Decls[0])
	}

	mod = parseOK(t, "type Color {\n\tRed,\n\tGreen,\n\tBlue,\n}\n")
	if _, ok := mod.Decls[0].(*ast.EnumDecl); !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", mod.Decls[0])
	}

	mod = parseOK(t, "type Shape = Circle(f64) | Rect { w: f64, h: f64 }\n")
	ed, ok := mod.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", mod.Decls[0])
	}
	if len(ed.Variants) != 2 || ed.Variants[0].Name != "Circle" || ed.Variants[1].Name != "Rect" {
		t.Fatalf("unexpected variants: %+v", ed.Variants)
	}
}

func TestParseUnionDecl(t *testing.T) {
	mod := parseOK(t, "union Raw {\n\ti: i32,\n\tf: f32,\n}\n")
	ud, ok := mod.Decls[0].(*ast.UnionDecl)
	if !ok {
		t.Fatalf("expected *ast.UnionDecl, got %T", mod.Decls[0])
	}
	if len(ud.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(ud.Fields))
	}
}

func TestParseStructLiteralVsBlockHeaderAmbiguity(t *testing.T) {
	mod := parseOK(t, "func f() {\n\tif Point { x: 1, y: 2 }.x > 0 {\n\t\treturn\n\t}\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	if fn.Body == nil || fn.Body.Tail == nil {
		t.Fatalf("expected if-expression as block tail, got %+v", fn.Body)
	}
	if _, ok := fn.Body.Tail.(*ast.IfExpr); !ok {
		t.Fatalf("expected *ast.IfExpr, got %T", fn.Body.Tail)
	}

	mod = parseOK(t, "func f() {\n\tlet p = Point { x: 1, y: 2 }\n}\n")
	fn = mod.Decls[0].(*ast.FuncDecl)
	let, ok := fn.Body.Stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", fn.Body.Stmts[0])
	}
	if _, ok := let.Value.(*ast.StructLiteralExpr); !ok {
		t.Fatalf("expected struct literal value inside let, got %T", let.Value)
	}
}

func TestParseTryVsTernary(t *testing.T) {
	mod := parseOK(t, "func f() -> i32 {\n\treturn cond ? 1 : 2\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	retExpr, ok := fn.Body.Tail.(*ast.ReturnExpr)
	if !ok {
		t.Fatalf("expected *ast.ReturnExpr as block tail, got %T", fn.Body.Tail)
	}
	if _, ok := retExpr.Value.(*ast.IfExpr); !ok {
		t.Fatalf("expected ternary to desugar to *ast.IfExpr, got %T", retExpr.Value)
	}

	mod = parseOK(t, "func f() -> i32 {\n\treturn maybeFail()?\n}\n")
	fn = mod.Decls[0].(*ast.FuncDecl)
	retExpr = fn.Body.Tail.(*ast.ReturnExpr)
	if _, ok := retExpr.Value.(*ast.TryExpr); !ok {
		t.Fatalf("expected postfix try, got %T", retExpr.Value)
	}
}

func TestParseGenericCallVsIndex(t *testing.T) {
	mod := parseOK(t, "func f() {\n\tlet a = identity[i32](1)\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.CallExpr); !ok {
		t.Fatalf("expected explicit generic call, got %T", let.Value)
	}

	mod = parseOK(t, "func f() {\n\tlet a = arr[1]\n}\n")
	fn = mod.Decls[0].(*ast.FuncDecl)
	let = fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.IndexExpr); !ok {
		t.Fatalf("expected index expression, got %T", let.Value)
	}
}

func TestParsePrecedenceAddBeforeCompare(t *testing.T) {
	mod := parseOK(t, "func f() -> bool {\n\treturn 1 + 2 == 3\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Tail.(*ast.ReturnExpr)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "==" {
		t.Fatalf("expected top-level ==, got %+v", ret.Value)
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected 1 + 2 as left operand, got %T", bin.Left)
	}
}

func TestParseChainedComparisonDiagnostic(t *testing.T) {
	s := source.New("<test>", "func f() -> bool {\n\treturn 1 < 2 < 3\n}\n")
	_, errs := ParseModule("test", s)
	found := false
	for _, e := range errs {
		if e.Code == "E_PARSE_CHAINED_CMP" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected chained-comparison diagnostic, got %+v", errs)
	}
}

func TestParseMethodChainAcrossNewlines(t *testing.T) {
	src := "func f() {\n\tlet a = foo()\n\t\t.bar()\n\t\t.baz()\n}\n"
	mod := parseOK(t, src)
	fn := mod.Decls[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.MethodCallExpr); !ok {
		t.Fatalf("expected chained method call expression, got %T", let.Value)
	}
}

func TestParseEnumVariantPattern(t *testing.T) {
	src := "func f(shape: Shape) -> f64 {\n\twhen shape {\n\t\tCircle(r) => r,\n\t\tRect { w, h } => w,\n\t}\n}\n"
	mod := parseOK(t, src)
	fn := mod.Decls[0].(*ast.FuncDecl)
	when, ok := fn.Body.Tail.(*ast.WhenExpr)
	if !ok {
		t.Fatalf("expected *ast.WhenExpr as block tail, got %T", fn.Body.Tail)
	}
	if len(when.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(when.Arms))
	}
	variant, ok := when.Arms[0].Pat.(*ast.EnumVariantPattern)
	if !ok || variant.Variant != "Circle" {
		t.Fatalf("expected Circle tuple variant pattern, got %+v", when.Arms[0].Pat)
	}
}

func TestParseClassWithModifiers(t *testing.T) {
	src := `class Animal {
	pub name: str

	pub virtual func speak(this) -> str {
		return "..."
	}
}

class Dog extends Animal {
	pub override func speak(this) -> str {
		return "Woof"
	}
}
`
	mod := parseOK(t, src)
	if len(mod.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(mod.Decls))
	}
	base := mod.Decls[0].(*ast.ClassDecl)
	if len(base.Fields) != 1 || len(base.Methods) != 1 {
		t.Fatalf("unexpected Animal shape: %+v", base)
	}
	if !base.Methods[0].Virtual {
		t.Errorf("expected speak to be virtual")
	}
	derived := mod.Decls[1].(*ast.ClassDecl)
	if derived.Extends == nil || derived.Extends.Name != "Animal" {
		t.Fatalf("expected Dog to extend Animal, got %+v", derived.Extends)
	}
	if !derived.Methods[0].Override {
		t.Errorf("expected speak to be override")
	}
}

func TestParseImplWithBehavior(t *testing.T) {
	src := `behavior Greet {
	func hello(this) -> str
}

impl Greet for Dog {
	func hello(this) -> str {
		return "hi"
	}
}
`
	mod := parseOK(t, src)
	bd := mod.Decls[0].(*ast.BehaviorDecl)
	if len(bd.Methods) != 1 {
		t.Fatalf("expected one behavior method, got %d", len(bd.Methods))
	}
	impl := mod.Decls[1].(*ast.ImplDecl)
	if impl.Behavior == nil || impl.Behavior.Name != "Greet" {
		t.Fatalf("expected impl of Greet, got %+v", impl.Behavior)
	}
	target, ok := impl.Target.(*ast.NamedTypeExpr)
	if !ok || target.Name != "Dog" {
		t.Fatalf("expected impl target Dog, got %+v", impl.Target)
	}
}

func TestParseNamespaceAndUse(t *testing.T) {
	src := "use collections::{HashMap, HashSet as Set}\n\nnamespace app.models {\n\tconst Version: i32 = 1\n}\n"
	mod := parseOK(t, src)
	use := mod.Decls[0].(*ast.UseDecl)
	if len(use.Items) != 2 || use.Items[1].Alias != "Set" {
		t.Fatalf("unexpected use items: %+v", use.Items)
	}
	ns := mod.Decls[1].(*ast.NamespaceDecl)
	if len(ns.Path) != 2 || ns.Path[1] != "models" {
		t.Fatalf("unexpected namespace path: %+v", ns.Path)
	}
	if len(ns.Decls) != 1 {
		t.Fatalf("expected one decl inside namespace, got %d", len(ns.Decls))
	}
}

func TestParseRangeExpr(t *testing.T) {
	mod := parseOK(t, "func f() {\n\tfor i in 0..10 {\n\t}\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	forExpr, ok := fn.Body.Tail.(*ast.ForExpr)
	if !ok {
		t.Fatalf("expected *ast.ForExpr as block tail, got %T", fn.Body.Tail)
	}
	rng, ok := forExpr.Iterable.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected range expression, got %T", forExpr.Iterable)
	}
	if rng.Inclusive {
		t.Errorf("expected exclusive range for ..")
	}
}

func TestParseErrorRecoverySkipsToNextDecl(t *testing.T) {
	s := source.New("<test>", "func f( {\n}\n\nfunc g() {\n}\n")
	mod, errs := ParseModule("test", s)
	if len(errs) == 0 {
		t.Fatalf("expected at least one diagnostic for malformed func f")
	}
	for _, e := range errs {
		if e.Kind != diag.Parse {
			t.Errorf("expected only parse diagnostics, got %s", e.Kind)
		}
	}
	if len(mod.Decls) < 1 {
		t.Fatalf("expected parser to recover and keep parsing, got %d decls", len(mod.Decls))
	}
	last, ok := mod.Decls[len(mod.Decls)-1].(*ast.FuncDecl)
	if !ok || last.Name != "g" {
		t.Fatalf("expected recovery to reach func g, got %+v", mod.Decls)
	}
}

func TestParseSpanCoversWholeDecl(t *testing.T) {
	mod := parseOK(t, "func f() {\n\treturn\n}\n")
	fn := mod.Decls[0].(*ast.FuncDecl)
	sp := fn.Span()
	if sp.Start != 0 {
		t.Errorf("expected decl span to start at byte 0, got %d", sp.Start)
	}
	if sp.End <= sp.Start {
		t.Errorf("expected non-empty span, got %+v", sp)
	}
}
