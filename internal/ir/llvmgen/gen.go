// Package llvmgen is the IR emitter: it lowers a checked ast.Module
// (plus the types.Env the checker produced for it) into a textual
// LLVM IR module, spec.md §4.5-§4.11.
//
// Grounded on src/ir/llvm/transform.go's GenLLVM/gen/genFuncHeader/
// genFuncBody/genExpression pipeline, which drives one llvm.Context,
// one llvm.Module and one llvm.Builder through a single pass over the
// teacher's two-type AST. tmlc keeps that same Context/Module/Builder
// shape (DOMAIN STACK) but generalizes the single pass into several
// cooperating files because TML's declaration and expression grammars
// are each individually as large as the teacher's whole IR.
package llvmgen

import (
	"fmt"
	"sort"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/types"
	"tinygo.org/x/go-llvm"
)

// Options mirrors spec.md §6's driver-options surface that the
// emitter itself (rather than the outer driver) must consult while
// generating a module.
type Options struct {
	SuiteTestIndex       int  // >0: this is one file of a multi-file test suite; symbols are prefixed (spec.md §4.10).
	ForceInternalLinkage bool // force every function to `internal` linkage regardless of visibility.
	LibraryIROnly        bool // emit only the union of imported library modules' IR.
	LibraryDeclsOnly     bool // rewrite function definitions to declare stubs (library linked separately).
	LazyLibraryDefs      bool // defer library function body emission until first local reference.
	Coverage             bool // instrument function entries with tml_cover_func calls.
	LLVMSourceCoverage   bool // instrument with llvm.instrprof.increment instead.
	DebugInfo            bool // attach !dbg metadata (spec.md §4.6 "[!dbg]").
	Verbose              bool // mirrors util.Options.Verbose: print stage statistics to stderr.
}

// instantiation records one monomorphized struct/enum/class/function,
// spec.md §4.8's pending_generic_<kind> / *_instantiations bookkeeping.
type instantiation struct {
	Base      string
	Args      []*types.Type
	Mangled   string
	Generated bool
}

// localSlot is one entry of a function's locals table: the alloca (or
// bare SSA register for a never-reassigned parameter) backing a name,
// and its semantic type for subsequent load/store/GEP decisions.
type localSlot struct {
	Val     llvm.Value
	Type    *types.Type
	IsAlloc bool // true if Val is a `ptr` alloca requiring load/store; false for a bare SSA value.
}

// dropScope is one nested block's set of move-tracked local names,
// spec.md §4.7 "each scope maintains a drop list".
type dropScope struct {
	names []string
}

// Generator holds every piece of process-wide and per-function state
// the emitter threads through a module, grounded on src/ir/symtab.go's
// global-table idiom (here: several flat maps keyed by mangled name)
// generalized to TML's larger declaration surface.
type Generator struct {
	opts Options
	env  *types.Env

	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	diags []diag.Diagnostic

	// Declared shapes, keyed by mangled name.
	structTypes map[string]llvm.Type
	classTypes  map[string]llvm.Type
	enumLayouts map[string]*enumLayout

	// Monomorphization tables (spec.md §4.8).
	pendingGenericStructs map[string]*ast.StructDecl
	pendingGenericEnums   map[string]*ast.EnumDecl
	pendingGenericClasses map[string]*ast.ClassDecl
	pendingGenericFuncs   map[string]*ast.FuncDecl
	pendingGenericImpls   map[string][]*ast.ImplDecl // keyed by target type name.

	structInstantiations map[string]*instantiation
	enumInstantiations   map[string]*instantiation
	classInstantiations  map[string]*instantiation
	funcInstantiations   map[string]*instantiation

	pendingImplMethodInsts []implMethodWork

	generatedFunctions map[string]bool // every @<name> emitted so far (dedup, spec.md §4.8).
	declaredExterns    map[string]bool

	behaviorDefaultMethods map[string]map[string]*ast.FuncDecl

	// Vtables (spec.md §4.9), keyed by "T.B".
	vtables map[string]llvm.Value

	nullableMaybeTypes map[string]bool // spec.md §4.6 Maybe[T]-as-ptr optimization.

	stringLiterals map[string]llvm.Value

	labelCounters map[string]int // grounded on util/label.go's per-kind counters.

	// Per-function transient state, reset by emitFuncBody.
	curFunc      llvm.Value
	curRetType   *types.Type
	curAsync     bool
	locals       map[string]localSlot
	dropScopes   []dropScope
	consumed     map[string]bool
	loopHeaders  []llvm.BasicBlock
	loopAfters   []llvm.BasicBlock
	blockTerminated bool
}

// enumLayout records a monomorphized enum's variant tags and payload
// size, computed eagerly at instantiation time per spec.md §4.8 step 3
// ("for enums, immediately registers variant tags").
type enumLayout struct {
	Variants    map[string]int // variant name -> tag.
	PayloadSize int64           // bytes; 0 for a unit-only enum.
	Nullable    bool            // this is an optimized two-variant Maybe[T]-as-ptr.
	NullTag     string          // the variant name standing for the null/"Nothing" case, if Nullable.
}

// implMethodWork is one queued generic impl-method body to emit,
// spec.md §4.8's "impl-method instantiation" work list.
type implMethodWork struct {
	OwnerMangled string
	TargetArgs   []*types.Type
	Method       *ast.FuncDecl
	Impl         *types.ImplInfo
}

// NewGenerator returns a Generator ready to emit IR for modules
// checked into env. name becomes the LLVM module's identifier, as
// GenLLVM derives it from opt.Src via filepath.Base.
func NewGenerator(name string, env *types.Env, opts Options) *Generator {
	ctx := llvm.NewContext()
	g := &Generator{
		opts:    opts,
		env:     env,
		ctx:     ctx,
		mod:     ctx.NewModule(name),
		builder: ctx.NewBuilder(),

		structTypes: make(map[string]llvm.Type),
		classTypes:  make(map[string]llvm.Type),
		enumLayouts: make(map[string]*enumLayout),

		pendingGenericStructs: make(map[string]*ast.StructDecl),
		pendingGenericEnums:   make(map[string]*ast.EnumDecl),
		pendingGenericClasses: make(map[string]*ast.ClassDecl),
		pendingGenericFuncs:   make(map[string]*ast.FuncDecl),
		pendingGenericImpls:   make(map[string][]*ast.ImplDecl),

		structInstantiations: make(map[string]*instantiation),
		enumInstantiations:   make(map[string]*instantiation),
		classInstantiations:  make(map[string]*instantiation),
		funcInstantiations:   make(map[string]*instantiation),

		generatedFunctions:     make(map[string]bool),
		declaredExterns:        make(map[string]bool),
		behaviorDefaultMethods: make(map[string]map[string]*ast.FuncDecl),
		vtables:            make(map[string]llvm.Value),
		nullableMaybeTypes: make(map[string]bool),
		stringLiterals:     make(map[string]llvm.Value),
		labelCounters:      make(map[string]int),
	}
	return g
}

// addDiag appends a CODEGEN-category diagnostic, spec.md §4.11's
// LLVMGenError kind, used for invariant violations this package
// itself must police (instantiation-loop cap, constant division by
// zero) since LLVM's own verifier only catches
// violations that survive to a syntactically valid module.
func (g *Generator) addDiag(span source.Span, code, format string, args ...interface{}) {
	g.diags = append(g.diags, diag.Diagnostic{
		Kind: diag.Codegen, Span: span, Code: code,
		Message: fmt.Sprintf(format, args...),
	})
}

// newLabel returns the next sequential label of kind k, e.g. "LWhileHead_003",
// matching util/label.go's "<prefix>_%03d" scheme.
func (g *Generator) newLabel(kind string) string {
	n := g.labelCounters[kind]
	g.labelCounters[kind] = n + 1
	return fmt.Sprintf("%s_%03d", kind, n)
}

// Finalize runs the monomorphization fixpoint, verifies the module
// (the go-llvm binding's structural check doubling for Invariant A/B,
// per SPEC_FULL.md's DOMAIN STACK notes) and returns its textual IR.
func (g *Generator) Finalize() (string, []diag.Diagnostic) {
	g.runFixpoints()
	if err := llvm.VerifyModule(g.mod, llvm.ReturnStatusAction); err != nil {
		g.addDiag(source.Span{}, "E_CODEGEN_VERIFY", "module failed LLVM verification: %s", err)
	}
	return g.mod.String(), g.diags
}

// sortedKeys returns m's keys in ascending order. Nothing in this
// package calls it at present; vtable slot order comes from the
// checker's VTable slice instead.
func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
