// Library state cache, spec.md §4.10: a compilation unit that imports
// several library modules re-emits their preamble/type-defs/public
// registries once and snapshots them, rather than re-running each
// library module's own declaration pass for every importer.
//
// Grounded on src/util/perror.go's accumulate-under-mutex idiom,
// generalized from an error list to a whole emitter-state snapshot;
// and on the driver's suite_test_index symbol-prefixing scheme
// (llvmtype.go's symbolName), which this file's library_decls_only
// rewrite builds directly on top of.
package llvmgen

import "tinygo.org/x/go-llvm"

// libraryState is one snapshot captured by CaptureLibraryState: enough
// of the Generator's maps to replay a library module's declarations
// into a second, independent Generator without re-parsing or
// re-checking it.
type libraryState struct {
	structTypes    map[string]llvm.Type
	classTypes     map[string]llvm.Type
	enumLayouts    map[string]*enumLayout
	stringLiterals map[string]llvm.Value
	generatedFuncs map[string]bool
	nullableMaybe  map[string]bool
}

// CaptureLibraryState snapshots declaration-only state after EmitModule
// has run over a module meant to be imported by others as a library:
// named struct and class types, enum layouts, string literals, the
// generated-function set and the nullable-Maybe set. Preamble text,
// function bodies and loop metadata are not captured.
func (g *Generator) CaptureLibraryState() *libraryState {
	s := &libraryState{
		structTypes:    make(map[string]llvm.Type, len(g.structTypes)),
		classTypes:     make(map[string]llvm.Type, len(g.classTypes)),
		enumLayouts:    make(map[string]*enumLayout, len(g.enumLayouts)),
		stringLiterals: make(map[string]llvm.Value, len(g.stringLiterals)),
		generatedFuncs: make(map[string]bool, len(g.generatedFunctions)),
		nullableMaybe:  make(map[string]bool, len(g.nullableMaybeTypes)),
	}
	for k, v := range g.structTypes {
		s.structTypes[k] = v
	}
	for k, v := range g.classTypes {
		s.classTypes[k] = v
	}
	for k, v := range g.enumLayouts {
		s.enumLayouts[k] = v
	}
	for k, v := range g.stringLiterals {
		s.stringLiterals[k] = v
	}
	for k := range g.generatedFunctions {
		s.generatedFuncs[k] = true
	}
	for k := range g.nullableMaybeTypes {
		s.nullableMaybe[k] = true
	}
	return s
}

// RestoreLibraryState merges a previously captured snapshot into g,
// so a second compilation unit importing the same library does not
// re-declare its types/strings/functions, spec.md §4.10
// restore_library_state.
func (g *Generator) RestoreLibraryState(s *libraryState) {
	if s == nil {
		return
	}
	for k, v := range s.structTypes {
		if _, ok := g.structTypes[k]; !ok {
			g.structTypes[k] = v
		}
	}
	for k, v := range s.classTypes {
		if _, ok := g.classTypes[k]; !ok {
			g.classTypes[k] = v
		}
	}
	for k, v := range s.enumLayouts {
		if _, ok := g.enumLayouts[k]; !ok {
			g.enumLayouts[k] = v
		}
	}
	for k, v := range s.stringLiterals {
		if _, ok := g.stringLiterals[k]; !ok {
			g.stringLiterals[k] = v
		}
	}
	for k := range s.generatedFuncs {
		g.generatedFunctions[k] = true
	}
	for k := range s.nullableMaybe {
		g.nullableMaybeTypes[k] = true
	}
}

// RewriteLibraryDeclsOnly implements spec.md §4.10's library_decls_only
// driver option: every function definition already emitted into g.mod
// is rewritten to a bare `declare`, because the library's bodies will
// be linked in separately from a dedicated object built with
// LibraryDeclsOnly unset.
func (g *Generator) RewriteLibraryDeclsOnly() {
	if !g.opts.LibraryDeclsOnly {
		return
	}
	for name := range g.generatedFunctions {
		fn := g.mod.NamedFunction(name)
		if fn.IsAFunction().IsNil() {
			continue
		}
		for bb := fn.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
			bb.EraseFromParent()
		}
	}
}
