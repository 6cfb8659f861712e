// Debug/coverage instrumentation, spec.md §4.6's optional !dbg
// metadata and §6's Coverage/LLVMSourceCoverage driver options.
// Grounded on src/util/label.go's thread-safe label-generator idiom
// (this package's newLabel in gen.go reuses that shape for basic-block
// names); the code in this file uses no counter of its own.
package llvmgen

import "tinygo.org/x/go-llvm"

// instrumentCoverage inserts a call to the runtime coverage hook
// tml_cover_func(id) at the top of fn's entry block, spec.md §6's
// Coverage option; LLVMSourceCoverage instead emits
// llvm.instrprof.increment, a separate intrinsic this emitter declares
// on first use.
func (g *Generator) instrumentCoverage(fn llvm.Value, name string) {
	if !g.opts.Coverage && !g.opts.LLVMSourceCoverage {
		return
	}
	entry := fn.FirstBasicBlock()
	if entry.IsNil() {
		return
	}
	firstInstr := entry.FirstInstruction()
	saved := g.builder.GetInsertBlock()
	if firstInstr.IsNil() {
		g.builder.SetInsertPointAtEnd(entry)
	} else {
		g.builder.SetInsertPointBefore(firstInstr)
	}
	if g.opts.LLVMSourceCoverage {
		g.callInstrProfIncrement(name)
	} else {
		g.callCoverageHook(name)
	}
	if !saved.IsNil() {
		g.builder.SetInsertPointAtEnd(saved)
	}
}

func (g *Generator) callCoverageHook(name string) {
	hookName := "tml_cover_func"
	hook := g.mod.NamedFunction(hookName)
	if hook.IsAFunction().IsNil() {
		ft := llvm.FunctionType(g.ctx.VoidType(), []llvm.Type{llvm.PointerType(g.ctx.Int8Type(), 0)}, false)
		hook = llvm.AddFunction(g.mod, hookName, ft)
	}
	g.builder.CreateCall(hook, []llvm.Value{g.globalStringPtr(name)}, "")
}

func (g *Generator) callInstrProfIncrement(name string) {
	intrName := "llvm.instrprof.increment"
	fn := g.mod.NamedFunction(intrName)
	if fn.IsAFunction().IsNil() {
		i8ptr := llvm.PointerType(g.ctx.Int8Type(), 0)
		i64 := g.ctx.Int64Type()
		i32 := g.ctx.Int32Type()
		ft := llvm.FunctionType(g.ctx.VoidType(), []llvm.Type{i8ptr, i64, i32, i32}, false)
		fn = llvm.AddFunction(g.mod, intrName, ft)
	}
	g.builder.CreateCall(fn, []llvm.Value{
		g.globalStringPtr(name),
		llvm.ConstInt(g.ctx.Int64Type(), 0, false),
		llvm.ConstInt(g.ctx.Int32Type(), 1, false),
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
	}, "")
}

// attachDebugLoc is the !dbg attachment point spec.md §4.6 names for
// "define ... #0 [!dbg]"; full DWARF scaffolding (compile unit, file,
// subprogram DIEs) is out of scope for this emitter, so this records
// only a source line/column via SetCurrentDebugLocation, which
// go-llvm's DIBuilder-free path supports directly on the builder.
func (g *Generator) attachDebugLoc(line, col int) {
	if !g.opts.DebugInfo {
		return
	}
	g.builder.SetCurrentDebugLocation(uint(line), uint(col), llvm.Metadata{}, llvm.Metadata{})
}
