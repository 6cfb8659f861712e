// Command tmlc is the TML compiler driver: read source, lex, parse,
// type-check, monomorphize and emit LLVM IR, spec.md §6.
//
// Grounded on src/main.go's run(opt)/main() staging (read source ->
// optional token-stream-and-exit -> parse -> optimise -> optional
// LLVM-gen-and-exit -> assembler backend), collapsed to the stages
// tmlc actually has: there is no non-LLVM assembler backend, so the
// "optimise" stage is the checker/registry and the LLVM stage is
// always taken.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/driveropts"
	"github.com/tml-lang/tmlc/internal/ir/llvmgen"
	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/parser"
	"github.com/tml-lang/tmlc/internal/registry"
	"github.com/tml-lang/tmlc/internal/source"
)

// run executes every compiler stage in sequence, writing emitted IR
// (or the token stream, for -ts) to opt.Out if set, else stdout.
func run(opt driveropts.Options) error {
	if opt.Src == "" {
		return fmt.Errorf("no source file given")
	}
	raw, err := os.ReadFile(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}
	src := source.New(opt.Src, string(raw))

	out := os.Stdout
	if opt.Out != "" {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opt.TokenStream {
		toks, errs := lexer.Run(src)
		for _, t := range toks {
			fmt.Fprintf(out, "%s %q %s\n", t.Kind, t.Text, t.Span)
		}
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.Error())
			}
			return fmt.Errorf("lexical errors: %d", len(errs))
		}
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(opt.Src), filepath.Ext(opt.Src))
	mod, perrs := parser.ParseModule(name, src)
	if hasErrors(perrs) {
		printDiags(perrs)
		return fmt.Errorf("parse error")
	}

	reg := registry.New()
	reg.RegisterModule(name, mod)
	rec, err := reg.Resolve(name)
	if err != nil {
		return fmt.Errorf("module resolution error: %w", err)
	}
	if hasErrors(rec.Diags) {
		printDiags(rec.Diags)
		return fmt.Errorf("type error")
	}

	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "tmlc: %d top-level declarations checked\n", len(mod.Decls))
	}

	gen := llvmgen.NewGenerator(name, reg.Env(), opt.Gen)
	gen.EmitModule(mod)
	gen.RewriteLibraryDeclsOnly()
	ir, diags := gen.Finalize()
	if hasErrors(diags) {
		printDiags(diags)
		return fmt.Errorf("code generation error")
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	fmt.Fprint(out, ir)
	return nil
}

func hasErrors(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if !d.Warning {
			return true
		}
	}
	return false
}

func printDiags(ds []diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

func main() {
	opt, err := driveropts.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}
	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
