// Package driveropts parses cmd/tmlc's command line into an Options
// value, spec.md §6's driver-options surface.
//
// Grounded on src/util/args.go's ParseArgs/printHelp: a hand-rolled,
// no-flag-package scanner over os.Args (rather than the standard
// library's flag package, which the teacher never reaches for)
// because several of these options are two-token ("-o out.ll") while
// others are bare switches, and the teacher's index-advancing loop
// handles that mix more directly than flag.FlagSet would.
package driveropts

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tml-lang/tmlc/internal/ir/llvmgen"
)

// maxThreads bounds -t the same way the teacher's args.go does, even
// though tmlc's single-module pipeline does not yet parallelize across
// threads; the option is accepted and validated so a future worker
// pool (spec.md §4.10's parallel library builds) has somewhere to land.
const maxThreads = 64

const appVersion = "tmlc 0.1"

// Options is the whole command line, combining the driver's own
// concerns (source/output paths, thread count, token-stream-and-exit)
// with the llvmgen.Options the emitter itself consults.
type Options struct {
	Src         string
	Out         string
	Threads     int
	Verbose     bool
	TokenStream bool

	TargetArch   string
	TargetOS     string
	TargetVendor string

	Gen llvmgen.Options
}

// ParseArgs parses os.Args[1:] into Options, mirroring util.ParseArgs's
// single left-to-right scan with explicit lookahead for two-token
// flags. -h/-help and -v/-version print and exit immediately, matching
// the teacher's behavior.
func ParseArgs() (Options, error) {
	opt := Options{}
	args := os.Args[1:]
	if len(args) == 0 {
		return opt, nil
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			opt.Verbose = true
			opt.Gen.Verbose = true
		case "-ts":
			opt.TokenStream = true
		case "-suite":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return opt, fmt.Errorf("expected non-negative integer suite index, got: %s", args[i+1])
			}
			opt.Gen.SuiteTestIndex = n
			i++
		case "-internal":
			opt.Gen.ForceInternalLinkage = true
		case "-lib-ir-only":
			opt.Gen.LibraryIROnly = true
		case "-lib-decls-only":
			opt.Gen.LibraryDeclsOnly = true
		case "-lazy-lib-defs":
			opt.Gen.LazyLibraryDefs = true
		case "-cov":
			opt.Gen.Coverage = true
		case "-source-cov":
			opt.Gen.LLVMSourceCoverage = true
		case "-g":
			opt.Gen.DebugInfo = true
		case "-o", "-t":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			if strings.HasPrefix(args[i+1], "-") {
				return opt, fmt.Errorf("expected argument to %s, got new flag %s", args[i], args[i+1])
			}
			switch args[i] {
			case "-o":
				opt.Out = args[i+1]
			case "-t":
				t, err := strconv.Atoi(args[i+1])
				if err != nil || t <= 0 || t > maxThreads {
					return opt, fmt.Errorf("thread count must be integer in range [1, %d]", maxThreads)
				}
				opt.Threads = t
			}
			i++
		case "-arch":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			opt.TargetArch = args[i+1]
			i++
		case "-os":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			opt.TargetOS = args[i+1]
			i++
		case "-vendor":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			opt.TargetVendor = args[i+1]
			i++
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			opt.Src = args[i]
		}
	}
	return opt, nil
}

// printHelp prints a usage message to stdout, spec.md §6's driver
// surface, tabulated the way util/args.go's printHelp is.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints the compiler version and exits.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler stage statistics to stderr.")
	_, _ = fmt.Fprintln(w, "-ts\tOutput the token stream and exit.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the output .ll file. Defaults to stdout.")
	_, _ = fmt.Fprintf(w, "-t\tThread count for parallel library builds. Must be in range [1, %d].\n", maxThreads)
	_, _ = fmt.Fprintln(w, "-arch\tTarget architecture identifier (e.g. x86_64, aarch64).")
	_, _ = fmt.Fprintln(w, "-os\tTarget operating system identifier (e.g. linux, windows, mac).")
	_, _ = fmt.Fprintln(w, "-vendor\tTarget vendor identifier (e.g. pc, apple, ibm).")
	_, _ = fmt.Fprintln(w, "-suite\tSuite-test index: symbol-prefix this file's IR for a multi-file test suite.")
	_, _ = fmt.Fprintln(w, "-internal\tForce every emitted function to internal linkage.")
	_, _ = fmt.Fprintln(w, "-lib-ir-only\tEmit only the union of imported library modules' IR.")
	_, _ = fmt.Fprintln(w, "-lib-decls-only\tRewrite library function definitions to declare stubs.")
	_, _ = fmt.Fprintln(w, "-lazy-lib-defs\tDefer library function body emission until first local reference.")
	_, _ = fmt.Fprintln(w, "-cov\tInstrument function entries with a coverage hook call.")
	_, _ = fmt.Fprintln(w, "-source-cov\tInstrument function entries with llvm.instrprof.increment.")
	_, _ = fmt.Fprintln(w, "-g\tAttach source-line debug locations to emitted IR.")
	_ = w.Flush()
}
