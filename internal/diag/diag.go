// Package diag defines the structured diagnostic records the core
// emits (spec.md §4.11, §7): {kind, message, span, notes, fixes, code}.
// Pretty-printing is explicitly out of scope for the core; a
// presentation layer outside this module formats these for a
// terminal/LSP/test harness.
//
// Grounded on the teacher's util/perror.go, which accumulates errors
// from parallel workers behind a mutex-guarded buffer; tmlc's List
// keeps the same "accumulate, don't abort" posture (spec.md §7
// "errors accumulate in a per-phase list; processing continues") but
// drops the channel/goroutine plumbing because each compilation unit
// is single-threaded per spec.md §5 — only the List type itself, not
// its production, needs to be safe for concurrent use, and that
// safety is provided by a plain mutex rather than a listener goroutine.
package diag

import (
	"fmt"
	"sync"

	"github.com/tml-lang/tmlc/internal/source"
)

// Kind is the diagnostic taxonomy of spec.md §7.
type Kind int

const (
	Lex Kind = iota
	Parse
	TypeErr
	Borrow
	Codegen
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LEX"
	case Parse:
		return "PARSE"
	case TypeErr:
		return "TYPE"
	case Borrow:
		return "BORROW"
	case Codegen:
		return "CODEGEN"
	case Invariant:
		return "INVARIANT"
	}
	return "UNKNOWN"
}

// FixKind differentiates the mechanical-correction shape of a Fix.
type FixKind int

const (
	FixInsert FixKind = iota
	FixReplace
	FixDelete
)

// Fix is a mechanical, never-auto-applied correction suggestion
// (spec.md §4.3 "Fix-it hints").
type Fix struct {
	Kind        FixKind
	Span        source.Span
	Replacement string // meaningless for FixDelete.
	Label       string
}

// Diagnostic is one structured error or warning record.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Span     source.Span
	Notes    []string
	Fixes    []Fix
	Code     string // e.g. "E_CHECK_TYPE_MISMATCH", stable across releases for tooling.
	Warning  bool
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Kind, d.Message)
}

// List is a mutex-guarded diagnostic accumulator, safe to share across
// the cross-unit caches of §4.10 even though a single compilation
// unit never touches it concurrently.
type List struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Add appends d to the list.
func (l *List) Add(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// Addf constructs and appends a Diagnostic of the given kind from a
// format string.
func (l *List) Addf(kind Kind, span source.Span, code, format string, args ...interface{}) {
	l.Add(Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span, Code: code})
}

// HasErrors reports whether any non-warning diagnostic was recorded.
func (l *List) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.items {
		if !d.Warning {
			return true
		}
	}
	return false
}

// Items returns a snapshot slice of everything recorded so far.
func (l *List) Items() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
