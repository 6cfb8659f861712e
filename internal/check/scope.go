package check

import "github.com/tml-lang/tmlc/internal/types"

// binding records a local name's type and mutability.
type binding struct {
	typ *types.Type
	mut bool
}

// scope is a stack of lexical frames, one pushed per block/function.
// Grounded on the teacher's util.Stack (src/util/stack.go), whose
// push/pop/peek shape this mirrors; the mutex is dropped because a
// single function body is checked by exactly one goroutine (spec.md
// §5), the same reasoning diag.List's own doc comment gives for
// keeping synchronization only where cross-unit sharing actually
// happens.
type scope struct {
	frames []map[string]binding
}

func newScope() *scope {
	s := &scope{}
	s.push()
	return s
}

func (s *scope) push() {
	s.frames = append(s.frames, make(map[string]binding))
}

func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scope) declare(name string, typ *types.Type, mut bool) {
	s.frames[len(s.frames)-1][name] = binding{typ: typ, mut: mut}
}

func (s *scope) lookup(name string) (binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}
