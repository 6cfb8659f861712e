package ast

import "github.com/tml-lang/tmlc/internal/source"

// All Expr variants named in spec.md §3.

type (
	// LiteralExpr is an integer, float, string, char, bool or null literal.
	LiteralExpr struct {
		Base
		Kind    LiteralKind
		Payload interface{}
	}

	// IdentExpr is a bare identifier reference.
	IdentExpr struct {
		Base
		Name string
	}

	// PathExpr is a module-qualified reference, e.g. a::b::c.
	PathExpr struct {
		Base
		Segments []string
	}

	// BinaryExpr is an infix binary operator application.
	BinaryExpr struct {
		Base
		Op          string
		Left, Right Expr
	}

	// UnaryExpr is a prefix unary operator application.
	UnaryExpr struct {
		Base
		Op      string
		Operand Expr
	}

	// CallExpr is a function call.
	CallExpr struct {
		Base
		Callee Expr
		Args   []Expr
		TypeArgs []TypeExpr
	}

	// MethodCallExpr is receiver.method(args) syntax, kept distinct from
	// CallExpr because dispatch (static vs. dyn-vtable) is resolved on
	// the receiver, not the callee expression, in the type checker and
	// IR emitter (spec.md §4.7 "Call").
	MethodCallExpr struct {
		Base
		Receiver Expr
		Method   string
		TypeArgs []TypeExpr
		Args     []Expr
	}

	// FieldAccessExpr is receiver.field.
	FieldAccessExpr struct {
		Base
		Receiver Expr
		Field    string
	}

	// IndexExpr is receiver[index].
	IndexExpr struct {
		Base
		Receiver Expr
		Index    Expr
	}

	// TupleExpr is a parenthesized tuple literal (a, b, c).
	TupleExpr struct {
		Base
		Elems []Expr
	}

	// ArrayExpr is an array literal [a, b, c].
	ArrayExpr struct {
		Base
		Elems []Expr
	}

	// BlockExpr is a { ... } sequence of statements with an optional
	// trailing tail expression.
	BlockExpr struct {
		Base
		Stmts []Stmt
		Tail  Expr // nil if the block has no tail expression (evaluates to Unit).
	}

	// IfExpr is if cond { then } else { else }.
	IfExpr struct {
		Base
		Cond Expr
		Then *BlockExpr
		Else Expr // *BlockExpr or *IfExpr (else-if chain), or nil.
	}

	// IfLetExpr is if let pattern = scrutinee { then } else { else }.
	IfLetExpr struct {
		Base
		Pat       Pattern
		Scrutinee Expr
		Then      *BlockExpr
		Else      Expr
	}

	// WhenExpr is a pattern-match expression over a scrutinee.
	WhenExpr struct {
		Base
		Scrutinee Expr
		Arms      []WhenArm
	}

	// WhenArm is a single `pattern [if guard] => body` arm of a when.
	WhenArm struct {
		Sp    source.Span
		Pat   Pattern
		Guard Expr // nil if no guard.
		Body  Expr
	}

	// LoopExpr is an unconditional loop.
	LoopExpr struct {
		Base
		Body *BlockExpr
	}

	// WhileExpr is a condition-gated loop.
	WhileExpr struct {
		Base
		Cond Expr
		Body *BlockExpr
	}

	// ForExpr is a for pat in iterable { body } loop, desugared at
	// codegen time per spec.md §4.7 into IntoIterator::into_iter + loop.
	ForExpr struct {
		Base
		Pat      Pattern
		Iterable Expr
		Body     *BlockExpr
	}

	// ReturnExpr is return [value].
	ReturnExpr struct {
		Base
		Value Expr // nil for bare `return`.
	}

	// ThrowExpr is throw value.
	ThrowExpr struct {
		Base
		Value Expr
	}

	// BreakExpr is break [value] [label].
	BreakExpr struct {
		Base
		Value Expr
		Label string
	}

	// ContinueExpr is continue [label].
	ContinueExpr struct {
		Base
		Label string
	}

	// ClosureExpr is a |params| [-> T] body closure. Move is true for
	// `move |...|` closures that capture by value.
	ClosureExpr struct {
		Base
		Params   []ClosureParam
		RetType  TypeExpr // nil if unannotated.
		Body     Expr
		Move     bool
	}

	// ClosureParam is one parameter of a closure literal.
	ClosureParam struct {
		Name string
		Type TypeExpr // nil if inferred.
	}

	// StructLiteralExpr is Name { field: value, ... } or Name { ..Base }.
	StructLiteralExpr struct {
		Base
		Type     TypeExpr
		Fields   []StructLiteralField
		BaseExpr Expr // non-nil for `..Base` functional update syntax.
	}

	// StructLiteralField is one `field: value` entry of a struct literal.
	StructLiteralField struct {
		Name  string
		Value Expr
	}

	// LowLevelBlockExpr is an `unsafe`-style block of raw LLVM
	// primitive operations (spec.md §4.7 "Lowlevel block").
	LowLevelBlockExpr struct {
		Base
		Ops []LowLevelOp
	}

	// LowLevelOp is one raw operation inside a lowlevel block, e.g.
	// load/store/getelementptr/bitcast.
	LowLevelOp struct {
		Sp   source.Span
		Op   string
		Args []Expr
	}

	// BaseAccessExpr is `super`, a parent-class member access.
	BaseAccessExpr struct {
		Base
		Member string
		Args   []Expr // non-nil when this is a super.method(...) call.
	}

	// InterpStringExpr is an interpolated string "... {expr} ...".
	InterpStringExpr struct {
		Base
		Parts []InterpPart
	}

	// InterpPart is one fragment of an interpolated string: either a
	// literal text run or an embedded expression.
	InterpPart struct {
		Text string // valid when Expr == nil.
		Expr Expr   // valid when non-nil.
	}

	// TemplateLiteralExpr is a backtick-delimited Text-typed literal,
	// which also supports {expr} interpolation.
	TemplateLiteralExpr struct {
		Base
		Parts []InterpPart
	}

	// CastExpr is `expr as T`.
	CastExpr struct {
		Base
		Value Expr
		Type  TypeExpr
	}

	// TryExpr is `expr?`.
	TryExpr struct {
		Base
		Value Expr
	}

	// AwaitExpr is `expr.await` / `await expr`.
	AwaitExpr struct {
		Base
		Value Expr
	}

	// RangeExpr is `a..b`, `a..=b`, `a to b`, `a through b`.
	RangeExpr struct {
		Base
		Start, End Expr // either may be nil for open ranges.
		Inclusive  bool
	}
)

// LiteralKind differentiates the payload shape of a LiteralExpr.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitNull
)

func (*LiteralExpr) exprNode()        {}
func (*IdentExpr) exprNode()          {}
func (*PathExpr) exprNode()           {}
func (*BinaryExpr) exprNode()         {}
func (*UnaryExpr) exprNode()          {}
func (*CallExpr) exprNode()           {}
func (*MethodCallExpr) exprNode()     {}
func (*FieldAccessExpr) exprNode()    {}
func (*IndexExpr) exprNode()          {}
func (*TupleExpr) exprNode()          {}
func (*ArrayExpr) exprNode()          {}
func (*BlockExpr) exprNode()          {}
func (*IfExpr) exprNode()             {}
func (*IfLetExpr) exprNode()          {}
func (*WhenExpr) exprNode()           {}
func (*LoopExpr) exprNode()           {}
func (*WhileExpr) exprNode()          {}
func (*ForExpr) exprNode()            {}
func (*ReturnExpr) exprNode()         {}
func (*ThrowExpr) exprNode()          {}
func (*BreakExpr) exprNode()          {}
func (*ContinueExpr) exprNode()       {}
func (*ClosureExpr) exprNode()        {}
func (*StructLiteralExpr) exprNode()  {}
func (*LowLevelBlockExpr) exprNode()  {}
func (*BaseAccessExpr) exprNode()     {}
func (*InterpStringExpr) exprNode()   {}
func (*TemplateLiteralExpr) exprNode() {}
func (*CastExpr) exprNode()           {}
func (*TryExpr) exprNode()            {}
func (*AwaitExpr) exprNode()          {}
func (*RangeExpr) exprNode()          {}
