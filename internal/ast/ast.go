// Package ast defines the abstract syntax tree the parser produces:
// four tagged-variant hierarchies (Expr, Stmt, Decl, Pattern), each
// node carrying its source.Span (spec.md §3).
//
// The teacher (src/ir/nodetype.go) represents its whole syntax tree as
// one flat NodeType-tagged Node struct with an interface{} Data field
// dispatched by a type switch in String(). tmlc generalizes that shape
// into four small sealed interfaces — one per hierarchy spec.md names
// — each implemented by a dedicated struct per variant, because the
// four hierarchies have disjoint operations (an Expr yields a value, a
// Decl introduces a name, a Pattern is matched against a value) and a
// single flat tag would force type assertions at every call site the
// way the teacher's own genExpression/genDeclaration dispatch does
// internally. The dispatch-by-type-switch idiom itself survives in the
// type switches internal/check and internal/ir/llvmgen run over these
// interfaces (§9 design notes); this package defines no walker.
package ast

import "github.com/tml-lang/tmlc/internal/source"

// Node is the common capability of every AST node: it knows its own span.
type Node interface {
	Span() source.Span
}

// Expr is any expression-hierarchy node (spec.md §3 "Expression").
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement-hierarchy node (spec.md §3 "Statement").
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any declaration-hierarchy node (spec.md §3 "Declaration").
type Decl interface {
	Node
	declNode()
}

// Pattern is any pattern-hierarchy node (spec.md §3 "Pattern").
type Pattern interface {
	Node
	patternNode()
}

// Base is embedded by every concrete node to provide Span() without
// repeating the field and method on each type.
type Base struct {
	Sp source.Span
}

func (b Base) Span() source.Span { return b.Sp }

// Module is the parse result of one source file: an ordered list of
// top-level declarations plus the doc-comment attached to the module
// itself, if any (spec.md §4.3 "mod name").
type Module struct {
	Name    string
	Path    string // Dotted/::-separated module path, resolved by the registry.
	Doc     string
	Decls   []Decl
	Src     *source.Source
}
