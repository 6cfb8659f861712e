package ast

// TypeExpr is the parser-level syntax for a type reference, as written
// by the programmer. It is distinct from types.Type (the semantic type
// the checker resolves it to, spec.md §3 "Type") because one TypeExpr
// may resolve differently depending on which generic scope it appears
// in (e.g. a bare `T` is a generic parameter in one function and a
// type error in another).
type TypeExpr interface {
	Node
	typeExprNode()
}

type (
	// NamedTypeExpr is `Name[Arg1, Arg2]` possibly module-qualified.
	NamedTypeExpr struct {
		Base
		ModulePath []string
		Name       string
		Args       []TypeExpr
	}

	// RefTypeExpr is `&T` or `&mut T`.
	RefTypeExpr struct {
		Base
		Mut  bool
		Elem TypeExpr
	}

	// PtrTypeExpr is `*T` or `*mut T`.
	PtrTypeExpr struct {
		Base
		Mut  bool
		Elem TypeExpr
	}

	// ArrayTypeExpr is `[T; N]` where N is a constant-expression AST
	// (resolved to an integer by the type checker).
	ArrayTypeExpr struct {
		Base
		Elem TypeExpr
		Size Expr
	}

	// SliceTypeExpr is `[]T` / `[T]`, lowered to a fat pointer.
	SliceTypeExpr struct {
		Base
		Elem TypeExpr
	}

	// TupleTypeExpr is `(A, B, ...)`.
	TupleTypeExpr struct {
		Base
		Elems []TypeExpr
	}

	// FuncTypeExpr is `fn(Params) -> Ret` / a closure type.
	FuncTypeExpr struct {
		Base
		Params []TypeExpr
		Ret    TypeExpr
	}

	// DynTypeExpr is `dyn B1 + B2`.
	DynTypeExpr struct {
		Base
		Behaviors []*NamedTypeExpr
	}

	// ImplTypeExpr is `impl B1 + B2`, an opaque existential return type.
	ImplTypeExpr struct {
		Base
		Behaviors []*NamedTypeExpr
	}
)

func (*NamedTypeExpr) typeExprNode() {}
func (*RefTypeExpr) typeExprNode()   {}
func (*PtrTypeExpr) typeExprNode()   {}
func (*ArrayTypeExpr) typeExprNode() {}
func (*SliceTypeExpr) typeExprNode() {}
func (*TupleTypeExpr) typeExprNode() {}
func (*FuncTypeExpr) typeExprNode()  {}
func (*DynTypeExpr) typeExprNode()   {}
func (*ImplTypeExpr) typeExprNode()  {}
