package ast

import "github.com/tml-lang/tmlc/internal/source"

// Visibility is a member/declaration's access level.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisProtected
	VisPublic
)

// GenericParam is one `[T: Bound1 + Bound2]` entry.
type GenericParam struct {
	Name   string
	Bounds []*NamedTypeExpr
}

// WhereClause is the `where T: Behavior, ...` suffix of a declaration.
type WhereClause struct {
	Constraints []WhereConstraintExpr
}

// WhereConstraintExpr is one `T: Behavior[Args]` entry of a where clause.
type WhereConstraintExpr struct {
	Param *NamedTypeExpr
	Bound *NamedTypeExpr
}

// Decorator is an `@name(args)` attribute attached to the following
// declaration (spec.md §4.3 "Decorators").
type Decorator struct {
	Sp   source.Span
	Name string
	Args []Expr
}

// Param is one function/method parameter.
type Param struct {
	Name string
	Type TypeExpr
	Mut  bool // true for `mut name: T`.
}

type (
	// FuncDecl is `func name[generics](params) -> T where ... { body }`.
	// Body is nil for a trait method with no default implementation.
	FuncDecl struct {
		Base
		Doc        string
		Decorators []Decorator
		Vis        Visibility
		Name       string
		Generics   []GenericParam
		Params     []Param
		ThisParam  *Param // non-nil for a method; Name is "this" or "mut this".
		RetType    TypeExpr
		Where      *WhereClause
		Body       *BlockExpr
		Async      bool
	}

	// StructDecl is `type Name[generics] { field: Type, ... }`.
	StructDecl struct {
		Base
		Doc      string
		Vis      Visibility
		Name     string
		Generics []GenericParam
		Fields   []FieldDecl
	}

	// FieldDecl is one struct/class field.
	FieldDecl struct {
		Sp   source.Span
		Doc  string
		Vis  Visibility
		Name string
		Type TypeExpr
	}

	// EnumDecl is `type Name[generics] = V1 | V2(T) | V3 { x: T }`.
	EnumDecl struct {
		Base
		Doc      string
		Vis      Visibility
		Name     string
		Generics []GenericParam
		Variants []EnumVariantDecl
	}

	// EnumVariantDecl is one variant of a sum type.
	EnumVariantDecl struct {
		Sp     source.Span
		Name   string
		Tuple  []TypeExpr        // non-nil for V(T1, T2) shape.
		Struct []FieldDecl       // non-nil for V { x: T } shape.
	}

	// UnionDecl is a raw (untagged) union of field types.
	UnionDecl struct {
		Base
		Doc      string
		Vis      Visibility
		Name     string
		Generics []GenericParam
		Fields   []FieldDecl
	}

	// TypeAliasDecl is `type Name[generics] = Type`.
	TypeAliasDecl struct {
		Base
		Doc      string
		Vis      Visibility
		Name     string
		Generics []GenericParam
		Target   TypeExpr
	}

	// BehaviorDecl is `behavior Name[generics] { methods, assoc types, consts }`.
	BehaviorDecl struct {
		Base
		Doc            string
		Vis            Visibility
		Name           string
		Generics       []GenericParam
		AssocTypes     []string
		Methods        []*FuncDecl
		Consts         []*ConstDecl
		SuperBehaviors []*NamedTypeExpr
	}

	// ImplDecl is `impl[generics] Trait[args] for Type[args] where ... { items }`.
	// Behavior is nil for an inherent impl.
	ImplDecl struct {
		Base
		Generics   []GenericParam
		Behavior   *NamedTypeExpr
		Target     TypeExpr
		Where      *WhereClause
		AssocTypes map[string]TypeExpr
		Methods    []*FuncDecl
		Consts     []*ConstDecl
	}

	// InterfaceDecl is `interface Name[generics] { methods }`, the OOP
	// counterpart to a behavior, implemented by classes.
	InterfaceDecl struct {
		Base
		Doc      string
		Vis      Visibility
		Name     string
		Generics []GenericParam
		Methods  []*FuncDecl
	}

	// ClassDecl is `class Name[generics] extends Base implements I1, I2 { members }`.
	ClassDecl struct {
		Base
		Doc        string
		Vis        Visibility
		Abstract   bool
		Sealed     bool
		Name       string
		Generics   []GenericParam
		Extends    *NamedTypeExpr
		Implements []*NamedTypeExpr
		Fields     []ClassFieldDecl
		Methods    []*ClassMethodDecl
		Properties []*PropertyDecl
		Ctors      []*ConstructorDecl
	}

	// ClassFieldDecl is one class instance or static field.
	ClassFieldDecl struct {
		Sp     source.Span
		Doc    string
		Vis    Visibility
		Static bool
		Name   string
		Type   TypeExpr
		Init   Expr // nil if uninitialized.
	}

	// ClassMethodDecl is one class method with OOP modifiers.
	ClassMethodDecl struct {
		Fn       *FuncDecl
		Abstract bool
		Virtual  bool
		Override bool
		Static   bool
	}

	// PropertyDecl is a getter/setter pair.
	PropertyDecl struct {
		Sp     source.Span
		Vis    Visibility
		Name   string
		Type   TypeExpr
		Getter *BlockExpr // nil if write-only (unusual but legal).
		Setter *BlockExpr // nil if read-only.
	}

	// ConstructorDecl is a class constructor.
	ConstructorDecl struct {
		Sp     source.Span
		Vis    Visibility
		Params []Param
		Body   *BlockExpr
	}

	// ConstDecl is `const NAME: T = expr`.
	ConstDecl struct {
		Base
		Doc   string
		Vis   Visibility
		Name  string
		Type  TypeExpr
		Value Expr
	}

	// UseDecl is `use path[::*|::{a,b as c}]`.
	UseDecl struct {
		Base
		Path     []string
		Wildcard bool
		Items    []UseItem // non-nil for the `::{a, b as c}` shape.
	}

	// UseItem is one imported name, optionally aliased.
	UseItem struct {
		Name  string
		Alias string // "" if not aliased.
	}

	// ModDecl is `mod name [ { inline body } ]`. Body is nil when the
	// module's source lives in a separate file discovered by the
	// module registry.
	ModDecl struct {
		Base
		Name string
		Body []Decl
	}

	// NamespaceDecl is `namespace A.B { decls }`.
	NamespaceDecl struct {
		Base
		Path  []string
		Decls []Decl
	}
)

func (*FuncDecl) declNode()      {}
func (*StructDecl) declNode()    {}
func (*EnumDecl) declNode()      {}
func (*UnionDecl) declNode()     {}
func (*TypeAliasDecl) declNode() {}
func (*BehaviorDecl) declNode()  {}
func (*ImplDecl) declNode()      {}
func (*InterfaceDecl) declNode() {}
func (*ClassDecl) declNode()     {}
func (*ConstDecl) declNode()     {}
func (*UseDecl) declNode()       {}
func (*ModDecl) declNode()       {}
func (*NamespaceDecl) declNode() {}
