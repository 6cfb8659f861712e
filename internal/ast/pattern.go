package ast

// Pattern variants named in spec.md §3.

type (
	// IdentPattern binds a name, optionally as mutable.
	IdentPattern struct {
		Base
		Name string
		Mut  bool
	}

	// WildcardPattern is `_`.
	WildcardPattern struct {
		Base
	}

	// LiteralPattern matches an exact literal value.
	LiteralPattern struct {
		Base
		Kind    LiteralKind
		Payload interface{}
	}

	// TuplePattern is (p, q, ...).
	TuplePattern struct {
		Base
		Elems []Pattern
	}

	// ArrayPattern is [a, b, ..rest] with an optional rest binding.
	ArrayPattern struct {
		Base
		Elems []Pattern
		Rest  string // "" if no rest capture; "_" for an unnamed rest.
		HasRest bool
	}

	// StructPattern is T { x, y: a, .. }.
	StructPattern struct {
		Base
		Type    TypeExpr
		Fields  []StructPatternField
		HasRest bool // true if `..` present to ignore remaining fields.
	}

	// StructPatternField is one `name[: pat]` entry of a struct pattern.
	StructPatternField struct {
		Name string
		Pat  Pattern // nil if the field pattern is an implicit `name` shorthand.
	}

	// EnumVariantPattern is V(p1, ...) or V { ... }.
	EnumVariantPattern struct {
		Base
		Type    TypeExpr // enum type, may be elided (inferred from scrutinee).
		Variant string
		Tuple   []Pattern          // non-nil for V(p1, p2) shape.
		Struct  []StructPatternField // non-nil for V { x, y } shape.
		HasRest bool
	}

	// OrPattern is A | B, legal only at the top of a match arm.
	OrPattern struct {
		Base
		Alts []Pattern
	}
)

func (*IdentPattern) patternNode()       {}
func (*WildcardPattern) patternNode()    {}
func (*LiteralPattern) patternNode()     {}
func (*TuplePattern) patternNode()       {}
func (*ArrayPattern) patternNode()       {}
func (*StructPattern) patternNode()      {}
func (*EnumVariantPattern) patternNode() {}
func (*OrPattern) patternNode()          {}
