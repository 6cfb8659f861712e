package types

import "github.com/tml-lang/tmlc/internal/ast"

// Env is the process-scoped record produced by the type checker
// (spec.md §3 "TypeEnv"): the resolved symbol table, class metadata,
// associated-type bindings, and the per-name impl-block index.
type Env struct {
	Funcs     map[string]*FuncSig
	Structs   map[string]*StructInfo
	Enums     map[string]*EnumInfo
	Classes   map[string]*ClassInfo
	Behaviors map[string]*BehaviorInfo
	Consts    map[string]*ConstInfo
	Aliases   map[string]*Type
	Modules   map[string]*ast.Module

	// ImplsByTarget indexes every impl block by the short name of its
	// target type, so "per-name list of impl blocks targeting that
	// name" (spec.md §3) is an O(1) lookup.
	ImplsByTarget map[string][]*ImplInfo
}

// NewEnv returns an empty, initialized Env.
func NewEnv() *Env {
	return &Env{
		Funcs:         make(map[string]*FuncSig),
		Structs:       make(map[string]*StructInfo),
		Enums:         make(map[string]*EnumInfo),
		Classes:       make(map[string]*ClassInfo),
		Behaviors:     make(map[string]*BehaviorInfo),
		Consts:        make(map[string]*ConstInfo),
		Aliases:       make(map[string]*Type),
		Modules:       make(map[string]*ast.Module),
		ImplsByTarget: make(map[string][]*ImplInfo),
	}
}

// FuncSig is a resolved function signature.
type FuncSig struct {
	ModulePath []string
	Name       string
	Generics   []string
	Params     []*Type
	ThisParam  *Type // nil for a free function.
	Ret        *Type
	Async      bool
	Decl       *ast.FuncDecl
}

// StructInfo is resolved struct metadata.
type StructInfo struct {
	ModulePath []string
	Name       string
	Generics   []string
	FieldOrder []string
	FieldTypes map[string]*Type
	Decl       *ast.StructDecl
}

// EnumVariantInfo is resolved metadata for one enum variant.
type EnumVariantInfo struct {
	Name        string
	Tag         int
	TupleFields []*Type
	StructFields []string
	StructTypes  map[string]*Type
}

// EnumInfo is resolved enum metadata.
type EnumInfo struct {
	ModulePath []string
	Name       string
	Generics   []string
	Variants   []EnumVariantInfo
	Decl       *ast.EnumDecl
}

// VTableSlot is one entry of a class's virtual-dispatch table.
type VTableSlot struct {
	Name       string
	OwnerClass string // the class whose method body currently fills this slot.
}

// ClassInfo is resolved class metadata (spec.md §4.4 "Classes").
type ClassInfo struct {
	ModulePath    []string
	Name          string
	Generics      []string
	Extends       string // "" if no base class.
	Implements    []string
	FieldOrder    []string
	FieldTypes    map[string]*Type
	StaticFields  map[string]*Type
	Methods       map[string]*FuncSig
	VTable        []VTableSlot
	IsAbstract    bool
	IsSealed      bool
	IsValueClass  bool // sealed, no virtual methods: candidate for pass-by-value (spec.md §4.4).
	Decl          *ast.ClassDecl
}

// BehaviorInfo is resolved behavior (trait) metadata.
type BehaviorInfo struct {
	ModulePath  []string
	Name        string
	Generics    []string
	AssocTypes  []string
	MethodOrder []string
	Methods     map[string]*FuncSig // signatures; Decl.Body nil if no default.
	Decl        *ast.BehaviorDecl
}

// ImplInfo is one resolved impl block: a (behavior, target) pair (or
// target-only for an inherent impl) with its associated-type bindings.
type ImplInfo struct {
	Generics      []string
	BehaviorName  string // "" for an inherent impl.
	BehaviorArgs  []*Type
	TargetName    string
	TargetArgs    []*Type
	TypeBindings  map[string]*Type // associated-type name -> bound type.
	Methods       map[string]*FuncSig
	Consts        map[string]*ConstInfo
	Where         []WhereConstraint
	Decl          *ast.ImplDecl
}

// WhereConstraint records that a generic parameter must implement a
// behavior with the given type arguments (spec.md §4.4 "Behavior bounds").
type WhereConstraint struct {
	Param        string
	BehaviorName string
	BehaviorArgs []*Type
}

// ConstInfo is a resolved module-level constant.
type ConstInfo struct {
	ModulePath []string
	Name       string
	Type       *Type
	Decl       *ast.ConstDecl
}

// LookupImpls returns every impl block registered against the type
// named target, across all bounds.
func (e *Env) LookupImpls(target string) []*ImplInfo {
	return e.ImplsByTarget[target]
}

// FindBehaviorImpl returns the ImplInfo implementing behaviorName for
// targetName, or nil. When multiple impls could match (generic impls
// over distinct instantiations), the first exact match wins; callers
// needing disambiguation among several candidate behavior-argument
// lists should filter LookupImpls directly.
func (e *Env) FindBehaviorImpl(targetName, behaviorName string) *ImplInfo {
	for _, im := range e.LookupImpls(targetName) {
		if im.BehaviorName == behaviorName {
			return im
		}
	}
	return nil
}
