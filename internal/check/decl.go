package check

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/types"
)

// registerNames does a first pass over every declaration, registering
// a stub for each class (including classes nested in namespaces and
// inline modules) so that resolveTypeExpr elsewhere can already tell a
// class reference from a struct/enum reference (spec.md §4.4's class-vs-
// struct pass-by-value distinction depends on this). Method bodies and
// field types are filled in by resolveDecls afterward, once every name
// in the module is known regardless of declaration order.
func (c *Checker) registerNames(decls []ast.Decl) {
	for _, d := range decls {
		switch t := d.(type) {
		case *ast.ClassDecl:
			c.env.Classes[t.Name] = &types.ClassInfo{
				Name: t.Name, Generics: genericNames(t.Generics),
				IsAbstract: t.Abstract, IsSealed: t.Sealed,
				FieldTypes: map[string]*types.Type{}, StaticFields: map[string]*types.Type{},
				Methods: map[string]*types.FuncSig{}, Decl: t,
			}
		case *ast.NamespaceDecl:
			c.registerNames(t.Decls)
		case *ast.ModDecl:
			c.registerNames(t.Body)
		}
	}
}

// resolveDecls is the second registration pass: every top-level name is
// now known, so field/parameter/return types can be resolved without
// worrying about forward references.
func (c *Checker) resolveDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch t := d.(type) {
		case *ast.FuncDecl:
			c.registerFunc(t, nil)
		case *ast.StructDecl:
			c.registerStruct(t)
		case *ast.EnumDecl:
			c.registerEnum(t)
		case *ast.UnionDecl:
			c.registerUnion(t)
		case *ast.TypeAliasDecl:
			gs := genericSetFromParams(t.Generics)
			c.env.Aliases[t.Name] = c.resolveTypeExpr(t.Target, gs)
		case *ast.BehaviorDecl:
			c.registerBehavior(t)
		case *ast.ImplDecl:
			c.registerImpl(t)
		case *ast.InterfaceDecl:
			c.registerInterface(t)
		case *ast.ClassDecl:
			c.registerClass(t)
		case *ast.ConstDecl:
			c.registerConst(t)
		case *ast.NamespaceDecl:
			c.resolveDecls(t.Decls)
		case *ast.ModDecl:
			c.resolveDecls(t.Body)
		case *ast.UseDecl:
			// Cross-module import resolution belongs to internal/registry;
			// a single-module check has nothing further to do with it.
		}
	}
}

func genericNames(gs []ast.GenericParam) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}

func (c *Checker) registerFunc(fd *ast.FuncDecl, thisType *types.Type) *types.FuncSig {
	gs := genericSetFromParams(fd.Generics)
	params := make([]*types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = c.resolveTypeExpr(p.Type, gs)
	}
	sig := &types.FuncSig{
		Name: fd.Name, Generics: genericNames(fd.Generics),
		Params: params, ThisParam: thisType,
		Ret: c.resolveTypeExpr(fd.RetType, gs), Async: fd.Async, Decl: fd,
	}
	if thisType == nil {
		c.env.Funcs[fd.Name] = sig
	}
	return sig
}

func (c *Checker) registerStruct(sd *ast.StructDecl) {
	gs := genericSetFromParams(sd.Generics)
	info := &types.StructInfo{Name: sd.Name, Generics: genericNames(sd.Generics), FieldTypes: map[string]*types.Type{}, Decl: sd}
	for _, f := range sd.Fields {
		info.FieldOrder = append(info.FieldOrder, f.Name)
		info.FieldTypes[f.Name] = c.resolveTypeExpr(f.Type, gs)
	}
	c.env.Structs[sd.Name] = info
}

func (c *Checker) registerEnum(ed *ast.EnumDecl) {
	gs := genericSetFromParams(ed.Generics)
	info := &types.EnumInfo{Name: ed.Name, Generics: genericNames(ed.Generics), Decl: ed}
	for tag, v := range ed.Variants {
		vi := types.EnumVariantInfo{Name: v.Name, Tag: tag}
		for _, te := range v.Tuple {
			vi.TupleFields = append(vi.TupleFields, c.resolveTypeExpr(te, gs))
		}
		if v.Struct != nil {
			vi.StructTypes = map[string]*types.Type{}
			for _, f := range v.Struct {
				vi.StructFields = append(vi.StructFields, f.Name)
				vi.StructTypes[f.Name] = c.resolveTypeExpr(f.Type, gs)
			}
		}
		info.Variants = append(info.Variants, vi)
	}
	c.env.Enums[ed.Name] = info
}

// registerUnion resolves a raw union's overlapping field types into the
// same StructInfo shape a struct uses; the checker never verifies
// active-field discipline for unions (that's a lowlevel-block-adjacent
// runtime concern, spec.md §4.7), only that each field's declared type
// resolves.
func (c *Checker) registerUnion(ud *ast.UnionDecl) {
	gs := genericSetFromParams(ud.Generics)
	info := &types.StructInfo{Name: ud.Name, Generics: genericNames(ud.Generics), FieldTypes: map[string]*types.Type{}}
	for _, f := range ud.Fields {
		info.FieldOrder = append(info.FieldOrder, f.Name)
		info.FieldTypes[f.Name] = c.resolveTypeExpr(f.Type, gs)
	}
	c.env.Structs[ud.Name] = info
}

func (c *Checker) registerBehavior(bd *ast.BehaviorDecl) {
	gs := genericSetFromParams(bd.Generics)
	info := &types.BehaviorInfo{Name: bd.Name, Generics: genericNames(bd.Generics), AssocTypes: bd.AssocTypes, Methods: map[string]*types.FuncSig{}, Decl: bd}
	for _, m := range bd.Methods {
		mgs := gs
		if len(m.Generics) > 0 {
			mgs = genericSet{}
			for k := range gs {
				mgs[k] = true
			}
			for _, g := range m.Generics {
				mgs[g.Name] = true
			}
		}
		params := make([]*types.Type, len(m.Params))
		for i, p := range m.Params {
			params[i] = c.resolveTypeExpr(p.Type, mgs)
		}
		info.MethodOrder = append(info.MethodOrder, m.Name)
		info.Methods[m.Name] = &types.FuncSig{Name: m.Name, Params: params, Ret: c.resolveTypeExpr(m.RetType, mgs), Decl: m}
	}
	c.env.Behaviors[bd.Name] = info
}

func (c *Checker) registerInterface(id *ast.InterfaceDecl) {
	// Interfaces share the behavior table: an OOP interface and a
	// behavior both resolve to "a named set of method signatures a
	// target promises", spec.md §4.4 treats them as the class-world and
	// generic-world faces of the same concept.
	gs := genericSetFromParams(id.Generics)
	info := &types.BehaviorInfo{Name: id.Name, Generics: genericNames(id.Generics), Methods: map[string]*types.FuncSig{}}
	for _, m := range id.Methods {
		params := make([]*types.Type, len(m.Params))
		for i, p := range m.Params {
			params[i] = c.resolveTypeExpr(p.Type, gs)
		}
		info.MethodOrder = append(info.MethodOrder, m.Name)
		info.Methods[m.Name] = &types.FuncSig{Name: m.Name, Params: params, Ret: c.resolveTypeExpr(m.RetType, gs), Decl: m}
	}
	c.env.Behaviors[id.Name] = info
}

func (c *Checker) registerImpl(impd *ast.ImplDecl) {
	gs := genericSetFromParams(impd.Generics)
	targetName, targetArgs := c.typeExprName(impd.Target, gs)

	info := &types.ImplInfo{
		Generics:   genericNames(impd.Generics),
		TargetName: targetName, TargetArgs: targetArgs,
		TypeBindings: map[string]*types.Type{}, Methods: map[string]*types.FuncSig{},
		Consts: map[string]*types.ConstInfo{}, Decl: impd,
	}
	if impd.Behavior != nil {
		info.BehaviorName = impd.Behavior.Name
		for _, a := range impd.Behavior.Args {
			info.BehaviorArgs = append(info.BehaviorArgs, c.resolveTypeExpr(a, gs))
		}
	}
	if impd.Where != nil {
		for _, w := range impd.Where.Constraints {
			info.Where = append(info.Where, types.WhereConstraint{Param: w.Param.Name, BehaviorName: w.Bound.Name})
		}
	}
	for name, te := range impd.AssocTypes {
		info.TypeBindings[name] = c.resolveTypeExpr(te, gs)
	}

	var thisType *types.Type
	if _, ok := c.env.Classes[targetName]; ok {
		thisType = types.RefType(&types.Type{Kind: types.KClass, Name: targetName}, true)
	} else {
		thisType = types.RefType(&types.Type{Kind: types.KNamed, Name: targetName}, true)
	}
	for _, m := range impd.Methods {
		sig := c.registerFunc(m, thisType)
		info.Methods[m.Name] = sig
	}
	for _, cd := range impd.Consts {
		info.Consts[cd.Name] = &types.ConstInfo{Name: cd.Name, Type: c.resolveTypeExpr(cd.Type, gs), Decl: cd}
	}

	c.env.ImplsByTarget[targetName] = append(c.env.ImplsByTarget[targetName], info)

	if info.BehaviorName != "" {
		c.checkBehaviorSatisfied(impd, info)
	}
}

// checkBehaviorSatisfied verifies every method the behavior declares
// without a default body is present in the impl block (spec.md §4.4
// "Behavior bounds"). A method present in the behavior with a non-nil
// Decl.Body is a default the impl may omit.
func (c *Checker) checkBehaviorSatisfied(impd *ast.ImplDecl, info *types.ImplInfo) {
	beh, ok := c.env.Behaviors[info.BehaviorName]
	if !ok {
		c.errorf(impd.Span(), "E_CHECK_UNKNOWN_BEHAVIOR", "unknown behavior %q", info.BehaviorName)
		return
	}
	for _, name := range beh.MethodOrder {
		sig := beh.Methods[name]
		if sig.Decl != nil && sig.Decl.Body != nil {
			continue // default method, not required.
		}
		if _, ok := info.Methods[name]; !ok {
			c.errorf(impd.Span(), "E_CHECK_MISSING_METHOD",
				"impl of %q for %q is missing required method %q", info.BehaviorName, info.TargetName, name)
		}
	}
}

func (c *Checker) typeExprName(te ast.TypeExpr, gs genericSet) (string, []*types.Type) {
	if nt, ok := te.(*ast.NamedTypeExpr); ok {
		args := make([]*types.Type, len(nt.Args))
		for i, a := range nt.Args {
			args[i] = c.resolveTypeExpr(a, gs)
		}
		return nt.Name, args
	}
	return c.resolveTypeExpr(te, gs).String(), nil
}

func (c *Checker) registerClass(cd *ast.ClassDecl) {
	info := c.env.Classes[cd.Name] // registered by registerNames.
	gs := genericSetFromParams(cd.Generics)
	if cd.Extends != nil {
		info.Extends = cd.Extends.Name
	}
	for _, i := range cd.Implements {
		info.Implements = append(info.Implements, i.Name)
	}
	for _, f := range cd.Fields {
		t := c.resolveTypeExpr(f.Type, gs)
		if f.Static {
			info.StaticFields[f.Name] = t
		} else {
			info.FieldOrder = append(info.FieldOrder, f.Name)
			info.FieldTypes[f.Name] = t
		}
	}

	this := types.RefType(&types.Type{Kind: types.KClass, Name: cd.Name}, true)
	anyVirtual := false
	for _, m := range cd.Methods {
		sig := c.registerFunc(m.Fn, this)
		info.Methods[m.Fn.Name] = sig
		if m.Virtual || m.Override || m.Abstract {
			anyVirtual = true
		}
		if m.Abstract && m.Fn.Body != nil {
			c.errorf(m.Fn.Span(), "E_CHECK_ABSTRACT_BODY", "abstract method %q must not have a body", m.Fn.Name)
		}
		if m.Override && !c.baseDeclaresMethod(info.Extends, m.Fn.Name) {
			c.errorf(m.Fn.Span(), "E_CHECK_BAD_OVERRIDE", "method %q marked override but no base class declares it", m.Fn.Name)
		}
	}
	info.VTable = c.buildVTable(info)
	info.IsValueClass = info.IsSealed && !anyVirtual && info.Extends == ""
}

func (c *Checker) baseDeclaresMethod(baseName, method string) bool {
	for baseName != "" {
		base, ok := c.env.Classes[baseName]
		if !ok {
			return false
		}
		if _, ok := base.Methods[method]; ok {
			return true
		}
		baseName = base.Extends
	}
	return false
}

// buildVTable walks the extends chain root-to-leaf, so a derived
// class's override replaces its base's slot rather than appending a
// second one (spec.md §4.4 "Dynamic dispatch"). Method order within
// each class follows its declaration's Methods slice rather than the
// Methods map, so the table layout is deterministic across runs.
func (c *Checker) buildVTable(info *types.ClassInfo) []types.VTableSlot {
	var chain []*types.ClassInfo
	for cur := info; cur != nil; {
		chain = append([]*types.ClassInfo{cur}, chain...)
		if cur.Extends == "" {
			break
		}
		cur = c.env.Classes[cur.Extends]
	}
	slots := map[string]int{}
	var table []types.VTableSlot
	for _, cls := range chain {
		if cls.Decl == nil {
			continue
		}
		for _, m := range cls.Decl.Methods {
			name := m.Fn.Name
			if i, ok := slots[name]; ok {
				table[i].OwnerClass = cls.Name
				continue
			}
			slots[name] = len(table)
			table = append(table, types.VTableSlot{Name: name, OwnerClass: cls.Name})
		}
	}
	return table
}

func (c *Checker) registerConst(cd *ast.ConstDecl) {
	c.env.Consts[cd.Name] = &types.ConstInfo{Name: cd.Name, Type: c.resolveTypeExpr(cd.Type, nil), Decl: cd}
}

func (c *Checker) errorf(span source.Span, code, format string, args ...interface{}) {
	c.diags.Addf(diag.TypeErr, span, code, format, args...)
}
