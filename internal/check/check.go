// Package check implements the type checker of spec.md §4.4: it walks a
// parsed ast.Module, resolves every TypeExpr to a semantic types.Type,
// and populates a types.Env with function/struct/enum/class/behavior/
// impl metadata the monomorphizer and IR emitter consume downstream.
//
// Grounded on the teacher's src/ir/validate.go, whose lutExp/lutAssign
// lookup tables decide binary-expression and assignment compatibility
// by indexing on a small fixed operand-category set rather than a
// chain of if/else; internal/check/lut.go generalizes that table from
// validate.go's two categories (integer, float) to tmlc's five
// (integer, float, bool, char, str), and from its fixed 13-operator set
// to the larger operator grammar spec.md §4.3 gives the Pratt parser.
// validate.go's single-pass Node.validate walk (switch on node kind,
// recurse into children) is the same shape checkExpr/checkStmt/
// checkBlock follow here, adapted to the four-hierarchy ast package
// instead of one flat Node type.
package check

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/types"
)

// Checker holds the Env being built and the diagnostic sink. One
// Checker checks exactly one module; cross-module name resolution is
// internal/registry's job (spec.md §4.10), which hands this package an
// already-assembled Env to extend when checking a module that imports
// others.
type Checker struct {
	env    *types.Env
	diags  *diag.List
	curRet *types.Type // return type of the function body currently being checked.
}

// Check resolves every declaration in mod, returning the populated Env
// and every diagnostic recorded along the way. A non-nil env is always
// returned, even when diagnostics describe fatal errors, so that
// partial results remain available to tooling (spec.md §4.11 "even on
// success the parser may have accumulated warnings; both are
// delivered" — the checker extends that posture to its own errors).
func Check(mod *ast.Module) (*types.Env, []diag.Diagnostic) {
	return CheckInto(types.NewEnv(), mod)
}

// CheckInto extends an existing Env (as built by checking previously-
// resolved modules) with mod's declarations, for use by the module
// registry when resolving an import graph.
func CheckInto(env *types.Env, mod *ast.Module) (*types.Env, []diag.Diagnostic) {
	c := &Checker{env: env, diags: &diag.List{}}
	env.Modules[mod.Name] = mod

	c.registerNames(mod.Decls)
	c.resolveDecls(mod.Decls)
	c.checkBodies(mod.Decls)

	return c.env, c.diags.Items()
}

// checkBodies is the third pass: every signature is now resolved, so
// function/method/constructor/property bodies can be walked with full
// knowledge of every callable's type.
func (c *Checker) checkBodies(decls []ast.Decl) {
	for _, d := range decls {
		switch t := d.(type) {
		case *ast.FuncDecl:
			c.checkFuncBody(t, nil, nil)
		case *ast.ImplDecl:
			c.checkImplBodies(t)
		case *ast.ClassDecl:
			c.checkClassBodies(t)
		case *ast.BehaviorDecl:
			for _, m := range t.Methods {
				if m.Body != nil {
					c.checkFuncBody(m, nil, nil)
				}
			}
		case *ast.ConstDecl:
			if t.Value != nil {
				s := newScope()
				c.checkExpr(t.Value, s, nil)
			}
		case *ast.NamespaceDecl:
			c.checkBodies(t.Decls)
		case *ast.ModDecl:
			c.checkBodies(t.Body)
		}
	}
}

func (c *Checker) checkImplBodies(impd *ast.ImplDecl) {
	gs := genericSetFromParams(impd.Generics)
	targetName, _ := c.typeExprName(impd.Target, gs)
	var this *types.Type
	if _, ok := c.env.Classes[targetName]; ok {
		this = types.RefType(&types.Type{Kind: types.KClass, Name: targetName}, true)
	} else if p, ok := primitiveNames[targetName]; ok {
		this = types.PrimitiveType(p)
	} else {
		this = types.RefType(&types.Type{Kind: types.KNamed, Name: targetName}, true)
	}
	for _, m := range impd.Methods {
		if m.Body != nil {
			c.checkFuncBody(m, this, gs)
		}
	}
}

func (c *Checker) checkClassBodies(cd *ast.ClassDecl) {
	gs := genericSetFromParams(cd.Generics)
	this := types.RefType(&types.Type{Kind: types.KClass, Name: cd.Name}, true)
	for _, m := range cd.Methods {
		if m.Fn.Body != nil {
			c.checkFuncBody(m.Fn, this, gs)
		}
	}
	for _, ctor := range cd.Ctors {
		s := newScope()
		s.declare("this", this, true)
		for _, p := range ctor.Params {
			s.declare(p.Name, c.resolveTypeExpr(p.Type, gs), p.Mut)
		}
		if ctor.Body != nil {
			c.checkBlock(ctor.Body, s, gs)
		}
	}
	for _, prop := range cd.Properties {
		t := c.resolveTypeExpr(prop.Type, gs)
		if prop.Getter != nil {
			s := newScope()
			s.declare("this", this, false)
			got := c.checkBlock(prop.Getter, s, gs)
			c.expectAssignable(got, t, prop.Getter.Span())
		}
		if prop.Setter != nil {
			s := newScope()
			s.declare("this", this, true)
			s.declare("value", t, false)
			c.checkBlock(prop.Setter, s, gs)
		}
	}
}

func (c *Checker) checkFuncBody(fd *ast.FuncDecl, this *types.Type, outerGenerics genericSet) {
	if fd.Body == nil {
		return // trait/interface/abstract method with no default.
	}
	gs := genericSet{}
	for k := range outerGenerics {
		gs[k] = true
	}
	for _, g := range fd.Generics {
		gs[g.Name] = true
	}
	s := newScope()
	if this != nil {
		s.declare("this", this, fd.ThisParam != nil && fd.ThisParam.Mut)
	}
	for _, p := range fd.Params {
		s.declare(p.Name, c.resolveTypeExpr(p.Type, gs), p.Mut)
	}
	ret := c.resolveTypeExpr(fd.RetType, gs)
	prevRet := c.curRet
	c.curRet = ret
	got := c.checkBlock(fd.Body, s, gs)
	c.curRet = prevRet
	if fd.Body.Tail != nil {
		c.expectAssignable(got, ret, fd.Body.Span())
	}
}
