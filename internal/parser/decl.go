package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseDecl dispatches on the next declaration keyword, first
// collecting any doc comment and decorators that precede it (spec.md
// §4.3). On a parse failure inside a declaration body the parser
// synchronizes to the next declaration-starting token rather than
// aborting the whole module.
func (p *Parser) parseDecl() ast.Decl {
	doc := p.collectDocComment()
	decorators := p.collectDecorators()
	vis := p.parseVisibility()
	async := p.match(token.ASYNC)

	var d ast.Decl
	switch {
	case p.checkKind(token.FUNC):
		d = p.parseFuncDecl(doc, decorators, vis, async)
	case p.checkKind(token.TYPE):
		d = p.parseTypeDecl(doc, vis)
	case p.checkKind(token.UNION):
		d = p.parseUnionDecl(doc, vis)
	case p.checkKind(token.BEHAVIOR):
		d = p.parseBehaviorDecl(doc, vis)
	case p.checkKind(token.IMPL):
		d = p.parseImplDecl()
	case p.checkKind(token.INTERFACE):
		d = p.parseInterfaceDecl(doc, vis)
	case p.checkKind(token.CLASS):
		d = p.parseClassDecl(doc, vis, false, false)
	case p.checkKind(token.ABSTRACT):
		p.advance()
		if !p.checkKind(token.CLASS) {
			p.expect(token.CLASS, "after abstract")
		}
		d = p.parseClassDecl(doc, vis, true, false)
	case p.checkKind(token.SEALED):
		p.advance()
		if !p.checkKind(token.CLASS) {
			p.expect(token.CLASS, "after sealed")
		}
		d = p.parseClassDecl(doc, vis, false, true)
	case p.checkKind(token.NAMESPACE):
		d = p.parseNamespaceDecl()
	case p.checkKind(token.CONST):
		d = p.parseConstDecl(doc, vis)
	case p.checkKind(token.USE):
		d = p.parseUseDecl()
	case p.checkKind(token.MOD):
		d = p.parseModDecl()
	default:
		p.errorf(p.peek().Span, "E_PARSE_DECL", "expected declaration, found %s", p.peek().Kind)
		p.synchronizeToDecl()
		return nil
	}
	return d
}

func (p *Parser) parseVisibility() ast.Visibility {
	switch {
	case p.match(token.PUB):
		return ast.VisPublic
	case p.match(token.PROTECTED):
		return ast.VisProtected
	case p.match(token.PRIVATE):
		return ast.VisPrivate
	default:
		return ast.VisPrivate
	}
}

// parseGenericParams parses an optional `[T: B1 + B2, U]` list.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.match(token.LBRACKET) {
		return nil
	}
	var params []ast.GenericParam
	for !p.checkKind(token.RBRACKET) && !p.isAtEnd() {
		nameTok, _ := p.expect(token.IDENT, "generic parameter name")
		var bounds []*ast.NamedTypeExpr
		if p.match(token.COLON) {
			bounds = p.parseBehaviorBoundList()
		}
		params = append(params, ast.GenericParam{Name: nameTok.Text, Bounds: bounds})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET, "to close generic parameters")
	return params
}

func (p *Parser) checkWhere() bool {
	return p.checkKind(token.IDENT) && p.peek().Text == "where"
}

func (p *Parser) parseWhereClauseIfPresent() *ast.WhereClause {
	if !p.checkWhere() {
		return nil
	}
	p.advance()
	wc := &ast.WhereClause{}
	for {
		param := p.parseNamedTypeExpr()
		p.expect(token.COLON, "in where clause")
		bound := p.parseNamedTypeExpr()
		wc.Constraints = append(wc.Constraints, ast.WhereConstraintExpr{Param: param, Bound: bound})
		if !p.match(token.COMMA) {
			break
		}
	}
	return wc
}

// parseParamList parses `(params)`, recognizing a leading `this` /
// `mut this` receiver parameter for methods.
func (p *Parser) parseParamList() (this *ast.Param, params []ast.Param) {
	p.expect(token.LPAREN, "to open parameter list")
	p.skipNewlines()
	first := true
	for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
		if first && (p.checkKind(token.THIS_TYPE) || (p.checkKind(token.MUT) && p.peekAt(1).Kind == token.THIS_TYPE)) {
			mut := p.match(token.MUT)
			p.advance() // this
			this = &ast.Param{Name: "this", Mut: mut}
		} else {
			nameTok, _ := p.expect(token.IDENT, "parameter name")
			p.expect(token.COLON, "in parameter")
			mut := p.match(token.MUT)
			typ := p.parseTypeExpr()
			params = append(params, ast.Param{Name: nameTok.Text, Type: typ, Mut: mut})
		}
		first = false
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RPAREN, "to close parameter list")
	return this, params
}

// parseFuncDecl parses `func name[generics](params) -> T where ... { body }`.
func (p *Parser) parseFuncDecl(doc string, decorators []ast.Decorator, vis ast.Visibility, async bool) *ast.FuncDecl {
	start := p.peek().Span
	p.advance() // FUNC
	for _, d := range decorators {
		if d.Name == "async" {
			async = true
		}
	}
	nameTok, _ := p.expect(token.IDENT, "function name")
	generics := p.parseGenericParams()
	this, params := p.parseParamList()
	var ret ast.TypeExpr
	if p.match(token.ARROW) {
		ret = p.parseTypeExpr()
	}
	where := p.parseWhereClauseIfPresent()
	var body *ast.BlockExpr
	if p.checkKind(token.LBRACE) {
		body = p.parseBlock()
	} else {
		p.consumeStmtEnd()
	}
	return &ast.FuncDecl{
		Base: spanBase(start, p.previous().Span), Doc: doc, Decorators: decorators, Vis: vis,
		Name: nameTok.Text, Generics: generics, Params: params, ThisParam: this,
		RetType: ret, Where: where, Body: body, Async: async,
	}
}

// parseTypeDecl parses `type Name[generics] { ... }` (struct if every
// member is `name: Type`, enum otherwise) or `type Name[generics] =
// Type | V1 | V2(T) | ...` (sum type or alias).
func (p *Parser) parseTypeDecl(doc string, vis ast.Visibility) ast.Decl {
	start := p.peek().Span
	p.advance() // TYPE
	nameTok, _ := p.expect(token.IDENT, "type name")
	generics := p.parseGenericParams()

	if p.match(token.EQ) {
		return p.parseEnumOrAliasRHS(start, doc, vis, nameTok.Text, generics)
	}

	p.expect(token.LBRACE, "to open type body")
	p.skipNewlines()
	if p.looksLikeEnumBody() {
		variants := p.parseEnumVariantList()
		p.expect(token.RBRACE, "to close enum body")
		return &ast.EnumDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: nameTok.Text, Generics: generics, Variants: variants}
	}
	fields := p.parseFieldDeclList()
	p.expect(token.RBRACE, "to close struct body")
	return &ast.StructDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: nameTok.Text, Generics: generics, Fields: fields}
}

// looksLikeEnumBody peeks whether the upcoming `{` body is a struct
// (every member `name: Type`) or a sum type written in brace form
// (`V1, V2(T), V3 { x: T }`): a member introduced by a capitalized
// identifier not followed by `:` signals an enum variant.
func (p *Parser) looksLikeEnumBody() bool {
	if !p.checkKind(token.IDENT) {
		return false
	}
	name := p.peek().Text
	capitalized := len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
	next := p.peekAt(1).Kind
	if next == token.COLON {
		return false
	}
	return capitalized && (next == token.COMMA || next == token.LPAREN || next == token.LBRACE || next == token.NEWLINE || next == token.RBRACE)
}

func (p *Parser) parseFieldDeclList() []ast.FieldDecl {
	var fields []ast.FieldDecl
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		fdoc := p.collectDocComment()
		fvis := p.parseVisibility()
		fstart := p.peek().Span
		nameTok, _ := p.expect(token.IDENT, "field name")
		p.expect(token.COLON, "in field declaration")
		typ := p.parseTypeExpr()
		fields = append(fields, ast.FieldDecl{Sp: source.Join(fstart, p.previous().Span), Doc: fdoc, Vis: fvis, Name: nameTok.Text, Type: typ})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	return fields
}

func (p *Parser) parseEnumVariantList() []ast.EnumVariantDecl {
	var variants []ast.EnumVariantDecl
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		vstart := p.peek().Span
		nameTok, _ := p.expect(token.IDENT, "enum variant name")
		v := ast.EnumVariantDecl{Name: nameTok.Text}
		switch {
		case p.match(token.LPAREN):
			for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
				v.Tuple = append(v.Tuple, p.parseTypeExpr())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN, "to close variant tuple")
		case p.checkKind(token.LBRACE):
			p.advance()
			v.Struct = p.parseFieldDeclList()
			p.expect(token.RBRACE, "to close variant fields")
		}
		v.Sp = source.Join(vstart, p.previous().Span)
		variants = append(variants, v)
		p.skipNewlines()
		if !p.match(token.COMMA) {
			p.skipNewlines()
			continue
		}
		p.skipNewlines()
	}
	return variants
}

// parseEnumOrAliasRHS parses the right-hand side of `type Name = ...`:
// either a plain type alias, or a `V1 | V2(T) | V3 { x: T }` sum type.
func (p *Parser) parseEnumOrAliasRHS(start source.Span, doc string, vis ast.Visibility, name string, generics []ast.GenericParam) ast.Decl {
	if p.checkKind(token.IDENT) && isEnumVariantStart(p.peek().Text, p.peekAt(1).Kind) {
		var variants []ast.EnumVariantDecl
		for {
			vstart := p.peek().Span
			vnameTok, _ := p.expect(token.IDENT, "enum variant name")
			v := ast.EnumVariantDecl{Name: vnameTok.Text}
			switch {
			case p.match(token.LPAREN):
				for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
					v.Tuple = append(v.Tuple, p.parseTypeExpr())
					if !p.match(token.COMMA) {
						break
					}
				}
				p.expect(token.RPAREN, "to close variant tuple")
			case p.checkKind(token.LBRACE):
				p.advance()
				v.Struct = p.parseFieldDeclList()
				p.expect(token.RBRACE, "to close variant fields")
			}
			v.Sp = source.Join(vstart, p.previous().Span)
			variants = append(variants, v)
			if !p.match(token.PIPE) {
				break
			}
		}
		p.consumeStmtEnd()
		return &ast.EnumDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: name, Generics: generics, Variants: variants}
	}
	target := p.parseTypeExpr()
	p.consumeStmtEnd()
	return &ast.TypeAliasDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: name, Generics: generics, Target: target}
}

func isEnumVariantStart(text string, next token.Kind) bool {
	capitalized := len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z'
	return capitalized
}

// parseUnionDecl parses `union Name[generics] { field: Type, ... }`, a
// raw untagged union of field types.
func (p *Parser) parseUnionDecl(doc string, vis ast.Visibility) *ast.UnionDecl {
	start := p.peek().Span
	p.advance() // UNION
	nameTok, _ := p.expect(token.IDENT, "union name")
	generics := p.parseGenericParams()
	p.expect(token.LBRACE, "to open union body")
	p.skipNewlines()
	fields := p.parseFieldDeclList()
	p.expect(token.RBRACE, "to close union body")
	return &ast.UnionDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: nameTok.Text, Generics: generics, Fields: fields}
}

// parseBehaviorDecl parses `behavior Name[generics] { methods, assoc
// types, constants }`.
func (p *Parser) parseBehaviorDecl(doc string, vis ast.Visibility) *ast.BehaviorDecl {
	start := p.peek().Span
	p.advance() // BEHAVIOR
	nameTok, _ := p.expect(token.IDENT, "behavior name")
	generics := p.parseGenericParams()
	var supers []*ast.NamedTypeExpr
	if p.match(token.COLON) {
		supers = p.parseBehaviorBoundList()
	}
	p.expect(token.LBRACE, "to open behavior body")
	p.skipNewlines()
	b := &ast.BehaviorDecl{Base: spanBase(start, start), Doc: doc, Vis: vis, Name: nameTok.Text, Generics: generics, SuperBehaviors: supers}
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		switch {
		case p.checkKind(token.TYPE):
			p.advance()
			atNameTok, _ := p.expect(token.IDENT, "associated type name")
			b.AssocTypes = append(b.AssocTypes, atNameTok.Text)
			p.consumeStmtEnd()
		case p.checkKind(token.CONST):
			b.Consts = append(b.Consts, p.parseConstDecl("", ast.VisPublic))
		case p.checkKind(token.FUNC):
			b.Methods = append(b.Methods, p.parseFuncDecl(p.collectDocComment(), nil, ast.VisPublic, false))
		default:
			p.errorf(p.peek().Span, "E_PARSE_BEHAVIOR", "unexpected token %s in behavior body", p.peek().Kind)
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close behavior body")
	b.Base = spanBase(start, p.previous().Span)
	return b
}

// parseImplDecl parses `impl[generics] [Trait[args] for] Type[args]
// where ... { items }`; the trait clause is optional (inherent impl).
func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.peek().Span
	p.advance() // IMPL
	generics := p.parseGenericParams()

	var behavior *ast.NamedTypeExpr
	target := p.parseTypeExpr()
	if p.match(token.FOR) {
		if nt, ok := target.(*ast.NamedTypeExpr); ok {
			behavior = nt
		}
		target = p.parseTypeExpr()
	}
	where := p.parseWhereClauseIfPresent()
	p.expect(token.LBRACE, "to open impl body")
	p.skipNewlines()
	impl := &ast.ImplDecl{Base: spanBase(start, start), Generics: generics, Behavior: behavior, Target: target, Where: where, AssocTypes: map[string]ast.TypeExpr{}}
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		switch {
		case p.checkKind(token.TYPE):
			p.advance()
			atNameTok, _ := p.expect(token.IDENT, "associated type name")
			p.expect(token.EQ, "in associated type binding")
			impl.AssocTypes[atNameTok.Text] = p.parseTypeExpr()
			p.consumeStmtEnd()
		case p.checkKind(token.CONST):
			impl.Consts = append(impl.Consts, p.parseConstDecl("", ast.VisPublic))
		case p.checkKind(token.FUNC):
			impl.Methods = append(impl.Methods, p.parseFuncDecl(p.collectDocComment(), nil, ast.VisPublic, false))
		default:
			p.errorf(p.peek().Span, "E_PARSE_IMPL", "unexpected token %s in impl body", p.peek().Kind)
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close impl body")
	impl.Base = spanBase(start, p.previous().Span)
	return impl
}

// parseInterfaceDecl parses `interface Name[generics] { methods }`.
func (p *Parser) parseInterfaceDecl(doc string, vis ast.Visibility) *ast.InterfaceDecl {
	start := p.peek().Span
	p.advance() // INTERFACE
	nameTok, _ := p.expect(token.IDENT, "interface name")
	generics := p.parseGenericParams()
	p.expect(token.LBRACE, "to open interface body")
	p.skipNewlines()
	var methods []*ast.FuncDecl
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.parseFuncDecl(p.collectDocComment(), nil, ast.VisPublic, false))
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close interface body")
	return &ast.InterfaceDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: nameTok.Text, Generics: generics, Methods: methods}
}

// parseClassDecl parses `class Name[generics] extends Base implements
// I1, I2 { members }` with OOP member modifiers.
func (p *Parser) parseClassDecl(doc string, vis ast.Visibility, abstract, sealed bool) *ast.ClassDecl {
	start := p.peek().Span
	p.advance() // CLASS
	nameTok, _ := p.expect(token.IDENT, "class name")
	generics := p.parseGenericParams()
	var extends *ast.NamedTypeExpr
	if p.match(token.EXTENDS) {
		extends = p.parseNamedTypeExpr()
	}
	var implements []*ast.NamedTypeExpr
	if p.match(token.IMPLEMENTS) {
		implements = p.parseBehaviorBoundList()
	}
	p.expect(token.LBRACE, "to open class body")
	p.skipNewlines()
	cd := &ast.ClassDecl{
		Base: spanBase(start, start), Doc: doc, Vis: vis, Abstract: abstract, Sealed: sealed,
		Name: nameTok.Text, Generics: generics, Extends: extends, Implements: implements,
	}
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		p.parseClassMember(cd)
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close class body")
	cd.Base = spanBase(start, p.previous().Span)
	return cd
}

func (p *Parser) parseClassMember(cd *ast.ClassDecl) {
	mdoc := p.collectDocComment()
	mvis := p.parseVisibility()
	var static, abstractM, virtual, override, async bool
	for {
		switch {
		case p.match(token.STATIC):
			static = true
		case p.match(token.ABSTRACT):
			abstractM = true
		case p.match(token.VIRTUAL):
			virtual = true
		case p.match(token.OVERRIDE):
			override = true
		case p.match(token.ASYNC):
			async = true
		default:
			goto dispatch
		}
	}
dispatch:
	switch {
	case p.checkKind(token.FUNC):
		fn := p.parseFuncDecl(mdoc, nil, mvis, async)
		cd.Methods = append(cd.Methods, &ast.ClassMethodDecl{Fn: fn, Abstract: abstractM, Virtual: virtual, Override: override, Static: static})
	case p.checkKind(token.IDENT) && p.peek().Text == "get":
		cd.Properties = append(cd.Properties, p.parsePropertyDecl(mvis))
	case p.checkKind(token.IDENT) && p.peek().Text == "new":
		p.advance()
		_, params := p.parseParamList()
		body := p.parseBlock()
		cd.Ctors = append(cd.Ctors, &ast.ConstructorDecl{Sp: body.Span(), Vis: mvis, Params: params, Body: body})
	default:
		fstart := p.peek().Span
		nameTok, _ := p.expect(token.IDENT, "class member name")
		p.expect(token.COLON, "in field declaration")
		typ := p.parseTypeExpr()
		var init ast.Expr
		if p.match(token.EQ) {
			init = p.parseExpr(precAssign)
		}
		p.consumeStmtEnd()
		cd.Fields = append(cd.Fields, ast.ClassFieldDecl{Sp: source.Join(fstart, p.previous().Span), Doc: mdoc, Vis: mvis, Static: static, Name: nameTok.Text, Type: typ, Init: init})
	}
}

// parsePropertyDecl parses a getter/setter pair introduced by `get`/`set`.
func (p *Parser) parsePropertyDecl(vis ast.Visibility) *ast.PropertyDecl {
	start := p.peek().Span
	p.advance() // "get"
	nameTok, _ := p.expect(token.IDENT, "property name")
	p.expect(token.COLON, "in property declaration")
	typ := p.parseTypeExpr()
	getter := p.parseBlock()
	var setter *ast.BlockExpr
	p.skipNewlines()
	if p.checkKind(token.IDENT) && p.peek().Text == "set" {
		p.advance()
		p.expect(token.IDENT, "property name in setter")
		setter = p.parseBlock()
	}
	return &ast.PropertyDecl{Sp: spanBase(start, p.previous().Span).Sp, Vis: vis, Name: nameTok.Text, Type: typ, Getter: getter, Setter: setter}
}

// parseNamespaceDecl parses `namespace A.B { decls }`.
func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	start := p.peek().Span
	p.advance() // NAMESPACE
	var path []string
	nameTok, _ := p.expect(token.IDENT, "namespace segment")
	path = append(path, nameTok.Text)
	for p.match(token.DOT) {
		seg, _ := p.expect(token.IDENT, "namespace segment")
		path = append(path, seg.Text)
	}
	p.expect(token.LBRACE, "to open namespace body")
	p.skipNewlines()
	var decls []ast.Decl
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		d := p.parseDecl()
		if d != nil {
			decls = append(decls, d)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close namespace body")
	return &ast.NamespaceDecl{Base: spanBase(start, p.previous().Span), Path: path, Decls: decls}
}

// parseConstDecl parses `const NAME: T = expr`.
func (p *Parser) parseConstDecl(doc string, vis ast.Visibility) *ast.ConstDecl {
	start := p.peek().Span
	p.advance() // CONST
	nameTok, _ := p.expect(token.IDENT, "constant name")
	p.expect(token.COLON, "in const declaration")
	typ := p.parseTypeExpr()
	p.expect(token.EQ, "in const declaration")
	val := p.parseExpr(precAssign)
	p.consumeStmtEnd()
	return &ast.ConstDecl{Base: spanBase(start, p.previous().Span), Doc: doc, Vis: vis, Name: nameTok.Text, Type: typ, Value: val}
}

// parseUseDecl parses `use path[::*|::{a,b as c}]`.
func (p *Parser) parseUseDecl() *ast.UseDecl {
	start := p.peek().Span
	p.advance() // USE
	var path []string
	seg, _ := p.expect(token.IDENT, "module path segment")
	path = append(path, seg.Text)
	wildcard := false
	var items []ast.UseItem
	for p.match(token.COLONCOLON) {
		if p.match(token.STAR) {
			wildcard = true
			break
		}
		if p.match(token.LBRACE) {
			for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
				itemTok, _ := p.expect(token.IDENT, "imported name")
				alias := ""
				if p.match(token.AS) {
					aliasTok, _ := p.expect(token.IDENT, "import alias")
					alias = aliasTok.Text
				}
				items = append(items, ast.UseItem{Name: itemTok.Text, Alias: alias})
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RBRACE, "to close import list")
			break
		}
		next, _ := p.expect(token.IDENT, "module path segment")
		path = append(path, next.Text)
	}
	p.consumeStmtEnd()
	return &ast.UseDecl{Base: spanBase(start, p.previous().Span), Path: path, Wildcard: wildcard, Items: items}
}

// parseModDecl parses `mod name [ { inline body } ]`.
func (p *Parser) parseModDecl() *ast.ModDecl {
	start := p.peek().Span
	p.advance() // MOD
	nameTok, _ := p.expect(token.IDENT, "module name")
	var body []ast.Decl
	if p.checkKind(token.LBRACE) {
		p.advance()
		p.skipNewlines()
		for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
			d := p.parseDecl()
			if d != nil {
				body = append(body, d)
			}
			p.skipNewlines()
		}
		p.expect(token.RBRACE, "to close inline module body")
	} else {
		p.consumeStmtEnd()
	}
	return &ast.ModDecl{Base: spanBase(start, p.previous().Span), Name: nameTok.Text, Body: body}
}
