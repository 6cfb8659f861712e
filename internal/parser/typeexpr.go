package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseTypeExpr parses one type reference as written by the programmer.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.peek().Span
	switch {
	case p.match(token.AMP):
		mut := p.match(token.MUT)
		elem := p.parseTypeExpr()
		return &ast.RefTypeExpr{Base: spanBase(start, p.previous().Span), Mut: mut, Elem: elem}
	case p.match(token.STAR):
		mut := p.match(token.MUT)
		elem := p.parseTypeExpr()
		return &ast.PtrTypeExpr{Base: spanBase(start, p.previous().Span), Mut: mut, Elem: elem}
	case p.checkKind(token.LBRACKET):
		p.advance()
		elem := p.parseTypeExpr()
		if p.match(token.SEMI) {
			size := p.parseExpr(precAssign)
			p.expect(token.RBRACKET, "to close array type")
			return &ast.ArrayTypeExpr{Base: spanBase(start, p.previous().Span), Elem: elem, Size: size}
		}
		p.expect(token.RBRACKET, "to close slice type")
		return &ast.SliceTypeExpr{Base: spanBase(start, p.previous().Span), Elem: elem}
	case p.checkKind(token.LPAREN):
		p.advance()
		var elems []ast.TypeExpr
		for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
			elems = append(elems, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "to close tuple type")
		return &ast.TupleTypeExpr{Base: spanBase(start, p.previous().Span), Elems: elems}
	case p.match(token.DYN):
		bs := p.parseBehaviorBoundList()
		return &ast.DynTypeExpr{Base: spanBase(start, p.previous().Span), Behaviors: bs}
	case p.match(token.IMPL):
		bs := p.parseBehaviorBoundList()
		return &ast.ImplTypeExpr{Base: spanBase(start, p.previous().Span), Behaviors: bs}
	case p.checkKind(token.FUNC):
		p.advance()
		p.expect(token.LPAREN, "to open function type parameters")
		var params []ast.TypeExpr
		for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
			params = append(params, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "to close function type parameters")
		var ret ast.TypeExpr
		if p.match(token.ARROW) {
			ret = p.parseTypeExpr()
		}
		return &ast.FuncTypeExpr{Base: spanBase(start, p.previous().Span), Params: params, Ret: ret}
	default:
		return p.parseNamedTypeExpr()
	}
}

// parseNamedTypeExpr parses `[path::]Name[Args]`.
func (p *Parser) parseNamedTypeExpr() *ast.NamedTypeExpr {
	start := p.peek().Span
	var path []string
	name := ""
	if tk, ok := p.expect(token.IDENT, "type name"); ok {
		name = tk.Text
	} else {
		name = "<error>"
	}
	for p.checkKind(token.COLONCOLON) && isIdentLike(p.peekAt(1).Kind) {
		p.advance()
		path = append(path, name)
		name = p.advance().Text
	}
	var args []ast.TypeExpr
	if p.match(token.LBRACKET) {
		for !p.checkKind(token.RBRACKET) && !p.isAtEnd() {
			args = append(args, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET, "to close type arguments")
	}
	return &ast.NamedTypeExpr{Base: spanBase(start, p.previous().Span), ModulePath: path, Name: name, Args: args}
}

// parseBehaviorBoundList parses `B1 + B2 + ...` for dyn/impl types and
// generic bounds.
func (p *Parser) parseBehaviorBoundList() []*ast.NamedTypeExpr {
	var out []*ast.NamedTypeExpr
	out = append(out, p.parseNamedTypeExpr())
	for p.match(token.PLUS) {
		out = append(out, p.parseNamedTypeExpr())
	}
	return out
}

func isIdentLike(k token.Kind) bool { return k == token.IDENT }

// spanBase builds the ast.Base embedded by every node literal in this
// package, joining the span of the first consumed token with the span
// of the last.
func spanBase(start, end source.Span) ast.Base {
	return ast.Base{Sp: source.Join(start, end)}
}
