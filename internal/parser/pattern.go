package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

// parsePattern parses a pattern, including a top-level or-pattern
// `A | B` (spec.md §4.3: legal only at the top of a match arm, but the
// parser accepts it anywhere a pattern is requested and leaves
// rejection of nested or-patterns to the checker, matching the
// teacher's preference for catching structural errors downstream of
// parsing rather than growing the grammar with context).
func (p *Parser) parsePattern() ast.Pattern {
	start := p.peek().Span
	first := p.parsePatternPrimary()
	if !p.checkKind(token.PIPE) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.match(token.PIPE) {
		alts = append(alts, p.parsePatternPrimary())
	}
	return &ast.OrPattern{Base: spanBase(start, p.previous().Span), Alts: alts}
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	start := p.peek().Span
	switch {
	case p.checkKind(token.IDENT) && p.peek().Text == "_":
		p.advance()
		return &ast.WildcardPattern{Base: spanBase(start, p.previous().Span)}
	case p.match(token.MUT):
		nameTok, _ := p.expect(token.IDENT, "pattern binding name")
		return &ast.IdentPattern{Base: spanBase(start, p.previous().Span), Name: nameTok.Text, Mut: true}
	case p.checkKind(token.INT), p.checkKind(token.FLOAT), p.checkKind(token.STRING),
		p.checkKind(token.CHAR), p.checkKind(token.TRUE), p.checkKind(token.FALSE), p.checkKind(token.NULL):
		return p.parseLiteralPattern(start)
	case p.checkKind(token.MINUS):
		return p.parseLiteralPattern(start)
	case p.match(token.LPAREN):
		return p.parseTuplePattern(start)
	case p.match(token.LBRACKET):
		return p.parseArrayPattern(start)
	case p.checkKind(token.IDENT):
		return p.parseIdentOrStructOrEnumPattern(start)
	default:
		p.errorf(start, "E_PARSE_PATTERN", "expected pattern, found %s", p.peek().Kind)
		if !p.isAtEnd() {
			p.advance()
		}
		return &ast.WildcardPattern{Base: spanBase(start, start)}
	}
}

func (p *Parser) parseLiteralPattern(start source.Span) ast.Pattern {
	neg := p.match(token.MINUS)
	tok := p.advance()
	var kind ast.LiteralKind
	var payload interface{} = tok.Payload
	switch tok.Kind {
	case token.INT:
		kind = ast.LitInt
	case token.FLOAT:
		kind = ast.LitFloat
	case token.STRING:
		kind = ast.LitString
	case token.CHAR:
		kind = ast.LitChar
	case token.TRUE:
		kind, payload = ast.LitBool, true
	case token.FALSE:
		kind, payload = ast.LitBool, false
	case token.NULL:
		kind = ast.LitNull
	}
	if neg {
		payload = negatedPayload(payload)
	}
	return &ast.LiteralPattern{Base: spanBase(start, p.previous().Span), Kind: kind, Payload: payload}
}

func (p *Parser) parseTuplePattern(start source.Span) ast.Pattern {
	var elems []ast.Pattern
	p.skipNewlines()
	for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
		elems = append(elems, p.parsePattern())
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RPAREN, "to close tuple pattern")
	return &ast.TuplePattern{Base: spanBase(start, p.previous().Span), Elems: elems}
}

func (p *Parser) parseArrayPattern(start source.Span) ast.Pattern {
	var elems []ast.Pattern
	rest := ""
	hasRest := false
	p.skipNewlines()
	for !p.checkKind(token.RBRACKET) && !p.isAtEnd() {
		if p.match(token.DOTDOT) {
			hasRest = true
			if p.checkKind(token.IDENT) {
				rest = p.advance().Text
			} else {
				rest = "_"
			}
			p.skipNewlines()
			break
		}
		elems = append(elems, p.parsePattern())
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACKET, "to close array pattern")
	return &ast.ArrayPattern{Base: spanBase(start, p.previous().Span), Elems: elems, Rest: rest, HasRest: hasRest}
}

// parseIdentOrStructOrEnumPattern disambiguates a bare binding
// (`name`), a struct pattern (`Type { fields }`), and an enum-variant
// pattern (`Variant(args)` / `Variant { fields }`), all of which start
// with an identifier and optionally a `::`-qualified path.
func (p *Parser) parseIdentOrStructOrEnumPattern(start source.Span) ast.Pattern {
	name := p.advance().Text
	var path []string
	for p.checkKind(token.COLONCOLON) && isIdentLike(p.peekAt(1).Kind) {
		p.advance()
		path = append(path, name)
		name = p.advance().Text
	}
	isQualifiedOrCapitalized := len(path) > 0 || (len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z')

	if p.checkKind(token.LPAREN) {
		p.advance()
		var tuple []ast.Pattern
		hasRest := false
		for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
			if p.match(token.DOTDOT) {
				hasRest = true
				break
			}
			tuple = append(tuple, p.parsePattern())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "to close enum-variant pattern")
		typ := pathTypeExprOrNil(path)
		return &ast.EnumVariantPattern{Base: spanBase(start, p.previous().Span), Type: typ, Variant: name, Tuple: tuple, HasRest: hasRest}
	}

	if p.checkKind(token.LBRACE) && isQualifiedOrCapitalized {
		p.advance()
		fields, hasRest := p.parseStructPatternFields()
		p.expect(token.RBRACE, "to close pattern")
		return &ast.EnumVariantPattern{Base: spanBase(start, p.previous().Span), Type: pathTypeExprOrNil(path), Variant: name, Struct: fields, HasRest: hasRest}
	}

	if p.checkKind(token.LBRACE) {
		p.advance()
		fields, hasRest := p.parseStructPatternFields()
		p.expect(token.RBRACE, "to close struct pattern")
		return &ast.StructPattern{Base: spanBase(start, p.previous().Span), Type: &ast.NamedTypeExpr{Base: spanBase(start, start), ModulePath: path, Name: name}, Fields: fields, HasRest: hasRest}
	}

	if len(path) > 0 {
		// A bare qualified name with no call/brace suffix names a
		// unit enum variant, e.g. `Color::Red`.
		return &ast.EnumVariantPattern{Base: spanBase(start, p.previous().Span), Type: pathTypeExprOrNil(path), Variant: name}
	}
	return &ast.IdentPattern{Base: spanBase(start, p.previous().Span), Name: name}
}

func (p *Parser) parseStructPatternFields() ([]ast.StructPatternField, bool) {
	var fields []ast.StructPatternField
	hasRest := false
	p.skipNewlines()
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		if p.match(token.DOTDOT) {
			hasRest = true
			p.skipNewlines()
			break
		}
		nameTok, _ := p.expect(token.IDENT, "struct pattern field name")
		var pat ast.Pattern
		if p.match(token.COLON) {
			pat = p.parsePattern()
		}
		fields = append(fields, ast.StructPatternField{Name: nameTok.Text, Pat: pat})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	return fields, hasRest
}

func pathTypeExprOrNil(path []string) ast.TypeExpr {
	if len(path) == 0 {
		return nil
	}
	return &ast.NamedTypeExpr{ModulePath: path[:len(path)-1], Name: path[len(path)-1]}
}

// negatedPayload negates the decoded payload of a numeric literal
// pattern so `-1` matches the integer value negative one.
func negatedPayload(payload interface{}) interface{} {
	switch v := payload.(type) {
	case token.IntPayload:
		v.Magnitude = uint64(-int64(v.Magnitude))
		return v
	case token.FloatPayload:
		v.Value = -v.Value
		return v
	}
	return payload
}
