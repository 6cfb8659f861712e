package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseLetStmt parses an immutable `let pattern [: Type] = expr` binding.
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // LET
	pat := p.parsePattern()
	var typ ast.TypeExpr
	if p.match(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.EQ, "in let binding")
	val := p.parseExpr(precAssign)
	stmt := &ast.LetStmt{Base: spanBase(start, p.previous().Span), Pat: pat, Type: typ, Value: val}
	p.consumeStmtEnd()
	return stmt
}

// parseVarStmt parses a mutable `var pattern [: Type] = expr` binding.
func (p *Parser) parseVarStmt() ast.Stmt {
	start := p.peek().Span
	p.advance() // VAR
	pat := p.parsePattern()
	var typ ast.TypeExpr
	if p.match(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.EQ, "in var binding")
	val := p.parseExpr(precAssign)
	stmt := &ast.VarStmt{Base: spanBase(start, p.previous().Span), Pat: pat, Type: typ, Value: val}
	p.consumeStmtEnd()
	return stmt
}
