package parser

import (
	"strings"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseExpr is the entry point of the Pratt expression parser: a
// prefix/unary parse followed by an operator-precedence infix loop
// bounded by minPrec (spec.md §4.3's precedence ladder).
func (p *Parser) parseExpr(minPrec precedence) ast.Expr {
	left := p.parseUnary()
	return p.parseInfixLoop(left, minPrec)
}

// parseExprNoStructLit parses an expression with struct-literal parsing
// suppressed, used for if/while/for headers so `cond { ... }` is not
// mistaken for a struct literal. A `{` directly followed by
// `field:` is still parsed as a struct literal, so
// `if Point { x: 1, y: 2 }.x > 0 { ... }` works; the shorthand form
// `Name { x, y }` is read as the body block there.
func (p *Parser) parseExprNoStructLit(minPrec precedence) ast.Expr {
	saved := p.noStructLit
	p.noStructLit = true
	e := p.parseExpr(minPrec)
	p.noStructLit = saved
	return e
}

func (p *Parser) parseInfixLoop(left ast.Expr, minPrec precedence) ast.Expr {
	for {
		if p.atLineContinuation() {
			save := p.pos
			p.skipNewlines()
			if _, ok := infixTable[p.peek().Kind]; !ok {
				p.pos = save
			}
		}
		if p.checkKind(token.QUESTION) {
			if precTernary < minPrec {
				return left
			}
			if te, ok := p.tryParseTernary(left); ok {
				left = te
				continue
			}
			qspan := p.advance().Span
			left = &ast.TryExpr{Base: spanBase(left.Span(), qspan), Value: left}
			continue
		}

		k := p.peek().Kind
		info, ok := infixTable[k]
		if !ok || info.prec == precNone || info.prec < minPrec {
			return left
		}

		if k == token.AS {
			p.advance()
			typ := p.parseTypeExpr()
			left = &ast.CastExpr{Base: spanBase(left.Span(), p.previous().Span), Value: left, Type: typ}
			continue
		}

		if info.prec == precRange {
			p.advance()
			inclusive := k == token.DOTDOTEQ
			var end ast.Expr
			if p.startsExpr() {
				end = p.parseExpr(precRange + 1)
			}
			left = &ast.RangeExpr{Base: spanBase(left.Span(), p.previous().Span), Start: left, End: end, Inclusive: inclusive}
			continue
		}

		opTok := p.advance()
		nextMin := info.prec + 1
		if info.right {
			nextMin = info.prec
		}
		right := p.parseExpr(nextMin)
		left = &ast.BinaryExpr{Base: spanBase(left.Span(), p.previous().Span), Op: opTok.Text, Left: left, Right: right}

		if comparisonOps[k] && comparisonOps[p.peek().Kind] {
			p.errorf(p.peek().Span, "E_PARSE_CHAINED_CMP", "comparison operators cannot be chained; add parentheses")
		}
	}
}

// tryParseTernary speculatively parses `? then : else` following cond,
// backtracking if no matching `:` is found (in which case the `?` is a
// postfix try instead). Ternary desugars directly to an IfExpr since
// spec.md §3 does not enumerate a distinct ternary AST variant.
func (p *Parser) tryParseTernary(cond ast.Expr) (ast.Expr, bool) {
	savePos := p.pos
	saveErrs := len(p.errs)
	p.advance() // consume '?'
	thenExpr := p.parseExpr(precAssign)
	if !p.checkKind(token.COLON) {
		p.pos = savePos
		p.errs = p.errs[:saveErrs]
		return nil, false
	}
	p.advance()
	elseExpr := p.parseExpr(precTernary)
	then := &ast.BlockExpr{Base: spanBase(thenExpr.Span(), thenExpr.Span()), Tail: thenExpr}
	return &ast.IfExpr{Base: spanBase(cond.Span(), elseExpr.Span()), Cond: cond, Then: then, Else: elseExpr}, true
}

// startsExpr reports whether the current token can begin an expression,
// used to detect open-ended ranges like `a..`.
func (p *Parser) startsExpr() bool {
	switch p.peek().Kind {
	case token.SEMI, token.NEWLINE, token.RBRACE, token.RBRACKET, token.RPAREN, token.COMMA, token.EOF:
		return false
	}
	return true
}

func (p *Parser) atStmtTerminatorAhead() bool {
	if p.isAtEnd() {
		return true
	}
	switch p.peek().Kind {
	case token.SEMI, token.RBRACE:
		return true
	case token.NEWLINE:
		i := p.pos
		for i < len(p.toks) && p.toks[i].Kind == token.NEWLINE {
			i++
		}
		if i < len(p.toks) && p.toks[i].Kind == token.RBRACE {
			return true
		}
		return !p.atLineContinuation()
	}
	return false
}

// parseUnary parses the prefix-operator ladder (spec.md §4.3 level 13),
// recursing into itself so prefixes stack, and bottoming out at the
// postfix chain over a primary expression.
func (p *Parser) parseUnary() ast.Expr {
	start := p.peek().Span
	switch {
	case p.match(token.MINUS):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "-", Operand: v}
	case p.match(token.NOT):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "not", Operand: v}
	case p.match(token.BANG):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "!", Operand: v}
	case p.match(token.TILDE):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "~", Operand: v}
	case p.match(token.REF):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "ref", Operand: v}
	case p.match(token.STAR):
		v := p.parseUnary()
		return &ast.UnaryExpr{Base: spanBase(start, p.previous().Span), Op: "*", Operand: v}
	case p.match(token.AWAIT):
		v := p.parseUnary()
		return &ast.AwaitExpr{Base: spanBase(start, p.previous().Span), Value: v}
	default:
		return p.parsePostfixChain(p.parsePrimary())
	}
}

// parsePostfixChain parses call/index/field/method-call/.await postfix
// operations (spec.md §4.3 level 14), including the ambiguous `name[T](args)`
// explicit-generic-call form disambiguated by speculative lookahead.
func (p *Parser) parsePostfixChain(e ast.Expr) ast.Expr {
	for {
		if p.atLineContinuation() {
			save := p.pos
			p.skipNewlines()
			if !p.checkKind(token.DOT) {
				p.pos = save
			}
		}
		switch {
		case p.checkKind(token.DOT):
			p.advance()
			if p.match(token.AWAIT) {
				e = &ast.AwaitExpr{Base: spanBase(e.Span(), p.previous().Span), Value: e}
				continue
			}
			nameTok, _ := p.expect(token.IDENT, "member name")
			if p.checkKind(token.LPAREN) {
				p.advance()
				args := p.parseCallArgs()
				e = &ast.MethodCallExpr{Base: spanBase(e.Span(), p.previous().Span), Receiver: e, Method: nameTok.Text, Args: args}
			} else {
				e = &ast.FieldAccessExpr{Base: spanBase(e.Span(), nameTok.Span), Receiver: e, Field: nameTok.Text}
			}
		case p.checkKind(token.LPAREN):
			p.advance()
			args := p.parseCallArgs()
			e = &ast.CallExpr{Base: spanBase(e.Span(), p.previous().Span), Callee: e, Args: args}
		case p.checkKind(token.LBRACKET):
			if typeArgs, ok := p.tryParseCallTypeArgs(); ok {
				p.advance() // consume '(' left by the successful lookahead
				args := p.parseCallArgs()
				e = &ast.CallExpr{Base: spanBase(e.Span(), p.previous().Span), Callee: e, Args: args, TypeArgs: typeArgs}
				continue
			}
			p.advance()
			idx := p.parseExpr(precAssign)
			p.expect(token.RBRACKET, "to close index expression")
			e = &ast.IndexExpr{Base: spanBase(e.Span(), p.previous().Span), Receiver: e, Index: idx}
		default:
			return e
		}
	}
}

// tryParseCallTypeArgs speculatively parses `[T1, T2]` as an explicit
// type-argument list for a following call, backtracking if the bracket
// list is not immediately followed by `(` (in which case it is an
// index expression instead).
func (p *Parser) tryParseCallTypeArgs() ([]ast.TypeExpr, bool) {
	savePos := p.pos
	saveErrs := len(p.errs)
	p.advance() // '['
	var args []ast.TypeExpr
	for !p.checkKind(token.RBRACKET) && !p.isAtEnd() {
		args = append(args, p.parseTypeExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	if p.checkKind(token.RBRACKET) {
		p.advance()
		if p.checkKind(token.LPAREN) {
			return args, true
		}
	}
	p.pos = savePos
	p.errs = p.errs[:saveErrs]
	return nil, false
}

func (p *Parser) parseCallArgs() []ast.Expr {
	var args []ast.Expr
	p.skipNewlines()
	for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
		args = append(args, p.parseExpr(precAssign))
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RPAREN, "to close call arguments")
	return args
}

// parsePrimary parses a primary expression: literals, identifiers,
// paths, struct literals, grouping, and the block-like expression
// forms (if/when/loop/while/for/closures/lowlevel).
func (p *Parser) parsePrimary() ast.Expr {
	start := p.peek().Span
	tok := p.peek()
	switch {
	case p.match(token.INT):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitInt, Payload: tok.Payload}
	case p.match(token.FLOAT):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitFloat, Payload: tok.Payload}
	case p.match(token.STRING):
		return p.buildInterpOrLiteralString(tok, start)
	case p.match(token.TEMPLATE_FRAGMENT):
		return p.buildTemplateLiteral(tok, start)
	case p.match(token.CHAR):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitChar, Payload: tok.Payload}
	case p.match(token.TRUE):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitBool, Payload: true}
	case p.match(token.FALSE):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitBool, Payload: false}
	case p.match(token.NULL):
		return &ast.LiteralExpr{Base: spanBase(start, p.previous().Span), Kind: ast.LitNull}
	case p.checkKind(token.IDENT), p.checkKind(token.SELF_TYPE), p.checkKind(token.THIS_TYPE):
		return p.parseIdentOrPathOrStructLiteral()
	case p.match(token.SUPER):
		return p.parseBaseAccess(start)
	case p.match(token.LPAREN):
		return p.parseParenOrTuple(start)
	case p.match(token.LBRACKET):
		return p.parseArrayLiteral(start)
	case p.checkKind(token.LBRACE):
		return p.parseBlock()
	case p.match(token.IF):
		return p.parseIfOrIfLet(start)
	case p.match(token.WHEN):
		return p.parseWhen(start)
	case p.match(token.LOOP):
		return p.parseLoop(start)
	case p.match(token.WHILE):
		return p.parseWhile(start)
	case p.match(token.FOR):
		return p.parseFor(start)
	case p.match(token.RETURN):
		return p.parseReturn(start)
	case p.match(token.THROW):
		v := p.parseExpr(precAssign)
		return &ast.ThrowExpr{Base: spanBase(start, p.previous().Span), Value: v}
	case p.match(token.BREAK):
		return p.parseBreak(start)
	case p.match(token.CONTINUE):
		return &ast.ContinueExpr{Base: spanBase(start, p.previous().Span)}
	case p.checkKind(token.PIPE), p.checkKind(token.PIPEPIPE):
		return p.parseClosureBody(start, false)
	case p.match(token.MOVE):
		return p.parseClosureBody(start, true)
	case p.match(token.LOWLEVEL):
		return p.parseLowLevelBlock(start)
	default:
		p.errorf(start, "E_PARSE_EXPR", "expected expression, found %s", p.peek().Kind)
		if !p.isAtEnd() {
			p.advance()
		}
		return &ast.LiteralExpr{Base: spanBase(start, start), Kind: ast.LitNull}
	}
}

func (p *Parser) parseBaseAccess(start source.Span) ast.Expr {
	p.expect(token.DOT, "after super")
	nameTok, _ := p.expect(token.IDENT, "base member name")
	var args []ast.Expr
	if p.match(token.LPAREN) {
		args = p.parseCallArgs()
	}
	return &ast.BaseAccessExpr{Base: spanBase(start, p.previous().Span), Member: nameTok.Text, Args: args}
}

// parseIdentOrPathOrStructLiteral parses a bare identifier, a
// `::`-qualified path, or (when struct literals are allowed in this
// context) the start of a `Name { ... }` struct literal.
func (p *Parser) parseIdentOrPathOrStructLiteral() ast.Expr {
	start := p.peek().Span
	first := p.advance().Text
	var path []string
	name := first
	for p.checkKind(token.COLONCOLON) && isIdentLike(p.peekAt(1).Kind) {
		p.advance()
		path = append(path, name)
		name = p.advance().Text
	}
	if p.checkKind(token.LBRACE) && (!p.noStructLit || (p.peekAt(1).Kind == token.IDENT && p.peekAt(2).Kind == token.COLON)) {
		return p.parseStructLiteralBody(start, path, name)
	}
	if len(path) == 0 {
		return &ast.IdentExpr{Base: spanBase(start, p.previous().Span), Name: name}
	}
	segs := append(path, name)
	return &ast.PathExpr{Base: spanBase(start, p.previous().Span), Segments: segs}
}

func (p *Parser) parseStructLiteralBody(start source.Span, path []string, name string) ast.Expr {
	p.expect(token.LBRACE, "to open struct literal")
	typ := &ast.NamedTypeExpr{Base: spanBase(start, p.previous().Span), ModulePath: path, Name: name}
	var fields []ast.StructLiteralField
	var baseExpr ast.Expr
	p.skipNewlines()
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		if p.match(token.DOTDOT) {
			baseExpr = p.parseExpr(precAssign)
			p.skipNewlines()
			break
		}
		fnameTok, _ := p.expect(token.IDENT, "field name")
		var val ast.Expr
		if p.match(token.COLON) {
			val = p.parseExpr(precAssign)
		} else {
			val = &ast.IdentExpr{Base: spanBase(fnameTok.Span, fnameTok.Span), Name: fnameTok.Text}
		}
		fields = append(fields, ast.StructLiteralField{Name: fnameTok.Text, Value: val})
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "to close struct literal")
	return &ast.StructLiteralExpr{Base: spanBase(start, p.previous().Span), Type: typ, Fields: fields, BaseExpr: baseExpr}
}

func (p *Parser) parseParenOrTuple(start source.Span) ast.Expr {
	p.skipNewlines()
	if p.match(token.RPAREN) {
		return &ast.TupleExpr{Base: spanBase(start, p.previous().Span)}
	}
	first := p.parseExpr(precAssign)
	p.skipNewlines()
	if p.match(token.COMMA) {
		elems := []ast.Expr{first}
		p.skipNewlines()
		for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
			elems = append(elems, p.parseExpr(precAssign))
			p.skipNewlines()
			if !p.match(token.COMMA) {
				break
			}
			p.skipNewlines()
		}
		p.expect(token.RPAREN, "to close tuple")
		return &ast.TupleExpr{Base: spanBase(start, p.previous().Span), Elems: elems}
	}
	p.skipNewlines()
	p.expect(token.RPAREN, "to close parenthesized expression")
	return first
}

func (p *Parser) parseArrayLiteral(start source.Span) ast.Expr {
	var elems []ast.Expr
	p.skipNewlines()
	for !p.checkKind(token.RBRACKET) && !p.isAtEnd() {
		elems = append(elems, p.parseExpr(precAssign))
		p.skipNewlines()
		if !p.match(token.COMMA) {
			break
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACKET, "to close array literal")
	return &ast.ArrayExpr{Base: spanBase(start, p.previous().Span), Elems: elems}
}

// parseBlock parses a `{ stmt* tail? }` block. Struct-literal parsing
// is re-enabled inside a block even if the enclosing header suppressed
// it (spec.md §4.3's ambiguity only applies to the header expression
// itself).
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.peek().Span
	p.expect(token.LBRACE, "to open block")
	savedNoStruct := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = savedNoStruct }()

	var stmts []ast.Stmt
	var tail ast.Expr
	p.skipNewlines()
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		if declStartKinds[p.peek().Kind] {
			d := p.parseDecl()
			if d != nil {
				stmts = append(stmts, &ast.EmbeddedDeclStmt{Base: ast.Base{Sp: d.Span()}, Decl: d})
			}
			p.skipNewlines()
			continue
		}
		if p.checkKind(token.LET) {
			stmts = append(stmts, p.parseLetStmt())
			p.skipNewlines()
			continue
		}
		if p.checkKind(token.VAR) {
			stmts = append(stmts, p.parseVarStmt())
			p.skipNewlines()
			continue
		}
		exprStart := p.peek().Span
		e := p.parseExpr(precAssign)
		save := p.pos
		p.skipNewlines()
		if p.checkKind(token.RBRACE) {
			tail = e
			break
		}
		p.pos = save
		stmts = append(stmts, &ast.ExprStmt{Base: spanBase(exprStart, p.previous().Span), Value: e})
		p.consumeStmtEnd()
	}
	p.skipNewlines()
	p.expect(token.RBRACE, "to close block")
	return &ast.BlockExpr{Base: spanBase(start, p.previous().Span), Stmts: stmts, Tail: tail}
}

func (p *Parser) parseIfOrIfLet(start source.Span) ast.Expr {
	if p.checkKind(token.LET) {
		p.advance()
		pat := p.parsePattern()
		p.expect(token.EQ, "in if-let")
		scrut := p.parseExprNoStructLit(precAssign)
		then := p.parseBlock()
		var elseE ast.Expr
		if p.match(token.ELSE) {
			elseE = p.parseElseBranch()
		}
		return &ast.IfLetExpr{Base: spanBase(start, p.previous().Span), Pat: pat, Scrutinee: scrut, Then: then, Else: elseE}
	}
	cond := p.parseExprNoStructLit(precAssign)
	then := p.parseBlock()
	var elseE ast.Expr
	if p.match(token.ELSE) {
		elseE = p.parseElseBranch()
	}
	return &ast.IfExpr{Base: spanBase(start, p.previous().Span), Cond: cond, Then: then, Else: elseE}
}

func (p *Parser) parseElseBranch() ast.Expr {
	if p.checkKind(token.IF) {
		start := p.peek().Span
		p.advance()
		return p.parseIfOrIfLet(start)
	}
	return p.parseBlock()
}

func (p *Parser) parseWhen(start source.Span) ast.Expr {
	scrut := p.parseExprNoStructLit(precAssign)
	p.expect(token.LBRACE, "to open when arms")
	p.skipNewlines()
	var arms []ast.WhenArm
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		armStart := p.peek().Span
		pat := p.parsePattern()
		var guard ast.Expr
		if p.match(token.IF) {
			guard = p.parseExpr(precAssign)
		}
		p.expect(token.FATARROW, "in when arm")
		body := p.parseExpr(precAssign)
		arms = append(arms, ast.WhenArm{Sp: source.Join(armStart, p.previous().Span), Pat: pat, Guard: guard, Body: body})
		p.skipNewlines()
		if p.match(token.COMMA) {
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE, "to close when")
	return &ast.WhenExpr{Base: spanBase(start, p.previous().Span), Scrutinee: scrut, Arms: arms}
}

func (p *Parser) parseLoop(start source.Span) ast.Expr {
	body := p.parseBlock()
	return &ast.LoopExpr{Base: spanBase(start, p.previous().Span), Body: body}
}

func (p *Parser) parseWhile(start source.Span) ast.Expr {
	cond := p.parseExprNoStructLit(precAssign)
	body := p.parseBlock()
	return &ast.WhileExpr{Base: spanBase(start, p.previous().Span), Cond: cond, Body: body}
}

func (p *Parser) parseFor(start source.Span) ast.Expr {
	pat := p.parsePattern()
	p.expect(token.IN, "in for loop")
	iterable := p.parseExprNoStructLit(precAssign)
	body := p.parseBlock()
	return &ast.ForExpr{Base: spanBase(start, p.previous().Span), Pat: pat, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturn(start source.Span) ast.Expr {
	var val ast.Expr
	if !p.atStmtTerminatorAhead() {
		val = p.parseExpr(precAssign)
	}
	return &ast.ReturnExpr{Base: spanBase(start, p.previous().Span), Value: val}
}

func (p *Parser) parseBreak(start source.Span) ast.Expr {
	var val ast.Expr
	if !p.atStmtTerminatorAhead() {
		val = p.parseExpr(precAssign)
	}
	return &ast.BreakExpr{Base: spanBase(start, p.previous().Span), Value: val}
}

func (p *Parser) parseClosureParams() []ast.ClosureParam {
	if p.match(token.PIPEPIPE) {
		return nil
	}
	p.expect(token.PIPE, "to open closure parameters")
	var params []ast.ClosureParam
	for !p.checkKind(token.PIPE) && !p.isAtEnd() {
		nameTok, _ := p.expect(token.IDENT, "closure parameter name")
		var typ ast.TypeExpr
		if p.match(token.COLON) {
			typ = p.parseTypeExpr()
		}
		params = append(params, ast.ClosureParam{Name: nameTok.Text, Type: typ})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.PIPE, "to close closure parameters")
	return params
}

func (p *Parser) parseClosureBody(start source.Span, move bool) ast.Expr {
	params := p.parseClosureParams()
	var ret ast.TypeExpr
	if p.match(token.ARROW) {
		ret = p.parseTypeExpr()
	}
	body := p.parseExpr(precAssign)
	return &ast.ClosureExpr{Base: spanBase(start, p.previous().Span), Params: params, RetType: ret, Body: body, Move: move}
}

func (p *Parser) parseLowLevelBlock(start source.Span) ast.Expr {
	p.expect(token.LBRACE, "to open lowlevel block")
	p.skipNewlines()
	var ops []ast.LowLevelOp
	for !p.checkKind(token.RBRACE) && !p.isAtEnd() {
		opStart := p.peek().Span
		nameTok, _ := p.expect(token.IDENT, "lowlevel operation name")
		var args []ast.Expr
		if p.match(token.LPAREN) {
			args = p.parseCallArgs()
		}
		ops = append(ops, ast.LowLevelOp{Sp: source.Join(opStart, p.previous().Span), Op: nameTok.Text, Args: args})
		p.consumeStmtEnd()
	}
	p.expect(token.RBRACE, "to close lowlevel block")
	return &ast.LowLevelBlockExpr{Base: spanBase(start, p.previous().Span), Ops: ops}
}

// buildInterpOrLiteralString turns a lexed STRING token into either a
// plain LiteralExpr (no interpolation present) or an InterpStringExpr.
func (p *Parser) buildInterpOrLiteralString(tok token.Token, start source.Span) ast.Expr {
	sp := tok.Payload.(token.StringPayload)
	parts := p.splitInterpParts(sp.Value, tok.Span)
	if len(parts) == 0 {
		return &ast.LiteralExpr{Base: spanBase(start, tok.Span), Kind: ast.LitString, Payload: token.StringPayload{Value: ""}}
	}
	if len(parts) == 1 && parts[0].Expr == nil {
		return &ast.LiteralExpr{Base: spanBase(start, tok.Span), Kind: ast.LitString, Payload: token.StringPayload{Value: parts[0].Text}}
	}
	return &ast.InterpStringExpr{Base: spanBase(start, tok.Span), Parts: parts}
}

func (p *Parser) buildTemplateLiteral(tok token.Token, start source.Span) ast.Expr {
	sp := tok.Payload.(token.StringPayload)
	parts := p.splitInterpParts(sp.Value, tok.Span)
	return &ast.TemplateLiteralExpr{Base: spanBase(start, tok.Span), Parts: parts}
}

// splitInterpParts scans raw for depth-balanced `{expr}` runs (already
// brace-matched by the lexer) and recursively lexes+parses each as an
// expression. Interpolated sub-expressions are attributed the whole
// literal's span rather than a precise sub-span: escape processing in
// the lexer already discards the byte offsets needed to map a
// decoded-string position back to the original source.
func (p *Parser) splitInterpParts(raw string, whole source.Span) []ast.InterpPart {
	var parts []ast.InterpPart
	var textBuf strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			if textBuf.Len() > 0 {
				parts = append(parts, ast.InterpPart{Text: textBuf.String()})
				textBuf.Reset()
			}
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			inner := raw[i+1 : j-1]
			parts = append(parts, ast.InterpPart{Expr: p.parseInterpFragment(inner, whole)})
			i = j
			continue
		}
		textBuf.WriteByte(raw[i])
		i++
	}
	if textBuf.Len() > 0 {
		parts = append(parts, ast.InterpPart{Text: textBuf.String()})
	}
	return parts
}

func (p *Parser) parseInterpFragment(inner string, whole source.Span) ast.Expr {
	sub := source.New(p.src.Path(), inner)
	subToks, subLexErrs := lexer.Run(sub)
	for _, le := range subLexErrs {
		p.errs = append(p.errs, diag.Diagnostic{Kind: diag.Lex, Message: le.Message, Span: whole, Code: "E_LEX_INTERP"})
	}
	sub2 := &Parser{src: sub, toks: subToks}
	e := sub2.parseExpr(precAssign)
	p.errs = append(p.errs, sub2.errs...)
	return e
}
