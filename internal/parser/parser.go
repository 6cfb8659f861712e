// Package parser implements the Pratt-expression / recursive-descent-
// declaration parser of spec.md §4.3.
//
// Grounded on the teacher's src/frontend/tree.go, which drives a
// goyacc-generated grammar fed token-by-token from the concurrent
// lexer. spec.md §4.3 specifies a hand-written Pratt parser instead of
// a yacc grammar (the pack's copy of the teacher is also missing the
// generated parser.yy.go — a build artifact, not hand-written source —
// so there is nothing to adapt there beyond the idea of a cursor over
// a token stream). What is kept from the teacher is the overall shape
// of a cursor with utility helpers (peek/advance/expect) and the
// pattern of turning scanned lexemes into ir.Node trees via a small
// set of constructor helpers (tree.go's nodeInit) — generalized here
// into one constructor per AST node, spread across this package's
// files (decl.go, stmt.go, expr.go, pattern.go, typeexpr.go).
package parser

import (
	"fmt"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/diag"
	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Parser holds a token cursor, the accumulated diagnostic list, and
// the doc-comment/decorator state waiting to attach to the next
// declaration.
type Parser struct {
	src    *source.Source
	toks   []token.Token
	pos    int
	errs   []diag.Diagnostic

	pendingDoc        string
	pendingDecorators []ast.Decorator

	// noStructLit suppresses struct-literal parsing of `Name { ... }`
	// while parsing an if/while/for header, where `{` instead opens the
	// body block (spec.md §4.3), unless the `{` is directly followed by
	// `field:`.
	noStructLit bool
}

// ---------------------
// ----- functions -----
// ---------------------

// ParseModule lexes and parses src into a Module. It returns the
// Module even when diagnostics were recorded (spec.md §4.3: "even on
// success the parser may have accumulated warnings; both are
// delivered"); callers decide whether errs contains a hard error via
// diag semantics (any non-warning Diagnostic).
func ParseModule(name string, src *source.Source) (*ast.Module, []diag.Diagnostic) {
	toks, lexErrs := lexer.Run(src)
	p := &Parser{src: src, toks: toks}
	for _, le := range lexErrs {
		p.errs = append(p.errs, diag.Diagnostic{Kind: diag.Lex, Message: le.Message, Span: le.Span, Code: "E_LEX"})
	}

	mod := &ast.Module{Name: name, Src: src}
	p.skipNewlines()
	if p.checkKind(token.MODULE_DOC_COMMENT) {
		mod.Doc = p.advance().Payload.(token.DocPayload).Text
		p.skipNewlines()
	}

	for !p.isAtEnd() {
		p.skipNewlines()
		if p.isAtEnd() {
			break
		}
		d := p.parseDecl()
		if d != nil {
			mod.Decls = append(mod.Decls, d)
		}
	}
	return mod, p.errs
}

// ----------------------------
// ----- Cursor utilities -----
// ----------------------------

func (p *Parser) peek() token.Token      { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}
func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) checkKind(k token.Kind) bool {
	return !p.isAtEnd() && p.peek().Kind == k
}

func (p *Parser) checkNextKind(k token.Kind) bool {
	return p.peekAt(1).Kind == k
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.checkKind(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of kind k or records a ParseError with a
// fix-it suggesting the missing token be inserted.
func (p *Parser) expect(k token.Kind, context string) (token.Token, bool) {
	if p.checkKind(k) {
		return p.advance(), true
	}
	sp := p.peek().Span
	p.errs = append(p.errs, diag.Diagnostic{
		Kind:    diag.Parse,
		Message: fmt.Sprintf("expected %s %s, found %s", k, context, p.peek().Kind),
		Span:    sp,
		Code:    "E_PARSE_EXPECT",
		Fixes: []diag.Fix{{
			Kind: diag.FixInsert, Span: sp, Replacement: k.String(),
			Label: fmt.Sprintf("insert %s", k),
		}},
	})
	return p.peek(), false
}

// skipNewlines consumes any run of significant-newline tokens. Used at
// statement/declaration boundaries where blank lines are insignificant.
func (p *Parser) skipNewlines() {
	for p.checkKind(token.NEWLINE) {
		p.advance()
	}
}

// atLineContinuation reports whether the parser is at a newline that
// does not end the statement, because the next non-newline token is an
// infix continuation (spec.md
// §4.3 "Statement boundary rule": `.`, `)`, `]`, `}`, `,`, or any
// operator at precedence >= 5 continues the previous line's expression).
func (p *Parser) atLineContinuation() bool {
	if !p.checkKind(token.NEWLINE) {
		return false
	}
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind == token.NEWLINE {
		i++
	}
	if i >= len(p.toks) {
		return false
	}
	k := p.toks[i].Kind
	switch k {
	case token.DOT, token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA:
		return true
	}
	if info, ok := infixTable[k]; ok && info.prec >= precCompare {
		return true
	}
	return false
}

// consumeStmtEnd consumes a statement terminator (newline(s) or `;`),
// collapsing a line-continuation situation by doing nothing (the
// caller is expected to keep parsing the same expression).
func (p *Parser) consumeStmtEnd() {
	if p.atLineContinuation() {
		return
	}
	if p.checkKind(token.SEMI) {
		p.advance()
	}
	p.skipNewlines()
}

// collectDocComment gathers any doc-comment token immediately
// preceding the next declaration. Call before dispatching on the
// declaration keyword.
func (p *Parser) collectDocComment() string {
	doc := ""
	for p.checkKind(token.DOC_COMMENT) {
		t := p.advance()
		if doc != "" {
			doc += "\n"
		}
		doc += t.Payload.(token.DocPayload).Text
		p.skipNewlines()
	}
	return doc
}

// collectDecorators gathers `@name(args)` attributes preceding a
// declaration (spec.md §4.3 "Decorators").
func (p *Parser) collectDecorators() []ast.Decorator {
	var decs []ast.Decorator
	for p.checkKind(token.AT) {
		start := p.peek().Span
		p.advance()
		nameTok, _ := p.expect(token.IDENT, "decorator name")
		var args []ast.Expr
		if p.match(token.LPAREN) {
			for !p.checkKind(token.RPAREN) && !p.isAtEnd() {
				args = append(args, p.parseExpr(precAssign))
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN, "to close decorator arguments")
		}
		end := p.previous().Span
		decs = append(decs, ast.Decorator{Sp: source.Join(start, end), Name: nameTok.Text, Args: args})
		p.skipNewlines()
	}
	return decs
}

// ----------------------------
// ----- Error recovery   -----
// ----------------------------

// declStartKinds is the set of tokens that begin a declaration, used
// by synchronizeToDecl.
var declStartKinds = map[token.Kind]bool{
	token.FUNC: true, token.TYPE: true, token.BEHAVIOR: true, token.IMPL: true,
	token.INTERFACE: true, token.CLASS: true, token.NAMESPACE: true,
	token.CONST: true, token.USE: true, token.MOD: true, token.AT: true,
	token.UNION: true, token.ABSTRACT: true, token.SEALED: true,
	token.PUB: true, token.PROTECTED: true, token.PRIVATE: true,
}

// stmtStartKinds is the set of tokens that begin a statement, used by
// synchronizeToStmt.
var stmtStartKinds = map[token.Kind]bool{
	token.LET: true, token.VAR: true, token.IF: true, token.WHEN: true,
	token.LOOP: true, token.WHILE: true, token.FOR: true, token.RETURN: true,
	token.THROW: true, token.BREAK: true, token.CONTINUE: true,
}

// synchronizeToDecl skips tokens until one that plausibly starts a new
// declaration (spec.md §4.3 error recovery).
func (p *Parser) synchronizeToDecl() {
	for !p.isAtEnd() {
		if declStartKinds[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// synchronizeToStmt skips tokens until a semicolon, newline, or
// statement-starting keyword.
func (p *Parser) synchronizeToStmt() {
	for !p.isAtEnd() {
		if p.checkKind(token.SEMI) || p.checkKind(token.NEWLINE) {
			p.advance()
			return
		}
		if stmtStartKinds[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// synchronizeToBrace skips tokens, tracking `{`/`}` depth, until the
// matching outer `}` is consumed.
func (p *Parser) synchronizeToBrace() {
	depth := 1
	for !p.isAtEnd() && depth > 0 {
		switch p.advance().Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
	}
}

// skipUntil advances until the next token is k (exclusive) or EOF.
func (p *Parser) skipUntil(k token.Kind) {
	for !p.isAtEnd() && !p.checkKind(k) {
		p.advance()
	}
}

// skipUntilAny advances until the next token is in ks or EOF.
func (p *Parser) skipUntilAny(ks map[token.Kind]bool) {
	for !p.isAtEnd() && !ks[p.peek().Kind] {
		p.advance()
	}
}

func (p *Parser) errorf(span source.Span, code, format string, args ...interface{}) {
	p.errs = append(p.errs, diag.Diagnostic{Kind: diag.Parse, Message: fmt.Sprintf(format, args...), Span: span, Code: code})
}
