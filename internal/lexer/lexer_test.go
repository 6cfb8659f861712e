// Tests the lexer by verifying that a small TML snippet is tokenized
// into the expected kind/text sequence, in the same spirit as the
// teacher's TestLexer (src/frontend/lexer_test.go): an expected tuple
// slice is compared against the lexer's actual output in source order.
package lexer

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

func TestLexerBasics(t *testing.T) {
	src := source.New("<test>", "func add(a: I32, b: I32) -> I32 {\n    a + b\n}\n")
	toks, errs := Run(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}

	exp := []struct {
		kind token.Kind
		text string
	}{
		{token.FUNC, "func"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.IDENT, "I32"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "I32"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "I32"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	if len(toks) != len(exp) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(exp), toks)
	}
	for i, e := range exp {
		if toks[i].Kind != e.kind {
			t.Errorf("token %d: kind = %s, want %s", i, toks[i].Kind, e.kind)
		}
		if e.kind != token.EOF && toks[i].Text != e.text {
			t.Errorf("token %d: text = %q, want %q", i, toks[i].Text, e.text)
		}
	}
}

func TestLexerNumericLiterals(t *testing.T) {
	src := source.New("<test>", "0x1F 0o17 0b101 1_000i64 3.14f32 2.5e10")
	toks, errs := Run(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	want := []struct {
		base uint64
		kind token.Kind
	}{
		{31, token.INT},
		{15, token.INT},
		{5, token.INT},
		{1000, token.INT},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind {
			t.Fatalf("token %d: kind = %s, want %s", i, toks[i].Kind, w.kind)
		}
		p, ok := toks[i].Payload.(token.IntPayload)
		if !ok {
			t.Fatalf("token %d: payload not IntPayload: %#v", i, toks[i].Payload)
		}
		if p.Magnitude != w.base {
			t.Errorf("token %d: magnitude = %d, want %d", i, p.Magnitude, w.base)
		}
	}
	if toks[3].Payload.(token.IntPayload).Suffix != "i64" {
		t.Errorf("expected i64 suffix, got %q", toks[3].Payload.(token.IntPayload).Suffix)
	}
	if toks[4].Kind != token.FLOAT {
		t.Errorf("expected FLOAT, got %s", toks[4].Kind)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	src := source.New("<test>", `"hello\nworld"`)
	toks, errs := Run(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if toks[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Kind)
	}
	got := toks[0].Payload.(token.StringPayload).Value
	if got != "hello\nworld" {
		t.Errorf("decoded string = %q, want %q", got, "hello\nworld")
	}
}

func TestLexerUnterminatedStringRecovers(t *testing.T) {
	src := source.New("<test>", "\"oops\nlet x = 1")
	toks, errs := Run(src)
	if len(errs) == 0 {
		t.Fatalf("expected a lex error for unterminated string")
	}
	// Scanning must continue past the error and still find the rest.
	foundLet := false
	for _, tk := range toks {
		if tk.Kind == token.LET {
			foundLet = true
		}
	}
	if !foundLet {
		t.Errorf("lexer did not recover after unterminated string: %v", toks)
	}
}

func TestRoundTripSingleToken(t *testing.T) {
	// Invariant (spec.md §8): the source substring at T.Span re-tokenizes
	// to a single token equal to T.
	text := "while"
	src := source.New("<test>", text)
	toks, errs := Run(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	first := toks[0]
	sub := src.Slice(first.Span)
	src2 := source.New("<test>", sub)
	toks2, errs2 := Run(src2)
	if len(errs2) != 0 {
		t.Fatalf("unexpected errors re-tokenizing: %v", errs2)
	}
	if toks2[0].Kind != first.Kind || toks2[0].Text != first.Text {
		t.Errorf("round-trip mismatch: got %v, want %v", toks2[0], first)
	}
}
