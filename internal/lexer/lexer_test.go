package lexer

import (
	"testing"

	"reforge/internal/diag"
	"reforge/internal/source"
	"reforge/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rf", []byte(src))
	bag := diag.NewBag(10)
	return New(fs.Get(id), bag).Tokenize(), bag
}

func TestTokenizeFn(t *testing.T) {
	toks, bag := tokenize(t, "fn add(a, b) {\n    return a + b;\n}\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.Ident, token.Comma,
		token.Ident, token.RParen, token.LBrace, token.KwReturn, token.Ident,
		token.Plus, token.Ident, token.Semi, token.RBrace, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeSpans(t *testing.T) {
	toks, _ := tokenize(t, "let x = 10;")
	// "x" at offset 4.
	if toks[1].Span.Start != 4 || toks[1].Span.End != 5 {
		t.Fatalf("ident span = %v, want 4-5", toks[1].Span)
	}
	if toks[1].Text != "x" {
		t.Fatalf("ident text = %q", toks[1].Text)
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, bag := tokenize(t, "// header\nlet x = 1; // trailing\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if toks[0].Kind != token.KwLet {
		t.Fatalf("first token = %v, want let", toks[0].Kind)
	}
}

func TestTokenizeBadChar(t *testing.T) {
	toks, bag := tokenize(t, "let x = #;")
	if !bag.HasErrors() {
		t.Fatal("expected an error for '#'")
	}
	// Scanning continues past the bad character.
	last := toks[len(toks)-2]
	if last.Kind != token.Semi {
		t.Fatalf("token before EOF = %v, want ';'", last.Kind)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, bag := tokenize(t, `let s = "abc`)
	if !bag.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
}
