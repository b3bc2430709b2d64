package lexer

import (
	"testing"

	"github.com/orus-lang/orus/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestScanAllKeywordsAndPunctuation(t *testing.T) {
	src := `fn main() { let x: i32 = 2 + 3 * 4 }`
	toks := New(src).ScanAll()

	want := []token.Type{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.LET, token.IDENT, token.COLON, token.IDENT, token.ASSIGN,
		token.INT, token.PLUS, token.INT, token.STAR, token.INT,
		token.RBRACE, token.EOF,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAllStringLiteral(t *testing.T) {
	toks := New(`"hello {}"`).ScanAll()
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (STRING, EOF)", len(toks))
	}
	if toks[0].Type != token.STRING {
		t.Fatalf("got %s, want STRING", toks[0].Type)
	}
	if toks[0].Lexeme != "hello {}" {
		t.Errorf("got lexeme %q, want %q", toks[0].Lexeme, "hello {}")
	}
}

func TestScanAllRangeOperator(t *testing.T) {
	toks := New("0..3").ScanAll()
	want := []token.Type{token.INT, token.DOTDOT, token.INT, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAllTracksLineNumbers(t *testing.T) {
	toks := New("let a = 1\nlet b = 2").ScanAll()
	var secondLet token.Token
	seen := 0
	for _, tok := range toks {
		if tok.Type == token.LET {
			seen++
			if seen == 2 {
				secondLet = tok
			}
		}
	}
	if seen != 2 {
		t.Fatalf("expected two `let` tokens, found %d", seen)
	}
	if secondLet.Line != 2 {
		t.Errorf("second let: got line %d, want 2", secondLet.Line)
	}
}
