package lexer

import (
	"testing"

	"fortasr/internal/source"
	"fortasr/internal/token"
)

func mustFile(t *testing.T, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.f90", []byte(content))
	return fs.Get(id)
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestTokenizeIdentifiersAndNewStmt(t *testing.T) {
	f := mustFile(t, "x = 1\ny = 2")
	toks := Tokenize(f, Options{})
	got := kinds(toks)
	want := []token.Kind{
		token.Ident, token.Assign, token.IntLit, token.NewStmt,
		token.Ident, token.Assign, token.IntLit, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeStatementLabel(t *testing.T) {
	f := mustFile(t, "10 continue")
	toks := Tokenize(f, Options{})
	if toks[0].Kind != token.Label || toks[0].Text != "10" {
		t.Fatalf("expected a Label token, got %+v", toks[0])
	}
}

func TestTokenizeLabelOnlyAtStatementStart(t *testing.T) {
	f := mustFile(t, "x = 10")
	toks := Tokenize(f, Options{})
	// "10" follows "=" mid-statement, so it must lex as IntLit not Label.
	if toks[2].Kind != token.IntLit {
		t.Fatalf("expected IntLit for a non-leading number, got %v", toks[2].Kind)
	}
}

func TestTokenizeRealLiterals(t *testing.T) {
	cases := []string{"3.14", "1.0e10", "1.0d0", "2.", ".5"}
	for _, src := range cases {
		f := mustFile(t, src)
		toks := Tokenize(f, Options{})
		if toks[0].Kind != token.RealLit {
			t.Fatalf("%q: expected RealLit, got %v", src, toks[0].Kind)
		}
	}
}

func TestTokenizeLineContinuationIsInvisible(t *testing.T) {
	f := mustFile(t, "x = 1 + &\n     2")
	toks := Tokenize(f, Options{})
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Assign, token.IntLit, token.Plus, token.IntLit, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v (continuation should not emit NewStmt)", got, want)
	}
}

func TestTokenizeStringLiteralWithDoubledQuote(t *testing.T) {
	f := mustFile(t, `'it''s fine'`)
	toks := Tokenize(f, Options{})
	if toks[0].Kind != token.StringLit {
		t.Fatalf("expected StringLit, got %v", toks[0].Kind)
	}
	if toks[0].Text != `'it''s fine'` {
		t.Fatalf("unexpected text %q", toks[0].Text)
	}
}

func TestTokenizeOperators(t *testing.T) {
	f := mustFile(t, "** /= == <= >= :: (/ /)")
	toks := Tokenize(f, Options{})
	got := kinds(toks)
	want := []token.Kind{
		token.StarStar, token.NotEq, token.Eq, token.LtEq, token.GtEq,
		token.ColonColon, token.ArrayCtorOpen, token.ArrayCtorClose, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeDottedLogicalWords(t *testing.T) {
	f := mustFile(t, "a .and. .not. b")
	toks := Tokenize(f, Options{})
	if toks[1].Kind != token.Ident || toks[1].Text != ".and." {
		t.Fatalf("expected .and. as one Ident token, got %+v", toks[1])
	}
	if toks[2].Kind != token.Ident || toks[2].Text != ".not." {
		t.Fatalf("expected .not. as one Ident token, got %+v", toks[2])
	}
}

func TestTokenizeCommentIsTrivia(t *testing.T) {
	f := mustFile(t, "x = 1 ! a comment\ny = 2")
	toks := Tokenize(f, Options{})
	if toks[3].Kind != token.NewStmt {
		t.Fatalf("expected the comment to be absorbed as trivia before NewStmt, got %v", toks[3].Kind)
	}
}
