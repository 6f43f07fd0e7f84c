// Package parser turns a Fortran free-form token stream into the untyped
// tree in internal/ast, by recursive descent — the same architecture as
// the teacher's parser (one method per grammar production, a flat token
// slice with an integer cursor, diagnostics reported through a
// diag.Reporter rather than returned as errors so the parser can recover
// and keep going after a malformed statement).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"fortasr/internal/ast"
	"fortasr/internal/diag"
	"fortasr/internal/lexer"
	"fortasr/internal/source"
	"fortasr/internal/token"
)

// Options configures a parse. Reporter receives every diagnostic; a nil
// Reporter is replaced with diag.NopReporter{}.
type Options struct {
	Reporter diag.Reporter
}

type parser struct {
	toks []token.Token
	pos  int

	b    *ast.Builder
	file *ast.File
	src  source.FileID
	rep  diag.Reporter
}

// Parse lexes and parses one file, returning its ast.File. Parse errors
// are reported through opts.Reporter and recovery continues at the next
// statement boundary; Parse always returns a (possibly partial) File.
func Parse(f *source.File, b *ast.Builder, opts Options) *ast.File {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	toks := lexer.Tokenize(f, lexer.Options{})
	p := &parser{toks: toks, b: b, src: f.ID, rep: rep}
	p.file = b.NewFile(f.ID)
	p.parseFile()
	return p.file
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *parser) skipBlank() {
	for p.cur().Kind == token.NewStmt {
		p.advance()
	}
}

func (p *parser) kw(s string) bool  { return p.cur().IsKeyword(s) }
func (p *parser) kwAt(n int, s string) bool { return p.peekAt(n).IsKeyword(s) }
func (p *parser) kwIn(names ...string) bool { return p.cur().KeywordIn(names...) }

func (p *parser) expectKw(s string) bool {
	if p.kw(s) {
		p.advance()
		return true
	}
	p.errf("expected %q, got %q", s, p.cur().Text)
	return false
}

func (p *parser) expect(k token.Kind, what string) token.Token {
	if p.cur().Kind == k {
		return p.advance()
	}
	p.errf("expected %s, got %q", what, p.cur().Text)
	return p.cur()
}

func (p *parser) errf(format string, args ...any) {
	p.rep.Report(diag.Diagnostic{
		Level:   diag.LevelError,
		Stage:   diag.StageParser,
		Kind:    diag.KindUser,
		Message: fmt.Sprintf(format, args...),
		Labels:  []diag.Label{diag.PrimaryLabel(p.cur().Span, "here")},
	})
}

// identName interns the current token's text (assumed Ident) and advances.
func (p *parser) identName() source.StringID {
	t := p.expect(token.Ident, "an identifier")
	return p.b.Name(t.Text)
}

// recoverToStmtEnd skips tokens until the next statement boundary, used
// after a malformed statement so one bad line doesn't cascade.
func (p *parser) recoverToStmtEnd() {
	for p.cur().Kind != token.NewStmt && p.cur().Kind != token.EOF {
		p.advance()
	}
	p.skipBlank()
}

func parseIntText(s string) int64 {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[:i]
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseRealText(s string) float64 {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "d", "e")
	s = strings.ReplaceAll(s, "D", "e")
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// unquote strips the surrounding quote characters and collapses doubled
// quotes, per Fortran character-literal escaping rules.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	inner := s[1 : len(s)-1]
	doubled := string([]byte{q, q})
	return strings.ReplaceAll(inner, doubled, string(q))
}
