// Package lexer tokenizes Fortran free-form source for internal/parser.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"fortasr/internal/source"
	"fortasr/internal/token"
)

// Options configures a Lexer. Currently empty; kept as a struct (rather
// than removed outright) since internal/parser constructs one per file and
// a future flag (e.g. fixed-form source) has an obvious home here.
type Options struct{}

// Lexer scans one source.File into a token.Token stream on demand.
type Lexer struct {
	file *source.File
	opts Options

	off uint32 // current byte offset
	// atStmtStart is true when the next non-trivia token begins a new
	// statement, which is the only position a numeric Label can appear.
	atStmtStart bool
}

// New constructs a Lexer over file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, opts: opts, atStmtStart: true}
}

func (l *Lexer) eof() bool { return int(l.off) >= len(l.file.Content) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.file.Content[l.off]
}

func (l *Lexer) peekByteAt(n int) byte {
	i := int(l.off) + n
	if i >= len(l.file.Content) {
		return 0
	}
	return l.file.Content[i]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	return utf8.DecodeRune(l.file.Content[l.off:])
}

// Next returns the next token in the stream, including a final EOF token.
// Trivia (whitespace, comments, absorbed continuations) are attached to
// the token's Leading slice.
func (l *Lexer) Next() token.Token {
	var leading []token.Trivia
	for {
		if l.eof() {
			return token.Token{Kind: token.EOF, Span: l.spanAt(l.off, l.off), Leading: leading}
		}
		start := l.off
		switch c := l.peekByte(); {
		case c == ' ' || c == '\t' || c == '\r':
			l.off++
			leading = append(leading, token.Trivia{Kind: token.TriviaSpace, Span: l.spanAt(start, l.off)})
		case c == '!':
			for !l.eof() && l.peekByte() != '\n' {
				l.off++
			}
			leading = append(leading, token.Trivia{Kind: token.TriviaComment, Span: l.spanAt(start, l.off), Text: string(l.file.Content[start:l.off])})
		case c == '&':
			// Trailing continuation: "&" then (optional trivia) newline.
			if l.lineContinuation() {
				leading = append(leading, token.Trivia{Kind: token.TriviaNewline, Span: l.spanAt(start, l.off)})
				continue
			}
			l.off++
			return l.finish(token.Amp, start, leading)
		case c == '\n':
			l.off++
			if !l.atStmtStart {
				l.atStmtStart = true
				return l.finish(token.NewStmt, start, leading)
			}
			leading = append(leading, token.Trivia{Kind: token.TriviaNewline, Span: l.spanAt(start, l.off)})
		case c == ';':
			l.off++
			if !l.atStmtStart {
				l.atStmtStart = true
				return l.finish(token.NewStmt, start, leading)
			}
		default:
			return l.scanToken(leading)
		}
	}
}

// lineContinuation consumes a trailing "&" that is followed (modulo
// trailing spaces/comment) by a newline, and then skips the leading "&" on
// the continuation line if present, per Fortran free-form continuation
// rules. It reports whether a continuation was consumed.
func (l *Lexer) lineContinuation() bool {
	save := l.off
	l.off++ // the '&'
	for l.peekByte() == ' ' || l.peekByte() == '\t' || l.peekByte() == '\r' {
		l.off++
	}
	if l.peekByte() == '!' {
		for !l.eof() && l.peekByte() != '\n' {
			l.off++
		}
	}
	if l.peekByte() != '\n' {
		l.off = save
		return false
	}
	l.off++ // the newline
	for l.peekByte() == ' ' || l.peekByte() == '\t' || l.peekByte() == '\r' {
		l.off++
	}
	if l.peekByte() == '&' {
		l.off++
	}
	return true
}

func (l *Lexer) finish(k token.Kind, start uint32, leading []token.Trivia) token.Token {
	return token.Token{Kind: k, Span: l.spanAt(start, l.off), Text: string(l.file.Content[start:l.off]), Leading: leading}
}

func (l *Lexer) spanAt(start, end uint32) source.Span {
	return source.Span{File: l.file.ID, Start: start, End: end}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func (l *Lexer) scanToken(leading []token.Trivia) token.Token {
	start := l.off
	atStmtStart := l.atStmtStart
	l.atStmtStart = false

	r, size := l.peekRune()

	switch {
	case isIdentStart(r):
		for {
			r, size = l.peekRune()
			if size == 0 || !isIdentCont(r) {
				break
			}
			l.off += uint32(size)
		}
		return l.finish(token.Ident, start, leading)
	case unicode.IsDigit(r):
		return l.scanNumberOrLabel(start, atStmtStart, leading)
	case r == '.':
		// ".true.", ".false.", ".and." etc scan as a dotted word; ".5"
		// scans as a real literal; anything else is a bare ".".
		if unicode.IsDigit(rune(l.peekByteAt(1))) {
			return l.scanNumberOrLabel(start, false, leading)
		}
		if isIdentStart(rune(l.peekByteAt(1))) {
			l.off++
			for isIdentCont(rune(l.peekByte())) {
				l.off++
			}
			if l.peekByte() == '.' {
				l.off++
			}
			return l.finish(token.Ident, start, leading)
		}
		l.off++
		return l.finish(token.Dot, start, leading)
	case r == '\'' || r == '"':
		return l.scanString(start, byte(r), leading)
	default:
		return l.scanOperator(start, leading)
	}
}

func (l *Lexer) scanNumberOrLabel(start uint32, atStmtStart bool, leading []token.Trivia) token.Token {
	for unicode.IsDigit(rune(l.peekByte())) {
		l.off++
	}
	isReal := false
	if l.peekByte() == '.' && l.peekByteAt(1) != '.' {
		isReal = true
		l.off++
		for unicode.IsDigit(rune(l.peekByte())) {
			l.off++
		}
	}
	if c := l.peekByte(); c == 'e' || c == 'E' || c == 'd' || c == 'D' {
		isReal = true
		save := l.off
		l.off++
		if c := l.peekByte(); c == '+' || c == '-' {
			l.off++
		}
		if !unicode.IsDigit(rune(l.peekByte())) {
			l.off = save
			isReal = false
		} else {
			for unicode.IsDigit(rune(l.peekByte())) {
				l.off++
			}
		}
	}
	if l.peekByte() == '_' && isIdentStart(rune(l.peekByteAt(1))) {
		l.off++
		for isIdentCont(rune(l.peekByte())) {
			l.off++
		}
	}
	if !isReal && atStmtStart && (l.off-start) <= 5 {
		return l.finish(token.Label, start, leading)
	}
	if isReal {
		return l.finish(token.RealLit, start, leading)
	}
	return l.finish(token.IntLit, start, leading)
}

func (l *Lexer) scanString(start uint32, quote byte, leading []token.Trivia) token.Token {
	l.off++ // opening quote
	for {
		if l.eof() {
			break
		}
		c := l.peekByte()
		if c == quote {
			if l.peekByteAt(1) == quote {
				l.off += 2
				continue
			}
			l.off++
			break
		}
		l.off++
	}
	return l.finish(token.StringLit, start, leading)
}

func (l *Lexer) scanOperator(start uint32, leading []token.Trivia) token.Token {
	two := func(b byte) bool { return l.peekByteAt(1) == b }
	switch l.peekByte() {
	case '*':
		if two('*') {
			l.off += 2
			return l.finish(token.StarStar, start, leading)
		}
		l.off++
		return l.finish(token.Star, start, leading)
	case '/':
		switch {
		case two('='):
			l.off += 2
			return l.finish(token.NotEq, start, leading)
		case two(')'):
			l.off += 2
			return l.finish(token.ArrayCtorClose, start, leading)
		default:
			l.off++
			return l.finish(token.Slash, start, leading)
		}
	case '=':
		switch {
		case two('='):
			l.off += 2
			return l.finish(token.Eq, start, leading)
		case two('>'):
			l.off += 2
			return l.finish(token.Arrow, start, leading)
		default:
			l.off++
			return l.finish(token.Assign, start, leading)
		}
	case '<':
		if two('=') {
			l.off += 2
			return l.finish(token.LtEq, start, leading)
		}
		l.off++
		return l.finish(token.Lt, start, leading)
	case '>':
		if two('=') {
			l.off += 2
			return l.finish(token.GtEq, start, leading)
		}
		l.off++
		return l.finish(token.Gt, start, leading)
	case ':':
		if two(':') {
			l.off += 2
			return l.finish(token.ColonColon, start, leading)
		}
		l.off++
		return l.finish(token.Colon, start, leading)
	case '(':
		if two('/') {
			l.off += 2
			return l.finish(token.ArrayCtorOpen, start, leading)
		}
		l.off++
		return l.finish(token.LParen, start, leading)
	case '+':
		l.off++
		return l.finish(token.Plus, start, leading)
	case '-':
		l.off++
		return l.finish(token.Minus, start, leading)
	case '%':
		l.off++
		return l.finish(token.Percent, start, leading)
	case ',':
		l.off++
		return l.finish(token.Comma, start, leading)
	case ')':
		l.off++
		return l.finish(token.RParen, start, leading)
	case '[':
		l.off++
		return l.finish(token.LBracket, start, leading)
	case ']':
		l.off++
		return l.finish(token.RBracket, start, leading)
	default:
		l.off++
		return l.finish(token.Invalid, start, leading)
	}
}

// Tokenize runs l to completion, returning every token including the
// trailing EOF. Convenience for callers (tests, internal/parser) that want
// the whole stream rather than pulling one token at a time.
func Tokenize(file *source.File, opts Options) []token.Token {
	l := New(file, opts)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

// NormalizeKeyword lowercases a token's text for case-insensitive keyword
// comparison without allocating in the common already-lowercase case.
func NormalizeKeyword(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return strings.ToLower(s)
		}
	}
	return s
}
