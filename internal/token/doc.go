// Package token defines lexical token kinds and trivia for Fortran
// free-form source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Keywords are context-sensitive in real Fortran ("end" doubles as a
//     statement keyword and an identifier prefix); the lexer only ever
//     emits Ident for a bare word, leaving keyword recognition to the
//     parser, which inspects Token.Text case-insensitively. This avoids
//     the classic "IF (I) = 1" vs "IF (I) THEN" lexer-can't-tell problem.
//   - Line continuations ("&" at end of line, or "&" starting the next
//     line) are swallowed by the lexer and never reach the token stream.
package token
