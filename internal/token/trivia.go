package token

import "fortasr/internal/source"

// TriviaKind classifies types of non-code elements attached to a token.
type TriviaKind uint8

const (
	// TriviaSpace represents horizontal whitespace.
	TriviaSpace TriviaKind = iota
	// TriviaNewline represents a newline character that did not itself
	// terminate a statement (absorbed by a continuation, or ending a line
	// with no statement on it).
	TriviaNewline
	// TriviaComment represents a "!"-introduced comment running to end
	// of line.
	TriviaComment
)

// Trivia represents a non-code source element like comments or whitespace,
// attached to the token that follows it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
