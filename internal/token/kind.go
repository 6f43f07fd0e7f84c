package token

// Kind represents the category of a source token. Fortran's grammar is
// keyword-light at the lexical level: "end", "if", "do" and friends are
// ordinary identifiers to the lexer and are recognized contextually by the
// parser (see doc.go).
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// NewStmt marks a statement boundary: a newline or a ";" that is not
	// inside a continued line. The parser treats this like other
	// compilers treat a semicolon.
	NewStmt

	// Ident represents an identifier or bare word token (case preserved
	// in Text; Fortran identifiers are case-insensitive).
	Ident
	// Label represents a statement label: one to five leading digits on
	// a line, lexed as its own token so the parser doesn't confuse it
	// with an integer literal operand.
	Label

	// IntLit represents an integer literal, e.g. 42 or 42_8.
	IntLit
	// RealLit represents a real literal, e.g. 3.14, 1.0e10, 1.0d0.
	RealLit
	// StringLit represents a single- or double-quoted character literal.
	StringLit

	Plus     // +
	Minus    // -
	Star     // *
	StarStar // **
	Slash    // /
	Assign   // =
	Arrow    // => (rename in a USE ... ONLY clause)
	Eq       // ==
	NotEq    // /=
	Lt       // <
	LtEq     // <=
	Gt       // >
	GtEq     // >=
	Amp      // & (only one that is not a line continuation; continuations are trivia)
	Percent  // % (derived-type component access)
	Comma    // ,
	Colon    // :
	ColonColon // ::
	Semicolon  // ;
	Dot        // .
	LParen   // (
	RParen   // )
	LBracket // [ (array constructor, alternative to "(/")
	RBracket // ] (array constructor, alternative to "/)")

	ArrayCtorOpen  // (/
	ArrayCtorClose // /)
)
