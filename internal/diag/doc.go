// Package diag defines the diagnostic shapes shared by the tokenizer,
// parser, lowerer, verifier, and passes: Level/Stage/Kind, the Diagnostic
// itself, and a capped Bag for accumulating non-fatal ones.
package diag
