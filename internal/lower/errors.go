// Package lower implements the two-phase AST→ASR lowering of §4.2: a
// symbol-table pass that populates every scope's declarations, followed by
// a body pass that resolves statements and expressions against those
// tables and inserts implicit casts.
package lower

import (
	"fmt"

	"fortasr/internal/diag"
	"fortasr/internal/source"
)

// SemanticError is a fatal, per-translation-unit lowering failure (§7).
// Lowering is all-or-nothing: the first SemanticError aborts the unit.
type SemanticError struct {
	Span    source.Span
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error at %s: %s", e.Span.String(), e.Message)
}

func (e *SemanticError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Level:   diag.LevelError,
		Stage:   diag.StageSemantic,
		Kind:    diag.KindSemantic,
		Message: e.Message,
		Labels:  []diag.Label{diag.PrimaryLabel(e.Span, "")},
	}
}

func errf(span source.Span, format string, args ...any) error {
	return &SemanticError{Span: span, Message: fmt.Sprintf(format, args...)}
}
