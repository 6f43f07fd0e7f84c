package diag

import "fmt"

// Error adapts a Diagnostic to the error interface so internal packages can
// return it directly and still let diagfmt render it richly later. Per
// spec §7, every error the core raises (semantic, verification, codegen,
// internal) carries exactly this shape.
type Error struct {
	Diagnostic Diagnostic
}

func NewError(kind Kind, stage Stage, msg string, labels ...Label) *Error {
	return &Error{Diagnostic: Diagnostic{
		Level:   LevelError,
		Stage:   stage,
		Kind:    kind,
		Message: msg,
		Labels:  labels,
	}}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Diagnostic.Kind, e.Diagnostic.Message)
}
