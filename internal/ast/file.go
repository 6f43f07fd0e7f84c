package ast

import "fortasr/internal/source"

// File is one parsed source file: a sequence of top-level items plus, for
// the interactive-evaluator flow, orphan statements that live
// outside any program/module/subroutine (see pass.WrapGlobalStatements).
type File struct {
	Source    source.FileID
	Items     []ItemID
	OrphanStmts []StmtID
}
