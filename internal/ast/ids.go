// Package ast is the untyped tree the parser hands to the symbol-table and
// body lowering passes (internal/lower). It follows source structure
// directly: no identifier is resolved and no type is attached yet — that
// is the job of internal/asr and internal/lower.
package ast

import "fortasr/internal/arena"

type (
	// ItemID identifies a top-level or nested declaration-bearing item
	// (program, module, subroutine, function, derived type, use, interface).
	ItemID = arena.ID
	// DeclID identifies one declaration statement (possibly naming several
	// variables sharing one type-spec, e.g. "integer :: a, b, c").
	DeclID = arena.ID
	// StmtID identifies an executable statement.
	StmtID = arena.ID
	// ExprID identifies an expression.
	ExprID = arena.ID
	// TypeID identifies a syntactic type specification.
	TypeID = arena.ID
)

// NoItemID etc. name the absent handle for each ID kind, for readability
// at call sites (all equal to arena.Zero).
const (
	NoItemID ItemID = arena.Zero
	NoDeclID DeclID = arena.Zero
	NoStmtID StmtID = arena.Zero
	NoExprID ExprID = arena.Zero
	NoTypeID TypeID = arena.Zero
)
