// Package asr implements the typed, symbol-table-rooted intermediate
// representation that internal/lower produces from an internal/ast tree,
// that internal/pass rewrites, that internal/verify checks, and that
// internal/serialize round-trips to the on-disk module format.
package asr

import "fortasr/internal/arena"

type (
	SymbolID ID
	StmtID   ID
	ExprID   ID
	TypeID   ID
)

// ID is the common underlying arena identifier for every ASR node kind.
type ID = arena.ID

const (
	NoSymbolID SymbolID = SymbolID(arena.Zero)
	NoStmtID   StmtID   = StmtID(arena.Zero)
	NoExprID   ExprID   = ExprID(arena.Zero)
	NoTypeID   TypeID   = TypeID(arena.Zero)
)

func (id SymbolID) IsValid() bool { return arena.ID(id).IsValid() }
func (id StmtID) IsValid() bool   { return arena.ID(id).IsValid() }
func (id ExprID) IsValid() bool   { return arena.ID(id).IsValid() }
func (id TypeID) IsValid() bool   { return arena.ID(id).IsValid() }
