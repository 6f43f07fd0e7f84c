package asr

import "fortasr/internal/arena"

// TranslationUnit is the ASR root: it exclusively owns the global symbol
// table and every node arena, plus a sequence of top-level orphan
// statements used by the interactive evaluator (see internal/pass's
// wrap-global-statements pass).
type TranslationUnit struct {
	Global *SymbolTable

	symbols *arena.Arena[Symbol]
	stmts   *arena.Arena[Stmt]
	exprs   *arena.Arena[Expr]
	types   *arena.Arena[Type]

	// Orphans holds top-level statements not owned by any Program/
	// Subroutine/Function body — only populated in interactive mode,
	// before wrap-global-statements synthesizes an implicit Program.
	Orphans []StmtID
}

// NewTranslationUnit returns an empty unit with a fresh global symbol
// table.
func NewTranslationUnit() *TranslationUnit {
	return &TranslationUnit{
		Global:  NewSymbolTable(nil, NoSymbolID),
		symbols: arena.New[Symbol](64),
		stmts:   arena.New[Stmt](256),
		exprs:   arena.New[Expr](256),
		types:   arena.New[Type](64),
	}
}

func (u *TranslationUnit) NewSymbol(sym Symbol) SymbolID {
	id := u.symbols.Allocate(sym)
	u.Symbol(SymbolID(id)).ID = SymbolID(id)
	return SymbolID(id)
}

func (u *TranslationUnit) ReserveSymbol() SymbolID { return SymbolID(u.symbols.Reserve()) }
func (u *TranslationUnit) OverwriteSymbol(id SymbolID, sym Symbol) {
	u.symbols.Overwrite(arena.ID(id), sym)
}
func (u *TranslationUnit) Symbol(id SymbolID) *Symbol { return u.symbols.Get(arena.ID(id)) }
func (u *TranslationUnit) NumSymbols() SymbolID       { return SymbolID(u.symbols.Len()) }
func (u *TranslationUnit) AllSymbols(fn func(id SymbolID, s *Symbol) bool) {
	u.symbols.All(func(id arena.ID, s *Symbol) bool { return fn(SymbolID(id), s) })
}

func (u *TranslationUnit) NewStmt(s Stmt) StmtID      { return StmtID(u.stmts.Allocate(s)) }
func (u *TranslationUnit) Stmt(id StmtID) *Stmt       { return u.stmts.Get(arena.ID(id)) }
func (u *TranslationUnit) ReserveStmt() StmtID        { return StmtID(u.stmts.Reserve()) }
func (u *TranslationUnit) OverwriteStmt(id StmtID, s Stmt) {
	u.stmts.Overwrite(arena.ID(id), s)
}

func (u *TranslationUnit) AllExprs(fn func(id ExprID, e *Expr) bool) {
	u.exprs.All(func(id arena.ID, e *Expr) bool { return fn(ExprID(id), e) })
}

func (u *TranslationUnit) NewExpr(e Expr) ExprID { return ExprID(u.exprs.Allocate(e)) }
func (u *TranslationUnit) Expr(id ExprID) *Expr  { return u.exprs.Get(arena.ID(id)) }
func (u *TranslationUnit) ReserveExpr() ExprID   { return ExprID(u.exprs.Reserve()) }
func (u *TranslationUnit) OverwriteExpr(id ExprID, e Expr) {
	u.exprs.Overwrite(arena.ID(id), e)
}

func (u *TranslationUnit) NewType(t Type) TypeID { return TypeID(u.types.Allocate(t)) }
func (u *TranslationUnit) Type(id TypeID) *Type  { return u.types.Get(arena.ID(id)) }
func (u *TranslationUnit) ReserveType() TypeID   { return TypeID(u.types.Reserve()) }
func (u *TranslationUnit) OverwriteType(id TypeID, t Type) {
	u.types.Overwrite(arena.ID(id), t)
}

// WalkSymbolTables visits t and every nested table reachable through
// procedure/module/program/derived-type symbols owned (directly or
// transitively) by t, calling fn on each. Order is depth-first, visiting
// each table's owning symbols in SymbolTable.Each's sorted name order, so
// it is deterministic.
func (u *TranslationUnit) WalkSymbolTables(fn func(*SymbolTable)) {
	seen := make(map[*SymbolTable]bool)
	var walk func(tab *SymbolTable)
	walk = func(tab *SymbolTable) {
		if tab == nil || seen[tab] {
			return
		}
		seen[tab] = true
		fn(tab)
		tab.Each(func(_ string, sym *Symbol) {
			switch sym.Kind {
			case SymProgram:
				walk(sym.Program.Table)
			case SymModule:
				walk(sym.Module.Table)
			case SymSubroutine, SymFunction:
				walk(sym.Proc.Table)
			case SymDerivedType:
				walk(sym.DerivedTyp.Table)
			}
		})
	}
	walk(u.Global)
}
