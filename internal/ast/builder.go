package ast

import (
	"fortasr/internal/arena"
	"fortasr/internal/source"
)

// Builder owns every arena backing one parse: items, declarations,
// statements, expressions, and type-specs, plus the shared string
// interner. The parser (an external collaborator, see spec §6.1) is
// expected to build ASTs through a Builder so that node identity is
// stable arena IDs rather than pointers.
type Builder struct {
	Strings *source.Interner

	Items *arena.Arena[Item]
	Decls *arena.Arena[Decl]
	Stmts *arena.Arena[Stmt]
	Exprs *arena.Arena[Expr]
	Types *arena.Arena[TypeSpec]

	Files map[source.FileID]*File
}

// NewBuilder returns a Builder. If strings is nil, a fresh interner is
// allocated.
func NewBuilder(strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Strings: strings,
		Items:   arena.New[Item](64),
		Decls:   arena.New[Decl](64),
		Stmts:   arena.New[Stmt](256),
		Exprs:   arena.New[Expr](256),
		Types:   arena.New[TypeSpec](32),
		Files:   make(map[source.FileID]*File),
	}
}

// NewFile registers an (initially empty) File for src and returns it.
func (b *Builder) NewFile(src source.FileID) *File {
	f := &File{Source: src}
	b.Files[src] = f
	return f
}

// Item allocation helpers. Each returns the new node's ID.

func (b *Builder) AddItem(it Item) ItemID   { return b.Items.Allocate(it) }
func (b *Builder) AddDecl(d Decl) DeclID    { return b.Decls.Allocate(d) }
func (b *Builder) AddStmt(s Stmt) StmtID    { return b.Stmts.Allocate(s) }
func (b *Builder) AddExpr(e Expr) ExprID    { return b.Exprs.Allocate(e) }
func (b *Builder) AddType(t TypeSpec) TypeID { return b.Types.Allocate(t) }

func (b *Builder) Item(id ItemID) *Item   { return b.Items.Get(id) }
func (b *Builder) Decl(id DeclID) *Decl   { return b.Decls.Get(id) }
func (b *Builder) Stmt(id StmtID) *Stmt   { return b.Stmts.Get(id) }
func (b *Builder) Expr(id ExprID) *Expr   { return b.Exprs.Get(id) }
func (b *Builder) Type(id TypeID) *TypeSpec { return b.Types.Get(id) }

// Name interns s and returns its StringID; a thin convenience wrapper so
// callers don't need to reach into Strings directly.
func (b *Builder) Name(s string) source.StringID {
	return b.Strings.Intern(s)
}
