package ast

import "fortasr/internal/source"

// DeclAttrs are the syntactic declaration attributes a type-spec line can
// carry (dimension(...), intent(...), parameter, save, ...). The symbol
// table pass (internal/lower) turns these into a resolved asr.Variable.
type DeclAttrs uint16

const (
	AttrDimension DeclAttrs = 1 << iota
	AttrParameter
	AttrSave
	AttrIntentIn
	AttrIntentOut
	AttrIntentInOut
	AttrPointer
	AttrAllocatable
	AttrPublic
	AttrPrivate
	AttrExternal
	AttrIntrinsic
	AttrOptional
	AttrValue
	AttrTarget
	AttrBindC
)

// DimSpec is one dimension of a dimension(...) attribute or an array
// declarator on an individual name. Both Lower and Length may be
// NoExprID: an absent Lower defaults to 1 at lowering time, an absent
// Length means assumed-shape (":" ) or assumed-size ("*") depending on
// context.
type DimSpec struct {
	Lower  ExprID
	Length ExprID
}

// TypeSpec is the syntactic form of a declared type, e.g.
// "integer(kind=8), dimension(1:n)".
type TypeSpec struct {
	Span     source.Span
	BaseName source.StringID // "integer", "real", "complex", "logical", "character", or a derived-type name
	KindExpr ExprID          // optional kind=... expression
	CharLen  ExprID          // optional character(len=...) expression
	Dims     []DimSpec       // dimension(...) attribute, empty for scalars
	Attrs    DeclAttrs
	BindName source.StringID // bind(c, name="...") override, NoStringID if absent
}

// DeclName is one name declared by a Decl, with its own optional array
// declarator and initializer.
type DeclName struct {
	Name source.StringID
	Span source.Span
	Dims []DimSpec // per-name array declarator, e.g. "integer :: a(10)"
	Init ExprID    // optional "= expr" or "parameter" value, NoExprID if absent
}

// Decl is one declaration statement, which may introduce several names
// sharing a single TypeSpec.
type Decl struct {
	Span  source.Span
	Type  TypeID
	Names []DeclName
}
