package ast

import "fortasr/internal/source"

// ExprKind tags the variant stored in an Expr's fat struct. AST expressions
// are deliberately syntactic: ExprCall covers array indexing, a function
// call, an intrinsic call, and an explicit cast all at once (Fortran's
// grammar can't tell them apart without symbol resolution) — disambiguation
// happens in internal/lower's body pass.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprIntLit
	ExprRealLit
	ExprLogicalLit
	ExprComplexLit
	ExprStrLit
	ExprBinOp
	ExprUnaryOp
	ExprCompare
	ExprBoolOp
	ExprCall     // f(args...): array ref, function/subroutine-result call, intrinsic, or cast
	ExprMember   // a % b : derived-type field access
	ExprArrayCtor
	ExprImpliedDo // (expr, i = lo, hi[, step]) inside an array constructor
)

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinPow
)

type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNotEq
	CmpLt
	CmpLtEq
	CmpGt
	CmpGtEq
)

type BoolOp uint8

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolEqv
	BoolNeqv
)

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// Expr is a syntactic expression node. Exactly one of the variant fields is
// meaningful, selected by Kind.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Ident      IdentExpr
	IntLit     IntLitExpr
	RealLit    RealLitExpr
	LogicalLit LogicalLitExpr
	ComplexLit ComplexLitExpr
	StrLit     StrLitExpr
	BinOp      BinOpExpr
	UnaryOp    UnaryOpExpr
	Compare    CompareExpr
	BoolOp     BoolOpExpr
	Call       CallExpr
	Member     MemberExpr
	ArrayCtor  ArrayCtorExpr
	ImpliedDo  ImpliedDoExpr
}

type IdentExpr struct {
	Name source.StringID
}

type IntLitExpr struct {
	Value int64
	Kind  int // requested numeric kind, 0 = default
}

type RealLitExpr struct {
	Value float64
	Kind  int
}

type LogicalLitExpr struct {
	Value bool
}

type ComplexLitExpr struct {
	Real, Imag ExprID
}

type StrLitExpr struct {
	Value source.StringID
}

type BinOpExpr struct {
	Op          BinOp
	Left, Right ExprID
}

type UnaryOpExpr struct {
	Op      UnaryOp
	Operand ExprID
}

type CompareExpr struct {
	Op          CompareOp
	Left, Right ExprID
}

type BoolOpExpr struct {
	Op          BoolOp
	Left, Right ExprID
}

// CallExpr is "Name(Args...)" — array indexing, a call, or a cast.
type CallExpr struct {
	Name source.StringID
	Args []CallArg
}

// CallArg supports Fortran's keyword arguments ("call sub(x, y=1)").
type CallArg struct {
	Keyword source.StringID // NoStringID if positional
	Value   ExprID
}

type MemberExpr struct {
	Base   ExprID
	Member source.StringID
}

type ArrayCtorExpr struct {
	Items []ExprID // elements, each possibly an ExprImpliedDo
}

type ImpliedDoExpr struct {
	Items            []ExprID // expressions generated per iteration
	Var              source.StringID
	Start, End, Step ExprID // Step may be NoExprID (defaults to 1)
}
