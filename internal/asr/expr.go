package asr

// ExprKind tags the variant held in an Expr's fat struct, one per §3.1
// expression member.
type ExprKind uint8

const (
	ExInvalid ExprKind = iota
	ExVar
	ExFunctionCall
	ExBinOp
	ExUnaryOp
	ExCompare
	ExBoolOp
	ExArrayRef
	ExArrayInitializer
	ExArraySize
	ExArrayBound
	ExArrayReshape
	ExDerivedRef
	ExImpliedDoLoop
	ExImplicitCast
	ExExplicitCast
	ExStrOp
	ExStr
	ExConstantInteger
	ExConstantReal
	ExConstantLogical
	ExConstantComplex
)

func (k ExprKind) String() string {
	names := [...]string{
		"Invalid", "Var", "FunctionCall", "BinOp", "UnaryOp", "Compare",
		"BoolOp", "ArrayRef", "ArrayInitializer", "ArraySize", "ArrayBound",
		"ArrayReshape", "DerivedRef", "ImpliedDoLoop", "ImplicitCast",
		"ExplicitCast", "StrOp", "Str", "ConstantInteger", "ConstantReal",
		"ConstantLogical", "ConstantComplex",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

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

type StrOp uint8

const (
	StrConcat StrOp = iota
)

// Expr is one ASR expression node. Every node carries its resolved Type
// (invariant §3.2.7); exactly one of the variant fields is meaningful,
// selected by Kind.
type Expr struct {
	Kind ExprKind
	Type TypeID

	Var          VarExpr
	Call         FunctionCallExpr
	BinOp        BinOpExpr
	UnaryOp      UnaryOpExpr
	Compare      CompareExpr
	BoolOp       BoolOpExpr
	ArrayRef     ArrayRefExpr
	ArrayInit    ArrayInitializerExpr
	ArraySize    ArraySizeExpr
	ArrayBound   ArrayBoundExpr
	ArrayReshape ArrayReshapeExpr
	DerivedRef   DerivedRefExpr
	ImpliedDo    ImpliedDoLoopExpr
	ImplicitCast CastExpr
	ExplicitCast CastExpr
	StrOpExpr    StrOpExpr
	Str          StrExpr
	ConstInt     ConstantIntegerExpr
	ConstReal    ConstantRealExpr
	ConstLogical ConstantLogicalExpr
	ConstComplex ConstantComplexExpr
}

// VarExpr references a symbol, possibly through one ExternalSymbol hop
// (invariant §3.2.4).
type VarExpr struct {
	Symbol SymbolID
}

type FunctionCallExpr struct {
	Callee SymbolID
	Args   []ExprID
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

// ArrayRefExpr is an indexed reference into an array variable; each index
// is an expression, or NoExprID for a bare ":" full-extent subscript.
type ArrayRefExpr struct {
	Array   SymbolID
	Indices []ExprID
}

type ArrayInitializerExpr struct {
	Items []ExprID
}

// ArraySizeExpr models SIZE(array[, dim]); Dim is NoExprID for the
// total-element-count form.
type ArraySizeExpr struct {
	Array ExprID
	Dim   ExprID
}

type ArrayBoundKind uint8

const (
	ArrayLBound ArrayBoundKind = iota
	ArrayUBound
)

type ArrayBoundExpr struct {
	Kind  ArrayBoundKind
	Array ExprID
	Dim   ExprID
}

type ArrayReshapeExpr struct {
	Array ExprID
	Shape ExprID
}

type DerivedRefExpr struct {
	Base   ExprID
	Member SymbolID
}

// ImpliedDoLoopExpr generates Items once per iteration of Var from Start to
// End by Step (Step may be NoExprID, defaulting to 1).
type ImpliedDoLoopExpr struct {
	Items            []ExprID
	Var              SymbolID
	Start, End, Step ExprID
}

// CastExpr backs both ImplicitCast (inserted by lowering) and ExplicitCast
// (written by the user, e.g. REAL(x)).
type CastExpr struct {
	Operand ExprID
	Kind    CastKind
}

type StrOpExpr struct {
	Op          StrOp
	Left, Right ExprID
}

type StrExpr struct {
	Value string
}

type ConstantIntegerExpr struct{ Value int64 }
type ConstantRealExpr struct{ Value float64 }
type ConstantLogicalExpr struct{ Value bool }
type ConstantComplexExpr struct{ Real, Imag float64 }
