package asr

// TypeKind tags the variant held in a Type's fat struct.
type TypeKind uint8

const (
	TyInvalid TypeKind = iota
	TyInteger
	TyReal
	TyComplex
	TyLogical
	TyCharacter
	TyDerived
	TyPointer
	TyConst
	TyCPtr
	TyTuple
	TyList
	TyDict
	TyUnion
	TyEnum
)

func (k TypeKind) String() string {
	switch k {
	case TyInteger:
		return "Integer"
	case TyReal:
		return "Real"
	case TyComplex:
		return "Complex"
	case TyLogical:
		return "Logical"
	case TyCharacter:
		return "Character"
	case TyDerived:
		return "Derived"
	case TyPointer:
		return "Pointer"
	case TyConst:
		return "Const"
	case TyCPtr:
		return "CPtr"
	case TyTuple:
		return "Tuple"
	case TyList:
		return "List"
	case TyDict:
		return "Dict"
	case TyUnion:
		return "Union"
	case TyEnum:
		return "Enum"
	default:
		return "Invalid"
	}
}

// Dim is one array dimension: a pair of optional expressions. A nil Lower
// or Length means assumed-shape in that bound.
type Dim struct {
	Lower  ExprID // NoExprID if absent (defaults to 1 at lowering, assumed-shape at the type level)
	Length ExprID // NoExprID if absent
}

// Type is one ASR type node. Kind selects which variant fields apply;
// Kind, Width, and Dims are shared by every numeric/derived scalar-or-array
// variant, the remaining fields are used only by the structural variants
// that need them.
type Type struct {
	Kind TypeKind

	// Width is the "kind" (bit-width bucket, typically 1/4/8) for
	// Integer/Real/Complex/Logical/Character scalars.
	Width int
	Dims  []Dim

	// Derived references the DerivedType symbol for TyDerived.
	Derived SymbolID

	// Elem is the wrapped type for Pointer/Const/List.
	Elem TypeID

	// Key/Value are used by Dict.
	Key   TypeID
	Value TypeID

	// Members backs Tuple (ordered) and Union/Enum (named).
	Members []TypeID
	Names   []string
}

// IsArray reports whether t carries at least one dimension.
func (t Type) IsArray() bool { return len(t.Dims) > 0 }

// NumDims returns the declared rank.
func (t Type) NumDims() int { return len(t.Dims) }

// IsNumeric reports whether t is Integer, Real, or Complex.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case TyInteger, TyReal, TyComplex:
		return true
	default:
		return false
	}
}

// numericPriority ranks t for the implicit-cast matrix (§4.2/§9):
// Real > Integer; Complex > Real. Non-numeric kinds rank lowest.
func (t Type) numericPriority() int {
	switch t.Kind {
	case TyInteger:
		return 1
	case TyReal:
		return 2
	case TyComplex:
		return 3
	default:
		return 0
	}
}
