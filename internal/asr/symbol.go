package asr

// SymbolKind tags the variant held in a Symbol's fat struct, one per
// §3.1 tagged-variant member.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	SymProgram
	SymModule
	SymSubroutine
	SymFunction
	SymGenericProcedure
	SymDerivedType
	SymVariable
	SymExternalSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case SymProgram:
		return "Program"
	case SymModule:
		return "Module"
	case SymSubroutine:
		return "Subroutine"
	case SymFunction:
		return "Function"
	case SymGenericProcedure:
		return "GenericProcedure"
	case SymDerivedType:
		return "DerivedType"
	case SymVariable:
		return "Variable"
	case SymExternalSymbol:
		return "ExternalSymbol"
	default:
		return "Invalid"
	}
}

// Intent classifies a Variable's argument-passing role.
type Intent uint8

const (
	IntentLocal Intent = iota
	IntentIn
	IntentOut
	IntentInOut
	IntentUnspecified
	IntentReturnVar
)

// Storage classifies a Variable's lifetime/mutability.
type Storage uint8

const (
	StorageDefault Storage = iota
	StorageSave
	StorageParameter
)

// Access is the public/private export tag (Fortran module accessibility).
type Access uint8

const (
	AccessPublic Access = iota
	AccessPrivate
)

// ExternalDescriptor marks a Subroutine/Function as an imported shell: a
// fresh procedure symbol created by a `use` statement, standing in for the
// real definition that lives in another module's symbol table (§4.2 Phase
// 1(d)). Target is nil until cross-module resolution or deserialization's
// fix-externals walk runs.
type ExternalDescriptor struct {
	ModuleName   string
	OriginalName string
	Target       *Symbol
}

// Symbol is one named entity in a SymbolTable. Exactly one of the variant
// fields is meaningful, selected by Kind — the same fat-struct-with-tag
// shape used throughout this IR for statements, expressions, and types.
type Symbol struct {
	ID   SymbolID
	Kind SymbolKind
	Name string // original spelling

	Program    ProgramSymbol
	Module     ModuleSymbol
	Proc       ProcSymbol // Subroutine or Function, disambiguated by Kind
	Generic    GenericProcedureSymbol
	DerivedTyp DerivedTypeSymbol
	Variable   VariableSymbol
	External   ExternalSymbolData

	// IsInteractiveProto marks a shell symbol introduced by the REPL
	// evaluator that a later, real definition is allowed to shadow
	// (§4.2 Phase 1 redefinition rule).
	IsInteractiveProto bool
}

type ProgramSymbol struct {
	Table *SymbolTable
	Body  []StmtID
}

type ModuleSymbol struct {
	Table *SymbolTable
}

// ProcSymbol backs both SymSubroutine and SymFunction. ReturnVar and
// ResultType are only meaningful for SymFunction.
type ProcSymbol struct {
	Table      *SymbolTable
	Args       []SymbolID // each a Variable in Table
	Body       []StmtID
	BindName   string // "" if no BIND(C)
	External   *ExternalDescriptor
	ReturnVar  SymbolID // function-only: Variable with Intent==IntentReturnVar in Table
	ResultType TypeID   // function-only
	IsExternal bool     // EXTERNAL-declared or interface-only prototype, no body
	IsExported bool     // explicitly marked export: always a reachability root (§4.3.5)
}

// GenericProcedureSymbol dispatches by argument-type match at call sites.
type GenericProcedureSymbol struct {
	Parent *SymbolTable
	Procs  []SymbolID // Subroutine/Function symbols, or ExternalSymbols pointing at them
}

type DerivedTypeSymbol struct {
	Table *SymbolTable
}

type VariableSymbol struct {
	Parent  *SymbolTable
	Intent  Intent
	Storage Storage
	Type    TypeID
	Init    ExprID // NoExprID if uninitialized
	Access  Access
	BindName string // ABI tag for BIND(C) variables, "" otherwise
}

// ExternalSymbolData represents an entity imported from another module.
// External is resolved to the module's original symbol during cross-module
// resolution or the deserializer's fix-externals walk; per invariant 3, a
// resolved External must never itself be a SymExternalSymbol.
type ExternalSymbolData struct {
	Parent       *SymbolTable
	ModuleName   string
	OriginalName string
	External     *Symbol
}

// NewVariable constructs a fully-formed Variable symbol.
func NewVariable(id SymbolID, name string, parent *SymbolTable, intent Intent, storage Storage, typ TypeID) *Symbol {
	return &Symbol{
		ID:   id,
		Kind: SymVariable,
		Name: name,
		Variable: VariableSymbol{
			Parent:  parent,
			Intent:  intent,
			Storage: storage,
			Type:    typ,
			Init:    NoExprID,
		},
	}
}
