package pass

import "fortasr/internal/asr"

// WrapGlobalStatements implements §4.3.6: for the interactive-evaluator
// flow, the translation unit's orphan top-level statements are moved into
// a freshly minted Function named after a caller-supplied string and
// registered in the global scope, so every later pass (and the verifier)
// only ever has to deal with Program/Subroutine/Function bodies.
type WrapGlobalStatements struct {
	// FuncName is the synthesized function's name, chosen by the caller
	// (e.g. a REPL session/cell identifier).
	FuncName string
	// ResultType is the synthesized function's declared return type.
	ResultType asr.TypeID
}

func (WrapGlobalStatements) Name() string { return "wrap-global-statements" }

func (p *WrapGlobalStatements) Run(u *asr.TranslationUnit) error {
	if len(u.Orphans) == 0 {
		return nil
	}
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	ret := asr.NewVariable(asr.NoSymbolID, p.FuncName, table, asr.IntentReturnVar, asr.StorageDefault, p.ResultType)
	retID := u.NewSymbol(*ret)
	table.Define(p.FuncName, u.Symbol(retID))

	fn := &asr.Symbol{Kind: asr.SymFunction, Name: p.FuncName, Proc: asr.ProcSymbol{
		Table: table, Body: u.Orphans, ReturnVar: retID, ResultType: p.ResultType,
	}}
	fnID := u.NewSymbol(*fn)
	table.Owner = fnID
	if !u.Global.DefineOrShadow(p.FuncName, u.Symbol(fnID)) {
		return &WrapNameCollisionError{Name: p.FuncName}
	}
	u.Orphans = nil
	return nil
}

// WrapNameCollisionError reports that the caller-supplied wrapper name
// collides with an existing, non-shadowable global symbol.
type WrapNameCollisionError struct{ Name string }

func (e *WrapNameCollisionError) Error() string {
	return "wrap-global-statements: name " + e.Name + " already defined at global scope"
}
