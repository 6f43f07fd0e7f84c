package verify

import (
	"testing"

	"fortasr/internal/asr"
)

func TestUnitAcceptsEmptyTranslationUnit(t *testing.T) {
	u := asr.NewTranslationUnit()
	if err := Unit(u); err != nil {
		t.Fatalf("Unit() = %v, want nil for an empty unit", err)
	}
}

func TestUnitRejectsDanglingVarExpr(t *testing.T) {
	u := asr.NewTranslationUnit()
	notAVariable := u.NewSymbol(asr.Symbol{Kind: asr.SymModule, Name: "m"})
	u.NewExpr(asr.Expr{Kind: asr.ExVar, Var: asr.VarExpr{Symbol: notAVariable}})

	err := Unit(u)
	if err == nil {
		t.Fatalf("expected a verification failure for a Var pointing at a non-Variable symbol")
	}
}

func TestUnitAcceptsWellFormedFunction(t *testing.T) {
	u := asr.NewTranslationUnit()
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	fn := &asr.Symbol{Kind: asr.SymFunction, Name: "f", Proc: asr.ProcSymbol{Table: table}}
	fnID := u.NewSymbol(*fn)
	table.Owner = fnID

	ret := asr.NewVariable(asr.NoSymbolID, "f", table, asr.IntentReturnVar, asr.StorageDefault, intType)
	retID := u.NewSymbol(*ret)
	table.Define("f", u.Symbol(retID))

	u.Symbol(fnID).Proc.ReturnVar = retID
	u.Symbol(fnID).Proc.ResultType = intType

	if err := Unit(u); err != nil {
		t.Fatalf("Unit() = %v, want nil for a well-formed function", err)
	}
}
