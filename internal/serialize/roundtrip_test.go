package serialize

import (
	"bytes"
	"testing"

	"fortasr/internal/asr"
)

// buildModule constructs: MODULE m; CONTAINS; SUBROUTINE add(a, b, out);
// out = a + b; END SUBROUTINE; END MODULE — the smallest tree exercising a
// Module, a Subroutine, Variable args, a BinOp, two VarExpr symbol
// references, and an Assignment.
func buildModule(u *asr.TranslationUnit) asr.SymbolID {
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	modTable := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	modSym := u.NewSymbol(asr.Symbol{Kind: asr.SymModule, Name: "m", Module: asr.ModuleSymbol{Table: modTable}})
	modTable.Owner = modSym
	u.Global.Define("m", u.Symbol(modSym))

	subTable := asr.NewSymbolTable(modTable, asr.NoSymbolID)

	aSym := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "a", subTable, asr.IntentIn, asr.StorageDefault, intType))
	subTable.Define("a", u.Symbol(aSym))
	bSym := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "b", subTable, asr.IntentIn, asr.StorageDefault, intType))
	subTable.Define("b", u.Symbol(bSym))
	outSym := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "out", subTable, asr.IntentOut, asr.StorageDefault, intType))
	subTable.Define("out", u.Symbol(outSym))

	aRef := u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: intType, Var: asr.VarExpr{Symbol: aSym}})
	bRef := u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: intType, Var: asr.VarExpr{Symbol: bSym}})
	sum := u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: intType, BinOp: asr.BinOpExpr{Op: asr.BinAdd, Left: aRef, Right: bRef}})
	outRef := u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: intType, Var: asr.VarExpr{Symbol: outSym}})
	assign := u.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: outRef, Value: sum}})

	subSym := u.NewSymbol(asr.Symbol{
		Kind: asr.SymSubroutine, Name: "add",
		Proc: asr.ProcSymbol{Table: subTable, Args: []asr.SymbolID{aSym, bSym, outSym}, Body: []asr.StmtID{assign}},
	})
	subTable.Owner = subSym
	modTable.Define("add", u.Symbol(subSym))

	return modSym
}

func TestWriteUnitThenReadUnitBinaryRoundTrips(t *testing.T) {
	u := asr.NewTranslationUnit()
	buildModule(u)

	var buf bytes.Buffer
	if err := WriteUnit(&buf, Binary, u); err != nil {
		t.Fatalf("WriteUnit: %v", err)
	}

	loaded, err := ReadUnit(&buf, nil)
	if err != nil {
		t.Fatalf("ReadUnit: %v", err)
	}

	modSym, ok := loaded.Global.Lookup("m")
	if !ok || modSym.Kind != asr.SymModule {
		t.Fatalf("expected module m to round-trip, got %+v, %v", modSym, ok)
	}
	subSym, ok := modSym.Module.Table.Lookup("add")
	if !ok || subSym.Kind != asr.SymSubroutine {
		t.Fatalf("expected subroutine add to round-trip, got %+v, %v", subSym, ok)
	}
	if len(subSym.Proc.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(subSym.Proc.Args))
	}
	if len(subSym.Proc.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(subSym.Proc.Body))
	}
	assign := loaded.Stmt(subSym.Proc.Body[0])
	if assign.Kind != asr.StAssignment {
		t.Fatalf("expected an Assignment, got %v", assign.Kind)
	}
	sum := loaded.Expr(assign.Assignment.Value)
	if sum.Kind != asr.ExBinOp || sum.BinOp.Op != asr.BinAdd {
		t.Fatalf("expected a BinAdd, got %+v", sum)
	}
	left := loaded.Expr(sum.BinOp.Left)
	if left.Kind != asr.ExVar {
		t.Fatalf("expected a Var reference, got %v", left.Kind)
	}
	leftSym := loaded.Symbol(left.Var.Symbol)
	if leftSym.Name != "a" || leftSym.Kind != asr.SymVariable {
		t.Fatalf("expected the left operand to resolve to variable a, got %+v", leftSym)
	}
	if subSym.Proc.Table.Parent != modSym.Module.Table {
		t.Fatalf("fix-parent-symtab did not link the subroutine's table to the module's table")
	}
}

func TestWriteUnitThenReadUnitTextRoundTrips(t *testing.T) {
	u := asr.NewTranslationUnit()
	buildModule(u)

	var buf bytes.Buffer
	if err := WriteUnit(&buf, Text, u); err != nil {
		t.Fatalf("WriteUnit: %v", err)
	}
	loaded, err := ReadUnit(&buf, nil)
	if err != nil {
		t.Fatalf("ReadUnit: %v", err)
	}
	if _, ok := loaded.Global.Lookup("m"); !ok {
		t.Fatalf("expected module m to round-trip via the text encoding")
	}
}

func TestReadUnitResolvesForwardExternalSymbolReference(t *testing.T) {
	u := asr.NewTranslationUnit()

	modTable := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	modSym := u.NewSymbol(asr.Symbol{Kind: asr.SymModule, Name: "m", Module: asr.ModuleSymbol{Table: modTable}})
	modTable.Owner = modSym
	u.Global.Define("m", u.Symbol(modSym))

	helperTable := asr.NewSymbolTable(modTable, asr.NoSymbolID)
	helperSym := u.NewSymbol(asr.Symbol{Kind: asr.SymSubroutine, Name: "helper", Proc: asr.ProcSymbol{Table: helperTable}})
	helperTable.Owner = helperSym
	modTable.Define("helper", u.Symbol(helperSym))

	extSym := u.NewSymbol(asr.Symbol{
		Kind: asr.SymExternalSymbol, Name: "helper_ext",
		External: asr.ExternalSymbolData{ModuleName: "m", OriginalName: "helper"},
	})
	u.Global.Define("helper_ext", u.Symbol(extSym))

	var buf bytes.Buffer
	if err := WriteUnit(&buf, Binary, u); err != nil {
		t.Fatalf("WriteUnit: %v", err)
	}
	loaded, err := ReadUnit(&buf, nil)
	if err != nil {
		t.Fatalf("ReadUnit: %v", err)
	}
	ext, ok := loaded.Global.Lookup("helper_ext")
	if !ok || ext.Kind != asr.SymExternalSymbol {
		t.Fatalf("expected helper_ext to round-trip")
	}
	if ext.External.External == nil || ext.External.External.Name != "helper" {
		t.Fatalf("expected fix-external-symbols to resolve the target, got %+v", ext.External.External)
	}
}
