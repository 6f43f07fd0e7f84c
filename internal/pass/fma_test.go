package pass

import (
	"testing"

	"fortasr/internal/asr"
)

func realLit(u *asr.TranslationUnit, v float64) asr.ExprID {
	return u.NewExpr(asr.Expr{
		Kind:      asr.ExConstantReal,
		Type:      u.NewType(asr.Type{Kind: asr.TyReal, Width: 8}),
		ConstReal: asr.ConstantRealExpr{Value: v},
	})
}

func TestFMARecognitionRewritesAddOfMul(t *testing.T) {
	u := asr.NewTranslationUnit()
	realType := u.NewType(asr.Type{Kind: asr.TyReal, Width: 8})
	x, y, z := realLit(u, 1), realLit(u, 2), realLit(u, 3)
	mul := u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: realType, BinOp: asr.BinOpExpr{Op: asr.BinMul, Left: y, Right: z}})
	add := u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: realType, BinOp: asr.BinOpExpr{Op: asr.BinAdd, Left: x, Right: mul}})

	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	targetVar := asr.NewVariable(asr.NoSymbolID, "r", table, asr.IntentLocal, asr.StorageDefault, realType)
	targetID := u.NewSymbol(*targetVar)
	target := u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: realType, Var: asr.VarExpr{Symbol: targetID}})
	assign := u.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: target, Value: add}})

	prog := &asr.Symbol{Kind: asr.SymProgram, Name: "p", Program: asr.ProgramSymbol{Table: table, Body: []asr.StmtID{assign}}}
	progID := u.NewSymbol(*prog)
	table.Owner = progID

	p := &FMARecognition{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	rewritten := u.Stmt(u.Symbol(progID).Program.Body[0])
	value := u.Expr(rewritten.Assignment.Value)
	if value.Kind != asr.ExFunctionCall {
		t.Fatalf("expected the Add-of-Mul to become a FunctionCall, got %v", value.Kind)
	}
	if len(value.Call.Args) != 3 {
		t.Fatalf("expected fma(x, y, z) to carry 3 arguments, got %d", len(value.Call.Args))
	}
}
