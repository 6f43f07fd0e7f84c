package pass

import (
	"testing"

	"fortasr/internal/asr"
)

func intLitT(u *asr.TranslationUnit, v int64) asr.ExprID {
	return u.NewExpr(asr.Expr{
		Kind:     asr.ExConstantInteger,
		Type:     u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4}),
		ConstInt: asr.ConstantIntegerExpr{Value: v},
	})
}

func mkProgramWithSelect(u *asr.TranslationUnit, sel asr.SelectStmt) asr.SymbolID {
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	prog := &asr.Symbol{Kind: asr.SymProgram, Name: "p", Program: asr.ProgramSymbol{Table: table}}
	id := u.NewSymbol(*prog)
	table.Owner = id
	selID := u.NewStmt(asr.Stmt{Kind: asr.StSelect, Select: sel})
	u.Symbol(id).Program.Body = []asr.StmtID{selID}
	return id
}

func TestSelectCaseToIfChainSingleArmDefaultIsInnermostFallback(t *testing.T) {
	u := asr.NewTranslationUnit()
	test := intLitT(u, 1)
	body := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	def := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	sel := asr.SelectStmt{
		Test:    test,
		Arms:    []asr.CaseArm{{Patterns: []asr.CasePattern{{Kind: asr.CaseValue, Value: intLitT(u, 1)}}, Body: body}},
		Default: def,
	}
	progID := mkProgramWithSelect(u, sel)

	p := &SelectCaseToIfChain{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	prog := u.Symbol(progID)
	if len(prog.Program.Body) != 1 {
		t.Fatalf("expected a single replacement statement, got %d", len(prog.Program.Body))
	}
	top := u.Stmt(prog.Program.Body[0])
	if top.Kind != asr.StIf {
		t.Fatalf("expected the lone arm to become an If, got %v", top.Kind)
	}
	if len(top.If.Else) != 1 || top.If.Else[0] != def[0] {
		t.Fatalf("expected the default to be the arm's else-branch")
	}
}

func TestSelectCaseToIfChainMultipleArmsNestElseWithDefaultAtBottom(t *testing.T) {
	u := asr.NewTranslationUnit()
	test := intLitT(u, 1)
	body1 := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	body2 := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	def := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	sel := asr.SelectStmt{
		Test: test,
		Arms: []asr.CaseArm{
			{Patterns: []asr.CasePattern{{Kind: asr.CaseValue, Value: intLitT(u, 1)}}, Body: body1},
			{Patterns: []asr.CasePattern{{Kind: asr.CaseValue, Value: intLitT(u, 2)}}, Body: body2},
		},
		Default: def,
	}
	progID := mkProgramWithSelect(u, sel)

	p := &SelectCaseToIfChain{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	prog := u.Symbol(progID)
	outer := u.Stmt(prog.Program.Body[0])
	if outer.Kind != asr.StIf {
		t.Fatalf("expected outermost statement to be an If, got %v", outer.Kind)
	}
	if len(outer.If.Then) != 1 || outer.If.Then[0] != body1[0] {
		t.Fatalf("expected first arm's body as the outer Then")
	}
	if len(outer.If.Else) != 1 {
		t.Fatalf("expected a single nested If as the outer Else, got %d stmts", len(outer.If.Else))
	}
	inner := u.Stmt(outer.If.Else[0])
	if inner.Kind != asr.StIf {
		t.Fatalf("expected the second arm to be a nested If, got %v", inner.Kind)
	}
	if len(inner.If.Then) != 1 || inner.If.Then[0] != body2[0] {
		t.Fatalf("expected second arm's body as the inner Then")
	}
	if len(inner.If.Else) != 1 || inner.If.Else[0] != def[0] {
		t.Fatalf("expected the default to be the innermost (last) arm's else-branch")
	}
}

func TestSelectCaseToIfChainRangePatternBuildsConjunction(t *testing.T) {
	u := asr.NewTranslationUnit()
	test := intLitT(u, 1)
	body := []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}
	sel := asr.SelectStmt{
		Test: test,
		Arms: []asr.CaseArm{
			{Patterns: []asr.CasePattern{{Kind: asr.CaseRange, Low: intLitT(u, 1), High: intLitT(u, 10)}}, Body: body},
		},
	}
	progID := mkProgramWithSelect(u, sel)

	p := &SelectCaseToIfChain{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	top := u.Stmt(u.Symbol(progID).Program.Body[0])
	cond := u.Expr(top.If.Cond)
	if cond.Kind != asr.ExBoolOp || cond.BoolOp.Op != asr.BoolAnd {
		t.Fatalf("expected a .and. conjunction for a range pattern, got %v", cond.Kind)
	}
}

func TestSelectCaseToIfChainNestedSelectLoweredInSingleTraversal(t *testing.T) {
	u := asr.NewTranslationUnit()
	innerTest := intLitT(u, 5)
	innerSel := asr.SelectStmt{
		Test:    innerTest,
		Arms:    []asr.CaseArm{{Patterns: []asr.CasePattern{{Kind: asr.CaseValue, Value: intLitT(u, 5)}}, Body: []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})}}},
		Default: []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StReturn})},
	}
	innerSelID := u.NewStmt(asr.Stmt{Kind: asr.StSelect, Select: innerSel})

	outerTest := intLitT(u, 1)
	outerSel := asr.SelectStmt{
		Test: outerTest,
		Arms: []asr.CaseArm{
			{Patterns: []asr.CasePattern{{Kind: asr.CaseValue, Value: intLitT(u, 1)}}, Body: []asr.StmtID{innerSelID}},
		},
	}
	progID := mkProgramWithSelect(u, outerSel)

	p := &SelectCaseToIfChain{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	outer := u.Stmt(u.Symbol(progID).Program.Body[0])
	if len(outer.If.Then) != 1 {
		t.Fatalf("expected one rewritten statement in the outer arm body")
	}
	nested := u.Stmt(outer.If.Then[0])
	if nested.Kind != asr.StIf {
		t.Fatalf("expected the nested Select to already be rewritten to an If, got %v", nested.Kind)
	}
}
