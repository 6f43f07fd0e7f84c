package pass

import (
	"testing"

	"fortasr/internal/asr"
)

func mkProgramWithDoLoop(u *asr.TranslationUnit, dl asr.DoLoopStmt) (asr.SymbolID, asr.StmtID) {
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	prog := &asr.Symbol{Kind: asr.SymProgram, Name: "p", Program: asr.ProgramSymbol{Table: table}}
	id := u.NewSymbol(*prog)
	table.Owner = id
	loopID := u.NewStmt(asr.Stmt{Kind: asr.StDoLoop, DoLoop: dl})
	u.Symbol(id).Program.Body = []asr.StmtID{loopID}
	return id, loopID
}

func TestDoLoopLoweringProducesWhileLoopWithBottomIncrement(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	v := asr.NewVariable(asr.NoSymbolID, "i", table, asr.IntentLocal, asr.StorageDefault, intType)
	iID := u.NewSymbol(*v)
	table.Define("i", u.Symbol(iID))

	start := intLitT(u, 1)
	end := intLitT(u, 10)
	bodyStmt := u.NewStmt(asr.Stmt{Kind: asr.StPrint})
	dl := asr.DoLoopStmt{Var: iID, Start: start, End: end, Step: asr.NoExprID, Body: []asr.StmtID{bodyStmt}}

	progID, _ := mkProgramWithDoLoop(u, dl)
	u.Symbol(progID).Program.Table = table

	p := &DoLoopLowering{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	body := u.Symbol(progID).Program.Body
	if len(body) < 2 {
		t.Fatalf("expected init assignments followed by a while-loop, got %d stmts", len(body))
	}
	last := u.Stmt(body[len(body)-1])
	if last.Kind != asr.StWhileLoop {
		t.Fatalf("expected the final statement to be a WhileLoop, got %v", last.Kind)
	}
	if len(last.WhileLoop.Body) != 2 {
		t.Fatalf("expected original body plus one increment statement, got %d", len(last.WhileLoop.Body))
	}
	incr := u.Stmt(last.WhileLoop.Body[1])
	if incr.Kind != asr.StAssignment {
		t.Fatalf("expected the increment to be an Assignment, got %v", incr.Kind)
	}
}

func TestDoLoopLoweringSplicesIncrementBeforeCycle(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	v := asr.NewVariable(asr.NoSymbolID, "i", table, asr.IntentLocal, asr.StorageDefault, intType)
	iID := u.NewSymbol(*v)
	table.Define("i", u.Symbol(iID))

	cycleStmt := u.NewStmt(asr.Stmt{Kind: asr.StCycle, Cycle: asr.LoopCtrlStmt{}})
	dl := asr.DoLoopStmt{
		Var: iID, Start: intLitT(u, 1), End: intLitT(u, 10), Step: asr.NoExprID,
		Body: []asr.StmtID{cycleStmt},
	}
	progID, _ := mkProgramWithDoLoop(u, dl)
	u.Symbol(progID).Program.Table = table

	p := &DoLoopLowering{}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	body := u.Symbol(progID).Program.Body
	last := u.Stmt(body[len(body)-1])
	if len(last.WhileLoop.Body) != 3 {
		t.Fatalf("expected [increment, cycle, increment], got %d stmts", len(last.WhileLoop.Body))
	}
	if u.Stmt(last.WhileLoop.Body[0]).Kind != asr.StAssignment {
		t.Fatalf("expected an increment spliced immediately before the Cycle")
	}
	if u.Stmt(last.WhileLoop.Body[1]).Kind != asr.StCycle {
		t.Fatalf("expected the original Cycle preserved after the spliced increment")
	}
}
