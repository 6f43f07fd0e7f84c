package pass

import (
	"testing"

	"fortasr/internal/asr"
)

func TestWrapGlobalStatementsMovesOrphansIntoFunction(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})
	orphan := u.NewStmt(asr.Stmt{Kind: asr.StPrint})
	u.Orphans = []asr.StmtID{orphan}

	p := &WrapGlobalStatements{FuncName: "cell_1", ResultType: intType}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if len(u.Orphans) != 0 {
		t.Fatalf("expected Orphans to be drained, got %d remaining", len(u.Orphans))
	}
	sym, ok := u.Global.Lookup("cell_1")
	if !ok || sym.Kind != asr.SymFunction {
		t.Fatalf("expected a Function named cell_1 registered at global scope")
	}
	if len(sym.Proc.Body) != 1 || sym.Proc.Body[0] != orphan {
		t.Fatalf("expected the orphan statement moved into the function body")
	}
}

func TestWrapGlobalStatementsNoOrphansIsNoOp(t *testing.T) {
	u := asr.NewTranslationUnit()
	p := &WrapGlobalStatements{FuncName: "cell_1"}
	if err := p.Run(u); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if _, ok := u.Global.Lookup("cell_1"); ok {
		t.Fatalf("expected no function to be synthesized when there are no orphans")
	}
}
