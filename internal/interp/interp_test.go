package interp_test

import (
	"testing"

	"fortasr/internal/ast"
	"fortasr/internal/asr"
	"fortasr/internal/interp"
	"fortasr/internal/lower"
	"fortasr/internal/parser"
	"fortasr/internal/pass"
	"fortasr/internal/source"
)

func mkFunc(u *asr.TranslationUnit, name string, argNames []string, argType asr.TypeID, resultType asr.TypeID, body func(table *asr.SymbolTable) []asr.StmtID) asr.SymbolID {
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	retVar := asr.NewVariable(asr.NoSymbolID, name, table, asr.IntentReturnVar, asr.StorageDefault, resultType)
	retID := u.NewSymbol(*retVar)
	table.Define(name, u.Symbol(retID))

	var args []asr.SymbolID
	for _, an := range argNames {
		v := asr.NewVariable(asr.NoSymbolID, an, table, asr.IntentIn, asr.StorageDefault, argType)
		id := u.NewSymbol(*v)
		table.Define(an, u.Symbol(id))
		args = append(args, id)
	}

	fn := &asr.Symbol{Kind: asr.SymFunction, Name: name, Proc: asr.ProcSymbol{
		Table: table, Args: args, ReturnVar: retID, ResultType: resultType,
	}}
	fnID := u.NewSymbol(*fn)
	table.Owner = fnID
	u.Symbol(fnID).Proc.Body = body(table)
	return fnID
}

func varExpr(u *asr.TranslationUnit, id asr.SymbolID, t asr.TypeID) asr.ExprID {
	return u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: t, Var: asr.VarExpr{Symbol: id}})
}

func intLit(u *asr.TranslationUnit, t asr.TypeID, v int64) asr.ExprID {
	return u.NewExpr(asr.Expr{Kind: asr.ExConstantInteger, Type: t, ConstInt: asr.ConstantIntegerExpr{Value: v}})
}

func assign(u *asr.TranslationUnit, target, value asr.ExprID) asr.StmtID {
	return u.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: target, Value: value}})
}

// Scenario 1: function f(); integer :: f; f = 5; end function returns 5.
func TestFunctionReturningIntegerLiteral(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	fnID := mkFunc(u, "f", nil, intType, intType, func(table *asr.SymbolTable) []asr.StmtID {
		retSym, _ := table.Lookup("f")
		return []asr.StmtID{assign(u, varExpr(u, retSym.ID, intType), intLit(u, intType, 5))}
	})
	u.Global.Define("f", u.Symbol(fnID))

	ip := interp.New(u)
	got, err := ip.CallFunction("f", nil)
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.Int != 5 || got.Kind != asr.TyInteger {
		t.Fatalf("CallFunction() = %+v, want Integer 5", got)
	}
}

// Scenario 2: function f(); real :: r; r = 3; end function — r evaluates
// to 3.0 once the integer literal is implicitly cast to real.
func TestFunctionCoercesIntegerLiteralToRealReturn(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})
	realType := u.NewType(asr.Type{Kind: asr.TyReal, Width: 4})

	fnID := mkFunc(u, "r", nil, intType, realType, func(table *asr.SymbolTable) []asr.StmtID {
		retSym, _ := table.Lookup("r")
		cast := u.NewExpr(asr.Expr{
			Kind: asr.ExImplicitCast, Type: realType,
			ImplicitCast: asr.CastExpr{Operand: intLit(u, intType, 3), Kind: asr.CastIntegerToReal},
		})
		return []asr.StmtID{assign(u, varExpr(u, retSym.ID, realType), cast)}
	})
	u.Global.Define("r", u.Symbol(fnID))

	ip := interp.New(u)
	got, err := ip.CallFunction("r", nil)
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.Kind != asr.TyReal || got.Real != 3.0 {
		t.Fatalf("CallFunction() = %+v, want Real 3.0", got)
	}
}

// Scenario 3: do i=1,5; j=j+i; end do sums to 15, run as a Function body
// (so the sum is observable as a return value) after the do-loop pass has
// rewritten the DoLoop to a WhileLoop.
func TestFunctionLoopSumsToFifteen(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	fnID := mkFunc(u, "j", nil, intType, intType, func(table *asr.SymbolTable) []asr.StmtID {
		jSym, _ := table.Lookup("j")
		iVar := asr.NewVariable(asr.NoSymbolID, "i", table, asr.IntentLocal, asr.StorageDefault, intType)
		iID := u.NewSymbol(*iVar)
		table.Define("i", u.Symbol(iID))

		sumStmt := assign(u, varExpr(u, jSym.ID, intType),
			u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: intType, BinOp: asr.BinOpExpr{
				Op: asr.BinAdd, Left: varExpr(u, jSym.ID, intType), Right: varExpr(u, iID, intType),
			}}))

		dl := asr.DoLoopStmt{Var: iID, Start: intLit(u, intType, 1), End: intLit(u, intType, 5), Step: asr.NoExprID, Body: []asr.StmtID{sumStmt}}
		return []asr.StmtID{u.NewStmt(asr.Stmt{Kind: asr.StDoLoop, DoLoop: dl})}
	})
	u.Global.Define("j", u.Symbol(fnID))

	if err := pass.Run(u, []pass.Pass{&pass.DoLoopLowering{}}); err != nil {
		t.Fatalf("do-loop lowering failed: %v", err)
	}

	ip := interp.New(u)
	got, err := ip.CallFunction("j", nil)
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.Int != 15 {
		t.Fatalf("CallFunction() = %d, want 15", got.Int)
	}
}

// Scenario 5: an out-argument subroutine sub(i, j, r) writes r = i + j;
// after call sub(2, 3, r), r must read back as 5.
func TestSubroutineWritesOutArgument(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	iID := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "i", table, asr.IntentIn, asr.StorageDefault, intType))
	table.Define("i", u.Symbol(iID))
	jID := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "j", table, asr.IntentIn, asr.StorageDefault, intType))
	table.Define("j", u.Symbol(jID))
	rID := u.NewSymbol(*asr.NewVariable(asr.NoSymbolID, "r", table, asr.IntentOut, asr.StorageDefault, intType))
	table.Define("r", u.Symbol(rID))

	body := []asr.StmtID{assign(u, varExpr(u, rID, intType),
		u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: intType, BinOp: asr.BinOpExpr{
			Op: asr.BinAdd, Left: varExpr(u, iID, intType), Right: varExpr(u, jID, intType),
		}}))}

	sub := &asr.Symbol{Kind: asr.SymSubroutine, Name: "sub", Proc: asr.ProcSymbol{
		Table: table, Args: []asr.SymbolID{iID, jID, rID}, Body: body,
	}}
	subID := u.NewSymbol(*sub)
	table.Owner = subID
	u.Global.Define("sub", u.Symbol(subID))

	ip := interp.New(u)
	out, err := ip.CallSubroutine("sub", []interp.Value{interp.Integer(2), interp.Integer(3), interp.Integer(0)})
	if err != nil {
		t.Fatalf("CallSubroutine() error = %v", err)
	}
	if out[2].Int != 5 {
		t.Fatalf("out[2] = %+v, want Integer 5", out[2])
	}
}

// Scenario 4: redefining a function at global scope via DefineOrShadow
// (the interactive-evaluator rule) makes later calls dispatch to the new
// body: fn(i,j)=i+j then redefined to i-j, fn(2,3) yields 5 then -1.
func TestRedefinedFunctionDispatchesToLatestBody(t *testing.T) {
	u := asr.NewTranslationUnit()
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})

	mkFn := func(op asr.BinOp) asr.SymbolID {
		return mkFunc(u, "fn", []string{"i", "j"}, intType, intType, func(table *asr.SymbolTable) []asr.StmtID {
			retSym, _ := table.Lookup("fn")
			iSym, _ := table.Lookup("i")
			jSym, _ := table.Lookup("j")
			return []asr.StmtID{assign(u, varExpr(u, retSym.ID, intType),
				u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: intType, BinOp: asr.BinOpExpr{
					Op: op, Left: varExpr(u, iSym.ID, intType), Right: varExpr(u, jSym.ID, intType),
				}}))}
		})
	}

	firstID := mkFn(asr.BinAdd)
	u.Symbol(firstID).IsInteractiveProto = true
	if !u.Global.DefineOrShadow("fn", u.Symbol(firstID)) {
		t.Fatalf("first definition of fn should have succeeded")
	}

	ip := interp.New(u)
	got, err := ip.CallFunction("fn", []interp.Value{interp.Integer(2), interp.Integer(3)})
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.Int != 5 {
		t.Fatalf("fn(2,3) = %d, want 5", got.Int)
	}

	secondID := mkFn(asr.BinSub)
	if !u.Global.DefineOrShadow("fn", u.Symbol(secondID)) {
		t.Fatalf("redefining an interactive prototype should succeed")
	}

	got, err = ip.CallFunction("fn", []interp.Value{interp.Integer(2), interp.Integer(3)})
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.Int != -1 {
		t.Fatalf("fn(2,3) after redefinition = %d, want -1", got.Int)
	}
}

// Scenario 6: assigning a character literal to an inferred-numeric
// variable is a semantic error caught during lowering, not a crash.
func TestAssigningStringToNumericVariableIsSemanticError(t *testing.T) {
	src := "program p\n  integer :: x\n  x = 'x'\nend program\n"
	fs := source.NewFileSet()
	fid := fs.AddVirtual("scenario6.f90", []byte(src))
	b := ast.NewBuilder(nil)
	file := parser.Parse(fs.Get(fid), b, parser.Options{})

	if _, err := lower.Lower(b, file); err == nil {
		t.Fatalf("expected a semantic error assigning a string literal to a numeric variable, got nil")
	}
}
