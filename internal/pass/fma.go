package pass

import "fortasr/internal/asr"

// FMARecognition implements §4.3.4: BinOp(+, x, BinOp(*, y, z)) and its
// commuted/subtracted forms, when the result type is Real, become a call
// to the fma(x, y, z) intrinsic. Matching is bottom-up (fmaRewrite
// recurses into operands before matching the current node) so
// a chain like a + b*c + d*e collapses into two FMAs.
type FMARecognition struct{}

func (FMARecognition) Name() string { return "fma-recognition" }

func (p *FMARecognition) Run(u *asr.TranslationUnit) error {
	walkAndRewrite(u, func(id asr.StmtID) []asr.StmtID {
		rewriteStmtExprs(u, id, fmaRewrite)
		return []asr.StmtID{id}
	})
	return nil
}

// rewriteStmtExprs applies rewrite to an Assignment's value, an If's or
// WhileLoop's condition, each Print or SubroutineCall argument, and an
// Assert's condition; other statements' expressions (and an assignment's
// target) are left as they are. It does not need to recurse into nested
// statement blocks — walkAndRewrite already visits every statement via
// its own traversal.
func rewriteStmtExprs(u *asr.TranslationUnit, id asr.StmtID, rewrite func(*asr.TranslationUnit, asr.ExprID) asr.ExprID) {
	s := u.Stmt(id)
	switch s.Kind {
	case asr.StAssignment:
		s.Assignment.Value = rewrite(u, s.Assignment.Value)
		u.OverwriteStmt(id, *s)
	case asr.StIf:
		s.If.Cond = rewrite(u, s.If.Cond)
		u.OverwriteStmt(id, *s)
	case asr.StWhileLoop:
		s.WhileLoop.Cond = rewrite(u, s.WhileLoop.Cond)
		u.OverwriteStmt(id, *s)
	case asr.StPrint:
		for i, a := range s.Print.Args {
			s.Print.Args[i] = rewrite(u, a)
		}
		u.OverwriteStmt(id, *s)
	case asr.StSubroutineCall:
		for i, a := range s.Call.Args {
			s.Call.Args[i] = rewrite(u, a)
		}
		u.OverwriteStmt(id, *s)
	case asr.StAssert:
		s.Assert.Cond = rewrite(u, s.Assert.Cond)
		u.OverwriteStmt(id, *s)
	}
}

// fmaRewrite recurses into e's operands first (bottom-up), then matches
// the Add/Sub-of-Mul shapes at the current node.
func fmaRewrite(u *asr.TranslationUnit, id asr.ExprID) asr.ExprID {
	if id == asr.NoExprID {
		return id
	}
	e := u.Expr(id)
	if e.Kind != asr.ExBinOp {
		return id
	}
	e.BinOp.Left = fmaRewrite(u, e.BinOp.Left)
	e.BinOp.Right = fmaRewrite(u, e.BinOp.Right)
	u.OverwriteExpr(id, *e)

	if u.Type(e.Type).Kind != asr.TyReal {
		return id
	}

	left := u.Expr(e.BinOp.Left)
	right := u.Expr(e.BinOp.Right)

	switch e.BinOp.Op {
	case asr.BinAdd:
		if right.Kind == asr.ExBinOp && right.BinOp.Op == asr.BinMul {
			return fmaCall(u, e.Type, right.BinOp.Left, right.BinOp.Right, e.BinOp.Left)
		}
		if left.Kind == asr.ExBinOp && left.BinOp.Op == asr.BinMul {
			return fmaCall(u, e.Type, left.BinOp.Left, left.BinOp.Right, e.BinOp.Right)
		}
	case asr.BinSub:
		if left.Kind == asr.ExBinOp && left.BinOp.Op == asr.BinMul {
			// y*z - x -> fma(y, z, negate(x))
			return fmaCall(u, e.Type, left.BinOp.Left, left.BinOp.Right, negate(u, e.Type, e.BinOp.Right))
		}
		if right.Kind == asr.ExBinOp && right.BinOp.Op == asr.BinMul {
			// x - y*z -> fma(negate(y), z, x)
			y := right.BinOp.Left
			negY := negate(u, u.Expr(y).Type, y)
			return fmaCall(u, e.Type, negY, right.BinOp.Right, e.BinOp.Left)
		}
	}
	return id
}

func negate(u *asr.TranslationUnit, typ asr.TypeID, operand asr.ExprID) asr.ExprID {
	return u.NewExpr(asr.Expr{Kind: asr.ExUnaryOp, Type: typ, UnaryOp: asr.UnaryOpExpr{Op: asr.UnaryMinus, Operand: operand}})
}

func fmaCall(u *asr.TranslationUnit, resultType asr.TypeID, x, y, z asr.ExprID) asr.ExprID {
	fn := lookupOrDefineFMA(u, resultType)
	return u.NewExpr(asr.Expr{Kind: asr.ExFunctionCall, Type: resultType, Call: asr.FunctionCallExpr{
		Callee: fn, Args: []asr.ExprID{x, y, z},
	}})
}

func lookupOrDefineFMA(u *asr.TranslationUnit, resultType asr.TypeID) asr.SymbolID {
	if sym, ok := u.Global.Lookup("fma"); ok {
		return sym.ID
	}
	table := asr.NewSymbolTable(u.Global, asr.NoSymbolID)
	sym := &asr.Symbol{Kind: asr.SymFunction, Name: "fma", Proc: asr.ProcSymbol{
		Table: table, IsExternal: true, ResultType: resultType,
	}}
	id := u.NewSymbol(*sym)
	table.Owner = id
	u.Global.Define("fma", u.Symbol(id))
	return id
}
