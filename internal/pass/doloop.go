package pass

import "fortasr/internal/asr"

// DoLoopLowering implements §4.3.3: each DoLoop is replaced by a fresh
// temporary for start/end/step evaluated once at entry, an init
// assignment of var, a generated WhileLoop testing the sign-aware bound
// condition, and a bottom-of-body increment. After this pass, invariant
// §3.2.11 holds: no DoLoop nodes remain.
//
// Exit already behaves as "break the nearest enclosing loop" for a
// WhileLoop, so it needs no rewriting here. Cycle needs the increment to
// run before control returns to the condition test, so every Cycle
// belonging to this loop (Label is empty or matches) gets the increment
// statement spliced in immediately before it.
type DoLoopLowering struct{}

func (DoLoopLowering) Name() string { return "do-loop-lowering" }

func (p *DoLoopLowering) Run(u *asr.TranslationUnit) error {
	walkAndRewrite(u, func(id asr.StmtID) []asr.StmtID {
		s := u.Stmt(id)
		if s.Kind != asr.StDoLoop {
			return []asr.StmtID{id}
		}
		return lowerDoLoop(u, s.Label, s.DoLoop)
	})
	return nil
}

func lowerDoLoop(u *asr.TranslationUnit, label string, dl asr.DoLoopStmt) []asr.StmtID {
	varSym := u.Symbol(dl.Var)
	intType := varSym.Variable.Type
	scope := varSym.Variable.Parent

	startTmp := freshTemp(u, scope, "do_start", intType)
	endTmp := freshTemp(u, scope, "do_end", intType)
	step := dl.Step
	var stepTmp asr.SymbolID
	if step == asr.NoExprID {
		step = intLit(u, 1)
	}
	stepTmp = freshTemp(u, scope, "do_step", intType)

	init := []asr.StmtID{
		assignStmt(u, varExpr(u, startTmp, intType), dl.Start),
		assignStmt(u, varExpr(u, endTmp, intType), dl.End),
		assignStmt(u, varExpr(u, stepTmp, intType), step),
		assignStmt(u, varExpr(u, dl.Var, intType), varExpr(u, startTmp, intType)),
	}

	incr := assignStmt(u, varExpr(u, dl.Var, intType),
		u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: intType, BinOp: asr.BinOpExpr{
			Op: asr.BinAdd, Left: varExpr(u, dl.Var, intType), Right: varExpr(u, stepTmp, intType),
		}}))

	cond := loopCondition(u, dl.Var, endTmp, stepTmp, intType, step)
	body := rewriteCycles(u, dl.Body, label, incr)
	body = append(body, incr)

	loop := u.NewStmt(asr.Stmt{Kind: asr.StWhileLoop, Label: label, WhileLoop: asr.WhileLoopStmt{Cond: cond, Body: body}})
	return append(init, loop)
}

// loopCondition builds (step>0 .and. var<=end) .or. (step<0 .and. var>=end),
// simplified to a single comparison when step is a compile-time constant.
func loopCondition(u *asr.TranslationUnit, varSym, endTmp, stepTmp asr.SymbolID, intType asr.TypeID, step asr.ExprID) asr.ExprID {
	logicalType := u.NewType(asr.Type{Kind: asr.TyLogical, Width: 4})
	se := u.Expr(step)
	if se.Kind == asr.ExConstantInteger {
		if se.ConstInt.Value >= 0 {
			return u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{
				Op: asr.CmpLtEq, Left: varExpr(u, varSym, intType), Right: varExpr(u, endTmp, intType),
			}})
		}
		return u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{
			Op: asr.CmpGtEq, Left: varExpr(u, varSym, intType), Right: varExpr(u, endTmp, intType),
		}})
	}

	zero := intLit(u, 0)
	stepPos := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpGt, Left: varExpr(u, stepTmp, intType), Right: zero}})
	stepNeg := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpLt, Left: varExpr(u, stepTmp, intType), Right: zero}})
	varLeEnd := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpLtEq, Left: varExpr(u, varSym, intType), Right: varExpr(u, endTmp, intType)}})
	varGeEnd := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpGtEq, Left: varExpr(u, varSym, intType), Right: varExpr(u, endTmp, intType)}})

	ascending := u.NewExpr(asr.Expr{Kind: asr.ExBoolOp, Type: logicalType, BoolOp: asr.BoolOpExpr{Op: asr.BoolAnd, Left: stepPos, Right: varLeEnd}})
	descending := u.NewExpr(asr.Expr{Kind: asr.ExBoolOp, Type: logicalType, BoolOp: asr.BoolOpExpr{Op: asr.BoolAnd, Left: stepNeg, Right: varGeEnd}})
	return u.NewExpr(asr.Expr{Kind: asr.ExBoolOp, Type: logicalType, BoolOp: asr.BoolOpExpr{Op: asr.BoolOr, Left: ascending, Right: descending}})
}

// rewriteCycles splices a copy of incr immediately before every Cycle in
// body whose Label matches this loop (or is unlabeled), without
// descending into a nested DoLoop/WhileLoop/DoConcurrentLoop — those own
// their own cycle/increment pairing.
func rewriteCycles(u *asr.TranslationUnit, body []asr.StmtID, label string, incr asr.StmtID) []asr.StmtID {
	out := make([]asr.StmtID, 0, len(body))
	for _, id := range body {
		s := u.Stmt(id)
		switch s.Kind {
		case asr.StCycle:
			if s.Cycle.Label == "" || s.Cycle.Label == label {
				out = append(out, incr)
			}
			out = append(out, id)
		case asr.StIf:
			s.If.Then = rewriteCycles(u, s.If.Then, label, incr)
			s.If.Else = rewriteCycles(u, s.If.Else, label, incr)
			u.OverwriteStmt(id, *s)
			out = append(out, id)
		case asr.StSelect:
			for i := range s.Select.Arms {
				s.Select.Arms[i].Body = rewriteCycles(u, s.Select.Arms[i].Body, label, incr)
			}
			s.Select.Default = rewriteCycles(u, s.Select.Default, label, incr)
			u.OverwriteStmt(id, *s)
			out = append(out, id)
		default:
			out = append(out, id)
		}
	}
	return out
}

func freshTemp(u *asr.TranslationUnit, scope *asr.SymbolTable, prefix string, typ asr.TypeID) asr.SymbolID {
	for suffix := 0; ; suffix++ {
		candidate := prefix
		if suffix > 0 {
			candidate = prefix + "_" + itoa(suffix)
		}
		if _, exists := scope.Lookup(candidate); !exists {
			v := asr.NewVariable(asr.NoSymbolID, candidate, scope, asr.IntentLocal, asr.StorageDefault, typ)
			id := u.NewSymbol(*v)
			scope.Define(candidate, u.Symbol(id))
			return id
		}
	}
}

func varExpr(u *asr.TranslationUnit, sym asr.SymbolID, typ asr.TypeID) asr.ExprID {
	return u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: typ, Var: asr.VarExpr{Symbol: sym}})
}

func assignStmt(u *asr.TranslationUnit, target, value asr.ExprID) asr.StmtID {
	return u.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: target, Value: value}})
}
