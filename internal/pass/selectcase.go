package pass

import "fortasr/internal/asr"

// SelectCaseToIfChain implements §4.3.2: a single traversal rewrites each
// Select into a bottom-up if-chain — "the last arm becomes if test ==
// pattern_last then body_last else d; the arm before it wraps that as its
// else-branch; and so on" — with two corrections §9's design notes call
// for over the behavior observed in the source this was learned from:
//
//   - the default d is attached exactly once, as the innermost fallback
//     reached only when every arm has failed to match — not duplicated
//     or left dangling at an intermediate arm;
//   - nested Select statements are handled by a single traversal: walk.go's
//     recurseNestedBlocks already rewrites an arm's own body (which may
//     contain a nested Select) before this pass's transform touches the
//     enclosing Select, so by the time the outer Select is converted every
//     nested Select inside it is already an if-chain. Running this pass a
//     second time to "catch" nested selects, as some implementations do,
//     is therefore unnecessary.
type SelectCaseToIfChain struct{}

func (SelectCaseToIfChain) Name() string { return "select-case-to-if-chain" }

func (p *SelectCaseToIfChain) Run(u *asr.TranslationUnit) error {
	walkAndRewrite(u, func(id asr.StmtID) []asr.StmtID {
		s := u.Stmt(id)
		if s.Kind != asr.StSelect {
			return []asr.StmtID{id}
		}
		return []asr.StmtID{buildIfChain(u, s.Select)}
	})
	return nil
}

// buildIfChain builds the if-chain bottom-up: the last arm's If.Else is
// sel.Default (the sole attachment point for the default branch), and each
// preceding arm wraps the chain built so far as its own If.Else.
func buildIfChain(u *asr.TranslationUnit, sel asr.SelectStmt) asr.StmtID {
	chain := sel.Default
	for i := len(sel.Arms) - 1; i >= 0; i-- {
		arm := sel.Arms[i]
		cond := armCond(u, sel.Test, arm.Patterns)
		ifStmt := asr.Stmt{Kind: asr.StIf, If: asr.IfStmt{Cond: cond, Then: arm.Body, Else: chain}}
		chain = []asr.StmtID{u.NewStmt(ifStmt)}
	}
	if len(chain) == 1 {
		return chain[0]
	}
	// No arms at all: an empty block standing in for the default alone.
	return u.NewStmt(asr.Stmt{Kind: asr.StIf, If: asr.IfStmt{
		Cond: trueLit(u), Then: chain,
	}})
}

// armCond builds the boolean test for one case arm: a single equality for
// CaseValue, a two-sided range check for CaseRange, and an .or.-chain
// across multiple comma-separated patterns (§4.3.2 supplemented per
// SPEC_FULL.md §C.5).
func armCond(u *asr.TranslationUnit, test asr.ExprID, patterns []asr.CasePattern) asr.ExprID {
	logicalType := u.NewType(asr.Type{Kind: asr.TyLogical, Width: 4})
	var cond asr.ExprID
	for i, pat := range patterns {
		var p asr.ExprID
		switch pat.Kind {
		case asr.CaseRange:
			lo := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpLtEq, Left: pat.Low, Right: test}})
			hi := u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpLtEq, Left: test, Right: pat.High}})
			p = u.NewExpr(asr.Expr{Kind: asr.ExBoolOp, Type: logicalType, BoolOp: asr.BoolOpExpr{Op: asr.BoolAnd, Left: lo, Right: hi}})
		default:
			p = u.NewExpr(asr.Expr{Kind: asr.ExCompare, Type: logicalType, Compare: asr.CompareExpr{Op: asr.CmpEq, Left: test, Right: pat.Value}})
		}
		if i == 0 {
			cond = p
			continue
		}
		cond = u.NewExpr(asr.Expr{Kind: asr.ExBoolOp, Type: logicalType, BoolOp: asr.BoolOpExpr{Op: asr.BoolOr, Left: cond, Right: p}})
	}
	return cond
}

func trueLit(u *asr.TranslationUnit) asr.ExprID {
	return u.NewExpr(asr.Expr{
		Kind:         asr.ExConstantLogical,
		Type:         u.NewType(asr.Type{Kind: asr.TyLogical, Width: 4}),
		ConstLogical: asr.ConstantLogicalExpr{Value: true},
	})
}
