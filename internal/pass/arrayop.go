package pass

import "fortasr/internal/asr"

// ArrayOpToLoop implements §4.3.1: expands array-valued BinOp/UnaryOp
// assignments into perfectly nested do-loops over element references.
// After this pass, invariant §3.2.9 holds: no BinOp has array operands.
type ArrayOpToLoop struct{}

func (ArrayOpToLoop) Name() string { return "array-op-to-loop" }

func (p *ArrayOpToLoop) Run(u *asr.TranslationUnit) error {
	var firstErr error
	walkAndRewrite(u, func(id asr.StmtID) []asr.StmtID {
		s := u.Stmt(id)
		if s.Kind != asr.StAssignment || firstErr != nil {
			return []asr.StmtID{id}
		}
		targetType := u.Type(u.Expr(s.Assignment.Target).Type)
		if !targetType.IsArray() {
			return []asr.StmtID{id}
		}
		loop, err := expandArrayAssignment(u, s.Assignment)
		if err != nil {
			firstErr = err
			return []asr.StmtID{id}
		}
		return []asr.StmtID{loop}
	})
	return firstErr
}

func expandArrayAssignment(u *asr.TranslationUnit, asg asr.AssignmentStmt) (asr.StmtID, error) {
	n := u.Type(u.Expr(asg.Target).Type).NumDims()
	if u.Type(u.Expr(asg.Value).Type).IsArray() && u.Type(u.Expr(asg.Value).Type).NumDims() != n {
		return asr.NoStmtID, &RankMismatchError{}
	}

	indexVars := make([]asr.SymbolID, n)
	intType := u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4})
	targetSym := targetArraySymbol(u, asg.Target)
	scope := targetSym.Variable.Parent
	for k := 0; k < n; k++ {
		v := asr.NewVariable(asr.NoSymbolID, freshLoopVarName(scope, k), scope, asr.IntentLocal, asr.StorageDefault, intType)
		id := u.NewSymbol(*v)
		scope.Define(v.Name, u.Symbol(id))
		indexVars[k] = id
	}

	indices := make([]asr.ExprID, n)
	for k := range indexVars {
		indices[k] = u.NewExpr(asr.Expr{Kind: asr.ExVar, Type: intType, Var: asr.VarExpr{Symbol: indexVars[k]}})
	}

	elemTarget := u.NewExpr(asr.Expr{
		Kind:     asr.ExArrayRef,
		Type:     scalarOf(u, u.Expr(asg.Target).Type),
		ArrayRef: asr.ArrayRefExpr{Array: targetSym.ID, Indices: indices},
	})
	elemValue := elementAt(u, asg.Value, indices)
	assign := u.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: elemTarget, Value: elemValue}})

	body := []asr.StmtID{assign}
	var outer asr.StmtID = asr.NoStmtID
	for k := n - 1; k >= 0; k-- {
		lb := u.NewExpr(asr.Expr{Kind: asr.ExArrayBound, Type: intType, ArrayBound: asr.ArrayBoundExpr{
			Kind: asr.ArrayLBound, Array: asg.Target, Dim: intLit(u, int64(k+1)),
		}})
		ub := u.NewExpr(asr.Expr{Kind: asr.ExArrayBound, Type: intType, ArrayBound: asr.ArrayBoundExpr{
			Kind: asr.ArrayUBound, Array: asg.Target, Dim: intLit(u, int64(k+1)),
		}})
		loop := u.NewStmt(asr.Stmt{Kind: asr.StDoLoop, DoLoop: asr.DoLoopStmt{
			Var: indexVars[k], Start: lb, End: ub, Step: asr.NoExprID, Body: body,
		}})
		body = []asr.StmtID{loop}
		outer = loop
	}
	return outer, nil
}

func freshLoopVarName(scope *asr.SymbolTable, k int) string {
	base := "i_" + itoa(k+1)
	name := base
	for suffix := 1; ; suffix++ {
		if _, exists := scope.Lookup(name); !exists {
			return name
		}
		name = base + "_" + itoa(suffix)
	}
}

func targetArraySymbol(u *asr.TranslationUnit, target asr.ExprID) *asr.Symbol {
	e := u.Expr(target)
	switch e.Kind {
	case asr.ExVar:
		return u.Symbol(e.Var.Symbol)
	case asr.ExArrayRef:
		return u.Symbol(e.ArrayRef.Array)
	default:
		return nil
	}
}

func scalarOf(u *asr.TranslationUnit, id asr.TypeID) asr.TypeID {
	t := *u.Type(id)
	t.Dims = nil
	return u.NewType(t)
}

func intLit(u *asr.TranslationUnit, v int64) asr.ExprID {
	return u.NewExpr(asr.Expr{
		Kind:     asr.ExConstantInteger,
		Type:     u.NewType(asr.Type{Kind: asr.TyInteger, Width: 4}),
		ConstInt: asr.ConstantIntegerExpr{Value: v},
	})
}

// elementAt replaces every array-valued operand of e with its element
// reference at indices, preserving scalar operands (§4.3.1).
func elementAt(u *asr.TranslationUnit, id asr.ExprID, indices []asr.ExprID) asr.ExprID {
	e := u.Expr(id)
	if !u.Type(e.Type).IsArray() {
		return id
	}
	switch e.Kind {
	case asr.ExVar:
		return u.NewExpr(asr.Expr{
			Kind:     asr.ExArrayRef,
			Type:     scalarOf(u, e.Type),
			ArrayRef: asr.ArrayRefExpr{Array: e.Var.Symbol, Indices: indices},
		})
	case asr.ExBinOp:
		l := elementAt(u, e.BinOp.Left, indices)
		r := elementAt(u, e.BinOp.Right, indices)
		return u.NewExpr(asr.Expr{Kind: asr.ExBinOp, Type: scalarOf(u, e.Type), BinOp: asr.BinOpExpr{Op: e.BinOp.Op, Left: l, Right: r}})
	case asr.ExUnaryOp:
		o := elementAt(u, e.UnaryOp.Operand, indices)
		return u.NewExpr(asr.Expr{Kind: asr.ExUnaryOp, Type: scalarOf(u, e.Type), UnaryOp: asr.UnaryOpExpr{Op: e.UnaryOp.Op, Operand: o}})
	case asr.ExArrayRef:
		return id
	default:
		return id
	}
}

// RankMismatchError reports mismatched operand ranks in an array
// expression (§4.3.1).
type RankMismatchError struct{}

func (*RankMismatchError) Error() string { return "array-op pass: operand ranks do not match" }
