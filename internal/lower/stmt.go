package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

func (l *lowerer) lowerStmts(ids []ast.StmtID, scope *asr.SymbolTable) ([]asr.StmtID, error) {
	out := make([]asr.StmtID, 0, len(ids))
	for _, id := range ids {
		s, err := l.lowerStmt(id, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (l *lowerer) lowerStmt(id ast.StmtID, scope *asr.SymbolTable) (asr.StmtID, error) {
	s := l.b.Stmt(id)
	switch s.Kind {
	case ast.StmtAssignment:
		target, err := l.lowerExpr(s.Assignment.Target, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		value, err := l.lowerExpr(s.Assignment.Value, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		targetType := l.unit.Expr(target).Type
		valueType := l.unit.Expr(value).Type
		if targetType != valueType {
			tk, vk := l.unit.Type(targetType).Kind, l.unit.Type(valueType).Kind
			if !l.unit.Type(targetType).IsNumeric() || !l.unit.Type(valueType).IsNumeric() {
				if tk != vk {
					return asr.NoStmtID, errf(s.Span, "cannot assign across incompatible type categories")
				}
			} else {
				value = l.wrapCast(value, targetType, explicitCastKind(vk, tk))
			}
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StAssignment, Assignment: asr.AssignmentStmt{Target: target, Value: value}}), nil

	case ast.StmtIf:
		cond, err := l.lowerExpr(s.If.Cond, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		then, err := l.lowerStmts(s.If.Then, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		els, err := l.lowerStmts(s.If.Else, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StIf, If: asr.IfStmt{Cond: cond, Then: then, Else: els}}), nil

	case ast.StmtWhileLoop:
		cond, err := l.lowerExpr(s.WhileLoop.Cond, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		body, err := l.lowerStmts(s.WhileLoop.Body, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StWhileLoop, WhileLoop: asr.WhileLoopStmt{Cond: cond, Body: body}}), nil

	case ast.StmtDoLoop:
		return l.lowerDoLoop(s, scope)

	case ast.StmtDoConcurrentLoop:
		return l.lowerDoConcurrent(s, scope)

	case ast.StmtSelect:
		return l.lowerSelect(s, scope)

	case ast.StmtSubroutineCall:
		name := l.name(s.Call.Name)
		sym, ok := scope.Resolve(name)
		if !ok {
			return asr.NoStmtID, errf(s.Span, "%q is not declared", name)
		}
		callee := resolveExternal(sym)
		args, err := l.lowerArgExprs(s.Call.Args, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StSubroutineCall, Call: asr.SubroutineCallStmt{Callee: callee.ID, Args: args}}), nil

	case ast.StmtPrint:
		format := asr.NoExprID
		var err error
		if s.Print.Format != ast.NoExprID {
			if format, err = l.lowerExpr(s.Print.Format, scope); err != nil {
				return asr.NoStmtID, err
			}
		}
		argList := make([]asr.ExprID, len(s.Print.Args))
		for i, a := range s.Print.Args {
			if argList[i], err = l.lowerExpr(a, scope); err != nil {
				return asr.NoStmtID, err
			}
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StPrint, Print: asr.PrintStmt{Format: format, Args: argList}}), nil

	case ast.StmtReturn:
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StReturn}), nil

	case ast.StmtStop, ast.StmtErrorStop:
		code := asr.NoExprID
		var err error
		if s.Stop.Code != ast.NoExprID {
			if code, err = l.lowerExpr(s.Stop.Code, scope); err != nil {
				return asr.NoStmtID, err
			}
		}
		kind := asr.StStop
		if s.Kind == ast.StmtErrorStop {
			kind = asr.StErrorStop
		}
		return l.unit.NewStmt(asr.Stmt{Kind: kind, Stop: asr.StopStmt{Code: code}}), nil

	case ast.StmtExit:
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StExit, Label: s.Label, Exit: asr.LoopCtrlStmt{Label: s.Label}}), nil

	case ast.StmtCycle:
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StCycle, Label: s.Label, Cycle: asr.LoopCtrlStmt{Label: s.Label}}), nil

	case ast.StmtGoTo:
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StGoTo, GoTo: asr.GoToStmt{Target: s.GoTo.Target}}), nil

	case ast.StmtGoToTarget:
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StGoToTarget, Label: s.Label}), nil

	case ast.StmtAssert:
		cond, err := l.lowerExpr(s.Assert.Cond, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		msg := asr.NoExprID
		if s.Assert.Msg != ast.NoExprID {
			if msg, err = l.lowerExpr(s.Assert.Msg, scope); err != nil {
				return asr.NoStmtID, err
			}
		}
		return l.unit.NewStmt(asr.Stmt{Kind: asr.StAssert, Assert: asr.AssertStmt{Cond: cond, Msg: msg}}), nil

	case ast.StmtAllocate, ast.StmtDeallocate:
		targets, err := l.lowerExprList(s.Alloc.Targets, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		kind := asr.StAllocate
		if s.Kind == ast.StmtDeallocate {
			kind = asr.StDeallocate
		}
		return l.unit.NewStmt(asr.Stmt{Kind: kind, Alloc: asr.AllocStmt{Targets: targets}}), nil

	default:
		return asr.NoStmtID, errf(s.Span, "internal: unhandled AST statement kind %d", s.Kind)
	}
}

func (l *lowerer) lowerExprList(ids []ast.ExprID, scope *asr.SymbolTable) ([]asr.ExprID, error) {
	out := make([]asr.ExprID, len(ids))
	for i, id := range ids {
		ex, err := l.lowerExpr(id, scope)
		if err != nil {
			return nil, err
		}
		out[i] = ex
	}
	return out, nil
}

func (l *lowerer) lowerDoLoop(s *ast.Stmt, scope *asr.SymbolTable) (asr.StmtID, error) {
	loopScope := asr.NewSymbolTable(scope, asr.NoSymbolID)
	start, err := l.lowerExpr(s.DoLoop.Start, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	end, err := l.lowerExpr(s.DoLoop.End, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	step := asr.NoExprID
	if s.DoLoop.Step != ast.NoExprID {
		if step, err = l.lowerExpr(s.DoLoop.Step, scope); err != nil {
			return asr.NoStmtID, err
		}
	}
	name := l.name(s.DoLoop.Var)
	varSym, ok := scope.Lookup(name)
	if !ok {
		v := asr.NewVariable(asr.NoSymbolID, name, loopScope, asr.IntentLocal, asr.StorageDefault, l.intType())
		id := l.unit.NewSymbol(*v)
		loopScope.Define(name, l.unit.Symbol(id))
		varSym = l.unit.Symbol(id)
	}
	body, err := l.lowerStmts(s.DoLoop.Body, loopScope)
	if err != nil {
		return asr.NoStmtID, err
	}
	return l.unit.NewStmt(asr.Stmt{Kind: asr.StDoLoop, DoLoop: asr.DoLoopStmt{
		Var: varSym.ID, Start: start, End: end, Step: step, Body: body,
	}}), nil
}

func (l *lowerer) lowerDoConcurrent(s *ast.Stmt, scope *asr.SymbolTable) (asr.StmtID, error) {
	loopScope := asr.NewSymbolTable(scope, asr.NoSymbolID)
	start, err := l.lowerExpr(s.DoConc.Start, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	end, err := l.lowerExpr(s.DoConc.End, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	name := l.name(s.DoConc.Var)
	v := asr.NewVariable(asr.NoSymbolID, name, loopScope, asr.IntentLocal, asr.StorageDefault, l.intType())
	id := l.unit.NewSymbol(*v)
	loopScope.Define(name, l.unit.Symbol(id))
	body, err := l.lowerStmts(s.DoConc.Body, loopScope)
	if err != nil {
		return asr.NoStmtID, err
	}
	return l.unit.NewStmt(asr.Stmt{Kind: asr.StDoConcurrentLoop, DoConc: asr.DoConcurrentLoopStmt{
		Var: id, Start: start, End: end, Body: body,
	}}), nil
}

func (l *lowerer) lowerSelect(s *ast.Stmt, scope *asr.SymbolTable) (asr.StmtID, error) {
	test, err := l.lowerExpr(s.Select.Test, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	arms := make([]asr.CaseArm, len(s.Select.Arms))
	for i, arm := range s.Select.Arms {
		pats := make([]asr.CasePattern, len(arm.Patterns))
		for j, p := range arm.Patterns {
			pat := asr.CasePattern{Kind: asr.CasePatternKind(p.Kind)}
			if p.Value != ast.NoExprID {
				if pat.Value, err = l.lowerExpr(p.Value, scope); err != nil {
					return asr.NoStmtID, err
				}
			}
			if p.Low != ast.NoExprID {
				if pat.Low, err = l.lowerExpr(p.Low, scope); err != nil {
					return asr.NoStmtID, err
				}
			}
			if p.High != ast.NoExprID {
				if pat.High, err = l.lowerExpr(p.High, scope); err != nil {
					return asr.NoStmtID, err
				}
			}
			pats[j] = pat
		}
		body, err := l.lowerStmts(arm.Body, scope)
		if err != nil {
			return asr.NoStmtID, err
		}
		arms[i] = asr.CaseArm{Patterns: pats, Body: body}
	}
	def, err := l.lowerStmts(s.Select.Default, scope)
	if err != nil {
		return asr.NoStmtID, err
	}
	return l.unit.NewStmt(asr.Stmt{Kind: asr.StSelect, Select: asr.SelectStmt{Test: test, Arms: arms, Default: def}}), nil
}
