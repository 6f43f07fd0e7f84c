package pass

import "fortasr/internal/asr"

// UnusedFunctionElimination implements §4.3.5: a procedure symbol is live
// iff it is reachable from a Program root through call sites (including a
// generic's already-dispatched FunctionCall targets, which by this point
// in the pipeline point directly at a concrete Subroutine/Function), or
// carries a BIND(C) ABI name, or is explicitly marked exported — both of
// which are always roots regardless of reachability. Unreachable
// procedures, and the ExternalSymbol wrappers that name them, are removed
// from every symbol table that owns them.
type UnusedFunctionElimination struct{}

func (UnusedFunctionElimination) Name() string { return "unused-function-elimination" }

func (p *UnusedFunctionElimination) Run(u *asr.TranslationUnit) error {
	live := make(map[asr.SymbolID]bool)

	var markCalls func(body []asr.StmtID)
	var visit func(id asr.SymbolID)
	visit = func(id asr.SymbolID) {
		if id == asr.NoSymbolID || live[id] {
			return
		}
		sym := u.Symbol(id)
		if sym == nil {
			return
		}
		live[id] = true
		switch sym.Kind {
		case asr.SymProgram:
			markCalls(sym.Program.Body)
		case asr.SymSubroutine, asr.SymFunction:
			markCalls(sym.Proc.Body)
		case asr.SymExternalSymbol:
			visit(resolveTarget(sym))
		}
	}

	markExprCalls := func(id asr.ExprID) {
		var walk func(id asr.ExprID)
		walk = func(id asr.ExprID) {
			if id == asr.NoExprID {
				return
			}
			e := u.Expr(id)
			switch e.Kind {
			case asr.ExFunctionCall:
				visit(e.Call.Callee)
				for _, a := range e.Call.Args {
					walk(a)
				}
			case asr.ExBinOp:
				walk(e.BinOp.Left)
				walk(e.BinOp.Right)
			case asr.ExUnaryOp:
				walk(e.UnaryOp.Operand)
			case asr.ExCompare:
				walk(e.Compare.Left)
				walk(e.Compare.Right)
			case asr.ExBoolOp:
				walk(e.BoolOp.Left)
				walk(e.BoolOp.Right)
			case asr.ExImplicitCast:
				walk(e.ImplicitCast.Operand)
			case asr.ExExplicitCast:
				walk(e.ExplicitCast.Operand)
			}
		}
		walk(id)
	}

	var walkBody func(body []asr.StmtID)
	walkBody = func(body []asr.StmtID) {
		for _, id := range body {
			s := u.Stmt(id)
			switch s.Kind {
			case asr.StAssignment:
				markExprCalls(s.Assignment.Value)
			case asr.StIf:
				markExprCalls(s.If.Cond)
				walkBody(s.If.Then)
				walkBody(s.If.Else)
			case asr.StWhileLoop:
				markExprCalls(s.WhileLoop.Cond)
				walkBody(s.WhileLoop.Body)
			case asr.StDoLoop:
				walkBody(s.DoLoop.Body)
			case asr.StDoConcurrentLoop:
				walkBody(s.DoConc.Body)
			case asr.StSelect:
				for _, arm := range s.Select.Arms {
					walkBody(arm.Body)
				}
				walkBody(s.Select.Default)
			case asr.StSubroutineCall:
				visit(s.Call.Callee)
				for _, a := range s.Call.Args {
					markExprCalls(a)
				}
			case asr.StPrint:
				for _, a := range s.Print.Args {
					markExprCalls(a)
				}
			case asr.StAssert:
				markExprCalls(s.Assert.Cond)
			}
		}
	}
	markCalls = walkBody

	// Roots: every Program, plus every BIND(C) or explicitly exported
	// procedure anywhere in the unit.
	u.AllSymbols(func(id asr.SymbolID, sym *asr.Symbol) bool {
		switch sym.Kind {
		case asr.SymProgram:
			visit(id)
		case asr.SymSubroutine, asr.SymFunction:
			if sym.Proc.BindName != "" || sym.Proc.IsExported {
				visit(id)
			}
		}
		return true
	})

	u.WalkSymbolTables(func(tab *asr.SymbolTable) {
		for _, name := range tab.Names() {
			sym, ok := tab.Lookup(name)
			if !ok {
				continue
			}
			switch sym.Kind {
			case asr.SymSubroutine, asr.SymFunction, asr.SymExternalSymbol:
				if !live[sym.ID] && !calleeStillLive(u, sym, live) {
					tab.Remove(name)
				}
			}
		}
	})
	return nil
}

// calleeStillLive reports whether an ExternalSymbol wrapper should be
// kept because the module procedure it names is itself live.
func calleeStillLive(u *asr.TranslationUnit, sym *asr.Symbol, live map[asr.SymbolID]bool) bool {
	if sym.Kind != asr.SymExternalSymbol {
		return false
	}
	target := resolveTarget(sym)
	return target != asr.NoSymbolID && live[target]
}

func resolveTarget(sym *asr.Symbol) asr.SymbolID {
	if sym.External.External == nil {
		return asr.NoSymbolID
	}
	return sym.External.External.ID
}
