package interp

import "fortasr/internal/asr"

// Interp evaluates Program and Function/Subroutine bodies against a
// single TranslationUnit's global symbol table.
type Interp struct {
	unit *asr.TranslationUnit
}

// New returns an evaluator bound to unit, which must already be lowered
// and have run through the standard pass order (in particular, do-loop
// lowering — the evaluator has no StDoLoop case, only the StWhileLoop
// it's rewritten into).
func New(unit *asr.TranslationUnit) *Interp { return &Interp{unit: unit} }

func (ip *Interp) resolve(name string, want asr.SymbolKind) (*asr.Symbol, error) {
	sym, ok := ip.unit.Global.Resolve(name)
	if !ok {
		return nil, &Error{Reason: "no such symbol: " + name}
	}
	if sym.Kind == asr.SymExternalSymbol {
		if sym.External.External == nil {
			return nil, &Error{Reason: "unresolved external symbol " + name}
		}
		sym = sym.External.External
	}
	if sym.Kind != want {
		return nil, &Error{Reason: name + " is not a " + want.String()}
	}
	return sym, nil
}

// RunProgram executes the named Program's body to completion.
func (ip *Interp) RunProgram(name string) error {
	sym, err := ip.resolve(name, asr.SymProgram)
	if err != nil {
		return err
	}
	_, err = ip.execBlock(sym.Program.Body, newEnv())
	return err
}

// CallFunction evaluates fn(args...) and returns its result value, read
// from the function's designated return variable after its body runs.
func (ip *Interp) CallFunction(name string, args []Value) (Value, error) {
	sym, err := ip.resolve(name, asr.SymFunction)
	if err != nil {
		return Value{}, err
	}
	return ip.callFunction(sym, args)
}

func (ip *Interp) callFunction(sym *asr.Symbol, args []Value) (Value, error) {
	e := newEnv()
	if err := bindArgs(sym.Proc, args, e); err != nil {
		return Value{}, err
	}
	if _, err := ip.execBlock(sym.Proc.Body, e); err != nil {
		return Value{}, err
	}
	return *e.cell(sym.Proc.ReturnVar), nil
}

// CallSubroutine executes sub(args...) and returns the (possibly
// mutated) argument values in declaration order.
func (ip *Interp) CallSubroutine(name string, args []Value) ([]Value, error) {
	sym, err := ip.resolve(name, asr.SymSubroutine)
	if err != nil {
		return nil, err
	}
	e := newEnv()
	if err := bindArgs(sym.Proc, args, e); err != nil {
		return nil, err
	}
	if _, err := ip.execBlock(sym.Proc.Body, e); err != nil {
		return nil, err
	}
	out := make([]Value, len(sym.Proc.Args))
	for i, argID := range sym.Proc.Args {
		out[i] = *e.cell(argID)
	}
	return out, nil
}

func bindArgs(proc asr.ProcSymbol, args []Value, e *env) error {
	if len(args) != len(proc.Args) {
		return &Error{Reason: "argument count mismatch"}
	}
	for i, argID := range proc.Args {
		*e.cell(argID) = args[i]
	}
	return nil
}

// execBlock runs ids in sequence, stopping early (halt==true) on Return.
func (ip *Interp) execBlock(ids []asr.StmtID, e *env) (halt bool, err error) {
	for _, id := range ids {
		halt, err = ip.execStmt(ip.unit.Stmt(id), e)
		if err != nil || halt {
			return halt, err
		}
	}
	return false, nil
}

func (ip *Interp) execStmt(s *asr.Stmt, e *env) (bool, error) {
	switch s.Kind {
	case asr.StAssignment:
		v, err := ip.eval(s.Assignment.Value, e)
		if err != nil {
			return false, err
		}
		target, err := ip.lvalue(s.Assignment.Target, e)
		if err != nil {
			return false, err
		}
		*target = v
		return false, nil

	case asr.StIf:
		cond, err := ip.eval(s.If.Cond, e)
		if err != nil {
			return false, err
		}
		if cond.Logical {
			return ip.execBlock(s.If.Then, e)
		}
		return ip.execBlock(s.If.Else, e)

	case asr.StWhileLoop:
		for {
			cond, err := ip.eval(s.WhileLoop.Cond, e)
			if err != nil {
				return false, err
			}
			if !cond.Logical {
				return false, nil
			}
			halt, err := ip.execBlock(s.WhileLoop.Body, e)
			if err != nil || halt {
				return halt, err
			}
		}

	case asr.StSubroutineCall:
		return false, ip.execCall(s.Call, e)

	case asr.StReturn:
		return true, nil

	default:
		return false, unsupported(s.Kind.String())
	}
}

func (ip *Interp) execCall(c asr.SubroutineCallStmt, e *env) error {
	callee := ip.unit.Symbol(c.Callee)
	if callee.Kind == asr.SymExternalSymbol {
		if callee.External.External == nil {
			return &Error{Reason: "unresolved external symbol " + callee.Name}
		}
		callee = callee.External.External
	}
	if callee.Kind != asr.SymSubroutine {
		return &Error{Reason: callee.Name + " is not callable as a subroutine"}
	}
	if len(c.Args) != len(callee.Proc.Args) {
		return &Error{Reason: "argument count mismatch calling " + callee.Name}
	}
	ce := newEnv()
	for i, argExprID := range c.Args {
		paramID := callee.Proc.Args[i]
		if cell, ok := ip.aliasCell(argExprID, e); ok {
			ce.vars[paramID] = cell
			continue
		}
		v, err := ip.eval(argExprID, e)
		if err != nil {
			return err
		}
		*ce.cell(paramID) = v
	}
	_, err := ip.execBlock(callee.Proc.Body, ce)
	return err
}

// aliasCell returns the caller's storage cell for id when it is a bare
// variable reference, realizing pass-by-reference for out/inout
// arguments. Any other expression (a literal, an arithmetic expression)
// is passed by value instead.
func (ip *Interp) aliasCell(id asr.ExprID, e *env) (*Value, bool) {
	expr := ip.unit.Expr(id)
	if expr.Kind != asr.ExVar {
		return nil, false
	}
	return e.cell(expr.Var.Symbol), true
}

func (ip *Interp) lvalue(id asr.ExprID, e *env) (*Value, error) {
	expr := ip.unit.Expr(id)
	if expr.Kind != asr.ExVar {
		return nil, unsupported("assignment target " + expr.Kind.String())
	}
	return e.cell(expr.Var.Symbol), nil
}
