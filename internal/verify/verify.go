// Package verify implements the §4.4 verifier: a single walk over a
// TranslationUnit that checks every §3.2 invariant. Verification failures
// never resume — the caller treats a non-nil error as a compiler bug,
// never a user bug (§7).
package verify

import (
	"errors"
	"fmt"

	"fortasr/internal/asr"
)

// Error wraps one failed invariant check with the invariant's number for
// diagnosis.
type Error struct {
	Invariant string
	Reason    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ASR verify failed [%s]: %s", e.Invariant, e.Reason)
}

func fail(invariant, format string, args ...any) error {
	return &Error{Invariant: invariant, Reason: fmt.Sprintf(format, args...)}
}

// Unit verifies every invariant in §3.2 against u, returning an
// errors.Join of every violation found (nil if u is valid).
func Unit(u *asr.TranslationUnit) error {
	var errs []error
	errs = append(errs, checkSymtabParentage(u))
	errs = append(errs, checkVariableParents(u))
	errs = append(errs, checkExternalOneHop(u))
	errs = append(errs, checkVarResolution(u))
	errs = append(errs, checkArgumentIntents(u))
	errs = append(errs, checkFunctionReturnVar(u))
	errs = append(errs, checkOperandCasts(u))
	errs = append(errs, checkGenericProcs(u))
	return errors.Join(errs...)
}

// checkSymtabParentage is invariant 1: the global table's parent is null;
// every other table's parent chain eventually reaches it.
func checkSymtabParentage(u *asr.TranslationUnit) error {
	var errs []error
	if !u.Global.IsGlobal() {
		errs = append(errs, fail("I1", "global symbol table has a non-null parent"))
	}
	u.WalkSymbolTables(func(tab *asr.SymbolTable) {
		if tab == u.Global {
			return
		}
		seen := map[*asr.SymbolTable]bool{}
		for t := tab; t != nil; t = t.Parent {
			if seen[t] {
				errs = append(errs, fail("I1", "symbol table %d has a parent cycle", tab.ID))
				return
			}
			seen[t] = true
			if t == u.Global {
				return
			}
		}
		errs = append(errs, fail("I1", "symbol table %d never reaches the global table", tab.ID))
	})
	return errors.Join(errs...)
}

// checkVariableParents is invariant 2: every Variable's parent-symtab
// pointer points to the table that actually contains it under its own
// name.
func checkVariableParents(u *asr.TranslationUnit) error {
	var errs []error
	u.WalkSymbolTables(func(tab *asr.SymbolTable) {
		tab.Each(func(name string, sym *asr.Symbol) {
			if sym.Kind != asr.SymVariable {
				return
			}
			if sym.Variable.Parent != tab {
				errs = append(errs, fail("I2", "variable %q's parent-symtab does not contain it", name))
			}
		})
	})
	return errors.Join(errs...)
}

// checkExternalOneHop is invariant 3: a resolved ExternalSymbol::external
// must not itself be an ExternalSymbol.
func checkExternalOneHop(u *asr.TranslationUnit) error {
	var errs []error
	u.AllSymbols(func(_ asr.SymbolID, sym *asr.Symbol) bool {
		if sym.Kind == asr.SymExternalSymbol && sym.External.External != nil {
			if sym.External.External.Kind == asr.SymExternalSymbol {
				errs = append(errs, fail("I3", "external symbol %q resolves through more than one hop", sym.Name))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// checkVarResolution is invariant 4: Var expressions reference a Variable
// (possibly through one ExternalSymbol hop).
func checkVarResolution(u *asr.TranslationUnit) error {
	var errs []error
	forEachExpr(u, func(e *asr.Expr) {
		if e.Kind != asr.ExVar {
			return
		}
		target := u.Symbol(e.Var.Symbol)
		if target.Kind == asr.SymExternalSymbol {
			target = target.External.External
		}
		if target == nil || target.Kind != asr.SymVariable {
			errs = append(errs, fail("I4", "Var expression does not resolve to a Variable"))
		}
	})
	return errors.Join(errs...)
}

// checkArgumentIntents is invariant 5: every Function/Subroutine argument
// reference resolves, via Var, to a Variable whose intent is one of
// in/out/inout/unspecified.
func checkArgumentIntents(u *asr.TranslationUnit) error {
	var errs []error
	u.AllSymbols(func(_ asr.SymbolID, sym *asr.Symbol) bool {
		if sym.Kind != asr.SymSubroutine && sym.Kind != asr.SymFunction {
			return true
		}
		for _, argID := range sym.Proc.Args {
			arg := u.Symbol(argID)
			if arg.Kind != asr.SymVariable {
				errs = append(errs, fail("I5", "%s %q argument does not resolve to a Variable", sym.Kind, sym.Name))
				continue
			}
			switch arg.Variable.Intent {
			case asr.IntentIn, asr.IntentOut, asr.IntentInOut, asr.IntentUnspecified:
			default:
				errs = append(errs, fail("I5", "%s %q argument %q has invalid intent", sym.Kind, sym.Name, arg.Name))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// checkFunctionReturnVar is invariant 6: a Function's return-variable
// reference resolves to a Variable with intent return-var in the
// function's own table.
func checkFunctionReturnVar(u *asr.TranslationUnit) error {
	var errs []error
	u.AllSymbols(func(_ asr.SymbolID, sym *asr.Symbol) bool {
		if sym.Kind != asr.SymFunction || sym.Proc.IsExternal {
			return true
		}
		ret := u.Symbol(sym.Proc.ReturnVar)
		if ret == nil || ret.Kind != asr.SymVariable {
			errs = append(errs, fail("I6", "function %q's return variable does not resolve to a Variable", sym.Name))
			return true
		}
		if ret.Variable.Intent != asr.IntentReturnVar {
			errs = append(errs, fail("I6", "function %q's return variable has intent %v, want return-var", sym.Name, ret.Variable.Intent))
		}
		if ret.Variable.Parent != sym.Proc.Table {
			errs = append(errs, fail("I6", "function %q's return variable is not in its own table", sym.Name))
		}
		return true
	})
	return errors.Join(errs...)
}

// checkOperandCasts is invariant 7: after AST→ASR, no BinOp/Compare/BoolOp
// has operand types that differ in kind without an explicit ImplicitCast.
func checkOperandCasts(u *asr.TranslationUnit) error {
	var errs []error
	forEachExpr(u, func(e *asr.Expr) {
		var l, r asr.ExprID
		switch e.Kind {
		case asr.ExBinOp:
			l, r = e.BinOp.Left, e.BinOp.Right
		case asr.ExCompare:
			l, r = e.Compare.Left, e.Compare.Right
		case asr.ExBoolOp:
			l, r = e.BoolOp.Left, e.BoolOp.Right
		default:
			return
		}
		lt, rt := u.Type(u.Expr(l).Type), u.Type(u.Expr(r).Type)
		if lt.Kind != rt.Kind && u.Expr(l).Kind != asr.ExImplicitCast && u.Expr(r).Kind != asr.ExImplicitCast {
			errs = append(errs, fail("I7", "%s has mismatched operand kinds %v/%v with no ImplicitCast", e.Kind, lt.Kind, rt.Kind))
		}
	})
	return errors.Join(errs...)
}

// checkGenericProcs is invariant 8: GenericProcedure::procs contains only
// procedure symbols (or ExternalSymbols pointing to procedure symbols).
func checkGenericProcs(u *asr.TranslationUnit) error {
	var errs []error
	u.AllSymbols(func(_ asr.SymbolID, sym *asr.Symbol) bool {
		if sym.Kind != asr.SymGenericProcedure {
			return true
		}
		for _, candID := range sym.Generic.Procs {
			cand := u.Symbol(candID)
			if cand.Kind == asr.SymExternalSymbol {
				cand = cand.External.External
			}
			if cand == nil || (cand.Kind != asr.SymSubroutine && cand.Kind != asr.SymFunction) {
				errs = append(errs, fail("I8", "generic %q has a non-procedure candidate", sym.Name))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// forEachExpr visits every currently-allocated expression node in
// allocation order. The verifier intentionally makes a single traversal
// over the expression arena rather than re-walking statement bodies per
// check (see design note in §9 about avoiding redundant traversals).
func forEachExpr(u *asr.TranslationUnit, fn func(*asr.Expr)) {
	u.AllExprs(func(_ asr.ExprID, e *asr.Expr) bool {
		fn(e)
		return true
	})
}
