package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

// lowerCall disambiguates "Name(Args...)" into an ArrayRef, a
// FunctionCall, an intrinsic node, or an ExplicitCast — the AST can't tell
// these apart without symbol resolution (see internal/ast's ExprCall doc).
func (l *lowerer) lowerCall(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	name := l.name(e.Call.Name)

	if kind, ok := baseTypeKind(name); ok {
		return l.lowerExplicitCast(e, kind, scope)
	}
	if id, ok := intrinsicNames[name]; ok {
		return l.lowerIntrinsic(e, id, scope)
	}

	sym, found := scope.Resolve(name)
	if !found {
		return asr.NoExprID, errf(e.Span, "%q is not declared", name)
	}
	target := resolveExternal(sym)

	if target.Kind == asr.SymVariable {
		return l.lowerArrayRef(e, target, scope)
	}

	callee := target
	if target.Kind == asr.SymGenericProcedure {
		args, err := l.lowerArgExprs(e.Call.Args, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		picked, err := l.dispatchGeneric(e, target, args)
		if err != nil {
			return asr.NoExprID, err
		}
		return l.unit.NewExpr(asr.Expr{
			Kind: asr.ExFunctionCall,
			Type: l.unit.Symbol(picked).Proc.ResultType,
			Call: asr.FunctionCallExpr{Callee: picked, Args: args},
		}), nil
	}

	if callee.Kind != asr.SymFunction {
		return asr.NoExprID, errf(e.Span, "%q is not callable in an expression", name)
	}
	args, err := l.lowerArgExprs(e.Call.Args, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	return l.unit.NewExpr(asr.Expr{
		Kind: asr.ExFunctionCall,
		Type: callee.Proc.ResultType,
		Call: asr.FunctionCallExpr{Callee: callee.ID, Args: args},
	}), nil
}

func (l *lowerer) lowerArgExprs(args []ast.CallArg, scope *asr.SymbolTable) ([]asr.ExprID, error) {
	out := make([]asr.ExprID, len(args))
	for i, a := range args {
		ex, err := l.lowerExpr(a.Value, scope)
		if err != nil {
			return nil, err
		}
		out[i] = ex
	}
	return out, nil
}

func (l *lowerer) lowerArrayRef(e *ast.Expr, variable *asr.Symbol, scope *asr.SymbolTable) (asr.ExprID, error) {
	indices, err := l.lowerArgExprs(e.Call.Args, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	elemType := variable.Variable.Type
	if full := *l.unit.Type(elemType); full.IsArray() && len(indices) == full.NumDims() {
		full.Dims = nil
		elemType = l.unit.NewType(full)
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:     asr.ExArrayRef,
		Type:     elemType,
		ArrayRef: asr.ArrayRefExpr{Array: variable.ID, Indices: indices},
	}), nil
}

func (l *lowerer) lowerExplicitCast(e *ast.Expr, target asr.TypeKind, scope *asr.SymbolTable) (asr.ExprID, error) {
	if len(e.Call.Args) != 1 {
		return asr.NoExprID, errf(e.Span, "cast expects exactly one argument")
	}
	operand, err := l.lowerExpr(e.Call.Args[0].Value, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	from := l.unit.Type(l.unit.Expr(operand).Type).Kind
	typ := l.unit.NewType(asr.Type{Kind: target, Width: defaultWidth(target)})
	return l.unit.NewExpr(asr.Expr{
		Kind:         asr.ExExplicitCast,
		Type:         typ,
		ExplicitCast: asr.CastExpr{Operand: operand, Kind: explicitCastKind(from, target)},
	}), nil
}

func explicitCastKind(from, to asr.TypeKind) asr.CastKind {
	switch {
	case from == asr.TyInteger && to == asr.TyReal:
		return asr.CastIntegerToReal
	case from == asr.TyReal && to == asr.TyInteger:
		return asr.CastRealToInteger
	case from == asr.TyReal && to == asr.TyComplex:
		return asr.CastRealToComplex
	case from == asr.TyInteger && to == asr.TyComplex:
		return asr.CastIntegerToComplex
	case from == asr.TyLogical && to == asr.TyInteger:
		return asr.CastLogicalToInteger
	case from == asr.TyInteger && to == asr.TyLogical:
		return asr.CastIntegerToLogical
	case from == to && from == asr.TyReal:
		return asr.CastRealToReal
	case from == to && from == asr.TyInteger:
		return asr.CastIntegerToInteger
	default:
		return asr.CastNone
	}
}

// dispatchGeneric enumerates a generic's candidate procedures and picks
// the first whose formal argument categories match args' types in order
// and arity (§4.2). No match is a semantic error.
func (l *lowerer) dispatchGeneric(e *ast.Expr, generic *asr.Symbol, args []asr.ExprID) (asr.SymbolID, error) {
	for _, candID := range generic.Generic.Procs {
		cand := resolveExternal(l.unit.Symbol(candID))
		if len(cand.Proc.Args) != len(args) {
			continue
		}
		match := true
		for i, formalID := range cand.Proc.Args {
			formal := l.unit.Symbol(formalID)
			if l.unit.Type(formal.Variable.Type).Kind != l.unit.Type(l.unit.Expr(args[i]).Type).Kind {
				match = false
				break
			}
		}
		if match {
			return cand.ID, nil
		}
	}
	return asr.NoSymbolID, errf(e.Span, "arguments do not match any candidate of generic %q", l.name(e.Call.Name))
}
