package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

type intrinsicID uint8

const (
	intrinsicSize intrinsicID = iota
	intrinsicPresent
	intrinsicSin
	intrinsicLbound
	intrinsicUbound
)

// intrinsicNames lists the intrinsics auto-injected at lowering time
// rather than declared by any `use` statement.
var intrinsicNames = map[string]intrinsicID{
	"size":    intrinsicSize,
	"present": intrinsicPresent,
	"sin":     intrinsicSin,
	"lbound":  intrinsicLbound,
	"ubound":  intrinsicUbound,
}

func (l *lowerer) lowerIntrinsic(e *ast.Expr, id intrinsicID, scope *asr.SymbolTable) (asr.ExprID, error) {
	args := e.Call.Args
	switch id {
	case intrinsicSize:
		if len(args) < 1 || len(args) > 2 {
			return asr.NoExprID, errf(e.Span, "size() expects one or two arguments")
		}
		arr, err := l.lowerExpr(args[0].Value, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		dim := asr.NoExprID
		if len(args) == 2 {
			if dim, err = l.lowerExpr(args[1].Value, scope); err != nil {
				return asr.NoExprID, err
			}
		}
		return l.unit.NewExpr(asr.Expr{
			Kind:      asr.ExArraySize,
			Type:      l.intType(),
			ArraySize: asr.ArraySizeExpr{Array: arr, Dim: dim},
		}), nil

	case intrinsicLbound, intrinsicUbound:
		if len(args) < 1 || len(args) > 2 {
			return asr.NoExprID, errf(e.Span, "bound intrinsic expects one or two arguments")
		}
		arr, err := l.lowerExpr(args[0].Value, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		dim := asr.NoExprID
		if len(args) == 2 {
			if dim, err = l.lowerExpr(args[1].Value, scope); err != nil {
				return asr.NoExprID, err
			}
		}
		bk := asr.ArrayLBound
		if id == intrinsicUbound {
			bk = asr.ArrayUBound
		}
		return l.unit.NewExpr(asr.Expr{
			Kind:       asr.ExArrayBound,
			Type:       l.intType(),
			ArrayBound: asr.ArrayBoundExpr{Kind: bk, Array: arr, Dim: dim},
		}), nil

	case intrinsicPresent:
		if len(args) != 1 {
			return asr.NoExprID, errf(e.Span, "present() expects exactly one argument")
		}
		arg, err := l.lowerExpr(args[0].Value, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		// present() reports whether an optional argument was supplied;
		// modeled as a logical-typed call against a synthetic callee-less
		// comparison node, since the real answer depends on the runtime
		// call frame (an external-interface concern, §6.2).
		return l.unit.NewExpr(asr.Expr{
			Kind:    asr.ExCompare,
			Type:    l.logicalType(),
			Compare: asr.CompareExpr{Op: asr.CmpNotEq, Left: arg, Right: arg},
		}), nil

	case intrinsicSin:
		if len(args) != 1 {
			return asr.NoExprID, errf(e.Span, "sin() expects exactly one argument")
		}
		arg, err := l.lowerExpr(args[0].Value, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		sym, ok := l.unit.Global.Resolve("sin")
		if !ok {
			sym = l.defineIntrinsicFunc("sin", l.realType())
		}
		return l.unit.NewExpr(asr.Expr{
			Kind: asr.ExFunctionCall,
			Type: l.realType(),
			Call: asr.FunctionCallExpr{Callee: sym.ID, Args: []asr.ExprID{arg}},
		}), nil
	}
	return asr.NoExprID, errf(e.Span, "internal: unhandled intrinsic")
}

// defineIntrinsicFunc lazily registers a builtin function shell (no body,
// IsExternal) in the global table the first time it is called.
func (l *lowerer) defineIntrinsicFunc(name string, resultType asr.TypeID) *asr.Symbol {
	table := asr.NewSymbolTable(l.unit.Global, asr.NoSymbolID)
	argVar := asr.NewVariable(asr.NoSymbolID, "x", table, asr.IntentIn, asr.StorageDefault, resultType)
	argID := l.unit.NewSymbol(*argVar)
	table.Define("x", l.unit.Symbol(argID))
	sym := &asr.Symbol{
		Kind: asr.SymFunction,
		Name: name,
		Proc: asr.ProcSymbol{
			Table:      table,
			Args:       []asr.SymbolID{argID},
			ResultType: resultType,
			IsExternal: true,
		},
	}
	id := l.unit.NewSymbol(*sym)
	l.unit.Global.Define(name, l.unit.Symbol(id))
	return l.unit.Symbol(id)
}
