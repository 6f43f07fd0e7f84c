package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

func (l *lowerer) lowerExpr(id ast.ExprID, scope *asr.SymbolTable) (asr.ExprID, error) {
	e := l.b.Expr(id)
	switch e.Kind {
	case ast.ExprIntLit:
		return l.unit.NewExpr(asr.Expr{
			Kind:     asr.ExConstantInteger,
			Type:     l.intType(),
			ConstInt: asr.ConstantIntegerExpr{Value: e.IntLit.Value},
		}), nil
	case ast.ExprRealLit:
		return l.unit.NewExpr(asr.Expr{
			Kind:      asr.ExConstantReal,
			Type:      l.realType(),
			ConstReal: asr.ConstantRealExpr{Value: e.RealLit.Value},
		}), nil
	case ast.ExprLogicalLit:
		return l.unit.NewExpr(asr.Expr{
			Kind:         asr.ExConstantLogical,
			Type:         l.logicalType(),
			ConstLogical: asr.ConstantLogicalExpr{Value: e.LogicalLit.Value},
		}), nil
	case ast.ExprComplexLit:
		re, err := l.lowerExpr(e.ComplexLit.Real, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		im, err := l.lowerExpr(e.ComplexLit.Imag, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		return l.unit.NewExpr(asr.Expr{
			Kind: asr.ExConstantComplex,
			Type: l.complexType(),
			ConstComplex: asr.ConstantComplexExpr{
				Real: constFloat(l.unit.Expr(re)),
				Imag: constFloat(l.unit.Expr(im)),
			},
		}), nil
	case ast.ExprStrLit:
		return l.unit.NewExpr(asr.Expr{
			Kind: asr.ExStr,
			Type: l.unit.NewType(asr.Type{Kind: asr.TyCharacter, Width: 1}),
			Str:  asr.StrExpr{Value: l.name(e.StrLit.Value)},
		}), nil
	case ast.ExprIdent:
		return l.lowerIdent(e, scope)
	case ast.ExprBinOp:
		return l.lowerBinOp(e, scope)
	case ast.ExprUnaryOp:
		return l.lowerUnaryOp(e, scope)
	case ast.ExprCompare:
		return l.lowerCompare(e, scope)
	case ast.ExprBoolOp:
		return l.lowerBoolOp(e, scope)
	case ast.ExprCall:
		return l.lowerCall(e, scope)
	case ast.ExprMember:
		return l.lowerMember(e, scope)
	case ast.ExprArrayCtor:
		return l.lowerArrayCtor(e, scope)
	case ast.ExprImpliedDo:
		return l.lowerImpliedDo(e, scope)
	default:
		return asr.NoExprID, errf(e.Span, "internal: unhandled AST expression kind %d", e.Kind)
	}
}

func constFloat(e *asr.Expr) float64 {
	switch e.Kind {
	case asr.ExConstantReal:
		return e.ConstReal.Value
	case asr.ExConstantInteger:
		return float64(e.ConstInt.Value)
	default:
		return 0
	}
}

func (l *lowerer) intType() asr.TypeID     { return l.unit.NewType(asr.Type{Kind: asr.TyInteger, Width: 4}) }
func (l *lowerer) realType() asr.TypeID    { return l.unit.NewType(asr.Type{Kind: asr.TyReal, Width: 4}) }
func (l *lowerer) complexType() asr.TypeID { return l.unit.NewType(asr.Type{Kind: asr.TyComplex, Width: 8}) }
func (l *lowerer) logicalType() asr.TypeID { return l.unit.NewType(asr.Type{Kind: asr.TyLogical, Width: 4}) }

// lowerIdent resolves a bare identifier to a Var expression, following one
// ExternalSymbol hop if necessary (invariant §3.2.4).
func (l *lowerer) lowerIdent(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	name := l.name(e.Ident.Name)
	sym, ok := scope.Resolve(name)
	if !ok {
		return asr.NoExprID, errf(e.Span, "%q is not declared", name)
	}
	target := resolveExternal(sym)
	if target.Kind != asr.SymVariable {
		return asr.NoExprID, errf(e.Span, "%q does not name a variable", name)
	}
	return l.unit.NewExpr(asr.Expr{
		Kind: asr.ExVar,
		Type: target.Variable.Type,
		Var:  asr.VarExpr{Symbol: target.ID},
	}), nil
}

// resolveExternal follows at most one ExternalSymbol hop, per invariant
// §3.2.3: a resolved External must never itself be an ExternalSymbol.
func resolveExternal(sym *asr.Symbol) *asr.Symbol {
	if sym.Kind == asr.SymExternalSymbol && sym.External.External != nil {
		return sym.External.External
	}
	return sym
}

func (l *lowerer) lowerBinOp(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	lhs, err := l.lowerExpr(e.BinOp.Left, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	rhs, err := l.lowerExpr(e.BinOp.Right, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	lt, rt := l.unit.Expr(lhs).Type, l.unit.Expr(rhs).Type
	if l.unit.Type(lt).IsArray() || l.unit.Type(rt).IsArray() {
		// Array arithmetic is legal ASR at this stage; the array-op pass
		// expands it to element-wise loops later (§4.3.1 / invariant §3.2.9).
		return l.unit.NewExpr(asr.Expr{
			Kind:  asr.ExBinOp,
			Type:  pickArrayType(l.unit, lt, rt),
			BinOp: asr.BinOpExpr{Op: astBinOp(e.BinOp.Op), Left: lhs, Right: rhs},
		}), nil
	}
	target, castL, castR, kind, ok := asr.PickCast(l.unit, lt, rt)
	if !ok {
		return asr.NoExprID, errf(e.Span, "incompatible operand types in binary operation")
	}
	if castL {
		lhs = l.wrapCast(lhs, target, kind)
	}
	if castR {
		rhs = l.wrapCast(rhs, target, kind)
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:  asr.ExBinOp,
		Type:  target,
		BinOp: asr.BinOpExpr{Op: astBinOp(e.BinOp.Op), Left: lhs, Right: rhs},
	}), nil
}

func pickArrayType(u *asr.TranslationUnit, a, b asr.TypeID) asr.TypeID {
	at, bt := u.Type(a), u.Type(b)
	if at.NumDims() >= bt.NumDims() {
		return a
	}
	return b
}

func (l *lowerer) wrapCast(operand asr.ExprID, target asr.TypeID, kind asr.CastKind) asr.ExprID {
	return l.unit.NewExpr(asr.Expr{
		Kind:         asr.ExImplicitCast,
		Type:         target,
		ImplicitCast: asr.CastExpr{Operand: operand, Kind: kind},
	})
}

func astBinOp(op ast.BinOp) asr.BinOp {
	switch op {
	case ast.BinAdd:
		return asr.BinAdd
	case ast.BinSub:
		return asr.BinSub
	case ast.BinMul:
		return asr.BinMul
	case ast.BinDiv:
		return asr.BinDiv
	case ast.BinPow:
		return asr.BinPow
	default:
		return asr.BinAdd
	}
}

func (l *lowerer) lowerUnaryOp(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	operand, err := l.lowerExpr(e.UnaryOp.Operand, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	op := asr.UnaryMinus
	switch e.UnaryOp.Op {
	case ast.UnaryPlus:
		op = asr.UnaryPlus
	case ast.UnaryNot:
		op = asr.UnaryNot
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:    asr.ExUnaryOp,
		Type:    l.unit.Expr(operand).Type,
		UnaryOp: asr.UnaryOpExpr{Op: op, Operand: operand},
	}), nil
}

func (l *lowerer) lowerCompare(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	lhs, err := l.lowerExpr(e.Compare.Left, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	rhs, err := l.lowerExpr(e.Compare.Right, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	lt, rt := l.unit.Expr(lhs).Type, l.unit.Expr(rhs).Type
	if !l.unit.Type(lt).IsNumeric() || !l.unit.Type(rt).IsNumeric() {
		return asr.NoExprID, errf(e.Span, "comparisons require Integer or Real operands")
	}
	_, castL, castR, kind, ok := asr.PickCast(l.unit, lt, rt)
	if !ok {
		return asr.NoExprID, errf(e.Span, "incompatible comparison operand types")
	}
	if castL {
		lhs = l.wrapCast(lhs, rt, kind)
	}
	if castR {
		rhs = l.wrapCast(rhs, lt, kind)
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:    asr.ExCompare,
		Type:    l.logicalType(),
		Compare: asr.CompareExpr{Op: astCompareOp(e.Compare.Op), Left: lhs, Right: rhs},
	}), nil
}

func astCompareOp(op ast.CompareOp) asr.CompareOp {
	switch op {
	case ast.CmpEq:
		return asr.CmpEq
	case ast.CmpNotEq:
		return asr.CmpNotEq
	case ast.CmpLt:
		return asr.CmpLt
	case ast.CmpLtEq:
		return asr.CmpLtEq
	case ast.CmpGt:
		return asr.CmpGt
	case ast.CmpGtEq:
		return asr.CmpGtEq
	default:
		return asr.CmpEq
	}
}

func (l *lowerer) lowerBoolOp(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	lhs, err := l.lowerExpr(e.BoolOp.Left, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	rhs, err := l.lowerExpr(e.BoolOp.Right, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	op := asr.BoolAnd
	switch e.BoolOp.Op {
	case ast.BoolOr:
		op = asr.BoolOr
	case ast.BoolEqv:
		op = asr.BoolEqv
	case ast.BoolNeqv:
		op = asr.BoolNeqv
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:   asr.ExBoolOp,
		Type:   l.logicalType(),
		BoolOp: asr.BoolOpExpr{Op: op, Left: lhs, Right: rhs},
	}), nil
}

func (l *lowerer) lowerMember(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	base, err := l.lowerExpr(e.Member.Base, scope)
	if err != nil {
		return asr.NoExprID, err
	}
	baseType := l.unit.Type(l.unit.Expr(base).Type)
	if baseType.Kind != asr.TyDerived {
		return asr.NoExprID, errf(e.Span, "member access on non-derived-type expression")
	}
	dt := l.unit.Symbol(baseType.Derived)
	field, ok := dt.DerivedTyp.Table.Lookup(l.name(e.Member.Member))
	if !ok {
		return asr.NoExprID, errf(e.Span, "%q has no field %q", dt.Name, l.name(e.Member.Member))
	}
	return l.unit.NewExpr(asr.Expr{
		Kind:       asr.ExDerivedRef,
		Type:       field.Variable.Type,
		DerivedRef: asr.DerivedRefExpr{Base: base, Member: field.ID},
	}), nil
}

func (l *lowerer) lowerArrayCtor(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	items := make([]asr.ExprID, len(e.ArrayCtor.Items))
	var elemType asr.TypeID = l.intType()
	for i, it := range e.ArrayCtor.Items {
		ex, err := l.lowerExpr(it, scope)
		if err != nil {
			return asr.NoExprID, err
		}
		items[i] = ex
		if i == 0 {
			elemType = l.unit.Expr(ex).Type
		}
	}
	et := *l.unit.Type(elemType)
	et.Dims = append([]asr.Dim{{Length: l.unit.NewExpr(asr.Expr{Kind: asr.ExConstantInteger, Type: l.intType(), ConstInt: asr.ConstantIntegerExpr{Value: int64(len(items))}})}}, et.Dims...)
	return l.unit.NewExpr(asr.Expr{
		Kind:      asr.ExArrayInitializer,
		Type:      l.unit.NewType(et),
		ArrayInit: asr.ArrayInitializerExpr{Items: items},
	}), nil
}

func (l *lowerer) lowerImpliedDo(e *ast.Expr, scope *asr.SymbolTable) (asr.ExprID, error) {
	// Lowering keeps the compact ImpliedDoLoop form. No pass in
	// internal/pass expands it into a concrete ArrayInitializer, so the
	// node stays in the ASR as built here.
	loopVar := asr.NewVariable(asr.NoSymbolID, l.name(e.ImpliedDo.Var), scope, asr.IntentLocal, asr.StorageDefault, l.intType())
	loopVarID := l.unit.NewSymbol(*loopVar)
	inner := asr.NewSymbolTable(scope, asr.NoSymbolID)
	inner.Define(l.name(e.ImpliedDo.Var), l.unit.Symbol(loopVarID))

	start, err := l.lowerExpr(e.ImpliedDo.Start, inner)
	if err != nil {
		return asr.NoExprID, err
	}
	end, err := l.lowerExpr(e.ImpliedDo.End, inner)
	if err != nil {
		return asr.NoExprID, err
	}
	step := asr.NoExprID
	if e.ImpliedDo.Step != ast.NoExprID {
		if step, err = l.lowerExpr(e.ImpliedDo.Step, inner); err != nil {
			return asr.NoExprID, err
		}
	}
	items := make([]asr.ExprID, len(e.ImpliedDo.Items))
	var elemType asr.TypeID = l.intType()
	for i, it := range e.ImpliedDo.Items {
		ex, err := l.lowerExpr(it, inner)
		if err != nil {
			return asr.NoExprID, err
		}
		items[i] = ex
		if i == 0 {
			elemType = l.unit.Expr(ex).Type
		}
	}
	return l.unit.NewExpr(asr.Expr{
		Kind: asr.ExImpliedDoLoop,
		Type: elemType,
		ImpliedDo: asr.ImpliedDoLoopExpr{
			Items: items, Var: loopVarID, Start: start, End: end, Step: step,
		},
	}), nil
}
