package interp

import "fortasr/internal/asr"

func (ip *Interp) eval(id asr.ExprID, e *env) (Value, error) {
	if !id.IsValid() {
		return Value{}, nil
	}
	expr := ip.unit.Expr(id)
	switch expr.Kind {
	case asr.ExConstantInteger:
		return Integer(expr.ConstInt.Value), nil
	case asr.ExConstantReal:
		return RealVal(expr.ConstReal.Value), nil
	case asr.ExConstantLogical:
		return Logic(expr.ConstLogical.Value), nil
	case asr.ExVar:
		return *e.cell(expr.Var.Symbol), nil
	case asr.ExBinOp:
		return ip.evalBinOp(expr.BinOp, e)
	case asr.ExUnaryOp:
		return ip.evalUnary(expr.UnaryOp, e)
	case asr.ExCompare:
		return ip.evalCompare(expr.Compare, e)
	case asr.ExBoolOp:
		return ip.evalBoolOp(expr.BoolOp, e)
	case asr.ExImplicitCast:
		return ip.evalCast(expr.ImplicitCast, e)
	case asr.ExExplicitCast:
		return ip.evalCast(expr.ExplicitCast, e)
	case asr.ExFunctionCall:
		return ip.evalCall(expr.Call, e)
	default:
		return Value{}, unsupported(expr.Kind.String())
	}
}

func (ip *Interp) evalBinOp(b asr.BinOpExpr, e *env) (Value, error) {
	l, err := ip.eval(b.Left, e)
	if err != nil {
		return Value{}, err
	}
	r, err := ip.eval(b.Right, e)
	if err != nil {
		return Value{}, err
	}
	if l.Kind == asr.TyReal || r.Kind == asr.TyReal {
		lv, rv := l.AsReal(), r.AsReal()
		switch b.Op {
		case asr.BinAdd:
			return RealVal(lv + rv), nil
		case asr.BinSub:
			return RealVal(lv - rv), nil
		case asr.BinMul:
			return RealVal(lv * rv), nil
		case asr.BinDiv:
			return RealVal(lv / rv), nil
		case asr.BinPow:
			return RealVal(realPow(lv, rv)), nil
		}
		return Value{}, unsupported("real binop")
	}
	lv, rv := l.AsInt(), r.AsInt()
	switch b.Op {
	case asr.BinAdd:
		return Integer(lv + rv), nil
	case asr.BinSub:
		return Integer(lv - rv), nil
	case asr.BinMul:
		return Integer(lv * rv), nil
	case asr.BinDiv:
		if rv == 0 {
			return Value{}, &Error{Reason: "integer division by zero"}
		}
		return Integer(lv / rv), nil
	case asr.BinPow:
		return Integer(ipow(lv, rv)), nil
	}
	return Value{}, unsupported("integer binop")
}

func realPow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	neg := exp < 0
	if neg {
		exp = -exp
	}
	result := 1.0
	for i := 0.0; i < exp; i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func (ip *Interp) evalUnary(u asr.UnaryOpExpr, e *env) (Value, error) {
	v, err := ip.eval(u.Operand, e)
	if err != nil {
		return Value{}, err
	}
	switch u.Op {
	case asr.UnaryPlus:
		return v, nil
	case asr.UnaryMinus:
		if v.Kind == asr.TyReal {
			return RealVal(-v.Real), nil
		}
		return Integer(-v.Int), nil
	case asr.UnaryNot:
		return Logic(!v.Logical), nil
	}
	return Value{}, unsupported("unary op")
}

func (ip *Interp) evalCompare(c asr.CompareExpr, e *env) (Value, error) {
	l, err := ip.eval(c.Left, e)
	if err != nil {
		return Value{}, err
	}
	r, err := ip.eval(c.Right, e)
	if err != nil {
		return Value{}, err
	}
	var cmp int
	if l.Kind == asr.TyReal || r.Kind == asr.TyReal {
		lv, rv := l.AsReal(), r.AsReal()
		switch {
		case lv < rv:
			cmp = -1
		case lv > rv:
			cmp = 1
		}
	} else {
		lv, rv := l.AsInt(), r.AsInt()
		switch {
		case lv < rv:
			cmp = -1
		case lv > rv:
			cmp = 1
		}
	}
	switch c.Op {
	case asr.CmpEq:
		return Logic(cmp == 0), nil
	case asr.CmpNotEq:
		return Logic(cmp != 0), nil
	case asr.CmpLt:
		return Logic(cmp < 0), nil
	case asr.CmpLtEq:
		return Logic(cmp <= 0), nil
	case asr.CmpGt:
		return Logic(cmp > 0), nil
	case asr.CmpGtEq:
		return Logic(cmp >= 0), nil
	}
	return Value{}, unsupported("compare op")
}

func (ip *Interp) evalBoolOp(b asr.BoolOpExpr, e *env) (Value, error) {
	l, err := ip.eval(b.Left, e)
	if err != nil {
		return Value{}, err
	}
	r, err := ip.eval(b.Right, e)
	if err != nil {
		return Value{}, err
	}
	switch b.Op {
	case asr.BoolAnd:
		return Logic(l.Logical && r.Logical), nil
	case asr.BoolOr:
		return Logic(l.Logical || r.Logical), nil
	case asr.BoolEqv:
		return Logic(l.Logical == r.Logical), nil
	case asr.BoolNeqv:
		return Logic(l.Logical != r.Logical), nil
	}
	return Value{}, unsupported("bool op")
}

func (ip *Interp) evalCast(c asr.CastExpr, e *env) (Value, error) {
	v, err := ip.eval(c.Operand, e)
	if err != nil {
		return Value{}, err
	}
	switch c.Kind {
	case asr.CastIntegerToReal, asr.CastRealToReal:
		return RealVal(v.AsReal()), nil
	case asr.CastRealToInteger, asr.CastIntegerToInteger:
		return Integer(v.AsInt()), nil
	case asr.CastLogicalToInteger:
		if v.Logical {
			return Integer(1), nil
		}
		return Integer(0), nil
	case asr.CastIntegerToLogical:
		return Logic(v.Int != 0), nil
	default:
		return v, nil
	}
}

func (ip *Interp) evalCall(c asr.FunctionCallExpr, e *env) (Value, error) {
	callee := ip.unit.Symbol(c.Callee)
	if callee.Kind == asr.SymExternalSymbol {
		if callee.External.External == nil {
			return Value{}, &Error{Reason: "unresolved external symbol " + callee.Name}
		}
		callee = callee.External.External
	}
	if callee.Kind != asr.SymFunction {
		return Value{}, &Error{Reason: callee.Name + " is not callable as a function"}
	}
	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := ip.eval(a, e)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return ip.callFunction(callee, args)
}
