package asr

// CastKind names the conversion an ImplicitCast or ExplicitCast expression
// performs.
type CastKind uint8

const (
	CastNone CastKind = iota
	CastIntegerToReal
	CastRealToInteger
	CastRealToComplex
	CastIntegerToComplex
	CastRealToReal       // kind-widening/narrowing between two Real widths
	CastIntegerToInteger // kind-widening/narrowing between two Integer widths
	CastLogicalToInteger
	CastIntegerToLogical
)

// typeLookup is the handle cast resolution needs: something that
// dereferences TypeIDs to Type nodes (a *TranslationUnit satisfies it).
type typeLookup interface {
	Type(TypeID) *Type
}

// PickCast decides how to reconcile two operand types per the implicit-cast
// priority matrix from §4.2/§9: Real > Integer; Complex > Real. It returns
// the target TypeID both operands should end up at, which operand (if
// either) needs wrapping in an ImplicitCast, and the CastKind to use. ok is
// false when the two fundamental categories cannot be reconciled this way
// (e.g. Character vs Integer), which callers must treat as a semantic
// error.
func PickCast(tl typeLookup, lhs, rhs TypeID) (target TypeID, castLeft, castRight bool, kind CastKind, ok bool) {
	lt, rt := tl.Type(lhs), tl.Type(rhs)
	if lt == nil || rt == nil {
		return NoTypeID, false, false, CastNone, false
	}
	if !lt.IsNumeric() || !rt.IsNumeric() {
		if lt.Kind == rt.Kind {
			return lhs, false, false, CastNone, true
		}
		return NoTypeID, false, false, CastNone, false
	}
	lp, rp := lt.numericPriority(), rt.numericPriority()
	switch {
	case lp == rp:
		if lt.Width == rt.Width {
			return lhs, false, false, CastNone, true
		}
		// Same category, different kind width: widen the narrower one.
		if lt.Width > rt.Width {
			return lhs, false, true, widenKind(lt.Kind), true
		}
		return rhs, true, false, widenKind(lt.Kind), true
	case lp > rp:
		return lhs, false, true, crossKind(rt.Kind, lt.Kind), true
	default:
		return rhs, true, false, crossKind(lt.Kind, rt.Kind), true
	}
}

func widenKind(k TypeKind) CastKind {
	if k == TyReal {
		return CastRealToReal
	}
	return CastIntegerToInteger
}

// crossKind names the cast that promotes a value of kind `from` up to
// kind `to`, where `to` outranks `from` in the priority matrix.
func crossKind(from, to TypeKind) CastKind {
	switch {
	case from == TyInteger && to == TyReal:
		return CastIntegerToReal
	case from == TyReal && to == TyComplex:
		return CastRealToComplex
	case from == TyInteger && to == TyComplex:
		return CastIntegerToComplex
	default:
		return CastNone
	}
}
