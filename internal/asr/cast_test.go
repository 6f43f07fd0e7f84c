package asr

import "testing"

func mkUnitWithTypes(kinds ...TypeKind) (*TranslationUnit, []TypeID) {
	u := NewTranslationUnit()
	ids := make([]TypeID, len(kinds))
	for i, k := range kinds {
		width := 4
		if k == TyReal || k == TyComplex {
			width = 8
		}
		ids[i] = u.NewType(Type{Kind: k, Width: width})
	}
	return u, ids
}

func TestPickCastIntegerRealPromotesInteger(t *testing.T) {
	u, ids := mkUnitWithTypes(TyInteger, TyReal)
	target, castLeft, castRight, kind, ok := PickCast(u, ids[0], ids[1])
	if !ok {
		t.Fatalf("expected ok")
	}
	if target != ids[1] {
		t.Fatalf("target should be the Real type")
	}
	if castRight || !castLeft {
		t.Fatalf("the Integer (left) operand should be cast, got castLeft=%v castRight=%v", castLeft, castRight)
	}
	if kind != CastIntegerToReal {
		t.Fatalf("kind = %v, want CastIntegerToReal", kind)
	}
}

func TestPickCastRealComplexPromotesReal(t *testing.T) {
	u, ids := mkUnitWithTypes(TyReal, TyComplex)
	target, castLeft, castRight, kind, ok := PickCast(u, ids[0], ids[1])
	if !ok || target != ids[1] || castRight || !castLeft || kind != CastRealToComplex {
		t.Fatalf("unexpected result: target=%v castLeft=%v castRight=%v kind=%v ok=%v", target, castLeft, castRight, kind, ok)
	}
}

func TestPickCastSameKindNoOp(t *testing.T) {
	u, ids := mkUnitWithTypes(TyInteger, TyInteger)
	target, castLeft, castRight, kind, ok := PickCast(u, ids[0], ids[1])
	if !ok || target != ids[0] || castLeft || castRight || kind != CastNone {
		t.Fatalf("expected a no-op cast for identical types")
	}
}

func TestPickCastIncompatibleCategoriesRejected(t *testing.T) {
	u, ids := mkUnitWithTypes(TyInteger, TyCharacter)
	_, _, _, _, ok := PickCast(u, ids[0], ids[1])
	if ok {
		t.Fatalf("Integer vs Character should not be reconcilable")
	}
}
