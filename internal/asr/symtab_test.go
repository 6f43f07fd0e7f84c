package asr

import "testing"

func TestSymbolTableCaseInsensitiveLookupPreservesSpelling(t *testing.T) {
	tab := NewSymbolTable(nil, NoSymbolID)
	sym := &Symbol{Kind: SymVariable, Name: "Count"}
	if !tab.Define("Count", sym) {
		t.Fatalf("Define failed")
	}
	got, ok := tab.Lookup("COUNT")
	if !ok || got != sym {
		t.Fatalf("case-insensitive Lookup failed: ok=%v got=%v", ok, got)
	}
	if spelling := tab.OriginalSpelling("count"); spelling != "Count" {
		t.Fatalf("OriginalSpelling = %q, want %q", spelling, "Count")
	}
}

func TestSymbolTableResolveWalksParentChain(t *testing.T) {
	global := NewSymbolTable(nil, NoSymbolID)
	global.Define("X", &Symbol{Kind: SymVariable, Name: "X"})
	child := NewSymbolTable(global, NoSymbolID)

	if _, ok := child.Lookup("X"); ok {
		t.Fatalf("Lookup should not see parent bindings")
	}
	if _, ok := child.Resolve("X"); !ok {
		t.Fatalf("Resolve should walk up to the global table")
	}
}

func TestSymbolTableDefineRejectsDuplicate(t *testing.T) {
	tab := NewSymbolTable(nil, NoSymbolID)
	tab.Define("N", &Symbol{Kind: SymVariable, Name: "N"})
	if tab.Define("n", &Symbol{Kind: SymVariable, Name: "n"}) {
		t.Fatalf("Define should reject a case-insensitive duplicate")
	}
}

func TestSymbolTableDefineOrShadowReplacesInteractiveProto(t *testing.T) {
	tab := NewSymbolTable(nil, NoSymbolID)
	tab.Define("F", &Symbol{Kind: SymFunction, Name: "F", IsInteractiveProto: true})
	real := &Symbol{Kind: SymFunction, Name: "F"}
	if !tab.DefineOrShadow("F", real) {
		t.Fatalf("DefineOrShadow should replace an interactive prototype")
	}
	got, _ := tab.Lookup("F")
	if got != real {
		t.Fatalf("prototype was not shadowed")
	}
}

func TestGlobalTableHasNoParent(t *testing.T) {
	u := NewTranslationUnit()
	if !u.Global.IsGlobal() {
		t.Fatalf("fresh unit's Global table should have no parent")
	}
}
