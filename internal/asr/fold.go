package asr

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCaser implements Fortran's case-insensitive identifier comparison:
// every name is folded to its upper-case form before it is used as a
// SymbolTable map key. golang.org/x/text/cases handles this correctly
// for the full Unicode identifier set BIND(C) names can carry, where
// strings.ToUpper's simple byte-wise mapping can diverge from the
// locale-aware titlecase/uppercase algorithm.
var foldCaser = cases.Upper(language.Und)

// FoldKey normalizes name the way every SymbolTable lookup does, so a
// caller can pre-compute or compare keys consistently with
// Resolve/Lookup.
func FoldKey(name string) string { return foldCaser.String(name) }
