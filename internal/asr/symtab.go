package asr

import "sort"

// symtabSeq assigns the stable numeric identifiers spec §3.1 requires of
// every SymbolTable, in allocation order.
var symtabSeq uint32

func nextSymtabID() uint32 {
	symtabSeq++
	return symtabSeq
}

// SymbolTable maps a name to a Symbol. Lookup is case-insensitive (Fortran
// identifiers are case-insensitive) but the original spelling used at the
// declaration site is preserved for emission. Every table but the global
// one has a non-null Parent; Resolve walks that chain.
type SymbolTable struct {
	ID     uint32
	Parent *SymbolTable
	Owner  SymbolID // the Program/Module/Subroutine/Function/DerivedType that owns this table; NoSymbolID for the global table

	names map[string]string // uppercased key -> original spelling
	syms  map[string]*Symbol
}

// NewSymbolTable creates a table whose parent is parent (nil only for the
// global table).
func NewSymbolTable(parent *SymbolTable, owner SymbolID) *SymbolTable {
	return &SymbolTable{
		ID:     nextSymtabID(),
		Parent: parent,
		Owner:  owner,
		names:  make(map[string]string),
		syms:   make(map[string]*Symbol),
	}
}

// NewSymbolTableWithID constructs a table whose ID is the caller's rather
// than the next value from the process-lifetime counter. internal/serialize
// uses this to restore a table's on-disk ID verbatim across a save/load
// round trip, since a freshly minted ID would not match the references
// written out alongside it.
func NewSymbolTableWithID(id uint32, parent *SymbolTable, owner SymbolID) *SymbolTable {
	t := NewSymbolTable(parent, owner)
	t.ID = id
	return t
}

func key(name string) string { return FoldKey(name) }

// Define adds sym under name, failing if name is already defined in this
// table, even when the existing entry is an interactive prototype
// (DefineOrShadow is the variant that replaces those).
func (t *SymbolTable) Define(name string, sym *Symbol) bool {
	k := key(name)
	if _, exists := t.syms[k]; exists {
		return false
	}
	t.names[k] = name
	t.syms[k] = sym
	return true
}

// DefineOrShadow replaces an existing entry when it is an interactive
// evaluator prototype (IsInteractiveProto), otherwise behaves like Define.
// This realizes the redefinition rule from spec §4.2: "redefining a
// previously declared symbol raises an error unless the prior declaration
// is an imported interactive prototype, in which case the new definition
// shadows it."
func (t *SymbolTable) DefineOrShadow(name string, sym *Symbol) bool {
	k := key(name)
	if prev, exists := t.syms[k]; exists && !prev.IsInteractiveProto {
		return false
	}
	t.names[k] = name
	t.syms[k] = sym
	return true
}

// Lookup returns the symbol bound to name in this table only (no parent
// walk), and whether it was found.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.syms[key(name)]
	return s, ok
}

// Resolve walks this table then its ancestors, returning the nearest
// binding of name.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for tab := t; tab != nil; tab = tab.Parent {
		if s, ok := tab.Lookup(name); ok {
			return s, true
		}
	}
	return nil, false
}

// OriginalSpelling returns the spelling name was declared with, or "" if
// name is not bound in this table.
func (t *SymbolTable) OriginalSpelling(name string) string {
	return t.names[key(name)]
}

// Names returns the original-spelling names bound in this table, sorted for
// deterministic iteration (serialization and dumping rely on this).
func (t *SymbolTable) Names() []string {
	out := make([]string, 0, len(t.names))
	for _, orig := range t.names {
		out = append(out, orig)
	}
	sort.Strings(out)
	return out
}

// Remove deletes name from this table, used by the unused-function
// elimination pass (§4.3.5) to drop dead procedures and the
// ExternalSymbol wrappers that named them.
func (t *SymbolTable) Remove(name string) {
	k := key(name)
	delete(t.names, k)
	delete(t.syms, k)
}

// Len returns the number of symbols bound directly in this table.
func (t *SymbolTable) Len() int { return len(t.syms) }

// IsGlobal reports whether t is the translation unit's root table.
func (t *SymbolTable) IsGlobal() bool { return t.Parent == nil }

// Each calls fn for every (original-spelling name, symbol) pair, in
// deterministic name order.
func (t *SymbolTable) Each(fn func(name string, sym *Symbol)) {
	for _, name := range t.Names() {
		fn(name, t.syms[key(name)])
	}
}
