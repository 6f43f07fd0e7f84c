package serialize

import (
	"fmt"
	"strings"

	"fortasr/internal/asr"
)

// IntrinsicModulePrefix marks an ExternalSymbol's ModuleName as referring
// to a compiler-builtin module (iso_c_binding and friends) rather than a
// user module; fixExternalSymbols strips it before resolving, per spec.md
// §4.5 ("a symbol whose module name begins with a special intrinsic
// prefix is rewritten to the short name before lookup").
const IntrinsicModulePrefix = "@intrinsic:"

// fixParentSymtab sets every table's Parent pointer — deliberately not
// encoded on the wire — to the table of its lexical parent node, walking
// the freshly reconstructed tree top-down. Mirrors the Program/Module/
// Subroutine/Function/DerivedType case split in
// asr.TranslationUnit.WalkSymbolTables.
func fixParentSymtab(u *asr.TranslationUnit) {
	var walk func(tab *asr.SymbolTable)
	walk = func(tab *asr.SymbolTable) {
		tab.Each(func(_ string, sym *asr.Symbol) {
			var child *asr.SymbolTable
			switch sym.Kind {
			case asr.SymProgram:
				child = sym.Program.Table
			case asr.SymModule:
				child = sym.Module.Table
			case asr.SymSubroutine, asr.SymFunction:
				child = sym.Proc.Table
			case asr.SymDerivedType:
				child = sym.DerivedTyp.Table
			}
			if child == nil {
				return
			}
			child.Parent = tab
			walk(child)
		})
	}
	walk(u.Global)
}

// fixExternalSymbols resolves every ExternalSymbol's target by looking up
// ModuleName in externalModules (falling back to this unit's own Global
// table, for the common case of several modules defined in one stream)
// and then OriginalName within that module's table. Failure to resolve is
// a fatal load error, per spec.md §4.5.
func fixExternalSymbols(u *asr.TranslationUnit, externalModules map[string]*asr.SymbolTable) error {
	var firstErr error
	u.WalkSymbolTables(func(tab *asr.SymbolTable) {
		tab.Each(func(name string, sym *asr.Symbol) {
			if firstErr != nil || sym.Kind != asr.SymExternalSymbol || sym.External.External != nil {
				return
			}
			modTab, ok := resolveModuleTable(u, externalModules, sym.External.ModuleName)
			if !ok {
				firstErr = fmt.Errorf("external symbol %q: module %q not found", name, sym.External.ModuleName)
				return
			}
			target, ok := modTab.Lookup(sym.External.OriginalName)
			if !ok {
				firstErr = fmt.Errorf("external symbol %q: %q not found in module %q", name, sym.External.OriginalName, sym.External.ModuleName)
				return
			}
			sym.External.External = target
		})
	})
	return firstErr
}

func resolveModuleTable(u *asr.TranslationUnit, externalModules map[string]*asr.SymbolTable, modName string) (*asr.SymbolTable, bool) {
	short := strings.TrimPrefix(modName, IntrinsicModulePrefix)
	key := strings.ToUpper(short)
	if externalModules != nil {
		if tab, ok := externalModules[key]; ok {
			return tab, true
		}
	}
	if sym, ok := u.Global.Lookup(short); ok && sym.Kind == asr.SymModule {
		return sym.Module.Table, true
	}
	return nil, false
}
