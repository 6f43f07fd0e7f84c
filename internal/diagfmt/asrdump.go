package diagfmt

import (
	"fmt"
	"io"

	"fortasr/internal/asr"
)

// DumpASR prints every symbol table reachable from unit's global table,
// one indented block per table, for the CLI's dump-asr subcommand. It is
// a debugging aid, not a serialization format: internal/serialize owns
// the wire encoding.
func DumpASR(w io.Writer, unit *asr.TranslationUnit) {
	unit.WalkSymbolTables(func(tab *asr.SymbolTable) {
		fmt.Fprintf(w, "table #%d", tab.ID)
		if tab.IsGlobal() {
			fmt.Fprint(w, " (global)")
		}
		fmt.Fprintln(w)
		tab.Each(func(name string, sym *asr.Symbol) {
			dumpSymbol(w, unit, "  ", name, sym)
		})
	})
}

func dumpSymbol(w io.Writer, unit *asr.TranslationUnit, indent, name string, sym *asr.Symbol) {
	switch sym.Kind {
	case asr.SymVariable:
		fmt.Fprintf(w, "%s%s %s :: %s\n", indent, sym.Kind, name, dumpType(unit, sym.Variable.Type))
	case asr.SymExternalSymbol:
		fmt.Fprintf(w, "%s%s %s -> %s.%s\n", indent, sym.Kind, name, sym.External.ModuleName, sym.External.OriginalName)
	case asr.SymSubroutine, asr.SymFunction:
		fmt.Fprintf(w, "%s%s %s(", indent, sym.Kind, name)
		for i, argID := range sym.Proc.Args {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			arg := unit.Symbol(argID)
			fmt.Fprintf(w, "%s", arg.Name)
		}
		fmt.Fprint(w, ")")
		if sym.Kind == asr.SymFunction {
			fmt.Fprintf(w, " -> %s", dumpType(unit, sym.Proc.ResultType))
		}
		fmt.Fprintf(w, " [%d stmts]\n", len(sym.Proc.Body))
	default:
		fmt.Fprintf(w, "%s%s %s\n", indent, sym.Kind, name)
	}
}

func dumpType(unit *asr.TranslationUnit, id asr.TypeID) string {
	if !id.IsValid() {
		return "?"
	}
	t := unit.Type(id)
	if t.IsArray() {
		return fmt.Sprintf("%s(%d)", t.Kind, t.NumDims())
	}
	return t.Kind.String()
}
