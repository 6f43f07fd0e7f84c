package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

// declareItem runs phase 1 (§4.2) for one top-level or nested item: it
// creates the item's own symbol table, declares its variables/arguments,
// and records its procedure/module/program/derived-type shell without
// lowering any statement bodies yet.
func (l *lowerer) declareItem(id ast.ItemID, scope *asr.SymbolTable) (asr.SymbolID, error) {
	it := l.b.Item(id)
	name := l.name(it.Name)

	switch it.Kind {
	case ast.ItemProgram:
		table := asr.NewSymbolTable(scope, asr.NoSymbolID)
		sym := &asr.Symbol{Kind: asr.SymProgram, Name: name, Program: asr.ProgramSymbol{Table: table}}
		symID := l.unit.NewSymbol(*sym)
		table.Owner = symID
		if !scope.Define(name, l.unit.Symbol(symID)) {
			return asr.NoSymbolID, errf(it.Span, "%q already defined", name)
		}
		for _, d := range it.Program.Decls {
			if err := l.declareVars(l.b.Decl(d), table, false); err != nil {
				return asr.NoSymbolID, err
			}
		}
		for _, nested := range it.Program.Nested {
			if _, err := l.declareItem(nested, table); err != nil {
				return asr.NoSymbolID, err
			}
		}
		return symID, nil

	case ast.ItemModule:
		table := asr.NewSymbolTable(scope, asr.NoSymbolID)
		sym := &asr.Symbol{Kind: asr.SymModule, Name: name, Module: asr.ModuleSymbol{Table: table}}
		symID := l.unit.NewSymbol(*sym)
		table.Owner = symID
		if !scope.Define(name, l.unit.Symbol(symID)) {
			return asr.NoSymbolID, errf(it.Span, "%q already defined", name)
		}
		for _, d := range it.Module.Decls {
			if err := l.declareVars(l.b.Decl(d), table, false); err != nil {
				return asr.NoSymbolID, err
			}
		}
		for _, nested := range it.Module.Nested {
			if _, err := l.declareItem(nested, table); err != nil {
				return asr.NoSymbolID, err
			}
		}
		return symID, nil

	case ast.ItemSubroutine, ast.ItemFunction:
		return l.declareProc(it, scope)

	case ast.ItemDerivedType:
		table := asr.NewSymbolTable(scope, asr.NoSymbolID)
		sym := &asr.Symbol{Kind: asr.SymDerivedType, Name: name, DerivedTyp: asr.DerivedTypeSymbol{Table: table}}
		symID := l.unit.NewSymbol(*sym)
		table.Owner = symID
		if !scope.Define(name, l.unit.Symbol(symID)) {
			return asr.NoSymbolID, errf(it.Span, "%q already defined", name)
		}
		for _, d := range it.DerivedType.Fields {
			if err := l.declareVars(l.b.Decl(d), table, false); err != nil {
				return asr.NoSymbolID, err
			}
		}
		return symID, nil

	case ast.ItemUse:
		return l.declareUse(it, scope)

	case ast.ItemInterface:
		return l.declareInterface(it, scope)

	default:
		return asr.NoSymbolID, errf(it.Span, "internal: unhandled AST item kind %d", it.Kind)
	}
}

// declareProc creates the owning table for a Subroutine/Function, records
// its argument Variables (Intent attributes optional on arguments,
// rejected on any other declared variable), and for a Function its
// return variable.
func (l *lowerer) declareProc(it *ast.Item, scope *asr.SymbolTable) (asr.SymbolID, error) {
	name := l.name(it.Name)
	table := asr.NewSymbolTable(scope, asr.NoSymbolID)
	kind := asr.SymSubroutine
	if it.Kind == ast.ItemFunction {
		kind = asr.SymFunction
	}
	sym := &asr.Symbol{Kind: kind, Name: name, Proc: asr.ProcSymbol{
		Table:      table,
		BindName:   l.name(it.Proc.BindName),
		IsExternal: it.Proc.IsExternal,
	}}
	symID := l.unit.NewSymbol(*sym)
	table.Owner = symID
	if !scope.DefineOrShadow(name, l.unit.Symbol(symID)) {
		return asr.NoSymbolID, errf(it.Span, "%q already defined", name)
	}

	for _, d := range it.Proc.Decls {
		if err := l.declareVars(l.b.Decl(d), table, true); err != nil {
			return asr.NoSymbolID, err
		}
	}

	args := make([]asr.SymbolID, 0, len(it.Proc.Args))
	for _, argName := range it.Proc.Args {
		n := l.name(argName)
		v, ok := table.Lookup(n)
		if !ok || v.Kind != asr.SymVariable {
			return asr.NoSymbolID, errf(it.Span, "argument %q has no matching declaration", n)
		}
		if v.Variable.Intent == asr.IntentUnspecified {
			v.Variable.Intent = asr.IntentUnspecified
		}
		args = append(args, v.ID)
	}
	proc := l.unit.Symbol(symID)
	proc.Proc.Args = args

	isArg := make(map[asr.SymbolID]bool, len(args))
	for _, a := range args {
		isArg[a] = true
	}
	misplaced := ""
	table.Each(func(n string, s *asr.Symbol) {
		if misplaced == "" && s.Kind == asr.SymVariable && !isArg[s.ID] && s.Variable.Intent != asr.IntentUnspecified {
			misplaced = n
		}
	})
	if misplaced != "" {
		return asr.NoSymbolID, errf(it.Span, "intent attribute on non-argument %q", misplaced)
	}

	if it.Kind == ast.ItemFunction {
		retName := l.name(it.Proc.ReturnName)
		if retName == "" {
			retName = name
		}
		retVar, ok := table.Lookup(retName)
		if !ok {
			retType := l.intType()
			if it.Proc.ResultType != ast.NoTypeID {
				var err error
				if retType, err = l.lowerTypeSpec(l.b.Type(it.Proc.ResultType), table); err != nil {
					return asr.NoSymbolID, err
				}
			}
			v := asr.NewVariable(asr.NoSymbolID, retName, table, asr.IntentReturnVar, asr.StorageDefault, retType)
			id := l.unit.NewSymbol(*v)
			table.Define(retName, l.unit.Symbol(id))
			retVar = l.unit.Symbol(id)
		} else {
			retVar.Variable.Intent = asr.IntentReturnVar
		}
		proc.Proc.ReturnVar = retVar.ID
		proc.Proc.ResultType = retVar.Variable.Type
	}

	for _, nested := range it.Proc.Nested {
		if _, err := l.declareItem(nested, table); err != nil {
			return asr.NoSymbolID, err
		}
	}
	return symID, nil
}

// declareUse imports selected symbols from another module as
// ExternalSymbol entries whose External field points at the module's own
// symbol; no separate Subroutine/Function shell is created for them.
// The referenced module must already have been lowered into the
// global table (module dependency order is internal/project's concern).
func (l *lowerer) declareUse(it *ast.Item, scope *asr.SymbolTable) (asr.SymbolID, error) {
	moduleName := l.name(it.Use.ModuleName)
	modSym, ok := l.unit.Global.Resolve(moduleName)
	if !ok || modSym.Kind != asr.SymModule {
		return asr.NoSymbolID, errf(it.Span, "unknown module %q", moduleName)
	}
	importOne := func(localName, originalName string) error {
		orig, ok := modSym.Module.Table.Lookup(originalName)
		if !ok {
			return errf(it.Span, "module %q has no public name %q", moduleName, originalName)
		}
		shell := &asr.Symbol{
			Kind: asr.SymExternalSymbol,
			Name: localName,
			External: asr.ExternalSymbolData{
				Parent: scope, ModuleName: moduleName, OriginalName: originalName, External: orig,
			},
		}
		id := l.unit.NewSymbol(*shell)
		if !scope.Define(localName, l.unit.Symbol(id)) {
			return errf(it.Span, "%q already defined", localName)
		}
		return nil
	}
	if len(it.Use.OnlyNames) == 0 {
		var err error
		modSym.Module.Table.Each(func(orig string, sym *asr.Symbol) {
			if err != nil || sym.Kind == asr.SymVariable && sym.Variable.Access == asr.AccessPrivate {
				return
			}
			err = importOne(orig, orig)
		})
		if err != nil {
			return asr.NoSymbolID, err
		}
		return asr.NoSymbolID, nil
	}
	for _, only := range it.Use.OnlyNames {
		if err := importOne(l.name(only.LocalName), l.name(only.OriginalName)); err != nil {
			return asr.NoSymbolID, err
		}
	}
	return asr.NoSymbolID, nil
}

// declareInterface records a (possibly generic) interface block.
// GenericName != "" makes it a GenericProcedure entry; otherwise each
// nested prototype is declared as an IsExternal procedure shell directly
// in scope.
func (l *lowerer) declareInterface(it *ast.Item, scope *asr.SymbolTable) (asr.SymbolID, error) {
	if it.Interface.GenericName == 0 {
		for _, protoID := range it.Interface.Procs {
			if _, err := l.declareItem(protoID, scope); err != nil {
				return asr.NoSymbolID, err
			}
		}
		return asr.NoSymbolID, nil
	}
	name := l.name(it.Interface.GenericName)
	procs := make([]asr.SymbolID, 0, len(it.Interface.Procs))
	for _, protoID := range it.Interface.Procs {
		id, err := l.declareItem(protoID, scope)
		if err != nil {
			return asr.NoSymbolID, err
		}
		procs = append(procs, id)
	}
	sym := &asr.Symbol{Kind: asr.SymGenericProcedure, Name: name, Generic: asr.GenericProcedureSymbol{Parent: scope, Procs: procs}}
	id := l.unit.NewSymbol(*sym)
	if !scope.Define(name, l.unit.Symbol(id)) {
		return asr.NoSymbolID, errf(it.Span, "%q already defined", name)
	}
	return id, nil
}

// lowerItemBody runs phase 2 for one item: it lowers the statement bodies
// of Program/Subroutine/Function items (and recurses into nested items).
// Module/DerivedType/Use/Interface items have no body of their own.
func (l *lowerer) lowerItemBody(id ast.ItemID, scope *asr.SymbolTable) error {
	it := l.b.Item(id)
	name := l.name(it.Name)

	switch it.Kind {
	case ast.ItemProgram:
		sym, _ := scope.Lookup(name)
		body, err := l.lowerStmts(it.Program.Body, sym.Program.Table)
		if err != nil {
			return err
		}
		sym.Program.Body = body
		for _, nested := range it.Program.Nested {
			if err := l.lowerItemBody(nested, sym.Program.Table); err != nil {
				return err
			}
		}
		return nil

	case ast.ItemModule:
		sym, _ := scope.Lookup(name)
		for _, nested := range it.Module.Nested {
			if err := l.lowerItemBody(nested, sym.Module.Table); err != nil {
				return err
			}
		}
		return nil

	case ast.ItemSubroutine, ast.ItemFunction:
		sym, _ := scope.Lookup(name)
		if sym.Proc.IsExternal {
			return nil
		}
		body, err := l.lowerStmts(it.Proc.Body, sym.Proc.Table)
		if err != nil {
			return err
		}
		sym.Proc.Body = body
		for _, nested := range it.Proc.Nested {
			if err := l.lowerItemBody(nested, sym.Proc.Table); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}
