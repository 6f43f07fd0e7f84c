package serialize

import (
	"fmt"
	"io"
	"strconv"

	"fortasr/internal/asr"
)

// readerCtx carries the state a single ReadUnit call threads through the
// recursive tree rebuild: the unit being populated and a registry of
// symbol tables seen so far, keyed by their on-disk ID, so a forward
// reference can find (or shell-and-park into) the right table.
type readerCtx struct {
	u      *asr.TranslationUnit
	r      Reader
	tables map[uint32]*asr.SymbolTable
}

// ReadUnit reads a stream written by WriteUnit, reconstructing a
// TranslationUnit. externalModules maps a canonical (uppercased) module
// name to that module's already-loaded symbol table, used by the
// fix-external-symbols pass for any ExternalSymbol whose target lives
// outside this unit (e.g. a previously compiled, cached module). Pass nil
// when every module referenced is defined within the stream itself.
func ReadUnit(in io.Reader, externalModules map[string]*asr.SymbolTable) (*asr.TranslationUnit, error) {
	enc, _, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}
	u := asr.NewTranslationUnit()
	ctx := &readerCtx{u: u, r: NewReader(in, enc), tables: map[uint32]*asr.SymbolTable{}}

	if err := ctx.readSymbolTableInto(u.Global); err != nil {
		return nil, err
	}

	fixParentSymtab(u)
	if err := fixExternalSymbols(u, externalModules); err != nil {
		return nil, fmt.Errorf("serialize: fix external symbols: %w", err)
	}
	return u, nil
}

// readSymbolTableInto reads a table's ID and contents into an
// already-constructed table (used for the global table, which
// asr.NewTranslationUnit already allocated).
func (c *readerCtx) readSymbolTableInto(tab *asr.SymbolTable) error {
	id, err := c.r.ReadInt64()
	if err != nil {
		return err
	}
	tab.ID = uint32(id)
	c.tables[tab.ID] = tab
	return c.readSymbolTableEntries(tab)
}

func (c *readerCtx) readSymbolTable(parent *asr.SymbolTable, owner asr.SymbolID) (*asr.SymbolTable, error) {
	id, err := c.r.ReadInt64()
	if err != nil {
		return nil, err
	}
	tab, ok := c.tables[uint32(id)]
	if ok {
		tab.Parent, tab.Owner = parent, owner
	} else {
		tab = asr.NewSymbolTableWithID(uint32(id), parent, owner)
		c.tables[tab.ID] = tab
	}
	if err := c.readSymbolTableEntries(tab); err != nil {
		return nil, err
	}
	return tab, nil
}

func (c *readerCtx) readSymbolTableEntries(tab *asr.SymbolTable) error {
	n, err := c.r.ReadInt64()
	if err != nil {
		return err
	}
	for i := int64(0); i < n; i++ {
		if err := c.readSymbolDef(tab); err != nil {
			return err
		}
	}
	return nil
}

// readSymbolDef reads one symbol definition into tab. If a forward
// reference already parked a shell under this name, the shell's arena slot
// is overwritten in place (preserving its address and ID); otherwise a
// fresh slot is reserved.
func (c *readerCtx) readSymbolDef(tab *asr.SymbolTable) error {
	kindByte, err := c.r.ReadInt8()
	if err != nil {
		return err
	}
	kind := asr.SymbolKind(kindByte)
	name, err := c.r.ReadString()
	if err != nil {
		return err
	}

	var id asr.SymbolID
	if existing, ok := tab.Lookup(name); ok {
		id = existing.ID
	} else {
		id = c.u.ReserveSymbol()
	}

	sym := asr.Symbol{ID: id, Kind: kind, Name: name}
	if err := c.readSymbolBody(tab, id, &sym); err != nil {
		return fmt.Errorf("serialize: read symbol %q: %w", name, err)
	}
	c.u.OverwriteSymbol(id, sym)
	tab.Define(name, c.u.Symbol(id))
	return nil
}

func (c *readerCtx) readSymbolBody(tab *asr.SymbolTable, id asr.SymbolID, sym *asr.Symbol) error {
	switch sym.Kind {
	case asr.SymProgram:
		body, err := c.readStmtList()
		if err != nil {
			return err
		}
		table, err := c.readSymbolTable(tab, id)
		if err != nil {
			return err
		}
		sym.Program = asr.ProgramSymbol{Table: table, Body: body}
		return nil
	case asr.SymModule:
		table, err := c.readSymbolTable(tab, id)
		if err != nil {
			return err
		}
		sym.Module = asr.ModuleSymbol{Table: table}
		return nil
	case asr.SymSubroutine, asr.SymFunction:
		return c.readProc(tab, id, sym)
	case asr.SymGenericProcedure:
		n, err := c.r.ReadInt64()
		if err != nil {
			return err
		}
		procs := make([]asr.SymbolID, n)
		for i := range procs {
			procs[i], err = c.readSymbolRef()
			if err != nil {
				return err
			}
		}
		sym.Generic = asr.GenericProcedureSymbol{Parent: tab, Procs: procs}
		return nil
	case asr.SymDerivedType:
		table, err := c.readSymbolTable(tab, id)
		if err != nil {
			return err
		}
		sym.DerivedTyp = asr.DerivedTypeSymbol{Table: table}
		return nil
	case asr.SymVariable:
		return c.readVariable(tab, sym)
	case asr.SymExternalSymbol:
		modName, err := c.r.ReadString()
		if err != nil {
			return err
		}
		origName, err := c.r.ReadString()
		if err != nil {
			return err
		}
		sym.External = asr.ExternalSymbolData{Parent: tab, ModuleName: modName, OriginalName: origName}
		return nil
	default:
		return fmt.Errorf("unknown symbol kind %d", sym.Kind)
	}
}

func (c *readerCtx) readProc(tab *asr.SymbolTable, id asr.SymbolID, sym *asr.Symbol) error {
	bindName, err := c.r.ReadString()
	if err != nil {
		return err
	}
	isExternal, err := c.r.ReadBool()
	if err != nil {
		return err
	}
	isExported, err := c.r.ReadBool()
	if err != nil {
		return err
	}
	n, err := c.r.ReadInt64()
	if err != nil {
		return err
	}
	args := make([]asr.SymbolID, n)
	for i := range args {
		args[i], err = c.readSymbolRef()
		if err != nil {
			return err
		}
	}

	var returnVar asr.SymbolID
	var resultType asr.TypeID
	if sym.Kind == asr.SymFunction {
		returnVar, err = c.readSymbolRef()
		if err != nil {
			return err
		}
		resultType, err = c.readType()
		if err != nil {
			return err
		}
	}

	body, err := c.readStmtList()
	if err != nil {
		return err
	}
	table, err := c.readSymbolTable(tab, id)
	if err != nil {
		return err
	}

	sym.Proc = asr.ProcSymbol{
		Table: table, Args: args, Body: body, BindName: bindName,
		ReturnVar: returnVar, ResultType: resultType,
		IsExternal: isExternal, IsExported: isExported,
	}
	return nil
}

func (c *readerCtx) readVariable(tab *asr.SymbolTable, sym *asr.Symbol) error {
	intent, err := c.r.ReadInt8()
	if err != nil {
		return err
	}
	storage, err := c.r.ReadInt8()
	if err != nil {
		return err
	}
	typ, err := c.readType()
	if err != nil {
		return err
	}
	init, err := c.readExpr()
	if err != nil {
		return err
	}
	access, err := c.r.ReadInt8()
	if err != nil {
		return err
	}
	bindName, err := c.r.ReadString()
	if err != nil {
		return err
	}
	sym.Variable = asr.VariableSymbol{
		Parent: tab, Intent: asr.Intent(intent), Storage: asr.Storage(storage),
		Type: typ, Init: init, Access: asr.Access(access), BindName: bindName,
	}
	return nil
}

// readSymbolRef reads a (symtab_id, tag, name) triple. If the named symbol
// already exists in the target table, its ID is returned; otherwise an
// empty shell of the declared kind is reserved and parked under that name,
// to be overwritten in place once its real definition is read.
func (c *readerCtx) readSymbolRef() (asr.SymbolID, error) {
	present, err := c.r.ReadBool()
	if err != nil {
		return asr.NoSymbolID, err
	}
	if !present {
		return asr.NoSymbolID, nil
	}
	symtabID, err := c.r.ReadInt64()
	if err != nil {
		return asr.NoSymbolID, err
	}
	kindByte, err := c.r.ReadInt8()
	if err != nil {
		return asr.NoSymbolID, err
	}
	name, err := c.r.ReadString()
	if err != nil {
		return asr.NoSymbolID, err
	}

	tab, ok := c.tables[uint32(symtabID)]
	if !ok {
		// The table comes later in the stream (a procedure's arguments are
		// written before its own table): register it empty now and let
		// readSymbolTable fill it in.
		tab = asr.NewSymbolTableWithID(uint32(symtabID), nil, asr.NoSymbolID)
		c.tables[tab.ID] = tab
	}
	if existing, ok := tab.Lookup(name); ok {
		return existing.ID, nil
	}
	id := c.u.ReserveSymbol()
	c.u.OverwriteSymbol(id, asr.Symbol{ID: id, Kind: asr.SymbolKind(kindByte), Name: name})
	tab.Define(name, c.u.Symbol(id))
	return id, nil
}

func (c *readerCtx) readType() (asr.TypeID, error) {
	present, err := c.r.ReadBool()
	if err != nil {
		return asr.NoTypeID, err
	}
	if !present {
		return asr.NoTypeID, nil
	}
	kindByte, err := c.r.ReadInt8()
	if err != nil {
		return asr.NoTypeID, err
	}
	kind := asr.TypeKind(kindByte)
	width, err := c.r.ReadInt64()
	if err != nil {
		return asr.NoTypeID, err
	}
	numDims, err := c.r.ReadInt64()
	if err != nil {
		return asr.NoTypeID, err
	}
	dims := make([]asr.Dim, numDims)
	for i := range dims {
		lower, err := c.readExpr()
		if err != nil {
			return asr.NoTypeID, err
		}
		length, err := c.readExpr()
		if err != nil {
			return asr.NoTypeID, err
		}
		dims[i] = asr.Dim{Lower: lower, Length: length}
	}

	t := asr.Type{Kind: kind, Width: int(width), Dims: dims}
	switch kind {
	case asr.TyDerived:
		t.Derived, err = c.readSymbolRef()
	case asr.TyPointer, asr.TyConst, asr.TyList:
		t.Elem, err = c.readType()
	case asr.TyDict:
		if t.Key, err = c.readType(); err == nil {
			t.Value, err = c.readType()
		}
	case asr.TyTuple:
		t.Members, err = c.readTypeList()
	case asr.TyUnion, asr.TyEnum:
		if t.Members, err = c.readTypeList(); err == nil {
			var n int64
			n, err = c.r.ReadInt64()
			if err == nil {
				t.Names = make([]string, n)
				for i := range t.Names {
					t.Names[i], err = c.r.ReadString()
					if err != nil {
						break
					}
				}
			}
		}
	}
	if err != nil {
		return asr.NoTypeID, err
	}
	return c.u.NewType(t), nil
}

func (c *readerCtx) readTypeList() ([]asr.TypeID, error) {
	n, err := c.r.ReadInt64()
	if err != nil {
		return nil, err
	}
	ids := make([]asr.TypeID, n)
	for i := range ids {
		if ids[i], err = c.readType(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (c *readerCtx) readExprList() ([]asr.ExprID, error) {
	n, err := c.r.ReadInt64()
	if err != nil {
		return nil, err
	}
	ids := make([]asr.ExprID, n)
	for i := range ids {
		if ids[i], err = c.readExpr(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func parseHexFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func (c *readerCtx) readExpr() (asr.ExprID, error) {
	present, err := c.r.ReadBool()
	if err != nil {
		return asr.NoExprID, err
	}
	if !present {
		return asr.NoExprID, nil
	}
	kindByte, err := c.r.ReadInt8()
	if err != nil {
		return asr.NoExprID, err
	}
	kind := asr.ExprKind(kindByte)
	typ, err := c.readType()
	if err != nil {
		return asr.NoExprID, err
	}

	e := asr.Expr{Kind: kind, Type: typ}
	switch kind {
	case asr.ExVar:
		e.Var.Symbol, err = c.readSymbolRef()
	case asr.ExFunctionCall:
		if e.Call.Callee, err = c.readSymbolRef(); err == nil {
			e.Call.Args, err = c.readExprList()
		}
	case asr.ExBinOp:
		var op uint8
		if op, err = c.r.ReadInt8(); err == nil {
			e.BinOp.Op = asr.BinOp(op)
			if e.BinOp.Left, err = c.readExpr(); err == nil {
				e.BinOp.Right, err = c.readExpr()
			}
		}
	case asr.ExUnaryOp:
		var op uint8
		if op, err = c.r.ReadInt8(); err == nil {
			e.UnaryOp.Op = asr.UnaryOp(op)
			e.UnaryOp.Operand, err = c.readExpr()
		}
	case asr.ExCompare:
		var op uint8
		if op, err = c.r.ReadInt8(); err == nil {
			e.Compare.Op = asr.CompareOp(op)
			if e.Compare.Left, err = c.readExpr(); err == nil {
				e.Compare.Right, err = c.readExpr()
			}
		}
	case asr.ExBoolOp:
		var op uint8
		if op, err = c.r.ReadInt8(); err == nil {
			e.BoolOp.Op = asr.BoolOp(op)
			if e.BoolOp.Left, err = c.readExpr(); err == nil {
				e.BoolOp.Right, err = c.readExpr()
			}
		}
	case asr.ExArrayRef:
		if e.ArrayRef.Array, err = c.readSymbolRef(); err == nil {
			e.ArrayRef.Indices, err = c.readExprList()
		}
	case asr.ExArrayInitializer:
		e.ArrayInit.Items, err = c.readExprList()
	case asr.ExArraySize:
		if e.ArraySize.Array, err = c.readExpr(); err == nil {
			e.ArraySize.Dim, err = c.readExpr()
		}
	case asr.ExArrayBound:
		var bk uint8
		if bk, err = c.r.ReadInt8(); err == nil {
			e.ArrayBound.Kind = asr.ArrayBoundKind(bk)
			if e.ArrayBound.Array, err = c.readExpr(); err == nil {
				e.ArrayBound.Dim, err = c.readExpr()
			}
		}
	case asr.ExArrayReshape:
		if e.ArrayReshape.Array, err = c.readExpr(); err == nil {
			e.ArrayReshape.Shape, err = c.readExpr()
		}
	case asr.ExDerivedRef:
		if e.DerivedRef.Base, err = c.readExpr(); err == nil {
			e.DerivedRef.Member, err = c.readSymbolRef()
		}
	case asr.ExImpliedDoLoop:
		if e.ImpliedDo.Items, err = c.readExprList(); err == nil {
			if e.ImpliedDo.Var, err = c.readSymbolRef(); err == nil {
				if e.ImpliedDo.Start, err = c.readExpr(); err == nil {
					if e.ImpliedDo.End, err = c.readExpr(); err == nil {
						e.ImpliedDo.Step, err = c.readExpr()
					}
				}
			}
		}
	case asr.ExImplicitCast, asr.ExExplicitCast:
		var ck uint8
		if ck, err = c.r.ReadInt8(); err == nil {
			var operand asr.ExprID
			operand, err = c.readExpr()
			cast := asr.CastExpr{Kind: asr.CastKind(ck), Operand: operand}
			if kind == asr.ExImplicitCast {
				e.ImplicitCast = cast
			} else {
				e.ExplicitCast = cast
			}
		}
	case asr.ExStrOp:
		var op uint8
		if op, err = c.r.ReadInt8(); err == nil {
			e.StrOpExpr.Op = asr.StrOp(op)
			if e.StrOpExpr.Left, err = c.readExpr(); err == nil {
				e.StrOpExpr.Right, err = c.readExpr()
			}
		}
	case asr.ExStr:
		e.Str.Value, err = c.r.ReadString()
	case asr.ExConstantInteger:
		e.ConstInt.Value, err = c.r.ReadInt64()
	case asr.ExConstantReal:
		var s string
		if s, err = c.r.ReadString(); err == nil {
			e.ConstReal.Value, err = parseHexFloat(s)
		}
	case asr.ExConstantLogical:
		e.ConstLogical.Value, err = c.r.ReadBool()
	case asr.ExConstantComplex:
		var rs, is string
		if rs, err = c.r.ReadString(); err == nil {
			if e.ConstComplex.Real, err = parseHexFloat(rs); err == nil {
				if is, err = c.r.ReadString(); err == nil {
					e.ConstComplex.Imag, err = parseHexFloat(is)
				}
			}
		}
	default:
		err = fmt.Errorf("unknown expr kind %d", kind)
	}
	if err != nil {
		return asr.NoExprID, err
	}
	return c.u.NewExpr(e), nil
}

func (c *readerCtx) readStmtList() ([]asr.StmtID, error) {
	n, err := c.r.ReadInt64()
	if err != nil {
		return nil, err
	}
	ids := make([]asr.StmtID, n)
	for i := range ids {
		if ids[i], err = c.readStmt(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (c *readerCtx) readStmt() (asr.StmtID, error) {
	present, err := c.r.ReadBool()
	if err != nil {
		return asr.NoStmtID, err
	}
	if !present {
		return asr.NoStmtID, nil
	}
	kindByte, err := c.r.ReadInt8()
	if err != nil {
		return asr.NoStmtID, err
	}
	kind := asr.StmtKind(kindByte)
	label, err := c.r.ReadString()
	if err != nil {
		return asr.NoStmtID, err
	}

	s := asr.Stmt{Kind: kind, Label: label}
	switch kind {
	case asr.StAssignment:
		if s.Assignment.Target, err = c.readExpr(); err == nil {
			s.Assignment.Value, err = c.readExpr()
		}
	case asr.StIf:
		if s.If.Cond, err = c.readExpr(); err == nil {
			if s.If.Then, err = c.readStmtList(); err == nil {
				s.If.Else, err = c.readStmtList()
			}
		}
	case asr.StWhileLoop:
		if s.WhileLoop.Cond, err = c.readExpr(); err == nil {
			s.WhileLoop.Body, err = c.readStmtList()
		}
	case asr.StDoLoop:
		if s.DoLoop.Var, err = c.readSymbolRef(); err == nil {
			if s.DoLoop.Start, err = c.readExpr(); err == nil {
				if s.DoLoop.End, err = c.readExpr(); err == nil {
					if s.DoLoop.Step, err = c.readExpr(); err == nil {
						s.DoLoop.Body, err = c.readStmtList()
					}
				}
			}
		}
	case asr.StDoConcurrentLoop:
		if s.DoConc.Var, err = c.readSymbolRef(); err == nil {
			if s.DoConc.Start, err = c.readExpr(); err == nil {
				if s.DoConc.End, err = c.readExpr(); err == nil {
					s.DoConc.Body, err = c.readStmtList()
				}
			}
		}
	case asr.StSelect:
		if s.Select.Test, err = c.readExpr(); err == nil {
			var n int64
			if n, err = c.r.ReadInt64(); err == nil {
				arms := make([]asr.CaseArm, n)
				for i := range arms {
					if arms[i], err = c.readCaseArm(); err != nil {
						break
					}
				}
				if err == nil {
					s.Select.Arms = arms
					s.Select.Default, err = c.readStmtList()
				}
			}
		}
	case asr.StSubroutineCall:
		if s.Call.Callee, err = c.readSymbolRef(); err == nil {
			s.Call.Args, err = c.readExprList()
		}
	case asr.StPrint:
		if s.Print.Format, err = c.readExpr(); err == nil {
			s.Print.Args, err = c.readExprList()
		}
	case asr.StStop, asr.StErrorStop:
		s.Stop.Code, err = c.readExpr()
	case asr.StReturn:
		// no payload
	case asr.StExit:
		s.Exit.Label, err = c.r.ReadString()
	case asr.StCycle:
		s.Cycle.Label, err = c.r.ReadString()
	case asr.StGoTo, asr.StGoToTarget:
		s.GoTo.Target, err = c.r.ReadString()
	case asr.StAssert:
		if s.Assert.Cond, err = c.readExpr(); err == nil {
			s.Assert.Msg, err = c.readExpr()
		}
	case asr.StAllocate, asr.StDeallocate:
		s.Alloc.Targets, err = c.readExprList()
	default:
		err = fmt.Errorf("unknown stmt kind %d", kind)
	}
	if err != nil {
		return asr.NoStmtID, err
	}
	return c.u.NewStmt(s), nil
}

func (c *readerCtx) readCaseArm() (asr.CaseArm, error) {
	n, err := c.r.ReadInt64()
	if err != nil {
		return asr.CaseArm{}, err
	}
	patterns := make([]asr.CasePattern, n)
	for i := range patterns {
		kindByte, err := c.r.ReadInt8()
		if err != nil {
			return asr.CaseArm{}, err
		}
		p := asr.CasePattern{Kind: asr.CasePatternKind(kindByte)}
		if p.Value, err = c.readExpr(); err != nil {
			return asr.CaseArm{}, err
		}
		if p.Low, err = c.readExpr(); err != nil {
			return asr.CaseArm{}, err
		}
		if p.High, err = c.readExpr(); err != nil {
			return asr.CaseArm{}, err
		}
		patterns[i] = p
	}
	body, err := c.readStmtList()
	if err != nil {
		return asr.CaseArm{}, err
	}
	return asr.CaseArm{Patterns: patterns, Body: body}, nil
}
