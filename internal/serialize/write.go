package serialize

import (
	"fmt"
	"io"

	"fortasr/internal/asr"
)

// writerCtx carries the state a single WriteUnit call threads through the
// recursive tree dump: the unit being written and, for every symbol
// reachable from the global table, which table it is defined in (so a
// reference elsewhere in the tree can emit the (symtab_id, tag, name)
// triple spec.md §4.5 calls for).
type writerCtx struct {
	u        *asr.TranslationUnit
	w        Writer
	ownerTab map[asr.SymbolID]*asr.SymbolTable
}

// WriteUnit writes u to out in the given encoding: a header, then the
// global symbol table's full contents, recursively.
func WriteUnit(out io.Writer, enc Encoding, u *asr.TranslationUnit) error {
	if err := WriteHeader(out, enc); err != nil {
		return err
	}
	ctx := &writerCtx{u: u, w: NewWriter(out, enc), ownerTab: map[asr.SymbolID]*asr.SymbolTable{}}
	u.WalkSymbolTables(func(tab *asr.SymbolTable) {
		tab.Each(func(_ string, sym *asr.Symbol) {
			ctx.ownerTab[sym.ID] = tab
		})
	})
	return ctx.writeSymbolTable(u.Global)
}

func (c *writerCtx) writeSymbolTable(tab *asr.SymbolTable) error {
	if err := c.w.WriteInt64(int64(tab.ID)); err != nil {
		return err
	}
	names := tab.Names()
	if err := c.w.WriteInt64(int64(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		sym, _ := tab.Lookup(name)
		if err := c.writeSymbolDef(sym); err != nil {
			return fmt.Errorf("serialize: write symbol %q: %w", name, err)
		}
	}
	return nil
}

func (c *writerCtx) writeSymbolDef(sym *asr.Symbol) error {
	if err := c.w.WriteInt8(uint8(sym.Kind)); err != nil {
		return err
	}
	if err := c.w.WriteString(sym.Name); err != nil {
		return err
	}
	switch sym.Kind {
	case asr.SymProgram:
		if err := c.writeStmtList(sym.Program.Body); err != nil {
			return err
		}
		return c.writeSymbolTable(sym.Program.Table)
	case asr.SymModule:
		return c.writeSymbolTable(sym.Module.Table)
	case asr.SymSubroutine, asr.SymFunction:
		return c.writeProc(sym)
	case asr.SymGenericProcedure:
		if err := c.w.WriteInt64(int64(len(sym.Generic.Procs))); err != nil {
			return err
		}
		for _, id := range sym.Generic.Procs {
			if err := c.writeSymbolRef(id); err != nil {
				return err
			}
		}
		return nil
	case asr.SymDerivedType:
		return c.writeSymbolTable(sym.DerivedTyp.Table)
	case asr.SymVariable:
		return c.writeVariable(sym)
	case asr.SymExternalSymbol:
		if err := c.w.WriteString(sym.External.ModuleName); err != nil {
			return err
		}
		return c.w.WriteString(sym.External.OriginalName)
	default:
		return fmt.Errorf("serialize: unknown symbol kind %v", sym.Kind)
	}
}

func (c *writerCtx) writeProc(sym *asr.Symbol) error {
	p := sym.Proc
	if err := c.w.WriteString(p.BindName); err != nil {
		return err
	}
	if err := c.w.WriteBool(p.IsExternal); err != nil {
		return err
	}
	if err := c.w.WriteBool(p.IsExported); err != nil {
		return err
	}
	if err := c.w.WriteInt64(int64(len(p.Args))); err != nil {
		return err
	}
	for _, id := range p.Args {
		if err := c.writeSymbolRef(id); err != nil {
			return err
		}
	}
	if sym.Kind == asr.SymFunction {
		if err := c.writeSymbolRef(p.ReturnVar); err != nil {
			return err
		}
		if err := c.writeType(p.ResultType); err != nil {
			return err
		}
	}
	if err := c.writeStmtList(p.Body); err != nil {
		return err
	}
	return c.writeSymbolTable(p.Table)
}

func (c *writerCtx) writeVariable(sym *asr.Symbol) error {
	v := sym.Variable
	if err := c.w.WriteInt8(uint8(v.Intent)); err != nil {
		return err
	}
	if err := c.w.WriteInt8(uint8(v.Storage)); err != nil {
		return err
	}
	if err := c.writeType(v.Type); err != nil {
		return err
	}
	if err := c.writeExpr(v.Init); err != nil {
		return err
	}
	if err := c.w.WriteInt8(uint8(v.Access)); err != nil {
		return err
	}
	return c.w.WriteString(v.BindName)
}

// writeSymbolRef emits a *reference* to an already (or not yet) defined
// symbol as the triple (symtab_id, variant_tag, name) spec.md §4.5
// describes — enough for a reader to re-find or park a shell for it.
func (c *writerCtx) writeSymbolRef(id asr.SymbolID) error {
	if err := c.w.WriteBool(id.IsValid()); err != nil {
		return err
	}
	if !id.IsValid() {
		return nil
	}
	sym := c.u.Symbol(id)
	tab, ok := c.ownerTab[id]
	if !ok {
		return fmt.Errorf("serialize: symbol %q has no owning table in this unit", sym.Name)
	}
	if err := c.w.WriteInt64(int64(tab.ID)); err != nil {
		return err
	}
	if err := c.w.WriteInt8(uint8(sym.Kind)); err != nil {
		return err
	}
	return c.w.WriteString(sym.Name)
}

func (c *writerCtx) writeType(id asr.TypeID) error {
	if err := c.w.WriteBool(id.IsValid()); err != nil {
		return err
	}
	if !id.IsValid() {
		return nil
	}
	t := c.u.Type(id)
	if err := c.w.WriteInt8(uint8(t.Kind)); err != nil {
		return err
	}
	if err := c.w.WriteInt64(int64(t.Width)); err != nil {
		return err
	}
	if err := c.w.WriteInt64(int64(len(t.Dims))); err != nil {
		return err
	}
	for _, d := range t.Dims {
		if err := c.writeExpr(d.Lower); err != nil {
			return err
		}
		if err := c.writeExpr(d.Length); err != nil {
			return err
		}
	}
	switch t.Kind {
	case asr.TyDerived:
		return c.writeSymbolRef(t.Derived)
	case asr.TyPointer, asr.TyConst, asr.TyList:
		return c.writeType(t.Elem)
	case asr.TyDict:
		if err := c.writeType(t.Key); err != nil {
			return err
		}
		return c.writeType(t.Value)
	case asr.TyTuple:
		return c.writeTypeList(t.Members)
	case asr.TyUnion, asr.TyEnum:
		if err := c.writeTypeList(t.Members); err != nil {
			return err
		}
		if err := c.w.WriteInt64(int64(len(t.Names))); err != nil {
			return err
		}
		for _, name := range t.Names {
			if err := c.w.WriteString(name); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (c *writerCtx) writeTypeList(ids []asr.TypeID) error {
	if err := c.w.WriteInt64(int64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := c.writeType(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *writerCtx) writeExprList(ids []asr.ExprID) error {
	if err := c.w.WriteInt64(int64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := c.writeExpr(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *writerCtx) writeExpr(id asr.ExprID) error {
	if err := c.w.WriteBool(id.IsValid()); err != nil {
		return err
	}
	if !id.IsValid() {
		return nil
	}
	e := c.u.Expr(id)
	if err := c.w.WriteInt8(uint8(e.Kind)); err != nil {
		return err
	}
	if err := c.writeType(e.Type); err != nil {
		return err
	}
	switch e.Kind {
	case asr.ExVar:
		return c.writeSymbolRef(e.Var.Symbol)
	case asr.ExFunctionCall:
		if err := c.writeSymbolRef(e.Call.Callee); err != nil {
			return err
		}
		return c.writeExprList(e.Call.Args)
	case asr.ExBinOp:
		if err := c.w.WriteInt8(uint8(e.BinOp.Op)); err != nil {
			return err
		}
		if err := c.writeExpr(e.BinOp.Left); err != nil {
			return err
		}
		return c.writeExpr(e.BinOp.Right)
	case asr.ExUnaryOp:
		if err := c.w.WriteInt8(uint8(e.UnaryOp.Op)); err != nil {
			return err
		}
		return c.writeExpr(e.UnaryOp.Operand)
	case asr.ExCompare:
		if err := c.w.WriteInt8(uint8(e.Compare.Op)); err != nil {
			return err
		}
		if err := c.writeExpr(e.Compare.Left); err != nil {
			return err
		}
		return c.writeExpr(e.Compare.Right)
	case asr.ExBoolOp:
		if err := c.w.WriteInt8(uint8(e.BoolOp.Op)); err != nil {
			return err
		}
		if err := c.writeExpr(e.BoolOp.Left); err != nil {
			return err
		}
		return c.writeExpr(e.BoolOp.Right)
	case asr.ExArrayRef:
		if err := c.writeSymbolRef(e.ArrayRef.Array); err != nil {
			return err
		}
		return c.writeExprList(e.ArrayRef.Indices)
	case asr.ExArrayInitializer:
		return c.writeExprList(e.ArrayInit.Items)
	case asr.ExArraySize:
		if err := c.writeExpr(e.ArraySize.Array); err != nil {
			return err
		}
		return c.writeExpr(e.ArraySize.Dim)
	case asr.ExArrayBound:
		if err := c.w.WriteInt8(uint8(e.ArrayBound.Kind)); err != nil {
			return err
		}
		if err := c.writeExpr(e.ArrayBound.Array); err != nil {
			return err
		}
		return c.writeExpr(e.ArrayBound.Dim)
	case asr.ExArrayReshape:
		if err := c.writeExpr(e.ArrayReshape.Array); err != nil {
			return err
		}
		return c.writeExpr(e.ArrayReshape.Shape)
	case asr.ExDerivedRef:
		if err := c.writeExpr(e.DerivedRef.Base); err != nil {
			return err
		}
		return c.writeSymbolRef(e.DerivedRef.Member)
	case asr.ExImpliedDoLoop:
		if err := c.writeExprList(e.ImpliedDo.Items); err != nil {
			return err
		}
		if err := c.writeSymbolRef(e.ImpliedDo.Var); err != nil {
			return err
		}
		if err := c.writeExpr(e.ImpliedDo.Start); err != nil {
			return err
		}
		if err := c.writeExpr(e.ImpliedDo.End); err != nil {
			return err
		}
		return c.writeExpr(e.ImpliedDo.Step)
	case asr.ExImplicitCast, asr.ExExplicitCast:
		cast := e.ImplicitCast
		if e.Kind == asr.ExExplicitCast {
			cast = e.ExplicitCast
		}
		if err := c.w.WriteInt8(uint8(cast.Kind)); err != nil {
			return err
		}
		return c.writeExpr(cast.Operand)
	case asr.ExStrOp:
		if err := c.w.WriteInt8(uint8(e.StrOpExpr.Op)); err != nil {
			return err
		}
		if err := c.writeExpr(e.StrOpExpr.Left); err != nil {
			return err
		}
		return c.writeExpr(e.StrOpExpr.Right)
	case asr.ExStr:
		return c.w.WriteString(e.Str.Value)
	case asr.ExConstantInteger:
		return c.w.WriteInt64(e.ConstInt.Value)
	case asr.ExConstantReal:
		return c.w.WriteString(fmt.Sprintf("%x", e.ConstReal.Value))
	case asr.ExConstantLogical:
		return c.w.WriteBool(e.ConstLogical.Value)
	case asr.ExConstantComplex:
		if err := c.w.WriteString(fmt.Sprintf("%x", e.ConstComplex.Real)); err != nil {
			return err
		}
		return c.w.WriteString(fmt.Sprintf("%x", e.ConstComplex.Imag))
	default:
		return fmt.Errorf("serialize: unknown expr kind %v", e.Kind)
	}
}

func (c *writerCtx) writeStmtList(ids []asr.StmtID) error {
	if err := c.w.WriteInt64(int64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := c.writeStmt(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *writerCtx) writeStmt(id asr.StmtID) error {
	if err := c.w.WriteBool(id.IsValid()); err != nil {
		return err
	}
	if !id.IsValid() {
		return nil
	}
	s := c.u.Stmt(id)
	if err := c.w.WriteInt8(uint8(s.Kind)); err != nil {
		return err
	}
	if err := c.w.WriteString(s.Label); err != nil {
		return err
	}
	switch s.Kind {
	case asr.StAssignment:
		if err := c.writeExpr(s.Assignment.Target); err != nil {
			return err
		}
		return c.writeExpr(s.Assignment.Value)
	case asr.StIf:
		if err := c.writeExpr(s.If.Cond); err != nil {
			return err
		}
		if err := c.writeStmtList(s.If.Then); err != nil {
			return err
		}
		return c.writeStmtList(s.If.Else)
	case asr.StWhileLoop:
		if err := c.writeExpr(s.WhileLoop.Cond); err != nil {
			return err
		}
		return c.writeStmtList(s.WhileLoop.Body)
	case asr.StDoLoop:
		if err := c.writeSymbolRef(s.DoLoop.Var); err != nil {
			return err
		}
		if err := c.writeExpr(s.DoLoop.Start); err != nil {
			return err
		}
		if err := c.writeExpr(s.DoLoop.End); err != nil {
			return err
		}
		if err := c.writeExpr(s.DoLoop.Step); err != nil {
			return err
		}
		return c.writeStmtList(s.DoLoop.Body)
	case asr.StDoConcurrentLoop:
		if err := c.writeSymbolRef(s.DoConc.Var); err != nil {
			return err
		}
		if err := c.writeExpr(s.DoConc.Start); err != nil {
			return err
		}
		if err := c.writeExpr(s.DoConc.End); err != nil {
			return err
		}
		return c.writeStmtList(s.DoConc.Body)
	case asr.StSelect:
		if err := c.writeExpr(s.Select.Test); err != nil {
			return err
		}
		if err := c.w.WriteInt64(int64(len(s.Select.Arms))); err != nil {
			return err
		}
		for _, arm := range s.Select.Arms {
			if err := c.writeCaseArm(arm); err != nil {
				return err
			}
		}
		return c.writeStmtList(s.Select.Default)
	case asr.StSubroutineCall:
		if err := c.writeSymbolRef(s.Call.Callee); err != nil {
			return err
		}
		return c.writeExprList(s.Call.Args)
	case asr.StPrint:
		if err := c.writeExpr(s.Print.Format); err != nil {
			return err
		}
		return c.writeExprList(s.Print.Args)
	case asr.StStop, asr.StErrorStop:
		return c.writeExpr(s.Stop.Code)
	case asr.StReturn:
		return nil
	case asr.StExit:
		return c.w.WriteString(s.Exit.Label)
	case asr.StCycle:
		return c.w.WriteString(s.Cycle.Label)
	case asr.StGoTo, asr.StGoToTarget:
		return c.w.WriteString(s.GoTo.Target)
	case asr.StAssert:
		if err := c.writeExpr(s.Assert.Cond); err != nil {
			return err
		}
		return c.writeExpr(s.Assert.Msg)
	case asr.StAllocate, asr.StDeallocate:
		return c.writeExprList(s.Alloc.Targets)
	default:
		return fmt.Errorf("serialize: unknown stmt kind %v", s.Kind)
	}
}

func (c *writerCtx) writeCaseArm(arm asr.CaseArm) error {
	if err := c.w.WriteInt64(int64(len(arm.Patterns))); err != nil {
		return err
	}
	for _, p := range arm.Patterns {
		if err := c.w.WriteInt8(uint8(p.Kind)); err != nil {
			return err
		}
		if err := c.writeExpr(p.Value); err != nil {
			return err
		}
		if err := c.writeExpr(p.Low); err != nil {
			return err
		}
		if err := c.writeExpr(p.High); err != nil {
			return err
		}
	}
	return c.writeStmtList(arm.Body)
}
