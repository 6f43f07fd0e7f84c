package lower

import (
	"fortasr/internal/ast"
	"fortasr/internal/asr"
)

// baseTypeKind maps a declared type-spec's base name to the corresponding
// asr.TypeKind, or ok=false for a derived-type name (resolved separately
// against the enclosing scope).
func baseTypeKind(name string) (asr.TypeKind, bool) {
	switch name {
	case "integer":
		return asr.TyInteger, true
	case "real":
		return asr.TyReal, true
	case "complex":
		return asr.TyComplex, true
	case "logical":
		return asr.TyLogical, true
	case "character":
		return asr.TyCharacter, true
	default:
		return asr.TyInvalid, false
	}
}

func defaultWidth(k asr.TypeKind) int {
	switch k {
	case asr.TyComplex:
		return 8
	case asr.TyCharacter:
		return 1
	default:
		return 4
	}
}

// lowerTypeSpec builds the asr.Type a declaration's TypeSpec denotes, not
// yet combined with any per-name array dimensions (those are layered on
// in lowerDeclName).
func (l *lowerer) lowerTypeSpec(ts *ast.TypeSpec, scope *asr.SymbolTable) (asr.TypeID, error) {
	baseName := l.name(ts.BaseName)
	kind, ok := baseTypeKind(baseName)
	width := defaultWidth(kind)
	if ts.KindExpr != ast.NoExprID {
		ex, err := l.lowerExpr(ts.KindExpr, scope)
		if err != nil {
			return asr.NoTypeID, err
		}
		if ce := l.unit.Expr(ex); ce.Kind == asr.ExConstantInteger {
			width = int(ce.ConstInt.Value)
		}
	}
	if !ok {
		sym, found := scope.Resolve(baseName)
		if !found || sym.Kind != asr.SymDerivedType {
			return asr.NoTypeID, errf(ts.Span, "unknown type %q", baseName)
		}
		return l.unit.NewType(asr.Type{Kind: asr.TyDerived, Derived: sym.ID}), nil
	}
	dims, err := l.lowerDims(ts.Dims, scope)
	if err != nil {
		return asr.NoTypeID, err
	}
	return l.unit.NewType(asr.Type{Kind: kind, Width: width, Dims: dims}), nil
}

func (l *lowerer) lowerDims(dims []ast.DimSpec, scope *asr.SymbolTable) ([]asr.Dim, error) {
	if len(dims) == 0 {
		return nil, nil
	}
	out := make([]asr.Dim, len(dims))
	for i, d := range dims {
		var lo, length asr.ExprID = asr.NoExprID, asr.NoExprID
		var err error
		if d.Lower != ast.NoExprID {
			if lo, err = l.lowerExpr(d.Lower, scope); err != nil {
				return nil, err
			}
		}
		if d.Length != ast.NoExprID {
			if length, err = l.lowerExpr(d.Length, scope); err != nil {
				return nil, err
			}
		}
		out[i] = asr.Dim{Lower: lo, Length: length}
	}
	return out, nil
}

func attrIntent(attrs ast.DeclAttrs) asr.Intent {
	switch {
	case attrs&ast.AttrIntentInOut != 0:
		return asr.IntentInOut
	case attrs&ast.AttrIntentIn != 0:
		return asr.IntentIn
	case attrs&ast.AttrIntentOut != 0:
		return asr.IntentOut
	default:
		return asr.IntentUnspecified
	}
}

func attrStorage(attrs ast.DeclAttrs) asr.Storage {
	switch {
	case attrs&ast.AttrParameter != 0:
		return asr.StorageParameter
	case attrs&ast.AttrSave != 0:
		return asr.StorageSave
	default:
		return asr.StorageDefault
	}
}

func attrAccess(attrs ast.DeclAttrs) asr.Access {
	if attrs&ast.AttrPrivate != 0 {
		return asr.AccessPrivate
	}
	return asr.AccessPublic
}

// declareVars processes one Decl (a type-spec plus a list of names) and
// defines each as a Variable in scope. inArgList marks declarations in a
// procedure's specification part, where intent attributes are accepted
// here (declareProc then rejects them on non-arguments); elsewhere they
// are rejected.
func (l *lowerer) declareVars(d *ast.Decl, scope *asr.SymbolTable, inArgList bool) error {
	baseType, err := l.lowerTypeSpec(l.b.Type(d.Type), scope)
	if err != nil {
		return err
	}
	base := l.b.Type(d.Type)
	for _, dn := range d.Names {
		name := l.name(dn.Name)
		typ := baseType
		if len(dn.Dims) > 0 {
			dims, derr := l.lowerDims(dn.Dims, scope)
			if derr != nil {
				return derr
			}
			bt := *l.unit.Type(baseType)
			bt.Dims = dims
			typ = l.unit.NewType(bt)
		}
		intent := attrIntent(base.Attrs)
		if intent != asr.IntentUnspecified && !inArgList {
			return errf(dn.Span, "intent attribute on non-argument %q", name)
		}
		init := asr.NoExprID
		if dn.Init != ast.NoExprID {
			if init, err = l.lowerExpr(dn.Init, scope); err != nil {
				return err
			}
		}
		sym := asr.NewVariable(asr.NoSymbolID, name, scope, intent, attrStorage(base.Attrs), typ)
		sym.Variable.Init = init
		sym.Variable.Access = attrAccess(base.Attrs)
		if base.Attrs&ast.AttrBindC != 0 {
			sym.Variable.BindName = l.name(base.BindName)
		}
		id := l.unit.NewSymbol(*sym)
		if !scope.DefineOrShadow(name, l.unit.Symbol(id)) {
			return errf(dn.Span, "%q already defined", name)
		}
	}
	return nil
}
