package parser

import (
	"fortasr/internal/ast"
	"fortasr/internal/token"
)

// parseSpecificationPart consumes the declaration section of a program,
// module, or procedure: USE statements, IMPLICIT NONE, and type
// declarations, in any order, until a statement that doesn't belong to
// the specification part is seen.
func (p *parser) parseSpecificationPart(decls *[]ast.DeclID) {
	for !p.atEOF() {
		switch {
		case p.kw("use"):
			// A nested USE inside a procedure/program is parsed (so its
			// syntax errors are reported) and then discarded: the Item is
			// not attached to the enclosing item or the file, so
			// internal/lower never imports its names. It is not a Decl.
			if _, ok := p.parseUse(); !ok {
				p.recoverToStmtEnd()
			}
		case p.kw("implicit"):
			p.advance()
			p.expectKw("none")
			p.endOfStmt()
		case p.isTypeKeyword(p.cur()), p.kw("type") && p.peekAt(1).Kind == token.LParen:
			if d, ok := p.parseDecl(); ok {
				*decls = append(*decls, d)
			} else {
				p.recoverToStmtEnd()
			}
		case p.kwIn("external", "intrinsic"):
			p.advance()
			if p.cur().Kind == token.ColonColon {
				p.advance()
			}
			for {
				p.identName()
				if p.cur().Kind == token.Comma {
					p.advance()
					continue
				}
				break
			}
			p.endOfStmt()
		default:
			return
		}
		p.skipBlank()
	}
}

// parseDecl parses one type-declaration statement:
// TypeSpec [, attr]... "::" name[(dims)][ = init] [, name...]
func (p *parser) parseDecl() (ast.DeclID, bool) {
	start := p.cur().Span
	typeID := p.parseTypeSpec()
	if p.cur().Kind == token.ColonColon {
		p.advance()
	}

	var names []ast.DeclName
	for {
		nstart := p.cur().Span
		name := p.identName()
		var dims []ast.DimSpec
		if p.cur().Kind == token.LParen {
			dims = p.parseDimList()
		}
		init := ast.NoExprID
		if p.cur().Kind == token.Assign {
			p.advance()
			init = p.parseExpr()
		}
		names = append(names, ast.DeclName{Name: name, Span: spanTo(nstart, p.lastSpan()), Dims: dims, Init: init})
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.endOfStmt()

	id := p.b.AddDecl(ast.Decl{Span: spanTo(start, p.lastSpan()), Type: typeID, Names: names})
	return id, true
}

// parseTypeSpec parses "integer(kind=8)", "character(len=*)",
// "type(foo)", plus any attribute clauses up to (but not including) the
// "::" separator.
func (p *parser) parseTypeSpec() ast.TypeID {
	start := p.cur().Span
	spec := ast.TypeSpec{Span: start}

	if p.kw("type") {
		p.advance()
		p.expect(token.LParen, "'('")
		spec.BaseName = p.identName()
		p.expect(token.RParen, "')'")
	} else {
		baseTok := p.advance()
		spec.BaseName = p.b.Name(baseTok.Text)
		if p.cur().Kind == token.LParen {
			p.advance()
			for p.cur().Kind != token.RParen && !p.atEOF() {
				// "kind=expr" / "len=expr" / a bare kind expr / "*" assumed length
				if p.cur().Kind == token.Ident && p.peekAt(1).Kind == token.Assign {
					kw := p.cur().Text
					p.advance()
					p.advance()
					val := p.parseExpr()
					if isCaseless(kw, "len") {
						spec.CharLen = val
					} else {
						spec.KindExpr = val
					}
				} else if p.cur().Kind == token.Star {
					p.advance()
					spec.CharLen = ast.NoExprID
				} else {
					spec.KindExpr = p.parseExpr()
				}
				if p.cur().Kind == token.Comma {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.RParen, "')'")
		}
	}

	for p.cur().Kind == token.Comma {
		p.advance()
		p.parseAttr(&spec)
	}

	spec.Span = spanTo(start, p.lastSpan())
	return p.b.AddType(spec)
}

func (p *parser) parseAttr(spec *ast.TypeSpec) {
	switch {
	case p.kw("dimension"):
		p.advance()
		spec.Dims = p.parseDimList()
		spec.Attrs |= ast.AttrDimension
	case p.kw("intent"):
		p.advance()
		p.expect(token.LParen, "'('")
		switch {
		case p.kw("inout"):
			spec.Attrs |= ast.AttrIntentInOut
			p.advance()
		case p.kw("in"):
			spec.Attrs |= ast.AttrIntentIn
			p.advance()
		case p.kw("out"):
			spec.Attrs |= ast.AttrIntentOut
			p.advance()
		default:
			p.errf("expected in/out/inout, got %q", p.cur().Text)
		}
		p.expect(token.RParen, "')'")
	case p.kw("parameter"):
		spec.Attrs |= ast.AttrParameter
		p.advance()
	case p.kw("save"):
		spec.Attrs |= ast.AttrSave
		p.advance()
	case p.kw("pointer"):
		spec.Attrs |= ast.AttrPointer
		p.advance()
	case p.kw("allocatable"):
		spec.Attrs |= ast.AttrAllocatable
		p.advance()
	case p.kw("public"):
		spec.Attrs |= ast.AttrPublic
		p.advance()
	case p.kw("private"):
		spec.Attrs |= ast.AttrPrivate
		p.advance()
	case p.kw("external"):
		spec.Attrs |= ast.AttrExternal
		p.advance()
	case p.kw("intrinsic"):
		spec.Attrs |= ast.AttrIntrinsic
		p.advance()
	case p.kw("optional"):
		spec.Attrs |= ast.AttrOptional
		p.advance()
	case p.kw("value"):
		spec.Attrs |= ast.AttrValue
		p.advance()
	case p.kw("target"):
		spec.Attrs |= ast.AttrTarget
		p.advance()
	case p.kw("bind"):
		spec.Attrs |= ast.AttrBindC
		spec.BindName = p.parseBindClause()
	default:
		p.errf("unknown declaration attribute %q", p.cur().Text)
		p.advance()
	}
}

// parseDimList parses "(d1, d2, ...)" where each di is "expr",
// "lo:hi", ":" (assumed-shape), or "*"/"lo:*" (assumed-size).
func (p *parser) parseDimList() []ast.DimSpec {
	p.expect(token.LParen, "'('")
	var dims []ast.DimSpec
	for p.cur().Kind != token.RParen && !p.atEOF() {
		var d ast.DimSpec
		switch {
		case p.cur().Kind == token.Colon:
			p.advance()
		case p.cur().Kind == token.Star:
			p.advance()
		default:
			first := p.parseExpr()
			if p.cur().Kind == token.Colon {
				p.advance()
				d.Lower = first
				if p.cur().Kind == token.Star {
					p.advance()
				} else if p.cur().Kind != token.Comma && p.cur().Kind != token.RParen {
					d.Length = p.parseExpr()
				}
			} else {
				d.Length = first
			}
		}
		dims = append(dims, d)
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "')'")
	return dims
}

func isCaseless(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
