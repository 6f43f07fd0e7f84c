package parser

import (
	"fortasr/internal/ast"
	"fortasr/internal/source"
	"fortasr/internal/token"
)

// parseFile is the entry production: a sequence of top-level items until
// EOF. Fortran allows a bare main program with no PROGRAM header; we only
// support the explicit form here, matching spec scope.
func (p *parser) parseFile() {
	p.skipBlank()
	for !p.atEOF() {
		start := p.pos
		item, ok := p.parseItem()
		if ok {
			p.file.Items = append(p.file.Items, item)
		}
		p.skipBlank()
		if p.pos == start {
			// Nothing was consumed (unrecoverable token); force progress.
			p.advance()
			p.skipBlank()
		}
	}
}

func (p *parser) parseItem() (ast.ItemID, bool) {
	switch {
	case p.kw("program"):
		return p.parseProgram()
	case p.kw("module"):
		return p.parseModule()
	case p.kw("subroutine"):
		return p.parseProc(false, false)
	case p.kw("function"), p.functionWithPrefix():
		return p.parseProc(true, false)
	case p.kw("type"):
		return p.parseDerivedType()
	case p.kw("use"):
		return p.parseUse()
	case p.kw("interface"):
		return p.parseInterface()
	default:
		p.errf("expected a top-level program, module, or procedure, got %q", p.cur().Text)
		p.recoverToStmtEnd()
		return ast.NoItemID, false
	}
}

// functionWithPrefix recognizes "integer function foo(...)" etc: a type
// spec directly preceding the FUNCTION keyword on the same statement.
func (p *parser) functionWithPrefix() bool {
	if !p.isTypeKeyword(p.cur()) {
		return false
	}
	i := 1
	if p.peekAt(i).Kind == token.LParen {
		depth := 0
		for {
			k := p.peekAt(i).Kind
			if k == token.LParen {
				depth++
			} else if k == token.RParen {
				depth--
				i++
				if depth == 0 {
					break
				}
				continue
			} else if k == token.EOF || k == token.NewStmt {
				return false
			}
			i++
		}
	}
	return p.peekAt(i).IsKeyword("function")
}

func (p *parser) isTypeKeyword(t token.Token) bool {
	return t.KeywordIn("integer", "real", "complex", "logical", "character")
}

func (p *parser) parseProgram() (ast.ItemID, bool) {
	start := p.cur().Span
	p.advance() // "program"
	name := p.identName()
	p.endOfStmt()

	var decls []ast.DeclID
	p.parseSpecificationPart(&decls)

	var body []ast.StmtID
	var nested []ast.ItemID
	p.parseExecutionAndContains(&body, &nested)

	p.expectKw("end")
	p.optKw("program")
	p.optIdentMatching(name)
	p.endOfStmt()

	id := p.b.AddItem(ast.Item{
		Kind: ast.ItemProgram,
		Span: spanTo(start, p.lastSpan()),
		Name: name,
		Program: ast.ProgramItem{Decls: decls, Nested: nested, Body: body},
	})
	return id, true
}

func (p *parser) parseModule() (ast.ItemID, bool) {
	start := p.cur().Span
	p.advance() // "module"
	name := p.identName()
	p.endOfStmt()

	var decls []ast.DeclID
	p.parseSpecificationPart(&decls)

	var nested []ast.ItemID
	if p.kw("contains") {
		p.advance()
		p.endOfStmt()
		nested = p.parseNestedProcs()
	}

	p.expectKw("end")
	p.optKw("module")
	p.optIdentMatching(name)
	p.endOfStmt()

	id := p.b.AddItem(ast.Item{
		Kind: ast.ItemModule,
		Span: spanTo(start, p.lastSpan()),
		Name: name,
		Module: ast.ModuleItem{Decls: decls, Nested: nested},
	})
	return id, true
}

// parseProc parses a SUBROUTINE or FUNCTION definition. isFunc selects
// which; isInterfaceBody suppresses the body/contains parse for a
// prototype declared inside an INTERFACE block.
func (p *parser) parseProc(isFunc, isInterfaceBody bool) (ast.ItemID, bool) {
	start := p.cur().Span
	var resultType ast.TypeID = ast.NoTypeID
	if p.isTypeKeyword(p.cur()) {
		resultType = p.parseTypeSpec()
	}
	if isFunc {
		p.expectKw("function")
	} else {
		p.expectKw("subroutine")
	}
	name := p.identName()

	var args []source.StringID
	if p.cur().Kind == token.LParen {
		p.advance()
		for p.cur().Kind != token.RParen && !p.atEOF() {
			args = append(args, p.identName())
			if p.cur().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RParen, "')'")
	}

	var resultName source.StringID = source.NoStringID
	if isFunc && p.kw("result") {
		p.advance()
		p.expect(token.LParen, "'('")
		resultName = p.identName()
		p.expect(token.RParen, "')'")
	}
	var bindName source.StringID = source.NoStringID
	if p.kw("bind") {
		bindName = p.parseBindClause()
	}
	p.endOfStmt()

	proc := ast.ProcItem{Args: args, BindName: bindName}
	if isFunc {
		proc.ReturnName = resultName
		proc.ResultType = resultType
	}

	if isInterfaceBody {
		proc.IsExternal = true
		p.skipToEndOfProc(isFunc)
		kind := ast.ItemSubroutine
		if isFunc {
			kind = ast.ItemFunction
		}
		return p.b.AddItem(ast.Item{Kind: kind, Span: spanTo(start, p.lastSpan()), Name: name, Proc: proc}), true
	}

	p.parseSpecificationPart(&proc.Decls)
	p.parseExecutionAndContains(&proc.Body, &proc.Nested)

	p.expectKw("end")
	if isFunc {
		p.optKw("function")
	} else {
		p.optKw("subroutine")
	}
	p.optIdentMatching(name)
	p.endOfStmt()

	kind := ast.ItemSubroutine
	if isFunc {
		kind = ast.ItemFunction
	}
	return p.b.AddItem(ast.Item{Kind: kind, Span: spanTo(start, p.lastSpan()), Name: name, Proc: proc}), true
}

// skipToEndOfProc consumes tokens up through the matching END statement
// for an interface-body prototype, which has no executable body.
func (p *parser) skipToEndOfProc(isFunc bool) {
	for !p.atEOF() {
		p.skipBlank()
		if p.kw("end") {
			p.advance()
			if isFunc {
				p.optKw("function")
			} else {
				p.optKw("subroutine")
			}
			if p.cur().Kind == token.Ident {
				p.advance()
			}
			p.endOfStmt()
			return
		}
		p.recoverToStmtEnd()
	}
}

func (p *parser) parseNestedProcs() []ast.ItemID {
	var out []ast.ItemID
	for !p.atEOF() && !p.kwIn("end") {
		isFunc := p.kw("function") || p.functionWithPrefix()
		if !isFunc && !p.kw("subroutine") {
			p.errf("expected a subroutine or function definition, got %q", p.cur().Text)
			p.recoverToStmtEnd()
			continue
		}
		if id, ok := p.parseProc(isFunc, false); ok {
			out = append(out, id)
		}
		p.skipBlank()
	}
	return out
}

func (p *parser) parseDerivedType() (ast.ItemID, bool) {
	start := p.cur().Span
	p.advance() // "type"
	if p.cur().Kind == token.ColonColon {
		p.advance()
	}
	name := p.identName()
	p.endOfStmt()

	var fields []ast.DeclID
	for !p.atEOF() && !p.kw("end") {
		if d, ok := p.parseDecl(); ok {
			fields = append(fields, d)
		} else {
			p.recoverToStmtEnd()
		}
		p.skipBlank()
	}
	p.expectKw("end")
	p.optKw("type")
	p.optIdentMatching(name)
	p.endOfStmt()

	id := p.b.AddItem(ast.Item{
		Kind:        ast.ItemDerivedType,
		Span:        spanTo(start, p.lastSpan()),
		Name:        name,
		DerivedType: ast.DerivedTypeItem{Fields: fields},
	})
	return id, true
}

func (p *parser) parseUse() (ast.ItemID, bool) {
	start := p.cur().Span
	p.advance() // "use"
	modName := p.identName()

	var only []ast.UseOnly
	if p.cur().Kind == token.Comma {
		p.advance()
		p.expectKw("only")
		p.expect(token.Colon, "':'")
		for {
			local := p.identName()
			orig := local
			if p.cur().Kind == token.Arrow {
				p.advance()
				orig = p.identName()
			}
			only = append(only, ast.UseOnly{LocalName: local, OriginalName: orig})
			if p.cur().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	p.endOfStmt()

	id := p.b.AddItem(ast.Item{
		Kind: ast.ItemUse,
		Span: spanTo(start, p.lastSpan()),
		Name: modName,
		Use:  ast.UseItem{ModuleName: modName, OnlyNames: only},
	})
	return id, true
}

func (p *parser) parseInterface() (ast.ItemID, bool) {
	start := p.cur().Span
	p.advance() // "interface"
	var generic source.StringID = source.NoStringID
	if p.cur().Kind == token.Ident {
		generic = p.identName()
	}
	p.endOfStmt()

	var procs []ast.ItemID
	for !p.atEOF() && !p.kw("end") {
		isFunc := p.kw("function") || p.functionWithPrefix()
		if p.kw("module") && p.kwAt(1, "procedure") {
			p.advance()
			p.advance()
			p.identName()
			p.endOfStmt()
			continue
		}
		if !isFunc && !p.kw("subroutine") {
			p.errf("expected a procedure prototype in interface block, got %q", p.cur().Text)
			p.recoverToStmtEnd()
			continue
		}
		if id, ok := p.parseProc(isFunc, true); ok {
			procs = append(procs, id)
		}
		p.skipBlank()
	}
	p.expectKw("end")
	p.optKw("interface")
	p.endOfStmt()

	id := p.b.AddItem(ast.Item{
		Kind:      ast.ItemInterface,
		Span:      spanTo(start, p.lastSpan()),
		Interface: ast.InterfaceItem{GenericName: generic, Procs: procs},
	})
	return id, true
}

func (p *parser) parseBindClause() source.StringID {
	p.advance() // "bind"
	p.expect(token.LParen, "'('")
	p.identName() // "c"
	name := source.NoStringID
	if p.cur().Kind == token.Comma {
		p.advance()
		p.identName() // "name"
		p.expect(token.Assign, "'='")
		t := p.expect(token.StringLit, "a string literal")
		name = p.b.Name(unquote(t.Text))
	}
	p.expect(token.RParen, "')'")
	return name
}

// parseExecutionAndContains parses the execution part of a program or
// procedure body, followed by an optional "contains" block of internal
// procedures, stopping at the enclosing "end".
func (p *parser) parseExecutionAndContains(body *[]ast.StmtID, nested *[]ast.ItemID) {
	*body = p.parseStmtList(func() bool { return p.kw("end") || p.kw("contains") })
	if p.kw("contains") {
		p.advance()
		p.endOfStmt()
		*nested = p.parseNestedProcs()
	}
}

// endOfStmt consumes one NewStmt (or tolerates EOF), the normal statement
// terminator.
func (p *parser) endOfStmt() {
	if p.cur().Kind == token.NewStmt {
		p.advance()
	} else if !p.atEOF() {
		p.errf("expected end of statement, got %q", p.cur().Text)
		p.recoverToStmtEnd()
		return
	}
	p.skipBlank()
}

func (p *parser) optKw(s string) {
	if p.kw(s) {
		p.advance()
	}
}

func (p *parser) optIdentMatching(source.StringID) {
	if p.cur().Kind == token.Ident {
		p.advance()
	}
}

func (p *parser) lastSpan() source.Span {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}

func spanTo(start, end source.Span) source.Span {
	return source.Span{File: start.File, Start: start.Start, End: end.End}
}
