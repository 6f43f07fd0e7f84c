package parser

import (
	"fortasr/internal/ast"
	"fortasr/internal/token"
)

// parseStmtList parses statements until stop() reports true or EOF,
// skipping blank statement separators between them.
func (p *parser) parseStmtList(stop func() bool) []ast.StmtID {
	var out []ast.StmtID
	p.skipBlank()
	for !p.atEOF() && !stop() {
		before := p.pos
		if id, ok := p.parseStmt(); ok {
			out = append(out, id)
		}
		p.skipBlank()
		if p.pos == before {
			p.advance()
			p.skipBlank()
		}
	}
	return out
}

func (p *parser) parseStmt() (ast.StmtID, bool) {
	start := p.cur().Span
	label := ""
	if p.cur().Kind == token.Label {
		label = p.advance().Text
	}

	var s ast.Stmt
	ok := true
	switch {
	case p.kw("if"):
		s, ok = p.parseIf()
	case p.kw("do") && p.kwAt(1, "while"):
		s, ok = p.parseWhileLoop()
	case p.kw("do") && p.kwAt(1, "concurrent"):
		s, ok = p.parseDoConcurrent()
	case p.kw("do"):
		s, ok = p.parseDoLoop()
	case p.kw("select"):
		s, ok = p.parseSelect()
	case p.kw("call"):
		s, ok = p.parseCallStmt()
	case p.kw("print"):
		s, ok = p.parsePrint()
	case p.kw("return"):
		p.advance()
		s = ast.Stmt{Kind: ast.StmtReturn}
	case p.kw("stop"):
		p.advance()
		s = ast.Stmt{Kind: ast.StmtStop, Stop: p.parseOptStopCode()}
	case p.kw("error") && p.kwAt(1, "stop"):
		p.advance()
		p.advance()
		s = ast.Stmt{Kind: ast.StmtErrorStop, ErrorStop: p.parseOptStopCode()}
	case p.kw("exit"):
		p.advance()
		s = ast.Stmt{Kind: ast.StmtExit, Exit: ast.LoopCtrlStmt{Label: p.parseOptLoopLabel()}}
	case p.kw("cycle"):
		p.advance()
		s = ast.Stmt{Kind: ast.StmtCycle, Cycle: ast.LoopCtrlStmt{Label: p.parseOptLoopLabel()}}
	case p.kw("goto"):
		p.advance()
		var t token.Token
		if p.cur().Kind == token.IntLit || p.cur().Kind == token.Label {
			t = p.advance()
		} else {
			p.errf("expected a statement label, got %q", p.cur().Text)
		}
		s = ast.Stmt{Kind: ast.StmtGoTo, GoTo: ast.GoToStmt{Target: t.Text}}
	case p.kw("continue"):
		p.advance()
		s = ast.Stmt{Kind: ast.StmtGoToTarget}
	case p.kw("assert"):
		s, ok = p.parseAssert()
	case p.kw("allocate"):
		s, ok = p.parseAlloc(ast.StmtAllocate)
	case p.kw("deallocate"):
		s, ok = p.parseAlloc(ast.StmtDeallocate)
	case p.cur().Kind == token.Ident:
		s, ok = p.parseAssignmentOrCall()
	default:
		p.errf("expected a statement, got %q", p.cur().Text)
		p.recoverToStmtEnd()
		return ast.NoStmtID, false
	}
	if !ok {
		p.recoverToStmtEnd()
		return ast.NoStmtID, false
	}
	s.Label = label
	s.Span = spanTo(start, p.lastSpan())
	p.endOfStmt()
	return p.b.AddStmt(s), true
}

func (p *parser) parseOptStopCode() ast.StopStmt {
	if p.cur().Kind == token.NewStmt || p.atEOF() {
		return ast.StopStmt{Code: ast.NoExprID}
	}
	return ast.StopStmt{Code: p.parseExpr()}
}

func (p *parser) parseOptLoopLabel() string {
	if p.cur().Kind == token.Ident && !token.IsReservedWord(p.cur().Text) {
		return p.advance().Text
	}
	return ""
}

func (p *parser) parseIf() (ast.Stmt, bool) {
	p.advance() // "if" or "elseif"
	p.expect(token.LParen, "'('")
	cond := p.parseExpr()
	p.expect(token.RParen, "')'")

	// Single-statement form: "if (cond) stmt" with no THEN.
	if !p.kw("then") {
		if p.cur().Kind == token.NewStmt || p.atEOF() {
			return ast.Stmt{}, false
		}
		inner, ok := p.parseSimpleStmtInline()
		if !ok {
			return ast.Stmt{}, false
		}
		return ast.Stmt{Kind: ast.StmtIf, If: ast.IfStmt{Cond: cond, Then: []ast.StmtID{inner}}}, true
	}
	p.advance() // "then"
	p.endOfStmt()

	thenBody := p.parseStmtList(func() bool { return p.kwIn("elseif", "else", "endif") || (p.kw("end") && p.kwAt(1, "if")) })

	var elseBody []ast.StmtID
	if p.kw("elseif") || (p.kw("else") && p.kwAt(1, "if")) {
		if p.kw("else") {
			// Two-word "else if" spelling: fold into one synthetic token
			// position by consuming "else" here so parseIf only sees "if".
			p.advance()
		}
		nested, ok := p.parseIf()
		if ok {
			nested.Span = p.lastSpan()
			elseBody = []ast.StmtID{p.b.AddStmt(nested)}
		}
		s := ast.Stmt{Kind: ast.StmtIf, If: ast.IfStmt{Cond: cond, Then: thenBody, Else: elseBody}}
		return s, true
	}
	if p.kw("else") {
		p.advance()
		p.endOfStmt()
		elseBody = p.parseStmtList(func() bool { return p.kw("endif") || (p.kw("end") && p.kwAt(1, "if")) })
	}
	if p.kw("endif") {
		p.advance()
	} else {
		p.expectKw("end")
		p.optKw("if")
	}
	return ast.Stmt{Kind: ast.StmtIf, If: ast.IfStmt{Cond: cond, Then: thenBody, Else: elseBody}}, true
}

// parseSimpleStmtInline parses the single action-statement that can
// follow "if (cond)" with no THEN, reusing parseStmt's dispatch. It
// leaves the cursor on the statement terminator so the enclosing IF
// statement's own endOfStmt consumes it.
func (p *parser) parseSimpleStmtInline() (ast.StmtID, bool) {
	id, ok := p.parseStmt()
	for p.pos > 0 && p.toks[p.pos-1].Kind == token.NewStmt {
		p.pos--
	}
	return id, ok
}

func (p *parser) parseWhileLoop() (ast.Stmt, bool) {
	p.advance() // "do"
	p.advance() // "while"
	p.expect(token.LParen, "'('")
	cond := p.parseExpr()
	p.expect(token.RParen, "')'")
	p.endOfStmt()
	body := p.parseStmtList(func() bool { return p.kw("enddo") || (p.kw("end") && p.kwAt(1, "do")) })
	p.endDo()
	return ast.Stmt{Kind: ast.StmtWhileLoop, WhileLoop: ast.WhileLoopStmt{Cond: cond, Body: body}}, true
}

func (p *parser) parseDoConcurrent() (ast.Stmt, bool) {
	p.advance() // "do"
	p.advance() // "concurrent"
	p.expect(token.LParen, "'('")
	varSpan := p.cur().Span
	v := p.identName()
	p.expect(token.Assign, "'='")
	lo := p.parseExpr()
	p.expect(token.Colon, "':'")
	hi := p.parseExpr()
	p.expect(token.RParen, "')'")
	p.endOfStmt()
	body := p.parseStmtList(func() bool { return p.kw("enddo") || (p.kw("end") && p.kwAt(1, "do")) })
	p.endDo()
	return ast.Stmt{Kind: ast.StmtDoConcurrentLoop, DoConc: ast.DoConcurrentStmt{Var: v, VarSpan: varSpan, Start: lo, End: hi, Body: body}}, true
}

func (p *parser) parseDoLoop() (ast.Stmt, bool) {
	p.advance() // "do"
	varSpan := p.cur().Span
	v := p.identName()
	p.expect(token.Assign, "'='")
	lo := p.parseExpr()
	p.expect(token.Comma, "','")
	hi := p.parseExpr()
	step := ast.NoExprID
	if p.cur().Kind == token.Comma {
		p.advance()
		step = p.parseExpr()
	}
	p.endOfStmt()
	body := p.parseStmtList(func() bool { return p.kw("enddo") || (p.kw("end") && p.kwAt(1, "do")) })
	p.endDo()
	return ast.Stmt{Kind: ast.StmtDoLoop, DoLoop: ast.DoLoopStmt{Var: v, VarSpan: varSpan, Start: lo, End: hi, Step: step, Body: body}}, true
}

// endDo accepts the block-DO terminator in its two spellings. Legacy
// labeled-DO loops terminated by a matching "n CONTINUE" statement are
// not supported; only the modern block form is parsed.
func (p *parser) endDo() {
	if p.kw("enddo") {
		p.advance()
		return
	}
	p.expectKw("end")
	p.optKw("do")
}

func (p *parser) parseSelect() (ast.Stmt, bool) {
	p.advance() // "select"
	p.expectKw("case")
	p.expect(token.LParen, "'('")
	test := p.parseExpr()
	p.expect(token.RParen, "')'")
	p.endOfStmt()
	p.skipBlank()

	var arms []ast.CaseArm
	var def []ast.StmtID
	for p.kw("case") {
		p.advance()
		if p.kw("default") {
			p.advance()
			p.endOfStmt()
			def = p.parseStmtList(func() bool { return p.kw("case") || p.kw("endselect") || (p.kw("end") && p.kwAt(1, "select")) })
			continue
		}
		p.expect(token.LParen, "'('")
		var patterns []ast.CasePattern
		for {
			patterns = append(patterns, p.parseCasePattern())
			if p.cur().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RParen, "')'")
		p.endOfStmt()
		body := p.parseStmtList(func() bool { return p.kw("case") || p.kw("endselect") || (p.kw("end") && p.kwAt(1, "select")) })
		arms = append(arms, ast.CaseArm{Patterns: patterns, Body: body})
	}
	if p.kw("endselect") {
		p.advance()
	} else {
		p.expectKw("end")
		p.optKw("select")
	}
	return ast.Stmt{Kind: ast.StmtSelect, Select: ast.SelectStmt{Test: test, Arms: arms, Default: def}}, true
}

func (p *parser) parseCasePattern() ast.CasePattern {
	if p.cur().Kind == token.Colon {
		p.advance()
		hi := p.parseExpr()
		return ast.CasePattern{Kind: ast.CaseRange, High: hi}
	}
	first := p.parseExpr()
	if p.cur().Kind == token.Colon {
		p.advance()
		if p.cur().Kind == token.Comma || p.cur().Kind == token.RParen {
			return ast.CasePattern{Kind: ast.CaseRange, Low: first}
		}
		hi := p.parseExpr()
		return ast.CasePattern{Kind: ast.CaseRange, Low: first, High: hi}
	}
	return ast.CasePattern{Kind: ast.CaseValue, Value: first}
}

func (p *parser) parseCallStmt() (ast.Stmt, bool) {
	p.advance() // "call"
	name := p.identName()
	var args []ast.CallArg
	if p.cur().Kind == token.LParen {
		args = p.parseCallArgs()
	}
	return ast.Stmt{Kind: ast.StmtSubroutineCall, Call: ast.CallStmt{Name: name, Args: args}}, true
}

func (p *parser) parsePrint() (ast.Stmt, bool) {
	p.advance() // "print"
	format := ast.NoExprID
	if p.cur().Kind == token.Star {
		p.advance()
	} else {
		format = p.parseExpr()
	}
	var args []ast.ExprID
	for p.cur().Kind == token.Comma {
		p.advance()
		args = append(args, p.parseExpr())
	}
	return ast.Stmt{Kind: ast.StmtPrint, Print: ast.PrintStmt{Format: format, Args: args}}, true
}

// parseAssert supports an invented, unambiguous surface since Fortran has
// no native assertion statement: "assert(cond[, "message"])".
func (p *parser) parseAssert() (ast.Stmt, bool) {
	p.advance() // "assert"
	p.expect(token.LParen, "'('")
	cond := p.parseExpr()
	msg := ast.NoExprID
	if p.cur().Kind == token.Comma {
		p.advance()
		msg = p.parseExpr()
	}
	p.expect(token.RParen, "')'")
	return ast.Stmt{Kind: ast.StmtAssert, Assert: ast.AssertStmt{Cond: cond, Msg: msg}}, true
}

func (p *parser) parseAlloc(kind ast.StmtKind) (ast.Stmt, bool) {
	p.advance() // "allocate" / "deallocate"
	p.expect(token.LParen, "'('")
	var targets []ast.ExprID
	for p.cur().Kind != token.RParen && !p.atEOF() {
		targets = append(targets, p.parseExpr())
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "')'")
	return ast.Stmt{Kind: kind, Alloc: ast.AllocStmt{Targets: targets}}, true
}

// parseAssignmentOrCall handles the two statement forms that start with a
// bare identifier: "x = expr" / "x(i) = expr" and a function-style call
// used as a statement ("foo(args)" with no CALL, rare but legal when the
// callee has no return value via an explicit interface — we still record
// it as a SubroutineCall).
func (p *parser) parseAssignmentOrCall() (ast.Stmt, bool) {
	lhs := p.parseExpr()
	if p.cur().Kind == token.Assign {
		p.advance()
		rhs := p.parseExpr()
		return ast.Stmt{Kind: ast.StmtAssignment, Assignment: ast.AssignmentStmt{Target: lhs, Value: rhs}}, true
	}
	e := p.b.Expr(lhs)
	if e.Kind == ast.ExprCall {
		return ast.Stmt{Kind: ast.StmtSubroutineCall, Call: ast.CallStmt{Name: e.Call.Name, Args: e.Call.Args}}, true
	}
	p.errf("expected an assignment or call statement")
	return ast.Stmt{}, false
}
