package parser

import (
	"fortasr/internal/ast"
	"fortasr/internal/source"
	"fortasr/internal/token"
)

// parseExpr parses a full expression at the lowest precedence (.eqv./.neqv.).
func (p *parser) parseExpr() ast.ExprID {
	return p.parseEquiv()
}

func (p *parser) parseEquiv() ast.ExprID {
	start := p.cur().Span
	left := p.parseOr()
	for p.kwIn(".eqv.", ".neqv.") {
		op := ast.BoolEqv
		if p.cur().Text == ".neqv." {
			op = ast.BoolNeqv
		}
		p.advance()
		right := p.parseOr()
		left = p.addExpr(ast.Expr{Kind: ast.ExprBoolOp, BoolOp: ast.BoolOpExpr{Op: op, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) parseOr() ast.ExprID {
	start := p.cur().Span
	left := p.parseAnd()
	for p.kw(".or.") {
		p.advance()
		right := p.parseAnd()
		left = p.addExpr(ast.Expr{Kind: ast.ExprBoolOp, BoolOp: ast.BoolOpExpr{Op: ast.BoolOr, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) parseAnd() ast.ExprID {
	start := p.cur().Span
	left := p.parseNot()
	for p.kw(".and.") {
		p.advance()
		right := p.parseNot()
		left = p.addExpr(ast.Expr{Kind: ast.ExprBoolOp, BoolOp: ast.BoolOpExpr{Op: ast.BoolAnd, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) parseNot() ast.ExprID {
	if p.kw(".not.") {
		start := p.cur().Span
		p.advance()
		operand := p.parseNot()
		return p.addExpr(ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.UnaryOpExpr{Op: ast.UnaryNot, Operand: operand}}, start)
	}
	return p.parseCompare()
}

func (p *parser) parseCompare() ast.ExprID {
	start := p.cur().Span
	left := p.parseAdd()
	if op, ok := p.compareOp(); ok {
		p.advance()
		right := p.parseAdd()
		left = p.addExpr(ast.Expr{Kind: ast.ExprCompare, Compare: ast.CompareExpr{Op: op, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) compareOp() (ast.CompareOp, bool) {
	switch p.cur().Kind {
	case token.Eq:
		return ast.CmpEq, true
	case token.NotEq:
		return ast.CmpNotEq, true
	case token.Lt:
		return ast.CmpLt, true
	case token.LtEq:
		return ast.CmpLtEq, true
	case token.Gt:
		return ast.CmpGt, true
	case token.GtEq:
		return ast.CmpGtEq, true
	}
	return 0, false
}

func (p *parser) parseAdd() ast.ExprID {
	start := p.cur().Span
	left := p.parseMul()
	for p.cur().Kind == token.Plus || p.cur().Kind == token.Minus {
		op := ast.BinAdd
		if p.cur().Kind == token.Minus {
			op = ast.BinSub
		}
		p.advance()
		right := p.parseMul()
		left = p.addExpr(ast.Expr{Kind: ast.ExprBinOp, BinOp: ast.BinOpExpr{Op: op, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) parseMul() ast.ExprID {
	start := p.cur().Span
	left := p.parseUnary()
	for p.cur().Kind == token.Star || p.cur().Kind == token.Slash {
		op := ast.BinMul
		if p.cur().Kind == token.Slash {
			op = ast.BinDiv
		}
		p.advance()
		right := p.parseUnary()
		left = p.addExpr(ast.Expr{Kind: ast.ExprBinOp, BinOp: ast.BinOpExpr{Op: op, Left: left, Right: right}}, start)
	}
	return left
}

func (p *parser) parseUnary() ast.ExprID {
	if p.cur().Kind == token.Plus || p.cur().Kind == token.Minus {
		start := p.cur().Span
		op := ast.UnaryPlus
		if p.cur().Kind == token.Minus {
			op = ast.UnaryMinus
		}
		p.advance()
		operand := p.parsePow()
		return p.addExpr(ast.Expr{Kind: ast.ExprUnaryOp, UnaryOp: ast.UnaryOpExpr{Op: op, Operand: operand}}, start)
	}
	return p.parsePow()
}

// parsePow is right-associative: "2 ** 3 ** 2" is "2 ** (3 ** 2)".
func (p *parser) parsePow() ast.ExprID {
	start := p.cur().Span
	base := p.parsePostfix()
	if p.cur().Kind == token.StarStar {
		p.advance()
		exp := p.parseUnary()
		return p.addExpr(ast.Expr{Kind: ast.ExprBinOp, BinOp: ast.BinOpExpr{Op: ast.BinPow, Left: base, Right: exp}}, start)
	}
	return base
}

// parsePostfix handles "%member" chains following a primary expression.
// Call/array-ref argument lists are parsed as part of the primary itself,
// since "foo(args)" is lexically one unit.
func (p *parser) parsePostfix() ast.ExprID {
	start := p.cur().Span
	e := p.parsePrimary()
	for p.cur().Kind == token.Percent {
		p.advance()
		member := p.identName()
		e = p.addExpr(ast.Expr{Kind: ast.ExprMember, Member: ast.MemberExpr{Base: e, Member: member}}, start)
	}
	return e
}

func (p *parser) parsePrimary() ast.ExprID {
	start := p.cur().Span
	t := p.cur()

	switch {
	case t.Kind == token.IntLit:
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprIntLit, IntLit: ast.IntLitExpr{Value: parseIntText(t.Text)}}, start)
	case t.Kind == token.RealLit:
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprRealLit, RealLit: ast.RealLitExpr{Value: parseRealText(t.Text)}}, start)
	case t.Kind == token.StringLit:
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprStrLit, StrLit: ast.StrLitExpr{Value: p.b.Name(unquote(t.Text))}}, start)
	case t.IsKeyword(".true."):
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprLogicalLit, LogicalLit: ast.LogicalLitExpr{Value: true}}, start)
	case t.IsKeyword(".false."):
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprLogicalLit, LogicalLit: ast.LogicalLitExpr{Value: false}}, start)
	case t.Kind == token.LParen:
		return p.parseParenOrComplex(start)
	case t.Kind == token.ArrayCtorOpen:
		return p.parseArrayCtor(token.ArrayCtorClose, start)
	case t.Kind == token.LBracket:
		return p.parseArrayCtor(token.RBracket, start)
	case t.Kind == token.Ident:
		return p.parseIdentOrCall(start)
	default:
		p.errf("expected an expression, got %q", t.Text)
		p.advance()
		return p.addExpr(ast.Expr{Kind: ast.ExprInvalid}, start)
	}
}

// parseParenOrComplex disambiguates "(expr)" grouping from a
// "(re, im)" complex literal: both start the same way, so we commit to
// the complex shape only after seeing the comma.
func (p *parser) parseParenOrComplex(start source.Span) ast.ExprID {
	p.advance() // "("
	first := p.parseExpr()
	if p.cur().Kind == token.Comma {
		p.advance()
		imag := p.parseExpr()
		p.expect(token.RParen, "')'")
		return p.addExpr(ast.Expr{Kind: ast.ExprComplexLit, ComplexLit: ast.ComplexLitExpr{Real: first, Imag: imag}}, start)
	}
	p.expect(token.RParen, "')'")
	return first
}

func (p *parser) parseIdentOrCall(start source.Span) ast.ExprID {
	name := p.identName()
	if p.cur().Kind != token.LParen {
		return p.addExpr(ast.Expr{Kind: ast.ExprIdent, Ident: ast.IdentExpr{Name: name}}, start)
	}
	args := p.parseCallArgs()
	return p.addExpr(ast.Expr{Kind: ast.ExprCall, Call: ast.CallExpr{Name: name, Args: args}}, start)
}

func (p *parser) parseCallArgs() []ast.CallArg {
	p.expect(token.LParen, "'('")
	var args []ast.CallArg
	for p.cur().Kind != token.RParen && !p.atEOF() {
		kw := source.NoStringID
		if p.cur().Kind == token.Ident && p.peekAt(1).Kind == token.Assign {
			kw = p.b.Name(p.advance().Text)
			p.advance() // "="
		}
		val := p.parseExpr()
		args = append(args, ast.CallArg{Keyword: kw, Value: val})
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "')'")
	return args
}

// parseArrayCtor parses "(/ items /)" or "[ items ]"; each item may
// itself be an implied-do "(expr[, expr...], var = lo, hi[, step])".
func (p *parser) parseArrayCtor(closeKind token.Kind, start source.Span) ast.ExprID {
	p.advance() // opener
	var items []ast.ExprID
	for p.cur().Kind != closeKind && !p.atEOF() {
		items = append(items, p.parseArrayItem())
		if p.cur().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(closeKind, "closing array-constructor delimiter")
	return p.addExpr(ast.Expr{Kind: ast.ExprArrayCtor, ArrayCtor: ast.ArrayCtorExpr{Items: items}}, start)
}

// parseArrayItem tries an implied-do first (backtracking on failure),
// falling back to a plain expression.
func (p *parser) parseArrayItem() ast.ExprID {
	if p.cur().Kind != token.LParen {
		return p.parseExpr()
	}
	save := p.pos
	if id, ok := p.tryParseImpliedDo(); ok {
		return id
	}
	p.pos = save
	return p.parseExpr()
}

func (p *parser) tryParseImpliedDo() (ast.ExprID, bool) {
	start := p.cur().Span
	p.advance() // "("
	var terms []ast.ExprID
	terms = append(terms, p.parseExpr())
	for p.cur().Kind == token.Comma {
		if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.Assign {
			break
		}
		p.advance()
		terms = append(terms, p.parseExpr())
	}
	if p.cur().Kind != token.Comma && p.cur().Kind != token.RParen {
		return ast.NoExprID, false
	}
	if p.cur().Kind == token.RParen {
		return ast.NoExprID, false
	}
	p.advance() // ","
	if p.cur().Kind != token.Ident || p.peekAt(1).Kind != token.Assign {
		return ast.NoExprID, false
	}
	v := p.identName()
	p.advance() // "="
	lo := p.parseExpr()
	if p.cur().Kind != token.Comma {
		return ast.NoExprID, false
	}
	p.advance()
	hi := p.parseExpr()
	step := ast.NoExprID
	if p.cur().Kind == token.Comma {
		p.advance()
		step = p.parseExpr()
	}
	if p.cur().Kind != token.RParen {
		return ast.NoExprID, false
	}
	p.advance()
	return p.addExpr(ast.Expr{Kind: ast.ExprImpliedDo, ImpliedDo: ast.ImpliedDoExpr{Items: terms, Var: v, Start: lo, End: hi, Step: step}}, start), true
}

func (p *parser) addExpr(e ast.Expr, start source.Span) ast.ExprID {
	e.Span = spanTo(start, p.lastSpan())
	return p.b.AddExpr(e)
}
