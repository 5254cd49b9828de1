package parser

import (
	"strings"

	"zajal/internal/ast"
	"zajal/internal/source"
	"zajal/internal/token"
)

// Precedence levels, lowest binds weakest.
const (
	precLowest = iota
	precOr     // ||
	precAnd    // &&
	precEq     // == !=
	precCmp    // < <= > >=
	precAdd    // + -
	precMul    // * / %
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.EqEq, token.BangEq:
		return precEq
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCmp
	case token.Plus, token.Minus:
		return precAdd
	case token.Star, token.Slash, token.Percent:
		return precMul
	}
	return 0
}

// adjacent reports whether b starts exactly where a ends (no whitespace).
// Distinguishes `a[0]` (index) from `draw [0, 1]` (command argument), and
// `f(x)` (a call) from `f (x)` (an identifier followed by junk).
func adjacent(a, b token.Token) bool {
	return a.Span.End == b.Span.Start
}

// parseExprStatement handles the statement-expression position, where bare
// identifiers may begin paren-less command calls: `circle 50, 50, 10`.
func (p *Parser) parseExprStatement() *ast.Node {
	if p.at(token.Ident) && p.commandCallAhead() {
		return p.parseCommandCall()
	}
	return p.parseExpression(precLowest)
}

// commandCallAhead decides whether the Ident at the cursor starts a command
// call. `x - 1` stays a binary expression; `beat -1` (space before the minus,
// none after) is a call with a negative argument, matching what sketch
// authors mean.
func (p *Parser) commandCallAhead() bool {
	next := p.peek()
	switch next.Kind {
	case token.KwDo:
		return true
	case token.IntLit, token.FloatLit, token.StringLit, token.SymLit,
		token.Ident, token.GVar, token.IVar, token.KwTrue, token.KwFalse, token.KwNil:
		return true
	case token.LBracket:
		// смежная скобка — это индекс, не аргумент
		return !adjacent(p.cur(), next)
	case token.Minus, token.Bang:
		if adjacent(p.cur(), next) {
			return false
		}
		after := p.toks[min(p.pos+2, len(p.toks)-1)]
		return adjacent(next, after) && after.StartsExpr()
	}
	return false
}

func (p *Parser) parseCommandCall() *ast.Node {
	name := p.bump()
	call := ast.New(ast.Call, name.Text, name.Span)
	if !p.at(token.KwDo) {
		for {
			arg := p.parseExpression(precLowest)
			call.Kids = append(call.Kids, arg)
			call.Span = call.Span.Cover(arg.Span)
			if !p.at(token.Comma) {
				break
			}
			p.bump()
		}
	}
	if p.at(token.KwDo) {
		blk := p.parseBlock()
		call.Kids = append(call.Kids, blk)
		call.Span = call.Span.Cover(blk.Span)
	}
	return call
}

// parseBlock parses `do |p1, p2| body end`.
func (p *Parser) parseBlock() *ast.Node {
	doTok := p.bump()
	params := ast.New(ast.Params, "", source.Span{})
	if p.at(token.Pipe) {
		p.bump()
		p.parseParamList(params, token.Pipe)
		p.expect(token.Pipe, "'|'")
	}
	body := p.parseBody(doTok, token.KwEnd)
	endTok, _ := p.expect(token.KwEnd, "'end'")
	return ast.New(ast.Block, "", doTok.Span.Cover(endTok.Span), params, body)
}

func (p *Parser) parseExpression(minPrec int) *ast.Node {
	lhs := p.parseUnary()
	for {
		prec := binaryPrec(p.cur().Kind)
		if prec == 0 || prec <= minPrec {
			return lhs
		}
		opTok := p.bump()
		rhs := p.parseExpression(prec)
		lhs = ast.New(ast.Binary, opTok.Text, lhs.Span.Cover(rhs.Span), lhs, rhs)
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.cur().Kind {
	case token.Minus:
		opTok := p.bump()
		operand := p.parseUnary()
		return ast.New(ast.Unary, "-", opTok.Span.Cover(operand.Span), operand)
	case token.Bang:
		opTok := p.bump()
		operand := p.parseUnary()
		return ast.New(ast.Unary, "!", opTok.Span.Cover(operand.Span), operand)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	node := p.parsePrimary()
	for {
		switch {
		case p.at(token.Dot):
			p.bump()
			name, ok := p.expect(token.Ident, "method name after '.'")
			if !ok {
				return node
			}
			call := ast.New(ast.MethodCall, name.Text, node.Span.Cover(name.Span), node)
			if p.at(token.LParen) && adjacent(name, p.cur()) {
				p.bump()
				p.parseCallArgs(call)
				rp, _ := p.expect(token.RParen, "')'")
				call.Span = call.Span.Cover(rp.Span)
			}
			if p.at(token.KwDo) {
				blk := p.parseBlock()
				call.Kids = append(call.Kids, blk)
				call.Span = call.Span.Cover(blk.Span)
			}
			node = call
		case p.at(token.LBracket) && adjacent(p.prevToken(), p.cur()):
			p.bump()
			idx := p.parseExpression(precLowest)
			rb, _ := p.expect(token.RBracket, "']'")
			node = ast.New(ast.Index, "", node.Span.Cover(rb.Span), node, idx)
		default:
			return node
		}
	}
}

func (p *Parser) prevToken() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) parseCallArgs(call *ast.Node) {
	if p.at(token.RParen) {
		return
	}
	for {
		arg := p.parseExpression(precLowest)
		call.Kids = append(call.Kids, arg)
		call.Span = call.Span.Cover(arg.Span)
		if !p.at(token.Comma) {
			return
		}
		p.bump()
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.IntLit:
		p.bump()
		return ast.New(ast.IntLit, tok.Text, tok.Span)
	case token.FloatLit:
		p.bump()
		return ast.New(ast.FloatLit, tok.Text, tok.Span)
	case token.StringLit:
		p.bump()
		return ast.New(ast.StringLit, unquote(tok.Text), tok.Span)
	case token.SymLit:
		p.bump()
		return ast.New(ast.SymLit, tok.Text[1:], tok.Span)
	case token.KwTrue:
		p.bump()
		return ast.New(ast.BoolLit, "true", tok.Span)
	case token.KwFalse:
		p.bump()
		return ast.New(ast.BoolLit, "false", tok.Span)
	case token.KwNil:
		p.bump()
		return ast.New(ast.NilLit, "", tok.Span)
	case token.GVar:
		p.bump()
		return ast.New(ast.GVar, tok.Text[1:], tok.Span)
	case token.IVar:
		p.bump()
		return ast.New(ast.IVar, tok.Text[1:], tok.Span)
	case token.Ident:
		p.bump()
		if p.at(token.LParen) && adjacent(tok, p.cur()) {
			p.bump()
			call := ast.New(ast.Call, tok.Text, tok.Span)
			p.parseCallArgs(call)
			rp, _ := p.expect(token.RParen, "')'")
			call.Span = call.Span.Cover(rp.Span)
			if p.at(token.KwDo) {
				blk := p.parseBlock()
				call.Kids = append(call.Kids, blk)
				call.Span = call.Span.Cover(blk.Span)
			}
			return call
		}
		return ast.New(ast.Ident, tok.Text, tok.Span)
	case token.LBracket:
		p.bump()
		arr := ast.New(ast.ArrayLit, "", tok.Span)
		p.skipSeparators()
		if !p.at(token.RBracket) {
			for {
				elem := p.parseExpression(precLowest)
				arr.Kids = append(arr.Kids, elem)
				p.skipSeparators()
				if !p.at(token.Comma) {
					break
				}
				p.bump()
				p.skipSeparators()
			}
		}
		rb, _ := p.expect(token.RBracket, "']'")
		arr.Span = tok.Span.Cover(rb.Span)
		return arr
	case token.LParen:
		p.bump()
		inner := p.parseExpression(precLowest)
		p.expect(token.RParen, "')'")
		return inner
	}

	p.errorf(tok.Span, "expected expression, found %q", p.describe(tok))
	p.bump()
	return ast.New(ast.NilLit, "", tok.Span)
}

// unquote strips quotes and resolves escapes of a string literal lexeme.
func unquote(lexeme string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lexeme, `"`), `"`)
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 == len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
