// Package parser builds the structural tree for zajal sketches.
//
// Recursive descent over the token stream; expressions use Pratt precedence
// climbing (see expression.go). The produced tree is deterministic for equal
// input — the reload differ depends on that.
package parser

import (
	"fmt"

	"zajal/internal/ast"
	"zajal/internal/diag"
	"zajal/internal/lexer"
	"zajal/internal/source"
	"zajal/internal/token"
)

type Parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
}

// Options configures a Parser.
type Options struct {
	Reporter diag.Reporter
}

// ParseFile tokenizes and parses a whole sketch. Diagnostics go to the
// reporter; the returned tree is positioned (spans set) and may be partial
// when errors were reported.
func ParseFile(file *source.File, opts Options) *ast.Node {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	p := &Parser{toks: toks, reporter: rep}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) bump() token.Token {
	tok := p.cur()
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.at(kind) {
		return p.bump(), true
	}
	p.errorf(p.cur().Span, "expected %s, found %q", what, p.describe(p.cur()))
	return p.cur(), false
}

func (p *Parser) describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of sketch"
	}
	if tok.Kind == token.Newline {
		return "end of line"
	}
	return tok.Text
}

func (p *Parser) errorf(span source.Span, format string, args ...any) {
	p.reporter.Report(diag.SevError, span, fmt.Sprintf(format, args...))
}

// skipSeparators eats Newline tokens.
func (p *Parser) skipSeparators() {
	for p.at(token.Newline) {
		p.bump()
	}
}

// syncToSeparator skips to the next statement boundary after an error.
func (p *Parser) syncToSeparator() {
	for !p.at(token.Newline) && !p.at(token.EOF) {
		p.bump()
	}
}

func (p *Parser) parseProgram() *ast.Node {
	prog := ast.New(ast.Program, "", source.Span{})
	p.skipSeparators()
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Kids = append(prog.Kids, stmt)
			prog.Span = prog.Span.Cover(stmt.Span)
		}
		p.endStatement()
	}
	return prog
}

// endStatement expects a separator (or EOF / a body terminator) after a
// statement and skips all following separators.
func (p *Parser) endStatement() {
	switch p.cur().Kind {
	case token.Newline:
		p.skipSeparators()
	case token.EOF, token.KwEnd, token.KwElse, token.KwElsif:
		// терминаторы тела обрабатывает вызывающий
	default:
		p.errorf(p.cur().Span, "unexpected %q after statement", p.describe(p.cur()))
		p.syncToSeparator()
		p.skipSeparators()
	}
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur().Kind {
	case token.KwDef:
		return p.parseMethodDef()
	case token.KwClass:
		return p.parseNamedBody(ast.ClassDef, "class")
	case token.KwModule:
		return p.parseNamedBody(ast.ModuleDef, "module")
	case token.KwIf:
		return p.parseIf(false)
	case token.KwUnless:
		return p.parseIf(true)
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		tok := p.bump()
		node := ast.New(ast.Return, "", tok.Span)
		if p.cur().StartsExpr() {
			val := p.parseExpression(precLowest)
			node.Kids = append(node.Kids, val)
			node.Span = node.Span.Cover(val.Span)
		}
		return node
	case token.KwBreak:
		tok := p.bump()
		return ast.New(ast.Break, "", tok.Span)
	case token.KwEnd:
		p.errorf(p.cur().Span, "unexpected 'end' without matching 'do', 'def', 'class', 'if' or 'while'")
		p.bump()
		return nil
	}

	if ok, multi := p.lookaheadAssignment(); ok {
		return p.parseAssignment(multi)
	}
	return p.parseExprStatement()
}

// parseBody parses statements until one of the stop kinds. Reaching EOF
// first is a syntax error (an unbalanced do/end).
func (p *Parser) parseBody(opening token.Token, stops ...token.Kind) *ast.Node {
	body := ast.New(ast.Body, "", source.Span{})
	p.skipSeparators()
	for {
		cur := p.cur().Kind
		for _, stop := range stops {
			if cur == stop {
				return body
			}
		}
		if cur == token.EOF {
			p.errorf(opening.Span, "missing 'end': %q is never closed", opening.Text)
			return body
		}
		stmt := p.parseStatement()
		if stmt != nil {
			body.Kids = append(body.Kids, stmt)
			body.Span = body.Span.Cover(stmt.Span)
		}
		p.endStatement()
	}
}

func (p *Parser) parseMethodDef() *ast.Node {
	defTok := p.bump()
	name, ok := p.expect(token.Ident, "method name")
	if !ok {
		p.syncToSeparator()
		return nil
	}

	params := ast.New(ast.Params, "", source.Span{})
	if p.at(token.LParen) {
		p.bump()
		p.parseParamList(params, token.RParen)
		p.expect(token.RParen, "')'")
	} else if p.at(token.Ident) {
		// параметры без скобок: def move dx, dy
		p.parseParamList(params, token.Newline)
	}

	body := p.parseBody(defTok, token.KwEnd)
	endTok, _ := p.expect(token.KwEnd, "'end'")
	return ast.New(ast.MethodDef, name.Text, defTok.Span.Cover(endTok.Span), params, body)
}

func (p *Parser) parseParamList(params *ast.Node, stop token.Kind) {
	for {
		if p.at(stop) || p.at(token.Newline) || p.at(token.EOF) {
			return
		}
		name, ok := p.expect(token.Ident, "parameter name")
		if !ok {
			p.syncToSeparator()
			return
		}
		params.Kids = append(params.Kids, ast.New(ast.Ident, name.Text, name.Span))
		params.Span = params.Span.Cover(name.Span)
		if !p.at(token.Comma) {
			return
		}
		p.bump()
	}
}

func (p *Parser) parseNamedBody(kind ast.Kind, what string) *ast.Node {
	kwTok := p.bump()
	name, ok := p.expect(token.Ident, what+" name")
	if !ok {
		p.syncToSeparator()
		return nil
	}
	body := p.parseBody(kwTok, token.KwEnd)
	endTok, _ := p.expect(token.KwEnd, "'end'")
	return ast.New(kind, name.Text, kwTok.Span.Cover(endTok.Span), body)
}

func (p *Parser) parseIf(negated bool) *ast.Node {
	kwTok := p.bump()
	cond := p.parseExpression(precLowest)
	if negated {
		cond = ast.New(ast.Unary, "!", cond.Span, cond)
	}
	thenBody := p.parseBody(kwTok, token.KwElsif, token.KwElse, token.KwEnd)

	node := ast.New(ast.If, "", kwTok.Span, cond, thenBody)
	switch p.cur().Kind {
	case token.KwElsif:
		elseIf := p.parseIf(false) // elsif ведёт себя как вложенный if
		node.Kids = append(node.Kids, elseIf)
		node.Span = node.Span.Cover(elseIf.Span)
		return node
	case token.KwElse:
		p.bump()
		elseBody := p.parseBody(kwTok, token.KwEnd)
		node.Kids = append(node.Kids, elseBody)
	}
	endTok, _ := p.expect(token.KwEnd, "'end'")
	node.Span = node.Span.Cover(endTok.Span)
	return node
}

func (p *Parser) parseWhile() *ast.Node {
	kwTok := p.bump()
	cond := p.parseExpression(precLowest)
	body := p.parseBody(kwTok, token.KwEnd)
	endTok, _ := p.expect(token.KwEnd, "'end'")
	return ast.New(ast.While, "", kwTok.Span.Cover(endTok.Span), cond, body)
}

// lookaheadAssignment scans forward (without consuming) to decide whether the
// statement is an assignment, and whether it has multiple targets. Targets
// are Ident/GVar/IVar with optional balanced [index]; scanning never crosses
// a statement separator.
func (p *Parser) lookaheadAssignment() (isAssign, isMulti bool) {
	i := p.pos
	targets := 0
	for {
		switch p.toks[i].Kind {
		case token.Ident, token.GVar, token.IVar:
			i++
		default:
			return false, false
		}
		// опциональный индекс: a[expr]
		if p.toks[i].Kind == token.LBracket {
			depth := 0
			for {
				switch p.toks[i].Kind {
				case token.LBracket:
					depth++
				case token.RBracket:
					depth--
				case token.Newline, token.EOF:
					return false, false
				}
				i++
				if depth == 0 {
					break
				}
			}
		}
		targets++
		switch p.toks[i].Kind {
		case token.Assign:
			return true, targets > 1
		case token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign:
			return targets == 1, false
		case token.Comma:
			i++
		default:
			return false, false
		}
	}
}

func (p *Parser) parseTarget() *ast.Node {
	tok := p.bump()
	var node *ast.Node
	switch tok.Kind {
	case token.Ident:
		node = ast.New(ast.Ident, tok.Text, tok.Span)
	case token.GVar:
		node = ast.New(ast.GVar, tok.Text[1:], tok.Span)
	case token.IVar:
		node = ast.New(ast.IVar, tok.Text[1:], tok.Span)
	default:
		p.errorf(tok.Span, "invalid assignment target %q", tok.Text)
		return ast.New(ast.Ident, tok.Text, tok.Span)
	}
	if p.at(token.LBracket) {
		p.bump()
		idx := p.parseExpression(precLowest)
		rb, _ := p.expect(token.RBracket, "']'")
		node = ast.New(ast.Index, "", node.Span.Cover(rb.Span), node, idx)
	}
	return node
}

func (p *Parser) parseAssignment(multi bool) *ast.Node {
	if multi {
		targets := ast.New(ast.Body, "", source.Span{})
		for {
			target := p.parseTarget()
			targets.Kids = append(targets.Kids, target)
			targets.Span = targets.Span.Cover(target.Span)
			if !p.at(token.Comma) {
				break
			}
			p.bump()
		}
		p.expect(token.Assign, "'='")
		values := ast.New(ast.Body, "", source.Span{})
		for {
			val := p.parseExpression(precLowest)
			values.Kids = append(values.Kids, val)
			values.Span = values.Span.Cover(val.Span)
			if !p.at(token.Comma) {
				break
			}
			p.bump()
		}
		if len(targets.Kids) != len(values.Kids) {
			p.errorf(targets.Span.Cover(values.Span),
				"multiple assignment arity mismatch: %d targets, %d values",
				len(targets.Kids), len(values.Kids))
		}
		return ast.New(ast.MultiAssign, "", targets.Span.Cover(values.Span), targets, values)
	}

	target := p.parseTarget()
	opTok := p.bump()
	value := p.parseExpression(precLowest)
	span := target.Span.Cover(value.Span)
	switch opTok.Kind {
	case token.Assign:
		return ast.New(ast.Assign, "", span, target, value)
	case token.PlusAssign:
		return ast.New(ast.OpAssign, "+", span, target, value)
	case token.MinusAssign:
		return ast.New(ast.OpAssign, "-", span, target, value)
	case token.StarAssign:
		return ast.New(ast.OpAssign, "*", span, target, value)
	case token.SlashAssign:
		return ast.New(ast.OpAssign, "/", span, target, value)
	}
	p.errorf(opTok.Span, "expected assignment operator, found %q", opTok.Text)
	return ast.New(ast.Assign, "", span, target, value)
}
