// Package lexer turns sketch source into tokens.
//
// Newlines are significant (they separate statements), so the lexer emits
// Newline tokens; consecutive blank lines and ';' runs collapse into one.
// Comments run from '#' to end of line and are dropped entirely — the
// structural tree must not change when the user edits a comment.
package lexer

import (
	"fmt"

	"zajal/internal/diag"
	"zajal/internal/source"
	"zajal/internal/token"
)

type Lexer struct {
	file     *source.File
	pos      uint32
	reporter diag.Reporter
	lastKind token.Kind // для схлопывания Newline
}

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

func New(file *source.File, opts Options) *Lexer {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Lexer{
		file:     file,
		reporter: rep,
		lastKind: token.Newline, // ведущие пустые строки не дают токенов
	}
}

// Tokenize consumes the whole file and returns all tokens ending with EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) eof() bool {
	return int(lx.pos) >= len(lx.file.Content)
}

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Content[lx.pos]
}

func (lx *Lexer) peekAt(n uint32) byte {
	if int(lx.pos+n) >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.pos+n]
}

func (lx *Lexer) bump() {
	lx.pos++
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	for {
		lx.skipSpacesAndComments()
		if lx.eof() {
			return lx.emit(token.EOF, lx.pos)
		}

		ch := lx.peek()
		if ch == '\n' || ch == ';' {
			start := lx.pos
			lx.bump()
			if lx.lastKind == token.Newline {
				// подряд идущие разделители схлопываем
				continue
			}
			return lx.finish(token.Newline, start)
		}
		break
	}

	start := lx.pos
	ch := lx.peek()

	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword(start)
	case ch >= '0' && ch <= '9':
		return lx.scanNumber(start)
	case ch == '"':
		return lx.scanString(start)
	case ch == '$':
		lx.bump()
		if !isIdentStart(lx.peek()) {
			lx.report(start, "expected identifier after '$'")
			return lx.finish(token.Invalid, start)
		}
		lx.scanIdentTail()
		return lx.finish(token.GVar, start)
	case ch == '@':
		lx.bump()
		if !isIdentStart(lx.peek()) {
			lx.report(start, "expected identifier after '@'")
			return lx.finish(token.Invalid, start)
		}
		lx.scanIdentTail()
		return lx.finish(token.IVar, start)
	case ch == ':':
		lx.bump()
		if !isIdentStart(lx.peek()) {
			lx.report(start, "expected identifier after ':'")
			return lx.finish(token.Invalid, start)
		}
		lx.scanIdentTail()
		return lx.finish(token.SymLit, start)
	}

	return lx.scanOperator(start)
}

func (lx *Lexer) skipSpacesAndComments() {
	for !lx.eof() {
		ch := lx.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			lx.bump()
			continue
		}
		if ch == '#' {
			for !lx.eof() && lx.peek() != '\n' {
				lx.bump()
			}
			continue
		}
		return
	}
}

func (lx *Lexer) scanIdentOrKeyword(start uint32) token.Token {
	lx.scanIdentTail()
	text := string(lx.file.Content[start:lx.pos])
	if kind, ok := token.LookupKeyword(text); ok {
		return lx.finish(kind, start)
	}
	return lx.finish(token.Ident, start)
}

func (lx *Lexer) scanIdentTail() {
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.bump()
	}
	// разрешаем ruby-стиль предикатов: alive?
	if !lx.eof() && lx.peek() == '?' {
		lx.bump()
	}
}

func (lx *Lexer) scanNumber(start uint32) token.Token {
	for !lx.eof() && lx.peek() >= '0' && lx.peek() <= '9' {
		lx.bump()
	}
	kind := token.IntLit
	if !lx.eof() && lx.peek() == '.' && lx.peekAt(1) >= '0' && lx.peekAt(1) <= '9' {
		kind = token.FloatLit
		lx.bump()
		for !lx.eof() && lx.peek() >= '0' && lx.peek() <= '9' {
			lx.bump()
		}
	}
	return lx.finish(kind, start)
}

func (lx *Lexer) scanString(start uint32) token.Token {
	lx.bump() // открывающая кавычка
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\n' {
			break
		}
		if ch == '\\' {
			lx.bump()
			if !lx.eof() {
				lx.bump()
			}
			continue
		}
		lx.bump()
		if ch == '"' {
			return lx.finish(token.StringLit, start)
		}
	}
	lx.report(start, "unterminated string literal")
	return lx.finish(token.Invalid, start)
}

func (lx *Lexer) scanOperator(start uint32) token.Token {
	ch := lx.peek()
	lx.bump()
	two := func(next byte, withEq, without token.Kind) token.Token {
		if lx.peek() == next {
			lx.bump()
			return lx.finish(withEq, start)
		}
		return lx.finish(without, start)
	}

	switch ch {
	case '+':
		return two('=', token.PlusAssign, token.Plus)
	case '-':
		return two('=', token.MinusAssign, token.Minus)
	case '*':
		return two('=', token.StarAssign, token.Star)
	case '/':
		return two('=', token.SlashAssign, token.Slash)
	case '%':
		return lx.finish(token.Percent, start)
	case '=':
		return two('=', token.EqEq, token.Assign)
	case '!':
		return two('=', token.BangEq, token.Bang)
	case '<':
		return two('=', token.LtEq, token.Lt)
	case '>':
		return two('=', token.GtEq, token.Gt)
	case '&':
		if lx.peek() == '&' {
			lx.bump()
			return lx.finish(token.AndAnd, start)
		}
	case '|':
		if lx.peek() == '|' {
			lx.bump()
			return lx.finish(token.OrOr, start)
		}
		return lx.finish(token.Pipe, start)
	case ',':
		return lx.finish(token.Comma, start)
	case '.':
		return lx.finish(token.Dot, start)
	case '(':
		return lx.finish(token.LParen, start)
	case ')':
		return lx.finish(token.RParen, start)
	case '[':
		return lx.finish(token.LBracket, start)
	case ']':
		return lx.finish(token.RBracket, start)
	}

	lx.report(start, fmt.Sprintf("unexpected character %q", ch))
	return lx.finish(token.Invalid, start)
}

func (lx *Lexer) finish(kind token.Kind, start uint32) token.Token {
	tok := token.Token{
		Kind: kind,
		Span: source.Span{Start: start, End: lx.pos},
		Text: string(lx.file.Content[start:lx.pos]),
	}
	lx.lastKind = kind
	return tok
}

func (lx *Lexer) emit(kind token.Kind, at uint32) token.Token {
	lx.lastKind = kind
	return token.Token{Kind: kind, Span: source.Span{Start: at, End: at}}
}

func (lx *Lexer) report(start uint32, msg string) {
	lx.reporter.Report(diag.SevError, source.Span{Start: start, End: lx.pos}, msg)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
