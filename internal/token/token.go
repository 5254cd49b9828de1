package token

import (
	"zajal/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, symbol
// or nil literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, SymLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwDef && t.Kind <= KwNil
}

// StartsExpr reports whether the token can begin an expression. The parser
// uses this to decide whether a bare identifier starts a paren-less command
// call (`circle 10, 10, 5`).
func (t Token) StartsExpr() bool {
	switch t.Kind {
	case Ident, GVar, IVar, SymLit, IntLit, FloatLit, StringLit,
		KwTrue, KwFalse, KwNil, LBracket, LParen, Minus, Bang:
		return true
	default:
		return false
	}
}
