package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"def":    KwDef,
		"end":    KwEnd,
		"do":     KwDo,
		"class":  KwClass,
		"module": KwModule,
		"while":  KwWhile,
		"true":   KwTrue,
		"nil":    KwNil,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Заведомо НЕ ключевые слова
	notKw := []string{
		"Def", "END", "Do", // регистр важен
		"setup", "draw", "circle", // имена событий и примитивов — Ident
		"identifier",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestToken_StartsExpr(t *testing.T) {
	yes := []Kind{Ident, GVar, IntLit, FloatLit, StringLit, SymLit, LBracket, KwTrue, KwNil, Minus, Bang}
	no := []Kind{EOF, Newline, KwDo, KwEnd, Assign, Comma, RParen, Plus, Star}

	for _, k := range yes {
		if !(Token{Kind: k}).StartsExpr() {
			t.Fatalf("StartsExpr(%v) = false, want true", k)
		}
	}
	for _, k := range no {
		if (Token{Kind: k}).StartsExpr() {
			t.Fatalf("StartsExpr(%v) = true, want false", k)
		}
	}
}
