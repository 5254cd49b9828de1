// Package token defines lexical token kinds for the zajal sketch language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Newlines are significant (statement separators) and are emitted as
//     Newline tokens; runs of blank lines collapse into one.
//   - Event names (setup, draw, ...) are identifiers. They are recognized by
//     the reload layer, not the lexer.
package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a statement separator ('\n' or ';').
	Newline

	// Ident represents a local identifier or bare call name.
	Ident
	// GVar represents a global variable ($name).
	GVar
	// IVar represents an instance variable (@name).
	IVar
	// SymLit represents a symbol literal (:name).
	SymLit
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit

	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwEnd represents the 'end' keyword.
	KwEnd // end
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwModule represents the 'module' keyword.
	KwModule // module
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElsif represents the 'elsif' keyword.
	KwElsif // elsif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwUnless represents the 'unless' keyword.
	KwUnless // unless
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwTrue represents the 'true' literal.
	KwTrue // true
	// KwFalse represents the 'false' literal.
	KwFalse // false
	// KwNil represents the 'nil' literal.
	KwNil // nil

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %

	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	EqEq          // ==
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	AndAnd        // &&
	OrOr          // ||
	Bang          // !
	Comma         // ,
	Dot           // .
	Pipe          // |
	LParen        // (
	RParen        // )
	LBracket      // [
	RBracket      // ]
)

var kindNames = map[Kind]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Newline:     "Newline",
	Ident:       "Ident",
	GVar:        "GVar",
	IVar:        "IVar",
	SymLit:      "SymLit",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	KwDef:       "def",
	KwEnd:       "end",
	KwDo:        "do",
	KwClass:     "class",
	KwModule:    "module",
	KwIf:        "if",
	KwElsif:     "elsif",
	KwElse:      "else",
	KwUnless:    "unless",
	KwWhile:     "while",
	KwReturn:    "return",
	KwBreak:     "break",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNil:       "nil",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	StarAssign:  "*=",
	SlashAssign: "/=",
	EqEq:        "==",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Bang:        "!",
	Comma:       ",",
	Dot:         ".",
	Pipe:        "|",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
