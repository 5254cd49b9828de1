package token

var keywords = map[string]Kind{
	"def":    KwDef,
	"end":    KwEnd,
	"do":     KwDo,
	"class":  KwClass,
	"module": KwModule,
	"if":     KwIf,
	"elsif":  KwElsif,
	"else":   KwElse,
	"unless": KwUnless,
	"while":  KwWhile,
	"return": KwReturn,
	"break":  KwBreak,
	"true":   KwTrue,
	"false":  KwFalse,
	"nil":    KwNil,
}

// LookupKeyword returns the keyword kind for a lexeme, if any.
// Matching is case-sensitive: `End` is an identifier.
func LookupKeyword(lexeme string) (Kind, bool) {
	kind, ok := keywords[lexeme]
	return kind, ok
}
