package reload

import (
	"sort"
	"strings"

	"zajal/internal/ast"
	"zajal/internal/diag"
	"zajal/internal/parser"
	"zajal/internal/source"
)

// Globalize rewrites top-level local variables into global references by
// inserting the '$' sigil before every occurrence. A fresh local scope is
// created each time the sketch text re-executes, so plain top-level locals
// would reset on every patch; the sigil routes them to the interpreter's
// persistent global table instead.
//
// Occurrences inside event and iteration blocks are rewritten too (they close
// over the top-level scope); occurrences inside method, class and module
// bodies are not (those scopes own their locals). The transform is immutable:
// it builds a new buffer from the original text plus a sorted list of
// insertion offsets.
func Globalize(path, text string) (string, error) {
	file := source.NewFile(path, []byte(text))
	bag := diag.NewBag(32)
	tree := parser.ParseFile(file, parser.Options{Reporter: bag})
	if bag.HasErrors() {
		return "", &SyntaxError{Path: path, File: file, Diags: bag.Items()}
	}

	targets := make(map[string]bool)
	for _, name := range GlobalAssignTargets(tree) {
		targets[name] = true
	}
	if len(targets) == 0 {
		return text, nil
	}

	offsets := collectOccurrences(tree, targets)
	if len(offsets) == 0 {
		return text, nil
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	// нормализованный текст файла, а не вход: парсер видел именно его
	normalized := string(file.Content)
	var b strings.Builder
	b.Grow(len(normalized) + len(offsets))
	prev := uint32(0)
	for _, off := range offsets {
		b.WriteString(normalized[prev:off])
		b.WriteByte('$')
		prev = off
	}
	b.WriteString(normalized[prev:])
	return b.String(), nil
}

// collectOccurrences gathers the byte offsets of every identifier occurrence
// that must receive the sigil.
func collectOccurrences(tree *ast.Node, targets map[string]bool) []uint32 {
	var offsets []uint32
	var walk func(n *ast.Node, targets map[string]bool)
	walk = func(n *ast.Node, targets map[string]bool) {
		switch n.Kind {
		case ast.MethodDef, ast.ClassDef, ast.ModuleDef:
			return // own scope, own locals
		case ast.Block:
			// параметр блока затеняет только своё имя, остальные цели
			// внутри тела всё ещё внешние
			inner := targets
			copied := false
			for _, p := range n.Kids[0].Kids {
				if !targets[p.Text] {
					continue
				}
				if !copied {
					inner = make(map[string]bool, len(targets))
					for name := range targets {
						inner[name] = true
					}
					copied = true
				}
				delete(inner, p.Text)
			}
			walk(n.Kids[1], inner)
			return
		case ast.Ident:
			if targets[n.Text] {
				offsets = append(offsets, n.Span.Start)
			}
			return
		}
		for _, kid := range n.Kids {
			walk(kid, targets)
		}
	}
	walk(tree, targets)
	return offsets
}
