package reload

import (
	"zajal/internal/ast"
	"zajal/internal/diag"
	"zajal/internal/parser"
	"zajal/internal/source"
)

// Version is one parsed snapshot of the sketch: the globalized text, the
// positioned tree (spans intact, used for execution and text surgery) and the
// normalized tree (spans stripped, used for structural diffing). Immutable
// once produced; only the active version survives until the next reload.
type Version struct {
	Path string
	Text string
	Pos  *ast.Node
	Norm *ast.Node
	File *source.File
	Bare bool
}

// ParseVersion globalizes and parses sketch text. A parse failure returns a
// *SyntaxError; the returned version must not be diffed or executed.
func ParseVersion(path, text string) (*Version, error) {
	globalized, err := Globalize(path, text)
	if err != nil {
		return nil, err
	}
	file := source.NewFile(path, []byte(globalized))
	bag := diag.NewBag(32)
	tree := parser.ParseFile(file, parser.Options{Reporter: bag})
	if bag.HasErrors() {
		return nil, &SyntaxError{Path: path, File: file, Diags: bag.Items()}
	}
	return &Version{
		Path: path,
		Text: globalized,
		Pos:  tree,
		Norm: tree.Normalize(),
		File: file,
		Bare: isBare(tree),
	}, nil
}

// isBare reports whether the sketch declares no recognized event blocks.
// Bare sketches run top to bottom once and keep the drawn frame.
func isBare(tree *ast.Node) bool {
	for _, stmt := range tree.Kids {
		if stmt.Kind == ast.Call && IsEvent(stmt.Text) && stmt.HasBlock() {
			return false
		}
	}
	return true
}
