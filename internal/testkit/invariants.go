// Package testkit holds shared test helpers for the parser pipeline.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"zajal/internal/ast"
	"zajal/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) every positioned node's span lies within the file bounds
// 2) every child span is contained in its parent's span
// 3) sibling spans are ordered by start offset
func CheckSpanInvariants(tree *ast.Node, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("file too large: %w", err)
	}
	return checkNode(tree, size)
}

func checkNode(n *ast.Node, size uint32) error {
	if n.Span.End < n.Span.Start {
		return fmt.Errorf("%s: inverted span %v", n.Kind, n.Span)
	}
	if n.Span.End > size {
		return fmt.Errorf("%s: span %v past end of file (%d)", n.Kind, n.Span, size)
	}
	var prevStart uint32
	for i, kid := range n.Kids {
		if !kid.Span.Empty() && !n.Span.Empty() {
			if kid.Span.Start < n.Span.Start || kid.Span.End > n.Span.End {
				return fmt.Errorf("%s kid %d (%s): span %v escapes parent %v",
					n.Kind, i, kid.Kind, kid.Span, n.Span)
			}
			if i > 0 && kid.Span.Start < prevStart {
				return fmt.Errorf("%s kid %d (%s): siblings out of order", n.Kind, i, kid.Kind)
			}
			prevStart = kid.Span.Start
		}
		if err := checkNode(kid, size); err != nil {
			return err
		}
	}
	return nil
}
