package ast

import (
	"fmt"
	"strings"
)

// Dump renders the tree as an indented s-expression, one node per line.
// Used by `zajal parse` for debugging sketches.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		fmt.Fprintf(b, " %q", n.Text)
	}
	if !n.Span.Empty() {
		fmt.Fprintf(b, " @%s", n.Span)
	}
	if len(n.Kids) == 0 {
		b.WriteString(")\n")
		return
	}
	b.WriteByte('\n')
	for _, kid := range n.Kids {
		dump(b, kid, depth+1)
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(")\n")
}
