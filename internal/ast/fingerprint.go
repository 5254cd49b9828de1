package ast

import (
	"strconv"
	"strings"
)

// Fingerprint returns a deterministic structural key for the subtree rooted
// at n. Spans are ignored, so two subtrees parsed from equal text at
// different positions fingerprint identically. The differ uses fingerprints
// as multiset keys.
func (n *Node) Fingerprint() string {
	var b strings.Builder
	n.fingerprint(&b)
	return b.String()
}

func (n *Node) fingerprint(b *strings.Builder) {
	if n == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		// длина + текст, чтобы текст не сливался со скобками детей
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(len(n.Text)))
		b.WriteByte(':')
		b.WriteString(n.Text)
	}
	for _, kid := range n.Kids {
		kid.fingerprint(b)
	}
	b.WriteByte(')')
}

// StructuralEqual reports whether two subtrees are equal ignoring positions.
func StructuralEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Fingerprint() == b.Fingerprint()
}

// Flatten appends n and every descendant to out and returns it. The order is
// depth-first, parent before children; the differ treats the result as an
// unordered multiset.
func Flatten(n *Node, out []*Node) []*Node {
	if n == nil {
		return out
	}
	out = append(out, n)
	for _, kid := range n.Kids {
		out = Flatten(kid, out)
	}
	return out
}
