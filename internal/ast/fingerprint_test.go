package ast

import (
	"testing"

	"zajal/internal/source"
)

func ident(name string, start uint32) *Node {
	return New(Ident, name, source.Span{Start: start, End: start + uint32(len(name))})
}

func TestFingerprint_IgnoresSpans(t *testing.T) {
	a := New(Assign, "", source.Span{Start: 0, End: 5}, ident("x", 0), New(IntLit, "1", source.Span{Start: 4, End: 5}))
	b := New(Assign, "", source.Span{Start: 100, End: 105}, ident("x", 100), New(IntLit, "1", source.Span{Start: 104, End: 105}))

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ for positionally shifted copies:\n%s\n%s", a.Fingerprint(), b.Fingerprint())
	}
	if !StructuralEqual(a, b) {
		t.Fatal("StructuralEqual = false, want true")
	}
}

func TestFingerprint_DistinguishesTextAndKind(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
	}{
		{"different names", ident("x", 0), ident("y", 0)},
		{"different kinds", New(IntLit, "1", source.Span{}), New(FloatLit, "1", source.Span{})},
		{"different arity", New(Call, "circle", source.Span{}, ident("x", 0)), New(Call, "circle", source.Span{})},
		{
			// текст не должен сливаться с детьми
			"text vs child boundary",
			New(Call, "ab", source.Span{}, ident("c", 0)),
			New(Call, "abc", source.Span{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Fingerprint() == tt.b.Fingerprint() {
				t.Fatalf("fingerprints equal, want distinct: %s", tt.a.Fingerprint())
			}
		})
	}
}

func TestNormalize_StripsAllSpans(t *testing.T) {
	tree := New(Program, "", source.Span{Start: 0, End: 20},
		New(Assign, "", source.Span{Start: 0, End: 5}, ident("x", 0), New(IntLit, "1", source.Span{Start: 4, End: 5})),
	)
	norm := tree.Normalize()
	norm.Walk(func(n *Node) bool {
		if !n.Span.Empty() || n.Span.Start != 0 {
			t.Fatalf("normalized node %v has span %v", n.Kind, n.Span)
		}
		return true
	})
	// оригинал не тронут
	if tree.Kids[0].Span.Empty() {
		t.Fatal("Normalize mutated the receiver")
	}
	if tree.Fingerprint() != norm.Fingerprint() {
		t.Fatal("Normalize changed the fingerprint")
	}
}

func TestFlatten_CountsEverySubtree(t *testing.T) {
	tree := New(Program, "", source.Span{},
		New(Assign, "", source.Span{}, ident("x", 0), New(IntLit, "1", source.Span{})),
		ident("y", 0),
	)
	flat := Flatten(tree, nil)
	if len(flat) != 5 {
		t.Fatalf("Flatten produced %d nodes, want 5", len(flat))
	}
	if flat[0] != tree {
		t.Fatal("Flatten must start with the root")
	}
}

func TestWalk_SkipsSubtreeOnFalse(t *testing.T) {
	tree := New(Program, "", source.Span{},
		New(MethodDef, "helper", source.Span{},
			New(Params, "", source.Span{}),
			New(Body, "", source.Span{}, ident("inner", 0)),
		),
		ident("outer", 0),
	)
	var seen []string
	tree.Walk(func(n *Node) bool {
		if n.Kind == MethodDef {
			return false
		}
		if n.Kind == Ident {
			seen = append(seen, n.Text)
		}
		return true
	})
	if len(seen) != 1 || seen[0] != "outer" {
		t.Fatalf("Walk visited %v, want [outer]", seen)
	}
}
