package reload

import (
	"reflect"
	"sort"
	"testing"

	"zajal/internal/ast"
	"zajal/internal/diag"
	"zajal/internal/parser"
	"zajal/internal/source"
)

func parseNorm(t *testing.T, src string) *ast.Node {
	t.Helper()
	bag := diag.NewBag(10)
	tree := parser.ParseFile(source.NewFile("sketch.zj", []byte(src)), parser.Options{Reporter: bag})
	if bag.HasErrors() {
		first, _ := bag.FirstError()
		t.Fatalf("parse error: %s", first.Message)
	}
	return tree.Normalize()
}

func fingerprints(nodes []*ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Fingerprint()
	}
	sort.Strings(out)
	return out
}

func TestDiffIdentityIsEmpty(t *testing.T) {
	srcs := []string{
		"",
		"x = 1",
		"draw do\ncircle 50, 50, 10\nend",
		"def f(a)\na * 2\nend\n\nclass C\ndef m\n1\nend\nend",
	}
	for _, src := range srcs {
		tree := parseNorm(t, src)
		d := Diff(tree, tree)
		if !d.Empty() {
			t.Errorf("diff(T, T) for %q: removed=%d added=%d, want empty", src, len(d.Removed), len(d.Added))
		}
	}
}

func TestDiffMultisetSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"x = 1", "x = 2"},
		{"draw do\ncircle 10, 10, 5\nend", "draw do\ncircle 20, 20, 5\nend"},
		{"def f\n1\nend", "def f\n1\nend\ndef g\n2\nend"},
		{"", "setup do\nsize 100, 100\nend"},
	}
	for _, p := range pairs {
		a, b := parseNorm(t, p[0]), parseNorm(t, p[1])
		ab, ba := Diff(a, b), Diff(b, a)
		if !reflect.DeepEqual(fingerprints(ab.Removed), fingerprints(ba.Added)) {
			t.Errorf("diff(%q,%q).removed != diff(b,a).added", p[0], p[1])
		}
		if !reflect.DeepEqual(fingerprints(ab.Added), fingerprints(ba.Removed)) {
			t.Errorf("diff(%q,%q).added != diff(b,a).removed", p[0], p[1])
		}
	}
}

func TestDiffDuplicatesCancelUpToMin(t *testing.T) {
	// два одинаковых вызова против одного: меняется только избыток
	a := parseNorm(t, "beep 1\nbeep 1")
	b := parseNorm(t, "beep 1")
	d := Diff(a, b)

	// removed содержит один вызов beep (и корень), но не два
	beeps := 0
	for _, n := range d.Removed {
		if n.Kind == ast.Call && n.Text == "beep" {
			beeps++
		}
	}
	if beeps != 1 {
		t.Fatalf("excess beep calls in removed = %d, want 1", beeps)
	}
	for _, n := range d.Added {
		if n.Kind == ast.Call && n.Text == "beep" {
			t.Fatal("added must not contain beep: the remaining copy is unchanged")
		}
	}
}

func TestCategorizeBodyEditTouchesOnlyItsEvent(t *testing.T) {
	oldT := parseNorm(t, "setup do\nsize 100, 100\nend\n\ndraw do\ncircle 10, 10, 5\nend")
	newT := parseNorm(t, "setup do\nsize 100, 100\nend\n\ndraw do\ncircle 90, 90, 5\nend")
	c := Categorize(Diff(oldT, newT), oldT, newT)

	if !c.Events.Touches("draw") {
		t.Fatal("draw body changed but events category is silent")
	}
	if c.Events.Touches("setup") {
		t.Fatal("setup is unchanged and must not appear in the delta")
	}
	if !c.Methods.Empty() || !c.Classes.Empty() || !c.Modules.Empty() || !c.Globals.Empty() {
		t.Fatalf("only events should change: %+v", c)
	}
}

func TestCategorizeMethodAndClassChanges(t *testing.T) {
	oldT := parseNorm(t, "def f\n1\nend\n\nclass A\nend")
	newT := parseNorm(t, "def g\n1\nend\n\nclass A\nend\n\nmodule M\nend")
	c := Categorize(Diff(oldT, newT), oldT, newT)

	if !reflect.DeepEqual(c.Methods.Removed, []string{"f"}) {
		t.Fatalf("methods removed = %v, want [f]", c.Methods.Removed)
	}
	if !reflect.DeepEqual(c.Methods.Added, []string{"g"}) {
		t.Fatalf("methods added = %v, want [g]", c.Methods.Added)
	}
	if c.Classes.Touches("A") {
		t.Fatal("class A is unchanged")
	}
	if !reflect.DeepEqual(c.Modules.Added, []string{"M"}) {
		t.Fatalf("modules added = %v, want [M]", c.Modules.Added)
	}
}

func TestGlobalAssignTargets(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"simple", "x = 1\ny = 2", []string{"x", "y"}},
		{"dedup and sort", "b = 1\na = 2\nb = 3", []string{"a", "b"}},
		{"op assign counts", "n = 0\nn += 1", []string{"n"}},
		{"multi assign", "a, b = 1, 2", []string{"a", "b"}},
		{"sigil targets count", "$x = 1", []string{"x"}},
		{"block bodies are scoped out", "draw do\nt = 1\nend", nil},
		{"method bodies are scoped out", "def f\nt = 1\nend", nil},
		{"class bodies are scoped out", "class C\ndef m\nt = 1\nend\nend", nil},
		{"nested control flow is not a scope", "if true\nx = 1\nend", []string{"x"}},
		{"index target is not a new name", "a = []\na[0] = 1", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GlobalAssignTargets(parseNorm(t, tt.src))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("targets = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategorizeGlobalsBySetDifference(t *testing.T) {
	// правка тела draw не трогает globals, даже если корень дерева изменился
	oldT := parseNorm(t, "x = 1\n\ndraw do\ncircle x, 10, 5\nend")
	newT := parseNorm(t, "x = 1\n\ndraw do\ncircle x, 90, 5\nend")
	c := Categorize(Diff(oldT, newT), oldT, newT)
	if !c.Globals.Empty() {
		t.Fatalf("globals = %+v, want empty: x is assigned in both versions", c.Globals)
	}

	// появление новой глобальной переменной видно в added
	withCounter := parseNorm(t, "x = 1\ncounter = 0\n\ndraw do\ncircle x, 10, 5\nend")
	c = Categorize(Diff(oldT, withCounter), oldT, withCounter)
	if !reflect.DeepEqual(c.Globals.Added, []string{"counter"}) {
		t.Fatalf("globals added = %v, want [counter]", c.Globals.Added)
	}
	if len(c.Globals.Removed) != 0 {
		t.Fatalf("globals removed = %v, want empty", c.Globals.Removed)
	}
}
