package reload

import (
	"strings"
	"testing"
)

func globalize(t *testing.T, src string) string {
	t.Helper()
	out, err := Globalize("sketch.zj", src)
	if err != nil {
		t.Fatalf("globalize: %v", err)
	}
	return out
}

func TestGlobalizeNoTargetsIsIdentity(t *testing.T) {
	srcs := []string{
		"",
		"draw do\ncircle 50, 50, 10\nend",
		"def f(a)\nb = a\nend",
	}
	for _, src := range srcs {
		if got := globalize(t, src); got != src {
			t.Errorf("globalize(%q) = %q, want unchanged", src, got)
		}
	}
}

func TestGlobalizeRewritesEveryOccurrence(t *testing.T) {
	src := "x = 1\n\ndraw do\ncircle x, x, x\nx += 1\nend"
	want := "$x = 1\n\ndraw do\ncircle $x, $x, $x\n$x += 1\nend"
	if got := globalize(t, src); got != want {
		t.Fatalf("globalize:\n got %q\nwant %q", got, want)
	}
}

func TestGlobalizeManyOccurrencesOneLine(t *testing.T) {
	// несколько вставок на одной строке: каждая сдвигает следующие колонки
	src := "x = 1\ny = x + x + x + x"
	want := "$x = 1\n$y = $x + $x + $x + $x"
	if got := globalize(t, src); got != want {
		t.Fatalf("globalize:\n got %q\nwant %q", got, want)
	}
}

func TestGlobalizeLeavesScopedLocalsAlone(t *testing.T) {
	src := "x = 1\n\ndef helper\nx = 99\nx + 1\nend"
	want := "$x = 1\n\ndef helper\nx = 99\nx + 1\nend"
	if got := globalize(t, src); got != want {
		t.Fatalf("method-local x must stay local:\n got %q\nwant %q", got, want)
	}
}

func TestGlobalizeSkipsShadowingBlockParams(t *testing.T) {
	src := "x = 1\n\n5.times do |x|\nprint x\nend"
	want := "$x = 1\n\n5.times do |x|\nprint x\nend"
	if got := globalize(t, src); got != want {
		t.Fatalf("shadowed block param must stay untouched:\n got %q\nwant %q", got, want)
	}
}

func TestGlobalizeShadowingIsPerName(t *testing.T) {
	// |x| затеняет только x: прочие цели внутри тела остаются внешними
	src := "x = 1\ny = 2\n\n3.times do |x|\nbeep y\nend"
	want := "$x = 1\n$y = 2\n\n3.times do |x|\nbeep $y\nend"
	if got := globalize(t, src); got != want {
		t.Fatalf("globalize:\n got %q\nwant %q", got, want)
	}
}

func TestGlobalizeDoesNotTouchOtherNames(t *testing.T) {
	src := "count = 0\n\ndraw do\ncircle count, counter, 5\nend"
	got := globalize(t, src)
	if !strings.Contains(got, "circle $count, counter, 5") {
		t.Fatalf("only exact identifier matches get the sigil, got %q", got)
	}
}

func TestGlobalizeOutputStaysValid(t *testing.T) {
	src := "pos = 10\nspeed = 2\n\ndraw do\npos += speed\ncircle pos, 50, 10\nend"
	out := globalize(t, src)
	if _, err := ParseVersion("sketch.zj", out); err != nil {
		t.Fatalf("globalized output fails to parse: %v", err)
	}
}

func TestGlobalizeSyntaxErrorPropagates(t *testing.T) {
	_, err := Globalize("sketch.zj", "draw do\ncircle 1")
	if err == nil {
		t.Fatal("want syntax error for unbalanced do")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("want *SyntaxError, got %T", err)
	}
}
