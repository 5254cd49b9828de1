package gfx

import (
	"strings"
	"testing"

	"zajal/internal/canvas"
	"zajal/internal/reload"
)

func newSketch(t *testing.T, src string) (*reload.Orchestrator, *Host) {
	t.Helper()
	host := NewHost(canvas.New(40, 20))
	o := reload.NewOrchestrator(host.Bind(), nil)
	if err := o.Load("sketch.zj", src); err != nil {
		t.Fatalf("load: %v", err)
	}
	return o, host
}

func TestDrawPrimitivesReachCanvas(t *testing.T) {
	o, host := newSketch(t, `
draw do
  color 2
  circle 20, 10, 3
  line 0, 0, 5, 0
  rect 1, 15, 4, 3
  point 39, 19
end
`)
	o.Fire("draw")
	if o.State() != reload.StateRunning {
		t.Fatalf("state = %s, err = %v", o.State(), o.Err())
	}
	out := host.Canvas.Render()
	if !strings.Contains(out, "█") {
		t.Fatal("nothing drawn")
	}
}

func TestQueryNatives(t *testing.T) {
	o, host := newSketch(t, `
$w = width
$h = height
`)
	_ = host
	w, _ := o.Env().Interp().Global("w")
	h, _ := o.Env().Interp().Global("h")
	if w.Int() != 40 || h.Int() != 20 {
		t.Fatalf("width/height = %d/%d, want 40/20", w.Int(), h.Int())
	}
}

func TestMouseAndFrameReadbacks(t *testing.T) {
	o, host := newSketch(t, `
draw do
  $x = mouse_x
  $f = frame_count
end
`)
	host.MouseX = 13
	host.FrameCount = 7
	o.Fire("draw")
	x, _ := o.Env().Interp().Global("x")
	f, _ := o.Env().Interp().Global("f")
	if x.Int() != 13 || f.Int() != 7 {
		t.Fatalf("mouse_x/frame_count = %d/%d, want 13/7", x.Int(), f.Int())
	}
}

func TestRandomIsBounded(t *testing.T) {
	o, _ := newSketch(t, "$r = random 10")
	r, _ := o.Env().Interp().Global("r")
	if f := r.Float(); f < 0 || f >= 10 {
		t.Fatalf("random 10 = %f out of range", f)
	}
}

func TestMathNatives(t *testing.T) {
	o, _ := newSketch(t, `
$a = abs(-5)
$m = min(3, 8)
$x = max(3, 8)
$s = sqrt(9.0)
`)
	in := o.Env().Interp()
	a, _ := in.Global("a")
	m, _ := in.Global("m")
	x, _ := in.Global("x")
	s, _ := in.Global("s")
	if a.Int() != 5 || m.Int() != 3 || x.Int() != 8 {
		t.Fatalf("abs/min/max = %d/%d/%d, want 5/3/8", a.Int(), m.Int(), x.Int())
	}
	if s.Float() != 3.0 {
		t.Fatalf("sqrt(9.0) = %f, want 3", s.Float())
	}
}

func TestBadColorIsRuntimeError(t *testing.T) {
	o, _ := newSketch(t, "draw do\ncolor 999\nend")
	o.Fire("draw")
	if o.State() != reload.StateError {
		t.Fatal("color 999 must raise")
	}
}

func TestSizeResizesCanvas(t *testing.T) {
	_, host := newSketch(t, "setup do\nsize 11, 7\nend")
	if host.Canvas.Width() != 11 || host.Canvas.Height() != 7 {
		t.Fatalf("canvas = %dx%d, want 11x7", host.Canvas.Width(), host.Canvas.Height())
	}
}
