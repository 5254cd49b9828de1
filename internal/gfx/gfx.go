// Package gfx installs the drawing and query natives sketches call. It is a
// thin call-through layer: coordinates in, canvas mutations out.
package gfx

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"fortio.org/safecast"

	"zajal/internal/canvas"
	"zajal/internal/interp"
	"zajal/internal/reload"
)

// Host is the mutable per-frame state the frontend feeds in and sketches
// read back through query natives.
type Host struct {
	Canvas     *canvas.Canvas
	FrameCount int64
	MouseX     int
	MouseY     int
	rng        *rand.Rand
}

// NewHost wraps a canvas with fresh frame state.
func NewHost(c *canvas.Canvas) *Host {
	return &Host{Canvas: c, rng: rand.New(rand.NewSource(1))}
}

// Seed reseeds the sketch's random stream.
func (h *Host) Seed(seed int64) { h.rng = rand.New(rand.NewSource(seed)) }

func toInt(v interp.Value) (int, error) {
	switch v.Kind {
	case interp.KindInt:
		n, err := safecast.Conv[int](v.Int())
		if err != nil {
			return 0, fmt.Errorf("coordinate %d out of range", v.Int())
		}
		return n, nil
	case interp.KindFloat:
		return int(v.Float()), nil
	}
	return 0, fmt.Errorf("expected a number, got %s", v.Kind)
}

func toFloat(v interp.Value) (float64, error) {
	f, ok := v.Num()
	if !ok {
		return 0, fmt.Errorf("expected a number, got %s", v.Kind)
	}
	return f, nil
}

func toColor(v interp.Value) (uint8, error) {
	n, err := toInt(v)
	if err != nil {
		return 0, err
	}
	c, cerr := safecast.Conv[uint8](n)
	if cerr != nil {
		return 0, errors.New("color index must be 0..255")
	}
	return c, nil
}

// Bind returns the native-registration hook for a fresh environment.
func (h *Host) Bind() reload.BindFunc {
	return func(in *interp.Interp) {
		reg := in.RegisterNative
		nilv := interp.NilVal()

		reg("size", 2, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			w, err := toInt(args[0])
			if err != nil {
				return nilv, err
			}
			hh, err := toInt(args[1])
			if err != nil {
				return nilv, err
			}
			h.Canvas.Resize(w, hh)
			return nilv, nil
		})
		reg("background", 1, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			idx, err := toColor(args[0])
			if err != nil {
				return nilv, err
			}
			h.Canvas.Background(idx)
			return nilv, nil
		})
		reg("color", 1, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			idx, err := toColor(args[0])
			if err != nil {
				return nilv, err
			}
			h.Canvas.SetColor(idx)
			return nilv, nil
		})
		reg("clear", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			h.Canvas.Clear()
			return nilv, nil
		})
		reg("point", 2, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			x, err := toInt(args[0])
			if err != nil {
				return nilv, err
			}
			y, err := toInt(args[1])
			if err != nil {
				return nilv, err
			}
			h.Canvas.Point(x, y)
			return nilv, nil
		})
		reg("circle", 3, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			vals, err := ints(args)
			if err != nil {
				return nilv, err
			}
			h.Canvas.Circle(vals[0], vals[1], vals[2])
			return nilv, nil
		})
		reg("rect", 4, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			vals, err := ints(args)
			if err != nil {
				return nilv, err
			}
			h.Canvas.Rect(vals[0], vals[1], vals[2], vals[3])
			return nilv, nil
		})
		reg("line", 4, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			vals, err := ints(args)
			if err != nil {
				return nilv, err
			}
			h.Canvas.Line(vals[0], vals[1], vals[2], vals[3])
			return nilv, nil
		})
		reg("text", 3, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			x, err := toInt(args[0])
			if err != nil {
				return nilv, err
			}
			y, err := toInt(args[1])
			if err != nil {
				return nilv, err
			}
			h.Canvas.Text(x, y, args[2].Inspect())
			return nilv, nil
		})

		reg("width", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			return interp.IntVal(int64(h.Canvas.Width())), nil
		})
		reg("height", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			return interp.IntVal(int64(h.Canvas.Height())), nil
		})
		reg("frame_count", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			return interp.IntVal(h.FrameCount), nil
		})
		reg("mouse_x", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			return interp.IntVal(int64(h.MouseX)), nil
		})
		reg("mouse_y", 0, func(_ *interp.Interp, _ []interp.Value, _ *interp.Proc) (interp.Value, error) {
			return interp.IntVal(int64(h.MouseY)), nil
		})

		reg("random", -1, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			switch len(args) {
			case 0:
				return interp.FloatVal(h.rng.Float64()), nil
			case 1:
				limit, err := toFloat(args[0])
				if err != nil {
					return nilv, err
				}
				return interp.FloatVal(h.rng.Float64() * limit), nil
			}
			return nilv, errors.New("random takes at most one argument")
		})
		reg("sin", 1, mathNative(math.Sin))
		reg("cos", 1, mathNative(math.Cos))
		reg("sqrt", 1, mathNative(math.Sqrt))
		reg("abs", 1, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			if args[0].Kind == interp.KindInt {
				n := args[0].Int()
				if n < 0 {
					n = -n
				}
				return interp.IntVal(n), nil
			}
			f, err := toFloat(args[0])
			if err != nil {
				return nilv, err
			}
			return interp.FloatVal(math.Abs(f)), nil
		})
		reg("min", 2, pickNative(func(a, b float64) bool { return a <= b }))
		reg("max", 2, pickNative(func(a, b float64) bool { return a >= b }))

		reg("print", -1, func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(os.Stderr, " ")
				}
				fmt.Fprint(os.Stderr, a.Inspect())
			}
			fmt.Fprintln(os.Stderr)
			return nilv, nil
		})
	}
}

func ints(args []interp.Value) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := toInt(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// pickNative builds a two-argument selector; the original int values come
// back untouched when the winner was an int.
func pickNative(wins func(a, b float64) bool) interp.NativeFn {
	return func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
		a, err := toFloat(args[0])
		if err != nil {
			return interp.NilVal(), err
		}
		b, err := toFloat(args[1])
		if err != nil {
			return interp.NilVal(), err
		}
		if wins(a, b) {
			return args[0], nil
		}
		return args[1], nil
	}
}

func mathNative(fn func(float64) float64) interp.NativeFn {
	return func(_ *interp.Interp, args []interp.Value, _ *interp.Proc) (interp.Value, error) {
		f, err := toFloat(args[0])
		if err != nil {
			return interp.NilVal(), err
		}
		return interp.FloatVal(fn(f)), nil
	}
}
