package interp

import (
	"math"

	"zajal/internal/ast"
)

// builtinMethod dispatches method calls on primitive values. The set mirrors
// what sketches actually reach for: iteration, sizes and a few conversions.
func (in *Interp) builtinMethod(n *ast.Node, recv Value, args []Value, blk *Proc) (Value, error) {
	name := n.Text
	switch recv.Kind {
	case KindInt:
		switch name {
		case "times":
			if blk == nil {
				return NilVal(), in.errf(n.Span, "times requires a block")
			}
			for i := int64(0); i < recv.Int(); i++ {
				if _, err := in.callProc(blk, []Value{IntVal(i)}); err != nil {
					if _, ok := err.(breakSignal); ok {
						break
					}
					return NilVal(), err
				}
			}
			return recv, nil
		case "to_f":
			return FloatVal(float64(recv.Int())), nil
		case "to_i":
			return recv, nil
		case "abs":
			if recv.Int() < 0 {
				return IntVal(-recv.Int()), nil
			}
			return recv, nil
		}
	case KindFloat:
		switch name {
		case "to_i":
			return IntVal(int64(recv.Float())), nil
		case "to_f":
			return recv, nil
		case "abs":
			return FloatVal(math.Abs(recv.Float())), nil
		case "floor":
			return IntVal(int64(math.Floor(recv.Float()))), nil
		case "ceil":
			return IntVal(int64(math.Ceil(recv.Float()))), nil
		case "round":
			return IntVal(int64(math.Round(recv.Float()))), nil
		}
	case KindArray:
		arr := recv.Arr()
		switch name {
		case "size", "length":
			return IntVal(int64(len(arr.Elems))), nil
		case "push":
			arr.Elems = append(arr.Elems, args...)
			return recv, nil
		case "pop":
			if len(arr.Elems) == 0 {
				return NilVal(), nil
			}
			last := arr.Elems[len(arr.Elems)-1]
			arr.Elems = arr.Elems[:len(arr.Elems)-1]
			return last, nil
		case "first":
			if len(arr.Elems) == 0 {
				return NilVal(), nil
			}
			return arr.Elems[0], nil
		case "last":
			if len(arr.Elems) == 0 {
				return NilVal(), nil
			}
			return arr.Elems[len(arr.Elems)-1], nil
		case "clear":
			arr.Elems = arr.Elems[:0]
			return recv, nil
		case "each":
			if blk == nil {
				return NilVal(), in.errf(n.Span, "each requires a block")
			}
			for _, el := range arr.Elems {
				if _, err := in.callProc(blk, []Value{el}); err != nil {
					if _, ok := err.(breakSignal); ok {
						break
					}
					return NilVal(), err
				}
			}
			return recv, nil
		case "each_with_index":
			if blk == nil {
				return NilVal(), in.errf(n.Span, "each_with_index requires a block")
			}
			for i, el := range arr.Elems {
				if _, err := in.callProc(blk, []Value{el, IntVal(int64(i))}); err != nil {
					if _, ok := err.(breakSignal); ok {
						break
					}
					return NilVal(), err
				}
			}
			return recv, nil
		case "map":
			if blk == nil {
				return NilVal(), in.errf(n.Span, "map requires a block")
			}
			out := make([]Value, 0, len(arr.Elems))
			for _, el := range arr.Elems {
				v, err := in.callProc(blk, []Value{el})
				if err != nil {
					return NilVal(), err
				}
				out = append(out, v)
			}
			return ArrayVal(&Array{Elems: out}), nil
		}
	case KindStr:
		switch name {
		case "size", "length":
			return IntVal(int64(len([]rune(recv.Str())))), nil
		}
	case KindNil:
		if name == "nil?" {
			return BoolVal(true), nil
		}
	}
	if name == "nil?" {
		return BoolVal(false), nil
	}
	if name == "inspect" || name == "to_s" {
		return StrVal(recv.Inspect()), nil
	}
	return NilVal(), in.errf(n.Span, "undefined method %q for %s", name, recv.Kind)
}
