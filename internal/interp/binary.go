package interp

import (
	"math"

	"zajal/internal/ast"
	"zajal/internal/source"
)

func (in *Interp) evalBinary(n *ast.Node, env *Env) (Value, error) {
	// && и || ленивые, остальные — строгие
	switch n.Text {
	case "&&":
		lhs, err := in.evalNode(n.Kids[0], env)
		if err != nil {
			return NilVal(), err
		}
		if !lhs.Truthy() {
			return lhs, nil
		}
		return in.evalNode(n.Kids[1], env)
	case "||":
		lhs, err := in.evalNode(n.Kids[0], env)
		if err != nil {
			return NilVal(), err
		}
		if lhs.Truthy() {
			return lhs, nil
		}
		return in.evalNode(n.Kids[1], env)
	}
	lhs, err := in.evalNode(n.Kids[0], env)
	if err != nil {
		return NilVal(), err
	}
	rhs, err := in.evalNode(n.Kids[1], env)
	if err != nil {
		return NilVal(), err
	}
	return in.applyBinary(n.Span, n.Text, lhs, rhs)
}

func bothInts(a, b Value) bool { return a.Kind == KindInt && b.Kind == KindInt }

func numeric(v Value) bool { return v.Kind == KindInt || v.Kind == KindFloat }

func (in *Interp) applyBinary(span source.Span, op string, lhs, rhs Value) (Value, error) {
	switch op {
	case "==":
		return BoolVal(Equal(lhs, rhs)), nil
	case "!=":
		return BoolVal(!Equal(lhs, rhs)), nil
	}

	if op == "+" {
		switch {
		case lhs.Kind == KindStr && rhs.Kind == KindStr:
			return StrVal(lhs.Str() + rhs.Str()), nil
		case lhs.Kind == KindArray && rhs.Kind == KindArray:
			merged := make([]Value, 0, len(lhs.Arr().Elems)+len(rhs.Arr().Elems))
			merged = append(merged, lhs.Arr().Elems...)
			merged = append(merged, rhs.Arr().Elems...)
			return ArrayVal(&Array{Elems: merged}), nil
		}
	}

	if !numeric(lhs) || !numeric(rhs) {
		return NilVal(), in.errf(span, "cannot apply %q to %s and %s", op, lhs.Kind, rhs.Kind)
	}

	if bothInts(lhs, rhs) {
		a, b := lhs.Int(), rhs.Int()
		switch op {
		case "+":
			return IntVal(a + b), nil
		case "-":
			return IntVal(a - b), nil
		case "*":
			return IntVal(a * b), nil
		case "/":
			if b == 0 {
				return NilVal(), in.errf(span, "divided by 0")
			}
			return IntVal(a / b), nil
		case "%":
			if b == 0 {
				return NilVal(), in.errf(span, "divided by 0")
			}
			return IntVal(a % b), nil
		case "<":
			return BoolVal(a < b), nil
		case "<=":
			return BoolVal(a <= b), nil
		case ">":
			return BoolVal(a > b), nil
		case ">=":
			return BoolVal(a >= b), nil
		}
		return NilVal(), in.errf(span, "unknown operator %q", op)
	}

	a, _ := lhs.Num()
	b, _ := rhs.Num()
	switch op {
	case "+":
		return FloatVal(a + b), nil
	case "-":
		return FloatVal(a - b), nil
	case "*":
		return FloatVal(a * b), nil
	case "/":
		return FloatVal(a / b), nil
	case "%":
		return FloatVal(math.Mod(a, b)), nil
	case "<":
		return BoolVal(a < b), nil
	case "<=":
		return BoolVal(a <= b), nil
	case ">":
		return BoolVal(a > b), nil
	case ">=":
		return BoolVal(a >= b), nil
	}
	return NilVal(), in.errf(span, "unknown operator %q", op)
}
