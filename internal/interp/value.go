package interp

import (
	"fmt"
	"strconv"
	"strings"

	"zajal/internal/ast"
)

// Kind tags a runtime value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindSym
	KindArray
	KindProc
	KindNative
	KindMethod
	KindClass
	KindInstance
	KindModule
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindStr:      "string",
	KindSym:      "symbol",
	KindArray:    "array",
	KindProc:     "proc",
	KindNative:   "native",
	KindMethod:   "method",
	KindClass:    "class",
	KindInstance: "instance",
	KindModule:   "module",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one runtime value. Data holds the payload for composite kinds.
type Value struct {
	Kind Kind
	Data any
}

func NilVal() Value            { return Value{Kind: KindNil} }
func BoolVal(b bool) Value     { return Value{Kind: KindBool, Data: b} }
func IntVal(i int64) Value     { return Value{Kind: KindInt, Data: i} }
func FloatVal(f float64) Value { return Value{Kind: KindFloat, Data: f} }
func StrVal(s string) Value    { return Value{Kind: KindStr, Data: s} }
func SymVal(s string) Value    { return Value{Kind: KindSym, Data: s} }

func ArrayVal(a *Array) Value       { return Value{Kind: KindArray, Data: a} }
func ProcVal(p *Proc) Value         { return Value{Kind: KindProc, Data: p} }
func NativeVal(n *Native) Value     { return Value{Kind: KindNative, Data: n} }
func MethodVal(m *Method) Value     { return Value{Kind: KindMethod, Data: m} }
func ClassVal(c *Class) Value       { return Value{Kind: KindClass, Data: c} }
func InstanceVal(i *Instance) Value { return Value{Kind: KindInstance, Data: i} }
func ModuleVal(m *Module) Value     { return Value{Kind: KindModule, Data: m} }

func (v Value) Bool() bool         { b, _ := v.Data.(bool); return b }
func (v Value) Int() int64         { i, _ := v.Data.(int64); return i }
func (v Value) Float() float64     { f, _ := v.Data.(float64); return f }
func (v Value) Str() string        { s, _ := v.Data.(string); return s }
func (v Value) Arr() *Array        { a, _ := v.Data.(*Array); return a }
func (v Value) Proc() *Proc        { p, _ := v.Data.(*Proc); return p }
func (v Value) Class() *Class      { c, _ := v.Data.(*Class); return c }
func (v Value) Inst() *Instance    { i, _ := v.Data.(*Instance); return i }
func (v Value) Mod() *Module       { m, _ := v.Data.(*Module); return m }
func (v Value) native() *Native    { n, _ := v.Data.(*Native); return n }
func (v Value) method() *Method    { m, _ := v.Data.(*Method); return m }

// Truthy follows ruby rules: everything except nil and false is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Num returns the value as float64 for mixed arithmetic.
func (v Value) Num() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int()), true
	case KindFloat:
		return v.Float(), true
	default:
		return 0, false
	}
}

// Inspect renders the value for diagnostics and `print`.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindStr:
		return v.Str()
	case KindSym:
		return ":" + v.Str()
	case KindArray:
		parts := make([]string, len(v.Arr().Elems))
		for i, e := range v.Arr().Elems {
			parts[i] = e.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindProc:
		return "#<proc>"
	case KindNative:
		return fmt.Sprintf("#<native %s>", v.native().Name)
	case KindMethod:
		return fmt.Sprintf("#<method %s>", v.method().Name)
	case KindClass:
		return fmt.Sprintf("#<class %s>", v.Class().Name)
	case KindInstance:
		return fmt.Sprintf("#<%s>", v.Inst().Class.Name)
	case KindModule:
		return fmt.Sprintf("#<module %s>", v.Mod().Name)
	}
	return "#<unknown>"
}

// Equal is structural equality for the == operator.
func Equal(a, b Value) bool {
	if a.Kind == KindInt && b.Kind == KindFloat || a.Kind == KindFloat && b.Kind == KindInt {
		af, _ := a.Num()
		bf, _ := b.Num()
		return af == bf
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.Bool() == b.Bool()
	case KindInt:
		return a.Int() == b.Int()
	case KindFloat:
		return a.Float() == b.Float()
	case KindStr, KindSym:
		return a.Str() == b.Str()
	case KindArray:
		x, y := a.Arr(), b.Arr()
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	default:
		// ссылочные типы сравниваем по идентичности
		return a.Data == b.Data
	}
}

// Array is a mutable value list.
type Array struct {
	Elems []Value
}

// Proc is a block closure: parameters, body and the captured environment.
type Proc struct {
	Params []string
	Body   *ast.Node
	Env    *Env
}

// Method is a user-defined method. Methods close over the environment of the
// scope they were defined in (top level or a class body).
type Method struct {
	Name   string
	Params []string
	Body   *ast.Node
	Env    *Env
}

// NativeFn implements a built-in. args are already evaluated; blk is the
// attached do-block, nil when absent.
type NativeFn func(in *Interp, args []Value, blk *Proc) (Value, error)

// Native is a registered built-in function.
type Native struct {
	Name  string
	Arity int // -1 означает variadic
	Fn    NativeFn
}

// Class is a user-defined class: a named method table.
type Class struct {
	Name    string
	Methods map[string]*Method
}

// Instance is an object: a class pointer plus instance variables.
type Instance struct {
	Class *Class
	IVars map[string]Value
}

// Module is a named bag of methods addressed as Name.method.
type Module struct {
	Name    string
	Methods map[string]*Method
}
