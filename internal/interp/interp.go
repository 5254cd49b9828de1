// Package interp is the tree-walking evaluator for zajal sketches.
//
// The interpreter owns three layers of state: a sealed builtin frame
// (natives registered by the graphics layer), the top-level user frame
// (methods, classes, modules, transient locals) and the global variable
// table ($name), which survives re-executions of the sketch within the same
// interpreter. The reload patcher leans on that split: removing a user
// definition is a single frame delete, and the globals table is what makes
// sketch state persist across incremental reloads.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"zajal/internal/ast"
	"zajal/internal/source"
)

// Error is a sketch runtime error with position and call trace.
type Error struct {
	Msg   string
	Span  source.Span
	Trace []string
}

func (e *Error) Error() string {
	if len(e.Trace) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (%s)", e.Msg, strings.Join(e.Trace, " ← "))
}

// управляющие сигналы — не ошибки, но ходят по error-каналу
type returnSignal struct{ val Value }
type breakSignal struct{}

func (returnSignal) Error() string { return "return outside of method" }
func (breakSignal) Error() string  { return "break outside of loop" }

const maxDepth = 4096

// Interp evaluates sketch code against a live environment.
type Interp struct {
	builtins  *Env
	top       *Env
	globals   map[string]Value
	selfStack []*Instance
	calls     []string
	depth     int
}

// ExecOptions controls one top-level execution.
type ExecOptions struct {
	// PreserveGlobals skips top-level assignments to globals that are
	// already defined. The patch path sets it so that re-executing the
	// sketch re-establishes definitions without wiping accumulated state.
	PreserveGlobals bool
}

// New creates an interpreter with an empty sealed builtin frame.
func New() *Interp {
	builtins := NewEnv(nil)
	builtins.Seal()
	return &Interp{
		builtins: builtins,
		top:      NewEnv(builtins),
		globals:  make(map[string]Value),
	}
}

// RegisterNative installs a builtin. arity < 0 means variadic.
func (in *Interp) RegisterNative(name string, arity int, fn NativeFn) {
	in.builtins.table[name] = NativeVal(&Native{Name: name, Arity: arity, Fn: fn})
}

// Top returns the user top-level frame (introspection for the patcher).
func (in *Interp) Top() *Env { return in.top }

// GlobalNames returns the names of all defined globals.
func (in *Interp) GlobalNames() []string {
	out := make([]string, 0, len(in.globals))
	for name := range in.globals {
		out = append(out, name)
	}
	return out
}

// Global reads a global variable.
func (in *Interp) Global(name string) (Value, bool) {
	v, ok := in.globals[name]
	return v, ok
}

// SetGlobal writes a global variable.
func (in *Interp) SetGlobal(name string, v Value) {
	in.globals[name] = v
}

// Exec runs the top-level statements of a parsed sketch.
func (in *Interp) Exec(root *ast.Node, opts ExecOptions) error {
	for _, stmt := range root.Kids {
		if opts.PreserveGlobals && in.skipForPatch(stmt) {
			continue
		}
		if _, err := in.evalNode(stmt, in.top); err != nil {
			switch err.(type) {
			case returnSignal, breakSignal:
				return in.errf(stmt.Span, "%s", err.Error())
			}
			return err
		}
	}
	return nil
}

// skipForPatch reports whether a top-level statement is an initializer of
// already-live global state and must not re-run during a patch.
func (in *Interp) skipForPatch(stmt *ast.Node) bool {
	defined := func(target *ast.Node) bool {
		if target.Kind != ast.GVar {
			return false
		}
		_, ok := in.globals[target.Text]
		return ok
	}
	switch stmt.Kind {
	case ast.Assign, ast.OpAssign:
		return defined(stmt.Kids[0])
	case ast.MultiAssign:
		for _, target := range stmt.Kids[0].Kids {
			if !defined(target) {
				return false
			}
		}
		return true
	}
	return false
}

// CallProc invokes a block closure (an installed event handler).
func (in *Interp) CallProc(p *Proc, args []Value) (Value, error) {
	return in.callProc(p, args)
}

func (in *Interp) errf(span source.Span, format string, args ...any) *Error {
	trace := make([]string, len(in.calls))
	copy(trace, in.calls)
	// последний вызов первым, как в руби-бэктрейсе
	for i, j := 0, len(trace)-1; i < j; i, j = i+1, j-1 {
		trace[i], trace[j] = trace[j], trace[i]
	}
	return &Error{
		Msg:   fmt.Sprintf(format, args...),
		Span:  span,
		Trace: trace,
	}
}

func (in *Interp) enter(what string) error {
	in.depth++
	if in.depth > maxDepth {
		in.depth--
		return in.errf(source.Span{}, "stack level too deep")
	}
	in.calls = append(in.calls, what)
	return nil
}

func (in *Interp) leave() {
	in.depth--
	in.calls = in.calls[:len(in.calls)-1]
}

func (in *Interp) self() *Instance {
	if len(in.selfStack) == 0 {
		return nil
	}
	return in.selfStack[len(in.selfStack)-1]
}

func (in *Interp) evalNode(n *ast.Node, env *Env) (Value, error) {
	switch n.Kind {
	case ast.IntLit:
		i, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return NilVal(), in.errf(n.Span, "integer literal %q out of range", n.Text)
		}
		return IntVal(i), nil
	case ast.FloatLit:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return NilVal(), in.errf(n.Span, "bad float literal %q", n.Text)
		}
		return FloatVal(f), nil
	case ast.StringLit:
		return StrVal(n.Text), nil
	case ast.SymLit:
		return SymVal(n.Text), nil
	case ast.BoolLit:
		return BoolVal(n.Text == "true"), nil
	case ast.NilLit:
		return NilVal(), nil
	case ast.ArrayLit:
		arr := &Array{Elems: make([]Value, 0, len(n.Kids))}
		for _, kid := range n.Kids {
			v, err := in.evalNode(kid, env)
			if err != nil {
				return NilVal(), err
			}
			arr.Elems = append(arr.Elems, v)
		}
		return ArrayVal(arr), nil

	case ast.Ident:
		return in.evalIdent(n, env)
	case ast.GVar:
		if v, ok := in.globals[n.Text]; ok {
			return v, nil
		}
		return NilVal(), nil // неопределённый глобал — nil, как в руби
	case ast.IVar:
		self := in.self()
		if self == nil {
			return NilVal(), in.errf(n.Span, "instance variable @%s used outside of a class", n.Text)
		}
		if v, ok := self.IVars[n.Text]; ok {
			return v, nil
		}
		return NilVal(), nil

	case ast.Index:
		return in.evalIndex(n, env)
	case ast.Assign:
		v, err := in.evalNode(n.Kids[1], env)
		if err != nil {
			return NilVal(), err
		}
		return v, in.assign(n.Kids[0], v, env)
	case ast.OpAssign:
		return in.evalOpAssign(n, env)
	case ast.MultiAssign:
		return in.evalMultiAssign(n, env)

	case ast.MethodDef:
		m := &Method{
			Name:   n.Text,
			Params: paramNames(n.Kids[0]),
			Body:   n.Kids[1],
			Env:    env,
		}
		env.Define(n.Text, MethodVal(m))
		return NilVal(), nil
	case ast.ClassDef:
		return in.evalClassDef(n, env)
	case ast.ModuleDef:
		return in.evalModuleDef(n, env)

	case ast.Call:
		return in.evalCall(n, env)
	case ast.MethodCall:
		return in.evalMethodCall(n, env)

	case ast.If:
		cond, err := in.evalNode(n.Kids[0], env)
		if err != nil {
			return NilVal(), err
		}
		if cond.Truthy() {
			return in.evalBody(n.Kids[1], env)
		}
		if len(n.Kids) == 3 {
			if n.Kids[2].Kind == ast.If {
				return in.evalNode(n.Kids[2], env)
			}
			return in.evalBody(n.Kids[2], env)
		}
		return NilVal(), nil
	case ast.While:
		for {
			cond, err := in.evalNode(n.Kids[0], env)
			if err != nil {
				return NilVal(), err
			}
			if !cond.Truthy() {
				return NilVal(), nil
			}
			if _, err := in.evalBody(n.Kids[1], env); err != nil {
				if _, ok := err.(breakSignal); ok {
					return NilVal(), nil
				}
				return NilVal(), err
			}
		}
	case ast.Return:
		val := NilVal()
		if len(n.Kids) == 1 {
			v, err := in.evalNode(n.Kids[0], env)
			if err != nil {
				return NilVal(), err
			}
			val = v
		}
		return NilVal(), returnSignal{val: val}
	case ast.Break:
		return NilVal(), breakSignal{}

	case ast.Binary:
		return in.evalBinary(n, env)
	case ast.Unary:
		operand, err := in.evalNode(n.Kids[0], env)
		if err != nil {
			return NilVal(), err
		}
		switch n.Text {
		case "-":
			switch operand.Kind {
			case KindInt:
				return IntVal(-operand.Int()), nil
			case KindFloat:
				return FloatVal(-operand.Float()), nil
			}
			return NilVal(), in.errf(n.Span, "cannot negate %s", operand.Kind)
		case "!":
			return BoolVal(!operand.Truthy()), nil
		}
		return NilVal(), in.errf(n.Span, "unknown unary operator %q", n.Text)

	case ast.Body, ast.Program:
		return in.evalBody(n, env)
	}
	return NilVal(), in.errf(n.Span, "cannot evaluate %s node", n.Kind)
}

func (in *Interp) evalBody(body *ast.Node, env *Env) (Value, error) {
	last := NilVal()
	for _, stmt := range body.Kids {
		v, err := in.evalNode(stmt, env)
		if err != nil {
			return NilVal(), err
		}
		last = v
	}
	return last, nil
}

func (in *Interp) evalIdent(n *ast.Node, env *Env) (Value, error) {
	v, ok := env.Get(n.Text)
	if !ok {
		return NilVal(), in.errf(n.Span, "undefined local variable or method %q", n.Text)
	}
	// голое имя метода — вызов без аргументов, как в руби
	switch v.Kind {
	case KindMethod:
		return in.invokeMethod(n.Span, v.method(), nil, nil, nil)
	case KindNative:
		return in.invokeNative(n.Span, v.native(), nil, nil)
	}
	return v, nil
}

func (in *Interp) assign(target *ast.Node, v Value, env *Env) error {
	switch target.Kind {
	case ast.Ident:
		if !env.Set(target.Text, v) {
			env.Define(target.Text, v)
		}
		return nil
	case ast.GVar:
		in.globals[target.Text] = v
		return nil
	case ast.IVar:
		self := in.self()
		if self == nil {
			return in.errf(target.Span, "instance variable @%s assigned outside of a class", target.Text)
		}
		self.IVars[target.Text] = v
		return nil
	case ast.Index:
		recv, err := in.evalNode(target.Kids[0], env)
		if err != nil {
			return err
		}
		idx, err := in.evalNode(target.Kids[1], env)
		if err != nil {
			return err
		}
		if recv.Kind != KindArray || idx.Kind != KindInt {
			return in.errf(target.Span, "cannot index %s with %s", recv.Kind, idx.Kind)
		}
		arr, i := recv.Arr(), idx.Int()
		if i < 0 {
			return in.errf(target.Span, "negative array index %d", i)
		}
		for int64(len(arr.Elems)) <= i {
			arr.Elems = append(arr.Elems, NilVal())
		}
		arr.Elems[i] = v
		return nil
	}
	return in.errf(target.Span, "invalid assignment target")
}

func (in *Interp) readTarget(target *ast.Node, env *Env) (Value, error) {
	switch target.Kind {
	case ast.Ident:
		if v, ok := env.Get(target.Text); ok {
			return v, nil
		}
		return NilVal(), in.errf(target.Span, "undefined local variable %q", target.Text)
	default:
		return in.evalNode(target, env)
	}
}

func (in *Interp) evalOpAssign(n *ast.Node, env *Env) (Value, error) {
	cur, err := in.readTarget(n.Kids[0], env)
	if err != nil {
		return NilVal(), err
	}
	rhs, err := in.evalNode(n.Kids[1], env)
	if err != nil {
		return NilVal(), err
	}
	v, err := in.applyBinary(n.Span, n.Text, cur, rhs)
	if err != nil {
		return NilVal(), err
	}
	return v, in.assign(n.Kids[0], v, env)
}

func (in *Interp) evalMultiAssign(n *ast.Node, env *Env) (Value, error) {
	targets, values := n.Kids[0].Kids, n.Kids[1].Kids
	vals := make([]Value, len(values))
	for i, vn := range values {
		v, err := in.evalNode(vn, env)
		if err != nil {
			return NilVal(), err
		}
		vals[i] = v
	}
	for i, target := range targets {
		v := NilVal()
		if i < len(vals) {
			v = vals[i]
		}
		if err := in.assign(target, v, env); err != nil {
			return NilVal(), err
		}
	}
	return NilVal(), nil
}

func (in *Interp) evalClassDef(n *ast.Node, env *Env) (Value, error) {
	var cls *Class
	if existing, ok := env.Get(n.Text); ok && existing.Kind == KindClass {
		// переоткрытие класса: живые экземпляры видят новые методы
		cls = existing.Class()
	} else {
		cls = &Class{Name: n.Text, Methods: make(map[string]*Method)}
	}
	if err := collectMethods(n.Kids[0], env, cls.Methods); err != nil {
		return NilVal(), err
	}
	env.Define(n.Text, ClassVal(cls))
	return NilVal(), nil
}

func (in *Interp) evalModuleDef(n *ast.Node, env *Env) (Value, error) {
	var mod *Module
	if existing, ok := env.Get(n.Text); ok && existing.Kind == KindModule {
		mod = existing.Mod()
	} else {
		mod = &Module{Name: n.Text, Methods: make(map[string]*Method)}
	}
	if err := collectMethods(n.Kids[0], env, mod.Methods); err != nil {
		return NilVal(), err
	}
	env.Define(n.Text, ModuleVal(mod))
	return NilVal(), nil
}

func collectMethods(body *ast.Node, env *Env, into map[string]*Method) error {
	for _, stmt := range body.Kids {
		if stmt.Kind != ast.MethodDef {
			continue // всё прочее в теле класса игнорируем
		}
		into[stmt.Text] = &Method{
			Name:   stmt.Text,
			Params: paramNames(stmt.Kids[0]),
			Body:   stmt.Kids[1],
			Env:    env,
		}
	}
	return nil
}

func paramNames(params *ast.Node) []string {
	out := make([]string, len(params.Kids))
	for i, p := range params.Kids {
		out[i] = p.Text
	}
	return out
}

// splitCallKids separates evaluated arguments from a trailing block.
func (in *Interp) splitCallKids(kids []*ast.Node, env *Env) ([]Value, *Proc, error) {
	var blk *Proc
	if len(kids) > 0 && kids[len(kids)-1].Kind == ast.Block {
		blkNode := kids[len(kids)-1]
		blk = &Proc{
			Params: paramNames(blkNode.Kids[0]),
			Body:   blkNode.Kids[1],
			Env:    env,
		}
		kids = kids[:len(kids)-1]
	}
	args := make([]Value, len(kids))
	for i, kid := range kids {
		v, err := in.evalNode(kid, env)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	return args, blk, nil
}

func (in *Interp) evalCall(n *ast.Node, env *Env) (Value, error) {
	args, blk, err := in.splitCallKids(n.Kids, env)
	if err != nil {
		return NilVal(), err
	}
	callee, ok := env.Get(n.Text)
	if !ok {
		return NilVal(), in.errf(n.Span, "undefined method %q", n.Text)
	}
	switch callee.Kind {
	case KindNative:
		return in.invokeNative(n.Span, callee.native(), args, blk)
	case KindMethod:
		return in.invokeMethod(n.Span, callee.method(), nil, args, blk)
	case KindProc:
		return in.callProc(callee.Proc(), args)
	}
	return NilVal(), in.errf(n.Span, "%q is not callable (%s)", n.Text, callee.Kind)
}

func (in *Interp) evalMethodCall(n *ast.Node, env *Env) (Value, error) {
	recv, err := in.evalNode(n.Kids[0], env)
	if err != nil {
		return NilVal(), err
	}
	args, blk, err := in.splitCallKids(n.Kids[1:], env)
	if err != nil {
		return NilVal(), err
	}

	switch recv.Kind {
	case KindInstance:
		inst := recv.Inst()
		if m, ok := inst.Class.Methods[n.Text]; ok {
			return in.invokeMethod(n.Span, m, inst, args, blk)
		}
		return NilVal(), in.errf(n.Span, "undefined method %q for %s", n.Text, inst.Class.Name)
	case KindClass:
		cls := recv.Class()
		if n.Text == "new" {
			inst := &Instance{Class: cls, IVars: make(map[string]Value)}
			if init, ok := cls.Methods["initialize"]; ok {
				if _, err := in.invokeMethod(n.Span, init, inst, args, blk); err != nil {
					return NilVal(), err
				}
			}
			return InstanceVal(inst), nil
		}
		return NilVal(), in.errf(n.Span, "undefined class method %q for %s", n.Text, cls.Name)
	case KindModule:
		mod := recv.Mod()
		if m, ok := mod.Methods[n.Text]; ok {
			return in.invokeMethod(n.Span, m, nil, args, blk)
		}
		return NilVal(), in.errf(n.Span, "undefined method %q for module %s", n.Text, mod.Name)
	}
	return in.builtinMethod(n, recv, args, blk)
}

func (in *Interp) invokeNative(span source.Span, nat *Native, args []Value, blk *Proc) (Value, error) {
	if nat.Arity >= 0 && len(args) != nat.Arity {
		return NilVal(), in.errf(span, "%s expects %d arguments, got %d", nat.Name, nat.Arity, len(args))
	}
	if err := in.enter(nat.Name); err != nil {
		return NilVal(), err
	}
	defer in.leave()
	v, err := nat.Fn(in, args, blk)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return NilVal(), err
		}
		return NilVal(), in.errf(span, "%s: %s", nat.Name, err.Error())
	}
	return v, nil
}

func (in *Interp) invokeMethod(span source.Span, m *Method, self *Instance, args []Value, blk *Proc) (Value, error) {
	_ = blk // блоки у пользовательских методов пока не поддержаны
	if len(args) != len(m.Params) {
		return NilVal(), in.errf(span, "%s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	if err := in.enter(m.Name); err != nil {
		return NilVal(), err
	}
	defer in.leave()

	env := NewEnv(m.Env)
	for i, p := range m.Params {
		env.Define(p, args[i])
	}
	if self != nil {
		in.selfStack = append(in.selfStack, self)
		defer func() { in.selfStack = in.selfStack[:len(in.selfStack)-1] }()
	}
	v, err := in.evalBody(m.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.val, nil
		}
		return NilVal(), err
	}
	return v, nil
}

func (in *Interp) callProc(p *Proc, args []Value) (Value, error) {
	if err := in.enter("block"); err != nil {
		return NilVal(), err
	}
	defer in.leave()

	env := NewEnv(p.Env)
	for i, param := range p.Params {
		if i < len(args) {
			env.Define(param, args[i])
		} else {
			env.Define(param, NilVal())
		}
	}
	v, err := in.evalBody(p.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.val, nil
		}
		return NilVal(), err
	}
	return v, nil
}

func (in *Interp) evalIndex(n *ast.Node, env *Env) (Value, error) {
	recv, err := in.evalNode(n.Kids[0], env)
	if err != nil {
		return NilVal(), err
	}
	idx, err := in.evalNode(n.Kids[1], env)
	if err != nil {
		return NilVal(), err
	}
	if recv.Kind != KindArray || idx.Kind != KindInt {
		return NilVal(), in.errf(n.Span, "cannot index %s with %s", recv.Kind, idx.Kind)
	}
	arr, i := recv.Arr(), idx.Int()
	if i < 0 || i >= int64(len(arr.Elems)) {
		return NilVal(), nil
	}
	return arr.Elems[i], nil
}
