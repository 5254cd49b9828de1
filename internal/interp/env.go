package interp

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward. The builtin frame at the root is sealed: sketch code can read
// natives but assignment never climbs into it.
type Env struct {
	parent *Env
	table  map[string]Value
	sealed bool
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Seal marks the frame as the builtin boundary: Set never writes here.
func (e *Env) Seal() { e.sealed = true }

// Define binds name in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding. It reports whether a binding was
// found; it does not implicitly define and never writes a sealed frame.
func (e *Env) Set(name string, v Value) bool {
	for f := e; f != nil; f = f.parent {
		if f.sealed {
			return false
		}
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return true
		}
	}
	return false
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Remove deletes a binding from this frame only. Removing an absent name is
// a no-op, which is exactly what the patcher wants.
func (e *Env) Remove(name string) {
	delete(e.table, name)
}

// Names returns the keys bound in this frame whose value satisfies keep.
func (e *Env) Names(keep func(Value) bool) []string {
	out := make([]string, 0, len(e.table))
	for name, v := range e.table {
		if keep == nil || keep(v) {
			out = append(out, name)
		}
	}
	return out
}
