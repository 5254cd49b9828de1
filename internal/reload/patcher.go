package reload

import (
	"zajal/internal/interp"
)

// BindFunc registers host natives (drawing primitives and friends) on a
// freshly built interpreter.
type BindFunc func(*interp.Interp)

// Environment is the live runtime state the reload engine mutates: an
// interpreter instance plus the table of installed event handlers. Owned by
// the orchestrator, mutated only between two draw calls, never concurrently.
type Environment struct {
	in       *interp.Interp
	handlers map[string]*interp.Proc
}

// NewEnvironment builds a fresh environment: a new interpreter with the
// event-registration natives installed, then whatever bind adds on top.
func NewEnvironment(bind BindFunc) *Environment {
	env := &Environment{
		in:       interp.New(),
		handlers: make(map[string]*interp.Proc),
	}
	for _, name := range EventNames() {
		name := name
		env.in.RegisterNative(name, -1, func(_ *interp.Interp, _ []interp.Value, blk *interp.Proc) (interp.Value, error) {
			if blk != nil {
				env.handlers[name] = blk
			}
			return interp.NilVal(), nil
		})
	}
	if bind != nil {
		bind(env.in)
	}
	return env
}

// Interp exposes the underlying interpreter (native state readbacks).
func (env *Environment) Interp() *interp.Interp { return env.in }

// Handler returns the installed handler for an event, if any.
func (env *Environment) Handler(event string) (*interp.Proc, bool) {
	h, ok := env.handlers[event]
	return h, ok
}

// Events returns the names of all installed event handlers.
func (env *Environment) Events() []string {
	out := make([]string, 0, len(env.handlers))
	for name := range env.handlers {
		out = append(out, name)
	}
	return out
}

// Fire invokes an event handler with the given arguments. A missing handler
// is a no-op.
func (env *Environment) Fire(event string, args ...interp.Value) error {
	h, ok := env.handlers[event]
	if !ok {
		return nil
	}
	if _, err := env.in.CallProc(h, args); err != nil {
		return &RuntimeError{Phase: event, Err: err}
	}
	return nil
}

// Load executes a sketch version from scratch against this environment.
func (env *Environment) Load(v *Version) error {
	if err := env.in.Exec(v.Pos, interp.ExecOptions{}); err != nil {
		return &RuntimeError{Phase: "load", Err: err}
	}
	return nil
}

// Apply performs the incremental patch path: remove every construct the
// delta names on the removed side, then re-execute the new source against
// the live environment. Deletions happen first, so re-execution naturally
// re-establishes everything the new source still declares; removed
// constructs stay absent. Global initializers for already-live globals are
// skipped, which is what keeps sketch state across the patch.
//
// If re-execution raises, deletions are not rolled back; the caller
// transitions to the error state and the user recovers by fixing the file.
func (env *Environment) Apply(delta Categorized, next *Version) error {
	for _, name := range delta.Events.Removed {
		delete(env.handlers, name)
	}
	for _, name := range delta.Methods.Removed {
		env.in.Top().Remove(name)
	}
	for _, name := range delta.Classes.Removed {
		env.in.Top().Remove(name)
	}
	for _, name := range delta.Modules.Removed {
		env.in.Top().Remove(name)
	}
	if err := env.in.Exec(next.Pos, interp.ExecOptions{PreserveGlobals: true}); err != nil {
		return &PatchError{Err: err}
	}
	return nil
}

// Methods returns the user-defined method names currently live.
func (env *Environment) Methods() []string {
	return env.in.Top().Names(func(v interp.Value) bool { return v.Kind == interp.KindMethod })
}

// Classes returns the class names currently live.
func (env *Environment) Classes() []string {
	return env.in.Top().Names(func(v interp.Value) bool { return v.Kind == interp.KindClass })
}

// Modules returns the module names currently live.
func (env *Environment) Modules() []string {
	return env.in.Top().Names(func(v interp.Value) bool { return v.Kind == interp.KindModule })
}

// Globals returns the global variable names currently bound.
func (env *Environment) Globals() []string {
	return env.in.GlobalNames()
}
