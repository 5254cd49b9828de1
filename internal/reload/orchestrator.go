package reload

import (
	"go.uber.org/zap"

	"zajal/internal/interp"
	"zajal/internal/observ"
)

// State is the orchestrator's lifecycle state.
type State uint8

const (
	// StateNoSketch holds before the first load attempt.
	StateNoSketch State = iota
	// StateRunning means the sketch loaded and its handlers are live.
	StateRunning
	// StateError means the last load, patch or handler call raised. The
	// last good frame keeps rendering while the user fixes the file.
	StateError
)

func (s State) String() string {
	switch s {
	case StateNoSketch:
		return "no sketch"
	case StateRunning:
		return "running"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Orchestrator ties parser, differ, policy and patcher together and owns the
// runtime environment. Single-threaded: every method must be called from the
// frame loop, never during a draw.
type Orchestrator struct {
	state   State
	env     *Environment
	current *Version
	lastErr error
	bind    BindFunc
	log     *zap.Logger

	// BeforeReset runs just before a full reset tears the environment
	// down, while the last good frame is still intact. The frontend hooks
	// its snapshot capture here.
	BeforeReset func()
}

// NewOrchestrator creates an orchestrator in the NoSketch state. bind
// installs host natives on every fresh environment the orchestrator builds.
func NewOrchestrator(bind BindFunc, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		state: StateNoSketch,
		bind:  bind,
		log:   logger,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Err returns the error that put the orchestrator into StateError.
func (o *Orchestrator) Err() error { return o.lastErr }

// Env returns the live environment, nil before the first successful load.
func (o *Orchestrator) Env() *Environment { return o.env }

// Current returns the active sketch version, nil before the first
// successful load.
func (o *Orchestrator) Current() *Version { return o.current }

// Load establishes version zero: always the equivalent of a full reset.
func (o *Orchestrator) Load(path, text string) error {
	v, err := ParseVersion(path, text)
	if err != nil {
		o.fail(err)
		return err
	}
	return o.fullReset(v)
}

// Reload handles a detected file change. Invalid text moves to StateError;
// otherwise the policy picks between an in-place patch and a full reset.
// Recovering from StateError always forces a full reset, because the live
// environment may hold half of the broken version.
func (o *Orchestrator) Reload(text string) error {
	path := ""
	if o.current != nil {
		path = o.current.Path
	}
	timer := observ.NewTimer()

	phase := timer.Begin("parse")
	v, err := ParseVersion(path, text)
	timer.End(phase, "")
	if err != nil {
		o.fail(err)
		return err
	}

	if o.current == nil || o.state != StateRunning {
		o.log.Debug("reload", zap.String("decision", "full reset"), zap.String("reason", "no healthy previous version"))
		return o.fullReset(v)
	}

	phase = timer.Begin("diff")
	delta := Categorize(Diff(o.current.Norm, v.Norm), o.current.Norm, v.Norm)
	timer.End(phase, "")
	decision := Decide(true, delta)
	o.log.Debug("reload",
		zap.String("decision", decision.Kind.String()),
		zap.String("reason", decision.Reason),
		zap.Strings("events_removed", delta.Events.Removed),
		zap.Strings("events_added", delta.Events.Added),
		zap.Strings("globals_removed", delta.Globals.Removed),
		zap.Strings("globals_added", delta.Globals.Added),
	)

	if decision.Kind == DecideFullReset {
		return o.fullReset(v)
	}
	phase = timer.Begin("apply")
	err = o.env.Apply(decision.Delta, v)
	timer.End(phase, "")
	if err != nil {
		o.fail(err)
		return err
	}
	o.current = v
	o.state = StateRunning
	o.lastErr = nil
	o.log.Debug("patched", zap.String("timings", timer.Summary()))
	return nil
}

// fullReset discards the environment, rebuilds it from scratch and runs the
// sketch top to bottom, then setup.
func (o *Orchestrator) fullReset(v *Version) error {
	if o.BeforeReset != nil && o.state == StateRunning {
		o.BeforeReset()
	}
	env := NewEnvironment(o.bind)
	if err := env.Load(v); err != nil {
		o.fail(err)
		return err
	}
	// setup восстанавливает инварианты скетча после каждого сброса
	if err := env.Fire(SetupEvent); err != nil {
		o.env = env
		o.current = v
		o.fail(err)
		return err
	}
	o.env = env
	o.current = v
	o.state = StateRunning
	o.lastErr = nil
	return nil
}

// Fire invokes an event handler if the sketch is running. A raising handler
// moves the orchestrator to StateError; the frame loop keeps going.
func (o *Orchestrator) Fire(event string, args ...interp.Value) {
	if o.state != StateRunning || o.env == nil {
		return
	}
	if err := o.env.Fire(event, args...); err != nil {
		o.fail(err)
	}
}

func (o *Orchestrator) fail(err error) {
	o.state = StateError
	o.lastErr = err
	o.log.Warn("sketch error", zap.String("error", err.Error()))
}
