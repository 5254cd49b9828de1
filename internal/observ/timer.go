// Package observ tracks how long the phases of a reload take. The timings
// feed the verbose diagnostic channel; a reload must fit into one frame
// slot, so a slow phase is worth noticing.
package observ

import (
	"fmt"
	"time"
)

// Phase records the duration and metadata of one reload phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of the phases of a single reload.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Total returns the summed duration of all finished phases.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// Summary returns a compact single-line report for the verbose log.
func (t *Timer) Summary() string {
	out := ""
	for i, p := range t.phases {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%.2fms", p.Name, float64(p.Dur)/float64(time.Millisecond))
		if p.Note != "" {
			out += "(" + p.Note + ")"
		}
	}
	return out
}
