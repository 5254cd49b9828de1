package reload

import (
	"fmt"
	"strings"

	"zajal/internal/diag"
	"zajal/internal/source"
)

// SyntaxError reports that a sketch version failed to parse. The positions in
// Diags refer to the globalized text.
type SyntaxError struct {
	Path  string
	File  *source.File
	Diags []diag.Diagnostic
}

func (e *SyntaxError) Error() string {
	if len(e.Diags) == 0 {
		return fmt.Sprintf("%s: syntax error", e.Path)
	}
	first := e.Diags[0]
	lc := e.File.Resolve(first.Primary.Start)
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, lc.Line, lc.Col, first.Message)
}

// Messages renders every collected diagnostic, one per line.
func (e *SyntaxError) Messages() []string {
	out := make([]string, len(e.Diags))
	for i, d := range e.Diags {
		lc := e.File.Resolve(d.Primary.Start)
		out[i] = fmt.Sprintf("%s:%d:%d: %s", e.Path, lc.Line, lc.Col, d.Message)
	}
	return out
}

// RuntimeError wraps a sketch error raised while executing valid syntax,
// tagged with the phase it happened in (load, setup, draw, ...).
type RuntimeError struct {
	Phase string
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err.Error())
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// PatchError is a runtime error raised while re-executing the sketch during
// an incremental patch. Deletions already applied stay applied.
type PatchError struct {
	Err error
}

func (e *PatchError) Error() string { return "patch: " + e.Err.Error() }

func (e *PatchError) Unwrap() error { return e.Err }

// FatalError is unrecoverable: the watched file disappeared out from under
// us. The process exits rather than guessing at what the user wants.
type FatalError struct {
	Path string
	Err  error
}

func (e *FatalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "The script file '%s' cannot be read.\n", e.Path)
	b.WriteString("It may have been moved or deleted.")
	return b.String()
}

func (e *FatalError) Unwrap() error { return e.Err }
