// Package diag defines the diagnostic model shared by the lexer and parser.
//
// It deliberately stays small: deterministic data structures plus a Reporter
// contract, no formatting or IO. Rendering lives in the CLI layer; the reload
// orchestrator only asks a Bag whether a parse produced errors and takes the
// first one as the user-visible syntax error.
package diag

import (
	"zajal/internal/source"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is for warning diagnostics.
	SevWarning Severity = iota
	// SevError is for error diagnostics.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Diagnostic is one finding produced while lexing or parsing a sketch.
type Diagnostic struct {
	Severity Severity
	Message  string
	Primary  source.Span
}

// Reporter — минимальный контракт получения диагностик от фаз.
// Реализации: Bag (копит), NopReporter.
type Reporter interface {
	Report(sev Severity, primary source.Span, msg string)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Severity, source.Span, string) {}
