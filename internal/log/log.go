// Package log is the operator-facing diagnostic channel. Sketch errors are
// shown in the UI; this channel is for reload tracing and internals, gated
// by the --verbose flag.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the diagnostic logger. Without verbose only warnings and above
// come through; with verbose every reload decision is traced. An empty path
// sinks to stderr, otherwise the file is appended to — во время altscreen
// терминал лучше не трогать.
func New(verbose bool, path string) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	sink := zapcore.Lock(os.Stderr)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.Lock(f)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "" // кадровый цикл шумит, время тут не нужно
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		sink,
		level,
	)
	return zap.New(core), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }
