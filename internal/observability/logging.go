// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the engine.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetLogger replaces the global logger. Embedding applications call this
// to route engine logs through their own handler.
func SetLogger(l *slog.Logger) {
	GlobalLogger = &Logger{Logger: l}
}

// SideEffectLogger provides structured logging for the post-commit steps
// of a multi-entity flow, where a failure is logged and absorbed rather
// than propagated.
type SideEffectLogger struct {
	flow   string
	logger *Logger
}

// NewSideEffectLogger creates a SideEffectLogger for the named flow.
func NewSideEffectLogger(flow string) *SideEffectLogger {
	return &SideEffectLogger{flow: flow, logger: GlobalLogger}
}

// LogStepFailure records a failed post-commit step. The primary mutation
// has already committed at this point; the entry is the only trace of
// the partially-applied state.
func (l *SideEffectLogger) LogStepFailure(ctx context.Context, step string, err error, fields map[string]interface{}) {
	attrs := []any{
		slog.String("flow", l.flow),
		slog.String("step", step),
		slog.String("error", err.Error()),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.ErrorContext(ctx, "side effect failed", attrs...)
}

// LogStepSkipped records a step intentionally not executed (self
// notification, zero point delta).
func (l *SideEffectLogger) LogStepSkipped(ctx context.Context, step, reason string) {
	l.logger.DebugContext(ctx, "side effect skipped",
		slog.String("flow", l.flow),
		slog.String("step", step),
		slog.String("reason", reason),
	)
}
