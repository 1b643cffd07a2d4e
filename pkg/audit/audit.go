// Package audit is the engine's activity and error log sink. Every entry
// goes to the structured logger; when a persistent sink (Postgres) is
// configured, entries are appended there too. A failing sink never takes
// the caller down and never recurses into itself.
package audit

import (
	"context"

	"go.uber.org/zap"
)

// Sink is an append-only destination for log entries.
type Sink interface {
	Append(ctx context.Context, kind, message, details string) error
}

// Logger records operator-relevant activity. The zero Sink is valid:
// entries then go to the zap logger only.
type Logger struct {
	log    *zap.Logger
	sink   Sink
	inSink bool
}

// NewLogger creates an audit logger. sink may be nil.
func NewLogger(log *zap.Logger, sink Sink) *Logger {
	return &Logger{log: log, sink: sink}
}

// Activity records one activity entry.
func (l *Logger) Activity(ctx context.Context, message, details string) {
	l.log.Info(message, zap.String("details", details))
	l.append(ctx, "activity", message, details)
}

// Error records one error entry.
func (l *Logger) Error(ctx context.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	l.log.Error(message, zap.Error(err))
	l.append(ctx, "error", message, details)
}

// append forwards to the sink behind a reentrancy guard: if the sink itself
// fails, the failure is reported through zap only, so a broken sink cannot
// trigger another sink write.
func (l *Logger) append(ctx context.Context, kind, message, details string) {
	if l.sink == nil || l.inSink {
		return
	}

	l.inSink = true
	defer func() { l.inSink = false }()

	if err := l.sink.Append(ctx, kind, message, details); err != nil {
		l.log.Warn("activity log sink failed",
			zap.String("kind", kind),
			zap.String("message", message),
			zap.Error(err))
	}
}
