package log

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologProvider is a LoggerProvider backed by rs/zerolog. It is the
// default provider used by pipeline and stack instances.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider emitting JSON records to stderr at
// the given minimum level.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a provider emitting to an arbitrary
// writer. Used by tests to capture output.
func NewZerologProviderWithWriter(w io.Writer, level Level) *ZerologProvider {
	base := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{base: base}
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base}
}

// GetLoggerWithName returns a logger scoped to a named component.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

// SetLevel sets the minimum level for loggers created by this provider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.base = p.base.Level(toZerologLevel(level))
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	emit(z.zl.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	emit(z.zl.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	emit(z.zl.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	// A leading bare error value carries the failure itself; the rest are
	// key-value pairs as usual.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			emit(z.zl.Error().Err(err), msg, fields[1:])
			return
		}
	}
	emit(z.zl.Error(), msg, fields)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for k, v := range pairs(fields) {
		switch val := v.(type) {
		case string:
			ctx = ctx.Str(k, val)
		case int:
			ctx = ctx.Int(k, val)
		case error:
			ctx = ctx.AnErr(k, val)
		default:
			ctx = ctx.Interface(k, val)
		}
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func emit(event *zerolog.Event, msg string, fields []any) {
	for k, v := range pairs(fields) {
		switch val := v.(type) {
		case string:
			event = event.Str(k, val)
		case int:
			event = event.Int(k, val)
		case float64:
			event = event.Float64(k, val)
		case error:
			event = event.AnErr(k, val)
		default:
			event = event.Interface(k, val)
		}
	}
	event.Msg(msg)
}

// pairs converts a flat key-value field list into a map iteration. Keys that
// are not strings and trailing values without a key are dropped rather than
// panicking mid-log.
func pairs(fields []any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		out[key] = fields[i+1]
	}
	return out
}
