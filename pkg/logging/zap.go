package logging

import (
	"log/slog"

	"go.uber.org/zap"
)

// NewZap returns a Logger backed by a zap logger. slog.Attr arguments, such
// as those produced by Redacted, are converted to zap fields.
func NewZap(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{sugar: logger.Sugar()}
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, zapArgs(args)...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, zapArgs(args)...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, zapArgs(args)...) }
func (l *zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, zapArgs(args)...) }

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(zapArgs(args)...)}
}

func zapArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		if attr, ok := a.(slog.Attr); ok {
			out = append(out, zap.String(attr.Key, attr.Value.String()))
			continue
		}
		out = append(out, a)
	}
	return out
}
