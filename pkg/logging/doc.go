// Package logging provides the logging facade used by cb-bignat-go.
//
// The Logger interface is a small subset of log/slog so that applications can
// plug in their own implementation for testing or redaction:
//
//	type Logger interface {
//	    Debug(msg string, args ...any)
//	    Info(msg string, args ...any)
//	    Warn(msg string, args ...any)
//	    Error(msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// New binds a Logger to a *slog.Logger (slog.Default() when nil). NewZap binds
// one to a *zap.Logger, which is what the bignat command line tool uses.
//
// # Redaction
//
// The engine never logs operand bytes. Where a log line concerns a secret
// operand, mark the attribute instead:
//
//	logger.Debug("modular square root", logging.Redacted("operand"), "size", 32)
//	// operand="[redacted]" size=32
//
// Nop returns a Logger that discards everything; it is the default when a
// bignat.Config carries no logger.
package logging
