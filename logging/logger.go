// Package logging provides structured logging for ordergate, designed around
// uber-go/zap's sugared logger. Loggers are carried on the context so that
// policy evaluation can annotate the request-scoped logger with decision
// fields without threading a logger through every call.
package logging

import "context"

type ctxkey struct {
	logger Logger
}

// With attaches a logger to the context.
//
// This can be used to create logging scopes like so:
//
//	ctx := logging.With(ctx, logger.Named("authz"))
//	evaluator.Authorize(ctx, req)
func With(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ctxkey{}, &ctxkey{
		logger: logger,
	})
}

// FromContext returns the scoped logger, or a no-op logger if none has been
// attached.
func FromContext(ctx context.Context) Logger {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok {
		return c.logger
	}
	return noop{}
}

// Track a field across the lifetime of the context. Tracked values persist
// back up the call-chain to whoever attached the logger, so a denial reason
// recorded deep inside a policy shows up on the request's final log line.
func Track(ctx context.Context, field string, value interface{}) {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok {
		c.logger = c.logger.With(field, value)
	}
}

// Logger is an abstract logging interface modeled on zap's sugared logger.
type Logger interface {
	Debug(args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Debugf(msg string, args ...interface{})
	Info(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Infof(msg string, args ...interface{})
	Warn(args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Warnf(msg string, args ...interface{})
	Error(args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Errorf(msg string, args ...interface{})
	Fatal(args ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
	Fatalf(msg string, args ...interface{})

	// Named creates a child logger with the given name.
	Named(name string) Logger

	// With creates a child logger and attaches structured context to it.
	With(field string, value interface{}) Logger
}

func Debugw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Debugw(msg, fields...)
}

func Infow(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Infow(msg, fields...)
}

func Warnw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Warnw(msg, fields...)
}

func Errorw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Errorw(msg, fields...)
}

// Noop returns a logger that discards everything. Useful in tests and as a
// default before configuration is loaded.
func Noop() Logger {
	return noop{}
}

type noop struct{}

func (noop) Debug(...interface{})           {}
func (noop) Debugw(string, ...interface{})  {}
func (noop) Debugf(string, ...interface{})  {}
func (noop) Info(...interface{})            {}
func (noop) Infow(string, ...interface{})   {}
func (noop) Infof(string, ...interface{})   {}
func (noop) Warn(...interface{})            {}
func (noop) Warnw(string, ...interface{})   {}
func (noop) Warnf(string, ...interface{})   {}
func (noop) Error(...interface{})           {}
func (noop) Errorw(string, ...interface{})  {}
func (noop) Errorf(string, ...interface{})  {}
func (noop) Fatal(...interface{})           {}
func (noop) Fatalw(string, ...interface{})  {}
func (noop) Fatalf(string, ...interface{})  {}
func (noop) Named(string) Logger            { return noop{} }
func (noop) With(string, interface{}) Logger { return noop{} }
