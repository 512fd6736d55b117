// Package logging exposes the printf-style logger that components accept.
package logging

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync/atomic"

	"cassandra/internal/observability"
)

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil or wraps a nil pointer receiver.
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	val := reflect.ValueOf(logger)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}

var defaultBase atomic.Pointer[observability.Logger]

// SetDefault replaces the structured logger behind NewComponentLogger. The
// CLI calls it once after loading configuration.
func SetDefault(logger *observability.Logger) {
	if logger != nil {
		defaultBase.Store(logger)
	}
}

func base() *observability.Logger {
	if l := defaultBase.Load(); l != nil {
		return l
	}
	l := observability.NewLogger(observability.LogConfig{Level: "info", Format: "text", Output: os.Stderr})
	defaultBase.CompareAndSwap(nil, l)
	return defaultBase.Load()
}

// NewComponentLogger returns the default application logger scoped to a
// component. The default is resolved on every call, so loggers created at
// package init pick up SetDefault.
func NewComponentLogger(component string) Logger {
	return &printfLogger{resolve: func() *observability.Logger {
		return base().With("component", component)
	}}
}

// FromObservabilityWithComponent adapts a structured logger to the printf
// contract, tagging every record with component when it is non-empty.
func FromObservabilityWithComponent(logger *observability.Logger, component string) Logger {
	if logger == nil {
		return Nop()
	}
	if component != "" {
		logger = logger.With("component", component)
	}
	return &printfLogger{resolve: func() *observability.Logger { return logger }}
}

// printfLogger formats messages before handing them to slog.
type printfLogger struct {
	resolve func() *observability.Logger
}

func (l *printfLogger) Debug(format string, args ...any) {
	l.resolve().Debug(fmt.Sprintf(format, args...))
}

func (l *printfLogger) Info(format string, args ...any) {
	l.resolve().Info(fmt.Sprintf(format, args...))
}

func (l *printfLogger) Warn(format string, args ...any) {
	l.resolve().Warn(fmt.Sprintf(format, args...))
}

func (l *printfLogger) Error(format string, args ...any) {
	l.resolve().Error(fmt.Sprintf(format, args...))
}

// FromContext returns logger tagged with the request log id carried by ctx.
func FromContext(ctx context.Context, logger Logger) Logger {
	logger = OrNop(logger)
	logID := observability.LogIDFromContext(ctx)
	if logID == "" {
		return logger
	}
	return &logIDLogger{logger: logger, logID: logID}
}

type logIDLogger struct {
	logger Logger
	logID  string
}

func (l *logIDLogger) Debug(format string, args ...any) {
	l.logger.Debug("log_id="+l.logID+" "+format, args...)
}

func (l *logIDLogger) Info(format string, args ...any) {
	l.logger.Info("log_id="+l.logID+" "+format, args...)
}

func (l *logIDLogger) Warn(format string, args ...any) {
	l.logger.Warn("log_id="+l.logID+" "+format, args...)
}

func (l *logIDLogger) Error(format string, args ...any) {
	l.logger.Error("log_id="+l.logID+" "+format, args...)
}
