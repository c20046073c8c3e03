// Package log is a thin wrapper around zap, giving the rest of memcake a
// small leveled-logging surface without spreading zap's API everywhere.
package log

import "go.uber.org/zap"

// Logger is the leveled logging surface used by conn and pool.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// zapLogger adapts *zap.Logger to Logger.
type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }

// New wraps a *zap.Logger. Passing nil falls back to zap.NewNop().
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{l: l}
}

// NewProduction builds a production zap.Logger and wraps it, for callers
// that don't want to configure zap themselves.
func NewProduction() Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return New(nil)
	}
	return New(l)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return New(nil)
}

// Field re-exports the field constructors callers need, so packages that
// depend on log don't also need a direct zap import.
var (
	String = zap.String
	Uint32 = zap.Uint32
	Uint64 = zap.Uint64
	Error  = zap.Error
	Int    = zap.Int
)
