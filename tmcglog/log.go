// Package tmcglog provides the structured logger used across the toolbox,
// a thin Logger interface over zap's SugaredLogger, shaped after the
// teacher's common/log package.
package tmcglog

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface every package in the toolbox depends on
// instead of zap directly, so a host process can swap the sink without
// touching call sites.
type Logger interface {
	Info(keyvals ...interface{})
	Debug(keyvals ...interface{})
	Warn(keyvals ...interface{})
	Error(keyvals ...interface{})
	Infow(msg string, keyvals ...interface{})
	Debugw(msg string, keyvals ...interface{})
	Warnw(msg string, keyvals ...interface{})
	Errorw(msg string, keyvals ...interface{})
	With(args ...interface{}) Logger
	Named(s string) Logger
}

type log struct {
	*zap.SugaredLogger
}

func (l *log) With(args ...interface{}) Logger {
	return &log{l.SugaredLogger.With(args...)}
}

func (l *log) Named(s string) Logger {
	return &log{l.SugaredLogger.Named(s)}
}

const (
	InfoLevel  = int(zapcore.InfoLevel)
	DebugLevel = int(zapcore.DebugLevel)
	ErrorLevel = int(zapcore.ErrorLevel)
	WarnLevel  = int(zapcore.WarnLevel)
)

// DefaultLevel is the level the package-level default logger uses before
// any call to ConfigureDefaultLogger.
var DefaultLevel = InfoLevel

func init() {
	debugEnv, isDebug := os.LookupEnv("TMCG_TEST_LOGS")
	if isDebug && debugEnv == "DEBUG" {
		DefaultLevel = DebugLevel
	}
}

var isDefaultLoggerSet sync.Once

// ConfigureDefaultLogger replaces the package-level default logger's sink
// and level. Intended for process start-up, e.g. from cmd/tmcg-cli.
func ConfigureDefaultLogger(output zapcore.WriteSyncer, level int, jsonFormat bool) {
	// mark the default as set so a later first DefaultLogger call keeps it
	isDefaultLoggerSet.Do(func() {})
	zap.ReplaceGlobals(newZapLogger(output, encoderFor(jsonFormat), level))
}

// DefaultLogger returns the package-level default logger, lazily
// initialised at JSON/DefaultLevel the first time it's requested.
func DefaultLogger() Logger {
	isDefaultLoggerSet.Do(func() {
		zap.ReplaceGlobals(newZapLogger(nil, encoderFor(true), DefaultLevel))
	})
	return &log{zap.S()}
}

// New builds a standalone logger writing to output at the given level.
func New(output zapcore.WriteSyncer, level int, isJSON bool) Logger {
	l := newZapLogger(output, encoderFor(isJSON), level)
	return &log{l.Sugar()}
}

func newZapLogger(output zapcore.WriteSyncer, encoder zapcore.Encoder, level int) *zap.Logger {
	if output == nil {
		output = os.Stdout
	}
	core := zapcore.NewCore(encoder, output, zapcore.Level(level))
	return zap.New(core, zap.WithCaller(true))
}

func encoderFor(isJSON bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if isJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

type ctxKey string

const loggerCtxKey ctxKey = "tmcgLogger"

// ToContext attaches l to ctx.
func ToContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, l)
}

// FromContextOrDefault returns the logger attached to ctx, or the package
// default if none was attached.
func FromContextOrDefault(ctx context.Context) Logger {
	l, ok := ctx.Value(loggerCtxKey).(Logger)
	if !ok {
		return DefaultLogger()
	}
	return l
}
