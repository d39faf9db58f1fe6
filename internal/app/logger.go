package app

import (
	"io"
	"os"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface for app layer
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// zapLogger is the Logger backed by a zap SugaredLogger
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a console logger writing to w at the given level
// ("debug", "info", "warn", "error"; anything else means info).
func NewZapLogger(level string, w io.Writer) Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(ParseLevel(level)))
	return &zapLogger{sugar: zap.New(core).Sugar()}
}

// ParseLevel converts a level name to a zap level
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// globalLogger is the logger instance used by app layer
var globalLogger = NewZapLogger("warn", os.Stderr)

// SetLogger sets the global logger for app layer
func SetLogger(logger Logger) {
	if logger != nil {
		globalLogger = logger
	}
}

// GetLogger returns the current logger
func GetLogger() Logger {
	return globalLogger
}

// WarningLogger forwards core warnings to a Logger at warn level
type WarningLogger struct {
	Logger Logger
}

// Report implements diag.Sink
func (w WarningLogger) Report(warning diag.Warning) {
	l := w.Logger
	if l == nil {
		l = GetLogger()
	}
	l.Warn("%s", warning.String())
}
