// Package logger provides a shared structured logger for the application.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func init() {
	// Default production logger so package-level calls work before Initialize.
	l, _ := zap.NewProduction()
	log = l.Sugar()
}

// Initialize configures the global logger. Debug mode switches to the
// development encoder with debug-level output.
func Initialize(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to the default logger rather than failing startup.
		return
	}
	log = l.Sugar()
}

// Info logs a message at info level.
func Info(args ...any) { log.Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { log.Infof(format, args...) }

// Warn logs a message at warn level.
func Warn(args ...any) { log.Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { log.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { log.Errorf(format, args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { log.Debugf(format, args...) }

// Fatalf logs a formatted message and exits.
func Fatalf(format string, args ...any) { log.Fatalf(format, args...) }

// Sync flushes any buffered log entries.
func Sync() error { return log.Sync() }
