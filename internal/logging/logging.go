package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr as a log path routes output to standard error instead of a file.
const Stderr = "-"

type Options struct {
	Path  string
	Debug bool
}

// New builds a JSON file logger, or a console logger when Debug is set.
// The TUI owns stdout, so output always goes to Path.
func New(opts Options) (*zap.Logger, error) {
	path := opts.Path
	if path == "" {
		path = Stderr
	}
	if path != Stderr {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	} else {
		path = "stderr"
	}
	if opts.Debug {
		return newDevelopment(path)
	}
	return newProduction(path)
}

func newProduction(path string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	config.Encoding = "json"
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}

func newDevelopment(path string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}

// OrNop lets packages accept a nil logger.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Sync flushes buffered entries; safe on nil.
func Sync(l *zap.Logger) error {
	if l == nil {
		return nil
	}
	return l.Sync()
}
