// Package logger is a thin sugared wrapper over zap.
package logger

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used across nw.
type Logger interface {
	With(args ...any) Logger

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)

	Sync() error
}

// Config selects the level and encoding of the logs.
type Config struct {
	Level    string `yaml:"level" env:"LEVEL"`       // debug, info, warn or error.
	Encoding string `yaml:"encoding" env:"ENCODING"` // console or json.
}

type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New builds a logger writing to stderr, stdout being reserved to the command output.
//
// The returned func flushes the logger.
func New(cfg Config) (*ZapLogger, func(), error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Sampling = nil
	zc.Encoding = "console"
	zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	if cfg.Encoding == "json" {
		zc.Encoding = "json"
		zc.EncoderConfig = zap.NewProductionEncoderConfig()
	}

	l, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("can't init logger: %w", err)
	}
	logger := &ZapLogger{logger: l.Sugar()}

	syncFunc := func() {
		if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EBADF) && !errors.Is(err, syscall.ENOTTY) && !errors.Is(err, syscall.EINVAL) {
			logger.Errorf("%s: can't sync logger", err)
		}
	}
	return logger, syncFunc, nil
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) *ZapLogger { return &ZapLogger{logger: l.Sugar()} }

// Nop returns a logger that discards everything.
func Nop() *ZapLogger { return Wrap(zap.NewNop()) }

func (l *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{logger: l.logger.With(args...)}
}

func (l *ZapLogger) Debugf(template string, args ...any) { l.logger.Debugf(template, args...) }
func (l *ZapLogger) Infof(template string, args ...any)  { l.logger.Infof(template, args...) }
func (l *ZapLogger) Warnf(template string, args ...any)  { l.logger.Warnf(template, args...) }
func (l *ZapLogger) Errorf(template string, args ...any) { l.logger.Errorf(template, args...) }

func (l *ZapLogger) Sync() error { return l.logger.Sync() }
