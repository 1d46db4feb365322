// Package logging builds the zap logger shared by all commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and encoding.
type Options struct {
	Level string
	JSON  bool
	// Debug forces debug level regardless of Level.
	Debug bool
}

// ParseLevel maps "debug", "info", "warn" and "error" to zap levels.
func ParseLevel(s string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a console logger writing to stderr, or a JSON one when
// opt.JSON is set.
func New(opt Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opt.Level != "" {
		l, err := ParseLevel(opt.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	if opt.Debug {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	if opt.JSON {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !opt.Debug
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("combotally"), nil
}
