package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels used with logr's V(). INFO is the default level; DEBUG and
// TRACE are progressively chattier.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Log is the package-level logger shared across the analyzer. It discards
// everything until SetLogger installs a real one.
var Log = logr.Discard()

// Options controls logger construction.
type Options struct {
	// Development switches to the human-readable zap development encoder.
	Development bool

	// Verbosity is the maximum V() level that will be emitted.
	Verbosity int
}

// New builds a zap-backed logr.Logger.
func New(opts Options) (logr.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// logr V levels map to negative zap levels.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}

// SetLogger replaces the package-level logger.
func SetLogger(l logr.Logger) {
	Log = l
}

// NewTestLogger installs a development logger for test suites and returns it.
func NewTestLogger() logr.Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		zl = zap.NewNop()
	}
	l := zapr.NewLogger(zl)
	Log = l
	return l
}
