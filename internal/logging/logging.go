package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup installs the global logger. Debug logging goes to stderr so it
// never interleaves with rendered command output; without verbose only
// warnings and above surface.
func Setup(verbose bool) func() {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	undo := zap.ReplaceGlobals(logger)

	return func() {
		_ = logger.Sync()
		undo()
	}
}
