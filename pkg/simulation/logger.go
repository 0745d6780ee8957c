package simulation

import "go.uber.org/zap"

// Logger is the logging surface the simulation needs.
// *zap.SugaredLogger satisfies it, and so does the goakt actor system logger.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NewNoOpLogger returns a logger that discards everything.
func NewNoOpLogger() Logger {
	return zap.NewNop().Sugar()
}
