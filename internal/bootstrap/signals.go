package bootstrap

import (
	"context"
	"log/slog"
)

// Signals receives presentation events during a resolution: the loading
// indicator and user-facing messages. Nothing in the core reads them back.
type Signals interface {
	Loading(on bool)
	Message(level slog.Level, msg string)
}

// LogSignals writes signals to a logger.
type LogSignals struct {
	Logger *slog.Logger
}

// Loading logs the indicator state at debug level.
func (s LogSignals) Loading(on bool) {
	s.logger().Debug("loading", "on", on)
}

// Message logs msg at level.
func (s LogSignals) Message(level slog.Level, msg string) {
	s.logger().Log(context.Background(), level, msg)
}

func (s LogSignals) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
