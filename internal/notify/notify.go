// Package notify is the transient notification surface: every store
// mutation reports its outcome here so the UI layer can show it.
package notify

import "log/slog"

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Nop discards all notifications. Useful in tests.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Slog routes notifications to a structured logger.
type Slog struct {
	Logger *slog.Logger
}

func (n Slog) Success(msg string) {
	n.Logger.Info("notification", slog.String("level", "success"), slog.String("message", msg))
}

func (n Slog) Error(msg string) {
	n.Logger.Warn("notification", slog.String("level", "error"), slog.String("message", msg))
}
