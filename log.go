package motion

import "log/slog"

var logger = slog.Default().With("component", "motion")

// SetLogger replaces the package logger. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l.With("component", "motion")
}
