package application

import "log/slog"

// ResolveLogger falls back to the process default so use cases never need a
// nil check before logging.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
