package logger

import (
	"log/slog"
	"os"
)

// New returns a structured stdout logger. Services log at orchestration
// boundaries only; the pure engine packages never log.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
