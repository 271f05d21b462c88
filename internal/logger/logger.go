package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rvasilyev/storefront/internal/config"
)

// New creates a JSON slog.Logger at the configured level. Unknown level
// names fall back to info.
func New(cfg *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	return slog.New(handler).With(slog.String("service", "storefront"))
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
