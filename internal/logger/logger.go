package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/tx-dispute-ledger/internal/config"
)

// NewLogger creates and configures a new slog.Logger. Production
// environments get JSON output; anything else gets the text handler for
// readability.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source code location to log output
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Application.Env == "production" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)

	logger.Info("logger initialized", "level", level)

	return logger
}
