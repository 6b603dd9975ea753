// Package logger builds the process logger for an environment.
package logger

import (
	"io"
	"log/slog"

	"github.com/Domenick1991/flightbooking/internal/lib/logger/slogpretty"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

func Setup(env string, out io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		return slog.New(opts.NewPrettyHandler(out))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
