// Package logger строит slog.Logger для окружения приложения.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/iudanet/shopkeeper/internal/config"
)

// New создает логгер: текстовый для local, JSON для остальных окружений.
// Логи пишутся в w (обычно stderr), чтобы не смешиваться с выводом команд.
func New(w io.Writer, env, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch env {
	case config.EnvLocal, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("env", envName(env))), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts debug/info/warn/error to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

func envName(env string) string {
	if env == "" {
		return config.EnvLocal
	}
	return env
}
