// Package slogx configures the process-wide structured logger and carries
// request-scoped loggers through context. Every meishi log line is tagged
// with the service name, build version and environment so aggregated logs
// from several deployments stay separable.
package slogx

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string // tag for every line (default: meishi)
	Version string // build version, omitted when unset
	Env     string // e.g. "dev", "prod"
	Level   string // e.g. "debug", "info", "warn", "error"
	Format  string // "json" (default) or "text"
}

// New builds the logger and installs it as the slog default, which is what
// FromContext falls back to outside a request.
func New(cfg Config) *slog.Logger {
	if cfg.Service == "" {
		cfg.Service = "meishi"
	}

	opts := &slog.HandlerOptions{
		// Source locations are for humans reading dev output; in prod they
		// just bloat every line.
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	attrs := []any{"service", cfg.Service}
	if cfg.Version != "" {
		attrs = append(attrs, "version", cfg.Version)
	}
	if cfg.Env != "" {
		attrs = append(attrs, "env", cfg.Env)
	}

	logger := slog.New(handler).With(attrs...)
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a level name to slog.Level, defaulting to info on
// anything unrecognized rather than failing startup over a typo.
func parseLevel(lvl string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		return slog.LevelInfo
	}
	return l
}
