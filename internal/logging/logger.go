// Package logging builds the process-wide slog logger from config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/liftlog/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to stdout, a rotated log file, or both, and a
// closer for the file. The closer is a no-op when no file is configured.
func New(cfg config.LogConfig) (*slog.Logger, func() error) {
	var (
		out     io.Writer = os.Stdout
		closeFn           = func() error { return nil }
	)

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:  cfg.File,
			MaxSize:   50, // megabytes
			LocalTime: false,
			Compress:  true,
		}
		closeFn = file.Close
		out = file
		if cfg.Stdout {
			out = io.MultiWriter(os.Stdout, file)
		}
	}

	return slog.New(newHandler(out, cfg)), closeFn
}

func newHandler(out io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// Level maps a config level name to a slog level. Unknown names mean info.
func Level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
