// Package logging builds the process logger from the log config section.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/claude/liftcast/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup returns a logger writing to console and, when cfg.File is set, to a
// rotating log file as well. The returned closer flushes the file; it is a
// no-op without one. Console is stderr for both binaries: stdout carries
// CLI results and the MCP protocol.
func Setup(cfg config.LogConfig, console io.Writer) (*slog.Logger, io.Closer) {
	out := console
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  false, // rotate on UTC timestamps
			Compress:   true,
		}
		out = NewCombinedWriter(console, file)
		closer = file
	}

	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer
}

// Level maps a config level name to a slog level. Unknown names mean info.
func Level(name string) slog.Level {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
