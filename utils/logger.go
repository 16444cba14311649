package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application.
// Messages keep the printf style used across the services; zerolog handles
// levels, timestamps and output format.
type Logger struct {
	zl zerolog.Logger
}

// LogConfig selects level ("debug", "info", "warn", "error") and format
// ("console" or "json").
type LogConfig struct {
	Level  string
	Format string
}

// NewLogger creates a console Logger at info level writing to stdout.
func NewLogger() *Logger {
	l, _ := NewLoggerWithConfig(LogConfig{Level: "info", Format: "console"}, os.Stdout)
	return l
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// NewLoggerWithConfig builds a Logger for the given level and format on out.
func NewLoggerWithConfig(cfg LogConfig, out io.Writer) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	w := out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// Request logs one served HTTP request as structured fields.
func (l *Logger) Request(method, path string, status, bytes int, dur time.Duration) {
	ev := l.zl.Info()
	if status >= 500 {
		ev = l.zl.Error()
	}
	ev.Str("method", method).
		Str("path", path).
		Int("status", status).
		Int("bytes", bytes).
		Dur("dur", dur).
		Msg("http request")
}
