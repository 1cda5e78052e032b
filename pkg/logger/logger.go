package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/nflepa/pkg/config"
)

// Fields is a set of structured log fields
type Fields map[string]interface{}

// Logger writes structured entries through zerolog.
// Entries go to stderr so that stdout stays a clean JSON channel for
// `nflepa game`.
// ⭐ SSOT: all logging goes through this package
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger on stderr
func New(cfg *config.Config) *Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a Logger on w. LOG_FORMAT=console (or pretty)
// switches to human-readable lines.
func NewWithWriter(cfg *config.Config, w io.Writer) *Logger {
	var out io.Writer = w
	switch strings.ToLower(cfg.LogFormat) {
	case "console", "pretty":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	zlog := zerolog.New(out).
		Level(levelOf(cfg.LogLevel)).
		With().
		Timestamp().
		Str("app", "nflepa").
		Str("env", cfg.Env).
		Logger()

	return &Logger{zlog: zlog}
}

// Nop discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// levelOf maps LOG_LEVEL; unknown values mean info
func levelOf(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	switch {
	case s == "off":
		return zerolog.Disabled
	case strings.EqualFold(s, "warning"):
		return zerolog.WarnLevel
	case err != nil || lvl == zerolog.NoLevel:
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }


// WithField returns a child logger carrying key
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Interface(key, value) })
}

// WithFields returns a child logger carrying every field
func (l *Logger) WithFields(fields Fields) *Logger {
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Fields(map[string]interface{}(fields)) })
}

// WithError returns a child logger carrying err under "error"
func (l *Logger) WithError(err error) *Logger {
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Err(err) })
}

func (l *Logger) child(add func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zlog: add(l.zlog.With()).Logger()}
}
