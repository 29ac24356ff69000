// Package gormlog routes gorm's SQL logging into zerolog.
package gormlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown gorm log level")

// Config of the adapter.
type Config struct {
	// Level selects which gorm messages are written.
	Level gormlogger.LogLevel
	// SlowThreshold marks queries taking longer as slow. Zero disables it.
	SlowThreshold time.Duration
	// IgnoreRecordNotFound drops "record not found" errors from the trace.
	IgnoreRecordNotFound bool
	// Logger to write to. The global zerolog logger is used when nil.
	Logger *zerolog.Logger
}

// Logger implements gorm's logger.Interface.
type Logger struct {
	cfg Config
}

var _ gormlogger.Interface = (*Logger)(nil)

// New returns a gorm logger writing to zerolog.
func New(cfg Config) *Logger {
	return &Logger{cfg: cfg}
}

// ParseLevel maps silent, error, warn and info to gorm log levels.
func ParseLevel(s string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "warn", "warning":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

func (l *Logger) logger() *zerolog.Logger {
	if l.cfg.Logger != nil {
		return l.cfg.Logger
	}

	return &log.Logger
}

// LogMode returns a copy of l using level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.cfg.Level = level

	return &c
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.logger().Info().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.logger().Warn().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.logger().Error().Str("component", "gorm").Msgf(msg, args...)
	}
}

// Trace logs one executed statement. Failures are errors, slow statements
// warnings and everything else debug output at level Info.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var ev *zerolog.Event

	switch {
	case err != nil && l.cfg.Level >= gormlogger.Error &&
		(!errors.Is(err, gormlogger.ErrRecordNotFound) || !l.cfg.IgnoreRecordNotFound):
		ev = l.logger().Error().Err(err)
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold && l.cfg.Level >= gormlogger.Warn:
		ev = l.logger().Warn().Dur("threshold", l.cfg.SlowThreshold).Bool("slow", true)
	case l.cfg.Level >= gormlogger.Info:
		ev = l.logger().Debug()
	default:
		return
	}

	sql, rows := fc()

	ev.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Str("sql", sql).
		Int64("rows", rows).
		Msg("sql")
}
