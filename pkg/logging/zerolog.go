package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds configuration for the structured logger
type Config struct {
	// Path is the log file path; empty disables file logging
	Path string
	// Format is the file output format (json or text)
	Format Format
	// Level is the minimum level written to the file
	Level Level
	// MaxSizeMB is the size in megabytes at which the file is rotated
	MaxSizeMB int
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int

	// Console receives human-readable log lines when set, usually os.Stderr
	Console io.Writer
	// ConsoleLevel is the minimum level written to Console
	ConsoleLevel Level
}

// ZeroLogger implements Logger on top of zerolog
type ZeroLogger struct {
	logger zerolog.Logger
	file   *lumberjack.Logger
}

// New creates a logger writing to a rotated file and/or the console.
// With neither configured every entry is discarded.
func New(config Config) (*ZeroLogger, error) {
	var writers []io.Writer
	minLevel := zerolog.Disabled

	var file *lumberjack.Logger
	if config.Path != "" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   config.Path,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
		}

		var out io.Writer = file
		if config.Format != FormatJSON {
			out = zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: time.RFC3339}
		}
		writers = append(writers, filtered(out, config.Level))
		minLevel = lowest(minLevel, toZerolog(config.Level))
	}

	if config.Console != nil {
		out := zerolog.ConsoleWriter{Out: config.Console, NoColor: true, TimeFormat: time.Kitchen}
		writers = append(writers, filtered(out, config.ConsoleLevel))
		minLevel = lowest(minLevel, toZerolog(config.ConsoleLevel))
	}

	if len(writers) == 0 {
		return NewNullLogger(), nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(minLevel).
		With().Timestamp().Logger()

	return &ZeroLogger{logger: logger, file: file}, nil
}

// NewNullLogger returns a logger that discards every entry
func NewNullLogger() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}

func filtered(w io.Writer, level Level) zerolog.LevelWriter {
	return &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: w},
		Level:  toZerolog(level),
	}
}

func lowest(a, b zerolog.Level) zerolog.Level {
	if a == zerolog.Disabled || b < a {
		return b
	}
	return a
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs an info message
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.logger.Warn().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message
func (l *ZeroLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// WithFields returns a logger with additional fields, sharing the same output
func (l *ZeroLogger) WithFields(fields Fields) Logger {
	return &ZeroLogger{
		logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger(),
		file:   l.file,
	}
}

// Close flushes and closes the log file
func (l *ZeroLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
