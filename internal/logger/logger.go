// Package logger is the process-wide slog setup: a readable console
// handler on stderr and, when configured, a rotated JSONL file. Both pass
// through RedactAttr so keys and user text stay out of the logs.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Rotation limits for OpenLogFile.
const (
	LogFileMaxSizeMB  = 10
	LogFileMaxBackups = 3
	LogFileMaxAgeDays = 28
)

var (
	globalLogger *slog.Logger
	isTerminal   = term.IsTerminal
)

func init() {
	Init(LevelInfo, nil)
}

// Init replaces the global logger. A non-nil file receives JSON lines in
// addition to the console output, and disables console colors so a
// redirected terminal session and the file read the same.
func Init(level slog.Level, file io.Writer) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: RedactAttr}
	color := file == nil && isTerminal(int(os.Stderr.Fd()))

	var h slog.Handler = NewPrettyHandler(os.Stderr, opts, color)
	if file != nil {
		h = fanout{h, slog.NewJSONHandler(file, opts)}
	}
	globalLogger = slog.New(h)
	slog.SetDefault(globalLogger)
}

// OpenLogFile returns a size-rotated sink at path. The caller closes it.
func OpenLogFile(path string) (io.WriteCloser, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    LogFileMaxSizeMB,
		MaxBackups: LogFileMaxBackups,
		MaxAge:     LogFileMaxAgeDays,
	}, nil
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func Debug(msg string, args ...any) { globalLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { globalLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { globalLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { globalLogger.Error(msg, args...) }
