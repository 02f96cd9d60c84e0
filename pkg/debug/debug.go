// Package debug provides the leveled, printf-style logging used across the
// backend. Output is produced by a zerolog logger so log lines are
// structured (JSON by default, console format for local development).
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var (
	// IsEnabled controls whether debug messages are output
	IsEnabled bool
	// CurrentLevel is the minimum level of messages to output
	CurrentLevel LogLevel

	mu      sync.RWMutex
	logger  zerolog.Logger
	logFile *os.File

	levelNames = map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARNING",
		LevelError:   "ERROR",
	}
	levelMap = map[string]LogLevel{
		"DEBUG":   LevelDebug,
		"INFO":    LevelInfo,
		"WARNING": LevelWarning,
		"WARN":    LevelWarning,
		"ERROR":   LevelError,
	}
)

func init() {
	Reinitialize()
}

// Reinitialize updates the logger based on current environment variables.
//
// DEBUG      - "false"/"0" silences all output (default enabled)
// LOG_LEVEL  - DEBUG, INFO, WARNING, ERROR (default INFO)
// LOG_FORMAT - json or console (default json)
// LOG_FILE   - optional path; log lines are written to stdout and the file
func Reinitialize() {
	mu.Lock()
	defer mu.Unlock()

	debugEnv := strings.ToLower(os.Getenv("DEBUG"))
	IsEnabled = debugEnv != "false" && debugEnv != "0"

	levelEnv := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if level, exists := levelMap[levelEnv]; exists {
		CurrentLevel = level
	} else {
		CurrentLevel = LevelInfo
	}

	var out io.Writer = os.Stdout
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug: cannot open LOG_FILE %s: %v\n", path, err)
		} else {
			logFile = f
			out = io.MultiWriter(out, f)
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger = zerolog.New(out).With().Timestamp().Logger()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// Logger returns the underlying zerolog logger for callers that want
// structured fields.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Log prints a message with the specified level if logging is enabled
func Log(level LogLevel, format string, v ...interface{}) {
	if !IsEnabled || level < CurrentLevel {
		return
	}

	mu.RLock()
	l := logger
	mu.RUnlock()

	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.Debug()
	case LevelInfo:
		event = l.Info()
	case LevelWarning:
		event = l.Warn()
	default:
		event = l.Error()
	}
	event.Msg(fmt.Sprintf(format, v...))
}

// Debug logs a debug level message
func Debug(format string, v ...interface{}) {
	Log(LevelDebug, format, v...)
}

// Info logs an info level message
func Info(format string, v ...interface{}) {
	Log(LevelInfo, format, v...)
}

// Warning logs a warning level message
func Warning(format string, v ...interface{}) {
	Log(LevelWarning, format, v...)
}

// Error logs an error level message
func Error(format string, v ...interface{}) {
	Log(LevelError, format, v...)
}

// LevelName returns the display name of a level.
func LevelName(level LogLevel) string {
	return levelNames[level]
}
