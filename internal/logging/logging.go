// Package logging constructs the zerolog loggers used across taskledger.
//
// Console output goes to stderr: human-readable when attached to a TTY,
// JSON otherwise, so envelopes printed on stdout stay machine-parseable.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/taskledger/internal/errors"
)

// Log rotation settings for the optional file sink.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// logFileWriter holds the open file sink for cleanup during shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// globalLoggerMu protects concurrent writes to the zerolog global logger.
var globalLoggerMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// Options control logger construction.
type Options struct {
	// Level is the configured minimum level name. Verbose and Quiet take
	// precedence over it.
	Level string

	// Verbose forces debug level.
	Verbose bool

	// Quiet forces warn level.
	Quiet bool

	// FilePath, when non-empty, enables an additional rotating JSON log
	// file at that path.
	FilePath string
}

// Init creates and configures a zerolog.Logger from opts.
//
// Log levels are selected as follows:
//   - Verbose: debug level
//   - Quiet: warn level
//   - otherwise: the configured Level, defaulting to info
//
// If the log file cannot be created the logger continues with console-only
// output; missing observability never blocks an operation.
func Init(opts Options) zerolog.Logger {
	writer := selectOutput()

	if opts.FilePath != "" {
		fileWriter, err := newLogFileWriter(opts.FilePath)
		if err == nil {
			logFileWriter = fileWriter
			writer = zerolog.MultiLevelWriter(writer, fileWriter)
		}
	}

	logger := zerolog.New(writer).Level(selectLevel(opts)).With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// InitWithWriter creates a logger writing to w. Primarily for testing.
func InitWithWriter(opts Options, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(selectLevel(opts)).With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// CloseLogFile closes the file sink if one was opened.
// Call during application shutdown.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// setGlobalLogger keeps the zerolog package-level logger aligned with ours so
// stray log.Info() calls share formatting and level.
func setGlobalLogger(logger zerolog.Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	log.Logger = logger
}

// selectLevel determines the log level from the options.
func selectLevel(opts Options) zerolog.Level {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}

// selectOutput picks console formatting for interactive terminals and JSON
// for pipes or when NO_COLOR is set.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// newLogFileWriter creates a rotating file writer at path, creating parent
// directories as needed.
func newLogFileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}, nil
}
