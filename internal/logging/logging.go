package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FileName is the log file created inside the log directory.
const FileName = "mddsklbl.log"

// Options controls where logs go and how verbose they are.
type Options struct {
	// Dir receives FileName. Empty disables the file sink.
	Dir string
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Debug forces debug level regardless of Level.
	Debug bool
	// Console receives human-readable output. Nil means stderr.
	Console io.Writer
	// NoConsole drops console output, for hosts without a terminal.
	NoConsole bool
}

// Logger bundles the configured logger with the file it writes to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Path returns the log file path, or "" when logging to the console only.
func (l *Logger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// New creates a zerolog logger with console and file output.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if !opts.NoConsole {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	var file *os.File
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err = os.OpenFile(filepath.Join(opts.Dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	var sink io.Writer = io.Discard
	if len(writers) > 0 {
		sink = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	if level == zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
		logger.Debug().Msg("debug logging enabled")
	}
	return &Logger{Logger: logger, file: file}, nil
}

// ParseLevel maps a settings value onto a zerolog level.
func ParseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", raw)
	}
}
