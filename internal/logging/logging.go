package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// levelRouter is a zerolog.LevelWriter that routes INFO/WARN to stdout and
// ERROR+ to stderr.
type levelRouter struct {
	stdout io.Writer
	stderr io.Writer
}

func (lr levelRouter) Write(p []byte) (int, error) {
	return lr.stdout.Write(p)
}

func (lr levelRouter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level < zerolog.NoLevel {
		return lr.stderr.Write(p)
	}
	return lr.stdout.Write(p)
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(name); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// New builds a logger writing human-readable lines to stdout and stderr. If
// logPath is non-empty, all levels are also appended to that file as JSON.
// The returned cleanup function closes the log file and is never nil.
func New(level zerolog.Level, logPath string, stdout, stderr io.Writer) (zerolog.Logger, func(), error) {
	console := func(w io.Writer) io.Writer {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}

	var w io.Writer = levelRouter{stdout: console(stdout), stderr: console(stderr)}
	cleanup := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), cleanup, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		w = zerolog.MultiLevelWriter(w, f)
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, cleanup, nil
}
