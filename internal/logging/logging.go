// Package logging configures the slog logger shared by all commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelFlag is a pflag.Value selecting the log level by name.
type LevelFlag struct {
	Value slog.Level
}

func (l LevelFlag) String() string {
	return l.Value.String()
}

func (l *LevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level %q", value)
	}
	l.Value = v
	return nil
}

func (l LevelFlag) Type() string {
	return "level"
}

// Options controls where and how verbosely logs are written.
type Options struct {
	Level slog.Level
	// File enables rotated file output instead of w.
	File string
}

// New returns a text logger and a func releasing its output. Source
// locations are added at debug level.
func New(w io.Writer, opts Options) (*slog.Logger, func() error, error) {
	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		}
		w, closeFn = lj, lj.Close
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.Level <= slog.LevelDebug,
	})
	return slog.New(h), closeFn, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
