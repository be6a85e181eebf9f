package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Logger wraps slog with the verbose switch and timing helper the commands use.
// The zero value discards everything.
type Logger struct {
	log     *slog.Logger
	Verbose bool
}

func New(writer io.Writer, verbose, noColor bool) Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(writer, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
	return Logger{log: slog.New(handler), Verbose: verbose}
}

func (l Logger) Debug(msg string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.Debug(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.Warn(msg, args...)
}

func (l Logger) Error(msg string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.Error(msg, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose || l.log == nil {
		return
	}
	l.log.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Debug("timing", "op", label, "took", elapsed)
	}
}
