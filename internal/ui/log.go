package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// LevelTrace extends slog's levels one step below Debug, matching the
// five-level verbose output (ERROR, WARN, INFO, DEBUG, TRACE).
const LevelTrace = slog.Level(-8)

// SetupLogging installs the colorized handler as the default slog logger.
// Verbose runs log everything down to TRACE; otherwise only warnings and
// errors reach stderr.
func SetupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = LevelTrace
	}
	slog.SetDefault(slog.New(NewLogHandler(os.Stderr, level)))
}

// LogHandler is a minimal slog.Handler that writes level-tagged, colorized
// lines like "[DEBUG] fetched from remote remote=origin" to a single writer.
type LogHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

// NewLogHandler creates a handler writing records at or above level to w.
func NewLogHandler(w io.Writer, level slog.Level) *LogHandler {
	return &LogHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", levelTag(record.Level), record.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LogHandler{mu: h.mu, w: h.w, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened; a single-process
// CLI has no use for nested key namespaces.
func (h *LogHandler) WithGroup(string) slog.Handler {
	return h
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed).Sprint("ERROR")
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow).Sprint("WARN")
	case level >= slog.LevelInfo:
		return color.New(color.FgGreen).Sprint("INFO")
	case level >= slog.LevelDebug:
		return color.New(color.FgBlue).Sprint("DEBUG")
	default:
		return color.New(color.FgMagenta).Sprint("TRACE")
	}
}
