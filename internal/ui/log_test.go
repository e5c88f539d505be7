package ui

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLogHandler_LevelTags(t *testing.T) {
	// Force plain output so the tags are comparable.
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []struct {
		level slog.Level
		tag   string
	}{
		{slog.LevelError, "[ERROR]"},
		{slog.LevelWarn, "[WARN]"},
		{slog.LevelInfo, "[INFO]"},
		{slog.LevelDebug, "[DEBUG]"},
		{LevelTrace, "[TRACE]"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			var buf strings.Builder
			logger := slog.New(NewLogHandler(&buf, LevelTrace))
			logger.Log(context.Background(), tt.level, "something happened")

			if !strings.HasPrefix(buf.String(), tt.tag+" something happened") {
				t.Errorf("unexpected line: %q", buf.String())
			}
		})
	}
}

func TestLogHandler_RespectsLevel(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(NewLogHandler(&buf, slog.LevelWarn))

	logger.Debug("invisible")
	logger.Info("also invisible")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "invisible") {
		t.Errorf("records below the level leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warning in output: %q", buf.String())
	}
}

func TestLogHandler_Attrs(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf strings.Builder
	logger := slog.New(NewLogHandler(&buf, LevelTrace)).With("remote", "origin")

	logger.Debug("fetched", "branches", 4)

	line := strings.TrimRight(buf.String(), "\n")
	if line != "[DEBUG] fetched remote=origin branches=4" {
		t.Errorf("unexpected line: %q", line)
	}
}
