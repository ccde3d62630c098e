package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("scanned page") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("stored live diagram") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("stored live diagram") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("some thumbnails are missing") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Scanned 5 screens")

	out := buf.String()
	if !strings.Contains(out, "Scanned 5 screens (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected the default logger without one in context")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("layout complete")
	if !strings.Contains(buf.String(), "layout complete") {
		t.Error("attached logger did not write to its buffer")
	}
}
