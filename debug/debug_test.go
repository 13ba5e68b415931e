package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug record to be dropped: %q", out)
	}
	if want := "level=INFO msg=shown k=1\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewLogger(&buf, slog.LevelDebug))
	defer SetLogger(prev)
	Logger().Debug("x")
	if !strings.Contains(buf.String(), "msg=x") {
		t.Errorf("expected record in replaced logger, got %q", buf.String())
	}
}
