package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/debug"
	"github.com/signadot/go-sync/synclib"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := theLog
	theLog = debug.NewLogger(&buf, slog.LevelDebug)
	t.Cleanup(func() { theLog = prev })
	return &buf
}

func TestOptionsLogged(t *testing.T) {
	buf := captureLog(t)
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("rootMode: list\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := &MainConfig{Config: path}
	opts, err := cfg.options()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RootMode != synclib.List {
		t.Errorf("expected list root mode, got %s", opts.RootMode)
	}
	if !strings.Contains(buf.String(), "msg=\"loaded options\"") || !strings.Contains(buf.String(), "rootMode=list") {
		t.Errorf("expected options to be logged, got %q", buf.String())
	}
}

func TestOptionsLoadFailure(t *testing.T) {
	buf := captureLog(t)
	cfg := &MainConfig{Config: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := cfg.options()
	if !errors.Is(err, cli.ErrUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected an error record, got %q", buf.String())
	}
}
