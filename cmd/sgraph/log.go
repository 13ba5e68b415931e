package main

import (
	"log/slog"
	"os"

	"github.com/signadot/go-sync/debug"
)

// theLog reports on inputs and options on stderr; command results go to
// cc.Out.
var theLog = newLog()

func newLog() *slog.Logger {
	level := slog.LevelInfo
	if debug.Any() {
		level = slog.LevelDebug
	}
	return debug.NewLogger(os.Stderr, level)
}
