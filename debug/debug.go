package debug

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
)

type debug struct {
	Session bool
	Read    bool
	Schema  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Session = boolEnv("SYNC_DEBUG_SESSION")
	d.Read = boolEnv("SYNC_DEBUG_READ")
	d.Schema = boolEnv("SYNC_DEBUG_SCHEMA")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Session reports whether session start and finish are logged.
func Session() bool {
	return d.Session
}

// Read reports whether Reader slot resolution is logged.
func Read() bool {
	return d.Read
}

// Schema reports whether the schema recorder logs each shape.
func Schema() bool {
	return d.Schema
}

// Any reports whether any debug switch is on.
func Any() bool {
	return d.Session || d.Read || d.Schema
}

var (
	mu     sync.Mutex
	logger *slog.Logger
)

// Logger returns the debug logger: a text handler on stderr at debug level
// when any switch is on, warn level otherwise.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		level := slog.LevelWarn
		if Any() {
			level = slog.LevelDebug
		}
		logger = NewLogger(os.Stderr, level)
	}
	return logger
}

// SetLogger replaces the debug logger, e.g. in tests.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// NewLogger creates a text logger without timestamps.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
