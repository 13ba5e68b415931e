package syncjson

import (
	"time"

	"github.com/google/uuid"

	"github.com/signadot/go-sync/debug"
	"github.com/signadot/go-sync/synclib"
)

// session carries the log identity of one top-level traversal.
type session struct {
	id    string
	mode  synclib.SyncMode
	start time.Time
}

func startSession(mode synclib.SyncMode) *session {
	s := &session{mode: mode}
	if !debug.Session() {
		return s
	}
	s.id = uuid.NewString()
	s.start = time.Now()
	debug.Logger().Debug("session start", "session", s.id, "mode", mode.String())
	return s
}

func (s *session) finish(err error, attrs ...any) {
	if !debug.Session() {
		return
	}
	args := []any{"session", s.id, "mode", s.mode.String(), "elapsed", time.Since(s.start)}
	args = append(args, attrs...)
	if err != nil {
		args = append(args, "error", err)
	}
	debug.Logger().Debug("session finish", args...)
}
