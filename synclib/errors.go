package synclib

import "fmt"

// ProtocolError is a programmer error: unmatched Begin/End calls, a session
// finishing with open frames, or use of a manager after its session ended.
// It is raised with panic.
type ProtocolError struct {
	Op    string // Operation that was misused (e.g. "EndSubObject")
	Depth int
	Msg   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("sync protocol misuse in %s at depth %d: %s", e.Op, e.Depth, e.Msg)
}

// Misuse panics with a *ProtocolError.
func Misuse(op string, depth int, format string, args ...any) {
	panic(&ProtocolError{Op: op, Depth: depth, Msg: fmt.Sprintf(format, args...)})
}

// FormatError reports malformed data: an unexpected token, truncated input,
// a back-reference to an unknown slot, or a tuple of the wrong arity.
type FormatError struct {
	Path   string // Field path (e.g. "root.args[2]"), if known
	Offset int64  // Byte offset in the input, or -1
	Depth  int
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	where := fmt.Sprintf("depth %d", e.Depth)
	if e.Offset >= 0 {
		where = fmt.Sprintf("offset %d, %s", e.Offset, where)
	}
	if e.Path != "" {
		where = e.Path + " (" + where + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("format error at %s: %s: %v", where, e.Msg, e.Err)
	}
	return fmt.Sprintf("format error at %s: %s", where, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Capability names a backend capability a caller may require.
type Capability string

const (
	CapDeduplication Capability = "deduplication"
	CapReordering    Capability = "reordering"
)

// CapabilityError reports that a caller requested something the backend
// cannot provide.
type CapabilityError struct {
	Capability Capability
	Mode       SyncMode
	Msg        string
}

func (e *CapabilityError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "not supported by backend"
	}
	return fmt.Sprintf("%s backend lacks %s: %s", e.Mode, e.Capability, msg)
}
