package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/go-sync/syncjson"
)

// Change is one difference. From is nil for an Insert and To is nil for a
// Delete. Text holds a character diff when both sides are strings.
type Change struct {
	Op   Op
	Path string
	From *syncjson.Value
	To   *syncjson.Value
	Text []diffpatch.Diff
}

func makeChange(path string, from, to *syncjson.Value) Change {
	switch {
	case from == nil:
		return Change{Op: Insert, Path: path, To: to}
	case to == nil:
		return Change{Op: Delete, Path: path, From: from}
	default:
		return Change{Op: Replace, Path: path, From: from, To: to}
	}
}
