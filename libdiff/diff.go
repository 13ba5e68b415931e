package libdiff

import (
	"github.com/signadot/go-sync/syncjson"
)

// Diff returns the changes that turn from into to. Equal documents yield
// no changes.
func Diff(from, to *syncjson.Value) []Change {
	return diff2("", from, to)
}

func diff2(path string, from, to *syncjson.Value) []Change {
	if from.IsNull() && to.IsNull() {
		return nil
	}
	if from.IsNull() || to.IsNull() || from.Kind != to.Kind {
		return []Change{makeChange(path, from, to)}
	}
	switch from.Kind {
	case syncjson.BoolKind:
		if from.Bool != to.Bool {
			return []Change{makeChange(path, from, to)}
		}
	case syncjson.NumberKind:
		if !sameNumber(from, to) {
			return []Change{makeChange(path, from, to)}
		}
	case syncjson.StringKind:
		return diffString(path, from, to)
	case syncjson.ObjectKind:
		return diffObject(path, from, to)
	case syncjson.ArrayKind:
		return diffArrayByIndex(path, from.Items, to.Items)
	}
	return nil
}
