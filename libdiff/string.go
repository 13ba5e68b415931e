package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/go-sync/syncjson"
)

func diffString(path string, from, to *syncjson.Value) []Change {
	if from.Text == to.Text {
		return nil
	}
	c := makeChange(path, from, to)
	c.Text = Text(from.Text, to.Text)
	return []Change{c}
}

// Text returns a character diff of two strings, cleaned up for reading.
// Multi-line strings are diffed line by line first.
func Text(from, to string) []diffpatch.Diff {
	diffCfg := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := diffCfg.DiffMain(from, to, doMultiLine)
	return diffCfg.DiffCleanupSemantic(diffs)
}

// Lines returns a line diff of two texts.
func Lines(from, to string) []diffpatch.Diff {
	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToRunes(from, to)
	diffs := diffCfg.DiffMainRunes(a, b, false)
	return diffCfg.DiffCharsToLines(diffs, lines)
}
