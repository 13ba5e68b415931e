package libdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type ColorAttr int

const (
	PathColor ColorAttr = iota
	InsertColor
	DeleteColor
	EqualColor
	OpColor
)

// Colors maps parts of rendered output to color functions. A nil *Colors
// renders plain text.
type Colors struct {
	Map map[ColorAttr]func(string, ...any) string
}

// NewColors returns the default palette. When enabled is false the palette
// is empty and output is plain.
func NewColors(enabled bool) *Colors {
	colors := &Colors{Map: map[ColorAttr]func(string, ...any) string{}}
	if !enabled {
		return colors
	}
	colors.Map[PathColor] = color.RGB(128, 168, 196).SprintfFunc()
	colors.Map[InsertColor] = color.RGB(8, 196, 16).SprintfFunc()
	colors.Map[DeleteColor] = color.RGB(216, 48, 48).SprintfFunc()
	colors.Map[EqualColor] = color.RGB(96, 96, 96).SprintfFunc()
	colors.Map[OpColor] = color.RGB(255, 0, 196).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

// Paint colors s with attr, if the palette has it.
func (c *Colors) Paint(attr ColorAttr, s string) string {
	if c == nil {
		return s
	}
	if f := c.Map[attr]; f != nil {
		return f(s)
	}
	return s
}

// Render writes one line per change:
//
//	+ path: value
//	- path: value
//	~ path: from -> to
func Render(w io.Writer, changes []Change, c *Colors) error {
	for i := range changes {
		if _, err := io.WriteString(w, renderChange(&changes[i], c)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func renderChange(ch *Change, c *Colors) string {
	path := ch.Path
	if path == "" {
		path = "(root)"
	}
	var b strings.Builder
	b.WriteString(c.Paint(OpColor, ch.Op.String()))
	b.WriteByte(' ')
	b.WriteString(c.Paint(PathColor, path))
	b.WriteString(": ")
	switch ch.Op {
	case Insert:
		b.WriteString(c.Paint(InsertColor, ch.To.String()))
	case Delete:
		b.WriteString(c.Paint(DeleteColor, ch.From.String()))
	default:
		if ch.Text != nil {
			b.WriteString(RenderText(ch.Text, c))
			break
		}
		fmt.Fprintf(&b, "%s -> %s", c.Paint(DeleteColor, ch.From.String()), c.Paint(InsertColor, ch.To.String()))
	}
	return b.String()
}

// RenderText renders a text diff inline. Without colors, deletions are
// shown as [-text-] and insertions as {+text+}.
func RenderText(diffs []diffpatch.Diff, c *Colors) string {
	plain := c == nil || len(c.Map) == 0
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			b.WriteString(c.Paint(EqualColor, d.Text))
		case diffpatch.DiffDelete:
			if plain {
				b.WriteString("[-" + d.Text + "-]")
				continue
			}
			b.WriteString(c.Paint(DeleteColor, d.Text))
		case diffpatch.DiffInsert:
			if plain {
				b.WriteString("{+" + d.Text + "+}")
				continue
			}
			b.WriteString(c.Paint(InsertColor, d.Text))
		}
	}
	return b.String()
}
