package libdiff

import (
	"fmt"
	"strconv"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/go-sync/syncjson"
)

// we summarize each item as a rune, diff the rune sequences and
//
//  1. recurse into items whose summaries match
//  2. report unmatched items as deletions and insertions
//  3. fold a deletion directly followed by an insertion at the same
//     index into a replacement
func diffArrayByIndex(path string, from, to []*syncjson.Value) []Change {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)

	var res []Change
	fi, ti := 0, 0
	lastDelete := -1
	for i := range diffs {
		diff := &diffs[i]
		n := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range n {
				res = append(res, makeChange(index(path, fi), from[fi], nil))
				lastDelete = len(res) - 1
				fi++
			}
		case diffpatch.DiffEqual:
			lastDelete = -1
			for range n {
				res = append(res, diff2(index(path, fi), from[fi], to[ti])...)
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				if lastDelete >= 0 && lastDelete == len(res)-1 {
					d := &res[lastDelete]
					*d = makeChange(d.Path, d.From, to[ti])
					if d.From.Kind == syncjson.StringKind && to[ti].Kind == syncjson.StringKind {
						d.Text = Text(d.From.Text, to[ti].Text)
					}
				} else {
					res = append(res, makeChange(index(path, ti), nil, to[ti]))
				}
				ti++
				lastDelete = -1
			}
		}
	}
	return res
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func mapValues(m map[string]rune, items []*syncjson.Value) []rune {
	rs := make([]rune, len(items))
	for i, v := range items {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

// summaryStr identifies containers by kind and scalars by kind and value.
// Objects introduced with a slot id are also identified by it.
func summaryStr(v *syncjson.Value) string {
	if v == nil {
		return syncjson.NullKind.String()
	}
	switch v.Kind {
	case syncjson.ObjectKind:
		if id := v.Field("$id"); id != nil {
			return v.Kind.String() + "-$id-" + id.Text
		}
		if ref := v.Field("$ref"); ref != nil {
			return v.Kind.String() + "-$ref-" + ref.Text
		}
		return v.Kind.String()
	case syncjson.ArrayKind, syncjson.NullKind:
		return v.Kind.String()
	case syncjson.BoolKind:
		return v.Kind.String() + "-" + strconv.FormatBool(v.Bool)
	case syncjson.NumberKind:
		return v.Kind.String() + "-" + numberKey(v.Text)
	case syncjson.StringKind:
		if strings.Contains(v.Text, "\n") {
			return v.Kind.String() + "/m"
		}
		return v.Kind.String() + "-" + v.Text
	default:
		return v.Kind.String() + "-" + v.Text
	}
}
