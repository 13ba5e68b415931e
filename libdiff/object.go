package libdiff

import (
	"github.com/signadot/go-sync/syncjson"
)

// diffObject matches members by name. Deletions are reported in the order
// of from, insertions in the order of to.
func diffObject(path string, from, to *syncjson.Value) []Change {
	var res []Change
	for i := range from.Fields {
		f := &from.Fields[i]
		p := member(path, f.Name)
		other := to.Field(f.Name)
		if other == nil {
			res = append(res, makeChange(p, f.Value, nil))
			continue
		}
		res = append(res, diff2(p, f.Value, other)...)
	}
	for i := range to.Fields {
		f := &to.Fields[i]
		if from.Field(f.Name) == nil {
			res = append(res, makeChange(member(path, f.Name), nil, f.Value))
		}
	}
	return res
}

func member(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
