package syncjson

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"

	"github.com/signadot/go-sync/synclib"
)

// SyncValue syncs a dynamic document. Saving writes v through m member by
// member, so writing a parsed document normalizes it. Loading is supported
// on a Reader and returns the subtree for name as is.
func SyncValue(m synclib.Manager, name string, v *Value) *Value {
	if m.Err() != nil {
		return v
	}
	switch m.Mode() {
	case synclib.Saving:
		saveValue(m, name, v)
		return v
	case synclib.Loading:
		if r, ok := m.(*Reader); ok {
			r.check("SyncValue")
			return r.next(name)
		}
	}
	m.Fail(&synclib.CapabilityError{
		Capability: "dynamic values",
		Mode:       m.Mode(),
	})
	return v
}

// Format writes v compactly. Numbers are normalized; member order and
// slot bookkeeping members are kept.
func Format(v *Value, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, opts...)
	s := startSession(synclib.Saving)
	SyncValue(w, "", v)
	err := w.Close()
	s.finish(err, "bytes", w.Offset(), "maxDepth", w.MaxDepth())
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the compact encoding of v.
func (v *Value) String() string {
	d, err := Format(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(d)
}

func saveValue(m synclib.Manager, name string, v *Value) {
	if v.IsNull() {
		if begun, _ := m.BeginSubObject(name, nil, synclib.Normal, 0); begun {
			m.EndSubObject()
		}
		return
	}
	switch v.Kind {
	case BoolKind:
		m.SyncBool(name, v.Bool)
	case StringKind:
		m.SyncString(name, v.Text)
	case NumberKind:
		saveNumber(m, name, v)
	case ObjectKind:
		if begun, _ := m.BeginSubObject(name, v, synclib.Normal|synclib.NotNull, -1); !begun {
			return
		}
		for i := range v.Fields {
			if m.Err() != nil {
				break
			}
			saveValue(m, v.Fields[i].Name, v.Fields[i].Value)
		}
		m.EndSubObject()
	case ArrayKind:
		if begun, _ := m.BeginSubObject(name, v, synclib.List|synclib.NotNull, len(v.Items)); !begun {
			return
		}
		for _, item := range v.Items {
			if m.Err() != nil {
				break
			}
			saveValue(m, "", item)
		}
		m.EndSubObject()
	}
}

func saveNumber(m synclib.Manager, name string, v *Value) {
	if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
		m.SyncInt(name, i, 64)
		return
	}
	if b, ok := new(big.Int).SetString(v.Text, 10); ok {
		m.SyncBigInt(name, b)
		return
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		m.Fail(&synclib.FormatError{Path: name, Offset: v.Offset, Depth: m.Depth(), Msg: "invalid number " + v.Text, Err: err})
		return
	}
	m.SyncFloat(name, f)
}

// Stats summarizes a document.
type Stats struct {
	Values   int `yaml:"values"`
	Objects  int `yaml:"objects"`
	Lists    int `yaml:"lists"`
	Slots    int `yaml:"slots"`
	Refs     int `yaml:"refs"`
	MaxDepth int `yaml:"maxDepth"`
}

// CheckRefs verifies that slot ids are unique and that every "$ref" names
// a slot introduced earlier in the document.
func CheckRefs(v *Value) (Stats, error) {
	c := &refChecker{seen: map[int]bool{}}
	err := c.walk(v, "", 0)
	return c.stats, err
}

type refChecker struct {
	stats Stats
	seen  map[int]bool
}

func (c *refChecker) walk(v *Value, path string, depth int) error {
	if v == nil {
		return nil
	}
	c.stats.Values++
	if depth > c.stats.MaxDepth {
		c.stats.MaxDepth = depth
	}
	switch v.Kind {
	case ObjectKind:
		if ref := v.Field("$ref"); ref != nil && len(v.Fields) == 1 {
			id, err := c.id(ref, path, depth)
			if err != nil {
				return err
			}
			if !c.seen[id] {
				return &synclib.FormatError{Path: path, Offset: ref.Offset, Depth: depth, Msg: fmt.Sprintf("reference to unknown slot %d", id)}
			}
			c.stats.Refs++
			return nil
		}
		if idv := v.Field("$id"); idv != nil {
			id, err := c.id(idv, path, depth)
			if err != nil {
				return err
			}
			if c.seen[id] {
				return &synclib.FormatError{Path: path, Offset: idv.Offset, Depth: depth, Msg: fmt.Sprintf("duplicate slot %d", id)}
			}
			c.seen[id] = true
			c.stats.Slots++
		}
		if vals := v.Field("$values"); vals != nil && vals.Kind == ArrayKind {
			c.stats.Lists++
			return c.items(vals.Items, path, depth)
		}
		c.stats.Objects++
		for i := range v.Fields {
			f := &v.Fields[i]
			if isMeta(f.Name) {
				continue
			}
			if err := c.walk(f.Value, joinPath(path, f.Name), depth+1); err != nil {
				return err
			}
		}
	case ArrayKind:
		c.stats.Lists++
		return c.items(v.Items, path, depth)
	}
	return nil
}

func (c *refChecker) items(items []*Value, path string, depth int) error {
	for i, item := range items {
		if err := c.walk(item, fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c *refChecker) id(v *Value, path string, depth int) (int, error) {
	if v.Kind != NumberKind && v.Kind != StringKind {
		return 0, &synclib.FormatError{Path: path, Offset: v.Offset, Depth: depth, Msg: "slot id must be a number or string"}
	}
	id, err := strconv.Atoi(v.Text)
	if err != nil || id < 1 {
		return 0, &synclib.FormatError{Path: path, Offset: v.Offset, Depth: depth, Msg: fmt.Sprintf("invalid slot id %q", v.Text)}
	}
	return id, nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
