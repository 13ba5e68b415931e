package syncschema

import (
	"strings"
	"testing"

	"github.com/signadot/go-sync/synclib"
)

type chain struct {
	Val  int32
	Tags []string
	Data []byte
	Next *chain
}

func syncChain(m synclib.Manager, c *chain) *chain {
	if m.Mode() != synclib.Saving {
		c = &chain{}
		m.SetCurrentObject(c)
	}
	c.Val = synclib.Int(m, "val", c.Val)
	c.Tags = synclib.SyncTuple(m, "tags", c.Tags, synclib.StringElem[string](), 2, synclib.NotNull)
	c.Data = m.SyncBytes("data", c.Data, synclib.List, -1)
	c.Next = synclib.Sync(m, "next", c.Next, syncChain, synclib.Deduplicate)
	return c
}

func TestDescribeRecursive(t *testing.T) {
	s, err := Describe(syncChain, synclib.NotNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "#1={val: int32, tags: [string, string], data: bytes?, next: #1?}"
	if got := s.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if s.ID != 1 {
		t.Errorf("expected root id 1, got %d", s.ID)
	}
	next := s.Field("next")
	if next == nil || next.Ref != 1 || len(next.Fields) != 0 {
		t.Errorf("expected next to refer to the root, got %+v", next)
	}
	if tags := s.Field("tags"); tags.Kind != KindTuple || tags.Length != 2 {
		t.Errorf("expected tuple of 2, got %s/%d", tags.Kind, tags.Length)
	}
}

func TestDescribeList(t *testing.T) {
	s, err := DescribeValue(synclib.Elements(synclib.UintElem[uint16]()), synclib.List)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "[uint16...]"; s.String() != want {
		t.Errorf("expected %q, got %q", want, s.String())
	}
}

func TestShapeWalkAndYAML(t *testing.T) {
	s, err := Describe(syncChain, synclib.NotNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var paths []string
	s.Walk(func(path string, _ *Shape) {
		paths = append(paths, path)
	})
	want := []string{"", "val", "tags", "tags[0]", "tags[1]", "data", "next"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("expected paths %v, got %v", want, paths)
	}
	y, err := s.YAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, frag := range []string{"kind: object", "id: 1", "ref: 1", "bits: 32"} {
		if !strings.Contains(string(y), frag) {
			t.Errorf("expected %q in:\n%s", frag, y)
		}
	}
}

func TestRecorderMisuse(t *testing.T) {
	r := NewRecorder()
	func() {
		defer func() {
			if _, ok := recover().(*synclib.ProtocolError); !ok {
				t.Errorf("expected *ProtocolError")
			}
		}()
		r.EndSubObject()
	}()
	r.SyncBool("", false)
	if err := r.finish("test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		if _, ok := recover().(*synclib.ProtocolError); !ok {
			t.Errorf("expected *ProtocolError after finish")
		}
	}()
	r.SyncBool("", false)
}
