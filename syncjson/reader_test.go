package syncjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-sync/synclib"
)

func TestReadCycle(t *testing.T) {
	in := `{"$id":1,"name":"a","next":{"$id":2,"name":"b","next":{"$ref":1}}}`
	a, err := Read([]byte(in), syncNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name != "a" || a.Next == nil || a.Next.Name != "b" {
		t.Fatalf("unexpected result %+v", a)
	}
	if a.Next.Next != a {
		t.Errorf("back-reference did not resolve to the root instance")
	}
}

func TestRoundTripCycle(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b
	for _, opts := range [][]Option{nil, {NewtonsoftCompatibility(true)}} {
		d, err := Write(a, syncNode, opts...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := Read(d, syncNode, opts...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Next.Next != got || got.Next.Name != "b" {
			t.Errorf("%s: cycle not restored", d)
		}
	}
}

func TestReadReordered(t *testing.T) {
	got, err := Read([]byte(`{"name":"x","id":7}`), syncRecord, RootMode(synclib.Normal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&record{ID: 7, Name: "x"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReadMissingFields(t *testing.T) {
	got, err := Read([]byte(`{"name":"x"}`), syncRecord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 0 || got.Name != "x" {
		t.Errorf("unexpected %+v", got)
	}
}

func TestReadNull(t *testing.T) {
	got, err := Read([]byte(`null`), syncNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestReadFaults(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"unknown slot", `{"$id":1,"name":"a","next":{"$ref":2}}`, "unknown slot 2"},
		{"duplicate slot", `{"$id":1,"name":"a","next":{"$id":1,"name":"b"}}`, "duplicate slot 1"},
		{"bad slot id", `{"$id":"x","name":"a"}`, "invalid slot id"},
		{"wrong kind", `{"name":5}`, "expected string"},
		{"not an object", `[1]`, "expected object"},
		{"truncated", `{"name":"a","next":`, "truncated"},
		{"trailing", `{"name":"a"} x`, "after top-level value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read([]byte(tt.in), syncNode)
			var fe *synclib.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected %q in %q", tt.msg, err.Error())
			}
			if fe.Offset < 0 {
				t.Errorf("expected an input offset, got %d", fe.Offset)
			}
		})
	}
}

type small struct {
	A int8
	B uint16
}

func syncSmall(m synclib.Manager, s *small) *small {
	if m.Mode() != synclib.Saving {
		s = &small{}
	}
	s.A = synclib.Int(m, "a", s.A)
	s.B = synclib.Uint(m, "b", s.B)
	return s
}

func TestReadBitWidth(t *testing.T) {
	got, err := Read([]byte(`{"a":-128,"b":65535}`), syncSmall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.A != -128 || got.B != 65535 {
		t.Errorf("unexpected %+v", got)
	}
	for _, in := range []string{`{"a":128}`, `{"b":65536}`, `{"b":-1}`, `{"a":1.5}`} {
		_, err := Read([]byte(in), syncSmall)
		var fe *synclib.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected *FormatError, got %v", in, err)
			continue
		}
		if fe.Path == "" {
			t.Errorf("%s: expected a path in %v", in, err)
		}
	}
}

func TestReaderQueries(t *testing.T) {
	r, err := NewReader([]byte(`{"$id":1,"x":1,"list":[true,false]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if begun, _ := r.BeginSubObject("", nil, synclib.Normal, -1); !begun {
		t.Fatalf("expected root object")
	}
	if has, known := r.HasField("x"); !has || !known {
		t.Errorf("HasField(x) = %v, %v", has, known)
	}
	if has, known := r.HasField("y"); has || !known {
		t.Errorf("HasField(y) = %v, %v", has, known)
	}
	if diff := cmp.Diff([]string{"x", "list"}, r.FieldNames()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, known := r.ReachedEndOfList(); known {
		t.Errorf("end of list known outside a list")
	}
	if begun, _ := r.BeginSubObject("list", nil, synclib.List, -1); !begun {
		t.Fatalf("expected list")
	}
	if !r.IsInsideList() {
		t.Errorf("expected inside list")
	}
	if n, known := r.MinimumListLength(); n != 2 || !known {
		t.Errorf("MinimumListLength() = %d, %v", n, known)
	}
	r.SyncBool("", false)
	r.SyncBool("", false)
	if end, known := r.ReachedEndOfList(); !end || !known {
		t.Errorf("ReachedEndOfList() = %v, %v", end, known)
	}
	r.EndSubObject()
	r.EndSubObject()
	if err := r.finish("test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		if _, ok := recover().(*synclib.ProtocolError); !ok {
			t.Errorf("expected *ProtocolError after the session ended")
		}
	}()
	r.SyncBool("x", false)
}
