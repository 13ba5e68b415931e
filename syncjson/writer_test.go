package syncjson

import (
	"bytes"
	"errors"
	"testing"

	"github.com/signadot/go-sync/synclib"
)

type node struct {
	Name string
	Next *node
}

func syncNode(m synclib.Manager, n *node) *node {
	if m.Mode() != synclib.Saving {
		n = &node{}
		m.SetCurrentObject(n)
	}
	n.Name = m.SyncString("name", n.Name)
	n.Next = synclib.Sync(m, "next", n.Next, syncNode, synclib.Deduplicate)
	return n
}

type record struct {
	ID   int
	Name string
}

func syncRecord(m synclib.Manager, r *record) *record {
	if m.Mode() != synclib.Saving {
		r = &record{}
	}
	r.ID = synclib.Int(m, "id", r.ID)
	r.Name = m.SyncString("name", r.Name)
	return r
}

func TestWriteList(t *testing.T) {
	got, err := WriteValueText([]int{1, 2, 3}, synclib.Elements(synclib.IntElem[int]()), RootMode(synclib.List))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[1,2,3]" {
		t.Errorf("expected %q, got %q", "[1,2,3]", got)
	}
}

func TestWriteRecord(t *testing.T) {
	got, err := WriteText(&record{ID: 1, Name: "x"}, syncRecord, RootMode(synclib.Normal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"id":1,"name":"x"}`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteCycle(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b
	runs := map[*node]int{}
	count := func(m synclib.Manager, n *node) *node {
		runs[n]++
		return syncNode(m, n)
	}
	got, err := WriteText(a, count)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"$id":1,"name":"a","next":{"$id":2,"name":"b","next":{"$ref":1}}}`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if runs[a] != 1 {
		t.Errorf("root shape-function ran %d times", runs[a])
	}
}

func TestWriteNull(t *testing.T) {
	got, err := WriteText[node](nil, syncNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "null" {
		t.Errorf("expected %q, got %q", "null", got)
	}
}

func TestWriteNewtonsoftIDs(t *testing.T) {
	a := &node{Name: "a"}
	a.Next = a
	got, err := WriteText(a, syncNode, NewtonsoftCompatibility(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"$id":"1","name":"a","next":{"$ref":"1"}}`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

type blob struct {
	Bytes []byte
	Chars []rune
	Bools []bool
}

func syncBlob(m synclib.Manager, b *blob) *blob {
	if m.Mode() != synclib.Saving {
		b = &blob{}
	}
	b.Bytes = m.SyncBytes("bytes", b.Bytes, synclib.List, -1)
	b.Chars = m.SyncChars("chars", b.Chars, synclib.List, -1)
	b.Bools = m.SyncBools("bools", b.Bools, synclib.List, -1)
	return b
}

func TestWriteBulk(t *testing.T) {
	b := &blob{Bytes: []byte{1, 2, 3}, Chars: []rune("hé"), Bools: []bool{true, false}}
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{
			name: "default",
			want: `{"bytes":"AQID","chars":"hé","bools":[true,false]}`,
		},
		{
			name: "arrays",
			opts: []Option{ByteSequenceEncoding(BytesArray), CharSequenceAsString(false)},
			want: `{"bytes":[1,2,3],"chars":["h","é"],"bools":[true,false]}`,
		},
		{
			name: "newtonsoft",
			opts: []Option{NewtonsoftCompatibility(true)},
			want: `{"bytes":"AQID","chars":["h","é"],"bools":[true,false]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{RootMode(synclib.Normal)}, tt.opts...)
			got, err := WriteText(b, syncBlob, opts...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			// either encoding reads back the same
			back, err := Read([]byte(got), syncBlob)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(back.Bytes, b.Bytes) || string(back.Chars) != string(b.Chars) || len(back.Bools) != 2 || !back.Bools[0] || back.Bools[1] {
				t.Errorf("read back %+v", back)
			}
		})
	}
}

func TestWriteStream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, r := range []*record{{ID: 1}, {ID: 2}} {
		if err := WriteTo(w, r, syncRecord, synclib.Deduplicate); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// each value is its own session, so slot ids restart
	want := "{\"$id\":1,\"id\":1,\"name\":\"\"}\n{\"$id\":1,\"id\":2,\"name\":\"\"}"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWritePrimitiveFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SyncInt("", 5, 64)
	w.SyncString("", "a")
	if buf.Len() != 0 {
		t.Errorf("expected buffered output, got %q", buf.String())
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "5\n\"a\""; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWriterCapability(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if w.SupportsDeduplication() {
		t.Fatalf("raw writer claims deduplication")
	}
	synclib.Sync(w, "", &node{Name: "a"}, syncNode, synclib.Deduplicate)
	var ce *synclib.CapabilityError
	if !errors.As(w.Err(), &ce) {
		t.Fatalf("expected *CapabilityError, got %v", w.Err())
	}
	if w.Depth() != 0 {
		t.Errorf("expected no open sub-objects, got %d", w.Depth())
	}
}

func TestWriterFaults(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *Writer)
	}{
		{"int overflow", func(w *Writer) { w.SyncInt("x", 200, 8) }},
		{"uint overflow", func(w *Writer) { w.SyncUint("x", 256, 8) }},
		{"nan", func(w *Writer) { w.SyncFloat("x", nan()) }},
		{"bytes arity", func(w *Writer) { w.SyncBytes("x", []byte{1}, synclib.Tuple, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			tt.fn(w)
			var fe *synclib.FormatError
			if !errors.As(w.Err(), &fe) {
				t.Fatalf("expected *FormatError, got %v", w.Err())
			}
			// sticky: later writes are no-ops
			w.SyncString("", "after")
			if err := w.Flush(); err == nil {
				t.Fatal("expected error from Flush")
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}
}

var errFull = errors.New("sink full")

type fullSink struct{}

func (fullSink) Write(p []byte) (int, error) {
	return 0, errFull
}

func TestWriterSinkError(t *testing.T) {
	w := NewWriter(fullSink{})
	err := WriteTo(w, &record{ID: 1}, syncRecord, synclib.Normal)
	if !errors.Is(err, errFull) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if err := WriteTo(w, &record{ID: 2}, syncRecord, synclib.Normal); !errors.Is(err, errFull) {
		t.Errorf("expected sticky sink error, got %v", err)
	}
}

func TestWriterMisuse(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *Writer)
	}{
		{"unmatched end", func(w *Writer) { w.EndSubObject() }},
		{"use after close", func(w *Writer) {
			w.Close()
			w.SyncBool("", true)
		}},
		{"close with open frame", func(w *Writer) {
			w.BeginSubObject("", struct{}{}, synclib.Normal, -1)
			w.Close()
		}},
		{"session finished open", func(w *Writer) {
			WriteTo(w, &record{}, func(m synclib.Manager, r *record) *record {
				m.BeginSubObject("dangling", r, synclib.Normal, -1)
				return r
			}, synclib.Normal)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if _, ok := r.(*synclib.ProtocolError); !ok {
					t.Errorf("expected *ProtocolError panic, got %v", r)
				}
			}()
			tt.fn(NewWriter(&bytes.Buffer{}))
		})
	}
}

func TestWriterMaxDepth(t *testing.T) {
	a := &node{Name: "a", Next: &node{Name: "b", Next: &node{Name: "c"}}}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := WriteTo(w, a, syncNode, synclib.Deduplicate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.MaxDepth() != 3 {
		t.Errorf("expected max depth 3, got %d", w.MaxDepth())
	}
	if w.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", w.Depth())
	}
	if w.Offset() != int64(buf.Len()) {
		t.Errorf("expected offset %d, got %d", buf.Len(), w.Offset())
	}
}
