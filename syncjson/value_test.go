package syncjson

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-sync/synclib"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`null`, `null`},
		{` { "a" : [ 1 , 2.50, -0.0, 1e3 ] , "b": {"c": "dé"} } `, `{"a":[1,2.5,-0,1000],"b":{"c":"dé"}}`},
		{`{"$id":"1","x":{"$ref":"1"}}`, `{"$id":"1","x":{"$ref":"1"}}`},
		{`123456789012345678901234567890`, `123456789012345678901234567890`},
		{`[true,false,"x"]`, `[true,false,"x"]`},
	}
	for _, tt := range tests {
		v, err := Parse([]byte(tt.in))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		got, err := Format(v)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseStream(t *testing.T) {
	vs, err := ParseStream([]byte("{\"a\":1}\n[2]\n3 "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.String())
	}
	if diff := cmp.Diff([]string{`{"a":1}`, `[2]`, `3`}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := ParseStream([]byte(`{"a":`)); err == nil {
		t.Errorf("expected error for truncated stream")
	}
}

func TestCheckRefs(t *testing.T) {
	a := &node{Name: "a"}
	a.Next = &node{Name: "b", Next: a}
	d, err := Write(a, syncNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Parse(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, err := CheckRefs(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Stats{Values: 5, Objects: 2, Slots: 2, Refs: 1, MaxDepth: 2}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	for _, in := range []string{
		`{"x":{"$ref":1},"y":{"$id":1}}`,
		`[{"$id":1},{"$id":1}]`,
		`{"$id":0}`,
	} {
		v, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var fe *synclib.FormatError
		if _, err := CheckRefs(v); !errors.As(err, &fe) {
			t.Errorf("%s: expected *FormatError, got %v", in, err)
		}
	}
}

func TestSyncValueReader(t *testing.T) {
	type doc struct {
		Kind string
		Body *Value
	}
	fn := func(m synclib.Manager, d *doc) *doc {
		if m.Mode() != synclib.Saving {
			d = &doc{}
		}
		d.Kind = m.SyncString("kind", d.Kind)
		d.Body = SyncValue(m, "body", d.Body)
		return d
	}
	in := `{"kind":"k","body":{"z":[1,{"y":null}]}}`
	d, err := Read([]byte(in), fn, RootMode(synclib.Normal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := WriteText(d, fn, RootMode(synclib.Normal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("expected %q, got %q", in, out)
	}
}

func TestParseObjects(t *testing.T) {
	v, err := Parse([]byte(`{"a":{"b":1,"c":[{"d":"x"}]},"e":"y"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"a", "e"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	d := v.Field("a").Field("c").Items[0].Field("d")
	if d == nil || d.Text != "x" {
		t.Errorf("expected a.c[0].d to be \"x\", got %v", d)
	}
	if b := v.Field("a").Field("b"); b == nil || b.Text != "1" {
		t.Errorf("expected a.b to be 1, got %v", b)
	}
}
