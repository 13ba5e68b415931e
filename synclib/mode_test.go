package synclib

import "testing"

func TestModeBits(t *testing.T) {
	tests := []struct {
		mode       SubObjectMode
		positional bool
		list       bool
		mayBeNull  bool
		str        string
	}{
		{Normal, false, false, true, "normal"},
		{Tuple, true, false, true, "tuple"},
		{List, true, true, true, "list"},
		{NotNull, false, false, false, "normal|notnull"},
		{List | NotNull, true, true, false, "list|notnull"},
		{Deduplicate, false, false, true, "normal|deduplicate"},
		{Deduplicate | NotNull, false, false, true, "normal|deduplicate|notnull"},
		{Tuple | DynamicType, true, false, true, "tuple|dynamictype"},
	}
	for _, tt := range tests {
		if got := tt.mode.IsPositional(); got != tt.positional {
			t.Errorf("%s: IsPositional() = %v, want %v", tt.str, got, tt.positional)
		}
		if got := tt.mode.IsList(); got != tt.list {
			t.Errorf("%s: IsList() = %v, want %v", tt.str, got, tt.list)
		}
		if got := tt.mode.MayBeNull(); got != tt.mayBeNull {
			t.Errorf("%s: MayBeNull() = %v, want %v", tt.str, got, tt.mayBeNull)
		}
		if got := tt.mode.String(); got != tt.str {
			t.Errorf("expected %q, got %q", tt.str, got)
		}
		parsed, err := ParseSubObjectMode(tt.str)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed != tt.mode {
			t.Errorf("ParseSubObjectMode(%q) = %d, want %d", tt.str, parsed, tt.mode)
		}
	}
}

func TestParseSubObjectMode(t *testing.T) {
	tests := []struct {
		in   string
		want SubObjectMode
		err  bool
	}{
		{in: "", want: Normal},
		{in: "List | Dedup", want: List | Deduplicate},
		{in: "notnull", want: NotNull},
		{in: "tuple|list", err: true},
		{in: "bogus", err: true},
	}
	for _, tt := range tests {
		got, err := ParseSubObjectMode(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}
}
