package syncjson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/go-sync/synclib"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
byteSequenceEncoding: array
charSequenceAsString: false
newtonsoftCompatibility: true
rootMode: list|notnull
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.ByteSequenceEncoding != BytesArray {
		t.Errorf("expected array, got %s", opts.ByteSequenceEncoding)
	}
	if opts.CharSequenceAsString == nil || *opts.CharSequenceAsString {
		t.Errorf("expected charSequenceAsString false")
	}
	if !opts.NewtonsoftCompatibility {
		t.Errorf("expected newtonsoftCompatibility")
	}
	if opts.RootMode != synclib.List|synclib.NotNull {
		t.Errorf("expected list|notnull, got %s", opts.RootMode)
	}
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RootMode != synclib.Deduplicate {
		t.Errorf("expected deduplicate root, got %s", opts.RootMode)
	}
	if !opts.bytesAsString() || !opts.charsAsString() {
		t.Errorf("expected string encodings by default")
	}
	opts.NewtonsoftCompatibility = true
	if opts.charsAsString() {
		t.Errorf("expected char arrays under newtonsoft compatibility")
	}
}

func TestParseOptionsErrors(t *testing.T) {
	for _, in := range []string{
		"byteSequenceEncoding: hex",
		"rootMode: sideways",
		"unknownKey: 1",
	} {
		if _, err := ParseOptions([]byte(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("rootMode: normal\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := WriteText(&record{ID: 3}, syncRecord, WithOptions(opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"id":3,"name":""}`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
