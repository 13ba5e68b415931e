package syncjson

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/go-sync/synclib"
)

// ByteEncoding selects how byte sequences are written.
type ByteEncoding int

const (
	// BytesDefault writes bytes as a base64 string.
	BytesDefault ByteEncoding = iota
	// BytesString writes bytes as a base64 string.
	BytesString
	// BytesArray writes bytes as an array of numbers.
	BytesArray
)

func (e ByteEncoding) String() string {
	switch e {
	case BytesString:
		return "string"
	case BytesArray:
		return "array"
	default:
		return "default"
	}
}

// ParseByteEncoding parses "string", "array" or "default".
func ParseByteEncoding(s string) (ByteEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return BytesDefault, nil
	case "string", "s":
		return BytesString, nil
	case "array", "a":
		return BytesArray, nil
	}
	return BytesDefault, fmt.Errorf("unknown byte sequence encoding %q", s)
}

// Options configures a Writer or Reader. The zero value is usable; see
// DefaultOptions for what entry points use when given no options.
type Options struct {
	ByteSequenceEncoding ByteEncoding
	// CharSequenceAsString writes rune sequences as strings. When nil,
	// strings are used unless NewtonsoftCompatibility is set.
	CharSequenceAsString *bool
	// NewtonsoftCompatibility writes slot ids as strings and rune
	// sequences as arrays unless told otherwise.
	NewtonsoftCompatibility bool
	// RootMode applies to the implicit top-level value.
	RootMode synclib.SubObjectMode
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{RootMode: synclib.Deduplicate}
}

func (o *Options) bytesAsString() bool {
	return o.ByteSequenceEncoding != BytesArray
}

func (o *Options) charsAsString() bool {
	if o.CharSequenceAsString != nil {
		return *o.CharSequenceAsString
	}
	return !o.NewtonsoftCompatibility
}

// Option configures Options.
type Option func(*Options)

// ByteSequenceEncoding sets how byte sequences are written.
func ByteSequenceEncoding(e ByteEncoding) Option {
	return func(o *Options) { o.ByteSequenceEncoding = e }
}

// CharSequenceAsString sets whether rune sequences are written as strings.
func CharSequenceAsString(v bool) Option {
	return func(o *Options) { o.CharSequenceAsString = &v }
}

// NewtonsoftCompatibility toggles Json.NET compatible defaults.
func NewtonsoftCompatibility(v bool) Option {
	return func(o *Options) { o.NewtonsoftCompatibility = v }
}

// RootMode sets the sub-object mode of the top-level value.
func RootMode(m synclib.SubObjectMode) Option {
	return func(o *Options) { o.RootMode = m }
}

// WithOptions replaces all options with opts, e.g. ones from LoadOptions.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func newOptions(opts ...Option) Options {
	res := DefaultOptions()
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

type optionsFile struct {
	ByteSequenceEncoding    string  `yaml:"byteSequenceEncoding"`
	CharSequenceAsString    *bool   `yaml:"charSequenceAsString"`
	NewtonsoftCompatibility bool    `yaml:"newtonsoftCompatibility"`
	RootMode                *string `yaml:"rootMode"`
}

// ParseOptions decodes options from YAML:
//
//	byteSequenceEncoding: array
//	charSequenceAsString: true
//	newtonsoftCompatibility: false
//	rootMode: normal|deduplicate
//
// Absent keys keep their DefaultOptions value.
func ParseOptions(data []byte) (Options, error) {
	var f optionsFile
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return Options{}, fmt.Errorf("error decoding options: %w", err)
	}
	res := DefaultOptions()
	enc, err := ParseByteEncoding(f.ByteSequenceEncoding)
	if err != nil {
		return Options{}, err
	}
	res.ByteSequenceEncoding = enc
	res.CharSequenceAsString = f.CharSequenceAsString
	res.NewtonsoftCompatibility = f.NewtonsoftCompatibility
	if f.RootMode != nil {
		mode, err := synclib.ParseSubObjectMode(*f.RootMode)
		if err != nil {
			return Options{}, err
		}
		res.RootMode = mode
	}
	return res, nil
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	opts, err := ParseOptions(data)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}
