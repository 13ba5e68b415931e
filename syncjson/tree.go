package syncjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/signadot/go-sync/synclib"
)

// Kind is the JSON kind of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ObjectKind
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a parsed JSON document node.
type Value struct {
	Kind Kind
	Bool bool
	// Text is the unescaped string, or the number literal as written.
	Text   string
	Fields []Field
	Items  []*Value
	// Offset is the approximate input byte offset of the node.
	Offset int64

	index map[string]int
}

// Field is one member of an object, in input order.
type Field struct {
	Name  string
	Value *Value
}

const indexThreshold = 8

// Field returns the member called name, or nil.
func (v *Value) Field(name string) *Value {
	if v == nil || v.Kind != ObjectKind {
		return nil
	}
	if len(v.Fields) > indexThreshold {
		if v.index == nil {
			v.index = make(map[string]int, len(v.Fields))
			for i := range v.Fields {
				v.index[v.Fields[i].Name] = i
			}
		}
		if i, ok := v.index[name]; ok {
			return v.Fields[i].Value
		}
		return nil
	}
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return v.Fields[i].Value
		}
	}
	return nil
}

// IsNull reports whether v is absent or null.
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == NullKind
}

// Parse parses exactly one JSON value.
func Parse(data []byte) (*Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := parseValue(dec, 0)
	if err != nil {
		return nil, err
	}
	off := dec.InputOffset()
	if _, err := dec.ReadToken(); err != io.EOF {
		return nil, &synclib.FormatError{Offset: off, Msg: "unexpected data after top-level value", Err: err}
	}
	return v, nil
}

// ParseStream parses a sequence of whitespace separated JSON values, as
// written by successive WriteTo calls on one Writer.
func ParseStream(data []byte) ([]*Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	var res []*Value
	for {
		if dec.PeekKind() == 0 {
			off := dec.InputOffset()
			_, err := dec.ReadToken()
			if err == io.EOF {
				return res, nil
			}
			return nil, tokenError(off, 0, err)
		}
		v, err := parseValue(dec, 0)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
}

func parseValue(dec *jsontext.Decoder, depth int) (*Value, error) {
	off := dec.InputOffset()
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, tokenError(off, depth, err)
	}
	switch tok.Kind() {
	case 'n':
		return &Value{Kind: NullKind, Offset: off}, nil
	case 't', 'f':
		return &Value{Kind: BoolKind, Bool: tok.Bool(), Offset: off}, nil
	case '"':
		return &Value{Kind: StringKind, Text: tok.String(), Offset: off}, nil
	case '0':
		return &Value{Kind: NumberKind, Text: tok.String(), Offset: off}, nil
	case '{':
		res := &Value{Kind: ObjectKind, Offset: off}
		for {
			noff := dec.InputOffset()
			name, err := dec.ReadToken()
			if err != nil {
				return nil, tokenError(noff, depth+1, err)
			}
			if name.Kind() == '}' {
				return res, nil
			}
			// the token is voided by the next read
			key := name.String()
			val, err := parseValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			res.Fields = append(res.Fields, Field{Name: key, Value: val})
		}
	case '[':
		res := &Value{Kind: ArrayKind, Offset: off}
		for {
			switch dec.PeekKind() {
			case ']':
				if _, err := dec.ReadToken(); err != nil {
					return nil, tokenError(dec.InputOffset(), depth+1, err)
				}
				return res, nil
			case 0:
				eoff := dec.InputOffset()
				_, err := dec.ReadToken()
				return nil, tokenError(eoff, depth+1, err)
			}
			item, err := parseValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			res.Items = append(res.Items, item)
		}
	}
	return nil, &synclib.FormatError{Offset: off, Depth: depth, Msg: fmt.Sprintf("unexpected token %v", tok.Kind())}
}

func tokenError(off int64, depth int, err error) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &synclib.FormatError{Offset: off, Depth: depth, Msg: "truncated input", Err: io.ErrUnexpectedEOF}
	}
	var se *jsontext.SyntacticError
	if errors.As(err, &se) {
		off = se.ByteOffset
	}
	return &synclib.FormatError{Offset: off, Depth: depth, Msg: "invalid JSON", Err: err}
}
