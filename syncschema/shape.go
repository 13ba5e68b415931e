// Package syncschema runs shape-functions in Schema mode and records the
// shape of the values they describe.
package syncschema

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/go-sync/synclib"
)

// Kind is the kind of a recorded Shape.
type Kind string

const (
	KindObject Kind = "object"
	KindTuple  Kind = "tuple"
	KindList   Kind = "list"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindUint   Kind = "uint"
	KindBigInt Kind = "bigint"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindBools  Kind = "bools"
	KindChars  Kind = "chars"
	KindBytes  Kind = "bytes"
)

// Shape describes one value. A Shape with a Ref stands for the shape with
// that ID, which encloses it: the described type is recursive.
type Shape struct {
	Name        string   `yaml:"name,omitempty"`
	Kind        Kind     `yaml:"kind"`
	Bits        int      `yaml:"bits,omitempty"`
	Length      int      `yaml:"length,omitempty"`
	Nullable    bool     `yaml:"nullable,omitempty"`
	Deduplicate bool     `yaml:"deduplicate,omitempty"`
	DynamicType bool     `yaml:"dynamicType,omitempty"`
	ID          int      `yaml:"id,omitempty"`
	Ref         int      `yaml:"ref,omitempty"`
	Fields      []*Shape `yaml:"fields,omitempty"`
}

func containerShape(name string, mode synclib.SubObjectMode, listLength int) *Shape {
	s := &Shape{
		Name:        name,
		Nullable:    mode.MayBeNull(),
		Deduplicate: mode.Has(synclib.Deduplicate),
		DynamicType: mode.Has(synclib.DynamicType),
	}
	switch {
	case mode.IsList():
		s.Kind = KindList
	case mode.IsPositional():
		s.Kind = KindTuple
		if listLength > 0 {
			s.Length = listLength
		}
	default:
		s.Kind = KindObject
	}
	return s
}

// Field returns the direct child called name, or nil.
func (s *Shape) Field(name string) *Shape {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Walk calls fn for s and every shape below it, depth first.
func (s *Shape) Walk(fn func(path string, s *Shape)) {
	s.walk("", fn)
}

func (s *Shape) walk(path string, fn func(string, *Shape)) {
	fn(path, s)
	for i, f := range s.Fields {
		var p string
		switch {
		case f.Name == "":
			p = fmt.Sprintf("%s[%d]", path, i)
		case path == "":
			p = f.Name
		default:
			p = path + "." + f.Name
		}
		f.walk(p, fn)
	}
}

// YAML renders s as YAML.
func (s *Shape) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// String renders s on one line, e.g. {name: string, next: &1?}.
func (s *Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Shape) write(b *strings.Builder) {
	if s.ID != 0 {
		fmt.Fprintf(b, "#%d=", s.ID)
	}
	switch s.Kind {
	case KindObject:
		if s.Ref != 0 {
			fmt.Fprintf(b, "#%d", s.Ref)
			break
		}
		b.WriteByte('{')
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.write(b)
		}
		b.WriteByte('}')
	case KindTuple, KindList:
		if s.Ref != 0 {
			fmt.Fprintf(b, "#%d", s.Ref)
			break
		}
		b.WriteByte('[')
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f.write(b)
		}
		if s.Kind == KindList {
			b.WriteString("...")
		}
		b.WriteByte(']')
	case KindInt, KindUint:
		fmt.Fprintf(b, "%s%d", s.Kind, s.Bits)
	default:
		b.WriteString(string(s.Kind))
	}
	if s.Nullable {
		b.WriteByte('?')
	}
}
