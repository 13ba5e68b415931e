package synclib

import (
	"fmt"
	"iter"
)

// CollectionSyncher syncs a homogeneous collection C of elements T as a
// positional sub-object. One engine serves every container: the container
// specifics are the Alloc, Add, Len, Items and IsNil functions.
//
// Elements are saved and loaded strictly in sequence, even when the
// backend supports reordering.
type CollectionSyncher[C any, T any] struct {
	Elem SyncFieldFunc[T]
	// Mode is List or Tuple plus optional flags. A Normal base is treated
	// as List. Collections have no identity, so Deduplicate only makes a
	// nil collection nullable; it applies to elements through their
	// element syncher.
	Mode SubObjectMode
	// TupleLength is the required element count of a Tuple, or -1.
	TupleLength int

	Alloc func(minSize int) C
	Add   func(c C, item T) C
	Len   func(c C) int
	Items func(c C) iter.Seq[T]
	IsNil func(c C) bool
}

func (s CollectionSyncher[C, T]) mode() SubObjectMode {
	mode := s.Mode &^ Deduplicate
	if !mode.IsPositional() {
		mode |= List
	}
	return mode
}

func (s CollectionSyncher[C, T]) fixedLength() (int, bool) {
	if s.mode().IsList() || s.TupleLength < 0 {
		return 0, false
	}
	return s.TupleLength, true
}

// Sync saves or loads c as the field name of the innermost sub-object.
func (s CollectionSyncher[C, T]) Sync(m Manager, name string, c C) C {
	if m.Err() != nil {
		return c
	}
	if m.Mode() == Saving {
		return s.save(m, name, c)
	}
	return s.load(m, name, c)
}

func (s CollectionSyncher[C, T]) save(m Manager, name string, c C) C {
	mode := s.mode()
	isNil := s.IsNil != nil && s.IsNil(c)
	if isNil && s.Mode.MayBeNull() {
		if begun, _ := m.BeginSubObject(name, nil, mode, 0); begun {
			m.EndSubObject()
		}
		return c
	}
	n := 0
	if !isNil {
		n = s.Len(c)
	}
	if want, ok := s.fixedLength(); ok && n != want {
		m.Fail(arityError(m, name, want, n))
		return c
	}
	begun, _ := m.BeginSubObject(name, present{}, mode, n)
	if !begun {
		return c
	}
	if !isNil {
		for item := range s.Items(c) {
			if m.Err() != nil {
				break
			}
			s.Elem(m, "", item)
		}
	}
	m.EndSubObject()
	return c
}

func (s CollectionSyncher[C, T]) load(m Manager, name string, c C) C {
	mode := s.mode()
	want, fixed := s.fixedLength()
	listLength := -1
	if fixed {
		listLength = want
	}
	var key any
	if m.Mode() == Schema {
		key = schemaKey[C]{}
	}
	begun, existing := m.BeginSubObject(name, key, mode, listLength)
	if !begun {
		if prev, ok := existing.(C); ok {
			return prev
		}
		var zero C
		return zero
	}
	hint := want
	if !fixed {
		if n, ok := m.MinimumListLength(); ok {
			hint = n
		}
	}
	out := s.Alloc(hint)
	for i := 0; m.Err() == nil; i++ {
		end, known := m.ReachedEndOfList()
		if fixed && i == want {
			if known && !end && m.Mode() == Loading {
				m.Fail(&FormatError{
					Path:   name,
					Offset: -1,
					Depth:  m.Depth(),
					Msg:    fmt.Sprintf("tuple has more than %d elements", want),
				})
			}
			break
		}
		if known && end {
			if fixed {
				m.Fail(arityError(m, name, want, i))
			}
			break
		}
		if !known && !fixed {
			break
		}
		var zero T
		out = s.Add(out, s.Elem(m, "", zero))
	}
	m.EndSubObject()
	return out
}

func arityError(m Manager, name string, want, got int) *FormatError {
	return &FormatError{
		Path:   name,
		Offset: -1,
		Depth:  m.Depth(),
		Msg:    fmt.Sprintf("tuple has %d elements, want %d", got, want),
	}
}
