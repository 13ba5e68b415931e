package synclib

import "fmt"

// SyncObjectFunc is a shape-function: it syncs the parts of v, in order,
// and returns the saved or loaded value.
type SyncObjectFunc[T any] func(m Manager, v T) T

// SyncFieldFunc syncs one named value, typically one list element.
type SyncFieldFunc[T any] func(m Manager, name string, v T) T

// TypeTagField is the field that holds the discriminator of a DynamicType
// sub-object.
const TypeTagField = "$type"

// schemaKey identifies T during a Schema dry run, where there are no
// instances to take the identity of.
type schemaKey[T any] struct{}

// present is the key of a value that cannot be null.
type present struct{}

// ObjectSyncher syncs pointers to T as sub-objects, with identity tracking
// when its mode carries Deduplicate.
type ObjectSyncher[T any] struct {
	fn   SyncObjectFunc[*T]
	mode SubObjectMode
}

// NewObjectSyncher wraps fn with the sub-object protocol for mode.
func NewObjectSyncher[T any](fn SyncObjectFunc[*T], mode SubObjectMode) ObjectSyncher[T] {
	return ObjectSyncher[T]{fn: fn, mode: mode}
}

// Mode returns the sub-object mode s syncs with.
func (s ObjectSyncher[T]) Mode() SubObjectMode {
	return s.mode
}

// Sync syncs v as the field name of the innermost sub-object.
//
// The shape-function runs at most once per distinct pointer per session
// when s deduplicates; a repeated pointer resolves to the instance the
// backend returns without running it again.
func (s ObjectSyncher[T]) Sync(m Manager, name string, v *T) *T {
	if m.Err() != nil {
		return v
	}
	if err := Require(m, s.mode); err != nil {
		m.Fail(err)
		return v
	}
	var key any
	switch m.Mode() {
	case Saving:
		if v != nil {
			key = v
		}
	case Schema:
		key = schemaKey[T]{}
	}
	begun, existing := m.BeginSubObject(name, key, s.mode, -1)
	if !begun {
		if existing == nil {
			return nil
		}
		if obj, ok := existing.(*T); ok {
			return obj
		}
		if m.Mode() != Schema {
			m.Fail(&FormatError{
				Path:   name,
				Offset: -1,
				Depth:  m.Depth(),
				Msg:    fmt.Sprintf("back-reference resolves to %T, want %T", existing, v),
			})
		}
		return nil
	}
	res := s.fn(m, v)
	m.SetCurrentObject(res)
	m.EndSubObject()
	return res
}

// Sync syncs the sub-object v through fn. It is shorthand for
// NewObjectSyncher(fn, mode).Sync(m, name, v).
func Sync[T any](m Manager, name string, v *T, fn SyncObjectFunc[*T], mode SubObjectMode) *T {
	return NewObjectSyncher(fn, mode).Sync(m, name, v)
}

// ObjectElem adapts an ObjectSyncher into an element syncher for the
// collection engine.
func ObjectElem[T any](fn SyncObjectFunc[*T], mode SubObjectMode) SyncFieldFunc[*T] {
	return NewObjectSyncher(fn, mode).Sync
}

// ValueSyncher syncs non-pointer values as sub-objects. Values have no
// identity, so they are never null and never deduplicated.
type ValueSyncher[T any] struct {
	fn     SyncObjectFunc[T]
	mode   SubObjectMode
	length int
}

// NewValueSyncher wraps fn; Deduplicate is cleared from mode and NotNull set.
func NewValueSyncher[T any](fn SyncObjectFunc[T], mode SubObjectMode) ValueSyncher[T] {
	return ValueSyncher[T]{fn: fn, mode: (mode &^ Deduplicate) | NotNull, length: -1}
}

// NewTupleSyncher is NewValueSyncher for a value stored as a tuple of
// exactly length elements. Loading fails on any other arity.
func NewTupleSyncher[T any](fn SyncObjectFunc[T], length int, mode SubObjectMode) ValueSyncher[T] {
	s := NewValueSyncher(fn, (mode&^List)|Tuple)
	s.length = length
	return s
}

// Sync syncs v as the field name of the innermost sub-object.
func (s ValueSyncher[T]) Sync(m Manager, name string, v T) T {
	if m.Err() != nil {
		return v
	}
	var key any = present{}
	if m.Mode() == Schema {
		key = schemaKey[T]{}
	}
	begun, existing := m.BeginSubObject(name, key, s.mode, s.length)
	if !begun {
		if obj, ok := existing.(T); ok {
			return obj
		}
		var zero T
		return zero
	}
	res := s.fn(m, v)
	if m.Mode() == Loading && s.mode.Base() == Tuple && m.Err() == nil {
		if end, known := m.ReachedEndOfList(); known && !end {
			m.Fail(&FormatError{
				Path:   name,
				Offset: -1,
				Depth:  m.Depth(),
				Msg:    "tuple has more elements than were read",
			})
		}
	}
	m.EndSubObject()
	return res
}

// SyncValue is shorthand for NewValueSyncher(fn, mode).Sync(m, name, v).
func SyncValue[T any](m Manager, name string, v T, fn SyncObjectFunc[T], mode SubObjectMode) T {
	return NewValueSyncher(fn, mode).Sync(m, name, v)
}

// ValueElem adapts a ValueSyncher into an element syncher.
func ValueElem[T any](fn SyncObjectFunc[T], mode SubObjectMode) SyncFieldFunc[T] {
	return NewValueSyncher(fn, mode).Sync
}

// TypeTag syncs the discriminator of a DynamicType sub-object. Call it
// first inside the shape-function so Loading can dispatch on the result.
func TypeTag(m Manager, tag string) string {
	return m.SyncString(TypeTagField, tag)
}
