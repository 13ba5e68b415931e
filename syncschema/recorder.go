package syncschema

import (
	"math/big"

	"github.com/signadot/go-sync/debug"
	"github.com/signadot/go-sync/synclib"
)

// Recorder is the Schema backend. Each sync call appends a Shape to the
// innermost open shape. Lists, and tuples of unknown length, report one
// element and then their end; other tuples report as many elements as
// requested.
//
// A sub-object whose key is already open further up is recorded as a
// reference to the enclosing shape instead of being entered again, so
// recursive types terminate.
type Recorder struct {
	root   *Shape
	frames []*rframe
	nextID int
	err    error
	done   bool
}

type rframe struct {
	shape *Shape
	key   any
	list  bool
	elems int
}

var _ synclib.Manager = (*Recorder)(nil)

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{root: &Shape{Kind: KindTuple}}
}

// Root returns the first top-level shape recorded, or nil.
func (r *Recorder) Root() *Shape {
	if len(r.root.Fields) == 0 {
		return nil
	}
	return r.root.Fields[0]
}

func (r *Recorder) Mode() synclib.SyncMode {
	return synclib.Schema
}

func (r *Recorder) SupportsReordering() bool {
	return true
}

func (r *Recorder) SupportsDeduplication() bool {
	return true
}

func (r *Recorder) IsInsideList() bool {
	f := r.top()
	return f != nil && f.shape.Kind != KindObject
}

func (r *Recorder) ReachedEndOfList() (bool, bool) {
	if r.err != nil {
		return true, true
	}
	f := r.top()
	if f == nil || f.shape.Kind == KindObject {
		return false, false
	}
	if !f.list {
		return false, true
	}
	return f.elems > 0, true
}

func (r *Recorder) MinimumListLength() (int, bool) {
	return 0, false
}

func (r *Recorder) NeedsIntegerIds() bool {
	return false
}

func (r *Recorder) Depth() int {
	return len(r.frames)
}

func (r *Recorder) HasField(string) (bool, bool) {
	return false, false
}

func (r *Recorder) SetCurrentObject(any) {}

func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *Recorder) top() *rframe {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func (r *Recorder) check(op string) {
	if r.done {
		synclib.Misuse(op, len(r.frames), "recorder used after its session ended")
	}
}

func (r *Recorder) add(op string, s *Shape) bool {
	r.check(op)
	if r.err != nil {
		return false
	}
	parent := r.root
	if f := r.top(); f != nil {
		parent = f.shape
		f.elems++
	}
	parent.Fields = append(parent.Fields, s)
	if debug.Schema() {
		debug.Logger().Debug("shape", "op", op, "name", s.Name, "kind", s.Kind, "depth", len(r.frames))
	}
	return true
}

func (r *Recorder) BeginSubObject(name string, key any, mode synclib.SubObjectMode, listLength int) (bool, any) {
	s := containerShape(name, mode, listLength)
	if !r.add("BeginSubObject", s) {
		return false, nil
	}
	if key != nil {
		for _, f := range r.frames {
			if f.key != key {
				continue
			}
			if f.shape.ID == 0 {
				r.nextID++
				f.shape.ID = r.nextID
			}
			s.Ref = f.shape.ID
			return false, nil
		}
	}
	list := mode.IsList() || (mode.IsPositional() && listLength < 0)
	r.frames = append(r.frames, &rframe{shape: s, key: key, list: list})
	return true, nil
}

func (r *Recorder) EndSubObject() {
	r.check("EndSubObject")
	if len(r.frames) == 0 {
		synclib.Misuse("EndSubObject", 0, "no open sub-object")
	}
	r.frames = r.frames[:len(r.frames)-1]
}

func (r *Recorder) finish(op string) error {
	if d := len(r.frames); d != 0 {
		synclib.Misuse(op, d, "session finished with %d open sub-objects", d)
	}
	r.done = true
	return r.err
}

func (r *Recorder) SyncBool(name string, v bool) bool {
	r.add("SyncBool", &Shape{Name: name, Kind: KindBool})
	return v
}

func (r *Recorder) SyncInt(name string, v int64, bits int) int64 {
	r.add("SyncInt", &Shape{Name: name, Kind: KindInt, Bits: bits})
	return v
}

func (r *Recorder) SyncUint(name string, v uint64, bits int) uint64 {
	r.add("SyncUint", &Shape{Name: name, Kind: KindUint, Bits: bits})
	return v
}

func (r *Recorder) SyncBigInt(name string, v *big.Int) *big.Int {
	r.add("SyncBigInt", &Shape{Name: name, Kind: KindBigInt, Nullable: true})
	return v
}

func (r *Recorder) SyncFloat(name string, v float64) float64 {
	r.add("SyncFloat", &Shape{Name: name, Kind: KindFloat, Bits: 64})
	return v
}

func (r *Recorder) SyncString(name string, v string) string {
	r.add("SyncString", &Shape{Name: name, Kind: KindString})
	return v
}

func (r *Recorder) SyncNullableString(name string, v *string) *string {
	r.add("SyncNullableString", &Shape{Name: name, Kind: KindString, Nullable: true})
	return v
}

func (r *Recorder) SyncBools(name string, v []bool, mode synclib.SubObjectMode, tupleLength int) []bool {
	r.add("SyncBools", seqShape(name, KindBools, mode, tupleLength))
	return v
}

func (r *Recorder) SyncChars(name string, v []rune, mode synclib.SubObjectMode, tupleLength int) []rune {
	r.add("SyncChars", seqShape(name, KindChars, mode, tupleLength))
	return v
}

func (r *Recorder) SyncBytes(name string, v []byte, mode synclib.SubObjectMode, tupleLength int) []byte {
	r.add("SyncBytes", seqShape(name, KindBytes, mode, tupleLength))
	return v
}

func seqShape(name string, kind Kind, mode synclib.SubObjectMode, tupleLength int) *Shape {
	s := &Shape{Name: name, Kind: kind, Nullable: mode.MayBeNull()}
	if mode.Base() == synclib.Tuple && tupleLength > 0 {
		s.Length = tupleLength
	}
	return s
}
