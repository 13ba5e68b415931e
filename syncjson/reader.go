package syncjson

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/signadot/go-sync/debug"
	"github.com/signadot/go-sync/synclib"
)

// Reader is the Loading backend for the encoding Writer produces. It parses
// its input up front, so fields may be read in any order and HasField,
// ReachedEndOfList and MinimumListLength always know the answer.
//
// Objects introduced with "$id" are bound to slots; "$ref" resolves to the
// object bound for that slot, which must already be registered.
type Reader struct {
	root     *Value
	rootUsed bool
	frames   []rframe
	slots    map[int]any
	opts     Options
	err      error
	done     bool
	maxDepth int
}

type rframe struct {
	val   *Value
	items []*Value
	next  int
	list  bool
	tuple bool
	slot  int
	label string
}

var (
	_ synclib.Manager     = (*Reader)(nil)
	_ synclib.FieldLister = (*Reader)(nil)
)

// NewReader parses data and returns a Reader positioned before its
// top-level value.
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewValueReader(root, opts...), nil
}

// NewValueReader reads from an already parsed document.
func NewValueReader(root *Value, opts ...Option) *Reader {
	return &Reader{
		root:  root,
		slots: map[int]any{},
		opts:  newOptions(opts...),
	}
}

func (r *Reader) Mode() synclib.SyncMode {
	return synclib.Loading
}

func (r *Reader) SupportsReordering() bool {
	return true
}

func (r *Reader) SupportsDeduplication() bool {
	return true
}

func (r *Reader) IsInsideList() bool {
	f := r.top()
	return f != nil && f.list
}

func (r *Reader) ReachedEndOfList() (bool, bool) {
	if r.err != nil {
		return true, true
	}
	f := r.top()
	if f == nil || !f.list {
		return false, false
	}
	return f.next >= len(f.items), true
}

func (r *Reader) MinimumListLength() (int, bool) {
	f := r.top()
	if f == nil || !f.list {
		return 0, false
	}
	return len(f.items) - f.next, true
}

func (r *Reader) NeedsIntegerIds() bool {
	return false
}

func (r *Reader) Depth() int {
	return len(r.frames)
}

// MaxDepth returns the deepest nesting reached so far.
func (r *Reader) MaxDepth() int {
	return r.maxDepth
}

func (r *Reader) HasField(name string) (bool, bool) {
	f := r.top()
	if f == nil || f.list {
		return false, false
	}
	return f.val.Field(name) != nil, true
}

// FieldNames returns the member names of the innermost object in input
// order, without slot bookkeeping members.
func (r *Reader) FieldNames() []string {
	f := r.top()
	if f == nil || f.list {
		return nil
	}
	res := make([]string, 0, len(f.val.Fields))
	for i := range f.val.Fields {
		if n := f.val.Fields[i].Name; !isMeta(n) {
			res = append(res, n)
		}
	}
	return res
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Slots returns the number of slots bound so far.
func (r *Reader) Slots() int {
	return len(r.slots)
}

func (r *Reader) top() *rframe {
	if len(r.frames) == 0 {
		return nil
	}
	return &r.frames[len(r.frames)-1]
}

func (r *Reader) check(op string) {
	if r.done {
		synclib.Misuse(op, len(r.frames), "reader used after its session ended")
	}
}

func isMeta(name string) bool {
	switch name {
	case "$id", "$ref", "$values":
		return true
	}
	return false
}

// peek returns the value the next read of name would consume, or nil.
func (r *Reader) peek(name string) *Value {
	f := r.top()
	if f == nil {
		if r.rootUsed {
			return nil
		}
		return r.root
	}
	if f.list {
		if f.next >= len(f.items) {
			return nil
		}
		return f.items[f.next]
	}
	if name == "" {
		for i := f.next; i < len(f.val.Fields); i++ {
			if !isMeta(f.val.Fields[i].Name) {
				return f.val.Fields[i].Value
			}
		}
		return nil
	}
	return f.val.Field(name)
}

// next consumes the value for name. Inside a list name is ignored;
// inside an object an empty name reads members in input order.
func (r *Reader) next(name string) *Value {
	f := r.top()
	if f == nil {
		if r.rootUsed {
			return nil
		}
		r.rootUsed = true
		return r.root
	}
	if f.list {
		if f.next >= len(f.items) {
			if f.tuple && r.err == nil {
				r.fail(f.val, name, "tuple has only %d elements", len(f.items))
			}
			return nil
		}
		v := f.items[f.next]
		f.next++
		return v
	}
	if name == "" {
		for f.next < len(f.val.Fields) {
			fl := f.val.Fields[f.next]
			f.next++
			if !isMeta(fl.Name) {
				return fl.Value
			}
		}
		return nil
	}
	return f.val.Field(name)
}

func (r *Reader) path(name string) string {
	var b strings.Builder
	for i := range r.frames {
		b.WriteString(r.frames[i].label)
	}
	if f := r.top(); f != nil && f.list {
		fmt.Fprintf(&b, "[%d]", f.next)
	} else if name != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(name)
	}
	return b.String()
}

func (r *Reader) label(name string) string {
	f := r.top()
	switch {
	case f != nil && f.list:
		return fmt.Sprintf("[%d]", f.next)
	case name == "":
		return ""
	case f == nil:
		return name
	}
	return "." + name
}

func (r *Reader) fail(v *Value, name, format string, args ...any) {
	off := int64(-1)
	if v != nil {
		off = v.Offset
	}
	r.Fail(&synclib.FormatError{
		Path:   r.path(name),
		Offset: off,
		Depth:  len(r.frames),
		Msg:    fmt.Sprintf(format, args...),
	})
}

func (r *Reader) failErr(v *Value, name, msg string, err error) {
	off := int64(-1)
	if v != nil {
		off = v.Offset
	}
	r.Fail(&synclib.FormatError{
		Path:   r.path(name),
		Offset: off,
		Depth:  len(r.frames),
		Msg:    msg,
		Err:    err,
	})
}

// Structure

func (r *Reader) BeginSubObject(name string, key any, mode synclib.SubObjectMode, listLength int) (bool, any) {
	r.check("BeginSubObject")
	if r.err != nil {
		return false, nil
	}
	label := r.label(name)
	v := r.peek(name)
	if v.IsNull() {
		r.next(name)
		return false, nil
	}
	slot := 0
	if v.Kind == ObjectKind {
		if ref := v.Field("$ref"); ref != nil && len(v.Fields) == 1 {
			id, ok := r.slotID(ref, name)
			if !ok {
				return false, nil
			}
			obj, bound := r.slots[id]
			switch {
			case !bound:
				r.fail(ref, name, "reference to unknown slot %d", id)
				return false, nil
			case obj == nil:
				r.fail(ref, name, "reference to slot %d before its object was registered", id)
				return false, nil
			}
			r.next(name)
			if debug.Read() {
				debug.Logger().Debug("resolved back-reference", "path", r.path(name), "slot", id)
			}
			return false, obj
		}
		if idv := v.Field("$id"); idv != nil {
			id, ok := r.slotID(idv, name)
			if !ok {
				return false, nil
			}
			if _, dup := r.slots[id]; dup {
				r.fail(idv, name, "duplicate slot %d", id)
				return false, nil
			}
			r.slots[id] = nil
			slot = id
		}
	}
	f := rframe{val: v, slot: slot, label: label}
	if mode.IsPositional() {
		items, ok := listItems(v)
		if !ok {
			r.fail(v, name, "expected array, found %s", v.Kind)
			return false, nil
		}
		if listLength >= 0 && mode.Base() == synclib.Tuple && len(items) != listLength {
			r.fail(v, name, "tuple has %d elements, want %d", len(items), listLength)
			return false, nil
		}
		f.items = items
		f.list = true
		f.tuple = mode.Base() == synclib.Tuple
	} else if v.Kind != ObjectKind {
		r.fail(v, name, "expected object, found %s", v.Kind)
		return false, nil
	}
	r.next(name)
	r.frames = append(r.frames, f)
	if d := len(r.frames); d > r.maxDepth {
		r.maxDepth = d
	}
	return true, nil
}

func listItems(v *Value) ([]*Value, bool) {
	switch v.Kind {
	case ArrayKind:
		return v.Items, true
	case ObjectKind:
		if vals := v.Field("$values"); vals != nil && vals.Kind == ArrayKind {
			return vals.Items, true
		}
	}
	return nil, false
}

func (r *Reader) slotID(v *Value, name string) (int, bool) {
	text := v.Text
	switch v.Kind {
	case NumberKind, StringKind:
	default:
		r.fail(v, name, "slot id must be a number or string, found %s", v.Kind)
		return 0, false
	}
	id, err := strconv.Atoi(text)
	if err != nil || id < 1 {
		r.fail(v, name, "invalid slot id %q", text)
		return 0, false
	}
	return id, true
}

// SetCurrentObject binds obj to the slot introduced by the innermost
// sub-object, so later references resolve to it.
func (r *Reader) SetCurrentObject(obj any) {
	f := r.top()
	if f == nil || f.slot == 0 {
		return
	}
	r.slots[f.slot] = obj
}

func (r *Reader) EndSubObject() {
	r.check("EndSubObject")
	if len(r.frames) == 0 {
		synclib.Misuse("EndSubObject", 0, "no open sub-object")
	}
	r.frames = r.frames[:len(r.frames)-1]
}

// finish ends the session; the Reader cannot be used afterwards.
func (r *Reader) finish(op string) error {
	if d := len(r.frames); d != 0 {
		synclib.Misuse(op, d, "session finished with %d open sub-objects", d)
	}
	r.done = true
	return r.err
}

// Primitives

// prim consumes the value for name. It returns nil when the session has
// failed or the value is absent or null.
func (r *Reader) prim(op, name string) *Value {
	r.check(op)
	if r.err != nil {
		return nil
	}
	v := r.next(name)
	if v.IsNull() {
		return nil
	}
	return v
}

func (r *Reader) expect(v *Value, name string, kinds ...Kind) bool {
	for _, k := range kinds {
		if v.Kind == k {
			return true
		}
	}
	r.fail(v, name, "expected %s, found %s", kinds[0], v.Kind)
	return false
}

func (r *Reader) SyncBool(name string, _ bool) bool {
	v := r.prim("SyncBool", name)
	if v == nil || !r.expect(v, name, BoolKind) {
		return false
	}
	return v.Bool
}

func (r *Reader) SyncInt(name string, _ int64, bits int) int64 {
	v := r.prim("SyncInt", name)
	checkBits("SyncInt", len(r.frames), bits)
	if v == nil || !r.expect(v, name, NumberKind) {
		return 0
	}
	n, err := strconv.ParseInt(v.Text, 10, bits)
	if err != nil {
		r.failErr(v, name, fmt.Sprintf("%s is not an int%d", v.Text, bits), err)
		return 0
	}
	return n
}

func (r *Reader) SyncUint(name string, _ uint64, bits int) uint64 {
	v := r.prim("SyncUint", name)
	checkBits("SyncUint", len(r.frames), bits)
	if v == nil || !r.expect(v, name, NumberKind) {
		return 0
	}
	n, err := strconv.ParseUint(v.Text, 10, bits)
	if err != nil {
		r.failErr(v, name, fmt.Sprintf("%s is not a uint%d", v.Text, bits), err)
		return 0
	}
	return n
}

func (r *Reader) SyncBigInt(name string, _ *big.Int) *big.Int {
	v := r.prim("SyncBigInt", name)
	if v == nil || !r.expect(v, name, NumberKind, StringKind) {
		return nil
	}
	n, ok := new(big.Int).SetString(v.Text, 10)
	if !ok {
		r.fail(v, name, "%q is not an integer", v.Text)
		return nil
	}
	return n
}

func (r *Reader) SyncFloat(name string, _ float64) float64 {
	v := r.prim("SyncFloat", name)
	if v == nil || !r.expect(v, name, NumberKind) {
		return 0
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		r.failErr(v, name, fmt.Sprintf("%s is not a number", v.Text), err)
		return 0
	}
	return f
}

func (r *Reader) SyncString(name string, _ string) string {
	v := r.prim("SyncString", name)
	if v == nil || !r.expect(v, name, StringKind) {
		return ""
	}
	return v.Text
}

func (r *Reader) SyncNullableString(name string, _ *string) *string {
	v := r.prim("SyncNullableString", name)
	if v == nil || !r.expect(v, name, StringKind) {
		return nil
	}
	s := v.Text
	return &s
}

// Bulk sequences accept both the string and the array encoding.

func (r *Reader) SyncBools(name string, v []bool, mode synclib.SubObjectMode, tupleLength int) []bool {
	return syncSeq(r, name, v, synclib.BoolElem, mode, tupleLength)
}

func (r *Reader) SyncChars(name string, v []rune, mode synclib.SubObjectMode, tupleLength int) []rune {
	r.check("SyncChars")
	if r.err != nil {
		return nil
	}
	if pv := r.peek(name); pv == nil || pv.Kind != StringKind {
		return syncSeq(r, name, v, runeElem, mode, tupleLength)
	}
	s := r.next(name)
	res := []rune(s.Text)
	if !r.checkArity(s, name, len(res), mode, tupleLength) {
		return nil
	}
	return res
}

func (r *Reader) SyncBytes(name string, v []byte, mode synclib.SubObjectMode, tupleLength int) []byte {
	r.check("SyncBytes")
	if r.err != nil {
		return nil
	}
	if pv := r.peek(name); pv == nil || pv.Kind != StringKind {
		return syncSeq(r, name, v, synclib.UintElem[byte](), mode, tupleLength)
	}
	s := r.next(name)
	res, err := base64.StdEncoding.DecodeString(s.Text)
	if err != nil {
		r.failErr(s, name, "invalid base64", err)
		return nil
	}
	if !r.checkArity(s, name, len(res), mode, tupleLength) {
		return nil
	}
	return res
}

func (r *Reader) checkArity(v *Value, name string, n int, mode synclib.SubObjectMode, tupleLength int) bool {
	if mode.Base() != synclib.Tuple || tupleLength < 0 || n == tupleLength {
		return true
	}
	r.fail(v, name, "tuple has %d elements, want %d", n, tupleLength)
	return false
}
