package syncjson

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/signadot/go-sync/synclib"
)

const flushThreshold = 4096

// Writer is the Saving backend. It writes a JSON encoding into a borrowed
// io.Writer: Normal sub-objects become {"name":value,...}, Tuple and List
// sub-objects become [value,...].
//
// Writer never reports back-references itself and answers false to
// SupportsDeduplication. Deduplication needs a [synclib.Deduper] in front
// of it, which the Write entry points and WriteTo set up.
type Writer struct {
	sink   io.Writer
	buf    []byte
	stack  stack
	opts   Options
	err    error
	offset int64
	closed bool
}

var (
	_ synclib.Manager   = (*Writer)(nil)
	_ synclib.RefWriter = (*Writer)(nil)
)

// NewWriter creates a Writer on sink. Values written with WriteTo are
// separated by newlines. The Writer buffers; call Flush or Close.
func NewWriter(sink io.Writer, opts ...Option) *Writer {
	return &Writer{
		sink:  sink,
		buf:   make([]byte, 0, 1024),
		stack: newStack(),
		opts:  newOptions(opts...),
	}
}

// Options returns the options w was created with.
func (w *Writer) Options() Options {
	return w.opts
}

func (w *Writer) Mode() synclib.SyncMode {
	return synclib.Saving
}

func (w *Writer) SupportsReordering() bool {
	return true
}

func (w *Writer) SupportsDeduplication() bool {
	return false
}

func (w *Writer) IsInsideList() bool {
	return w.stack.insideList()
}

func (w *Writer) ReachedEndOfList() (bool, bool) {
	return false, false
}

func (w *Writer) MinimumListLength() (int, bool) {
	return 0, false
}

func (w *Writer) NeedsIntegerIds() bool {
	return false
}

// Depth returns the number of open sub-objects.
func (w *Writer) Depth() int {
	return w.stack.depth()
}

// MaxDepth returns the deepest nesting reached so far.
func (w *Writer) MaxDepth() int {
	return w.stack.maxDepth
}

// Offset returns the number of bytes produced, buffered or not.
func (w *Writer) Offset() int64 {
	return w.offset + int64(len(w.buf))
}

func (w *Writer) HasField(string) (bool, bool) {
	return false, false
}

func (w *Writer) SetCurrentObject(any) {}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Structure

func (w *Writer) BeginSubObject(name string, key any, mode synclib.SubObjectMode, listLength int) (bool, any) {
	if !w.begin("BeginSubObject", name) {
		return false, nil
	}
	if key == nil {
		w.buf = append(w.buf, "null"...)
		return false, nil
	}
	w.open(mode, false)
	return true, nil
}

// BeginSlot opens a sub-object that introduces slot: {"$id":slot,...} for
// Normal, {"$id":slot,"$values":[...]} for Tuple and List.
func (w *Writer) BeginSlot(name string, slot int, mode synclib.SubObjectMode, listLength int) bool {
	if !w.begin("BeginSlot", name) {
		return false
	}
	w.buf = append(w.buf, `{"$id":`...)
	w.appendID(slot)
	if mode.IsPositional() {
		w.buf = append(w.buf, `,"$values":[`...)
		w.stack.push(frame{kind: arrayFrame, wrapped: true})
		return true
	}
	w.stack.push(frame{kind: objectFrame, needsSep: true})
	return true
}

// WriteBackRef writes {"$ref":slot}.
func (w *Writer) WriteBackRef(name string, slot int) {
	if !w.begin("WriteBackRef", name) {
		return
	}
	w.buf = append(w.buf, `{"$ref":`...)
	w.appendID(slot)
	w.buf = append(w.buf, '}')
}

func (w *Writer) EndSubObject() {
	w.check("EndSubObject")
	if w.stack.depth() == 0 {
		synclib.Misuse("EndSubObject", 0, "no open sub-object")
	}
	f := w.stack.pop()
	switch f.kind {
	case objectFrame:
		w.buf = append(w.buf, '}')
	case arrayFrame:
		w.buf = append(w.buf, ']')
		if f.wrapped {
			w.buf = append(w.buf, '}')
		}
	}
	if w.stack.depth() == 0 {
		w.flush()
	}
}

func (w *Writer) open(mode synclib.SubObjectMode, wrapped bool) {
	if mode.IsPositional() {
		w.buf = append(w.buf, '[')
		w.stack.push(frame{kind: arrayFrame, wrapped: wrapped})
		return
	}
	w.buf = append(w.buf, '{')
	w.stack.push(frame{kind: objectFrame})
}

func (w *Writer) appendID(slot int) {
	if w.opts.NewtonsoftCompatibility {
		w.buf = append(w.buf, '"')
		w.buf = strconv.AppendInt(w.buf, int64(slot), 10)
		w.buf = append(w.buf, '"')
		return
	}
	w.buf = strconv.AppendInt(w.buf, int64(slot), 10)
}

// begin writes the separator and field name for the next value. It
// returns false once the session has failed.
func (w *Writer) begin(op, name string) bool {
	w.check(op)
	if w.err != nil {
		return false
	}
	f := w.stack.current()
	if f.needsSep {
		if f.kind == rootFrame {
			w.buf = append(w.buf, '\n')
		} else {
			w.buf = append(w.buf, ',')
		}
	}
	f.needsSep = true
	if f.kind == objectFrame && name != "" {
		w.buf = appendQuoted(w.buf, name)
		w.buf = append(w.buf, ':')
	}
	if len(w.buf) >= flushThreshold {
		w.flush()
	}
	return true
}

func (w *Writer) check(op string) {
	if w.closed {
		synclib.Misuse(op, w.stack.depth(), "writer used after Close")
	}
}

// Primitives

func (w *Writer) SyncBool(name string, v bool) bool {
	if w.begin("SyncBool", name) {
		w.buf = strconv.AppendBool(w.buf, v)
	}
	return v
}

func (w *Writer) SyncInt(name string, v int64, bits int) int64 {
	if !w.begin("SyncInt", name) {
		return v
	}
	checkBits("SyncInt", w.Depth(), bits)
	if bits < 64 && (v < -(1<<(bits-1)) || v >= 1<<(bits-1)) {
		w.Fail(w.formatError(name, fmt.Sprintf("%d overflows int%d", v, bits)))
		return v
	}
	w.buf = strconv.AppendInt(w.buf, v, 10)
	return v
}

func (w *Writer) SyncUint(name string, v uint64, bits int) uint64 {
	if !w.begin("SyncUint", name) {
		return v
	}
	checkBits("SyncUint", w.Depth(), bits)
	if bits < 64 && v >= 1<<bits {
		w.Fail(w.formatError(name, fmt.Sprintf("%d overflows uint%d", v, bits)))
		return v
	}
	w.buf = strconv.AppendUint(w.buf, v, 10)
	return v
}

func (w *Writer) SyncBigInt(name string, v *big.Int) *big.Int {
	if !w.begin("SyncBigInt", name) {
		return v
	}
	if v == nil {
		w.buf = append(w.buf, "null"...)
		return v
	}
	w.buf = v.Append(w.buf, 10)
	return v
}

func (w *Writer) SyncFloat(name string, v float64) float64 {
	if !w.begin("SyncFloat", name) {
		return v
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.Fail(w.formatError(name, fmt.Sprintf("%v has no JSON representation", v)))
		return v
	}
	w.buf = strconv.AppendFloat(w.buf, v, 'g', -1, 64)
	return v
}

func (w *Writer) SyncString(name string, v string) string {
	if w.begin("SyncString", name) {
		w.buf = appendQuoted(w.buf, v)
	}
	return v
}

func (w *Writer) SyncNullableString(name string, v *string) *string {
	if !w.begin("SyncNullableString", name) {
		return v
	}
	if v == nil {
		w.buf = append(w.buf, "null"...)
		return v
	}
	w.buf = appendQuoted(w.buf, *v)
	return v
}

// Bulk sequences

func (w *Writer) SyncBools(name string, v []bool, mode synclib.SubObjectMode, tupleLength int) []bool {
	return syncSeq(w, name, v, synclib.BoolElem, mode, tupleLength)
}

// SyncChars writes runes as one string, or as an array of one-rune strings
// when CharSequenceAsString is off.
func (w *Writer) SyncChars(name string, v []rune, mode synclib.SubObjectMode, tupleLength int) []rune {
	if !w.opts.charsAsString() {
		return syncSeq(w, name, v, runeElem, mode, tupleLength)
	}
	if w.writeNullSeq(name, v == nil, mode) || !w.checkArity(name, len(v), mode, tupleLength) {
		return v
	}
	if w.begin("SyncChars", name) {
		w.buf = appendQuoted(w.buf, string(v))
	}
	return v
}

// SyncBytes writes bytes as a base64 string, or as an array of numbers
// when ByteSequenceEncoding is BytesArray.
func (w *Writer) SyncBytes(name string, v []byte, mode synclib.SubObjectMode, tupleLength int) []byte {
	if !w.opts.bytesAsString() {
		return syncSeq(w, name, v, synclib.UintElem[byte](), mode, tupleLength)
	}
	if w.writeNullSeq(name, v == nil, mode) || !w.checkArity(name, len(v), mode, tupleLength) {
		return v
	}
	if w.begin("SyncBytes", name) {
		w.buf = append(w.buf, '"')
		w.buf = base64.StdEncoding.AppendEncode(w.buf, v)
		w.buf = append(w.buf, '"')
	}
	return v
}

func (w *Writer) writeNullSeq(name string, isNil bool, mode synclib.SubObjectMode) bool {
	if !isNil || !mode.MayBeNull() {
		return false
	}
	if begun, _ := w.BeginSubObject(name, nil, mode, 0); begun {
		w.EndSubObject()
	}
	return true
}

func (w *Writer) checkArity(name string, n int, mode synclib.SubObjectMode, tupleLength int) bool {
	if mode.Base() != synclib.Tuple || tupleLength < 0 || n == tupleLength {
		return true
	}
	w.Fail(w.formatError(name, fmt.Sprintf("tuple has %d elements, want %d", n, tupleLength)))
	return false
}

// syncSeq syncs a primitive sequence element by element through the
// collection engine.
func syncSeq[T any](m synclib.Manager, name string, v []T, elem synclib.SyncFieldFunc[T], mode synclib.SubObjectMode, tupleLength int) []T {
	if mode.Base() == synclib.Tuple {
		return synclib.SyncTuple(m, name, v, elem, tupleLength, mode)
	}
	return synclib.SyncSlice(m, name, v, elem, mode)
}

func runeElem(m synclib.Manager, name string, r rune) rune {
	s := m.SyncString(name, string(r))
	if m.Mode() == synclib.Saving {
		return r
	}
	rs := []rune(s)
	if len(rs) != 1 {
		if m.Err() == nil && m.Mode() == synclib.Loading {
			m.Fail(&synclib.FormatError{Path: name, Offset: -1, Depth: m.Depth(), Msg: fmt.Sprintf("%q is not a single character", s)})
		}
		return 0
	}
	return rs[0]
}

// Control

// Flush writes buffered output to the sink. It is only needed after a bare
// top-level primitive; closing a top-level sub-object flushes.
func (w *Writer) Flush() error {
	w.check("Flush")
	w.flush()
	return w.err
}

// Close flushes and ends the Writer. Using it afterwards panics.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	if d := w.stack.depth(); d != 0 && w.err == nil {
		synclib.Misuse("Close", d, "%d sub-objects still open", d)
	}
	w.flush()
	w.closed = true
	return w.err
}

func (w *Writer) flush() {
	if len(w.buf) == 0 {
		return
	}
	if w.err != nil {
		w.buf = w.buf[:0]
		return
	}
	n, err := w.sink.Write(w.buf)
	w.offset += int64(n)
	w.buf = w.buf[:0]
	if err != nil {
		w.Fail(fmt.Errorf("error writing output: %w", err))
	}
}

func (w *Writer) formatError(name, msg string) *synclib.FormatError {
	return &synclib.FormatError{Path: name, Offset: w.Offset(), Depth: w.Depth(), Msg: msg}
}

func checkBits(op string, depth, bits int) {
	if bits < 1 || bits > 64 {
		synclib.Misuse(op, depth, "bit width %d out of range 1..64", bits)
	}
}

func appendQuoted(dst []byte, s string) []byte {
	res, err := jsontext.AppendQuote(dst, s)
	if err != nil {
		res, _ = jsontext.AppendQuote(dst, strings.ToValidUTF8(s, "�"))
	}
	return res
}
