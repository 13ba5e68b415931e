package syncjson

import (
	"bytes"

	"github.com/signadot/go-sync/synclib"
)

// Write encodes the graph rooted at v with fn, using RootMode from opts
// (Deduplicate by default).
func Write[T any](v *T, fn synclib.SyncObjectFunc[*T], opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, opts...)
	if err := WriteTo(w, v, fn, w.opts.RootMode); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteText is Write returning a string.
func WriteText[T any](v *T, fn synclib.SyncObjectFunc[*T], opts ...Option) (string, error) {
	d, err := Write(v, fn, opts...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// WriteValue encodes a non-pointer root such as a slice or a struct value.
// The root has no identity, so Deduplicate in RootMode is ignored for it.
func WriteValue[T any](v T, fn synclib.SyncObjectFunc[T], opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, opts...)
	if err := WriteValueTo(w, v, fn, w.opts.RootMode); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteValueText is WriteValue returning a string.
func WriteValueText[T any](v T, fn synclib.SyncObjectFunc[T], opts ...Option) (string, error) {
	d, err := WriteValue(v, fn, opts...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// WriteTo writes one top-level value to w as its own session, with a fresh
// identity table. Values written by successive calls are separated by a
// newline. Once a session fails, w stays failed.
func WriteTo[T any](w *Writer, v *T, fn synclib.SyncObjectFunc[*T], mode synclib.SubObjectMode) error {
	return w.session("WriteTo", mode, func(m synclib.Manager) {
		synclib.Sync(m, "", v, fn, mode)
	})
}

// WriteValueTo is WriteTo for a non-pointer root.
func WriteValueTo[T any](w *Writer, v T, fn synclib.SyncObjectFunc[T], mode synclib.SubObjectMode) error {
	return w.session("WriteValueTo", mode, func(m synclib.Manager) {
		synclib.SyncValue(m, "", v, fn, mode)
	})
}

func (w *Writer) session(op string, mode synclib.SubObjectMode, body func(m synclib.Manager)) error {
	w.check(op)
	if d := w.Depth(); d != 0 {
		synclib.Misuse(op, d, "session started inside an open sub-object")
	}
	if w.err != nil {
		return w.err
	}
	s := startSession(synclib.Saving)
	dd := synclib.NewDeduper(w)
	if err := synclib.Require(dd, mode); err != nil {
		w.Fail(err)
		s.finish(err)
		return err
	}
	body(dd)
	if d := w.Depth(); d != 0 {
		synclib.Misuse(op, d, "session finished with %d open sub-objects", d)
	}
	w.flush()
	s.finish(w.err,
		"bytes", w.Offset(),
		"slots", dd.Slots(),
		"refs", dd.BackRefs(),
		"maxDepth", w.MaxDepth())
	return w.err
}
