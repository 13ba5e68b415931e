package syncjson

import (
	"github.com/signadot/go-sync/synclib"
)

// Read decodes the graph encoded in data with fn, using RootMode from opts.
// Back-references resolve to the same *T instance their slot was bound to.
func Read[T any](data []byte, fn synclib.SyncObjectFunc[*T], opts ...Option) (*T, error) {
	r, err := NewReader(data, opts...)
	if err != nil {
		return nil, err
	}
	return ReadFrom(r, fn, r.opts.RootMode)
}

// ReadValue decodes a non-pointer root.
func ReadValue[T any](data []byte, fn synclib.SyncObjectFunc[T], opts ...Option) (T, error) {
	r, err := NewReader(data, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return ReadValueFrom(r, fn, r.opts.RootMode)
}

// ReadFrom reads the top-level value of r as one session.
func ReadFrom[T any](r *Reader, fn synclib.SyncObjectFunc[*T], mode synclib.SubObjectMode) (*T, error) {
	var res *T
	err := r.session("ReadFrom", func() {
		res = synclib.Sync(r, "", nil, fn, mode)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReadValueFrom is ReadFrom for a non-pointer root.
func ReadValueFrom[T any](r *Reader, fn synclib.SyncObjectFunc[T], mode synclib.SubObjectMode) (T, error) {
	var res, zero T
	err := r.session("ReadValueFrom", func() {
		res = synclib.SyncValue(r, "", zero, fn, mode)
	})
	if err != nil {
		return zero, err
	}
	return res, nil
}

func (r *Reader) session(op string, body func()) error {
	r.check(op)
	s := startSession(synclib.Loading)
	body()
	err := r.finish(op)
	s.finish(err, "slots", r.Slots(), "maxDepth", r.MaxDepth())
	return err
}
