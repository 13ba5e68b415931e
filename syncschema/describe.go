package syncschema

import "github.com/signadot/go-sync/synclib"

// Describe runs fn in Schema mode and returns the shape of *T.
func Describe[T any](fn synclib.SyncObjectFunc[*T], mode synclib.SubObjectMode) (*Shape, error) {
	r := NewRecorder()
	synclib.Sync(r, "", nil, fn, mode)
	if err := r.finish("Describe"); err != nil {
		return nil, err
	}
	return r.Root(), nil
}

// DescribeValue is Describe for a non-pointer type.
func DescribeValue[T any](fn synclib.SyncObjectFunc[T], mode synclib.SubObjectMode) (*Shape, error) {
	r := NewRecorder()
	var zero T
	synclib.SyncValue(r, "", zero, fn, mode)
	if err := r.finish("DescribeValue"); err != nil {
		return nil, err
	}
	return r.Root(), nil
}
