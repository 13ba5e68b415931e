package synclib

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

func sliceSyncher[T any](elem SyncFieldFunc[T], mode SubObjectMode, tupleLength int) CollectionSyncher[[]T, T] {
	return CollectionSyncher[[]T, T]{
		Elem:        elem,
		Mode:        mode,
		TupleLength: tupleLength,
		Alloc:       func(n int) []T { return make([]T, 0, n) },
		Add:         func(c []T, item T) []T { return append(c, item) },
		Len:         func(c []T) int { return len(c) },
		Items:       func(c []T) iter.Seq[T] { return slices.Values(c) },
		IsNil:       func(c []T) bool { return c == nil },
	}
}

// SyncSlice syncs a variable-length slice with elem syncing each element.
func SyncSlice[T any](m Manager, name string, v []T, elem SyncFieldFunc[T], mode SubObjectMode) []T {
	if mode.Base() == Normal {
		mode |= List
	}
	return sliceSyncher(elem, mode, -1).Sync(m, name, v)
}

// SyncTuple syncs a slice that must hold exactly length elements.
func SyncTuple[T any](m Manager, name string, v []T, elem SyncFieldFunc[T], length int, mode SubObjectMode) []T {
	mode = (mode &^ List) | Tuple
	return sliceSyncher(elem, mode, length).Sync(m, name, v)
}

// SyncObjects syncs a slice of pointers, each element through an
// ObjectSyncher with itemMode.
func SyncObjects[T any](m Manager, name string, v []*T, fn SyncObjectFunc[*T], itemMode, listMode SubObjectMode) []*T {
	return SyncSlice(m, name, v, ObjectElem(fn, itemMode), listMode)
}

// Pair is one map entry, synced as a 2-tuple.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// PairElem syncs map entries as [key, value] tuples.
func PairElem[K, V any](key SyncFieldFunc[K], val SyncFieldFunc[V]) SyncFieldFunc[Pair[K, V]] {
	return NewTupleSyncher(func(m Manager, p Pair[K, V]) Pair[K, V] {
		p.Key = key(m, "", p.Key)
		p.Value = val(m, "", p.Value)
		return p
	}, 2, Tuple).Sync
}

// SyncMap syncs a map as a list of [key, value] tuples in ascending key
// order, so saved output is deterministic.
func SyncMap[K cmp.Ordered, V any](m Manager, name string, v map[K]V, key SyncFieldFunc[K], val SyncFieldFunc[V], mode SubObjectMode) map[K]V {
	return CollectionSyncher[map[K]V, Pair[K, V]]{
		Elem:        PairElem(key, val),
		Mode:        mode,
		TupleLength: -1,
		Alloc:       func(n int) map[K]V { return make(map[K]V, n) },
		Add: func(c map[K]V, p Pair[K, V]) map[K]V {
			c[p.Key] = p.Value
			return c
		},
		Len: func(c map[K]V) int { return len(c) },
		Items: func(c map[K]V) iter.Seq[Pair[K, V]] {
			return func(yield func(Pair[K, V]) bool) {
				for _, k := range slices.Sorted(maps.Keys(c)) {
					if !yield(Pair[K, V]{Key: k, Value: c[k]}) {
						return
					}
				}
			}
		},
		IsNil: func(c map[K]V) bool { return c == nil },
	}.Sync(m, name, v)
}

// SyncSet syncs a set as a sorted list of its members.
func SyncSet[K cmp.Ordered](m Manager, name string, v map[K]struct{}, elem SyncFieldFunc[K], mode SubObjectMode) map[K]struct{} {
	return CollectionSyncher[map[K]struct{}, K]{
		Elem:        elem,
		Mode:        mode,
		TupleLength: -1,
		Alloc:       func(n int) map[K]struct{} { return make(map[K]struct{}, n) },
		Add: func(c map[K]struct{}, k K) map[K]struct{} {
			c[k] = struct{}{}
			return c
		},
		Len: func(c map[K]struct{}) int { return len(c) },
		Items: func(c map[K]struct{}) iter.Seq[K] {
			return slices.Values(slices.Sorted(maps.Keys(c)))
		},
		IsNil: func(c map[K]struct{}) bool { return c == nil },
	}.Sync(m, name, v)
}

// Elements returns a shape-function for the elements of a positional
// sub-object the caller already opened, such as a top-level List.
func Elements[T any](elem SyncFieldFunc[T]) SyncObjectFunc[[]T] {
	return func(m Manager, v []T) []T {
		if m.Mode() == Saving {
			for _, item := range v {
				if m.Err() != nil {
					break
				}
				elem(m, "", item)
			}
			return v
		}
		var out []T
		for m.Err() == nil {
			end, known := m.ReachedEndOfList()
			if !known || end {
				break
			}
			var zero T
			out = append(out, elem(m, "", zero))
		}
		return out
	}
}
