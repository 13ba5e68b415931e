package synclib

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

func bitsOf[T constraints.Integer]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// Int syncs a signed integer with the bit width of T.
func Int[T constraints.Signed](m Manager, name string, v T) T {
	return T(m.SyncInt(name, int64(v), bitsOf[T]()))
}

// Uint syncs an unsigned integer with the bit width of T.
func Uint[T constraints.Unsigned](m Manager, name string, v T) T {
	return T(m.SyncUint(name, uint64(v), bitsOf[T]()))
}

// Float syncs a floating point number.
func Float[T constraints.Float](m Manager, name string, v T) T {
	return T(m.SyncFloat(name, float64(v)))
}

// Bool syncs a boolean.
func Bool(m Manager, name string, v bool) bool {
	return m.SyncBool(name, v)
}

// String syncs a string of any string-derived type.
func String[T ~string](m Manager, name string, v T) T {
	return T(m.SyncString(name, string(v)))
}

// IntElem returns an element syncher for signed integers.
func IntElem[T constraints.Signed]() SyncFieldFunc[T] {
	return Int[T]
}

// UintElem returns an element syncher for unsigned integers.
func UintElem[T constraints.Unsigned]() SyncFieldFunc[T] {
	return Uint[T]
}

// FloatElem returns an element syncher for floating point numbers.
func FloatElem[T constraints.Float]() SyncFieldFunc[T] {
	return Float[T]
}

// StringElem returns an element syncher for strings.
func StringElem[T ~string]() SyncFieldFunc[T] {
	return String[T]
}

// BoolElem syncs boolean elements.
var BoolElem SyncFieldFunc[bool] = Bool
