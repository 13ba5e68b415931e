package synclib

import "math/big"

// SyncMode is the direction of a session.
type SyncMode int

const (
	// Saving writes values to a backend.
	Saving SyncMode = iota
	// Loading reads values from a backend.
	Loading
	// Schema is a shape-discovery dry run; no data is produced or consumed.
	Schema
)

func (m SyncMode) String() string {
	switch m {
	case Saving:
		return "saving"
	case Loading:
		return "loading"
	case Schema:
		return "schema"
	default:
		return "unknown"
	}
}

// Manager is the capability surface every shape-function is written
// against. Saving managers echo the values they are given; Loading managers
// return the values they obtained; Schema managers return zero values.
//
// A Manager belongs to one session and is not safe for concurrent use.
type Manager interface {
	Mode() SyncMode

	// SupportsReordering reports whether named fields may be accessed out
	// of their written order.
	SupportsReordering() bool
	// SupportsDeduplication reports whether the backend can represent
	// back-references. It must be true before Deduplicate is requested.
	SupportsDeduplication() bool
	// IsInsideList reports whether the innermost open frame is a Tuple or List.
	IsInsideList() bool
	// ReachedEndOfList is meaningful while Loading or in Schema mode inside
	// a list; known is false when the backend cannot tell.
	ReachedEndOfList() (end, known bool)
	// MinimumListLength is a size hint for the innermost list.
	MinimumListLength() (n int, known bool)
	// NeedsIntegerIds reports whether slot ids must be small dense integers.
	NeedsIntegerIds() bool
	// Depth is the number of open sub-objects.
	Depth() int
	// HasField lets a shape-function skip an absent optional field while
	// Loading; known is false when the backend cannot tell cheaply.
	HasField(name string) (has, known bool)

	// BeginSubObject opens a sub-object.
	//
	//   - (false, nil): the value is null; do not descend.
	//   - (false, existing): this identity was already visited; reuse
	//     existing and do not run the shape-function.
	//   - (true, _): descend, then call EndSubObject exactly once.
	//
	// key is the identity of the value while Saving, nil for a null value,
	// and ignored while Loading. listLength is the element count when known,
	// or -1.
	BeginSubObject(name string, key any, mode SubObjectMode, listLength int) (begun bool, existing any)
	// EndSubObject closes the innermost open sub-object.
	EndSubObject()
	// SetCurrentObject binds obj to the slot of the innermost sub-object
	// while Loading, so references to it resolve before it is complete.
	SetCurrentObject(obj any)

	SyncBool(name string, v bool) bool
	// SyncInt syncs a signed integer of the given bit width (8..64).
	SyncInt(name string, v int64, bits int) int64
	// SyncUint syncs an unsigned integer of the given bit width (8..64).
	SyncUint(name string, v uint64, bits int) uint64
	SyncBigInt(name string, v *big.Int) *big.Int
	SyncFloat(name string, v float64) float64
	SyncString(name string, v string) string
	SyncNullableString(name string, v *string) *string

	// Bulk primitive sequences. The backend picks the representation; a nil
	// slice is null when mode allows it.
	SyncBools(name string, v []bool, mode SubObjectMode, tupleLength int) []bool
	SyncChars(name string, v []rune, mode SubObjectMode, tupleLength int) []rune
	SyncBytes(name string, v []byte, mode SubObjectMode, tupleLength int) []byte

	// Err returns the first fault recorded in the session.
	Err() error
	// Fail records err as the session fault unless one is already recorded.
	Fail(err error)
}

// RefWriter is a Saving backend able to encode slot ids and
// back-references. A [Deduper] layered in front of it supplies the
// identity tracking.
type RefWriter interface {
	Manager
	// BeginSlot opens a sub-object that introduces slot id.
	BeginSlot(name string, slot int, mode SubObjectMode, listLength int) bool
	// WriteBackRef writes a reference to an already introduced slot.
	WriteBackRef(name string, slot int)
}

// FieldLister is implemented by Loading backends that can enumerate the
// field names of the innermost object in stream order.
type FieldLister interface {
	FieldNames() []string
}

// Require checks at setup that m can honor mode.
func Require(m Manager, mode SubObjectMode) error {
	if mode.Has(Deduplicate) && !m.SupportsDeduplication() {
		return &CapabilityError{
			Capability: CapDeduplication,
			Mode:       m.Mode(),
			Msg:        "Deduplicate requested (" + mode.String() + ")",
		}
	}
	return nil
}

// RequireReordering checks that fields may be accessed out of order.
func RequireReordering(m Manager) error {
	if !m.SupportsReordering() {
		return &CapabilityError{Capability: CapReordering, Mode: m.Mode()}
	}
	return nil
}
