package synclib

// IdentityTable assigns slot ids to object identities for one Saving
// session. It must not be shared between sessions: a back-reference would
// otherwise resolve into another payload's objects.
type IdentityTable struct {
	slots map[any]int
}

// NewIdentityTable creates an empty table.
func NewIdentityTable() *IdentityTable {
	return &IdentityTable{slots: map[any]int{}}
}

// Slot returns the slot id of key and whether this is its first visit.
// Ids are dense and start at 1. key must be comparable; pointers are.
func (t *IdentityTable) Slot(key any) (slot int, first bool) {
	if id, ok := t.slots[key]; ok {
		return id, false
	}
	id := len(t.slots) + 1
	t.slots[key] = id
	return id, true
}

// Len returns the number of distinct identities seen.
func (t *IdentityTable) Len() int {
	return len(t.slots)
}

// Deduper layers identity tracking in front of a Saving backend. A
// Deduplicate sub-object seen for the first time opens a slot; every later
// visit writes a back-reference and returns (false, key), so the dedup
// adapter never runs the shape-function for it again.
//
// A Deduper is the session: create one per top-level value.
type Deduper struct {
	RefWriter
	table *IdentityTable
	refs  int
}

// NewDeduper wraps w with a fresh identity table.
func NewDeduper(w RefWriter) *Deduper {
	return &Deduper{RefWriter: w, table: NewIdentityTable()}
}

func (d *Deduper) SupportsDeduplication() bool {
	return true
}

func (d *Deduper) BeginSubObject(name string, key any, mode SubObjectMode, listLength int) (bool, any) {
	if d.Err() != nil {
		return false, nil
	}
	if key == nil || !mode.Has(Deduplicate) {
		return d.RefWriter.BeginSubObject(name, key, mode, listLength)
	}
	slot, first := d.table.Slot(key)
	if !first {
		d.RefWriter.WriteBackRef(name, slot)
		d.refs++
		return false, key
	}
	return d.RefWriter.BeginSlot(name, slot, mode, listLength), nil
}

// Slots returns the number of slots introduced so far.
func (d *Deduper) Slots() int {
	return d.table.Len()
}

// BackRefs returns the number of back-references written so far.
func (d *Deduper) BackRefs() int {
	return d.refs
}
