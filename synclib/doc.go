// Package synclib provides bidirectional synchronization of Go object graphs.
//
// A single shape-function describes, in order, which named or positional
// sub-values compose a value. The same function saves, loads, and describes
// the schema of a value, depending on the [Manager] it is handed.
//
// # Usage
//
//	type Person struct {
//	    Name string
//	    Age  int
//	    Boss *Person
//	}
//
//	func syncPerson(m synclib.Manager, p *Person) *Person {
//	    if m.Mode() == synclib.Loading {
//	        p = &Person{}
//	        m.SetCurrentObject(p)
//	    }
//	    p.Name = m.SyncString("name", p.Name)
//	    p.Age = synclib.Int(m, "age", p.Age)
//	    p.Boss = synclib.Sync(m, "boss", p.Boss, syncPerson, synclib.Deduplicate)
//	    return p
//	}
//
// # Deduplication
//
// Sub-objects synced with [Deduplicate] are tracked by identity for the
// whole session. The shape-function runs at most once per distinct pointer;
// every later visit yields a back-reference, so cyclic graphs terminate.
// Saving backends get identity tracking by being wrapped in a [Deduper].
//
// # Errors
//
// A session records its first fault with [Manager.Fail]. Once a fault is
// recorded, BeginSubObject stops descending, list loops stop and primitive
// syncs become no-ops; the entry point that started the session returns the
// fault. Programmer errors such as an unmatched EndSubObject panic with a
// [*ProtocolError].
package synclib
