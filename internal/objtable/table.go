// Package objtable implements the per-connection object-identifier table
// described in spec.md §4.2: a mapping from 32-bit object id to the
// interface name it implements, plus a server-side id allocator that the
// current request/reply flows never consult (clients supply all new ids).
package objtable

// DisplayObjectID is the well-known id of the wl_display singleton, bound
// before any request is processed.
const DisplayObjectID uint32 = 1

// DisplayInterface is the interface name bound to DisplayObjectID.
const DisplayInterface = "wl_display"

// firstAllocatedID is where the server-side allocator seeds: id 1 is
// reserved for wl_display.
const firstAllocatedID uint32 = 2

// Table is a per-connection object-id → interface-name map. It is not
// safe for concurrent use; each connection owns exactly one Table.
type Table struct {
	entries map[uint32]string
	nextID  uint32
}

// New returns a Table pre-populated with the wl_display entry.
func New() *Table {
	t := &Table{
		entries: make(map[uint32]string),
		nextID:  firstAllocatedID,
	}
	t.entries[DisplayObjectID] = DisplayInterface
	return t
}

// Lookup returns the interface bound to id, if any.
func (t *Table) Lookup(id uint32) (string, bool) {
	iface, ok := t.entries[id]
	return iface, ok
}

// Bind associates id with iface, overwriting any previous binding. The
// client is trusted not to reuse identifiers (spec.md §4.2); destruction
// and reclamation are not implemented in this core.
func (t *Table) Bind(id uint32, iface string) {
	t.entries[id] = iface
}

// Next returns the next server-side allocated id (2, 3, ...). Overflow is
// not addressed: a connection's lifetime is assumed far shorter than
// 2^32 allocations.
func (t *Table) Next() uint32 {
	id := t.nextID
	t.nextID++
	return id
}

// Len reports how many objects are currently bound, for introspection.
func (t *Table) Len() int {
	return len(t.entries)
}
