package sweep

import (
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/topology"
)

// PortLIDTable is the port_lid_tbl of spec §3: a vector, indexed by LID,
// of the port currently resolved to occupy it. It is owned by the
// surrounding subnet object and shared (read+write, under the manager's
// exclusive lock) with the rest of the subnet manager; the LID Manager
// clears and rebuilds it each sweep but never shrinks its backing
// storage (spec §5).
type PortLIDTable struct {
	byLID map[lid.LID]*topology.Port
	size  int
}

// NewPortLIDTable returns an empty table.
func NewPortLIDTable() *PortLIDTable {
	return &PortLIDTable{byLID: make(map[lid.LID]*topology.Port)}
}

// Clear empties every entry without discarding the table itself.
func (t *PortLIDTable) Clear() {
	for l := range t.byLID {
		delete(t.byLID, l)
	}
}

// Set records port as occupying lid.
func (t *PortLIDTable) Set(l lid.LID, port *topology.Port) {
	t.byLID[l] = port
	if int(l)+1 > t.size {
		t.size = int(l) + 1
	}
}

// Get returns the port occupying lid, if any.
func (t *PortLIDTable) Get(l lid.LID) (*topology.Port, bool) {
	p, ok := t.byLID[l]
	return p, ok
}

// Clears lid, if it is currently held by port. A no-op if some other
// port now occupies it (used when cleaning up a port's stale range).
func (t *PortLIDTable) ClearIfOwnedBy(l lid.LID, port *topology.Port) {
	if cur, ok := t.byLID[l]; ok && cur == port {
		delete(t.byLID, l)
	}
}

// SetRange records port as occupying every LID in r.
func (t *PortLIDTable) SetRange(r lid.Range, port *topology.Port) {
	for l := r.Min; l <= r.Max; l++ {
		t.Set(l, port)
		if l == ^lid.LID(0) {
			break
		}
	}
}

// ClearRangeIfOwnedBy clears every LID in r currently owned by port.
func (t *PortLIDTable) ClearRangeIfOwnedBy(r lid.Range, port *topology.Port) {
	for l := r.Min; l <= r.Max; l++ {
		t.ClearIfOwnedBy(l, port)
		if l == ^lid.LID(0) {
			break
		}
	}
}

// Size reports the high-water LID index observed plus one, mirroring the
// C implementation's cl_ptr_vector_get_size.
func (t *PortLIDTable) Size() int {
	return t.size
}
