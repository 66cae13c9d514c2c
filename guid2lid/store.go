// Package guid2lid is a thin typed view over the external persistent
// key/value domain the LID Manager uses to remember guid -> LID range
// assignments across restarts. The persistence engine itself (on-disk
// format, transactions, compaction) is an external collaborator; this
// package only defines the contract the rest of the manager programs
// against, plus concrete adapters (boltstore, memstore).
package guid2lid

import (
	"context"

	"github.com/ib-subnet/lidmgr/lid"
)

// Store is the guid2lid domain operations the manager consumes: get, set,
// delete, iterate, clear, load, store (spec §6).
type Store interface {
	// Load reads the domain from its backing persistence into memory.
	Load(ctx context.Context) error
	// Store flushes the in-memory domain to its backing persistence.
	Store(ctx context.Context) error
	// Clear empties the domain, in memory and in the backing store.
	Clear(ctx context.Context) error
	// Get returns the LID range assigned to guid, if any.
	Get(guid uint64) (lid.Range, bool)
	// Set assigns r to guid, overwriting any existing assignment.
	Set(guid uint64, r lid.Range) error
	// Delete removes guid's assignment, if any.
	Delete(guid uint64) error
	// IterateGUIDs visits every (guid, range) pair. The callback may
	// return an error to abort the walk early.
	IterateGUIDs(fn func(guid uint64, r lid.Range) error) error
	// Len reports the number of guid -> range assignments currently held.
	Len() int
}
