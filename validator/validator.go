// Package validator implements the persistent-DB validation pass run at
// manager init: it cross-checks the persistent guid2lid mapping against
// the current LMC, rejecting misaligned, overlapping, or out-of-range
// entries before any allocation happens (spec §4.1).
package validator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/guid2lid"
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/logging"
)

// Validate walks every entry in store, deleting and logging any entry
// that violates the rules in spec §4.1, and returns a used-LIDs vector
// with every surviving entry's LIDs marked reserved. The validator never
// allocates new LIDs; it only prunes the persistent map.
func Validate(ctx context.Context, log logging.Logger, store guid2lid.Store, lmc uint8, maxUnicast lid.LID) (*lid.UsedLIDs, error) {
	mask := lid.AlignMask(lmc)
	used := lid.NewUsedLIDs()

	var toDelete []uint64
	err := store.IterateGUIDs(func(guid uint64, r lid.Range) error {
		if !entryOK(log, guid, r, mask, maxUnicast, used) {
			toDelete = append(toDelete, guid)
			return nil
		}
		used.MarkRange(r)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "validate guid2lid database")
	}

	for _, guid := range toDelete {
		if err := store.Delete(guid); err != nil {
			log.Errorf("failed to delete invalid guid2lid entry for guid 0x%016x: %v", guid, err)
		}
	}

	return used, nil
}

// entryOK applies the §4.1 rejection rules against entries already
// validated earlier in the same walk (tracked via used).
func entryOK(log logging.Logger, guid uint64, r lid.Range, mask, maxUnicast lid.LID, used *lid.UsedLIDs) bool {
	if guid == 0 {
		log.Errorf("guid2lid: rejecting entry with zero guid, range [%#x:%#x]", r.Min, r.Max)
		return false
	}
	if r.Min == 0 {
		log.Errorf("guid2lid: rejecting entry for guid 0x%016x, min_lid is zero", guid)
		return false
	}
	if r.Min > r.Max {
		log.Errorf("guid2lid: rejecting entry for guid 0x%016x, illegal range [%#x:%#x]", guid, r.Min, r.Max)
		return false
	}
	if r.Max > maxUnicast {
		log.Errorf("guid2lid: rejecting entry for guid 0x%016x, range [%#x:%#x] exceeds max unicast lid %#x", guid, r.Min, r.Max, maxUnicast)
		return false
	}
	if r.Min != r.Max && (r.Min&mask) != r.Min {
		log.Errorf("guid2lid: rejecting entry for guid 0x%016x, range [%#x:%#x] is not aligned to mask %#x", guid, r.Min, r.Max, mask)
		return false
	}
	for l := r.Min; l <= r.Max; l++ {
		if used.IsUsed(l) {
			log.Errorf("guid2lid: rejecting entry for guid 0x%016x, lid %#x already used by an earlier entry", guid, l)
			return false
		}
		if l == ^lid.LID(0) {
			break
		}
	}
	return true
}
