// Package sweep implements the Sweep Initializer (spec §4.2): at the
// start of every sweep it rebuilds the free-range list by intersecting
// the ports discovered on the wire, the persistent guid2lid assignments,
// and the current reassignment policy, and it resets port_lid_tbl to
// match. Everything it produces is consumed by the resolver package,
// which performs the per-port allocation during the same sweep.
package sweep

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/guid2lid"
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/topology"
	"github.com/ib-subnet/lidmgr/validator"
)

// Request carries everything the initializer needs for one sweep. Ports,
// Store and Table are mutated in place; Used and Free are (re)built from
// scratch and returned.
type Request struct {
	Log   logging.Logger
	Ports topology.PortSet
	Store guid2lid.Store
	Table *PortLIDTable

	LMC           uint8
	MaxUnicastLID lid.LID

	// FirstTimeMasterSweep is true only for the very first sweep this
	// process performs as master.
	FirstTimeMasterSweep bool
	// ReassignLIDs is the reassign_lids option (spec §6): when true on
	// the first master sweep, every port is stripped of its advertised
	// LID and the whole unicast range is handed back to the resolver as
	// free, discarding the persistent map's guidance for that one pass.
	ReassignLIDs bool
	// ComingOutOfStandby is true when this process just transitioned
	// from standby to master.
	ComingOutOfStandby bool
	// HonorGUID2LIDFile is the honor_guid2lid_file option (spec §6):
	// when set, a standby-to-master transition reloads the persistent
	// store from disk before validating it, so a file edited while this
	// instance was standby takes effect immediately.
	HonorGUID2LIDFile bool
}

// Result is what the initializer hands to the resolver.
type Result struct {
	Used *lid.UsedLIDs
	Free *lid.FreeRanges
}

// Init runs one sweep's initialization pass.
func Init(ctx context.Context, req Request) (*Result, error) {
	if req.ComingOutOfStandby && req.HonorGUID2LIDFile {
		if err := req.Store.Load(ctx); err != nil {
			return nil, errors.Wrap(err, "reload guid2lid database coming out of standby")
		}
	}

	req.Table.Clear()

	if req.FirstTimeMasterSweep && req.ReassignLIDs {
		return reassignAll(req)
	}

	used, err := validator.Validate(ctx, req.Log, req.Store, req.LMC, req.MaxUnicastLID)
	if err != nil {
		return nil, errors.Wrap(err, "validate guid2lid database")
	}

	// Pass 1: mark every LID a discovered port currently advertises as
	// used, regardless of what the persistent map says — a port seen
	// live on the wire always wins occupancy over stale bookkeeping.
	//
	// Before that, drop any persistent entry that no longer fits the
	// port it belongs to under the current LMC: an entry misaligned
	// under the current mask, or narrower than the LID count the port
	// now needs, cannot be trusted to Step A in the resolver without
	// first reserving the LIDs it's short of — so it's deleted here and
	// its LIDs freed, same as the entry never existed this sweep.
	mask := lid.AlignMask(req.LMC)
	for _, port := range req.Ports.Ports() {
		n := port.NeedsLIDs(nodeOf(req.Ports, port), req.LMC)
		if entry, ok := req.Store.Get(uint64(port.GUID)); ok {
			misaligned := (entry.Min & mask) != entry.Min
			if n != 1 && (misaligned || entry.Len() < n) {
				if err := req.Store.Delete(uint64(port.GUID)); err != nil {
					return nil, errors.Wrapf(err, "delete stale persistent entry for guid 0x%016x", uint64(port.GUID))
				}
				used.ClearRange(entry)
			}
		}

		if port.CurrentBaseLID == lid.Invalid {
			continue
		}
		used.MarkRange(lid.Range{Min: port.CurrentBaseLID, Max: port.CurrentBaseLID + lid.LID(n) - 1})
		req.Table.SetRange(lid.Range{Min: port.CurrentBaseLID, Max: port.CurrentBaseLID + lid.LID(n) - 1}, port)
	}

	// Pass 2: whatever remains unused between 1 and max_unicast_lid-1,
	// inclusive, is free for the resolver's Step C allocations.
	free := lid.NewFreeRanges()
	buildFreeRanges(used, req.MaxUnicastLID, free)

	return &Result{Used: used, Free: free}, nil
}

func nodeOf(ports topology.PortSet, port *topology.Port) *topology.Node {
	n, _ := ports.Node(port.NodeGUID)
	return n
}

// reassignAll implements the first_time_master_sweep && reassign_lids
// shortcut (spec §4.2, §6): the persistent map is wiped and the entire
// unicast range [1, max_unicast_lid-1] is returned as one free range, with
// no LID marked used — every port will be freshly allocated this sweep.
// The top LID is excluded, mirroring max_lid = max_unicast_lid_ho - 1 in
// the original lid manager.
func reassignAll(req Request) (*Result, error) {
	if err := req.Store.Clear(context.Background()); err != nil {
		return nil, errors.Wrap(err, "clear guid2lid database for reassign_lids")
	}

	used := lid.NewUsedLIDs()
	free := lid.NewFreeRanges()
	if req.MaxUnicastLID > lid.UcastStart {
		free.Insert(lid.Range{Min: lid.UcastStart, Max: req.MaxUnicastLID - 1})
	}
	return &Result{Used: used, Free: free}, nil
}

// buildFreeRanges scans [1, maxUnicast-1] for maximal runs of unused LIDs
// and inserts each as a free range, in ascending order as FreeRanges.Insert
// requires. The top LID, max_unicast_lid itself, is never handed out.
func buildFreeRanges(used *lid.UsedLIDs, maxUnicast lid.LID, free *lid.FreeRanges) {
	if maxUnicast <= lid.UcastStart {
		return
	}
	top := maxUnicast - 1

	inRun := false
	var start lid.LID

	for l := lid.UcastStart; l <= top; l++ {
		if used.IsUsed(l) {
			if inRun {
				free.Insert(lid.Range{Min: start, Max: l - 1})
				inRun = false
			}
		} else if !inRun {
			inRun = true
			start = l
		}
	}
	if inRun {
		free.Insert(lid.Range{Min: start, Max: top})
	}
}
