// Package resolver implements the Port LID Resolver (spec §4.3): given
// the used-LIDs/free-ranges state the sweep initializer built, it decides
// each discovered port's LID by trying, in order, a persistent hit (Step
// A), keeping the port's currently advertised LID (Step B), and finally a
// fresh allocation out of the free-range list (Step C).
package resolver

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/fault"
	"github.com/ib-subnet/lidmgr/guid2lid"
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/sweep"
	"github.com/ib-subnet/lidmgr/topology"
)

// ErrLIDsExhausted is the sentinel fault Resolve returns (after calling
// OnExhausted, if set) when Step C finds no
// free range wide enough for a port that needs fresh LIDs. Compare
// against a returned error with fault.Equals, not ==, since each
// occurrence carries a port-specific description.
var ErrLIDsExhausted = fault.FaultLIDSpaceExhausted(0, 0)

// Step identifies which of the three resolution paths produced a port's
// LID, for logging and metrics.
type Step int

const (
	StepPersistent Step = iota
	StepKeepAdvertised
	StepFreshAllocation
)

func (s Step) String() string {
	switch s {
	case StepPersistent:
		return "persistent"
	case StepKeepAdvertised:
		return "keep-advertised"
	case StepFreshAllocation:
		return "fresh-allocation"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one port.
type Outcome struct {
	Port       *topology.Port
	Assigned   lid.Range
	Step       Step
	Reassigned bool // true if Assigned differs from the port's prior advertised range
}

// Resolver holds the shared, cross-port state a sweep mutates while
// resolving every discovered port in turn.
type Resolver struct {
	Log           logging.Logger
	Store         guid2lid.Store
	Table         *sweep.PortLIDTable
	Used          *lid.UsedLIDs
	Free          *lid.FreeRanges
	LMC           uint8
	MaxUnicastLID lid.LID

	// OnExhausted, if set, is called with the port when Step C finds no
	// free range wide enough; Resolve then returns the exhaustion fault
	// either way. Resolve does not halt the process on exhaustion: the
	// fault goes back to the caller as an ordinary error.
	OnExhausted func(port *topology.Port)
}

// Resolve assigns port a LID range, trying Step A, then B, then C, and
// records the outcome in both the persistent store and port_lid_tbl.
func (r *Resolver) Resolve(ctx context.Context, port *topology.Port, node *topology.Node) (Outcome, error) {
	mask := lid.AlignMask(r.LMC)
	n := port.NeedsLIDs(node, r.LMC)

	if rng, ok := r.Store.Get(uint64(port.GUID)); ok && lid.Valid(rng.Min, n, mask, r.MaxUnicastLID) {
		return r.commit(ctx, port, rng, StepPersistent)
	}

	if port.CurrentBaseLID != lid.Invalid && lid.Valid(port.CurrentBaseLID, n, mask, r.MaxUnicastLID) {
		advertised := lid.Range{Min: port.CurrentBaseLID, Max: port.CurrentBaseLID + lid.LID(n) - 1}
		// §9: the range this port already occupies in used_lids must be
		// cleared before it is re-evaluated here, or Step B would always
		// see its own LIDs as "in use" and never confirm them.
		r.Used.ClearRange(advertised)
		r.Table.ClearRangeIfOwnedBy(advertised, port)
		if !r.rangeConflicts(advertised, port) {
			return r.commit(ctx, port, advertised, StepKeepAdvertised)
		}
	}

	selected, ok := r.Free.Take(n, mask)
	if !ok {
		exhausted := fault.FaultLIDSpaceExhausted(uint64(port.GUID), uint16(r.MaxUnicastLID))
		if r.OnExhausted != nil {
			r.OnExhausted(port)
			return Outcome{}, exhausted
		}
		return Outcome{}, errors.WithMessagef(exhausted, "guid 0x%016x needs %d lid(s)", uint64(port.GUID), n)
	}
	return r.commit(ctx, port, selected, StepFreshAllocation)
}

// rangeConflicts reports whether any LID in rng is already claimed by a
// different port, which can happen if two ports both advertise
// overlapping stale LIDs.
func (r *Resolver) rangeConflicts(rng lid.Range, self *topology.Port) bool {
	for l := rng.Min; l <= rng.Max; l++ {
		if p, ok := r.Table.Get(l); ok && p != self {
			return true
		}
		if l == ^lid.LID(0) {
			break
		}
	}
	return false
}

func (r *Resolver) commit(ctx context.Context, port *topology.Port, rng lid.Range, step Step) (Outcome, error) {
	prior := lid.Range{Min: port.CurrentBaseLID, Max: port.CurrentBaseLID}
	reassigned := port.CurrentBaseLID == lid.Invalid || prior.Min != rng.Min

	r.Used.MarkRange(rng)
	r.Table.SetRange(rng, port)
	if step != StepFreshAllocation {
		// Take already removed a StepFreshAllocation range from the free
		// list; Step A/B hand out a range the free list may still think
		// is available, so exclude it explicitly.
		r.Free.Exclude(rng)
	}
	if err := r.Store.Set(uint64(port.GUID), rng); err != nil {
		return Outcome{}, errors.Wrapf(err, "persist guid2lid entry for guid 0x%016x", uint64(port.GUID))
	}

	if r.Log != nil {
		r.Log.Debugf("resolver: guid 0x%016x -> lid range [%#x:%#x] via %s", uint64(port.GUID), rng.Min, rng.Max, step)
	}

	return Outcome{Port: port, Assigned: rng, Step: step, Reassigned: reassigned}, nil
}
