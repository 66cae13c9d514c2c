package sweep

import (
	"context"
	"testing"

	"github.com/ib-subnet/lidmgr/guid2lid/memstore"
	"github.com/ib-subnet/lidmgr/internal/lidtest"
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/topology"
)

func newArena() *topology.Arena {
	a := topology.NewArena()
	a.AddNode(&topology.Node{GUID: 0x1, Kind: topology.NodeKindCA})
	a.AddNode(&topology.Node{GUID: 0x2, Kind: topology.NodeKindCA})
	return a
}

func TestInit_DiscoveredPortsWinOccupancy(t *testing.T) {
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	a := newArena()

	a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1, CurrentBaseLID: 10})

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 0, MaxUnicastLID: 0x00FF,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !res.Used.IsUsed(10) {
		t.Error("discovered port's current lid should be marked used")
	}
	if p, ok := tbl.Get(10); !ok || p.GUID != 0x1 {
		t.Error("port_lid_tbl should record the discovered port at lid 10")
	}
	for _, r := range res.Free.Ranges() {
		if r.Contains(10) {
			t.Error("lid 10 must not appear as free")
		}
	}
}

func TestInit_FreeRangesFillGaps(t *testing.T) {
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	a := newArena()
	a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1, CurrentBaseLID: 2})

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 0, MaxUnicastLID: 4,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := map[lid.LID]bool{1: true, 3: true}
	got := make(map[lid.LID]bool)
	for _, r := range res.Free.Ranges() {
		for l := r.Min; l <= r.Max; l++ {
			got[l] = true
		}
	}
	for l := range want {
		if !got[l] {
			t.Errorf("expected lid %d to be free, free ranges = %+v", l, res.Free.Ranges())
		}
	}
	if got[2] {
		t.Error("lid 2 is occupied and must not be free")
	}
	if got[4] {
		t.Error("max_unicast_lid itself must never be handed out as free")
	}
}

func TestInit_ReassignLIDsShortcut(t *testing.T) {
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	store.Set(0x1, lid.Range{Min: 4, Max: 4})
	a := newArena()

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 0, MaxUnicastLID: 10,
		FirstTimeMasterSweep: true,
		ReassignLIDs:         true,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if store.Len() != 0 {
		t.Error("reassign_lids shortcut should clear the persistent database")
	}
	if res.Used.IsUsed(4) {
		t.Error("reassign_lids shortcut should mark nothing used")
	}
	ranges := res.Free.Ranges()
	if len(ranges) != 1 || ranges[0] != (lid.Range{Min: 1, Max: 9}) {
		t.Fatalf("expected one free range [1,9], got %+v", ranges)
	}
}

func TestInit_FreeRangesFingerprintStableAcrossRerunsOfSameTopology(t *testing.T) {
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())

	runOnce := func(portLID lid.LID) uint64 {
		store := memstore.New()
		a := newArena()
		a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1, CurrentBaseLID: portLID})
		tbl := NewPortLIDTable()
		res, err := Init(ctx, Request{
			Log: log, Ports: a, Store: store, Table: tbl,
			LMC: 0, MaxUnicastLID: 8,
		})
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
		return lidtest.FreeRangesFingerprint(t, res.Free)
	}

	first := runOnce(3)
	second := runOnce(3)
	if first != second {
		t.Error("identical topology across two sweeps should produce an identical free-range fingerprint")
	}

	moved := runOnce(5)
	if first == moved {
		t.Error("a different occupied lid should produce a different free-range fingerprint")
	}
}

func TestInit_ComingOutOfStandbyReloadsStore(t *testing.T) {
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	store.Set(0x1, lid.Range{Min: 4, Max: 4})
	store.Store(ctx)
	// Mutate in-memory state past what was flushed to "disk".
	store.Set(0x2, lid.Range{Min: 5, Max: 5})

	a := newArena()
	tbl := NewPortLIDTable()
	_, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 0, MaxUnicastLID: 10,
		ComingOutOfStandby: true,
		HonorGUID2LIDFile:  true,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, ok := store.Get(0x2); ok {
		t.Error("coming out of standby with honor_guid2lid_file should reload from disk, discarding unflushed entries")
	}
	if _, ok := store.Get(0x1); !ok {
		t.Error("flushed entry should survive the reload")
	}
}

func TestInit_LMCIncreaseInvalidatesNarrowPersistentEntry(t *testing.T) {
	// Port 0x1 was recorded (4,4) back when LMC was 0. Now the subnet
	// runs at LMC=1, so this port needs two aligned lids; the old entry
	// is one lid wide and can't simply be reused, let alone trusted to
	// Step A in the resolver without reserving the second lid it's now
	// short of.
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	store.Set(0x1, lid.Range{Min: 4, Max: 4})
	a := newArena()
	a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1})

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 1, MaxUnicastLID: 16,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, ok := store.Get(0x1); ok {
		t.Error("narrower-than-needed persistent entry must be deleted when lmc increases")
	}
	if res.Used.IsUsed(4) {
		t.Error("lid 4 must be cleared, not left reserved, once its persistent entry is dropped")
	}
	foundFree := false
	for _, r := range res.Free.Ranges() {
		if r.Contains(4) {
			foundFree = true
		}
	}
	if !foundFree {
		t.Error("lid 4 should be handed back to the free list after invalidation")
	}
}

func TestInit_LMCIncreaseKeepsAlignedWideEnoughPersistentEntry(t *testing.T) {
	// A (8,9) entry is already two lids wide and 8 is aligned under
	// LMC=1 (mask 0xFFFE), so it survives unchanged.
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	store.Set(0x1, lid.Range{Min: 8, Max: 9})
	a := newArena()
	a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1})

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 1, MaxUnicastLID: 16,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, ok := store.Get(0x1); !ok {
		t.Error("aligned, wide-enough persistent entry should survive an lmc increase")
	}
	if !res.Used.IsUsed(8) || !res.Used.IsUsed(9) {
		t.Error("the surviving entry's lids should remain reserved")
	}
}

func TestInit_NPlusOneAllocationUnderNonzeroLMC(t *testing.T) {
	// End-to-end: LMC=1 means every port needs 2 aligned lids. A
	// discovered port at lid 8 should reserve [8,9]; a fresh port with
	// no persistent entry and no advertised lid should land on the next
	// 2-aligned free range once the resolver runs Step C, which this
	// test approximates by checking the free list shape sweep hands off.
	ctx := context.Background()
	log, _ := logging.NewTestLogger(t.Name())
	store := memstore.New()
	a := newArena()
	a.AddPort(&topology.Port{GUID: 0x1, NodeGUID: 0x1, CurrentBaseLID: 8})

	tbl := NewPortLIDTable()
	res, err := Init(ctx, Request{
		Log: log, Ports: a, Store: store, Table: tbl,
		LMC: 1, MaxUnicastLID: 16,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !res.Used.IsUsed(8) || !res.Used.IsUsed(9) {
		t.Error("discovered port at lid 8 under lmc=1 should reserve both lids [8,9]")
	}
	for _, r := range res.Free.Ranges() {
		if r.Contains(8) || r.Contains(9) {
			t.Error("lids 8 and 9 must not appear free")
		}
	}
	if p, ok := tbl.Get(8); !ok || p.GUID != 0x1 {
		t.Error("port_lid_tbl should record the discovered port's base lid")
	}
}
