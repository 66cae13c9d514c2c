// Package orchestrator wires the sweep initializer, resolver, port
// configurator, transport, metrics, and event bus into the two
// operations the surrounding subnet manager drives every sweep:
// ProcessSM (resolve and configure the local SM's own port first, since
// its LID must be known before anything else can be addressed to it)
// and ProcessSubnet (resolve and configure every other port), mirroring
// osm_lid_mgr_process_sm / osm_lid_mgr_process_subnet.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/config"
	"github.com/ib-subnet/lidmgr/events"
	"github.com/ib-subnet/lidmgr/guid2lid"
	"github.com/ib-subnet/lidmgr/lid"
	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/metrics"
	"github.com/ib-subnet/lidmgr/portcfg"
	"github.com/ib-subnet/lidmgr/resolver"
	"github.com/ib-subnet/lidmgr/sweep"
	"github.com/ib-subnet/lidmgr/topology"
	"github.com/ib-subnet/lidmgr/transport"
)

// Signal reports whether a sweep operation needs the caller to wait for
// outstanding PortInfo Set responses before declaring the sweep settled,
// mirroring osm_signal_t.
type Signal int

const (
	SignalDone Signal = iota
	SignalDonePending
)

// SweepParams carries the ambient, subnet-owned flags that shape one
// sweep (spec §6, §9); the caller (outside the manager's scope) tracks
// their lifecycle across sweeps.
type SweepParams struct {
	FirstTimeMasterSweep bool
	ComingOutOfStandby   bool
}

// Manager owns the cross-port state built each sweep and the
// collaborators the LID Manager treats as external (spec §1): discovery
// (Ports), the persistent database (Store), and PortInfo delivery
// (Transport).
type Manager struct {
	Log       logging.Logger
	Ports     topology.PortSet
	Store     guid2lid.Store
	Table     *sweep.PortLIDTable
	Transport transport.PortInfoSetter
	Metrics   *metrics.Collector
	Events    *events.PubSub
	Options   *config.Options

	MaxUnicastLID lid.LID
	SMPortGUID    uint64

	mu              sync.Mutex
	used            *lid.UsedLIDs
	free            *lid.FreeRanges
	masterSMBaseLID lid.LID
	sendSetReqs     bool
}

// ProcessSM initializes the sweep (rebuilding the free-range list) and
// resolves and configures the local SM's own port. Its LID becomes
// master_sm_base_lid for every other port's PortInfo this sweep.
func (m *Manager) ProcessSM(ctx context.Context, params SweepParams) (Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	res, err := sweep.Init(ctx, sweep.Request{
		Log: m.Log, Ports: m.Ports, Store: m.Store, Table: m.Table,
		LMC: m.Options.LMC, MaxUnicastLID: m.MaxUnicastLID,
		FirstTimeMasterSweep: params.FirstTimeMasterSweep,
		ReassignLIDs:         m.Options.ReassignLIDs,
		ComingOutOfStandby:   params.ComingOutOfStandby,
		HonorGUID2LIDFile:    m.Options.HonorGUID2LIDFile,
	})
	if err != nil {
		return SignalDone, errors.Wrap(err, "initialize sweep")
	}
	m.used, m.free = res.Used, res.Free
	m.sendSetReqs = false

	port, ok := m.Ports.PortByGUID(topology.GUID(m.SMPortGUID))
	if !ok {
		if m.Log != nil {
			m.Log.Errorf("orchestrator: cannot acquire SM's own port object, guid 0x%016x", m.SMPortGUID)
		}
		return SignalDone, errors.Errorf("sm port guid 0x%016x not found in discovery", m.SMPortGUID)
	}

	sent, err := m.resolveAndConfigure(ctx, port, params, port.PhysPortNum)
	if err != nil {
		return SignalDone, err
	}
	if sent {
		m.sendSetReqs = true
	}

	if m.Metrics != nil {
		m.Metrics.SetLIDOccupancy(freeCount(m.free), usedCount(m.used))
		m.Metrics.ObserveSweepDuration("sm", time.Since(start))
	}

	if !m.sendSetReqs {
		return SignalDone, nil
	}
	return SignalDonePending, nil
}

// ProcessSubnet resolves and configures every port except the SM's own
// (already handled by ProcessSM in the same sweep), then flushes the
// persistent store.
func (m *Manager) ProcessSubnet(ctx context.Context, params SweepParams) (Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	m.sendSetReqs = false

	ports := m.Ports.Ports()
	seen, moved := 0, 0
	for _, port := range ports {
		if uint64(port.GUID) == m.SMPortGUID {
			continue
		}
		seen++
		sent, err := m.resolveAndConfigure(ctx, port, params, port.PhysPortNum)
		if err != nil {
			return SignalDone, err
		}
		if sent {
			m.sendSetReqs = true
			moved++
		}
	}

	if err := m.Store.Store(ctx); err != nil {
		return SignalDone, errors.Wrap(err, "flush guid2lid database")
	}

	if m.Events != nil {
		m.Events.Publish(&events.SweepDone{Kind: "subnet", PortsSeen: seen, PortsMoved: moved})
	}
	if m.Metrics != nil {
		m.Metrics.SetLIDOccupancy(freeCount(m.free), usedCount(m.used))
		m.Metrics.ObserveSweepDuration("subnet", time.Since(start))
	}
	if m.Log != nil {
		m.Log.Infof("sweep complete: %s free lids remaining, %s ports seen, took %s",
			humanize.Comma(int64(freeCount(m.free))), humanize.Comma(int64(seen)), time.Since(start))
	}

	if !m.sendSetReqs {
		return SignalDone, nil
	}
	return SignalDonePending, nil
}

// resolveAndConfigure resolves port's LID, builds its next PortInfo, and
// ships a Set if warranted. It reports whether a Set was sent.
func (m *Manager) resolveAndConfigure(ctx context.Context, port *topology.Port, params SweepParams, portNum int) (bool, error) {
	node, _ := m.Ports.Node(port.NodeGUID)

	r := &resolver.Resolver{
		Log: m.Log, Store: m.Store, Table: m.Table,
		Used: m.used, Free: m.free,
		LMC: m.Options.LMC, MaxUnicastLID: m.MaxUnicastLID,
		OnExhausted: func(p *topology.Port) {
			if m.Metrics != nil {
				m.Metrics.IncLIDsExhausted()
			}
			if m.Log != nil {
				m.Log.Errorf("orchestrator: lid space exhausted resolving guid 0x%016x", uint64(p.GUID))
			}
		},
	}
	outcome, err := r.Resolve(ctx, port, node)
	if err != nil {
		return false, err
	}

	if outcome.Step == resolver.StepFreshAllocation || outcome.Reassigned {
		if m.Events != nil {
			m.Events.Publish(&events.LIDAssigned{
				GUID: uint64(port.GUID), MinLID: uint16(outcome.Assigned.Min),
				MaxLID: uint16(outcome.Assigned.Max), ViaStep: outcome.Step.String(),
			})
		}
	}

	isSwitch := node != nil && node.IsSwitch()
	enhancedSP0 := node != nil && node.EnhancedSP0

	// The SM's own port must finalize master_sm_base_lid before its own
	// outgoing PortInfo is built, or the PortInfo it sends out this sweep
	// would still carry the previous sweep's value (osm_lid_mgr.c
	// __osm_lid_mgr_process_our_sm_node).
	if uint64(port.GUID) == m.SMPortGUID {
		m.masterSMBaseLID = outcome.Assigned.Min
	}

	plan := portcfg.Build(portcfg.Request{
		Old: portcfg.PortInfo{}, // always the zero PortInfo: the manager takes no input for a port's last reported PortInfo, so Build sees PortState 0 and sends a Set every sweep
		Options: portcfg.Options{
			MKey: m.Options.MKey, SubnetPrefix: m.Options.SubnetPrefix,
			MKeyLeasePeriod: m.Options.MKeyLeasePeriod, SubnetTimeout: m.Options.SubnetTimeout,
			LMC: m.Options.LMC,
			LocalPHYErrorsThreshold: m.Options.LocalPHYErrorsThreshold,
			OverrunErrorsThreshold:  m.Options.OverrunErrorsThreshold,
			NoClientsRereg:          m.Options.NoClientsRereg,
		},
		AssignedLID: uint16(outcome.Assigned.Min), MasterSMBaseLID: uint16(m.masterSMBaseLID),
		PortNum: portNum, IsSwitch: isSwitch, EnhancedSP0: enhancedSP0,
		IsNew: port.IsNew, FirstTimeMasterSweep: params.FirstTimeMasterSweep,
	})

	if !plan.SendSet {
		return false, nil
	}

	payload := portcfg.EncodeWire(plan.Next)
	_, err = m.Transport.SetPortInfo(ctx, transport.SetRequest{
		NodeGUID: uint64(port.NodeGUID), PortGUID: uint64(port.GUID),
		PortNum: uint32(portNum), Payload: payload[:], ScheduleLinkDown: plan.ScheduleDown,
	})
	setOutcome := "ok"
	if err != nil {
		setOutcome = "error"
	}
	if m.Metrics != nil {
		m.Metrics.ObservePortInfoSet(outcome.Step.String(), setOutcome)
	}
	if err != nil {
		return false, errors.Wrapf(err, "set portinfo for guid 0x%016x", uint64(port.GUID))
	}
	return true, nil
}

func freeCount(f *lid.FreeRanges) int {
	n := 0
	for _, r := range f.Ranges() {
		n += r.Len()
	}
	return n
}

func usedCount(u *lid.UsedLIDs) int {
	n := 0
	for l := 0; l < u.Len(); l++ {
		if u.IsUsed(lid.LID(l)) {
			n++
		}
	}
	return n
}
