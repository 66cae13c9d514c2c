// Package portcfg implements the Port Configurator (spec §4.4): it builds
// the PortInfo attribute value each resolved port should carry and
// decides, via an explicit field-by-field diff against what that port
// last reported, whether a PortInfo Set actually needs to go out this
// sweep.
package portcfg

// PortState mirrors the IBA PortInfo PortState field's values relevant
// here: the manager only ever writes NoChange or Down, never Init/Armed/
// Active, which are driven by the link state machine.
type PortState uint8

const (
	PortStateNoChange PortState = 2
	PortStateDown     PortState = 1
)

// PortPhysicalState and LinkDownDefState share a single wire byte
// (state_info2): the manager must never write a PortPhysicalState bigger
// than 3 by blindly echoing back whatever the port last reported, so
// Build always forces PortPhysicalStateNoChange here and
// LinkDownDefStatePolling below, regardless of what the port advertised.
const (
	PortPhysicalStateNoChange uint8 = 0
	LinkDownDefStatePolling   uint8 = 2
)

// CapHasClientRereg is the PortInfo CapabilityMask bit advertising
// ClientReregistration support (IBA v1.2 §14.4.11).
const CapHasClientRereg uint32 = 1 << 25

// PortInfo is the subset of the IBA PortInfo attribute the LID Manager
// reads or writes. Fields the manager never touches (e.g. link speed
// negotiation results it only observes) are modeled as plain inputs
// where needed and otherwise omitted.
type PortInfo struct {
	MKey              uint64
	SubnetPrefix      uint64
	BaseLID           uint16
	MasterSMBaseLID   uint16
	MKeyLeasePeriod   uint16
	Timeout           uint8 // SMP response timeout, encoded per IBA 14.2.2.1
	PortState         PortState
	PortPhysicalState uint8
	LinkDownDefState  uint8
	LinkWidthEnabled  uint8
	MKeyLMC           uint8
	NeighborMTU       uint8
	OpVLs             uint8
	LocalPHYErrThresh uint8
	OverrunErrThresh  uint8
	ClientReregister  bool

	// CapabilityMask and LinkWidthSupported are read-only inputs taken
	// from the port's last reported PortInfo; the manager never writes
	// them.
	CapabilityMask     uint32
	LinkWidthSupported uint8
	// MTUCap is port 0's own MTU capability; a port 0's NeighborMTU is
	// set from this rather than from link negotiation.
	MTUCap uint8
}

// Diff reports every field that differs between old and next, in a
// fixed, deterministic order. An empty result means no PortInfo Set is
// needed on field-change grounds alone (first_time_master_sweep and
// "never got PortInfo before" are handled separately by Build).
func Diff(old, next PortInfo) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}

	add("LinkDownDefState", next.LinkDownDefState != old.LinkDownDefState)
	add("PortPhysicalState", next.PortPhysicalState != old.PortPhysicalState)
	add("MKey", next.MKey != old.MKey)
	add("SubnetPrefix", next.SubnetPrefix != old.SubnetPrefix)
	add("BaseLID", next.BaseLID != old.BaseLID)
	add("MasterSMBaseLID", next.MasterSMBaseLID != old.MasterSMBaseLID)
	add("MKeyLeasePeriod", next.MKeyLeasePeriod != old.MKeyLeasePeriod)
	add("Timeout", next.Timeout != old.Timeout)
	add("LinkWidthEnabled", next.LinkWidthEnabled != old.LinkWidthEnabled)
	add("MKeyLMC", next.MKeyLMC != old.MKeyLMC)
	add("NeighborMTU", next.NeighborMTU != old.NeighborMTU)
	add("OpVLs", next.OpVLs != old.OpVLs)
	add("LocalPHYErrThresh", next.LocalPHYErrThresh != old.LocalPHYErrThresh)
	add("OverrunErrThresh", next.OverrunErrThresh != old.OverrunErrThresh)
	add("PortState", next.PortState != old.PortState)
	add("ClientReregister", next.ClientReregister != old.ClientReregister)

	return changed
}
