package portcfg

// Options is the subset of manager-wide configuration Build consults
// (spec §6); it mirrors config.Options but is declared locally to avoid
// a dependency cycle between portcfg and config.
type Options struct {
	MKey                     uint64
	SubnetPrefix             uint64
	MKeyLeasePeriod          uint16
	SubnetTimeout            uint8
	LMC                      uint8
	LocalPHYErrorsThreshold  uint8
	OverrunErrorsThreshold   uint8
	NoClientsRereg           bool
}

// Request bundles one port's current state and the surrounding sweep
// context Build needs to produce its next PortInfo.
type Request struct {
	Old     PortInfo
	Options Options

	AssignedLID     uint16
	MasterSMBaseLID uint16

	// PortNum is the physical port number this PortInfo targets: 0 for a
	// switch's management port, nonzero for every other port (including
	// CAs, which have no port 0).
	PortNum int
	IsSwitch bool
	// EnhancedSP0 applies only when PortNum == 0 on a switch: an
	// enhanced switch port 0 is LMC-capable and gets mkey_lmc set like
	// any other port; a base switch port 0 does not.
	EnhancedSP0 bool

	IsNew                bool
	FirstTimeMasterSweep bool

	// NeighborMTU and OpVLs are the outcomes of link-width/MTU
	// negotiation, computed upstream by the link state machine; the
	// configurator only observes them to decide on a transient link
	// down and to fold them into the PortInfo it writes for port_num != 0.
	NeighborMTU uint8
	OpVLs       uint8
}

// Plan is the result of Build: the PortInfo to write, whether a Set is
// actually warranted, the list of fields that changed, and whether the
// link should be bounced through Down first.
type Plan struct {
	Next           PortInfo
	SendSet        bool
	Changed        []string
	ScheduleDown   bool
}

// Build computes the next PortInfo for one port and decides whether it
// needs writing out this sweep (spec §4.4).
func Build(req Request) Plan {
	old := req.Old
	next := old

	next.PortState = PortStateNoChange
	next.PortPhysicalState = PortPhysicalStateNoChange
	next.LinkDownDefState = LinkDownDefStatePolling
	next.MKey = req.Options.MKey
	next.SubnetPrefix = req.Options.SubnetPrefix
	next.BaseLID = req.AssignedLID
	next.MasterSMBaseLID = req.MasterSMBaseLID
	next.MKeyLeasePeriod = req.Options.MKeyLeasePeriod
	next.Timeout = req.Options.SubnetTimeout

	scheduleDown := false

	if req.PortNum != 0 {
		next.LinkWidthEnabled = old.LinkWidthSupported
		next.MKeyLMC = req.Options.LMC
		next.NeighborMTU = req.NeighborMTU
		next.OpVLs = req.OpVLs
		next.LocalPHYErrThresh = req.Options.LocalPHYErrorsThreshold
		next.OverrunErrThresh = req.Options.OverrunErrorsThreshold

		if req.NeighborMTU != old.NeighborMTU || req.OpVLs != old.OpVLs {
			// Bounce the link through Down so both ends renegotiate
			// cleanly under the new MTU/operational-VL count (IBA
			// §7.2.7).
			next.PortState = PortStateDown
			scheduleDown = true
		}
	} else {
		// Every port 0 takes its NeighborMTU from its own MTU
		// capability; only an enhanced switch port 0 also gets MKeyLMC.
		next.NeighborMTU = old.MTUCap
		if req.IsSwitch && req.EnhancedSP0 {
			next.MKeyLMC = req.Options.LMC
		}
	}

	next.ClientReregister = false
	if (req.FirstTimeMasterSweep || req.IsNew) &&
		!req.Options.NoClientsRereg &&
		old.CapabilityMask&CapHasClientRereg != 0 {
		next.ClientReregister = true
	}

	changed := Diff(old, next)
	sendSet := len(changed) > 0 || req.FirstTimeMasterSweep || old.PortState == 0

	return Plan{Next: next, SendSet: sendSet, Changed: changed, ScheduleDown: scheduleDown}
}
