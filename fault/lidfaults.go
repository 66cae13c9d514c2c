package fault

import (
	"fmt"

	"github.com/ib-subnet/lidmgr/fault/code"
)

// FaultLIDSpaceExhausted creates a Fault for the case where the free
// range list has nothing left to offer a port needing a fresh
// allocation (spec §9's LID exhaustion edge case).
func FaultLIDSpaceExhausted(guid uint64, maxUnicastLID uint16) *Fault {
	return lidFault(
		code.LIDSpaceExhausted,
		fmt.Sprintf("no free lid range available for guid 0x%016x (max unicast lid %d)", guid, maxUnicastLID),
		"grow the unicast lid range, free reserved guid2lid entries, or increase lmc",
	)
}

// FaultPersistentRangeConflict creates a Fault for the case where a
// persistent guid2lid entry's range overlaps a range already committed
// to another port this sweep.
func FaultPersistentRangeConflict(guid uint64, min, max uint16) *Fault {
	return lidFault(
		code.LIDPersistentRangeConflict,
		fmt.Sprintf("persistent lid range [%d,%d] for guid 0x%016x conflicts with another port's assignment this sweep", min, max, guid),
		"clear the conflicting guid2lid entry and allow reassignment",
	)
}

// FaultInvalidLMC creates a Fault for an LMC value outside the legal
// 0-7 range (spec §6).
func FaultInvalidLMC(lmc uint8) *Fault {
	return lidFault(
		code.LIDInvalidLMC,
		fmt.Sprintf("lmc value %d is out of the legal 0-7 range", lmc),
		"set lmc to a value between 0 and 7 inclusive",
	)
}

// FaultPortCfgSetRejected creates a Fault for a PortInfo Set a remote
// agent explicitly rejected.
func FaultPortCfgSetRejected(guid uint64, portNum uint32, reason string) *Fault {
	return &Fault{
		Domain:      "portcfg",
		Code:        code.PortCfgSetRejected,
		Description: fmt.Sprintf("portinfo set rejected for guid 0x%016x port %d: %s", guid, portNum, reason),
		Resolution:  ResolutionUnknown,
	}
}

// FaultStoreOpenFailed creates a Fault for a guid2lid database that
// failed to open, e.g. due to a corrupt file or a permissions problem.
func FaultStoreOpenFailed(path string, cause error) *Fault {
	return &Fault{
		Domain:      "guid2lid",
		Code:        code.StoreOpenFailed,
		Description: fmt.Sprintf("failed to open guid2lid database at %q: %s", path, cause),
		Resolution:  "check the guid2lid_path option and file permissions",
	}
}

// FaultNoMasterElected creates a Fault for a sweep request reaching a
// process that has never seen a raft leader elected.
func FaultNoMasterElected() *Fault {
	return &Fault{
		Domain:      "smrole",
		Code:        code.RoleNoMasterElected,
		Description: "no master has been elected for this subnet manager group",
		Resolution:  "wait for raft leader election to complete, or check peer connectivity",
	}
}

func lidFault(c code.Code, desc, res string) *Fault {
	return &Fault{
		Domain:      "lid",
		Code:        c,
		Description: desc,
		Resolution:  Resolution(res),
	}
}
