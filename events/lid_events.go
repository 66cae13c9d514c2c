package events

import "fmt"

// LIDAssigned announces guid's LID range after the resolver either
// allocated it fresh (Step C) or settled on a base LID different from
// the one the port advertised, including a port that advertised none.
type LIDAssigned struct {
	GUID     uint64
	MinLID   uint16
	MaxLID   uint16
	ViaStep  string
}

func (e *LIDAssigned) Topic() Topic { return TopicLIDAssigned }

func (e *LIDAssigned) String() string {
	return fmt.Sprintf("guid 0x%016x assigned lid range [%#x:%#x] via %s", e.GUID, e.MinLID, e.MaxLID, e.ViaStep)
}

// LIDReassigned announces that guid's base LID moved from one range to
// another within the same sweep.
type LIDReassigned struct {
	GUID       uint64
	FromMinLID uint16
	FromMaxLID uint16
	ToMinLID   uint16
	ToMaxLID   uint16
}

func (e *LIDReassigned) Topic() Topic { return TopicLIDReassigned }

func (e *LIDReassigned) String() string {
	return fmt.Sprintf("guid 0x%016x lid range [%#x:%#x] -> [%#x:%#x]",
		e.GUID, e.FromMinLID, e.FromMaxLID, e.ToMinLID, e.ToMaxLID)
}

// SweepDone announces the completion of one sweep pass.
type SweepDone struct {
	Kind       string // "sm" or "subnet"
	PortsSeen  int
	PortsMoved int
}

func (e *SweepDone) Topic() Topic { return TopicSweepDone }

func (e *SweepDone) String() string {
	return fmt.Sprintf("%s sweep done: %d ports seen, %d moved", e.Kind, e.PortsSeen, e.PortsMoved)
}
