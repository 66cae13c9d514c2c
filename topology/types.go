// Package topology supplies the minimal, read-only view of discovered
// subnet state that the LID Manager needs: ports, their owning nodes, and
// the physical-port accessors named in the design notes (get_lid_range,
// get_port_num, is_switch, is_sp0_lmc_capable). Subnet discovery itself —
// walking the fabric and building this structure — is an external
// collaborator and out of scope here (spec §1).
package topology

import "github.com/ib-subnet/lidmgr/lid"

// GUID is a 64-bit globally unique, hardware-stable port identifier.
type GUID uint64

// NodeKind distinguishes the node types the LID Manager cares about.
type NodeKind int

const (
	NodeKindCA NodeKind = iota
	NodeKindSwitch
	NodeKindRouter
)

// Node is the owning device of one or more ports. Cyclic port<->node
// references in the real topology graph are modeled here as an index
// through the Arena rather than as Go pointers, per the design notes.
type Node struct {
	GUID GUID
	Kind NodeKind
	// EnhancedSP0 reports whether this switch's port 0 is enhanced
	// LMC-capable (accepts N LIDs); a base SP0 always takes exactly one.
	EnhancedSP0 bool
}

func (n *Node) IsSwitch() bool {
	return n.Kind == NodeKindSwitch
}

// PhysPort is one physical port of a Node: its port number, link
// capabilities, and a reference to the physical port on the other end of
// the link (zero GUID/num if unconnected).
type PhysPort struct {
	NodeGUID           GUID
	PortNum            int
	LinkWidthSupported uint8
	LinkWidthEnabled   uint8
	MTUCap             uint8
	RemoteNodeGUID     GUID
	RemotePortNum      int
}

// Port is the logical entity the LID Manager assigns LIDs to: a GUID, the
// node it belongs to, the physical port it rides on, its currently
// observed base LID (0 if none was discovered), and whether discovery
// just saw it for the first time.
type Port struct {
	GUID           GUID
	NodeGUID       GUID
	PhysPortNum    int
	CurrentBaseLID lid.LID
	IsNew          bool
	// IsSwitchPort0 marks the management port (port 0) of a switch node.
	IsSwitchPort0 bool
}

// NeedsLIDs returns N, the number of LIDs this port requires under lmc:
// 1 for a base (non-enhanced) switch port 0, 2^lmc otherwise.
func (p *Port) NeedsLIDs(node *Node, lmc uint8) int {
	if p.IsSwitchPort0 && node != nil && node.IsSwitch() && !node.EnhancedSP0 {
		return 1
	}
	return lid.Count(lmc)
}

// Arena is an in-memory, GUID-keyed store of discovered nodes, physical
// ports, and logical ports — the "arena of nodes keyed by GUID with index
// references" called for in the design notes. It implements PortSet.
type Arena struct {
	nodes     map[GUID]*Node
	physPorts map[GUID]map[int]*PhysPort
	ports     []*Port
	byGUID    map[GUID]*Port
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{
		nodes:     make(map[GUID]*Node),
		physPorts: make(map[GUID]map[int]*PhysPort),
		byGUID:    make(map[GUID]*Port),
	}
}

// AddNode registers a node.
func (a *Arena) AddNode(n *Node) {
	a.nodes[n.GUID] = n
}

// Node returns the node for guid, if known.
func (a *Arena) Node(guid GUID) (*Node, bool) {
	n, ok := a.nodes[guid]
	return n, ok
}

// AddPhysPort registers a physical port under its owning node's GUID.
func (a *Arena) AddPhysPort(p *PhysPort) {
	m, ok := a.physPorts[p.NodeGUID]
	if !ok {
		m = make(map[int]*PhysPort)
		a.physPorts[p.NodeGUID] = m
	}
	m[p.PortNum] = p
}

// PhysPort returns the physical port portNum of node guid, if known.
func (a *Arena) PhysPort(guid GUID, portNum int) (*PhysPort, bool) {
	m, ok := a.physPorts[guid]
	if !ok {
		return nil, false
	}
	p, ok := m[portNum]
	return p, ok
}

// RemotePhysPort returns the physical port on the far end of p's link.
func (a *Arena) RemotePhysPort(p *PhysPort) (*PhysPort, bool) {
	if p.RemoteNodeGUID == 0 {
		return nil, false
	}
	return a.PhysPort(p.RemoteNodeGUID, p.RemotePortNum)
}

// AddPort registers a discovered logical port in discovery order.
func (a *Arena) AddPort(p *Port) {
	a.ports = append(a.ports, p)
	a.byGUID[p.GUID] = p
}

// Ports returns every discovered port in discovery order.
func (a *Arena) Ports() []*Port {
	return a.ports
}

// PortByGUID looks up a discovered port by GUID.
func (a *Arena) PortByGUID(guid GUID) (*Port, bool) {
	p, ok := a.byGUID[guid]
	return p, ok
}

// PortSet is the read-only view of discovery the sweep initializer and
// resolver consume.
type PortSet interface {
	Ports() []*Port
	Node(guid GUID) (*Node, bool)
	PortByGUID(guid GUID) (*Port, bool)
}
