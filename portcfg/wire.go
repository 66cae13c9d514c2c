package portcfg

import "encoding/binary"

// WireSize is the size in bytes of the IBA PortInfo SMP attribute
// payload (IB_SMP_DATA_SIZE); the configurator always emits a
// fixed-size payload even though it only populates the fields it cares
// about, matching how the original implementation memcpy's a full
// zeroed struct onto the wire.
const WireSize = 64

// EncodeWire packs pi into its 64-byte SMP attribute payload. Offsets
// follow the IBA PortInfo layout for the fields this package models;
// binary/encoding is used here, not a third-party codec, because this
// payload targets a fixed hardware wire layout rather than a
// self-describing format (spec's own framing: PortInfo is an opaque
// external-collaborator wire type).
func EncodeWire(pi PortInfo) [WireSize]byte {
	var b [WireSize]byte
	binary.BigEndian.PutUint64(b[0:8], pi.MKey)
	binary.BigEndian.PutUint64(b[8:16], pi.SubnetPrefix)
	binary.BigEndian.PutUint16(b[16:18], pi.BaseLID)
	binary.BigEndian.PutUint16(b[18:20], pi.MasterSMBaseLID)
	binary.BigEndian.PutUint16(b[20:22], pi.MKeyLeasePeriod)
	b[22] = pi.Timeout
	b[23] = uint8(pi.PortState)
	// state_info2: upper nibble is PortPhysicalState, lower nibble is
	// LinkDownDefState, matching the IBA PortInfo wire layout.
	b[24] = (pi.PortPhysicalState<<4)&0xF0 | pi.LinkDownDefState&0x0F
	b[25] = pi.LinkWidthEnabled
	b[26] = pi.MKeyLMC
	b[27] = pi.NeighborMTU
	b[28] = pi.OpVLs
	b[29] = pi.LocalPHYErrThresh
	b[30] = pi.OverrunErrThresh
	if pi.ClientReregister {
		b[31] = 1
	}
	binary.BigEndian.PutUint32(b[32:36], pi.CapabilityMask)
	b[36] = pi.LinkWidthSupported
	b[37] = pi.MTUCap
	return b
}

// DecodeWire is EncodeWire's inverse, used to interpret what a port
// reported back after a Set (or an unsolicited report) as this package's
// PortInfo.
func DecodeWire(b []byte) PortInfo {
	var pi PortInfo
	if len(b) < WireSize {
		return pi
	}
	pi.MKey = binary.BigEndian.Uint64(b[0:8])
	pi.SubnetPrefix = binary.BigEndian.Uint64(b[8:16])
	pi.BaseLID = binary.BigEndian.Uint16(b[16:18])
	pi.MasterSMBaseLID = binary.BigEndian.Uint16(b[18:20])
	pi.MKeyLeasePeriod = binary.BigEndian.Uint16(b[20:22])
	pi.Timeout = b[22]
	pi.PortState = PortState(b[23])
	pi.PortPhysicalState = (b[24] >> 4) & 0x0F
	pi.LinkDownDefState = b[24] & 0x0F
	pi.LinkWidthEnabled = b[25]
	pi.MKeyLMC = b[26]
	pi.NeighborMTU = b[27]
	pi.OpVLs = b[28]
	pi.LocalPHYErrThresh = b[29]
	pi.OverrunErrThresh = b[30]
	pi.ClientReregister = b[31] != 0
	pi.CapabilityMask = binary.BigEndian.Uint32(b[32:36])
	pi.LinkWidthSupported = b[36]
	pi.MTUCap = b[37]
	return pi
}
