package grpctransport

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ib-subnet/lidmgr/transport"
)

// encodeRequest packs a transport.SetRequest into the byte slice carried
// inside a wrapperspb.BytesValue, since a hand-rolled service skips
// protoc and has no generated message type of its own: 8B NodeGUID, 8B
// PortGUID, 4B PortNum, 1B ScheduleLinkDown, 2B len(RequestID), the
// RequestID bytes, then the PortInfo payload through the end.
func encodeRequest(req transport.SetRequest) []byte {
	idBytes := []byte(req.RequestID)
	b := make([]byte, 8+8+4+1+2+len(idBytes)+len(req.Payload))
	i := 0
	binary.BigEndian.PutUint64(b[i:], req.NodeGUID)
	i += 8
	binary.BigEndian.PutUint64(b[i:], req.PortGUID)
	i += 8
	binary.BigEndian.PutUint32(b[i:], req.PortNum)
	i += 4
	if req.ScheduleLinkDown {
		b[i] = 1
	}
	i++
	binary.BigEndian.PutUint16(b[i:], uint16(len(idBytes)))
	i += 2
	i += copy(b[i:], idBytes)
	copy(b[i:], req.Payload)
	return b
}

func decodeRequest(b []byte) (transport.SetRequest, error) {
	var req transport.SetRequest
	if len(b) < 23 {
		return req, errors.New("grpctransport: request shorter than fixed header")
	}
	i := 0
	req.NodeGUID = binary.BigEndian.Uint64(b[i:])
	i += 8
	req.PortGUID = binary.BigEndian.Uint64(b[i:])
	i += 8
	req.PortNum = binary.BigEndian.Uint32(b[i:])
	i += 4
	req.ScheduleLinkDown = b[i] != 0
	i++
	idLen := int(binary.BigEndian.Uint16(b[i:]))
	i += 2
	if len(b) < i+idLen {
		return req, errors.New("grpctransport: request_id length exceeds buffer")
	}
	req.RequestID = string(b[i : i+idLen])
	i += idLen
	req.Payload = append([]byte(nil), b[i:]...)
	return req, nil
}
