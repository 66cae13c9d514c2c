package grpctransport

import (
	"testing"

	"github.com/ib-subnet/lidmgr/transport"
)

func TestCodec_RoundTrip(t *testing.T) {
	req := transport.SetRequest{
		NodeGUID: 0x1, PortGUID: 0x2, PortNum: 3,
		RequestID: "req-1", ScheduleLinkDown: true,
		Payload: []byte{1, 2, 3, 4},
	}
	got, err := decodeRequest(encodeRequest(req))
	if err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}
	if got.NodeGUID != req.NodeGUID || got.PortGUID != req.PortGUID ||
		got.PortNum != req.PortNum || got.RequestID != req.RequestID ||
		got.ScheduleLinkDown != req.ScheduleLinkDown || string(got.Payload) != string(req.Payload) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestCodec_RejectsShortBuffer(t *testing.T) {
	if _, err := decodeRequest([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error decoding a too-short buffer")
	}
}
