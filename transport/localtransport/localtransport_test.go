package localtransport

import (
	"context"
	"testing"

	"github.com/ib-subnet/lidmgr/transport"
)

func TestTransport_PassThrough(t *testing.T) {
	tr := New(nil)
	res, err := tr.SetPortInfo(context.Background(), transport.SetRequest{
		NodeGUID: 1, PortGUID: 2, PortNum: 0, Payload: []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("SetPortInfo: %v", err)
	}
	if string(res.Payload) != "\x01\x02\x03" {
		t.Fatalf("expected pass-through payload, got %v", res.Payload)
	}
	if len(tr.Calls()) != 1 {
		t.Fatal("expected exactly one recorded call")
	}
}

func TestTransport_CustomApply(t *testing.T) {
	tr := New(func(req transport.SetRequest) ([]byte, error) {
		return append([]byte{0xFF}, req.Payload...), nil
	})
	res, err := tr.SetPortInfo(context.Background(), transport.SetRequest{Payload: []byte{1}})
	if err != nil {
		t.Fatalf("SetPortInfo: %v", err)
	}
	if len(res.Payload) != 2 || res.Payload[0] != 0xFF {
		t.Fatalf("expected apply hook output, got %v", res.Payload)
	}
}
