package grpctransport

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ib-subnet/lidmgr/transport"
)

type fakeConn struct {
	gotMethod string
	gotArgs   proto.Message
}

func (c *fakeConn) Invoke(_ context.Context, method string, args, reply interface{}, _ ...grpc.CallOption) error {
	c.gotMethod = method
	c.gotArgs = args.(proto.Message)
	*reply.(*wrapperspb.BytesValue) = *wrapperspb.Bytes([]byte{9})
	return nil
}

func (c *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	panic("not used")
}

func TestClient_SetPortInfo_GeneratesRequestID(t *testing.T) {
	conn := &fakeConn{}
	cl := NewClient(conn)

	res, err := cl.SetPortInfo(context.Background(), transport.SetRequest{NodeGUID: 1, Payload: []byte{1}})
	if err != nil {
		t.Fatalf("SetPortInfo: %v", err)
	}
	if conn.gotMethod != "/"+serviceName+"/SetPortInfo" {
		t.Fatalf("unexpected method: %s", conn.gotMethod)
	}
	req, err := decodeRequest(conn.gotArgs.(*wrapperspb.BytesValue).GetValue())
	if err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}
	if req.RequestID == "" {
		t.Fatal("expected a generated request id")
	}
	if len(res.Payload) != 1 || res.Payload[0] != 9 {
		t.Fatalf("unexpected response payload: %v", res.Payload)
	}
}
