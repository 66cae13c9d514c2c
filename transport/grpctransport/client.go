package grpctransport

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ib-subnet/lidmgr/transport"
)

// Client is a transport.PortInfoSetter backed by a gRPC connection to a
// subnet agent process.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection. The caller owns cc's
// lifetime.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SetPortInfo(ctx context.Context, req transport.SetRequest) (*transport.SetResult, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	in := wrapperspb.Bytes(encodeRequest(req))
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SetPortInfo", in, out); err != nil {
		return nil, err
	}
	return &transport.SetResult{Payload: out.GetValue()}, nil
}
