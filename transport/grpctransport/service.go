// Package grpctransport implements transport.PortInfoSetter over gRPC
// without a .proto/protoc step: the wire message is
// google.golang.org/protobuf's wrapperspb.BytesValue, carrying a
// hand-packed payload (codec.go), and the service is registered through
// a manually built grpc.ServiceDesc exactly as generated code would.
package grpctransport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "lidmgr.transport.PortInfoTransport"

// rawServer is what the generated server-side interface would have
// looked like had this service gone through protoc.
type rawServer interface {
	setPortInfo(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

func setPortInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(rawServer).setPortInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/SetPortInfo",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(rawServer).setPortInfo(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*rawServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SetPortInfo", Handler: setPortInfoHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lidmgr/transport/grpctransport/service.go",
}
