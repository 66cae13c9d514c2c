package grpctransport

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ib-subnet/lidmgr/logging"
	"github.com/ib-subnet/lidmgr/transport"
)

// Server adapts a transport.PortInfoSetter to the gRPC service
// registered by RegisterServer.
type Server struct {
	Setter transport.PortInfoSetter
	Log    logging.Logger
}

// RegisterServer registers srv against s under this package's
// hand-built ServiceDesc.
func RegisterServer(s grpc.ServiceRegistrar, srv *Server) {
	s.RegisterService(&serviceDesc, srv)
}

func (s *Server) setPortInfo(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	req, err := decodeRequest(in.GetValue())
	if err != nil {
		return nil, badRequestStatus(err)
	}

	res, err := s.Setter.SetPortInfo(ctx, req)
	if err != nil {
		if s.Log != nil {
			s.Log.Errorf("grpctransport: SetPortInfo guid 0x%016x port %d failed: %v", req.PortGUID, req.PortNum, err)
		}
		return nil, translateError(err)
	}
	return wrapperspb.Bytes(res.Payload), nil
}

func badRequestStatus(err error) error {
	st := status.New(codes.InvalidArgument, err.Error())
	st, attachErr := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: "payload", Description: err.Error()},
		},
	})
	if attachErr != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return st.Err()
}

func translateError(err error) error {
	reason := transport.ReasonUnknown
	code := codes.Internal
	var f *transport.Failure
	if errors.As(err, &f) {
		reason = f.Reason
		switch f.Reason {
		case transport.ReasonBadPayload:
			code = codes.InvalidArgument
		case transport.ReasonPortRejected:
			code = codes.FailedPrecondition
		}
	}

	st := status.New(code, err.Error())
	st, attachErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(reason),
		Domain: "lidmgr",
	})
	if attachErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}
