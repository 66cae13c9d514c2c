package grpctransport

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ib-subnet/lidmgr/transport"
)

type fakeSetter struct {
	fn func(ctx context.Context, req transport.SetRequest) (*transport.SetResult, error)
}

func (f *fakeSetter) SetPortInfo(ctx context.Context, req transport.SetRequest) (*transport.SetResult, error) {
	return f.fn(ctx, req)
}

func TestServer_SetPortInfo_HappyPath(t *testing.T) {
	setter := &fakeSetter{fn: func(ctx context.Context, req transport.SetRequest) (*transport.SetResult, error) {
		return &transport.SetResult{Payload: append([]byte{0xAA}, req.Payload...)}, nil
	}}
	s := &Server{Setter: setter}

	in := wrapperspb.Bytes(encodeRequest(transport.SetRequest{NodeGUID: 1, Payload: []byte{1, 2}}))
	out, err := s.setPortInfo(context.Background(), in)
	if err != nil {
		t.Fatalf("setPortInfo: %v", err)
	}
	if len(out.GetValue()) != 3 || out.GetValue()[0] != 0xAA {
		t.Fatalf("unexpected response payload: %v", out.GetValue())
	}
}

func TestServer_SetPortInfo_BadPayload(t *testing.T) {
	s := &Server{Setter: &fakeSetter{}}
	_, err := s.setPortInfo(context.Background(), wrapperspb.Bytes([]byte{1, 2}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for an undersized payload, got %v", err)
	}
}

func TestServer_SetPortInfo_TranslatesFailureReason(t *testing.T) {
	setter := &fakeSetter{fn: func(ctx context.Context, req transport.SetRequest) (*transport.SetResult, error) {
		return nil, transport.NewFailure(transport.ReasonPortRejected, errRejected)
	}}
	s := &Server{Setter: setter}

	in := wrapperspb.Bytes(encodeRequest(transport.SetRequest{}))
	_, err := s.setPortInfo(context.Background(), in)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
}

var errRejected = &simpleErr{"port refused the set"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
