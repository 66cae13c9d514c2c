// Package transport defines how the LID Manager delivers a PortInfo Set
// to a physical port (spec §4.4, "send_set"). The real delivery path —
// SMP over the fabric — is an external collaborator; this package models
// the boundary as a Go interface plus two implementations: grpctransport
// for an out-of-process subnet agent, and localtransport for tests and
// single-process deployments.
package transport

import "context"

// SetRequest is one PortInfo Set, addressed by node/port GUID and
// physical port number, carrying the 64-byte wire payload portcfg built.
type SetRequest struct {
	NodeGUID    uint64
	PortGUID    uint64
	PortNum     uint32
	Payload     []byte
	RequestID   string
	ScheduleLinkDown bool
}

// SetResult carries the responding agent's view of the port after the
// Set was applied, re-encoded the same way SetRequest.Payload was, so
// the caller can use it as next sweep's "old" PortInfo.
type SetResult struct {
	Payload []byte
}

// PortInfoSetter is the boundary the resolver/orchestrator code against;
// it never depends on grpc or any other concrete transport directly.
type PortInfoSetter interface {
	SetPortInfo(ctx context.Context, req SetRequest) (*SetResult, error)
}

// Reason classifies a Failure for transports that can surface structured
// error detail (grpctransport attaches it as an errdetails.ErrorInfo
// reason).
type Reason string

const (
	ReasonUnknown      Reason = "UNKNOWN"
	ReasonBadPayload   Reason = "BAD_PAYLOAD"
	ReasonPortRejected Reason = "PORT_REJECTED"
)

// Failure wraps a transport-level error with a Reason a caller can
// branch on without parsing strings.
type Failure struct {
	Reason Reason
	Err    error
}

func NewFailure(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

func (f *Failure) Error() string { return f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }
