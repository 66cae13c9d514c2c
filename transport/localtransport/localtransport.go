// Package localtransport is an in-process transport.PortInfoSetter: it
// just echoes the payload back, optionally through a caller-supplied
// Apply hook that simulates how a real port would react (e.g. honoring
// the new base_lid, or ignoring a malformed Set). Used by orchestrator
// tests and any single-process deployment that skips the network
// boundary entirely.
package localtransport

import (
	"context"
	"sync"

	"github.com/ib-subnet/lidmgr/transport"
)

// Apply simulates a port's response to a Set. The default (nil Apply)
// just accepts the payload verbatim.
type Apply func(req transport.SetRequest) ([]byte, error)

// Transport is a transport.PortInfoSetter.
type Transport struct {
	mu    sync.Mutex
	apply Apply
	calls []transport.SetRequest
}

// New returns a Transport using apply to simulate port behavior, or
// pass-through semantics if apply is nil.
func New(apply Apply) *Transport {
	return &Transport{apply: apply}
}

func (t *Transport) SetPortInfo(_ context.Context, req transport.SetRequest) (*transport.SetResult, error) {
	t.mu.Lock()
	t.calls = append(t.calls, req)
	t.mu.Unlock()

	if t.apply == nil {
		return &transport.SetResult{Payload: req.Payload}, nil
	}
	payload, err := t.apply(req)
	if err != nil {
		return nil, err
	}
	return &transport.SetResult{Payload: payload}, nil
}

// Calls returns every SetPortInfo request received so far, in order.
func (t *Transport) Calls() []transport.SetRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]transport.SetRequest, len(t.calls))
	copy(out, t.calls)
	return out
}
