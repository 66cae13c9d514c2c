// Package events provides a small publish/subscribe bus used by the LID
// Manager to announce sweep and allocation outcomes to interested
// observers (routing, QoS, and multicast managers consume these without
// participating in allocation).
package events

import (
	"context"

	"github.com/ib-subnet/lidmgr/logging"
)

// Topic identifies the kind of event being published.
type Topic int

const (
	// TopicAny matches every event, regardless of topic.
	TopicAny Topic = iota
	// TopicLIDAssigned fires when a port is given a LID for the first time.
	TopicLIDAssigned
	// TopicLIDReassigned fires when a port's base LID moves.
	TopicLIDReassigned
	// TopicSweepDone fires once a sweep (SM or subnet) completes.
	TopicSweepDone
)

func (t Topic) String() string {
	switch t {
	case TopicLIDAssigned:
		return "lid-assigned"
	case TopicLIDReassigned:
		return "lid-reassigned"
	case TopicSweepDone:
		return "sweep-done"
	default:
		return "any"
	}
}

// Event is anything publishable on the bus.
type Event interface {
	Topic() Topic
	String() string
}

// Handler is implemented by event receivers.
type Handler interface {
	OnEvent(context.Context, Event)
}

type subscriber struct {
	topic   Topic
	handler Handler
}

// PubSub fans published events out to subscribers of their topic.
type PubSub struct {
	log         logging.Logger
	events      chan Event
	subscribers chan *subscriber
	handlers    map[Topic][]Handler
	reset       chan struct{}
	shutdown    context.CancelFunc
}

// NewPubSub returns a running PubSub; call Close to stop its event loop.
func NewPubSub(parent context.Context, log logging.Logger) *PubSub {
	ps := &PubSub{
		log:         log,
		events:      make(chan Event),
		subscribers: make(chan *subscriber),
		handlers:    make(map[Topic][]Handler),
		reset:       make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(parent)
	ps.shutdown = cancel
	go ps.eventLoop(ctx)

	return ps
}

// Publish hands an event to the event loop for dispatch to subscribers.
func (ps *PubSub) Publish(event Event) {
	if event == nil {
		ps.log.Error("nil event")
		return
	}
	ps.log.Debugf("publishing @%s: %s", event.Topic(), event)
	ps.events <- event
}

// Subscribe registers handler for topic. TopicAny receives every event.
func (ps *PubSub) Subscribe(topic Topic, handler Handler) {
	ps.subscribers <- &subscriber{topic: topic, handler: handler}
}

func (ps *PubSub) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ps.log.Debug("stopping event loop")
			return
		case <-ps.reset:
			ps.handlers = make(map[Topic][]Handler)
		case newSub := <-ps.subscribers:
			ps.handlers[newSub.topic] = append(ps.handlers[newSub.topic], newSub.handler)
		case event := <-ps.events:
			for _, hdlr := range ps.handlers[TopicAny] {
				go hdlr.OnEvent(ctx, event)
			}
			for _, hdlr := range ps.handlers[event.Topic()] {
				go hdlr.OnEvent(ctx, event)
			}
		}
	}
}

// Close stops the event loop.
func (ps *PubSub) Close() {
	ps.log.Debug("called Close()")
	ps.shutdown()
}

// Reset clears all registered handlers.
func (ps *PubSub) Reset() {
	ps.log.Debug("called Reset()")
	ps.reset <- struct{}{}
}
