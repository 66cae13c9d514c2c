package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ib-subnet/lidmgr/logging"
)

type testEvent struct {
	topic Topic
	msg   string
}

func (e *testEvent) Topic() Topic  { return e.topic }
func (e *testEvent) String() string { return fmt.Sprintf("%s: %s", e.topic, e.msg) }

func newTally(expCount int) *tally {
	return &tally{
		expectedRx: expCount,
		finished:   make(chan struct{}),
	}
}

type tally struct {
	sync.Mutex
	finished   chan struct{}
	expectedRx int
	rx         []string
}

func (tly *tally) OnEvent(_ context.Context, evt Event) {
	tly.Lock()
	defer tly.Unlock()

	tly.rx = append(tly.rx, evt.Topic().String())
	if len(tly.rx) == tly.expectedRx {
		close(tly.finished)
	}
}

func (tly *tally) getRx() []string {
	tly.Lock()
	defer tly.Unlock()

	return tly.rx
}

// assertStringsEqual sorts both slices before comparing, since dispatch to
// multiple handler goroutines does not guarantee arrival order.
func assertStringsEqual(t *testing.T, want, got []string, msg string) {
	t.Helper()
	want = append([]string(nil), want...)
	got = append([]string(nil), got...)
	sort.Strings(want)
	sort.Strings(got)
	if len(want) != len(got) {
		t.Fatalf("%s: want %v, got %v", msg, want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("%s: want %v, got %v", msg, want, got)
		}
	}
}

func TestEvents_PubSub_Basic(t *testing.T) {
	evt1 := &testEvent{topic: TopicLIDAssigned, msg: "port A"}

	log, _ := logging.NewTestLogger(t.Name())
	ctx := context.Background()

	ps := NewPubSub(ctx, log)
	defer ps.Close()

	tly1 := newTally(2)
	tly2 := newTally(2)

	ps.Subscribe(TopicLIDAssigned, tly1)
	ps.Subscribe(TopicLIDAssigned, tly2)

	ps.Publish(evt1)
	ps.Publish(evt1)

	<-tly1.finished
	<-tly2.finished

	assertStringsEqual(t, []string{
		TopicLIDAssigned.String(), TopicLIDAssigned.String(),
	}, tly1.getRx(), "tly1 unexpected slice of received events")
	assertStringsEqual(t, []string{
		TopicLIDAssigned.String(), TopicLIDAssigned.String(),
	}, tly2.getRx(), "tly2 unexpected slice of received events")
}

func TestEvents_PubSub_Reset(t *testing.T) {
	evt1 := &testEvent{topic: TopicLIDAssigned, msg: "port A"}

	log, _ := logging.NewTestLogger(t.Name())

	tly1 := newTally(2)
	tly2 := newTally(2)

	ctx := context.Background()
	ps := NewPubSub(ctx, log)

	ps.Subscribe(TopicLIDAssigned, tly1)

	ps.Publish(evt1)
	ps.Publish(evt1)

	<-tly1.finished

	ps.Reset()

	if len(tly2.getRx()) != 0 {
		t.Fatalf("unexpected number of received events: %d", len(tly2.getRx()))
	}

	tly2 = newTally(2)

	ps.Subscribe(TopicLIDAssigned, tly2)

	ps.Publish(evt1)
	ps.Publish(evt1)

	<-tly2.finished
	ps.Close()

	assertStringsEqual(t, []string{
		TopicLIDAssigned.String(), TopicLIDAssigned.String(),
	}, tly2.getRx(), "unexpected slice of received events")
}

func TestEvents_PubSub_SubscribeAnyTopic(t *testing.T) {
	evt1 := &testEvent{topic: TopicLIDAssigned, msg: "port A"}
	evt2 := &testEvent{topic: TopicSweepDone, msg: "sweep 1"}

	log, _ := logging.NewTestLogger(t.Name())
	ctx := context.Background()

	ps := NewPubSub(ctx, log)
	defer ps.Close()

	tly1 := newTally(3)
	tly2 := newTally(2)

	ps.Subscribe(TopicAny, tly1)
	ps.Subscribe(TopicLIDAssigned, tly2)

	ps.Publish(evt1)
	ps.Publish(evt1)
	ps.Publish(evt2) // only matches Any

	<-tly1.finished
	<-tly2.finished

	assertStringsEqual(t, []string{
		TopicLIDAssigned.String(),
		TopicLIDAssigned.String(),
		TopicSweepDone.String(),
	}, tly1.getRx(), "tly1 unexpected slice of received events")

	assertStringsEqual(t, []string{
		TopicLIDAssigned.String(),
		TopicLIDAssigned.String(),
	}, tly2.getRx(), "tly2 unexpected slice of received events")
}
