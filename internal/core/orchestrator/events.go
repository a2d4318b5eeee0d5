package orchestrator

import (
	"sync"
	"time"
)

const (
	EventPassStarted   = "pass_started"
	EventPassSucceeded = "pass_succeeded"
	EventPassFailed    = "pass_failed"
	EventPassSkipped   = "pass_skipped"
)

// PassEvent is published around every reconciliation pass and streamed
// to management API subscribers.
type PassEvent struct {
	PassId    string    `json:"pass_id"`
	Type      string    `json:"type"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// passBroadcaster fans pass events out to websocket subscribers. Slow
// subscribers drop events rather than stall a pass.
type passBroadcaster struct {
	mu   sync.Mutex
	subs map[chan PassEvent]struct{}
}

func newPassBroadcaster() *passBroadcaster {
	return &passBroadcaster{subs: map[chan PassEvent]struct{}{}}
}

func (b *passBroadcaster) subscribe() (<-chan PassEvent, func()) {
	ch := make(chan PassEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *passBroadcaster) publish(event PassEvent) {
	event.Timestamp = time.Now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
