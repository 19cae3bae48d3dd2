package events

import "sync"

// DefaultBuffer is the subscription buffer used when none is given.
const DefaultBuffer = 64

// Subscription receives events from a Bus.
type Subscription struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel that is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Drain returns every buffered event without blocking.
func (s *Subscription) Drain() []Event {
	var out []Event
	for {
		select {
		case evt := <-s.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// send delivers evt without blocking. If the buffer is full the oldest
// event is dropped.
func (s *Subscription) send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

func (s *Subscription) close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Bus fans events out to subscribers. Publish never blocks.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber with the given buffer size.
// Subscribing to a closed bus returns an already-ended subscription.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	s := &Subscription{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.close()
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Unsubscribe ends s. It is safe to call more than once.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
	s.close()
}

// Publish sends evt to every subscriber.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		s.send(evt)
	}
}

// Close ends every subscription. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		s.close()
	}
	b.subs = make(map[*Subscription]struct{})
	b.closed = true
}

// OnMatchResolved publishes ScoreChanged, so a Bus can be handed to the
// engine as its score listener.
func (b *Bus) OnMatchResolved(points int) {
	b.Publish(ScoreChanged{Points: points})
}
