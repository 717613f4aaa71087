package events

import "sync"

// Bus is an in-process publication queue decoupling post creation from
// notification dispatch. Publishing never waits for delivery, only for a
// slot in the buffer; the dispatcher drains the channel on its own
// goroutine. Different authors' events carry no ordering relation, so a
// single queue with concurrent consumers is enough.
type Bus struct {
	ch     chan PostPublished
	mu     sync.RWMutex
	closed bool
}

// NewBus creates a Bus with the given buffer size
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{ch: make(chan PostPublished, buffer)}
}

// Publish enqueues the event for dispatch. An accepted event is never
// dropped: when the buffer is full the send waits for the dispatcher to
// free a slot. Publish reports false only when the bus is already closed.
func (b *Bus) Publish(event PostPublished) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	b.ch <- event
	return true
}

// Events returns the channel the dispatcher consumes
func (b *Bus) Events() <-chan PostPublished {
	return b.ch
}

// Close stops accepting events and lets consumers drain what is queued.
// Close waits for in-flight publishes to land in the buffer, so it must run
// after the server has stopped taking requests.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
