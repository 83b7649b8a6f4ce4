package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. It is closed
	// when the subscriber or the broadcaster is closed.
	Receive() <-chan Message[T]

	// Close unsubscribes. Idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers without blocking on
// slow ones.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is done or
	// Close is called on it.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to every active subscriber.
	Broadcast(msg Message[T]) error

	// Close closes all subscribers. Later Broadcast calls return ErrClosed.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.Mutex
	owner  *MemoryBroadcaster[T]
}

func newSubscriber[T any](owner *MemoryBroadcaster[T], bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch:    make(chan Message[T], bufferSize),
		owner: owner,
	}
}

func (s *subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	if s.owner != nil {
		s.owner.unsubscribe(s)
		return nil
	}
	s.close()
	return nil
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// send enqueues msg. A full buffer loses its oldest message so the newest
// one is always delivered. Reports whether anything was dropped.
func (s *subscriber[T]) send(msg Message[T]) (dropped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	for {
		select {
		case s.ch <- msg:
			return dropped
		default:
		}
		select {
		case <-s.ch:
			dropped = true
		default:
		}
	}
}
