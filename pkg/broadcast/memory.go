package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster. All methods are safe for
// concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
	dropped     func()
}

// Option configures a MemoryBroadcaster.
type Option func(*options)

type options struct {
	onDrop func()
}

// WithDropHook registers a callback invoked whenever a queued message is
// discarded because a subscriber fell behind.
func WithDropHook(fn func()) Option {
	return func(o *options) { o.onDrop = fn }
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages (minimum 1). Subscribers that fall behind lose their
// oldest queued messages, never the newest.
func NewMemoryBroadcaster[T any](bufferSize int, opts ...Option) *MemoryBroadcaster[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
		dropped:     o.onDrop,
	}
}

// Subscribe registers a subscriber. It is removed when ctx is done. A
// broadcaster that is already closed returns a closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber(b, b.bufferSize)
	if b.closed {
		sub.close()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		context.AfterFunc(ctx, func() { b.unsubscribe(sub) })
	}

	return sub
}

// Broadcast delivers msg to all active subscribers without blocking.
func (b *MemoryBroadcaster[T]) Broadcast(msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	for sub := range b.subscribers {
		if sub.send(msg) && b.dropped != nil {
			b.dropped()
		}
	}
	return nil
}

// Len reports the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber. Safe to call multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for sub := range b.subscribers {
		sub.close()
	}
	clear(b.subscribers)
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	sub.close()
}
