// Package broadcast provides an in-process, type-safe fan-out of messages to
// any number of subscribers.
//
// The auth store publishes state snapshots through it, the API client
// publishes session-expired signals, and the realtime client publishes
// connection state changes:
//
//	b := broadcast.NewMemoryBroadcaster[authstate.State](4)
//	sub := b.Subscribe(ctx)
//	for msg := range sub.Receive() {
//		render(msg.Data)
//	}
//
// Broadcast never blocks. When a subscriber's buffer is full its oldest
// queued message is discarded, so a slow reader always ends up with the most
// recent value. Subscriptions end when their context is done, when Close is
// called on them, or when the broadcaster is closed.
package broadcast
