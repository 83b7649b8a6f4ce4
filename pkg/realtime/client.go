package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/broadcast"
	"github.com/golid-ai/dashkit/pkg/logger"
)

// Handler receives the raw JSON payload of one event.
type Handler func(data json.RawMessage)

type handlerEntry struct {
	id uint64
	fn Handler
}

// Client keeps one event stream open for the signed-in user. Each
// connection is authorized by a fresh one-time ticket. When the stream drops
// a single reconnect is scheduled with exponential backoff, refreshing the
// access token first.
type Client struct {
	api    *apiclient.Client
	logger *slog.Logger

	backoffBase time.Duration
	backoffMax  time.Duration
	jitter      uint64

	mu       sync.Mutex
	state    ConnState
	gen      uint64
	cancel   context.CancelFunc
	timer    *time.Timer
	backoff  retry.Backoff
	attempts int
	closed   bool

	hmu      sync.RWMutex
	handlers map[string][]handlerEntry
	nextID   uint64

	changes *broadcast.MemoryBroadcaster[ConnState]
	base    context.Context
	stop    context.CancelFunc
}

type Option func(*Client)

// WithBackoff sets the first reconnect delay and the upper bound.
func WithBackoff(base, maxDelay time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.backoffBase = base
		}
		if maxDelay > 0 {
			c.backoffMax = maxDelay
		}
	}
}

// WithJitterPercent randomizes each delay by up to p percent. 0 disables
// jitter.
func WithJitterPercent(p uint64) Option {
	return func(c *Client) { c.jitter = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(api *apiclient.Client, opts ...Option) *Client {
	c := &Client{
		api:         api,
		logger:      logger.Discard(),
		backoffBase: DefaultBackoffBase,
		backoffMax:  DefaultBackoffMax,
		jitter:      DefaultJitterPercent,
		handlers:    make(map[string][]handlerEntry),
		changes:     broadcast.NewMemoryBroadcaster[ConnState](4),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("realtime"))
	c.backoff = c.newBackoff()
	c.base, c.stop = context.WithCancel(context.Background())
	return c
}

func (c *Client) newBackoff() retry.Backoff {
	return newBackoff(c.backoffBase, c.backoffMax, c.jitter)
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StateChanges delivers every state transition until ctx ends.
func (c *Client) StateChanges(ctx context.Context) broadcast.Subscriber[ConnState] {
	return c.changes.Subscribe(ctx)
}

// On registers handler for events named name and returns a function that
// removes it again. Handlers stay registered across reconnects.
func (c *Client) On(name string, handler Handler) (unsubscribe func()) {
	c.hmu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[name] = append(c.handlers[name], handlerEntry{id: id, fn: handler})
	c.hmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.off(name, id) })
	}
}

// OnJSON registers a handler that receives the payload decoded into T.
// Payloads that do not decode into T are dropped.
func OnJSON[T any](c *Client, name string, handler func(T)) (unsubscribe func()) {
	return c.On(name, func(data json.RawMessage) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			c.logger.Debug("dropping undecodable event", logger.Event(name), logger.Error(err))
			return
		}
		handler(v)
	})
}

func (c *Client) off(name string, id uint64) {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	entries := c.handlers[name]
	for i, e := range entries {
		if e.id == id {
			c.handlers[name] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(c.handlers[name]) == 0 {
		delete(c.handlers, name)
	}
}

// Connect opens the stream unless it is already open or opening, or no
// access token is stored. A failed attempt schedules a reconnect and its
// error is returned for information only.
func (c *Client) Connect(ctx context.Context) error {
	if c.api.AccessToken(ctx) == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != Disconnected {
		c.mu.Unlock()
		return nil
	}

	c.stopTimerLocked()
	c.gen++
	gen := c.gen
	connCtx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.setStateLocked(Connecting)
	c.mu.Unlock()

	// The caller's ctx bounds the opening handshake only.
	stopWatch := context.AfterFunc(ctx, cancel)
	err := c.open(connCtx, gen)
	if !stopWatch() {
		c.mu.Lock()
		if gen == c.gen {
			c.cleanupLocked()
		}
		c.mu.Unlock()
		return ctx.Err()
	}
	return err
}

func (c *Client) open(ctx context.Context, gen uint64) error {
	ticket, err := c.api.Events().Ticket(ctx)
	if err != nil {
		c.fail(ctx, gen, "ticket request failed", err)
		return err
	}

	resp, err := c.api.Events().Stream(ctx, ticket)
	if err != nil {
		c.fail(ctx, gen, "stream open failed", err)
		return err
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		_ = resp.Body.Close()
		return nil
	}
	c.backoff = c.newBackoff()
	c.attempts = 0
	c.setStateLocked(Connected)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "event stream connected")

	go func() {
		defer resp.Body.Close()
		err := readEvents(resp.Body, func(ev Event) { c.dispatch(ev) })
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = ErrStreamClosed
		}
		c.fail(ctx, gen, "event stream ended", err)
	}()

	return nil
}

// fail tears down connection gen and schedules a reconnect, unless the
// connection was already replaced or disconnected.
func (c *Client) fail(ctx context.Context, gen uint64, msg string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		c.cleanupLocked()
		return
	}

	c.logger.WarnContext(ctx, msg, logger.Error(err))
	c.cleanupLocked()
	c.scheduleReconnectLocked()
}

func (c *Client) dispatch(ev Event) {
	data := json.RawMessage(ev.Data)
	if !json.Valid(data) {
		c.logger.Debug("dropping malformed event", logger.Event(ev.Name))
		return
	}

	c.hmu.RLock()
	entries := append([]handlerEntry(nil), c.handlers[ev.Name]...)
	c.hmu.RUnlock()

	for _, e := range entries {
		e.fn(data)
	}
}

// Disconnect closes the stream and cancels any pending reconnect. Safe to
// call at any time.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.stopTimerLocked()
	c.cleanupLocked()
	c.backoff = c.newBackoff()
	c.attempts = 0
}

// Close disconnects and releases the client. It cannot be reused.
func (c *Client) Close() error {
	c.Disconnect()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.stop()
	return c.changes.Close()
}

func (c *Client) cleanupLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setStateLocked(Disconnected)
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Client) scheduleReconnectLocked() {
	if c.timer != nil || c.closed {
		return
	}

	delay, _ := c.backoff.Next()
	c.attempts++
	gen := c.gen
	c.logger.Info("reconnect scheduled",
		logger.RetryCount(c.attempts),
		logger.Duration(delay),
	)
	c.timer = time.AfterFunc(delay, func() { c.reconnect(gen) })
}

func (c *Client) reconnect(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	ctx := c.base
	pair, err := c.api.Tokens().Load(ctx)
	if err == nil && pair.Refresh != "" {
		if err := c.api.RefreshTokens(ctx); err != nil {
			if apiclient.IsError(err) {
				c.logger.WarnContext(ctx, "token refresh rejected, not reconnecting", logger.Error(err))
				return
			}
			c.logger.WarnContext(ctx, "token refresh failed", logger.Error(err))
			c.mu.Lock()
			if gen == c.gen {
				c.scheduleReconnectLocked()
			}
			c.mu.Unlock()
			return
		}
	}

	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}

	_ = c.Connect(ctx)
}

func (c *Client) setStateLocked(s ConnState) {
	if c.state == s {
		return
	}
	c.logger.Debug("state change", logger.State(c.state.String(), s.String()))
	c.state = s
	_ = c.changes.Broadcast(broadcast.Message[ConnState]{Data: s})
}
