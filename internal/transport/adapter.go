// Package transport owns the single live channel of a session: connecting,
// the handshake, reconnecting with backoff and turning inbound frames into
// bus events.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
)

var (
	// ErrDisconnected is returned by Send when the channel is down for good.
	ErrDisconnected = errors.New("live channel disconnected")
	// ErrQueueFull is returned by Send when too many frames await a reconnect.
	ErrQueueFull = errors.New("live channel send queue full")
)

// Conn is one established live connection.
type Conn interface {
	ReadFrame() (Frame, error)
	WriteFrame(Frame) error
	Close() error
}

// Dialer opens live connections. Dial returns a chat.AuthError when the
// backend rejects the token and a chat.TransientNetworkError otherwise.
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}

// Config bounds reconnects and queueing.
type Config struct {
	MaxReconnectAttempts int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	SendQueueSize        int
	HandshakeTimeout     time.Duration
}

// DefaultConfig returns the settings used when the config file is silent.
func DefaultConfig() Config {
	return Config{
		MaxReconnectAttempts: 5,
		InitialBackoff:       time.Second,
		MaxBackoff:           30 * time.Second,
		SendQueueSize:        64,
		HandshakeTimeout:     10 * time.Second,
	}
}

// Adapter manages the live channel and its connection state.
type Adapter struct {
	cfg    Config
	dialer Dialer
	bus    *bus.Bus
	state  *status.Machine
	log    *zap.Logger

	mu      sync.Mutex
	conn    Conn
	cancel  context.CancelFunc
	queue   []Frame
	waiters map[string]chan Frame

	wmu sync.Mutex // serializes writes on conn
	wg  sync.WaitGroup
}

// NewAdapter creates an adapter in the disconnected state.
func NewAdapter(cfg Config, dialer Dialer, b *bus.Bus, state *status.Machine, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.SendQueueSize <= 0 {
		cfg.SendQueueSize = def.SendQueueSize
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	return &Adapter{
		cfg:     cfg,
		dialer:  dialer,
		bus:     b,
		state:   state,
		log:     log,
		waiters: make(map[string]chan Frame),
	}
}

// State returns the current connection state.
func (a *Adapter) State() status.State {
	return a.state.Current()
}

// Subscribe returns inbound live events. Slow subscribers miss events.
func (a *Adapter) Subscribe(bufSize int) (<-chan bus.Event, func()) {
	return a.bus.Subscribe("live.", bufSize)
}

// Connect establishes the live channel and waits for the handshake. It is a
// no-op unless the adapter is disconnected. Failures are not returned: the
// adapter stays disconnected and the reason is visible through the state
// machine.
func (a *Adapter) Connect(ctx context.Context, token string) {
	a.mu.Lock()
	if a.state.Current() != status.Disconnected {
		a.mu.Unlock()
		return
	}
	announce, err := a.state.Begin(status.Connecting, "")
	if err != nil {
		a.mu.Unlock()
		a.log.Error("connect", zap.Error(err))
		return
	}
	sessCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()
	announce()

	conn, err := a.handshake(ctx, sessCtx, token)
	if err != nil {
		a.log.Warn("live channel connect failed", zap.Error(err))
		a.toDisconnected(err.Error())
		return
	}

	a.mu.Lock()
	if sessCtx.Err() != nil {
		a.mu.Unlock()
		_ = conn.Close()
		return
	}
	a.conn = conn
	a.mu.Unlock()

	if err := a.state.Transition(status.Connected, ""); err != nil {
		a.log.Error("connect", zap.Error(err))
	}
	a.log.Info("live channel connected")
	a.flushQueue()

	a.wg.Add(1)
	go a.run(sessCtx, conn, token)
}

// Disconnect closes the live channel and fails every queued frame. It
// blocks until the reader goroutine has exited.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	cancel := a.cancel
	conn := a.conn
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	a.wg.Wait()
	a.toDisconnected("disconnect requested")
}

// Send delivers f best effort. Frames sent while connecting or reconnecting
// are queued until the handshake completes.
func (a *Adapter) Send(f Frame) error {
	a.mu.Lock()
	switch a.state.Current() {
	case status.Connected:
		conn := a.conn
		a.mu.Unlock()
		if conn != nil {
			if err := a.write(conn, f); err == nil {
				return nil
			}
		}
		// The reader notices the broken connection and reconnects; the frame
		// goes out after the next handshake.
		a.mu.Lock()
		if a.state.Current() == status.Disconnected {
			a.mu.Unlock()
			a.failFrame(f, ErrCodeDisconnected)
			return ErrDisconnected
		}
		return a.enqueueLocked(f)
	case status.Connecting, status.Reconnecting:
		return a.enqueueLocked(f)
	default:
		a.mu.Unlock()
		a.failFrame(f, ErrCodeDisconnected)
		return ErrDisconnected
	}
}

// Request sends a private frame and waits for the matching private_ack.
func (a *Adapter) Request(ctx context.Context, f Frame) (Frame, error) {
	if f.TempID == "" {
		return Frame{}, errors.New("request: frame has no temp id")
	}
	ch := make(chan Frame, 1)
	a.mu.Lock()
	a.waiters[f.TempID] = ch
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.waiters, f.TempID)
		a.mu.Unlock()
	}()

	if err := a.Send(f); err != nil {
		return Frame{}, &chat.TransientNetworkError{Op: "live send", Err: err}
	}
	select {
	case ack := <-ch:
		if ack.Type == FrameError {
			return Frame{}, &chat.TransientNetworkError{Op: "live send", Err: errors.New(ack.Error)}
		}
		return ack, nil
	case <-ctx.Done():
		return Frame{}, &chat.TransientNetworkError{Op: "live send", Err: ctx.Err()}
	}
}

// enqueueLocked is called with a.mu held and releases it.
func (a *Adapter) enqueueLocked(f Frame) error {
	if len(a.queue) >= a.cfg.SendQueueSize {
		a.mu.Unlock()
		a.failFrame(f, "send queue full")
		return ErrQueueFull
	}
	a.queue = append(a.queue, f)
	a.mu.Unlock()
	return nil
}

func (a *Adapter) write(conn Conn, f Frame) error {
	a.wmu.Lock()
	defer a.wmu.Unlock()
	return conn.WriteFrame(f)
}

func (a *Adapter) flushQueue() {
	a.mu.Lock()
	queued := a.queue
	a.queue = nil
	conn := a.conn
	a.mu.Unlock()

	for i, f := range queued {
		if conn == nil || a.write(conn, f) != nil {
			a.mu.Lock()
			a.queue = append(queued[i:len(queued):len(queued)], a.queue...)
			a.mu.Unlock()
			return
		}
	}
}

// run reads frames until the connection drops, then reconnects.
func (a *Adapter) run(ctx context.Context, conn Conn, token string) {
	defer a.wg.Done()
	for {
		err := a.readLoop(conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		a.log.Warn("live channel dropped", zap.Error(err))

		a.mu.Lock()
		a.conn = nil
		a.mu.Unlock()
		if err := a.state.Transition(status.Reconnecting, err.Error()); err != nil {
			a.log.Error("reconnect", zap.Error(err))
		}

		conn, err = a.reconnect(ctx, token)
		if err != nil {
			if ctx.Err() == nil {
				a.log.Warn("live channel gave up", zap.Error(err))
				a.toDisconnected(err.Error())
			}
			return
		}

		a.mu.Lock()
		a.conn = conn
		a.mu.Unlock()
		if err := a.state.Transition(status.Connected, ""); err != nil {
			a.log.Error("reconnect", zap.Error(err))
		}
		a.log.Info("live channel reconnected")
		a.flushQueue()
	}
}

func (a *Adapter) reconnect(ctx context.Context, token string) (Conn, error) {
	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxReconnectAttempts; attempt++ {
		wait := Backoff(a.cfg.InitialBackoff, a.cfg.MaxBackoff, attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		conn, err := a.handshake(ctx, ctx, token)
		if err == nil {
			return conn, nil
		}
		if chat.IsAuth(err) {
			return nil, err
		}
		lastErr = err
		a.log.Warn("reconnect attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}
	return nil, fmt.Errorf("gave up after %d reconnect attempts: %w", a.cfg.MaxReconnectAttempts, lastErr)
}

// handshake dials and waits for the hello frame. It is bounded by ctx, the
// handshake timeout and sessCtx, which Disconnect cancels.
func (a *Adapter) handshake(ctx, sessCtx context.Context, token string) (Conn, error) {
	hsCtx, cancel := context.WithTimeout(ctx, a.cfg.HandshakeTimeout)
	defer cancel()
	stop := context.AfterFunc(sessCtx, cancel)
	defer stop()

	conn, err := a.dialer.Dial(hsCtx, token)
	if err != nil {
		return nil, err
	}

	type result struct {
		f   Frame
		err error
	}
	ch := make(chan result, 1)
	go func() {
		f, err := conn.ReadFrame()
		ch <- result{f, err}
	}()

	select {
	case <-hsCtx.Done():
		_ = conn.Close()
		return nil, &chat.TransientNetworkError{Op: "handshake", Err: hsCtx.Err()}
	case r := <-ch:
		switch {
		case r.err != nil:
			_ = conn.Close()
			return nil, &chat.TransientNetworkError{Op: "handshake", Err: r.err}
		case r.f.Type == FrameHello:
			return conn, nil
		case r.f.Type == FrameError && r.f.Error == ErrCodeUnauthorized:
			_ = conn.Close()
			return nil, &chat.AuthError{Reason: "live channel rejected token"}
		default:
			_ = conn.Close()
			return nil, &chat.TransientNetworkError{Op: "handshake", Err: fmt.Errorf("unexpected %q frame", r.f.Type)}
		}
	}
}

func (a *Adapter) readLoop(conn Conn) error {
	for {
		f, err := conn.ReadFrame()
		if err != nil {
			return &chat.TransientNetworkError{Op: "read", Err: err}
		}
		a.dispatch(f)
	}
}

func (a *Adapter) dispatch(f Frame) {
	switch f.Type {
	case FramePrivate:
		a.bus.Publish(bus.NewEvent(bus.KindLiveMessage, f.Message()))
	case FramePrivateAck, FrameError:
		if f.TempID != "" && a.resolve(f) {
			return
		}
		if f.Type == FramePrivateAck {
			// Nobody waits anymore; the ack still confirms the placeholder.
			a.bus.Publish(bus.NewEvent(bus.KindLiveMessage, f.Message()))
			return
		}
		a.log.Warn("live channel error frame", zap.String("error", f.Error), zap.String("temp_id", f.TempID))
	case FrameReadReceipt:
		a.bus.Publish(bus.NewEvent(bus.KindLiveReadReceipt, ReadReceipt{
			Key:    f.Key,
			Reader: f.Reader,
			UpTo:   time.UnixMilli(f.UpTo),
		}))
	case FrameHello:
	default:
		a.log.Debug("ignoring unknown frame", zap.String("type", string(f.Type)))
	}
}

func (a *Adapter) resolve(f Frame) bool {
	a.mu.Lock()
	ch, ok := a.waiters[f.TempID]
	a.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- f:
	default:
	}
	return true
}

// toDisconnected moves to disconnected and fails every queued frame.
func (a *Adapter) toDisconnected(reason string) {
	a.mu.Lock()
	if a.state.Current() == status.Disconnected {
		a.mu.Unlock()
		return
	}
	announce, err := a.state.Begin(status.Disconnected, reason)
	if err != nil {
		a.log.Error("disconnect", zap.Error(err))
		announce = func() {}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.conn = nil
	queued := a.queue
	a.queue = nil
	a.mu.Unlock()
	announce()

	for _, f := range queued {
		a.failFrame(f, ErrCodeDisconnected)
	}
}

// failFrame notifies listeners that f was dropped and releases a Request
// waiting on it.
func (a *Adapter) failFrame(f Frame, reason string) {
	a.bus.Publish(bus.NewEvent(bus.KindLiveDeliveryFailed, DeliveryFailure{Frame: f, Reason: reason}))
	if f.TempID != "" {
		a.resolve(Frame{Type: FrameError, TempID: f.TempID, Error: reason})
	}
}

// Backoff returns the wait before reconnect attempt n (1-based): the initial
// backoff doubling per attempt, capped at ceiling.
func Backoff(initial, ceiling time.Duration, attempt int) time.Duration {
	d := initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return min(d, ceiling)
}
