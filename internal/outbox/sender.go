// Package outbox delivers locally composed messages: optimistic insert,
// dispatch over the live channel or REST, then confirm or fail.
package outbox

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/transport"
)

// LiveChannel is the part of the transport adapter the sender uses.
type LiveChannel interface {
	State() status.State
	Request(ctx context.Context, f transport.Frame) (transport.Frame, error)
}

// RESTSender stores a message through the REST API.
type RESTSender interface {
	SendMessage(ctx context.Context, receiverID chat.UserID, body, clientMsgID string) (chat.Message, error)
}

// Ledger records delivery progress in the message store.
type Ledger interface {
	AddPending(msg chat.Message) error
	Requeue(tempID string) (chat.Message, error)
	Confirm(tempID string, server chat.Message) (chat.Message, error)
	Fail(tempID, reason string) (chat.Message, error)
}

// Config bounds how long a send may take.
type Config struct {
	// AckTimeout bounds the wait for a live acknowledgement before falling
	// back to REST.
	AckTimeout time.Duration
	// MaxAttempts bounds REST tries on transient errors.
	MaxAttempts int
	// InitialBackoff is the wait before the second REST try; it doubles after.
	InitialBackoff time.Duration
}

// Sender delivers messages.
type Sender struct {
	cfg    Config
	ledger Ledger
	live   LiveChannel
	rest   RESTSender
	bus    *bus.Bus
	logger *zap.Logger
}

// NewSender creates a new outbox sender. live may be nil to always use REST.
func NewSender(cfg Config, ledger Ledger, live LiveChannel, rest RESTSender, b *bus.Bus, logger *zap.Logger) *Sender {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		cfg:    cfg,
		ledger: ledger,
		live:   live,
		rest:   rest,
		bus:    b,
		logger: logger,
	}
}

// Send inserts msg as pending and delivers it. msg must carry a temp id.
// Delivery failures leave the message failed and are not returned as errors,
// except for authentication failures which the caller must surface.
func (s *Sender) Send(ctx context.Context, msg chat.Message) (chat.Message, error) {
	msg.State = chat.Pending
	msg.ID = msg.TempID
	if err := s.ledger.AddPending(msg); err != nil {
		return chat.Message{}, err
	}
	return s.deliver(ctx, msg)
}

// Retry delivers a failed message again under its original temp id.
func (s *Sender) Retry(ctx context.Context, tempID string) (chat.Message, error) {
	msg, err := s.ledger.Requeue(tempID)
	if err != nil {
		return chat.Message{}, err
	}
	return s.deliver(ctx, msg)
}

func (s *Sender) deliver(ctx context.Context, msg chat.Message) (chat.Message, error) {
	server, err := s.dispatch(ctx, msg)
	if err != nil {
		s.logger.Warn("failed to send message", zap.String("temp_id", msg.TempID), zap.Error(err))
		failed, ferr := s.ledger.Fail(msg.TempID, err.Error())
		if ferr != nil {
			return chat.Message{}, ferr
		}
		s.bus.Publish(bus.NewEvent(bus.KindStoreMessageFailed, failed))
		if chat.IsAuth(err) {
			return failed, err
		}
		return failed, nil
	}

	confirmed, err := s.ledger.Confirm(msg.TempID, server)
	if err != nil {
		return chat.Message{}, err
	}
	s.logger.Info("message sent", zap.String("temp_id", msg.TempID), zap.String("server_msg_id", confirmed.ID))
	s.bus.Publish(bus.NewEvent(bus.KindStoreMessageConfirmed, confirmed))
	return confirmed, nil
}

// dispatch prefers the live channel and falls back to REST. Both paths carry
// the temp id, so the backend stores the message once even if both run.
func (s *Sender) dispatch(ctx context.Context, msg chat.Message) (chat.Message, error) {
	if s.live != nil && s.live.State() == status.Connected {
		actx, cancel := context.WithTimeout(ctx, s.cfg.AckTimeout)
		ack, err := s.live.Request(actx, transport.PrivateFrame(msg))
		cancel()
		if err == nil {
			return ack.Message(), nil
		}
		if ctx.Err() != nil {
			return chat.Message{}, &chat.TransientNetworkError{Op: "send", Err: ctx.Err()}
		}
		s.logger.Info("live send unacknowledged, falling back to REST",
			zap.String("temp_id", msg.TempID), zap.Error(err))
	}
	return s.sendREST(ctx, msg)
}

// sendREST sends with bounded retry on transient errors. Other errors are
// permanent and returned immediately.
func (s *Sender) sendREST(ctx context.Context, msg chat.Message) (chat.Message, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := s.cfg.InitialBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return chat.Message{}, &chat.TransientNetworkError{Op: "send", Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		server, err := s.rest.SendMessage(ctx, msg.ReceiverID, msg.Body, msg.TempID)
		if err == nil {
			return server, nil
		}
		var conflict *chat.ConflictError
		if errors.As(err, &conflict) && conflict.ID != "" {
			// Stored by an earlier attempt.
			server := msg
			server.ID = conflict.ID
			server.State = chat.Confirmed
			return server, nil
		}
		lastErr = err
		if !chat.IsTransient(err) {
			return chat.Message{}, err
		}
		s.logger.Warn("transient send failure, retrying",
			zap.String("temp_id", msg.TempID),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return chat.Message{}, lastErr
}
