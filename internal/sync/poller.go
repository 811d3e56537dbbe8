package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/transport"
)

// pollLoop is the degraded-mode fallback: while the live channel is not
// connected, every tick refetches the list and the active history.
func (s *Synchronizer) pollLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.live.State() != status.Connected {
				s.poll(ctx)
			}
		case <-s.kick:
			s.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Synchronizer) poll(ctx context.Context) {
	if _, err := s.ids.Identity(); err != nil {
		return
	}
	list, err := s.remote.ListConversations(ctx)
	if err != nil {
		s.logPollError("list conversations", err)
		return
	}
	s.IngestConversationList(list)

	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active == "" {
		return
	}
	hist, err := s.remote.GetMessages(ctx, active)
	if err != nil {
		s.logPollError("get messages", err)
		return
	}
	s.IngestHistory(active, hist)
}

func (s *Synchronizer) logPollError(op string, err error) {
	switch {
	case s.ctx.Err() != nil:
	case chat.IsAuth(err):
		s.logger.Error("poll rejected", zap.String("op", op), zap.Error(err))
	default:
		s.logger.Debug("poll failed", zap.String("op", op), zap.Error(err))
	}
}

// acker coalesces read acknowledgements per conversation and sends them off
// the caller's goroutine: over the live channel when it is up, over REST
// otherwise.
type acker struct {
	live   Transport
	remote Remote
	logger *zap.Logger

	mu      sync.Mutex
	pending map[chat.Key]chat.Position
	signal  chan struct{}
}

func newAcker(live Transport, remote Remote, logger *zap.Logger) *acker {
	return &acker{
		live:    live,
		remote:  remote,
		logger:  logger,
		pending: make(map[chat.Key]chat.Position),
		signal:  make(chan struct{}, 1),
	}
}

// Acknowledge implements unread.Acknowledger. It never blocks.
func (a *acker) Acknowledge(key chat.Key, upTo chat.Position) {
	a.mu.Lock()
	if upTo.After(a.pending[key]) {
		a.pending[key] = upTo
	}
	a.mu.Unlock()
	select {
	case a.signal <- struct{}{}:
	default:
	}
}

func (a *acker) run(ctx context.Context) {
	for {
		select {
		case <-a.signal:
			a.flush(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *acker) flush(ctx context.Context) {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[chat.Key]chat.Position)
	a.mu.Unlock()

	for key, pos := range batch {
		if a.live.State() == status.Connected {
			if err := a.live.Send(transport.ReadAckFrame(key, pos.At)); err == nil {
				continue
			}
		}
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.remote.MarkRead(rctx, key, pos.At)
		cancel()
		if err != nil {
			// The next acknowledgement or a read elsewhere catches up.
			a.logger.Debug("read acknowledgement lost", zap.String("conversation", string(key)), zap.Error(err))
		}
	}
}
