// Package sync is the conversation synchronizer: it turns widget intents,
// live events and polled snapshots into one consistent message store.
package sync

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/outbox"
	"github.com/fixitnow/chatsync/internal/session"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/store"
	"github.com/fixitnow/chatsync/internal/transport"
	"github.com/fixitnow/chatsync/internal/unread"
)

// Transport is the live channel as seen by the synchronizer.
type Transport interface {
	State() status.State
	Connect(ctx context.Context, token string)
	Send(f transport.Frame) error
	Request(ctx context.Context, f transport.Frame) (transport.Frame, error)
}

// Remote is the REST API.
type Remote interface {
	ListConversations(ctx context.Context) ([]chat.Summary, error)
	GetMessages(ctx context.Context, key chat.Key) (chat.History, error)
	SendMessage(ctx context.Context, receiverID chat.UserID, body, clientMsgID string) (chat.Message, error)
	MarkRead(ctx context.Context, key chat.Key, upTo time.Time) error
}

// Archive is the local copy of confirmed history used for warm starts and
// search.
type Archive interface {
	Load(ctx context.Context, owner chat.UserID) ([]chat.Summary, []chat.Message, error)
	Search(ctx context.Context, owner chat.UserID, query string, limit int) ([]chat.Message, error)
}

// Config tunes the synchronizer.
type Config struct {
	PollInterval    time.Duration
	FreshnessWindow time.Duration
	Send            outbox.Config
}

// Change is the payload of store.changed events.
type Change struct {
	Owner chat.UserID
	// Conversations holds the touched conversations after the change.
	Conversations []chat.Conversation
	// Confirmed holds messages that became confirmed in the change.
	Confirmed   []chat.Message
	UnreadTotal int
}

// Snapshot is the read-only state handed to the presentation layer.
type Snapshot struct {
	Self chat.UserID
	// Conversations are ordered by last message time, newest first.
	Conversations []chat.Conversation
	Active        chat.Key
	// Messages of the active conversation, oldest first.
	Messages    []chat.Message
	Connection  status.State
	UnreadTotal int
}

const searchLimit = 50

// Synchronizer coordinates the store, the unread tracker and delivery.
type Synchronizer struct {
	cfg     Config
	ids     session.Provider
	live    Transport
	remote  Remote
	archive Archive
	bus     *bus.Bus
	logger  *zap.Logger
	acks    *acker
	now     func() time.Time

	// ingest serializes every store and tracker mutation pair. It is never
	// held across network I/O. Lock order: ingest, then mu.
	ingest sync.Mutex

	mu         sync.Mutex
	self       chat.UserID
	store      *store.Store
	tracker    *unread.Tracker
	sender     *outbox.Sender
	open       bool
	active     chat.Key
	viewSeq    uint64
	viewCancel context.CancelFunc
	pollCancel context.CancelFunc

	ctx       context.Context
	cancel    context.CancelFunc
	kick      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a synchronizer. archive may be nil.
func New(cfg Config, ids session.Provider, live Transport, remote Remote, archive Archive, b *bus.Bus, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		cfg:     cfg,
		ids:     ids,
		live:    live,
		remote:  remote,
		archive: archive,
		bus:     b,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		kick:    make(chan struct{}, 1),
	}
	s.acks = newAcker(live, remote, logger)
	return s
}

// Start subscribes to live events. Live messages must not be lost, so the
// subscription applies backpressure to the transport instead of dropping.
func (s *Synchronizer) Start() {
	ch, unsub := s.bus.SubscribeLossless("live.", 256)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		defer unsub()
		for {
			select {
			case evt := <-ch:
				s.handleEvent(evt)
			case <-s.ctx.Done():
				return
			}
		}
	}()
	go func() {
		defer s.wg.Done()
		s.acks.run(s.ctx)
	}()
}

// Close stops polling, cancels in-flight fetches and unsubscribes. It waits
// for every goroutine to exit.
func (s *Synchronizer) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

// OpenWidget connects the live channel if needed, fetches the conversation
// list and starts reconciliation polling. Only authentication failures are
// returned; network trouble leaves the widget in degraded mode.
func (s *Synchronizer) OpenWidget(ctx context.Context) error {
	id, err := s.ids.Identity()
	if err != nil {
		return err
	}
	s.ensureSession(ctx, id.UserID)

	if s.live.State() != status.Connected {
		s.live.Connect(ctx, id.Token)
	}

	list, err := s.remote.ListConversations(ctx)
	switch {
	case chat.IsAuth(err):
		return err
	case err != nil:
		s.logger.Warn("conversation list unavailable, relying on polling", zap.Error(err))
	default:
		s.IngestConversationList(list)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	if s.pollCancel == nil {
		pctx, cancel := context.WithCancel(s.ctx)
		s.pollCancel = cancel
		s.wg.Add(1)
		go s.pollLoop(pctx)
	}
	return nil
}

// CloseWidget stops polling and cancels the in-flight view fetch. The live
// channel stays up.
func (s *Synchronizer) CloseWidget() {
	s.mu.Lock()
	s.open = false
	s.active = ""
	s.viewSeq++
	if s.viewCancel != nil {
		s.viewCancel()
		s.viewCancel = nil
	}
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	tr := s.tracker
	s.mu.Unlock()

	if tr != nil {
		tr.OnConversationClosed()
	}
}

// SelectConversation makes key the active conversation, marks it read and
// fetches its history when it is missing or stale. Returns the messages of
// the conversation after the fetch.
func (s *Synchronizer) SelectConversation(ctx context.Context, key chat.Key) ([]chat.Message, error) {
	key, err := chat.ParseKey(string(key))
	if err != nil {
		return nil, &chat.ValidationError{Field: "conversation", Reason: err.Error()}
	}
	id, err := s.ids.Identity()
	if err != nil {
		return nil, err
	}
	if !key.Has(id.UserID) {
		return nil, &chat.ValidationError{Field: "conversation", Reason: fmt.Sprintf("%s does not involve user %s", key, id.UserID)}
	}
	st, tr := s.ensureSession(ctx, id.UserID)

	s.mu.Lock()
	if s.viewCancel != nil {
		s.viewCancel()
	}
	s.viewSeq++
	seq := s.viewSeq
	vctx, cancel := context.WithCancel(s.ctx)
	s.viewCancel = cancel
	s.active = key
	s.mu.Unlock()

	s.ingest.Lock()
	tr.OnConversationOpened(key)
	s.publishChangeLocked(st, tr, []chat.Key{key}, nil)
	s.ingest.Unlock()

	conv, ok := st.Conversation(key)
	if ok && conv.HistoryLoaded() && s.now().Sub(conv.HistoryLoadedAt) < s.cfg.FreshnessWindow {
		return st.Messages(key), nil
	}

	fctx, fcancel := context.WithCancel(ctx)
	defer fcancel()
	stop := context.AfterFunc(vctx, fcancel)
	defer stop()

	hist, err := s.remote.GetMessages(fctx, key)
	if err != nil {
		if chat.IsAuth(err) {
			return nil, err
		}
		s.logger.Warn("history fetch failed", zap.String("conversation", string(key)), zap.Error(err))
		return st.Messages(key), nil
	}
	s.IngestHistory(key, hist)

	// A late response is merged above but must not re-activate its view.
	s.mu.Lock()
	current := s.viewSeq == seq
	s.mu.Unlock()
	if current {
		s.ingest.Lock()
		tr.OnConversationOpened(key)
		s.publishChangeLocked(st, tr, []chat.Key{key}, nil)
		s.ingest.Unlock()
	}
	return st.Messages(key), nil
}

// SendMessage sends body to receiverID. A blank body is rejected with a
// ValidationError before anything is stored or sent. Delivery failures are
// not errors: the returned message is in the failed state and keeps its
// body and temp id for RetryMessage or DiscardMessage.
func (s *Synchronizer) SendMessage(ctx context.Context, receiverID chat.UserID, body string) (chat.Message, error) {
	if strings.TrimSpace(body) == "" {
		return chat.Message{}, &chat.ValidationError{Field: "body", Reason: "message is empty"}
	}
	id, err := s.ids.Identity()
	if err != nil {
		return chat.Message{}, err
	}
	if receiverID <= 0 || receiverID == id.UserID {
		return chat.Message{}, &chat.ValidationError{Field: "receiver", Reason: fmt.Sprintf("cannot send to user %s", receiverID)}
	}
	s.ensureSession(ctx, id.UserID)

	msg := chat.Message{
		TempID:     chat.TempIDPrefix + uuid.NewString(),
		SenderID:   id.UserID,
		ReceiverID: receiverID,
		Body:       body,
		SentAt:     s.now(),
	}
	return s.currentSender().Send(ctx, msg)
}

// RetryMessage sends a failed message again.
func (s *Synchronizer) RetryMessage(ctx context.Context, tempID string) (chat.Message, error) {
	if _, err := s.ids.Identity(); err != nil {
		return chat.Message{}, err
	}
	sender := s.currentSender()
	if sender == nil {
		return chat.Message{}, fmt.Errorf("retry %s: %w", tempID, store.ErrNotFound)
	}
	return sender.Retry(ctx, tempID)
}

// DiscardMessage drops a failed message.
func (s *Synchronizer) DiscardMessage(tempID string) (chat.Message, error) {
	s.ingest.Lock()
	defer s.ingest.Unlock()
	st, tr := s.session()
	if st == nil {
		return chat.Message{}, fmt.Errorf("discard %s: %w", tempID, store.ErrNotFound)
	}
	m, err := st.Discard(tempID)
	if err != nil {
		return chat.Message{}, err
	}
	s.publishChangeLocked(st, tr, []chat.Key{m.Key()}, nil)
	return m, nil
}

// Snapshot returns a consistent copy of the presentation state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	s.mu.Lock()
	snap := Snapshot{Self: s.self, Active: s.active}
	st, tr := s.store, s.tracker
	s.mu.Unlock()

	snap.Connection = s.live.State()
	if st == nil {
		return snap
	}
	snap.Conversations = st.Conversations()
	for i := range snap.Conversations {
		snap.Conversations[i].UnreadCount = tr.Count(snap.Conversations[i].Key)
	}
	if snap.Active != "" {
		snap.Messages = st.Messages(snap.Active)
	}
	snap.UnreadTotal = tr.Total()
	return snap
}

// Search finds messages containing query, newest first. It uses the archive
// when one is configured and the in-memory store otherwise.
func (s *Synchronizer) Search(ctx context.Context, query string) ([]chat.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &chat.ValidationError{Field: "query", Reason: "search query is empty"}
	}
	id, err := s.ids.Identity()
	if err != nil {
		return nil, err
	}
	if s.archive != nil {
		return s.archive.Search(ctx, id.UserID, query, searchLimit)
	}

	st, _ := s.session()
	if st == nil {
		return nil, nil
	}
	needle := strings.ToLower(query)
	var out []chat.Message
	for _, conv := range st.Conversations() {
		for _, m := range st.Messages(conv.Key) {
			if m.State == chat.Confirmed && strings.Contains(strings.ToLower(m.Body), needle) {
				out = append(out, m)
			}
		}
	}
	slices.SortFunc(out, func(a, b chat.Message) int { return b.Position().Compare(a.Position()) })
	if len(out) > searchLimit {
		out = out[:searchLimit]
	}
	return out, nil
}

// Verify checks the unread index against a full recompute.
func (s *Synchronizer) Verify() error {
	s.ingest.Lock()
	defer s.ingest.Unlock()
	_, tr := s.session()
	if tr == nil {
		return nil
	}
	return tr.Verify()
}

func (s *Synchronizer) session() (*store.Store, *unread.Tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store, s.tracker
}

func (s *Synchronizer) currentSender() *outbox.Sender {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender
}

// ensureSession returns the store of user, creating it and warm-loading the
// archive the first time or after the signed-in user changed.
func (s *Synchronizer) ensureSession(ctx context.Context, user chat.UserID) (*store.Store, *unread.Tracker) {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	s.mu.Lock()
	if s.store != nil && s.self == user {
		st, tr := s.store, s.tracker
		s.mu.Unlock()
		return st, tr
	}
	st := store.New(user)
	tr := unread.NewTracker(st, s.acks)
	s.self = user
	s.store = st
	s.tracker = tr
	s.active = ""
	s.sender = outbox.NewSender(s.cfg.Send, ledger{s}, s.live, s.remote, s.bus, s.logger)
	s.mu.Unlock()

	s.logger.Info("session started", zap.String("user", user.String()))
	if s.archive == nil {
		return st, tr
	}
	summaries, msgs, err := s.archive.Load(ctx, user)
	if err != nil {
		s.logger.Warn("archive warm start failed", zap.Error(err))
		return st, tr
	}
	if _, err := st.UpsertConversationList(summaries); err != nil {
		s.logger.Warn("archive holds invalid conversations", zap.Error(err))
	}
	for _, m := range msgs {
		if _, err := st.Append(m.Key(), m); err != nil {
			s.logger.Warn("archive holds invalid message", zap.String("msg_id", m.ID), zap.Error(err))
		}
	}
	for _, conv := range st.Conversations() {
		tr.Reseed(conv.Key)
	}
	s.logger.Info("archive loaded", zap.Int("conversations", len(summaries)), zap.Int("messages", len(msgs)))
	return st, tr
}
