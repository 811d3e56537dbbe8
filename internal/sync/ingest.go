package sync

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/store"
	"github.com/fixitnow/chatsync/internal/transport"
	"github.com/fixitnow/chatsync/internal/unread"
)

func (s *Synchronizer) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindLiveMessage:
		msg, ok := evt.Payload.(chat.Message)
		if !ok {
			return
		}
		if err := s.IngestMessage(msg); err != nil {
			s.logger.Error("failed to ingest message", zap.Error(err), zap.String("msg_id", msg.ID))
		}
	case bus.KindLiveReadReceipt:
		rr, ok := evt.Payload.(transport.ReadReceipt)
		if !ok {
			return
		}
		s.ingestReadReceipt(rr)
	case bus.KindLiveConnection:
		change, ok := evt.Payload.(status.Change)
		if !ok {
			return
		}
		if change.From == status.Reconnecting && change.To == status.Connected {
			// Fill the gap left while the channel was down.
			select {
			case s.kick <- struct{}{}:
			default:
			}
		}
	case bus.KindLiveDeliveryFailed:
		if f, ok := evt.Payload.(transport.DeliveryFailure); ok {
			s.logger.Debug("live frame dropped", zap.String("type", string(f.Frame.Type)), zap.String("reason", f.Reason))
		}
	}
}

// IngestMessage merges one confirmed message from any source. Duplicates are
// no-ops, so live and polled delivery may overlap freely.
func (s *Synchronizer) IngestMessage(msg chat.Message) error {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	st, tr := s.session()
	if st == nil {
		return nil
	}
	added, err := st.Append(msg.Key(), msg)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", msg.ID, err)
	}
	if !added {
		return nil
	}
	tr.OnMessageAppended(msg, msg.SenderID == st.Self())
	s.publishChangeLocked(st, tr, []chat.Key{msg.Key()}, []chat.Message{msg})
	return nil
}

// IngestHistory merges a fetched conversation history and marks it loaded.
// Incoming messages the backend reports as read count as read elsewhere.
func (s *Synchronizer) IngestHistory(key chat.Key, hist chat.History) {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	st, tr := s.session()
	if st == nil {
		return
	}
	var confirmed []chat.Message
	for _, m := range hist.Messages {
		if m.Key() != key {
			s.logger.Warn("history message outside its conversation",
				zap.String("conversation", string(key)), zap.String("msg_id", m.ID))
			continue
		}
		added, err := st.Append(key, m)
		if err != nil {
			s.logger.Warn("invalid history message", zap.String("msg_id", m.ID), zap.Error(err))
			continue
		}
		if added {
			tr.OnMessageAppended(m, m.SenderID == st.Self())
			confirmed = append(confirmed, m)
		}
	}
	st.MarkHistoryLoaded(key, s.now())
	if !hist.ReadUpTo.IsZero() {
		tr.OnReadElsewhere(key, hist.ReadUpTo)
	} else {
		tr.Reseed(key)
	}
	s.publishChangeLocked(st, tr, []chat.Key{key}, confirmed)
}

// IngestConversationList merges a fetched conversation list.
func (s *Synchronizer) IngestConversationList(list []chat.Summary) {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	st, tr := s.session()
	if st == nil {
		return
	}
	keys, err := st.UpsertConversationList(list)
	if err != nil {
		s.logger.Warn("conversation list has invalid entries", zap.Error(err))
	}
	for _, k := range keys {
		tr.Reseed(k)
	}
	s.publishChangeLocked(st, tr, keys, nil)
}

func (s *Synchronizer) ingestReadReceipt(rr transport.ReadReceipt) {
	s.ingest.Lock()
	defer s.ingest.Unlock()

	st, tr := s.session()
	if st == nil {
		return
	}
	if rr.Reader == st.Self() {
		tr.OnReadElsewhere(rr.Key, rr.UpTo)
	} else if st.MarkPeerRead(rr.Key, rr.Reader, rr.UpTo) == 0 {
		return
	}
	s.publishChangeLocked(st, tr, []chat.Key{rr.Key}, nil)
}

// publishChangeLocked is called with s.ingest held.
func (s *Synchronizer) publishChangeLocked(st *store.Store, tr *unread.Tracker, keys []chat.Key, confirmed []chat.Message) {
	change := Change{Owner: st.Self(), Confirmed: confirmed, UnreadTotal: tr.Total()}
	for _, k := range keys {
		if conv, ok := st.Conversation(k); ok {
			conv.UnreadCount = tr.Count(k)
			change.Conversations = append(change.Conversations, conv)
		}
	}
	s.bus.Publish(bus.NewEvent(bus.KindStoreChanged, change))
}

// ledger records outbox progress under the ingest lock.
type ledger struct{ s *Synchronizer }

func (l ledger) AddPending(msg chat.Message) error {
	l.s.ingest.Lock()
	defer l.s.ingest.Unlock()
	st, tr := l.s.session()
	if _, err := st.Append(msg.Key(), msg); err != nil {
		return err
	}
	l.s.publishChangeLocked(st, tr, []chat.Key{msg.Key()}, nil)
	return nil
}

func (l ledger) Requeue(tempID string) (chat.Message, error) {
	l.s.ingest.Lock()
	defer l.s.ingest.Unlock()
	st, tr := l.s.session()
	m, err := st.MarkPending(tempID)
	if err != nil {
		return chat.Message{}, err
	}
	l.s.publishChangeLocked(st, tr, []chat.Key{m.Key()}, nil)
	return m, nil
}

func (l ledger) Confirm(tempID string, server chat.Message) (chat.Message, error) {
	l.s.ingest.Lock()
	defer l.s.ingest.Unlock()
	st, tr := l.s.session()
	m, err := st.ReconcilePending(tempID, server)
	if err != nil {
		return chat.Message{}, err
	}
	l.s.publishChangeLocked(st, tr, []chat.Key{m.Key()}, []chat.Message{m})
	return m, nil
}

func (l ledger) Fail(tempID, reason string) (chat.Message, error) {
	l.s.ingest.Lock()
	defer l.s.ingest.Unlock()
	st, tr := l.s.session()
	m, err := st.MarkFailed(tempID, reason)
	if err != nil {
		return chat.Message{}, err
	}
	l.s.publishChangeLocked(st, tr, []chat.Key{m.Key()}, nil)
	return m, nil
}
