// Package store is the authoritative in-memory record of conversations and
// their messages for one signed-in user.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// PreviewLen is the maximum number of runes kept as a conversation preview.
const PreviewLen = 100

// ErrNotFound is returned when a message or conversation does not exist.
var ErrNotFound = errors.New("not found")

// Store holds conversations keyed by conversation identity. Every mutation
// runs under one mutex, so callers always observe whole updates. Values
// returned to callers are copies.
type Store struct {
	mu      sync.RWMutex
	self    chat.UserID
	threads map[chat.Key]*thread
	// ids maps every known message id (server or temp) to its conversation.
	ids map[string]chat.Key
}

type thread struct {
	conv chat.Conversation
	msgs []chat.Message
}

// New creates an empty store for the given user.
func New(self chat.UserID) *Store {
	return &Store{
		self:    self,
		threads: make(map[chat.Key]*thread),
		ids:     make(map[string]chat.Key),
	}
}

// Self returns the user the store belongs to.
func (s *Store) Self() chat.UserID {
	return s.self
}

// UpsertConversationList merges conversation summaries from a full fetch.
// Local messages, including pending ones, are kept; a local last message
// newer than the summary keeps its preview. Returns the keys that were touched.
func (s *Store) UpsertConversationList(list []chat.Summary) ([]chat.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		keys []chat.Key
		errs []error
	)
	for _, sum := range list {
		key, err := chat.ParseKey(string(sum.Key))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !key.Has(s.self) {
			errs = append(errs, fmt.Errorf("conversation %s does not involve user %s", key, s.self))
			continue
		}
		t := s.ensureLocked(key)
		if sum.OtherName != "" {
			t.conv.OtherName = sum.OtherName
		}
		t.conv.UnreadHint = sum.UnreadCount
		t.conv.HintAsOf = sum.LastMessageAt
		if !sum.LastMessageAt.Before(t.conv.LastMessageAt) {
			t.conv.LastMessageAt = sum.LastMessageAt
			t.conv.LastMessagePreview = chat.Preview(sum.LastMessagePreview, PreviewLen)
		}
		keys = append(keys, key)
	}
	return keys, errors.Join(errs...)
}

// Append inserts msg in sorted position. A message whose id is already known
// is a no-op and Append returns false. A confirmed message carrying the temp
// id of a local placeholder replaces that placeholder.
func (s *Store) Append(key chat.Key, msg chat.Message) (bool, error) {
	if err := s.validate(key, &msg); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[msg.ID]; ok {
		return false, nil
	}
	if msg.State == chat.Confirmed && msg.TempID != "" {
		if t, i := s.placeholderLocked(msg.TempID); t != nil {
			s.confirmLocked(t, i, msg)
			return true, nil
		}
	}

	t := s.ensureLocked(key)
	s.insertLocked(t, msg)
	return true, nil
}

// ReconcilePending confirms the placeholder sent with tempID using the
// server's copy. If the server id is already present (the live echo won the
// race) the placeholder is dropped in favour of it.
func (s *Store) ReconcilePending(tempID string, server chat.Message) (chat.Message, error) {
	if server.ID == "" || chat.IsTempID(server.ID) {
		return chat.Message{}, fmt.Errorf("reconcile %s: server message has no server id", tempID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, i := s.placeholderLocked(tempID)
	if t == nil {
		if m, ok := s.findLocked(tempID); ok {
			return m, nil
		}
		return chat.Message{}, fmt.Errorf("reconcile %s: %w", tempID, ErrNotFound)
	}

	server.TempID = tempID
	server.State = chat.Confirmed
	if key, ok := s.ids[server.ID]; ok {
		s.removeLocked(t, i)
		delete(s.ids, tempID)
		t.refreshLast()
		existing := s.threads[key]
		j := existing.indexOf(server.ID)
		existing.msgs[j].TempID = tempID
		return existing.msgs[j], nil
	}
	return s.confirmLocked(t, i, server), nil
}

// MarkFailed flags the placeholder sent with tempID as failed, keeping its
// body and temp id. A message that got confirmed meanwhile is returned as is.
func (s *Store) MarkFailed(tempID, reason string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, i := s.placeholderLocked(tempID)
	if t == nil {
		if m, ok := s.findLocked(tempID); ok {
			return m, nil
		}
		return chat.Message{}, fmt.Errorf("mark failed %s: %w", tempID, ErrNotFound)
	}
	t.msgs[i].State = chat.Failed
	t.msgs[i].FailReason = reason
	return t.msgs[i], nil
}

// MarkPending moves a failed message back to pending ahead of a retry.
func (s *Store) MarkPending(tempID string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, i := s.placeholderLocked(tempID)
	if t == nil {
		return chat.Message{}, fmt.Errorf("retry %s: %w", tempID, ErrNotFound)
	}
	if t.msgs[i].State != chat.Failed {
		return chat.Message{}, fmt.Errorf("retry %s: message is %s, not failed", tempID, t.msgs[i].State)
	}
	t.msgs[i].State = chat.Pending
	t.msgs[i].FailReason = ""
	return t.msgs[i], nil
}

// Discard removes a failed message. Confirmed messages can never be removed.
func (s *Store) Discard(tempID string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, i := s.placeholderLocked(tempID)
	if t == nil {
		return chat.Message{}, fmt.Errorf("discard %s: %w", tempID, ErrNotFound)
	}
	m := t.msgs[i]
	if m.State != chat.Failed {
		return chat.Message{}, fmt.Errorf("discard %s: message is %s, not failed", tempID, m.State)
	}
	s.removeLocked(t, i)
	delete(s.ids, tempID)
	t.refreshLast()
	return m, nil
}

// MarkHistoryLoaded records that the full history of key was fetched at.
func (s *Store) MarkHistoryLoaded(key chat.Key, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(key).conv.HistoryLoadedAt = at
}

// MarkPeerRead flags messages sent to reader up to upTo as seen. Returns how
// many messages changed.
func (s *Store) MarkPeerRead(key chat.Key, reader chat.UserID, upTo time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[key]
	if !ok {
		return 0
	}
	n := 0
	for i := range t.msgs {
		m := &t.msgs[i]
		if m.ReceiverID != reader || m.State != chat.Confirmed || m.SeenByPeer || m.SentAt.After(upTo) {
			continue
		}
		m.SeenByPeer = true
		n++
	}
	return n
}

// Conversation returns a copy of one conversation summary.
func (s *Store) Conversation(key chat.Key) (chat.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[key]
	if !ok {
		return chat.Conversation{}, false
	}
	return t.conv, true
}

// Conversations returns all conversations, most recent activity first.
func (s *Store) Conversations() []chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chat.Conversation, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, t.conv)
	}
	slices.SortFunc(out, func(a, b chat.Conversation) int {
		if c := b.LastMessageAt.Compare(a.LastMessageAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.Key), string(b.Key))
	})
	return out
}

// Messages returns the ordered messages of a conversation.
func (s *Store) Messages(key chat.Key) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[key]
	if !ok {
		return nil
	}
	return slices.Clone(t.msgs)
}

// Message looks a message up by server or temp id.
func (s *Store) Message(id string) (chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// LastPosition returns the position of the newest message in key.
func (s *Store) LastPosition(key chat.Key) chat.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[key]
	if !ok || len(t.msgs) == 0 {
		return chat.Position{}
	}
	return t.msgs[len(t.msgs)-1].Position()
}

func (s *Store) validate(key chat.Key, m *chat.Message) error {
	if m.ID == "" {
		return errors.New("append: message has no id")
	}
	if m.SenderID == m.ReceiverID {
		return fmt.Errorf("append %s: sender and receiver are both %s", m.ID, m.SenderID)
	}
	if m.Key() != key {
		return fmt.Errorf("append %s: message belongs to %s, not %s", m.ID, m.Key(), key)
	}
	if !key.Has(s.self) {
		return fmt.Errorf("append %s: conversation %s does not involve user %s", m.ID, key, s.self)
	}
	switch m.State {
	case chat.Pending, chat.Failed:
		if !chat.IsTempID(m.ID) {
			return fmt.Errorf("append %s: %s message must carry a temp id", m.ID, m.State)
		}
		m.TempID = m.ID
	case chat.Confirmed:
		if chat.IsTempID(m.ID) {
			return fmt.Errorf("append %s: confirmed message must carry a server id", m.ID)
		}
	default:
		return fmt.Errorf("append %s: unknown delivery state %v", m.ID, m.State)
	}
	return nil
}

func (s *Store) ensureLocked(key chat.Key) *thread {
	t, ok := s.threads[key]
	if !ok {
		t = &thread{conv: chat.Conversation{Key: key, OtherUserID: key.Other(s.self)}}
		s.threads[key] = t
	}
	return t
}

// placeholderLocked finds the unconfirmed message sent with tempID.
func (s *Store) placeholderLocked(tempID string) (*thread, int) {
	key, ok := s.ids[tempID]
	if !ok {
		return nil, -1
	}
	t := s.threads[key]
	i := t.indexOf(tempID)
	if i < 0 || t.msgs[i].State == chat.Confirmed {
		return nil, -1
	}
	return t, i
}

func (s *Store) findLocked(id string) (chat.Message, bool) {
	if key, ok := s.ids[id]; ok {
		t := s.threads[key]
		if i := t.indexOf(id); i >= 0 {
			return t.msgs[i], true
		}
	}
	// A confirmed message no longer answers to its temp id.
	if chat.IsTempID(id) {
		for _, t := range s.threads {
			for _, m := range t.msgs {
				if m.TempID == id {
					return m, true
				}
			}
		}
	}
	return chat.Message{}, false
}

func (s *Store) insertLocked(t *thread, m chat.Message) {
	i, _ := slices.BinarySearchFunc(t.msgs, m.Position(), func(e chat.Message, p chat.Position) int {
		return e.Position().Compare(p)
	})
	t.msgs = slices.Insert(t.msgs, i, m)
	s.ids[m.ID] = t.conv.Key
	if !m.SentAt.Before(t.conv.LastMessageAt) {
		t.conv.LastMessageAt = m.SentAt
		t.conv.LastMessagePreview = chat.Preview(m.Body, PreviewLen)
	}
}

func (s *Store) removeLocked(t *thread, i int) {
	t.msgs = slices.Delete(t.msgs, i, i+1)
}

// confirmLocked replaces the placeholder at t.msgs[i] with the server copy
// and moves it to its server-time position.
func (s *Store) confirmLocked(t *thread, i int, server chat.Message) chat.Message {
	placeholder := t.msgs[i]
	m := placeholder
	m.ID = server.ID
	m.State = chat.Confirmed
	m.FailReason = ""
	if !server.SentAt.IsZero() {
		m.SentAt = server.SentAt
	}
	if server.Body != "" {
		m.Body = server.Body
	}
	m.SeenByPeer = server.SeenByPeer

	s.removeLocked(t, i)
	delete(s.ids, placeholder.ID)
	s.insertLocked(t, m)
	t.refreshLast()
	return m
}

func (t *thread) indexOf(id string) int {
	return slices.IndexFunc(t.msgs, func(m chat.Message) bool { return m.ID == id })
}

// refreshLast recomputes the preview after a message moved or vanished. A
// summary-provided preview newer than every local message is kept.
func (t *thread) refreshLast() {
	if len(t.msgs) == 0 {
		if t.conv.HintAsOf.IsZero() {
			t.conv.LastMessageAt = time.Time{}
			t.conv.LastMessagePreview = ""
		}
		return
	}
	last := t.msgs[len(t.msgs)-1]
	if t.conv.HintAsOf.After(last.SentAt) {
		return
	}
	t.conv.LastMessageAt = last.SentAt
	t.conv.LastMessagePreview = chat.Preview(last.Body, PreviewLen)
}
