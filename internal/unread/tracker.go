// Package unread derives per-conversation and global unread counts from the
// message store and read acknowledgements.
//
// A conversation's count is always
//
//	hint (if the read watermark is older than the hint) +
//	incoming confirmed messages after the watermark and newer than the hint
//
// where the hint is the server-reported count for history not loaded yet.
// The incremental updates below and Recompute evaluate the same rule, so the
// index can be rebuilt from scratch at any time.
package unread

import (
	"fmt"
	"sync"
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// endOfInstant sorts after every message id at the same timestamp.
const endOfInstant = "\uffff"

// Source is the read-only view of the message store the tracker derives from.
type Source interface {
	Self() chat.UserID
	Conversation(key chat.Key) (chat.Conversation, bool)
	Conversations() []chat.Conversation
	Messages(key chat.Key) []chat.Message
	LastPosition(key chat.Key) chat.Position
}

// Acknowledger forwards read acknowledgements to the backend. Delivery is
// fire and forget: a lost acknowledgement only delays the remote count.
type Acknowledger interface {
	Acknowledge(key chat.Key, upTo chat.Position)
}

// Tracker maintains unread counts incrementally.
type Tracker struct {
	mu         sync.Mutex
	src        Source
	ack        Acknowledger
	active     chat.Key
	counts     map[chat.Key]int
	watermarks map[chat.Key]chat.Position
	total      int
}

// NewTracker creates a tracker over src. ack may be nil.
func NewTracker(src Source, ack Acknowledger) *Tracker {
	return &Tracker{
		src:        src,
		ack:        ack,
		counts:     make(map[chat.Key]int),
		watermarks: make(map[chat.Key]chat.Position),
	}
}

// OnMessageAppended accounts for a message that was just added to the store.
// Messages in the active conversation are read on arrival.
func (t *Tracker) OnMessageAppended(msg chat.Message, isOwn bool) {
	if isOwn {
		return
	}
	key := msg.Key()

	t.mu.Lock()
	conv, _ := t.src.Conversation(key)
	if !countable(msg, t.src.Self(), conv, t.watermarks[key]) {
		t.mu.Unlock()
		return
	}
	if key != t.active {
		t.counts[key]++
		t.total++
		t.mu.Unlock()
		return
	}
	pos := msg.Position()
	t.watermarks[key] = pos
	t.mu.Unlock()

	t.acknowledge(key, pos)
}

// OnConversationOpened marks key as the conversation being viewed, clears
// its count and acknowledges everything in it as read.
func (t *Tracker) OnConversationOpened(key chat.Key) {
	t.mu.Lock()
	t.active = key
	w := t.src.LastPosition(key)
	if conv, ok := t.src.Conversation(key); ok && w.At.Before(conv.HintAsOf) {
		w = chat.Position{At: conv.HintAsOf, ID: endOfInstant}
	}
	if w.After(t.watermarks[key]) {
		t.watermarks[key] = w
	} else {
		w = t.watermarks[key]
	}
	t.total -= t.counts[key]
	delete(t.counts, key)
	t.mu.Unlock()

	if !w.IsZero() {
		t.acknowledge(key, w)
	}
}

// OnConversationClosed clears the active conversation. Counting resumes for
// messages arriving afterwards.
func (t *Tracker) OnConversationClosed() {
	t.mu.Lock()
	t.active = ""
	t.mu.Unlock()
}

// Active returns the conversation currently viewed, if any.
func (t *Tracker) Active() chat.Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// OnReadElsewhere applies a read receipt the user produced on another device.
func (t *Tracker) OnReadElsewhere(key chat.Key, upTo time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := chat.Position{At: upTo, ID: endOfInstant}
	if w.After(t.watermarks[key]) {
		t.watermarks[key] = w
	}
	t.reseedLocked(key)
}

// Reseed recomputes one conversation after its summary or history changed.
func (t *Tracker) Reseed(key chat.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reseedLocked(key)
}

// Count returns the unread count of one conversation.
func (t *Tracker) Count(key chat.Key) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[key]
}

// Total returns the global unread count.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Counts returns a copy of the per-conversation counts. Conversations with
// nothing unread are omitted.
func (t *Tracker) Counts() map[chat.Key]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[chat.Key]int, len(t.counts))
	for k, n := range t.counts {
		out[k] = n
	}
	return out
}

// Recompute derives every count from scratch without touching the
// incremental state.
func (t *Tracker) Recompute() (map[chat.Key]int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recomputeLocked()
}

// Verify checks the incremental state against a full recompute and the
// total against the sum of per-conversation counts.
func (t *Tracker) Verify() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := 0
	for _, n := range t.counts {
		sum += n
	}
	if sum != t.total {
		return fmt.Errorf("unread total %d != sum of conversations %d", t.total, sum)
	}
	counts, total := t.recomputeLocked()
	if total != t.total {
		return fmt.Errorf("unread total %d, recomputed %d", t.total, total)
	}
	for k, n := range counts {
		if t.counts[k] != n {
			return fmt.Errorf("unread %s = %d, recomputed %d", k, t.counts[k], n)
		}
	}
	for k, n := range t.counts {
		if _, ok := counts[k]; !ok && n != 0 {
			return fmt.Errorf("unread %s = %d, recomputed 0", k, n)
		}
	}
	return nil
}

func (t *Tracker) recomputeLocked() (map[chat.Key]int, int) {
	counts := make(map[chat.Key]int)
	total := 0
	for _, conv := range t.src.Conversations() {
		if n := t.countLocked(conv); n > 0 {
			counts[conv.Key] = n
			total += n
		}
	}
	return counts, total
}

func (t *Tracker) reseedLocked(key chat.Key) {
	conv, ok := t.src.Conversation(key)
	n := 0
	if ok {
		n = t.countLocked(conv)
	}
	t.total += n - t.counts[key]
	if n == 0 {
		delete(t.counts, key)
	} else {
		t.counts[key] = n
	}
}

func (t *Tracker) countLocked(conv chat.Conversation) int {
	w := t.watermarks[conv.Key]
	self := t.src.Self()
	n := 0
	if conv.UnreadHint > 0 && w.At.Before(conv.HintAsOf) {
		n += conv.UnreadHint
	}
	for _, m := range t.src.Messages(conv.Key) {
		if countable(m, self, conv, w) {
			n++
		}
	}
	return n
}

func (t *Tracker) acknowledge(key chat.Key, upTo chat.Position) {
	if t.ack != nil {
		t.ack.Acknowledge(key, upTo)
	}
}

// countable is the per-message half of the unread rule.
func countable(m chat.Message, self chat.UserID, conv chat.Conversation, watermark chat.Position) bool {
	return m.SenderID != self &&
		m.State == chat.Confirmed &&
		m.Position().After(watermark) &&
		m.SentAt.After(conv.HintAsOf)
}
