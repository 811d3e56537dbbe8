package store

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

const (
	alice chat.UserID = 3
	bob   chat.UserID = 7
)

var key37 = chat.KeyFor(alice, bob)

func at(ms int64) time.Time { return time.UnixMilli(ms) }

func confirmed(id string, from, to chat.UserID, body string, ms int64) chat.Message {
	return chat.Message{ID: id, SenderID: from, ReceiverID: to, Body: body, SentAt: at(ms), State: chat.Confirmed}
}

func pending(tempID string, body string, ms int64) chat.Message {
	return chat.Message{ID: tempID, SenderID: alice, ReceiverID: bob, Body: body, SentAt: at(ms), State: chat.Pending}
}

func bodies(msgs []chat.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func mustAppend(t *testing.T, s *Store, m chat.Message) bool {
	t.Helper()
	ok, err := s.Append(m.Key(), m)
	if err != nil {
		t.Fatalf("Append(%s) error = %v", m.ID, err)
	}
	return ok
}

func TestAppendCreatesConversation(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, confirmed("1", bob, alice, "hello", 1000))

	conv, ok := s.Conversation(key37)
	if !ok {
		t.Fatal("conversation not created")
	}
	if conv.OtherUserID != bob {
		t.Errorf("OtherUserID = %d, want %d", conv.OtherUserID, bob)
	}
	if conv.LastMessagePreview != "hello" || !conv.LastMessageAt.Equal(at(1000)) {
		t.Errorf("last = %q@%v, want hello@1000", conv.LastMessagePreview, conv.LastMessageAt)
	}
}

func TestAppendOrdersByTimestampThenID(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, confirmed("3", bob, alice, "c", 3000))
	mustAppend(t, s, confirmed("1", alice, bob, "a", 1000))
	mustAppend(t, s, confirmed("10", bob, alice, "e", 2000))
	mustAppend(t, s, confirmed("9", bob, alice, "d", 2000))

	got := bodies(s.Messages(key37))
	want := []string{"a", "d", "e", "c"}
	if !slicesEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAppendMixedIDsAtSameInstant(t *testing.T) {
	orders := [][]string{
		{"9", "10", "1a"},
		{"1a", "10", "9"},
		{"10", "1a", "9"},
		{"1a", "9", "10"},
	}
	for _, ids := range orders {
		s := New(alice)
		for _, id := range ids {
			mustAppend(t, s, confirmed(id, bob, alice, id, 2000))
		}
		got := bodies(s.Messages(key37))
		want := []string{"9", "10", "1a"}
		if !slicesEqual(got, want) {
			t.Errorf("insert order %v: order = %v, want %v", ids, got, want)
		}
	}
}

func TestAppendDuplicateIsNoop(t *testing.T) {
	s := New(alice)
	if !mustAppend(t, s, confirmed("42", bob, alice, "v1", 1000)) {
		t.Fatal("first append reported no-op")
	}
	if mustAppend(t, s, confirmed("42", bob, alice, "v2", 1000)) {
		t.Error("duplicate append reported insert")
	}
	msgs := s.Messages(key37)
	if len(msgs) != 1 || msgs[0].Body != "v1" {
		t.Errorf("messages = %v, want single v1", bodies(msgs))
	}
}

func TestAppendRejectsMismatchedKey(t *testing.T) {
	s := New(alice)
	m := confirmed("1", bob, alice, "x", 1000)
	if _, err := s.Append(chat.KeyFor(alice, 9), m); err == nil {
		t.Error("expected error for key mismatch")
	}
	if _, err := s.Append(chat.KeyFor(8, 9), confirmed("2", 8, 9, "x", 1000)); err == nil {
		t.Error("expected error for conversation not involving self")
	}
	bad := pending("42", "x", 1000)
	if _, err := s.Append(bad.Key(), bad); err == nil {
		t.Error("expected error for pending message with server id")
	}
}

// TestInterleavedDeliveryExactlyOnce feeds the same server messages through
// shuffled live and polled paths and checks each appears exactly once, in order.
func TestInterleavedDeliveryExactlyOnce(t *testing.T) {
	base := []chat.Message{
		confirmed("1", alice, bob, "m1", 1000),
		confirmed("2", bob, alice, "m2", 2000),
		confirmed("3", bob, alice, "m3", 2000),
		confirmed("4", alice, bob, "m4", 5000),
		confirmed("5", bob, alice, "m5", 7000),
	}
	for seed := uint64(0); seed < 50; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7+1))
		var deliveries []chat.Message
		for _, m := range base {
			copies := 1 + r.IntN(3)
			for range copies {
				deliveries = append(deliveries, m)
			}
		}
		r.Shuffle(len(deliveries), func(i, j int) { deliveries[i], deliveries[j] = deliveries[j], deliveries[i] })

		s := New(alice)
		for _, m := range deliveries {
			mustAppend(t, s, m)
		}
		got := bodies(s.Messages(key37))
		want := []string{"m1", "m2", "m3", "m4", "m5"}
		if !slicesEqual(got, want) {
			t.Fatalf("seed %d: order = %v, want %v", seed, got, want)
		}
	}
}

func TestReconcilePendingThenLiveRedelivery(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "hi", 1000))

	got, err := s.ReconcilePending("tmp-1", confirmed("42", alice, bob, "hi", 1005))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "42" || got.State != chat.Confirmed || got.TempID != "tmp-1" {
		t.Errorf("reconciled = %+v", got)
	}

	// The live channel echoes the same message afterwards.
	if mustAppend(t, s, confirmed("42", alice, bob, "hi", 1005)) {
		t.Error("live re-delivery of 42 created a second message")
	}
	msgs := s.Messages(key37)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].ID != "42" || !msgs[0].SentAt.Equal(at(1005)) {
		t.Errorf("message = %+v, want id 42 at server time", msgs[0])
	}
	if _, ok := s.Message("tmp-1"); !ok {
		t.Error("confirmed message should still be found by its temp id")
	}
}

func TestLiveEchoBeforeAck(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "hi", 1000))

	// Echo without a temp id arrives first.
	mustAppend(t, s, confirmed("42", alice, bob, "hi", 1005))
	if n := len(s.Messages(key37)); n != 2 {
		t.Fatalf("got %d messages before ack, want placeholder + echo", n)
	}

	got, err := s.ReconcilePending("tmp-1", confirmed("42", alice, bob, "hi", 1005))
	if err != nil {
		t.Fatal(err)
	}
	msgs := s.Messages(key37)
	if len(msgs) != 1 || msgs[0].ID != "42" {
		t.Fatalf("messages = %+v, want only 42", msgs)
	}
	if got.TempID != "tmp-1" {
		t.Errorf("TempID = %q, want tmp-1 carried onto the confirmed copy", got.TempID)
	}
}

func TestConfirmedWithTempIDReplacesPlaceholder(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-9", "yo", 1000))

	m := confirmed("77", alice, bob, "yo", 1200)
	m.TempID = "tmp-9"
	if !mustAppend(t, s, m) {
		t.Fatal("append reported no-op")
	}
	msgs := s.Messages(key37)
	if len(msgs) != 1 || msgs[0].ID != "77" || msgs[0].State != chat.Confirmed {
		t.Fatalf("messages = %+v, want confirmed 77 only", msgs)
	}
	// A later ack for the same temp id is harmless.
	if _, err := s.ReconcilePending("tmp-9", confirmed("77", alice, bob, "yo", 1200)); err != nil {
		t.Errorf("late reconcile error = %v", err)
	}
	if n := len(s.Messages(key37)); n != 1 {
		t.Errorf("got %d messages after late reconcile, want 1", n)
	}
}

func TestConfirmationRepositions(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "mine", 5000))
	mustAppend(t, s, confirmed("8", bob, alice, "theirs", 4000))

	// Server time puts the message before "theirs".
	if _, err := s.ReconcilePending("tmp-1", confirmed("9", alice, bob, "mine", 3000)); err != nil {
		t.Fatal(err)
	}
	got := bodies(s.Messages(key37))
	if !slicesEqual(got, []string{"mine", "theirs"}) {
		t.Errorf("order = %v, want [mine theirs]", got)
	}
}

func TestMarkFailedKeepsBodyAndTempID(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "keep me", 1000))

	got, err := s.MarkFailed("tmp-1", "network down")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != chat.Failed || got.Body != "keep me" || got.ID != "tmp-1" || got.TempID != "tmp-1" {
		t.Errorf("failed message = %+v", got)
	}
	if got.FailReason != "network down" {
		t.Errorf("FailReason = %q", got.FailReason)
	}
}

func TestMarkFailedAfterConfirmationIsIgnored(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "hi", 1000))
	if _, err := s.ReconcilePending("tmp-1", confirmed("42", alice, bob, "hi", 1000)); err != nil {
		t.Fatal(err)
	}
	got, err := s.MarkFailed("tmp-1", "late timeout")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != chat.Confirmed {
		t.Errorf("state = %v, confirmed message must not fail", got.State)
	}
}

func TestRetryAndDiscard(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, pending("tmp-1", "one", 1000))
	mustAppend(t, s, pending("tmp-2", "two", 2000))

	if _, err := s.MarkPending("tmp-1"); err == nil {
		t.Error("MarkPending on a pending message should fail")
	}
	if _, err := s.Discard("tmp-1"); err == nil {
		t.Error("Discard on a pending message should fail")
	}

	if _, err := s.MarkFailed("tmp-1", "x"); err != nil {
		t.Fatal(err)
	}
	m, err := s.MarkPending("tmp-1")
	if err != nil {
		t.Fatal(err)
	}
	if m.State != chat.Pending || m.FailReason != "" {
		t.Errorf("after retry = %+v", m)
	}

	if _, err := s.MarkFailed("tmp-2", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Discard("tmp-2"); err != nil {
		t.Fatal(err)
	}
	if got := bodies(s.Messages(key37)); !slicesEqual(got, []string{"one"}) {
		t.Errorf("after discard = %v", got)
	}
	conv, _ := s.Conversation(key37)
	if conv.LastMessagePreview != "one" {
		t.Errorf("preview = %q, want one after discarding the newest", conv.LastMessagePreview)
	}
	if _, err := s.Discard("tmp-404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Discard(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestUpsertConversationListPreservesPending(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, confirmed("1", bob, alice, "old", 1000))
	mustAppend(t, s, pending("tmp-1", "not yet on server", 9000))

	keys, err := s.UpsertConversationList([]chat.Summary{
		{Key: key37, OtherName: "Bob", LastMessagePreview: "old", LastMessageAt: at(1000), UnreadCount: 1},
		{Key: chat.KeyFor(alice, 11), OtherName: "Carol", LastMessagePreview: "hey", LastMessageAt: at(5000), UnreadCount: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Errorf("touched %d keys, want 2", len(keys))
	}

	conv, _ := s.Conversation(key37)
	if conv.OtherName != "Bob" {
		t.Errorf("OtherName = %q", conv.OtherName)
	}
	if conv.LastMessagePreview != "not yet on server" {
		t.Errorf("preview = %q, want the newer local pending message", conv.LastMessagePreview)
	}
	if conv.UnreadHint != 1 || !conv.HintAsOf.Equal(at(1000)) {
		t.Errorf("hint = %d@%v", conv.UnreadHint, conv.HintAsOf)
	}
	if n := len(s.Messages(key37)); n != 2 {
		t.Errorf("got %d messages, want pending kept", n)
	}

	convs := s.Conversations()
	if len(convs) != 2 || convs[0].Key != key37 {
		t.Errorf("conversations not ordered by last activity: %+v", convs)
	}
}

func TestUpsertConversationListRejectsForeignKeys(t *testing.T) {
	s := New(alice)
	_, err := s.UpsertConversationList([]chat.Summary{
		{Key: "8-9", LastMessageAt: at(1)},
		{Key: "bogus"},
		{Key: key37, LastMessageAt: at(2)},
	})
	if err == nil {
		t.Error("expected joined error for bad summaries")
	}
	if _, ok := s.Conversation(key37); !ok {
		t.Error("valid summary should still be applied")
	}
	if len(s.Conversations()) != 1 {
		t.Errorf("got %d conversations, want 1", len(s.Conversations()))
	}
}

func TestMarkPeerRead(t *testing.T) {
	s := New(alice)
	mustAppend(t, s, confirmed("1", alice, bob, "a", 1000))
	mustAppend(t, s, confirmed("2", alice, bob, "b", 2000))
	mustAppend(t, s, confirmed("3", bob, alice, "c", 2500))
	mustAppend(t, s, confirmed("4", alice, bob, "d", 3000))

	if n := s.MarkPeerRead(key37, bob, at(2000)); n != 2 {
		t.Errorf("marked %d, want 2", n)
	}
	for _, m := range s.Messages(key37) {
		want := m.ID == "1" || m.ID == "2"
		if m.SeenByPeer != want {
			t.Errorf("message %s SeenByPeer = %v, want %v", m.ID, m.SeenByPeer, want)
		}
	}
}

func TestHistoryLoaded(t *testing.T) {
	s := New(alice)
	s.MarkHistoryLoaded(key37, at(5000))
	conv, ok := s.Conversation(key37)
	if !ok || !conv.HistoryLoaded() {
		t.Error("history should be marked loaded")
	}
	if p := s.LastPosition(key37); !p.IsZero() {
		t.Errorf("LastPosition of empty conversation = %+v", p)
	}
	mustAppend(t, s, confirmed(strconv.Itoa(5), bob, alice, "x", 100))
	if p := s.LastPosition(key37); p.ID != "5" {
		t.Errorf("LastPosition = %+v", p)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
