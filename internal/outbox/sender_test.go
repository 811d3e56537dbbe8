package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/store"
	"github.com/fixitnow/chatsync/internal/transport"
)

const (
	alice chat.UserID = 3
	bob   chat.UserID = 7
)

type storeLedger struct{ s *store.Store }

func (l storeLedger) AddPending(m chat.Message) error {
	_, err := l.s.Append(m.Key(), m)
	return err
}

func (l storeLedger) Requeue(tempID string) (chat.Message, error) { return l.s.MarkPending(tempID) }

func (l storeLedger) Confirm(tempID string, server chat.Message) (chat.Message, error) {
	return l.s.ReconcilePending(tempID, server)
}

func (l storeLedger) Fail(tempID, reason string) (chat.Message, error) {
	return l.s.MarkFailed(tempID, reason)
}

// fakeLive answers requests with respond, or never when respond is nil.
type fakeLive struct {
	state   status.State
	respond func(transport.Frame) transport.Frame
}

func (f *fakeLive) State() status.State { return f.state }

func (f *fakeLive) Request(ctx context.Context, fr transport.Frame) (transport.Frame, error) {
	if f.respond == nil {
		<-ctx.Done()
		return transport.Frame{}, &chat.TransientNetworkError{Op: "live send", Err: ctx.Err()}
	}
	return f.respond(fr), nil
}

// fakeREST returns errs in order, then succeeds.
type fakeREST struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (f *fakeREST) SendMessage(_ context.Context, receiverID chat.UserID, body, clientMsgID string) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, clientMsgID)
	if len(f.calls) <= len(f.errs) {
		return chat.Message{}, f.errs[len(f.calls)-1]
	}
	return chat.Message{
		ID: "100", SenderID: alice, ReceiverID: receiverID, Body: body,
		SentAt: time.UnixMilli(9000), State: chat.Confirmed, TempID: clientMsgID,
	}, nil
}

func (f *fakeREST) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func pending(tempID, body string) chat.Message {
	return chat.Message{
		TempID: tempID, SenderID: alice, ReceiverID: bob, Body: body,
		SentAt: time.UnixMilli(1000),
	}
}

func testConfig() Config {
	return Config{AckTimeout: 20 * time.Millisecond, MaxAttempts: 3, InitialBackoff: time.Millisecond}
}

func transient() error {
	return &chat.TransientNetworkError{Op: "POST /api/messages", Err: errors.New("503 Service Unavailable")}
}

func TestSendOverLiveChannel(t *testing.T) {
	st := store.New(alice)
	b := bus.New()
	ch, unsub := b.Subscribe("store.", 10)
	defer unsub()
	live := &fakeLive{state: status.Connected, respond: func(f transport.Frame) transport.Frame {
		return transport.Frame{Type: transport.FramePrivateAck, TempID: f.TempID, ID: "42", From: f.From, To: f.To, Body: f.Body, TS: 2000}
	}}
	rest := &fakeREST{}
	s := NewSender(testConfig(), storeLedger{st}, live, rest, b, zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "42" || got.State != chat.Confirmed || got.TempID != "tmp-1" {
		t.Errorf("confirmed = %+v", got)
	}
	if rest.count() != 0 {
		t.Errorf("REST called %d times, want 0", rest.count())
	}
	if msgs := st.Messages(chat.KeyFor(alice, bob)); len(msgs) != 1 || msgs[0].ID != "42" {
		t.Errorf("store = %+v", msgs)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindStoreMessageConfirmed {
			t.Errorf("event kind = %q, want %s", evt.Kind, bus.KindStoreMessageConfirmed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for confirmation event")
	}
}

func TestSendFallsBackToRESTWithoutAck(t *testing.T) {
	st := store.New(alice)
	live := &fakeLive{state: status.Connected}
	rest := &fakeREST{}
	s := NewSender(testConfig(), storeLedger{st}, live, rest, bus.New(), zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "100" || got.State != chat.Confirmed {
		t.Errorf("confirmed = %+v", got)
	}
	if rest.count() != 1 || rest.calls[0] != "tmp-1" {
		t.Errorf("REST calls = %v, want [tmp-1]", rest.calls)
	}
}

func TestSendRetriesTransientErrors(t *testing.T) {
	st := store.New(alice)
	rest := &fakeREST{errs: []error{transient(), transient()}}
	live := &fakeLive{state: status.Disconnected}
	s := NewSender(testConfig(), storeLedger{st}, live, rest, bus.New(), zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got.State != chat.Confirmed {
		t.Errorf("state = %s, want confirmed", got.State)
	}
	if rest.count() != 3 {
		t.Errorf("REST calls = %d, want 3", rest.count())
	}
	for _, id := range rest.calls {
		if id != "tmp-1" {
			t.Errorf("retry used client id %q, want tmp-1", id)
		}
	}
}

func TestSendFailureKeepsBodyAndTempID(t *testing.T) {
	st := store.New(alice)
	b := bus.New()
	ch, unsub := b.Subscribe(bus.KindStoreMessageFailed, 10)
	defer unsub()
	rest := &fakeREST{errs: []error{transient(), transient(), transient()}}
	s := NewSender(testConfig(), storeLedger{st}, nil, rest, b, zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "don't lose me"))
	if err != nil {
		t.Fatalf("network failure must not be returned, got %v", err)
	}
	if got.State != chat.Failed || got.Body != "don't lose me" || got.TempID != "tmp-1" || got.FailReason == "" {
		t.Errorf("failed = %+v", got)
	}
	if m, ok := st.Message("tmp-1"); !ok || m.State != chat.Failed {
		t.Errorf("store copy = %+v, %v", m, ok)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for failure event")
	}
}

func TestSendAuthErrorIsSurfaced(t *testing.T) {
	st := store.New(alice)
	rest := &fakeREST{errs: []error{&chat.AuthError{Reason: "token expired"}}}
	s := NewSender(testConfig(), storeLedger{st}, nil, rest, bus.New(), zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "hello"))
	if !chat.IsAuth(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if got.State != chat.Failed {
		t.Errorf("state = %s, want failed", got.State)
	}
	if rest.count() != 1 {
		t.Errorf("REST calls = %d, want 1 (auth errors are not retried)", rest.count())
	}
}

func TestRetryAfterFailure(t *testing.T) {
	st := store.New(alice)
	rest := &fakeREST{errs: []error{transient(), transient(), transient()}}
	s := NewSender(testConfig(), storeLedger{st}, nil, rest, bus.New(), zaptest.NewLogger(t))

	if _, err := s.Send(context.Background(), pending("tmp-1", "hello")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Retry(context.Background(), "tmp-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != chat.Confirmed || got.ID != "100" {
		t.Errorf("retried = %+v", got)
	}
	if msgs := st.Messages(chat.KeyFor(alice, bob)); len(msgs) != 1 {
		t.Errorf("store has %d messages, want 1", len(msgs))
	}

	if _, err := s.Retry(context.Background(), "tmp-1"); err == nil {
		t.Error("retrying a confirmed message should fail")
	}
}

func TestConflictConfirmsWithExistingID(t *testing.T) {
	st := store.New(alice)
	rest := &fakeREST{errs: []error{&chat.ConflictError{ID: "77"}}}
	s := NewSender(testConfig(), storeLedger{st}, nil, rest, bus.New(), zaptest.NewLogger(t))

	got, err := s.Send(context.Background(), pending("tmp-1", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "77" || got.State != chat.Confirmed {
		t.Errorf("confirmed = %+v", got)
	}
}
