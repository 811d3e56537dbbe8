package api

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	chatsyncv1 "github.com/fixitnow/chatsync/gen/chatsync/v1"
	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	"github.com/fixitnow/chatsync/internal/store"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
)

type fakeSync struct {
	mu       sync.Mutex
	openErr  error
	closed   bool
	selected chat.Key
	snap     chatsync.Snapshot
}

func (f *fakeSync) OpenWidget(ctx context.Context) error { return f.openErr }

func (f *fakeSync) CloseWidget() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSync) SelectConversation(ctx context.Context, key chat.Key) ([]chat.Message, error) {
	f.mu.Lock()
	f.selected = key
	f.mu.Unlock()
	return []chat.Message{{ID: "41", SenderID: 7, ReceiverID: 3, Body: "hi", SentAt: time.UnixMilli(1000), State: chat.Confirmed}}, nil
}

func (f *fakeSync) SendMessage(ctx context.Context, receiverID chat.UserID, body string) (chat.Message, error) {
	if body == "" {
		return chat.Message{}, &chat.ValidationError{Field: "body", Reason: "message is empty"}
	}
	return chat.Message{ID: "tmp-1", TempID: "tmp-1", SenderID: 3, ReceiverID: receiverID, Body: body, State: chat.Failed, FailReason: "offline"}, nil
}

func (f *fakeSync) RetryMessage(ctx context.Context, tempID string) (chat.Message, error) {
	return chat.Message{}, chat.ErrNoIdentity
}

func (f *fakeSync) DiscardMessage(tempID string) (chat.Message, error) {
	return chat.Message{}, store.ErrNotFound
}

func (f *fakeSync) Snapshot() chatsync.Snapshot { return f.snap }

func (f *fakeSync) state() (chat.Key, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, f.closed
}

func (f *fakeSync) Search(ctx context.Context, query string) ([]chat.Message, error) {
	return nil, errors.New("disk on fire")
}

func startServer(t *testing.T, fs *fakeSync, b *bus.Bus) chatsyncv1.WidgetClient {
	t.Helper()
	dir, err := os.MkdirTemp("", "api")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	sock := filepath.Join(dir, "w.sock")

	lis, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	srv := grpc.NewServer()
	chatsyncv1.RegisterWidgetServer(srv, NewWidgetService(fs, b, zaptest.NewLogger(t)))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := Dial(sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c.Widget
}

func TestOpenWidgetReturnsSnapshot(t *testing.T) {
	fs := &fakeSync{snap: chatsync.Snapshot{
		Self: 3,
		Conversations: []chat.Conversation{{
			Key: "3-7", OtherUserID: 7, LastMessagePreview: "hi",
			LastMessageAt: time.UnixMilli(1000), UnreadCount: 1,
		}},
		Connection:  status.Connected,
		UnreadTotal: 1,
	}}
	c := startServer(t, fs, bus.New())

	snap, err := c.OpenWidget(context.Background(), &chatsyncv1.OpenWidgetRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Self != 3 || snap.Connection != "CONNECTED" || snap.UnreadTotal != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Conversations) != 1 {
		t.Fatalf("conversations = %+v", snap.Conversations)
	}
	conv := snap.Conversations[0]
	if conv.DisplayName != "User 7" || conv.LastMessageUnixMs != 1000 || conv.UnreadCount != 1 {
		t.Errorf("conversation = %+v", conv)
	}
}

func TestUnaryCalls(t *testing.T) {
	fs := &fakeSync{}
	c := startServer(t, fs, bus.New())
	ctx := context.Background()

	resp, err := c.SelectConversation(ctx, &chatsyncv1.SelectConversationRequest{Key: "7-3"})
	if err != nil {
		t.Fatal(err)
	}
	msgs := resp.GetMessages()
	if len(msgs) != 1 || msgs[0].ConversationKey != "3-7" || msgs[0].State != "confirmed" {
		t.Errorf("messages = %+v", msgs)
	}
	if selected, _ := fs.state(); selected != "7-3" {
		t.Errorf("selected = %q", selected)
	}

	sent, err := c.SendMessage(ctx, &chatsyncv1.SendMessageRequest{ReceiverId: 7, Body: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	m := sent.GetMessage()
	if m.State != "failed" || m.TempId != "tmp-1" || m.Body != "hello" || m.FailReason != "offline" {
		t.Errorf("sent = %+v", m)
	}

	if _, err := c.CloseWidget(ctx, &chatsyncv1.Empty{}); err != nil {
		t.Fatal(err)
	}
	if _, closed := fs.state(); !closed {
		t.Error("CloseWidget did not reach the synchronizer")
	}
}

func TestErrorCodes(t *testing.T) {
	fs := &fakeSync{openErr: &chat.AuthError{Reason: "token expired"}}
	c := startServer(t, fs, bus.New())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"auth on open", func() error { _, err := c.OpenWidget(ctx, &chatsyncv1.OpenWidgetRequest{}); return err }, codes.Unauthenticated},
		{"validation", func() error { _, err := c.SendMessage(ctx, &chatsyncv1.SendMessageRequest{ReceiverId: 7}); return err }, codes.InvalidArgument},
		{"no identity", func() error { _, err := c.RetryMessage(ctx, &chatsyncv1.TempIdRequest{TempId: "tmp-1"}); return err }, codes.Unauthenticated},
		{"not found", func() error { _, err := c.DiscardMessage(ctx, &chatsyncv1.TempIdRequest{TempId: "tmp-1"}); return err }, codes.NotFound},
		{"other", func() error { _, err := c.Search(ctx, &chatsyncv1.SearchRequest{Query: "x"}); return err }, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grpcstatus.Code(tt.call()); got != tt.want {
				t.Errorf("code = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWatchStreamsChanges(t *testing.T) {
	b := bus.New()
	c := startServer(t, &fakeSync{}, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := c.Watch(ctx, &chatsyncv1.WatchRequest{})
	if err != nil {
		t.Fatal(err)
	}

	// The subscription is set up asynchronously on the server; publish until
	// the first event comes through.
	got := make(chan *chatsyncv1.Event, 1)
	go func() {
		evt, err := stream.Recv()
		if err == nil {
			got <- evt
		}
	}()
	change := chatsync.Change{
		Owner:         3,
		Conversations: []chat.Conversation{{Key: "3-7", OtherUserID: 7, OtherName: "Bob", UnreadCount: 2}},
		UnreadTotal:   2,
	}
	deadline := time.After(2 * time.Second)
	for {
		b.Publish(bus.NewEvent(bus.KindStoreChanged, change))
		select {
		case evt := <-got:
			if evt.Kind != bus.KindStoreChanged || evt.Change == nil || evt.Id == "" {
				t.Fatalf("event = %+v", evt)
			}
			if evt.Change.UnreadTotal != 2 || evt.Change.Conversations[0].DisplayName != "Bob" {
				t.Errorf("change = %+v", evt.Change)
			}
			return
		case <-deadline:
			t.Fatal("no event received")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatchStreamsConnectionChanges(t *testing.T) {
	b := bus.New()
	c := startServer(t, &fakeSync{}, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := c.Watch(ctx, &chatsyncv1.WatchRequest{})
	if err != nil {
		t.Fatal(err)
	}
	got := make(chan *chatsyncv1.Event, 1)
	go func() {
		evt, err := stream.Recv()
		if err == nil {
			got <- evt
		}
	}()
	deadline := time.After(2 * time.Second)
	for {
		b.Publish(bus.NewEvent(bus.KindLiveConnection, status.Change{From: status.Connecting, To: status.Connected}))
		select {
		case evt := <-got:
			if evt.Connection == nil || evt.Connection.To != "CONNECTED" {
				t.Fatalf("event = %+v", evt)
			}
			return
		case <-deadline:
			t.Fatal("no event received")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatchStreamsFailedSends(t *testing.T) {
	b := bus.New()
	c := startServer(t, &fakeSync{}, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := c.Watch(ctx, &chatsyncv1.WatchRequest{})
	if err != nil {
		t.Fatal(err)
	}
	got := make(chan *chatsyncv1.Event, 1)
	go func() {
		evt, err := stream.Recv()
		if err == nil {
			got <- evt
		}
	}()
	failed := chat.Message{
		ID: "tmp-9", TempID: "tmp-9", SenderID: 3, ReceiverID: 7, Body: "hello",
		SentAt: time.UnixMilli(2000), State: chat.Failed, FailReason: "ack timeout",
	}
	deadline := time.After(2 * time.Second)
	for {
		b.Publish(bus.NewEvent(bus.KindStoreMessageFailed, failed))
		select {
		case evt := <-got:
			if evt.Kind != bus.KindStoreMessageFailed || evt.Message == nil {
				t.Fatalf("event = %+v", evt)
			}
			m := evt.Message
			if m.TempId != "tmp-9" || m.State != "failed" || m.FailReason != "ack timeout" || m.ConversationKey != "3-7" {
				t.Errorf("message = %+v", m)
			}
			return
		case <-deadline:
			t.Fatal("no event received")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
