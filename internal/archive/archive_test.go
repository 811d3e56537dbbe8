package archive

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
)

const (
	alice chat.UserID = 3
	bob   chat.UserID = 7
	carol chat.UserID = 9
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func confirmed(id string, from, to chat.UserID, ms int64, body string) chat.Message {
	return chat.Message{ID: id, SenderID: from, ReceiverID: to, Body: body, SentAt: time.UnixMilli(ms), State: chat.Confirmed}
}

func record(t *testing.T, db *DB, change chatsync.Change) {
	t.Helper()
	r := NewRecorder(db, bus.New(), zaptest.NewLogger(t))
	if err := r.Record(context.Background(), change); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != SchemaVersion {
		t.Errorf("version = %d, want %d", result.Version, SchemaVersion)
	}
}

func TestRecordAndLoad(t *testing.T) {
	db := testDB(t)
	ab := chat.KeyFor(alice, bob)

	record(t, db, chatsync.Change{
		Owner: alice,
		Conversations: []chat.Conversation{{
			Key: ab, OtherUserID: bob, OtherName: "Bob",
			LastMessagePreview: "hello", LastMessageAt: time.UnixMilli(2000),
			UnreadCount: 5, UnreadHint: 5, HintAsOf: time.UnixMilli(2000),
		}},
		Confirmed: []chat.Message{
			confirmed("41", bob, alice, 1000, "hi"),
			confirmed("42", alice, bob, 2000, "hello"),
		},
	})

	convs, msgs, err := db.Load(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	c := convs[0]
	// Unread state is derived, so it does not survive a reload.
	if c.UnreadCount != 0 {
		t.Errorf("reloaded unread = %d, want 0", c.UnreadCount)
	}
	if c.Key != ab || c.OtherName != "Bob" || !c.LastMessageAt.Equal(time.UnixMilli(2000)) {
		t.Errorf("conversation = %+v", c)
	}
	if len(msgs) != 2 || msgs[0].ID != "41" || msgs[1].ID != "42" {
		t.Fatalf("messages = %+v", msgs)
	}
	if msgs[0].State != chat.Confirmed || msgs[0].SenderID != bob {
		t.Errorf("message = %+v", msgs[0])
	}

	other, _, err := db.Load(context.Background(), bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("another owner sees %d conversations", len(other))
	}
}

func TestMessageUpsertIdempotent(t *testing.T) {
	db := testDB(t)

	m := confirmed("41", bob, alice, 1000, "hi")
	record(t, db, chatsync.Change{Owner: alice, Confirmed: []chat.Message{m}})
	m.SeenByPeer = true
	m.TempID = "tmp-x"
	record(t, db, chatsync.Change{Owner: alice, Confirmed: []chat.Message{m}})
	m.SeenByPeer = false
	m.TempID = ""
	record(t, db, chatsync.Change{Owner: alice, Confirmed: []chat.Message{m}})

	msgs, err := db.Messages(context.Background(), alice, m.Key(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (idempotent upsert failed)", len(msgs))
	}
	if !msgs[0].SeenByPeer || msgs[0].TempID != "tmp-x" {
		t.Errorf("message = %+v, want seen flag and temp id kept", msgs[0])
	}
}

func TestRecordRejectsUnconfirmed(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db, bus.New(), zaptest.NewLogger(t))

	pending := chat.Message{ID: "tmp-1", TempID: "tmp-1", SenderID: alice, ReceiverID: bob, Body: "x", SentAt: time.UnixMilli(1), State: chat.Pending}
	if err := r.Record(context.Background(), chatsync.Change{Owner: alice, Confirmed: []chat.Message{pending}}); err == nil {
		t.Fatal("expected error for pending message")
	}
}

func TestMessagesKeepsNewest(t *testing.T) {
	db := testDB(t)
	var msgs []chat.Message
	for i := 1; i <= 5; i++ {
		msgs = append(msgs, confirmed(strconv.Itoa(i), bob, alice, int64(i)*1000, "m"))
	}
	record(t, db, chatsync.Change{Owner: alice, Confirmed: msgs})

	got, err := db.Messages(context.Background(), alice, chat.KeyFor(alice, bob), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "4" || got[1].ID != "5" {
		t.Errorf("messages = %+v, want 4 and 5", got)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	record(t, db, chatsync.Change{Owner: alice, Confirmed: []chat.Message{
		confirmed("1", bob, alice, 1000, "The plumber arrives at noon"),
		confirmed("2", carol, alice, 2000, "plumber is late"),
		confirmed("3", bob, alice, 3000, "100% done"),
		confirmed("4", bob, alice, 4000, "1000 done"),
	}})

	results, err := db.Search(context.Background(), alice, "PLUMBER", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "2" || results[1].ID != "1" {
		t.Errorf("results = %+v", results)
	}

	results, err = db.Search(context.Background(), alice, "100%", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "3" {
		t.Errorf("wildcard not escaped: %+v", results)
	}

	results, err = db.Search(context.Background(), bob, "plumber", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("search crossed owners: %+v", results)
	}
}

func TestRecorderFollowsBus(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	r := NewRecorder(db, b, zaptest.NewLogger(t))
	r.Start()
	t.Cleanup(r.Stop)

	b.Publish(bus.NewEvent(bus.KindStoreChanged, chatsync.Change{
		Owner:     alice,
		Confirmed: []chat.Message{confirmed("9", bob, alice, 9000, "archived")},
	}))
	b.Publish(bus.NewEvent(bus.KindStoreMessageFailed, chat.Message{ID: "tmp-1"}))

	deadline := time.Now().Add(2 * time.Second)
	for {
		msgs, err := db.Messages(context.Background(), alice, chat.KeyFor(alice, bob), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("change was not recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := NewRecorder(testDB(t), bus.New(), zaptest.NewLogger(t))
	r.Stop()
}
