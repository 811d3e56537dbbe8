package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("live.", 10)
	defer unsub()

	b.Publish(NewEvent(KindLiveConnection, "connected"))

	select {
	case evt := <-ch:
		if evt.Kind != KindLiveConnection {
			t.Errorf("got kind %q, want %s", evt.Kind, KindLiveConnection)
		}
		if evt.Timestamp.IsZero() {
			t.Error("NewEvent did not stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("store.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindLiveMessage})
	b.Publish(Event{Kind: KindStoreChanged})

	select {
	case evt := <-ch:
		if evt.Kind != KindStoreChanged {
			t.Errorf("got kind %q, want %s", evt.Kind, KindStoreChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("live.", 10)
	unsub()

	b.Publish(Event{Kind: KindLiveMessage})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("test.", 1)
	defer unsub()

	b.Publish(Event{Kind: "test.one"})
	b.Publish(Event{Kind: "test.two"})

	evt := <-ch
	if evt.Kind != "test.one" {
		t.Errorf("got %q, want test.one", evt.Kind)
	}
	if got := b.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}
}

func TestLosslessAppliesBackpressure(t *testing.T) {
	b := New()
	ch, unsub := b.SubscribeLossless("live.", 1)
	defer unsub()

	published := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			b.Publish(Event{Kind: KindLiveMessage, Payload: i})
		}
		close(published)
	}()

	for i := 0; i < 5; i++ {
		select {
		case evt := <-ch:
			if evt.Payload.(int) != i {
				t.Fatalf("event %d out of order: %v", i, evt.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
	<-published
	if got := b.Dropped(); got != 0 {
		t.Errorf("Dropped() = %d, want 0", got)
	}
}

func TestLosslessUnsubscribeReleasesPublisher(t *testing.T) {
	b := New()
	_, unsub := b.SubscribeLossless("live.", 0)

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Kind: KindLiveMessage})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	unsub()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher still blocked after unsubscribe")
	}
}

func TestSubscribeWhilePublisherBlocked(t *testing.T) {
	b := New()
	ch, unsub := b.SubscribeLossless("live.", 0)
	defer unsub()

	go b.Publish(Event{Kind: KindLiveMessage})
	time.Sleep(20 * time.Millisecond)

	subscribed := make(chan struct{})
	go func() {
		_, unsub2 := b.Subscribe("store.", 1)
		unsub2()
		close(subscribed)
	}()
	select {
	case <-subscribed:
	case <-time.After(time.Second):
		t.Fatal("Subscribe blocked behind a pending lossless delivery")
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("lossless event never delivered")
	}
}
