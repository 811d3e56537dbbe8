package status

import (
	"testing"
	"time"

	"github.com/fixitnow/chatsync/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Disconnected {
		t.Errorf("initial state = %s, want DISCONNECTED", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Disconnected, Connecting},
		{Connecting, Connected},
		{Connecting, Disconnected},
		{Connected, Reconnecting},
		{Connected, Disconnected},
		{Reconnecting, Connected},
		{Reconnecting, Disconnected},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to, ""); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Disconnected, Connected},
		{Disconnected, Reconnecting},
		{Connecting, Reconnecting},
		{Connected, Connecting},
		{Reconnecting, Connecting},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to, ""); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", tt.from, tt.to)
			}
			if m.Current() != tt.from {
				t.Errorf("state = %s, want %s (should not have changed)", m.Current(), tt.from)
			}
		})
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("live.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Connecting, "open"); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindLiveConnection {
			t.Errorf("event kind = %q, want %s", evt.Kind, bus.KindLiveConnection)
		}
		change, ok := evt.Payload.(Change)
		if !ok {
			t.Fatalf("payload type = %T, want Change", evt.Payload)
		}
		if change.From != Disconnected || change.To != Connecting || change.Reason != "open" {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

// TestDisconnectedIsNotTerminal walks a full outage: the reconnect budget
// runs out, then a fresh connect starts over.
func TestDisconnectedIsNotTerminal(t *testing.T) {
	m := NewMachine(nil)
	steps := []State{Connecting, Connected, Reconnecting, Disconnected, Connecting, Connected}
	for _, s := range steps {
		if err := m.Transition(s, ""); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Connected {
		t.Errorf("final state = %s, want CONNECTED", m.Current())
	}
}

func TestReasonTracksLastTransition(t *testing.T) {
	m := NewMachine(nil)
	_ = m.Transition(Connecting, "")
	_ = m.Transition(Disconnected, "unauthenticated: token rejected")
	if got := m.Reason(); got != "unauthenticated: token rejected" {
		t.Errorf("Reason() = %q", got)
	}
}

func TestParseState(t *testing.T) {
	for _, s := range []State{Disconnected, Connecting, Connected, Reconnecting} {
		got, err := ParseState(string(s))
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseState("READY"); err == nil {
		t.Error("expected error for unknown state")
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Disconnected: {},
		Connecting:   {Connecting},
		Connected:    {Connecting, Connected},
		Reconnecting: {Connecting, Connected, Reconnecting},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s, ""); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}

func TestBeginDefersEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("live.", 10)
	defer unsub()

	m := NewMachine(b)
	announce, err := m.Begin(Connecting, "")
	if err != nil {
		t.Fatal(err)
	}
	if m.Current() != Connecting {
		t.Errorf("state = %s, want CONNECTING before announce", m.Current())
	}
	select {
	case evt := <-ch:
		t.Fatalf("event published before announce: %+v", evt)
	default:
	}

	announce()
	select {
	case evt := <-ch:
		if c := evt.Payload.(Change); c.From != Disconnected || c.To != Connecting {
			t.Errorf("change = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no event after announce")
	}

	if _, err := m.Begin(Reconnecting, ""); err == nil {
		t.Error("Begin allowed CONNECTING -> RECONNECTING")
	}
}
