// Package status holds the process-wide connection state of the live channel.
package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/fixitnow/chatsync/internal/bus"
)

// State is the connection state of the live channel.
type State string

const (
	Disconnected State = "DISCONNECTED"
	Connecting   State = "CONNECTING"
	Connected    State = "CONNECTED"
	Reconnecting State = "RECONNECTING"
)

// validTransitions defines allowed state transitions. Disconnected is not
// terminal: a new connect starts over from Connecting.
var validTransitions = map[State][]State{
	Disconnected: {Connecting},
	Connecting:   {Connected, Disconnected},
	Connected:    {Reconnecting, Disconnected},
	Reconnecting: {Connected, Disconnected},
}

// ParseState is the inverse of State's string value.
func ParseState(s string) (State, error) {
	st := State(s)
	if _, ok := validTransitions[st]; !ok {
		return "", fmt.Errorf("unknown connection state %q", s)
	}
	return st, nil
}

// Machine tracks and enforces connection state transitions. Only the
// transport adapter transitions it; everyone else reads.
type Machine struct {
	mu      sync.RWMutex
	current State
	reason  string
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Disconnected state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Disconnected,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reason returns why the machine last moved, e.g. the error that caused a
// disconnect. Empty after a successful handshake.
func (m *Machine) Reason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State, reason string) error {
	announce, err := m.Begin(to, reason)
	if err != nil {
		return err
	}
	announce()
	return nil
}

// Begin moves to a new state like Transition but leaves publishing the change
// to the returned func, for callers that must release their own locks first.
func (m *Machine) Begin(to State, reason string) (announce func(), err error) {
	m.mu.Lock()
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		from := m.current
		m.mu.Unlock()
		return nil, fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	change := Change{From: m.current, To: to, Reason: reason}
	m.current = to
	m.reason = reason
	m.mu.Unlock()

	// Lossless subscribers may read Current while handling the event.
	return func() {
		if m.bus != nil {
			m.bus.Publish(bus.NewEvent(bus.KindLiveConnection, change))
		}
	}, nil
}

// Change is the payload for connection change events.
type Change struct {
	From   State
	To     State
	Reason string
}
