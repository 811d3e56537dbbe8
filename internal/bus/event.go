package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds. Subscribers filter on the prefix before the dot.
const (
	// Live channel, published by the transport adapter.
	KindLiveMessage        = "live.message"
	KindLiveReadReceipt    = "live.read_receipt"
	KindLiveConnection     = "live.connection"
	KindLiveDeliveryFailed = "live.delivery_failed"

	// Message store changes, published by the synchronizer.
	KindStoreChanged          = "store.changed"
	KindStoreMessageConfirmed = "store.message_confirmed"
	KindStoreMessageFailed    = "store.message_failed"
)

// NewEvent stamps an event with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
