package chat

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeliveryState is the lifecycle of a message from the local point of view.
type DeliveryState int

const (
	// Pending messages were sent locally and are awaiting server confirmation.
	Pending DeliveryState = iota + 1
	// Confirmed messages carry a server-assigned id.
	Confirmed
	// Failed messages could not be delivered; body and temp id are kept for retry.
	Failed
)

func (s DeliveryState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("DeliveryState(%d)", int(s))
	}
}

// ParseDeliveryState is the inverse of DeliveryState.String.
func ParseDeliveryState(s string) (DeliveryState, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "confirmed":
		return Confirmed, nil
	case "failed":
		return Failed, nil
	default:
		return 0, fmt.Errorf("unknown delivery state %q", s)
	}
}

// TempIDPrefix marks client-generated message ids.
const TempIDPrefix = "tmp-"

// IsTempID reports whether id was generated locally.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Message is a single chat message between two users.
type Message struct {
	// ID is the server id once confirmed, the temp id before that.
	ID string
	// TempID is the client-generated id the message was sent with. Empty for
	// messages that did not originate from this client.
	TempID     string
	SenderID   UserID
	ReceiverID UserID
	Body       string
	SentAt     time.Time
	State      DeliveryState
	// FailReason is set while State is Failed.
	FailReason string
	// SeenByPeer is set once the receiver acknowledged reading it.
	SeenByPeer bool
}

// Key returns the conversation the message belongs to.
func (m *Message) Key() Key {
	return KeyFor(m.SenderID, m.ReceiverID)
}

// Position returns the ordering position of the message.
func (m *Message) Position() Position {
	return Position{At: m.SentAt, ID: m.ID}
}

// Conversation is the summary of a two-party thread.
type Conversation struct {
	Key                Key
	OtherUserID        UserID
	OtherName          string
	LastMessagePreview string
	LastMessageAt      time.Time
	// UnreadCount is filled from the unread tracker when presenting.
	UnreadCount int
	// UnreadHint is the server-reported unread count at HintAsOf. It stands in
	// for messages whose history has not been loaded yet.
	UnreadHint int
	HintAsOf   time.Time
	// HistoryLoadedAt is zero until the message history was fetched.
	HistoryLoadedAt time.Time
}

// HistoryLoaded reports whether the message history was fetched at least once.
func (c *Conversation) HistoryLoaded() bool {
	return !c.HistoryLoadedAt.IsZero()
}

// DisplayName returns the other party's name, falling back to the user id.
func (c *Conversation) DisplayName() string {
	if c.OtherName != "" {
		return c.OtherName
	}
	return "User " + c.OtherUserID.String()
}

// Summary is a conversation as reported by the backend conversation list.
type Summary struct {
	Key                Key
	OtherUserID        UserID
	OtherName          string
	LastMessagePreview string
	LastMessageAt      time.Time
	UnreadCount        int
}

// History is one conversation's messages as fetched from the backend.
type History struct {
	Messages []Message
	// ReadUpTo is the send time of the newest incoming message the backend
	// reports as read by this user. Zero when there is none.
	ReadUpTo time.Time
}

// Position orders messages within a conversation: by time, then by id.
type Position struct {
	At time.Time
	ID string
}

// Compare returns -1, 0 or 1.
func (p Position) Compare(o Position) int {
	if c := p.At.Compare(o.At); c != 0 {
		return c
	}
	return CompareIDs(p.ID, o.ID)
}

// After reports whether p sorts strictly after o.
func (p Position) After(o Position) bool {
	return p.Compare(o) > 0
}

// IsZero reports whether p is the position before every message.
func (p Position) IsZero() bool {
	return p.At.IsZero() && p.ID == ""
}

// CompareIDs orders message ids. Numeric server ids sort by value and before
// every other id; the rest, such as temp ids, sort lexically.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseUint(a, 10, 64)
	bi, bErr := strconv.ParseUint(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Preview truncates body for conversation list display.
func Preview(body string, maxRunes int) string {
	r := []rune(body)
	if len(r) <= maxRunes {
		return body
	}
	return string(r[:maxRunes])
}
