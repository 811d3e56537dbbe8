package transport

import (
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// FrameType identifies a live channel frame.
type FrameType string

const (
	// FrameHello is the server handshake ack; From carries the authenticated user.
	FrameHello FrameType = "hello"
	// FramePrivate carries a stored message, both from and to the server.
	FramePrivate FrameType = "private"
	// FramePrivateAck confirms a private frame sent by this client.
	FramePrivateAck FrameType = "private_ack"
	// FrameRead acknowledges reading a conversation up to UpTo.
	FrameRead FrameType = "read"
	// FrameReadReceipt tells participants that Reader read Key up to UpTo.
	FrameReadReceipt FrameType = "read_receipt"
	// FrameError reports a rejected frame, matched to a send by TempID.
	FrameError FrameType = "error"
)

// Error codes carried by error frames.
const (
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeSendFailed   = "send_failed"
	ErrCodeDisconnected = "disconnected"
)

// Frame is the JSON envelope exchanged over the live channel. Timestamps are
// Unix milliseconds.
type Frame struct {
	Type   FrameType   `json:"type"`
	ID     string      `json:"id,omitempty"`
	TempID string      `json:"tempId,omitempty"`
	From   chat.UserID `json:"from,omitempty"`
	To     chat.UserID `json:"to,omitempty"`
	Body   string      `json:"body,omitempty"`
	TS     int64       `json:"ts,omitempty"`
	Key    chat.Key    `json:"key,omitempty"`
	Reader chat.UserID `json:"reader,omitempty"`
	UpTo   int64       `json:"upTo,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// PrivateFrame builds the frame sending msg over the live channel.
func PrivateFrame(msg chat.Message) Frame {
	return Frame{
		Type:   FramePrivate,
		TempID: msg.TempID,
		From:   msg.SenderID,
		To:     msg.ReceiverID,
		Body:   msg.Body,
		TS:     msg.SentAt.UnixMilli(),
	}
}

// ReadAckFrame builds a read acknowledgement for key up to upTo.
func ReadAckFrame(key chat.Key, upTo time.Time) Frame {
	return Frame{Type: FrameRead, Key: key, UpTo: upTo.UnixMilli()}
}

// Message converts a private or private_ack frame into a confirmed message.
func (f Frame) Message() chat.Message {
	return chat.Message{
		ID:         f.ID,
		TempID:     f.TempID,
		SenderID:   f.From,
		ReceiverID: f.To,
		Body:       f.Body,
		SentAt:     time.UnixMilli(f.TS),
		State:      chat.Confirmed,
	}
}

// ReadReceipt is the payload of live.read_receipt events.
type ReadReceipt struct {
	Key    chat.Key
	Reader chat.UserID
	UpTo   time.Time
}

// DeliveryFailure is the payload of live.delivery_failed events.
type DeliveryFailure struct {
	Frame  Frame
	Reason string
}
