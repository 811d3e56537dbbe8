package remote

import (
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// ConversationDTO is one entry of GET /api/conversations. Times are Unix
// milliseconds.
type ConversationDTO struct {
	Key             string      `json:"key"`
	OtherUserID     chat.UserID `json:"otherUserId"`
	OtherUserName   string      `json:"otherUserName"`
	LastMessageText string      `json:"lastMessageText"`
	LastMessageAt   int64       `json:"lastMessageAt"`
	UnreadCount     int         `json:"unreadCount"`
}

// Summary converts the DTO into the store's summary type.
func (c ConversationDTO) Summary() chat.Summary {
	var at time.Time
	if c.LastMessageAt > 0 {
		at = time.UnixMilli(c.LastMessageAt)
	}
	return chat.Summary{
		Key:                chat.Key(c.Key),
		OtherUserID:        c.OtherUserID,
		OtherName:          c.OtherUserName,
		LastMessagePreview: c.LastMessageText,
		LastMessageAt:      at,
		UnreadCount:        c.UnreadCount,
	}
}

// MessageDTO is a stored message as returned by the backend.
type MessageDTO struct {
	ID          string      `json:"id"`
	SenderID    chat.UserID `json:"senderId"`
	ReceiverID  chat.UserID `json:"receiverId"`
	Text        string      `json:"text"`
	SentAt      int64       `json:"sentAt"`
	ClientMsgID string      `json:"clientMsgId,omitempty"`
	Read        bool        `json:"read"`
}

// Message converts the DTO into a confirmed message as seen by self. The
// client message id becomes the temp id so a late copy still matches its
// placeholder. Read marks own messages as seen by the peer; on incoming
// messages it is self's read state, which History reports instead.
func (m MessageDTO) Message(self chat.UserID) chat.Message {
	msg := chat.Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Text,
		SentAt:     time.UnixMilli(m.SentAt),
		State:      chat.Confirmed,
		SeenByPeer: m.Read && m.SenderID == self,
	}
	if chat.IsTempID(m.ClientMsgID) {
		msg.TempID = m.ClientMsgID
	}
	return msg
}

// SendRequest is the body of POST /api/messages.
type SendRequest struct {
	ReceiverID  chat.UserID `json:"receiverId"`
	Body        string      `json:"body"`
	ClientMsgID string      `json:"clientMsgId"`
}

// ReadRequest is the body of POST /api/conversations/{key}/read.
type ReadRequest struct {
	UpTo int64 `json:"upTo"`
}

// ErrorDTO is the body of every non-2xx response.
type ErrorDTO struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}
