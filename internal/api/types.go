package api

import (
	chatsyncv1 "github.com/fixitnow/chatsync/gen/chatsync/v1"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/status"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
)

func toMessage(m chat.Message) *chatsyncv1.Message {
	return &chatsyncv1.Message{
		Id:              m.ID,
		TempId:          m.TempID,
		SenderId:        int64(m.SenderID),
		ReceiverId:      int64(m.ReceiverID),
		Body:            m.Body,
		SentAtUnixMs:    m.SentAt.UnixMilli(),
		State:           m.State.String(),
		FailReason:      m.FailReason,
		SeenByPeer:      m.SeenByPeer,
		ConversationKey: string(m.Key()),
	}
}

func toMessages(msgs []chat.Message) []*chatsyncv1.Message {
	out := make([]*chatsyncv1.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessage(m))
	}
	return out
}

func toConversations(convs []chat.Conversation) []*chatsyncv1.Conversation {
	out := make([]*chatsyncv1.Conversation, 0, len(convs))
	for _, c := range convs {
		var last int64
		if !c.LastMessageAt.IsZero() {
			last = c.LastMessageAt.UnixMilli()
		}
		out = append(out, &chatsyncv1.Conversation{
			Key:                string(c.Key),
			OtherUserId:        int64(c.OtherUserID),
			DisplayName:        c.DisplayName(),
			LastMessagePreview: c.LastMessagePreview,
			LastMessageUnixMs:  last,
			UnreadCount:        int32(c.UnreadCount),
		})
	}
	return out
}

func toSnapshot(s chatsync.Snapshot) *chatsyncv1.SnapshotResponse {
	return &chatsyncv1.SnapshotResponse{
		Self:          int64(s.Self),
		Conversations: toConversations(s.Conversations),
		Active:        string(s.Active),
		Messages:      toMessages(s.Messages),
		Connection:    string(s.Connection),
		UnreadTotal:   int32(s.UnreadTotal),
	}
}

func toChangeEvent(c chatsync.Change) *chatsyncv1.ChangeEvent {
	return &chatsyncv1.ChangeEvent{
		Conversations: toConversations(c.Conversations),
		Confirmed:     toMessages(c.Confirmed),
		UnreadTotal:   int32(c.UnreadTotal),
	}
}

func toConnectionChange(c status.Change) *chatsyncv1.ConnectionChange {
	return &chatsyncv1.ConnectionChange{From: string(c.From), To: string(c.To), Reason: c.Reason}
}
