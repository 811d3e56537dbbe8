package archive

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// upsertConversation records the summary of conv for owner. Unread counts are
// not stored; the server list supplies them after a warm start.
func upsertConversation(ctx context.Context, tx *sql.Tx, owner chat.UserID, conv chat.Conversation) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (owner_id, conv_key, other_user_id, other_name, last_message_at, last_message_preview, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, conv_key) DO UPDATE SET
			other_name = COALESCE(NULLIF(excluded.other_name, ''), conversations.other_name),
			last_message_at = excluded.last_message_at,
			last_message_preview = excluded.last_message_preview,
			updated_at = excluded.updated_at`,
		int64(owner), string(conv.Key), int64(conv.OtherUserID), conv.OtherName,
		unixMilli(conv.LastMessageAt), conv.LastMessagePreview, time.Now().UnixMilli())
	return err
}

// Conversations returns the archived conversations of owner, most recent
// first.
func (db *DB) Conversations(ctx context.Context, owner chat.UserID) ([]chat.Summary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT conv_key, other_user_id, other_name, last_message_at, last_message_preview
		FROM conversations
		WHERE owner_id = ?
		ORDER BY last_message_at DESC, conv_key`, int64(owner))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []chat.Summary
	for rows.Next() {
		var (
			s     chat.Summary
			key   string
			other int64
			at    int64
		)
		if err := rows.Scan(&key, &other, &s.OtherName, &at, &s.LastMessagePreview); err != nil {
			return nil, err
		}
		s.Key = chat.Key(key)
		s.OtherUserID = chat.UserID(other)
		s.LastMessageAt = fromMilli(at)
		out = append(out, s)
	}
	return out, rows.Err()
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
