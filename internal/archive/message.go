package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fixitnow/chatsync/internal/chat"
)

// LoadLimit is how many of the newest messages per conversation a warm start
// reads back.
const LoadLimit = 200

// upsertMessage stores a confirmed message, idempotent on (owner, id).
func upsertMessage(ctx context.Context, tx *sql.Tx, owner chat.UserID, m chat.Message) error {
	if m.State != chat.Confirmed {
		return fmt.Errorf("archive %s: only confirmed messages are archived, got %s", m.ID, m.State)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO messages (owner_id, msg_id, conv_key, temp_id, sender_id, receiver_id, body, sent_at, seen_by_peer, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, msg_id) DO UPDATE SET
			temp_id = COALESCE(NULLIF(excluded.temp_id, ''), messages.temp_id),
			seen_by_peer = MAX(messages.seen_by_peer, excluded.seen_by_peer)`,
		int64(owner), m.ID, string(m.Key()), m.TempID, int64(m.SenderID), int64(m.ReceiverID),
		m.Body, m.SentAt.UnixMilli(), m.SeenByPeer, time.Now().UnixMilli())
	return err
}

// Messages returns up to limit of the newest archived messages of key,
// oldest first.
func (db *DB) Messages(ctx context.Context, owner chat.UserID, key chat.Key, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = LoadLimit
	}
	rows, err := db.QueryContext(ctx, `
		SELECT msg_id, temp_id, sender_id, receiver_id, body, sent_at, seen_by_peer
		FROM (
			SELECT * FROM messages
			WHERE owner_id = ? AND conv_key = ?
			ORDER BY sent_at DESC
			LIMIT ?
		)
		ORDER BY sent_at`, int64(owner), string(key), limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// Load returns everything a warm start needs: the conversation summaries and
// the newest LoadLimit messages of each.
func (db *DB) Load(ctx context.Context, owner chat.UserID) ([]chat.Summary, []chat.Message, error) {
	convs, err := db.Conversations(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("load conversations: %w", err)
	}
	rows, err := db.QueryContext(ctx, `
		SELECT msg_id, temp_id, sender_id, receiver_id, body, sent_at, seen_by_peer
		FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY conv_key ORDER BY sent_at DESC) AS rn
			FROM messages
			WHERE owner_id = ?
		)
		WHERE rn <= ?
		ORDER BY conv_key, sent_at`, int64(owner), LoadLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	return convs, msgs, nil
}

func scanMessages(rows *sql.Rows) ([]chat.Message, error) {
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m                chat.Message
			sender, receiver int64
			sentAt           int64
		)
		if err := rows.Scan(&m.ID, &m.TempID, &sender, &receiver, &m.Body, &sentAt, &m.SeenByPeer); err != nil {
			return nil, err
		}
		m.SenderID = chat.UserID(sender)
		m.ReceiverID = chat.UserID(receiver)
		m.SentAt = time.UnixMilli(sentAt)
		m.State = chat.Confirmed
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
