package archive

import (
	"context"
	"strings"

	"github.com/fixitnow/chatsync/internal/chat"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns owner's archived messages whose body contains query,
// newest first. Matching is case-insensitive for ASCII.
func (db *DB) Search(ctx context.Context, owner chat.UserID, query string, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.QueryContext(ctx, `
		SELECT msg_id, temp_id, sender_id, receiver_id, body, sent_at, seen_by_peer
		FROM messages
		WHERE owner_id = ? AND body LIKE ? ESCAPE '\'
		ORDER BY sent_at DESC, msg_id DESC
		LIMIT ?`, int64(owner), pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}
