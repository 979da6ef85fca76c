package storage

import (
	"context"
	"fmt"

	"tutorchat/internal/conversation"
	"tutorchat/internal/models"
)

// HistoryRepo stores chat turns in chat_messages. The message column keeps the
// legacy marker encoding so older readers still see "AI: " on assistant rows;
// the role column is authoritative when present.
type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, conversationID string, turn models.ChatTurn) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO chat_messages (conversation_id, role, message) VALUES ($1, $2, $3)`,
		conversationID, turn.Role, conversation.EncodeTurn(turn))
	if err != nil {
		return fmt.Errorf("append chat message: %w", wrapUnavailable(err))
	}
	return nil
}

// Recent returns up to limit turns, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, conversationID string, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT COALESCE(role,''), message
FROM chat_messages
WHERE conversation_id=$1
ORDER BY id DESC
LIMIT $2`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", wrapUnavailable(err))
	}
	defer rows.Close()

	out := make([]models.ChatTurn, 0, limit)
	for rows.Next() {
		var role, message string
		if err := rows.Scan(&role, &message); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, rowTurn(role, message))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", wrapUnavailable(err))
	}
	return out, nil
}

func rowTurn(role, message string) models.ChatTurn {
	decoded := conversation.DecodeTurn(message)
	if role == "" {
		return decoded
	}
	if role == models.RoleAssistant {
		return models.ChatTurn{Role: role, Content: decoded.Content}
	}
	return models.ChatTurn{Role: role, Content: message}
}
