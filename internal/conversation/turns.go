package conversation

import (
	"context"
	"strings"

	"tutorchat/internal/models"
)

// AssistantMarker prefixes assistant messages in legacy single-column history rows.
const AssistantMarker = "AI: "

// HistoryStore persists turns per conversation. Recent returns newest first.
type HistoryStore interface {
	Append(ctx context.Context, conversationID string, turn models.ChatTurn) error
	Recent(ctx context.Context, conversationID string, limit int) ([]models.ChatTurn, error)
}

// DecodeTurn maps a legacy stored string to a turn, stripping the assistant marker.
func DecodeTurn(stored string) models.ChatTurn {
	if strings.HasPrefix(stored, AssistantMarker) {
		return models.ChatTurn{Role: models.RoleAssistant, Content: strings.TrimPrefix(stored, AssistantMarker)}
	}
	return models.ChatTurn{Role: models.RoleUser, Content: stored}
}

// EncodeTurn is the inverse of DecodeTurn.
func EncodeTurn(t models.ChatTurn) string {
	if t.Role == models.RoleAssistant {
		return AssistantMarker + t.Content
	}
	return t.Content
}

// Chronological returns a reversed copy of a newest-first history.
func Chronological(newestFirst []models.ChatTurn) []models.ChatTurn {
	out := make([]models.ChatTurn, len(newestFirst))
	for i, t := range newestFirst {
		out[len(newestFirst)-1-i] = t
	}
	return out
}
