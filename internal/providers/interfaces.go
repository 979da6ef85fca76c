package providers

import (
	"context"

	"tutorchat/internal/models"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type ChatRequest struct {
	Purpose     string               `json:"purpose"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

// ChatProvider is an answering engine: ordered messages in, one completion out.
type ChatProvider interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error)
}
