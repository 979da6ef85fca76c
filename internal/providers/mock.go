package providers

import (
	"context"
	"strings"

	"tutorchat/internal/models"
)

// MockProvider returns deterministic answers so the stack runs without keys.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	_ = ctx
	var question string
	withLesson := false
	for _, msg := range req.Messages {
		switch msg.Role {
		case models.RoleSystem:
			withLesson = true
		case models.RoleUser:
			question = msg.Content
		}
	}
	var b strings.Builder
	b.WriteString("Mock answer to: ")
	b.WriteString(strings.TrimSpace(question))
	if withLesson {
		b.WriteString("\nThis deterministic reply had the lesson content available.")
	}
	return ChatResponse{Text: b.String()}, ProviderInfo{Name: "mock", Model: "mock-chat-v1", Key: "mock"}, nil
}
