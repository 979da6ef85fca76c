package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutorchat/internal/models"

	"github.com/stretchr/testify/require"
)

func TestResolveOllamaModel(t *testing.T) {
	t.Setenv("TUTORCHAT_OLLAMA_MODEL", "")
	require.Equal(t, "llama3.1", resolveOllamaModel(""))
	require.Equal(t, "llama3.1:8b", resolveOllamaModel("llama3.1:8b"))

	t.Setenv("TUTORCHAT_OLLAMA_MODEL_LOCAL", "mistral")
	require.Equal(t, "mistral", resolveOllamaModel("local"))
}

func TestOllamaChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var body struct {
			Model    string               `json:"model"`
			Messages []models.ChatMessage `json:"messages"`
			Stream   bool                 `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.False(t, body.Stream)
		require.Len(t, body.Messages, 2)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"local answer"}}`))
	}))
	defer srv.Close()

	t.Setenv("TUTORCHAT_OLLAMA_BASE_URL", srv.URL)
	p := NewOllamaProvider("", 5*time.Second)
	resp, info, err := p.Chat(context.Background(), ChatRequest{Messages: []models.ChatMessage{
		{Role: models.RoleSystem, Content: "lesson"},
		{Role: models.RoleUser, Content: "q"},
	}})
	require.NoError(t, err)
	require.Equal(t, "local answer", resp.Text)
	require.Equal(t, "ollama", info.Name)
}
