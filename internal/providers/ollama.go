package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"tutorchat/internal/models"
)

// OllamaProvider answers with a local model through Ollama's /api/chat.
type OllamaProvider struct {
	alias   string
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(alias string, timeout time.Duration) *OllamaProvider {
	return &OllamaProvider{
		alias:   alias,
		baseURL: envOr("TUTORCHAT_OLLAMA_BASE_URL", "http://localhost:11434"),
		model:   resolveOllamaModel(alias),
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "ollama", Model: o.model, Key: o.alias}
	if len(req.Messages) == 0 {
		return ChatResponse{}, info, fmt.Errorf("no chat messages")
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	payload, err := json.Marshal(map[string]any{
		"model":    o.model,
		"messages": req.Messages,
		"stream":   false,
		"options":  map[string]any{"temperature": temperature},
	})
	if err != nil {
		return ChatResponse{}, info, fmt.Errorf("encode ollama request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return ChatResponse{}, info, fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, info, fmt.Errorf("ollama chat request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return ChatResponse{}, info, statusError("ollama", resp.StatusCode, body)
	}
	var parsed struct {
		Message models.ChatMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ChatResponse{}, info, fmt.Errorf("decode ollama response: %w", err)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return ChatResponse{}, info, fmt.Errorf("ollama returned empty message")
	}
	return ChatResponse{Text: parsed.Message.Content}, info, nil
}

func resolveOllamaModel(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias != "" {
		if v := strings.TrimSpace(os.Getenv("TUTORCHAT_OLLAMA_MODEL_" + sanitizeEnvToken(alias))); v != "" {
			return v
		}
		// ollama:llama3.1:8b style entries name the model directly
		if strings.ContainsAny(alias, "-/.:") {
			return alias
		}
	}
	if v := strings.TrimSpace(os.Getenv("TUTORCHAT_OLLAMA_MODEL")); v != "" {
		return v
	}
	return "llama3.1"
}
