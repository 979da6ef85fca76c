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

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 1000
)

// chatCompletionsClient speaks the OpenAI /chat/completions dialect shared by
// OpenAI, Groq and xAI.
type chatCompletionsClient struct {
	name    string
	baseURL string
	model   string
	keyName string
	apiKey  string
	client  *http.Client
}

func (c *chatCompletionsClient) info() ProviderInfo {
	return ProviderInfo{Name: c.name, Model: c.model, Key: c.keyName}
}

func (c *chatCompletionsClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	if c.apiKey == "" {
		return ChatResponse{}, c.info(), fmt.Errorf("%s key missing for alias %q", c.name, c.keyName)
	}
	if req.Temperature == 0 {
		req.Temperature = defaultTemperature
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	payload, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	})
	if err != nil {
		return ChatResponse{}, c.info(), fmt.Errorf("encode %s request: %w", c.name, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return ChatResponse{}, c.info(), fmt.Errorf("build %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, c.info(), fmt.Errorf("%s chat request failed: %w", c.name, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return ChatResponse{}, c.info(), statusError(c.name, resp.StatusCode, body)
	}
	var parsed struct {
		Choices []struct {
			Message models.ChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ChatResponse{}, c.info(), fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return ChatResponse{}, c.info(), fmt.Errorf("%s returned empty choices", c.name)
	}
	return ChatResponse{Text: parsed.Choices[0].Message.Content}, c.info(), nil
}

// OpenAIProvider uses the standard OpenAI REST API when a key is configured.
type OpenAIProvider struct {
	chatCompletionsClient
}

func NewOpenAIProvider(keyName string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{chatCompletionsClient{
		name:    "openai",
		baseURL: envOr("TUTORCHAT_OPENAI_BASE_URL", "https://api.openai.com/v1"),
		model:   envOr("TUTORCHAT_OPENAI_MODEL", "gpt-4o-mini"),
		keyName: keyName,
		apiKey:  resolveKey("TUTORCHAT_OPENAI_KEY_", keyName, "OPENAI_API_KEY"),
		client:  &http.Client{Timeout: timeout},
	}}
}

// resolveKey prefers the alias-specific variable, then the listed fallbacks.
func resolveKey(prefix, alias string, fallbacks ...string) string {
	if alias != "" {
		if k := os.Getenv(prefix + sanitizeEnvToken(alias)); k != "" {
			return k
		}
	}
	for _, f := range fallbacks {
		if k := os.Getenv(f); k != "" {
			return k
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return fallback
}

func sanitizeEnvToken(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
