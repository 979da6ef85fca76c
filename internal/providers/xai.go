package providers

import (
	"net/http"
	"time"
)

// XAIProvider talks to Grok models on the x.ai API.
type XAIProvider struct {
	chatCompletionsClient
}

func NewXAIProvider(keyName string, timeout time.Duration) *XAIProvider {
	return &XAIProvider{chatCompletionsClient{
		name:    "xai",
		baseURL: envOr("GROK_API_BASE_URL", "https://api.x.ai/v1"),
		model:   envOr("TUTORCHAT_XAI_MODEL", "grok-beta"),
		keyName: keyName,
		apiKey:  resolveKey("TUTORCHAT_XAI_KEY_", keyName, "XAI_API_KEY", "GROK_API_KEY"),
		client:  &http.Client{Timeout: timeout},
	}}
}
