package providers

import (
	"net/http"
	"time"
)

// GroqProvider answers through Groq's OpenAI-compatible API.
type GroqProvider struct {
	chatCompletionsClient
}

func NewGroqProvider(keyName string, timeout time.Duration) *GroqProvider {
	return &GroqProvider{chatCompletionsClient{
		name:    "groq",
		baseURL: envOr("TUTORCHAT_GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		model:   envOr("TUTORCHAT_GROQ_MODEL", "llama-3.1-8b-instant"),
		keyName: keyName,
		apiKey:  resolveKey("TUTORCHAT_GROQ_KEY_", keyName, "GROQ_API_KEY"),
		client:  &http.Client{Timeout: timeout},
	}}
}
