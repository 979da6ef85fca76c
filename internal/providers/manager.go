package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tutorchat/internal/config"
)

type NamedChatProvider struct {
	Ref      ProviderRef
	Provider ChatProvider
}

// CallObserver sees every provider attempt; used for the llm_calls audit.
type CallObserver func(ctx context.Context, info ProviderInfo, purpose string, latency time.Duration, err error)

// Manager fails over across configured providers in preference order. Providers
// that report quota or rate errors sit out for the cooldown period.
type Manager struct {
	providers []NamedChatProvider
	cooldown  time.Duration
	observer  CallObserver
	now       func() time.Time

	mu          sync.Mutex
	coolingTill map[string]time.Time
}

var ErrNoProviderAvailable = errors.New("no chat provider available")

func NewManager(cfg config.Config) (*Manager, error) {
	refs := ParseProviderList(cfg.LLMProviders)
	named := make([]NamedChatProvider, 0, len(refs))
	for _, ref := range refs {
		p, err := buildProvider(ref, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		named = append(named, NamedChatProvider{Ref: ref, Provider: p})
	}
	return NewManagerWith(time.Duration(cfg.ProviderCooldownSecs)*time.Second, named...), nil
}

func NewManagerWith(cooldown time.Duration, named ...NamedChatProvider) *Manager {
	if len(named) == 0 {
		named = []NamedChatProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider()}}
	}
	return &Manager{
		providers:   named,
		cooldown:    cooldown,
		now:         time.Now,
		coolingTill: make(map[string]time.Time),
	}
}

func (m *Manager) SetObserver(o CallObserver) {
	m.observer = o
}

func (m *Manager) Count() int {
	return len(m.providers)
}

func (m *Manager) Refs() []ProviderRef {
	out := make([]ProviderRef, 0, len(m.providers))
	for i := range m.providers {
		out = append(out, m.providers[i].Ref)
	}
	return out
}

// Chat tries providers in preferred order. A context-length error is returned
// immediately so the caller can shrink the prompt.
func (m *Manager) Chat(ctx context.Context, req ChatRequest) (ChatResponse, ProviderInfo, error) {
	var lastErr error
	for _, i := range m.PreferredOrder() {
		np := m.providers[i]
		if m.coolingDown(np.Ref.Raw) {
			continue
		}
		start := m.now()
		resp, info, err := np.Provider.Chat(ctx, req)
		if m.observer != nil {
			m.observer(ctx, info, req.Purpose, m.now().Sub(start), err)
		}
		if err == nil {
			return resp, info, nil
		}
		lastErr = fmt.Errorf("chat via %s failed: %w", np.Ref.Raw, err)
		switch ClassifyError(err) {
		case ErrorQuota, ErrorRate:
			m.startCooldown(np.Ref.Raw)
		case ErrorContext:
			return ChatResponse{}, info, lastErr
		}
		if ctx.Err() != nil {
			return ChatResponse{}, info, ctx.Err()
		}
	}
	if lastErr == nil {
		return ChatResponse{}, ProviderInfo{}, ErrNoProviderAvailable
	}
	return ChatResponse{}, ProviderInfo{}, lastErr
}

func (m *Manager) coolingDown(raw string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.coolingTill[raw]
	if !ok {
		return false
	}
	if m.now().After(until) {
		delete(m.coolingTill, raw)
		return false
	}
	return true
}

func (m *Manager) startCooldown(raw string) {
	if m.cooldown <= 0 {
		return
	}
	m.mu.Lock()
	m.coolingTill[raw] = m.now().Add(m.cooldown)
	m.mu.Unlock()
}

// PreferredOrder puts real providers ahead of mock ones, keeping configured order.
func (m *Manager) PreferredOrder() []int {
	return preferredOrder(len(m.providers), func(i int) string { return strings.ToLower(m.providers[i].Ref.Name) })
}

func preferredOrder(n int, nameAt func(i int) string) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if nameAt(i) != "mock" {
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if nameAt(i) == "mock" {
			out = append(out, i)
		}
	}
	return out
}

func buildProvider(ref ProviderRef, timeout time.Duration) (ChatProvider, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias, timeout), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias, timeout), nil
	case "xai", "grok":
		return NewXAIProvider(ref.KeyAlias, timeout), nil
	case "ollama":
		return NewOllamaProvider(ref.KeyAlias, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
