package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorchat/internal/config"

	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	name  string
	errs  []error
	calls int
}

func (s *scriptedProvider) Chat(_ context.Context, _ ChatRequest) (ChatResponse, ProviderInfo, error) {
	s.calls++
	info := ProviderInfo{Name: s.name, Model: s.name + "-model"}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return ChatResponse{}, info, err
		}
	}
	return ChatResponse{Text: "from " + s.name}, info, nil
}

func named(raw string, p ChatProvider) NamedChatProvider {
	refs := ParseProviderList(raw)
	return NamedChatProvider{Ref: refs[0], Provider: p}
}

func TestManagerFailsOverAndCoolsDown(t *testing.T) {
	primary := &scriptedProvider{name: "xai", errs: []error{errors.New("429 rate limited")}}
	backup := &scriptedProvider{name: "openai"}
	m := NewManagerWith(time.Minute, named("xai", primary), named("openai:backup", backup))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	var observed []string
	m.SetObserver(func(_ context.Context, info ProviderInfo, purpose string, _ time.Duration, err error) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		observed = append(observed, info.Name+":"+purpose+":"+status)
	})

	resp, info, err := m.Chat(context.Background(), ChatRequest{Purpose: "lesson_answer"})
	require.NoError(t, err)
	require.Equal(t, "from openai", resp.Text)
	require.Equal(t, "openai", info.Name)
	require.Equal(t, []string{"xai:lesson_answer:error", "openai:lesson_answer:ok"}, observed)

	// primary is cooling down and is skipped
	_, _, err = m.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, primary.calls)

	now = now.Add(2 * time.Minute)
	resp, _, err = m.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	require.Equal(t, "from xai", resp.Text)
	require.Equal(t, 2, primary.calls)
}

func TestManagerStopsOnContextLengthError(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{errors.New("maximum context length exceeded")}}
	backup := &scriptedProvider{name: "groq"}
	m := NewManagerWith(time.Minute, named("openai", primary), named("groq", backup))

	_, _, err := m.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	require.Equal(t, ErrorContext, ClassifyError(err))
	require.Equal(t, 0, backup.calls)
}

func TestManagerAllFailedAndMockLast(t *testing.T) {
	bad := &scriptedProvider{name: "groq", errs: []error{errors.New("bad request")}}
	m := NewManagerWith(0, named("mock", NewMockProvider()), named("groq", bad))
	require.Equal(t, []int{1, 0}, m.PreferredOrder())

	resp, info, err := m.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	require.Equal(t, "mock", info.Name)
	require.Contains(t, resp.Text, "Mock answer")

	only := NewManagerWith(0, named("groq", &scriptedProvider{name: "groq", errs: []error{errors.New("bad request")}}))
	_, _, err = only.Chat(context.Background(), ChatRequest{})
	require.ErrorContains(t, err, "chat via groq failed")
}

func TestNewManagerFromConfig(t *testing.T) {
	m, err := NewManager(config.Config{LLMProviders: "xai|openai:key1|mock", LLMTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, 3, m.Count())
	require.Equal(t, "key1", m.Refs()[1].KeyAlias)

	_, err = NewManager(config.Config{LLMProviders: "bard"})
	require.ErrorContains(t, err, "unsupported provider")
}
