package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tutorchat/internal/conversation"
	"tutorchat/internal/directory"
	"tutorchat/internal/models"
	"tutorchat/internal/providers"
	"tutorchat/internal/storage"
	"tutorchat/internal/util"
)

type fakeLoader struct {
	doc models.LessonDocument
	err error
}

func (f fakeLoader) Load(context.Context, string) (models.LessonDocument, error) { return f.doc, f.err }

// memHistory keeps turns newest first, like the real stores.
type memHistory struct {
	mu        sync.Mutex
	turns     map[string][]models.ChatTurn
	readErr   error
	appendErr error
}

func newMemHistory() *memHistory { return &memHistory{turns: map[string][]models.ChatTurn{}} }

func (h *memHistory) Append(_ context.Context, id string, t models.ChatTurn) error {
	if h.appendErr != nil {
		return h.appendErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[id] = append([]models.ChatTurn{t}, h.turns[id]...)
	return nil
}

func (h *memHistory) Recent(_ context.Context, id string, limit int) ([]models.ChatTurn, error) {
	if h.readErr != nil {
		return nil, h.readErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.turns[id]
	if len(all) > limit {
		all = all[:limit]
	}
	return append([]models.ChatTurn(nil), all...), nil
}

type engineCall struct {
	resp providers.ChatResponse
	err  error
}

type scriptedEngine struct {
	calls []engineCall
	seen  []providers.ChatRequest
}

func (e *scriptedEngine) Chat(_ context.Context, req providers.ChatRequest) (providers.ChatResponse, providers.ProviderInfo, error) {
	e.seen = append(e.seen, req)
	if len(e.calls) == 0 {
		return providers.ChatResponse{}, providers.ProviderInfo{}, errors.New("no scripted reply")
	}
	c := e.calls[0]
	e.calls = e.calls[1:]
	return c.resp, providers.ProviderInfo{Name: "scripted", Model: "test"}, c.err
}

type emptyDirectory struct{}

func (emptyDirectory) FindByEmail(context.Context, string) (*models.UserProfile, error) {
	return nil, nil
}

func (emptyDirectory) FindByUsernameLike(context.Context, string) (*models.UserProfile, error) {
	return nil, nil
}

func (emptyDirectory) SectionsFor(context.Context, int64) (map[string]map[string]any, error) {
	return nil, nil
}

func sampleLesson() models.LessonDocument {
	return models.LessonDocument{
		LessonID: "1",
		Title:    "Lesson 1: Neural Networks",
		Content:  "TITLE: Lesson 1: Neural Networks\n\nOBJECTIVE:\nLearn how networks train.",
		HasPDF:   true,
		Sections: models.LessonSections{
			Objective:   "Learn how networks train.",
			KeyConcepts: []string{"Neurons", "Backpropagation"},
		},
		QAPairs: []models.QAPair{{Question: "What is backpropagation?", Answer: "Gradient propagation through layers."}},
	}
}

func newTestService(loader fakeLoader, hist *memHistory, engine Engine) *Service {
	var store conversation.HistoryStore
	if hist != nil {
		store = hist
	}
	s := NewService(loader, store, directory.NewResolver(emptyDirectory{}, nil), engine, Options{HistoryLimit: 10, MaxContextRunes: 20}, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestRespondSummary(t *testing.T) {
	hist := newMemHistory()
	s := newTestService(fakeLoader{doc: sampleLesson()}, hist, &scriptedEngine{})

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "Can you summarize this lesson?"})
	require.Equal(t, "bot", resp.Sender)
	require.Equal(t, "summary", resp.Intent)
	require.Equal(t, "lesson:1", resp.ConversationID)
	require.NotNil(t, resp.Reply)
	require.Equal(t, models.ReplyLessonSummary, resp.Reply.Type)
	require.Equal(t, "Lesson 1: Neural Networks", resp.Reply.Title)
	require.Equal(t, "Objective", resp.Reply.Sections[0].Heading)
	require.Equal(t, "Key Concepts", resp.Reply.Sections[1].Heading)

	stored := hist.turns["lesson:1"]
	require.Len(t, stored, 2)
	require.Equal(t, models.RoleAssistant, stored[0].Role)
	require.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "Can you summarize this lesson?"}, stored[1])
}

func TestRespondSummaryWithoutSectionsUsesBody(t *testing.T) {
	doc := models.LessonDocument{LessonID: "5", Title: "Lesson 5", Content: "TITLE: Lesson 5\n\nCONTENT:\nraw notes", HasPDF: true}
	s := newTestService(fakeLoader{doc: doc}, nil, &scriptedEngine{})

	resp := s.Respond(context.Background(), Request{LessonID: "5", Message: "overview please"})
	require.Equal(t, []models.Section{{Heading: "Content", Content: "raw notes"}}, resp.Reply.Sections)
}

func TestRespondQAMatch(t *testing.T) {
	s := newTestService(fakeLoader{doc: sampleLesson()}, newMemHistory(), &scriptedEngine{})

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "backpropagation"})
	require.Equal(t, "qa_match", resp.Intent)
	require.Equal(t, &models.Reply{
		Type:     models.ReplyQA,
		Question: "What is backpropagation?",
		Answer:   "Gradient propagation through layers.",
	}, resp.Reply)
}

func TestRespondUserInfoIsFlatText(t *testing.T) {
	engine := &scriptedEngine{}
	s := newTestService(fakeLoader{doc: sampleLesson()}, nil, engine)

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "What is John's email?"})
	require.Equal(t, "user_info", resp.Intent)
	require.Nil(t, resp.Reply)
	require.Equal(t, directory.MsgNotFound, resp.Text)
	require.Empty(t, engine.seen)
}

func TestRespondGeneralAssemblesHistoryInOrder(t *testing.T) {
	hist := newMemHistory()
	ctx := context.Background()
	require.NoError(t, hist.Append(ctx, "c1", models.ChatTurn{Role: models.RoleUser, Content: "hello"}))
	require.NoError(t, hist.Append(ctx, "c1", models.ChatTurn{Role: models.RoleAssistant, Content: "hi"}))

	engine := &scriptedEngine{calls: []engineCall{{resp: providers.ChatResponse{Text: "**Gradient** descent *works*"}}}}
	s := newTestService(fakeLoader{doc: sampleLesson()}, hist, engine)

	resp := s.Respond(ctx, Request{LessonID: "1", ConversationID: "c1", Message: "Explain gradient descent"})
	require.Equal(t, "general", resp.Intent)
	require.Equal(t, models.ReplyLessonResponse, resp.Reply.Type)
	require.Equal(t, "Lesson 1: Neural Networks", resp.Reply.Title)
	require.Equal(t, []models.Section{{Heading: "Answer", Content: "Gradient descent works"}}, resp.Reply.Sections)

	require.Len(t, engine.seen, 1)
	msgs := engine.seen[0].Messages
	require.Len(t, msgs, 4)
	require.Equal(t, models.RoleSystem, msgs[0].Role)
	require.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "hello"}, msgs[1])
	require.Equal(t, models.ChatMessage{Role: models.RoleAssistant, Content: "hi"}, msgs[2])
	require.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "Explain gradient descent"}, msgs[3])

	require.Equal(t, models.ChatTurn{Role: models.RoleAssistant, Content: "Gradient descent works"}, hist.turns["c1"][0])
}

func TestRespondRetriesWithTruncatedContext(t *testing.T) {
	doc := sampleLesson()
	doc.Content = strings.Repeat("long lesson line\n", 50)
	engine := &scriptedEngine{calls: []engineCall{
		{err: fmt.Errorf("openai chat error 413: %w", util.ErrContextTooLong)},
		{resp: providers.ChatResponse{Text: "short answer"}},
	}}
	s := newTestService(fakeLoader{doc: doc}, nil, engine)

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "Explain it again"})
	require.Equal(t, "short answer", resp.Reply.Sections[0].Content)
	require.Len(t, engine.seen, 2)
	require.Less(t, len(engine.seen[1].Messages[0].Content), len(engine.seen[0].Messages[0].Content))
}

func TestRespondEngineFailureApologizes(t *testing.T) {
	engine := &scriptedEngine{calls: []engineCall{{err: errors.New("boom")}}}
	s := newTestService(fakeLoader{doc: sampleLesson()}, nil, engine)

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "Explain gradient descent"})
	require.Equal(t, MsgApology, resp.Text)
	require.Nil(t, resp.Reply)
	require.Len(t, engine.seen, 1)
}

func TestRespondDegradesWhenStoresFail(t *testing.T) {
	hist := newMemHistory()
	hist.readErr = errors.New("redis down")
	hist.appendErr = errors.New("redis down")
	engine := &scriptedEngine{calls: []engineCall{{resp: providers.ChatResponse{Text: "still here"}}}}
	s := newTestService(fakeLoader{err: errors.New("temporal unavailable")}, hist, engine)

	resp := s.Respond(context.Background(), Request{LessonID: "9", Message: "Explain gradient descent"})
	require.Equal(t, "still here", resp.Reply.Sections[0].Content)
	require.Empty(t, resp.Reply.Title)
	require.Len(t, engine.seen[0].Messages, 1)
}

func TestRespondEmptyMessage(t *testing.T) {
	hist := newMemHistory()
	s := newTestService(fakeLoader{doc: sampleLesson()}, hist, &scriptedEngine{})

	resp := s.Respond(context.Background(), Request{LessonID: "1", Message: "   "})
	require.Equal(t, MsgEmpty, resp.Text)
	require.Empty(t, hist.turns)
}

func TestConversationID(t *testing.T) {
	require.Equal(t, "abc", ConversationID(Request{LessonID: "1", ConversationID: " abc "}))
	require.Equal(t, "lesson:1", ConversationID(Request{LessonID: "1"}))
	require.Equal(t, "default", ConversationID(Request{}))
}

func TestStripEmphasis(t *testing.T) {
	require.Equal(t, "Use bold and italic words", StripEmphasis("Use **bold** and *italic* words"))
	require.Equal(t, "5 * 3 = 15", StripEmphasis("5 * 3 = 15"))
	require.Equal(t, "dangling", StripEmphasis("**dangling"))
}

func TestReplyText(t *testing.T) {
	qa := models.ChatResponse{Reply: qaReply(models.QAPair{Question: "Q1?", Answer: "A1"})}
	require.Equal(t, "Q: Q1?\nA: A1", ReplyText(qa))

	sum := models.ChatResponse{Reply: &models.Reply{Type: models.ReplyLessonSummary, Title: "T", Sections: []models.Section{{Heading: "Objective", Content: "x"}}}}
	require.Equal(t, "T\n\nObjective:\nx", ReplyText(sum))

	require.Equal(t, "plain", ReplyText(models.ChatResponse{Text: "plain"}))
}

type recordingSink struct {
	recs []storage.LLMCallRecord
}

func (r *recordingSink) Insert(_ context.Context, rec storage.LLMCallRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func TestAuditObserverRecordsCallMeta(t *testing.T) {
	sink := &recordingSink{}
	obs := AuditObserver(sink, nil)
	ctx := withCallMeta(context.Background(), callMeta{LessonID: "1", ConversationID: "c1"})

	obs(ctx, providers.ProviderInfo{Name: "groq", Model: "llama"}, purposeChat, 120*time.Millisecond, nil)
	obs(ctx, providers.ProviderInfo{}, purposeChat, time.Second, util.ErrRateLimited)

	require.Len(t, sink.recs, 2)
	require.Equal(t, "ok", sink.recs[0].Status)
	require.Equal(t, "1", sink.recs[0].LessonID)
	require.Equal(t, "c1", sink.recs[0].ConversationID)
	require.Equal(t, int64(120), sink.recs[0].LatencyMS)
	require.Equal(t, "error", sink.recs[1].Status)
	require.Equal(t, "rate", sink.recs[1].ErrorType)
	require.Equal(t, "unknown", sink.recs[1].ProviderName)
}
