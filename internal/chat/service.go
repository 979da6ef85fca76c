package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tutorchat/internal/conversation"
	"tutorchat/internal/directory"
	"tutorchat/internal/intent"
	"tutorchat/internal/lesson"
	"tutorchat/internal/logger"
	"tutorchat/internal/models"
	"tutorchat/internal/providers"
	"tutorchat/internal/util"
)

const (
	Sender = "bot"

	MsgEmpty    = "Please type a question about the lesson."
	MsgApology  = "I'm sorry, I couldn't generate an answer right now. Please try again in a moment."
	purposeChat = "lesson_chat"
)

// Engine is the answering engine; *providers.Manager satisfies it.
type Engine interface {
	Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, providers.ProviderInfo, error)
}

type Request struct {
	LessonID       string `json:"lesson_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type Options struct {
	HistoryLimit    int
	MaxContextRunes int
}

// Service answers one chat message per call. It never returns an error: every
// failure is folded into the reply.
type Service struct {
	lessons   lesson.Loader
	history   conversation.HistoryStore
	directory *directory.Resolver
	engine    Engine
	opts      Options
	log       *logger.Logger
	now       func() time.Time
}

func NewService(lessons lesson.Loader, history conversation.HistoryStore, dir *directory.Resolver, engine Engine, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.MaxContextRunes <= 0 {
		opts.MaxContextRunes = util.DefaultMaxContextRunes
	}
	return &Service{
		lessons:   lessons,
		history:   history,
		directory: dir,
		engine:    engine,
		opts:      opts,
		log:       log.With("component", "chat"),
		now:       time.Now,
	}
}

// ConversationID defaults to one conversation per lesson.
func ConversationID(req Request) string {
	if id := strings.TrimSpace(req.ConversationID); id != "" {
		return id
	}
	if id := strings.TrimSpace(req.LessonID); id != "" {
		return "lesson:" + id
	}
	return "default"
}

func (s *Service) Respond(ctx context.Context, req Request) models.ChatResponse {
	convID := ConversationID(req)
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return s.flat(convID, intent.General, MsgEmpty)
	}

	doc, history := s.load(ctx, req.LessonID, convID)
	decision := intent.Classify(msg, doc)
	s.log.Debug("message classified",
		"conversation_id", convID,
		"lesson_id", req.LessonID,
		"intent", decision.Intent,
		"rule", decision.Rule,
		"message", util.Preview(msg, 80),
	)

	var resp models.ChatResponse
	switch decision.Intent {
	case intent.UserInfo:
		resp = s.flat(convID, decision.Intent, s.lookupUser(ctx, msg))
	case intent.Summary:
		resp = s.structured(convID, decision.Intent, summaryReply(doc))
	case intent.QAMatch:
		resp = s.structured(convID, decision.Intent, qaReply(*decision.QAPair))
	default:
		resp = s.answer(withCallMeta(ctx, callMeta{LessonID: req.LessonID, ConversationID: convID}), convID, doc, history, msg)
	}

	s.remember(ctx, convID, msg, resp)
	return resp
}

// load fetches the lesson and the recent history concurrently. Either may come
// back empty; failures are logged and treated as absent.
func (s *Service) load(ctx context.Context, lessonID, convID string) (*models.LessonDocument, []models.ChatTurn) {
	var (
		doc     *models.LessonDocument
		history []models.ChatTurn
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.lessons != nil && strings.TrimSpace(lessonID) != "" {
		g.Go(func() error {
			d, err := s.lessons.Load(gctx, lessonID)
			if err != nil {
				s.log.Warn("lesson load failed", "lesson_id", lessonID, "error", err)
				return nil
			}
			doc = &d
			return nil
		})
	}
	if s.history != nil {
		g.Go(func() error {
			h, err := s.history.Recent(gctx, convID, s.opts.HistoryLimit)
			if err != nil {
				s.log.Warn("history read failed", "conversation_id", convID, "error", err)
				return nil
			}
			history = h
			return nil
		})
	}
	_ = g.Wait()
	return doc, conversation.Chronological(history)
}

func (s *Service) lookupUser(ctx context.Context, msg string) string {
	if s.directory == nil {
		return directory.MsgGeneric
	}
	return s.directory.Resolve(ctx, msg)
}

func (s *Service) answer(ctx context.Context, convID string, doc *models.LessonDocument, history []models.ChatTurn, msg string) models.ChatResponse {
	if s.engine == nil {
		return s.flat(convID, intent.General, MsgApology)
	}
	lc := conversation.ContextFor(doc)
	out, err := s.ask(ctx, history, lc, msg)
	if err != nil && lc != nil && providers.ClassifyError(err) == providers.ErrorContext {
		s.log.Info("lesson context too long, retrying truncated", "conversation_id", convID, "max_runes", s.opts.MaxContextRunes)
		short := *lc
		short.Content = util.TruncateRunes(lc.Content, s.opts.MaxContextRunes)
		out, err = s.ask(ctx, history, &short, msg)
	}
	if err != nil {
		s.log.Error("answering engine failed", "conversation_id", convID, "error", err)
		return s.flat(convID, intent.General, MsgApology)
	}
	reply := &models.Reply{
		Type:     models.ReplyLessonResponse,
		Sections: []models.Section{{Heading: "Answer", Content: out}},
	}
	if doc != nil {
		reply.Title = doc.Title
	}
	return s.structured(convID, intent.General, reply)
}

func (s *Service) ask(ctx context.Context, history []models.ChatTurn, lc *conversation.LessonContext, msg string) (string, error) {
	resp, _, err := s.engine.Chat(ctx, providers.ChatRequest{
		Purpose:  purposeChat,
		Messages: conversation.Assemble(history, lc, msg),
	})
	if err != nil {
		return "", err
	}
	text := util.CollapseBlankLines(StripEmphasis(resp.Text))
	if text == "" {
		return "", errors.New("empty answer")
	}
	return text, nil
}

// remember appends both sides of the exchange. History failures never reach the user.
func (s *Service) remember(ctx context.Context, convID, msg string, resp models.ChatResponse) {
	if s.history == nil {
		return
	}
	turns := []models.ChatTurn{
		{Role: models.RoleUser, Content: msg},
		{Role: models.RoleAssistant, Content: ReplyText(resp)},
	}
	for _, t := range turns {
		if err := s.history.Append(ctx, convID, t); err != nil {
			s.log.Warn("history append failed", "conversation_id", convID, "role", t.Role, "error", err)
			return
		}
	}
}

func (s *Service) flat(convID string, in intent.Intent, text string) models.ChatResponse {
	return models.ChatResponse{Sender: Sender, Intent: string(in), ConversationID: convID, Text: text, CreatedAt: s.now().UTC()}
}

func (s *Service) structured(convID string, in intent.Intent, reply *models.Reply) models.ChatResponse {
	return models.ChatResponse{Sender: Sender, Intent: string(in), ConversationID: convID, Reply: reply, CreatedAt: s.now().UTC()}
}
