package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tutorchat/internal/logger"
	"tutorchat/internal/providers"
	"tutorchat/internal/storage"
)

type callMeta struct {
	LessonID       string
	ConversationID string
}

type callMetaKey struct{}

func withCallMeta(ctx context.Context, m callMeta) context.Context {
	return context.WithValue(ctx, callMetaKey{}, m)
}

func callMetaFrom(ctx context.Context) callMeta {
	m, _ := ctx.Value(callMetaKey{}).(callMeta)
	return m
}

// AuditSink receives one record per answering-engine attempt.
type AuditSink interface {
	Insert(ctx context.Context, rec storage.LLMCallRecord) error
}

// AuditObserver adapts an AuditSink to providers.CallObserver. Sink failures are
// logged and dropped.
func AuditObserver(sink AuditSink, log *logger.Logger) providers.CallObserver {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, info providers.ProviderInfo, purpose string, latency time.Duration, err error) {
		meta := callMetaFrom(ctx)
		rec := storage.LLMCallRecord{
			CallID:         uuid.NewString(),
			Purpose:        purpose,
			LessonID:       meta.LessonID,
			ConversationID: meta.ConversationID,
			ProviderName:   info.Name,
			Model:          info.Model,
			Status:         "ok",
			LatencyMS:      latency.Milliseconds(),
		}
		if err != nil {
			rec.Status = "error"
			rec.ErrorType = string(providers.ClassifyError(err))
		}
		if rec.ProviderName == "" {
			rec.ProviderName = "unknown"
		}
		if rec.Model == "" {
			rec.Model = "unknown"
		}
		if insErr := sink.Insert(context.WithoutCancel(ctx), rec); insErr != nil {
			log.Warn("llm call audit failed", "provider", rec.ProviderName, "error", insErr)
		}
	}
}
