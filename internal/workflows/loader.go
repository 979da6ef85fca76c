package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"

	"tutorchat/internal/models"
)

// TemporalLessonLoader runs LessonLoadWorkflow on a worker and waits for the
// document. It satisfies lesson.Loader.
type TemporalLessonLoader struct {
	client         tclient.Client
	taskQueue      string
	timeout        time.Duration
	writeArtifacts bool
}

func NewTemporalLessonLoader(c tclient.Client, taskQueue string, timeout time.Duration) *TemporalLessonLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TemporalLessonLoader{client: c, taskQueue: taskQueue, timeout: timeout, writeArtifacts: true}
}

func (l *TemporalLessonLoader) Load(ctx context.Context, lessonID string) (models.LessonDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	run, err := l.client.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                    LessonLoadWorkflowID(lessonID),
		TaskQueue:             l.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, LessonLoadWorkflow, LessonLoadInput{LessonID: lessonID, WriteArtifacts: l.writeArtifacts})
	if err != nil {
		return models.LessonDocument{}, fmt.Errorf("start lesson load: %w", err)
	}
	var doc models.LessonDocument
	if err := run.Get(ctx, &doc); err != nil {
		return models.LessonDocument{}, fmt.Errorf("lesson load %s: %w", run.GetID(), err)
	}
	return doc, nil
}

func LessonLoadWorkflowID(lessonID string) string {
	return "lesson-load-" + sanitizeID(lessonID) + "-" + uuid.NewString()[:8]
}

func sanitizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
