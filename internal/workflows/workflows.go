package workflows

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"tutorchat/internal/activities"
	"tutorchat/internal/lesson"
	"tutorchat/internal/models"
)

const QueryGetLessonStatus = "GetLessonStatus"

// LessonLoadWorkflow resolves, extracts and optionally persists one lesson. It
// always returns a document: missing or unreadable sources become diagnostic
// documents instead of workflow failures.
func LessonLoadWorkflow(ctx workflow.Context, input LessonLoadInput) (models.LessonDocument, error) {
	status := LessonLoadStatus{
		LessonID:    input.LessonID,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetLessonStatus, func() (LessonLoadStatus, error) {
		return status, nil
	}); err != nil {
		return models.LessonDocument{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	status.CurrentStep = "resolve_source"
	status.Steps[status.CurrentStep] = "processing"
	var src activities.ResolveLessonSourceOutput
	if err := workflow.ExecuteActivity(ctx, "ResolveLessonSourceActivity", activities.ResolveLessonSourceInput{LessonID: input.LessonID}).Get(ctx, &src); err != nil {
		return models.LessonDocument{}, err
	}
	status.Steps[status.CurrentStep] = "done"

	var (
		doc models.LessonDocument
		sum string
	)
	if src.Outcome != lesson.Found.String() {
		status.Status = "not_found"
		status.FailReason = "no source pdf resolved"
		doc = lesson.WithFixtures(lesson.NotFoundDocument(input.LessonID, src.Root, notFoundResolution(src)), lesson.BuiltinFixtures())
	} else {
		status.Strategy = src.Strategy
		status.Path = src.Path

		status.CurrentStep = "extract"
		status.Steps[status.CurrentStep] = "processing"
		var ext activities.ExtractLessonOutput
		err := workflow.ExecuteActivity(ctx, "ExtractLessonActivity", activities.ExtractLessonInput{LessonID: input.LessonID, Path: src.Path}).Get(ctx, &ext)
		switch {
		case err == nil:
			doc, sum = ext.Document, ext.SHA256
			status.Steps[status.CurrentStep] = "done"
		case isParseFailure(err):
			status.Status = "failed"
			status.FailReason = parseFailureMessage(err)
			status.Steps[status.CurrentStep] = "failed"
			doc = lesson.WithFixtures(lesson.ParseFailureDocument(input.LessonID, src.Path, errors.New(status.FailReason)), lesson.BuiltinFixtures())
		default:
			return models.LessonDocument{}, err
		}
	}

	if input.WriteArtifacts {
		status.CurrentStep = "write_artifacts"
		status.Steps[status.CurrentStep] = "processing"
		if err := workflow.ExecuteActivity(ctx, "WriteLessonArtifactActivity", activities.WriteLessonArtifactInput{
			Document:      doc,
			Strategy:      src.Strategy,
			SHA256:        sum,
			ProcessingLog: map[string]any{"steps": status.Steps, "status": status.Status, "generated_at": workflow.Now(ctx)},
		}).Get(ctx, nil); err != nil {
			// The document is still usable; artifacts are best effort.
			status.Steps[status.CurrentStep] = "failed"
			workflow.GetLogger(ctx).Warn("write lesson artifact failed", "lesson_id", input.LessonID, "error", err)
		} else {
			status.Steps[status.CurrentStep] = "done"
		}
	}

	status.CurrentStep = "done"
	if status.Status == "processing" {
		status.Status = "processed"
	}
	return doc, nil
}

func notFoundResolution(src activities.ResolveLessonSourceOutput) lesson.Resolution {
	res := lesson.Resolution{Outcome: lesson.NotFound}
	if src.StoreError != "" {
		res.Err = errors.New(src.StoreError)
	}
	return res
}

func isParseFailure(err error) bool {
	var appErr *temporal.ApplicationError
	return errors.As(err, &appErr) && appErr.Type() == activities.ErrTypeParseFailure
}

func parseFailureMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
