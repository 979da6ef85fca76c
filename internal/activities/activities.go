package activities

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.temporal.io/sdk/temporal"

	"tutorchat/internal/config"
	"tutorchat/internal/lesson"
	"tutorchat/internal/logger"
	"tutorchat/internal/storage"
	"tutorchat/internal/util"
)

// ErrTypeParseFailure marks a non-retryable extraction error; the workflow
// turns it into a parse-failure document.
const ErrTypeParseFailure = "LessonParseFailure"

type Activities struct {
	cfg      config.Config
	resolver *lesson.Resolver
	fixtures lesson.Fixtures
	log      *logger.Logger
}

func New(cfg config.Config, db *storage.DB, log *logger.Logger) *Activities {
	var store lesson.SourceStore
	if db != nil {
		store = storage.NewLessonRepo(db)
	}
	return NewWithStore(cfg, store, log)
}

func NewWithStore(cfg config.Config, store lesson.SourceStore, log *logger.Logger) *Activities {
	if log == nil {
		log = logger.Nop()
	}
	return &Activities{
		cfg:      cfg,
		resolver: lesson.NewResolver(cfg.DownloadsRoot, store, log),
		fixtures: lesson.BuiltinFixtures(),
		log:      log.With("component", "activities"),
	}
}

func (a *Activities) ResolveLessonSourceActivity(ctx context.Context, in ResolveLessonSourceInput) (ResolveLessonSourceOutput, error) {
	res := a.resolver.Resolve(ctx, in.LessonID)
	out := ResolveLessonSourceOutput{
		LessonID: in.LessonID,
		Root:     a.resolver.Root(),
		Path:     res.Path,
		Strategy: res.Strategy,
		Outcome:  res.Outcome.String(),
		Attempts: make([]string, 0, len(res.Attempts)),
	}
	if res.Err != nil {
		out.StoreError = res.Err.Error()
	}
	for _, at := range res.Attempts {
		out.Attempts = append(out.Attempts, at.Strategy+"="+at.Outcome.String())
	}
	return out, nil
}

func (a *Activities) ExtractLessonActivity(ctx context.Context, in ExtractLessonInput) (ExtractLessonOutput, error) {
	_ = ctx
	text, err := lesson.ReadPDFText(in.Path)
	if err != nil {
		a.log.Warn("lesson pdf unreadable", "lesson_id", in.LessonID, "path", in.Path, "error", err)
		return ExtractLessonOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeParseFailure, nil)
	}
	sum, err := hashFile(in.Path)
	if err != nil {
		return ExtractLessonOutput{}, err
	}
	doc := lesson.Extract(text, in.LessonID, filepath.Base(in.Path))
	doc.SourcePath = in.Path
	return ExtractLessonOutput{Document: lesson.WithFixtures(doc, a.fixtures), SHA256: sum}, nil
}

// WriteLessonArtifactActivity writes lesson.json and lesson.txt under
// <data out>/lessons/<id>/.
func (a *Activities) WriteLessonArtifactActivity(ctx context.Context, in WriteLessonArtifactInput) (WriteLessonArtifactOutput, error) {
	_ = ctx
	name := filepath.Base(in.Document.LessonID)
	if in.Document.LessonID == "" || name == "." || name == ".." {
		return WriteLessonArtifactOutput{}, errors.New("valid lesson id required")
	}
	dir := util.SafeJoin(filepath.Join(a.cfg.DataOutRoot, "lessons"), name)
	meta := map[string]any{
		"lesson_id":   in.Document.LessonID,
		"title":       in.Document.Title,
		"has_pdf":     in.Document.HasPDF,
		"source_path": in.Document.SourcePath,
		"strategy":    in.Strategy,
		"sha256":      in.SHA256,
		"word_count":  in.Document.WordCount,
		"qa_pairs":    len(in.Document.QAPairs),
		"error":       in.Document.Error,
		"document":    in.Document,
		"processing":  in.ProcessingLog,
	}
	if err := util.WriteJSONAtomic(filepath.Join(dir, "lesson.json"), meta); err != nil {
		return WriteLessonArtifactOutput{}, err
	}
	if err := util.WriteTextAtomic(filepath.Join(dir, "lesson.txt"), in.Document.Content); err != nil {
		return WriteLessonArtifactOutput{}, err
	}
	return WriteLessonArtifactOutput{Dir: dir}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()
	sum, err := util.SHA256HexFromReader(f)
	if err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return sum, nil
}
