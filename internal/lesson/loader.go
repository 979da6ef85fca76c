package lesson

import (
	"context"

	"tutorchat/internal/logger"
	"tutorchat/internal/models"
)

// Loader produces the lesson document for an id. Implementations never return
// a document with HasPDF=true and empty Content.
type Loader interface {
	Load(ctx context.Context, lessonID string) (models.LessonDocument, error)
}

// FileLoader resolves and extracts in the calling process.
type FileLoader struct {
	resolver *Resolver
	fixtures Fixtures
	log      *logger.Logger
}

func NewFileLoader(resolver *Resolver, fixtures Fixtures, log *logger.Logger) *FileLoader {
	if log == nil {
		log = logger.Nop()
	}
	return &FileLoader{resolver: resolver, fixtures: fixtures, log: log}
}

func (l *FileLoader) Load(ctx context.Context, lessonID string) (models.LessonDocument, error) {
	res := l.resolver.Resolve(ctx, lessonID)
	if res.Outcome != Found {
		l.log.Info("lesson source not found", "lesson_id", lessonID, "root", l.resolver.Root())
		return WithFixtures(NotFoundDocument(lessonID, l.resolver.Root(), res), l.fixtures), nil
	}
	doc := ExtractFile(res.Path, lessonID)
	if doc.Error != "" {
		l.log.Warn("lesson pdf unreadable", "lesson_id", lessonID, "path", res.Path, "error", doc.Error)
	}
	return WithFixtures(doc, l.fixtures), nil
}

// WithFixtures fills QA pairs from fixtures when the document has none.
func WithFixtures(doc models.LessonDocument, fx Fixtures) models.LessonDocument {
	if len(doc.QAPairs) == 0 && fx != nil {
		doc.QAPairs = fx.For(doc.LessonID)
	}
	return doc
}
