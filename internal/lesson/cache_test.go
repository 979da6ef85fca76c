package lesson

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tutorchat/internal/models"
)

type countingLoader struct {
	doc   models.LessonDocument
	calls int
}

func (c *countingLoader) Load(_ context.Context, id string) (models.LessonDocument, error) {
	c.calls++
	d := c.doc
	d.LessonID = id
	return d, nil
}

func TestCachingLoaderMemoizesReadableDocuments(t *testing.T) {
	next := &countingLoader{doc: models.LessonDocument{Title: "T", Content: "x", HasPDF: true}}
	l := NewCachingLoader(next, time.Minute)
	ctx := context.Background()

	_, err := l.Load(ctx, "1")
	require.NoError(t, err)
	doc, err := l.Load(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "1", doc.LessonID)
	require.Equal(t, 1, next.calls)

	l.Forget("1")
	_, err = l.Load(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestCachingLoaderSkipsDiagnostics(t *testing.T) {
	next := &countingLoader{doc: models.LessonDocument{Title: "missing", Content: "No PDF", HasPDF: false}}
	l := NewCachingLoader(next, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := l.Load(context.Background(), "2")
		require.NoError(t, err)
	}
	require.Equal(t, 3, next.calls)
}
