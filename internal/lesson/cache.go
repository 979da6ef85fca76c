package lesson

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"tutorchat/internal/models"
)

// CachingLoader memoizes documents that came from a readable PDF. Diagnostic
// documents are not cached so a newly dropped-in file is picked up at once.
type CachingLoader struct {
	next  Loader
	cache *cache.Cache
}

func NewCachingLoader(next Loader, ttl time.Duration) *CachingLoader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingLoader{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachingLoader) Load(ctx context.Context, lessonID string) (models.LessonDocument, error) {
	if x, found := c.cache.Get(lessonID); found {
		return x.(models.LessonDocument), nil
	}
	doc, err := c.next.Load(ctx, lessonID)
	if err != nil {
		return doc, err
	}
	if doc.HasPDF && doc.Error == "" {
		c.cache.Set(lessonID, doc, cache.DefaultExpiration)
	}
	return doc, nil
}

// Forget drops a cached document, e.g. after a new upload.
func (c *CachingLoader) Forget(lessonID string) {
	c.cache.Delete(lessonID)
}
