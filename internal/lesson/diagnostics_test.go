package lesson

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegacyWeekDay(t *testing.T) {
	cases := []struct {
		id        string
		week, day int
		ok        bool
	}{
		{"11", 1, 1, true},
		{"15", 1, 5, true},
		{"16", 2, 1, true},
		{"60", 10, 5, true},
		{"10", 0, 0, false},
		{"61", 0, 0, false},
		{"abc", 0, 0, false},
	}
	for _, tc := range cases {
		w, d, ok := LegacyWeekDay(tc.id)
		require.Equal(t, tc.ok, ok, tc.id)
		require.Equal(t, tc.week, w, tc.id)
		require.Equal(t, tc.day, d, tc.id)
	}
}

func TestNotFoundDocument(t *testing.T) {
	doc := NotFoundDocument("17", "/srv/downloads", Resolution{Outcome: NotFound, Err: errors.New("timeout")})
	require.False(t, doc.HasPDF)
	require.Equal(t, "Lesson 17 (content not found)", doc.Title)
	require.Contains(t, doc.Content, "No PDF found for lesson 17")
	require.Contains(t, doc.Content, "week 2, day 2")
	require.Contains(t, doc.Content, "could not be reached: timeout")

	plain := NotFoundDocument("intro", "", Resolution{})
	require.NotContains(t, plain.Content, "week")
}

func TestFileLoaderEmptyDownloadsYieldsDiagnostic(t *testing.T) {
	root := filepath.Join(t.TempDir(), "downloads")
	l := NewFileLoader(NewResolver(root, fakeSourceStore{}, nil), BuiltinFixtures(), nil)

	doc, err := l.Load(context.Background(), "42")
	require.NoError(t, err)
	require.False(t, doc.HasPDF)
	require.Contains(t, doc.Content, "No PDF found for lesson 42")
	require.Empty(t, doc.QAPairs)

	doc, err = l.Load(context.Background(), "1")
	require.NoError(t, err)
	require.False(t, doc.HasPDF)
	require.Len(t, doc.QAPairs, 3)
}
