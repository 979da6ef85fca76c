package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeJoinDropsDirectories(t *testing.T) {
	require.Equal(t, filepath.Join("root", "x.pdf"), SafeJoin("root", "../../etc/x.pdf"))
}

func TestAtomicWritersAndIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "nested", "doc.json")
	require.NoError(t, WriteJSONAtomic(jsonPath, map[string]string{"lesson_id": "12"}))
	require.True(t, IsRegularFile(jsonPath))
	require.False(t, IsRegularFile(filepath.Dir(jsonPath)))

	textPath := filepath.Join(dir, "nested", "doc.txt")
	require.NoError(t, WriteTextAtomic(textPath, "TITLE\nLesson 12"))
	b, err := os.ReadFile(textPath)
	require.NoError(t, err)
	require.Equal(t, "TITLE\nLesson 12", string(b))

	entries, err := os.ReadDir(filepath.Dir(jsonPath))
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
