package lesson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tutorchat/internal/util"

	"github.com/stretchr/testify/require"
)

func TestExtractObjectiveAndKeyConcepts(t *testing.T) {
	raw := "Objective: Learn X\n\nKey Concepts:\n1. Neurons\n- Layers\n• Weights\n\nApplication: Build a classifier"
	doc := Extract(raw, "12", "week1.pdf")

	require.True(t, doc.HasPDF)
	require.Equal(t, "Learn X", doc.Sections.Objective)
	require.Equal(t, []string{"Neurons", "Layers", "Weights"}, doc.Sections.KeyConcepts)
	require.Equal(t, "Build a classifier", doc.Sections.Application)
	require.Empty(t, doc.Sections.Discussion)
	require.Equal(t, "Lesson 12: week1.pdf", doc.Title)
	require.Equal(t,
		"TITLE: Lesson 12: week1.pdf\n\nOBJECTIVE:\nLearn X\n\nKEY CONCEPTS:\n1. Neurons\n2. Layers\n3. Weights\n\nAPPLICATION:\nBuild a classifier",
		doc.Content)
}

func TestExtractWithoutHeadingsRendersContent(t *testing.T) {
	raw := "Neural networks approximate functions.\n\nThey are trained   with data."
	doc := Extract(raw, "3", "")

	require.Equal(t, "Lesson 3", doc.Title)
	body := ContentBody(doc.Content)
	require.NotEmpty(t, body)
	require.Equal(t, util.NormalizeWhitespace(raw), util.NormalizeWhitespace(body))
	require.Equal(t, 9, doc.WordCount)
}

func TestTitleOrder(t *testing.T) {
	require.Equal(t, "Lesson 7: Intro to CNNs", Title("Lesson 2: Intro to CNNs\nbody", "7", "file.pdf"))
	require.Equal(t, "Lesson 7: file.pdf", Title("no lesson header", "7", "file.pdf"))
	require.Equal(t, "Lesson 7", Title("no lesson header", "7", ""))
}

func TestSectionsStopAtNextHeading(t *testing.T) {
	raw := "Learning Objectives\nUnderstand gradients\nand loss\nMain Topics:\no Gradient descent\n* Momentum\nDiscussion: Why does momentum help?"
	s, found := DetectSections(raw)
	require.Equal(t, "Understand gradients\nand loss", s.Objective)
	require.Equal(t, []string{"Gradient descent", "Momentum"}, s.KeyConcepts)
	require.Equal(t, "Why does momentum help?", s.Discussion)
	require.Equal(t, []string{"objective", "key_concepts", "discussion"}, found)
}

func TestEmptyHeadingIsSkipped(t *testing.T) {
	s, _ := DetectSections("Objective:\n\nKey Points: one thing")
	require.Empty(t, s.Objective)
	require.Equal(t, []string{"one thing"}, s.KeyConcepts)
}

func TestStripMarkerIsIdempotent(t *testing.T) {
	for _, in := range []string{"1. Foo", "- Foo", "• Foo", "2) Foo", "o Foo", "* - Foo", "Foo"} {
		got := StripMarker(in)
		require.Equal(t, "Foo", got, in)
		require.Equal(t, got, StripMarker(got))
	}
	require.Equal(t, "oven timing", StripMarker("oven timing"))
}

func TestExtractFileReportsParseFailure(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(p, []byte("not a pdf"), 0o644))

	doc := ExtractFile(p, "21")
	require.True(t, doc.HasPDF)
	require.NotEmpty(t, doc.Error)
	require.Equal(t, p, doc.SourcePath)
	require.True(t, strings.Contains(doc.Content, "Error processing PDF"))
}
