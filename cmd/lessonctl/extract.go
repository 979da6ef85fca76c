package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tutorchat/internal/lesson"
	"tutorchat/internal/models"
)

var (
	lessonID   string
	includeRaw bool
)

type sectionView struct {
	Heading string `json:"heading" yaml:"heading"`
	Content string `json:"content" yaml:"content"`
}

type lessonView struct {
	LessonID   string          `json:"lesson_id" yaml:"lesson_id"`
	Title      string          `json:"title" yaml:"title"`
	HasPDF     bool            `json:"has_pdf" yaml:"has_pdf"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	WordCount  int             `json:"word_count" yaml:"word_count"`
	Sections   []sectionView   `json:"sections" yaml:"sections"`
	QAPairs    []models.QAPair `json:"qa_pairs,omitempty" yaml:"qa_pairs,omitempty"`
	Content    string          `json:"content" yaml:"content"`
	RawText    string          `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
	SourcePath string          `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

func newLessonView(doc models.LessonDocument, raw bool) lessonView {
	v := lessonView{
		LessonID:   doc.LessonID,
		Title:      doc.Title,
		HasPDF:     doc.HasPDF,
		Error:      doc.Error,
		WordCount:  doc.WordCount,
		QAPairs:    doc.QAPairs,
		Content:    doc.Content,
		SourcePath: doc.SourcePath,
	}
	for _, s := range doc.Sections.Outline() {
		v.Sections = append(v.Sections, sectionView{Heading: s.Heading, Content: s.Content})
	}
	if raw {
		v.RawText = doc.RawText
	}
	return v
}

// loadLessonFile extracts a .pdf, or treats any other file as already-extracted text.
func loadLessonFile(path, id string) (models.LessonDocument, error) {
	if id == "" {
		id = "0"
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return lesson.WithFixtures(lesson.ExtractFile(path, id), lesson.BuiltinFixtures()), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return models.LessonDocument{}, fmt.Errorf("read lesson text: %w", err)
	}
	doc := lesson.Extract(string(b), id, filepath.Base(path))
	doc.SourcePath = path
	return lesson.WithFixtures(doc, lesson.BuiltinFixtures()), nil
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a structured lesson from a PDF or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadLessonFile(args[0], lessonID)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), newLessonView(doc, includeRaw), func() string { return doc.Content })
	},
}

func init() {
	extractCmd.Flags().StringVar(&lessonID, "id", "", "Lesson id used for the title and QA fixtures")
	extractCmd.Flags().BoolVar(&includeRaw, "raw", false, "Include the sanitized raw text in json/yaml output")
	rootCmd.AddCommand(extractCmd)
}
