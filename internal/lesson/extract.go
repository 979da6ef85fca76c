package lesson

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"tutorchat/internal/models"
	"tutorchat/internal/util"
)

var lessonTitle = regexp.MustCompile(`Lesson\s+\d+:?\s*([^\n]+)`)

const maxTitleRunes = 200

// Extract builds a lesson document from raw text. It never fails; with no
// recognizable headings the whole text is rendered as CONTENT.
func Extract(raw, lessonID, sourceFilename string) models.LessonDocument {
	text := util.SanitizeText(strings.ReplaceAll(raw, "\r\n", "\n"))
	sections, _ := DetectSections(text)
	title := Title(text, lessonID, sourceFilename)
	return models.LessonDocument{
		LessonID:  lessonID,
		Title:     title,
		RawText:   text,
		Sections:  sections,
		Content:   Render(title, sections, text),
		HasPDF:    true,
		QAPairs:   ExtractQAPairs(text),
		WordCount: len(strings.Fields(text)),
	}
}

// ExtractFile reads the PDF at path and extracts it. Unreadable documents come
// back as a parse-failure record rather than an error.
func ExtractFile(path, lessonID string) models.LessonDocument {
	text, err := ReadPDFText(path)
	if err != nil {
		return ParseFailureDocument(lessonID, path, err)
	}
	doc := Extract(text, lessonID, filepath.Base(path))
	doc.SourcePath = path
	return doc
}

func Title(text, lessonID, sourceFilename string) string {
	if m := lessonTitle.FindStringSubmatch(text); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return truncateTitle(fmt.Sprintf("Lesson %s: %s", lessonID, t))
		}
	}
	if name := strings.TrimSpace(sourceFilename); name != "" {
		return fmt.Sprintf("Lesson %s: %s", lessonID, name)
	}
	return fmt.Sprintf("Lesson %s", lessonID)
}

func truncateTitle(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxTitleRunes]))
}
