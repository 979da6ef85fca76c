package lesson

import (
	"fmt"
	"strconv"
	"strings"

	"tutorchat/internal/models"
)

// Legacy lesson ids 11..60 map to ten weeks of five days.
const (
	legacyOffset  = 10
	legacyMaxID   = 60
	legacyDaysPer = 5
)

// LegacyWeekDay returns the week/day hint for numeric ids in the legacy range.
func LegacyWeekDay(lessonID string) (week, day int, ok bool) {
	id, err := strconv.Atoi(strings.TrimSpace(lessonID))
	if err != nil || id <= legacyOffset || id > legacyMaxID {
		return 0, 0, false
	}
	n := id - legacyOffset
	return (n-1)/legacyDaysPer + 1, (n-1)%legacyDaysPer + 1, true
}

// NotFoundDocument is the placeholder returned when no source PDF resolves.
func NotFoundDocument(lessonID, root string, res Resolution) models.LessonDocument {
	var b strings.Builder
	fmt.Fprintf(&b, "No PDF found for lesson %s.\n\n", lessonID)
	b.WriteString("Likely causes:\n")
	b.WriteString("- No PDF path is stored for this lesson, or the stored file was moved or deleted.\n")
	if root != "" {
		fmt.Fprintf(&b, "- No file in %s matches the lesson number.\n", root)
		fmt.Fprintf(&b, "- The downloads directory %s is empty or missing.\n", root)
	}
	if res.Err != nil {
		fmt.Fprintf(&b, "- The lesson store could not be reached: %v\n", res.Err)
	}
	if week, day, ok := LegacyWeekDay(lessonID); ok {
		fmt.Fprintf(&b, "\nHint: lesson %s is week %d, day %d in the older numbering (file number %d).\n",
			lessonID, week, day, mustAtoi(lessonID)-legacyOffset)
	}
	b.WriteString("\nUpload the lesson PDF again or ask an administrator to update the lesson record.")

	title := fmt.Sprintf("Lesson %s (content not found)", lessonID)
	return models.LessonDocument{
		LessonID: lessonID,
		Title:    title,
		Content:  "TITLE: " + title + "\n\n" + b.String(),
		HasPDF:   false,
	}
}

// ParseFailureDocument marks a lesson whose PDF exists but could not be read.
func ParseFailureDocument(lessonID, path string, err error) models.LessonDocument {
	title := fmt.Sprintf("Lesson %s", lessonID)
	return models.LessonDocument{
		LessonID:   lessonID,
		Title:      title,
		Content:    fmt.Sprintf("TITLE: %s\n\nError processing PDF: %v", title, err),
		SourcePath: path,
		HasPDF:     true,
		Error:      err.Error(),
	}
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
