package lesson

import (
	"strings"

	"tutorchat/internal/models"
)

// Render composes the lesson body: TITLE, then OBJECTIVE, KEY CONCEPTS,
// APPLICATION and DISCUSSION when present, or the full text under CONTENT.
func Render(title string, s models.LessonSections, raw string) string {
	var b strings.Builder
	b.WriteString("TITLE: " + title + "\n\n")
	block := func(heading, body string) {
		b.WriteString(heading + ":\n" + body + "\n\n")
	}
	if s.Objective != "" {
		block("OBJECTIVE", s.Objective)
	}
	if len(s.KeyConcepts) > 0 {
		block("KEY CONCEPTS", models.NumberedList(s.KeyConcepts))
	}
	if s.Application != "" {
		block("APPLICATION", s.Application)
	}
	if s.Discussion != "" {
		block("DISCUSSION", s.Discussion)
	}
	if s.Empty() {
		block("CONTENT", strings.TrimSpace(raw))
	}
	return strings.TrimSpace(b.String())
}

// ContentBody returns what follows the CONTENT heading of a rendered body, or "".
func ContentBody(rendered string) string {
	const marker = "\n\nCONTENT:\n"
	i := strings.Index(rendered, marker)
	if i < 0 {
		return ""
	}
	return rendered[i+len(marker):]
}
