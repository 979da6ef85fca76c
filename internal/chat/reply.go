package chat

import (
	"regexp"
	"strings"

	"tutorchat/internal/lesson"
	"tutorchat/internal/models"
)

var (
	boldMarks   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMarks = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// StripEmphasis removes markdown bold and italic markers from engine output.
func StripEmphasis(s string) string {
	s = boldMarks.ReplaceAllString(s, "$1")
	s = italicMarks.ReplaceAllString(s, "$1")
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

// summaryReply renders the lesson outline. A document without recognized
// sections falls back to its body so the user still sees something.
func summaryReply(doc *models.LessonDocument) *models.Reply {
	reply := &models.Reply{Type: models.ReplyLessonSummary, Title: doc.Title}
	reply.Sections = doc.Sections.Outline()
	if len(reply.Sections) == 0 {
		body := lesson.ContentBody(doc.Content)
		if body == "" {
			body = doc.Content
		}
		reply.Sections = []models.Section{{Heading: "Content", Content: body}}
	}
	return reply
}

func qaReply(p models.QAPair) *models.Reply {
	return &models.Reply{
		Type:       models.ReplyQA,
		Question:   p.Question,
		Answer:     p.Answer,
		Examples:   p.Examples,
		References: p.References,
	}
}

// ReplyText flattens a response for history storage.
func ReplyText(resp models.ChatResponse) string {
	if resp.Reply == nil {
		return resp.Text
	}
	r := resp.Reply
	var b strings.Builder
	if r.Type == models.ReplyLessonSummary && r.Title != "" {
		b.WriteString(r.Title)
		b.WriteString("\n\n")
	}
	if r.Type == models.ReplyQA {
		b.WriteString("Q: " + r.Question + "\nA: " + r.Answer)
		return strings.TrimSpace(b.String())
	}
	for i, sec := range r.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if r.Type != models.ReplyLessonResponse {
			b.WriteString(sec.Heading + ":\n")
		}
		b.WriteString(sec.Content)
	}
	return strings.TrimSpace(b.String())
}
