package conversation

import (
	"fmt"
	"strings"

	"tutorchat/internal/models"
)

// LessonContext is the part of a lesson handed to the answering engine.
type LessonContext struct {
	Title   string
	Content string
}

// ContextFor returns nil when doc carries nothing worth sending.
func ContextFor(doc *models.LessonDocument) *LessonContext {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil
	}
	return &LessonContext{Title: doc.Title, Content: doc.Content}
}

func SystemPrompt(l LessonContext) string {
	return fmt.Sprintf(`You are an educational assistant for the lesson %q.
Answer from the lesson content below when it is relevant to the question. If the lesson does not cover it,
say so briefly and answer from general knowledge. Use a friendly, educational tone.

LESSON CONTENT:
%s`, l.Title, l.Content)
}

// Assemble orders the engine input as: optional system lesson context, then the
// chronological history, then the current user turn.
func Assemble(history []models.ChatTurn, lesson *LessonContext, userInput string) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history)+2)
	if lesson != nil {
		out = append(out, models.ChatMessage{Role: models.RoleSystem, Content: SystemPrompt(*lesson)})
	}
	for _, t := range history {
		role := models.RoleUser
		if t.Role == models.RoleAssistant {
			role = models.RoleAssistant
		}
		out = append(out, models.ChatMessage{Role: role, Content: t.Content})
	}
	return append(out, models.ChatMessage{Role: models.RoleUser, Content: userInput})
}

// AssembleStored decodes legacy newest-first rows and assembles them.
func AssembleStored(newestFirst []string, lesson *LessonContext, userInput string) []models.ChatMessage {
	turns := make([]models.ChatTurn, 0, len(newestFirst))
	for _, s := range newestFirst {
		turns = append(turns, DecodeTurn(s))
	}
	return Assemble(Chronological(turns), lesson, userInput)
}
