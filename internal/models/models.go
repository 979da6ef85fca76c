package models

import "time"

// Section is one rendered heading/body pair, used by summaries and engine answers.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type LessonSections struct {
	Objective   string   `json:"objective,omitempty"`
	KeyConcepts []string `json:"key_concepts,omitempty"`
	Application string   `json:"application,omitempty"`
	Discussion  string   `json:"discussion,omitempty"`
}

func (s LessonSections) Empty() bool {
	return s.Objective == "" && len(s.KeyConcepts) == 0 && s.Application == "" && s.Discussion == ""
}

// Outline returns the detected sections in display order.
func (s LessonSections) Outline() []Section {
	out := make([]Section, 0, 4)
	if s.Objective != "" {
		out = append(out, Section{Heading: "Objective", Content: s.Objective})
	}
	if len(s.KeyConcepts) > 0 {
		out = append(out, Section{Heading: "Key Concepts", Content: NumberedList(s.KeyConcepts)})
	}
	if s.Application != "" {
		out = append(out, Section{Heading: "Application", Content: s.Application})
	}
	if s.Discussion != "" {
		out = append(out, Section{Heading: "Discussion", Content: s.Discussion})
	}
	return out
}

type QAPair struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Examples   []string `json:"examples,omitempty"`
	References []string `json:"references,omitempty"`
}

type LessonDocument struct {
	LessonID   string         `json:"lesson_id"`
	Title      string         `json:"title"`
	RawText    string         `json:"raw_text,omitempty"`
	Sections   LessonSections `json:"sections"`
	Content    string         `json:"content"`
	SourcePath string         `json:"source_path,omitempty"`
	HasPDF     bool           `json:"has_pdf"`
	Error      string         `json:"error,omitempty"`
	QAPairs    []QAPair       `json:"qa_pairs,omitempty"`
	WordCount  int            `json:"word_count"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one stored conversation message.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatMessage is what answering engines receive.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type UserProfile struct {
	ID       int64                     `json:"id"`
	Username string                    `json:"username"`
	Email    string                    `json:"email"`
	Role     string                    `json:"role"`
	Active   bool                      `json:"active"`
	Sections map[string]map[string]any `json:"sections,omitempty"`
}

const (
	ReplyLessonSummary  = "lesson_summary"
	ReplyQA             = "qa_response"
	ReplyLessonResponse = "lesson_response"
)

// Reply is the structured body of a bot answer. Flat answers leave it nil.
type Reply struct {
	Type       string    `json:"type"`
	Title      string    `json:"title,omitempty"`
	Sections   []Section `json:"sections,omitempty"`
	Question   string    `json:"question,omitempty"`
	Answer     string    `json:"answer,omitempty"`
	Examples   []string  `json:"examples,omitempty"`
	References []string  `json:"references,omitempty"`
}

type ChatResponse struct {
	Sender         string    `json:"sender"`
	Intent         string    `json:"intent"`
	ConversationID string    `json:"conversation_id"`
	Text           string    `json:"text,omitempty"`
	Reply          *Reply    `json:"reply,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
