package intent

import (
	"regexp"
	"strings"

	"tutorchat/internal/directory"
	"tutorchat/internal/models"
)

type Intent string

const (
	UserInfo Intent = "user_info"
	Summary  Intent = "summary"
	QAMatch  Intent = "qa_match"
	General  Intent = "general"
)

// Decision carries the chosen branch plus whatever the matching rule captured.
type Decision struct {
	Intent   Intent
	Rule     string
	QAPair   *models.QAPair
	Email    string
	Username string
}

type rule struct {
	Name  string
	Match func(msg string, lesson *models.LessonDocument) (Decision, bool)
}

// rules run in precedence order; the first match wins.
var rules = []rule{
	{Name: "user_info", Match: matchUserInfo},
	{Name: "summary", Match: matchSummary},
	{Name: "qa_match", Match: matchQA},
}

var (
	userInfoKeywords = []string{"email", "information", "info", "details", "contact", "profile", "about", "tell me about"}
	summaryKeywords  = []string{"summary", "summarize", "overview"}
	tellPhrase       = regexp.MustCompile(`(?i)\b(?:tell|show|give)\s+(?:me|us)\s+(?:about|info)\s+(\w+)`)

	stopWords = map[string]struct{}{
		"you": {}, "me": {}, "i": {}, "we": {}, "they": {}, "them": {}, "it": {},
		"that": {}, "this": {}, "these": {}, "those": {}, "what": {}, "who": {},
	}
)

// Classify picks the handling branch for msg. lesson may be nil when no lesson
// context is loaded. It is pure and safe for concurrent use.
func Classify(msg string, lesson *models.LessonDocument) Decision {
	for _, r := range rules {
		if d, ok := r.Match(msg, lesson); ok {
			d.Rule = r.Name
			return d
		}
	}
	return Decision{Intent: General, Rule: "general"}
}

func matchUserInfo(msg string, _ *models.LessonDocument) (Decision, bool) {
	if email := directory.ExtractEmail(msg); email != "" {
		return Decision{Intent: UserInfo, Email: email}, true
	}
	if !containsAny(strings.ToLower(msg), userInfoKeywords) {
		return Decision{}, false
	}
	if m := tellPhrase.FindStringSubmatch(msg); m != nil {
		return Decision{Intent: UserInfo, Username: m[1]}, true
	}
	if name := directory.ExtractUsername(msg); name != "" {
		if _, stop := stopWords[strings.ToLower(name)]; !stop {
			return Decision{Intent: UserInfo, Username: name}, true
		}
	}
	return Decision{}, false
}

func matchSummary(msg string, lesson *models.LessonDocument) (Decision, bool) {
	if lesson == nil || !containsAny(strings.ToLower(msg), summaryKeywords) {
		return Decision{}, false
	}
	return Decision{Intent: Summary}, true
}

// matchQA looks for the message inside a stored question, not the other way round,
// so short phrases like "backpropagation" hit longer stored questions.
func matchQA(msg string, lesson *models.LessonDocument) (Decision, bool) {
	needle := strings.ToLower(strings.TrimSpace(msg))
	if lesson == nil || needle == "" {
		return Decision{}, false
	}
	for i := range lesson.QAPairs {
		if strings.Contains(strings.ToLower(lesson.QAPairs[i].Question), needle) {
			pair := lesson.QAPairs[i]
			return Decision{Intent: QAMatch, QAPair: &pair}, true
		}
	}
	return Decision{}, false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
