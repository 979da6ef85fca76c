package directory

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	possessive   = regexp.MustCompile(`(?i)\b([A-Za-z0-9_.\-]+)'s\b`)
	leadIn       = regexp.MustCompile(`^(?:what\s+is|what's|find|show(?:\s+me)?|tell\s+me\s+about|give\s+me|about|for)\s+`)
	userWord     = regexp.MustCompile(`^(?:the\s+)?user\s+`)
	trailingKey  = regexp.MustCompile(`\s+(?:email|info|information|details|contact|profile)$`)
	singleToken  = regexp.MustCompile(`^[a-z0-9_.\-]+$`)
	afterPrep    = regexp.MustCompile(`(?i)\b(?:about|for|of)\s+(\S+)`)
)

// contractions look possessive ("what's") but never name a user.
var contractions = map[string]struct{}{
	"what": {}, "that": {}, "it": {}, "who": {}, "there": {}, "here": {},
	"he": {}, "she": {}, "let": {}, "where": {}, "how": {},
}

// ExtractEmail returns the first e-mail shaped token in q, or "".
func ExtractEmail(q string) string {
	return emailPattern.FindString(q)
}

// ExtractUsername pulls a candidate username out of a natural-language query.
// It does not filter pronouns; callers decide what counts as a real name.
func ExtractUsername(q string) string {
	for _, m := range possessive.FindAllStringSubmatch(q, -1) {
		if _, ok := contractions[strings.ToLower(m[1])]; !ok {
			return m[1]
		}
	}
	s := strings.ToLower(strings.TrimSpace(q))
	s = strings.TrimRight(s, "?.! ")
	for {
		next := userWord.ReplaceAllString(leadIn.ReplaceAllString(s, ""), "")
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimSpace(trailingKey.ReplaceAllString(s, ""))
	if singleToken.MatchString(s) {
		return s
	}
	if m := afterPrep.FindStringSubmatch(q); m != nil {
		return strings.Trim(m[1], "?.!,;:'\"")
	}
	return ""
}
