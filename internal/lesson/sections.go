package lesson

import (
	"regexp"
	"sort"
	"strings"

	"tutorchat/internal/models"
)

// sectionStrategy detects one section kind by its heading synonyms.
type sectionStrategy struct {
	Name    string
	Heading *regexp.Regexp
	Apply   func(s *models.LessonSections, body string)
}

func headingPattern(synonyms string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + synonyms + `)[ \t]*(?::|$)`)
}

var sectionStrategies = []sectionStrategy{
	{
		Name:    "objective",
		Heading: headingPattern(`(?:learning\s+)?(?:objectives?|goals?)`),
		Apply:   func(s *models.LessonSections, body string) { s.Objective = body },
	},
	{
		Name:    "key_concepts",
		Heading: headingPattern(`key\s+concepts|main\s+topics|key\s+points`),
		Apply: func(s *models.LessonSections, body string) {
			s.KeyConcepts = SplitKeyConcepts(body)
		},
	},
	{
		Name:    "application",
		Heading: headingPattern(`applications?|examples?|implementation`),
		Apply:   func(s *models.LessonSections, body string) { s.Application = body },
	},
	{
		Name:    "discussion",
		Heading: headingPattern(`discussion|additional\s+notes`),
		Apply:   func(s *models.LessonSections, body string) { s.Discussion = body },
	},
}

// paragraphBreak is a blank line followed by a capitalised line.
var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n\s*[A-Z]`)

// DetectSections runs every strategy against text. Each section is taken from the
// first heading of its kind and runs until the next paragraph break or known heading.
func DetectSections(text string) (models.LessonSections, []string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var starts []int
	for _, st := range sectionStrategies {
		for _, loc := range st.Heading.FindAllStringIndex(text, -1) {
			starts = append(starts, loc[0])
		}
	}
	sort.Ints(starts)

	var out models.LessonSections
	found := make([]string, 0, len(sectionStrategies))
	for _, st := range sectionStrategies {
		loc := st.Heading.FindStringIndex(text)
		if loc == nil {
			continue
		}
		body := captureBody(text, loc[1], starts)
		if body == "" {
			continue
		}
		st.Apply(&out, body)
		if st.Name == "key_concepts" && len(out.KeyConcepts) == 0 {
			continue
		}
		found = append(found, st.Name)
	}
	return out, found
}

func captureBody(text string, from int, headingStarts []int) string {
	for from < len(text) && strings.ContainsRune(" \t\r\n", rune(text[from])) {
		from++
	}
	end := len(text)
	if m := paragraphBreak.FindStringIndex(text[from:]); m != nil {
		end = from + m[0]
	}
	for _, s := range headingStarts {
		if s >= from && s < end {
			end = s
			break
		}
	}
	return strings.TrimSpace(text[from:end])
}

var conceptMarker = regexp.MustCompile(`^\s*(?:[•●◦▪‣■\-\*]|o\s|\d+[.)])\s*`)

// StripMarker removes leading bullet or number markers until none remain.
func StripMarker(line string) string {
	for {
		next := conceptMarker.ReplaceAllString(line, "")
		if next == line {
			return strings.TrimSpace(line)
		}
		line = next
	}
}

// SplitKeyConcepts turns a captured key-concepts body into one entry per non-blank line.
func SplitKeyConcepts(body string) []string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if c := StripMarker(ln); c != "" {
			out = append(out, c)
		}
	}
	return out
}
