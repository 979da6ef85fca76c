package lesson

import (
	"regexp"
	"strings"

	"tutorchat/internal/models"
	"tutorchat/internal/util"
)

var (
	qaQuestionLine  = regexp.MustCompile(`(?i)^\s*(?:q|question)\s*\d*\s*:\s*(.+)$`)
	qaAnswerLine    = regexp.MustCompile(`(?i)^\s*(?:a|answer)\s*\d*\s*:\s*(.*)$`)
	qaExampleLine   = regexp.MustCompile(`(?i)^\s*(?:e\.g\.|examples?)\s*:\s*(.*)$`)
	qaReferenceLine = regexp.MustCompile(`(?i)^\s*(?:references?|sources?)\s*:\s*(.*)$`)
)

type qaMode int

const (
	qaNone qaMode = iota
	qaInQuestion
	qaInAnswer
	qaInExamples
	qaInReferences
)

// ExtractQAPairs collects Q:/A: blocks in document order. Example and Reference
// lines inside an answer are split into their own lists.
func ExtractQAPairs(text string) []models.QAPair {
	var (
		out      []models.QAPair
		cur      *models.QAPair
		question []string
		answer   []string
		mode     = qaNone
	)
	flush := func() {
		if cur != nil {
			cur.Question = util.NormalizeWhitespace(strings.Join(question, " "))
			cur.Answer = NormalizeAnswer(strings.Join(answer, "\n"))
			if cur.Question != "" && cur.Answer != "" {
				out = append(out, *cur)
			}
		}
		cur, question, answer, mode = nil, nil, nil, qaNone
	}

	for _, ln := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := qaQuestionLine.FindStringSubmatch(ln); m != nil {
			flush()
			cur = &models.QAPair{}
			question = []string{m[1]}
			mode = qaInQuestion
			continue
		}
		if cur == nil {
			continue
		}
		if isSectionHeading(ln) && mode != qaInQuestion && !qaExampleLine.MatchString(ln) {
			flush()
			continue
		}
		switch {
		case qaAnswerLine.MatchString(ln) && mode == qaInQuestion:
			answer = append(answer, qaAnswerLine.FindStringSubmatch(ln)[1])
			mode = qaInAnswer
		case qaExampleLine.MatchString(ln) && mode >= qaInAnswer:
			mode = qaInExamples
			if rest := StripMarker(qaExampleLine.FindStringSubmatch(ln)[1]); rest != "" {
				cur.Examples = append(cur.Examples, rest)
			}
		case qaReferenceLine.MatchString(ln) && mode >= qaInAnswer:
			mode = qaInReferences
			if rest := StripMarker(qaReferenceLine.FindStringSubmatch(ln)[1]); rest != "" {
				cur.References = append(cur.References, rest)
			}
		default:
			switch mode {
			case qaInQuestion:
				question = append(question, ln)
			case qaInAnswer:
				answer = append(answer, ln)
			case qaInExamples:
				if item := StripMarker(ln); item != "" {
					cur.Examples = append(cur.Examples, item)
				}
			case qaInReferences:
				if item := StripMarker(ln); item != "" {
					cur.References = append(cur.References, item)
				}
			}
		}
	}
	flush()
	return out
}

func isSectionHeading(line string) bool {
	for _, st := range sectionStrategies {
		if st.Heading.MatchString(line) {
			return true
		}
	}
	return false
}

// NormalizeAnswer drops '#' markers, trims every line and removes blank lines.
func NormalizeAnswer(s string) string {
	s = strings.ReplaceAll(s, "#", "")
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		if ln = strings.TrimSpace(ln); ln != "" {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}
