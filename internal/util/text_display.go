package util

import (
	"strings"
	"unicode"
)

// Preview flattens s to a single line of at most maxRunes runes for log fields.
func Preview(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 120
	}
	s = NormalizeWhitespace(SanitizeText(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			out = append(out, r)
		}
	}
	if len(out) > maxRunes {
		return strings.TrimSpace(string(out[:maxRunes])) + "..."
	}
	return string(out)
}

// NormalizeWhitespace collapses every run of whitespace to a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CollapseBlankLines trims each line and keeps at most one empty line between paragraphs.
func CollapseBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.TrimRightFunc(ln, unicode.IsSpace)
		if strings.TrimSpace(ln) == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
