package util

import "strings"

const DefaultMaxContextRunes = 6000

// TruncateRunes returns at most maxRunes runes of text, trimmed. Used to shrink the
// lesson context handed to an answering engine that rejected the full body.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxContextRunes
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return strings.TrimSpace(text)
	}
	cut := runes[:maxRunes]
	// prefer ending on a line break when one is reasonably close
	s := string(cut)
	if i := strings.LastIndex(s, "\n"); i > len(s)/2 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
