package models

import (
	"fmt"
	"strings"
)

// NumberedList renders items as "1. a\n2. b".
func NumberedList(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, it)
	}
	return b.String()
}
