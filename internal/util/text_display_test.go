package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewFlattensAndTruncates(t *testing.T) {
	require.Equal(t, "a b c", Preview("a\n\tb   c", 50))
	require.Equal(t, "abc...", Preview("abcdef", 3))
}

func TestCollapseBlankLines(t *testing.T) {
	in := "\n\nfirst  \n\n\n\nsecond\n   \nthird\n\n"
	require.Equal(t, "first\n\nsecond\n\nthird", CollapseBlankLines(in))
}
