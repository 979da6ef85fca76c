package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256HexFromReader(t *testing.T) {
	got, err := SHA256HexFromReader(strings.NewReader("lesson"))
	require.NoError(t, err)
	want := sha256.Sum256([]byte("lesson"))
	require.Equal(t, hex.EncodeToString(want[:]), got)
}
