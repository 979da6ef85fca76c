package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"tutorchat/internal/models"
	"tutorchat/internal/util"
)

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `jane\_doe`, EscapeLike("jane_doe"))
	require.Equal(t, `100\%`, EscapeLike("100%"))
	require.Equal(t, `a\\b`, EscapeLike(`a\b`))
	require.Equal(t, "plain", EscapeLike("plain"))
}

func TestRowTurnFallsBackToLegacyMarker(t *testing.T) {
	require.Equal(t, models.ChatTurn{Role: models.RoleAssistant, Content: "hi"}, rowTurn("", "AI: hi"))
	require.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "hello"}, rowTurn("", "hello"))
	require.Equal(t, models.ChatTurn{Role: models.RoleAssistant, Content: "kept"}, rowTurn(models.RoleAssistant, "AI: kept"))
	require.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "AI: quoted"}, rowTurn(models.RoleUser, "AI: quoted"))
}

func TestDecodeEntry(t *testing.T) {
	require.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "q"}, decodeEntry(`{"role":"user","content":"q"}`))
	require.Equal(t, models.ChatTurn{Role: models.RoleAssistant, Content: "answer"}, decodeEntry("AI: answer"))
	require.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "{not json"}, decodeEntry("{not json"))
}

func TestHistoryKey(t *testing.T) {
	require.Equal(t, "tutorchat:history:lesson:7", historyKey("lesson:7"))
}

func TestWrapUnavailable(t *testing.T) {
	require.NoError(t, wrapUnavailable(nil))

	plain := errors.New("syntax error at or near")
	require.False(t, errors.Is(wrapUnavailable(plain), util.ErrStoreUnavailable))

	conn := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	wrapped := wrapUnavailable(fmt.Errorf("query: %w", conn))
	require.ErrorIs(t, wrapped, util.ErrStoreUnavailable)

	require.ErrorIs(t, wrapUnavailable(context.DeadlineExceeded), util.ErrStoreUnavailable)

	twice := wrapUnavailable(wrapUnavailable(context.DeadlineExceeded))
	require.ErrorIs(t, twice, util.ErrStoreUnavailable)
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"lessons", "users", "user_profile_sections", "chat_messages", "llm_calls"} {
		require.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
