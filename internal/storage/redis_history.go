package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tutorchat/internal/conversation"
	"tutorchat/internal/logger"
	"tutorchat/internal/models"
)

const (
	historyKeyPrefix = "tutorchat:history:"
	// Turns kept per conversation list; older entries are trimmed on append.
	historyMaxLen = 200
)

// RedisHistory keeps each conversation as a list with the newest turn at index 0.
type RedisHistory struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewRedisClient accepts a redis:// URL or a bare host:port.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	opt.DialTimeout = 5 * time.Second
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisHistory(rdb *redis.Client, log *logger.Logger) *RedisHistory {
	return &RedisHistory{rdb: rdb, log: log.With("service", "RedisHistory")}
}

type redisEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func historyKey(conversationID string) string {
	return historyKeyPrefix + conversationID
}

func (h *RedisHistory) Append(ctx context.Context, conversationID string, turn models.ChatTurn) error {
	raw, err := json.Marshal(redisEntry{Role: turn.Role, Content: turn.Content})
	if err != nil {
		return err
	}
	key := historyKey(conversationID)
	pipe := h.rdb.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, historyMaxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", wrapUnavailable(err))
	}
	return nil
}

func (h *RedisHistory) Recent(ctx context.Context, conversationID string, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 {
		return nil, nil
	}
	vals, err := h.rdb.LRange(ctx, historyKey(conversationID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", wrapUnavailable(err))
	}
	out := make([]models.ChatTurn, 0, len(vals))
	for _, v := range vals {
		out = append(out, decodeEntry(v))
	}
	h.log.Debug("history read", "conversation_id", conversationID, "turns", len(out))
	return out, nil
}

// decodeEntry reads a JSON entry, falling back to the legacy marker string.
func decodeEntry(v string) models.ChatTurn {
	var e redisEntry
	if err := json.Unmarshal([]byte(v), &e); err == nil && e.Role != "" {
		return models.ChatTurn{Role: e.Role, Content: e.Content}
	}
	return conversation.DecodeTurn(v)
}
