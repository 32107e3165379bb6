package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisHistory stores transcripts as Redis lists so they survive restarts and
// can be read by other dashboard processes.
type RedisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHistory connects to Redis at the given URL (redis://host:port/db).
// Transcripts expire after ttl of inactivity; zero means no expiry.
func NewRedisHistory(ctx context.Context, url string, ttl time.Duration) (*RedisHistory, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHistory{client: client, ttl: ttl}, nil
}

func historyKey(sessionID string) string {
	return "printy:history:" + sessionID
}

func (h *RedisHistory) Append(ctx context.Context, sessionID string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	payloads := make([]interface{}, 0, len(entries))

	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode history entry: %w", err)
		}

		payloads = append(payloads, payload)
	}

	key := historyKey(sessionID)

	if err := h.client.RPush(ctx, key, payloads...).Err(); err != nil {
		return fmt.Errorf("failed to append history for %s: %w", sessionID, err)
	}

	if h.ttl > 0 {
		if err := h.client.Expire(ctx, key, h.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh history ttl for %s: %w", sessionID, err)
		}
	}

	return nil
}

func (h *RedisHistory) Transcript(ctx context.Context, sessionID string) ([]Entry, error) {
	raw, err := h.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", sessionID, err)
	}

	entries := make([]Entry, 0, len(raw))

	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode history entry for %s: %w", sessionID, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (h *RedisHistory) Clear(ctx context.Context, sessionID string) error {
	return h.client.Del(ctx, historyKey(sessionID)).Err()
}

func (h *RedisHistory) Close() error {
	return h.client.Close()
}
