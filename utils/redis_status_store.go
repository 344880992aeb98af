package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// StatusStore tracks per-user unread message counters, keyed by conversation.
// The relational store stays the source of truth for IsRead flags; this is a
// cheap counter the client polls for badge rendering.
type StatusStore interface {
	IncrementUnread(userId, conversationId string) error
	ClearUnread(userId, conversationId string) error
	GetUnreadCounts(userId string) (map[string]int64, error)
}

type RedisStatusStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStatusStore() (*RedisStatusStore, error) {
	dsn := os.Getenv("REDIS_DSN")
	if dsn == "" {
		return nil, errors.New("REDIS_DSN is not set")
	}
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "invalid REDIS_DSN")
	}
	return &RedisStatusStore{
		client: redis.NewClient(opt),
		ctx:    context.Background(),
	}, nil
}

func unreadKey(userId string) string {
	return fmt.Sprintf("unread:%s", userId)
}

func (r *RedisStatusStore) IncrementUnread(userId, conversationId string) error {
	return r.client.HIncrBy(r.ctx, unreadKey(userId), conversationId, 1).Err()
}

func (r *RedisStatusStore) ClearUnread(userId, conversationId string) error {
	return r.client.HDel(r.ctx, unreadKey(userId), conversationId).Err()
}

func (r *RedisStatusStore) GetUnreadCounts(userId string) (map[string]int64, error) {
	raw, err := r.client.HGetAll(r.ctx, unreadKey(userId)).Result()
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for conversationId, v := range raw {
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			continue
		}
		counts[conversationId] = n
	}
	return counts, nil
}
