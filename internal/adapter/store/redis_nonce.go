package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisNonceStore issues one-shot request tokens for the chat endpoint.
// Consume removes the nonce atomically, so a replayed token fails.
type RedisNonceStore struct {
	client *redis.Client
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

func (n *RedisNonceStore) Issue(ctx context.Context, ttl time.Duration) (string, error) {
	nonce := uuid.NewString()
	if err := n.client.Set(ctx, "nonce:"+nonce, "1", ttl).Err(); err != nil {
		return "", err
	}
	return nonce, nil
}

func (n *RedisNonceStore) Consume(ctx context.Context, nonce string) (bool, error) {
	if nonce == "" {
		return false, nil
	}
	_, err := n.client.GetDel(ctx, "nonce:"+nonce).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
