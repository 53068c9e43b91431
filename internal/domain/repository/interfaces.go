package repository

import (
	"context"
	"time"

	"smartchat/internal/domain/entity"
)

type ContextRetriever interface {
	Retrieve(ctx context.Context, message string, creds entity.Credentials) ([]entity.Document, error)
}

type AnswerGenerator interface {
	Generate(ctx context.Context, contextText, message string, creds entity.Credentials) (string, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, clientKey string, ceiling int, window time.Duration) (bool, error)
}

type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type NonceStore interface {
	Issue(ctx context.Context, ttl time.Duration) (string, error)
	Consume(ctx context.Context, nonce string) (bool, error)
}

type ChatLogStore interface {
	Append(ctx context.Context, question, answer string) error
	List(ctx context.Context, page, perPage int) ([]entity.ChatLogEntry, int64, error)
	Delete(ctx context.Context, id int64) error
	PruneOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type SettingsStore interface {
	Load(ctx context.Context, namespace string) (map[string]string, error)
	Save(ctx context.Context, namespace string, values map[string]string) error
}
