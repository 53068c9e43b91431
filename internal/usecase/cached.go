package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"

	"smartchat/internal/domain/entity"
	"smartchat/internal/domain/repository"
)

// CachedRetriever wraps a ContextRetriever with a read-through cache. The
// key covers the endpoint and the message; cached document sequences are
// served unchanged until TTL expiry.
type CachedRetriever struct {
	inner    repository.ContextRetriever
	cache    repository.ResponseCache
	settings *SettingsResolver
}

func NewCachedRetriever(inner repository.ContextRetriever, cache repository.ResponseCache, settings *SettingsResolver) *CachedRetriever {
	return &CachedRetriever{inner: inner, cache: cache, settings: settings}
}

func (r *CachedRetriever) Retrieve(ctx context.Context, message string, creds entity.Credentials) ([]entity.Document, error) {
	key := "cache:search:" + hashKey(creds.SearchURL, message)
	if raw, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var docs []entity.Document
		if err := json.Unmarshal([]byte(raw), &docs); err == nil {
			return docs, nil
		}
	}

	docs, err := r.inner.Retrieve(ctx, message, creds)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(docs); err == nil {
		ttl := r.settings.Settings(ctx).SearchCacheTTL
		if err := r.cache.Set(ctx, key, string(raw), ttl); err != nil {
			log.Printf("[CACHE] search cache write failed: %v", err)
		}
	}
	return docs, nil
}

// CachedGenerator does the same for generated answers, keyed on the context
// text plus the question.
type CachedGenerator struct {
	inner    repository.AnswerGenerator
	cache    repository.ResponseCache
	settings *SettingsResolver
}

func NewCachedGenerator(inner repository.AnswerGenerator, cache repository.ResponseCache, settings *SettingsResolver) *CachedGenerator {
	return &CachedGenerator{inner: inner, cache: cache, settings: settings}
}

func (g *CachedGenerator) Generate(ctx context.Context, contextText, message string, creds entity.Credentials) (string, error) {
	key := "cache:answer:" + hashKey(contextText, message)
	if answer, ok, err := g.cache.Get(ctx, key); err == nil && ok {
		return answer, nil
	}

	answer, err := g.inner.Generate(ctx, contextText, message, creds)
	if err != nil {
		return "", err
	}

	ttl := g.settings.Settings(ctx).AnswerCacheTTL
	if err := g.cache.Set(ctx, key, answer, ttl); err != nil {
		log.Printf("[CACHE] answer cache write failed: %v", err)
	}
	return answer, nil
}

func hashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0x1f})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
