package usecase

import (
	"context"
	"time"

	"smartchat/internal/domain/entity"
)

type fakeRetriever struct {
	docs  []entity.Document
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, message string, creds entity.Credentials) ([]entity.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeGenerator struct {
	answer      string
	err         error
	calls       int
	lastContext string
	lastMessage string
}

func (f *fakeGenerator) Generate(ctx context.Context, contextText, message string, creds entity.Credentials) (string, error) {
	f.calls++
	f.lastContext = contextText
	f.lastMessage = message
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeLimiter struct {
	allow bool
	err   error
	calls int
}

func (f *fakeLimiter) Allow(ctx context.Context, clientKey string, ceiling int, window time.Duration) (bool, error) {
	f.calls++
	return f.allow, f.err
}

type fakeLogStore struct {
	entries     []entity.ChatLogEntry
	appendErr   error
	prunedAges  []time.Duration
	pruneReturn int64
	pruneErr    error
}

func (f *fakeLogStore) Append(ctx context.Context, question, answer string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entity.ChatLogEntry{
		ID:        int64(len(f.entries) + 1),
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeLogStore) List(ctx context.Context, page, perPage int) ([]entity.ChatLogEntry, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeLogStore) Delete(ctx context.Context, id int64) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return entity.ErrLogNotFound
}

func (f *fakeLogStore) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	f.prunedAges = append(f.prunedAges, age)
	return f.pruneReturn, f.pruneErr
}

type fakeCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.sets++
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

type fakeSettingsStore struct {
	data map[string]map[string]string
	err  error
}

func (f *fakeSettingsStore) Load(ctx context.Context, namespace string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	values := map[string]string{}
	for k, v := range f.data[namespace] {
		values[k] = v
	}
	return values, nil
}

func (f *fakeSettingsStore) Save(ctx context.Context, namespace string, values map[string]string) error {
	if f.err != nil {
		return f.err
	}
	if f.data == nil {
		f.data = map[string]map[string]string{}
	}
	if f.data[namespace] == nil {
		f.data[namespace] = map[string]string{}
	}
	for k, v := range values {
		f.data[namespace][k] = v
	}
	return nil
}

func testCredentials() entity.Credentials {
	return entity.Credentials{
		SearchURL:   "https://search.example.com/graphql",
		SearchToken: "search-token",
		OpenAIKey:   "sk-test",
	}
}

func testResolver(creds entity.Credentials) *SettingsResolver {
	return NewSettingsResolver(nil, entity.DefaultSettings(), creds)
}
