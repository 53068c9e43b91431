package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"smartchat/internal/domain/entity"
	"smartchat/internal/domain/repository"
)

// Client-facing reply strings. These are the only messages a browser ever
// sees for the corresponding terminal states.
const (
	ReplyRateLimited   = "Too many requests. Please try again later."
	ReplyNotConfigured = "Chatbot is not configured."
	ReplyNoAnswer      = "Sorry, I couldn't find an answer."
	ReplyInternalError = "Something went wrong. Please try again later."
)

type Orchestrator struct {
	retriever repository.ContextRetriever
	generator repository.AnswerGenerator
	limiter   repository.RateLimiter
	logs      repository.ChatLogStore
	settings  *SettingsResolver
}

func NewOrchestrator(retriever repository.ContextRetriever, generator repository.AnswerGenerator, limiter repository.RateLimiter, logs repository.ChatLogStore, settings *SettingsResolver) *Orchestrator {
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		limiter:   limiter,
		logs:      logs,
		settings:  settings,
	}
}

// Answer runs one chat exchange end to end: rate limit, validate, resolve
// credentials, retrieve context, generate, log. The two upstream calls are
// strictly sequential and never retried.
func (o *Orchestrator) Answer(ctx context.Context, req entity.ChatRequest) (string, error) {
	started := time.Now()
	settings := o.settings.Settings(ctx)

	// 1. Rate limit. Denied requests do no further work and leave no log.
	allowed, err := o.limiter.Allow(ctx, req.ClientKey, settings.RateLimitCeiling, settings.RateLimitWindow)
	if err != nil {
		return "", fmt.Errorf("rate limiter check failed: %w", err)
	}
	if !allowed {
		return "", entity.ErrRateLimitExceeded
	}

	// 2. Validate before any cache or network access.
	message, err := ValidateMessage(req.Message, settings.MaxMessageLength)
	if err != nil {
		return "", err
	}

	// 3. Resolve credentials up front so a misconfigured install never
	// issues a wasted upstream call.
	creds := o.settings.Credentials(ctx)
	if !creds.Complete() {
		return "", entity.ErrNotConfigured
	}

	// 4. Fetch context.
	searchStart := time.Now()
	docs, err := o.retriever.Retrieve(ctx, message, creds)
	if err != nil {
		return "", err
	}
	searchElapsed := time.Since(searchStart)

	// Empty context is a valid terminal: canned reply, no log entry.
	// Only answered questions are logged.
	if len(docs) == 0 {
		log.Printf("[CHAT] no context found (search=%s)", searchElapsed)
		return ReplyNoAnswer, nil
	}

	// 5. Generate the answer from the retrieved context.
	genStart := time.Now()
	answer, err := o.generator.Generate(ctx, buildContext(docs), message, creds)
	if err != nil {
		return "", err
	}

	// 6. Best-effort log write; a storage hiccup never fails the reply.
	if err := o.logs.Append(ctx, message, answer); err != nil {
		log.Printf("[CHAT] log write failed: %v", err)
	}

	log.Printf("[CHAT] answered in %s (search=%s, generate=%s, docs=%d)",
		time.Since(started), searchElapsed, time.Since(genStart), len(docs))
	return answer, nil
}

var tagRE = regexp.MustCompile(`<[^>]*>`)

// buildContext flattens the retrieved documents into the context block fed
// to the model, one "Title: content" paragraph per document.
func buildContext(docs []entity.Document) string {
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.Title)
		sb.WriteString(": ")
		sb.WriteString(tagRE.ReplaceAllString(doc.Content, ""))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// UserReply maps an Answer error to the fixed string shown to the client.
func UserReply(err error) string {
	var vErr *entity.ValidationError
	var uErr *entity.UpstreamError
	switch {
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return ReplyRateLimited
	case errors.Is(err, entity.ErrNotConfigured):
		return ReplyNotConfigured
	case errors.As(err, &vErr):
		return vErr.Reason
	case errors.As(err, &uErr):
		return uErr.UserMessage
	default:
		return ReplyInternalError
	}
}
