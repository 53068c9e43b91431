package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smartchat/internal/domain/entity"
)

func testRequest(message string) entity.ChatRequest {
	return entity.ChatRequest{Message: message, ClientKey: "client-1"}
}

func TestOrchestratorAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end happy path logs exactly one entry", func(t *testing.T) {
		retriever := &fakeRetriever{docs: []entity.Document{
			{ID: "1", Score: 0.92, Title: "Returns", Content: "30 day returns"},
		}}
		generator := &fakeGenerator{answer: "You have 30 days to return items."}
		limiter := &fakeLimiter{allow: true}
		logs := &fakeLogStore{}
		orch := NewOrchestrator(retriever, generator, limiter, logs, testResolver(testCredentials()))

		reply, err := orch.Answer(ctx, testRequest("What is your return policy?"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply != "You have 30 days to return items." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if !strings.Contains(generator.lastContext, "Returns: 30 day returns") {
			t.Errorf("context not assembled from docs: %q", generator.lastContext)
		}
		if len(logs.entries) != 1 {
			t.Fatalf("expected exactly one log entry, got %d", len(logs.entries))
		}
		if logs.entries[0].Question != "What is your return policy?" {
			t.Errorf("unexpected logged question: %q", logs.entries[0].Question)
		}
		if logs.entries[0].Answer != "You have 30 days to return items." {
			t.Errorf("unexpected logged answer: %q", logs.entries[0].Answer)
		}
	})

	t.Run("rate limit denial is terminal with no log entry", func(t *testing.T) {
		retriever := &fakeRetriever{}
		logs := &fakeLogStore{}
		orch := NewOrchestrator(retriever, &fakeGenerator{}, &fakeLimiter{allow: false}, logs, testResolver(testCredentials()))

		_, err := orch.Answer(ctx, testRequest("hello"))
		if !errors.Is(err, entity.ErrRateLimitExceeded) {
			t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
		}
		if retriever.calls != 0 {
			t.Error("retriever should not be called when rate limited")
		}
		if len(logs.entries) != 0 {
			t.Error("rate limited requests must not be logged")
		}
	})

	t.Run("validation failure happens before any upstream call", func(t *testing.T) {
		retriever := &fakeRetriever{}
		orch := NewOrchestrator(retriever, &fakeGenerator{}, &fakeLimiter{allow: true}, &fakeLogStore{}, testResolver(testCredentials()))

		_, err := orch.Answer(ctx, testRequest("   "))
		var vErr *entity.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if retriever.calls != 0 {
			t.Error("retriever should not be called for invalid input")
		}
	})

	t.Run("oversize message is rejected before any upstream call", func(t *testing.T) {
		retriever := &fakeRetriever{}
		orch := NewOrchestrator(retriever, &fakeGenerator{}, &fakeLimiter{allow: true}, &fakeLogStore{}, testResolver(testCredentials()))

		_, err := orch.Answer(ctx, testRequest(strings.Repeat("x", 501)))
		var vErr *entity.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if retriever.calls != 0 {
			t.Error("retriever should not be called for oversize input")
		}
	})

	t.Run("missing credentials fail before any network call", func(t *testing.T) {
		retriever := &fakeRetriever{}
		orch := NewOrchestrator(retriever, &fakeGenerator{}, &fakeLimiter{allow: true}, &fakeLogStore{}, testResolver(entity.Credentials{}))

		_, err := orch.Answer(ctx, testRequest("hello"))
		if !errors.Is(err, entity.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
		if retriever.calls != 0 {
			t.Error("retriever should not be called without credentials")
		}
	})

	t.Run("empty context returns canned reply without generation or log", func(t *testing.T) {
		generator := &fakeGenerator{}
		logs := &fakeLogStore{}
		orch := NewOrchestrator(&fakeRetriever{docs: []entity.Document{}}, generator, &fakeLimiter{allow: true}, logs, testResolver(testCredentials()))

		reply, err := orch.Answer(ctx, testRequest("anything relevant?"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply != ReplyNoAnswer {
			t.Errorf("expected canned reply, got %q", reply)
		}
		if generator.calls != 0 {
			t.Error("generator should not run without context")
		}
		if len(logs.entries) != 0 {
			t.Error("unanswered questions must not be logged")
		}
	})

	t.Run("retriever failure propagates as UpstreamError", func(t *testing.T) {
		retrieveErr := &entity.UpstreamError{Service: "smart-search", UserMessage: "Error contacting Smart Search service.", Err: errors.New("boom")}
		orch := NewOrchestrator(&fakeRetriever{err: retrieveErr}, &fakeGenerator{}, &fakeLimiter{allow: true}, &fakeLogStore{}, testResolver(testCredentials()))

		_, err := orch.Answer(ctx, testRequest("hello"))
		var uErr *entity.UpstreamError
		if !errors.As(err, &uErr) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if UserReply(err) != "Error contacting Smart Search service." {
			t.Errorf("unexpected user reply: %q", UserReply(err))
		}
	})

	t.Run("generator failure propagates as UpstreamError", func(t *testing.T) {
		genErr := &entity.UpstreamError{Service: "openai", UserMessage: "Error contacting OpenAI API.", Err: errors.New("boom")}
		logs := &fakeLogStore{}
		orch := NewOrchestrator(
			&fakeRetriever{docs: []entity.Document{{Title: "T", Content: "c"}}},
			&fakeGenerator{err: genErr}, &fakeLimiter{allow: true}, logs, testResolver(testCredentials()))

		_, err := orch.Answer(ctx, testRequest("hello"))
		var uErr *entity.UpstreamError
		if !errors.As(err, &uErr) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if len(logs.entries) != 0 {
			t.Error("failed exchanges must not be logged")
		}
	})

	t.Run("log write failure does not fail the reply", func(t *testing.T) {
		orch := NewOrchestrator(
			&fakeRetriever{docs: []entity.Document{{Title: "T", Content: "c"}}},
			&fakeGenerator{answer: "fine"}, &fakeLimiter{allow: true},
			&fakeLogStore{appendErr: errors.New("disk full")}, testResolver(testCredentials()))

		reply, err := orch.Answer(ctx, testRequest("hello"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply != "fine" {
			t.Errorf("unexpected reply: %q", reply)
		}
	})

	t.Run("context strips HTML from document content", func(t *testing.T) {
		generator := &fakeGenerator{answer: "ok"}
		orch := NewOrchestrator(
			&fakeRetriever{docs: []entity.Document{{Title: "Returns", Content: "<p>30 day <b>returns</b></p>"}}},
			generator, &fakeLimiter{allow: true}, &fakeLogStore{}, testResolver(testCredentials()))

		if _, err := orch.Answer(ctx, testRequest("policy?")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(generator.lastContext, "Returns: 30 day returns") {
			t.Errorf("tags not stripped from context: %q", generator.lastContext)
		}
	})
}

func TestUserReply(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{entity.ErrRateLimitExceeded, ReplyRateLimited},
		{entity.ErrNotConfigured, ReplyNotConfigured},
		{&entity.ValidationError{Reason: "Please enter a message."}, "Please enter a message."},
		{&entity.UpstreamError{UserMessage: "Error contacting OpenAI API."}, "Error contacting OpenAI API."},
		{errors.New("internal detail"), ReplyInternalError},
	}
	for _, tc := range cases {
		if got := UserReply(tc.err); got != tc.want {
			t.Errorf("UserReply(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
