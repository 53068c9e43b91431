package api

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"smartchat/internal/domain/entity"
	"smartchat/internal/domain/repository"
	"smartchat/internal/usecase"
)

const nonceTTL = 10 * time.Minute

type ChatHandler struct {
	orchestrator *usecase.Orchestrator
	nonces       repository.NonceStore
}

func NewChatHandler(orch *usecase.Orchestrator, nonces repository.NonceStore) *ChatHandler {
	return &ChatHandler{orchestrator: orch, nonces: nonces}
}

// replyJSON is the single wire shape for chat responses, success or failure.
func replyJSON(c *fiber.Ctx, status int, success bool, reply string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": success,
		"data":    fiber.Map{"reply": reply},
	})
}

func (h *ChatHandler) HandleNonce(c *fiber.Ctx) error {
	nonce, err := h.nonces.Issue(c.Context(), nonceTTL)
	if err != nil {
		log.Printf("[CHAT] nonce issue failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"data":    fiber.Map{"reply": usecase.ReplyInternalError},
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"nonce": nonce},
	})
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return replyJSON(c, fiber.StatusBadRequest, false, "Invalid request body.")
	}

	// Fail closed on the request token before anything else runs.
	ok, err := h.nonces.Consume(c.Context(), req.Nonce)
	if err != nil {
		log.Printf("[CHAT] nonce check failed: %v", err)
		return replyJSON(c, fiber.StatusInternalServerError, false, usecase.ReplyInternalError)
	}
	if !ok {
		return replyJSON(c, fiber.StatusForbidden, false, "Invalid request token.")
	}

	req.ClientKey = hashClientKey(c.IP())

	reply, err := h.orchestrator.Answer(c.Context(), req)
	if err != nil {
		return replyJSON(c, statusFor(err), false, usecase.UserReply(err))
	}
	return replyJSON(c, fiber.StatusOK, true, reply)
}

// statusFor maps the domain error taxonomy to HTTP status codes. The body
// never carries more than the fixed user-facing string.
func statusFor(err error) int {
	var vErr *entity.ValidationError
	var uErr *entity.UpstreamError
	switch {
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return fiber.StatusTooManyRequests
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &uErr):
		log.Printf("[CHAT] upstream failure: %v", err)
		return fiber.StatusBadGateway
	default:
		log.Printf("[CHAT] unexpected failure: %v", err)
		return fiber.StatusInternalServerError
	}
}

func hashClientKey(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return fmt.Sprintf("%x", sum[:8])
}
