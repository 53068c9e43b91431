package api

import (
	"crypto/subtle"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"smartchat/internal/domain/entity"
	"smartchat/internal/domain/repository"
	"smartchat/internal/usecase"
)

const logsPerPage = 20

// AdminHandler serves the log viewer and configuration surface that
// replaces the wp-admin screens.
type AdminHandler struct {
	logs      repository.ChatLogStore
	settings  repository.SettingsStore
	resolver  *usecase.SettingsResolver
	apiKey    string
	jwtSecret string
}

func NewAdminHandler(logs repository.ChatLogStore, settings repository.SettingsStore, resolver *usecase.SettingsResolver, apiKey, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		logs:      logs,
		settings:  settings,
		resolver:  resolver,
		apiKey:    apiKey,
		jwtSecret: jwtSecret,
	}
}

// HandleToken exchanges the configured admin API key for a bearer JWT.
func (h *AdminHandler) HandleToken(c *fiber.Ctx) error {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
	}
	token, err := GenerateAdminToken(h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token generation failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"token": token}})
}

func (h *AdminHandler) HandleListLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	logs, total, err := h.logs.List(c.Context(), page, logsPerPage)
	if err != nil {
		log.Printf("[ADMIN] log listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "failed to list logs"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"logs":     logs,
			"total":    total,
			"page":     page,
			"per_page": logsPerPage,
		},
	})
}

func (h *AdminHandler) HandleDeleteLog(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid id"})
	}
	if err := h.logs.Delete(c.Context(), id); err != nil {
		if errors.Is(err, entity.ErrLogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "log entry not found"})
		}
		log.Printf("[ADMIN] log delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "failed to delete"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings := h.resolver.Settings(c.Context())
	creds := h.resolver.Credentials(c.Context())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"settings": fiber.Map{
				usecase.KeyUseExternalSettings: settings.UseExternalSettings,
				usecase.KeyMaxMessageLength:    settings.MaxMessageLength,
				usecase.KeyRateLimitCeiling:    settings.RateLimitCeiling,
				usecase.KeyRateLimitWindow:     int(settings.RateLimitWindow.Seconds()),
				usecase.KeySearchCacheTTL:      int(settings.SearchCacheTTL.Seconds()),
				usecase.KeyAnswerCacheTTL:      int(settings.AnswerCacheTTL.Seconds()),
				usecase.KeyEnablePruning:       settings.PruningEnabled,
				usecase.KeyPruneDays:           settings.PruneDays,
			},
			"credentials": creds,
		},
	})
}

// HandleUpdateSettings accepts a flat map of setting keys and stores it in
// the chatbot namespace; unknown keys are rejected.
func (h *AdminHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	for key := range req {
		if !knownSettingKeys[key] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "unknown setting: " + key})
		}
	}
	if err := h.settings.Save(c.Context(), usecase.NamespaceChatbot, req); err != nil {
		log.Printf("[ADMIN] settings save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "failed to save settings"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

var knownSettingKeys = map[string]bool{
	usecase.KeySearchURL:           true,
	usecase.KeySearchToken:         true,
	usecase.KeyOpenAIKey:           true,
	usecase.KeyUseExternalSettings: true,
	usecase.KeyMaxMessageLength:    true,
	usecase.KeyRateLimitCeiling:    true,
	usecase.KeyRateLimitWindow:     true,
	usecase.KeySearchCacheTTL:      true,
	usecase.KeyAnswerCacheTTL:      true,
	usecase.KeyEnablePruning:       true,
	usecase.KeyPruneDays:           true,
}
