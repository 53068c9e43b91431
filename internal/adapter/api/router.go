package api

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRouter(app *fiber.App, chat *ChatHandler, admin *AdminHandler, jwtSecret string) {
	// Middleware
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENV"),
		})
	})

	// API Versioning
	v1 := app.Group("/v1")

	// Widget-facing endpoints
	v1.Get("/chat/nonce", chat.HandleNonce)
	v1.Post("/chat", chat.HandleChat)

	// Admin endpoints
	v1.Post("/admin/token", admin.HandleToken)
	adm := v1.Group("/admin", AdminAuth(jwtSecret))
	adm.Get("/logs", admin.HandleListLogs)
	adm.Delete("/logs/:id", admin.HandleDeleteLog)
	adm.Get("/settings", admin.HandleGetSettings)
	adm.Put("/settings", admin.HandleUpdateSettings)
}
