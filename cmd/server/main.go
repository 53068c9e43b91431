package main

import (
	"context"
	"log"
	"time"

	"smartchat/internal/adapter/api"
	"smartchat/internal/adapter/client"
	"smartchat/internal/adapter/store"
	"smartchat/internal/config"
	"smartchat/internal/domain/entity"
	"smartchat/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Redis for rate limiting, the response cache, and chat nonces
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// Postgres for chat logs and the settings store
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	logStore := store.NewPostgresLogStore(pool)
	if err := logStore.InitSchema(ctx); err != nil {
		log.Fatalf("failed to init chat_logs schema: %v", err)
	}
	settingsStore := store.NewPostgresSettingsStore(pool)
	if err := settingsStore.InitSchema(ctx); err != nil {
		log.Fatalf("failed to init chat_settings schema: %v", err)
	}

	resolver := usecase.NewSettingsResolver(settingsStore, entity.DefaultSettings(), entity.Credentials{
		SearchURL:   cfg.SmartSearchURL,
		SearchToken: cfg.SmartSearchToken,
		OpenAIKey:   cfg.OpenAIAPIKey,
	})

	cache := store.NewRedisCache(rdb)
	limiter := store.NewRedisLimiter(rdb)
	nonces := store.NewRedisNonceStore(rdb)

	retriever := usecase.NewCachedRetriever(client.NewSmartSearchClient(), cache, resolver)
	generator := usecase.NewCachedGenerator(client.NewOpenAIClient(cfg.OpenAIBaseURL), cache, resolver)

	orchestrator := usecase.NewOrchestrator(retriever, generator, limiter, logStore, resolver)

	// Daily chat log pruning, matching the plugin's scheduled job
	pruner := usecase.NewPruner(logStore, resolver)
	go pruner.Run(ctx, 24*time.Hour)

	app := fiber.New(fiber.Config{
		AppName: "Smart Search Chatbot Gateway",
	})

	chatHandler := api.NewChatHandler(orchestrator, nonces)
	adminHandler := api.NewAdminHandler(logStore, settingsStore, resolver, cfg.AdminAPIKey, cfg.JWTSecret)
	api.SetupRouter(app, chatHandler, adminHandler, cfg.JWTSecret)

	log.Printf("Smart Search Chatbot Gateway running on port %s", cfg.ServerPort)
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
