package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string
	RedisAddr   string

	AdminAPIKey string
	JWTSecret   string

	// Environment seeds for the credential store; the admin API can
	// override them at runtime.
	SmartSearchURL   string
	SmartSearchToken string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		AdminAPIKey:      getEnv("ADMIN_API_KEY", ""),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		SmartSearchURL:   getEnv("SMART_SEARCH_URL", ""),
		SmartSearchToken: getEnv("SMART_SEARCH_TOKEN", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
