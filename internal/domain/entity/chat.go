package entity

import "time"

type ChatRequest struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`

	// ClientKey is the hashed remote address, set by the delivery layer.
	ClientKey string `json:"-"`
}

// Document is one similarity match returned by Smart Search.
type Document struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

type ChatLogEntry struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials are resolved on every chat request, before any network call.
type Credentials struct {
	SearchURL   string `json:"smart_search_url"`
	SearchToken string `json:"smart_search_token"`
	OpenAIKey   string `json:"openai_api_key"`
}

func (c Credentials) Complete() bool {
	return c.SearchURL != "" && c.SearchToken != "" && c.OpenAIKey != ""
}

// Settings is the admin-editable configuration surface.
type Settings struct {
	UseExternalSettings bool
	MaxMessageLength    int
	RateLimitCeiling    int
	RateLimitWindow     time.Duration
	SearchCacheTTL      time.Duration
	AnswerCacheTTL      time.Duration
	PruningEnabled      bool
	PruneDays           int
}

// DefaultSettings mirrors the plugin defaults: search results are cached far
// longer than generated answers because the corpus changes slowly.
func DefaultSettings() Settings {
	return Settings{
		MaxMessageLength: 500,
		RateLimitCeiling: 10,
		RateLimitWindow:  60 * time.Second,
		SearchCacheTTL:   24 * time.Hour,
		AnswerCacheTTL:   time.Hour,
		PruningEnabled:   false,
		PruneDays:        90,
	}
}
