package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"smartchat/internal/domain/entity"
	"smartchat/internal/domain/repository"
)

// Settings namespaces. The external namespace belongs to the Smart Search
// companion deployment; its credentials are reused when
// use_external_settings is on.
const (
	NamespaceChatbot  = "chatbot"
	NamespaceExternal = "smart_search"
)

// Setting keys within the chatbot namespace.
const (
	KeySearchURL           = "smart_search_url"
	KeySearchToken         = "smart_search_token"
	KeyOpenAIKey           = "openai_api_key"
	KeyUseExternalSettings = "use_external_settings"
	KeyMaxMessageLength    = "max_message_length"
	KeyRateLimitCeiling    = "rate_limit_ceiling"
	KeyRateLimitWindow     = "rate_limit_window_seconds"
	KeySearchCacheTTL      = "search_cache_ttl_seconds"
	KeyAnswerCacheTTL      = "answer_cache_ttl_seconds"
	KeyEnablePruning       = "enable_pruning"
	KeyPruneDays           = "prune_days"
)

// SettingsResolver reads the admin-editable configuration on every request,
// falling back to defaults and environment-seeded credentials when the store
// has nothing. A nil store resolves to the fallbacks alone.
type SettingsResolver struct {
	store    repository.SettingsStore
	defaults entity.Settings
	envCreds entity.Credentials
}

func NewSettingsResolver(store repository.SettingsStore, defaults entity.Settings, envCreds entity.Credentials) *SettingsResolver {
	return &SettingsResolver{store: store, defaults: defaults, envCreds: envCreds}
}

func (r *SettingsResolver) Settings(ctx context.Context) entity.Settings {
	s := r.defaults
	if r.store == nil {
		return s
	}
	vals, err := r.store.Load(ctx, NamespaceChatbot)
	if err != nil {
		log.Printf("[SETTINGS] load failed, using defaults: %v", err)
		return s
	}
	s.UseExternalSettings = parseBool(vals[KeyUseExternalSettings], s.UseExternalSettings)
	s.MaxMessageLength = parseInt(vals[KeyMaxMessageLength], s.MaxMessageLength)
	s.RateLimitCeiling = parseInt(vals[KeyRateLimitCeiling], s.RateLimitCeiling)
	s.RateLimitWindow = parseSeconds(vals[KeyRateLimitWindow], s.RateLimitWindow)
	s.SearchCacheTTL = parseSeconds(vals[KeySearchCacheTTL], s.SearchCacheTTL)
	s.AnswerCacheTTL = parseSeconds(vals[KeyAnswerCacheTTL], s.AnswerCacheTTL)
	s.PruningEnabled = parseBool(vals[KeyEnablePruning], s.PruningEnabled)
	s.PruneDays = parseInt(vals[KeyPruneDays], s.PruneDays)
	return s
}

// Credentials resolves the three upstream credentials. Values stored by the
// admin win over environment seeds; with use_external_settings on, the
// search URL and token come from the companion namespace instead.
func (r *SettingsResolver) Credentials(ctx context.Context) entity.Credentials {
	creds := r.envCreds
	if r.store == nil {
		return creds
	}
	own, err := r.store.Load(ctx, NamespaceChatbot)
	if err != nil {
		log.Printf("[SETTINGS] credential load failed, using environment: %v", err)
		return creds
	}
	if v := own[KeySearchURL]; v != "" {
		creds.SearchURL = v
	}
	if v := own[KeySearchToken]; v != "" {
		creds.SearchToken = v
	}
	if v := own[KeyOpenAIKey]; v != "" {
		creds.OpenAIKey = v
	}
	if parseBool(own[KeyUseExternalSettings], false) {
		ext, err := r.store.Load(ctx, NamespaceExternal)
		if err != nil {
			log.Printf("[SETTINGS] external settings load failed: %v", err)
			return creds
		}
		if v := ext[KeySearchURL]; v != "" {
			creds.SearchURL = v
		}
		if v := ext[KeySearchToken]; v != "" {
			creds.SearchToken = v
		}
	}
	return creds
}

func parseBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseSeconds(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
