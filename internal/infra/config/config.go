package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	// Upstream content source
	ContentAPIURL string
	CategoryID    int
	PerPage       int
	MaxPages      int
	SiteDomain    string

	// Index cache
	CacheTTL time.Duration

	// Retrieval
	MaxResults int

	// Prompting
	ArchiveName string
	ArchiveURL  string

	// Language model
	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	MaxTokens   int

	// Stream relay
	CitationMode string

	// CORS
	AllowedDomains []string
}

func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "8787"),
		ContentAPIURL: getEnv("CONTENT_API_URL", "https://johnfreeborn.com/wp-json/wp/v2/posts"),
		CategoryID:    getEnvInt("CONTENT_CATEGORY_ID", 0),
		PerPage:       getEnvInt("CONTENT_PER_PAGE", 100),
		MaxPages:      getEnvInt("CONTENT_MAX_PAGES", 50),
		SiteDomain:    getEnv("SITE_DOMAIN", "johnfreeborn.com"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),
		MaxResults:    getEnvInt("RETRIEVAL_MAX_RESULTS", 30),
		ArchiveName:   getEnv("ARCHIVE_NAME", "Weekly Design Links"),
		ArchiveURL:    getEnv("ARCHIVE_URL", "https://johnfreeborn.com/words"),
		LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
		LLMModel:      getEnv("LLM_MODEL", "@cf/meta/llama-3.1-8b-instruct"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
		LLMAPIKey:     getSecret("LLM_API_KEY", "LLM_API_KEY_FILE", ""),
		MaxTokens:     getEnvInt("LLM_MAX_TOKENS", 1024),
		CitationMode:  getEnv("CITATION_MODE", "stream"),
		AllowedDomains: getEnvList("CORS_ALLOWED_DOMAINS",
			[]string{"localhost", "127.0.0.1", "johnfreeborn.com"}),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
