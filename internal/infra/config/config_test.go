package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfx1026/creativelink-ai-search/internal/infra/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8787", cfg.Port)
	assert.Equal(t, "https://johnfreeborn.com/wp-json/wp/v2/posts", cfg.ContentAPIURL)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 50, cfg.MaxPages)
	assert.Equal(t, "johnfreeborn.com", cfg.SiteDomain)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 30, cfg.MaxResults)
	assert.Equal(t, "Weekly Design Links", cfg.ArchiveName)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "stream", cfg.CitationMode)
	assert.Equal(t, []string{"localhost", "127.0.0.1", "johnfreeborn.com"}, cfg.AllowedDomains)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CONTENT_PER_PAGE", "25")
	t.Setenv("CITATION_MODE", "trailer")
	t.Setenv("CORS_ALLOWED_DOMAINS", "a.example, b.example")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.PerPage)
	assert.Equal(t, "trailer", cfg.CitationMode)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.AllowedDomains)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONTENT_PER_PAGE", "lots")
	t.Setenv("CACHE_TTL", "soon")

	cfg := config.Load()

	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestLoad_SecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_key")
	require.NoError(t, os.WriteFile(path, []byte("sk-test-key\n"), 0o600))
	t.Setenv("LLM_API_KEY_FILE", path)

	cfg := config.Load()
	assert.Equal(t, "sk-test-key", cfg.LLMAPIKey)
}

func TestLoad_SecretEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_key")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))
	t.Setenv("LLM_API_KEY_FILE", path)
	t.Setenv("LLM_API_KEY", "from-env")

	cfg := config.Load()
	assert.Equal(t, "from-env", cfg.LLMAPIKey)
}
