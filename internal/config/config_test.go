// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data", cfg.CacheDir)
	assert.Equal(t, "NB", cfg.TargetLang)
	assert.Equal(t, "https://bsky.social", cfg.BlueskyPDS)
	assert.NotEmpty(t, cfg.OrgsCSVURL)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")
	t.Setenv("DEEPL_API_KEY", "deepl-from-env")
	t.Setenv("BLUESKY_USERNAME", "bot.example.com")
	t.Setenv("BLUESKY_PASSWORD", "app-password")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", cfg.GithubToken)
	assert.Equal(t, "deepl-from-env", cfg.DeepLAPIKey)
	assert.Equal(t, "bot.example.com", cfg.BlueskyUsername)
	assert.Equal(t, "app-password", cfg.BlueskyPassword)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Env-only deployments must satisfy both per-command validations.
	assert.NoError(t, cfg.ValidateCollector())
	assert.NoError(t, cfg.ValidatePublisher())
}

func TestValidateCollector(t *testing.T) {
	cfg := &Config{OrgsCSVURL: "https://example.com/orgs.csv"}
	assert.Error(t, cfg.ValidateCollector(), "missing token must be rejected")

	cfg.GithubToken = "ghp_test"
	assert.NoError(t, cfg.ValidateCollector())
}

func TestValidatePublisher(t *testing.T) {
	cfg := &Config{BlueskyUsername: "bot.example.com"}
	assert.Error(t, cfg.ValidatePublisher(), "missing password must be rejected")

	cfg.BlueskyPassword = "app-password"
	assert.NoError(t, cfg.ValidatePublisher())

	// Translation credentials are optional on purpose.
	assert.Empty(t, cfg.DeepLAPIKey)
}
