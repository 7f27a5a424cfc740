package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("Should apply defaults when the environment is empty", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("APP_ENV", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("OPENAI_MODEL", "")
		t.Setenv("OPENAI_BASE_URL", "")

		cfg := FromEnv()
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, EnvProduction, cfg.AppEnv)
		assert.Equal(t, "gpt-4.1-mini", cfg.OpenAIModel)
		assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
		assert.Empty(t, cfg.OpenAIAPIKey)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("Should read overrides from the environment", func(t *testing.T) {
		t.Setenv("PORT", "8081")
		t.Setenv("APP_ENV", "development")
		t.Setenv("OPENAI_API_KEY", "  sk-test  ")
		t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

		cfg := FromEnv()
		assert.Equal(t, "8081", cfg.Port)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	})
}
