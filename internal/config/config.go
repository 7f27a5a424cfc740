package config

import (
	"os"
	"strings"
)

const (
	defaultPort  = "3000"
	defaultModel = "gpt-4.1-mini"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config carries every environment-derived setting. It is built once in main
// and passed down; nothing else in the tree reads the environment.
type Config struct {
	Port          string
	AppEnv        string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	SessionSecret string
}

func FromEnv() Config {
	cfg := Config{
		Port:          envOrDefault("PORT", defaultPort),
		AppEnv:        envOrDefault("APP_ENV", EnvProduction),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", defaultModel),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SessionSecret: envOrDefault("SESSION_SECRET", "modelgate-dev-secret"),
	}
	return cfg
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
