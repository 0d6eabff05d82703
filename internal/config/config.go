package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// APIConfig holds every runtime setting the gateway needs. It is built once
// in main and handed to constructors; no other package reads the environment.
type APIConfig struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	TokenTTL  time.Duration

	// Upper bound on a single provider round trip.
	ProviderTimeout time.Duration

	OpenAIAPIKey    string
	OpenAIMock      bool
	AnthropicAPIKey string
	LlamaAPIKey     string
	LlamaMock       bool

	AllowedOrigins []string

	// Requests per user per minute on authenticated routes; 0 disables.
	RateLimitPerMinute int
}

func Load() (*APIConfig, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return &APIConfig{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: dbURL,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,

		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 60)) * time.Second,

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIMock:      getEnvBool("USE_OPENAI_MOCK", false),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		LlamaAPIKey:     os.Getenv("LLAMA_API_KEY"),
		LlamaMock:       getEnvBool("USE_LLAMA_MOCK", false),

		AllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000,http://127.0.0.1:3001")),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return strings.EqualFold(value, "true")
}
