package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	CORSOrigins []string

	// Assistant
	ConfigFile      string
	Models          []string
	DefaultProvider string
	MaxHistory      int

	// Providers
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	OllamaEndpoint string

	// Journal
	DatabaseURL string

	// Rate limiting
	RedisURL           string
	RateLimitPerMinute int
}

var DefaultModels = []string{"gemini-1.5-pro", "gemini-2.0-flash"}

const (
	DefaultMaxHistory = 10
	DefaultConfigFile = "config.json"
)

func Load() *Config {
	// .env может и не быть
	_ = godotenv.Load()

	return &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		CORSOrigins:        getEnvAsListOrDefault("CORS_ORIGINS", []string{"*"}),
		ConfigFile:         getEnvOrDefault("CONFIG_FILE", DefaultConfigFile),
		Models:             getEnvAsListOrDefault("MODELS", DefaultModels),
		DefaultProvider:    getEnvOrDefault("DEFAULT_PROVIDER", "gemini"),
		MaxHistory:         getEnvAsIntOrDefault("MAX_HISTORY", DefaultMaxHistory),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OllamaEndpoint:     os.Getenv("OLLAMA_ENDPOINT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsListOrDefault: "a, b,,c" → [a b c]
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), defaultVal...)
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultVal...)
	}
	return out
}
