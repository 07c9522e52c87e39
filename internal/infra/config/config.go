package config

import (
	"os"
	"strconv"
	"strings"
)

// Config gathers every environment-driven setting for the service.
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	EmbedderURL     string
	EmbeddingModel  string
	EmbedderTimeout int

	GeneratorURL     string
	GeneratorModel   string
	GeneratorTimeout int

	SearchLimit     int
	AnswerMaxChunks int
	AnswerMaxTokens int
	PromptVersion   string

	TemporalWeight    float64
	YearTolerance     int
	TemporalFiltering bool
	TemporalWeighting bool

	CacheSize       int
	CacheTTLMinutes int

	RateLimitPerSecond int
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		Port:       getEnv("PORT", "9020"),
		DBHost:     getEnv("DB_HOST", "minutes-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "minutes_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "minutes_password"),
		DBName:     getEnv("DB_NAME", "minutes_db"),

		EmbedderURL:     getEnv("EMBEDDER_URL", "http://ollama:11434"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbedderTimeout: getEnvInt("EMBEDDER_TIMEOUT", 30),

		GeneratorURL:     getEnv("GENERATOR_URL", "http://ollama:11434"),
		GeneratorModel:   getEnv("GENERATOR_MODEL", "mistral"),
		GeneratorTimeout: getEnvInt("GENERATOR_TIMEOUT", 120),

		SearchLimit:     getEnvInt("RAG_SEARCH_LIMIT", 20),
		AnswerMaxChunks: getEnvInt("RAG_DEFAULT_MAX_CHUNKS", 5),
		AnswerMaxTokens: getEnvInt("RAG_DEFAULT_MAX_TOKENS", 768),
		PromptVersion:   getEnv("RAG_PROMPT_VERSION", "conseil-v1"),

		TemporalWeight:    getEnvFloat("TEMPORAL_WEIGHT", 0.3),
		YearTolerance:     getEnvInt("YEAR_TOLERANCE", 2),
		TemporalFiltering: getEnvBool("TEMPORAL_FILTERING", true),
		TemporalWeighting: getEnvBool("TEMPORAL_WEIGHTING", true),

		CacheSize:       getEnvInt("ANSWER_CACHE_SIZE", 256),
		CacheTTLMinutes: getEnvInt("ANSWER_CACHE_TTL_MINUTES", 15),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 10),
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
		content, err := os.ReadFile(filePath)
		if err == nil {
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

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
