package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string

	// LLMBaseURL is the OpenAI-compatible completion endpoint base
	// (Ollama exposes one under /v1).
	LLMBaseURL string
	LLMAPIKey  string

	// OllamaBaseURL is the native Ollama API used for model management.
	OllamaBaseURL string

	// CookieSecret signs the active-user cookie.
	CookieSecret string

	// MaxToolRounds bounds the tool-calling loop per request.
	MaxToolRounds int

	// MemoryLimit caps the per-user memory set.
	MemoryLimit int

	// DefaultUser names the profile created on first run; empty
	// disables the bootstrap and leaves a fresh database empty.
	DefaultUser string

	Environment string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("GO_ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "localai.db"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "http://127.0.0.1:11434/v1"),
		LLMAPIKey:     getEnv("LLM_API_KEY", "ollama"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
		CookieSecret:  getEnv("COOKIE_SECRET", ""),
		MaxToolRounds: getEnvAsInt("MAX_TOOL_ROUNDS", 5),
		MemoryLimit:   getEnvAsInt("MEMORY_LIMIT", 50),
		DefaultUser:   getEnv("DEFAULT_USER", "User"),
		Environment:   env,
	}

	if strings.ToLower(env) == "production" && cfg.CookieSecret == "" {
		log.Fatal("Missing required production environment variable: COOKIE_SECRET")
	}
	if cfg.CookieSecret == "" {
		// Development fallback; a fixed secret is acceptable for a
		// single-machine local install.
		cfg.CookieSecret = "localai-dev-secret"
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
