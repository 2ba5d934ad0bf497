package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	BrowserProfileDir string
	BrowserHeadless   bool
	AgentMaxSteps     int
	SearchEngineURL   string

	LLMProvider     string
	GeminiAPIKey    string
	DefaultLLMModel string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// DefaultProfileDir is the per-user browser profile the agent reuses between runs.
func DefaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "browseruse", "profiles", "default")
}

// Load reads the process environment, after merging a .env file from the
// working directory when one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", "0.0.0.0:8000"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		BrowserProfileDir: getenv("BROWSER_PROFILE_DIR", DefaultProfileDir()),
		BrowserHeadless:   getenvBool("BROWSER_HEADLESS", false),
		AgentMaxSteps:     getenvInt("AGENT_MAX_STEPS", 100),
		SearchEngineURL:   getenv("SEARCH_ENGINE_URL", "https://duckduckgo.com/html/?q="),

		LLMProvider:     getenv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		DefaultLLMModel: getenv("DEFAULT_LLM_MODEL", "gemini-1.5-flash"),
	}
	if cfg.AgentMaxSteps <= 0 {
		cfg.AgentMaxSteps = 100
	}
	return cfg
}
