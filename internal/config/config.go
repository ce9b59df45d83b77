package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Tavily   TavilyConfig
	Scrapin  ScrapinConfig
	Twitter  TwitterConfig
	Fixtures FixtureConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Addr  string
	Debug bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type TavilyConfig struct {
	APIKey string
}

type ScrapinConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type TwitterConfig struct {
	BearerToken string
	BaseURL     string
}

// FixtureConfig points at the hosted sample documents substituted for
// live service output when credentials are absent or a live call fails.
type FixtureConfig struct {
	UseMock       bool
	ProfileURL    string
	PostsURL      string
	DefaultHandle string
}

type LoggingConfig struct {
	Level string
	File  string
}

const (
	defaultProfileFixtureURL = "https://gist.githubusercontent.com/emarco177/859ec7d786b45d8e3e3f688c6c9139d8/raw/32f3c85b9513994c572613f2c8b376b633bfc43f/eden-marco-scrapin.json"
	defaultPostsFixtureURL   = "https://gist.githubusercontent.com/emarco177/827323bb599553d0f0e662da07b9ff68/raw/57bf38cf8acce0c87e060f9bb51f6ab72098fbd6/eden-marco-twitter.json"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:  getEnv("SERVER_ADDR", ":8080"),
			Debug: getEnvBool("DEBUG", false),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Tavily: TavilyConfig{
			APIKey: getEnv("TAVILY_API_KEY", ""),
		},
		Scrapin: ScrapinConfig{
			APIKey:  getEnv("SCRAPIN_API_KEY", ""),
			BaseURL: getEnv("SCRAPIN_BASE_URL", "https://api.scrapin.io"),
			Timeout: time.Duration(getEnvInt("SCRAPIN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			BaseURL:     getEnv("TWITTER_BASE_URL", "https://api.twitter.com"),
		},
		Fixtures: FixtureConfig{
			UseMock:       getEnvBool("USE_MOCK_DATA", false),
			ProfileURL:    getEnv("PROFILE_FIXTURE_URL", defaultProfileFixtureURL),
			PostsURL:      getEnv("POSTS_FIXTURE_URL", defaultPostsFixtureURL),
			DefaultHandle: getEnv("DEFAULT_MICROBLOG_HANDLE", "EdenEmarco177"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate enforces hard requirements only. Missing Scrapin or Twitter
// credentials are not errors: the corresponding fetcher degrades to
// fixture data instead.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	if c.Fixtures.ProfileURL == "" || c.Fixtures.PostsURL == "" {
		return fmt.Errorf("fixture URLs must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
