package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// MissingKey is held as the credential when DEEPSEEK_API_KEY cannot be resolved.
// Present compares against it explicitly, so it never passes LooksValid.
const MissingKey = "KEY_NOT_FOUND_IN_SECRETS"

// minKeyLength is the shortest value LooksValid accepts.
const minKeyLength = 16

// Credential is the bearer token for the completion service.
// It is resolved once at startup and never mutated.
type Credential struct {
	value string
}

// NewCredential wraps a raw key. Blank input yields the missing sentinel.
func NewCredential(raw string) Credential {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Credential{value: MissingKey}
	}
	return Credential{value: raw}
}

// Present reports whether a key was resolved from the secret store.
func (c Credential) Present() bool {
	return c.value != "" && c.value != MissingKey
}

// LooksValid reports whether the credential has the shape of a real API key.
func (c Credential) LooksValid() bool {
	if !c.Present() || len(c.value) < minKeyLength {
		return false
	}
	return !strings.ContainsAny(c.value, " \t\r\n")
}

// Token returns the raw key for the Authorization header.
func (c Credential) Token() string {
	return c.value
}

// String redacts the key so it never lands in logs.
func (c Credential) String() string {
	if !c.Present() {
		return "<missing>"
	}
	if len(c.value) <= 8 {
		return "***"
	}
	return c.value[:3] + "***" + c.value[len(c.value)-4:]
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// DeepSeek completion endpoint
	Credential     Credential
	DeepSeekURL    string
	DeepSeekModel  string
	RequestTimeout time.Duration

	// Activity log
	ActivityLogPath     string
	ActivityDatabaseURL string // optional Postgres mirror (empty = CSV only)

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
// Call godotenv.Load first so a local .env acts as the secret store.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "CodeGuard Ultimate"),

		Credential:     NewCredential(os.Getenv("DEEPSEEK_API_KEY")),
		DeepSeekURL:    envOrDefault("DEEPSEEK_ENDPOINT", "https://api.deepseek.com/chat/completions"),
		DeepSeekModel:  envOrDefault("DEEPSEEK_MODEL", "deepseek-coder"),
		RequestTimeout: time.Duration(envOrDefaultInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,

		ActivityLogPath:     envOrDefault("ACTIVITY_LOG_PATH", "business_data.csv"),
		ActivityDatabaseURL: os.Getenv("ACTIVITY_DATABASE_URL"),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

// Online reports whether audits can be submitted.
func (c *Config) Online() bool {
	return c.Credential.Present()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
