// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Chat   ChatConfig
	CORS   CORSConfig
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port int
}

// DBConfig contains the relational store settings. An empty DSN selects
// the in-memory repositories.
type DBConfig struct {
	DSN string
}

// AuthConfig contains session-token and bootstrap settings.
type AuthConfig struct {
	Secret        string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

// ChatConfig contains generative-text provider settings.
type ChatConfig struct {
	APIKey string
	Model  string
}

// CORSConfig lists browser origins allowed to send credentialed requests.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables. The signing
// secret and the provider API key have no fallback: a deployment that
// omits either must not come up.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8840)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Server: ServerConfig{Port: port},
		DB:     DBConfig{DSN: getEnv("TODO_PG_DSN", "")},
		Auth: AuthConfig{
			Secret:        getEnv("TODO_AUTH_SECRET", ""),
			TokenTTL:      24 * time.Hour,
			AdminUsername: getEnv("TODO_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("TODO_ADMIN_PASSWORD", ""),
		},
		Chat: ChatConfig{
			APIKey: getEnv("GOOGLE_API_KEY", ""),
			Model:  getEnv("TODO_CHAT_MODEL", "models/gemini-2.5-flash"),
		},
		CORS: CORSConfig{
			Origins: splitList(getEnv("TODO_CORS_ORIGINS", "http://localhost:3000,http://localhost:3430")),
		},
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("TODO_AUTH_SECRET environment variable is not set; refusing to sign tokens with a default")
	}
	if cfg.Chat.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns a printable form with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, DSN set: %t, Secrets: *** (masked) ***}", c.Server.Port, c.DB.DSN != "")
}
