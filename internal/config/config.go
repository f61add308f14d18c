package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
	Session SessionConfig
	Env     string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Path string
}

type SessionConfig struct {
	PollInterval time.Duration
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", defaultStoragePath()),
		},
		Session: SessionConfig{
			PollInterval: time.Duration(getEnvAsInt("SESSION_POLL_SECONDS", 10)) * time.Second,
		},
		Env: getEnv("ENV", "development"),
	}

	return config, nil
}

// defaultStoragePath places the local session database in the user's home
// directory, falling back to the working directory when home is unknown.
func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".show-reservations.db"
	}
	return filepath.Join(home, ".show-reservations.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
