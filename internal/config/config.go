// Package config reads server and CLI settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver   string // "postgres" or "sqlite"
	DBURL      string // Postgres connection URL
	SQLitePath string

	JWTSecret string
	JWTTTL    time.Duration

	ChatBaseURL string
	ChatAPIKey  string
	ChatModel   string

	// Location decides which calendar day is "today" for the log endpoints.
	Location *time.Location
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DBURL
	}
	return c.SQLitePath
}

// Load reads the given env files (default ".env") into the process
// environment, ignoring missing files, and then builds the Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:        get("PORT", "3000"),
		DBDriver:    get("DB_DRIVER", "sqlite"),
		DBURL:       getenv("DB_URL"),
		SQLitePath:  get("SQLITE_PATH", "nutri-track.db"),
		JWTSecret:   getenv("JWT_SECRET"),
		ChatBaseURL: get("CHAT_BASE_URL", "https://api.groq.com/openai"),
		ChatAPIKey:  getenv("CHAT_API_KEY"),
		ChatModel:   get("CHAT_MODEL", "llama3-8b-8192"),
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	hours, err := strconv.Atoi(get("JWT_TTL_HOURS", "72"))
	if err != nil || hours <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
	}
	cfg.JWTTTL = time.Duration(hours) * time.Hour

	cfg.Location, err = time.LoadLocation(get("LOG_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_TIMEZONE: %w", err)
	}
	return cfg, nil
}
