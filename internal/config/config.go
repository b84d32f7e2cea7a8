package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Development bool

	// PlatformOwner is the identity allowed to change the fee rate.
	PlatformOwner string

	// DBSource enables the Postgres payment archive when non-empty.
	DBSource string
}

func Load() (*Config, error) {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("SERVER_PORT", "8080"),
		Development:   getEnvAsBool("DEVELOPMENT", false),
		PlatformOwner: os.Getenv("PLATFORM_OWNER"),
		DBSource:      os.Getenv("DB_SOURCE"),
	}

	if cfg.PlatformOwner == "" {
		return nil, fmt.Errorf("PLATFORM_OWNER environment variable is required")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
