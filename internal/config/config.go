package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	StoreURL    string // Remote record store endpoint
	JWTSecret   string
	CachePath   string // Directory for the persisted snapshot cache
	CacheTTL    time.Duration
	RefreshSpec string // Cron expression for the background refresh
	Environment string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		StoreURL:    getEnv("STORE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		CachePath:   getEnv("CACHE_PATH", "./cache"),
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_MS", 300000)) * time.Millisecond,
		RefreshSpec: getEnv("REFRESH_SPEC", "@every 5m"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
