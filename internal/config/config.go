package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                string
	DBPath              string
	SpotifyClientID     string
	SpotifyClientSecret string
	AdminUser           string
	AdminPassword       string
	SessionTTL          time.Duration
	ExportSettleDelay   time.Duration
	GAMeasurementID     string
	GAAPISecret         string
	LogLevel            string
}

// Load reads configuration from .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	settleMS, err := strconv.Atoi(getEnv("EXPORT_SETTLE_MS", "500"))
	if err != nil || settleMS < 0 {
		settleMS = 500
	}

	sessionHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || sessionHours < 1 {
		sessionHours = 24
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "boletas.db"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		AdminUser:           getEnv("ADMIN_USER", "admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		SessionTTL:          time.Duration(sessionHours) * time.Hour,
		ExportSettleDelay:   time.Duration(settleMS) * time.Millisecond,
		GAMeasurementID:     getEnv("GA_MEASUREMENT_ID", ""),
		GAAPISecret:         getEnv("GA_API_SECRET", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
