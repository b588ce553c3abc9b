package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"slgps/internal/models"
)

// Load returns the server configuration from the environment. A .env file
// in the working directory is read first if present.
func Load() models.Config {
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded configuration from .env")
	}

	return models.Config{
		Port:            getEnv("PORT", "9080"),
		DBPath:          getEnv("DB_PATH", "slgps.db"),
		AdminName:       getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@slgps.local"),
		AdminPass:       getEnv("ADMIN_PASS", ""),
		AuthEnabled:     getEnv("AUTH_ENABLED", "true") == "true",
		SpeedLimitKPH:   getEnvFloat("SPEED_LIMIT_KPH", 80),
		GPSOfflineAfter: getEnvDuration("GPS_OFFLINE_AFTER", 2*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("⚠️  Invalid %s=%q, using %v", key, value, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("⚠️  Invalid %s=%q, using %v", key, value, fallback)
	}
	return fallback
}
