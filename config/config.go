package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Port                   string
	Env                    string
	PlatformAPIURL         string
	RequestTimeout         time.Duration
	RedisURL               string
	SessionRefreshInterval time.Duration
	SessionCookieName      string
	CookieSecure           bool
}

// Load reads configuration from the environment, with .env as a fallback.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:                   getEnv("PORT", "8090"),
		Env:                    getEnv("ENV", "development"),
		PlatformAPIURL:         getEnv("PLATFORM_API_URL", "http://localhost:8080"),
		RequestTimeout:         getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RedisURL:               os.Getenv("REDIS_URL"),
		SessionRefreshInterval: getDuration("SESSION_REFRESH_INTERVAL", 5*time.Minute),
		SessionCookieName:      getEnv("SESSION_COOKIE_NAME", "pp_session"),
		CookieSecure:           getEnv("COOKIE_SECURE", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, raw, fallback)
		return fallback
	}
	return d
}
