package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr      string
	JWTSecret     string
	SessionSecret string
	CookieSecure  bool
	TokenTTL      time.Duration
	PageSize      int
	LogLevel      string

	Cache struct {
		TTL           time.Duration
		Size          int
		RedisAddr     string
		RedisPassword string
		RedisDB       int
	}

	Database Database

	RateLimit struct {
		RPS   float64
		Burst int
	}
}

type Database struct {
	Driver   string // postgres (lib/pq) или pgx
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env file not found")
	}
}

// Load собирает конфигурацию из переменных окружения.
// JWT_SECRET и SESSION_SECRET обязательны.
func Load() *Config {
	cfg := &Config{}

	cfg.HTTPAddr = getEnvDefault("HTTP_ADDR", ":8080")
	cfg.JWTSecret = GetEnv("JWT_SECRET")
	cfg.SessionSecret = GetEnv("SESSION_SECRET")
	cfg.CookieSecure = getEnvDefault("COOKIE_SECURE", "false") == "true"
	cfg.TokenTTL = getDuration("TOKEN_TTL", 72*time.Hour)
	cfg.PageSize = getInt("PAGE_SIZE", 10)
	cfg.LogLevel = getEnvDefault("LOG_LEVEL", "info")

	cfg.Cache.TTL = getDuration("CACHE_TTL", 20*time.Second)
	cfg.Cache.Size = getInt("CACHE_SIZE", 512)
	cfg.Cache.RedisAddr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Cache.RedisPassword = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Cache.RedisDB = getInt("REDIS_DB", 0)

	cfg.Database = Database{
		Driver:   getEnvDefault("DB_DRIVER", "postgres"),
		Host:     getEnvDefault("DB_HOST", "localhost"),
		User:     getEnvDefault("DB_USER", "postgres"),
		Password: getEnvDefault("DB_PASSWORD", ""),
		Name:     getEnvDefault("DB_NAME", "yatube"),
		Port:     getEnvDefault("DB_PORT", "5432"),
		SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
	}

	cfg.RateLimit.RPS = getFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimit.Burst = getInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnvDefault(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("invalid %s=%q, using %d: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func getFloat(key string, fallback float64) float64 {
	raw := getEnvDefault(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warnf("invalid %s=%q, using %v: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnvDefault(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Warnf("invalid %s=%q, using %s: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}
