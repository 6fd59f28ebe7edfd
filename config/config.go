package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RabbitURL string

	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
	AdminEmail    string
	AdminPassword string
	AdminFullName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     RateLimitConfig

	Storage StorageConfig
	Chat    ChatConfig

	CompletionSweepSchedule string
	CORSOrigins             []string
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

type StorageConfig struct {
	Driver          string // "oss" or "local"
	LocalDir        string
	PublicBaseURL   string
	OSSEndpoint     string
	OSSAccessKey    string
	OSSSecretKey    string
	OSSBucket       string
	PurgeOnRemove   bool
	MaxUploadBytes  int64
	MaxImageEdgePix int
}

type ChatConfig struct {
	Backend     string // static | remote | contextual
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] .env not found, using process environment")
	}

	cfg := &Config{
		Env:        getEnv("APP_ENV", "dev"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "dormmate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RabbitURL: getEnv("RABBITMQ_URL", ""),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AccessTTL:     getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:    getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:    getInt("BCRYPT_COST", 10),
		AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", "admin@dormmate.com")),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminFullName: getEnv("ADMIN_FULL_NAME", "DormMate Admin"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		RateLimit: RateLimitConfig{
			Enabled:        getBool("RATE_LIMIT_ENABLED", true),
			Capacity:       getInt("RATE_LIMIT_CAPACITY", 20),
			RefillTokens:   getInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: getDuration("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
			TTL:            getDuration("RATE_LIMIT_TTL", 10*time.Minute),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "rl"),
		},

		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "local"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PublicBaseURL:   strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", "/uploads"), "/"),
			OSSEndpoint:     getEnv("OSS_ENDPOINT", ""),
			OSSAccessKey:    getEnv("OSS_ACCESS_KEY", ""),
			OSSSecretKey:    getEnv("OSS_SECRET_KEY", ""),
			OSSBucket:       getEnv("OSS_BUCKET", ""),
			PurgeOnRemove:   getBool("STORAGE_PURGE_ON_REMOVE", false),
			MaxUploadBytes:  int64(getInt("STORAGE_MAX_UPLOAD_BYTES", 5*1024*1024)),
			MaxImageEdgePix: getInt("STORAGE_MAX_IMAGE_EDGE", 1600),
		},

		Chat: ChatConfig{
			Backend:     strings.ToLower(getEnv("CHAT_BACKEND", "static")),
			BaseURL:     getEnv("CHAT_API_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:      getEnv("CHAT_API_KEY", ""),
			Model:       getEnv("CHAT_MODEL", "llama-3.1-8b-instant"),
			Temperature: float32(getFloat("CHAT_TEMPERATURE", 0.7)),
			Timeout:     getDuration("CHAT_TIMEOUT", 30*time.Second),
		},

		CompletionSweepSchedule: getEnv("BOOKING_SWEEP_SCHEDULE", "10 0 * * *"),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "test" {
			log.Fatal("[Config] JWT_SECRET is required")
		}
		cfg.JWTSecret = "test-secret"
	}
	if cfg.Chat.Backend != "static" && cfg.Chat.APIKey == "" {
		log.Printf("[Config] CHAT_BACKEND=%s without CHAT_API_KEY, falling back to static", cfg.Chat.Backend)
		cfg.Chat.Backend = "static"
	}

	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
