package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	JWTSecret     string
	TokenTTL      time.Duration
	AuthRateLimit int

	// STORE_DRIVER selects the collection backend: file, memory, postgres, redis, sqlite, mongo
	StoreDriver string
	DataDir     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SQLitePath string

	MongoURI string
	MongoDB  string

	AdminPassword string

	AlertsEnabled bool
	AppURL        string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	MailReplyTo  string

	// APIURL is the server the CLI talks to with --remote.
	APIURL string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// A missing .env is normal in containers; variables come from the environment.
	_ = godotenv.Load()

	return &Config{
		AppEnv:        getEnv("APP_ENV", "local"),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecret"),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 72*time.Hour),
		AuthRateLimit: getEnvAsInt("AUTH_RATE_LIMIT", 20),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "file")),
		DataDir:       getEnv("DATA_DIR", "data"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "talktrade"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		SQLitePath:    getEnv("SQLITE_PATH", "talktrade.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "talktrade"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AlertsEnabled: getEnvAsBool("ALERTS_ENABLED", false),
		AppURL:        strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "465"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		MailReplyTo:   getEnv("MAIL_REPLY_TO", ""),
		APIURL:        strings.TrimRight(getEnv("TALKTRADE_API_URL", "http://localhost:8080"), "/"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
