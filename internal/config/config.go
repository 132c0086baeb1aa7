package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is loaded once in main and passed down explicitly; nothing reads it from
// ambient globals.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// JWTSecret signs every token class. Each purpose carries its own TTL so
	// that compromising one class does not extend another's validity window.
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	VerifyTTL  time.Duration
	ResetTTL   time.Duration

	// RedisAddr selects the shared rate-limit backend; empty falls back to the
	// in-process limiter.
	RedisAddr       string
	RateLimitMax    int
	RateLimitWindow time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	// PublicBaseURL is embedded in verification and reset links.
	PublicBaseURL string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users    string
	Contacts string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:    getEnv("DYNAMO_TABLE_USERS", "users"),
			Contacts: getEnv("DYNAMO_TABLE_CONTACTS", "contacts"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "contacts-avatars"),

		JWTSecret:  getEnv("SECRET_KEY", ""),
		AccessTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 20*time.Minute),
		RefreshTTL: getEnvDuration("REFRESH_TOKEN_TTL", 5*24*time.Hour),
		VerifyTTL:  getEnvDuration("EMAIL_VERIFY_TOKEN_TTL", 24*time.Hour),
		ResetTTL:   getEnvDuration("PASSWORD_RESET_TOKEN_TTL", time.Hour),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 15),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),

		SMTPHost:      getEnv("MAIL_SERVER", "localhost"),
		SMTPPort:      getEnv("MAIL_PORT", "1025"),
		SMTPFrom:      getEnv("MAIL_FROM", "noreply@example.com"),
		SMTPUsername:  getEnv("MAIL_USERNAME", ""),
		SMTPPassword:  getEnv("MAIL_PASSWORD", ""),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
