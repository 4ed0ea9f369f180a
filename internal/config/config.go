package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and its services need at construction.
type Config struct {
	Environment string
	Port        string
	CORSOrigins string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MailFrom    string
	MailBackend string
	SMTPHost    string
	SMTPPort    int
	SMSProvider string

	FrontendURL string

	EmailTokenTTL    time.Duration
	PhoneCodeTTL     time.Duration
	PendingRetention time.Duration

	TOTPIssuer string

	LogLevel string
	LogDev   bool
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() Config {
	cfg := Config{
		Environment: GetEnv("ENV", "development"),
		Port:        GetEnv("PORT", "3000"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),

		DBHost:            GetEnv("DB_HOST", "localhost"),
		DBPort:            GetEnv("DB_PORT", "5432"),
		DBUser:            GetEnv("DB_USER", "postgres"),
		DBPassword:        GetEnv("DB_PASSWORD", "postgres"),
		DBName:            GetEnv("DB_NAME", "hoaportal"),
		DBSSLMode:         GetEnv("DB_SSLMODE", "disable"),
		DBMaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		DBConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),

		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),
		CacheTTL:      GetDurationEnv("CACHE_TTL", 24*time.Hour),

		JWTSecret:       GetEnv("JWT_SECRET", ""),
		RefreshSecret:   GetEnv("REFRESH_SECRET", ""),
		AccessTokenTTL:  GetDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: GetDurationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		MailFrom:    GetEnv("MAIL_FROM", "no-reply@hoaportal.local"),
		MailBackend: GetEnv("MAIL_BACKEND", "log"),
		SMTPHost:    GetEnv("SMTP_HOST", "localhost"),
		SMTPPort:    GetIntEnv("SMTP_PORT", 25),
		SMSProvider: GetEnv("SMS_PROVIDER", "log"),

		FrontendURL: GetEnv("FRONTEND_URL", "http://localhost:5173"),

		EmailTokenTTL:    GetDurationEnv("EMAIL_TOKEN_TTL", 24*time.Hour),
		PhoneCodeTTL:     GetDurationEnv("PHONE_CODE_TTL", 10*time.Minute),
		PendingRetention: GetDurationEnv("PENDING_RETENTION", 14*24*time.Hour),

		TOTPIssuer: GetEnv("TOTP_ISSUER", "HOA Portal"),

		LogLevel: GetEnv("LOG_LEVEL", ""),
		LogDev:   GetEnv("LOG_DEV", "") == "1",
	}

	// The pending store must outlive the tokens it holds so expiry is
	// reported as "expired" rather than "invalid".
	if cfg.PendingRetention < cfg.EmailTokenTTL {
		cfg.PendingRetention = cfg.EmailTokenTTL
	}
	if cfg.PendingRetention < cfg.PhoneCodeTTL {
		cfg.PendingRetention = cfg.PhoneCodeTTL
	}
	return cfg
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.RefreshSecret == "" {
		errs = append(errs, errors.New("REFRESH_SECRET must be set"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns CORS_ORIGINS in the comma-separated form fiber
// expects. A "*" anywhere in the list allows every origin.
func (c Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "*" {
			return "*"
		}
	}
	return strings.Join(parts, ",")
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
