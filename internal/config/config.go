package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Hash     HashConfig
	Mail     MailConfig
	PDF      PDFConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuing parameters. The signing secret is shared
// by the auth, confirm and reset token services; TTLs are independent.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	ConfirmTokenTTLMinutes int
	ResetTokenTTLMinutes   int
}

// HashConfig defines the keyed password digest parameters.
type HashConfig struct {
	Secret   string
	Algo     string
	Encoding string
}

// MailConfig holds SMTP settings and the base URLs embedded in account
// emails. An empty Host selects the log-only mailer.
type MailConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	ConfirmURL string
	ResetURL   string
}

// PDFConfig points at the external HTML-to-PDF renderer binary.
type PDFConfig struct {
	RendererBin string
}

// AuditConfig holds the optional audit webhook endpoint.
type AuditConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "orcafacil-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			ConfirmTokenTTLMinutes: getEnvAsInt("AUTH_CONFIRM_TOKEN_TTL_MINUTES", 2880),
			ResetTokenTTLMinutes:   getEnvAsInt("AUTH_RESET_TOKEN_TTL_MINUTES", 30),
		},
		Hash: HashConfig{
			Secret:   getEnv("HASH_SECRET", "dev-hash-key"),
			Algo:     getEnv("HASH_ALGO", "sha512"),
			Encoding: getEnv("HASH_ENCODING", "base64"),
		},
		Mail: MailConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getEnv("SMTP_PORT", "587"),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("MAIL_FROM", "no-reply@orcafacil.app"),
			ConfirmURL: getEnv("MAIL_CONFIRM_URL", "http://localhost:8080/auth/confirm"),
			ResetURL:   getEnv("MAIL_RESET_URL", "http://localhost:3000/reset"),
		},
		PDF: PDFConfig{
			RendererBin: os.Getenv("PDF_RENDERER_BIN"),
		},
		Audit: AuditConfig{
			WebhookURL: os.Getenv("AUDIT_WEBHOOK_URL"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// ConfirmTokenTTL returns the email-confirmation token lifetime.
func (a AuthConfig) ConfirmTokenTTL() time.Duration {
	return time.Duration(a.ConfirmTokenTTLMinutes) * time.Minute
}

// ResetTokenTTL returns the password-reset token lifetime.
func (a AuthConfig) ResetTokenTTL() time.Duration {
	return time.Duration(a.ResetTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
