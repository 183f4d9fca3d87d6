package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	AI       AIConfig
	Jobs     JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"SERVER_PORT" default:"8080"`
	Env             string   `envconfig:"SERVER_ENV" default:"development"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`
	AppURL          string   `envconfig:"APP_URL" default:"http://localhost:3000"`
	MaintenanceMode bool     `envconfig:"MAINTENANCE_MODE" default:"false"`
	AllowedOrigins  []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, EnvProduction)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        int    `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName      string `envconfig:"DB_NAME" default:"stocktracker"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string        `envconfig:"JWT_SECRET" default:"change-this-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string `envconfig:"SESSION_ENCRYPTION_KEY" default:"0000000000000000000000000000000000000000000000000000000000000000"`
}

// AuthConfig covers signup verification, password reset and auth throttling.
type AuthConfig struct {
	RequireEmailVerification bool          `envconfig:"AUTH_REQUIRE_EMAIL_VERIFICATION" default:"true"`
	OTPTTL                   time.Duration `envconfig:"AUTH_OTP_TTL" default:"10m"`
	OTPResendCooldown        time.Duration `envconfig:"AUTH_OTP_RESEND_COOLDOWN" default:"60s"`
	ResetSecret              string        `envconfig:"AUTH_RESET_SECRET"`
	ResetTTL                 time.Duration `envconfig:"AUTH_RESET_TTL" default:"1h"`
	ResetUnknownDelay        time.Duration `envconfig:"AUTH_RESET_UNKNOWN_DELAY" default:"500ms"`
	RateLimit                int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	RateWindow               time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
}

// SMTPConfig configures outbound mail. An empty host logs mail instead of sending it.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"Stock Tracker <no-reply@stocktracker.local>"`
	Secure   bool   `envconfig:"SMTP_SECURE" default:"false"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// AIConfig configures the text generation backend.
type AIConfig struct {
	APIKey  string        `envconfig:"GEMINI_API_KEY"`
	Model   string        `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

type JobsConfig struct {
	CleanupInterval time.Duration `envconfig:"JOBS_CLEANUP_INTERVAL" default:"10m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Auth.ResetSecret == "" {
		cfg.Auth.ResetSecret = cfg.JWT.Secret + ":password-reset"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	key, err := hex.DecodeString(c.Security.SessionEncryptionKey)
	if err != nil || len(key) != 32 {
		return fmt.Errorf("SESSION_ENCRYPTION_KEY must be 64 hex characters")
	}
	if c.Server.IsProduction() && c.JWT.Secret == "change-this-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Auth.OTPTTL <= 0 || c.Auth.ResetTTL <= 0 {
		return fmt.Errorf("AUTH_OTP_TTL and AUTH_RESET_TTL must be positive")
	}
	return nil
}
