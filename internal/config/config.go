package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Upstream     UpstreamConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
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

// UpstreamConfig points at the CRM backend.
type UpstreamConfig struct {
	BaseURL           string
	TimeoutSeconds    int
	ReadRetryAttempts int
	ReadRetryDelayMS  int
}

// PostgresConfig holds DB connection values for the audit trail.
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
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	TTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines how bearer tokens from the identity provider are verified.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// RateLimitConfig limits mutation routes per client IP.
type RateLimitConfig struct {
	// Rate uses the "<limit>-<period>" format, e.g. "30-M".
	Rate    string
	Enabled bool
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://127.0.0.1:8081"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL must not be empty")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "fieldsales-teams"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Upstream: UpstreamConfig{
			BaseURL:           baseURL,
			TimeoutSeconds:    getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 15),
			ReadRetryAttempts: getEnvAsInt("UPSTREAM_READ_RETRY_ATTEMPTS", 3),
			ReadRetryDelayMS:  getEnvAsInt("UPSTREAM_READ_RETRY_DELAY_MS", 500),
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
			Addr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "fieldsales"),
			TTLMinutes: getEnvAsInt("REDIS_FILTER_TTL_MINUTES", 60*24*30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		RateLimit: RateLimitConfig{
			Rate:    getEnv("RATE_LIMIT_MUTATIONS", "30-M"),
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
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

// Timeout returns the per-call upstream timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// ReadRetryDelay returns the pause between reference-data read attempts.
func (u UpstreamConfig) ReadRetryDelay() time.Duration {
	if u.ReadRetryDelayMS < 0 {
		return 0
	}
	return time.Duration(u.ReadRetryDelayMS) * time.Millisecond
}

// TTL returns how long persisted filter state lives; zero keeps it forever.
func (r RedisConfig) TTL() time.Duration {
	if r.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(r.TTLMinutes) * time.Minute
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
