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
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Hours        HoursConfig
	Timing       TimingConfig
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

// AuthConfig defines token verification parameters. Tokens are issued by the
// external identity service; this service only validates them.
type AuthConfig struct {
	JWTSecret string
}

// HoursConfig defines the business-hours engine parameters.
type HoursConfig struct {
	Timezone            string
	DeliveryCutoffMin   int
	GraceAfterOpenMin   int
	LookaheadDays       int
	ScheduleCacheTTLSec int
}

// TimingConfig defines order-timing and sweep parameters.
type TimingConfig struct {
	DefaultPrepMinutes     int
	EscalateAfterMinutes   int
	AutoCancelAfterMinutes int
	SweepIntervalSeconds   int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	StaffEmail string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "restaurant-orders"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
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
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
		Hours: HoursConfig{
			Timezone:            getEnv("RESTAURANT_TIMEZONE", "Europe/Berlin"),
			DeliveryCutoffMin:   getEnvAsInt("HOURS_DELIVERY_CUTOFF_MINUTES", 45),
			GraceAfterOpenMin:   getEnvAsInt("HOURS_OPEN_GRACE_MINUTES", 30),
			LookaheadDays:       getEnvAsInt("HOURS_LOOKAHEAD_DAYS", 21),
			ScheduleCacheTTLSec: getEnvAsInt("HOURS_SCHEDULE_CACHE_TTL_SECONDS", 60),
		},
		Timing: TimingConfig{
			DefaultPrepMinutes:     getEnvAsInt("TIMING_DEFAULT_PREP_MINUTES", 30),
			EscalateAfterMinutes:   getEnvAsInt("TIMING_ESCALATE_AFTER_MINUTES", 10),
			AutoCancelAfterMinutes: getEnvAsInt("TIMING_AUTO_CANCEL_AFTER_MINUTES", 60),
			SweepIntervalSeconds:   getEnvAsInt("SWEEP_INTERVAL_SECONDS", 60),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			StaffEmail: getEnv("NOTIFY_STAFF_EMAIL", "kitchen@example.com"),
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

// DeliveryCutoff returns the delivery closing buffer.
func (h HoursConfig) DeliveryCutoff() time.Duration {
	return time.Duration(h.DeliveryCutoffMin) * time.Minute
}

// GraceAfterOpen returns the schedule-while-closed grace period.
func (h HoursConfig) GraceAfterOpen() time.Duration {
	return time.Duration(h.GraceAfterOpenMin) * time.Minute
}

// ScheduleCacheTTL returns the schedule cache expiry.
func (h HoursConfig) ScheduleCacheTTL() time.Duration {
	return time.Duration(h.ScheduleCacheTTLSec) * time.Second
}

// EscalateAfter returns the unattended threshold.
func (t TimingConfig) EscalateAfter() time.Duration {
	return time.Duration(t.EscalateAfterMinutes) * time.Minute
}

// AutoCancelAfter returns the unpaid auto-cancel window.
func (t TimingConfig) AutoCancelAfter() time.Duration {
	return time.Duration(t.AutoCancelAfterMinutes) * time.Minute
}

// SweepInterval returns the sweep cadence.
func (t TimingConfig) SweepInterval() time.Duration {
	if t.SweepIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(t.SweepIntervalSeconds) * time.Second
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
