package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultPasswordSalt is used when PASSWORD_SALT is unset. Every deployment
	// that keeps it shares digests, so production should override it.
	DefaultPasswordSalt = "retro-planner-salt"

	HasherSaltedSHA256 = "salted-sha256"
	HasherBcrypt       = "bcrypt"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Store       StoreConfig
	Redis       RedisConfig
	Security    SecurityConfig
	Legacy      LegacyConfig
	Context     ContextConfig
	Health      HealthConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// AllowedOrigins are the browser origins granted CORS access.
	AllowedOrigins []string
}

// DatabaseConfig describes the PostgreSQL store. An empty URL selects the
// file-backed store instead.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

// StoreConfig locates the bbolt file used without a database URL.
type StoreConfig struct {
	Path string
}

// RedisConfig is optional; an empty URL keeps sessions in the primary store.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type SecurityConfig struct {
	PasswordSalt   string
	PasswordHasher string
}

// LegacyConfig points at the pre-database tasks file and the account that
// receives its tasks.
type LegacyConfig struct {
	TasksFile    string
	DemoEmail    string
	DemoName     string
	DemoPassword string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type HealthConfig struct {
	Interval time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "retro-planner"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://127.0.0.1:8000",
				"http://localhost:8000",
			}),
		},
		Database: DatabaseConfig{
			URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
		},
		Store: StoreConfig{
			Path: getString("STORE_PATH", "./data/planner.db"),
		},
		Redis: RedisConfig{
			URL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Security: SecurityConfig{
			PasswordSalt:   getString("PASSWORD_SALT", DefaultPasswordSalt),
			PasswordHasher: getString("PASSWORD_HASHER", HasherSaltedSHA256),
		},
		Legacy: LegacyConfig{
			TasksFile:    getString("LEGACY_TASKS_FILE", "./tasks.json"),
			DemoEmail:    getString("LEGACY_DEMO_EMAIL", "demo@planner.local"),
			DemoName:     getString("LEGACY_DEMO_NAME", "Demo"),
			DemoPassword: getString("LEGACY_DEMO_PASSWORD", "demo"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Health: HealthConfig{
			Interval: getDuration("HEALTH_CHECK_INTERVAL", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
		},
	}

	switch cfg.Security.PasswordHasher {
	case HasherSaltedSHA256, HasherBcrypt:
	default:
		return nil, fmt.Errorf("unknown PASSWORD_HASHER %q", cfg.Security.PasswordHasher)
	}

	return cfg, nil
}

// UsesPostgres reports whether a database connection string was supplied.
func (c *Config) UsesPostgres() bool {
	return c.Database.URL != ""
}

// UsesRedisSessions reports whether sessions live in Redis.
func (c *Config) UsesRedisSessions() bool {
	return c.Redis.URL != ""
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
