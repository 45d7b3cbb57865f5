package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ActionStoreSQL   = "sql"
	ActionStoreMongo = "mongo"
)

type Config struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	DatabaseDriver string `yaml:"db_driver"`
	PostgresURL    string `yaml:"postgres_url"`
	SQLitePath     string `yaml:"sqlite_path"`

	ActionStore   string `yaml:"action_store"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	RedisURL        string        `yaml:"redis_url"`
	LoginRateLimit  int           `yaml:"login_rate_limit"`
	LoginRateWindow time.Duration `yaml:"login_rate_window"`

	JWTSecret     string        `yaml:"jwt_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionCookie string        `yaml:"session_cookie"`

	ActionDedupeWindow time.Duration `yaml:"action_dedupe_window"`
	CORSAllowOrigins   []string      `yaml:"cors_allow_origins"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() *Config {
	return &Config{
		Port:            "8080",
		Env:             "development",
		LogLevel:        "info",
		DatabaseDriver:  DriverPostgres,
		SQLitePath:      "bookmarks.db",
		ActionStore:     ActionStoreSQL,
		MongoDatabase:   "bookmarks",
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
		SessionTTL:      72 * time.Hour,
		SessionCookie:   "sessionid",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, a .env file and the process environment, in that order.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, assuming environment variables are set.")
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabaseDriver = getEnv("DB_DRIVER", c.DatabaseDriver)
	c.PostgresURL = getEnv("POSTGRES_URL", c.PostgresURL)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.ActionStore = getEnv("ACTION_STORE", c.ActionStore)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SessionCookie = getEnv("SESSION_COOKIE", c.SessionCookie)
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.CORSAllowOrigins = splitList(origins)
	}

	var err error
	if c.LoginRateLimit, err = getEnvInt("LOGIN_RATE_LIMIT", c.LoginRateLimit); err != nil {
		return err
	}
	if c.LoginRateWindow, err = getEnvDuration("LOGIN_RATE_WINDOW", c.LoginRateWindow); err != nil {
		return err
	}
	if c.SessionTTL, err = getEnvDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.ActionDedupeWindow, err = getEnvDuration("ACTION_DEDUPE_WINDOW", c.ActionDedupeWindow); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=%s", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DatabaseDriver)
	}

	switch c.ActionStore {
	case ActionStoreSQL:
	case ActionStoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when ACTION_STORE=%s", ActionStoreMongo)
		}
	default:
		return fmt.Errorf("unknown ACTION_STORE %q", c.ActionStore)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "supersecretjwtkey"
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ActionDedupeWindow < 0 {
		return fmt.Errorf("ACTION_DEDUPE_WINDOW must not be negative")
	}
	if c.RedisURL != "" && (c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0) {
		return fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive when REDIS_URL is set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
