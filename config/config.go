// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// DBDriver selects the store: "postgres" (default) or "sqlite".
	DBDriver string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// SQLite file used when DBDriver is "sqlite".
	SQLitePath string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string
	AdminUsers []string

	// League clock. Tournament dates are calendar dates in this zone.
	Timezone string

	// Leaderboard scraping
	LeaderboardURL string
	FetchTimeout   time.Duration
	BreakerTimeout time.Duration

	// Optional redis cache in front of the leaderboard source.
	RedisURL            string
	LeaderboardCacheTTL time.Duration
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_USER", "padraic")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "golfpickem")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "golfpickem.db")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "golfpickem.app,www.golfpickem.app")
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("DEBUG", false)
	v.SetDefault("TIMEZONE", "America/New_York")
	v.SetDefault("LEADERBOARD_URL", "https://www.espn.com/golf/leaderboard")
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("BREAKER_TIMEOUT", "30s")
	v.SetDefault("LEADERBOARD_CACHE_TTL", "60s")

	cfg := &Config{
		DBDriver:            strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBUser:              v.GetString("DB_USER"),
		DBPass:              v.GetString("DB_PASS"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		Debug:               v.GetBool("DEBUG"),
		Port:                v.GetString("PORT"),
		TLSDomains:          splitTrimmed(v.GetString("TLS_DOMAINS")),
		AdminUsers:          splitTrimmed(v.GetString("ADMIN_USERS")),
		Timezone:            v.GetString("TIMEZONE"),
		LeaderboardURL:      strings.TrimRight(v.GetString("LEADERBOARD_URL"), "/"),
		FetchTimeout:        v.GetDuration("FETCH_TIMEOUT"),
		BreakerTimeout:      v.GetDuration("BREAKER_TIMEOUT"),
		RedisURL:            v.GetString("REDIS_URL"),
		LeaderboardCacheTTL: v.GetDuration("LEADERBOARD_CACHE_TTL"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Location returns the league time zone, falling back to UTC on a bad name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("config: unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func (c *Config) validate() {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" && c.DBPass == "" {
			log.Fatal("config: DATABASE_URL or DB_PASS must be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			log.Fatal("config: SQLITE_PATH must be set when DB_DRIVER=sqlite")
		}
	default:
		log.Fatalf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
