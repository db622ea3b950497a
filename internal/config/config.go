package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only accepted when PORTFOLIO_ENV=development.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	LogLevel       string        `yaml:"log_level"`
	Site           SiteConfig    `yaml:"site"`
	Session        SessionConfig `yaml:"session"`
	Auth           AuthConfig    `yaml:"auth"`
}

type SiteConfig struct {
	Title string `yaml:"title"`
	Owner string `yaml:"owner"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	Secure     bool   `yaml:"secure"`
}

type AuthConfig struct {
	// RevealAccountErrors reports user-not-found and wrong-password separately
	// instead of the combined invalid-credential code.
	RevealAccountErrors bool `yaml:"reveal_account_errors"`
}

// LoadConfig builds the configuration from defaults, a .env file in the
// working directory (when present), PORTFOLIO_* environment variables and
// finally the optional YAML file at path.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:           getEnv("PORTFOLIO_ADDR", ":8080"),
		JWTSecret:      getEnv("PORTFOLIO_JWT_SECRET", DefaultJWTSecret),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("PORTFOLIO_DATABASE_PATH", "portfolio.db"),
		TokenDuration:  24 * time.Hour,
		MigrateOnStart: getEnvBool("PORTFOLIO_MIGRATE_ON_START", true),
		LogLevel:       getEnv("PORTFOLIO_LOG_LEVEL", "info"),
		Site: SiteConfig{
			Title: getEnv("PORTFOLIO_SITE_TITLE", "Portfolio"),
			Owner: getEnv("PORTFOLIO_SITE_OWNER", ""),
		},
		Session: SessionConfig{
			CookieName: "portfolio_session",
			Secure:     getEnvBool("PORTFOLIO_SECURE_COOKIES", false),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether PORTFOLIO_ENV selects the development environment.
func IsDevelopment() bool {
	return strings.EqualFold(os.Getenv("PORTFOLIO_ENV"), "development")
}

// Validate checks required values and fills zero durations with defaults.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTSecret == DefaultJWTSecret && !IsDevelopment() {
		return fmt.Errorf("jwt_secret uses the insecure default; set PORTFOLIO_JWT_SECRET or PORTFOLIO_ENV=development")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "portfolio_session"
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a log_level value to a slog level; empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", s)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
