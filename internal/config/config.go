package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Mail      MailConfig      `koanf:"mail"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port               string   `koanf:"port"`
	CorsAllowedOrigins []string `koanf:"cors_origins"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxy bool `koanf:"trust_proxy"`
}

// DatabaseConfig accepts either a full URL or discrete connection
// parameters. URL wins when both are set.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"sslmode"`
	MaxConns        int32         `koanf:"max_conns"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
}

type AuthConfig struct {
	JWTSecret           string `koanf:"jwt_secret"`
	RegistrationEnabled bool   `koanf:"registration_enabled"`
}

// MailConfig configures the contact relay's outbound provider.
type MailConfig struct {
	APIKey  string        `koanf:"api_key"`
	From    string        `koanf:"from"`
	To      string        `koanf:"to"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RateLimitConfig holds per-IP request budgets per Window.
type RateLimitConfig struct {
	Login   int           `koanf:"login"`
	Contact int           `koanf:"contact"`
	Global  int           `koanf:"global"`
	Window  time.Duration `koanf:"window"`
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxConns:        20,
			MaxConnIdleTime: 30 * time.Second,
			MaxConnLifetime: 60 * time.Second,
			ConnectTimeout:  2 * time.Second,
		},
		Mail: MailConfig{
			BaseURL: "https://api.resend.com",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Login:   5,
			Contact: 5,
			Global:  100,
			Window:  time.Minute,
		},
	}
}

var envKeys = map[string]string{
	"port":                 "server.port",
	"client_urls":          "server.cors_origins",
	"trust_proxy":          "server.trust_proxy",
	"database_url":         "database.url",
	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_sslmode":           "database.sslmode",
	"db_max_conns":         "database.max_conns",
	"jwt_secret":           "auth.jwt_secret",
	"registration_enabled": "auth.registration_enabled",
	"resend_api_key":       "mail.api_key",
	"resend_base_url":      "mail.base_url",
	"contact_from":         "mail.from",
	"contact_email":        "mail.to",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
	"rate_limit_login":     "rate_limit.login",
	"rate_limit_contact":   "rate_limit.contact",
	"rate_limit_global":    "rate_limit.global",
}

func envKey(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load reads .env (if present), then layers environment variables over the
// built-in defaults. It does not validate; callers pick Validate or
// ValidateDatabase depending on what they need.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.CorsAllowedOrigins = splitCSV(cfg.Server.CorsAllowedOrigins)
	return cfg, nil
}

// Validate checks everything the HTTP server needs.
func (c *Config) Validate() error {
	var errs []error
	if err := c.ValidateDatabase(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if len(c.Server.CorsAllowedOrigins) == 0 {
		errs = append(errs, errors.New("CLIENT_URLS is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Mail.APIKey == "" {
		errs = append(errs, errors.New("RESEND_API_KEY is required"))
	}
	if c.Mail.From == "" {
		errs = append(errs, errors.New("CONTACT_FROM is required"))
	}
	if c.Mail.To == "" {
		errs = append(errs, errors.New("CONTACT_EMAIL is required"))
	}
	return errors.Join(errs...)
}

// ValidateDatabase checks only the connection settings, for the migrate
// and seed-admin commands.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL != "" {
		return nil
	}
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Database.Password == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.Database.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("DATABASE_URL or %s is required", strings.Join(missing, ", "))
	}
	return nil
}

// ConnString returns the pgx connection string.
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

func splitCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			item := strings.TrimSpace(part)
			if item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
