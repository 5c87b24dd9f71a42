package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Clerk       ClerkConfig     `yaml:"clerk"`
	Email       EmailConfig     `yaml:"email"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Logging     LoggingConfig   `yaml:"logging"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ClerkConfig carries the identity provider settings. WebhookSecret is
// deliberately not validated at load time: the webhook handler fails closed
// with a server error when it is missing, so a misconfigured deployment
// still serves the rest of the API.
type ClerkConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
	SecretKey     string `yaml:"secret_key"`
	JWKSURL       string `yaml:"jwks_url"`
	Issuer        string `yaml:"issuer"`
}

type EmailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
}

type RateLimitConfig struct {
	PublicPerMinute  int `yaml:"public_per_minute"`
	WebhookPerMinute int `yaml:"webhook_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from environment variables, optionally layered on
// top of a YAML file. File values act as defaults; environment variables
// win.
func Load(configPath string) (Config, error) {
	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Email: EmailConfig{
			From: "EventLoom <hello@eventloom.dev>",
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute:  120,
			WebhookPerMinute: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Environment: "development",
	}
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.Server.Host, "SERVER_HOST")
	setEnvInt(&cfg.Server.Port, "SERVER_PORT")
	setEnv(&cfg.Server.BaseURL, "SERVER_BASE_URL")
	setEnv(&cfg.Database.URL, "DATABASE_URL")
	setEnv(&cfg.Clerk.WebhookSecret, "CLERK_WEBHOOK_SECRET")
	setEnv(&cfg.Clerk.SecretKey, "CLERK_SECRET_KEY")
	setEnv(&cfg.Clerk.JWKSURL, "CLERK_JWKS_URL")
	setEnv(&cfg.Clerk.Issuer, "CLERK_ISSUER")
	setEnv(&cfg.Email.ResendAPIKey, "RESEND_API_KEY")
	setEnv(&cfg.Email.From, "EMAIL_FROM")
	setEnvInt(&cfg.RateLimit.PublicPerMinute, "RATE_LIMIT_PUBLIC")
	setEnvInt(&cfg.RateLimit.WebhookPerMinute, "RATE_LIMIT_WEBHOOK")
	setEnv(&cfg.Logging.Level, "LOG_LEVEL")
	setEnv(&cfg.Logging.Format, "LOG_FORMAT")
	setEnv(&cfg.Environment, "ENVIRONMENT")
}

func setEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setEnvInt(target *int, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	*target = parsed
}
