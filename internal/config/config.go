package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// Values come from defaults, then an optional YAML file (CONFIG_FILE),
// then environment variables, each layer overriding the previous one.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Cart      CartConfig      `yaml:"cart"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Order     OrderConfig     `yaml:"order"`
	Mail      MailConfig      `yaml:"mail"`
	Tracing   TracingConfig   `yaml:"tracing"`
	LogLevel  string          `yaml:"log_level"`
}

type ServerConfig struct {
	Port            string   `yaml:"port"`
	Host            string   `yaml:"host"`
	ReadTimeout     int      `yaml:"read_timeout"`
	WriteTimeout    int      `yaml:"write_timeout"`
	ShutdownTimeout int      `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // Keys accepted on admin endpoints
}

type CatalogConfig struct {
	URL     string `yaml:"url"`
	File    string `yaml:"file"` // Local CSV used instead of URL when set
	Timeout int    `yaml:"timeout"`
}

type CartConfig struct {
	Backend   string        `yaml:"backend"` // memory or redis
	RedisURL  string        `yaml:"redis_url"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

type IngestionConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

type OrderConfig struct {
	IDPrefix string `yaml:"id_prefix"`
	IDFormat string `yaml:"id_format"` // legacy or uuid
}

// MailConfig describes the SMTP transport and the endpoint the dispatcher
// posts email payloads to. An empty EndpointURL means the notifier is called
// in-process.
type MailConfig struct {
	EndpointURL string `yaml:"endpoint_url"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Pass        string `yaml:"pass"`
	Receiver    string `yaml:"receiver"`
	FromName    string `yaml:"from_name"`
	Timeout     int    `yaml:"timeout"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

const (
	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"

	OrderIDLegacy = "legacy"
	OrderIDUUID   = "uuid"
)

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    30,
			ShutdownTimeout: 30,
			AllowedOrigins:  []string{"*"},
		},
		Auth: AuthConfig{
			APIKeys: []string{"apitest"},
		},
		Catalog: CatalogConfig{
			URL:     "https://docs.google.com/spreadsheets/d/e/2PACX-1vRsytl83rbmkbI7k4J8gVzxych7zTg3zAEHcMLSY62x1jcF1s1tsLc2LNd2q4pRCUaNJhIgs__A-0P8/pub?gid=0&single=true&output=csv",
			Timeout: 30,
		},
		Cart: CartConfig{
			Backend:   CartBackendMemory,
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "storefront:cart",
			TTL:       30 * 24 * time.Hour,
		},
		Ingestion: IngestionConfig{
			URL:     "https://script.google.com/macros/s/AKfycbyPZ0Z0mW7Jx3LduwvyAPhiZmRiW7fIfQYpMkBw0wuhv03_6QD7uROa0J4cuwhTUTasUw/exec",
			Timeout: 30,
		},
		Order: OrderConfig{
			IDPrefix: "ORDER-#",
			IDFormat: OrderIDLegacy,
		},
		Mail: MailConfig{
			Port:     465,
			FromName: "Callback",
			Timeout:  30,
		},
		Tracing: TracingConfig{
			ServiceName: "rental-storefront",
		},
		LogLevel: "info",
	}
}

// Load reads configuration from .env, the optional YAML file and the environment
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Auth.APIKeys = getEnvAsSlice("API_KEYS", c.Auth.APIKeys)

	c.Catalog.URL = getEnv("CATALOG_URL", c.Catalog.URL)
	c.Catalog.File = getEnv("CATALOG_FILE", c.Catalog.File)
	c.Catalog.Timeout = getEnvAsInt("CATALOG_TIMEOUT", c.Catalog.Timeout)

	c.Cart.Backend = strings.ToLower(getEnv("CART_BACKEND", c.Cart.Backend))
	c.Cart.RedisURL = getEnv("REDIS_URL", c.Cart.RedisURL)
	c.Cart.KeyPrefix = getEnv("CART_KEY_PREFIX", c.Cart.KeyPrefix)
	c.Cart.TTL = getEnvAsDuration("CART_TTL", c.Cart.TTL)

	c.Ingestion.URL = getEnv("INGESTION_URL", c.Ingestion.URL)
	c.Ingestion.Timeout = getEnvAsInt("INGESTION_TIMEOUT", c.Ingestion.Timeout)

	c.Order.IDPrefix = getEnv("ORDER_ID_PREFIX", c.Order.IDPrefix)
	c.Order.IDFormat = strings.ToLower(getEnv("ORDER_ID_FORMAT", c.Order.IDFormat))

	c.Mail.EndpointURL = getEnv("MAIL_ENDPOINT_URL", c.Mail.EndpointURL)
	c.Mail.Host = getEnv("EMAIL_HOST", c.Mail.Host)
	c.Mail.Port = getEnvAsInt("EMAIL_PORT", c.Mail.Port)
	c.Mail.User = getEnv("EMAIL_USER", c.Mail.User)
	c.Mail.Pass = getEnv("EMAIL_PASS", c.Mail.Pass)
	c.Mail.Receiver = getEnv("EMAIL_RECEIVER", c.Mail.Receiver)
	c.Mail.FromName = getEnv("EMAIL_FROM_NAME", c.Mail.FromName)
	c.Mail.Timeout = getEnvAsInt("EMAIL_TIMEOUT", c.Mail.Timeout)

	c.Tracing.Enabled = getEnvAsBool("TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.ServiceName = getEnv("SERVICE_NAME", c.Tracing.ServiceName)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Catalog.URL == "" && c.Catalog.File == "" {
		return fmt.Errorf("CATALOG_URL or CATALOG_FILE is required")
	}

	switch c.Cart.Backend {
	case CartBackendMemory:
	case CartBackendRedis:
		if c.Cart.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CART_BACKEND=redis")
		}
	default:
		return fmt.Errorf("invalid cart backend: %s (must be memory or redis)", c.Cart.Backend)
	}

	if c.Ingestion.URL == "" {
		return fmt.Errorf("INGESTION_URL is required")
	}

	// Order ids are fixed at 11 characters: a 7 character prefix plus 4 digits
	if len([]rune(c.Order.IDPrefix)) != 7 {
		return fmt.Errorf("ORDER_ID_PREFIX must be exactly 7 characters, got %q", c.Order.IDPrefix)
	}
	if c.Order.IDFormat != OrderIDLegacy && c.Order.IDFormat != OrderIDUUID {
		return fmt.Errorf("invalid order id format: %s (must be legacy or uuid)", c.Order.IDFormat)
	}

	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid EMAIL_PORT: %d", c.Mail.Port)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MailConfigured reports whether enough SMTP settings exist to send mail
func (c MailConfig) MailConfigured() bool {
	return c.Host != "" && c.Receiver != ""
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
