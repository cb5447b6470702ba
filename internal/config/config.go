package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string
	Env     string
	Storage string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
	Migrate  bool
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// AuthConfig holds the bearer tokens accepted by the API.
// An empty list disables authentication.
type AuthConfig struct {
	Tokens []string
}

// ClientConfig holds configuration for adminctl and other API consumers.
type ClientConfig struct {
	BaseURL   string
	Token     string
	Env       string
	Timeout   time.Duration
	CacheTTL  time.Duration
	StateFile string
}

// Load reads server configuration from the environment.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "orgdesk")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("API_TOKENS", "")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Env:     v.GetString("ENV"),
			Storage: strings.ToLower(v.GetString("STORAGE")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		CORS: CORSConfig{
			Origins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			Tokens: splitList(v.GetString("API_TOKENS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Server.Storage {
	case StorageMemory:
		// no database settings needed
	case StoragePostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Server.Storage)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// Validate checks the PostgreSQL settings.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// LoadClient reads API client configuration from the environment.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("ADMIN_API_URL", "http://localhost:8080/api/v1")
	v.SetDefault("ENV", "development")
	v.SetDefault("ADMIN_TIMEOUT", "15s")
	v.SetDefault("ADMIN_CACHE_TTL", "30s")
	v.SetDefault("ADMIN_STATE_FILE", ".orgdesk-state.yaml")

	v.AutomaticEnv()

	cfg := &ClientConfig{
		BaseURL:   strings.TrimRight(v.GetString("ADMIN_API_URL"), "/"),
		Token:     v.GetString("ADMIN_API_TOKEN"),
		Env:       v.GetString("ENV"),
		Timeout:   v.GetDuration("ADMIN_TIMEOUT"),
		CacheTTL:  v.GetDuration("ADMIN_CACHE_TTL"),
		StateFile: v.GetString("ADMIN_STATE_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("client configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the client settings.
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ADMIN_API_URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("ADMIN_API_URL must be an http(s) URL")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ADMIN_TIMEOUT must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("ADMIN_CACHE_TTL must be non-negative")
	}
	if c.StateFile == "" {
		return fmt.Errorf("ADMIN_STATE_FILE is required")
	}
	return nil
}

// splitList splits a comma-separated string into trimmed, non-empty parts.
func splitList(list string) []string {
	if list == "" {
		return []string{}
	}

	parts := strings.Split(list, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
