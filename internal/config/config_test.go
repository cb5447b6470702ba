package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	// Password has no default
	t.Setenv("DB_PASSWORD", "testpass")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Server.Storage != StoragePostgres {
		t.Errorf("Expected storage postgres, got %s", cfg.Server.Storage)
	}
	if cfg.Database.Name != "orgdesk" {
		t.Errorf("Expected db name orgdesk, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 || cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool 2..10, got %d..%d", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if !cfg.Database.Migrate {
		t.Error("Expected DB_MIGRATE to default to true")
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if len(cfg.Auth.Tokens) != 0 {
		t.Errorf("Expected auth disabled by default, got %v", cfg.Auth.Tokens)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()

	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	t.Setenv("API_TOKENS", "alpha, beta")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != "5433" {
		t.Errorf("Expected localhost:5433, got %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.Password != "testpass" {
		t.Errorf("Expected password testpass, got %s", cfg.Database.Password)
	}
	if cfg.Database.Migrate {
		t.Error("Expected DB_MIGRATE=false to be honoured")
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
	if len(cfg.Auth.Tokens) != 2 || cfg.Auth.Tokens[1] != "beta" {
		t.Errorf("Expected tokens [alpha beta], got %v", cfg.Auth.Tokens)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_MemoryStorageSkipsDatabase(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("STORAGE", "MEMORY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Storage != StorageMemory {
		t.Errorf("Expected storage memory, got %s", cfg.Server.Storage)
	}
}

func TestValidate_UnknownStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Storage = "mongo"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown storage driver")
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "missing db host", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = []string{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	clearConfigEnvVars()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadClient()
		if err != nil {
			t.Fatalf("LoadClient() failed: %v", err)
		}
		if cfg.BaseURL != "http://localhost:8080/api/v1" {
			t.Errorf("Unexpected base URL %s", cfg.BaseURL)
		}
		if cfg.Timeout != 15*time.Second {
			t.Errorf("Expected 15s timeout, got %s", cfg.Timeout)
		}
		if cfg.CacheTTL != 30*time.Second {
			t.Errorf("Expected 30s cache TTL, got %s", cfg.CacheTTL)
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Setenv("ADMIN_API_URL", "https://admin.example.com/api/v1/")
		t.Setenv("ADMIN_API_TOKEN", "secret")

		cfg, err := LoadClient()
		if err != nil {
			t.Fatalf("LoadClient() failed: %v", err)
		}
		if cfg.BaseURL != "https://admin.example.com/api/v1" {
			t.Errorf("Unexpected base URL %s", cfg.BaseURL)
		}
		if cfg.Token != "secret" {
			t.Errorf("Expected token secret, got %s", cfg.Token)
		}
	})

	t.Run("rejects non-http URL", func(t *testing.T) {
		t.Setenv("ADMIN_API_URL", "ftp://example.com")
		if _, err := LoadClient(); err == nil {
			t.Error("Expected error for non-http URL")
		}
	})
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "single item", input: "http://localhost:3000", expect: []string{"http://localhost:3000"}},
		{name: "multiple items", input: "a,b", expect: []string{"a", "b"}},
		{name: "items with spaces", input: " a , b ", expect: []string{"a", "b"}},
		{name: "empty string", input: "", expect: []string{}},
		{name: "only commas", input: ",,,", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitList(tt.input)
			if len(result) != len(tt.expect) {
				t.Fatalf("Expected %d items, got %d", len(tt.expect), len(result))
			}
			for i, item := range result {
				if item != tt.expect[i] {
					t.Errorf("Expected %s at index %d, got %s", tt.expect[i], i, item)
				}
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development", Storage: StoragePostgres},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "orgdesk",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

// clearConfigEnvVars unsets every variable Load and LoadClient read.
func clearConfigEnvVars() {
	for _, key := range []string{
		"PORT", "ENV", "STORAGE",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_POOL_MIN", "DB_POOL_MAX", "DB_MIGRATE",
		"CORS_ORIGINS", "API_TOKENS",
		"ADMIN_API_URL", "ADMIN_API_TOKEN", "ADMIN_TIMEOUT", "ADMIN_CACHE_TTL", "ADMIN_STATE_FILE",
	} {
		os.Unsetenv(key)
	}
}
