package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Neutralize anything the surrounding environment may carry.
	for _, key := range []string{"APP_PORT", "APP_ENV", "DB_SSL_MODE", "CATALOG_DETAIL_CACHE_TTL", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Database.SSLMode = %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.Catalog.DetailCacheTTL != 30*time.Second {
		t.Errorf("Catalog.DetailCacheTTL = %v, want 30s", cfg.Catalog.DetailCacheTTL)
	}
	if cfg.Security.RateLimitPerMinute != 100 {
		t.Errorf("Security.RateLimitPerMinute = %d, want 100", cfg.Security.RateLimitPerMinute)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_DETAIL_CACHE_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("Server.Port = %q, want 9999", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false with APP_ENV=production")
	}
	if cfg.Catalog.DetailCacheTTL != 2*time.Minute {
		t.Errorf("Catalog.DetailCacheTTL = %v, want 2m", cfg.Catalog.DetailCacheTTL)
	}
	if len(cfg.Security.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v, want two entries", cfg.Security.CORSAllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", Name: "db", User: "u"},
		Redis:    RedisConfig{Host: "localhost"},
		Server:   ServerConfig{Port: "8080"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	cfg.Database.Name = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for missing DB_NAME")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db", Port: "5433", User: "app", Password: "secret",
			Name: "store", SSLMode: "require",
		},
	}

	want := "host=db port=5433 user=app password=secret dbname=store sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache", Port: "6380"}}
	if got := cfg.GetRedisAddr(); got != "cache:6380" {
		t.Errorf("GetRedisAddr() = %q, want cache:6380", got)
	}
}
