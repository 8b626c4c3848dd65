package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/test")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MySQL.DSN == "" {
		t.Error("MySQL DSN should not be empty")
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.Analytics.CacheTTLSec != 300 {
		t.Errorf("Expected analytics cache TTL 300, got %d", cfg.Analytics.CacheTTLSec)
	}

	if cfg.Transition.TimeoutSec != 10 {
		t.Errorf("Expected transition timeout 10, got %d", cfg.Transition.TimeoutSec)
	}
}

func TestLoad_MissingMySQLDSN(t *testing.T) {
	os.Unsetenv("MYSQL_DSN")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MYSQL_DSN is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/test")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("MYSQL_DSN")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("MYSQL_DSN", "custom:dsn@tcp(localhost:3306)/custom")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "5")
	os.Setenv("ANALYTICS_CACHE_TTL_SEC", "60")
	os.Setenv("TRANSITION_TIMEOUT_SEC", "30")

	defer func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("ANALYTICS_CACHE_TTL_SEC")
		os.Unsetenv("TRANSITION_TIMEOUT_SEC")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Redis.Addr != "redis.example.com:6379" {
		t.Errorf("Expected redis addr redis.example.com:6379, got %s", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 5 {
		t.Errorf("Expected redis db 5, got %d", cfg.Redis.DB)
	}
	if cfg.Analytics.CacheTTLSec != 60 {
		t.Errorf("Expected analytics cache TTL 60, got %d", cfg.Analytics.CacheTTLSec)
	}
	if cfg.Transition.TimeoutSec != 30 {
		t.Errorf("Expected transition timeout 30, got %d", cfg.Transition.TimeoutSec)
	}
}

func TestLoadFromINI(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "crm.ini")
	content := `[mysql]
dsn = ini:dsn@tcp(localhost:3306)/crm

[jwt]
secret = ini-secret

[analytics]
cache_ttl_sec = 120
`
	if err := os.WriteFile(iniPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write ini file: %v", err)
	}

	os.Unsetenv("MYSQL_DSN")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("ANALYTICS_CACHE_TTL_SEC")

	cfg, err := LoadFromINI(iniPath)
	if err != nil {
		t.Fatalf("LoadFromINI() failed: %v", err)
	}

	if cfg.MySQL.DSN != "ini:dsn@tcp(localhost:3306)/crm" {
		t.Errorf("Expected DSN from INI, got %s", cfg.MySQL.DSN)
	}
	if cfg.Analytics.CacheTTLSec != 120 {
		t.Errorf("Expected analytics cache TTL 120 from INI, got %d", cfg.Analytics.CacheTTLSec)
	}

	// ENV overrides INI
	os.Setenv("ANALYTICS_CACHE_TTL_SEC", "45")
	defer os.Unsetenv("ANALYTICS_CACHE_TTL_SEC")

	cfg, err = LoadFromINI(iniPath)
	if err != nil {
		t.Fatalf("LoadFromINI() failed: %v", err)
	}
	if cfg.Analytics.CacheTTLSec != 45 {
		t.Errorf("Expected ENV to override INI (45), got %d", cfg.Analytics.CacheTTLSec)
	}
}
