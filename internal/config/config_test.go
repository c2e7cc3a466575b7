package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/medicab_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("expected default pool sizes 20/5, got %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DefaultCurrency != "TND" {
		t.Errorf("expected default currency TND, got %s", cfg.DefaultCurrency)
	}
	if !cfg.AllowDoubleBooking {
		t.Error("expected double booking allowed by default")
	}
}

func TestLoad_RejectsProductionWithoutIssuer(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/medicab_test")
	os.Setenv("ENV", "production")
	os.Unsetenv("AUTH_ISSUER")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("expected Load to refuse production config without AUTH_ISSUER")
	}

	os.Setenv("AUTH_ISSUER", "https://auth.example.com")
	defer os.Unsetenv("AUTH_ISSUER")
	if _, err := Load(); err != nil {
		t.Errorf("unexpected error with issuer set: %v", err)
	}
}

func TestValidate_ProductionRequiresIssuer(t *testing.T) {
	cfg := &Config{Env: "production", DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without AUTH_ISSUER")
	}
	cfg.AuthIssuer = "https://auth.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DevNeedsNoIssuer(t *testing.T) {
	cfg := &Config{Env: "development", DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_PoolSizes(t *testing.T) {
	cfg := &Config{Env: "development", DBMaxConns: 2, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when max conns < min conns")
	}
}
