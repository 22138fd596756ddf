package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DatabaseURL != "file:identity.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 30*time.Minute || cfg.CallerCacheTTL != time.Minute {
		t.Fatalf("unexpected durations: %v %v", cfg.TokenTTL, cfg.CallerCacheTTL)
	}
	if !cfg.AutoMigrate || cfg.RateLimit != 100 {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if !errors.Is(cfg.RequireSecret(), ErrMissingSecret) {
		t.Fatal("expected missing secret error")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL":         "postgres://app@db/identity",
		"SECRET_KEY":           "s3cret",
		"SEED_ROLES":           "admin:it,viewer:sales",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"TOKEN_TTL":            "1h",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RequireSecret() != nil {
		t.Fatal("secret should be set")
	}
	if len(cfg.SeedRoles) != 2 || cfg.SeedRoles[1] != "viewer:sales" {
		t.Fatalf("seed roles = %v", cfg.SeedRoles)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "soon"}))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
