package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/medrefer")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" { t.Errorf("port = %q", cfg.Port) }
	if !cfg.IsDev() { t.Errorf("env = %q, want development default", cfg.Env) }
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 { t.Errorf("pool = %d/%d", cfg.DBMaxConns, cfg.DBMinConns) }
	if cfg.SessionTTLDuration() != 24*time.Hour { t.Errorf("ttl = %v", cfg.SessionTTLDuration()) }
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/medrefer")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL", "1h")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" { t.Errorf("port = %q", cfg.Port) }
	if cfg.IsDev() { t.Error("production must not report dev") }
	if cfg.SessionTTLDuration() != time.Hour { t.Errorf("ttl = %v", cfg.SessionTTLDuration()) }
}

func TestSessionTTLDuration_InvalidFallsBack(t *testing.T) {
	for _, ttl := range []string{"", "bogus", "-2h"} {
		c := &Config{SessionTTL: ttl}
		if d := c.SessionTTLDuration(); d != 24*time.Hour {
			t.Errorf("ttl %q -> %v, want 24h", ttl, d)
		}
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	c := &Config{Env: "production"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error without SESSION_SECRET in production")
	}
	c.SessionSecret = strings.Repeat("s", 32)
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ShortSecretRejected(t *testing.T) {
	c := &Config{Env: "development", SessionSecret: "short"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for a short secret")
	}
}

func TestValidate_DevWithoutSecretAllowed(t *testing.T) {
	c := &Config{Env: "development"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
