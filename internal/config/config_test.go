package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	if cfg.DBName != "MedEasyDB" {
		t.Fatalf("expected default DB name, got %q", cfg.DBName)
	}
	if cfg.TokenTTL != 365*24*time.Hour {
		t.Fatalf("expected 365 day token TTL, got %v", cfg.TokenTTL)
	}
	if cfg.AuthTransport != TransportBoth {
		t.Fatalf("expected both transports by default, got %q", cfg.AuthTransport)
	}
	if cfg.Port != "4000" {
		t.Fatalf("expected default port 4000, got %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL_DAYS", "30")
	t.Setenv("AUTH_TRANSPORT", "cookie")
	t.Setenv("ALLOWED_ORIGINS", "https://medeasy.example, https://admin.medeasy.example")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	if cfg.TokenTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day TTL, got %v", cfg.TokenTTL)
	}
	if cfg.AuthTransport != TransportCookie {
		t.Fatalf("expected cookie transport, got %q", cfg.AuthTransport)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://medeasy.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTH_TRANSPORT", "header")

	cfg := Load()

	if cfg.AuthTransport != TransportBoth {
		t.Fatalf("expected fallback to both, got %q", cfg.AuthTransport)
	}
}
