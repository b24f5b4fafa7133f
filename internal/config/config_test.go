package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  dsn: "postgres://localhost/wb"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if c.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", c.Server.Addr)
	}
	if c.Cache.Kind != "memory" {
		t.Fatalf("cache kind default: %q", c.Cache.Kind)
	}
	if c.JWT.AccessTTL != "15m" || c.JWT.RefreshTTL != "720h" {
		t.Fatalf("jwt ttl defaults: %q / %q", c.JWT.AccessTTL, c.JWT.RefreshTTL)
	}
	if c.Invites.TTL != 72*time.Hour {
		t.Fatalf("invites ttl default: %v", c.Invites.TTL)
	}
	if c.Rate.Login.Limit != 10 || c.Rate.Public.Limit != 30 {
		t.Fatalf("rate defaults: %+v", c.Rate)
	}
	if c.Security.PasswordPolicy.MinLength != 10 {
		t.Fatalf("password policy default: %d", c.Security.PasswordPolicy.MinLength)
	}
	if c.Notify.QueueSize != 256 || c.Notify.Workers != 4 {
		t.Fatalf("notify defaults: %+v", c.Notify)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
jwt:
  secret: "del-yaml"
`)
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("JWT_SECRET", "del-env")
	t.Setenv("RATE_ENABLED", "true")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != ":7070" {
		t.Fatalf("env should win: %q", c.Server.Addr)
	}
	if c.JWT.Secret != "del-env" {
		t.Fatalf("env should win: %q", c.JWT.Secret)
	}
	if !c.Rate.Enabled {
		t.Fatal("RATE_ENABLED not applied")
	}
	if len(c.Server.CORSAllowedOrigins) != 2 || c.Server.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("cors csv: %v", c.Server.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  read_timeout: "quince segundos"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDur(t *testing.T) {
	if Dur("") != 0 {
		t.Fatal("empty string should be 0")
	}
	if Dur("90s") != 90*time.Second {
		t.Fatal("parse failed")
	}
}
