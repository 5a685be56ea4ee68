package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  port: "9090"
  appURL: "https://trivia.example.com"
  allowedOrigins: ["https://trivia.example.com"]
redis:
  addr: "localhost:6379"
  ttl: "30m"
auth:
  jwtSecret: "from-file"
  google:
    clientID: "file-client"
generator:
  model: "gemini-2.5-flash"
  temperature: 0.4
`

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected file values %+v", cfg.Server)
	}
	if cfg.Auth.JWTSecret != "from-env" || cfg.Postgres.URL != "postgres://env" {
		t.Fatalf("env overrides not applied: %q %q", cfg.Auth.JWTSecret, cfg.Postgres.URL)
	}
	if cfg.Auth.Google.ClientID != "file-client" {
		t.Fatalf("empty env must not clear file value, got %q", cfg.Auth.Google.ClientID)
	}
	if cfg.Generator.Temperature != 0.4 || len(cfg.Server.AllowedOrigins) != 1 {
		t.Fatalf("unexpected generator/server config %+v %+v", cfg.Generator, cfg.Server)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bad input, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
