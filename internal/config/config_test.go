package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
server:
  port: "9090"
  mode: debug

database:
  host: db.local
  port: 3306
  user: u
  password: p
  dbname: examind
  charset: utf8mb4
  parsetime: true

jwt:
  secret: short
  expire_hours: 2

judge0:
  url: http://judge:2358

redis:
  host: cache.local
  port: 6379
  db: 1

tracing:
  enabled: true
  collector_endpoint: http://jaeger:14268/api/traces

rate_limit:
  max_requests: 50
  window_minutes: 1

grading:
  strategy_overrides:
    short_answer: all_or_nothing
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.local" || !cfg.Database.ParseTime {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.JWT.ExpireTime.Hours() != 2 {
		t.Errorf("JWT.ExpireTime = %v, want 2h", cfg.JWT.ExpireTime)
	}
	if cfg.Judge0.URL != "http://judge:2358" {
		t.Errorf("Judge0.URL = %q", cfg.Judge0.URL)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = false, want true")
	}
	if cfg.RateLimit.MaxRequests != 50 {
		t.Errorf("RateLimit.MaxRequests = %d, want 50", cfg.RateLimit.MaxRequests)
	}
	if got := cfg.Grading.StrategyOverrides["short_answer"]; got != "all_or_nothing" {
		t.Errorf("Grading.StrategyOverrides[short_answer] = %q, want all_or_nothing", got)
	}
}

func TestLoadConfig_ReleaseModeRejectsShortSecret(t *testing.T) {
	dir := writeConfig(t, testYAML)
	t.Setenv("SERVER_MODE", "release")

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for short JWT secret in release mode")
	}
}
