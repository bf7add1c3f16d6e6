package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const baseYAML = `
app:
  name: bloomshop-api
  http_addr: ":8080"
  log_level: info
  log_file: ./logs/app.log
http:
  read_timeout: 10s
  write_timeout: 15s
  idle_timeout: 60s
postgres:
  dsn: "host=localhost dbname=bloomshop"
security:
  jwt_secret: "base-secret"
  issuer: bloomshop
  ttl: 72h
idempotency:
  ttl: 24h
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return dir
}

func TestLoadBase(t *testing.T) {
	dir := writeConfig(t, "base.yaml", baseYAML)

	cfg, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":8080" || cfg.App.Name != "bloomshop-api" {
		t.Fatalf("app = %+v", cfg.App)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Fatalf("read timeout = %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Security.TTL != 72*time.Hour {
		t.Fatalf("jwt ttl = %v", cfg.Security.TTL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "base.yaml", baseYAML)
	t.Setenv("BLOOM_SECURITY__JWT_SECRET", "env-secret")
	t.Setenv("BLOOM_POSTGRES__DSN", "host=prod dbname=bloomshop")

	cfg, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Security.JWTSecret != "env-secret" {
		t.Fatalf("jwt secret = %q, env overlay not applied", cfg.Security.JWTSecret)
	}
	if cfg.Postgres.DSN != "host=prod dbname=bloomshop" {
		t.Fatalf("dsn = %q", cfg.Postgres.DSN)
	}
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	dir := writeConfig(t, "base.yaml", `
app:
  http_addr: ":8080"
`)
	if _, err := Load(dir, "dev"); err == nil {
		t.Fatalf("load succeeded without postgres dsn and jwt secret")
	}
}
