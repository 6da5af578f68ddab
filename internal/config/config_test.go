package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("GENAI_API_KEY", "test-api-key")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("api port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("sslmode: got %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.GenAI.Provider != "gemini" {
		t.Errorf("genai provider: got %q, want gemini", cfg.GenAI.Provider)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access ttl: got %v", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoad_MissingGenAIKeyFails(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("GENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GENAI_API_KEY is unset")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9191")
	t.Setenv("POSTGRES_DB", "folio_test")
	t.Setenv("GENAI_MODEL", "gemini-exp")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 9191 {
		t.Errorf("api port: got %d, want 9191", cfg.API.Port)
	}
	if cfg.Database.Name != "folio_test" {
		t.Errorf("database name: got %q", cfg.Database.Name)
	}
	if cfg.GenAI.Model != "gemini-exp" {
		t.Errorf("genai model: got %q", cfg.GenAI.Model)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "app", User: "u", Password: "p", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=app sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
