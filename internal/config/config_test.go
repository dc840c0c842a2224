package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	os.Unsetenv("TODO_AUTH_SECRET")
	os.Unsetenv("GOOGLE_API_KEY")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when TODO_AUTH_SECRET is not set")
	}

	t.Setenv("TODO_AUTH_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GOOGLE_API_KEY is not set")
	}

	t.Setenv("GOOGLE_API_KEY", "y")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secrets set: %v", err)
	}
	if cfg.Server.Port != 8840 {
		t.Fatalf("unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.Auth.AdminUsername != "admin" {
		t.Fatalf("unexpected default admin username: %q", cfg.Auth.AdminUsername)
	}
	if len(cfg.CORS.Origins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("TODO_AUTH_SECRET", "s")
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("PORT", "9000")
	t.Setenv("TODO_CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORS.Origins)
	}

	t.Setenv("PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid PORT")
	}
}
