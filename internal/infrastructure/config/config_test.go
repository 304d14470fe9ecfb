package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "4000" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Fatalf("expected development by default")
	}
	if cfg.SMTP.Configured() {
		t.Fatalf("SMTP should not be configured by default")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DATABASE_SSL", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASS", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.SessionSecret != "s3cret" {
		t.Fatalf("unexpected session secret")
	}
	if !cfg.Database.SSL {
		t.Fatalf("expected database SSL enabled")
	}
	if !cfg.SMTP.Configured() {
		t.Fatalf("expected SMTP configured")
	}
}
