package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/livix")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.JWTIssuer != "livix" {
		t.Fatalf("expected default issuer livix, got %s", cfg.JWTIssuer)
	}
	if cfg.LikeRateMax != 60 || cfg.LikeRateWindowMinutes != 10 {
		t.Fatalf("unexpected like rate defaults: %d/%d", cfg.LikeRateMax, cfg.LikeRateWindowMinutes)
	}
	if cfg.CandidatePoolLimit != 500 {
		t.Fatalf("expected candidate pool limit 500, got %d", cfg.CandidatePoolLimit)
	}
	if cfg.ChatSnapshotTTLHours != 720 {
		t.Fatalf("expected chat snapshot ttl 720h, got %d", cfg.ChatSnapshotTTLHours)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
}

func TestLoadConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}
