package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		DatabaseURL:       "postgres://localhost/kidwatch",
		JWTSecret:         "test-secret-1234567890",
		JWTAlgorithm:      "HS256",
		AIProvider:        ProviderMock,
		StorageBackend:    StorageHTTP,
		MediaAllowedHosts: []string{DefaultMediaHost},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = " " }, wantErr: "DATABASE_URL"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "too short"},
		{name: "insecure secret", mutate: func(c *Config) { c.JWTSecret = "change-me-in-production" }, wantErr: "insecure"},
		{name: "unknown provider", mutate: func(c *Config) { c.AIProvider = "llama" }, wantErr: "AI_PROVIDER"},
		{name: "unknown storage", mutate: func(c *Config) { c.StorageBackend = "ftp" }, wantErr: "STORAGE_BACKEND"},
		{name: "empty allow list", mutate: func(c *Config) { c.MediaAllowedHosts = nil }, wantErr: "MEDIA_ALLOWED_HOSTS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("MEDIA_ALLOWED_HOSTS", "a.example.com, b.example.com ,")
	t.Setenv("ACTIVITY_FETCH_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.AIProvider != ProviderOpenAI {
		t.Fatalf("expected provider to be lowercased, got %q", cfg.AIProvider)
	}
	if len(cfg.MediaAllowedHosts) != 2 || cfg.MediaAllowedHosts[1] != "b.example.com" {
		t.Fatalf("unexpected allow list: %v", cfg.MediaAllowedHosts)
	}
	if cfg.ActivityFetchLimit != 50 {
		t.Fatalf("expected invalid int to fall back to 50, got %d", cfg.ActivityFetchLimit)
	}
}

func TestOverlayKeepsUnsetValues(t *testing.T) {
	cfg := validConfig()
	cfg.AppPort = "8000"
	cfg.ActivityFetchLimit = 50

	err := cfg.overlay([]byte("app_port: \"9090\"\nmedia_allowed_hosts:\n  - cdn.example.com\n"))
	if err != nil {
		t.Fatalf("overlay failed: %v", err)
	}
	if cfg.AppPort != "9090" {
		t.Fatalf("expected port overlay, got %q", cfg.AppPort)
	}
	if cfg.ActivityFetchLimit != 50 {
		t.Fatalf("expected fetch limit untouched, got %d", cfg.ActivityFetchLimit)
	}
	if len(cfg.MediaAllowedHosts) != 1 || cfg.MediaAllowedHosts[0] != "cdn.example.com" {
		t.Fatalf("unexpected hosts: %v", cfg.MediaAllowedHosts)
	}
	if cfg.DatabaseURL != "postgres://localhost/kidwatch" {
		t.Fatalf("expected database url untouched, got %q", cfg.DatabaseURL)
	}
}

func TestOverlayRejectsInvalidYAML(t *testing.T) {
	cfg := validConfig()
	if err := cfg.overlay([]byte("app_port: [unclosed")); err == nil {
		t.Fatalf("expected parse error")
	}
}
