package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())

	if cfg.SessionTimeoutSeconds != 1800 {
		t.Errorf("SessionTimeoutSeconds = %d, want 1800", cfg.SessionTimeoutSeconds)
	}
	if cfg.MaxSessions != 16 {
		t.Errorf("MaxSessions = %d, want 16", cfg.MaxSessions)
	}
	if cfg.NewsLimit != 10 {
		t.Errorf("NewsLimit = %d, want 10", cfg.NewsLimit)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("BatchSize = %d, want 3", cfg.BatchSize)
	}
	if cfg.SummaryModel != "gpt-4o-mini" {
		t.Errorf("SummaryModel = %q, want gpt-4o-mini", cfg.SummaryModel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EQUISCOPE_MAX_SESSIONS", "4")
	t.Setenv("EQUISCOPE_NEWS_LIMIT", "5")
	t.Setenv("EQUISCOPE_DEBUG", "true")
	t.Setenv("NEWSAPI_KEY", "test-key")

	cfg := DefaultConfig()

	if cfg.MaxSessions != 4 {
		t.Errorf("MaxSessions = %d, want 4", cfg.MaxSessions)
	}
	if cfg.NewsLimit != 5 {
		t.Errorf("NewsLimit = %d, want 5", cfg.NewsLimit)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.NewsAPIKey != "test-key" {
		t.Errorf("NewsAPIKey = %q, want test-key", cfg.NewsAPIKey)
	}
}

func TestEnvOverrideIgnoresMalformed(t *testing.T) {
	t.Setenv("EQUISCOPE_MAX_SESSIONS", "not-a-number")

	cfg := DefaultConfig()
	if cfg.MaxSessions != 16 {
		t.Errorf("MaxSessions = %d, want default 16 on malformed override", cfg.MaxSessions)
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfigWithRoot(root)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if cfg.DataDir != filepath.Join(root, "data") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}
