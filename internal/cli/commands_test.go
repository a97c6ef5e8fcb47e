package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommandLoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv("EQUISCOPE_CONFIG", path)
	t.Setenv("EQUISCOPE_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("EQUISCOPE_MEMORY_FILE", filepath.Join(dir, "data", "memory_bank.json"))

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// First run persists the effective configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("config file not JSON: %v", err)
	}
	if _, ok := onDisk["max_sessions"]; !ok {
		t.Fatalf("config file missing fields: %v", onDisk)
	}
	if _, err := os.Stat(filepath.Join(dir, "data")); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestRootCommandEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv("EQUISCOPE_CONFIG", path)
	t.Setenv("EQUISCOPE_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("EQUISCOPE_MEMORY_FILE", filepath.Join(dir, "data", "memory_bank.json"))
	t.Setenv("EQUISCOPE_MAX_SESSIONS", "4")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var onDisk struct {
		MaxSessions int `json:"max_sessions"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if onDisk.MaxSessions != 4 {
		t.Fatalf("max_sessions = %d, want env value 4", onDisk.MaxSessions)
	}
}
