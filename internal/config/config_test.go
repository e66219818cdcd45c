package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.PIDTimeout() != 15*time.Second || cfg.NameTimeout() != 30*time.Second {
		t.Fatalf("unexpected default timeouts: %v / %v", cfg.PIDTimeout(), cfg.NameTimeout())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BridgeAddr != "127.0.0.1:12345" {
		t.Fatalf("expected default bridge addr, got %q", cfg.BridgeAddr)
	}
}

func TestLoadFromPath_OverridesMergeWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"bridge_addr: \"127.0.0.1:23456\"",
		"name_timeout_seconds: 60",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BridgeAddr != "127.0.0.1:23456" {
		t.Fatalf("override not applied, got %q", cfg.BridgeAddr)
	}
	if cfg.NameTimeout() != time.Minute {
		t.Fatalf("expected 60s name timeout, got %v", cfg.NameTimeout())
	}
	if cfg.WatchIntervalSeconds != 3 {
		t.Fatalf("expected untouched default watch interval, got %d", cfg.WatchIntervalSeconds)
	}
}

func TestLoadFromPath_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("watch_interval_seconds: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected validation error for zero watch interval")
	}
}
