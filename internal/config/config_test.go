package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triage.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
	}
	if cfg.Processing.Cadence != 4*time.Second || cfg.Processing.Duration != 3*time.Second {
		t.Errorf("processing = %+v, want 4s/3s", cfg.Processing)
	}
	if !cfg.Processing.AutoStart {
		t.Error("AutoStart should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	path := writeFile(t, `
addr: ":9090"
processing:
  cadence: 2s
dashboard:
  batch_size: 25
`)
	cfg := DefaultServerConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Processing.Cadence != 2*time.Second {
		t.Errorf("Cadence = %s, want 2s", cfg.Processing.Cadence)
	}
	if cfg.Processing.Duration != 3*time.Second {
		t.Errorf("Duration = %s, want default 3s", cfg.Processing.Duration)
	}
	if cfg.Dashboard.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.Dashboard.BatchSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeFile(t, "")
	cfg := DefaultServerConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want default", cfg.Addr)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := writeFile(t, "listen: \":1\"\n")
	cfg := DefaultServerConfig()
	if err := LoadFile(path, &cfg); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := DefaultServerConfig()
	err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("err = %v, want read config error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty addr", func(c *ServerConfig) { c.Addr = " " }},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }},
		{"zero cadence", func(c *ServerConfig) { c.Processing.Cadence = 0 }},
		{"negative duration", func(c *ServerConfig) { c.Processing.Duration = -time.Second }},
		{"negative batch", func(c *ServerConfig) { c.Dashboard.BatchSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
