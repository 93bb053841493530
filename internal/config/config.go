package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds configuration for the triage server.
type ServerConfig struct {
	Addr       string            `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel   string            `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat  string            `yaml:"log_format"` // Log format: text, json
	DBPath     string            `yaml:"db"`         // SQLite catalog path (":memory:" by default)
	SeedPath   string            `yaml:"seed"`       // Seed YAML; empty loads the built-in dashboard data
	Processing ProcessingConfig  `yaml:"processing"`
	Dashboard  DashboardSettings `yaml:"dashboard"`
}

// ProcessingConfig controls the queue engine.
type ProcessingConfig struct {
	Cadence   time.Duration `yaml:"cadence"`    // How often the next item is picked up
	Duration  time.Duration `yaml:"duration"`   // How long one item stays in flight
	AutoStart bool          `yaml:"auto_start"` // Start the queue when the server starts
}

// DashboardSettings are operator preferences shown on the settings page.
// The server reports them but does not act on them.
type DashboardSettings struct {
	EmailProvider     string   `yaml:"email_provider" json:"email_provider"`
	AutoResponse      bool     `yaml:"auto_response" json:"auto_response"`
	UrgentKeywords    []string `yaml:"urgent_keywords" json:"urgent_keywords"`
	ResponseTemplate  string   `yaml:"response_template" json:"response_template"`
	Notifications     bool     `yaml:"notifications" json:"notifications"`
	BatchSize         int      `yaml:"batch_size" json:"batch_size"`
	DataRetentionDays int      `yaml:"data_retention_days" json:"data_retention_days"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    ":memory:",
		Processing: ProcessingConfig{
			Cadence:   4 * time.Second,
			Duration:  3 * time.Second,
			AutoStart: true,
		},
		Dashboard: DashboardSettings{
			EmailProvider:     "gmail",
			AutoResponse:      true,
			UrgentKeywords:    []string{"urgent", "critical", "asap", "immediately", "emergency"},
			ResponseTemplate:  "professional",
			Notifications:     true,
			BatchSize:         10,
			DataRetentionDays: 90,
		},
	}
}

// LoadFile overlays the YAML settings file at path onto cfg. Keys absent
// from the file keep their current values; unknown keys are an error.
func LoadFile(path string, cfg *ServerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c ServerConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.Processing.Cadence <= 0 {
		return fmt.Errorf("config: processing cadence must be positive, got %s", c.Processing.Cadence)
	}
	if c.Processing.Duration <= 0 {
		return fmt.Errorf("config: processing duration must be positive, got %s", c.Processing.Duration)
	}
	if c.Dashboard.BatchSize < 0 || c.Dashboard.DataRetentionDays < 0 {
		return errors.New("config: dashboard batch size and retention must not be negative")
	}
	return nil
}
