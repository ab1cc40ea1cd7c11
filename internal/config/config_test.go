package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tempFile, err := os.CreateTemp("", "config_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	// Write test config content
	configContent := `
settler:
  nats:
    url: "nats://localhost:4222"
    subject_prefix: "test"
  storage:
    directory: "/tmp/settler-data"
  odds_file: "odds.yaml"
  ledger:
    index_periods: 8
  ingest:
    repeat_policy: "dedupe"
    channels:
      - "ch1"
      - "ch2"
  log:
    level: "debug"
`

	_, err = tempFile.WriteString(configContent)
	if err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	// Load config
	cfg, err := Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	s := cfg.Settler
	if s.NATS.URL != "nats://localhost:4222" {
		t.Errorf("Expected NATS URL 'nats://localhost:4222', got '%s'", s.NATS.URL)
	}
	if s.NATS.SubjectPrefix != "test" {
		t.Errorf("Expected subject prefix 'test', got '%s'", s.NATS.SubjectPrefix)
	}
	if s.Storage.Directory != "/tmp/settler-data" {
		t.Errorf("Expected storage directory '/tmp/settler-data', got '%s'", s.Storage.Directory)
	}
	if s.OddsFile != "odds.yaml" {
		t.Errorf("Expected odds file 'odds.yaml', got '%s'", s.OddsFile)
	}
	if s.Ledger.IndexPeriods != 8 {
		t.Errorf("Expected index periods 8, got %d", s.Ledger.IndexPeriods)
	}
	if s.Ingest.RepeatPolicy != "dedupe" {
		t.Errorf("Expected repeat policy 'dedupe', got '%s'", s.Ingest.RepeatPolicy)
	}
	if len(s.Ingest.Channels) != 2 || s.Ingest.Channels[0] != "ch1" {
		t.Errorf("Expected channels [ch1 ch2], got %v", s.Ingest.Channels)
	}
	if s.Log.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", s.Log.Level)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	tempFile, err := os.CreateTemp("", "config_defaults_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString("settler: {}\n"); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()

	cfg, err := Load(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	s := cfg.Settler
	if s.NATS.URL != "nats://localhost:4222" {
		t.Errorf("Expected default NATS URL, got '%s'", s.NATS.URL)
	}
	if s.NATS.SubjectPrefix != "lottery" {
		t.Errorf("Expected default subject prefix 'lottery', got '%s'", s.NATS.SubjectPrefix)
	}
	if s.Ledger.IndexPeriods != 16 {
		t.Errorf("Expected default index periods 16, got %d", s.Ledger.IndexPeriods)
	}
	if s.Ingest.RepeatPolicy != "add" {
		t.Errorf("Expected default repeat policy 'add', got '%s'", s.Ingest.RepeatPolicy)
	}
	if s.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", s.Log.Level)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	// Try to load non-existent config file
	_, err := Load("/non/existent/config.yaml")
	if err == nil {
		t.Error("Expected error when loading non-existent config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempFile, err := os.CreateTemp("", "invalid_config_test.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	invalidContent := `
settler:
  ledger:
    index_periods: "not a number"
`
	if _, err := tempFile.WriteString(invalidContent); err != nil {
		t.Fatalf("Failed to write invalid config content: %v", err)
	}
	tempFile.Close()

	if _, err := Load(tempFile.Name()); err == nil {
		t.Error("Expected error when loading invalid config")
	}
}
