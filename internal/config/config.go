package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Settler SettlerConfig `yaml:"settler"`
}

type SettlerConfig struct {
	NATS     NATSConfig    `yaml:"nats"`
	Storage  StorageConfig `yaml:"storage"`
	OddsFile string        `yaml:"odds_file"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Log      LogConfig     `yaml:"log"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type StorageConfig struct {
	Directory string `yaml:"directory"`
}

type LedgerConfig struct {
	// IndexPeriods bounds the in-memory append index; older periods
	// stay durable and are recovered on demand.
	IndexPeriods int `yaml:"index_periods"`
}

type IngestConfig struct {
	// RepeatPolicy is "add" or "dedupe".
	RepeatPolicy string `yaml:"repeat_policy"`
	// Channels whitelists channel ids; empty accepts every channel.
	Channels []string `yaml:"channels"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Set defaults
	s := &config.Settler
	if s.NATS.URL == "" {
		s.NATS.URL = "nats://localhost:4222"
	}
	if s.NATS.SubjectPrefix == "" {
		s.NATS.SubjectPrefix = "lottery"
	}
	if s.Storage.Directory == "" {
		s.Storage.Directory = "data"
	}
	if s.Ledger.IndexPeriods == 0 {
		s.Ledger.IndexPeriods = 16
	}
	if s.Ingest.RepeatPolicy == "" {
		s.Ingest.RepeatPolicy = "add"
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}

	return &config, nil
}
