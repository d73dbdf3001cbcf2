// Package config loads the engine configuration from YAML with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the triage engine.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Rules    RulesConfig    `yaml:"rules"`
	Storage  StorageConfig  `yaml:"storage"`
	LogStore LogStoreConfig `yaml:"logStore"`
	Notifier NotifierConfig `yaml:"notifier"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig controls the HTTP listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	MaxBatchSize    int           `yaml:"maxBatchSize"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// RulesConfig controls rule-pack loading for the analytical components.
type RulesConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig configures report and feedback persistence. Persistence is
// optional; an empty DSN leaves the engine stateless.
type StorageConfig struct {
	DSN          string        `yaml:"dsn"`
	MaxConns     int32         `yaml:"maxConns"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
}

// LogStoreConfig configures the local sqlite chaos-log store.
type LogStoreConfig struct {
	Path string `yaml:"path"`
}

// NotifierConfig configures the optional report webhook.
type NotifierConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the in-memory report cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	ReportTTL time.Duration `yaml:"reportTTL"`
	MaxItems  int           `yaml:"maxItems"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TRIAGE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			GracefulTimeout: 10 * time.Second,
			MaxBatchSize:    10000,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Rules:   RulesConfig{Path: "configs/rules/default.yaml"},
		Storage: StorageConfig{
			MaxConns:     8,
			QueryTimeout: 5 * time.Second,
		},
		LogStore: LogStoreConfig{Path: "chaos_logs.db"},
		Notifier: NotifierConfig{Timeout: 5 * time.Second},
		Cache: CacheConfig{
			Enabled:   true,
			ReportTTL: 10 * time.Minute,
			MaxItems:  256,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRIAGE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("TRIAGE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("TRIAGE_MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.MaxBatchSize = n
		}
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRIAGE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("TRIAGE_RULES_PATH"); v != "" {
		cfg.Rules.Path = v
	}
	if v := os.Getenv("TRIAGE_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TRIAGE_LOGSTORE_PATH"); v != "" {
		cfg.LogStore.Path = v
	}
	if v := os.Getenv("TRIAGE_NOTIFIER_URL"); v != "" {
		cfg.Notifier.URL = v
	}
	if v := os.Getenv("TRIAGE_NOTIFIER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Notifier.Timeout = d
		}
	}
	if v := os.Getenv("TRIAGE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("TRIAGE_CACHE_REPORT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.ReportTTL = d
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.MaxBatchSize <= 0 {
		return fmt.Errorf("server.maxBatchSize must be positive")
	}
	if c.Notifier.URL != "" && c.Notifier.Timeout <= 0 {
		return fmt.Errorf("notifier.timeout must be positive when a URL is set")
	}
	return nil
}
