package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stacmcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/stacmcp"
	configFileName = "config.yaml"
)

// Environment variables recognized by applyEnvOverrides. They take
// precedence over the config file so that containerized deployments can be
// configured without mounting one.
const (
	envCatalogURL = "STACMCP_CATALOG_URL"
	envTransport  = "STACMCP_TRANSPORT"
	envLogLevel   = "STACMCP_LOG_LEVEL"
)

// DefaultConfigPath returns the per-user configuration directory.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from the given directory, layering the
// config file over the defaults and environment overrides over both. A
// missing config file is not an error; the defaults are used.
func LoadConfig(configPath string) (Config, error) {
	cfg := GetDefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envCatalogURL); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv(envTransport); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// applyDefaults backfills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := GetDefaultConfig()
	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = def.Catalog.URL
	}
	if cfg.Catalog.Timeout <= 0 {
		cfg.Catalog.Timeout = def.Catalog.Timeout
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = def.Server.Transport
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Probe.Workers <= 0 {
		cfg.Probe.Workers = def.Probe.Workers
	}
	if cfg.Probe.Timeout <= 0 {
		cfg.Probe.Timeout = def.Probe.Timeout
	}
	if cfg.Probe.Retries < 0 {
		cfg.Probe.Retries = def.Probe.Retries
	}
	if cfg.Probe.BackoffBase <= 0 {
		cfg.Probe.BackoffBase = def.Probe.BackoffBase
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}
