package cmd

import (
	"fmt"
	"os"

	"stacmcp/internal/config"
	"stacmcp/internal/estimate"
	"stacmcp/internal/stac"
	"stacmcp/internal/tools"
	"stacmcp/pkg/logging"
)

// loadConfig resolves the configuration directory (flag value or the per-user
// default) and initializes logging from the loaded level.
func loadConfig(configPath string, debug bool) (config.Config, error) {
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if debug {
		level = logging.LevelDebug
	}
	// MCP stdio transport owns stdout; logs go to stderr unconditionally.
	logging.Init(level, os.Stderr)
	return cfg, nil
}

// buildEstimator wires the STAC client and the estimator. No cube loader is
// wired; estimation uses asset metadata and HEAD probes.
func buildEstimator(cfg config.Config) (*stac.Client, *estimate.Estimator) {
	client := stac.NewClient(stac.ClientConfig{
		URL:     cfg.Catalog.URL,
		Headers: cfg.Catalog.Headers,
		Timeout: cfg.Catalog.Timeout,
	})

	prober := estimate.NewHeadProber(estimate.ProberConfig{
		Workers:       cfg.Probe.Workers,
		Timeout:       cfg.Probe.Timeout,
		Retries:       cfg.Probe.Retries,
		BackoffBase:   cfg.Probe.BackoffBase,
		DisableJitter: !cfg.Probe.JitterEnabled(),
		Headers:       cfg.Catalog.Headers,
	})

	estimator := estimate.NewEstimator(client, prober, estimate.NewRegistry(), nil, client.CatalogURL())
	return client, estimator
}

// buildProvider wires the full tool provider over the client and estimator.
func buildProvider(cfg config.Config) *tools.Provider {
	client, estimator := buildEstimator(cfg)
	cache := stac.NewSearchCache(cfg.Cache.TTL)
	return tools.NewProvider(client, estimator, cache)
}
