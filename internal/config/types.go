package config

import "time"

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// DefaultCatalogURL is used when no catalog is configured. The Planetary
// Computer catalog is public and anonymous for read operations.
const DefaultCatalogURL = "https://planetarycomputer.microsoft.com/api/stac/v1"

// Config is the top-level configuration structure for stacmcp.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Server  ServerConfig  `yaml:"server"`
	Probe   ProbeConfig   `yaml:"probe"`
	Cache   CacheConfig   `yaml:"cache"`
	// LogLevel is one of debug, info, warn, error (default: info).
	LogLevel string `yaml:"logLevel,omitempty"`
}

// CatalogConfig describes the upstream STAC API.
type CatalogConfig struct {
	// URL is the STAC API root (default: Planetary Computer).
	URL string `yaml:"url,omitempty"`
	// Headers are sent with every catalog request (auth tokens etc.).
	Headers map[string]string `yaml:"headers,omitempty"`
	// Timeout bounds every catalog HTTP request. It is explicit
	// configuration threaded into the constructed client, never a global
	// default patched onto shared state.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // stdio, sse or streamable-http (default: stdio)
	Host      string `yaml:"host,omitempty"`      // Host to bind to (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // Port for HTTP transports (default: 8080)
}

// ProbeConfig tunes the parallel HEAD prober used for size estimation.
type ProbeConfig struct {
	// Workers bounds the number of concurrent HEAD requests (default: 4).
	Workers int `yaml:"workers,omitempty"`
	// Timeout bounds each individual HEAD request (default: 20s).
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Retries is the number of extra attempts after a transport failure
	// (default: 1). Completed responses are never retried.
	Retries int `yaml:"retries,omitempty"`
	// BackoffBase is the delay before the first retry; it doubles per
	// attempt (default: 500ms).
	BackoffBase time.Duration `yaml:"backoffBase,omitempty"`
	// Jitter randomizes retry delays to avoid synchronized retry storms.
	// Enabled by default; set to false to get deterministic backoff.
	Jitter *bool `yaml:"jitter,omitempty"`
}

// CacheConfig tunes the time-boxed search-result cache.
type CacheConfig struct {
	// TTL is how long a cached search result stays valid (default: 60s).
	// Zero disables caching.
	TTL time.Duration `yaml:"ttl,omitempty"`
}

// JitterEnabled resolves the tri-state Jitter field to its effective value.
func (p ProbeConfig) JitterEnabled() bool {
	if p.Jitter == nil {
		return true
	}
	return *p.Jitter
}

// GetDefaultConfig returns the default configuration for stacmcp.
func GetDefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			URL:     DefaultCatalogURL,
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Transport: MCPTransportStdio,
			Host:      "localhost",
			Port:      8080,
		},
		Probe: ProbeConfig{
			Workers:     4,
			Timeout:     20 * time.Second,
			Retries:     1,
			BackoffBase: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 60 * time.Second,
		},
		LogLevel: "info",
	}
}
