// Package config defines the stacmcp configuration structure and loading
// behavior.
//
// Configuration is layered: built-in defaults, then an optional
// ~/.config/stacmcp/config.yaml, then STACMCP_* environment variables. A
// missing config file is normal; a malformed one is an error.
//
// All timeouts live here as explicit values that get threaded into the
// constructed HTTP clients. Nothing in stacmcp patches shared library state
// to change ambient defaults.
package config
