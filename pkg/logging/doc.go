// Package logging provides structured, leveled logging for stacmcp on top of
// Go's standard slog package.
//
// Every log entry carries a subsystem identifier so that output from the
// different layers (STAC client, estimator, prober, MCP server) can be
// filtered and categorized:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Server", "starting MCP server on %s", addr)
//	logging.Debug("Prober", "HEAD %s attempt %d failed", href, attempt)
//	logging.Error("Client", err, "search request failed")
//
// When the server runs with stdio transport the MCP protocol owns stdout, so
// logs always go to stderr (or a configured writer).
//
// The package is safe for concurrent use; level filtering happens at the
// handler so suppressed messages cost no allocation.
package logging
