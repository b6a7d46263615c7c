// Package server exposes the tool provider over the Model Context Protocol.
//
// The Server wraps an mcp-go MCP server and one of three transports (stdio,
// SSE or streamable HTTP) selected by configuration. Tools are registered
// once at startup from the provider's metadata; the tool surface is static
// for the lifetime of the process.
package server
