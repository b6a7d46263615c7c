// Package tools exposes the catalog operations as MCP tools.
//
// The Provider implements tool discovery (GetTools) and dispatch
// (ExecuteTool) over the STAC client and the size estimator. Handlers
// normalize loosely typed tool arguments (agents frequently pass
// JSON-encoded strings where arrays or objects are expected), run the
// operation, and render the outcome as text or JSON per the caller's
// output_format.
package tools
