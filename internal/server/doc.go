// Package server implements an MCP (Model Context Protocol) server that
// exposes the pixel grid pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - pixelgrid_image_info: dimensions and alpha range of an image
//   - pixelgrid_analyze: content box, background and pixel size, no output
//   - pixelgrid_crop: crop to content, optional grid overlay
//   - pixelgrid_downscale: N×N reconstruction, optional overlay and preview
//
// Tool results are the pipeline Summary encoded as JSON text content.
//
// # Image Caching
//
// Decoded source images are cached by path for the lifetime of the process.
// Whenever a tool writes a file, the cache entry for that path is dropped.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(logger, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
