// Package server implements the MCP (Model Context Protocol) server for texture atlas packing.
//
// The server owns a single atlas for the lifetime of the process. Clients register
// frames, pack them and read back the canvas, the manifest or individual frames.
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
// Registration:
//   - atlas_add_frame: Register one frame from a file path or base64 data
//   - atlas_add_directory: Register every image in a directory
//   - atlas_reset: Remove all frames
//
// Inspection:
//   - atlas_list_frames: List frames with their trim and placement data
//   - atlas_get_frame: Describe a single frame
//
// Packing and output:
//   - atlas_pack: Pack all frames, optionally with a new capacity
//   - atlas_manifest: Render the manifest as plist or JSON text
//   - atlas_extract_frame: Return a packed frame's pixels as base64 PNG
//   - atlas_save: Write the canvas and manifest to disk
//
// Registering a frame discards the packed canvas; call atlas_pack again before
// reading output.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
