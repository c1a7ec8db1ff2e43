// Package mcp provides a Model Context Protocol interface to Token Tactics.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every game operation
//   - A thin HTTP proxy to the REST API (no game logic lives here)
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new game session with ruleset selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - command: Apply one command line to a session
//   - script: Apply a multi-line script, fail-fast
//   - game_state: Get the current state as a structured summary
//   - render_board: Emoji or ascii board rendering
//   - transcript: Retrieve the replayable command log
//   - list_configs: List available rulesets
//   - game_instructions: Full command grammar and rules
//
// Architecture:
//
// The Client proxies every tool call to the REST API over HTTP, so the MCP
// process can run separately from the game server and multiple MCP clients
// can share the same sessions. Tool results are plain text formatted for
// model consumption; the raw JSON lives behind the REST endpoints.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Set up and play full games autonomously
//   - Drive several concurrent sessions
//   - Inspect transcripts to reconstruct how a position arose
//   - Experiment with rulesets via list_configs and create_session
package mcp
