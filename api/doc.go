// Package api provides the HTTP REST surface of the Token Tactics engine.
//
// The api package implements:
//   - Session management endpoints
//   - Command and script execution against a session
//   - State, board render, and transcript retrieval
//   - Configuration listing, loading, and creation
//   - WebSocket upgrade handling for spectators
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Full JSON snapshot
//   - POST /api/sessions/{id}/command - Apply one command line
//   - POST /api/sessions/{id}/script - Apply a multi-line script, fail-fast
//   - GET /api/sessions/{id}/render?mode=emoji|ascii - Plain-text board
//   - GET /api/sessions/{id}/transcript - Replayable command log, text/plain
//
// Configuration:
//   - GET /api/configs - List available rulesets
//   - GET /api/configs/{name} - Get one ruleset
//   - POST /api/configs - Save a new ruleset
//
// Health:
//   - GET /api/health
//
// Commands are sent as POST with a JSON body:
//
//	{"command": "move a 1 0"}
//
// and scripts as:
//
//	{"script": "PLAYER Alice\nTOKEN a Alice\nnext_turn\n"}
//
// Error Handling:
//
// Transport failures (unknown session, bad body) get a non-2xx status with a
// JSON {"error": ...} body. A command the engine rejects is not a transport
// failure: the response is 200 with success=false and the rejection's
// error_kind, mirroring what a script replay would report.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
