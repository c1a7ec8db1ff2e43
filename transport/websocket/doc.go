// Package websocket pushes live game updates to spectators.
//
// Each connected client watches exactly one session. The Hub keeps the set of
// clients per session id and fans out a Message whenever a transport applies
// a command: the message carries the command's summary line and the full
// board snapshot, so a viewer can redraw without polling REST.
//
// Clients never drive the game over the socket. Commands arrive through the
// REST API or the MCP tools; the socket is a one-way feed apart from the
// ping/pong keepalive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	// in an http handler:
//	hub.ServeWS(w, r, sessionID)
//	// after a command is applied:
//	hub.BroadcastState(sessionID, result.Summary, result.State)
//
// A client that cannot keep up with the broadcast rate is disconnected rather
// than allowed to stall the hub loop.
package websocket
