// Package service provides the business logic layer for Token Tactics.
//
// The service package implements:
//   - Multi-session game management
//   - Command and script application with transcript recording
//   - Board rendering and state snapshots
//   - Ruleset management and loading
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages ruleset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, ruleset management, and
// business logic orchestration. Each session maintains its own game instance
// with independent state and its own replayable command transcript.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Apply commands
//	result, err := gameService.ApplyCommand(ctx, sessionInfo.ID, "PLAYER Alice")
//
// Transcripts:
//
// Every successfully applied line is appended to the session transcript,
// comments and blank lines included. The transcript plus the ruleset is the
// whole persistence format: replaying it into a fresh game reproduces the
// session exactly, random placement included.
package service
